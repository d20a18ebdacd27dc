package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/paperledger/invoice-extract/internal/config"
	"github.com/paperledger/invoice-extract/internal/core/domain"
	"github.com/paperledger/invoice-extract/internal/core/ports"
	"github.com/paperledger/invoice-extract/internal/core/usecase"
	"github.com/paperledger/invoice-extract/internal/extraction"
	"github.com/paperledger/invoice-extract/internal/infrastructure/extractor/pdftext"
	"github.com/paperledger/invoice-extract/internal/infrastructure/storage/localfs"
	"github.com/paperledger/invoice-extract/internal/observability/logging"
	"github.com/paperledger/invoice-extract/internal/observability/metrics"
)

type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics

	Processor ports.InvoiceProcessor
}

func New(cfg config.Config) (*App, error) {
	logger := logging.NewJSONLogger(domain.Provider, cfg.LogLevel)

	tuning, err := extraction.LoadTuning(cfg.TuningPath)
	if err != nil {
		return nil, fmt.Errorf("load tuning: %w", err)
	}

	var archive ports.ObjectStorage
	if cfg.ArchiveDir != "" {
		archive, err = localfs.New(cfg.ArchiveDir)
		if err != nil {
			return nil, fmt.Errorf("init upload archive: %w", err)
		}
	}

	m := metrics.New(domain.Provider)

	processor := usecase.NewProcessInvoiceUseCase(
		usecase.Config{
			MaxFileSizeBytes: cfg.MaxFileSizeBytes,
			MinFileSizeBytes: cfg.MinFileSizeBytes,
			SimulateLatency:  cfg.SimulateLatency,
		},
		pdftext.NewExtractor(),
		archive,
		tuning,
		extraction.NewRand(),
		logger,
		m,
	)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Metrics:   m,
		Processor: processor,
	}, nil
}
