package ports

import (
	"context"
	"io"

	"github.com/paperledger/invoice-extract/internal/core/domain"
)

// InvoiceProcessor is the inbound contract for single-document extraction.
// A non-nil error is always a validation failure; everything after validation
// degrades internally instead of failing.
type InvoiceProcessor interface {
	Process(ctx context.Context, input *domain.DocumentInput) (*domain.ProcessingResult, error)
}

// TextExtractor produces a best-effort textual representation of the upload.
// It never fails: structural extraction errors degrade to a lossy decode and
// image uploads yield empty text.
type TextExtractor interface {
	Extract(ctx context.Context, input *domain.DocumentInput) domain.ExtractedText
}

// ObjectStorage archives source documents so the review screen can fetch the
// original file alongside the extracted record.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
