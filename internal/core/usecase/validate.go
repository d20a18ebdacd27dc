package usecase

import (
	"fmt"
	"strings"

	"github.com/paperledger/invoice-extract/internal/core/domain"
)

// supportedMimeTypes is the upload allow-list: PDF plus common raster image
// types. Matching is case-insensitive.
var supportedMimeTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/tiff",
	"image/webp",
}

// SupportedTypes returns a copy of the allow-list for capability descriptors
// and error payloads.
func SupportedTypes() []string {
	out := make([]string, len(supportedMimeTypes))
	copy(out, supportedMimeTypes)
	return out
}

func isSupportedType(mimeType string) bool {
	normalized := strings.ToLower(strings.TrimSpace(mimeType))
	for _, t := range supportedMimeTypes {
		if normalized == t {
			return true
		}
	}
	return false
}

// validate enforces the input contract. A non-nil error is terminal: no later
// pipeline stage runs.
func (uc *ProcessInvoiceUseCase) validate(in *domain.DocumentInput) error {
	if in == nil || len(in.Bytes) == 0 {
		return domain.WrapError(domain.ErrMissingFile, "validate input", fmt.Errorf("empty upload"))
	}
	if !isSupportedType(in.MimeType) {
		return domain.WrapError(domain.ErrInvalidFileType, "validate input", fmt.Errorf("mime type %q", in.MimeType))
	}
	if in.SizeBytes > uc.cfg.MaxFileSizeBytes {
		return domain.WrapError(domain.ErrFileTooLarge, "validate input",
			fmt.Errorf("%d bytes exceeds limit %d", in.SizeBytes, uc.cfg.MaxFileSizeBytes))
	}
	if in.SizeBytes < uc.cfg.MinFileSizeBytes {
		return domain.WrapError(domain.ErrFileTooSmall, "validate input",
			fmt.Errorf("%d bytes below minimum %d", in.SizeBytes, uc.cfg.MinFileSizeBytes))
	}
	return nil
}
