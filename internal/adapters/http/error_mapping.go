package httpadapter

import (
	"net/http"

	"github.com/paperledger/invoice-extract/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrMissingFile),
		domain.IsKind(err, domain.ErrInvalidFileType),
		domain.IsKind(err, domain.ErrFileTooLarge),
		domain.IsKind(err, domain.ErrFileTooSmall):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
