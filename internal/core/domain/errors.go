package domain

import (
	"errors"
	"fmt"
)

// Input validation failures are fatal: no later pipeline stage runs and the
// caller gets a structured error immediately.
var (
	ErrMissingFile     = errors.New("no file provided")
	ErrInvalidFileType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file exceeds maximum size")
	ErrFileTooSmall    = errors.New("file below minimum size")
)

// Stable error codes surfaced to API clients.
const (
	CodeMissingFile     = "MISSING_FILE"
	CodeInvalidFileType = "INVALID_FILE_TYPE"
	CodeFileTooLarge    = "FILE_TOO_LARGE"
	CodeFileTooSmall    = "FILE_TOO_SMALL"
	CodeProcessingError = "PROCESSING_ERROR"
)

// ErrorCode maps a pipeline error to its client-facing code. Anything that is
// not a validation failure is an unexpected internal error.
func ErrorCode(err error) string {
	switch {
	case IsKind(err, ErrMissingFile):
		return CodeMissingFile
	case IsKind(err, ErrInvalidFileType):
		return CodeInvalidFileType
	case IsKind(err, ErrFileTooLarge):
		return CodeFileTooLarge
	case IsKind(err, ErrFileTooSmall):
		return CodeFileTooSmall
	default:
		return CodeProcessingError
	}
}

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
