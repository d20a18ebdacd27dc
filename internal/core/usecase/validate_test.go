package usecase

import (
	"context"
	"testing"

	"github.com/paperledger/invoice-extract/internal/core/domain"
)

func TestValidateRejections(t *testing.T) {
	uc := newTestUseCase(stubExtractor{})

	cases := []struct {
		name     string
		input    *domain.DocumentInput
		wantKind error
		wantCode string
	}{
		{
			name:     "nil input",
			input:    nil,
			wantKind: domain.ErrMissingFile,
			wantCode: domain.CodeMissingFile,
		},
		{
			name:     "empty bytes",
			input:    &domain.DocumentInput{MimeType: "application/pdf", FileName: "a.pdf"},
			wantKind: domain.ErrMissingFile,
			wantCode: domain.CodeMissingFile,
		},
		{
			name: "unsupported type",
			input: &domain.DocumentInput{
				Bytes: make([]byte, 512), MimeType: "application/zip",
				FileName: "a.zip", SizeBytes: 512,
			},
			wantKind: domain.ErrInvalidFileType,
			wantCode: domain.CodeInvalidFileType,
		},
		{
			name: "too large",
			input: &domain.DocumentInput{
				Bytes: make([]byte, 1), MimeType: "application/pdf",
				FileName: "big.pdf", SizeBytes: 11 * 1024 * 1024,
			},
			wantKind: domain.ErrFileTooLarge,
			wantCode: domain.CodeFileTooLarge,
		},
		{
			name: "too small",
			input: &domain.DocumentInput{
				Bytes: make([]byte, 50), MimeType: "application/pdf",
				FileName: "tiny.pdf", SizeBytes: 50,
			},
			wantKind: domain.ErrFileTooSmall,
			wantCode: domain.CodeFileTooSmall,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := uc.Process(context.Background(), tc.input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if result != nil {
				t.Error("expected nil result on validation failure")
			}
			if !domain.IsKind(err, tc.wantKind) {
				t.Errorf("error %v, want kind %v", err, tc.wantKind)
			}
			if got := domain.ErrorCode(err); got != tc.wantCode {
				t.Errorf("code = %q, want %q", got, tc.wantCode)
			}
		})
	}
}

func TestValidateAcceptsAllSupportedTypes(t *testing.T) {
	uc := newTestUseCase(stubExtractor{})
	for _, mime := range SupportedTypes() {
		in := &domain.DocumentInput{
			Bytes: make([]byte, 512), MimeType: mime,
			FileName: "doc", SizeBytes: 512,
		}
		if err := uc.validate(in); err != nil {
			t.Errorf("validate(%q) = %v, want nil", mime, err)
		}
	}
}

func TestValidateTypeCaseInsensitive(t *testing.T) {
	uc := newTestUseCase(stubExtractor{})
	in := &domain.DocumentInput{
		Bytes: make([]byte, 512), MimeType: " Application/PDF ",
		FileName: "doc.pdf", SizeBytes: 512,
	}
	if err := uc.validate(in); err != nil {
		t.Errorf("validate = %v, want nil for mixed-case mime type", err)
	}
}

func TestValidateTypeCheckedBeforeSize(t *testing.T) {
	uc := newTestUseCase(stubExtractor{})
	in := &domain.DocumentInput{
		Bytes: make([]byte, 1), MimeType: "application/zip",
		FileName: "huge.zip", SizeBytes: 11 * 1024 * 1024,
	}
	err := uc.validate(in)
	if !domain.IsKind(err, domain.ErrInvalidFileType) {
		t.Errorf("error %v, want invalid type to win over size", err)
	}
}
