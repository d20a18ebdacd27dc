// Package pdftext extracts best-effort plain text from uploaded documents.
// PDF uploads go through structural parsing with a lossy byte-scan fallback;
// image uploads have no text layer and yield empty text.
package pdftext

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/paperledger/invoice-extract/internal/core/domain"
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract never fails: any structural error degrades to a lossy decode of the
// raw bytes, and non-PDF uploads return empty text so the caller's fallback
// path takes over.
func (e *Extractor) Extract(_ context.Context, in *domain.DocumentInput) domain.ExtractedText {
	if in == nil || !strings.EqualFold(strings.TrimSpace(in.MimeType), "application/pdf") {
		return domain.ExtractedText{}
	}

	text, ok := pdfPlainText(in.Bytes)
	if !ok || text == "" {
		text = lossyDecode(in.Bytes)
	}
	return domain.ExtractedText{Raw: text, Length: len(text)}
}

// pdfPlainText parses the document structure and concatenates its text layer.
// The parser panics on malformed input, so the whole call is guarded.
func pdfPlainText(raw []byte) (text string, ok bool) {
	defer func() {
		if recover() != nil {
			text, ok = "", false
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", false
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", false
	}
	buf, err := io.ReadAll(plain)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(buf)), true
}

// lossyDecode keeps printable ASCII and line breaks from the raw bytes. Good
// enough for text-bearing files mislabelled as PDF and for PDFs whose text
// layer the parser cannot walk.
func lossyDecode(raw []byte) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, c := range raw {
		switch {
		case c >= 0x20 && c < 0x7f:
			b.WriteByte(c)
		case c == '\n' || c == '\r' || c == '\t':
			b.WriteByte(c)
		}
	}
	return strings.TrimSpace(b.String())
}
