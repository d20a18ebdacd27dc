package httpadapter

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/paperledger/invoice-extract/internal/config"
	"github.com/paperledger/invoice-extract/internal/core/usecase"
	"github.com/paperledger/invoice-extract/internal/extraction"
	"github.com/paperledger/invoice-extract/internal/infrastructure/extractor/pdftext"
)

func testRouterConfig() config.Config {
	return config.Config{
		MaxFileSizeBytes: 10 * 1024 * 1024,
		MinFileSizeBytes: 100,
	}
}

func newTestHandler(cfg config.Config) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uc := usecase.NewProcessInvoiceUseCase(
		usecase.Config{
			MaxFileSizeBytes: cfg.MaxFileSizeBytes,
			MinFileSizeBytes: cfg.MinFileSizeBytes,
		},
		pdftext.NewExtractor(), nil,
		extraction.DefaultTuning(), extraction.NewSeededRand(1),
		logger, nil,
	)
	return NewRouter(cfg, uc, nil).Handler()
}

func multipartUpload(t *testing.T, fileName, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func postInvoice(t *testing.T, handler http.Handler, fileName, contentType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, formContentType := multipartUpload(t, fileName, contentType, content)
	req := httptest.NewRequest(http.MethodPost, "/v1/invoices/process", body)
	req.Header.Set("Content-Type", formContentType)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	return res
}

func TestProcessInvoiceSuccess(t *testing.T) {
	handler := newTestHandler(testRouterConfig())

	content := []byte("INVOICE\nFrom: Summit Technology Solutions\nInvoice #: INV-2026-1042\nDate: 2026-07-15\nTOTAL: $1,234.56\nThank you for your business.\n")
	res := postInvoice(t, handler, "invoice-1042.pdf", "application/pdf", content)

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", res.Code, res.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Vendor    string  `json:"vendor"`
			Amount    float64 `json:"amount"`
			Subtotal  float64 `json:"subtotal"`
			TaxAmount float64 `json:"tax_amount"`
			Currency  string  `json:"currency"`
			LineItems []struct {
				Description string  `json:"description"`
				Quantity    int     `json:"quantity"`
				UnitPrice   float64 `json:"unit_price"`
				Amount      float64 `json:"amount"`
			} `json:"line_items"`
		} `json:"data"`
		Confidence map[string]float64 `json:"confidence_scores"`
		Quality    struct {
			ValidationPassed bool `json:"validation_passed"`
		} `json:"quality_metrics"`
		Metadata struct {
			ProcessingTimeMs int64  `json:"processing_time_ms"`
			FileName         string `json:"file_name"`
			APIVersion       string `json:"api_version"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if !resp.Success {
		t.Error("expected success")
	}
	if resp.Data.Amount != 1234.56 {
		t.Errorf("amount = %.2f, want 1234.56", resp.Data.Amount)
	}
	if resp.Data.Currency != "USD" {
		t.Errorf("currency = %q", resp.Data.Currency)
	}
	if diff := resp.Data.Amount - (resp.Data.Subtotal + resp.Data.TaxAmount); diff > 0.005 || diff < -0.005 {
		t.Errorf("amount %.2f != subtotal %.2f + tax %.2f", resp.Data.Amount, resp.Data.Subtotal, resp.Data.TaxAmount)
	}
	var itemSum float64
	for _, item := range resp.Data.LineItems {
		itemSum += item.Amount
	}
	if diff := itemSum - resp.Data.Subtotal; diff > 0.005 || diff < -0.005 {
		t.Errorf("line item sum %.2f != subtotal %.2f", itemSum, resp.Data.Subtotal)
	}
	if resp.Confidence["overall"] <= 0 || resp.Confidence["overall"] > 1 {
		t.Errorf("overall confidence = %v", resp.Confidence["overall"])
	}
	if !resp.Quality.ValidationPassed {
		t.Error("validation must pass")
	}
	if resp.Metadata.FileName != "invoice-1042.pdf" {
		t.Errorf("file name = %q", resp.Metadata.FileName)
	}
	if resp.Metadata.ProcessingTimeMs < 500 || resp.Metadata.ProcessingTimeMs > 2000 {
		t.Errorf("processing time %dms outside model bounds", resp.Metadata.ProcessingTimeMs)
	}
}

func TestProcessInvoiceMissingFile(t *testing.T) {
	handler := newTestHandler(testRouterConfig())

	req := httptest.NewRequest(http.MethodPost, "/v1/invoices/process", strings.NewReader("not multipart"))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(res.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != "MISSING_FILE" {
		t.Errorf("code = %q, want MISSING_FILE", resp.Code)
	}
}

func TestProcessInvoiceUnsupportedType(t *testing.T) {
	handler := newTestHandler(testRouterConfig())

	res := postInvoice(t, handler, "archive.zip", "application/zip", bytes.Repeat([]byte{'z'}, 512))
	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(res.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != "INVALID_FILE_TYPE" {
		t.Errorf("code = %q, want INVALID_FILE_TYPE", resp.Code)
	}
	if len(resp.SupportedTypes) == 0 {
		t.Error("expected supported_types in rejection payload")
	}
}

func TestProcessInvoiceTooLarge(t *testing.T) {
	cfg := testRouterConfig()
	cfg.MaxFileSizeBytes = 1024
	handler := newTestHandler(cfg)

	res := postInvoice(t, handler, "big.pdf", "application/pdf", bytes.Repeat([]byte{'x'}, 2048))
	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(res.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != "FILE_TOO_LARGE" {
		t.Errorf("code = %q, want FILE_TOO_LARGE", resp.Code)
	}
	if resp.MaxSize != 1024 || resp.ActualSize != 2048 {
		t.Errorf("max/actual = %d/%d, want 1024/2048", resp.MaxSize, resp.ActualSize)
	}
}

func TestProcessInvoiceTooSmall(t *testing.T) {
	handler := newTestHandler(testRouterConfig())

	res := postInvoice(t, handler, "tiny.pdf", "application/pdf", []byte("x"))
	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(res.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != "FILE_TOO_SMALL" {
		t.Errorf("code = %q, want FILE_TOO_SMALL", resp.Code)
	}
}

func TestProcessInvoiceMethodNotAllowed(t *testing.T) {
	handler := newTestHandler(testRouterConfig())

	req := httptest.NewRequest(http.MethodGet, "/v1/invoices/process", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", res.Code)
	}
}

func TestHealthz(t *testing.T) {
	handler := newTestHandler(testRouterConfig())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.Code)
	}
	if res.Header().Get(requestIDHeader) == "" {
		t.Error("expected request id header")
	}
}

func TestCapabilities(t *testing.T) {
	handler := newTestHandler(testRouterConfig())

	req := httptest.NewRequest(http.MethodGet, "/v1/capabilities", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.Code)
	}

	var resp struct {
		Service        string   `json:"service"`
		Version        string   `json:"version"`
		SupportedTypes []string `json:"supported_types"`
		MaxFileSize    int64    `json:"max_file_size"`
		Capabilities   []string `json:"capabilities"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Version != "1.0" {
		t.Errorf("version = %q", resp.Version)
	}
	if len(resp.SupportedTypes) == 0 || len(resp.Capabilities) == 0 {
		t.Error("expected supported types and capability list")
	}
	if resp.MaxFileSize != 10*1024*1024 {
		t.Errorf("max file size = %d", resp.MaxFileSize)
	}
}
