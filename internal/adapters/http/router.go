package httpadapter

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/paperledger/invoice-extract/internal/config"
	"github.com/paperledger/invoice-extract/internal/core/domain"
	"github.com/paperledger/invoice-extract/internal/core/ports"
	"github.com/paperledger/invoice-extract/internal/core/usecase"
	"github.com/paperledger/invoice-extract/internal/export"
	"github.com/paperledger/invoice-extract/internal/observability/metrics"
)

type Router struct {
	cfg       config.Config
	processor ports.InvoiceProcessor
	metrics   *metrics.Metrics
}

func NewRouter(cfg config.Config, processor ports.InvoiceProcessor, m *metrics.Metrics) *Router {
	return &Router{cfg: cfg, processor: processor, metrics: m}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/capabilities", rt.capabilities)
	mux.HandleFunc("/v1/invoices/process", rt.processInvoice)
	mux.HandleFunc("/v1/invoices/export", rt.exportInvoice)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = recoverMiddleware(mux)
	if rt.cfg.APIMaxInFlight > 0 {
		handler = gateAPI(handler, func(next http.Handler) http.Handler {
			wait := time.Duration(rt.cfg.BackpressureWaitMs) * time.Millisecond
			return backpressureMiddleware(next, rt.cfg.APIMaxInFlight, wait)
		})
	}
	if rt.cfg.APIRateLimitRPS > 0 {
		handler = gateAPI(handler, func(next http.Handler) http.Handler {
			return rateLimitMiddleware(next, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
		})
	}
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

// gateAPI applies a traffic gate to /v1/ routes only, so health and metrics
// probes cannot be rejected under load.
func gateAPI(next http.Handler, gate func(http.Handler) http.Handler) http.Handler {
	gated := gate(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/v1/") {
			gated.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) capabilities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service":         domain.Provider,
		"version":         domain.APIVersion,
		"provider":        domain.Provider,
		"supported_types": usecase.SupportedTypes(),
		"max_file_size":   rt.cfg.MaxFileSizeBytes,
		"capabilities": []string{
			"field_extraction",
			"confidence_scoring",
			"line_item_reconciliation",
			"quality_metrics",
			"xlsx_export",
		},
	})
}

type errorResponse struct {
	Success          bool     `json:"success"`
	Error            string   `json:"error"`
	Code             string   `json:"code"`
	SupportedTypes   []string `json:"supported_types,omitempty"`
	MaxSize          int64    `json:"max_size,omitempty"`
	ActualSize       int64    `json:"actual_size,omitempty"`
	ProcessingTimeMs int64    `json:"processing_time_ms"`
}

func (rt *Router) processInvoice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	start := time.Now()

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:            "multipart field 'file' is required",
			Code:             domain.CodeMissingFile,
			ProcessingTimeMs: time.Since(start).Milliseconds(),
		})
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:            "failed to read uploaded file",
			Code:             domain.CodeMissingFile,
			ProcessingTimeMs: time.Since(start).Milliseconds(),
		})
		return
	}

	input := &domain.DocumentInput{
		Bytes:     raw,
		MimeType:  fileHeader.Header.Get("Content-Type"),
		FileName:  fileHeader.Filename,
		SizeBytes: int64(len(raw)),
	}

	result, err := rt.processor.Process(r.Context(), input)
	if err != nil {
		rt.writeProcessError(w, err, input, start)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) writeProcessError(w http.ResponseWriter, err error, in *domain.DocumentInput, start time.Time) {
	resp := errorResponse{
		Error:            err.Error(),
		Code:             domain.ErrorCode(err),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}
	switch resp.Code {
	case domain.CodeInvalidFileType:
		resp.SupportedTypes = usecase.SupportedTypes()
	case domain.CodeFileTooLarge:
		resp.MaxSize = rt.cfg.MaxFileSizeBytes
		resp.ActualSize = in.SizeBytes
	}
	writeJSON(w, mapErrorToHTTPStatus(err), resp)
}

func (rt *Router) exportInvoice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var record domain.InvoiceRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	workbook, err := export.Workbook(&record)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: "export failed",
			Code:  domain.CodeProcessingError,
		})
		return
	}

	name := exportFileName(record.InvoiceNumber)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(workbook)
}

func exportFileName(invoiceNumber string) string {
	slug := strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			return c
		default:
			return -1
		}
	}, invoiceNumber)
	if slug == "" {
		slug = "invoice"
	}
	return slug + ".xlsx"
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
