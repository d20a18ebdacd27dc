package domain

import "time"

const (
	APIVersion = "1.0"
	Provider   = "invoice-extract"
)

// SourceKind names the strategy that produced a field value. Confidence tiers
// are ordered: cascade matches above filename heuristics above synthetic
// defaults.
type SourceKind string

const (
	SourceCascadeMatch      SourceKind = "cascade-match"
	SourceFilenameHeuristic SourceKind = "filename-heuristic"
	SourceSyntheticDefault  SourceKind = "synthetic-default"
)

// Field names shared by the rule table, confidence map, and metrics labels.
// They match the wire names of InvoiceRecord.
const (
	FieldVendor        = "vendor"
	FieldVendorAddress = "vendor_address"
	FieldVendorPhone   = "vendor_phone"
	FieldVendorEmail   = "vendor_email"
	FieldInvoiceNumber = "invoice_number"
	FieldAmount        = "amount"
	FieldSubtotal      = "subtotal"
	FieldTaxAmount     = "tax_amount"
	FieldCurrency      = "currency"
	FieldInvoiceDate   = "invoice_date"
	FieldDueDate       = "due_date"
	FieldPaymentTerms  = "payment_terms"
	FieldLineItems     = "line_items"
	FieldOverall       = "overall"
)

// DocumentInput is one uploaded document, fully buffered.
type DocumentInput struct {
	Bytes     []byte
	MimeType  string
	FileName  string
	SizeBytes int64
}

// ExtractedText is the best-effort textual representation of a document.
// Length is cached because every downstream gate keys off it.
type ExtractedText struct {
	Raw    string
	Length int
}

// FieldCandidate is one resolved value for one field. Exactly one candidate
// per field survives to the record.
type FieldCandidate struct {
	Field      string
	Value      string
	Confidence float64
	Source     SourceKind
}

// LineItem is one allocated slice of the subtotal. The wire name of Total is
// "amount"; the review screen round-trips this shape unchanged.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"amount"`
}

// InvoiceRecord is the structured output of the pipeline and the system's
// external compatibility surface: the review screen submits an edited copy
// back in exactly this shape.
type InvoiceRecord struct {
	Vendor        string     `json:"vendor"`
	VendorAddress string     `json:"vendor_address"`
	VendorPhone   string     `json:"vendor_phone"`
	VendorEmail   string     `json:"vendor_email"`
	InvoiceNumber string     `json:"invoice_number"`
	Amount        float64    `json:"amount"`
	Subtotal      float64    `json:"subtotal"`
	TaxAmount     float64    `json:"tax_amount"`
	Currency      string     `json:"currency"`
	InvoiceDate   string     `json:"invoice_date"`
	DueDate       string     `json:"due_date"`
	PaymentTerms  string     `json:"payment_terms"`
	LineItems     []LineItem `json:"line_items"`
}

// QualityMetrics describes how trustworthy the extraction was.
type QualityMetrics struct {
	TextClarity       float64 `json:"text_clarity"`
	ImageQuality      float64 `json:"image_quality"`
	CompletenessScore float64 `json:"completeness_score"`
	ValidationPassed  bool    `json:"validation_passed"`
}

// ProcessingMetadata carries request-level facts about one invocation.
type ProcessingMetadata struct {
	ProcessingTimeMs int64     `json:"processing_time_ms"`
	FileSizeBytes    int64     `json:"file_size_bytes"`
	FileType         string    `json:"file_type"`
	FileName         string    `json:"file_name"`
	Timestamp        time.Time `json:"timestamp"`
	APIVersion       string    `json:"api_version"`
	Provider         string    `json:"provider"`
	ArchivePath      string    `json:"archive_path,omitempty"`
}

// ProcessingResult is the outbound contract of a successful invocation.
type ProcessingResult struct {
	Success    bool               `json:"success"`
	Record     *InvoiceRecord     `json:"data"`
	Confidence map[string]float64 `json:"confidence_scores"`
	Quality    *QualityMetrics    `json:"quality_metrics"`
	Metadata   ProcessingMetadata `json:"metadata"`
	Error      string             `json:"error,omitempty"`
	Code       string             `json:"code,omitempty"`
}
