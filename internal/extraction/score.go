package extraction

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paperledger/invoice-extract/internal/core/domain"
)

// Reconciliation tolerance for the hard numeric invariants, in dollars.
const invariantTolerance = 0.01

// invoiceNumberBoost is added when the extracted number shares a digit run
// with the upload's filename.
const invoiceNumberBoost = 0.02

// Processing-time model: monotonic in size, clamped to [min, max]. It is a
// latency estimate for backpressure, not a measured duration.
const (
	bytesPerMs    = 100_000
	minEstimateMs = 500
	maxEstimateMs = 2000
)

// Scorer aggregates per-field confidences and quality metrics.
type Scorer struct {
	tuning Tuning
}

func NewScorer(t Tuning) *Scorer {
	return &Scorer{tuning: t}
}

// Confidence builds the per-field confidence map plus the overall entry.
// Overall is a tiered function of whether usable text was present; per-field
// values come from each surviving candidate's tier.
func (s *Scorer) Confidence(f Fields, text domain.ExtractedText, fileName string) map[string]float64 {
	overall := s.tuning.OverallWithoutText
	if text.Length > MinTextLength {
		overall = s.tuning.OverallWithText
	}

	m := map[string]float64{
		domain.FieldVendor:        f.Vendor.Confidence,
		domain.FieldVendorAddress: f.VendorAddress.Confidence,
		domain.FieldVendorPhone:   f.VendorPhone.Confidence,
		domain.FieldVendorEmail:   f.VendorEmail.Confidence,
		domain.FieldInvoiceNumber: invoiceNumberConfidence(f.InvoiceNumber, fileName),
		domain.FieldAmount:        f.Amount.Confidence,
		domain.FieldSubtotal:      f.Amount.Confidence,
		domain.FieldTaxAmount:     f.Amount.Confidence,
		domain.FieldCurrency:      f.Amount.Confidence,
		domain.FieldInvoiceDate:   f.InvoiceDate.Confidence,
		domain.FieldDueDate:       f.DueDate.Confidence,
		domain.FieldPaymentTerms:  f.PaymentTerms.Confidence,
		domain.FieldLineItems:     f.Amount.Confidence,
		domain.FieldOverall:       overall,
	}
	for k, v := range m {
		m[k] = clamp01(v)
	}
	return m
}

// Quality derives the quality metrics from the text signal and the assembled
// record. ValidationPassed only drops when a hard invariant is broken, which
// the reconciler rules out by construction.
func (s *Scorer) Quality(record *domain.InvoiceRecord, text domain.ExtractedText) domain.QualityMetrics {
	clarity, imageQuality := 0.55, 0.60
	if text.Length > MinTextLength {
		clarity, imageQuality = 0.88, 0.82
	}
	return domain.QualityMetrics{
		TextClarity:       clarity,
		ImageQuality:      imageQuality,
		CompletenessScore: completeness(record),
		ValidationPassed:  ValidateRecord(record),
	}
}

// ValidateRecord checks the two hard reconciliation invariants:
// amount == subtotal + tax and sum(line item totals) == subtotal,
// each within a cent.
func ValidateRecord(r *domain.InvoiceRecord) bool {
	if r == nil {
		return false
	}
	tol := decimal.NewFromFloat(invariantTolerance)

	amount := decimal.NewFromFloat(r.Amount)
	sub := decimal.NewFromFloat(r.Subtotal)
	tax := decimal.NewFromFloat(r.TaxAmount)
	if amount.Sub(sub.Add(tax)).Abs().GreaterThan(tol) {
		return false
	}

	itemSum := decimal.Zero
	for _, item := range r.LineItems {
		itemSum = itemSum.Add(decimal.NewFromFloat(item.Total))
	}
	return itemSum.Sub(sub).Abs().LessThanOrEqual(tol)
}

// EstimateProcessingTime models request latency as a bounded monotonic
// function of upload size.
func EstimateProcessingTime(sizeBytes int64) time.Duration {
	ms := sizeBytes / bytesPerMs
	if ms < minEstimateMs {
		ms = minEstimateMs
	}
	if ms > maxEstimateMs {
		ms = maxEstimateMs
	}
	return time.Duration(ms) * time.Millisecond
}

func invoiceNumberConfidence(c domain.FieldCandidate, fileName string) float64 {
	number, name := digitsOf(c.Value), digitsOf(fileName)
	if len(number) < 3 || name == "" {
		return c.Confidence
	}
	for i := 0; i+3 <= len(number); i++ {
		if strings.Contains(name, number[i:i+3]) {
			return clamp01(c.Confidence + invoiceNumberBoost)
		}
	}
	return c.Confidence
}

func completeness(r *domain.InvoiceRecord) float64 {
	if r == nil {
		return 0
	}
	present, total := 0, 0
	for _, s := range []string{
		r.Vendor, r.VendorAddress, r.VendorPhone, r.VendorEmail,
		r.InvoiceNumber, r.Currency, r.InvoiceDate, r.DueDate, r.PaymentTerms,
	} {
		total++
		if strings.TrimSpace(s) != "" {
			present++
		}
	}
	for _, v := range []float64{r.Amount, r.Subtotal, r.TaxAmount} {
		total++
		if v > 0 {
			present++
		}
	}
	total++
	if len(r.LineItems) > 0 {
		present++
	}
	return float64(present) / float64(total)
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
