package extraction

import (
	"regexp"

	"github.com/paperledger/invoice-extract/internal/core/domain"
)

// Rule is one candidate pattern in a field's cascade. Patterns run in order,
// most specific first; the first sane match wins and the rule's tier becomes
// the field confidence. Each pattern captures the field value in group 1.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Tier    float64
}

// RuleTable maps a field name to its ordered candidate patterns. Exposed so
// rules can be inspected and unit-tested independently of control flow.
type RuleTable map[string][]Rule

var (
	reVendorLabelled = regexp.MustCompile(`(?im)^[ \t]*(?:from|vendor|bill from|sold by|remit to|supplier)[ \t]*[:\-][ \t]*(\S[^\r\n]*?)[ \t]*$`)
	reVendorBare     = regexp.MustCompile(`(?m)([A-Z][A-Za-z&.,' -]{2,50}(?:Inc|LLC|Ltd|Corp|Corporation|Company|Co|GmbH)\.?)`)

	reNumberLabelled = regexp.MustCompile(`(?i)invoice[ \t]*(?:#|no\.?|num(?:ber)?)?[ \t]*[:\-]?[ \t]*#?[ \t]*([A-Za-z]{0,5}-?\d[\w-]{2,})`)
	reNumberBare     = regexp.MustCompile(`\b(INV[-\s]?\d{3,12})\b`)

	reAmountLabelled = regexp.MustCompile(`(?i)(?:grand[ \t]+total|total[ \t]+due|amount[ \t]+due|balance[ \t]+due|total)[ \t]*[:\-]?[ \t]*(?:USD|\$)?[ \t]*([\d,]+(?:\.\d{1,2})?)`)
	reAmountBare     = regexp.MustCompile(`\$[ \t]*([\d,]+\.\d{2})`)

	reDateLabelled = regexp.MustCompile(`(?i)(?:invoice[ \t]+date|date[ \t]+of[ \t]+issue|issue[ \t]+date|dated?)[ \t]*[:\-][ \t]*(\d{4}-\d{2}-\d{2}|\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}|[A-Za-z]{3,9}\.?[ \t]\d{1,2},?[ \t]\d{4})`)
	reDateISO      = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	reDateSlash    = regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{4})\b`)
)

// DefaultRules builds the cascade for the four directly extracted fields.
// Contact fields never appear here: they are always derived from the vendor.
func DefaultRules(t Tuning) RuleTable {
	return RuleTable{
		domain.FieldVendor: {
			{Name: "labelled-vendor", Pattern: reVendorLabelled, Tier: t.CascadeLabelled},
			{Name: "company-suffix", Pattern: reVendorBare, Tier: t.CascadeBare},
		},
		domain.FieldInvoiceNumber: {
			{Name: "labelled-number", Pattern: reNumberLabelled, Tier: t.CascadeLabelled},
			{Name: "inv-prefix", Pattern: reNumberBare, Tier: t.CascadeBare},
		},
		domain.FieldAmount: {
			{Name: "labelled-total", Pattern: reAmountLabelled, Tier: t.CascadeLabelled},
			{Name: "bare-currency", Pattern: reAmountBare, Tier: t.CascadeBare},
		},
		domain.FieldInvoiceDate: {
			{Name: "labelled-date", Pattern: reDateLabelled, Tier: t.CascadeLabelled},
			{Name: "bare-iso-date", Pattern: reDateISO, Tier: t.CascadeBare},
			{Name: "bare-slash-date", Pattern: reDateSlash, Tier: t.CascadeBare},
		},
	}
}
