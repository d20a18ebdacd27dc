package extraction

import (
	"strconv"
	"strings"
	"time"

	"github.com/paperledger/invoice-extract/internal/core/domain"
)

// MinTextLength gates the cascade: at or below this many characters the text
// is treated as unusable and every field falls through to the synthesizer.
const MinTextLength = 50

// Amount sanity bounds (exclusive). Values outside are rejected and the
// cascade keeps trying later occurrences and patterns.
const (
	minSaneAmount = 0.0
	maxSaneAmount = 100000.0
)

// Accepted invoice years: [minSaneYear, maxSaneYear).
const (
	minSaneYear = 2020
	maxSaneYear = 2030
)

// Cascade applies the ordered rule table to extracted text.
type Cascade struct {
	rules RuleTable
}

func NewCascade(t Tuning) *Cascade {
	return &Cascade{rules: DefaultRules(t)}
}

// Run matches every cascade field against the text. Fields without a sane
// match are absent from the returned map.
func (c *Cascade) Run(text domain.ExtractedText) map[string]domain.FieldCandidate {
	matches := make(map[string]domain.FieldCandidate, len(c.rules))
	for field := range c.rules {
		if cand, ok := c.Match(text, field); ok {
			matches[field] = cand
		}
	}
	return matches
}

// Match applies the field's patterns in order and returns the first candidate
// that survives sanity filtering.
func (c *Cascade) Match(text domain.ExtractedText, field string) (domain.FieldCandidate, bool) {
	if text.Length <= MinTextLength {
		return domain.FieldCandidate{}, false
	}
	for _, rule := range c.rules[field] {
		for _, m := range rule.Pattern.FindAllStringSubmatch(text.Raw, -1) {
			value, ok := normalize(field, strings.TrimSpace(m[1]))
			if !ok {
				continue
			}
			return domain.FieldCandidate{
				Field:      field,
				Value:      value,
				Confidence: rule.Tier,
				Source:     domain.SourceCascadeMatch,
			}, true
		}
	}
	return domain.FieldCandidate{}, false
}

// normalize canonicalizes a raw capture and rejects insane values.
func normalize(field, raw string) (string, bool) {
	switch field {
	case domain.FieldAmount:
		amt, ok := ParseAmount(raw)
		if !ok {
			return "", false
		}
		return strconv.FormatFloat(amt, 'f', 2, 64), true
	case domain.FieldInvoiceDate:
		d, ok := ParseDate(raw)
		if !ok {
			return "", false
		}
		return d.Format("2006-01-02"), true
	default:
		return raw, raw != ""
	}
}

// ParseAmount reads a currency amount like "1,234.56" and enforces the sane
// range (0, 100000) exclusive.
func ParseAmount(raw string) (float64, bool) {
	cleaned := strings.NewReplacer(",", "", "$", "", " ", "").Replace(raw)
	amt, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	if amt <= minSaneAmount || amt >= maxSaneAmount {
		return 0, false
	}
	return amt, true
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"01.02.2006",
	"01/02/06",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"Jan. 2, 2006",
}

// ParseDate reads common invoice date spellings and rejects years outside
// [2020, 2030).
func ParseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		d, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if d.Year() < minSaneYear || d.Year() >= maxSaneYear {
			return time.Time{}, false
		}
		return d, true
	}
	return time.Time{}, false
}
