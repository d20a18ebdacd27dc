package extraction

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/paperledger/invoice-extract/internal/core/domain"
)

// labelTable maps vendor-name keywords to line item description sets.
// First matching row wins; the generic set is the documented default.
var labelTable = []struct {
	Keywords []string
	Labels   []string
}{
	{[]string{"tech", "software", "cloud", "data", "web"}, []string{"Software License", "Cloud Hosting", "Technical Support"}},
	{[]string{"office", "supplies", "paper", "depot", "staples"}, []string{"Office Supplies", "Paper Products", "Desk Equipment"}},
	{[]string{"consult", "advis", "partners"}, []string{"Consulting Services", "Advisory Hours", "Strategy Workshop"}},
	{[]string{"market", "media"}, []string{"Campaign Management", "Ad Placement", "Content Production"}},
	{[]string{"facilit", "clean", "maint"}, []string{"Facility Maintenance", "Cleaning Services", "Equipment Rental"}},
}

var defaultLabels = []string{"Professional Services", "Service Fee", "Account Management"}

// LabelsFor selects the line item description set for a vendor.
func LabelsFor(vendor string) []string {
	lower := strings.ToLower(vendor)
	for _, row := range labelTable {
		for _, kw := range row.Keywords {
			if strings.Contains(lower, kw) {
				return row.Labels
			}
		}
	}
	return defaultLabels
}

const (
	maxLineItems = 3
	maxQuantity  = 4
)

// Reconcile allocates the subtotal across 1-3 line items whose totals sum to
// it exactly. Items 1..k-1 take a pseudo-random rounded fraction of the
// remainder; the final item takes the exact remainder so rounding error
// cannot accumulate. Unit price is back-computed from total/quantity and is
// display-only.
func Reconcile(subtotal float64, vendor string, rng Rand) []domain.LineItem {
	sub := decimal.NewFromFloat(subtotal).Round(2)
	cent := decimal.New(1, -2)

	k := 1 + rng.Intn(maxLineItems)
	// each item needs at least one cent
	if maxK := int(sub.Div(cent).IntPart()); k > maxK {
		k = maxK
	}
	if k < 1 {
		k = 1
	}

	labels := LabelsFor(vendor)
	items := make([]domain.LineItem, 0, k)
	remaining := sub

	for i := 0; i < k; i++ {
		total := remaining
		if i < k-1 {
			share := 0.25 + 0.5*rng.Float64()
			total = remaining.Mul(decimal.NewFromFloat(share / float64(k-i))).Round(2)

			floor := cent
			ceil := remaining.Sub(cent.Mul(decimal.NewFromInt(int64(k-i-1))))
			if total.LessThan(floor) {
				total = floor
			}
			if total.GreaterThan(ceil) {
				total = ceil
			}
		}
		remaining = remaining.Sub(total)

		qty := 1 + rng.Intn(maxQuantity)
		unit := total.Div(decimal.NewFromInt(int64(qty))).Round(2)

		items = append(items, domain.LineItem{
			Description: labels[i%len(labels)],
			Quantity:    qty,
			UnitPrice:   unit.InexactFloat64(),
			Total:       total.InexactFloat64(),
		})
	}
	return items
}
