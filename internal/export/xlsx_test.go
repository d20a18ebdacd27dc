package export

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/paperledger/invoice-extract/internal/core/domain"
)

func sampleRecord() *domain.InvoiceRecord {
	return &domain.InvoiceRecord{
		Vendor:        "Acme Office Supplies",
		VendorAddress: "1200 Harbor Blvd, Suite 300, Oakland, CA 94607",
		VendorPhone:   "(555) 010-2000",
		VendorEmail:   "billing@acmeofficesupplies.com",
		InvoiceNumber: "INV-2026-00042",
		Amount:        540.00,
		Subtotal:      500.00,
		TaxAmount:     40.00,
		Currency:      "USD",
		InvoiceDate:   "2026-08-01",
		DueDate:       "2026-08-31",
		PaymentTerms:  "Net 30",
		LineItems: []domain.LineItem{
			{Description: "Office Supplies", Quantity: 2, UnitPrice: 150.00, Total: 300.00},
			{Description: "Paper Products", Quantity: 1, UnitPrice: 200.00, Total: 200.00},
		},
	}
}

func TestWorkbookContents(t *testing.T) {
	raw, err := Workbook(sampleRecord())
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	cell := func(ref string) string {
		t.Helper()
		v, err := f.GetCellValue("Invoice", ref)
		if err != nil {
			t.Fatalf("read cell %s: %v", ref, err)
		}
		return v
	}

	if got := cell("B1"); got != "Acme Office Supplies" {
		t.Errorf("vendor cell = %q", got)
	}
	if got := cell("B5"); got != "INV-2026-00042" {
		t.Errorf("invoice number cell = %q", got)
	}
	if got := cell("A14"); got != "Description" {
		t.Errorf("line item header = %q", got)
	}
	if got := cell("A15"); got != "Office Supplies" {
		t.Errorf("first line item = %q", got)
	}
	if got := cell("D16"); got != "200" {
		t.Errorf("second line item amount = %q", got)
	}
}

func TestWorkbookNilRecord(t *testing.T) {
	if _, err := Workbook(nil); err == nil {
		t.Error("expected error for nil record")
	}
}

func TestWorkbookNoLineItems(t *testing.T) {
	r := sampleRecord()
	r.LineItems = nil
	raw, err := Workbook(r)
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}
	if len(raw) == 0 {
		t.Error("empty workbook bytes")
	}
}
