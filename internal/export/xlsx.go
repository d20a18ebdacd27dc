// Package export renders extracted invoice records as XLSX workbooks for the
// review workflow's download button.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/paperledger/invoice-extract/internal/core/domain"
)

const sheet = "Invoice"

// Workbook renders one record as an XLSX workbook: a summary block followed
// by the line item table.
func Workbook(r *domain.InvoiceRecord) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("nil invoice record")
	}

	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(sheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}
	index, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet index: %w", err)
	}
	f.SetActiveSheet(index)

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	summary := []struct {
		Label string
		Value any
	}{
		{"Vendor", r.Vendor},
		{"Vendor Address", r.VendorAddress},
		{"Vendor Phone", r.VendorPhone},
		{"Vendor Email", r.VendorEmail},
		{"Invoice Number", r.InvoiceNumber},
		{"Invoice Date", r.InvoiceDate},
		{"Due Date", r.DueDate},
		{"Payment Terms", r.PaymentTerms},
		{"Currency", r.Currency},
		{"Subtotal", r.Subtotal},
		{"Tax", r.TaxAmount},
		{"Total", r.Amount},
	}
	for i, entry := range summary {
		write(1, i+1, entry.Label)
		write(2, i+1, entry.Value)
	}

	headerRow := len(summary) + 2
	for col, h := range []string{"Description", "Quantity", "Unit Price", "Amount"} {
		write(col+1, headerRow, h)
	}
	for i, item := range r.LineItems {
		row := headerRow + 1 + i
		write(1, row, item.Description)
		write(2, row, item.Quantity)
		write(3, row, item.UnitPrice)
		write(4, row, item.Total)
	}

	_ = f.SetColWidth(sheet, "A", "A", 28)
	_ = f.SetColWidth(sheet, "B", "B", 40)
	_ = f.SetColWidth(sheet, "C", "D", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
