package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestQuotationsXLSX(t *testing.T) {
	var buf bytes.Buffer
	rows := []QuotationRow{
		{Folio: "SIG-1", Client: "Acme Corp", Status: "accepted", PurchaseOrder: "PO-9", POStatus: "completed", Total: 100, Currency: "MXN", CreatedAt: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)},
		{Folio: "SIG-2", Client: "Sin cliente", Status: "draft", POStatus: "pending", Total: 75.5, Currency: "MXN", CreatedAt: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
	}
	if err := QuotationsXLSX(&buf, rows); err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	checks := map[string]string{
		"A1": "Folio",
		"A2": "SIG-1",
		"C2": "Aceptada",
		"C3": "Borrador",
		"D2": "PO-9",
		"H3": "2024-04-01",
		"A4": "Total",
	}
	for cell, want := range checks {
		got, err := f.GetCellValue(QuotationsSheet, cell)
		if err != nil {
			t.Fatalf("%s: %v", cell, err)
		}
		if got != want {
			t.Errorf("%s = %q want %q", cell, got, want)
		}
	}
	raw, _ := f.GetCellValue(QuotationsSheet, "F4", excelize.Options{RawCellValue: true})
	if raw != "175.5" {
		t.Errorf("total row = %q want 175.5", raw)
	}
}

func TestQuotationsXLSXEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := QuotationsXLSX(&buf, nil); err != nil {
		t.Fatalf("export: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty workbook")
	}
}
