// Package export writes spreadsheet exports.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const QuotationsSheet = "Cotizaciones"

var quotationHeaders = []string{"Folio", "Cliente", "Estado", "Orden de compra", "Estado OC", "Total", "Moneda", "Fecha"}

var statusLabels = map[string]string{
	"draft":    "Borrador",
	"accepted": "Aceptada",
	"rejected": "Rechazada",
}

// QuotationRow is one exported quotation.
type QuotationRow struct {
	Folio         string
	Client        string
	Status        string
	PurchaseOrder string
	POStatus      string
	Total         float64
	Currency      string
	CreatedAt     time.Time
}

// QuotationsXLSX writes rows as a single-sheet workbook with a totals row.
func QuotationsXLSX(w io.Writer, rows []QuotationRow) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := QuotationsSheet
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	for i, h := range quotationHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	moneyFmt := "#,##0.00"
	moneyStyle, _ := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	var total float64
	for i, r := range rows {
		row := i + 2
		status := r.Status
		if l, ok := statusLabels[status]; ok {
			status = l
		}
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.Folio)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.Client)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), status)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.PurchaseOrder)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.POStatus)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.Total)
		f.SetCellStyle(sheet, fmt.Sprintf("F%d", row), fmt.Sprintf("F%d", row), moneyStyle)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), r.Currency)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), r.CreatedAt.Format("2006-01-02"))
		total += r.Total
	}

	summaryRow := len(rows) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &moneyFmt})
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("F%d", summaryRow), total)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("H%d", summaryRow), summaryStyle)

	widths := []float64{10, 32, 12, 18, 12, 14, 8, 12}
	for i, wd := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, wd)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
