package pdf

import "fmt"

type QuotationItem struct {
	Concept   string
	Quantity  float64
	UnitPrice float64
	Subtotal  float64
}

type QuotationData struct {
	Folio       string
	Date        string
	Status      string
	ServiceType string
	Currency    string
	Company     CompanyData
	Client      ClientData
	Items       []QuotationItem
	Total       float64
	Notes       string
}

// QuotationPDF renders a quotation with its items table and notes.
func QuotationPDF(q QuotationData) ([]byte, error) {
	d := newDocument("Cotización "+q.Folio, q.Company)

	d.SetFont("Helvetica", "B", 16)
	d.CellFormat(0, 9, d.tr("COTIZACIÓN "+q.Folio), "", 1, "R", false, 0, "")
	d.SetFont("Helvetica", "", 9)
	d.CellFormat(0, 5, d.tr("Fecha: "+q.Date), "", 1, "R", false, 0, "")
	if q.ServiceType != "" {
		d.CellFormat(0, 5, d.tr("Tipo de servicio: "+q.ServiceType), "", 1, "R", false, 0, "")
	}

	d.heading("Cliente")
	d.field("Razón social", q.Client.Name)
	d.field("Contacto", q.Client.Contact)
	d.field("Dirección", q.Client.Address)
	d.field("Correo", q.Client.Email)
	d.field("Teléfono", q.Client.Phone)

	d.heading("Conceptos")
	widths := []float64{95, 20, 35, 35}
	d.SetFont("Helvetica", "B", 9)
	d.SetFillColor(240, 240, 240)
	for i, h := range []string{"Concepto", "Cant.", "P. unitario", "Importe"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		d.CellFormat(widths[i], 7, d.tr(h), "B", 0, align, true, 0, "")
	}
	d.Ln(-1)
	d.SetFont("Helvetica", "", 9)
	for _, it := range q.Items {
		d.CellFormat(widths[0], 6, d.tr(it.Concept), "", 0, "L", false, 0, "")
		d.CellFormat(widths[1], 6, trimFloat(it.Quantity), "", 0, "R", false, 0, "")
		d.CellFormat(widths[2], 6, money(it.UnitPrice, ""), "", 0, "R", false, 0, "")
		d.CellFormat(widths[3], 6, money(it.Subtotal, ""), "", 1, "R", false, 0, "")
	}
	d.SetFont("Helvetica", "B", 10)
	d.CellFormat(widths[0]+widths[1]+widths[2], 8, "Total", "T", 0, "R", false, 0, "")
	d.CellFormat(widths[3], 8, money(q.Total, q.Currency), "T", 1, "R", false, 0, "")

	if q.Notes != "" {
		d.heading("Notas")
		d.paragraph(q.Notes)
	}
	return d.bytes()
}

func trimFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
