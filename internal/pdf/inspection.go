package pdf

import "fmt"

type InspectionSection struct {
	Title string
	Items []InspectionItem
}

type InspectionItem struct {
	Text     string
	State    string
	Comment  string
	Evidence []Image
}

type InspectionAction struct {
	Description string
	Type        string
	Owner       string
	DueDate     string
	Criticality string
	WorkOrder   string
}

type InspectionData struct {
	Number         string
	Company        CompanyData
	ClientName     string
	Plant          string
	MachineSerial  string
	Period         string
	VisitPurpose   string
	OpeningMeeting bool
	ClosingMeeting bool
	Participants   []string
	StateCounts    map[string]int
	Sections       []InspectionSection
	FinalComments  string
	Efficiencies   string
	Losses         string
	CustomerReview string
	Actions        []InspectionAction
	InspectorSign  Image
	ClientSign     Image
}

var stateLabels = map[string]string{
	"conformant":     "Conforme",
	"non_compliant":  "No conforme",
	"unverified":     "No verificado",
	"not_applicable": "No aplica",
}

// StateLabel returns the display label of a response state.
func StateLabel(state string) string {
	if l, ok := stateLabels[state]; ok {
		return l
	}
	return state
}

// InspectionPDF renders a finalized inspection report with evidence and signatures.
func InspectionPDF(r InspectionData) ([]byte, error) {
	d := newDocument("Reporte de inspección "+r.Number, r.Company)

	d.SetFont("Helvetica", "B", 15)
	d.CellFormat(0, 9, d.tr("REPORTE DE INSPECCIÓN TÉCNICA "+r.Number), "", 1, "C", false, 0, "")

	d.heading("Información general")
	d.field("Cliente", r.ClientName)
	d.field("Planta", r.Plant)
	d.field("No. de serie", r.MachineSerial)
	d.field("Periodo", r.Period)
	d.field("Objetivo", r.VisitPurpose)
	d.field("Reunión de apertura", yesNo(r.OpeningMeeting))
	d.field("Reunión de cierre", yesNo(r.ClosingMeeting))

	d.heading("Resumen")
	for _, s := range []string{"conformant", "non_compliant", "unverified", "not_applicable"} {
		d.field(StateLabel(s), fmt.Sprintf("%d", r.StateCounts[s]))
	}

	for _, sec := range r.Sections {
		d.heading(sec.Title)
		for _, it := range sec.Items {
			d.SetFont("Helvetica", "", 9)
			d.CellFormat(140, 6, d.tr(it.Text), "B", 0, "L", false, 0, "")
			d.SetFont("Helvetica", "B", 9)
			d.CellFormat(0, 6, d.tr(StateLabel(it.State)), "B", 1, "R", false, 0, "")
			if it.Comment != "" {
				d.SetFont("Helvetica", "I", 8)
				d.MultiCell(0, 4, d.tr(it.Comment), "", "L", false)
			}
			for _, img := range it.Evidence {
				d.image(img, 60)
			}
		}
	}

	if len(r.Participants) > 0 {
		d.heading("Participantes")
		for _, p := range r.Participants {
			d.paragraph("- " + p)
		}
	}

	d.heading("Cierre")
	d.field("Comentarios finales", r.FinalComments)
	d.field("Eficiencias", r.Efficiencies)
	d.field("Pérdidas", r.Losses)
	d.field("Revisión del cliente", r.CustomerReview)

	if len(r.Actions) > 0 {
		d.heading("Plan de acción")
		for i, a := range r.Actions {
			d.field(fmt.Sprintf("Acción %d", i+1), a.Description)
			d.field("Responsable", a.Owner)
			d.field("Tipo", a.Type)
			d.field("Fecha compromiso", a.DueDate)
			d.field("Criticidad", a.Criticality)
			d.field("Orden de trabajo", a.WorkOrder)
			d.Ln(1)
		}
	}

	d.heading("Firmas")
	y := d.GetY()
	if len(r.InspectorSign.Data) > 0 {
		d.SetXY(20, y)
		d.image(r.InspectorSign, 60)
	}
	if len(r.ClientSign.Data) > 0 {
		d.SetXY(120, y)
		d.image(r.ClientSign, 60)
	}
	d.SetY(d.GetY() + 2)
	d.SetFont("Helvetica", "", 9)
	d.CellFormat(95, 5, d.tr("Inspector"), "T", 0, "C", false, 0, "")
	d.CellFormat(0, 5, d.tr("Cliente"), "T", 1, "C", false, 0, "")
	return d.bytes()
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}
