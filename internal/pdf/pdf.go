// Package pdf renders quotations and inspection reports.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
)

type CompanyData struct {
	Name    string
	Address string
	Email   string
	Phone   string
	TaxID   string
}

type ClientData struct {
	Name    string
	Contact string
	Address string
	Email   string
	Phone   string
}

// Image is an embedded picture. Type is "JPG" or "PNG".
type Image struct {
	Data []byte
	Type string
}

// ImageType maps a content type to the gofpdf image type.
func ImageType(contentType string) string {
	if strings.Contains(contentType, "png") {
		return "PNG"
	}
	return "JPG"
}

type document struct {
	*gofpdf.Fpdf
	tr     func(string) string
	images int
}

func newDocument(title string, company CompanyData) *document {
	f := gofpdf.New("P", "mm", "Letter", "")
	d := &document{Fpdf: f, tr: f.UnicodeTranslatorFromDescriptor("")}
	f.SetTitle(d.tr(title), false)
	f.SetMargins(15, 15, 15)
	f.SetAutoPageBreak(true, 18)
	f.AliasNbPages("")
	f.SetHeaderFunc(func() {
		f.SetFont("Helvetica", "B", 14)
		f.CellFormat(0, 7, d.tr(company.Name), "", 1, "L", false, 0, "")
		f.SetFont("Helvetica", "", 8)
		for _, line := range []string{company.Address, join(" | ", company.Email, company.Phone, labeled("RFC", company.TaxID))} {
			if line != "" {
				f.CellFormat(0, 4, d.tr(line), "", 1, "L", false, 0, "")
			}
		}
		f.SetDrawColor(180, 180, 180)
		y := f.GetY() + 2
		f.Line(15, y, 200, y)
		f.SetY(y + 4)
	})
	f.SetFooterFunc(func() {
		f.SetY(-12)
		f.SetFont("Helvetica", "I", 8)
		f.CellFormat(0, 6, fmt.Sprintf("%s  -  %d/{nb}", d.tr(title), f.PageNo()), "", 0, "C", false, 0, "")
	})
	f.AddPage()
	return d
}

func (d *document) heading(text string) {
	d.Ln(2)
	d.SetFont("Helvetica", "B", 11)
	d.SetFillColor(217, 225, 242)
	d.CellFormat(0, 7, d.tr(text), "", 1, "L", true, 0, "")
	d.Ln(1)
}

func (d *document) field(label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	d.SetFont("Helvetica", "B", 9)
	d.CellFormat(40, 5, d.tr(label), "", 0, "L", false, 0, "")
	d.SetFont("Helvetica", "", 9)
	d.MultiCell(0, 5, d.tr(value), "", "L", false)
}

func (d *document) paragraph(text string) {
	d.SetFont("Helvetica", "", 9)
	d.MultiCell(0, 5, d.tr(text), "", "L", false)
}

// image places img at the current position, w millimetres wide.
func (d *document) image(img Image, w float64) {
	if len(img.Data) == 0 {
		return
	}
	d.images++
	name := fmt.Sprintf("img-%d", d.images)
	opts := gofpdf.ImageOptions{ImageType: img.Type, ReadDpi: false}
	d.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
	d.ImageOptions(name, d.GetX(), d.GetY(), w, 0, true, opts, 0, "")
}

func (d *document) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func money(v float64, currency string) string {
	s := fmt.Sprintf("%.2f", v)
	intPart, frac, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := "$" + b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	if currency != "" {
		out += " " + currency
	}
	return out
}

func join(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func labeled(label, v string) string {
	if strings.TrimSpace(v) == "" {
		return ""
	}
	return label + ": " + v
}
