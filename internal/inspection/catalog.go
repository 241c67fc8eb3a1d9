package inspection

// Item is one checklist question.
type Item struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Section groups checklist items under a title.
type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Items []Item `json:"items"`
}

// Catalog is the ordered checklist a report answers.
type Catalog []Section

// SectionOf returns the section id holding itemID, or "".
func (c Catalog) SectionOf(itemID string) string {
	for _, s := range c {
		for _, it := range s.Items {
			if it.ID == itemID {
				return s.ID
			}
		}
	}
	return ""
}

// ItemCount returns the number of items across sections.
func (c Catalog) ItemCount() int {
	n := 0
	for _, s := range c {
		n += len(s.Items)
	}
	return n
}

// DefaultCatalog is the standard machine inspection checklist.
func DefaultCatalog() Catalog {
	return Catalog{
		{ID: "seguridad", Title: "Seguridad", Items: []Item{
			{ID: "seg-01", Text: "Guardas y protecciones instaladas"},
			{ID: "seg-02", Text: "Paros de emergencia funcionales"},
			{ID: "seg-03", Text: "Señalización de riesgos visible"},
			{ID: "seg-04", Text: "Bloqueo y etiquetado disponible"},
		}},
		{ID: "mecanica", Title: "Mecánica", Items: []Item{
			{ID: "mec-01", Text: "Lubricación de componentes"},
			{ID: "mec-02", Text: "Desgaste de bandas y cadenas"},
			{ID: "mec-03", Text: "Alineación de ejes"},
			{ID: "mec-04", Text: "Vibración y ruido anormal"},
		}},
		{ID: "electrica", Title: "Eléctrica", Items: []Item{
			{ID: "ele-01", Text: "Tableros cerrados y rotulados"},
			{ID: "ele-02", Text: "Cableado sin daños"},
			{ID: "ele-03", Text: "Conexión a tierra"},
		}},
		{ID: "neumatica", Title: "Neumática e hidráulica", Items: []Item{
			{ID: "neu-01", Text: "Fugas en líneas y conexiones"},
			{ID: "neu-02", Text: "Presión de trabajo dentro de rango"},
		}},
		{ID: "operacion", Title: "Operación", Items: []Item{
			{ID: "ope-01", Text: "Parámetros de proceso documentados"},
			{ID: "ope-02", Text: "Personal capacitado en la operación"},
		}},
	}
}
