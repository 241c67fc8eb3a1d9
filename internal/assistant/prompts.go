package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	improveInstruction = "Eres un asistente de redacción técnica para una empresa de servicios industriales en México. " +
		"Mejora la redacción del texto manteniendo su significado y los datos técnicos. Responde solo con el texto mejorado, en español."
	extractInstruction = "Extrae los datos del cliente del texto. Responde únicamente con un objeto JSON con las claves " +
		"legal_name, trade_name, tax_id, contact_name, email, phone, address, city, state, postal_code. Usa cadenas vacías para lo que no aparezca."
	emailInstruction = "Redacta correos comerciales breves, cordiales y profesionales en español para una empresa de servicios industriales. " +
		"Responde solo con el cuerpo del correo."
)

// Improve rewrites text for clarity.
func (c *Client) Improve(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}
	return c.generate(ctx, improveInstruction, text, false)
}

// ClientFields are the client attributes recognised in free text.
type ClientFields struct {
	LegalName   string `json:"legal_name"`
	TradeName   string `json:"trade_name"`
	TaxID       string `json:"tax_id"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code"`
}

// ExtractClient asks the model for client fields found in text.
func (c *Client) ExtractClient(ctx context.Context, text string) (*ClientFields, error) {
	out, err := c.generate(ctx, extractInstruction, text, true)
	if err != nil {
		return nil, err
	}
	var f ClientFields
	if err := json.Unmarshal([]byte(stripFence(out)), &f); err != nil {
		return nil, &UpstreamError{Status: http.StatusBadGateway, Message: "Respuesta de IA no válida: " + err.Error()}
	}
	return &f, nil
}

// EmailRequest describes the email to draft.
type EmailRequest struct {
	Recipient string  `json:"recipient"`
	Company   string  `json:"company"`
	Folio     string  `json:"folio"`
	Total     float64 `json:"total"`
	Purpose   string  `json:"purpose"`
	Tone      string  `json:"tone"`
}

func (c *Client) DraftEmail(ctx context.Context, r EmailRequest) (string, error) {
	var b strings.Builder
	b.WriteString("Redacta un correo")
	if r.Purpose != "" {
		fmt.Fprintf(&b, " para %s", r.Purpose)
	}
	b.WriteString(".\n")
	if r.Recipient != "" {
		fmt.Fprintf(&b, "Destinatario: %s\n", r.Recipient)
	}
	if r.Company != "" {
		fmt.Fprintf(&b, "Empresa: %s\n", r.Company)
	}
	if r.Folio != "" {
		fmt.Fprintf(&b, "Cotización: %s\n", r.Folio)
	}
	if r.Total > 0 {
		fmt.Fprintf(&b, "Monto: $%.2f MXN\n", r.Total)
	}
	if r.Tone != "" {
		fmt.Fprintf(&b, "Tono: %s\n", r.Tone)
	}
	return c.generate(ctx, emailInstruction, b.String(), false)
}

// stripFence removes a markdown code fence around a JSON answer.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
