// Package assistant proxies wording, extraction and email drafting requests
// to a hosted text-generation model.
package assistant

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// ModelNotFoundMessage is returned to callers when the configured model does not exist.
const ModelNotFoundMessage = "El modelo de IA configurado no existe o no está disponible"

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("ai_not_configured")

// UpstreamError carries the status the text service answered with.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string { return e.Message }

type Client struct {
	model  string
	genai  *genai.Client
	errNew error
}

// New builds a client against the Gemini API. An empty baseURL keeps the
// library default. The http client carries no timeout; calls end with their context.
func New(baseURL, apiKey, model string, hc *http.Client) *Client {
	c := &Client{model: model}
	if apiKey == "" {
		c.errNew = ErrNotConfigured
		return c
	}
	if hc == nil {
		hc = &http.Client{}
	}
	c.genai, c.errNew = genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  hc,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	return c
}

func (c *Client) Model() string { return c.model }

// generate sends one prompt and returns the text of the first candidate.
func (c *Client) generate(ctx context.Context, system, prompt string, jsonOut bool) (string, error) {
	if c.errNew != nil {
		return "", c.errNew
	}
	cfg := &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0.4)}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if jsonOut {
		cfg.ResponseMIMEType = "application/json"
	}
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", upstream(err)
	}
	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", &UpstreamError{Status: http.StatusBadGateway, Message: "El servicio de IA no devolvió respuesta"}
	}
	return out, nil
}

func upstream(err error) error {
	var ae genai.APIError
	if !errors.As(err, &ae) {
		return &UpstreamError{Status: http.StatusBadGateway, Message: "Error al contactar el servicio de IA: " + err.Error()}
	}
	if ae.Code == http.StatusNotFound {
		return &UpstreamError{Status: http.StatusNotFound, Message: ModelNotFoundMessage}
	}
	msg := ae.Message
	if msg == "" {
		msg = http.StatusText(ae.Code)
	}
	return &UpstreamError{Status: ae.Code, Message: "Error del servicio de IA: " + msg}
}
