package handlers

import (
	"net/http"
	"strings"

	"github.com/sig-servicios/cotizador/httpx"
	"github.com/sig-servicios/cotizador/internal/assistant"
)

// AIHandler proxies the text helpers to the assistant client.
type AIHandler struct {
	ai *assistant.Client
}

func NewAIHandler(ai *assistant.Client) *AIHandler {
	return &AIHandler{ai: ai}
}

type textRequest struct {
	Text string `json:"text"`
}

func (req textRequest) valid(w http.ResponseWriter) bool {
	if strings.TrimSpace(req.Text) == "" {
		httpx.JSONError(w, http.StatusBadRequest, "text_required", map[string]string{"text": "required"})
		return false
	}
	return true
}

func (h *AIHandler) Improve(w http.ResponseWriter, r *http.Request) {
	var in textRequest
	if !decode(w, r, &in) || !in.valid(w) {
		return
	}
	out, err := h.ai.Improve(r.Context(), in.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"text": out})
}

func (h *AIHandler) ExtractClient(w http.ResponseWriter, r *http.Request) {
	var in textRequest
	if !decode(w, r, &in) || !in.valid(w) {
		return
	}
	fields, err := h.ai.ExtractClient(r.Context(), in.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, fields)
}

func (h *AIHandler) DraftEmail(w http.ResponseWriter, r *http.Request) {
	var in assistant.EmailRequest
	if !decode(w, r, &in) {
		return
	}
	out, err := h.ai.DraftEmail(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"text": out})
}
