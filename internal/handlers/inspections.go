package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sig-servicios/cotizador/httpx"
	"github.com/sig-servicios/cotizador/internal/inspection"
	"github.com/sig-servicios/cotizador/internal/pdf"
	"github.com/sig-servicios/cotizador/internal/services"
)

type InspectionHandler struct {
	inspections *services.InspectionService
}

func NewInspectionHandler(inspections *services.InspectionService) *InspectionHandler {
	return &InspectionHandler{inspections: inspections}
}

type stepView struct {
	ID    inspection.StepID `json:"id"`
	Key   string            `json:"key"`
	Title string            `json:"title"`
}

// Catalog returns the checklist sections, the wizard steps and the response states.
func (h *InspectionHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	steps := make([]stepView, 0, len(inspection.Steps))
	for _, s := range inspection.Steps {
		steps = append(steps, stepView{ID: s.ID, Key: s.Key, Title: s.Title})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"sections": h.inspections.Catalog(),
		"steps":    steps,
		"states":   inspection.States,
	})
}

// Validate checks the payload up to ?step=N, the last step by default.
func (h *InspectionHandler) Validate(w http.ResponseWriter, r *http.Request) {
	upTo := inspection.LastStep
	if s := r.URL.Query().Get("step"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_step", nil)
			return
		}
		upTo = inspection.StepID(n)
	}
	var report inspection.Report
	if !decode(w, r, &report) {
		return
	}
	res, err := h.inspections.Validate(&report, upTo)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

func (h *InspectionHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	var payload json.RawMessage
	if !decode(w, r, &payload) {
		return
	}
	if err := h.inspections.SaveDraft(r.Context(), payload); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *InspectionHandler) LoadDraft(w http.ResponseWriter, r *http.Request) {
	payload, err := h.inspections.LoadDraft(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, payload)
}

func (h *InspectionHandler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.inspections.DeleteDraft(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *InspectionHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	var report inspection.Report
	if !decode(w, r, &report) {
		return
	}
	out, err := h.inspections.Finalize(r.Context(), &report)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, out)
}

func (h *InspectionHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.inspections.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *InspectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	out, err := h.inspections.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *InspectionHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	doc, err := h.inspections.Document(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pdfBytes, err := pdf.InspectionPDF(*doc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"inspeccion-%d.pdf\"", id))
	_, _ = w.Write(pdfBytes)
}
