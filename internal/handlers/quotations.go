package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sig-servicios/cotizador/httpx"
	"github.com/sig-servicios/cotizador/internal/export"
	"github.com/sig-servicios/cotizador/internal/pdf"
	"github.com/sig-servicios/cotizador/internal/services"
)

type QuotationHandler struct {
	quotations *services.QuotationService
}

func NewQuotationHandler(quotations *services.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotations: quotations}
}

func filterFrom(r *http.Request) services.QuotationFilter {
	q := r.URL.Query()
	f := services.QuotationFilter{Status: q.Get("status")}
	if n, err := strconv.ParseUint(q.Get("client_id"), 10, 64); err == nil {
		f.ClientID = uint(n)
	}
	return f
}

func (h *QuotationHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.quotations.List(r.Context(), filterFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *QuotationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	q, err := h.quotations.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *QuotationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateQuotationInput
	if !decode(w, r, &in) {
		return
	}
	q, err := h.quotations.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, q)
}

func (h *QuotationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in services.StatusInput
	if !decode(w, r, &in) {
		return
	}
	q, err := h.quotations.UpdateStatus(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, q)
}

func (h *QuotationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.quotations.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *QuotationHandler) Lookups(w http.ResponseWriter, r *http.Request) {
	out, err := h.quotations.Lookups(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *QuotationHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	doc, err := h.quotations.Document(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pdfBytes, err := pdf.QuotationPDF(*doc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"cotizacion-%s.pdf\"", doc.Folio))
	_, _ = w.Write(pdfBytes)
}

func (h *QuotationHandler) Export(w http.ResponseWriter, r *http.Request) {
	rows, err := h.quotations.ExportRows(r.Context(), filterFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := export.QuotationsXLSX(&buf, rows); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"cotizaciones-%s.xlsx\"", time.Now().Format("20060102")))
	_, _ = w.Write(buf.Bytes())
}
