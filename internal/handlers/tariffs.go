package handlers

import (
	"net/http"

	"github.com/sig-servicios/cotizador/httpx"
	"github.com/sig-servicios/cotizador/internal/services"
)

// TariffHandler serves the service catalog under /services.
type TariffHandler struct {
	tariffs *services.TariffService
}

func NewTariffHandler(tariffs *services.TariffService) *TariffHandler {
	return &TariffHandler{tariffs: tariffs}
}

func (h *TariffHandler) List(w http.ResponseWriter, r *http.Request) {
	all := r.URL.Query().Get("all")
	out, err := h.tariffs.List(r.Context(), all == "1" || all == "true")
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *TariffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.TariffInput
	if !decode(w, r, &in) {
		return
	}
	s, err := h.tariffs.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, s)
}

func (h *TariffHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in services.TariffInput
	if !decode(w, r, &in) {
		return
	}
	s, err := h.tariffs.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

// Delete deactivates; services are never removed.
func (h *TariffHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s, err := h.tariffs.Deactivate(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}
