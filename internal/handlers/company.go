package handlers

import (
	"net/http"

	"github.com/sig-servicios/cotizador/httpx"
	"github.com/sig-servicios/cotizador/internal/services"
)

// CompanyHandler exposes the issuing company printed on quotations.
type CompanyHandler struct {
	quotations *services.QuotationService
}

func NewCompanyHandler(quotations *services.QuotationService) *CompanyHandler {
	return &CompanyHandler{quotations: quotations}
}

func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.quotations.Company(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}
