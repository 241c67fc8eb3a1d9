package handlers

import (
	"net/http"

	"github.com/sig-servicios/cotizador/auth"
	"github.com/sig-servicios/cotizador/httpx"
	"github.com/sig-servicios/cotizador/internal/datastore"
)

// RouterConfig holds the configured handlers mounted by Register.
type RouterConfig struct {
	Store *datastore.Store

	Auth        *AuthHandler
	Users       *UserHandler
	Company     *CompanyHandler
	Clients     *ClientHandler
	Tariffs     *TariffHandler
	Quotations  *QuotationHandler
	Reports     *ReportHandler
	AI          *AIHandler
	Inspections *InspectionHandler
}

// Register mounts every route on mux. Everything except auth and health
// requires a bearer token or session cookie.
func (c *RouterConfig) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", c.healthz)

	mux.HandleFunc("POST /auth/register", c.Auth.Register)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("POST /auth/logout", c.Auth.Logout)

	protect := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, auth.RequireAuth(h))
	}

	protect("GET /users", c.Users.List)
	protect("GET /users/me", c.Users.Me)
	protect("PUT /users/me", c.Users.UpdateMe)
	protect("POST /users/me/password", c.Auth.ChangePassword)

	protect("GET /company", c.Company.Get)

	protect("GET /clients", c.Clients.List)
	protect("POST /clients", c.Clients.Create)
	protect("GET /clients/{id}", c.Clients.Get)
	protect("PUT /clients/{id}", c.Clients.Update)
	protect("DELETE /clients/{id}", c.Clients.Delete)

	protect("GET /services", c.Tariffs.List)
	protect("POST /services", c.Tariffs.Create)
	protect("PUT /services/{id}", c.Tariffs.Update)
	protect("DELETE /services/{id}", c.Tariffs.Delete)

	protect("GET /quotations", c.Quotations.List)
	protect("POST /quotations", c.Quotations.Create)
	protect("GET /quotations/lookups", c.Quotations.Lookups)
	protect("GET /quotations/export", c.Quotations.Export)
	protect("GET /quotations/{id}", c.Quotations.Get)
	protect("GET /quotations/{id}/pdf", c.Quotations.PDF)
	protect("PATCH /quotations/{id}/status", c.Quotations.UpdateStatus)
	protect("DELETE /quotations/{id}", c.Quotations.Delete)

	protect("GET /reports/dashboard", c.Reports.Dashboard)

	protect("POST /ai/improve", c.AI.Improve)
	protect("POST /ai/extract-client", c.AI.ExtractClient)
	protect("POST /ai/draft-email", c.AI.DraftEmail)

	protect("GET /inspections/catalog", c.Inspections.Catalog)
	protect("POST /inspections/validate", c.Inspections.Validate)
	protect("GET /inspections/draft", c.Inspections.LoadDraft)
	protect("PUT /inspections/draft", c.Inspections.SaveDraft)
	protect("DELETE /inspections/draft", c.Inspections.DeleteDraft)
	protect("GET /inspections", c.Inspections.List)
	protect("POST /inspections", c.Inspections.Finalize)
	protect("GET /inspections/{id}", c.Inspections.Get)
	protect("GET /inspections/{id}/pdf", c.Inspections.PDF)
}

func (c *RouterConfig) healthz(w http.ResponseWriter, r *http.Request) {
	if err := c.Store.Ping(r.Context()); err != nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "database_unavailable", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "ok"})
}
