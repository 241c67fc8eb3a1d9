package handlers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/sig-servicios/cotizador/auth"
	"github.com/sig-servicios/cotizador/httpx"
	"github.com/sig-servicios/cotizador/internal/assistant"
	"github.com/sig-servicios/cotizador/internal/blobstore"
	"github.com/sig-servicios/cotizador/internal/drafts"
	"github.com/sig-servicios/cotizador/internal/identity"
	"github.com/sig-servicios/cotizador/internal/logging"
	"github.com/sig-servicios/cotizador/internal/services"
)

// writeError maps service errors onto the JSON error envelope. Unknown
// errors are logged and returned as 500 with their message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *services.ValidationError
	var ue *assistant.UpstreamError
	switch {
	case errors.As(err, &ve):
		var details any
		if len(ve.Violations) > 0 {
			details = ve.Violations
		}
		httpx.JSONError(w, http.StatusBadRequest, ve.Message, details)
	case errors.Is(err, httpx.ErrInvalidJSON):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
	case errors.Is(err, auth.ErrUnauthorized):
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
	case errors.Is(err, identity.ErrInvalidCredentials):
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
	case errors.Is(err, services.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, drafts.ErrNotFound), errors.Is(err, blobstore.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.As(err, &ue):
		httpx.JSONError(w, ue.Status, ue.Message, nil)
	case errors.Is(err, assistant.ErrNotConfigured):
		httpx.JSONError(w, http.StatusServiceUnavailable, "ai_not_configured", nil)
	default:
		logging.FromContext(r.Context()).WithField("path", r.URL.Path).Error(err.Error())
		httpx.JSONError(w, http.StatusInternalServerError, err.Error(), nil)
	}
}

// pathID reads {id} and answers 400 when it is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, err.Error(), nil)
		return 0, false
	}
	return id, true
}

// decode reads the JSON body into dst and answers 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.Decode(r, dst); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return false
	}
	return true
}
