// Package api is the thin HTTP transport over the services and the sync
// engine.
package api

import (
	"errors"
	"net/http"

	"github.com/famlog/famlog/internal/api/respond"
	"github.com/famlog/famlog/internal/model"
)

// writeServiceError maps the domain error taxonomy onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, err.Error())
	case errors.Is(err, model.ErrValidation):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrConflict):
		respond.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, model.ErrNotAuthenticated):
		respond.WriteError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, model.ErrTransport):
		respond.WriteError(w, http.StatusBadGateway, err.Error())
	default:
		respond.WriteInternalError(w, err.Error())
	}
}
