package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/famlog/famlog/internal/api/respond"
	"github.com/famlog/famlog/internal/model"
	"github.com/famlog/famlog/internal/services"
)

// MediaHandler is a thin HTTP transport over MediaService.
type MediaHandler struct {
	svc *services.MediaService
}

func NewMediaHandler(svc *services.MediaService) *MediaHandler { return &MediaHandler{svc: svc} }

// ListMedia GET /api/profiles/{profileId}/media
func (h *MediaHandler) ListMedia(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListByProfile(r.Context(), mux.Vars(r)["profileId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"media": entries, "count": len(entries)})
}

// CreateMedia POST /api/profiles/{profileId}/media
func (h *MediaHandler) CreateMedia(w http.ResponseWriter, r *http.Request) {
	var m model.MediaEntry
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	m.ProfileID = mux.Vars(r)["profileId"]
	out, err := h.svc.Create(r.Context(), &m)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// GetMedia GET /api/media/{mediaId}
func (h *MediaHandler) GetMedia(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Get(r.Context(), mux.Vars(r)["mediaId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, m)
}

// UpdateMedia PUT /api/media/{mediaId}
func (h *MediaHandler) UpdateMedia(w http.ResponseWriter, r *http.Request) {
	var m model.MediaEntry
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	m.ID = mux.Vars(r)["mediaId"]
	out, err := h.svc.Update(r.Context(), &m)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteMedia DELETE /api/media/{mediaId}
func (h *MediaHandler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), mux.Vars(r)["mediaId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
