package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/famlog/famlog/internal/api/respond"
	"github.com/famlog/famlog/internal/model"
	"github.com/famlog/famlog/internal/services"
)

// SectionHandler is a thin HTTP transport over SectionService.
type SectionHandler struct {
	svc *services.SectionService
}

func NewSectionHandler(svc *services.SectionService) *SectionHandler { return &SectionHandler{svc: svc} }

// ListSections GET /api/profiles/{profileId}/sections
func (h *SectionHandler) ListSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.svc.ListByProfile(r.Context(), mux.Vars(r)["profileId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"sections": sections, "count": len(sections)})
}

// CreateSection POST /api/profiles/{profileId}/sections
func (h *SectionHandler) CreateSection(w http.ResponseWriter, r *http.Request) {
	var sec model.Section
	if err := json.NewDecoder(r.Body).Decode(&sec); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	sec.ProfileID = mux.Vars(r)["profileId"]
	out, err := h.svc.Create(r.Context(), &sec)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// GetSection GET /api/sections/{sectionId}
func (h *SectionHandler) GetSection(w http.ResponseWriter, r *http.Request) {
	sec, err := h.svc.Get(r.Context(), mux.Vars(r)["sectionId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, sec)
}

// UpdateSection PUT /api/sections/{sectionId}
func (h *SectionHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	var sec model.Section
	if err := json.NewDecoder(r.Body).Decode(&sec); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	sec.ID = mux.Vars(r)["sectionId"]
	out, err := h.svc.Update(r.Context(), &sec)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// AddSuggestion POST /api/sections/{sectionId}/suggestions
func (h *SectionHandler) AddSuggestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Label string `json:"label"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.svc.AddSuggestion(r.Context(), mux.Vars(r)["sectionId"], req.Label)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteSection DELETE /api/sections/{sectionId}
func (h *SectionHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), mux.Vars(r)["sectionId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
