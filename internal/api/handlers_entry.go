package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/famlog/famlog/internal/api/respond"
	"github.com/famlog/famlog/internal/model"
	"github.com/famlog/famlog/internal/services"
)

// EntryHandler is a thin HTTP transport over ScheduleService.
type EntryHandler struct {
	svc *services.ScheduleService
}

func NewEntryHandler(svc *services.ScheduleService) *EntryHandler { return &EntryHandler{svc: svc} }

// ListEntries GET /api/sections/{sectionId}/entries
func (h *EntryHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListBySection(r.Context(), mux.Vars(r)["sectionId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"entries": entries, "count": len(entries)})
}

// CreateEntry POST /api/sections/{sectionId}/entries
func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var e model.ScheduleEntry
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	e.SectionID = mux.Vars(r)["sectionId"]
	out, err := h.svc.Create(r.Context(), &e)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// GetEntry GET /api/entries/{entryId}
func (h *EntryHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Get(r.Context(), mux.Vars(r)["entryId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, e)
}

// UpdateEntry PUT /api/entries/{entryId}
func (h *EntryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	var e model.ScheduleEntry
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	e.ID = mux.Vars(r)["entryId"]
	out, err := h.svc.Update(r.Context(), &e)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteEntry DELETE /api/entries/{entryId}
func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), mux.Vars(r)["entryId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteGroup DELETE /api/entry-groups/{groupId}
func (h *EntryHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteGroup(r.Context(), mux.Vars(r)["groupId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckConflicts POST /api/profiles/{profileId}/conflicts
// Body carries the proposed slot; the response lists overlapping entries.
func (h *EntryHandler) CheckConflicts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date      string           `json:"date"`
		StartTime model.TimeOfDay  `json:"startTime"`
		EndTime   *model.TimeOfDay `json:"endTime,omitempty"`
		ExcludeID string           `json:"excludeId,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		respond.WriteBadRequest(w, "date must be YYYY-MM-DD")
		return
	}
	conflicts, err := h.svc.FindConflicts(r.Context(), mux.Vars(r)["profileId"], date, req.StartTime, req.EndTime, req.ExcludeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"conflicts": conflicts, "count": len(conflicts)})
}

// DayConflicts GET /api/profiles/{profileId}/conflicts?day=YYYY-MM-DD
// Returns the identifiers of entries in at least one overlapping pair.
func (h *EntryHandler) DayConflicts(w http.ResponseWriter, r *http.Request) {
	day, err := time.Parse("2006-01-02", r.URL.Query().Get("day"))
	if err != nil {
		respond.WriteBadRequest(w, "day must be YYYY-MM-DD")
		return
	}
	ids, err := h.svc.ConflictingIDs(r.Context(), mux.Vars(r)["profileId"], day)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"entryIds": out, "count": len(out)})
}
