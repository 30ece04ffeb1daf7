package api

import (
	"net/http"

	"github.com/famlog/famlog/internal/api/respond"
	"github.com/famlog/famlog/internal/sync"
)

// SyncHandler exposes the sync engine: background trigger, awaitable run,
// status polling, and the remote duplicate cleanup.
type SyncHandler struct {
	orch       *sync.Orchestrator
	reconciler *sync.Reconciler
}

func NewSyncHandler(orch *sync.Orchestrator, rec *sync.Reconciler) *SyncHandler {
	return &SyncHandler{orch: orch, reconciler: rec}
}

// RequestSync POST /api/sync/request
// Schedules a debounced background run and returns immediately.
func (h *SyncHandler) RequestSync(w http.ResponseWriter, r *http.Request) {
	h.orch.RequestSync()
	w.WriteHeader(http.StatusAccepted)
}

// RunSync POST /api/sync/run
// Blocks until a full sync pass completes ("sync now").
func (h *SyncHandler) RunSync(w http.ResponseWriter, r *http.Request) {
	if err := h.orch.PerformFullSync(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, h.orch.Status())
}

// SyncStatus GET /api/sync/status
func (h *SyncHandler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, h.orch.Status())
}

// CleanupDuplicates POST /api/sync/cleanup-duplicates
func (h *SyncHandler) CleanupDuplicates(w http.ResponseWriter, r *http.Request) {
	count, err := h.reconciler.CleanupCloudDuplicates(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"removed": count})
}
