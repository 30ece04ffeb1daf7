package api

import (
	"github.com/gorilla/mux"

	"github.com/famlog/famlog/internal/services"
	syncengine "github.com/famlog/famlog/internal/sync"
)

// Deps carries the constructed services the router exposes.
type Deps struct {
	Profiles   *services.ProfileService
	Sections   *services.SectionService
	Schedule   *services.ScheduleService
	Media      *services.MediaService
	Orch       *syncengine.Orchestrator
	Reconciler *syncengine.Reconciler
	IsHealthy  func() bool
}

// NewRouter creates the HTTP router with all API routes.
func NewRouter(d Deps) *mux.Router {
	router := mux.NewRouter()

	healthHandler := NewHealthHandler(d.IsHealthy)
	profileHandler := NewProfileHandler(d.Profiles)
	sectionHandler := NewSectionHandler(d.Sections)
	entryHandler := NewEntryHandler(d.Schedule)
	mediaHandler := NewMediaHandler(d.Media)
	syncHandler := NewSyncHandler(d.Orch, d.Reconciler)

	// Health endpoint
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	// Profile endpoints
	router.HandleFunc("/api/profiles", profileHandler.ListProfiles).Methods("GET")
	router.HandleFunc("/api/profiles", profileHandler.CreateProfile).Methods("POST")
	router.HandleFunc("/api/profiles/{profileId}", profileHandler.GetProfile).Methods("GET")
	router.HandleFunc("/api/profiles/{profileId}", profileHandler.UpdateProfile).Methods("PUT")
	router.HandleFunc("/api/profiles/{profileId}", profileHandler.DeleteProfile).Methods("DELETE")

	// Section endpoints
	router.HandleFunc("/api/profiles/{profileId}/sections", sectionHandler.ListSections).Methods("GET")
	router.HandleFunc("/api/profiles/{profileId}/sections", sectionHandler.CreateSection).Methods("POST")
	router.HandleFunc("/api/sections/{sectionId}", sectionHandler.GetSection).Methods("GET")
	router.HandleFunc("/api/sections/{sectionId}", sectionHandler.UpdateSection).Methods("PUT")
	router.HandleFunc("/api/sections/{sectionId}", sectionHandler.DeleteSection).Methods("DELETE")
	router.HandleFunc("/api/sections/{sectionId}/suggestions", sectionHandler.AddSuggestion).Methods("POST")

	// Schedule entry endpoints
	router.HandleFunc("/api/sections/{sectionId}/entries", entryHandler.ListEntries).Methods("GET")
	router.HandleFunc("/api/sections/{sectionId}/entries", entryHandler.CreateEntry).Methods("POST")
	router.HandleFunc("/api/entries/{entryId}", entryHandler.GetEntry).Methods("GET")
	router.HandleFunc("/api/entries/{entryId}", entryHandler.UpdateEntry).Methods("PUT")
	router.HandleFunc("/api/entries/{entryId}", entryHandler.DeleteEntry).Methods("DELETE")
	router.HandleFunc("/api/entry-groups/{groupId}", entryHandler.DeleteGroup).Methods("DELETE")

	// Conflict endpoints
	router.HandleFunc("/api/profiles/{profileId}/conflicts", entryHandler.CheckConflicts).Methods("POST")
	router.HandleFunc("/api/profiles/{profileId}/conflicts", entryHandler.DayConflicts).Methods("GET")

	// Media endpoints
	router.HandleFunc("/api/profiles/{profileId}/media", mediaHandler.ListMedia).Methods("GET")
	router.HandleFunc("/api/profiles/{profileId}/media", mediaHandler.CreateMedia).Methods("POST")
	router.HandleFunc("/api/media/{mediaId}", mediaHandler.GetMedia).Methods("GET")
	router.HandleFunc("/api/media/{mediaId}", mediaHandler.UpdateMedia).Methods("PUT")
	router.HandleFunc("/api/media/{mediaId}", mediaHandler.DeleteMedia).Methods("DELETE")

	// Sync endpoints
	router.HandleFunc("/api/sync/request", syncHandler.RequestSync).Methods("POST")
	router.HandleFunc("/api/sync/run", syncHandler.RunSync).Methods("POST")
	router.HandleFunc("/api/sync/status", syncHandler.SyncStatus).Methods("GET")
	router.HandleFunc("/api/sync/cleanup-duplicates", syncHandler.CleanupDuplicates).Methods("POST")

	return router
}
