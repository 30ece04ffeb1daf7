package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famlog/famlog/internal/auth"
	"github.com/famlog/famlog/internal/config"
	"github.com/famlog/famlog/internal/remote"
	"github.com/famlog/famlog/internal/services"
	"github.com/famlog/famlog/internal/store/sqlite"
	syncengine "github.com/famlog/famlog/internal/sync"
)

// memTransport is an in-memory remote store for handler tests.
type memTransport struct {
	records map[string][]remote.Record
}

func (m *memTransport) Query(ctx context.Context, namespace string) ([]remote.Record, error) {
	return m.records[namespace], nil
}

func (m *memTransport) Apply(ctx context.Context, steps ...remote.Step) error { return nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := zerolog.Nop()
	cfg := config.NewForTesting()

	st, err := sqlite.New(filepath.Join(t.TempDir(), "famlog.db"))
	require.NoError(t, err)

	tracker, err := syncengine.NewTombstoneTracker(context.Background(), st.Tombstones(), log)
	require.NoError(t, err)

	transport := &memTransport{records: make(map[string][]remote.Record)}
	merger := syncengine.NewMerger(st, transport, tracker, log)
	authorizer := &auth.MockAuthorizer{Session: &auth.Session{AccountID: "acct", DeviceID: "dev"}}
	orch := syncengine.NewOrchestrator(merger, authorizer, cfg.SyncDebounce(), cfg.StatusClear(), log)

	router := NewRouter(Deps{
		Profiles:   services.NewProfileService(st, tracker, orch),
		Sections:   services.NewSectionService(st, tracker, orch),
		Schedule:   services.NewScheduleService(st, tracker, orch),
		Media:      services.NewMediaService(st, tracker, orch),
		Orch:       orch,
		Reconciler: syncengine.NewReconciler(transport, log),
		IsHealthy:  func() bool { return true },
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeInto(t, resp, &body)
	assert.Equal(t, "healthy", body["status"])
}

func TestProfileCRUDOverHTTP(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/profiles", map[string]interface{}{"name": "Maya"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	decodeInto(t, resp, &created)
	require.NotEmpty(t, created.ID)

	resp, err := http.Get(server.URL + "/api/profiles/" + created.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = http.Get(server.URL + "/api/profiles")
	require.NoError(t, err)
	var list struct {
		Count int `json:"count"`
	}
	decodeInto(t, resp, &list)
	assert.Equal(t, 1, list.Count)
}

func TestProfileValidationAndNotFound(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/profiles", map[string]interface{}{"name": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err := http.Get(server.URL + "/api/profiles/does-not-exist")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestConflictCheckOverHTTP(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/profiles", map[string]interface{}{"name": "Maya"})
	var profile struct {
		ID string `json:"id"`
	}
	decodeInto(t, resp, &profile)

	resp = postJSON(t, server.URL+"/api/profiles/"+profile.ID+"/sections", map[string]interface{}{"name": "Sports"})
	var section struct {
		ID string `json:"id"`
	}
	decodeInto(t, resp, &section)

	resp = postJSON(t, server.URL+"/api/sections/"+section.ID+"/entries", map[string]interface{}{
		"title":     "Soccer",
		"profileId": profile.ID,
		"date":      "2024-06-03T00:00:00Z",
		"startTime": map[string]int{"hour": 15, "minute": 0},
		"endTime":   map[string]int{"hour": 16, "minute": 0},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = postJSON(t, server.URL+"/api/profiles/"+profile.ID+"/conflicts", map[string]interface{}{
		"date":      "2024-06-03",
		"startTime": map[string]int{"hour": 15, "minute": 30},
		"endTime":   map[string]int{"hour": 16, "minute": 30},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var conflicts struct {
		Count int `json:"count"`
	}
	decodeInto(t, resp, &conflicts)
	assert.Equal(t, 1, conflicts.Count)
}

func TestSyncEndpoints(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/sync/status")
	require.NoError(t, err)
	var status struct {
		State string `json:"state"`
	}
	decodeInto(t, resp, &status)
	assert.Equal(t, "idle", status.State)

	resp = postJSON(t, server.URL+"/api/sync/run", map[string]interface{}{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeInto(t, resp, &status)
	assert.Equal(t, "success", status.State)

	resp = postJSON(t, server.URL+"/api/sync/cleanup-duplicates", map[string]interface{}{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cleanup struct {
		Removed int `json:"removed"`
	}
	decodeInto(t, resp, &cleanup)
	assert.Zero(t, cleanup.Removed)
}
