package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famlog/famlog/internal/model"
)

type stubTransport struct {
	applied [][]Step
	err     error
}

func (s *stubTransport) Query(ctx context.Context, namespace string) ([]Record, error) {
	return nil, nil
}

func (s *stubTransport) Apply(ctx context.Context, steps ...Step) error {
	if s.err != nil {
		return s.err
	}
	s.applied = append(s.applied, steps)
	return nil
}

func TestApplyChunkedSplitsAtLimit(t *testing.T) {
	steps := make([]Step, 0, 250)
	for i := 0; i < 250; i++ {
		steps = append(steps, Delete{Namespace: "schedule-entries", ID: "x"})
	}

	stub := &stubTransport{}
	require.NoError(t, ApplyChunked(context.Background(), stub, steps))

	require.Len(t, stub.applied, 3)
	assert.Len(t, stub.applied[0], 100)
	assert.Len(t, stub.applied[1], 100)
	assert.Len(t, stub.applied[2], 50)
}

func TestApplyChunkedEmptyIsNoOp(t *testing.T) {
	stub := &stubTransport{}
	require.NoError(t, ApplyChunked(context.Background(), stub, nil))
	assert.Empty(t, stub.applied)
}

func TestHTTPTransportQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/query", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req struct {
			Namespace string `json:"namespace"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "profiles", req.Namespace)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"records": []map[string]interface{}{
				{"localId": "p-1", "updatedAt": "2024-06-03T10:00:00Z"},
			},
		})
	}))
	defer server.Close()

	tr := NewHTTPTransport(server.URL, "test-key")
	records, err := tr.Query(context.Background(), "profiles")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "p-1", records[0]["localId"])
}

// A store that forgets the Content-Type header still returns JSON; the
// records must come through rather than reading as an empty namespace.
func TestHTTPTransportQueryWithoutContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"records":[{"localId":"p-1","updatedAt":"2024-06-03T10:00:00Z"}]}`))
	}))
	defer server.Close()

	tr := NewHTTPTransport(server.URL, "test-key")
	records, err := tr.Query(context.Background(), "profiles")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "p-1", records[0]["localId"])
}

func TestHTTPTransportQueryMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	tr := NewHTTPTransport(server.URL, "test-key")
	_, err := tr.Query(context.Background(), "profiles")
	require.ErrorIs(t, err, model.ErrTransport)
}

func TestHTTPTransportApplySerializesSteps(t *testing.T) {
	var got struct {
		Steps []map[string]interface{} `json:"steps"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/transact", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tr := NewHTTPTransport(server.URL, "test-key")
	err := tr.Apply(context.Background(),
		Update{Namespace: "profiles", ID: "p-1", Fields: map[string]interface{}{"name": "Maya"}},
		Link{Namespace: "sections", ID: "s-1", Field: "profile", TargetID: "p-1"},
		Delete{Namespace: "schedule-entries", ID: "e-1"},
	)
	require.NoError(t, err)

	require.Len(t, got.Steps, 3)
	assert.Equal(t, "update", got.Steps[0]["op"])
	assert.Equal(t, "link", got.Steps[1]["op"])
	assert.Equal(t, "profile", got.Steps[1]["field"])
	assert.Equal(t, "p-1", got.Steps[1]["targetId"])
	assert.Equal(t, "delete", got.Steps[2]["op"])
}

func TestHTTPTransportRejectsOversizedTransaction(t *testing.T) {
	tr := NewHTTPTransport("http://localhost:0", "test-key")
	steps := make([]Step, MaxStepsPerTransaction+1)
	for i := range steps {
		steps[i] = Delete{Namespace: "schedule-entries", ID: "x"}
	}
	err := tr.Apply(context.Background(), steps...)
	require.ErrorIs(t, err, model.ErrTransport)
}

func TestHTTPTransportErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	tr := NewHTTPTransport(server.URL, "test-key")
	_, err := tr.Query(context.Background(), "profiles")
	require.ErrorIs(t, err, model.ErrTransport)

	err = tr.Apply(context.Background(), Delete{Namespace: "profiles", ID: "p-1"})
	require.ErrorIs(t, err, model.ErrTransport)
}
