package sync

import (
	"context"
	"path/filepath"
	gosync "sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/famlog/famlog/internal/model"
	"github.com/famlog/famlog/internal/remote"
	"github.com/famlog/famlog/internal/store"
	"github.com/famlog/famlog/internal/store/sqlite"
)

// fakeTransport is an in-memory Transport that serves canned records and
// records every applied transaction.
type fakeTransport struct {
	mu       gosync.Mutex
	records  map[string][]remote.Record
	applied  [][]remote.Step
	queries  []string
	queryErr error
	applyErr error
	onQuery  func(namespace string)
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{records: make(map[string][]remote.Record)}
}

func (f *fakeTransport) Query(ctx context.Context, namespace string) ([]remote.Record, error) {
	f.mu.Lock()
	f.queries = append(f.queries, namespace)
	hook := f.onQuery
	f.mu.Unlock()
	if hook != nil {
		hook(namespace)
	}
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records[namespace], nil
}

func (f *fakeTransport) Apply(ctx context.Context, steps ...remote.Step) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applied = append(f.applied, steps)
	return nil
}

func (f *fakeTransport) queryCount(namespace string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, q := range f.queries {
		if q == namespace {
			n++
		}
	}
	return n
}

func (f *fakeTransport) allSteps() []remote.Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []remote.Step
	for _, tx := range f.applied {
		out = append(out, tx...)
	}
	return out
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := sqlite.New(filepath.Join(t.TempDir(), "famlog.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	return s
}

func newTestTracker(t *testing.T, s store.Store) *TombstoneTracker {
	t.Helper()
	tracker, err := NewTombstoneTracker(context.Background(), s.Tombstones(), zerolog.Nop())
	if err != nil {
		t.Fatalf("tombstone tracker: %v", err)
	}
	return tracker
}

// seedParents inserts the profile and section the schedule-entry tests hang
// records off.
func seedParents(t *testing.T, s store.Store) (profileID, sectionID string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	p := &model.Profile{ID: "profile-1", Name: "Maya", UpdatedAt: now}
	require.NoError(t, s.Profiles().Insert(ctx, p))
	sec := &model.Section{ID: "section-1", ProfileID: p.ID, Name: "Sports", Icon: "⚽", UpdatedAt: now}
	require.NoError(t, s.Sections().Insert(ctx, sec))
	return p.ID, sec.ID
}

func scheduleRecord(id, profileID, sectionID, title string, date time.Time, hour, minute int, updatedAt time.Time) remote.Record {
	return remote.Record{
		"localId":     id,
		"profileId":   profileID,
		"sectionId":   sectionID,
		"title":       title,
		"date":        date.Format(time.RFC3339),
		"startHour":   float64(hour),
		"startMinute": float64(minute),
		"updatedAt":   updatedAt.Format(time.RFC3339),
	}
}
