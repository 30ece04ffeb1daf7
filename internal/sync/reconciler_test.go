package sync

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famlog/famlog/internal/remote"
)

func TestCleanupKeepsFirstSeenDeletesRest(t *testing.T) {
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	transport := newFakeTransport()
	transport.records["schedule-entries"] = []remote.Record{
		scheduleRecord("keep-piano", "p1", "s1", "Piano", day, 16, 0, now),
		scheduleRecord("dup-piano-1", "p1", "s1", "Piano", day, 16, 0, now),
		scheduleRecord("dup-piano-2", "p1", "s1", "Piano", day, 16, 0, now),
		scheduleRecord("keep-soccer", "p1", "s1", "Soccer", day, 15, 0, now),
	}

	r := NewReconciler(transport, zerolog.Nop())
	removed, err := r.CleanupCloudDuplicates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	deleted := make(map[string]bool)
	for _, step := range transport.allSteps() {
		del, ok := step.(remote.Delete)
		require.True(t, ok, "cleanup must only issue deletes")
		assert.Equal(t, "schedule-entries", del.Namespace)
		deleted[del.ID] = true
	}
	assert.True(t, deleted["dup-piano-1"])
	assert.True(t, deleted["dup-piano-2"])
	assert.False(t, deleted["keep-piano"])
	assert.False(t, deleted["keep-soccer"])
}

func TestCleanupNoDuplicatesIsNoOp(t *testing.T) {
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	transport := newFakeTransport()
	transport.records["schedule-entries"] = []remote.Record{
		scheduleRecord("e-1", "p1", "s1", "Piano", day, 16, 0, now),
		scheduleRecord("e-2", "p1", "s1", "Soccer", day, 15, 0, now),
	}

	r := NewReconciler(transport, zerolog.Nop())
	removed, err := r.CleanupCloudDuplicates(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Empty(t, transport.applied)
}

func TestCleanupBatchesDeletes(t *testing.T) {
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	records := []remote.Record{scheduleRecord("keeper", "p1", "s1", "Piano", day, 16, 0, now)}
	for i := 0; i < 150; i++ {
		records = append(records, scheduleRecord(fmt.Sprintf("dup-%d", i), "p1", "s1", "Piano", day, 16, 0, now))
	}
	transport := newFakeTransport()
	transport.records["schedule-entries"] = records

	r := NewReconciler(transport, zerolog.Nop())
	removed, err := r.CleanupCloudDuplicates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 150, removed)

	require.Len(t, transport.applied, 2)
	assert.Len(t, transport.applied[0], 100)
	assert.Len(t, transport.applied[1], 50)
}
