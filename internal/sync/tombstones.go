// Package sync implements the offline-first reconciliation engine: the
// per-kind entity merger, the deletion tombstone tracker, the duplicate
// reconciler for the remote store, and the debounced orchestrator that
// sequences it all.
package sync

import (
	"context"
	gosync "sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/famlog/famlog/internal/model"
	"github.com/famlog/famlog/internal/store"
)

// TombstoneWindow is how long a persisted tombstone is kept before pruning.
// It only needs to outlive the longest plausible sync-propagation delay.
const TombstoneWindow = 30 * 24 * time.Hour

// TombstoneTracker remembers locally-deleted identifiers so the merger does
// not resurrect them from a remote copy that has not observed the deletion
// yet. Lookups are in-memory; every mark is also written through to the
// local store so the guard survives process restarts.
type TombstoneTracker struct {
	mu      gosync.RWMutex
	deleted map[model.Kind]map[string]struct{}

	durable store.Tombstones
	log     zerolog.Logger
}

// NewTombstoneTracker builds a tracker warmed from the persisted tombstone
// table. Rows older than TombstoneWindow are pruned first.
func NewTombstoneTracker(ctx context.Context, durable store.Tombstones, log zerolog.Logger) (*TombstoneTracker, error) {
	t := &TombstoneTracker{
		deleted: make(map[model.Kind]map[string]struct{}),
		durable: durable,
		log:     log,
	}

	if err := durable.PruneBefore(ctx, time.Now().UTC().Add(-TombstoneWindow)); err != nil {
		return nil, err
	}
	rows, err := durable.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		t.remember(row.Kind, row.ID)
	}
	if len(rows) > 0 {
		log.Info().Int("count", len(rows)).Msg("tombstones loaded")
	}
	return t, nil
}

func (t *TombstoneTracker) remember(kind model.Kind, id string) {
	set, ok := t.deleted[kind]
	if !ok {
		set = make(map[string]struct{})
		t.deleted[kind] = set
	}
	set[id] = struct{}{}
}

// MarkDeleted records a local deletion. Unconditional and idempotent.
func (t *TombstoneTracker) MarkDeleted(ctx context.Context, kind model.Kind, id string) {
	t.mu.Lock()
	t.remember(kind, id)
	t.mu.Unlock()

	err := t.durable.Insert(ctx, model.Tombstone{Kind: kind, ID: id, DeletedAt: time.Now().UTC()})
	if err != nil {
		// The in-memory mark still protects this session.
		t.log.Warn().Err(err).Str("kind", string(kind)).Str("id", id).Msg("tombstone persist failed")
	}
}

// IsDeleted reports whether the identifier was deleted locally.
func (t *TombstoneTracker) IsDeleted(kind model.Kind, id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.deleted[kind][id]
	return ok
}
