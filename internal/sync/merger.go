package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/famlog/famlog/internal/model"
	"github.com/famlog/famlog/internal/remote"
	"github.com/famlog/famlog/internal/store"
)

// Merger reconciles one entity kind at a time: remote records are folded into
// the local store (remote→local), then the full local set is pushed back out
// (local→remote). Identifier matches resolve by last-writer-wins on
// updatedAt; records the two sides created independently are matched by
// content-derived dedup keys so no duplicates are minted. Remote copies of
// tombstoned identifiers are deleted from the remote store, so other devices
// observe the deletion and this one cannot resurrect the record after its
// tombstone is pruned.
type Merger struct {
	store      store.Store
	transport  remote.Transport
	tombstones *TombstoneTracker
	log        zerolog.Logger
}

func NewMerger(st store.Store, t remote.Transport, tombstones *TombstoneTracker, log zerolog.Logger) *Merger {
	return &Merger{store: st, transport: t, tombstones: tombstones, log: log}
}

// kindSpec adapts one entity kind to the shared merge algorithm.
type kindSpec[T any] struct {
	kind      model.Kind
	id        func(*T) string
	updatedAt func(*T) time.Time
	key       func(*T) string
	decode    func(remote.Record) (*T, []error, error)
	encode    func(*T) map[string]interface{}
	// parentLink returns the link step attaching the record to its parent,
	// or nil when the kind has no parent (profiles).
	parentLink func(*T) *remote.Link
	listLocal  func(context.Context) ([]*T, error)
	insert     func(context.Context, *T) error
	overwrite  func(context.Context, *T) error
}

// mergeKind runs the remote-scan and push phases for one kind.
func mergeKind[T any](ctx context.Context, m *Merger, spec kindSpec[T]) error {
	records, err := m.transport.Query(ctx, string(spec.kind))
	if err != nil {
		return fmt.Errorf("fetch %s: %w", spec.kind, err)
	}

	local, err := spec.listLocal(ctx)
	if err != nil {
		return fmt.Errorf("list local %s: %w", spec.kind, err)
	}

	byID := make(map[string]*T, len(local))
	byKey := make(map[string]string, len(local))
	for _, rec := range local {
		byID[spec.id(rec)] = rec
		byKey[spec.key(rec)] = spec.id(rec)
	}

	var created, updated, discarded, skipped, deleted int
	var deletes []remote.Step
	for _, raw := range records {
		entity, warnings, err := spec.decode(raw)
		if err != nil {
			// Identity-less record: nothing to merge it against.
			m.log.Warn().Err(err).Str("kind", string(spec.kind)).Msg("decode_degraded")
			continue
		}
		for _, warn := range warnings {
			m.log.Warn().Err(warn).Str("kind", string(spec.kind)).Str("id", spec.id(entity)).Msg("decode_degraded")
		}

		id := spec.id(entity)
		if m.tombstones.IsDeleted(spec.kind, id) {
			// The remote copy has not observed the deletion yet: remove
			// it so other devices converge and this one cannot resurrect
			// the record once the tombstone is pruned.
			if link := spec.parentLink(entity); link != nil {
				deletes = append(deletes, remote.Unlink{
					Namespace: link.Namespace, ID: link.ID, Field: link.Field, TargetID: link.TargetID,
				})
			}
			deletes = append(deletes, remote.Delete{Namespace: string(spec.kind), ID: id})
			deleted++
			continue
		}

		if existing, ok := byID[id]; ok {
			// Last-writer-wins; exact timestamp equality favors local.
			if spec.updatedAt(entity).After(spec.updatedAt(existing)) {
				if err := spec.overwrite(ctx, entity); err != nil {
					m.log.Warn().Err(err).Str("kind", string(spec.kind)).Str("id", id).Msg("overwrite skipped")
					skipped++
					continue
				}
				byID[id] = entity
				// Release the pre-overwrite fingerprint so a later record
				// matching the old content is not discarded against it.
				if oldKey := spec.key(existing); byKey[oldKey] == id {
					delete(byKey, oldKey)
				}
				byKey[spec.key(entity)] = id
				updated++
			}
			continue
		}

		// No identifier match: the dedup key decides whether this is a
		// duplicate of something we already have — including records
		// created earlier in this very batch.
		key := spec.key(entity)
		if _, dup := byKey[key]; dup {
			discarded++
			continue
		}
		if err := spec.insert(ctx, entity); err != nil {
			// Usually an orphan whose parent lost a dedup merge; one bad
			// record must not block the rest of the batch.
			m.log.Warn().Err(err).Str("kind", string(spec.kind)).Str("id", id).Msg("insert skipped")
			skipped++
			continue
		}
		byID[id] = entity
		byKey[key] = id
		created++
	}

	if err := remote.ApplyChunked(ctx, m.transport, deletes); err != nil {
		return fmt.Errorf("propagate %s deletions: %w", spec.kind, err)
	}

	m.log.Info().
		Str("kind", string(spec.kind)).
		Int("remote", len(records)).
		Int("created", created).
		Int("updated", updated).
		Int("discarded", discarded).
		Int("skipped", skipped).
		Int("deleted", deleted).
		Msg("merge pass complete")

	return pushKind(ctx, m, spec)
}

// pushKind writes every local record of the kind to the remote store. Writes
// are idempotent upserts by identifier; parent linkage is a separate step
// because the transport's update verb cannot express nested relations.
func pushKind[T any](ctx context.Context, m *Merger, spec kindSpec[T]) error {
	local, err := spec.listLocal(ctx)
	if err != nil {
		return fmt.Errorf("list local %s: %w", spec.kind, err)
	}

	var steps []remote.Step
	for _, rec := range local {
		steps = append(steps, remote.Update{
			Namespace: string(spec.kind),
			ID:        spec.id(rec),
			Fields:    spec.encode(rec),
		})
		if link := spec.parentLink(rec); link != nil {
			steps = append(steps, *link)
		}
	}
	if err := remote.ApplyChunked(ctx, m.transport, steps); err != nil {
		return fmt.Errorf("push %s: %w", spec.kind, err)
	}
	return nil
}

// MergeProfiles reconciles the profiles namespace.
func (m *Merger) MergeProfiles(ctx context.Context) error {
	return mergeKind(ctx, m, kindSpec[model.Profile]{
		kind:       model.KindProfile,
		id:         func(p *model.Profile) string { return p.ID },
		updatedAt:  func(p *model.Profile) time.Time { return p.UpdatedAt },
		key:        ProfileKey,
		decode:     remote.DecodeProfile,
		encode:     remote.EncodeProfile,
		parentLink: func(p *model.Profile) *remote.Link { return nil },
		listLocal:  m.store.Profiles().List,
		insert:     m.store.Profiles().Insert,
		overwrite:  m.store.Profiles().Save,
	})
}

// MergeSections reconciles the sections namespace.
func (m *Merger) MergeSections(ctx context.Context) error {
	return mergeKind(ctx, m, kindSpec[model.Section]{
		kind:      model.KindSection,
		id:        func(s *model.Section) string { return s.ID },
		updatedAt: func(s *model.Section) time.Time { return s.UpdatedAt },
		key:       SectionKey,
		decode:    remote.DecodeSection,
		encode:    remote.EncodeSection,
		parentLink: func(s *model.Section) *remote.Link {
			return &remote.Link{Namespace: string(model.KindSection), ID: s.ID, Field: "profile", TargetID: s.ProfileID}
		},
		listLocal: m.store.Sections().List,
		insert:    m.store.Sections().Insert,
		overwrite: m.store.Sections().Save,
	})
}

// MergeMediaEntries reconciles the media-entries namespace.
func (m *Merger) MergeMediaEntries(ctx context.Context) error {
	return mergeKind(ctx, m, kindSpec[model.MediaEntry]{
		kind:      model.KindMediaEntry,
		id:        func(e *model.MediaEntry) string { return e.ID },
		updatedAt: func(e *model.MediaEntry) time.Time { return e.UpdatedAt },
		key:       MediaKey,
		decode:    remote.DecodeMediaEntry,
		encode:    remote.EncodeMediaEntry,
		parentLink: func(e *model.MediaEntry) *remote.Link {
			return &remote.Link{Namespace: string(model.KindMediaEntry), ID: e.ID, Field: "profile", TargetID: e.ProfileID}
		},
		listLocal: m.store.MediaEntries().List,
		insert:    m.store.MediaEntries().Insert,
		overwrite: m.store.MediaEntries().Save,
	})
}

// MergeScheduleEntries reconciles the schedule-entries namespace.
func (m *Merger) MergeScheduleEntries(ctx context.Context) error {
	return mergeKind(ctx, m, kindSpec[model.ScheduleEntry]{
		kind:      model.KindScheduleEntry,
		id:        func(e *model.ScheduleEntry) string { return e.ID },
		updatedAt: func(e *model.ScheduleEntry) time.Time { return e.UpdatedAt },
		key:       ScheduleKey,
		decode:    remote.DecodeScheduleEntry,
		encode:    remote.EncodeScheduleEntry,
		parentLink: func(e *model.ScheduleEntry) *remote.Link {
			return &remote.Link{Namespace: string(model.KindScheduleEntry), ID: e.ID, Field: "section", TargetID: e.SectionID}
		},
		listLocal: m.store.ScheduleEntries().List,
		insert:    m.store.ScheduleEntries().Insert,
		overwrite: m.store.ScheduleEntries().Save,
	})
}
