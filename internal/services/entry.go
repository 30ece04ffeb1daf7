package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/famlog/famlog/internal/model"
	"github.com/famlog/famlog/internal/schedule"
	"github.com/famlog/famlog/internal/store"
)

type ScheduleService struct {
	store      store.Store
	tombstones Tombstoner
	syncer     Syncer
	now        func() time.Time
}

func NewScheduleService(s store.Store, t Tombstoner, sy Syncer) *ScheduleService {
	return &ScheduleService{store: s, tombstones: t, syncer: sy, now: time.Now}
}

func (s *ScheduleService) List(ctx context.Context) ([]*model.ScheduleEntry, error) {
	return s.store.ScheduleEntries().List(ctx)
}

func (s *ScheduleService) ListBySection(ctx context.Context, sectionID string) ([]*model.ScheduleEntry, error) {
	return s.store.ScheduleEntries().ListBySection(ctx, sectionID)
}

func (s *ScheduleService) Get(ctx context.Context, id string) (*model.ScheduleEntry, error) {
	return s.store.ScheduleEntries().Get(ctx, id)
}

// FindConflicts returns the entries on the proposed day whose time ranges
// overlap the proposed range, excluding the entry being edited.
func (s *ScheduleService) FindConflicts(ctx context.Context, profileID string, date time.Time, start model.TimeOfDay, end *model.TimeOfDay, excludeID string) ([]*model.ScheduleEntry, error) {
	onDay, err := s.store.ScheduleEntries().ListOnDay(ctx, profileID, date)
	if err != nil {
		return nil, err
	}
	return schedule.FindConflicts(onDay, date, start, end, excludeID), nil
}

// ConflictingIDs returns the identifiers of every entry on the day that
// participates in at least one overlapping pair.
func (s *ScheduleService) ConflictingIDs(ctx context.Context, profileID string, day time.Time) (map[string]struct{}, error) {
	onDay, err := s.store.ScheduleEntries().ListOnDay(ctx, profileID, day)
	if err != nil {
		return nil, err
	}
	return schedule.ConflictingIDs(onDay, day), nil
}

// Create inserts the entry. When the entry is a recurrence template its
// occurrences are materialized and inserted alongside it.
func (s *ScheduleService) Create(ctx context.Context, e *model.ScheduleEntry) (*model.ScheduleEntry, error) {
	if err := requireField("title", e.Title); err != nil {
		return nil, err
	}
	if err := requireField("profileId", e.ProfileID); err != nil {
		return nil, err
	}
	if err := requireField("sectionId", e.SectionID); err != nil {
		return nil, err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := s.now().UTC()
	e.UpdatedAt = now

	if e.IsTemplate {
		if e.GroupID == nil {
			g := e.ID
			e.GroupID = &g
		}
		if err := s.store.ScheduleEntries().Insert(ctx, e); err != nil {
			return nil, err
		}
		for _, inst := range schedule.GenerateInstances(e, now) {
			if err := s.store.ScheduleEntries().Insert(ctx, inst); err != nil {
				return nil, err
			}
		}
	} else {
		if err := s.store.ScheduleEntries().Insert(ctx, e); err != nil {
			return nil, err
		}
	}
	s.syncer.RequestSync()
	return e, nil
}

// Update saves the entry. Editing a template additionally tops up its
// future instances: the rolling window is recomputed and only the dates not
// already materialized are inserted, so repeated edits never duplicate.
func (s *ScheduleService) Update(ctx context.Context, e *model.ScheduleEntry) (*model.ScheduleEntry, error) {
	if err := requireField("title", e.Title); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	e.UpdatedAt = now
	if err := s.store.ScheduleEntries().Save(ctx, e); err != nil {
		return nil, err
	}

	if e.IsTemplate && e.GroupID != nil {
		group, err := s.store.ScheduleEntries().ListByGroup(ctx, *e.GroupID)
		if err != nil {
			return nil, err
		}
		existing := group[:0]
		for _, g := range group {
			if !g.IsTemplate {
				existing = append(existing, g)
			}
		}
		for _, inst := range schedule.RegenerateFutureInstances(e, existing, now) {
			if err := s.store.ScheduleEntries().Insert(ctx, inst); err != nil {
				return nil, err
			}
		}
	}
	s.syncer.RequestSync()
	return e, nil
}

// Delete removes one entry and tombstones it.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	s.tombstones.MarkDeleted(ctx, model.KindScheduleEntry, id)
	if err := s.store.ScheduleEntries().Delete(ctx, id); err != nil {
		return err
	}
	s.syncer.RequestSync()
	return nil
}

// DeleteGroup removes a recurrence group wholesale: the template and every
// materialized instance, each individually tombstoned.
func (s *ScheduleService) DeleteGroup(ctx context.Context, groupID string) error {
	group, err := s.store.ScheduleEntries().ListByGroup(ctx, groupID)
	if err != nil {
		return err
	}
	for _, e := range group {
		s.tombstones.MarkDeleted(ctx, model.KindScheduleEntry, e.ID)
		if err := s.store.ScheduleEntries().Delete(ctx, e.ID); err != nil {
			return err
		}
	}
	s.syncer.RequestSync()
	return nil
}
