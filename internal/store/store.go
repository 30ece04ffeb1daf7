package store

import (
	"context"
	"time"

	"github.com/famlog/famlog/internal/model"
)

// Store exposes the on-device persistence operations required by the edit
// paths and the sync engine. Implementations live under internal/store/<driver>/.
type Store interface {
	Profiles() Profiles
	Sections() Sections
	ScheduleEntries() ScheduleEntries
	MediaEntries() MediaEntries
	Tombstones() Tombstones
}

type Profiles interface {
	List(ctx context.Context) ([]*model.Profile, error)
	Get(ctx context.Context, id string) (*model.Profile, error)
	Insert(ctx context.Context, p *model.Profile) error
	Save(ctx context.Context, p *model.Profile) error
	Delete(ctx context.Context, id string) error
}

type Sections interface {
	List(ctx context.Context) ([]*model.Section, error)
	ListByProfile(ctx context.Context, profileID string) ([]*model.Section, error)
	Get(ctx context.Context, id string) (*model.Section, error)
	Insert(ctx context.Context, s *model.Section) error
	Save(ctx context.Context, s *model.Section) error
	Delete(ctx context.Context, id string) error
}

type ScheduleEntries interface {
	List(ctx context.Context) ([]*model.ScheduleEntry, error)
	ListBySection(ctx context.Context, sectionID string) ([]*model.ScheduleEntry, error)
	ListByGroup(ctx context.Context, groupID string) ([]*model.ScheduleEntry, error)
	ListOnDay(ctx context.Context, profileID string, day time.Time) ([]*model.ScheduleEntry, error)
	Get(ctx context.Context, id string) (*model.ScheduleEntry, error)
	Insert(ctx context.Context, e *model.ScheduleEntry) error
	Save(ctx context.Context, e *model.ScheduleEntry) error
	Delete(ctx context.Context, id string) error
}

type MediaEntries interface {
	List(ctx context.Context) ([]*model.MediaEntry, error)
	ListByProfile(ctx context.Context, profileID string) ([]*model.MediaEntry, error)
	Get(ctx context.Context, id string) (*model.MediaEntry, error)
	Insert(ctx context.Context, m *model.MediaEntry) error
	Save(ctx context.Context, m *model.MediaEntry) error
	Delete(ctx context.Context, id string) error
}

// Tombstones is the durable backing for the in-process tombstone tracker.
type Tombstones interface {
	Insert(ctx context.Context, t model.Tombstone) error
	List(ctx context.Context) ([]model.Tombstone, error)
	PruneBefore(ctx context.Context, cutoff time.Time) error
}
