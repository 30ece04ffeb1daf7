package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/famlog/famlog/internal/model"
	"github.com/famlog/famlog/internal/store"
)

type ProfileService struct {
	store      store.Store
	tombstones Tombstoner
	syncer     Syncer
}

func NewProfileService(s store.Store, t Tombstoner, sy Syncer) *ProfileService {
	return &ProfileService{store: s, tombstones: t, syncer: sy}
}

func (s *ProfileService) List(ctx context.Context) ([]*model.Profile, error) {
	return s.store.Profiles().List(ctx)
}

func (s *ProfileService) Get(ctx context.Context, id string) (*model.Profile, error) {
	return s.store.Profiles().Get(ctx, id)
}

func (s *ProfileService) Create(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	if err := requireField("name", p.Name); err != nil {
		return nil, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.UpdatedAt = time.Now().UTC()
	if err := s.store.Profiles().Insert(ctx, p); err != nil {
		return nil, err
	}
	s.syncer.RequestSync()
	return p, nil
}

func (s *ProfileService) Update(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	if err := requireField("name", p.Name); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now().UTC()
	if err := s.store.Profiles().Save(ctx, p); err != nil {
		return nil, err
	}
	s.syncer.RequestSync()
	return p, nil
}

// Delete removes the profile and tombstones it together with every section,
// schedule entry and media entry it owns. The store cascades the row
// deletes; the tombstones keep a later merge from resurrecting any of them
// from a stale remote copy.
func (s *ProfileService) Delete(ctx context.Context, id string) error {
	sections, err := s.store.Sections().ListByProfile(ctx, id)
	if err != nil {
		return err
	}
	media, err := s.store.MediaEntries().ListByProfile(ctx, id)
	if err != nil {
		return err
	}
	for _, sec := range sections {
		entries, err := s.store.ScheduleEntries().ListBySection(ctx, sec.ID)
		if err != nil {
			return err
		}
		for _, e := range entries {
			s.tombstones.MarkDeleted(ctx, model.KindScheduleEntry, e.ID)
		}
		s.tombstones.MarkDeleted(ctx, model.KindSection, sec.ID)
	}
	for _, m := range media {
		s.tombstones.MarkDeleted(ctx, model.KindMediaEntry, m.ID)
	}
	s.tombstones.MarkDeleted(ctx, model.KindProfile, id)

	if err := s.store.Profiles().Delete(ctx, id); err != nil {
		return err
	}
	s.syncer.RequestSync()
	return nil
}
