package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/famlog/famlog/internal/model"
	"github.com/famlog/famlog/internal/store"
)

type MediaService struct {
	store      store.Store
	tombstones Tombstoner
	syncer     Syncer
}

func NewMediaService(s store.Store, t Tombstoner, sy Syncer) *MediaService {
	return &MediaService{store: s, tombstones: t, syncer: sy}
}

func (s *MediaService) List(ctx context.Context) ([]*model.MediaEntry, error) {
	return s.store.MediaEntries().List(ctx)
}

func (s *MediaService) ListByProfile(ctx context.Context, profileID string) ([]*model.MediaEntry, error) {
	return s.store.MediaEntries().ListByProfile(ctx, profileID)
}

func (s *MediaService) Get(ctx context.Context, id string) (*model.MediaEntry, error) {
	return s.store.MediaEntries().Get(ctx, id)
}

func (s *MediaService) Create(ctx context.Context, m *model.MediaEntry) (*model.MediaEntry, error) {
	if err := requireField("title", m.Title); err != nil {
		return nil, err
	}
	if err := requireField("profileId", m.ProfileID); err != nil {
		return nil, err
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.UpdatedAt = time.Now().UTC()
	if err := s.store.MediaEntries().Insert(ctx, m); err != nil {
		return nil, err
	}
	s.syncer.RequestSync()
	return m, nil
}

func (s *MediaService) Update(ctx context.Context, m *model.MediaEntry) (*model.MediaEntry, error) {
	if err := requireField("title", m.Title); err != nil {
		return nil, err
	}
	m.UpdatedAt = time.Now().UTC()
	if err := s.store.MediaEntries().Save(ctx, m); err != nil {
		return nil, err
	}
	s.syncer.RequestSync()
	return m, nil
}

func (s *MediaService) Delete(ctx context.Context, id string) error {
	s.tombstones.MarkDeleted(ctx, model.KindMediaEntry, id)
	if err := s.store.MediaEntries().Delete(ctx, id); err != nil {
		return err
	}
	s.syncer.RequestSync()
	return nil
}
