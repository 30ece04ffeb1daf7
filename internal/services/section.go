package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/famlog/famlog/internal/model"
	"github.com/famlog/famlog/internal/store"
)

type SectionService struct {
	store      store.Store
	tombstones Tombstoner
	syncer     Syncer
}

func NewSectionService(s store.Store, t Tombstoner, sy Syncer) *SectionService {
	return &SectionService{store: s, tombstones: t, syncer: sy}
}

func (s *SectionService) List(ctx context.Context) ([]*model.Section, error) {
	return s.store.Sections().List(ctx)
}

func (s *SectionService) ListByProfile(ctx context.Context, profileID string) ([]*model.Section, error) {
	return s.store.Sections().ListByProfile(ctx, profileID)
}

func (s *SectionService) Get(ctx context.Context, id string) (*model.Section, error) {
	return s.store.Sections().Get(ctx, id)
}

func (s *SectionService) Create(ctx context.Context, sec *model.Section) (*model.Section, error) {
	if err := requireField("name", sec.Name); err != nil {
		return nil, err
	}
	if err := requireField("profileId", sec.ProfileID); err != nil {
		return nil, err
	}
	if sec.ID == "" {
		sec.ID = uuid.NewString()
	}
	sec.Suggestions = dedupeSuggestions(sec.Suggestions)
	sec.UpdatedAt = time.Now().UTC()
	if err := s.store.Sections().Insert(ctx, sec); err != nil {
		return nil, err
	}
	s.syncer.RequestSync()
	return sec, nil
}

func (s *SectionService) Update(ctx context.Context, sec *model.Section) (*model.Section, error) {
	if err := requireField("name", sec.Name); err != nil {
		return nil, err
	}
	sec.Suggestions = dedupeSuggestions(sec.Suggestions)
	sec.UpdatedAt = time.Now().UTC()
	if err := s.store.Sections().Save(ctx, sec); err != nil {
		return nil, err
	}
	s.syncer.RequestSync()
	return sec, nil
}

// AddSuggestion appends a suggested-activity label, keeping the list
// insertion-ordered and case-insensitively unique.
func (s *SectionService) AddSuggestion(ctx context.Context, sectionID, label string) (*model.Section, error) {
	if err := requireField("label", label); err != nil {
		return nil, err
	}
	sec, err := s.store.Sections().Get(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	sec.Suggestions = dedupeSuggestions(append(sec.Suggestions, label))
	return s.Update(ctx, sec)
}

// Delete removes the section and tombstones it along with its entries.
func (s *SectionService) Delete(ctx context.Context, id string) error {
	entries, err := s.store.ScheduleEntries().ListBySection(ctx, id)
	if err != nil {
		return err
	}
	for _, e := range entries {
		s.tombstones.MarkDeleted(ctx, model.KindScheduleEntry, e.ID)
	}
	s.tombstones.MarkDeleted(ctx, model.KindSection, id)

	if err := s.store.Sections().Delete(ctx, id); err != nil {
		return err
	}
	s.syncer.RequestSync()
	return nil
}

// dedupeSuggestions keeps the first occurrence of each label, compared
// case-insensitively, preserving insertion order.
func dedupeSuggestions(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := labels[:0]
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		key := strings.ToLower(l)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, l)
	}
	return out
}
