// Package storetest holds a driver-agnostic compliance suite for
// store.Store implementations.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/famlog/famlog/internal/model"
	"github.com/famlog/famlog/internal/store"
)

// Run exercises a minimal compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store and return it from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	// Profiles
	p := &model.Profile{
		ID:          uuid.NewString(),
		Name:        "Maya",
		Avatar:      "🦊",
		YearlyGoals: map[string]int{"book": 12},
		VisibleTabs: []string{"schedule", "media"},
		UpdatedAt:   now,
	}
	if err := s.Profiles().Insert(ctx, p); err != nil {
		t.Fatalf("InsertProfile: %v", err)
	}
	if got, err := s.Profiles().Get(ctx, p.ID); err != nil || got.Name != "Maya" || got.YearlyGoals["book"] != 12 {
		t.Fatalf("GetProfile: got=%v err=%v", got, err)
	}
	p.Name = "Maya R"
	p.UpdatedAt = now.Add(time.Second)
	if err := s.Profiles().Save(ctx, p); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	if got, _ := s.Profiles().Get(ctx, p.ID); got.Name != "Maya R" {
		t.Fatalf("SaveProfile not applied: got=%v", got)
	}
	if err := s.Profiles().Save(ctx, &model.Profile{ID: uuid.NewString(), Name: "ghost"}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("SaveProfile missing: err=%v, want ErrNotFound", err)
	}
	if lst, err := s.Profiles().List(ctx); err != nil || len(lst) != 1 {
		t.Fatalf("ListProfiles: n=%d err=%v", len(lst), err)
	}

	// Sections
	sec := &model.Section{
		ID:          uuid.NewString(),
		ProfileID:   p.ID,
		Name:        "Sports",
		Icon:        "⚽",
		SortOrder:   1,
		Suggestions: []string{"Soccer", "Swim"},
		UpdatedAt:   now,
	}
	if err := s.Sections().Insert(ctx, sec); err != nil {
		t.Fatalf("InsertSection: %v", err)
	}
	if got, err := s.Sections().Get(ctx, sec.ID); err != nil || got.Icon != "⚽" || len(got.Suggestions) != 2 {
		t.Fatalf("GetSection: got=%v err=%v", got, err)
	}
	if lst, err := s.Sections().ListByProfile(ctx, p.ID); err != nil || len(lst) != 1 {
		t.Fatalf("ListByProfile: n=%d err=%v", len(lst), err)
	}

	// Schedule entries
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	group := uuid.NewString()
	e1 := &model.ScheduleEntry{
		ID:        uuid.NewString(),
		ProfileID: p.ID,
		SectionID: sec.ID,
		Title:     "Soccer",
		Date:      day,
		StartTime: &model.TimeOfDay{Hour: 15, Minute: 0},
		EndTime:   &model.TimeOfDay{Hour: 16, Minute: 0},
		GroupID:   &group,
		UpdatedAt: now,
	}
	e2 := &model.ScheduleEntry{
		ID:        uuid.NewString(),
		ProfileID: p.ID,
		SectionID: sec.ID,
		Title:     "Swim",
		Date:      day.AddDate(0, 0, 1),
		UpdatedAt: now,
	}
	for _, e := range []*model.ScheduleEntry{e1, e2} {
		if err := s.ScheduleEntries().Insert(ctx, e); err != nil {
			t.Fatalf("InsertEntry %s: %v", e.Title, err)
		}
	}
	if got, err := s.ScheduleEntries().Get(ctx, e1.ID); err != nil || got.StartTime == nil || got.StartTime.Hour != 15 {
		t.Fatalf("GetEntry: got=%v err=%v", got, err)
	}
	if lst, err := s.ScheduleEntries().ListBySection(ctx, sec.ID); err != nil || len(lst) != 2 {
		t.Fatalf("ListBySection: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.ScheduleEntries().ListByGroup(ctx, group); err != nil || len(lst) != 1 {
		t.Fatalf("ListByGroup: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.ScheduleEntries().ListOnDay(ctx, p.ID, day); err != nil || len(lst) != 1 || lst[0].Title != "Soccer" {
		t.Fatalf("ListOnDay: n=%d err=%v", len(lst), err)
	}
	if err := s.ScheduleEntries().Delete(ctx, e2.ID); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}

	// Media entries
	m := &model.MediaEntry{
		ID:        uuid.NewString(),
		ProfileID: p.ID,
		Title:     "Totoro",
		Kind:      model.MediaMovie,
		Date:      day,
		UpdatedAt: now,
	}
	if err := s.MediaEntries().Insert(ctx, m); err != nil {
		t.Fatalf("InsertMedia: %v", err)
	}
	if lst, err := s.MediaEntries().ListByProfile(ctx, p.ID); err != nil || len(lst) != 1 {
		t.Fatalf("ListMediaByProfile: n=%d err=%v", len(lst), err)
	}

	// Tombstones
	ts := model.Tombstone{Kind: model.KindScheduleEntry, ID: e2.ID, DeletedAt: now}
	if err := s.Tombstones().Insert(ctx, ts); err != nil {
		t.Fatalf("InsertTombstone: %v", err)
	}
	// Duplicate insert must be a no-op, not an error.
	if err := s.Tombstones().Insert(ctx, ts); err != nil {
		t.Fatalf("InsertTombstone duplicate: %v", err)
	}
	if rows, err := s.Tombstones().List(ctx); err != nil || len(rows) != 1 {
		t.Fatalf("ListTombstones: n=%d err=%v", len(rows), err)
	}
	if err := s.Tombstones().PruneBefore(ctx, now.Add(time.Hour)); err != nil {
		t.Fatalf("PruneBefore: %v", err)
	}
	if rows, _ := s.Tombstones().List(ctx); len(rows) != 0 {
		t.Fatalf("PruneBefore left %d rows", len(rows))
	}

	// Profile delete cascades to sections, entries and media.
	if err := s.Profiles().Delete(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}
	if _, err := s.Sections().Get(ctx, sec.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("section survived profile delete: err=%v", err)
	}
	if _, err := s.ScheduleEntries().Get(ctx, e1.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("entry survived profile delete: err=%v", err)
	}
	if _, err := s.MediaEntries().Get(ctx, m.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("media survived profile delete: err=%v", err)
	}
}
