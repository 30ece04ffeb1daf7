package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famlog/famlog/internal/model"
)

func newTemplate(pattern model.RecurrencePattern, date time.Time) *model.ScheduleEntry {
	group := "group-1"
	return &model.ScheduleEntry{
		ID:         "tmpl-1",
		ProfileID:  "profile-1",
		SectionID:  "section-1",
		Title:      "Soccer",
		Date:       date,
		StartTime:  &model.TimeOfDay{Hour: 15, Minute: 0},
		EndTime:    &model.TimeOfDay{Hour: 16, Minute: 0},
		GroupID:    &group,
		Pattern:    &pattern,
		IsTemplate: true,
		UpdatedAt:  date,
	}
}

func dates(instances []*model.ScheduleEntry) []time.Time {
	out := make([]time.Time, 0, len(instances))
	for _, inst := range instances {
		out = append(out, model.Day(inst.Date))
	}
	return out
}

func TestWeeklyWithWeekdaySet(t *testing.T) {
	// Monday start, Monday+Wednesday set.
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	tmpl := newTemplate(model.RepeatWeekly, start)
	tmpl.Weekdays = []time.Weekday{time.Monday, time.Wednesday}

	got := dates(GenerateInstances(tmpl, start))
	require.GreaterOrEqual(t, len(got), 4)
	want := []time.Time{
		time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, want, got[:4])
}

func TestWeeklySpacingAndHorizon(t *testing.T) {
	now := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	tmpl := newTemplate(model.RepeatWeekly, now)

	instances := GenerateInstances(tmpl, now)
	require.NotEmpty(t, instances)

	horizon := model.Day(now).AddDate(0, 3, 0)
	for i, inst := range instances {
		assert.False(t, model.Day(inst.Date).After(horizon), "instance %d beyond horizon", i)
		if i > 0 {
			gap := model.Day(inst.Date).Sub(model.Day(instances[i-1].Date))
			assert.Equal(t, 7*24*time.Hour, gap, "instance %d spacing", i)
		}
	}
}

func TestBiweeklyWeekdaySetSkipsAlternateWeeks(t *testing.T) {
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC) // Monday
	tmpl := newTemplate(model.RepeatBiweekly, start)
	tmpl.Weekdays = []time.Weekday{time.Monday, time.Wednesday}

	got := dates(GenerateInstances(tmpl, start))
	require.GreaterOrEqual(t, len(got), 4)
	// Week of June 3 emits, week of June 10 is skipped, week of June 17 emits.
	want := []time.Time{
		time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 19, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, want, got[:4])
}

func TestOccurrenceCountCap(t *testing.T) {
	now := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	tmpl := newTemplate(model.RepeatWeekly, now)
	count := 5
	tmpl.OccurrenceCount = &count

	assert.Len(t, GenerateInstances(tmpl, now), 5)

	// A cap larger than what fits in the horizon yields only what fits.
	big := 1000
	tmpl.OccurrenceCount = &big
	instances := GenerateInstances(tmpl, now)
	assert.NotEmpty(t, instances)
	assert.Less(t, len(instances), 1000)
}

func TestExplicitEndDateBoundsGeneration(t *testing.T) {
	now := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	tmpl := newTemplate(model.RepeatDaily, now)
	end := time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC)
	tmpl.RecurrenceEnd = &end

	got := dates(GenerateInstances(tmpl, now))
	assert.Len(t, got, 5) // June 3..7 inclusive
	assert.Equal(t, end, got[len(got)-1])
}

func TestMonthlySteps(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	tmpl := newTemplate(model.RepeatMonthly, now)

	got := dates(GenerateInstances(tmpl, now))
	require.GreaterOrEqual(t, len(got), 3)
	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), got[0])
	assert.Equal(t, time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC), got[1])
	assert.Equal(t, time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC), got[2])
}

func TestInstancesCopyTemplateFields(t *testing.T) {
	now := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	tmpl := newTemplate(model.RepeatWeekly, now)
	notes := "bring cleats"
	tmpl.Notes = &notes
	tmpl.Reminder = true

	instances := GenerateInstances(tmpl, now)
	require.NotEmpty(t, instances)
	for _, inst := range instances {
		assert.False(t, inst.IsTemplate)
		assert.Nil(t, inst.Pattern)
		assert.Nil(t, inst.OccurrenceCount)
		assert.Empty(t, inst.Weekdays)
		require.NotNil(t, inst.GroupID)
		assert.Equal(t, *tmpl.GroupID, *inst.GroupID)
		assert.Equal(t, tmpl.Title, inst.Title)
		assert.True(t, inst.Reminder)
		require.NotNil(t, inst.Notes)
		assert.Equal(t, notes, *inst.Notes)
		require.NotNil(t, inst.StartTime)
		assert.Equal(t, *tmpl.StartTime, *inst.StartTime)
		assert.NotEqual(t, tmpl.ID, inst.ID)
	}
}

func TestRegenerationIdempotence(t *testing.T) {
	today := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	tmpl := newTemplate(model.RepeatWeekly, today)

	first := RegenerateFutureInstances(tmpl, nil, today)
	require.NotEmpty(t, first)

	second := RegenerateFutureInstances(tmpl, first, today)
	assert.Empty(t, second)
}

func TestRegenerationIgnoresTimeOfDayChanges(t *testing.T) {
	today := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	tmpl := newTemplate(model.RepeatWeekly, today)

	existing := RegenerateFutureInstances(tmpl, nil, today)
	require.NotEmpty(t, existing)

	// A time-of-day edit must not spawn duplicates for existing dates.
	tmpl.StartTime = &model.TimeOfDay{Hour: 17, Minute: 30}
	assert.Empty(t, RegenerateFutureInstances(tmpl, existing, today))
}

func TestRegenerationNeverTouchesPastDates(t *testing.T) {
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	tmpl := newTemplate(model.RepeatWeekly, start)

	// Four weeks later, with no instances materialized at all, only
	// today-or-later dates come back.
	today := start.AddDate(0, 0, 28)
	missing := RegenerateFutureInstances(tmpl, nil, today)
	require.NotEmpty(t, missing)
	for _, inst := range missing {
		assert.False(t, model.Day(inst.Date).Before(model.Day(today)))
	}
}
