package schedule

import (
	"time"

	"github.com/famlog/famlog/internal/model"
)

// defaultDurationMinutes is assumed when an entry or proposal has a start
// time but no end time.
const defaultDurationMinutes = 60

// timeRange is a half-open [start, end) span in minutes from midnight.
type timeRange struct {
	start, end int
}

func (r timeRange) overlaps(other timeRange) bool {
	return r.start < other.end && other.start < r.end
}

func rangeFrom(start model.TimeOfDay, end *model.TimeOfDay) timeRange {
	r := timeRange{start: start.Minutes(), end: start.Minutes() + defaultDurationMinutes}
	if end != nil {
		r.end = end.Minutes()
	}
	return r
}

// entryRange extracts an entry's comparable time range. Entries with no
// start time are all-day and never conflict.
func entryRange(e *model.ScheduleEntry) (timeRange, bool) {
	if e.StartTime == nil {
		return timeRange{}, false
	}
	return rangeFrom(*e.StartTime, e.EndTime), true
}

// FindConflicts returns every entry among candidates that falls on the same
// calendar day as date and whose time range overlaps the proposed
// [start, end) range. excludeID skips the entry being edited so it never
// conflicts with itself. Recurrence templates are not real occurrences and
// are never reported.
func FindConflicts(candidates []*model.ScheduleEntry, date time.Time, start model.TimeOfDay, end *model.TimeOfDay, excludeID string) []*model.ScheduleEntry {
	proposed := rangeFrom(start, end)

	var conflicts []*model.ScheduleEntry
	for _, e := range candidates {
		if e.ID == excludeID || e.IsTemplate || !model.SameDay(e.Date, date) {
			continue
		}
		r, ok := entryRange(e)
		if !ok {
			continue
		}
		if proposed.overlaps(r) {
			conflicts = append(conflicts, e)
		}
	}
	return conflicts
}

// ConflictingIDs computes, for one calendar day, the set of entry
// identifiers that participate in at least one overlapping pair. Used to
// badge day cells.
func ConflictingIDs(candidates []*model.ScheduleEntry, date time.Time) map[string]struct{} {
	type timed struct {
		id string
		r  timeRange
	}
	var day []timed
	for _, e := range candidates {
		if e.IsTemplate || !model.SameDay(e.Date, date) {
			continue
		}
		if r, ok := entryRange(e); ok {
			day = append(day, timed{id: e.ID, r: r})
		}
	}

	ids := make(map[string]struct{})
	for i := 0; i < len(day); i++ {
		for j := i + 1; j < len(day); j++ {
			if day[i].r.overlaps(day[j].r) {
				ids[day[i].id] = struct{}{}
				ids[day[j].id] = struct{}{}
			}
		}
	}
	return ids
}
