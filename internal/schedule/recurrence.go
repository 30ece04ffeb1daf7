// Package schedule holds the pure calendar computations: expanding
// recurrence templates into concrete occurrences and detecting time
// conflicts between entries on a day. Nothing here touches storage or the
// network.
package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/famlog/famlog/internal/model"
)

// Horizon bounds how far ahead instances are ever pre-generated, regardless
// of the template's own end condition. Rolling regeneration extends the
// window over time.
const Horizon = 3 // months

// GenerateInstances expands a recurrence template into its ordered concrete
// occurrences, starting at the template's own date. Generation stops at the
// earliest of the template's explicit end date, its occurrence-count cap,
// and the rolling horizon from now. A template without a pattern expands to
// nothing.
func GenerateInstances(tmpl *model.ScheduleEntry, now time.Time) []*model.ScheduleEntry {
	if tmpl.Pattern == nil {
		return nil
	}

	start := model.Day(tmpl.Date)
	horizon := model.Day(now).AddDate(0, Horizon, 0)
	if tmpl.RecurrenceEnd != nil {
		if end := model.Day(*tmpl.RecurrenceEnd); end.Before(horizon) {
			horizon = end
		}
	}
	limit := 0
	if tmpl.OccurrenceCount != nil {
		limit = *tmpl.OccurrenceCount
	}

	var dates []time.Time
	switch *tmpl.Pattern {
	case model.RepeatDaily:
		dates = stepDates(start, horizon, limit, func(d time.Time) time.Time {
			return d.AddDate(0, 0, 1)
		})
	case model.RepeatMonthly:
		dates = stepDates(start, horizon, limit, func(d time.Time) time.Time {
			return d.AddDate(0, 1, 0)
		})
	case model.RepeatWeekly, model.RepeatBiweekly:
		if len(tmpl.Weekdays) == 0 {
			step := 7
			if *tmpl.Pattern == model.RepeatBiweekly {
				step = 14
			}
			dates = stepDates(start, horizon, limit, func(d time.Time) time.Time {
				return d.AddDate(0, 0, step)
			})
		} else {
			dates = weekdayDates(tmpl, start, horizon, limit)
		}
	default:
		return nil
	}

	instances := make([]*model.ScheduleEntry, 0, len(dates))
	for _, date := range dates {
		instances = append(instances, materialize(tmpl, date, now))
	}
	return instances
}

// stepDates emits start, then repeated applications of next, until the
// horizon or the occurrence cap (0 means uncapped) is hit.
func stepDates(start, horizon time.Time, limit int, next func(time.Time) time.Time) []time.Time {
	var dates []time.Time
	for d := start; !d.After(horizon); d = next(d) {
		if limit > 0 && len(dates) == limit {
			break
		}
		dates = append(dates, d)
	}
	return dates
}

// weekdayDates walks day-by-day emitting every date whose weekday is in the
// template's set. For biweekly, whole weeks alternate: the week containing
// the start date produces instances, the next is skipped, and so on.
func weekdayDates(tmpl *model.ScheduleEntry, start, horizon time.Time, limit int) []time.Time {
	wanted := make(map[time.Weekday]struct{}, len(tmpl.Weekdays))
	for _, wd := range tmpl.Weekdays {
		wanted[wd] = struct{}{}
	}

	var dates []time.Time
	for d := start; !d.After(horizon); d = d.AddDate(0, 0, 1) {
		if limit > 0 && len(dates) == limit {
			break
		}
		if _, ok := wanted[d.Weekday()]; !ok {
			continue
		}
		if *tmpl.Pattern == model.RepeatBiweekly {
			week := int(d.Sub(start)/(24*time.Hour)) / 7
			if week%2 != 0 {
				continue
			}
		}
		dates = append(dates, d)
	}
	return dates
}

// materialize copies the schedulable fields of the template onto a fresh
// entry for one date. Instances are leaves: they share the template's
// recurrence group but carry no recurrence metadata of their own.
func materialize(tmpl *model.ScheduleEntry, date, now time.Time) *model.ScheduleEntry {
	group := tmpl.ID
	if tmpl.GroupID != nil {
		group = *tmpl.GroupID
	}
	inst := &model.ScheduleEntry{
		ID:        uuid.NewString(),
		ProfileID: tmpl.ProfileID,
		SectionID: tmpl.SectionID,
		Title:     tmpl.Title,
		Date:      date,
		Reminder:  tmpl.Reminder,
		GroupID:   &group,
		UpdatedAt: now.UTC(),
	}
	if tmpl.Notes != nil {
		n := *tmpl.Notes
		inst.Notes = &n
	}
	if tmpl.StartTime != nil {
		t := *tmpl.StartTime
		inst.StartTime = &t
	}
	if tmpl.EndTime != nil {
		t := *tmpl.EndTime
		inst.EndTime = &t
	}
	return inst
}

// RegenerateFutureInstances computes the instances the template should have
// as of today and returns only the ones not yet materialized: dated
// today-or-later and absent from the existing set by calendar-day
// comparison. Matching is date-only, so a time-of-day edit to the template
// never spawns a duplicate for a date that already has an instance. Past
// instances are never touched.
func RegenerateFutureInstances(tmpl *model.ScheduleEntry, existing []*model.ScheduleEntry, today time.Time) []*model.ScheduleEntry {
	have := make(map[time.Time]struct{}, len(existing))
	for _, e := range existing {
		have[model.Day(e.Date)] = struct{}{}
	}

	cutoff := model.Day(today)
	var missing []*model.ScheduleEntry
	for _, inst := range GenerateInstances(tmpl, today) {
		day := model.Day(inst.Date)
		if day.Before(cutoff) {
			continue
		}
		if _, ok := have[day]; ok {
			continue
		}
		missing = append(missing, inst)
	}
	return missing
}
