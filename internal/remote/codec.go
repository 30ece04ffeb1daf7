package remote

import (
	"fmt"
	"time"

	"github.com/famlog/famlog/internal/model"
)

// Field names shared by every namespace.
const (
	FieldLocalID   = "localId"
	FieldUpdatedAt = "updatedAt"
)

// Decoding is deliberately forgiving: a field that is absent or carries the
// wrong type degrades to its zero/default value so one corrupt record cannot
// abort a whole merge batch. Each degradation is reported as a warning
// wrapped in model.ErrDecode so tests and logs can tell "dropped bad data"
// apart from "legitimately absent". Only a missing identity or timestamp
// makes a record undecodable.

type fieldWarnings []error

func (w *fieldWarnings) add(field string) {
	*w = append(*w, fmt.Errorf("%w: malformed field %q", model.ErrDecode, field))
}

func (r Record) str(key string, w *fieldWarnings) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		w.add(key)
		return ""
	}
	return s
}

func (r Record) optStr(key string, w *fieldWarnings) *string {
	v, ok := r[key]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		w.add(key)
		return nil
	}
	return &s
}

func (r Record) boolean(key string, w *fieldWarnings) bool {
	v, ok := r[key]
	if !ok || v == nil {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		w.add(key)
		return false
	}
	return b
}

// number coerces a JSON number; decoded JSON always carries float64.
func number(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}

func (r Record) integer(key string, w *fieldWarnings) int {
	v, ok := r[key]
	if !ok || v == nil {
		return 0
	}
	n, ok := number(v)
	if !ok {
		w.add(key)
		return 0
	}
	return n
}

func (r Record) optInt(key string, w *fieldWarnings) *int {
	v, ok := r[key]
	if !ok || v == nil {
		return nil
	}
	n, ok := number(v)
	if !ok {
		w.add(key)
		return nil
	}
	return &n
}

func (r Record) timeVal(key string, w *fieldWarnings) (time.Time, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return time.Time{}, false
	}
	s, ok := v.(string)
	if !ok {
		w.add(key)
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		w.add(key)
		return time.Time{}, false
	}
	return t.UTC(), true
}

func (r Record) optTime(key string, w *fieldWarnings) *time.Time {
	t, ok := r.timeVal(key, w)
	if !ok {
		return nil
	}
	return &t
}

func (r Record) strSlice(key string, w *fieldWarnings) []string {
	v, ok := r[key]
	if !ok || v == nil {
		return nil
	}
	// Records decoded from JSON carry []interface{}; records built
	// in-process carry []string.
	if s, ok := v.([]string); ok {
		if len(s) == 0 {
			return nil
		}
		return s
	}
	raw, ok := v.([]interface{})
	if !ok {
		w.add(key)
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			w.add(key)
			continue
		}
		out = append(out, s)
	}
	return out
}

func (r Record) intMap(key string, w *fieldWarnings) map[string]int {
	v, ok := r[key]
	if !ok || v == nil {
		return nil
	}
	if m, ok := v.(map[string]int); ok {
		if len(m) == 0 {
			return nil
		}
		return m
	}
	raw, ok := v.(map[string]interface{})
	if !ok {
		w.add(key)
		return nil
	}
	out := make(map[string]int, len(raw))
	for k, item := range raw {
		n, ok := number(item)
		if !ok {
			w.add(key)
			continue
		}
		out[k] = n
	}
	return out
}

func (r Record) weekdays(key string, w *fieldWarnings) []time.Weekday {
	v, ok := r[key]
	if !ok || v == nil {
		return nil
	}
	if days, ok := v.([]int); ok {
		out := make([]time.Weekday, 0, len(days))
		for _, n := range days {
			if n < 0 || n > 6 {
				w.add(key)
				continue
			}
			out = append(out, time.Weekday(n))
		}
		return out
	}
	raw, ok := v.([]interface{})
	if !ok {
		w.add(key)
		return nil
	}
	out := make([]time.Weekday, 0, len(raw))
	for _, item := range raw {
		n, ok := number(item)
		if !ok || n < 0 || n > 6 {
			w.add(key)
			continue
		}
		out = append(out, time.Weekday(n))
	}
	return out
}

func (r Record) optTimeOfDay(hourKey, minuteKey string, w *fieldWarnings) *model.TimeOfDay {
	h := r.optInt(hourKey, w)
	m := r.optInt(minuteKey, w)
	if h == nil || m == nil {
		return nil
	}
	return &model.TimeOfDay{Hour: *h, Minute: *m}
}

// identity extracts the required localId/updatedAt pair; without them the
// record cannot participate in a merge at all.
func (r Record) identity() (string, time.Time, error) {
	var w fieldWarnings
	id := r.str(FieldLocalID, &w)
	if id == "" {
		return "", time.Time{}, fmt.Errorf("%w: record without %s", model.ErrDecode, FieldLocalID)
	}
	ts, ok := r.timeVal(FieldUpdatedAt, &w)
	if !ok {
		return "", time.Time{}, fmt.Errorf("%w: record %s without %s", model.ErrDecode, id, FieldUpdatedAt)
	}
	return id, ts, nil
}

// --- Profiles ---

func DecodeProfile(r Record) (*model.Profile, []error, error) {
	id, ts, err := r.identity()
	if err != nil {
		return nil, nil, err
	}
	var w fieldWarnings
	p := &model.Profile{
		ID:               id,
		Name:             r.str("name", &w),
		Avatar:           r.str("avatar", &w),
		YearlyGoals:      r.intMap("yearlyGoals", &w),
		VisibleTabs:      r.strSlice("visibleTabs", &w),
		EnabledTemplates: r.strSlice("enabledTemplates", &w),
		OnboardingDone:   r.boolean("onboardingDone", &w),
		AccountID:        r.optStr("accountId", &w),
		UpdatedAt:        ts,
	}
	return p, w, nil
}

func EncodeProfile(p *model.Profile) map[string]interface{} {
	fields := map[string]interface{}{
		FieldLocalID:       p.ID,
		"name":             p.Name,
		"avatar":           p.Avatar,
		"yearlyGoals":      p.YearlyGoals,
		"visibleTabs":      p.VisibleTabs,
		"enabledTemplates": p.EnabledTemplates,
		"onboardingDone":   p.OnboardingDone,
		FieldUpdatedAt:     p.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if p.AccountID != nil {
		fields["accountId"] = *p.AccountID
	}
	return fields
}

// --- Sections ---

func DecodeSection(r Record) (*model.Section, []error, error) {
	id, ts, err := r.identity()
	if err != nil {
		return nil, nil, err
	}
	var w fieldWarnings
	s := &model.Section{
		ID:            id,
		ProfileID:     r.str("profileId", &w),
		Name:          r.str("name", &w),
		Icon:          r.str("icon", &w),
		SortOrder:     r.integer("sortOrder", &w),
		Suggestions:   r.strSlice("suggestions", &w),
		NotifyEnabled: r.boolean("notifyEnabled", &w),
		UpdatedAt:     ts,
	}
	return s, w, nil
}

func EncodeSection(s *model.Section) map[string]interface{} {
	return map[string]interface{}{
		FieldLocalID:    s.ID,
		"profileId":     s.ProfileID,
		"name":          s.Name,
		"icon":          s.Icon,
		"sortOrder":     s.SortOrder,
		"suggestions":   s.Suggestions,
		"notifyEnabled": s.NotifyEnabled,
		FieldUpdatedAt:  s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// --- Schedule entries ---

func DecodeScheduleEntry(r Record) (*model.ScheduleEntry, []error, error) {
	id, ts, err := r.identity()
	if err != nil {
		return nil, nil, err
	}
	var w fieldWarnings
	e := &model.ScheduleEntry{
		ID:              id,
		ProfileID:       r.str("profileId", &w),
		SectionID:       r.str("sectionId", &w),
		Title:           r.str("title", &w),
		EndDate:         r.optTime("endDate", &w),
		StartTime:       r.optTimeOfDay("startHour", "startMinute", &w),
		EndTime:         r.optTimeOfDay("endHour", "endMinute", &w),
		Reminder:        r.boolean("reminder", &w),
		Rating:          r.optInt("rating", &w),
		Notes:           r.optStr("notes", &w),
		Photos:          r.strSlice("photos", &w),
		GroupID:         r.optStr("recurrenceGroupId", &w),
		Weekdays:        r.weekdays("recurrenceWeekdays", &w),
		RecurrenceEnd:   r.optTime("recurrenceEnd", &w),
		OccurrenceCount: r.optInt("occurrenceCount", &w),
		IsTemplate:      r.boolean("isTemplate", &w),
		UpdatedAt:       ts,
	}
	if d, ok := r.timeVal("date", &w); ok {
		e.Date = d
	}
	if p := r.optStr("recurrencePattern", &w); p != nil {
		pattern := model.RecurrencePattern(*p)
		e.Pattern = &pattern
	}
	return e, w, nil
}

func EncodeScheduleEntry(e *model.ScheduleEntry) map[string]interface{} {
	fields := map[string]interface{}{
		FieldLocalID:   e.ID,
		"profileId":    e.ProfileID,
		"sectionId":    e.SectionID,
		"title":        e.Title,
		"date":         e.Date.UTC().Format(time.RFC3339),
		"reminder":     e.Reminder,
		"photos":       e.Photos,
		"isTemplate":   e.IsTemplate,
		FieldUpdatedAt: e.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if e.Rating != nil {
		fields["rating"] = *e.Rating
	}
	if e.Notes != nil {
		fields["notes"] = *e.Notes
	}
	if e.GroupID != nil {
		fields["recurrenceGroupId"] = *e.GroupID
	}
	if e.OccurrenceCount != nil {
		fields["occurrenceCount"] = *e.OccurrenceCount
	}
	if e.EndDate != nil {
		fields["endDate"] = e.EndDate.UTC().Format(time.RFC3339)
	}
	if e.StartTime != nil {
		fields["startHour"] = e.StartTime.Hour
		fields["startMinute"] = e.StartTime.Minute
	}
	if e.EndTime != nil {
		fields["endHour"] = e.EndTime.Hour
		fields["endMinute"] = e.EndTime.Minute
	}
	if e.Pattern != nil {
		fields["recurrencePattern"] = string(*e.Pattern)
	}
	if len(e.Weekdays) > 0 {
		days := make([]int, 0, len(e.Weekdays))
		for _, d := range e.Weekdays {
			days = append(days, int(d))
		}
		fields["recurrenceWeekdays"] = days
	}
	if e.RecurrenceEnd != nil {
		fields["recurrenceEnd"] = e.RecurrenceEnd.UTC().Format(time.RFC3339)
	}
	return fields
}

// --- Media entries ---

func DecodeMediaEntry(r Record) (*model.MediaEntry, []error, error) {
	id, ts, err := r.identity()
	if err != nil {
		return nil, nil, err
	}
	var w fieldWarnings
	m := &model.MediaEntry{
		ID:         id,
		ProfileID:  r.str("profileId", &w),
		Title:      r.str("title", &w),
		Kind:       model.MediaKind(r.str("kind", &w)),
		EndDate:    r.optTime("endDate", &w),
		ArtworkURL: r.optStr("artworkUrl", &w),
		Rating:     r.optInt("rating", &w),
		Notes:      r.optStr("notes", &w),
		UpdatedAt:  ts,
	}
	if d, ok := r.timeVal("date", &w); ok {
		m.Date = d
	}
	return m, w, nil
}

func EncodeMediaEntry(m *model.MediaEntry) map[string]interface{} {
	fields := map[string]interface{}{
		FieldLocalID:   m.ID,
		"profileId":    m.ProfileID,
		"title":        m.Title,
		"kind":         string(m.Kind),
		"date":         m.Date.UTC().Format(time.RFC3339),
		FieldUpdatedAt: m.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if m.ArtworkURL != nil {
		fields["artworkUrl"] = *m.ArtworkURL
	}
	if m.Rating != nil {
		fields["rating"] = *m.Rating
	}
	if m.Notes != nil {
		fields["notes"] = *m.Notes
	}
	if m.EndDate != nil {
		fields["endDate"] = m.EndDate.UTC().Format(time.RFC3339)
	}
	return fields
}
