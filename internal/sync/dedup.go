package sync

import (
	"fmt"
	"strings"

	"github.com/famlog/famlog/internal/model"
)

// Dedup keys recognize "the same logical record" created independently on two
// devices that never saw each other's identifiers. Keys must be stable across
// devices, so they are derived from content only. Start times are coarsened
// to hour/minute on purpose: it tolerates clock and timezone jitter between
// devices at the cost of merging two genuinely distinct same-minute entries
// with the same title.

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// ProfileKey fingerprints a profile by normalized display name.
func ProfileKey(p *model.Profile) string {
	return normalize(p.Name)
}

// SectionKey fingerprints a section by normalized name and icon.
func SectionKey(s *model.Section) string {
	return normalize(s.Name) + "|" + s.Icon
}

// ScheduleKey fingerprints a schedule entry by owner, normalized title,
// calendar day and start hour/minute.
func ScheduleKey(e *model.ScheduleEntry) string {
	day := model.Day(e.Date).Format("2006-01-02")
	start := "-"
	if e.StartTime != nil {
		start = fmt.Sprintf("%02d:%02d", e.StartTime.Hour, e.StartTime.Minute)
	}
	return e.ProfileID + "|" + normalize(e.Title) + "|" + day + "|" + start
}

// MediaKey fingerprints a media entry by normalized title, kind and day.
func MediaKey(m *model.MediaEntry) string {
	return normalize(m.Title) + "|" + string(m.Kind) + "|" + model.Day(m.Date).Format("2006-01-02")
}
