package model

import "time"

// Kind tags an entity family. Values double as remote namespaces.
type Kind string

const (
	KindProfile       Kind = "profiles"
	KindSection       Kind = "sections"
	KindMediaEntry    Kind = "media-entries"
	KindScheduleEntry Kind = "schedule-entries"
)

// MediaKind is the category of a media log entry.
type MediaKind string

const (
	MediaMovie MediaKind = "movie"
	MediaTV    MediaKind = "tv"
	MediaBook  MediaKind = "book"
)

// RecurrencePattern names the supported repeat cadences for schedule templates.
type RecurrencePattern string

const (
	RepeatDaily    RecurrencePattern = "daily"
	RepeatWeekly   RecurrencePattern = "weekly"
	RepeatBiweekly RecurrencePattern = "biweekly"
	RepeatMonthly  RecurrencePattern = "monthly"
)

// TimeOfDay is a wall-clock time within a calendar day.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Minutes returns the offset from midnight in minutes.
func (t TimeOfDay) Minutes() int { return t.Hour*60 + t.Minute }

// Profile is a family member. AccountID is nil for device-local profiles
// that have not been linked to an account yet.
type Profile struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Avatar           string         `json:"avatar"`
	YearlyGoals      map[string]int `json:"yearlyGoals,omitempty"`
	VisibleTabs      []string       `json:"visibleTabs,omitempty"`
	EnabledTemplates []string       `json:"enabledTemplates,omitempty"`
	OnboardingDone   bool           `json:"onboardingDone"`
	AccountID        *string        `json:"accountId,omitempty"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// Section is an activity category owned by exactly one profile.
// Deleting a section cascades to its schedule entries.
type Section struct {
	ID            string    `json:"id"`
	ProfileID     string    `json:"profileId"`
	Name          string    `json:"name"`
	Icon          string    `json:"icon"`
	SortOrder     int       `json:"sortOrder"`
	Suggestions   []string  `json:"suggestions,omitempty"`
	NotifyEnabled bool      `json:"notifyEnabled"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ScheduleEntry is a time-boxed activity occurrence, or — when IsTemplate is
// set — the non-scheduled master record of a recurrence group.
type ScheduleEntry struct {
	ID        string     `json:"id"`
	ProfileID string     `json:"profileId"`
	SectionID string     `json:"sectionId"`
	Title     string     `json:"title"`
	Date      time.Time  `json:"date"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	StartTime *TimeOfDay `json:"startTime,omitempty"`
	EndTime   *TimeOfDay `json:"endTime,omitempty"`
	Reminder  bool       `json:"reminder"`
	Rating    *int       `json:"rating,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	Photos    []string   `json:"photos,omitempty"`

	// Recurrence fields. GroupID is shared by a template and every
	// instance materialized from it.
	GroupID         *string            `json:"recurrenceGroupId,omitempty"`
	Pattern         *RecurrencePattern `json:"recurrencePattern,omitempty"`
	Weekdays        []time.Weekday     `json:"recurrenceWeekdays,omitempty"`
	RecurrenceEnd   *time.Time         `json:"recurrenceEnd,omitempty"`
	OccurrenceCount *int               `json:"occurrenceCount,omitempty"`
	IsTemplate      bool               `json:"isTemplate"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// MediaEntry is a watched/read log record owned by one profile.
type MediaEntry struct {
	ID         string     `json:"id"`
	ProfileID  string     `json:"profileId"`
	Title      string     `json:"title"`
	Kind       MediaKind  `json:"kind"`
	Date       time.Time  `json:"date"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	ArtworkURL *string    `json:"artworkUrl,omitempty"`
	Rating     *int       `json:"rating,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Tombstone records a local deletion so a later merge does not resurrect
// the record from a stale remote copy.
type Tombstone struct {
	Kind      Kind      `json:"kind"`
	ID        string    `json:"id"`
	DeletedAt time.Time `json:"deletedAt"`
}

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool { return Day(a).Equal(Day(b)) }
