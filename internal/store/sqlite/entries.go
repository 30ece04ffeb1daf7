package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/famlog/famlog/internal/model"
)

// --- Schedule entries ---

type scheduleEntries struct{ db *sql.DB }

const entryCols = `id, profile_id, section_id, title, date, end_date,
    start_hour, start_minute, end_hour, end_minute, reminder, rating, notes, photos,
    group_id, pattern, weekdays, recurrence_end, occurrence_count, is_template, updated_at`

func timeOfDay(hour, minute sql.NullInt64) *model.TimeOfDay {
	if !hour.Valid || !minute.Valid {
		return nil
	}
	return &model.TimeOfDay{Hour: int(hour.Int64), Minute: int(minute.Int64)}
}

func timeOfDayCols(t *model.TimeOfDay) (interface{}, interface{}) {
	if t == nil {
		return nil, nil
	}
	return t.Hour, t.Minute
}

func scanScheduleEntry(row interface{ Scan(...interface{}) error }) (*model.ScheduleEntry, error) {
	var e model.ScheduleEntry
	var sh, sm, eh, em sql.NullInt64
	var photos, weekdays string
	var pattern *string
	if err := row.Scan(&e.ID, &e.ProfileID, &e.SectionID, &e.Title, &e.Date, &e.EndDate,
		&sh, &sm, &eh, &em, &e.Reminder, &e.Rating, &e.Notes, &photos,
		&e.GroupID, &pattern, &weekdays, &e.RecurrenceEnd, &e.OccurrenceCount, &e.IsTemplate, &e.UpdatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	e.StartTime = timeOfDay(sh, sm)
	e.EndTime = timeOfDay(eh, em)
	fromJSON(photos, &e.Photos)
	fromJSON(weekdays, &e.Weekdays)
	if pattern != nil {
		p := model.RecurrencePattern(*pattern)
		e.Pattern = &p
	}
	return &e, nil
}

func (r *scheduleEntries) list(ctx context.Context, where string, args ...interface{}) ([]*model.ScheduleEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+entryCols+` FROM schedule_entries `+where+` ORDER BY date, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ScheduleEntry
	for rows.Next() {
		e, err := scanScheduleEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *scheduleEntries) List(ctx context.Context) ([]*model.ScheduleEntry, error) {
	return r.list(ctx, ``)
}

func (r *scheduleEntries) ListBySection(ctx context.Context, sectionID string) ([]*model.ScheduleEntry, error) {
	return r.list(ctx, `WHERE section_id = ?`, sectionID)
}

func (r *scheduleEntries) ListByGroup(ctx context.Context, groupID string) ([]*model.ScheduleEntry, error) {
	return r.list(ctx, `WHERE group_id = ?`, groupID)
}

func (r *scheduleEntries) ListOnDay(ctx context.Context, profileID string, day time.Time) ([]*model.ScheduleEntry, error) {
	start := model.Day(day)
	end := start.AddDate(0, 0, 1)
	return r.list(ctx, `WHERE profile_id = ? AND date >= ? AND date < ?`, profileID, start, end)
}

func (r *scheduleEntries) Get(ctx context.Context, id string) (*model.ScheduleEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+entryCols+` FROM schedule_entries WHERE id = ?`, id)
	return scanScheduleEntry(row)
}

func entryArgs(e *model.ScheduleEntry) []interface{} {
	sh, sm := timeOfDayCols(e.StartTime)
	eh, em := timeOfDayCols(e.EndTime)
	var pattern *string
	if e.Pattern != nil {
		p := string(*e.Pattern)
		pattern = &p
	}
	return []interface{}{
		e.ProfileID, e.SectionID, e.Title, e.Date, e.EndDate,
		sh, sm, eh, em, e.Reminder, e.Rating, e.Notes, toJSON(e.Photos),
		e.GroupID, pattern, toJSON(e.Weekdays), e.RecurrenceEnd, e.OccurrenceCount, e.IsTemplate, e.UpdatedAt,
	}
}

func (r *scheduleEntries) Insert(ctx context.Context, e *model.ScheduleEntry) error {
	args := append([]interface{}{e.ID}, entryArgs(e)...)
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO schedule_entries (`+entryCols+`)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`, args...)
	return err
}

func (r *scheduleEntries) Save(ctx context.Context, e *model.ScheduleEntry) error {
	args := append(entryArgs(e), e.ID)
	res, err := r.db.ExecContext(ctx, `
        UPDATE schedule_entries SET profile_id=?, section_id=?, title=?, date=?, end_date=?,
            start_hour=?, start_minute=?, end_hour=?, end_minute=?, reminder=?, rating=?, notes=?, photos=?,
            group_id=?, pattern=?, weekdays=?, recurrence_end=?, occurrence_count=?, is_template=?, updated_at=?
        WHERE id=?`, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *scheduleEntries) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM schedule_entries WHERE id = ?`, id)
	return err
}

// --- Media entries ---

type mediaEntries struct{ db *sql.DB }

const mediaCols = `id, profile_id, title, kind, date, end_date, artwork_url, rating, notes, updated_at`

func scanMediaEntry(row interface{ Scan(...interface{}) error }) (*model.MediaEntry, error) {
	var m model.MediaEntry
	var kind string
	if err := row.Scan(&m.ID, &m.ProfileID, &m.Title, &kind, &m.Date, &m.EndDate,
		&m.ArtworkURL, &m.Rating, &m.Notes, &m.UpdatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	m.Kind = model.MediaKind(kind)
	return &m, nil
}

func (r *mediaEntries) list(ctx context.Context, where string, args ...interface{}) ([]*model.MediaEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+mediaCols+` FROM media_entries `+where+` ORDER BY date, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.MediaEntry
	for rows.Next() {
		m, err := scanMediaEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *mediaEntries) List(ctx context.Context) ([]*model.MediaEntry, error) {
	return r.list(ctx, ``)
}

func (r *mediaEntries) ListByProfile(ctx context.Context, profileID string) ([]*model.MediaEntry, error) {
	return r.list(ctx, `WHERE profile_id = ?`, profileID)
}

func (r *mediaEntries) Get(ctx context.Context, id string) (*model.MediaEntry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+mediaCols+` FROM media_entries WHERE id = ?`, id)
	return scanMediaEntry(row)
}

func (r *mediaEntries) Insert(ctx context.Context, m *model.MediaEntry) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO media_entries (`+mediaCols+`)
        VALUES (?,?,?,?,?,?,?,?,?,?)`,
		m.ID, m.ProfileID, m.Title, string(m.Kind), m.Date, m.EndDate, m.ArtworkURL, m.Rating, m.Notes, m.UpdatedAt)
	return err
}

func (r *mediaEntries) Save(ctx context.Context, m *model.MediaEntry) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE media_entries SET profile_id=?, title=?, kind=?, date=?, end_date=?, artwork_url=?, rating=?, notes=?, updated_at=?
        WHERE id=?`,
		m.ProfileID, m.Title, string(m.Kind), m.Date, m.EndDate, m.ArtworkURL, m.Rating, m.Notes, m.UpdatedAt, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *mediaEntries) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM media_entries WHERE id = ?`, id)
	return err
}

// --- Tombstones ---

type tombstones struct{ db *sql.DB }

func (r *tombstones) Insert(ctx context.Context, t model.Tombstone) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO tombstones (kind, id, deleted_at) VALUES (?,?,?)
        ON CONFLICT (kind, id) DO NOTHING`,
		string(t.Kind), t.ID, t.DeletedAt)
	return err
}

func (r *tombstones) List(ctx context.Context) ([]model.Tombstone, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT kind, id, deleted_at FROM tombstones`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Tombstone
	for rows.Next() {
		var t model.Tombstone
		var kind string
		if err := rows.Scan(&kind, &t.ID, &t.DeletedAt); err != nil {
			return nil, err
		}
		t.Kind = model.Kind(kind)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *tombstones) PruneBefore(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tombstones WHERE deleted_at < ?`, cutoff)
	return err
}
