// Package sqlite implements store.Store on a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"strings"

	"github.com/famlog/famlog/internal/model"
	"github.com/famlog/famlog/internal/store"
)

//go:embed schema.sql
var ddl string

type sqliteStore struct{ db *sql.DB }

// New opens (or creates) the database file at path and applies the schema.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db)
}

// NewWithDB wires a store onto an existing connection (used by tests).
func NewWithDB(db *sql.DB) (store.Store, error) {
	for _, stmt := range strings.Split(ddl, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return nil, err
		}
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Profiles() store.Profiles               { return &profiles{db: s.db} }
func (s *sqliteStore) Sections() store.Sections               { return &sections{db: s.db} }
func (s *sqliteStore) ScheduleEntries() store.ScheduleEntries { return &scheduleEntries{db: s.db} }
func (s *sqliteStore) MediaEntries() store.MediaEntries       { return &mediaEntries{db: s.db} }
func (s *sqliteStore) Tombstones() store.Tombstones           { return &tombstones{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *sqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// mapNotFound converts sql.ErrNoRows into the model sentinel.
func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

// toJSON encodes v for a TEXT column; nil collections become their empty form.
func toJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

// fromJSON decodes a TEXT column into out, ignoring malformed stored data so
// a single bad row cannot poison list scans.
func fromJSON(raw string, out interface{}) {
	if raw == "" {
		return
	}
	_ = json.Unmarshal([]byte(raw), out)
}

// --- Profiles ---

type profiles struct{ db *sql.DB }

const profileCols = `id, name, avatar, yearly_goals, visible_tabs, enabled_templates, onboarding_done, account_id, updated_at`

func scanProfile(row interface{ Scan(...interface{}) error }) (*model.Profile, error) {
	var p model.Profile
	var goals, tabs, templates string
	if err := row.Scan(&p.ID, &p.Name, &p.Avatar, &goals, &tabs, &templates, &p.OnboardingDone, &p.AccountID, &p.UpdatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	fromJSON(goals, &p.YearlyGoals)
	fromJSON(tabs, &p.VisibleTabs)
	fromJSON(templates, &p.EnabledTemplates)
	return &p, nil
}

func (r *profiles) List(ctx context.Context) ([]*model.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+profileCols+` FROM profiles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *profiles) Get(ctx context.Context, id string) (*model.Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileCols+` FROM profiles WHERE id = ?`, id)
	return scanProfile(row)
}

func (r *profiles) Insert(ctx context.Context, p *model.Profile) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO profiles (id, name, avatar, yearly_goals, visible_tabs, enabled_templates, onboarding_done, account_id, updated_at)
        VALUES (?,?,?,?,?,?,?,?,?)`,
		p.ID, p.Name, p.Avatar, toJSON(p.YearlyGoals), toJSON(p.VisibleTabs), toJSON(p.EnabledTemplates),
		p.OnboardingDone, p.AccountID, p.UpdatedAt)
	return err
}

func (r *profiles) Save(ctx context.Context, p *model.Profile) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE profiles SET name=?, avatar=?, yearly_goals=?, visible_tabs=?, enabled_templates=?, onboarding_done=?, account_id=?, updated_at=?
        WHERE id=?`,
		p.Name, p.Avatar, toJSON(p.YearlyGoals), toJSON(p.VisibleTabs), toJSON(p.EnabledTemplates),
		p.OnboardingDone, p.AccountID, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *profiles) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	return err
}

// --- Sections ---

type sections struct{ db *sql.DB }

const sectionCols = `id, profile_id, name, icon, sort_order, suggestions, notify_enabled, updated_at`

func scanSection(row interface{ Scan(...interface{}) error }) (*model.Section, error) {
	var s model.Section
	var suggestions string
	if err := row.Scan(&s.ID, &s.ProfileID, &s.Name, &s.Icon, &s.SortOrder, &suggestions, &s.NotifyEnabled, &s.UpdatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	fromJSON(suggestions, &s.Suggestions)
	return &s, nil
}

func (r *sections) list(ctx context.Context, where string, args ...interface{}) ([]*model.Section, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+sectionCols+` FROM sections `+where+` ORDER BY sort_order, name`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *sections) List(ctx context.Context) ([]*model.Section, error) {
	return r.list(ctx, ``)
}

func (r *sections) ListByProfile(ctx context.Context, profileID string) ([]*model.Section, error) {
	return r.list(ctx, `WHERE profile_id = ?`, profileID)
}

func (r *sections) Get(ctx context.Context, id string) (*model.Section, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sectionCols+` FROM sections WHERE id = ?`, id)
	return scanSection(row)
}

func (r *sections) Insert(ctx context.Context, s *model.Section) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO sections (id, profile_id, name, icon, sort_order, suggestions, notify_enabled, updated_at)
        VALUES (?,?,?,?,?,?,?,?)`,
		s.ID, s.ProfileID, s.Name, s.Icon, s.SortOrder, toJSON(s.Suggestions), s.NotifyEnabled, s.UpdatedAt)
	return err
}

func (r *sections) Save(ctx context.Context, s *model.Section) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE sections SET profile_id=?, name=?, icon=?, sort_order=?, suggestions=?, notify_enabled=?, updated_at=?
        WHERE id=?`,
		s.ProfileID, s.Name, s.Icon, s.SortOrder, toJSON(s.Suggestions), s.NotifyEnabled, s.UpdatedAt, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *sections) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sections WHERE id = ?`, id)
	return err
}
