package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"studytrack/internal/database/migrations"
	"studytrack/internal/model"
	"studytrack/internal/store"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore is the durable implementation of the store contract. Schema is
// owned by the embedded migrations; AUTOINCREMENT ids are never reused even
// after deletes.
type SQLiteStore struct {
	db    *sql.DB
	clock store.Clock
	path  string
}

// NewSQLiteStore opens (or creates) a SQLite database at path and brings the
// schema up to date. path can be ":memory:" for tests. A nil clock defaults
// to the real one.
func NewSQLiteStore(path string, clock store.Clock) (*SQLiteStore, error) {
	if clock == nil {
		clock = store.RealClock{}
	}

	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.Up(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return &SQLiteStore{db: db, clock: clock, path: path}, nil
}

// OpenConnection opens and configures a SQLite connection with the PRAGMAs
// the store relies on. Exported for tools and tests that need a raw handle.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite ships with foreign keys off for backward compatibility.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

func (s *SQLiteStore) ListReminders(ctx context.Context, ownerID int64) ([]model.Reminder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, time, category, completed, user_id, created_at
		 FROM reminders WHERE user_id = ? ORDER BY id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing reminders: %w", err)
	}
	defer rows.Close()

	out := make([]model.Reminder, 0)
	for rows.Next() {
		var r model.Reminder
		if err := rows.Scan(&r.ID, &r.Title, &r.Time, &r.Category, &r.Completed, &r.OwnerID, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning reminder: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CreateReminder(ctx context.Context, ownerID int64, in model.InsertReminder) (model.Reminder, error) {
	if err := in.Validate(); err != nil {
		return model.Reminder{}, err
	}

	r := model.Reminder{
		Title:     in.Title,
		Time:      in.Time,
		Category:  in.Category,
		OwnerID:   ownerID,
		CreatedAt: s.clock.Now(),
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO reminders (title, time, category, completed, user_id, created_at)
		 VALUES (?, ?, ?, 0, ?, ?)`,
		r.Title, r.Time, r.Category, r.OwnerID, r.CreatedAt)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("creating reminder: %w", err)
	}
	r.ID, err = res.LastInsertId()
	if err != nil {
		return model.Reminder{}, fmt.Errorf("reading reminder id: %w", err)
	}
	return r, nil
}

func (s *SQLiteStore) UpdateReminder(ctx context.Context, id int64, patch model.ReminderPatch) (model.Reminder, error) {
	var r model.Reminder
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, time, category, completed, user_id, created_at
		 FROM reminders WHERE id = ?`, id).
		Scan(&r.ID, &r.Title, &r.Time, &r.Category, &r.Completed, &r.OwnerID, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reminder{}, &store.NotFoundError{Kind: "reminder", ID: id}
		}
		return model.Reminder{}, fmt.Errorf("finding reminder: %w", err)
	}

	if patch.Title != nil {
		r.Title = *patch.Title
	}
	if patch.Time != nil {
		r.Time = *patch.Time
	}
	if patch.Category != nil {
		r.Category = *patch.Category
	}
	if patch.Completed != nil {
		r.Completed = *patch.Completed
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE reminders SET title = ?, time = ?, category = ?, completed = ? WHERE id = ?`,
		r.Title, r.Time, r.Category, r.Completed, r.ID)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("updating reminder: %w", err)
	}
	return r, nil
}

func (s *SQLiteStore) DeleteReminder(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting reminder: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListDiaryEntries(ctx context.Context, ownerID int64) ([]model.DiaryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, mood, user_id, created_at
		 FROM diary_entries WHERE user_id = ? ORDER BY created_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing diary entries: %w", err)
	}
	defer rows.Close()

	out := make([]model.DiaryEntry, 0)
	for rows.Next() {
		var e model.DiaryEntry
		if err := rows.Scan(&e.ID, &e.Title, &e.Content, &e.Mood, &e.OwnerID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning diary entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CreateDiaryEntry(ctx context.Context, ownerID int64, in model.InsertDiaryEntry) (model.DiaryEntry, error) {
	if err := in.Validate(); err != nil {
		return model.DiaryEntry{}, err
	}

	e := model.DiaryEntry{
		Title:     in.Title,
		Content:   in.Content,
		Mood:      in.Mood,
		OwnerID:   ownerID,
		CreatedAt: s.clock.Now(),
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO diary_entries (title, content, mood, user_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.Title, e.Content, e.Mood, e.OwnerID, e.CreatedAt)
	if err != nil {
		return model.DiaryEntry{}, fmt.Errorf("creating diary entry: %w", err)
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return model.DiaryEntry{}, fmt.Errorf("reading diary entry id: %w", err)
	}
	return e, nil
}

func (s *SQLiteStore) DeleteDiaryEntry(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM diary_entries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting diary entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListMoodEntries(ctx context.Context, ownerID int64) ([]model.MoodEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mood, user_id, created_at
		 FROM mood_entries WHERE user_id = ? ORDER BY created_at DESC, id DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing mood entries: %w", err)
	}
	defer rows.Close()

	out := make([]model.MoodEntry, 0)
	for rows.Next() {
		var e model.MoodEntry
		if err := rows.Scan(&e.ID, &e.Mood, &e.OwnerID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning mood entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CreateMoodEntry(ctx context.Context, ownerID int64, in model.InsertMoodEntry) (model.MoodEntry, error) {
	if err := in.Validate(); err != nil {
		return model.MoodEntry{}, err
	}

	e := model.MoodEntry{
		Mood:      in.Mood,
		OwnerID:   ownerID,
		CreatedAt: s.clock.Now(),
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO mood_entries (mood, user_id, created_at) VALUES (?, ?, ?)`,
		e.Mood, e.OwnerID, e.CreatedAt)
	if err != nil {
		return model.MoodEntry{}, fmt.Errorf("creating mood entry: %w", err)
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return model.MoodEntry{}, fmt.Errorf("reading mood entry id: %w", err)
	}
	return e, nil
}

func (s *SQLiteStore) DeleteMoodEntry(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM mood_entries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting mood entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListStudyMaterials(ctx context.Context, ownerID int64) ([]model.StudyMaterial, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, type, url, category, user_id, created_at
		 FROM study_materials WHERE user_id = ? ORDER BY id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing study materials: %w", err)
	}
	defer rows.Close()

	out := make([]model.StudyMaterial, 0)
	for rows.Next() {
		var m model.StudyMaterial
		var url sql.NullString
		if err := rows.Scan(&m.ID, &m.Title, &m.Type, &url, &m.Category, &m.OwnerID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning study material: %w", err)
		}
		m.URL = url.String
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) CreateStudyMaterial(ctx context.Context, ownerID int64, in model.InsertStudyMaterial) (model.StudyMaterial, error) {
	if err := in.Validate(); err != nil {
		return model.StudyMaterial{}, err
	}

	m := model.StudyMaterial{
		Title:     in.Title,
		Type:      in.Type,
		URL:       in.URL,
		Category:  in.Category,
		OwnerID:   ownerID,
		CreatedAt: s.clock.Now(),
	}
	var url any
	if m.URL != "" {
		url = m.URL
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO study_materials (title, type, url, category, user_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.Title, m.Type, url, m.Category, m.OwnerID, m.CreatedAt)
	if err != nil {
		return model.StudyMaterial{}, fmt.Errorf("creating study material: %w", err)
	}
	m.ID, err = res.LastInsertId()
	if err != nil {
		return model.StudyMaterial{}, fmt.Errorf("reading study material id: %w", err)
	}
	return m, nil
}

func (s *SQLiteStore) DeleteStudyMaterial(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM study_materials WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting study material: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Compile-time check that SQLiteStore implements the store contract.
var _ store.Store = (*SQLiteStore)(nil)
