package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"studytrack/internal/model"
)

// Collection file names under the store root. Each entity kind persists as
// one independent JSON-serialized ordered sequence, so a partial write can
// never corrupt more than one kind.
const (
	remindersFile = "reminders.json"
	diaryFile     = "diary_entries.json"
	moodFile      = "mood_history.json"
	materialsFile = "study_materials.json"
)

// FileStore persists each entity kind as a JSON array in its own file under
// a root directory. Ids derive from the current Unix-millisecond time with a
// monotonic guard, so two creates inside the same millisecond still get
// distinct ids. Diary and mood collections are kept newest-first on disk
// (creation inserts at the front); reminders and materials append.
//
// Every operation rereads its collection from disk, so two FileStore
// instances over the same root observe each other's writes.
type FileStore struct {
	mu     sync.Mutex
	root   string
	clock  Clock
	lastID int64
}

// NewFileStore creates the root directory if needed and scans existing
// collections so freshly issued ids stay ahead of everything already stored.
func NewFileStore(root string, clock Clock) (*FileStore, error) {
	if clock == nil {
		clock = RealClock{}
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating store root: %w", err)
	}

	s := &FileStore{root: root, clock: clock}
	if err := s.loadMaxID(); err != nil {
		return nil, err
	}
	return s, nil
}

// issueID returns max(now in milliseconds, last issued + 1). Callers must
// hold the lock.
func (s *FileStore) issueID() int64 {
	id := s.clock.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *FileStore) loadMaxID() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var reminders []model.Reminder
	var diary []model.DiaryEntry
	var moods []model.MoodEntry
	var materials []model.StudyMaterial

	if err := s.readCollection(remindersFile, &reminders); err != nil {
		return err
	}
	if err := s.readCollection(diaryFile, &diary); err != nil {
		return err
	}
	if err := s.readCollection(moodFile, &moods); err != nil {
		return err
	}
	if err := s.readCollection(materialsFile, &materials); err != nil {
		return err
	}

	for _, r := range reminders {
		if r.ID > s.lastID {
			s.lastID = r.ID
		}
	}
	for _, e := range diary {
		if e.ID > s.lastID {
			s.lastID = e.ID
		}
	}
	for _, e := range moods {
		if e.ID > s.lastID {
			s.lastID = e.ID
		}
	}
	for _, m := range materials {
		if m.ID > s.lastID {
			s.lastID = m.ID
		}
	}
	return nil
}

// readCollection unmarshals one collection file into out. A missing file is
// an empty collection, not an error.
func (s *FileStore) readCollection(name string, out any) error {
	data, err := os.ReadFile(filepath.Join(s.root, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

// writeCollection serializes a collection and replaces its file atomically
// (temp file + rename), so readers never observe a half-written collection.
func (s *FileStore) writeCollection(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, filepath.Join(s.root, name)); err != nil {
		return fmt.Errorf("replacing %s: %w", name, err)
	}

	success = true
	return nil
}

func (s *FileStore) ListReminders(_ context.Context, ownerID int64) ([]model.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []model.Reminder
	if err := s.readCollection(remindersFile, &all); err != nil {
		return nil, err
	}
	return filterOwned(all, func(r model.Reminder) int64 { return r.OwnerID }, ownerID), nil
}

func (s *FileStore) CreateReminder(_ context.Context, ownerID int64, in model.InsertReminder) (model.Reminder, error) {
	if err := in.Validate(); err != nil {
		return model.Reminder{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var all []model.Reminder
	if err := s.readCollection(remindersFile, &all); err != nil {
		return model.Reminder{}, err
	}

	r := model.Reminder{
		ID:        s.issueID(),
		Title:     in.Title,
		Time:      in.Time,
		Category:  in.Category,
		OwnerID:   ownerID,
		CreatedAt: s.clock.Now(),
	}
	all = append(all, r)
	if err := s.writeCollection(remindersFile, all); err != nil {
		return model.Reminder{}, err
	}
	return r, nil
}

func (s *FileStore) UpdateReminder(_ context.Context, id int64, patch model.ReminderPatch) (model.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []model.Reminder
	if err := s.readCollection(remindersFile, &all); err != nil {
		return model.Reminder{}, err
	}

	for i := range all {
		if all[i].ID != id {
			continue
		}
		if patch.Title != nil {
			all[i].Title = *patch.Title
		}
		if patch.Time != nil {
			all[i].Time = *patch.Time
		}
		if patch.Category != nil {
			all[i].Category = *patch.Category
		}
		if patch.Completed != nil {
			all[i].Completed = *patch.Completed
		}
		if err := s.writeCollection(remindersFile, all); err != nil {
			return model.Reminder{}, err
		}
		return all[i], nil
	}
	return model.Reminder{}, &NotFoundError{Kind: "reminder", ID: id}
}

func (s *FileStore) DeleteReminder(_ context.Context, id int64) error {
	return deleteByID(s, remindersFile, id, func(r model.Reminder) int64 { return r.ID })
}

func (s *FileStore) ListDiaryEntries(_ context.Context, ownerID int64) ([]model.DiaryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []model.DiaryEntry
	if err := s.readCollection(diaryFile, &all); err != nil {
		return nil, err
	}
	// stored newest-first already
	return filterOwned(all, func(e model.DiaryEntry) int64 { return e.OwnerID }, ownerID), nil
}

func (s *FileStore) CreateDiaryEntry(_ context.Context, ownerID int64, in model.InsertDiaryEntry) (model.DiaryEntry, error) {
	if err := in.Validate(); err != nil {
		return model.DiaryEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var all []model.DiaryEntry
	if err := s.readCollection(diaryFile, &all); err != nil {
		return model.DiaryEntry{}, err
	}

	e := model.DiaryEntry{
		ID:        s.issueID(),
		Title:     in.Title,
		Content:   in.Content,
		Mood:      in.Mood,
		OwnerID:   ownerID,
		CreatedAt: s.clock.Now(),
	}
	// front insertion keeps the collection newest-first without a sort at read
	all = append([]model.DiaryEntry{e}, all...)
	if err := s.writeCollection(diaryFile, all); err != nil {
		return model.DiaryEntry{}, err
	}
	return e, nil
}

func (s *FileStore) DeleteDiaryEntry(_ context.Context, id int64) error {
	return deleteByID(s, diaryFile, id, func(e model.DiaryEntry) int64 { return e.ID })
}

func (s *FileStore) ListMoodEntries(_ context.Context, ownerID int64) ([]model.MoodEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []model.MoodEntry
	if err := s.readCollection(moodFile, &all); err != nil {
		return nil, err
	}
	return filterOwned(all, func(e model.MoodEntry) int64 { return e.OwnerID }, ownerID), nil
}

func (s *FileStore) CreateMoodEntry(_ context.Context, ownerID int64, in model.InsertMoodEntry) (model.MoodEntry, error) {
	if err := in.Validate(); err != nil {
		return model.MoodEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var all []model.MoodEntry
	if err := s.readCollection(moodFile, &all); err != nil {
		return model.MoodEntry{}, err
	}

	e := model.MoodEntry{
		ID:        s.issueID(),
		Mood:      in.Mood,
		OwnerID:   ownerID,
		CreatedAt: s.clock.Now(),
	}
	all = append([]model.MoodEntry{e}, all...)
	if err := s.writeCollection(moodFile, all); err != nil {
		return model.MoodEntry{}, err
	}
	return e, nil
}

func (s *FileStore) DeleteMoodEntry(_ context.Context, id int64) error {
	return deleteByID(s, moodFile, id, func(e model.MoodEntry) int64 { return e.ID })
}

func (s *FileStore) ListStudyMaterials(_ context.Context, ownerID int64) ([]model.StudyMaterial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []model.StudyMaterial
	if err := s.readCollection(materialsFile, &all); err != nil {
		return nil, err
	}
	return filterOwned(all, func(m model.StudyMaterial) int64 { return m.OwnerID }, ownerID), nil
}

func (s *FileStore) CreateStudyMaterial(_ context.Context, ownerID int64, in model.InsertStudyMaterial) (model.StudyMaterial, error) {
	if err := in.Validate(); err != nil {
		return model.StudyMaterial{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var all []model.StudyMaterial
	if err := s.readCollection(materialsFile, &all); err != nil {
		return model.StudyMaterial{}, err
	}

	m := model.StudyMaterial{
		ID:        s.issueID(),
		Title:     in.Title,
		Type:      in.Type,
		URL:       in.URL,
		Category:  in.Category,
		OwnerID:   ownerID,
		CreatedAt: s.clock.Now(),
	}
	all = append(all, m)
	if err := s.writeCollection(materialsFile, all); err != nil {
		return model.StudyMaterial{}, err
	}
	return m, nil
}

func (s *FileStore) DeleteStudyMaterial(_ context.Context, id int64) error {
	return deleteByID(s, materialsFile, id, func(m model.StudyMaterial) int64 { return m.ID })
}

// SearchDiaryEntries returns the owner's entries whose title or content
// contains query, ignoring case. An empty query matches everything.
func (s *FileStore) SearchDiaryEntries(ctx context.Context, ownerID int64, query string) ([]model.DiaryEntry, error) {
	entries, err := s.ListDiaryEntries(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	out := make([]model.DiaryEntry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Title), q) || strings.Contains(strings.ToLower(e.Content), q) {
			out = append(out, e)
		}
	}
	return out, nil
}

// SearchStudyMaterials returns the owner's materials whose title or category
// contains query, ignoring case. An empty query matches everything.
func (s *FileStore) SearchStudyMaterials(ctx context.Context, ownerID int64, query string) ([]model.StudyMaterial, error) {
	materials, err := s.ListStudyMaterials(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	out := make([]model.StudyMaterial, 0, len(materials))
	for _, m := range materials {
		if strings.Contains(strings.ToLower(m.Title), q) || strings.Contains(strings.ToLower(m.Category), q) {
			out = append(out, m)
		}
	}
	return out, nil
}

// Close is a no-op: files are opened and closed per operation.
func (s *FileStore) Close() error { return nil }

func filterOwned[T any](items []T, owner func(T) int64, ownerID int64) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if owner(it) == ownerID {
			out = append(out, it)
		}
	}
	return out
}

// deleteByID rewrites a collection without the given id. Missing ids leave
// the collection untouched.
func deleteByID[T any](s *FileStore, name string, id int64, idOf func(T) int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []T
	if err := s.readCollection(name, &all); err != nil {
		return err
	}

	kept := make([]T, 0, len(all))
	removed := false
	for _, it := range all {
		if idOf(it) == id {
			removed = true
			continue
		}
		kept = append(kept, it)
	}
	if !removed {
		return nil
	}
	return s.writeCollection(name, kept)
}

// Compile-time checks for the base contract and the search extension.
var (
	_ Store    = (*FileStore)(nil)
	_ Searcher = (*FileStore)(nil)
)
