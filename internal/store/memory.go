package store

import (
	"context"
	"sort"
	"sync"

	"studytrack/internal/model"
)

// MemoryStore keeps all records in maps keyed by a single counter shared
// across every entity kind, so no two records in the store ever carry the
// same id. It is safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	clock     Clock
	nextID    int64
	reminders map[int64]model.Reminder
	diary     map[int64]model.DiaryEntry
	moods     map[int64]model.MoodEntry
	materials map[int64]model.StudyMaterial
}

// NewMemoryStore creates an empty in-memory store. A nil clock defaults to
// the real one.
func NewMemoryStore(clock Clock) *MemoryStore {
	if clock == nil {
		clock = RealClock{}
	}
	return &MemoryStore{
		clock:     clock,
		nextID:    1,
		reminders: make(map[int64]model.Reminder),
		diary:     make(map[int64]model.DiaryEntry),
		moods:     make(map[int64]model.MoodEntry),
		materials: make(map[int64]model.StudyMaterial),
	}
}

// issueID hands out the next id from the shared counter. Callers must hold
// the write lock.
func (s *MemoryStore) issueID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *MemoryStore) ListReminders(_ context.Context, ownerID int64) ([]model.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Reminder, 0)
	for _, r := range s.reminders {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	// insertion order == id order for this store
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) CreateReminder(_ context.Context, ownerID int64, in model.InsertReminder) (model.Reminder, error) {
	if err := in.Validate(); err != nil {
		return model.Reminder{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := model.Reminder{
		ID:        s.issueID(),
		Title:     in.Title,
		Time:      in.Time,
		Category:  in.Category,
		Completed: false,
		OwnerID:   ownerID,
		CreatedAt: s.clock.Now(),
	}
	s.reminders[r.ID] = r
	return r, nil
}

func (s *MemoryStore) UpdateReminder(_ context.Context, id int64, patch model.ReminderPatch) (model.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reminders[id]
	if !ok {
		return model.Reminder{}, &NotFoundError{Kind: "reminder", ID: id}
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
	s.reminders[id] = r
	return r, nil
}

func (s *MemoryStore) DeleteReminder(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reminders, id)
	return nil
}

func (s *MemoryStore) ListDiaryEntries(_ context.Context, ownerID int64) ([]model.DiaryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.DiaryEntry, 0)
	for _, e := range s.diary {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	sortNewestFirst(out, func(e model.DiaryEntry) (int64, int64) { return e.CreatedAt.UnixNano(), e.ID })
	return out, nil
}

func (s *MemoryStore) CreateDiaryEntry(_ context.Context, ownerID int64, in model.InsertDiaryEntry) (model.DiaryEntry, error) {
	if err := in.Validate(); err != nil {
		return model.DiaryEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := model.DiaryEntry{
		ID:        s.issueID(),
		Title:     in.Title,
		Content:   in.Content,
		Mood:      in.Mood,
		OwnerID:   ownerID,
		CreatedAt: s.clock.Now(),
	}
	s.diary[e.ID] = e
	return e, nil
}

func (s *MemoryStore) DeleteDiaryEntry(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.diary, id)
	return nil
}

func (s *MemoryStore) ListMoodEntries(_ context.Context, ownerID int64) ([]model.MoodEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.MoodEntry, 0)
	for _, e := range s.moods {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	sortNewestFirst(out, func(e model.MoodEntry) (int64, int64) { return e.CreatedAt.UnixNano(), e.ID })
	return out, nil
}

func (s *MemoryStore) CreateMoodEntry(_ context.Context, ownerID int64, in model.InsertMoodEntry) (model.MoodEntry, error) {
	if err := in.Validate(); err != nil {
		return model.MoodEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e := model.MoodEntry{
		ID:        s.issueID(),
		Mood:      in.Mood,
		OwnerID:   ownerID,
		CreatedAt: s.clock.Now(),
	}
	s.moods[e.ID] = e
	return e, nil
}

func (s *MemoryStore) DeleteMoodEntry(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.moods, id)
	return nil
}

func (s *MemoryStore) ListStudyMaterials(_ context.Context, ownerID int64) ([]model.StudyMaterial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.StudyMaterial, 0)
	for _, m := range s.materials {
		if m.OwnerID == ownerID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) CreateStudyMaterial(_ context.Context, ownerID int64, in model.InsertStudyMaterial) (model.StudyMaterial, error) {
	if err := in.Validate(); err != nil {
		return model.StudyMaterial{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := model.StudyMaterial{
		ID:        s.issueID(),
		Title:     in.Title,
		Type:      in.Type,
		URL:       in.URL,
		Category:  in.Category,
		OwnerID:   ownerID,
		CreatedAt: s.clock.Now(),
	}
	s.materials[m.ID] = m
	return m, nil
}

func (s *MemoryStore) DeleteStudyMaterial(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.materials, id)
	return nil
}

// Close is a no-op: the store holds no external resources.
func (s *MemoryStore) Close() error { return nil }

// sortNewestFirst orders records descending by creation time, breaking ties
// by id so results are stable when several records share a timestamp.
func sortNewestFirst[T any](items []T, key func(T) (createdNano, id int64)) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, ii := key(items[i])
		cj, ij := key(items[j])
		if ci != cj {
			return ci > cj
		}
		return ii > ij
	})
}

// Compile-time check that MemoryStore implements the Store contract.
var _ Store = (*MemoryStore)(nil)
