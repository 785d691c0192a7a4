package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"studytrack/internal/model"
)

func TestMemoryStore_ReminderLifecycle(t *testing.T) {
	s := NewMemoryStore(newFakeClock())
	ctx := context.Background()

	created, err := s.CreateReminder(ctx, 1, model.InsertReminder{
		Title:    "Math",
		Time:     "14:00",
		Category: "study-session",
	})
	if err != nil {
		t.Fatalf("CreateReminder() error: %v", err)
	}
	if created.Completed {
		t.Error("new reminder Completed = true, want false")
	}

	reminders, err := s.ListReminders(ctx, 1)
	if err != nil {
		t.Fatalf("ListReminders() error: %v", err)
	}
	if len(reminders) != 1 {
		t.Fatalf("len(reminders) = %d, want 1", len(reminders))
	}
	if reminders[0].Title != "Math" || reminders[0].Time != "14:00" || reminders[0].Category != "study-session" {
		t.Errorf("listed reminder = %+v, want the created fields back", reminders[0])
	}

	done := true
	updated, err := s.UpdateReminder(ctx, created.ID, model.ReminderPatch{Completed: &done})
	if err != nil {
		t.Fatalf("UpdateReminder() error: %v", err)
	}
	if !updated.Completed {
		t.Error("updated reminder Completed = false, want true")
	}

	reminders, err = s.ListReminders(ctx, 1)
	if err != nil {
		t.Fatalf("ListReminders() error: %v", err)
	}
	got := reminders[0]
	if !got.Completed {
		t.Error("listed reminder Completed = false after patch, want true")
	}
	if got.Title != "Math" || got.Time != "14:00" || got.Category != "study-session" {
		t.Errorf("patch changed unrelated fields: %+v", got)
	}
	if got.ID != created.ID {
		t.Errorf("patch changed id: got %d, want %d", got.ID, created.ID)
	}
}

func TestMemoryStore_IDsNeverReused(t *testing.T) {
	s := NewMemoryStore(newFakeClock())
	ctx := context.Background()

	seen := make(map[int64]bool)
	record := func(id int64) {
		if seen[id] {
			t.Fatalf("id %d issued twice", id)
		}
		seen[id] = true
	}

	r, _ := s.CreateReminder(ctx, 1, model.InsertReminder{Title: "a", Time: "08:00", Category: "c"})
	record(r.ID)

	// ids come from one counter shared across entity kinds
	e, _ := s.CreateDiaryEntry(ctx, 1, model.InsertDiaryEntry{Title: "b", Content: "text", Mood: "good"})
	record(e.ID)

	m, _ := s.CreateMoodEntry(ctx, 1, model.InsertMoodEntry{Mood: "okay"})
	record(m.ID)

	if err := s.DeleteReminder(ctx, r.ID); err != nil {
		t.Fatalf("DeleteReminder() error: %v", err)
	}

	r2, _ := s.CreateReminder(ctx, 1, model.InsertReminder{Title: "d", Time: "09:00", Category: "c"})
	record(r2.ID)
	if r2.ID <= m.ID {
		t.Errorf("id after delete = %d, want greater than %d", r2.ID, m.ID)
	}
}

func TestMemoryStore_UpdateMissingReminder(t *testing.T) {
	s := NewMemoryStore(newFakeClock())

	title := "renamed"
	_, err := s.UpdateReminder(context.Background(), 42, model.ReminderPatch{Title: &title})
	if err == nil {
		t.Fatal("UpdateReminder() expected error for missing id, got nil")
	}

	var nferr *NotFoundError
	if !errors.As(err, &nferr) {
		t.Fatalf("UpdateReminder() error type = %T, want *NotFoundError", err)
	}

	// it must not have silently created a record
	reminders, err := s.ListReminders(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListReminders() error: %v", err)
	}
	if len(reminders) != 0 {
		t.Errorf("len(reminders) = %d after failed update, want 0", len(reminders))
	}
}

func TestMemoryStore_DeleteIdempotent(t *testing.T) {
	s := NewMemoryStore(newFakeClock())
	ctx := context.Background()

	e, err := s.CreateDiaryEntry(ctx, 1, model.InsertDiaryEntry{Title: "t", Content: "c", Mood: "down"})
	if err != nil {
		t.Fatalf("CreateDiaryEntry() error: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := s.DeleteDiaryEntry(ctx, e.ID); err != nil {
			t.Errorf("DeleteDiaryEntry() iteration %d error: %v", i+1, err)
		}
	}

	// deleting an id that never existed is also a no-op
	if err := s.DeleteStudyMaterial(ctx, 999); err != nil {
		t.Errorf("DeleteStudyMaterial(999) error: %v", err)
	}
}

func TestMemoryStore_DeleteMoodEntry(t *testing.T) {
	s := NewMemoryStore(newFakeClock())
	ctx := context.Background()

	e, err := s.CreateMoodEntry(ctx, 1, model.InsertMoodEntry{Mood: "okay"})
	if err != nil {
		t.Fatalf("CreateMoodEntry() error: %v", err)
	}
	if err := s.DeleteMoodEntry(ctx, e.ID); err != nil {
		t.Fatalf("DeleteMoodEntry() error: %v", err)
	}

	moods, err := s.ListMoodEntries(ctx, 1)
	if err != nil {
		t.Fatalf("ListMoodEntries() error: %v", err)
	}
	if len(moods) != 0 {
		t.Errorf("len(moods) = %d, want 0", len(moods))
	}
}

func TestMemoryStore_DiaryNewestFirst(t *testing.T) {
	clock := newFakeClock()
	s := NewMemoryStore(clock)
	ctx := context.Background()

	titles := []string{"first", "second", "third"}
	for _, title := range titles {
		if _, err := s.CreateDiaryEntry(ctx, 1, model.InsertDiaryEntry{Title: title, Content: "c", Mood: "good"}); err != nil {
			t.Fatalf("CreateDiaryEntry(%q) error: %v", title, err)
		}
		clock.Advance(time.Minute)
	}

	entries, err := s.ListDiaryEntries(ctx, 1)
	if err != nil {
		t.Fatalf("ListDiaryEntries() error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	for i, want := range []string{"third", "second", "first"} {
		if entries[i].Title != want {
			t.Errorf("entries[%d].Title = %q, want %q", i, entries[i].Title, want)
		}
	}
}

func TestMemoryStore_MoodNewestFirstSameTimestamp(t *testing.T) {
	// three creates without advancing the clock: ordering falls back to id
	s := NewMemoryStore(newFakeClock())
	ctx := context.Background()

	moods := []string{"great", "okay", "stressed"}
	for _, m := range moods {
		if _, err := s.CreateMoodEntry(ctx, 1, model.InsertMoodEntry{Mood: m}); err != nil {
			t.Fatalf("CreateMoodEntry(%q) error: %v", m, err)
		}
	}

	entries, err := s.ListMoodEntries(ctx, 1)
	if err != nil {
		t.Fatalf("ListMoodEntries() error: %v", err)
	}
	for i, want := range []string{"stressed", "okay", "great"} {
		if entries[i].Mood != want {
			t.Errorf("entries[%d].Mood = %q, want %q", i, entries[i].Mood, want)
		}
	}
}

func TestMemoryStore_InvalidMoodNotPersisted(t *testing.T) {
	s := NewMemoryStore(newFakeClock())
	ctx := context.Background()

	_, err := s.CreateMoodEntry(ctx, 1, model.InsertMoodEntry{Mood: "furious"})
	if err == nil {
		t.Fatal("CreateMoodEntry() expected validation error, got nil")
	}
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("CreateMoodEntry() error type = %T, want *model.ValidationError", err)
	}

	entries, err := s.ListMoodEntries(ctx, 1)
	if err != nil {
		t.Fatalf("ListMoodEntries() error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("len(entries) = %d after rejected create, want 0", len(entries))
	}
}

func TestMemoryStore_OwnerScoping(t *testing.T) {
	s := NewMemoryStore(newFakeClock())
	ctx := context.Background()

	if _, err := s.CreateStudyMaterial(ctx, 1, model.InsertStudyMaterial{Title: "mine", Type: "pdf", Category: "math"}); err != nil {
		t.Fatalf("CreateStudyMaterial() error: %v", err)
	}
	if _, err := s.CreateStudyMaterial(ctx, 2, model.InsertStudyMaterial{Title: "theirs", Type: "link", Category: "bio"}); err != nil {
		t.Fatalf("CreateStudyMaterial() error: %v", err)
	}

	mine, err := s.ListStudyMaterials(ctx, 1)
	if err != nil {
		t.Fatalf("ListStudyMaterials() error: %v", err)
	}
	if len(mine) != 1 || mine[0].Title != "mine" {
		t.Errorf("owner 1 materials = %+v, want just %q", mine, "mine")
	}

	theirs, err := s.ListStudyMaterials(ctx, 2)
	if err != nil {
		t.Fatalf("ListStudyMaterials() error: %v", err)
	}
	if len(theirs) != 1 || theirs[0].Title != "theirs" {
		t.Errorf("owner 2 materials = %+v, want just %q", theirs, "theirs")
	}
}

func TestMemoryStore_MaterialsInsertionOrder(t *testing.T) {
	s := NewMemoryStore(newFakeClock())
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		if _, err := s.CreateStudyMaterial(ctx, 1, model.InsertStudyMaterial{Title: title, Type: "link", Category: "misc"}); err != nil {
			t.Fatalf("CreateStudyMaterial(%q) error: %v", title, err)
		}
	}

	materials, err := s.ListStudyMaterials(ctx, 1)
	if err != nil {
		t.Fatalf("ListStudyMaterials() error: %v", err)
	}
	for i, want := range []string{"a", "b", "c"} {
		if materials[i].Title != want {
			t.Errorf("materials[%d].Title = %q, want %q", i, materials[i].Title, want)
		}
	}
}
