package store

import (
	"context"
	"fmt"

	"studytrack/internal/model"
)

// Store is the capability contract every backing implementation satisfies.
// Create operations validate their input, assign a unique id that is never
// reused for the store's lifetime, and stamp the creation time. Delete is
// idempotent: a missing id is a no-op. Update on a missing id fails with
// NotFoundError and never creates a record; the asymmetry with delete is
// part of the contract.
//
// List ordering: diary and mood entries come back newest-created-first;
// reminders and study materials in insertion order.
type Store interface {
	ListReminders(ctx context.Context, ownerID int64) ([]model.Reminder, error)
	CreateReminder(ctx context.Context, ownerID int64, in model.InsertReminder) (model.Reminder, error)
	UpdateReminder(ctx context.Context, id int64, patch model.ReminderPatch) (model.Reminder, error)
	DeleteReminder(ctx context.Context, id int64) error

	ListDiaryEntries(ctx context.Context, ownerID int64) ([]model.DiaryEntry, error)
	CreateDiaryEntry(ctx context.Context, ownerID int64, in model.InsertDiaryEntry) (model.DiaryEntry, error)
	DeleteDiaryEntry(ctx context.Context, id int64) error

	ListMoodEntries(ctx context.Context, ownerID int64) ([]model.MoodEntry, error)
	CreateMoodEntry(ctx context.Context, ownerID int64, in model.InsertMoodEntry) (model.MoodEntry, error)
	DeleteMoodEntry(ctx context.Context, id int64) error

	ListStudyMaterials(ctx context.Context, ownerID int64) ([]model.StudyMaterial, error)
	CreateStudyMaterial(ctx context.Context, ownerID int64, in model.InsertStudyMaterial) (model.StudyMaterial, error)
	DeleteStudyMaterial(ctx context.Context, id int64) error

	// Close releases backing resources. No-op for stores that hold none.
	Close() error
}

// Searcher is the optional extension the file-backed store adds on top of
// the base contract: case-insensitive substring search. An empty query
// returns the full collection.
type Searcher interface {
	SearchDiaryEntries(ctx context.Context, ownerID int64, query string) ([]model.DiaryEntry, error)
	SearchStudyMaterials(ctx context.Context, ownerID int64, query string) ([]model.StudyMaterial, error)
}

// NotFoundError reports an update against an id the store has never issued
// or has since deleted.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}
