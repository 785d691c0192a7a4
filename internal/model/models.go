package model

import "time"

// Reminder is a scheduled study prompt. It is the only entity kind with an
// update operation: arbitrary fields may be patched after creation.
type Reminder struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Time      string    `json:"time"` // free text, typically HH:MM
	Category  string    `json:"category"`
	Completed bool      `json:"completed"`
	OwnerID   int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// DiaryEntry is a dated journal record. Immutable once created except for
// deletion.
type DiaryEntry struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Mood      string    `json:"mood"`
	OwnerID   int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// MoodEntry is a single mood check-in. Append-only: one entry per save, no
// dedup by day.
type MoodEntry struct {
	ID        int64     `json:"id"`
	Mood      string    `json:"mood"`
	OwnerID   int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// StudyMaterial is a link or document reference. Grouping by category is a
// read-time projection, never stored.
type StudyMaterial struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"` // free-text tag, e.g. "pdf", "link", "video"
	URL       string    `json:"url,omitempty"`
	Category  string    `json:"category"`
	OwnerID   int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// InsertReminder is the payload for creating a reminder.
type InsertReminder struct {
	Title    string `json:"title"`
	Time     string `json:"time"`
	Category string `json:"category"`
}

// InsertDiaryEntry is the payload for creating a diary entry.
type InsertDiaryEntry struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Mood    string `json:"mood"`
}

// InsertMoodEntry is the payload for creating a mood check-in.
type InsertMoodEntry struct {
	Mood string `json:"mood"`
}

// InsertStudyMaterial is the payload for creating a study material.
type InsertStudyMaterial struct {
	Title    string `json:"title"`
	Type     string `json:"type"`
	URL      string `json:"url,omitempty"`
	Category string `json:"category"`
}

// ReminderPatch carries a partial update for a reminder. Nil fields are left
// unchanged.
type ReminderPatch struct {
	Title     *string `json:"title,omitempty"`
	Time      *string `json:"time,omitempty"`
	Category  *string `json:"category,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}
