package model

import (
	"fmt"
	"strings"
)

// Moods is the closed set of accepted mood values.
var Moods = []string{"great", "good", "okay", "down", "stressed"}

// ValidationError reports a missing or malformed required field on an insert
// payload. Transport layers map it to a 400-class response, never a server
// fault.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ValidMood reports whether mood is one of the five accepted values.
func ValidMood(mood string) bool {
	for _, m := range Moods {
		if mood == m {
			return true
		}
	}
	return false
}

// Validate checks the reminder payload's required fields.
func (in InsertReminder) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if strings.TrimSpace(in.Time) == "" {
		return &ValidationError{Field: "time", Reason: "must not be empty"}
	}
	if strings.TrimSpace(in.Category) == "" {
		return &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	return nil
}

// Validate checks the diary entry payload's required fields, including the
// mood enumeration.
func (in InsertDiaryEntry) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if strings.TrimSpace(in.Content) == "" {
		return &ValidationError{Field: "content", Reason: "must not be empty"}
	}
	if !ValidMood(in.Mood) {
		return &ValidationError{Field: "mood", Reason: fmt.Sprintf("must be one of %s", strings.Join(Moods, ", "))}
	}
	return nil
}

// Validate checks the mood payload against the enumeration.
func (in InsertMoodEntry) Validate() error {
	if !ValidMood(in.Mood) {
		return &ValidationError{Field: "mood", Reason: fmt.Sprintf("must be one of %s", strings.Join(Moods, ", "))}
	}
	return nil
}

// Validate checks the study material payload's required fields. URL stays
// optional.
func (in InsertStudyMaterial) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if strings.TrimSpace(in.Type) == "" {
		return &ValidationError{Field: "type", Reason: "must not be empty"}
	}
	if strings.TrimSpace(in.Category) == "" {
		return &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	return nil
}
