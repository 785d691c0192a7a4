package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"studytrack/internal/api"
	"studytrack/internal/config"
	"studytrack/internal/export"
	"studytrack/internal/model"
	"studytrack/internal/store"
)

// App is the application layer between the CLI and the storage contract. It
// constructs the configured store and logger, exposes the high-level
// operations the commands call, and owns cleanup on Close.
type App struct {
	cfg     *config.Config
	store   store.Store
	logger  store.Logger
	logFile *os.File
	owner   int64
}

// New creates a fully wired App from the given config. operation identifies
// the CLI command being run (e.g. "Serve", "ExportDiary"). The caller must
// call Close when done.
func New(cfg *config.Config, operation string) (*App, error) {
	st, err := NewStoreFromConfig(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	owner := cfg.DefaultOwner
	if owner == 0 {
		owner = 1
	}

	adapted := &slogAdapter{l: logger}
	adapted.Info("starting", "operation", operation, "store", cfg.Store.Type)

	return &App{
		cfg:     cfg,
		store:   st,
		logger:  adapted,
		logFile: logFile,
		owner:   owner,
	}, nil
}

// Close releases the store and the log file.
func (a *App) Close() error {
	err := a.store.Close()
	if a.logFile != nil {
		if cerr := a.logFile.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Owner returns the owner id every operation is scoped to.
func (a *App) Owner() int64 { return a.owner }

// Serve runs the HTTP API against the configured store until ctx is
// cancelled.
func (a *App) Serve(ctx context.Context) error {
	srv := api.NewServer(api.Config{Addr: a.cfg.Addr, OwnerID: a.owner}, a.store, a.logger)
	return srv.Run(ctx)
}

// Reminders

func (a *App) AddReminder(ctx context.Context, in model.InsertReminder) (model.Reminder, error) {
	return a.store.CreateReminder(ctx, a.owner, in)
}

func (a *App) ListReminders(ctx context.Context) ([]model.Reminder, error) {
	return a.store.ListReminders(ctx, a.owner)
}

// CompleteReminder flips a reminder's completed flag to true, leaving every
// other field untouched.
func (a *App) CompleteReminder(ctx context.Context, id int64) (model.Reminder, error) {
	done := true
	return a.store.UpdateReminder(ctx, id, model.ReminderPatch{Completed: &done})
}

func (a *App) DeleteReminder(ctx context.Context, id int64) error {
	return a.store.DeleteReminder(ctx, id)
}

// Diary

func (a *App) AddDiaryEntry(ctx context.Context, in model.InsertDiaryEntry) (model.DiaryEntry, error) {
	return a.store.CreateDiaryEntry(ctx, a.owner, in)
}

func (a *App) ListDiaryEntries(ctx context.Context) ([]model.DiaryEntry, error) {
	return a.store.ListDiaryEntries(ctx, a.owner)
}

func (a *App) DeleteDiaryEntry(ctx context.Context, id int64) error {
	return a.store.DeleteDiaryEntry(ctx, id)
}

// Moods

func (a *App) AddMoodEntry(ctx context.Context, in model.InsertMoodEntry) (model.MoodEntry, error) {
	return a.store.CreateMoodEntry(ctx, a.owner, in)
}

func (a *App) ListMoodEntries(ctx context.Context) ([]model.MoodEntry, error) {
	return a.store.ListMoodEntries(ctx, a.owner)
}

func (a *App) DeleteMoodEntry(ctx context.Context, id int64) error {
	return a.store.DeleteMoodEntry(ctx, id)
}

// Study materials

func (a *App) AddStudyMaterial(ctx context.Context, in model.InsertStudyMaterial) (model.StudyMaterial, error) {
	return a.store.CreateStudyMaterial(ctx, a.owner, in)
}

func (a *App) ListStudyMaterials(ctx context.Context) ([]model.StudyMaterial, error) {
	return a.store.ListStudyMaterials(ctx, a.owner)
}

func (a *App) DeleteStudyMaterial(ctx context.Context, id int64) error {
	return a.store.DeleteStudyMaterial(ctx, id)
}

// Search is only available on stores that keep searchable collections (the
// file store).

func (a *App) SearchDiaryEntries(ctx context.Context, query string) ([]model.DiaryEntry, error) {
	searcher, ok := a.store.(store.Searcher)
	if !ok {
		return nil, fmt.Errorf("store type %q does not support search", a.cfg.Store.Type)
	}
	return searcher.SearchDiaryEntries(ctx, a.owner, query)
}

func (a *App) SearchStudyMaterials(ctx context.Context, query string) ([]model.StudyMaterial, error) {
	searcher, ok := a.store.(store.Searcher)
	if !ok {
		return nil, fmt.Errorf("store type %q does not support search", a.cfg.Store.Type)
	}
	return searcher.SearchStudyMaterials(ctx, a.owner, query)
}

// ExportDiary writes the owner's diary entries to outPath (or a dated file
// under the configured export directory when outPath is empty). A non-empty
// passphrase produces an age-encrypted document. Returns the path written
// and the entry count. export.ErrNoEntries passes through untouched so the
// CLI can show a notice instead of an error.
func (a *App) ExportDiary(ctx context.Context, outPath, passphrase string) (string, int, error) {
	if outPath == "" {
		name := fmt.Sprintf("diary-entries-%s.json", time.Now().Format("2006-01-02"))
		if passphrase != "" {
			name += ".age"
		}
		outPath = filepath.Join(a.cfg.Export.Dir, name)
	}

	n, err := export.WriteDiary(ctx, a.store, a.owner, outPath, passphrase)
	if err != nil {
		return "", 0, err
	}

	a.logger.Info("diary exported", "path", outPath, "entries", n, "encrypted", passphrase != "")
	return outPath, n, nil
}
