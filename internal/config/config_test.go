package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		InstanceID:   "test-instance-abc",
		Addr:         ":9090",
		DefaultOwner: 7,
		LogDir:       "/home/user/.local/share/studytrack/log",
		Store: StoreConfig{
			Type:     "file",
			FileRoot: "/home/user/.local/share/studytrack/data",
		},
		Export: ExportConfig{
			Dir: "/home/user/.local/share/studytrack/exports",
		},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.InstanceID != original.InstanceID {
		t.Errorf("InstanceID = %q, want %q", got.InstanceID, original.InstanceID)
	}
	if got.Addr != original.Addr {
		t.Errorf("Addr = %q, want %q", got.Addr, original.Addr)
	}
	if got.DefaultOwner != original.DefaultOwner {
		t.Errorf("DefaultOwner = %d, want %d", got.DefaultOwner, original.DefaultOwner)
	}
	if got.Store.Type != "file" {
		t.Errorf("Store.Type = %q, want %q", got.Store.Type, "file")
	}
	if got.Store.FileRoot != original.Store.FileRoot {
		t.Errorf("Store.FileRoot = %q, want %q", got.Store.FileRoot, original.Store.FileRoot)
	}
	if got.Export.Dir != original.Export.Dir {
		t.Errorf("Export.Dir = %q, want %q", got.Export.Dir, original.Export.Dir)
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig("abc-123", "/data/studytrack")

	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want %q", cfg.Addr, ":8080")
	}
	if cfg.DefaultOwner != 1 {
		t.Errorf("DefaultOwner = %d, want 1", cfg.DefaultOwner)
	}
	if cfg.Store.Type != "file" {
		t.Errorf("Store.Type = %q, want %q", cfg.Store.Type, "file")
	}
	if cfg.Store.FileRoot != filepath.Join("/data/studytrack", "data") {
		t.Errorf("Store.FileRoot = %q, want under base dir", cfg.Store.FileRoot)
	}
	if cfg.LogDir != filepath.Join("/data/studytrack", "log") {
		t.Errorf("LogDir = %q, want under base dir", cfg.LogDir)
	}
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "studytrack.toml")
	cfg := NewConfig("abc-123", "/data/studytrack")

	if err := Init(path, cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file missing after Init: %v", err)
	}

	got, err := ReadFromFile(path)
	if err != nil {
		t.Fatalf("ReadFromFile() error = %v", err)
	}
	if got.InstanceID != "abc-123" {
		t.Errorf("InstanceID = %q, want %q", got.InstanceID, "abc-123")
	}

	// refuses to overwrite
	if err := Init(path, cfg); err == nil {
		t.Error("Init() on existing file expected error, got nil")
	}
}

func TestReadFromFile_Missing(t *testing.T) {
	_, err := ReadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Error("ReadFromFile() on missing file expected error, got nil")
	}
}
