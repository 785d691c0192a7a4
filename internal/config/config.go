package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for studytrack.
type Config struct {
	InstanceID   string       `toml:"instance_id"`
	Addr         string       `toml:"addr"`
	DefaultOwner int64        `toml:"default_owner"`
	LogDir       string       `toml:"log_dir"`
	Store        StoreConfig  `toml:"store"`
	Export       ExportConfig `toml:"export"`
}

// StoreConfig selects the backing store. This uses a tagged union pattern -
// the Type field determines which other fields are relevant.
type StoreConfig struct {
	Type string `toml:"type"` // "memory", "file", or "sqlite"

	// File-specific field (only used when Type == "file"): directory holding
	// the per-kind collection files.
	FileRoot string `toml:"file_root,omitempty"`

	// SQLite-specific field (only used when Type == "sqlite"): directory the
	// database file lives in.
	DataDir string `toml:"data_dir,omitempty"`
}

// ExportConfig holds defaults for diary exports.
type ExportConfig struct {
	Dir string `toml:"dir"` // default directory for export documents
}

// NewConfig creates a Config with the provided values and default paths
// under baseDir.
func NewConfig(instanceID, baseDir string) *Config {
	return &Config{
		InstanceID:   instanceID,
		Addr:         ":8080",
		DefaultOwner: 1,
		LogDir:       filepath.Join(baseDir, "log"),
		Store: StoreConfig{
			Type:     "file",
			FileRoot: filepath.Join(baseDir, "data"),
		},
		Export: ExportConfig{
			Dir: filepath.Join(baseDir, "exports"),
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided
// Config. Refuses to overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
