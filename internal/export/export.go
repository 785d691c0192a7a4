// Package export turns a user's diary entries into a standalone JSON
// document, optionally encrypted with an age passphrase so the export can
// leave the machine safely.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"filippo.io/age"

	"studytrack/internal/store"
)

// ErrNoEntries signals that there was nothing to export. Callers surface it
// as a notice to the user; no file is written.
var ErrNoEntries = errors.New("no diary entries to export")

// WriteDiary serializes every diary entry belonging to ownerID into an
// indented JSON document at path, creating parent directories as needed. If
// passphrase is non-empty the document is encrypted with age's scrypt-based
// passphrase encryption. Returns the number of exported entries.
//
// The file is written atomically (temp file + rename), so a failed export
// never leaves a truncated document behind.
func WriteDiary(ctx context.Context, s store.Store, ownerID int64, path, passphrase string) (int, error) {
	entries, err := s.ListDiaryEntries(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("listing diary entries: %w", err)
	}
	if len(entries) == 0 {
		return 0, ErrNoEntries
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encoding diary entries: %w", err)
	}

	if passphrase != "" {
		data, err = encrypt(data, passphrase)
		if err != nil {
			return 0, err
		}
	}

	if err := writeFileAtomic(path, data); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// ReadDiary reads an export document from r, decrypting it first when
// passphrase is non-empty, and returns the raw JSON bytes.
func ReadDiary(r io.Reader, passphrase string) ([]byte, error) {
	if passphrase == "" {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading export: %w", err)
		}
		return data, nil
	}

	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}

	dec, err := age.Decrypt(r, identity)
	if err != nil {
		return nil, fmt.Errorf("decrypting export: %w", err)
	}

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted export: %w", err)
	}
	return data, nil
}

// encrypt wraps data with age's scrypt-based passphrase encryption.
func encrypt(data []byte, passphrase string) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt recipient: %w", err)
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return nil, fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("encrypting export: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}
	return buf.Bytes(), nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
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
		return fmt.Errorf("writing export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replacing export file: %w", err)
	}

	success = true
	return nil
}
