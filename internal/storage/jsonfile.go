package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// File suffixes used only during the atomic-replace window.
const (
	tempSuffix   = ".tmp"
	backupSuffix = ".bak"
)

// renameFile is swappable so tests can fail the primary rename step.
var renameFile = os.Rename

// LoadJSON reads a JSON document from path. A missing, unreadable, empty,
// or corrupt file yields the fallback value so the store always starts in a
// valid state.
func LoadJSON[T any](path string, fallback T) T {
	raw, err := os.ReadFile(path)
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return fallback
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return fallback
	}
	return value
}

// WriteFileAtomic writes data to path so a reader never observes a partial
// file: the bytes go to a temp file in the same directory, are forced to
// stable storage, then renamed over the destination. When the direct rename
// fails, the destination is moved aside to a backup name first; if that
// chain fails mid-sequence the destination is restored, preferring a valid
// file at path over none. Directory metadata is synced best-effort.
func WriteFileAtomic(path string, data []byte) error {
	tmpPath := path + tempSuffix

	if err := writeAndSync(tmpPath, data); err != nil {
		return err
	}

	if err := renameFile(tmpPath, path); err != nil {
		if err := replaceViaBackup(tmpPath, path); err != nil {
			_ = os.Remove(tmpPath)
			return err
		}
	}

	syncDir(filepath.Dir(path))
	return nil
}

func writeAndSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return nil
}

// replaceViaBackup is the fallback for platforms where renaming over an
// existing destination fails: move the destination aside, move the temp
// file in, then drop the backup.
func replaceViaBackup(tmpPath, path string) error {
	backupPath := path + backupSuffix

	if err := renameFile(path, backupPath); err != nil {
		return fmt.Errorf("move destination aside: %w", err)
	}
	if err := renameFile(tmpPath, path); err != nil {
		// Put the old file back so path still holds valid content.
		_ = renameFile(backupPath, path)
		return fmt.Errorf("move temp into place: %w", err)
	}
	_ = os.Remove(backupPath)
	return nil
}

// syncDir forces directory metadata to stable storage. Failures are
// swallowed: not every filesystem supports it and the data file itself is
// already synced.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
