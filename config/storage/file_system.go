package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ccswitch/internal/logging"
)

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// AtomicWriteFile writes data to a temporary file next to path and renames it
// into place, so readers see either the old or the new content.
func AtomicWriteFile(path string, data []byte, perm os.FileMode, createBackup bool) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	snapshots := NewSnapshots(DefaultKeep)
	if createBackup && FileExists(path) {
		name, err := snapshots.Take(path)
		if err != nil {
			return err
		}
		logging.Default().Debug("took snapshot", "path", name)
	}

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmpFile.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temporary file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to set permissions on temporary file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	if createBackup {
		if err := snapshots.Prune(path); err != nil {
			logging.Default().Warn("failed to prune snapshots", "path", path, "err", err)
		}
	}

	return nil
}

// MigrateConfig moves a store file from oldPath to newPath. The old file is
// kept next to itself with a .backup suffix.
func MigrateConfig(oldPath, newPath string) error {
	data, err := os.ReadFile(oldPath)
	if err != nil {
		return fmt.Errorf("failed to read old config file: %w", err)
	}

	if len(data) == 0 {
		return fmt.Errorf("old config file is empty")
	}

	if !json.Valid(data) {
		return fmt.Errorf("old config file format is invalid")
	}

	if err := AtomicWriteFile(newPath, data, 0600, false); err != nil {
		return fmt.Errorf("failed to write new config file: %w", err)
	}

	backupPath := oldPath + ".backup"
	if err := os.Rename(oldPath, backupPath); err != nil {
		logging.Default().Warn("failed to keep a backup of the old config", "path", oldPath, "err", err)
	}

	return nil
}

// ShouldMigrateConfig checks if config migration should be performed
func ShouldMigrateConfig(oldPath, newPath string) bool {
	// Migrate if old config exists and new config doesn't
	oldExists := FileExists(oldPath)
	newExists := FileExists(newPath)
	return oldExists && !newExists
}
