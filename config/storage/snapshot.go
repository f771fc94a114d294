package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// DefaultKeep is how many snapshots of a file are retained
const DefaultKeep = 3

// Snapshots keeps rotating copies of a file next to it, named
// <file>.backup-<YYYYMMDDHHMMSS.nanos>-<pid> so they sort by age.
type Snapshots struct {
	Keep int
}

// NewSnapshots returns a rotation keeping keep copies, or DefaultKeep when
// keep is not positive
func NewSnapshots(keep int) *Snapshots {
	if keep <= 0 {
		keep = DefaultKeep
	}
	return &Snapshots{Keep: keep}
}

func snapshotGlob(path string) string {
	return path + ".backup-*"
}

// Take copies path into a new snapshot and returns its name
func (s *Snapshots) Take(path string) (string, error) {
	name := fmt.Sprintf("%s.backup-%s-%d", path, time.Now().Format("20060102150405.000000000"), os.Getpid())
	if err := copyFile(path, name); err != nil {
		return "", fmt.Errorf("failed to snapshot %s: %w", path, err)
	}
	return name, nil
}

// List returns the snapshots of path, oldest first
func (s *Snapshots) List(path string) ([]string, error) {
	names, err := filepath.Glob(snapshotGlob(path))
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots of %s: %w", path, err)
	}
	sort.Strings(names)
	return names, nil
}

// Prune removes all but the newest Keep snapshots
func (s *Snapshots) Prune(path string) error {
	names, err := s.List(path)
	if err != nil {
		return err
	}
	for len(names) > s.Keep {
		if err := os.Remove(names[0]); err != nil {
			return fmt.Errorf("failed to remove snapshot %s: %w", names[0], err)
		}
		names = names[1:]
	}
	return nil
}

// copyFile copies src to dst and gives dst the permissions of src
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chmod(dst, info.Mode().Perm())
}
