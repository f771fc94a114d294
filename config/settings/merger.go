// Package settings reads and rewrites the assistant's settings.json and
// keeps the reserved credential variables in exactly one place.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ccswitch/config/environ"
	"ccswitch/config/models"
	"ccswitch/config/storage"
	"ccswitch/internal/logging"
)

const (
	fileName       = "settings.json"
	defaultDirName = ".claude"
	defaultPerm    = 0644
)

// Path resolves the settings file location. An absolute customDir is used as
// is, a relative one is taken from the home directory, and "" means ~/.claude.
func Path(customDir string) (string, error) {
	if customDir != "" && filepath.IsAbs(customDir) {
		return filepath.Join(customDir, fileName), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find home directory: %w", err)
	}
	if customDir != "" {
		return filepath.Join(homeDir, customDir, fileName), nil
	}
	return filepath.Join(homeDir, defaultDirName, fileName), nil
}

// Outcome describes what a switch did to the settings file
type Outcome struct {
	Mode    models.WriteMode
	Path    string
	Removed []string
	Written []string
}

// Merger applies profile switches to the settings file
type Merger struct {
	// Dir is the custom settings directory, "" for the default
	Dir string
	// LookupEnv reads the current process environment; nil means os.LookupEnv
	LookupEnv func(string) (string, bool)
	// Backup keeps timestamped copies of the file before each rewrite
	Backup bool
}

// Path returns the settings file location for this merger
func (m *Merger) Path() (string, error) {
	return Path(m.Dir)
}

func (m *Merger) lookupEnv(name string) (string, bool) {
	if m.LookupEnv != nil {
		return m.LookupEnv(name)
	}
	return os.LookupEnv(name)
}

// Load reads the settings document. On first run the file does not exist
// yet; an empty document is written and returned.
func (m *Merger) Load() (*Document, error) {
	path, err := m.Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		doc := NewDocument()
		if err := m.write(path, doc); err != nil {
			return nil, err
		}
		logging.Default().Debug("created settings file", "path", path)
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read Claude settings from %s: %w", path, err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Claude settings %s: %w", path, err)
	}
	return doc, nil
}

// Save writes doc atomically
func (m *Merger) Save(doc *Document) error {
	path, err := m.Path()
	if err != nil {
		return err
	}
	return m.write(path, doc)
}

func (m *Merger) write(path string, doc *Document) error {
	perm := os.FileMode(defaultPerm)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	// A failed write never reaches the rename, so path still holds the old content
	if err := storage.AtomicWriteFile(path, doc.Bytes(), perm, m.Backup); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Switch makes p the active profile under mode.
//
// Env mode strips every reserved name from the file's env map so exported
// process variables are not shadowed; the file is only rewritten when
// something was removed. Config mode refuses with a *ConflictError if any
// reserved name is already set in the process environment or in the file,
// and otherwise writes the profile's variables into env.
func (m *Merger) Switch(p models.Profile, mode models.WriteMode) (*Outcome, error) {
	switch mode {
	case models.WriteModeConfig:
		return m.switchConfig(p)
	case models.WriteModeEnv, "":
		return m.clean(models.WriteModeEnv)
	default:
		return nil, fmt.Errorf("unknown write mode %q", mode)
	}
}

// Reset removes every reserved name from the settings file so the
// assistant's own defaults apply
func (m *Merger) Reset() (*Outcome, error) {
	return m.clean(models.WriteModeEnv)
}

func (m *Merger) clean(mode models.WriteMode) (*Outcome, error) {
	doc, err := m.Load()
	if err != nil {
		return nil, err
	}
	path, err := m.Path()
	if err != nil {
		return nil, err
	}

	before := doc.clone()
	outcome := &Outcome{Mode: mode, Path: path}
	for _, name := range environ.ReservedNames() {
		removed, err := doc.DeleteEnv(name)
		if err != nil {
			return nil, err
		}
		if removed {
			outcome.Removed = append(outcome.Removed, name)
		}
	}

	if len(outcome.Removed) == 0 {
		return outcome, nil
	}
	if err := verifyPreserved(before, doc); err != nil {
		return nil, fmt.Errorf("update validation failed: %w", err)
	}
	if err := m.write(path, doc); err != nil {
		return nil, err
	}

	logging.Default().Debug("cleaned settings env", "path", path, "removed", outcome.Removed)
	return outcome, nil
}

// Conflicts lists every reserved name set in the process environment or in
// doc's env map
func (m *Merger) Conflicts(doc *Document) []Conflict {
	var conflicts []Conflict
	for _, name := range environ.ReservedNames() {
		if _, ok := m.lookupEnv(name); ok {
			conflicts = append(conflicts, Conflict{Name: name, Source: ProcessEnv})
		}
	}
	for _, name := range environ.ReservedNames() {
		if doc.HasEnv(name) {
			conflicts = append(conflicts, Conflict{Name: name, Source: SettingsFile})
		}
	}
	return conflicts
}

func (m *Merger) switchConfig(p models.Profile) (*Outcome, error) {
	path, err := m.Path()
	if err != nil {
		return nil, err
	}
	// Refuse before Load creates a missing file
	if !storage.FileExists(path) {
		if conflicts := m.Conflicts(NewDocument()); len(conflicts) > 0 {
			return nil, &ConflictError{Path: path, Conflicts: conflicts}
		}
	}

	doc, err := m.Load()
	if err != nil {
		return nil, err
	}
	if conflicts := m.Conflicts(doc); len(conflicts) > 0 {
		return nil, &ConflictError{Path: path, Conflicts: conflicts}
	}

	before := doc.clone()
	bag := environ.Materialize(p)
	for _, v := range bag.Vars() {
		if err := doc.SetEnv(v.Name, v.Value); err != nil {
			return nil, err
		}
	}
	if err := verifyPreserved(before, doc); err != nil {
		return nil, fmt.Errorf("update validation failed: %w", err)
	}
	if err := m.write(path, doc); err != nil {
		return nil, err
	}

	logging.Default().Debug("wrote settings env", "path", path, "alias", p.AliasName, "names", bag.Names())
	return &Outcome{Mode: models.WriteModeConfig, Path: path, Written: bag.Names()}, nil
}
