package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"ccswitch/config/models"
	"ccswitch/config/storage"
	"ccswitch/internal/logging"
)

const (
	storeDirName       = ".cc-switch"
	legacyStoreDirName = ".cc_auto_switch"
	storeFileName      = "configurations.json"

	// HomeEnv overrides the directory holding the store file
	HomeEnv = "CC_SWITCH_HOME"
)

// DefaultStorePath returns ~/.cc-switch/configurations.json, or the file
// under $CC_SWITCH_HOME when set
func DefaultStorePath() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return filepath.Join(dir, storeFileName), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, storeDirName, storeFileName), nil
}

// LegacyStorePath returns the store location used by older releases
func LegacyStorePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, legacyStoreDirName, storeFileName), nil
}

// Store holds the named profiles and the store-level preferences
type Store struct {
	path string
	mu   sync.Mutex
	file models.File
}

// NewStore opens the store at its default location, moving a legacy store
// into place first if only the legacy one exists
func NewStore() (*Store, error) {
	path, err := DefaultStorePath()
	if err != nil {
		return nil, err
	}

	if os.Getenv(HomeEnv) == "" {
		if _, err := MigrateLegacy(path); err != nil {
			logging.Default().Warn("failed to migrate legacy store", "err", err)
		}
	}

	return Open(path)
}

// MigrateLegacy copies the legacy store to path when path does not exist yet.
// It reports whether a migration happened.
func MigrateLegacy(path string) (bool, error) {
	legacy, err := LegacyStorePath()
	if err != nil {
		return false, err
	}
	if !storage.ShouldMigrateConfig(legacy, path) {
		return false, nil
	}
	if err := storage.MigrateConfig(legacy, path); err != nil {
		return false, err
	}
	logging.Default().Debug("migrated legacy store", "from", legacy, "to", path)
	return true, nil
}

// Open loads the store at path. A missing or blank file yields an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the store file location
func (s *Store) Path() string {
	return s.path
}

func (s *Store) lockPath() string {
	return s.path + ".lock"
}

func (s *Store) load() error {
	s.file = models.File{Configurations: map[string]models.Profile{}}

	if !storage.FileExists(s.path) {
		return nil
	}

	lock, err := os.OpenFile(s.lockPath(), os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return fmt.Errorf("failed to open lock file: %w", err)
	}
	defer lock.Close()

	if err := lockFileShared(lock); err != nil {
		return fmt.Errorf("failed to lock config file: %w", err)
	}
	defer func() {
		if err := unlockFile(lock); err != nil {
			logging.Default().Warn("failed to unlock file", "path", s.lockPath(), "err", err)
		}
	}()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var file models.File
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", s.path, err)
	}
	if file.Configurations == nil {
		file.Configurations = map[string]models.Profile{}
	}
	s.file = file

	logging.Default().Debug("loaded store", "path", s.path, "profiles", len(file.Configurations))
	return nil
}

// Save writes the store back to disk atomically, holding an exclusive lock
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(s.file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath(), os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return fmt.Errorf("failed to open lock file: %w", err)
	}
	defer lock.Close()

	if err := lockFileExclusive(lock); err != nil {
		return fmt.Errorf("failed to lock config file: %w", err)
	}
	defer func() {
		if err := unlockFile(lock); err != nil {
			logging.Default().Warn("failed to unlock file", "path", s.lockPath(), "err", err)
		}
	}()

	if err := storage.AtomicWriteFile(s.path, data, 0600, false); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	logging.Default().Debug("saved store", "path", s.path, "profiles", len(s.file.Configurations))
	return nil
}

// Add inserts p, replacing any profile with the same alias
func (s *Store) Add(p models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.file.Configurations[p.AliasName] = p.Clone()
}

// Remove deletes the profile named alias and reports whether it existed
func (s *Store) Remove(alias string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.file.Configurations[alias]; !ok {
		return false
	}
	delete(s.file.Configurations, alias)
	return true
}

// Get returns a copy of the profile named alias
func (s *Store) Get(alias string) (*models.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.file.Configurations[alias]
	if !ok {
		return nil, false
	}
	c := p.Clone()
	return &c, true
}

// RenameOrUpdate replaces the profile stored under oldAlias with p. When the
// alias changed, the old key is dropped and p takes over p.AliasName,
// overwriting any profile already there.
func (s *Store) RenameOrUpdate(oldAlias string, p models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.file.Configurations[oldAlias]; !ok {
		return &NotFoundError{Alias: oldAlias}
	}
	if oldAlias != p.AliasName {
		delete(s.file.Configurations, oldAlias)
	}
	s.file.Configurations[p.AliasName] = p.Clone()
	return nil
}

// Profiles returns copies of all profiles sorted by alias
func (s *Store) Profiles() []models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Profile, 0, len(s.file.Configurations))
	for _, p := range s.file.Configurations {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AliasName < out[j].AliasName
	})
	return out
}

// Aliases returns the stored aliases in sorted order
func (s *Store) Aliases() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.file.Configurations))
	for alias := range s.file.Configurations {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of profiles
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.file.Configurations)
}

// SettingsDir returns the custom settings directory, or "" for the default
func (s *Store) SettingsDir() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.ClaudeSettingsDir
}

// SetSettingsDir sets the custom settings directory; "" restores the default
func (s *Store) SetSettingsDir(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.file.ClaudeSettingsDir = dir
}

// DefaultMode returns the stored write mode, Env when unset
func (s *Store) DefaultMode() models.WriteMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file.DefaultStorageMode == "" {
		return models.WriteModeEnv
	}
	return s.file.DefaultStorageMode
}

// SetDefaultMode stores the write mode used when none is given
func (s *Store) SetDefaultMode(mode models.WriteMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.file.DefaultStorageMode = mode
}
