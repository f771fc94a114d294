package tui

import (
	"ccswitch/config/models"
)

// PageSize is the number of profiles shown per page of the selector
const PageSize = 9

// ActionKind is what a key press asks the engine to do
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionCommit
	ActionCancel
	ActionEdit
)

// Action is the outcome of a selector transition. Index uses the cursor
// space: 0 is official, 1..N are profiles and N+1 is exit.
type Action struct {
	Kind  ActionKind
	Index int
}

// KeyAction is a selector key after binding lookup
type KeyAction int

const (
	KeyNone KeyAction = iota
	KeyUp
	KeyDown
	KeyNextPage
	KeyPrevPage
	KeyOfficial
	KeyExit
	KeyEdit
	KeyEnter
	KeyEscape
)

// Selection is the selector state: the sorted profiles, the current page
// and the cursor
type Selection struct {
	profiles []models.Profile
	page     int
	cursor   int
}

// NewSelection starts on page 0 with the cursor on official
func NewSelection(profiles []models.Profile) *Selection {
	return &Selection{profiles: profiles}
}

// Len is the number of profiles
func (s *Selection) Len() int {
	return len(s.profiles)
}

// Page is the zero-based current page
func (s *Selection) Page() int {
	return s.page
}

// Cursor is the current cursor index
func (s *Selection) Cursor() int {
	return s.cursor
}

// ExitIndex is the cursor index of the exit entry
func (s *Selection) ExitIndex() int {
	return len(s.profiles) + 1
}

// PageCount is ceil(N/PageSize), and 1 for an empty list
func (s *Selection) PageCount() int {
	n := len(s.profiles)
	if n <= PageSize {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

// PageBounds returns the half-open profile range of the current page
func (s *Selection) PageBounds() (start, end int) {
	start = s.page * PageSize
	end = start + PageSize
	if end > len(s.profiles) {
		end = len(s.profiles)
	}
	return start, end
}

// PageProfiles returns the profiles on the current page
func (s *Selection) PageProfiles() []models.Profile {
	start, end := s.PageBounds()
	return s.profiles[start:end]
}

// Profile returns the profile at cursor index i
func (s *Selection) Profile(i int) (models.Profile, bool) {
	if i < 1 || i > len(s.profiles) {
		return models.Profile{}, false
	}
	return s.profiles[i-1], true
}

// IsProfile reports whether cursor index i is a real profile
func (s *Selection) IsProfile(i int) bool {
	return i >= 1 && i <= len(s.profiles)
}

// the page follows the cursor when it lands on a profile of another page
func (s *Selection) followCursor() {
	if s.IsProfile(s.cursor) {
		s.page = (s.cursor - 1) / PageSize
	}
}

func (s *Selection) MoveUp() {
	if s.cursor > 0 {
		s.cursor--
	}
	s.followCursor()
}

func (s *Selection) MoveDown() {
	if s.cursor < s.ExitIndex() {
		s.cursor++
	}
	s.followCursor()
}

// NextPage advances a page and puts the cursor on its first profile. It is
// a no-op on the last page.
func (s *Selection) NextPage() {
	if s.page < s.PageCount()-1 {
		s.page++
		s.cursor = s.page*PageSize + 1
	}
}

// PrevPage is the mirror of NextPage
func (s *Selection) PrevPage() {
	if s.page > 0 {
		s.page--
		s.cursor = s.page*PageSize + 1
	}
}

// Digit commits the d-th profile of the current page. Digits outside the
// page are ignored.
func (s *Selection) Digit(d int) (Action, bool) {
	start, end := s.PageBounds()
	if d < 1 || d > end-start {
		return Action{}, false
	}
	s.cursor = start + d
	return Action{Kind: ActionCommit, Index: s.cursor}, true
}

// Point moves the cursor to the d-th profile of the current page without
// committing it
func (s *Selection) Point(d int) bool {
	start, end := s.PageBounds()
	if d < 1 || d > end-start {
		return false
	}
	s.cursor = start + d
	return true
}

// Apply performs the transition for k
func (s *Selection) Apply(k KeyAction) Action {
	switch k {
	case KeyUp:
		s.MoveUp()
	case KeyDown:
		s.MoveDown()
	case KeyNextPage:
		s.NextPage()
	case KeyPrevPage:
		s.PrevPage()
	case KeyOfficial:
		s.cursor = 0
		return Action{Kind: ActionCommit, Index: 0}
	case KeyExit:
		s.cursor = s.ExitIndex()
		return Action{Kind: ActionCommit, Index: s.cursor}
	case KeyEdit:
		if s.IsProfile(s.cursor) {
			return Action{Kind: ActionEdit, Index: s.cursor}
		}
	case KeyEnter:
		return Action{Kind: ActionCommit, Index: s.cursor}
	case KeyEscape:
		return Action{Kind: ActionCancel}
	}
	return Action{Kind: ActionNone}
}

// Reload swaps in a fresh profile list and keeps the page and cursor where
// they still fit
func (s *Selection) Reload(profiles []models.Profile) {
	s.profiles = profiles
	if s.cursor > s.ExitIndex() {
		s.cursor = s.ExitIndex()
	}
	if s.page > s.PageCount()-1 {
		s.page = s.PageCount() - 1
	}
	s.followCursor()
}

// MainItem is an entry of the main menu
type MainItem int

const (
	MainExecuteDefault MainItem = iota
	MainSelectConfig
	MainExit
)

var mainItems = []string{
	"Execute claude --dangerously-skip-permissions",
	"Switch configuration",
	"Exit",
}

func (i MainItem) String() string {
	if i < 0 || int(i) >= len(mainItems) {
		return "unknown"
	}
	return mainItems[i]
}

// MainMenu is the three-item menu shown by `current`
type MainMenu struct {
	Cursor MainItem
}

func (m *MainMenu) MoveUp() {
	if m.Cursor > MainExecuteDefault {
		m.Cursor--
	}
}

func (m *MainMenu) MoveDown() {
	if m.Cursor < MainExit {
		m.Cursor++
	}
}
