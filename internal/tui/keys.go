package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	Up       key.Binding // k - move up
	Down     key.Binding // j - move down
	NextPage key.Binding // n - next page
	PrevPage key.Binding // p - previous page
	Official key.Binding // r - official API
	Edit     key.Binding // e - edit profile
	Select   key.Binding // Enter - confirm
	Quit     key.Binding // q - exit entry
	Cancel   key.Binding // Esc - cancel
	Save     key.Binding // s - save in editor
	Yes      key.Binding // y - confirm overwrite
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "K", "up"),
			key.WithHelp("k/↑", "向上"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "J", "down"),
			key.WithHelp("j/↓", "向下"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("n", "N", "pgdown"),
			key.WithHelp("n", "下一页"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p", "P", "pgup"),
			key.WithHelp("p", "上一页"),
		),
		Official: key.NewBinding(
			key.WithKeys("r", "R"),
			key.WithHelp("r", "官方"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "E"),
			key.WithHelp("e", "编辑"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "确认"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "Q"),
			key.WithHelp("q", "退出"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("Esc", "取消"),
		),
		Save: key.NewBinding(
			key.WithKeys("s", "S"),
			key.WithHelp("s", "保存"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "覆盖"),
		),
	}
}

// ShortHelp returns short help text
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Official, k.Quit}
}

// FullHelp returns full help text
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextPage, k.PrevPage},
		{k.Select, k.Official, k.Edit, k.Quit, k.Cancel},
	}
}

// selectorAction maps a key press to a selector transition
func (k KeyMap) selectorAction(msg tea.KeyMsg) KeyAction {
	switch {
	case key.Matches(msg, k.Up):
		return KeyUp
	case key.Matches(msg, k.Down):
		return KeyDown
	case key.Matches(msg, k.NextPage):
		return KeyNextPage
	case key.Matches(msg, k.PrevPage):
		return KeyPrevPage
	case key.Matches(msg, k.Official):
		return KeyOfficial
	case key.Matches(msg, k.Quit):
		return KeyExit
	case key.Matches(msg, k.Edit):
		return KeyEdit
	case key.Matches(msg, k.Select):
		return KeyEnter
	case key.Matches(msg, k.Cancel):
		return KeyEscape
	}
	return KeyNone
}

// digit returns the value of a 1-9 key press
func digit(msg tea.KeyMsg) (int, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '1' || r > '9' {
		return 0, false
	}
	return int(r - '0'), true
}
