// Package tui provides the interactive menus of cc-switch: the main menu,
// the paged configuration selector and the field editor.
package tui

import (
	"strings"

	"ccswitch/internal/layout"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// mainModel drives the main menu
type mainModel struct {
	menu      MainMenu
	keys      KeyMap
	caps      layout.Capabilities
	chosen    MainItem
	cancelled bool
	done      bool
}

func newMainModel(keys KeyMap, caps layout.Capabilities) mainModel {
	return mainModel{keys: keys, caps: caps}
}

func (m mainModel) Init() tea.Cmd {
	return nil
}

func (m mainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.caps.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if d, ok := digit(msg); ok && d <= len(mainItems) {
			m.menu.Cursor = MainItem(d - 1)
			return m.finish(false)
		}
		switch {
		case key.Matches(msg, m.keys.Up):
			m.menu.MoveUp()
		case key.Matches(msg, m.keys.Down):
			m.menu.MoveDown()
		case key.Matches(msg, m.keys.Select):
			return m.finish(false)
		case key.Matches(msg, m.keys.Cancel):
			return m.finish(true)
		}
	}
	return m, nil
}

func (m mainModel) finish(cancelled bool) (tea.Model, tea.Cmd) {
	m.chosen = m.menu.Cursor
	m.cancelled = cancelled
	m.done = true
	return m, tea.Quit
}

func (m mainModel) View() string {
	if m.done {
		return ""
	}
	return RenderMainMenu(m.menu, m.caps)
}

// selectModel drives one run of the selector. It quits as soon as a key
// produces an action; the engine decides what happens next.
type selectModel struct {
	sel    *Selection
	keys   KeyMap
	caps   layout.Capabilities
	action Action
}

func newSelectModel(sel *Selection, keys KeyMap, caps layout.Capabilities) selectModel {
	return selectModel{sel: sel, keys: keys, caps: caps}
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.caps.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if d, ok := digit(msg); ok {
			if action, ok := m.sel.Digit(d); ok {
				m.action = action
				return m, tea.Quit
			}
			return m, nil
		}
		action := m.sel.Apply(m.keys.selectorAction(msg))
		if action.Kind != ActionNone {
			m.action = action
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m selectModel) View() string {
	if m.action.Kind != ActionNone {
		return ""
	}
	return RenderSelector(m.sel, m.caps)
}

type editorState int

const (
	editorMenu editorState = iota
	editorInput
	editorConfirm
	editorSaving
)

// EditorResult is how a field editor session ended
type EditorResult int

const (
	EditorPending EditorResult = iota
	EditorSaved
	EditorReturned
	EditorDeclined
	EditorFailed
)

// editorModel drives the field editor
type editorModel struct {
	editor  *FieldEditor
	store   ProfileStore
	keys    KeyMap
	caps    layout.Capabilities
	state   editorState
	field   Field
	input   textinput.Model
	message string
	errMsg  string
	result  EditorResult
	err     error
}

func newEditorModel(editor *FieldEditor, store ProfileStore, keys KeyMap, caps layout.Capabilities) editorModel {
	return editorModel{editor: editor, store: store, keys: keys, caps: caps}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.caps.Width = msg.Width
		return m, nil

	case ProfileSavedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			m.result = EditorFailed
		} else {
			m.result = EditorSaved
		}
		return m, tea.Quit

	case tea.KeyMsg:
		switch m.state {
		case editorMenu:
			return m.handleMenuKeys(msg)
		case editorInput:
			return m.handleInputKeys(msg)
		case editorConfirm:
			return m.handleConfirmKeys(msg)
		}
	}
	return m, nil
}

func (m editorModel) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""
	m.errMsg = ""

	switch {
	case key.Matches(msg, m.keys.Save):
		if m.editor.Collides(m.store) {
			m.state = editorConfirm
			return m, nil
		}
		m.state = editorSaving
		return m, saveProfile(m.store, m.editor)
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Cancel):
		m.result = EditorReturned
		return m, tea.Quit
	}

	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		if f, ok := ParseField(string(msg.Runes)); ok {
			m.field = f
			m.input = fieldInput(f)
			m.state = editorInput
			return m, textinput.Blink
		}
	}
	m.errMsg = "无效选择，请重试"
	return m, nil
}

func (m editorModel) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		message, err := m.editor.Apply(m.field, m.input.Value())
		if err != nil {
			m.errMsg = err.Error()
		} else {
			m.message = message
		}
		m.state = editorMenu
		return m, nil
	case tea.KeyEsc:
		m.state = editorMenu
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m editorModel) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Yes) {
		m.state = editorSaving
		return m, saveProfile(m.store, m.editor)
	}
	m.result = EditorDeclined
	return m, tea.Quit
}

func saveProfile(store ProfileStore, editor *FieldEditor) tea.Cmd {
	return func() tea.Msg {
		err := editor.Save(store)
		return ProfileSavedMsg{Profile: editor.Profile, Err: err}
	}
}

func (m editorModel) View() string {
	if m.result != EditorPending {
		return ""
	}

	var b strings.Builder
	b.WriteString(renderEditorMenu(m.editor, m.caps))
	b.WriteString("\n")

	switch m.state {
	case editorMenu:
		b.WriteString(formHintStyle.Render("提示: 可使用大小写字母"))
		b.WriteString("\n")
		b.WriteString("请选择要编辑的字段 (1-9, A-B), 或输入 S 保存, Q 返回上一级菜单")
		b.WriteString("\n")
	case editorInput:
		b.WriteString(formFocusedStyle.Render("编辑" + m.field.Name() + ":"))
		b.WriteString("\n当前值: " + m.editor.Value(m.field) + "\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(formHintStyle.Render(m.field.Hint() + "，Esc 返回"))
		b.WriteString("\n")
	case editorConfirm:
		b.WriteString(errorStyle.Render("别名冲突!"))
		b.WriteString("\n配置 '" + m.editor.Profile.AliasName + "' 已存在\n")
		b.WriteString("是否覆盖现有配置? (y/N)\n")
	case editorSaving:
		b.WriteString(dimStyle.Render("保存中..."))
		b.WriteString("\n")
	}

	if m.message != "" {
		b.WriteString("\n" + messageStyle.Render(m.message) + "\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render(m.errMsg) + "\n")
	}
	return b.String()
}
