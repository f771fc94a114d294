package tui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"ccswitch/config"
	"ccswitch/config/environ"
	"ccswitch/config/models"
	"ccswitch/config/settings"
	"ccswitch/internal/launcher"
	"ccswitch/internal/layout"
	"ccswitch/internal/logging"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// ProfileStore is the part of the configuration store the menus use
type ProfileStore interface {
	Profiles() []models.Profile
	Get(alias string) (*models.Profile, bool)
	RenameOrUpdate(oldAlias string, p models.Profile) error
	Save() error
}

// Switcher applies a selection to the settings file
type Switcher interface {
	Switch(p models.Profile, mode models.WriteMode) (*settings.Outcome, error)
	Reset() (*settings.Outcome, error)
}

// Engine runs the interactive menus and hands the terminal to the assistant
// once a selection is committed
type Engine struct {
	Store    ProfileStore
	Merger   Switcher
	Launcher launcher.Launcher
	Mode     models.WriteMode
	Caps     layout.Capabilities

	In  io.Reader
	Out io.Writer
	// Interactive selects the full-screen menus; false uses the line prompt
	Interactive bool

	keys  KeyMap
	lines *bufio.Reader
}

// NewEngine wires an engine to the process terminal
func NewEngine(store ProfileStore, merger Switcher, l launcher.Launcher, mode models.WriteMode) *Engine {
	caps := layout.DetectCapabilities(os.Getenv)
	caps.Width = layout.TerminalWidth(int(os.Stdout.Fd()))
	return &Engine{
		Store:       store,
		Merger:      merger,
		Launcher:    l,
		Mode:        mode,
		Caps:        caps,
		In:          os.Stdin,
		Out:         os.Stdout,
		Interactive: probeTerminal(os.Stdin, os.Stdout),
	}
}

// probeTerminal reports whether raw mode can be acquired on in. The raw
// state is restored immediately; the menus acquire it again when they run.
func probeTerminal(in io.Reader, out io.Writer) bool {
	inFile, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(inFile.Fd())) {
		return false
	}
	if outFile, ok := out.(*os.File); !ok || !term.IsTerminal(int(outFile.Fd())) {
		return false
	}
	state, err := term.MakeRaw(int(inFile.Fd()))
	if err != nil {
		return false
	}
	if err := term.Restore(int(inFile.Fd()), state); err != nil {
		return false
	}
	return true
}

func (e *Engine) keyMap() KeyMap {
	if e.keys.Select.Keys() == nil {
		e.keys = DefaultKeyMap()
	}
	return e.keys
}

func (e *Engine) printf(format string, args ...any) {
	fmt.Fprintf(e.Out, format, args...)
}

// run executes model as a full-screen program. Bubbletea owns raw mode and
// the alternate screen for the duration of Run and releases both on every
// return path. A program that cannot start switches the engine to the line
// prompt.
func (e *Engine) run(model tea.Model) (tea.Model, error) {
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithInput(e.In),
		tea.WithOutput(e.Out),
	)
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil, err
		}
		logging.Default().Debug("full-screen menu unavailable", "error", err)
		e.Interactive = false
		return nil, fmt.Errorf("%w: %v", ErrNoTerminal, err)
	}
	return final, nil
}

// RunMain shows the main menu and dispatches the chosen item
func (e *Engine) RunMain() error {
	item, err := e.chooseMain()
	if errors.Is(err, ErrCancelled) {
		e.printf("\nExiting...\n")
		return nil
	}
	if err != nil {
		return err
	}

	switch item {
	case MainExecuteDefault:
		e.printf("\nExecuting: %s %s\n", launcher.Executable, launcher.SkipPermissionsFlag)
		return e.Launcher.Launch(environ.Inherit())
	case MainSelectConfig:
		return e.RunSelect()
	default:
		e.printf("Exiting...\n")
		return nil
	}
}

func (e *Engine) chooseMain() (MainItem, error) {
	if e.Interactive {
		final, err := e.run(newMainModel(e.keyMap(), e.Caps))
		if err == nil {
			m := final.(mainModel)
			if m.cancelled {
				return 0, ErrCancelled
			}
			return m.chosen, nil
		}
		if !errors.Is(err, ErrNoTerminal) {
			return 0, err
		}
	}
	return e.lineUI().mainMenu()
}

// RunSelect runs the configuration selector until a selection is committed
// or cancelled. Editing a profile returns to the selector with the page and
// cursor preserved.
func (e *Engine) RunSelect() error {
	profiles := e.Store.Profiles()
	if len(profiles) == 0 {
		e.printf("No configurations available. Use 'add' command to create configurations first.\n")
		return nil
	}

	sel := NewSelection(profiles)
	for {
		action, err := e.selectOnce(sel)
		if err != nil {
			return err
		}

		switch action.Kind {
		case ActionCancel:
			e.printf("\nSelection cancelled\n")
			return nil
		case ActionEdit:
			p, _ := sel.Profile(action.Index)
			if err := e.edit(p); err != nil && !errors.Is(err, ErrReturnToMenu) {
				return err
			}
			sel.Reload(e.Store.Profiles())
			if sel.Len() == 0 {
				e.printf("No configurations available. Use 'add' command to create configurations first.\n")
				return nil
			}
		case ActionCommit:
			return e.commit(sel, action.Index)
		}
	}
}

func (e *Engine) selectOnce(sel *Selection) (Action, error) {
	if e.Interactive {
		final, err := e.run(newSelectModel(sel, e.keyMap(), e.Caps))
		if err == nil {
			return final.(selectModel).action, nil
		}
		if !errors.Is(err, ErrNoTerminal) {
			return Action{}, err
		}
	}
	return e.lineUI().selectMenu(sel)
}

// RunEditor opens the field editor on alias
func (e *Engine) RunEditor(alias string) error {
	p, ok := e.Store.Get(alias)
	if !ok {
		return &config.NotFoundError{Alias: alias}
	}
	err := e.edit(*p)
	if errors.Is(err, ErrReturnToMenu) {
		return nil
	}
	return err
}

// edit runs one editor session. It returns ErrReturnToMenu when the user
// leaves with Q and nil after a save or a declined overwrite.
func (e *Engine) edit(p models.Profile) error {
	editor := NewFieldEditor(p)

	var result EditorResult
	if e.Interactive {
		final, err := e.run(newEditorModel(editor, e.Store, e.keyMap(), e.Caps))
		switch {
		case err == nil:
			m := final.(editorModel)
			if m.result == EditorFailed {
				return m.err
			}
			result = m.result
		case errors.Is(err, ErrNoTerminal):
			return e.lineUI().editor(editor, e.Store)
		default:
			return err
		}
	} else {
		return e.lineUI().editor(editor, e.Store)
	}

	switch result {
	case EditorSaved:
		e.printf("\n配置已成功保存!\n")
	case EditorDeclined:
		e.printf("编辑已取消\n")
	default:
		e.printf("\n返回上一级菜单\n")
		return ErrReturnToMenu
	}
	return nil
}

// commit applies the selection at cursor index and launches the assistant
func (e *Engine) commit(sel *Selection, index int) error {
	if index == 0 {
		e.printf("\nUsing official Claude configuration\n")
		outcome, err := e.Merger.Reset()
		if err != nil {
			return err
		}
		e.printf("%s", RenderOutcome(outcome))
		return e.Launcher.Launch(environ.Official())
	}

	p, ok := sel.Profile(index)
	if !ok {
		e.printf("\nExiting...\n")
		return nil
	}

	outcome, err := e.Merger.Switch(p, e.Mode)
	if settings.IsConflict(err) {
		e.printf("\n%s\n", errorStyle.Render(err.Error()))
		e.printf("Unset these variables or switch with the env storage mode.\n")
		return nil
	}
	if err != nil {
		return err
	}

	e.printf("\nSwitched to configuration '%s'\n", p.AliasName)
	for _, line := range profileDetails(p, "") {
		e.printf("%s\n", line)
	}
	e.printf("%s", RenderOutcome(outcome))

	bag := environ.Official()
	if e.Mode != models.WriteModeConfig {
		bag = environ.Materialize(p)
	}
	return e.Launcher.Launch(bag)
}
