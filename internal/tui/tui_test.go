package tui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"ccswitch/config"
	"ccswitch/config/environ"
	"ccswitch/config/models"
	"ccswitch/config/settings"
)

type fakeSwitcher struct {
	switched []models.Profile
	modes    []models.WriteMode
	resets   int
	err      error
}

func (f *fakeSwitcher) Switch(p models.Profile, mode models.WriteMode) (*settings.Outcome, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.switched = append(f.switched, p)
	f.modes = append(f.modes, mode)
	return &settings.Outcome{Mode: mode, Path: "/tmp/settings.json", Written: []string{environ.AuthToken}}, nil
}

func (f *fakeSwitcher) Reset() (*settings.Outcome, error) {
	f.resets++
	return &settings.Outcome{Path: "/tmp/settings.json"}, nil
}

type fakeLauncher struct {
	bags []environ.Bag
	err  error
}

func (f *fakeLauncher) Launch(bag environ.Bag) error {
	f.bags = append(f.bags, bag)
	return f.err
}

func newTestEngine(t *testing.T, input string, profiles ...models.Profile) (*Engine, *fakeSwitcher, *fakeLauncher, *bytes.Buffer) {
	t.Helper()
	sw := &fakeSwitcher{}
	l := &fakeLauncher{}
	out := &bytes.Buffer{}
	e := &Engine{
		Store:    newTestStore(t, profiles...),
		Merger:   sw,
		Launcher: l,
		Mode:     models.WriteModeEnv,
		Caps:     testCaps,
		In:       strings.NewReader(input),
		Out:      out,
	}
	return e, sw, l, out
}

// TestRunSelectCommit tests committing a selection from the line prompt
func TestRunSelectCommit(t *testing.T) {
	tests := []struct {
		name        string
		n           int
		input       string
		mode        models.WriteMode
		wantSwitch  string
		wantResets  int
		wantLaunch  bool
		wantEnvVars bool
		wantOutput  []string
	}{
		{
			name:        "digit in env mode",
			n:           3,
			input:       "2\n",
			mode:        models.WriteModeEnv,
			wantSwitch:  "p02",
			wantLaunch:  true,
			wantEnvVars: true,
			wantOutput:  []string{"Switched to configuration 'p02'", "Wrote ANTHROPIC_AUTH_TOKEN to Claude settings"},
		},
		{
			name:       "digit in config mode",
			n:          3,
			input:      "1\n",
			mode:       models.WriteModeConfig,
			wantSwitch: "p01",
			wantLaunch: true,
			wantOutput: []string{"Switched to configuration 'p01'"},
		},
		{
			name:       "official",
			n:          3,
			input:      "R\n",
			mode:       models.WriteModeEnv,
			wantResets: 1,
			wantLaunch: true,
			wantOutput: []string{"Using official Claude configuration"},
		},
		{
			name:       "exit",
			n:          3,
			input:      "q\n",
			mode:       models.WriteModeEnv,
			wantOutput: []string{"Exiting..."},
		},
		{
			name:       "end of input cancels",
			n:          3,
			input:      "",
			mode:       models.WriteModeEnv,
			wantOutput: []string{"Selection cancelled"},
		},
		{
			name:        "invalid then valid",
			n:           3,
			input:       "x\n7\n3\n",
			mode:        models.WriteModeEnv,
			wantSwitch:  "p03",
			wantLaunch:  true,
			wantEnvVars: true,
			wantOutput:  []string{"无效选择，请重新输入"},
		},
		{
			name:        "second page",
			n:           12,
			input:       "n\n3\n",
			mode:        models.WriteModeEnv,
			wantSwitch:  "p12",
			wantLaunch:  true,
			wantEnvVars: true,
			wantOutput:  []string{"第 2 页，共 2 页"},
		},
		{
			name:       "next on last page is invalid",
			n:          3,
			input:      "n\nq\n",
			mode:       models.WriteModeEnv,
			wantOutput: []string{"无效选择，请重新输入", "Exiting..."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, sw, l, out := newTestEngine(t, tt.input, makeProfiles(tt.n)...)
			e.Mode = tt.mode

			if err := e.RunSelect(); err != nil {
				t.Fatalf("RunSelect() error = %v", err)
			}

			if tt.wantSwitch == "" && len(sw.switched) != 0 {
				t.Errorf("unexpected switch to %s", sw.switched[0].AliasName)
			}
			if tt.wantSwitch != "" {
				if len(sw.switched) != 1 || sw.switched[0].AliasName != tt.wantSwitch {
					t.Fatalf("switched = %v, want %s", sw.switched, tt.wantSwitch)
				}
				if sw.modes[0] != tt.mode {
					t.Errorf("mode = %v, want %v", sw.modes[0], tt.mode)
				}
			}
			if sw.resets != tt.wantResets {
				t.Errorf("resets = %d, want %d", sw.resets, tt.wantResets)
			}
			if got := len(l.bags) == 1; got != tt.wantLaunch {
				t.Fatalf("launched %d times, want launch = %v", len(l.bags), tt.wantLaunch)
			}
			if tt.wantLaunch {
				bag := l.bags[0]
				if tt.wantEnvVars {
					if v, _ := bag.Get(environ.AuthToken); v != sw.switched[0].Token {
						t.Errorf("launch token = %q, want %q", v, sw.switched[0].Token)
					}
				} else if bag.Len() != 0 || bag.Inherits() {
					t.Errorf("launch bag = %v, want official", bag.Names())
				}
			}
			for _, want := range tt.wantOutput {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q\n%s", want, out.String())
				}
			}
		})
	}
}

// TestRunSelectConflict tests that a config-mode conflict is reported
// without launching
func TestRunSelectConflict(t *testing.T) {
	e, sw, l, out := newTestEngine(t, "1\n", makeProfiles(2)...)
	e.Mode = models.WriteModeConfig
	sw.err = &settings.ConflictError{
		Path:      "/tmp/settings.json",
		Conflicts: []settings.Conflict{{Name: environ.AuthToken, Source: settings.ProcessEnv}},
	}

	if err := e.RunSelect(); err != nil {
		t.Fatalf("RunSelect() error = %v", err)
	}
	if len(l.bags) != 0 {
		t.Error("conflict still launched the assistant")
	}
	for _, want := range []string{environ.AuthToken, "process environment", "Unset these variables"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q", want)
		}
	}
}

// TestRunSelectErrors tests that switch and launch failures propagate
func TestRunSelectErrors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("switch", func(t *testing.T) {
		e, sw, _, _ := newTestEngine(t, "1\n", makeProfiles(1)...)
		sw.err = boom
		if err := e.RunSelect(); !errors.Is(err, boom) {
			t.Errorf("RunSelect() error = %v, want %v", err, boom)
		}
	})

	t.Run("launch", func(t *testing.T) {
		e, _, l, _ := newTestEngine(t, "1\n", makeProfiles(1)...)
		l.err = boom
		if err := e.RunSelect(); !errors.Is(err, boom) {
			t.Errorf("RunSelect() error = %v, want %v", err, boom)
		}
	})
}

// TestRunSelectEmpty tests the message shown with no profiles
func TestRunSelectEmpty(t *testing.T) {
	e, _, l, out := newTestEngine(t, "1\n")
	if err := e.RunSelect(); err != nil {
		t.Fatalf("RunSelect() error = %v", err)
	}
	if !strings.Contains(out.String(), "No configurations available") {
		t.Errorf("output = %q", out.String())
	}
	if len(l.bags) != 0 {
		t.Error("empty store launched the assistant")
	}
}

// TestRunSelectEdit tests editing from the selector and returning to it
func TestRunSelectEdit(t *testing.T) {
	t.Run("save then select", func(t *testing.T) {
		e, sw, _, out := newTestEngine(t, "e1\n4\nopus\ns\n1\n", makeProfiles(2)...)
		if err := e.RunSelect(); err != nil {
			t.Fatalf("RunSelect() error = %v", err)
		}
		if !strings.Contains(out.String(), "配置已成功保存!") {
			t.Error("output missing save confirmation")
		}
		if len(sw.switched) != 1 || sw.switched[0].Model == nil || *sw.switched[0].Model != "opus" {
			t.Fatalf("switched = %+v, want p01 with model opus", sw.switched)
		}
		p, _ := e.Store.Get("p01")
		if p.Model == nil || *p.Model != "opus" {
			t.Error("edited model not persisted")
		}
	})

	t.Run("return without saving", func(t *testing.T) {
		e, _, _, out := newTestEngine(t, "e2\n4\nopus\nQ\nq\n", makeProfiles(2)...)
		if err := e.RunSelect(); err != nil {
			t.Fatalf("RunSelect() error = %v", err)
		}
		if !strings.Contains(out.String(), "返回上一级菜单") {
			t.Error("output missing return message")
		}
		p, _ := e.Store.Get("p02")
		if p.Model != nil {
			t.Error("unsaved edit reached the store")
		}
	})

	t.Run("collision confirmed", func(t *testing.T) {
		e, sw, _, out := newTestEngine(t, "e1\n1\np02\nS\ny\n1\n", makeProfiles(2)...)
		if err := e.RunSelect(); err != nil {
			t.Fatalf("RunSelect() error = %v", err)
		}
		if !strings.Contains(out.String(), "配置 'p02' 已存在") {
			t.Error("output missing collision warning")
		}
		if got := e.Store.Profiles(); len(got) != 1 {
			t.Fatalf("store has %d profiles, want 1", len(got))
		}
		if len(sw.switched) != 1 || sw.switched[0].AliasName != "p02" || sw.switched[0].Token != "token-01" {
			t.Errorf("switched = %+v, want renamed p01", sw.switched)
		}
	})

	t.Run("collision declined", func(t *testing.T) {
		e, _, _, out := newTestEngine(t, "e1\n1\np02\ns\nn\nq\n", makeProfiles(2)...)
		if err := e.RunSelect(); err != nil {
			t.Fatalf("RunSelect() error = %v", err)
		}
		if !strings.Contains(out.String(), "编辑已取消") {
			t.Error("output missing cancel message")
		}
		if got := e.Store.Profiles(); len(got) != 2 {
			t.Errorf("store has %d profiles, want 2", len(got))
		}
	})

	t.Run("invalid field then clear", func(t *testing.T) {
		e, _, _, out := newTestEngine(t, "e1\nz\n4\nopus\n4\n \ns\nq\n", makeProfiles(1)...)
		if err := e.RunSelect(); err != nil {
			t.Fatalf("RunSelect() error = %v", err)
		}
		if !strings.Contains(out.String(), "无效选择，请重试") {
			t.Error("output missing invalid field message")
		}
		if !strings.Contains(out.String(), "模型已清除") {
			t.Error("output missing clear message")
		}
		p, _ := e.Store.Get("p01")
		if p.Model != nil {
			t.Errorf("model = %q, want cleared", *p.Model)
		}
	})
}

// TestRunMain tests the main menu options from the line prompt
func TestRunMain(t *testing.T) {
	t.Run("execute default", func(t *testing.T) {
		e, sw, l, out := newTestEngine(t, "1\n", makeProfiles(1)...)
		if err := e.RunMain(); err != nil {
			t.Fatalf("RunMain() error = %v", err)
		}
		if len(l.bags) != 1 || !l.bags[0].Inherits() {
			t.Fatalf("launch bags = %v, want one inheriting bag", l.bags)
		}
		if len(sw.switched) != 0 || sw.resets != 0 {
			t.Error("execute default touched the settings file")
		}
		if !strings.Contains(out.String(), "Executing: claude --dangerously-skip-permissions") {
			t.Errorf("output = %q", out.String())
		}
	})

	t.Run("select config", func(t *testing.T) {
		e, sw, _, _ := newTestEngine(t, "2\n1\n", makeProfiles(1)...)
		if err := e.RunMain(); err != nil {
			t.Fatalf("RunMain() error = %v", err)
		}
		if len(sw.switched) != 1 {
			t.Errorf("switched %d times, want 1", len(sw.switched))
		}
	})

	t.Run("invalid then exit", func(t *testing.T) {
		e, _, l, out := newTestEngine(t, "9\n3\n", makeProfiles(1)...)
		if err := e.RunMain(); err != nil {
			t.Fatalf("RunMain() error = %v", err)
		}
		if !strings.Contains(out.String(), "Invalid option. Please select 1-3.") {
			t.Error("output missing invalid option message")
		}
		if len(l.bags) != 0 {
			t.Error("exit launched the assistant")
		}
	})

	t.Run("end of input", func(t *testing.T) {
		e, _, _, out := newTestEngine(t, "", makeProfiles(1)...)
		if err := e.RunMain(); err != nil {
			t.Fatalf("RunMain() error = %v", err)
		}
		if !strings.Contains(out.String(), "Exiting...") {
			t.Errorf("output = %q", out.String())
		}
	})
}

// TestRunEditor tests the standalone editor entry point
func TestRunEditor(t *testing.T) {
	t.Run("missing alias", func(t *testing.T) {
		e, _, _, _ := newTestEngine(t, "", makeProfiles(1)...)
		if err := e.RunEditor("nope"); !config.IsNotFound(err) {
			t.Errorf("RunEditor() error = %v, want not found", err)
		}
	})

	t.Run("save", func(t *testing.T) {
		e, _, _, _ := newTestEngine(t, "7\n4096\nS\n", makeProfiles(1)...)
		if err := e.RunEditor("p01"); err != nil {
			t.Fatalf("RunEditor() error = %v", err)
		}
		p, _ := e.Store.Get("p01")
		if p.APITimeoutMS == nil || *p.APITimeoutMS != 4096 {
			t.Errorf("api timeout = %v, want 4096", p.APITimeoutMS)
		}
	})

	t.Run("quit returns nil", func(t *testing.T) {
		e, _, _, _ := newTestEngine(t, "q\n", makeProfiles(1)...)
		if err := e.RunEditor("p01"); err != nil {
			t.Errorf("RunEditor() error = %v", err)
		}
	})
}
