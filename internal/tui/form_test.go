package tui

import (
	"path/filepath"
	"strings"
	"testing"

	"ccswitch/config"
	"ccswitch/config/models"

	"github.com/charmbracelet/bubbles/textinput"
)

func newTestStore(t *testing.T, profiles ...models.Profile) *config.Store {
	t.Helper()
	store, err := config.Open(filepath.Join(t.TempDir(), "configurations.json"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	for _, p := range profiles {
		store.Add(p)
	}
	if err := store.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	return store
}

func editorProfile() models.Profile {
	return models.Profile{
		AliasName:         "work",
		Token:             "sk-ant-REDACTED",
		URL:               "https://api.anthropic.com",
		Model:             models.StringPtr("claude-sonnet-4"),
		MaxThinkingTokens: models.Uint32Ptr(2048),
	}
}

// TestParseField tests editor field selection input
func TestParseField(t *testing.T) {
	tests := []struct {
		input  string
		want   Field
		wantOK bool
	}{
		{input: "1", want: FieldAlias, wantOK: true},
		{input: "9", want: FieldDefaultSonnetModel, wantOK: true},
		{input: "10", want: FieldDefaultOpusModel, wantOK: true},
		{input: "11", want: FieldDefaultHaikuModel, wantOK: true},
		{input: "a", want: FieldDefaultOpusModel, wantOK: true},
		{input: "A", want: FieldDefaultOpusModel, wantOK: true},
		{input: "b", want: FieldDefaultHaikuModel, wantOK: true},
		{input: "B", want: FieldDefaultHaikuModel, wantOK: true},
		{input: " 3 ", want: FieldURL, wantOK: true},
		{input: "0", wantOK: false},
		{input: "12", wantOK: false},
		{input: "c", wantOK: false},
		{input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseField(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseField(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseField(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestFieldLabels tests menu keys and labels
func TestFieldLabels(t *testing.T) {
	fields := Fields()
	if len(fields) != FieldCount {
		t.Fatalf("Fields() = %d fields, want %d", len(fields), FieldCount)
	}

	tests := []struct {
		field Field
		key   string
		label string
	}{
		{field: FieldAlias, key: "1", label: "别名 (alias_name)"},
		{field: FieldToken, key: "2", label: "令牌 (ANTHROPIC_AUTH_TOKEN)"},
		{field: FieldAPITimeoutMS, key: "7", label: "API超时时间 (API_TIMEOUT_MS)"},
		{field: FieldDefaultOpusModel, key: "A", label: "默认 Opus 模型 (ANTHROPIC_DEFAULT_OPUS_MODEL)"},
		{field: FieldDefaultHaikuModel, key: "B", label: "默认 Haiku 模型 (ANTHROPIC_DEFAULT_HAIKU_MODEL)"},
	}
	for _, tt := range tests {
		if tt.field.Key() != tt.key {
			t.Errorf("%v.Key() = %q, want %q", tt.field, tt.field.Key(), tt.key)
		}
		if tt.field.Label() != tt.label {
			t.Errorf("%v.Label() = %q, want %q", tt.field, tt.field.Label(), tt.label)
		}
	}
}

// TestFieldHints tests the keep and clear hints per field kind
func TestFieldHints(t *testing.T) {
	if got := FieldModel.Hint(); got != "回车保持不变，输入空格清除" {
		t.Errorf("string hint = %q", got)
	}
	if got := FieldMaxThinkingTokens.Hint(); got != "回车保持不变，输入 0 清除" {
		t.Errorf("number hint = %q", got)
	}
	if got := FieldToken.Hint(); got != "回车保持不变" {
		t.Errorf("token hint = %q", got)
	}
}

// TestFieldEditorValue tests display values
func TestFieldEditorValue(t *testing.T) {
	e := NewFieldEditor(editorProfile())

	tests := []struct {
		field Field
		want  string
	}{
		{field: FieldAlias, want: "work"},
		{field: FieldToken, want: "sk-ant-api03...stuvwxyz"},
		{field: FieldURL, want: "https://api.anthropic.com"},
		{field: FieldModel, want: "claude-sonnet-4"},
		{field: FieldSmallFastModel, want: "[未设置]"},
		{field: FieldMaxThinkingTokens, want: "2048"},
		{field: FieldAPITimeoutMS, want: "[未设置]"},
	}
	for _, tt := range tests {
		if got := e.Value(tt.field); got != tt.want {
			t.Errorf("Value(%v) = %q, want %q", tt.field, got, tt.want)
		}
	}
}

// TestFieldEditorApply tests input handling for every field kind
func TestFieldEditorApply(t *testing.T) {
	tests := []struct {
		name    string
		field   Field
		input   string
		wantErr string
		wantMsg string
		check   func(p models.Profile) bool
	}{
		{
			name:  "empty keeps model",
			field: FieldModel,
			input: "",
			check: func(p models.Profile) bool { return p.Model != nil && *p.Model == "claude-sonnet-4" },
		},
		{
			name:    "space clears model",
			field:   FieldModel,
			input:   " ",
			wantMsg: "模型已清除",
			check:   func(p models.Profile) bool { return p.Model == nil },
		},
		{
			name:    "new model",
			field:   FieldModel,
			input:   "claude-opus-4\n",
			wantMsg: "模型已更新为: claude-opus-4",
			check:   func(p models.Profile) bool { return *p.Model == "claude-opus-4" },
		},
		{
			name:    "set haiku",
			field:   FieldDefaultHaikuModel,
			input:   "claude-haiku",
			wantMsg: "默认 Haiku 模型已更新为: claude-haiku",
			check:   func(p models.Profile) bool { return *p.DefaultHaikuModel == "claude-haiku" },
		},
		{
			name:    "zero clears number",
			field:   FieldMaxThinkingTokens,
			input:   "0",
			wantMsg: "最大思考令牌数已清除",
			check:   func(p models.Profile) bool { return p.MaxThinkingTokens == nil },
		},
		{
			name:    "number set",
			field:   FieldAPITimeoutMS,
			input:   "600000",
			wantMsg: "API超时时间已更新为: 600000",
			check:   func(p models.Profile) bool { return *p.APITimeoutMS == 600000 },
		},
		{
			name:    "bad number",
			field:   FieldMaxThinkingTokens,
			input:   "lots",
			wantErr: "错误: 请输入有效的数字",
			check:   func(p models.Profile) bool { return *p.MaxThinkingTokens == 2048 },
		},
		{
			name:    "negative number",
			field:   FieldDisableNonessentialTraffic,
			input:   "-1",
			wantErr: "错误: 请输入有效的数字",
			check:   func(p models.Profile) bool { return p.DisableNonessentialTraffic == nil },
		},
		{
			name:    "alias renamed",
			field:   FieldAlias,
			input:   "home",
			wantMsg: "别名已更新为: home",
			check:   func(p models.Profile) bool { return p.AliasName == "home" },
		},
		{
			name:    "alias with whitespace rejected",
			field:   FieldAlias,
			input:   "my work",
			wantErr: "错误: 别名不能包含空白字符",
			check:   func(p models.Profile) bool { return p.AliasName == "work" },
		},
		{
			name:    "reserved alias rejected",
			field:   FieldAlias,
			input:   "cc",
			wantErr: "错误: 'cc' 是保留名称",
			check:   func(p models.Profile) bool { return p.AliasName == "work" },
		},
		{
			name:  "blank alias keeps",
			field: FieldAlias,
			input: "  ",
			check: func(p models.Profile) bool { return p.AliasName == "work" },
		},
		{
			name:    "padded alias",
			field:   FieldAlias,
			input:   " home \n",
			wantErr: "错误: 别名不能包含空白字符",
			check:   func(p models.Profile) bool { return p.AliasName == "work" },
		},
		{
			name:    "token replaced",
			field:   FieldToken,
			input:   "new-token",
			wantMsg: "令牌已更新",
			check:   func(p models.Profile) bool { return p.Token == "new-token" },
		},
		{
			name:  "token cannot be cleared",
			field: FieldToken,
			input: " ",
			check: func(p models.Profile) bool { return p.Token == editorProfile().Token },
		},
		{
			name:    "url replaced",
			field:   FieldURL,
			input:   "https://proxy.example.com",
			wantMsg: "URL 已更新为: https://proxy.example.com",
			check:   func(p models.Profile) bool { return p.URL == "https://proxy.example.com" },
		},
		{
			name:    "invalid url rejected",
			field:   FieldURL,
			input:   "not a url",
			wantErr: "错误: 无效的 URL 格式",
			check:   func(p models.Profile) bool { return p.URL == "https://api.anthropic.com" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewFieldEditor(editorProfile())
			msg, err := e.Apply(tt.field, tt.input)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("Apply() error = %v, want %q", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Apply() unexpected error = %v", err)
			}
			if msg != tt.wantMsg {
				t.Errorf("Apply() message = %q, want %q", msg, tt.wantMsg)
			}
			if !tt.check(e.Profile) {
				t.Errorf("Apply() left profile %+v", e.Profile)
			}
		})
	}
}

// TestFieldEditorCopy tests that edits do not touch the original profile
func TestFieldEditorCopy(t *testing.T) {
	p := editorProfile()
	e := NewFieldEditor(p)
	if _, err := e.Apply(FieldModel, "other"); err != nil {
		t.Fatal(err)
	}
	if *p.Model != "claude-sonnet-4" {
		t.Errorf("original model changed to %q", *p.Model)
	}
}

// TestFieldEditorSave tests update, rename and collision detection
func TestFieldEditorSave(t *testing.T) {
	t.Run("update in place", func(t *testing.T) {
		store := newTestStore(t, editorProfile())
		e := NewFieldEditor(editorProfile())
		e.Apply(FieldModel, " ")

		if e.Collides(store) {
			t.Fatal("Collides() = true without alias change")
		}
		if err := e.Save(store); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		reopened, err := config.Open(store.Path())
		if err != nil {
			t.Fatal(err)
		}
		got, ok := reopened.Get("work")
		if !ok || got.Model != nil {
			t.Errorf("saved profile = %+v", got)
		}
	})

	t.Run("rename onto existing", func(t *testing.T) {
		other := models.Profile{AliasName: "home", Token: "t", URL: "https://h.example.com"}
		store := newTestStore(t, editorProfile(), other)
		e := NewFieldEditor(editorProfile())
		e.Apply(FieldAlias, "home")

		if !e.Collides(store) {
			t.Fatal("Collides() = false for an existing alias")
		}
		if err := e.Save(store); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if _, ok := store.Get("work"); ok {
			t.Error("old alias still resolves after rename")
		}
		got, _ := store.Get("home")
		if got.Token != editorProfile().Token {
			t.Errorf("home token = %q, want the edited profile's", got.Token)
		}
		if e.Original != "home" {
			t.Errorf("Original = %q after save", e.Original)
		}
	})

	t.Run("missing original", func(t *testing.T) {
		store := newTestStore(t)
		e := NewFieldEditor(editorProfile())
		if err := e.Save(store); !config.IsNotFound(err) {
			t.Errorf("Save() error = %v, want not found", err)
		}
	})
}

// TestFieldInput tests the value prompt setup
func TestFieldInput(t *testing.T) {
	token := fieldInput(FieldToken)
	if token.EchoMode != textinput.EchoPassword {
		t.Error("token input is not masked")
	}
	if !token.Focused() {
		t.Error("input not focused")
	}
	if token.CharLimit != 0 {
		t.Errorf("token CharLimit = %d, want no limit", token.CharLimit)
	}
	model := fieldInput(FieldModel)
	if model.EchoMode != textinput.EchoNormal {
		t.Error("model input is masked")
	}
	if !strings.Contains(model.Placeholder, "空格") {
		t.Errorf("placeholder = %q", model.Placeholder)
	}
}
