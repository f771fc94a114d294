package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ccswitch/config/environ"
	"ccswitch/config/models"
	"ccswitch/config/validation"
	"ccswitch/internal/utils"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// Field is an editable profile field, numbered as in the editor menu
type Field int

const (
	FieldAlias Field = iota + 1
	FieldToken
	FieldURL
	FieldModel
	FieldSmallFastModel
	FieldMaxThinkingTokens
	FieldAPITimeoutMS
	FieldDisableNonessentialTraffic
	FieldDefaultSonnetModel
	FieldDefaultOpusModel
	FieldDefaultHaikuModel
)

// FieldCount is the number of editable fields
const FieldCount = 11

type fieldKind int

const (
	kindAlias fieldKind = iota
	kindRequired
	kindString
	kindNumber
)

type fieldSpec struct {
	key  string
	name string
	env  string
	kind fieldKind
}

var fieldSpecs = map[Field]fieldSpec{
	FieldAlias:                      {key: "1", name: "别名", env: "alias_name", kind: kindAlias},
	FieldToken:                      {key: "2", name: "令牌", env: environ.AuthToken, kind: kindRequired},
	FieldURL:                        {key: "3", name: "URL", env: environ.BaseURL, kind: kindRequired},
	FieldModel:                      {key: "4", name: "模型", env: environ.Model, kind: kindString},
	FieldSmallFastModel:             {key: "5", name: "快速模型", env: environ.SmallFastModel, kind: kindString},
	FieldMaxThinkingTokens:          {key: "6", name: "最大思考令牌数", env: environ.MaxThinkingTokens, kind: kindNumber},
	FieldAPITimeoutMS:               {key: "7", name: "API超时时间", env: environ.APITimeoutMS, kind: kindNumber},
	FieldDisableNonessentialTraffic: {key: "8", name: "禁用非必要流量", env: environ.DisableNonessentialTraffic, kind: kindNumber},
	FieldDefaultSonnetModel:         {key: "9", name: "默认 Sonnet 模型", env: environ.DefaultSonnetModel, kind: kindString},
	FieldDefaultOpusModel:           {key: "A", name: "默认 Opus 模型", env: environ.DefaultOpusModel, kind: kindString},
	FieldDefaultHaikuModel:          {key: "B", name: "默认 Haiku 模型", env: environ.DefaultHaikuModel, kind: kindString},
}

// Fields lists the editable fields in menu order
func Fields() []Field {
	fields := make([]Field, 0, FieldCount)
	for f := FieldAlias; f <= FieldDefaultHaikuModel; f++ {
		fields = append(fields, f)
	}
	return fields
}

// ParseField maps editor input to a field: "1".."11", and a/A or b/B for
// 10 and 11
func ParseField(input string) (Field, bool) {
	switch strings.TrimSpace(input) {
	case "a", "A":
		return FieldDefaultOpusModel, true
	case "b", "B":
		return FieldDefaultHaikuModel, true
	}
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < int(FieldAlias) || n > int(FieldDefaultHaikuModel) {
		return 0, false
	}
	return Field(n), true
}

// Key is the menu key shown in front of the field
func (f Field) Key() string {
	return fieldSpecs[f].key
}

// Name is the short display name
func (f Field) Name() string {
	return fieldSpecs[f].name
}

// Label is the menu label, e.g. "别名 (alias_name)"
func (f Field) Label() string {
	spec := fieldSpecs[f]
	return spec.name + " (" + spec.env + ")"
}

// Numeric reports whether the field holds a number
func (f Field) Numeric() bool {
	return fieldSpecs[f].kind == kindNumber
}

// Sensitive reports whether the field value is masked
func (f Field) Sensitive() bool {
	return f == FieldToken
}

// Hint is the input prompt suffix explaining how to keep or clear a value
func (f Field) Hint() string {
	switch fieldSpecs[f].kind {
	case kindString:
		return "回车保持不变，输入空格清除"
	case kindNumber:
		return "回车保持不变，输入 0 清除"
	default:
		return "回车保持不变"
	}
}

const unsetValue = "[未设置]"

// ErrInvalidNumber is returned for a numeric field given something other
// than a non-negative integer
var ErrInvalidNumber = errors.New("错误: 请输入有效的数字")

// FieldEditor is the working copy of a profile being edited
type FieldEditor struct {
	// Original is the alias the profile was stored under
	Original string
	Profile  models.Profile
}

// NewFieldEditor copies p so edits stay local until saved
func NewFieldEditor(p models.Profile) *FieldEditor {
	return &FieldEditor{Original: p.AliasName, Profile: p.Clone()}
}

func (e *FieldEditor) optString(f Field) **string {
	switch f {
	case FieldModel:
		return &e.Profile.Model
	case FieldSmallFastModel:
		return &e.Profile.SmallFastModel
	case FieldDefaultSonnetModel:
		return &e.Profile.DefaultSonnetModel
	case FieldDefaultOpusModel:
		return &e.Profile.DefaultOpusModel
	case FieldDefaultHaikuModel:
		return &e.Profile.DefaultHaikuModel
	}
	return nil
}

func (e *FieldEditor) optUint(f Field) **uint32 {
	switch f {
	case FieldMaxThinkingTokens:
		return &e.Profile.MaxThinkingTokens
	case FieldAPITimeoutMS:
		return &e.Profile.APITimeoutMS
	case FieldDisableNonessentialTraffic:
		return &e.Profile.DisableNonessentialTraffic
	}
	return nil
}

// Value is the display value of f: the token is masked and unset optional
// fields show "[未设置]"
func (e *FieldEditor) Value(f Field) string {
	switch f {
	case FieldAlias:
		return e.Profile.AliasName
	case FieldToken:
		return utils.MaskToken(e.Profile.Token)
	case FieldURL:
		return e.Profile.URL
	}
	if p := e.optString(f); p != nil {
		if *p == nil {
			return unsetValue
		}
		return **p
	}
	if p := e.optUint(f); p != nil {
		if *p == nil {
			return unsetValue
		}
		return strconv.FormatUint(uint64(**p), 10)
	}
	return ""
}

// Apply applies one line of input to f and returns a confirmation message.
// Empty input leaves the field alone. A blank string field input clears it
// and "0" clears a numeric field. Rejected input leaves the profile
// unchanged and returns the error to show.
func (e *FieldEditor) Apply(f Field, input string) (string, error) {
	input = strings.TrimRight(input, "\r\n")
	if input == "" {
		return "", nil
	}
	value := strings.TrimSpace(input)

	switch fieldSpecs[f].kind {
	case kindAlias:
		if value == "" {
			return "", nil
		}
		// Surrounding whitespace is part of the alias and gets rejected
		if err := validation.ValidateAlias(input); err != nil {
			if input == validation.ReservedAlias {
				return "", errors.New("错误: 'cc' 是保留名称")
			}
			return "", errors.New("错误: 别名不能包含空白字符")
		}
		e.Profile.AliasName = input
		return "别名已更新为: " + input, nil

	case kindRequired:
		if value == "" {
			return "", nil
		}
		if f == FieldURL {
			if err := validation.ValidateURL(value); err != nil {
				return "", errors.New("错误: 无效的 URL 格式")
			}
			e.Profile.URL = value
			return "URL 已更新为: " + value, nil
		}
		e.Profile.Token = value
		return "令牌已更新", nil

	case kindString:
		p := e.optString(f)
		if value == "" {
			*p = nil
			return f.Name() + "已清除", nil
		}
		*p = models.StringPtr(value)
		return f.Name() + "已更新为: " + value, nil

	case kindNumber:
		p := e.optUint(f)
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return "", ErrInvalidNumber
		}
		if n == 0 {
			*p = nil
			return f.Name() + "已清除", nil
		}
		*p = models.Uint32Ptr(uint32(n))
		return fmt.Sprintf("%s已更新为: %d", f.Name(), n), nil
	}
	return "", fmt.Errorf("unknown field %d", f)
}

// AliasChanged reports whether the alias differs from the stored one
func (e *FieldEditor) AliasChanged() bool {
	return e.Profile.AliasName != e.Original
}

// Collides reports whether saving would overwrite another stored profile
func (e *FieldEditor) Collides(s ProfileStore) bool {
	if !e.AliasChanged() {
		return false
	}
	_, exists := s.Get(e.Profile.AliasName)
	return exists
}

// Save renames or updates the profile in s and persists it. Callers confirm
// a collision first.
func (e *FieldEditor) Save(s ProfileStore) error {
	if err := validation.ValidateProfile(e.Profile); err != nil {
		return err
	}
	if err := s.RenameOrUpdate(e.Original, e.Profile); err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	e.Original = e.Profile.AliasName
	return nil
}

// Form styles
var (
	formLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	formValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	formFocusedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true)

	formHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

// fieldInput creates the value prompt for f
func fieldInput(f Field) textinput.Model {
	input := textinput.New()
	input.Placeholder = f.Hint()
	input.Prompt = "新值: "
	input.CharLimit = 0
	input.Width = 50
	if f.Sensitive() {
		input.EchoMode = textinput.EchoPassword
		input.EchoCharacter = '•'
	}
	input.Focus()
	return input
}
