package models

import (
	"fmt"
	"strings"
)

// Profile represents a single named credential/endpoint configuration
type Profile struct {
	AliasName string `json:"alias_name"`
	Token     string `json:"token"`
	URL       string `json:"url"`

	Model                      *string `json:"model,omitempty"`
	SmallFastModel             *string `json:"small_fast_model,omitempty"`
	MaxThinkingTokens          *uint32 `json:"max_thinking_tokens,omitempty"`
	APITimeoutMS               *uint32 `json:"api_timeout_ms,omitempty"`
	DisableNonessentialTraffic *uint32 `json:"claude_code_disable_nonessential_traffic,omitempty"`
	DefaultSonnetModel         *string `json:"anthropic_default_sonnet_model,omitempty"`
	DefaultOpusModel           *string `json:"anthropic_default_opus_model,omitempty"`
	DefaultHaikuModel          *string `json:"anthropic_default_haiku_model,omitempty"`
}

// Clone returns a deep copy so edits never leak into the stored value
func (p Profile) Clone() Profile {
	c := p
	c.Model = cloneString(p.Model)
	c.SmallFastModel = cloneString(p.SmallFastModel)
	c.MaxThinkingTokens = cloneUint32(p.MaxThinkingTokens)
	c.APITimeoutMS = cloneUint32(p.APITimeoutMS)
	c.DisableNonessentialTraffic = cloneUint32(p.DisableNonessentialTraffic)
	c.DefaultSonnetModel = cloneString(p.DefaultSonnetModel)
	c.DefaultOpusModel = cloneString(p.DefaultOpusModel)
	c.DefaultHaikuModel = cloneString(p.DefaultHaikuModel)
	return c
}

// Equal reports whether two profiles hold the same values
func (p Profile) Equal(o Profile) bool {
	return p.AliasName == o.AliasName &&
		p.Token == o.Token &&
		p.URL == o.URL &&
		equalString(p.Model, o.Model) &&
		equalString(p.SmallFastModel, o.SmallFastModel) &&
		equalUint32(p.MaxThinkingTokens, o.MaxThinkingTokens) &&
		equalUint32(p.APITimeoutMS, o.APITimeoutMS) &&
		equalUint32(p.DisableNonessentialTraffic, o.DisableNonessentialTraffic) &&
		equalString(p.DefaultSonnetModel, o.DefaultSonnetModel) &&
		equalString(p.DefaultOpusModel, o.DefaultOpusModel) &&
		equalString(p.DefaultHaikuModel, o.DefaultHaikuModel)
}

// File represents the structure of the store file
type File struct {
	Configurations     map[string]Profile `json:"configurations"`
	ClaudeSettingsDir  string             `json:"claude_settings_dir,omitempty"`
	DefaultStorageMode WriteMode          `json:"default_storage_mode,omitempty"`
}

// WriteMode selects which credential source a switch writes to
type WriteMode string

const (
	WriteModeEnv    WriteMode = "env"
	WriteModeConfig WriteMode = "config"
)

// ParseWriteMode parses "env" or "config" (case-insensitive)
func ParseWriteMode(s string) (WriteMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "env":
		return WriteModeEnv, nil
	case "config":
		return WriteModeConfig, nil
	default:
		return "", fmt.Errorf("invalid storage mode '%s' (expected 'env' or 'config')", s)
	}
}

func (m WriteMode) String() string {
	if m == "" {
		return string(WriteModeEnv)
	}
	return string(m)
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// Uint32Ptr returns a pointer to v
func Uint32Ptr(v uint32) *uint32 {
	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneUint32(u *uint32) *uint32 {
	if u == nil {
		return nil
	}
	v := *u
	return &v
}

func equalString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalUint32(a, b *uint32) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
