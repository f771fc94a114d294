// Package environ turns a profile into the environment variables the
// assistant reads, and owns the list of names this tool reserves.
package environ

import (
	"fmt"
	"strconv"
	"strings"

	"ccswitch/config/models"
)

const (
	AuthToken                  = "ANTHROPIC_AUTH_TOKEN"
	BaseURL                    = "ANTHROPIC_BASE_URL"
	Model                      = "ANTHROPIC_MODEL"
	SmallFastModel             = "ANTHROPIC_SMALL_FAST_MODEL"
	MaxThinkingTokens          = "ANTHROPIC_MAX_THINKING_TOKENS"
	APITimeoutMS               = "API_TIMEOUT_MS"
	DisableNonessentialTraffic = "CLAUDE_CODE_DISABLE_NONESSENTIAL_TRAFFIC"
	DefaultSonnetModel         = "ANTHROPIC_DEFAULT_SONNET_MODEL"
	DefaultOpusModel           = "ANTHROPIC_DEFAULT_OPUS_MODEL"
	DefaultHaikuModel          = "ANTHROPIC_DEFAULT_HAIKU_MODEL"
)

// reservedNames is the single ordered list shared by materialization and
// conflict detection.
var reservedNames = [...]string{
	AuthToken,
	BaseURL,
	Model,
	SmallFastModel,
	MaxThinkingTokens,
	APITimeoutMS,
	DisableNonessentialTraffic,
	DefaultSonnetModel,
	DefaultOpusModel,
	DefaultHaikuModel,
}

// ReservedNames returns a copy of the reserved variable names in canonical order
func ReservedNames() []string {
	names := make([]string, len(reservedNames))
	copy(names, reservedNames[:])
	return names
}

// IsReserved reports whether name is one of the reserved variable names
func IsReserved(name string) bool {
	for _, n := range reservedNames {
		if n == name {
			return true
		}
	}
	return false
}

// Var is a single NAME=value assignment
type Var struct {
	Name  string
	Value string
}

// Bag is an ordered set of environment assignments
type Bag struct {
	vars []Var
	// inherit keeps reserved names from the parent environment
	inherit bool
}

// Vars returns the assignments in order
func (b Bag) Vars() []Var {
	out := make([]Var, len(b.vars))
	copy(out, b.vars)
	return out
}

// Names returns the variable names in order
func (b Bag) Names() []string {
	names := make([]string, 0, len(b.vars))
	for _, v := range b.vars {
		names = append(names, v.Name)
	}
	return names
}

// Get returns the value for name
func (b Bag) Get(name string) (string, bool) {
	for _, v := range b.vars {
		if v.Name == name {
			return v.Value, true
		}
	}
	return "", false
}

// Len returns the number of assignments
func (b Bag) Len() int {
	return len(b.vars)
}

// Environ formats the bag as NAME=value strings
func (b Bag) Environ() []string {
	out := make([]string, 0, len(b.vars))
	for _, v := range b.vars {
		out = append(out, v.Name+"="+v.Value)
	}
	return out
}

func (b *Bag) setString(name string, value *string) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return
	}
	b.vars = append(b.vars, Var{Name: name, Value: *value})
}

func (b *Bag) setUint(name string, value *uint32) {
	if value == nil {
		return
	}
	b.vars = append(b.vars, Var{Name: name, Value: strconv.FormatUint(uint64(*value), 10)})
}

// Materialize returns the variables implied by p. Token and URL are always
// present; optional fields only when set (strings must be non-blank).
func Materialize(p models.Profile) Bag {
	b := Bag{vars: make([]Var, 0, len(reservedNames))}
	b.vars = append(b.vars,
		Var{Name: AuthToken, Value: p.Token},
		Var{Name: BaseURL, Value: p.URL},
	)
	b.setString(Model, p.Model)
	b.setString(SmallFastModel, p.SmallFastModel)
	b.setUint(MaxThinkingTokens, p.MaxThinkingTokens)
	b.setUint(APITimeoutMS, p.APITimeoutMS)
	b.setUint(DisableNonessentialTraffic, p.DisableNonessentialTraffic)
	b.setString(DefaultSonnetModel, p.DefaultSonnetModel)
	b.setString(DefaultOpusModel, p.DefaultOpusModel)
	b.setString(DefaultHaikuModel, p.DefaultHaikuModel)
	return b
}

// Official returns the empty bag used for the official/reset selection
func Official() Bag {
	return Bag{}
}

// Inherit returns an empty bag that leaves the parent environment as is,
// used when the assistant is started without switching profiles
func Inherit() Bag {
	return Bag{inherit: true}
}

// Inherits reports whether b keeps inherited reserved names
func (b Bag) Inherits() bool {
	return b.inherit
}

// Merge drops every reserved name from base (an os.Environ style slice) and
// appends the bag, so nothing inherited from the parent shell survives.
// An Inherit bag returns base unchanged.
func Merge(base []string, b Bag) []string {
	out := make([]string, 0, len(base)+b.Len())
	if b.inherit {
		return append(out, base...)
	}
	for _, kv := range base {
		name := kv
		if i := strings.IndexByte(kv, '='); i >= 0 {
			name = kv[:i]
		}
		if IsReserved(name) {
			continue
		}
		out = append(out, kv)
	}
	return append(out, b.Environ()...)
}

// FromVars builds a profile named alias from a NAME=value map such as the
// env section of an exported settings file. Unknown names are ignored.
func FromVars(alias string, vars map[string]string) (models.Profile, error) {
	p := models.Profile{
		AliasName: alias,
		Token:     strings.TrimSpace(vars[AuthToken]),
		URL:       strings.TrimSpace(vars[BaseURL]),
	}
	if p.Token == "" {
		return models.Profile{}, fmt.Errorf("%s is missing", AuthToken)
	}

	strs := []struct {
		name   string
		target **string
	}{
		{Model, &p.Model},
		{SmallFastModel, &p.SmallFastModel},
		{DefaultSonnetModel, &p.DefaultSonnetModel},
		{DefaultOpusModel, &p.DefaultOpusModel},
		{DefaultHaikuModel, &p.DefaultHaikuModel},
	}
	for _, s := range strs {
		if v := strings.TrimSpace(vars[s.name]); v != "" {
			*s.target = models.StringPtr(v)
		}
	}

	uints := []struct {
		name   string
		target **uint32
	}{
		{MaxThinkingTokens, &p.MaxThinkingTokens},
		{APITimeoutMS, &p.APITimeoutMS},
		{DisableNonessentialTraffic, &p.DisableNonessentialTraffic},
	}
	for _, u := range uints {
		v := strings.TrimSpace(vars[u.name])
		if v == "" {
			continue
		}
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return models.Profile{}, fmt.Errorf("invalid %s %q: %w", u.name, v, err)
		}
		*u.target = models.Uint32Ptr(uint32(n))
	}
	return p, nil
}
