package settings

import (
	"errors"
	"fmt"
	"strings"
)

// Source says where a conflicting variable was found
type Source int

const (
	ProcessEnv Source = iota
	SettingsFile
)

func (s Source) String() string {
	switch s {
	case ProcessEnv:
		return "process environment"
	case SettingsFile:
		return "settings file"
	default:
		return "unknown"
	}
}

// Conflict is a reserved variable that is already set somewhere
type Conflict struct {
	Name   string
	Source Source
}

// ConflictError is returned by a config-mode switch that found reserved
// variables already set. Nothing was written.
type ConflictError struct {
	Path      string
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cannot write %s in config mode: %d reserved variable(s) already set", e.Path, len(e.Conflicts))
	for _, c := range e.Conflicts {
		fmt.Fprintf(&b, "\n  - %s (%s)", c.Name, c.Source)
	}
	return b.String()
}

// IsConflict reports whether err is or wraps a ConflictError
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
