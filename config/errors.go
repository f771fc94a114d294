package config

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when an alias has no stored profile
type NotFoundError struct {
	Alias string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Configuration '%s' not found", e.Alias)
}

// IsNotFound reports whether err is or wraps a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
