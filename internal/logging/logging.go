// Package logging wires charmbracelet/log for diagnostic output. User-facing
// results are printed by the commands themselves.
package logging

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

const prefix = "cc-switch"

var (
	mu      sync.RWMutex
	current = New(os.Stderr, false)
)

// New returns a logger writing to w. debug lowers the level from Warn to Debug.
func New(w io.Writer, debug bool) *log.Logger {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: prefix,
		Level:  level,
	})
}

// Default returns the process-wide logger
func Default() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// SetDefault replaces the process-wide logger
func SetDefault(l *log.Logger) {
	if l == nil {
		return
	}
	mu.Lock()
	current = l
	mu.Unlock()
}
