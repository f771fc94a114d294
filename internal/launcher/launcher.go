// Package launcher starts the assistant CLI with a profile's environment.
package launcher

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"ccswitch/config/environ"
	"ccswitch/internal/logging"
)

const (
	// Executable is the assistant binary looked up on PATH
	Executable = "claude"
	// SkipPermissionsFlag is always passed to the assistant
	SkipPermissionsFlag = "--dangerously-skip-permissions"
	// DefaultDelay leaves the confirmation on screen before the handover
	DefaultDelay = 500 * time.Millisecond
)

// Launcher hands the terminal over to the assistant
type Launcher interface {
	Launch(bag environ.Bag) error
}

// ExitError carries the assistant's exit status on platforms where it runs
// as a child process
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", Executable, e.Code)
}

// Exec launches the assistant, replacing the current process where the
// platform allows it
type Exec struct {
	Out        io.Writer
	Delay      time.Duration
	Executable string
	Args       []string
	// Environ returns the inherited environment; nil means os.Environ
	Environ func() []string
	// Sleep waits before launching; nil means time.Sleep
	Sleep func(time.Duration)
}

// New returns an Exec that runs `claude --dangerously-skip-permissions`
func New(out io.Writer) *Exec {
	return &Exec{
		Out:        out,
		Delay:      DefaultDelay,
		Executable: Executable,
		Args:       []string{SkipPermissionsFlag},
	}
}

// Launch prints the handover messages, waits Delay and starts the assistant
// with bag exported on top of the inherited environment. On unix it only
// returns on failure.
func (e *Exec) Launch(bag environ.Bag) error {
	out := e.Out
	if out == nil {
		out = os.Stdout
	}

	fmt.Fprintf(out, "Waiting %.1f seconds before launching Claude...\n", e.Delay.Seconds())
	sleep := e.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	sleep(e.Delay)
	fmt.Fprintln(out, "Launching Claude CLI...")

	name := e.Executable
	if name == "" {
		name = Executable
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("failed to find %s on PATH: %w", name, err)
	}

	base := os.Environ()
	if e.Environ != nil {
		base = e.Environ()
	}
	env := environ.Merge(base, bag)

	argv := append([]string{name}, e.Args...)
	logging.Default().Debug("launching", "path", path, "args", e.Args, "vars", bag.Names())
	return run(path, argv, env)
}
