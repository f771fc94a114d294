package main

import (
	"errors"
	"fmt"
	"os"

	"ccswitch/cmd"
	"ccswitch/internal/launcher"
)

// Set by -ldflags at build time
var (
	version = ""
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)

	if err := cmd.Execute(); err != nil {
		var exitErr *launcher.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
