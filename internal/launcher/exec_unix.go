//go:build unix

package launcher

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func run(path string, argv, env []string) error {
	if err := unix.Exec(path, argv, env); err != nil {
		return fmt.Errorf("failed to exec %s: %w", path, err)
	}
	return nil
}
