//go:build linux || darwin || freebsd || netbsd || openbsd

package sys

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Detach releases the controlling terminal and moves the process into
// its own process group.
func Detach() error {
	if err := unix.IoctlSetInt(0, unix.TIOCNOTTY, 0); err != nil {
		return fmt.Errorf("release controlling terminal: %w", err)
	}
	if err := unix.Setpgid(0, 0); err != nil {
		return fmt.Errorf("set process group: %w", err)
	}
	return nil
}
