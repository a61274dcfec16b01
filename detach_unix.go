//go:build !windows

package main

import (
	"errors"
	"fmt"
	"os/exec"
	"syscall"
)

// executeCommand starts cmd in a new session so it outlives the daemon and
// does not receive its terminal signals.
//
// Parameters:
//   - cmd: The executable to run and its arguments.
//
// Returns:
//   - int: The process ID of the started process.
//   - error: Non-nil if the process fails to start.
func executeCommand(cmd []string) (int, error) {
	if len(cmd) == 0 {
		return 0, errors.New("command array is empty")
	}
	c := exec.Command(cmd[0], cmd[1:]...)
	c.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := c.Start(); err != nil {
		return 0, fmt.Errorf("failed to start command %v : %w", cmd, err)
	}
	pid := c.Process.Pid
	// Reap the child so it does not linger as a zombie.
	go c.Wait() //nolint:errcheck
	return pid, nil
}
