//go:build windows

package main

import (
	"errors"
	"fmt"
	"os/exec"

	"golang.org/x/sys/windows"
)

// executeCommand starts cmd as a detached process that is not attached to
// the current console. It runs with a fresh environment from the registry.
//
// Parameters:
//   - cmd: The executable to run and its arguments.
//
// Returns:
//   - int: The process ID of the started process.
//   - error: Non-nil if the environment cannot be read or the process fails to start.
func executeCommand(cmd []string) (int, error) {
	if len(cmd) == 0 {
		return 0, errors.New("command array is empty")
	}
	c := exec.Command(cmd[0], cmd[1:]...)
	c.SysProcAttr = &windows.SysProcAttr{
		CreationFlags: windows.DETACHED_PROCESS | windows.CREATE_NEW_PROCESS_GROUP,
	}

	env, err := getUserAndSystemEnv()
	if err != nil {
		return 0, fmt.Errorf("failed to get environment: %w", err)
	}
	c.Env = env

	if err := c.Start(); err != nil {
		return 0, fmt.Errorf("failed to start command %v : %w", cmd, err)
	}
	pid := c.Process.Pid
	_ = c.Process.Release()
	return pid, nil
}
