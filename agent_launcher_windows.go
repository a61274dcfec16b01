//go:build windows

package main

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

// A service runs in session 0 and cannot see the keyboard of the logged-in
// user. It starts a copy of this executable in the active console session
// instead, which installs the keyboard hook there and reports back over a
// named pipe.

// launchAgentInActiveSession starts `run --source hook` in the active
// interactive session with the user's environment plus the pipe path.
//
// Parameters:
//   - s: Settings forwarded to the agent (binding file, logging).
//   - pipePath: Named pipe the agent reports to; empty for none.
//
// Returns:
//   - *windows.ProcessInformation: Handles and IDs of the agent process.
//   - error: Non-nil if no interactive session is available or process creation fails.
func launchAgentInActiveSession(s Settings, pipePath string) (*windows.ProcessInformation, error) {
	sessionID := windows.WTSGetActiveConsoleSessionId()
	if sessionID == 0xFFFFFFFF {
		return nil, errors.New("no active console session")
	}

	exePath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("executable: %w", err)
	}

	primary, err := primaryTokenForSession(sessionID)
	if err != nil {
		return nil, err
	}
	defer primary.Close() //nolint:errcheck

	env, err := primary.Environ(false)
	if err != nil {
		return nil, fmt.Errorf("token environ: %w", err)
	}
	if pipePath != "" {
		env = append(env, hotkeysIPCPipeEnvVar+"="+pipePath)
	}
	slices.Sort(env)
	envBlock, err := encodeEnvBlock(env)
	if err != nil {
		return nil, fmt.Errorf("encode env: %w", err)
	}

	cmdLine := windows.ComposeCommandLine(append([]string{exePath}, agentArgs(s)...))
	cmdPtr, err := windows.UTF16PtrFromString(cmdLine)
	if err != nil {
		return nil, fmt.Errorf("command line utf16: %w", err)
	}
	appPtr, err := windows.UTF16PtrFromString(exePath)
	if err != nil {
		return nil, fmt.Errorf("app utf16: %w", err)
	}

	// The hook needs the interactive desktop of the session.
	desktopPtr, err := windows.UTF16PtrFromString(`winsta0\default`)
	if err != nil {
		return nil, fmt.Errorf("desktop utf16: %w", err)
	}
	si := windows.StartupInfo{Desktop: desktopPtr}
	si.Cb = uint32(unsafe.Sizeof(si))

	var pi windows.ProcessInformation
	flags := uint32(windows.CREATE_UNICODE_ENVIRONMENT | windows.CREATE_NO_WINDOW)
	if err := windows.CreateProcessAsUser(primary, appPtr, cmdPtr, nil, nil, false, flags, &envBlock[0], nil, &si, &pi); err != nil {
		return nil, fmt.Errorf("CreateProcessAsUser: %w", err)
	}
	return &pi, nil
}

// agentArgs is the command line of the agent, without the executable.
func agentArgs(s Settings) []string {
	args := []string{"run", "--source", "hook", "--file", s.File}
	if s.LogFile != "" {
		args = append(args, "--log-file", agentLogPath(s.LogFile))
	}
	if s.LogLevel != "" {
		args = append(args, "--log-level", s.LogLevel)
	}
	return args
}

// agentLogPath derives the agent log file from the service log file, so
// both processes never append to the same file.
func agentLogPath(serviceLog string) string {
	ext := ""
	if i := strings.LastIndexByte(serviceLog, '.'); i > strings.LastIndexAny(serviceLog, `\/`) {
		ext = serviceLog[i:]
		serviceLog = serviceLog[:i]
	}
	return serviceLog + "-agent" + ext
}

// primaryTokenForSession returns a primary token of the user logged into
// sessionID. WTSQueryUserToken yields an impersonation token while
// CreateProcessAsUser needs a primary one.
func primaryTokenForSession(sessionID uint32) (windows.Token, error) {
	var token windows.Token
	if err := windows.WTSQueryUserToken(sessionID, &token); err != nil {
		return 0, fmt.Errorf("WTSQueryUserToken(session=%d): %w", sessionID, err)
	}
	defer token.Close() //nolint:errcheck

	var primary windows.Token
	if err := windows.DuplicateTokenEx(token, windows.MAXIMUM_ALLOWED, nil,
		windows.SecurityIdentification, windows.TokenPrimary, &primary); err != nil {
		return 0, fmt.Errorf("DuplicateTokenEx: %w", err)
	}
	return primary, nil
}

// encodeEnvBlock builds a UTF-16 environment block: NUL-terminated
// entries followed by an extra NUL.
func encodeEnvBlock(env []string) ([]uint16, error) {
	block := make([]uint16, 0, 1024)
	for _, e := range env {
		if e == "" {
			continue
		}
		if strings.IndexByte(e, 0) != -1 {
			return nil, errors.New("env contains NUL")
		}
		u, err := windows.UTF16FromString(e)
		if err != nil {
			return nil, err
		}
		block = append(block, u...)
	}
	return append(block, 0), nil
}
