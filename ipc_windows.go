//go:build windows

package main

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/windows"
)

// hotkeysIPCPipeEnvVar carries the pipe path from the service to its agent.
const hotkeysIPCPipeEnvVar = "HOTKEYS_IPC_PIPE"

var (
	ipcMu     sync.Mutex
	ipcHandle windows.Handle
)

// ipcInitFromEnv connects to the named pipe given by HOTKEYS_IPC_PIPE, if any.
// The agent started by the service reports activations through it.
func ipcInitFromEnv() {
	pipePath := os.Getenv(hotkeysIPCPipeEnvVar)
	if pipePath == "" {
		return
	}

	p, err := windows.UTF16PtrFromString(pipePath)
	if err != nil {
		logger.Warn().Err(err).Msg("ipc: invalid pipe path")
		return
	}
	h, err := windows.CreateFile(p, windows.GENERIC_WRITE, 0, nil, windows.OPEN_EXISTING, 0, 0)
	if err != nil {
		logger.Warn().Err(err).Str("pipe", pipePath).Msg("ipc: connect failed")
		return
	}

	ipcMu.Lock()
	ipcHandle = h
	ipcMu.Unlock()
	logger.Info().Str("pipe", pipePath).Msg("ipc: connected")
}

// ipcSendf writes one formatted line to the service pipe if connected.
func ipcSendf(format string, args ...any) {
	ipcMu.Lock()
	defer ipcMu.Unlock()
	if ipcHandle == 0 {
		return
	}

	b := fmt.Appendf(nil, format+"\n", args...)
	var n uint32
	if err := windows.WriteFile(ipcHandle, b, &n, nil); err != nil {
		logger.Warn().Err(err).Msg("ipc: write failed")
	}
}

// ipcClose closes the pipe connection, if any.
func ipcClose() {
	ipcMu.Lock()
	h := ipcHandle
	ipcHandle = 0
	ipcMu.Unlock()

	if h != 0 {
		_ = windows.CloseHandle(h)
	}
}
