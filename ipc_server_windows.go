//go:build windows

package main

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"golang.org/x/sys/windows"
)

const pipeBufferSize = 16 * 1024

// startIPCServer creates a named pipe that logs every message the agent
// sends. Only one agent connects.
//
// Returns:
//   - string: The full pipe path (e.g. \\.\pipe\chordkeys-123) to pass to the agent.
//   - func(): Closes the pipe.
//   - error: Non-nil if the pipe cannot be created.
func startIPCServer() (string, func(), error) {
	pipePath := fmt.Sprintf(`\\.\pipe\%s-%d-%d`, name, time.Now().UnixNano(), rand.Uint32())

	p, err := windows.UTF16PtrFromString(pipePath)
	if err != nil {
		return "", nil, err
	}
	h, err := windows.CreateNamedPipe(
		p,
		windows.PIPE_ACCESS_INBOUND,
		windows.PIPE_TYPE_MESSAGE|windows.PIPE_READMODE_MESSAGE|windows.PIPE_WAIT,
		1,
		pipeBufferSize,
		pipeBufferSize,
		0,
		nil,
	)
	if err != nil {
		return "", nil, err
	}

	stop := func() {
		_ = windows.CloseHandle(h)
	}

	go func() {
		// The client may connect between CreateNamedPipe and ConnectNamedPipe.
		if err := windows.ConnectNamedPipe(h, nil); err != nil && err != windows.ERROR_PIPE_CONNECTED {
			logger.Warn().Err(err).Msg("ipc: accept failed")
			return
		}

		buf := make([]byte, pipeBufferSize)
		for {
			var n uint32
			if err := windows.ReadFile(h, buf, &n, nil); err != nil {
				return
			}
			for line := range strings.SplitSeq(strings.TrimSpace(string(buf[:n])), "\n") {
				if line != "" {
					logger.Info().Str("agent", line).Msg("Agent report")
				}
			}
		}
	}()

	return pipePath, stop, nil
}
