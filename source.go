package main

import (
	"context"
	"fmt"
)

// keySource delivers key presses to the daemon until ctx is done.
type keySource interface {
	Run(ctx context.Context, d *daemon) error
}

// newKeySource returns the source named kind: "hook" for the system-wide
// keyboard hook, "terminal" for the interactive terminal.
func newKeySource(kind string) (keySource, error) {
	switch kind {
	case "terminal":
		return newTerminalSource(), nil
	case "hook":
		return newHookSource()
	}
	return nil, fmt.Errorf("unknown key source %q (want hook or terminal)", kind)
}
