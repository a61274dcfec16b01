//go:build !windows

package main

import "errors"

// defaultSource is the key source of the run command.
const defaultSource = "terminal"

func newHookSource() (keySource, error) {
	return nil, errors.New("the keyboard hook source is only available on windows")
}
