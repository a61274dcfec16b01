// Package hotkey parses textual hotkeys into canonical combination tokens.
//
// A hotkey is one or more combinations separated by '>' and pressed one
// after another:
//
//	ctrl+k > ctrl+c
//	g > i
//
// A combination is an optional CTRL+, SHIFT+ and ALT+ prefix, in that
// order, followed by exactly one key identifier from package keyid.
// Several equivalent hotkeys can be listed with '|':
//
//	ctrl+enter | alt+s
//
// Whitespace is ignored and input is case-insensitive.
package hotkey
