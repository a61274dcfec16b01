// Package keyid maps low-level key codes to canonical key identifiers.
//
// Codes follow the DOM keyCode numbering, which matches the Windows
// virtual-key codes for every entry in the table.
package keyid

import "sort"

var byCode = map[int]string{
	0x08: "BACKSPACE",
	0x09: "TAB",
	0x0D: "ENTER",
	0x13: "PAUSE",
	0x14: "CAPSLOCK",
	0x1B: "ESC",
	0x20: "SPACE",
	0x21: "PAGEUP",
	0x22: "PAGEDOWN",
	0x23: "END",
	0x24: "HOME",
	0x25: "LEFT",
	0x26: "UP",
	0x27: "RIGHT",
	0x28: "DOWN",
	0x2D: "INSERT",
	0x2E: "DELETE",
	0x6A: "MULTIPLY",
	0x6B: "ADD",
	0x6D: "SUBTRACT",
	0x6E: "DECIMAL",
	0x6F: "DIVIDE",
	0xBA: "SEMICOLON",
	0xBB: "EQUALS",
	0xBC: "COMMA",
	0xBD: "MINUS",
	0xBE: "PERIOD",
	0xBF: "SLASH",
	0xC0: "BACKQUOTE",
	0xDB: "OPENBRACKET",
	0xDC: "BACKSLASH",
	0xDD: "CLOSEBRACKET",
	0xDE: "QUOTE",
}

var byName map[string]int

func init() {
	for c := '0'; c <= '9'; c++ {
		byCode[int(c)] = string(c)
		byCode[0x60+int(c-'0')] = "NUMPAD" + string(c)
	}
	for c := 'A'; c <= 'Z'; c++ {
		byCode[int(c)] = string(c)
	}
	for i := 1; i <= 12; i++ {
		byCode[0x6F+i] = fkey(i)
	}

	byName = make(map[string]int, len(byCode))
	for code, name := range byCode {
		byName[name] = code
	}
}

func fkey(i int) string {
	if i < 10 {
		return "F" + string(rune('0'+i))
	}
	return "F1" + string(rune('0'+i-10))
}

// Lookup returns the canonical identifier for a key code.
func Lookup(code int) (string, bool) {
	name, ok := byCode[code]
	return name, ok
}

// Code returns the key code for a canonical identifier.
// The identifier must already be upper-case.
func Code(name string) (int, bool) {
	code, ok := byName[name]
	return code, ok
}

// Valid reports whether name is a canonical identifier.
func Valid(name string) bool {
	_, ok := byName[name]
	return ok
}

// Names returns every canonical identifier, sorted.
func Names() []string {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
