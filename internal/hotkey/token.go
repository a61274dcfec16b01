package hotkey

import "strings"

// Modifier is a bitmask of the modifier keys held with a combination.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModShift
	ModAlt
)

// ModNone is the empty modifier set.
const ModNone Modifier = 0

// modifierOrder is the only order modifiers may be written in.
var modifierOrder = []struct {
	mod  Modifier
	name string
}{
	{ModCtrl, "CTRL"},
	{ModShift, "SHIFT"},
	{ModAlt, "ALT"},
}

// Has reports whether all modifiers in m are set.
func (m Modifier) Has(other Modifier) bool {
	return m&other == other
}

// String returns the canonical prefix for m, e.g. "CTRL+ALT+".
func (m Modifier) String() string {
	var b strings.Builder
	for _, o := range modifierOrder {
		if m.Has(o.mod) {
			b.WriteString(o.name)
			b.WriteByte(ComboSep)
		}
	}
	return b.String()
}

// Token is one canonical combination: modifiers plus a key identifier.
// Tokens are comparable and serve directly as map keys.
type Token struct {
	Mods Modifier
	Key  string
}

// String returns the canonical form, e.g. "CTRL+SHIFT+ENTER".
func (t Token) String() string {
	return t.Mods.String() + t.Key
}

// Sequence is an ordered, non-empty list of tokens typed one after another.
type Sequence []Token

// String returns the canonical text, e.g. "G>I".
func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, t := range s {
		parts[i] = t.String()
	}
	return strings.Join(parts, string(StepSep))
}

// Equal reports whether both sequences hold the same tokens.
func (s Sequence) Equal(other Sequence) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is a (non-strict) prefix of s.
func (s Sequence) HasPrefix(prefix Sequence) bool {
	return len(prefix) <= len(s) && s[:len(prefix)].Equal(prefix)
}
