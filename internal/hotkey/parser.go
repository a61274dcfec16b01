package hotkey

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/tischda/chordkeys/internal/keyid"
)

// Separators of the hotkey grammar.
const (
	ComboSep       = '+'
	StepSep        = '>'
	AlternativeSep = '|'
)

// ErrInvalidHotkeySyntax is returned for any malformed hotkey text.
var ErrInvalidHotkeySyntax = errors.New("invalid hotkey syntax")

// Parse turns hotkey text such as "ctrl+k > c" into a canonical Sequence.
func Parse(raw string) (Sequence, error) {
	return parseNormalized(normalize(raw), raw)
}

// ParseAlternatives parses text holding one or more hotkeys separated by
// '|'. Every alternative must be valid.
func ParseAlternatives(raw string) ([]Sequence, error) {
	text := normalize(raw)
	var seqs []Sequence
	for alt := range strings.SplitSeq(text, string(AlternativeSep)) {
		seq, err := parseNormalized(alt, raw)
		if err != nil {
			return nil, err
		}
		seqs = append(seqs, seq)
	}
	return seqs, nil
}

// Compose builds a single-step sequence from separate modifier and key
// fields, accepting the modifiers in any order ("alt+ctrl", "shift").
func Compose(modifiers, key string) (Sequence, error) {
	var mods Modifier
	for p := range strings.SplitSeq(normalize(modifiers), string(ComboSep)) {
		if p == "" {
			continue
		}
		m, ok := modifierByName(p)
		if !ok {
			return nil, fmt.Errorf("%w: unknown modifier %q", ErrInvalidHotkeySyntax, p)
		}
		mods |= m
	}
	key = normalize(key)
	if !keyid.Valid(key) {
		return nil, fmt.Errorf("%w: unknown key %q", ErrInvalidHotkeySyntax, key)
	}
	return Sequence{{Mods: mods, Key: key}}, nil
}

// TokenFor builds the token of a live key event. ok is false when the code
// has no identifier.
func TokenFor(code int, ctrl, shift, alt bool) (Token, bool) {
	key, ok := keyid.Lookup(code)
	if !ok {
		return Token{}, false
	}
	var mods Modifier
	if ctrl {
		mods |= ModCtrl
	}
	if shift {
		mods |= ModShift
	}
	if alt {
		mods |= ModAlt
	}
	return Token{Mods: mods, Key: key}, true
}

func normalize(s string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s))
}

func parseNormalized(text, raw string) (Sequence, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty hotkey %q", ErrInvalidHotkeySyntax, raw)
	}
	var seq Sequence
	for step := range strings.SplitSeq(text, string(StepSep)) {
		tok, err := parseToken(step)
		if err != nil {
			return nil, fmt.Errorf("%w (in %q)", err, raw)
		}
		seq = append(seq, tok)
	}
	return seq, nil
}

// parseToken validates one combination against
// [CTRL+][SHIFT+][ALT+]KEYID.
func parseToken(step string) (Token, error) {
	if step == "" {
		return Token{}, fmt.Errorf("%w: empty combination", ErrInvalidHotkeySyntax)
	}
	parts := strings.Split(step, string(ComboSep))
	key := parts[len(parts)-1]

	var mods Modifier
	next := 0 // index into modifierOrder of the first modifier still allowed
	for _, p := range parts[:len(parts)-1] {
		i := modifierIndex(p)
		if i < 0 {
			return Token{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidHotkeySyntax, p, step)
		}
		if i < next {
			return Token{}, fmt.Errorf("%w: modifier %q repeated or out of order in %q", ErrInvalidHotkeySyntax, p, step)
		}
		mods |= modifierOrder[i].mod
		next = i + 1
	}

	if key == "" {
		return Token{}, fmt.Errorf("%w: missing key in %q", ErrInvalidHotkeySyntax, step)
	}
	if !keyid.Valid(key) {
		return Token{}, fmt.Errorf("%w: unknown key %q in %q", ErrInvalidHotkeySyntax, key, step)
	}
	return Token{Mods: mods, Key: key}, nil
}

func modifierIndex(name string) int {
	for i, o := range modifierOrder {
		if o.name == name {
			return i
		}
	}
	return -1
}

func modifierByName(name string) (Modifier, bool) {
	switch name {
	case "CTRL", "CONTROL":
		return ModCtrl, true
	case "SHIFT":
		return ModShift, true
	case "ALT":
		return ModAlt, true
	}
	return ModNone, false
}
