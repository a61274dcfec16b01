package hotkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"a", "A"},
		{"esc", "ESC"},
		{"ctrl+enter", "CTRL+ENTER"},
		{"Ctrl + Shift + Alt + F5", "CTRL+SHIFT+ALT+F5"},
		{"shift+alt+b", "SHIFT+ALT+B"},
		{"g>i", "G>I"},
		{" g > i ", "G>I"},
		{"ctrl+k>ctrl+c", "CTRL+K>CTRL+C"},
		{"CTRL+ALT+B", "CTRL+ALT+B"},
	}
	for _, tt := range tests {
		seq, err := Parse(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, seq.String(), tt.raw)
	}
}

func TestParseTokens(t *testing.T) {
	t.Parallel()

	seq, err := Parse("ctrl+shift+k > x")
	require.NoError(t, err)
	require.Len(t, seq, 2)
	assert.Equal(t, Token{Mods: ModCtrl | ModShift, Key: "K"}, seq[0])
	assert.Equal(t, Token{Mods: ModNone, Key: "X"}, seq[1])
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"",
		"   ",
		"alt+ctrl+b",
		"shift+ctrl+a",
		"alt+shift+a",
		"ctrl+ctrl+a",
		"ctrl+",
		"ctrl",
		"ctrl+shift",
		"meta+a",
		"escape",
		"a>",
		">a",
		"a>>b",
		"a+b",
		"ctrl+a|b",
	} {
		_, err := Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidHotkeySyntax, "%q", raw)
	}
}

func TestParseModifierOrder(t *testing.T) {
	t.Parallel()

	_, err := Parse("ALT+CTRL+B")
	require.ErrorIs(t, err, ErrInvalidHotkeySyntax)

	_, err = Parse("CTRL+ALT+B")
	require.NoError(t, err)
}

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"a", "ctrl + shift + tab", "g>i", "ctrl+k > shift+alt+f12 > 0", "space"} {
		first, err := Parse(raw)
		require.NoError(t, err)
		second, err := Parse(first.String())
		require.NoError(t, err)
		assert.True(t, first.Equal(second), "%q -> %q -> %q", raw, first, second)
		assert.Equal(t, first.String(), second.String())
	}
}

func TestParseAlternatives(t *testing.T) {
	t.Parallel()

	seqs, err := ParseAlternatives("ctrl+enter | alt+s")
	require.NoError(t, err)
	require.Len(t, seqs, 2)
	assert.Equal(t, "CTRL+ENTER", seqs[0].String())
	assert.Equal(t, "ALT+S", seqs[1].String())

	seqs, err = ParseAlternatives("g > i")
	require.NoError(t, err)
	require.Len(t, seqs, 1)

	for _, raw := range []string{"", "a|", "|a", "a||b", "a|alt+ctrl+b"} {
		_, err := ParseAlternatives(raw)
		assert.ErrorIs(t, err, ErrInvalidHotkeySyntax, "%q", raw)
	}
}

func TestCompose(t *testing.T) {
	t.Parallel()

	seq, err := Compose("alt+ctrl", "a")
	require.NoError(t, err)
	assert.Equal(t, "CTRL+ALT+A", seq.String())

	seq, err = Compose("", "f1")
	require.NoError(t, err)
	assert.Equal(t, "F1", seq.String())

	_, err = Compose("super", "a")
	assert.ErrorIs(t, err, ErrInvalidHotkeySyntax)

	_, err = Compose("ctrl", "definitely-not-a-key")
	assert.ErrorIs(t, err, ErrInvalidHotkeySyntax)
}

func TestTokenFor(t *testing.T) {
	t.Parallel()

	tok, ok := TokenFor(0x0D, true, false, true)
	require.True(t, ok)
	assert.Equal(t, "CTRL+ALT+ENTER", tok.String())

	tok, ok = TokenFor('S', false, true, false)
	require.True(t, ok)
	assert.Equal(t, "SHIFT+S", tok.String())

	_, ok = TokenFor(0x11, true, false, false)
	assert.False(t, ok)
}

func TestSequenceHasPrefix(t *testing.T) {
	t.Parallel()

	long, err := Parse("a>b>c")
	require.NoError(t, err)
	short, err := Parse("a>b")
	require.NoError(t, err)
	other, err := Parse("a>c")
	require.NoError(t, err)

	assert.True(t, long.HasPrefix(short))
	assert.True(t, long.HasPrefix(long))
	assert.False(t, short.HasPrefix(long))
	assert.False(t, long.HasPrefix(other))
}
