package target

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tischda/chordkeys/internal/dom/memdom"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	d := memdom.New()
	field := d.Body().Append(d.CreateElement("input")).SetAttr("type", "email")
	button := d.Body().Append(d.CreateElement("button"))
	action := NewAction("save", func() {})

	got, err := Resolve(d, field)
	require.NoError(t, err)
	assert.IsType(t, Focus{}, got)

	got, err = Resolve(d, button)
	require.NoError(t, err)
	assert.IsType(t, Click{}, got)

	got, err = Resolve(d, action)
	require.NoError(t, err)
	assert.Same(t, action, got)

	got, err = Resolve(d, Click{El: field})
	require.NoError(t, err)
	assert.Equal(t, Click{El: field}, got, "explicit targets are kept as given")

	for _, bad := range []any{
		nil, "button", 42, (*Action)(nil), (func())(nil),
		(*memdom.Element)(nil), Focus{}, Click{}, Click{El: (*memdom.Element)(nil)},
	} {
		_, err := Resolve(d, bad)
		assert.ErrorIs(t, err, ErrInvalidTargetKind, "%T", bad)
	}
}

func TestResolveBareFunc(t *testing.T) {
	t.Parallel()

	d := memdom.New()
	calls := 0
	fn := func() { calls++ }

	got, err := Resolve(d, fn)
	require.NoError(t, err)
	require.IsType(t, &Action{}, got)
	assert.Equal(t, "action", got.String())
	assert.True(t, got.Activate(d))
	assert.Equal(t, 1, calls)

	again, err := Resolve(d, fn)
	require.NoError(t, err)
	assert.False(t, Same(got, again), "each resolve wraps the func anew")
}

func TestStringWithoutElement(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "focus <nil>", Focus{}.String())
	assert.Equal(t, "click <nil>", Click{El: (*memdom.Element)(nil)}.String())

	d := memdom.New()
	el := d.Body().Append(d.CreateElement("button"))
	assert.Equal(t, "click <button>", Click{El: el}.String())
}

func TestSame(t *testing.T) {
	t.Parallel()

	d := memdom.New()
	el := d.Body().Append(d.CreateElement("input"))
	a := NewAction("a", nil)
	b := NewAction("a", nil)

	assert.True(t, Same(a, a))
	assert.False(t, Same(a, b), "actions compare by pointer")
	assert.True(t, Same(Focus{El: el}, Click{El: el}), "variant does not matter")
	assert.False(t, Same(a, Click{El: el}))
}

func TestActivate(t *testing.T) {
	t.Parallel()

	d := memdom.New()
	field := d.Body().Append(d.CreateElement("textarea"))
	button := d.Body().Append(d.CreateElement("button"))
	clicks := 0
	button.OnClick(func(*memdom.Element) { clicks++ })

	calls := 0
	assert.True(t, NewAction("count", func() { calls++ }).Activate(d))
	assert.Equal(t, 1, calls)

	assert.True(t, Focus{El: field}.Activate(d))
	assert.Equal(t, field, d.Focused())

	assert.True(t, Click{El: button}.Activate(d))
	assert.Equal(t, 1, clicks)

	button.SetAttr("disabled", "")
	assert.False(t, Click{El: button}.Activate(d), "disabled elements are inert")
	assert.Equal(t, 1, clicks)
}
