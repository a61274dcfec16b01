// Package dispatch resolves live key-down events against a binding trie.
//
// The engine keeps a cursor into the trie. A key that continues the
// current chord advances it; a key that does not is retried once from the
// root before the chord is dropped. There is no timeout: a parked cursor
// waits for the next key indefinitely.
package dispatch

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/tischda/chordkeys/internal/dom"
	"github.com/tischda/chordkeys/internal/hotkey"
	"github.com/tischda/chordkeys/internal/target"
	"github.com/tischda/chordkeys/internal/trie"
)

// result is the outcome of one step.
type result int

const (
	// notFound means the key matched nothing; the cursor is at root.
	notFound result = iota
	// incomplete means the key continued a chord that needs more keys.
	incomplete
	// found means the key completed a sequence.
	found
)

func (r result) String() string {
	switch r {
	case incomplete:
		return "incomplete"
	case found:
		return "found"
	default:
		return "not-found"
	}
}

// Activation describes a completed sequence.
type Activation struct {
	Sequence hotkey.Sequence
	Target   target.Target
}

// Engine is the dispatch state machine.
type Engine struct {
	mu       sync.Locker
	bindings *trie.Trie[target.Target]
	host     dom.Host
	log      zerolog.Logger
	onFire   func(Activation)

	cursor  *trie.Internal
	pending hotkey.Sequence
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for match tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithActivationHook registers fn to run after every activation.
func WithActivationHook(fn func(Activation)) Option {
	return func(e *Engine) { e.onFire = fn }
}

// New creates an engine over bindings. mu guards the trie and the cursor;
// pass the lock that also guards registration.
func New(bindings *trie.Trie[target.Target], host dom.Host, mu sync.Locker, opts ...Option) *Engine {
	e := &Engine{
		mu:       mu,
		bindings: bindings,
		host:     host,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.cursor = bindings.Root()
	return e
}

// Reset parks the cursor at the root. Caller must hold the lock.
func (e *Engine) Reset() {
	e.cursor = e.bindings.Root()
	e.pending = nil
}

// Revalidate re-walks the pending chord after the trie changed. The chord
// survives when its path still leads to an internal node; otherwise the
// cursor goes back to the root. Caller must hold the lock.
func (e *Engine) Revalidate() {
	node := e.bindings.Root()
	for _, tok := range e.pending {
		child, ok := node.Child(tok)
		in, internal := child.(*trie.Internal)
		if !ok || !internal {
			e.log.Debug().Stringer("pending", e.pending).Msg("chord removed, back to root")
			e.Reset()
			return
		}
		node = in
	}
	e.cursor = node
}

// Pending returns the tokens of the chord in progress. Caller must hold
// the lock.
func (e *Engine) Pending() hotkey.Sequence {
	return append(hotkey.Sequence(nil), e.pending...)
}

// HandleKeyDown processes one key-down event. Suppression happens before
// it returns.
func (e *Engine) HandleKeyDown(ev dom.KeyEvent) {
	tok, ok := hotkey.TokenFor(ev.KeyCode(), ev.Ctrl(), ev.Shift(), ev.Alt())
	if !ok {
		return
	}

	focused := dom.FocusedElement(e.host)
	if focused == nil {
		focused = ev.Target()
	}
	if !ev.Ctrl() && !ev.Alt() && dom.IsEditable(e.host, focused) {
		return
	}

	e.mu.Lock()
	res, act := e.step(tok)
	e.mu.Unlock()
	e.log.Trace().Stringer("key", tok).Stringer("result", res).Msg("key dispatched")

	switch res {
	case notFound:
		return
	case incomplete:
		ev.PreventDefault()
		return
	}

	// The lock is released: targets may call back into the registry.
	if !act.Target.Activate(e.host) {
		e.log.Debug().Stringer("sequence", act.Sequence).Stringer("target", act.Target).Msg("target inert")
		return
	}
	ev.PreventDefault()
	ev.StopPropagation()

	e.log.Debug().Stringer("sequence", act.Sequence).Stringer("target", act.Target).Msg("hotkey activated")
	if e.onFire != nil {
		e.onFire(act)
	}
}

func (e *Engine) step(tok hotkey.Token) (result, Activation) {
	// The root is replaced when the trie is reset.
	if len(e.pending) == 0 {
		e.cursor = e.bindings.Root()
	}

	child, ok := e.cursor.Child(tok)
	if !ok && len(e.pending) > 0 {
		e.log.Debug().Stringer("pending", e.pending).Stringer("key", tok).Msg("chord broken, retrying from root")
		e.Reset()
		child, ok = e.cursor.Child(tok)
	}
	if !ok {
		e.Reset()
		return notFound, Activation{}
	}

	seq := append(e.Pending(), tok)
	switch n := child.(type) {
	case *trie.Internal:
		e.cursor = n
		e.pending = seq
		return incomplete, Activation{}
	case *trie.Leaf[target.Target]:
		e.Reset()
		return found, Activation{Sequence: seq, Target: n.Value}
	}
	e.Reset()
	return notFound, Activation{}
}
