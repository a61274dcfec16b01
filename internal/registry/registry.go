// Package registry is the public surface of the hotkey core: it owns the
// binding trie, the dispatch engine and the key-down subscription.
//
// A Registry is safe for use from several goroutines. Registration and
// every dispatch step run under one mutex; targets are activated after the
// mutex is released, still inside the host's key-down callback.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tischda/chordkeys/internal/dispatch"
	"github.com/tischda/chordkeys/internal/dom"
	"github.com/tischda/chordkeys/internal/hotkey"
	"github.com/tischda/chordkeys/internal/target"
	"github.com/tischda/chordkeys/internal/trie"
)

// Errors returned by the registration API.
var (
	ErrInvalidHotkeySyntax = hotkey.ErrInvalidHotkeySyntax
	ErrShadowConflict      = trie.ErrShadowConflict
	ErrInvalidTargetKind   = target.ErrInvalidTargetKind
)

// Binding is one registered sequence and its target.
type Binding struct {
	Sequence hotkey.Sequence
	Target   target.Target
}

// Registry binds hotkeys to targets and dispatches host key events.
type Registry struct {
	mu       sync.Mutex
	host     dom.Host
	bindings *trie.Trie[target.Target]
	engine   *dispatch.Engine
	sub      dom.Subscription

	attr       string
	log        zerolog.Logger
	engineOpts []dispatch.Option
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used by the registry and its engine.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Registry) {
		r.log = l
		r.engineOpts = append(r.engineOpts, dispatch.WithLogger(l))
	}
}

// WithAttribute overrides the declarative attribute scanned by ProcessAll.
func WithAttribute(name string) Option {
	return func(r *Registry) { r.attr = name }
}

// WithActivationHook registers fn to run after each activation.
func WithActivationHook(fn func(dispatch.Activation)) Option {
	return func(r *Registry) {
		r.engineOpts = append(r.engineOpts, dispatch.WithActivationHook(fn))
	}
}

// New creates a disabled registry bound to host.
func New(host dom.Host, opts ...Option) *Registry {
	r := &Registry{
		host:     host,
		bindings: trie.New(target.Same),
		attr:     dom.HotkeyAttribute,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.engine = dispatch.New(r.bindings, host, &r.mu, r.engineOpts...)
	return r
}

// Add parses text, which may list alternatives separated by '|', and
// binds every sequence to v. v is a *target.Action, a func(), a target.Target or a
// dom.Element. Either all alternatives are bound or none is.
func (r *Registry) Add(text string, v any) error {
	seqs, err := hotkey.ParseAlternatives(text)
	if err != nil {
		return err
	}
	t, err := target.Resolve(r.host, v)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, seq := range seqs {
		if err := r.bindings.Insert(seq, t); err != nil {
			for _, done := range seqs[:i] {
				r.bindings.RemoveOne(done, t)
			}
			return err
		}
	}
	for _, seq := range seqs {
		r.log.Debug().Stringer("sequence", seq).Stringer("target", t).Msg("hotkey bound")
	}
	return nil
}

// Remove unbinds the sequences of text from v. Empty text removes every
// binding of v. It reports whether anything was removed.
func (r *Registry) Remove(text string, v any) (bool, error) {
	if text == "" {
		return r.RemoveAll(v)
	}
	seqs, err := hotkey.ParseAlternatives(text)
	if err != nil {
		return false, err
	}
	t, err := target.Resolve(r.host, v)
	if err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := false
	for _, seq := range seqs {
		if r.bindings.RemoveOne(seq, t) {
			removed = true
		}
	}
	if removed {
		r.engine.Revalidate()
	}
	return removed, nil
}

// RemoveAll unbinds every sequence bound to v.
func (r *Registry) RemoveAll(v any) (bool, error) {
	t, err := target.Resolve(r.host, v)
	if err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := r.bindings.RemoveAll(t)
	if removed {
		r.engine.Revalidate()
	}
	return removed, nil
}

// ProcessAll binds every element carrying the hotkey attribute. With
// removeAttribute set, the attribute is stripped from elements that were
// bound. Failing elements are skipped and their errors returned joined.
func (r *Registry) ProcessAll(removeAttribute bool) error {
	var errs []error
	for _, el := range r.host.QueryAll(r.attr) {
		text, ok := r.host.Attribute(el, r.attr)
		if !ok {
			continue
		}
		if err := r.Add(text, el); err != nil {
			errs = append(errs, fmt.Errorf("<%s %s=%q>: %w", el.Tag(), r.attr, text, err))
			continue
		}
		if removeAttribute {
			r.host.RemoveAttribute(el, r.attr)
		}
	}
	return errors.Join(errs...)
}

// ProcessAllDefault is ProcessAll(true).
func (r *Registry) ProcessAllDefault() error {
	return r.ProcessAll(true)
}

// Enable subscribes to host key-down events. It does nothing when
// already enabled.
func (r *Registry) Enable() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sub != nil {
		return
	}
	r.engine.Reset()
	r.sub = r.host.SubscribeKeyDown(r.engine.HandleKeyDown)
	r.log.Debug().Msg("hotkeys enabled")
}

// Disable cancels the key-down subscription. It does nothing when
// already disabled.
func (r *Registry) Disable() {
	r.mu.Lock()
	sub := r.sub
	r.sub = nil
	r.mu.Unlock()

	if sub == nil {
		return
	}
	sub.Cancel()
	r.log.Debug().Msg("hotkeys disabled")
}

// Enabled reports whether the registry is listening.
func (r *Registry) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sub != nil
}

// Reset drops every binding and abandons any chord in progress. The
// subscription is left as it is.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bindings.Reset()
	r.engine.Reset()
}

// Dispose disables the registry and drops every binding.
func (r *Registry) Dispose() {
	r.Disable()
	r.Reset()
}

// Bindings lists the registered sequences in canonical order.
func (r *Registry) Bindings() []Binding {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Binding, 0, r.bindings.Len())
	r.bindings.Walk(func(seq hotkey.Sequence, t target.Target) {
		out = append(out, Binding{Sequence: seq, Target: t})
	})
	return out
}

// Len returns the number of registered sequences.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bindings.Len()
}

// Pending returns the chord typed so far.
func (r *Registry) Pending() hotkey.Sequence {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engine.Pending()
}
