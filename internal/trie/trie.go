// Package trie stores hotkey sequences in a prefix tree whose leaves hold
// exactly one bound value.
//
// The tree is kept prefix-free: a completed sequence never continues, and
// an unfinished one never completes. Insert rejects anything that would
// break that rule instead of picking a winner.
package trie

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tischda/chordkeys/internal/hotkey"
)

// ErrShadowConflict is returned when a sequence would be unreachable or
// would make an existing sequence unreachable.
var ErrShadowConflict = errors.New("hotkey shadow conflict")

// Node is either an *Internal or a *Leaf.
type Node interface {
	node()
}

// Internal maps the next token of a sequence to the rest of the tree.
type Internal struct {
	children map[hotkey.Token]Node
}

// Leaf terminates a complete sequence.
type Leaf[T any] struct {
	Value T
}

func (*Internal) node() {}
func (*Leaf[T]) node()  {}

func newInternal() *Internal {
	return &Internal{children: make(map[hotkey.Token]Node)}
}

// Child returns the node reached from n by tok.
func (n *Internal) Child(tok hotkey.Token) (Node, bool) {
	child, ok := n.children[tok]
	return child, ok
}

// Len returns the number of outgoing edges.
func (n *Internal) Len() int {
	return len(n.children)
}

// Trie is a prefix tree of hotkey sequences.
type Trie[T any] struct {
	root *Internal
	same func(a, b T) bool
	size int
}

// New creates an empty trie. same decides whether two values are the same
// binding target when removing.
func New[T any](same func(a, b T) bool) *Trie[T] {
	return &Trie[T]{root: newInternal(), same: same}
}

// Root returns the root node. It is always internal, possibly empty.
func (t *Trie[T]) Root() *Internal {
	return t.root
}

// Len returns the number of stored sequences.
func (t *Trie[T]) Len() int {
	return t.size
}

// Reset drops every sequence.
func (t *Trie[T]) Reset() {
	t.root = newInternal()
	t.size = 0
}

// Insert binds v to seq. The trie is left untouched when an error is
// returned.
func (t *Trie[T]) Insert(seq hotkey.Sequence, v T) error {
	if len(seq) == 0 {
		return fmt.Errorf("%w: empty sequence", hotkey.ErrInvalidHotkeySyntax)
	}

	// Validate the whole path first so a conflict never leaves half a branch.
	node := t.root
	for i, tok := range seq {
		child, ok := node.children[tok]
		if !ok {
			break
		}
		last := i == len(seq)-1
		switch c := child.(type) {
		case *Leaf[T]:
			if last {
				return fmt.Errorf("%w: %s is already bound", ErrShadowConflict, seq)
			}
			return fmt.Errorf("%w: %s is shadowed by %s", ErrShadowConflict, seq, seq[:i+1])
		case *Internal:
			if last {
				return fmt.Errorf("%w: %s would shadow longer sequences starting with it", ErrShadowConflict, seq)
			}
			node = c
		}
	}

	node = t.root
	for _, tok := range seq[:len(seq)-1] {
		child, ok := node.children[tok]
		if !ok {
			child = newInternal()
			node.children[tok] = child
		}
		node = child.(*Internal)
	}
	node.children[seq[len(seq)-1]] = &Leaf[T]{Value: v}
	t.size++
	return nil
}

// Lookup returns the value bound to exactly seq.
func (t *Trie[T]) Lookup(seq hotkey.Sequence) (T, bool) {
	var zero T
	node := t.root
	for i, tok := range seq {
		child, ok := node.children[tok]
		if !ok {
			return zero, false
		}
		switch c := child.(type) {
		case *Leaf[T]:
			if i == len(seq)-1 {
				return c.Value, true
			}
			return zero, false
		case *Internal:
			node = c
		}
	}
	return zero, false
}

// RemoveOne removes the binding of seq if it holds v. Internal nodes left
// empty are pruned, the root excepted.
func (t *Trie[T]) RemoveOne(seq hotkey.Sequence, v T) bool {
	if len(seq) == 0 {
		return false
	}
	if !t.removeAt(t.root, seq, v) {
		return false
	}
	t.size--
	return true
}

func (t *Trie[T]) removeAt(node *Internal, seq hotkey.Sequence, v T) bool {
	tok := seq[0]
	child, ok := node.children[tok]
	if !ok {
		return false
	}
	switch c := child.(type) {
	case *Leaf[T]:
		if len(seq) != 1 || !t.same(c.Value, v) {
			return false
		}
		delete(node.children, tok)
		return true
	case *Internal:
		if len(seq) == 1 || !t.removeAt(c, seq[1:], v) {
			return false
		}
		if len(c.children) == 0 {
			delete(node.children, tok)
		}
		return true
	}
	return false
}

// RemoveAll removes every binding holding v and prunes emptied branches.
func (t *Trie[T]) RemoveAll(v T) bool {
	n := t.removeAllUnder(t.root, v)
	t.size -= n
	return n > 0
}

func (t *Trie[T]) removeAllUnder(node *Internal, v T) int {
	removed := 0
	for tok, child := range node.children {
		switch c := child.(type) {
		case *Leaf[T]:
			if t.same(c.Value, v) {
				delete(node.children, tok)
				removed++
			}
		case *Internal:
			removed += t.removeAllUnder(c, v)
			if len(c.children) == 0 {
				delete(node.children, tok)
			}
		}
	}
	return removed
}

// Walk calls fn for every stored sequence in canonical token order.
func (t *Trie[T]) Walk(fn func(seq hotkey.Sequence, v T)) {
	walk(t.root, nil, fn)
}

func walk[T any](node *Internal, prefix hotkey.Sequence, fn func(hotkey.Sequence, T)) {
	toks := make([]hotkey.Token, 0, len(node.children))
	for tok := range node.children {
		toks = append(toks, tok)
	}
	sort.Slice(toks, func(i, j int) bool {
		return toks[i].String() < toks[j].String()
	})
	for _, tok := range toks {
		seq := append(prefix[:len(prefix):len(prefix)], tok)
		switch c := node.children[tok].(type) {
		case *Leaf[T]:
			fn(seq, c.Value)
		case *Internal:
			walk(c, seq, fn)
		}
	}
}
