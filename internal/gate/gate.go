// Package gate classifies lexical contexts: it recognizes the debug-gated
// region — the literal zero-parameter bool-returning closure invoked
// immediately as the direct argument of a gating construct — and tracks a
// stack of context frames while the scanner walks a function body.
package gate

import "github.com/debuggate/debuggate/ir"

// FrameKind is the classification of one lexical frame.
type FrameKind int

const (
	Ordinary FrameKind = iota
	AssertGated
)

// Stack is the scanner's stack of lexical context frames, innermost last.
// A reference is exempt when any enclosing frame is assert-gated: code
// nested inside a gated closure is compiled out together with it.
type Stack struct {
	frames []FrameKind
	gated  int
}

// Push enters a frame.
func (s *Stack) Push(k FrameKind) {
	s.frames = append(s.frames, k)
	if k == AssertGated {
		s.gated++
	}
}

// Pop leaves the innermost frame.
func (s *Stack) Pop() {
	k := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	if k == AssertGated {
		s.gated--
	}
}

// Gated reports whether the current position is inside a debug-gated
// region.
func (s *Stack) Gated() bool {
	return s.gated > 0
}

// Classifier recognizes gating constructs by callee name.
type Classifier struct {
	gateNames map[string]bool
}

// NewClassifier builds a classifier for the given gate function names.
func NewClassifier(names []string) *Classifier {
	c := &Classifier{gateNames: make(map[string]bool, len(names))}
	for _, n := range names {
		c.gateNames[n] = true
	}
	return c
}

// IsGateName reports whether name is a configured gating construct. Gate
// names are constructs, not declared symbols, and never resolve.
func (c *Classifier) IsGateName(name string) bool {
	return c.gateNames[name]
}

// GatedClosure returns the closure opening a debug-gated region if call is
// a gating construct whose direct argument is a literal zero-parameter
// bool-returning closure invoked immediately. Anything else — a named
// function argument, a closure taking parameters, a closure passed without
// invoking it — yields no gate, and its contents stay ordinary.
func (c *Classifier) GatedClosure(call *ir.Call) (*ir.Closure, bool) {
	fun, ok := call.Fun.(*ir.Ident)
	if !ok || fun.Type != "" || !c.gateNames[fun.Name] {
		return nil, false
	}
	if len(call.Args) != 1 {
		return nil, false
	}
	iife, ok := call.Args[0].(*ir.Call)
	if !ok || len(iife.Args) != 0 {
		return nil, false
	}
	closure, ok := iife.Fun.(*ir.Closure)
	if !ok || len(closure.Params) != 0 || closure.Result != "bool" {
		return nil, false
	}
	return closure, true
}
