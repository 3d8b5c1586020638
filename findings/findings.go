// Package findings defines the checker's output model: one Finding per
// detected problem, ordered deterministically so repeated runs over the
// same input produce byte-identical reports.
package findings

import (
	"fmt"
	"sort"
)

// Kind classifies a finding.
type Kind int

const (
	// Violation reports a debug-only symbol referenced outside a
	// debug-gated region.
	Violation Kind = iota
	// UnsafeOverride reports an override that drops the debug-only marker
	// declared on the overridden member of a base or applied mixin.
	UnsafeOverride
	// InputError reports malformed or unresolvable input: inheritance
	// cycles, bad operator arity, unresolved identifiers. Fatal to the
	// affected resolution only; the run continues.
	InputError
)

func (k Kind) String() string {
	switch k {
	case Violation:
		return "violation"
	case UnsafeOverride:
		return "unsafe-override"
	case InputError:
		return "input-error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Loc is a source location within a unit. Line and column are 1-based.
type Loc struct {
	Unit string
	Line int
	Col  int
}

func (l Loc) String() string {
	return fmt.Sprintf("%s:%d:%d", l.Unit, l.Line, l.Col)
}

// Finding is a single diagnostic. Symbol is the qualified name of the
// symbol involved ("Container.member", "Enum.value", or a bare top-level
// name); it may be empty for input errors with no resolved symbol.
type Finding struct {
	Kind    Kind
	Loc     Loc
	Symbol  string
	Message string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s: %s", f.Loc, f.Kind, f.Message)
}

// Sort orders findings by location, then symbol, kind, and message. The
// order is total over distinct findings, so it is stable under any input
// permutation.
func Sort(fs []Finding) {
	sort.SliceStable(fs, func(i, j int) bool {
		a, b := fs[i], fs[j]
		if a.Loc.Unit != b.Loc.Unit {
			return a.Loc.Unit < b.Loc.Unit
		}
		if a.Loc.Line != b.Loc.Line {
			return a.Loc.Line < b.Loc.Line
		}
		if a.Loc.Col != b.Loc.Col {
			return a.Loc.Col < b.Loc.Col
		}
		if a.Symbol != b.Symbol {
			return a.Symbol < b.Symbol
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Message < b.Message
	})
}

// Dedupe removes exact duplicates from a sorted slice in place and returns
// the shortened slice. Two findings at the same site with different access
// forms carry different messages and both survive.
func Dedupe(fs []Finding) []Finding {
	if len(fs) < 2 {
		return fs
	}
	out := fs[:1]
	for _, f := range fs[1:] {
		if f != out[len(out)-1] {
			out = append(out, f)
		}
	}
	return out
}
