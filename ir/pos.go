package ir

import "fmt"

// Pos locates a declaration or expression within a source unit.
// Line and column are 1-based; a zero Pos means "unknown".
type Pos struct {
	Unit string
	Line int
	Col  int
}

// String renders the position as unit:line:col.
func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Unit, p.Line, p.Col)
}

// IsZero reports whether the position carries no location information.
func (p Pos) IsZero() bool {
	return p == Pos{}
}
