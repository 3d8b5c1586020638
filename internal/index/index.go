// Package index builds the declaration tables the resolver and scanner
// work from: an arena of container records addressed by ContainerID, with
// inheritance, mixin-application, and extension-target edges stored as
// indices, plus a table of top-level symbols.
//
// Units are indexed independently (BuildUnit) so the phase can run one
// worker per unit; Merge then joins the per-unit tables and resolves
// cross-unit name edges.
package index

import (
	"fmt"

	"github.com/debuggate/debuggate/findings"
	"github.com/debuggate/debuggate/ir"
)

// Marker reports whether an annotation string is the debug-only marker.
type Marker func(annotation string) bool

// ContainerID addresses a container in the merged arena.
type ContainerID int

// None is the ContainerID of top-level symbols and unresolved edges.
const None ContainerID = -1

// Member is an indexed declaration: a container member or, with Owner set
// to None, a top-level function or variable.
type Member struct {
	Name      string
	Kind      ir.MemberKind
	Static    bool
	TopLevel  bool
	Marked    bool // the declaration itself carries the marker
	Blanketed bool // a container-level marker covers this declaration
	Result    string
	Owner     ContainerID
	Pos       ir.Pos

	// Effective is the symbol's final debug-only status. It is written
	// exactly once, by the propagation resolver, and read-only afterwards.
	Effective bool
}

// KindWord names the member kind for diagnostics.
func (m *Member) KindWord() string {
	if m.TopLevel {
		if m.Kind == ir.KindField {
			return "top-level variable"
		}
		return "function"
	}
	if m.Static && m.Kind != ir.KindEnumValue {
		return "static " + m.Kind.String()
	}
	return m.Kind.String()
}

// Container is an indexed container declaration. Edge fields hold arena
// indices and are resolved during Merge; Broken marks containers whose
// resolution failed (missing base, inheritance cycle) so that references
// into them degrade to input errors instead of silently passing.
type Container struct {
	ID     ContainerID
	Kind   ir.ContainerKind
	Name   string
	Marked bool
	Pos    ir.Pos

	ExtendsName string
	WithNames   []string
	OnType      string

	Base   ContainerID
	Mixins []ContainerID

	Members []*Member
	Broken  bool
}

// Need distinguishes read-shaped from write-shaped member lookup. Calls
// and bound references are read-shaped.
type Need int

const (
	NeedRead Need = iota
	NeedWrite
)

func (n Need) matches(k ir.MemberKind) bool {
	switch n {
	case NeedWrite:
		return k == ir.KindField || k == ir.KindSetter
	default:
		return k != ir.KindSetter
	}
}

// UnitTable is the per-unit indexing product, merged later.
type UnitTable struct {
	Unit       string
	Containers []*Container
	TopLevel   []*Member
	Findings   []findings.Finding
}

func (ut *UnitTable) inputError(pos ir.Pos, symbol, format string, args ...any) {
	ut.Findings = append(ut.Findings, findings.Finding{
		Kind:    findings.InputError,
		Loc:     findings.Loc{Unit: pos.Unit, Line: pos.Line, Col: pos.Col},
		Symbol:  symbol,
		Message: fmt.Sprintf(format, args...),
	})
}

// operatorArity is the declared parameter count required for each operator
// covered by the desugaring table.
var operatorArity = map[string]int{
	"+":  1,
	"~":  0,
	"[]": 1,
}

// BuildUnit indexes one source unit. It never fails: structurally
// inconsistent declarations are reported as input errors and indexing
// continues.
func BuildUnit(u *ir.Unit, marked Marker) *UnitTable {
	ut := &UnitTable{Unit: u.Name}

	for _, decl := range u.Decls {
		switch d := decl.(type) {
		case *ir.Container:
			ut.Containers = append(ut.Containers, ut.buildContainer(d, marked))
		case *ir.Func:
			ut.TopLevel = append(ut.TopLevel, &Member{
				Name:     d.Name,
				Kind:     ir.KindMethod,
				TopLevel: true,
				Marked:   anyMarked(d.Annotations, marked),
				Result:   d.Result,
				Owner:    None,
				Pos:      d.Pos,
			})
		case *ir.Var:
			ut.TopLevel = append(ut.TopLevel, &Member{
				Name:     d.Name,
				Kind:     ir.KindField,
				TopLevel: true,
				Marked:   anyMarked(d.Annotations, marked),
				Result:   d.Type,
				Owner:    None,
				Pos:      d.Pos,
			})
		}
	}

	return ut
}

func (ut *UnitTable) buildContainer(d *ir.Container, marked Marker) *Container {
	c := &Container{
		Kind:        d.Kind,
		Name:        d.Name,
		Marked:      anyMarked(d.Annotations, marked),
		Pos:         d.Pos,
		ExtendsName: d.Extends,
		WithNames:   d.With,
		OnType:      d.OnType,
		Base:        None,
	}

	for _, md := range d.Members {
		m := &Member{
			Name:   md.Name,
			Kind:   md.Kind,
			Static: md.Static || md.Kind == ir.KindEnumValue,
			Marked: anyMarked(md.Annotations, marked),
			Result: md.Result,
			Pos:    md.Pos,
		}
		// Container-level marking blankets declarations textually inside
		// the container. Statics carry only their own marking; enum values
		// stay under the blanket.
		m.Blanketed = !md.Static || md.Kind == ir.KindEnumValue

		if md.Kind == ir.KindOperator {
			if want, known := operatorArity[md.Name]; known && md.Params != want {
				ut.inputError(md.Pos, d.Name+"."+md.Name,
					"operator %q declared with %d parameter(s), expected %d", md.Name, md.Params, want)
			}
		}
		c.Members = append(c.Members, m)
	}

	if d.Kind == ir.KindEnum {
		if values := synthesizeValues(d); values != nil {
			c.Members = append(c.Members, values)
		}
	}

	return c
}

// synthesizeValues builds the enum's values accessor unless the enum
// declares one of its own.
func synthesizeValues(d *ir.Container) *Member {
	for _, md := range d.Members {
		if md.Name == "values" {
			return nil
		}
	}
	return &Member{
		Name:      "values",
		Kind:      ir.KindGetter,
		Static:    true,
		Blanketed: true,
		Result:    "List<" + d.Name + ">",
		Pos:       d.Pos,
	}
}

func anyMarked(annotations []string, marked Marker) bool {
	for _, a := range annotations {
		if marked(a) {
			return true
		}
	}
	return false
}
