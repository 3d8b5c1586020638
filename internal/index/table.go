package index

import (
	"fmt"

	"github.com/debuggate/debuggate/findings"
	"github.com/debuggate/debuggate/ir"
)

// Table is the merged, whole-run declaration index. After Merge returns it
// is read-only except for the Effective bits the propagation resolver
// writes; the parallel scan phase shares it without synchronization.
type Table struct {
	Containers []*Container
	TopLevel   map[string]*Member

	// Extensions maps an extension target type name to the extensions
	// declared on it, in merge order.
	Extensions map[string][]ContainerID

	Findings []findings.Finding

	byName map[string]ContainerID
}

// Merge joins per-unit tables into one arena and resolves name edges to
// container indices. Callers must pass unit tables in a deterministic
// order; duplicate names and unresolvable edges become input errors.
func Merge(units []*UnitTable) *Table {
	t := &Table{
		TopLevel:   make(map[string]*Member),
		Extensions: make(map[string][]ContainerID),
		byName:     make(map[string]ContainerID),
	}

	for _, ut := range units {
		t.Findings = append(t.Findings, ut.Findings...)

		for _, c := range ut.Containers {
			if prev, dup := t.byName[c.Name]; dup {
				t.inputError(c.Pos, c.Name, "%s %q redeclared (first declaration at %s)",
					c.Kind, c.Name, t.Containers[prev].Pos)
				continue
			}
			c.ID = ContainerID(len(t.Containers))
			for _, m := range c.Members {
				m.Owner = c.ID
			}
			t.byName[c.Name] = c.ID
			t.Containers = append(t.Containers, c)
		}

		for _, m := range ut.TopLevel {
			if prev, dup := t.TopLevel[m.Name]; dup {
				t.inputError(m.Pos, m.Name, "%q redeclared (first declaration at %s)", m.Name, prev.Pos)
				continue
			}
			t.TopLevel[m.Name] = m
		}
	}

	t.resolveEdges()
	return t
}

func (t *Table) resolveEdges() {
	for _, c := range t.Containers {
		if c.ExtendsName != "" {
			base, ok := t.byName[c.ExtendsName]
			if !ok {
				t.inputError(c.Pos, c.Name, "%s %q extends unknown container %q", c.Kind, c.Name, c.ExtendsName)
				c.Broken = true
			} else {
				c.Base = base
			}
		}
		for _, name := range c.WithNames {
			mixin, ok := t.byName[name]
			if !ok {
				t.inputError(c.Pos, c.Name, "%s %q applies unknown mixin %q", c.Kind, c.Name, name)
				c.Broken = true
				continue
			}
			c.Mixins = append(c.Mixins, mixin)
		}
		if c.Kind == ir.KindExtension && c.OnType != "" {
			t.Extensions[c.OnType] = append(t.Extensions[c.OnType], c.ID)
		}
	}
}

// ContainerByName looks a container up by its declared name.
func (t *Table) ContainerByName(name string) (*Container, bool) {
	id, ok := t.byName[name]
	if !ok {
		return nil, false
	}
	return t.Containers[id], true
}

// SymbolName is the qualified name used in findings.
func (t *Table) SymbolName(m *Member) string {
	if m.Owner == None {
		return m.Name
	}
	return t.Containers[m.Owner].Name + "." + m.Name
}

// ResolveInstance resolves an instance member on c, following the member
// lookup order: own declarations, then applied mixins from last to first,
// then the base chain. The second result is false when the search crossed
// a broken container without finding the member; callers report those
// conservatively instead of passing them.
func (t *Table) ResolveInstance(c *Container, name string, need Need) (*Member, bool) {
	visited := make(map[ContainerID]bool)
	return t.resolveInstance(c, name, need, visited)
}

func (t *Table) resolveInstance(c *Container, name string, need Need, visited map[ContainerID]bool) (*Member, bool) {
	if visited[c.ID] {
		return nil, false
	}
	visited[c.ID] = true

	for _, m := range c.Members {
		if !m.Static && m.Name == name && need.matches(m.Kind) {
			return m, true
		}
	}
	for i := len(c.Mixins) - 1; i >= 0; i-- {
		if m, complete := t.resolveInstance(t.Containers[c.Mixins[i]], name, need, visited); m != nil {
			return m, true
		} else if !complete {
			return nil, false
		}
	}
	if c.Base != None {
		if m, complete := t.resolveInstance(t.Containers[c.Base], name, need, visited); m != nil {
			return m, true
		} else if !complete {
			return nil, false
		}
	}
	return nil, !c.Broken
}

// ResolveExtension resolves a member injected onto typeName by an
// extension. Extensions apply only when the type itself has no instance
// member of that name; callers try ResolveInstance first.
func (t *Table) ResolveExtension(typeName, name string, need Need) *Member {
	for _, id := range t.Extensions[typeName] {
		for _, m := range t.Containers[id].Members {
			if m.Name == name && need.matches(m.Kind) {
				return m
			}
		}
	}
	return nil
}

// ResolveStatic resolves Container.member access: static members, enum
// values, and the synthesized values accessor. Statics do not inherit.
func (t *Table) ResolveStatic(c *Container, name string, need Need) *Member {
	for _, m := range c.Members {
		if m.Static && m.Name == name && need.matches(m.Kind) {
			return m
		}
	}
	return nil
}

func (t *Table) inputError(pos ir.Pos, symbol, format string, args ...any) {
	t.Findings = append(t.Findings, findings.Finding{
		Kind:    findings.InputError,
		Loc:     findings.Loc{Unit: pos.Unit, Line: pos.Line, Col: pos.Col},
		Symbol:  symbol,
		Message: fmt.Sprintf(format, args...),
	})
}
