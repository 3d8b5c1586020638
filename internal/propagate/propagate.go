// Package propagate computes the effective debug-only status of every
// indexed symbol: own marking, container blanket, and the unsafe-override
// rule, applied in topological order over the inheritance and
// mixin-application graph.
package propagate

import (
	"fmt"

	"github.com/debuggate/debuggate/findings"
	"github.com/debuggate/debuggate/internal/index"
	"github.com/debuggate/debuggate/ir"
)

// Resolve runs the propagation pass over a merged table. It writes each
// member's Effective bit exactly once and returns the unsafe-override and
// cycle findings it detects. The table must not be mutated afterwards.
func Resolve(t *index.Table) []findings.Finding {
	var fs []findings.Finding

	order, cyclic := topoOrder(t)
	for _, id := range cyclic {
		c := t.Containers[id]
		c.Broken = true
		fs = append(fs, inputError(c.Pos, c.Name,
			"%s %q is part of or depends on an inheritance or mixin cycle", c.Kind, c.Name))
	}

	for _, id := range order {
		fs = append(fs, resolveContainer(t, t.Containers[id])...)
	}
	// Cyclic containers still resolve their members' own markings so that
	// direct references to them are checked rather than silently passed.
	for _, id := range cyclic {
		resolveOwnOnly(t.Containers[id])
	}

	for _, m := range t.TopLevel {
		m.Effective = m.Marked
	}

	return fs
}

func resolveContainer(t *index.Table, c *index.Container) []findings.Finding {
	var fs []findings.Finding

	for _, m := range c.Members {
		own := m.Marked || (m.Blanketed && c.Marked)
		if own {
			m.Effective = true
			continue
		}
		if m.Static || c.Broken {
			continue
		}

		// An unmarked declaration overriding an effectively debug-only
		// member from the base chain or an applied mixin silently drops
		// the contract. It is flagged, but stays unmarked downstream.
		if overridden := findInherited(t, c, m); overridden != nil && overridden.Effective {
			fs = append(fs, findings.Finding{
				Kind:   findings.UnsafeOverride,
				Loc:    findings.Loc{Unit: m.Pos.Unit, Line: m.Pos.Line, Col: m.Pos.Col},
				Symbol: t.SymbolName(m),
				Message: fmt.Sprintf("%s %q overrides debug-only %s %q without restating the marker",
					m.KindWord(), t.SymbolName(m), overridden.KindWord(), t.SymbolName(overridden)),
			})
		}
	}

	return fs
}

func resolveOwnOnly(c *index.Container) {
	for _, m := range c.Members {
		m.Effective = m.Marked || (m.Blanketed && c.Marked)
	}
}

// findInherited locates the member a declaration overrides, searching
// applied mixins and the base chain but never the container's own
// declarations.
func findInherited(t *index.Table, c *index.Container, m *index.Member) *index.Member {
	need := index.NeedRead
	if m.Kind == ir.KindSetter {
		need = index.NeedWrite
	}
	for i := len(c.Mixins) - 1; i >= 0; i-- {
		if found, _ := t.ResolveInstance(t.Containers[c.Mixins[i]], m.Name, need); found != nil {
			return found
		}
	}
	if c.Base != index.None {
		if found, _ := t.ResolveInstance(t.Containers[c.Base], m.Name, need); found != nil {
			return found
		}
	}
	return nil
}

// topoOrder returns container IDs with bases and applied mixins ordered
// before the containers that use them, plus the IDs left on cycles. Both
// lists are deterministic for a given merge order.
func topoOrder(t *index.Table) (order, cyclic []index.ContainerID) {
	n := len(t.Containers)
	indegree := make([]int, n)
	dependents := make([][]index.ContainerID, n)

	for _, c := range t.Containers {
		for _, dep := range deps(c) {
			dependents[dep] = append(dependents[dep], c.ID)
			indegree[c.ID]++
		}
	}

	var queue []index.ContainerID
	for id := 0; id < n; id++ {
		if indegree[id] == 0 {
			queue = append(queue, index.ContainerID(id))
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, dep := range dependents[id] {
			indegree[dep]--
			if indegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if len(order) < n {
		seen := make(map[index.ContainerID]bool, len(order))
		for _, id := range order {
			seen[id] = true
		}
		for id := 0; id < n; id++ {
			if !seen[index.ContainerID(id)] {
				cyclic = append(cyclic, index.ContainerID(id))
			}
		}
	}

	return order, cyclic
}

func deps(c *index.Container) []index.ContainerID {
	var ds []index.ContainerID
	if c.Base != index.None {
		ds = append(ds, c.Base)
	}
	ds = append(ds, c.Mixins...)
	return ds
}

func inputError(pos ir.Pos, symbol, format string, args ...any) findings.Finding {
	return findings.Finding{
		Kind:    findings.InputError,
		Loc:     findings.Loc{Unit: pos.Unit, Line: pos.Line, Col: pos.Col},
		Symbol:  symbol,
		Message: fmt.Sprintf(format, args...),
	}
}
