// Package scan walks the expression trees of consumer code, resolves each
// access to its declared symbol through the merged declaration table, and
// reports debug-only symbols referenced outside a debug-gated region.
//
// Each unit is scanned independently against the read-only table, so the
// phase runs one worker per unit with no shared mutable state.
package scan

import (
	"fmt"

	"github.com/debuggate/debuggate/findings"
	"github.com/debuggate/debuggate/internal/gate"
	"github.com/debuggate/debuggate/internal/index"
	"github.com/debuggate/debuggate/ir"
)

// Unit scans one source unit and returns its findings, unsorted. The table
// must have been resolved by the propagation pass already.
func Unit(u *ir.Unit, t *index.Table, g *gate.Classifier) []findings.Finding {
	s := &scanner{table: t, gates: g}

	for _, decl := range u.Decls {
		switch d := decl.(type) {
		case *ir.Container:
			for _, m := range d.Members {
				s.scanStmts(m.Body)
			}
		case *ir.Func:
			s.scanStmts(d.Body)
		case *ir.Var:
			if d.Init != nil {
				s.scanExpr(d.Init)
			}
		}
	}

	return s.findings
}

type scanner struct {
	table    *index.Table
	gates    *gate.Classifier
	stack    gate.Stack
	findings []findings.Finding
}

func (s *scanner) scanStmts(stmts []ir.Stmt) {
	for _, stmt := range stmts {
		switch st := stmt.(type) {
		case *ir.ExprStmt:
			s.scanExpr(st.E)
		case *ir.VarStmt:
			if st.Init != nil {
				s.scanExpr(st.Init)
			}
		case *ir.Return:
			if st.E != nil {
				s.scanExpr(st.E)
			}
		case *ir.If:
			s.scanExpr(st.Cond)
			s.scanStmts(st.Then)
			s.scanStmts(st.Else)
		}
	}
}

// scanExpr scans an expression and returns its static type name, or ""
// when none is known. Read-shaped by default; calls and assignment targets
// go through scanTarget and the assignment cases instead.
func (s *scanner) scanExpr(e ir.Expr) string {
	switch x := e.(type) {
	case *ir.Ident:
		return s.scanIdent(x, FormRead)
	case *ir.Access:
		return s.scanAccess(x, FormRead)
	case *ir.StaticRef:
		return s.scanStaticRef(x, FormRead)
	case *ir.Assign:
		return s.scanAssign(x)
	case *ir.Call:
		return s.scanCall(x)
	case *ir.Cascade:
		return s.scanCascade(x)
	case *ir.Binary:
		return s.scanBinary(x)
	case *ir.Unary:
		return s.scanUnary(x)
	case *ir.Index:
		return s.scanIndex(x, FormIndexRead)
	case *ir.Closure:
		s.stack.Push(gate.Ordinary)
		s.scanStmts(x.Body)
		s.stack.Pop()
		return ""
	case *ir.Lit:
		return x.Type
	default:
		return ""
	}
}

func (s *scanner) scanIdent(x *ir.Ident, form AccessForm) string {
	if x.Type != "" {
		return x.Type // local binding, not a declared symbol
	}
	if m, ok := s.table.TopLevel[x.Name]; ok {
		s.record(m, form, x.Pos)
		return m.Result
	}
	if c, ok := s.table.ContainerByName(x.Name); ok {
		s.recordContainer(c, x.Pos)
		return c.Name
	}
	s.inputError(x.Pos, x.Name, "unresolved identifier %q", x.Name)
	return ""
}

func (s *scanner) scanAccess(x *ir.Access, form AccessForm) string {
	if x.NullAware && form == FormRead {
		form = FormNullRead
	}
	recv := s.scanExpr(x.Recv)
	m := s.resolveMember(recv, x.Name, index.NeedRead, x.Pos)
	if m == nil {
		return ""
	}
	s.record(m, form, x.Pos)
	return m.Result
}

func (s *scanner) scanStaticRef(x *ir.StaticRef, form AccessForm) string {
	c, ok := s.table.ContainerByName(x.Container)
	if !ok {
		s.inputError(x.Pos, x.Container+"."+x.Name, "unresolved container %q", x.Container)
		return ""
	}
	need := index.NeedRead
	if form == FormWrite {
		need = index.NeedWrite
	}
	m := s.table.ResolveStatic(c, x.Name, need)
	if m == nil {
		s.inputError(x.Pos, x.Container+"."+x.Name,
			"%s %q declares no static member %q", c.Kind, c.Name, x.Name)
		return ""
	}
	s.record(m, form, x.Pos)
	return m.Result
}

// scanAssign handles plain and compound assignments. A compound assignment
// is two independent accesses of the target: a read and a write, each of
// which must satisfy the gating rule on its own.
func (s *scanner) scanAssign(x *ir.Assign) string {
	compound := x.Op != "" && x.Op != "="

	switch target := x.Target.(type) {
	case *ir.Access:
		recv := s.scanExpr(target.Recv)
		if compound {
			if m := s.resolveMember(recv, target.Name, index.NeedRead, target.Pos); m != nil {
				s.record(m, FormRead, target.Pos)
			}
		}
		if m := s.resolveMember(recv, target.Name, index.NeedWrite, target.Pos); m != nil {
			s.record(m, FormWrite, target.Pos)
		}
	case *ir.StaticRef:
		if compound {
			s.scanStaticRef(target, FormRead)
		}
		s.scanStaticRef(target, FormWrite)
	case *ir.Ident:
		if target.Type == "" {
			if m, ok := s.table.TopLevel[target.Name]; ok {
				if compound {
					s.record(m, FormRead, target.Pos)
				}
				s.record(m, FormWrite, target.Pos)
			} else {
				s.inputError(target.Pos, target.Name, "unresolved identifier %q", target.Name)
			}
		}
	case *ir.Index:
		recv := s.scanExpr(target.Recv)
		s.scanExpr(target.Arg)
		if compound {
			if m := s.resolveOperator(recv, indexOperator, target.Pos); m != nil {
				s.record(m, FormIndexRead, target.Pos)
			}
		}
		if m := s.resolveOperator(recv, indexOperator, target.Pos); m != nil {
			s.record(m, FormIndexWrite, target.Pos)
		}
	default:
		s.scanExpr(x.Target)
	}

	return s.scanExpr(x.Value)
}

func (s *scanner) scanCall(x *ir.Call) string {
	// The gating construct itself: entering the immediately-invoked
	// closure argument opens a debug-gated frame; any other argument
	// shape stays ordinary.
	if closure, ok := s.gates.GatedClosure(x); ok {
		s.stack.Push(gate.AssertGated)
		s.scanStmts(closure.Body)
		s.stack.Pop()
		return "bool"
	}

	var result string
	switch fun := x.Fun.(type) {
	case *ir.Ident:
		// A gating construct invoked without the closure shape: the
		// callee is not a declared symbol, but its arguments are scanned
		// as ordinary context.
		if fun.Type == "" && s.gates.IsGateName(fun.Name) {
			result = "bool"
			break
		}
		result = s.scanIdent(fun, FormCall)
	case *ir.Access:
		result = s.scanAccess(fun, FormCall)
	case *ir.StaticRef:
		result = s.scanStaticRef(fun, FormCall)
	case *ir.Closure:
		s.stack.Push(gate.Ordinary)
		s.scanStmts(fun.Body)
		s.stack.Pop()
		result = fun.Result
	default:
		s.scanExpr(x.Fun)
	}

	for _, arg := range x.Args {
		s.scanExpr(arg)
	}
	return result
}

// scanCascade resolves the receiver's static type once and checks every
// cascade element against it independently.
func (s *scanner) scanCascade(x *ir.Cascade) string {
	recv := s.scanExpr(x.Recv)

	for _, elem := range x.Elems {
		switch el := elem.(type) {
		case *ir.CascadeCall:
			if m := s.resolveMember(recv, el.Name, index.NeedRead, el.Pos); m != nil {
				s.record(m, FormCascadeCall, el.Pos)
			}
			for _, arg := range el.Args {
				s.scanExpr(arg)
			}
		case *ir.CascadeSet:
			if el.Op != "" && el.Op != "=" {
				if m := s.resolveMember(recv, el.Name, index.NeedRead, el.Pos); m != nil {
					s.record(m, FormCascadeRead, el.Pos)
				}
			}
			if m := s.resolveMember(recv, el.Name, index.NeedWrite, el.Pos); m != nil {
				s.record(m, FormCascadeWrite, el.Pos)
			}
			if el.Value != nil {
				s.scanExpr(el.Value)
			}
		}
	}

	return recv
}

func (s *scanner) scanBinary(x *ir.Binary) string {
	xt := s.scanExpr(x.X)
	s.scanExpr(x.Y)
	op, known := binaryOperators[x.Op]
	if !known {
		return ""
	}
	m := s.resolveOperator(xt, op, x.Pos)
	if m == nil {
		return ""
	}
	s.record(m, FormOperator, x.Pos)
	return m.Result
}

func (s *scanner) scanUnary(x *ir.Unary) string {
	xt := s.scanExpr(x.X)
	op, known := prefixOperators[x.Op]
	if !known {
		return ""
	}
	m := s.resolveOperator(xt, op, x.Pos)
	if m == nil {
		return ""
	}
	s.record(m, FormOperator, x.Pos)
	return m.Result
}

func (s *scanner) scanIndex(x *ir.Index, form AccessForm) string {
	recv := s.scanExpr(x.Recv)
	s.scanExpr(x.Arg)
	m := s.resolveOperator(recv, indexOperator, x.Pos)
	if m == nil {
		return ""
	}
	s.record(m, form, x.Pos)
	return m.Result
}

// resolveMember maps a member access on a receiver type to its declared
// symbol: instance members first (own, mixins, base chain), extensions
// only when the type has no such instance member. Foreign types outside
// the index carry no checkable symbols and resolve to nothing; unresolved
// receivers and members of broken containers degrade to input errors
// rather than silently passing.
func (s *scanner) resolveMember(recvType, name string, need index.Need, pos ir.Pos) *index.Member {
	if recvType == "" {
		s.inputError(pos, name, "cannot resolve the receiver type for member %q", name)
		return nil
	}

	c, indexed := s.table.ContainerByName(recvType)
	if indexed {
		m, complete := s.table.ResolveInstance(c, name, need)
		if m != nil {
			return m
		}
		if !complete {
			s.inputError(pos, recvType+"."+name,
				"member %q cannot be resolved on %s %q: its declarations failed to index", name, c.Kind, c.Name)
			return nil
		}
	}

	if m := s.table.ResolveExtension(recvType, name, need); m != nil {
		return m
	}

	if indexed {
		s.inputError(pos, recvType+"."+name,
			"no member %q on %s %q or any extension of it", name, c.Kind, c.Name)
	}
	return nil
}

// resolveOperator resolves a desugared operator symbol on the receiver
// type. Operators on foreign types resolve to nothing.
func (s *scanner) resolveOperator(recvType, op string, pos ir.Pos) *index.Member {
	if recvType == "" {
		return nil
	}
	c, indexed := s.table.ContainerByName(recvType)
	if indexed {
		m, complete := s.table.ResolveInstance(c, op, index.NeedRead)
		if m != nil {
			return m
		}
		if !complete {
			s.inputError(pos, recvType+"."+op,
				"operator %q cannot be resolved on %s %q: its declarations failed to index", op, c.Kind, c.Name)
			return nil
		}
	}
	return s.table.ResolveExtension(recvType, op, index.NeedRead)
}

func (s *scanner) record(m *index.Member, form AccessForm, pos ir.Pos) {
	if !m.Effective || s.stack.Gated() {
		return
	}
	symbol := s.table.SymbolName(m)
	s.findings = append(s.findings, findings.Finding{
		Kind:   findings.Violation,
		Loc:    findings.Loc{Unit: pos.Unit, Line: pos.Line, Col: pos.Col},
		Symbol: symbol,
		Message: fmt.Sprintf("debug-only %s %q %s outside a debug-gated region",
			m.KindWord(), symbol, form.verb()),
	})
}

func (s *scanner) recordContainer(c *index.Container, pos ir.Pos) {
	if !c.Marked || s.stack.Gated() {
		return
	}
	s.findings = append(s.findings, findings.Finding{
		Kind:   findings.Violation,
		Loc:    findings.Loc{Unit: pos.Unit, Line: pos.Line, Col: pos.Col},
		Symbol: c.Name,
		Message: fmt.Sprintf("debug-only %s %q referenced outside a debug-gated region",
			c.Kind, c.Name),
	})
}

func (s *scanner) inputError(pos ir.Pos, symbol, format string, args ...any) {
	s.findings = append(s.findings, findings.Finding{
		Kind:    findings.InputError,
		Loc:     findings.Loc{Unit: pos.Unit, Line: pos.Line, Col: pos.Col},
		Symbol:  symbol,
		Message: fmt.Sprintf(format, args...),
	})
}
