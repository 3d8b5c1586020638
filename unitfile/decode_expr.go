package unitfile

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/debuggate/debuggate/ir"
)

func (d *decoder) decodeStmts(n *yaml.Node) ([]ir.Stmt, error) {
	if n == nil {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, d.errf(n, "body must be a sequence of statements")
	}
	var stmts []ir.Stmt
	for _, sn := range n.Content {
		stmt, err := d.decodeStmt(sn)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (d *decoder) decodeStmt(n *yaml.Node) (ir.Stmt, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errf(n, "statement must be a mapping")
	}

	if en := mapValue(n, "expr"); en != nil {
		e, err := d.decodeExpr(en)
		if err != nil {
			return nil, err
		}
		return &ir.ExprStmt{E: e}, nil
	}

	if vn := mapValue(n, "var"); vn != nil {
		st := &ir.VarStmt{
			Pos:  d.pos(n),
			Name: mapStringOr(vn, "name", ""),
			Type: mapStringOr(vn, "type", ""),
		}
		if init := mapValue(vn, "init"); init != nil {
			e, err := d.decodeExpr(init)
			if err != nil {
				return nil, err
			}
			st.Init = e
		}
		return st, nil
	}

	if rn, present := mapEntry(n, "return"); present {
		st := &ir.Return{Pos: d.pos(n)}
		if rn != nil && rn.Tag != "!!null" {
			e, err := d.decodeExpr(rn)
			if err != nil {
				return nil, err
			}
			st.E = e
		}
		return st, nil
	}

	if in := mapValue(n, "if"); in != nil {
		cond, err := d.decodeExpr(mapValue(in, "cond"))
		if err != nil {
			return nil, err
		}
		then, err := d.decodeStmts(mapValue(in, "then"))
		if err != nil {
			return nil, err
		}
		els, err := d.decodeStmts(mapValue(in, "else"))
		if err != nil {
			return nil, err
		}
		return &ir.If{Pos: d.pos(n), Cond: cond, Then: then, Else: els}, nil
	}

	return nil, d.errf(n, "unknown statement form")
}

func (d *decoder) decodeExpr(n *yaml.Node) (ir.Expr, error) {
	if n == nil {
		return nil, d.errf(&yaml.Node{}, "missing expression")
	}
	if n.Kind != yaml.MappingNode {
		return nil, d.errf(n, "expression must be a single-key mapping")
	}

	switch {
	case mapHas(n, "id"):
		v := mapValue(n, "id")
		if v.Kind == yaml.ScalarNode {
			return &ir.Ident{Pos: d.pos(n), Name: v.Value}, nil
		}
		return &ir.Ident{
			Pos:  d.pos(n),
			Name: mapStringOr(v, "name", ""),
			Type: mapStringOr(v, "type", ""),
		}, nil

	case mapHas(n, "get"):
		v := mapValue(n, "get")
		recv, err := d.decodeExpr(mapValue(v, "recv"))
		if err != nil {
			return nil, err
		}
		return &ir.Access{
			Pos:       d.pos(n),
			Recv:      recv,
			Name:      mapStringOr(v, "name", ""),
			NullAware: mapBool(v, "nullaware"),
		}, nil

	case mapHas(n, "static"):
		v := mapValue(n, "static")
		if v.Kind == yaml.ScalarNode {
			container, name, ok := strings.Cut(v.Value, ".")
			if !ok {
				return nil, d.errf(v, "static reference must be Container.member")
			}
			return &ir.StaticRef{Pos: d.pos(n), Container: container, Name: name}, nil
		}
		return &ir.StaticRef{
			Pos:       d.pos(n),
			Container: mapStringOr(v, "container", ""),
			Name:      mapStringOr(v, "name", ""),
		}, nil

	case mapHas(n, "set"):
		v := mapValue(n, "set")
		target, err := d.decodeExpr(mapValue(v, "target"))
		if err != nil {
			return nil, err
		}
		value, err := d.decodeExpr(mapValue(v, "value"))
		if err != nil {
			return nil, err
		}
		return &ir.Assign{
			Pos:    d.pos(n),
			Target: target,
			Op:     mapStringOr(v, "op", "="),
			Value:  value,
		}, nil

	case mapHas(n, "call"):
		v := mapValue(n, "call")
		fun, err := d.decodeExpr(mapValue(v, "fun"))
		if err != nil {
			return nil, err
		}
		args, err := d.decodeExprs(mapValue(v, "args"))
		if err != nil {
			return nil, err
		}
		return &ir.Call{Pos: d.pos(n), Fun: fun, Args: args}, nil

	case mapHas(n, "cascade"):
		v := mapValue(n, "cascade")
		recv, err := d.decodeExpr(mapValue(v, "recv"))
		if err != nil {
			return nil, err
		}
		c := &ir.Cascade{Pos: d.pos(n), Recv: recv}
		elems := mapValue(v, "elems")
		if elems != nil {
			for _, en := range elems.Content {
				elem, err := d.decodeCascadeElem(en)
				if err != nil {
					return nil, err
				}
				c.Elems = append(c.Elems, elem)
			}
		}
		return c, nil

	case mapHas(n, "bin"):
		v := mapValue(n, "bin")
		x, err := d.decodeExpr(mapValue(v, "x"))
		if err != nil {
			return nil, err
		}
		y, err := d.decodeExpr(mapValue(v, "y"))
		if err != nil {
			return nil, err
		}
		return &ir.Binary{Pos: d.pos(n), Op: mapStringOr(v, "op", ""), X: x, Y: y}, nil

	case mapHas(n, "unary"):
		v := mapValue(n, "unary")
		x, err := d.decodeExpr(mapValue(v, "x"))
		if err != nil {
			return nil, err
		}
		return &ir.Unary{Pos: d.pos(n), Op: mapStringOr(v, "op", ""), X: x}, nil

	case mapHas(n, "index"):
		v := mapValue(n, "index")
		recv, err := d.decodeExpr(mapValue(v, "recv"))
		if err != nil {
			return nil, err
		}
		arg, err := d.decodeExpr(mapValue(v, "arg"))
		if err != nil {
			return nil, err
		}
		return &ir.Index{Pos: d.pos(n), Recv: recv, Arg: arg}, nil

	case mapHas(n, "closure"):
		v := mapValue(n, "closure")
		body, err := d.decodeStmts(mapValue(v, "body"))
		if err != nil {
			return nil, err
		}
		cl := &ir.Closure{
			Pos:    d.pos(n),
			Result: mapStringOr(v, "result", ""),
			Body:   body,
		}
		if params := mapValue(v, "params"); params != nil {
			for _, pn := range params.Content {
				cl.Params = append(cl.Params, ir.Param{
					Name: mapStringOr(pn, "name", ""),
					Type: mapStringOr(pn, "type", ""),
				})
			}
		}
		return cl, nil

	case mapHas(n, "lit"):
		v := mapValue(n, "lit")
		if v.Kind == yaml.ScalarNode {
			return &ir.Lit{Pos: d.pos(n), Type: v.Value}, nil
		}
		return &ir.Lit{Pos: d.pos(n), Type: mapStringOr(v, "type", "")}, nil
	}

	return nil, d.errf(n, "unknown expression form")
}

func (d *decoder) decodeExprs(n *yaml.Node) ([]ir.Expr, error) {
	if n == nil {
		return nil, nil
	}
	var exprs []ir.Expr
	for _, en := range n.Content {
		e, err := d.decodeExpr(en)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

func (d *decoder) decodeCascadeElem(n *yaml.Node) (ir.CascadeElem, error) {
	if cn := mapValue(n, "call"); cn != nil {
		args, err := d.decodeExprs(mapValue(cn, "args"))
		if err != nil {
			return nil, err
		}
		return &ir.CascadeCall{
			Pos:  d.pos(n),
			Name: mapStringOr(cn, "name", ""),
			Args: args,
		}, nil
	}
	if sn := mapValue(n, "set"); sn != nil {
		elem := &ir.CascadeSet{
			Pos:  d.pos(n),
			Name: mapStringOr(sn, "name", ""),
			Op:   mapStringOr(sn, "op", "="),
		}
		if value := mapValue(sn, "value"); value != nil {
			e, err := d.decodeExpr(value)
			if err != nil {
				return nil, err
			}
			elem.Value = e
		}
		return elem, nil
	}
	return nil, d.errf(n, "unknown cascade element form")
}
