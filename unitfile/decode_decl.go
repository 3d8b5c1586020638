package unitfile

import (
	"gopkg.in/yaml.v3"

	"github.com/debuggate/debuggate/ir"
)

var containerKeys = map[string]ir.ContainerKind{
	"class":     ir.KindClass,
	"mixin":     ir.KindMixin,
	"extension": ir.KindExtension,
	"enum":      ir.KindEnum,
}

var memberKeys = map[string]ir.MemberKind{
	"field":    ir.KindField,
	"method":   ir.KindMethod,
	"getter":   ir.KindGetter,
	"setter":   ir.KindSetter,
	"operator": ir.KindOperator,
	"value":    ir.KindEnumValue,
}

func (d *decoder) decodeDecl(n *yaml.Node) (ir.Decl, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errf(n, "declaration must be a mapping")
	}

	if kind, name, ok := discriminate(n, containerKeys); ok {
		return d.decodeContainer(n, kind, name)
	}

	if name := mapValue(n, "func"); name != nil {
		body, err := d.decodeStmts(mapValue(n, "body"))
		if err != nil {
			return nil, err
		}
		return &ir.Func{
			Pos:         d.pos(n),
			Name:        name.Value,
			Annotations: stringList(mapValue(n, "annotations")),
			Result:      mapStringOr(n, "result", ""),
			Body:        body,
		}, nil
	}

	if name := mapValue(n, "var"); name != nil {
		v := &ir.Var{
			Pos:         d.pos(n),
			Name:        name.Value,
			Annotations: stringList(mapValue(n, "annotations")),
			Type:        mapStringOr(n, "type", ""),
		}
		if init := mapValue(n, "init"); init != nil {
			e, err := d.decodeExpr(init)
			if err != nil {
				return nil, err
			}
			v.Init = e
		}
		return v, nil
	}

	return nil, d.errf(n, "unknown declaration form")
}

func (d *decoder) decodeContainer(n *yaml.Node, kind ir.ContainerKind, name string) (ir.Decl, error) {
	c := &ir.Container{
		Pos:         d.pos(n),
		Kind:        kind,
		Name:        name,
		Annotations: stringList(mapValue(n, "annotations")),
		Extends:     mapStringOr(n, "extends", ""),
		With:        stringList(mapValue(n, "with")),
		OnType:      mapStringOr(n, "on", ""),
	}

	if members := mapValue(n, "members"); members != nil {
		for _, mn := range members.Content {
			m, err := d.decodeMember(mn)
			if err != nil {
				return nil, err
			}
			c.Members = append(c.Members, m)
		}
	}
	return c, nil
}

func (d *decoder) decodeMember(n *yaml.Node) (*ir.Member, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errf(n, "member must be a mapping")
	}
	kind, name, ok := discriminate(n, memberKeys)
	if !ok {
		return nil, d.errf(n, "unknown member form")
	}

	body, err := d.decodeStmts(mapValue(n, "body"))
	if err != nil {
		return nil, err
	}

	return &ir.Member{
		Pos:         d.pos(n),
		Kind:        kind,
		Name:        name,
		Annotations: stringList(mapValue(n, "annotations")),
		Static:      mapBool(n, "static"),
		Result:      mapStringOr(n, "result", mapStringOr(n, "type", "")),
		Params:      mapInt(n, "params"),
		Body:        body,
	}, nil
}

// discriminate finds the single declaration-form key of a mapping and
// returns its mapped kind and the node's declared name.
func discriminate[K any](n *yaml.Node, keys map[string]K) (kind K, name string, ok bool) {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if k, found := keys[n.Content[i].Value]; found {
			return k, n.Content[i+1].Value, true
		}
	}
	return kind, "", false
}
