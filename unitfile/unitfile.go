// Package unitfile decodes YAML descriptions of source units into ir
// trees. It is the loading collaborator used by the host CLI and the
// fixture tests; the checker itself never touches files.
//
// A unit file is a mapping with a "unit" name and a "decls" sequence.
// Declarations, statements, and expressions are single-key mappings whose
// key names the node form, mirroring the closed variant set of package ir.
// Node positions come straight from the YAML parser, so findings map back
// to fixture lines.
package unitfile

import (
	"fmt"
	"os"

	"golang.org/x/tools/txtar"
	"gopkg.in/yaml.v3"

	"github.com/debuggate/debuggate/ir"
)

// Parse decodes a single YAML unit description.
func Parse(data []byte) (*ir.Unit, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse unit: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("parse unit: empty document")
	}

	root := doc.Content[0]
	name, err := mapString(root, "unit")
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("parse unit: missing unit name")
	}

	d := &decoder{unit: name}
	u := &ir.Unit{Name: name}
	if decls := mapValue(root, "decls"); decls != nil {
		for _, n := range decls.Content {
			decl, err := d.decodeDecl(n)
			if err != nil {
				return nil, err
			}
			u.Decls = append(u.Decls, decl)
		}
	}
	return u, nil
}

// LoadFile decodes one unit file.
func LoadFile(path string) (*ir.Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	u, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return u, nil
}

// LoadTxtar decodes a txtar archive bundling one YAML unit file per
// archive entry.
func LoadTxtar(path string) ([]*ir.Unit, error) {
	archive, err := txtar.ParseFile(path)
	if err != nil {
		return nil, err
	}
	units := make([]*ir.Unit, 0, len(archive.Files))
	for _, f := range archive.Files {
		u, err := Parse(f.Data)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", path, f.Name, err)
		}
		units = append(units, u)
	}
	return units, nil
}

type decoder struct {
	unit string
}

func (d *decoder) pos(n *yaml.Node) ir.Pos {
	return ir.Pos{Unit: d.unit, Line: n.Line, Col: n.Column}
}

func (d *decoder) errf(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("%s:%d:%d: %s", d.unit, n.Line, n.Column, fmt.Sprintf(format, args...))
}
