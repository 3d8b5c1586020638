package unitfile

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// mapValue returns the value node for a key of a mapping node, or nil.
func mapValue(n *yaml.Node, key string) *yaml.Node {
	v, _ := mapEntry(n, key)
	return v
}

// mapEntry returns the value node for a key plus whether the key is
// present at all, distinguishing "return:" (present, null) from absence.
func mapEntry(n *yaml.Node, key string) (*yaml.Node, bool) {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, false
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1], true
		}
	}
	return nil, false
}

func mapHas(n *yaml.Node, key string) bool {
	_, present := mapEntry(n, key)
	return present
}

func mapString(n *yaml.Node, key string) (string, error) {
	v := mapValue(n, key)
	if v == nil {
		return "", nil
	}
	if v.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("line %d: %q must be a scalar", v.Line, key)
	}
	return v.Value, nil
}

func mapStringOr(n *yaml.Node, key, fallback string) string {
	if v := mapValue(n, key); v != nil && v.Kind == yaml.ScalarNode {
		return v.Value
	}
	return fallback
}

func mapBool(n *yaml.Node, key string) bool {
	v := mapValue(n, key)
	return v != nil && v.Kind == yaml.ScalarNode && v.Value == "true"
}

func mapInt(n *yaml.Node, key string) int {
	if v := mapValue(n, key); v != nil && v.Kind == yaml.ScalarNode {
		if i, err := strconv.Atoi(v.Value); err == nil {
			return i
		}
	}
	return 0
}

// stringList reads a sequence of scalars; nil input yields nil.
func stringList(n *yaml.Node) []string {
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	out := make([]string, 0, len(n.Content))
	for _, c := range n.Content {
		out = append(out, c.Value)
	}
	return out
}
