package frontmatter

import (
	"strings"
	"time"

	adrg "github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

var yamlFormat = adrg.NewFormat(delimiter, delimiter, yaml.Unmarshal)

// YAML parses the leading block as a full YAML mapping. Scalars and sequences of scalars map
// to Map values; nested mappings are kept as their YAML text. Any parse failure degrades to an
// empty Map and the original text.
type YAML struct{}

// Parse implements Parser.
func (YAML) Parse(text string) (*Map, string) {
	if _, _, ok := splitBlock(text); !ok {
		return NewMap(), text
	}
	var node yaml.Node
	rest, err := adrg.Parse(strings.NewReader(text), &node, yamlFormat)
	if err != nil {
		return NewMap(), text
	}
	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	m := NewMap()
	if root.Kind == 0 {
		return m, string(rest)
	}
	if root.Kind != yaml.MappingNode {
		return NewMap(), text
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		m.Set(root.Content[i].Value, nodeValue(root.Content[i+1]))
	}
	return m, string(rest)
}

func nodeValue(n *yaml.Node) any {
	switch n.Kind {
	case yaml.SequenceNode:
		items := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			if c.Kind == yaml.ScalarNode {
				items = append(items, scalarValue(c))
			} else {
				items = append(items, nodeText(c))
			}
		}
		return items
	case yaml.ScalarNode:
		return scalarValue(n)
	case yaml.AliasNode:
		if n.Alias != nil {
			return nodeValue(n.Alias)
		}
		return nil
	default:
		return nodeText(n)
	}
}

func scalarValue(n *yaml.Node) any {
	var v any
	if err := n.Decode(&v); err != nil {
		return n.Value
	}
	switch t := v.(type) {
	case int:
		return int64(t)
	case uint64:
		return float64(t)
	case time.Time:
		return n.Value
	}
	return v
}

func nodeText(n *yaml.Node) string {
	out, err := yaml.Marshal(n)
	if err != nil {
		return n.Value
	}
	return strings.TrimSpace(string(out))
}
