package scanlog

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// resolve follows alias nodes to their anchor.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// child returns the value stored under key in mapping m, or nil when m is
// not a mapping or has no such key.
func child(m *yaml.Node, key string) *yaml.Node {
	m = resolve(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return resolve(m.Content[i+1])
		}
	}
	return nil
}

// ownChild is child for a value about to be modified. When the value under
// key is an alias, it is replaced by an unanchored copy of its target so the
// edit does not reach the anchor or other aliases of it.
func ownChild(m *yaml.Node, key string) *yaml.Node {
	m = resolve(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value != key {
			continue
		}
		v := m.Content[i+1]
		if v.Kind == yaml.AliasNode {
			target := resolve(v)
			if target == nil {
				return nil
			}
			v = cloneNode(target)
			v.Anchor = ""
			m.Content[i+1] = v
		}
		return v
	}
	return nil
}

// setKey replaces the value under key in mapping m, or appends the pair
// when the key is new. Key order of existing entries is kept.
func setKey(m *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value
			return
		}
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value)
}

func newMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

// floatNode renders v as decimal text that resolves back to a float, so the
// encoder never needs to emit an explicit tag.
func floatNode(v float64) *yaml.Node {
	var text string
	switch {
	case math.IsNaN(v):
		text = ".nan"
	case math.IsInf(v, 1):
		text = ".inf"
	case math.IsInf(v, -1):
		text = "-.inf"
	default:
		text = strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.ContainsRune(text, '.') {
			text += ".0"
		}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: text}
}

// parseFloat reads a scalar as a number. Quoted numbers are accepted, as are
// YAML spellings such as .inf that strconv does not know.
func parseFloat(n *yaml.Node) (float64, bool) {
	if f, err := strconv.ParseFloat(strings.TrimSpace(n.Value), 64); err == nil {
		return f, true
	}
	switch n.ShortTag() {
	case "!!float", "!!int":
		var f float64
		if err := n.Decode(&f); err == nil {
			return f, true
		}
	}
	return 0, false
}

func parseInt(n *yaml.Node) (int, bool) {
	if i, err := strconv.Atoi(strings.TrimSpace(n.Value)); err == nil {
		return i, true
	}
	if n.ShortTag() == "!!int" {
		var i int
		if err := n.Decode(&i); err == nil {
			return i, true
		}
	}
	return 0, false
}

// cloneNode deep-copies a node tree. Aliases in the copy point at the copied
// anchors.
func cloneNode(n *yaml.Node) *yaml.Node {
	seen := make(map[*yaml.Node]*yaml.Node)
	var clone func(*yaml.Node) *yaml.Node
	clone = func(n *yaml.Node) *yaml.Node {
		if n == nil {
			return nil
		}
		if c, ok := seen[n]; ok {
			return c
		}
		c := *n
		seen[n] = &c
		if n.Content != nil {
			c.Content = make([]*yaml.Node, len(n.Content))
			for i, ch := range n.Content {
				c.Content[i] = clone(ch)
			}
		}
		c.Alias = clone(n.Alias)
		return &c
	}
	return clone(n)
}

// detectIndent guesses the block indentation of a YAML text from its first
// indented mapping line. Sequence entries and comments are skipped.
func detectIndent(data []byte) int {
	for _, line := range bytes.Split(data, []byte("\n")) {
		trimmed := bytes.TrimLeft(line, " ")
		n := len(line) - len(trimmed)
		if n == 0 || len(bytes.TrimSpace(trimmed)) == 0 {
			continue
		}
		if trimmed[0] == '#' || trimmed[0] == '-' {
			continue
		}
		if n < 2 || n > 9 {
			return DefaultIndent
		}
		return n
	}
	return DefaultIndent
}
