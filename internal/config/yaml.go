package config

import (
	"gopkg.in/yaml.v3"
)

func decodeYAML(path string, data []byte) (map[string]any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &MalformedConfigError{Path: path, Detail: "invalid YAML", Err: err}
	}

	node := &root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, malformed(path, "source is empty")
		}
		node = node.Content[0]
	}
	if node.Kind == 0 {
		return nil, malformed(path, "source is empty")
	}

	w := &yamlWalker{path: path, expanding: make(map[*yaml.Node]bool)}
	v, err := w.value(node)
	if err != nil {
		return nil, err
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, nodeError(path, node, "top level must be a mapping, got %s", typeName(v))
	}
	return doc, nil
}

// maxYAMLNodes caps how many nodes a document may expand to once aliases
// are followed.
const maxYAMLNodes = 100_000

// yamlWalker walks a node tree into plain Go values. Walking the nodes
// instead of decoding into a map lets a repeated key overwrite the earlier
// one, as it does in the other formats.
type yamlWalker struct {
	path string

	// expanding holds the anchors whose alias expansion is in progress.
	expanding map[*yaml.Node]bool
	nodes     int
}

func (w *yamlWalker) value(n *yaml.Node) (any, error) {
	path := w.path
	w.nodes++
	if w.nodes > maxYAMLNodes {
		return nil, nodeError(path, n, "document expands to more than %d nodes", maxYAMLNodes)
	}

	switch n.Kind {
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, nodeError(path, n, "unknown alias %q", n.Value)
		}
		if w.expanding[n.Alias] {
			return nil, nodeError(path, n, "alias %q refers to itself", n.Value)
		}
		w.expanding[n.Alias] = true
		defer delete(w.expanding, n.Alias)
		return w.value(n.Alias)

	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, nodeError(path, k, "mapping keys must be scalars")
			}
			if k.ShortTag() == "!!merge" {
				if err := w.merge(out, v); err != nil {
					return nil, err
				}
				continue
			}
			val, err := w.value(v)
			if err != nil {
				return nil, err
			}
			out[k.Value] = val
		}
		return out, nil

	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			val, err := w.value(c)
			if err != nil {
				return nil, err
			}
			out = append(out, val)
		}
		return out, nil

	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return nil, nil
		case "!!int", "!!float", "!!bool":
			var v any
			if err := n.Decode(&v); err != nil {
				return nil, nodeError(path, n, "invalid scalar %q", n.Value)
			}
			return v, nil
		default:
			return n.Value, nil
		}
	}
	return nil, nodeError(path, n, "unsupported YAML node")
}

// merge applies a "<<" merge key. Keys already set explicitly win.
func (w *yamlWalker) merge(out map[string]any, v *yaml.Node) error {
	src := []*yaml.Node{v}
	if v.Kind == yaml.SequenceNode {
		src = v.Content
	}
	for _, s := range src {
		val, err := w.value(s)
		if err != nil {
			return err
		}
		m, ok := val.(map[string]any)
		if !ok {
			return nodeError(w.path, s, "merge value must be a mapping")
		}
		for k, mv := range m {
			if _, exists := out[k]; !exists {
				out[k] = mv
			}
		}
	}
	return nil
}

func nodeError(path string, n *yaml.Node, format string, args ...any) *MalformedConfigError {
	e := malformed(path, format, args...)
	e.Line, e.Column = n.Line, n.Column
	return e
}
