package codec

import (
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// DecodeYAML decodes the first YAML document in data. Mappings keep their
// order and key types, !!binary scalars become []byte and !!timestamp
// scalars time.Time.
func DecodeYAML(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "decode yaml")
	}
	if doc.Kind == 0 {
		return nil, nil
	}
	return fromYAML(&doc)
}

func fromYAML(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromYAML(n.Content[0])
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		m := &Map{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, err := fromYAML(n.Content[i])
			if err != nil {
				return nil, err
			}
			v, err := fromYAML(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(k, v)
		}
		return m, nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	}
	return nil, errors.Newf("line %d: unexpected yaml node kind %d", n.Line, n.Kind)
}

func yamlScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!binary":
		var s string
		if err := n.Decode(&s); err != nil {
			return nil, errors.Wrapf(err, "line %d", n.Line)
		}
		return []byte(s), nil
	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return nil, errors.Wrapf(err, "line %d", n.Line)
		}
		return t, nil
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, errors.Wrapf(err, "line %d", n.Line)
	}
	return v, nil
}
