package codec

import (
	"fmt"

	"github.com/vango-dev/docroutes/pkg/routetable"
	"gopkg.in/yaml.v3"
)

type yamlCodec struct{}

// Decode accepts a bare sequence of entries or a mapping with a "routes"
// key, matching the JSON codec.
func (yamlCodec) Decode(data []byte) (*routetable.Table, error) {
	if err := checkUTF8(data); err != nil {
		return nil, fmt.Errorf("codec: decode yaml: %w", err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		// yaml.v3 only reports positions in the message.
		var line int
		if _, scanErr := fmt.Sscanf(err.Error(), "yaml: line %d:", &line); scanErr == nil && line > 0 {
			return nil, &SyntaxError{Line: line, Message: err.Error(), Err: err}
		}
		return nil, fmt.Errorf("codec: decode yaml: %w", err)
	}
	if doc.Kind == 0 {
		return routetable.New(), nil
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	var routes []routetable.Entry
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&routes); err != nil {
			return nil, fmt.Errorf("codec: decode yaml: %w", err)
		}
	case yaml.MappingNode:
		var wrapped routetable.Table
		if err := root.Decode(&wrapped); err != nil {
			return nil, fmt.Errorf("codec: decode yaml: %w", err)
		}
		routes = wrapped.Routes
	default:
		return nil, fmt.Errorf("codec: decode yaml: expected sequence or mapping at line %d", root.Line)
	}
	return routetable.New(routes...), nil
}

func (yamlCodec) Encode(t *routetable.Table) ([]byte, error) {
	if err := checkTableUTF8(t); err != nil {
		return nil, fmt.Errorf("codec: encode yaml: %w", err)
	}
	routes := t.Routes
	if routes == nil {
		routes = []routetable.Entry{}
	}
	data, err := yaml.Marshal(routes)
	if err != nil {
		return nil, fmt.Errorf("codec: encode yaml: %w", err)
	}
	return data, nil
}
