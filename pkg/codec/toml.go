package codec

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/vango-dev/docroutes/pkg/routetable"
)

// TOML has no top-level arrays, so tables are written as a "routes" array
// of tables.
type tomlCodec struct{}

func (tomlCodec) Decode(data []byte) (*routetable.Table, error) {
	if err := checkUTF8(data); err != nil {
		return nil, fmt.Errorf("codec: decode toml: %w", err)
	}
	var t routetable.Table
	if err := toml.Unmarshal(data, &t); err != nil {
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			line, col := decodeErr.Position()
			return nil, &SyntaxError{Line: line, Column: col, Message: decodeErr.Error(), Err: err}
		}
		return nil, fmt.Errorf("codec: decode toml: %w", err)
	}
	return routetable.New(t.Routes...), nil
}

func (tomlCodec) Encode(t *routetable.Table) ([]byte, error) {
	if err := checkTableUTF8(t); err != nil {
		return nil, fmt.Errorf("codec: encode toml: %w", err)
	}
	data, err := toml.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("codec: encode toml: %w", err)
	}
	return data, nil
}
