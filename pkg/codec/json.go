package codec

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vango-dev/docroutes/pkg/routetable"
)

type jsonCodec struct{}

func (jsonCodec) Decode(data []byte) (*routetable.Table, error) {
	if err := checkUTF8(data); err != nil {
		return nil, fmt.Errorf("codec: decode json: %w", err)
	}
	var t routetable.Table
	if err := json.Unmarshal(data, &t); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, syntaxErrorAtOffset(data, max(int(syntaxErr.Offset)-1, 0), err)
		}
		return nil, fmt.Errorf("codec: decode json: %w", err)
	}
	return &t, nil
}

func (jsonCodec) Encode(t *routetable.Table) ([]byte, error) {
	if err := checkTableUTF8(t); err != nil {
		return nil, fmt.Errorf("codec: encode json: %w", err)
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("codec: encode json: %w", err)
	}
	return append(data, '\n'), nil
}
