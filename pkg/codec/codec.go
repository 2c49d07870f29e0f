// Package codec reads and writes route tables in the formats the
// documentation generator and its tooling use: the generated routes.js
// module, JSON, YAML and TOML.
//
// Every codec round-trips: decoding an encoded table yields an equal
// table.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/vango-dev/docroutes/pkg/routetable"
)

// Format names a serialization.
type Format string

const (
	FormatAuto Format = "auto"
	FormatJS   Format = "js"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnknownFormat is returned for unsupported format names or extensions.
var ErrUnknownFormat = errors.New("codec: unknown format")

// ErrInvalidUTF8 is returned for documents, or tables, holding text that is
// not valid UTF-8. Decoders never substitute U+FFFD.
var ErrInvalidUTF8 = errors.New("codec: invalid UTF-8")

// Codec converts between bytes and tables.
type Codec interface {
	Decode(data []byte) (*routetable.Table, error)
	Encode(t *routetable.Table) ([]byte, error)
}

var codecs = map[Format]Codec{
	FormatJS:   jsCodec{},
	FormatJSON: jsonCodec{},
	FormatYAML: yamlCodec{},
	FormatTOML: tomlCodec{},
}

var aliases = map[string]Format{
	"auto":       FormatAuto,
	"js":         FormatJS,
	"javascript": FormatJS,
	"json":       FormatJSON,
	"yaml":       FormatYAML,
	"yml":        FormatYAML,
	"toml":       FormatTOML,
}

var extensions = map[string]Format{
	".js":   FormatJS,
	".mjs":  FormatJS,
	".cjs":  FormatJS,
	".json": FormatJSON,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".toml": FormatTOML,
}

// Formats returns the concrete formats in name order.
func Formats() []Format {
	formats := make([]Format, 0, len(codecs))
	for f := range codecs {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatAuto, nil
	}
	if f, ok := aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFormat, name)
}

// DetectFormat picks a format from a file name or object key extension.
func DetectFormat(name string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: cannot infer format from %q", ErrUnknownFormat, name)
}

// Sniff guesses a format from content alone.
func Sniff(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0:
		return FormatJSON
	case bytes.HasPrefix(trimmed, []byte("[[routes]]")) || bytes.HasPrefix(trimmed, []byte("routes =")):
		return FormatTOML
	case trimmed[0] == '[' || trimmed[0] == '{':
		return FormatJSON
	case bytes.Contains(trimmed, []byte("export default")):
		return FormatJS
	default:
		return FormatYAML
	}
}

// Resolve turns FormatAuto into a concrete format using the name first and
// the content second.
func Resolve(format Format, name string, data []byte) (Format, error) {
	if format != FormatAuto && format != "" {
		if _, ok := codecs[format]; !ok {
			return "", fmt.Errorf("%w %q", ErrUnknownFormat, format)
		}
		return format, nil
	}
	if f, err := DetectFormat(name); err == nil {
		return f, nil
	}
	return Sniff(data), nil
}

// Lookup returns the codec for a concrete format.
func Lookup(format Format) (Codec, error) {
	c, ok := codecs[format]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
	return c, nil
}

// Decode parses data in the given format.
func Decode(format Format, data []byte) (*routetable.Table, error) {
	c, err := Lookup(format)
	if err != nil {
		return nil, err
	}
	return c.Decode(data)
}

// Encode serializes t in the given format.
func Encode(format Format, t *routetable.Table) ([]byte, error) {
	c, err := Lookup(format)
	if err != nil {
		return nil, err
	}
	if t == nil {
		t = &routetable.Table{}
	}
	return c.Encode(t)
}

// invalidUTF8Offset returns the offset of the first byte that does not
// start a valid UTF-8 sequence, or -1.
func invalidUTF8Offset(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

func checkUTF8(data []byte) error {
	if off := invalidUTF8Offset(data); off >= 0 {
		return fmt.Errorf("%w at byte %d", ErrInvalidUTF8, off)
	}
	return nil
}

// checkTableUTF8 rejects tables whose strings could not survive encoding.
func checkTableUTF8(t *routetable.Table) error {
	return t.Walk(func(v routetable.Visit) error {
		e := v.Entry
		for _, s := range []string{e.Path, e.Component.Module, e.Component.Hash, e.Sidebar} {
			if !utf8.ValidString(s) {
				return fmt.Errorf("%w in %s: %q", ErrInvalidUTF8, v.Location, s)
			}
		}
		return nil
	})
}
