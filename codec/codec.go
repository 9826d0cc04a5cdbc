// Package codec turns documents in other formats into Go trees that the
// dumps encoder understands, so byte strings, timestamps and non-text keys
// found in real data go through the configured policies.
//
// Decoded trees use nil, bool, int64/uint64/float64/*big.Int, string,
// []byte, time.Time, []any, *Map and map[any]any. JSON and JSONC input is
// decoded straight into the value model.
package codec

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/kootenpv/dumps"
)

// Format identifies an input document format.
type Format int

const (
	JSON Format = iota
	JSONC
	YAML
	CBOR
	Msgpack
)

var formatNames = [...]string{"json", "jsonc", "yaml", "cbor", "msgpack"}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "unknown"
}

// ParseFormat accepts the names printed by Format.String and common aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return JSON, nil
	case "jsonc", "json5":
		return JSONC, nil
	case "yaml", "yml":
		return YAML, nil
	case "cbor":
		return CBOR, nil
	case "msgpack", "mpk", "messagepack":
		return Msgpack, nil
	}
	return JSON, errors.Newf("unknown format %q", s)
}

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return JSON, false
	}
	f, err := ParseFormat(ext)
	return f, err == nil
}

// Decode parses one document of the given format.
func Decode(f Format, data []byte) (any, error) {
	switch f {
	case JSON:
		return decodeJSON(data, dumps.DecodeOptions{})
	case JSONC:
		return DecodeJSONC(data)
	case YAML:
		return DecodeYAML(data)
	case CBOR:
		return DecodeCBOR(data)
	case Msgpack:
		return DecodeMsgpack(data)
	}
	return nil, errors.Newf("unsupported format %d", int(f))
}

// DecodeJSONC decodes JSON with comments and trailing commas.
func DecodeJSONC(data []byte) (any, error) {
	return decodeJSON(data, dumps.DecodeOptions{Comments: true})
}

func decodeJSON(data []byte, opt dumps.DecodeOptions) (any, error) {
	v, err := dumps.Unmarshal(data, opt)
	if err != nil {
		return nil, err
	}
	return v, nil
}
