package codec

import (
	"math"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fxamacker/cbor/v2"

	"github.com/kootenpv/dumps"
)

var cborDec = mustCBORDecMode()

func mustCBORDecMode() cbor.DecMode {
	dm, err := cbor.DecOptions{MaxNestedLevels: dumps.DefaultMaxDepth}.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}

// DecodeCBOR decodes one CBOR data item. Maps become map[any]any (their key
// order is not kept), byte strings []byte and time tags time.Time in UTC.
// Other tags are replaced by their content.
func DecodeCBOR(data []byte) (any, error) {
	var v any
	if err := cborDec.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrap(err, "decode cbor")
	}
	return normalizeCBOR(v)
}

func normalizeCBOR(v any) (any, error) {
	switch x := v.(type) {
	case []any:
		for i, e := range x {
			n, err := normalizeCBOR(e)
			if err != nil {
				return nil, err
			}
			x[i] = n
		}
		return x, nil
	case map[any]any:
		for k, e := range x {
			n, err := normalizeCBOR(e)
			if err != nil {
				return nil, err
			}
			x[k] = n
		}
		return x, nil
	case time.Time:
		return x.UTC(), nil
	case cbor.Tag:
		switch x.Number {
		case 0:
			if s, ok := x.Content.(string); ok {
				t, err := time.Parse(time.RFC3339Nano, s)
				if err != nil {
					return nil, errors.Wrap(err, "cbor tag 0")
				}
				return t.UTC(), nil
			}
		case 1:
			if t, ok := epochTime(x.Content); ok {
				return t, nil
			}
		}
		return normalizeCBOR(x.Content)
	}
	return v, nil
}

func epochTime(c any) (time.Time, bool) {
	switch n := c.(type) {
	case uint64:
		return time.Unix(int64(n), 0).UTC(), true
	case int64:
		return time.Unix(n, 0).UTC(), true
	case float64:
		sec, frac := math.Modf(n)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC(), true
	}
	return time.Time{}, false
}
