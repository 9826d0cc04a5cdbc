package value

import "bytes"

// Equal reports whether a and b are the same variant with equal contents.
// A nil Value equals Null.
func Equal(a, b Value) bool {
	if a == nil {
		a = Null{}
	}
	if b == nil {
		b = Null{}
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Null:
		return true
	case Bool:
		return x == b.(Bool)
	case Number:
		return x.Equal(b.(Number))
	case Text:
		return x == b.(Text)
	case Sequence:
		y := b.(Sequence)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Mapping:
		return x.Equal(b.(*Mapping))
	case Bytes:
		return bytes.Equal(x, b.(Bytes))
	case Instant:
		y := b.(Instant)
		return x.Naive == y.Naive && x.Time.Equal(y.Time)
	}
	return false
}

// Native converts v into plain Go values: nil, bool, int64, *big.Int,
// float64, string, []any and map[string]any. Bytes and Instant are returned
// as []byte and time.Time.
func Native(v Value) any {
	switch x := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(x)
	case Number:
		if i, ok := x.Int64(); ok {
			return i
		}
		if b, ok := x.BigInt(); ok {
			return b
		}
		return x.Float64()
	case Text:
		return string(x)
	case Sequence:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Native(e)
		}
		return out
	case *Mapping:
		out := make(map[string]any, x.Len())
		x.Range(func(k string, e Value) bool {
			out[k] = Native(e)
			return true
		})
		return out
	case Bytes:
		return []byte(x)
	case Instant:
		return x.Time
	}
	return nil
}
