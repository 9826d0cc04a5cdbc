package codec

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// DecodeMsgpack decodes one MessagePack value. Maps keep their order and key
// types, bin values become []byte and timestamp extensions time.Time.
func DecodeMsgpack(data []byte) (any, error) {
	r := bytes.NewReader(data)
	dec := msgpack.NewDecoder(r)
	v, err := decodeMsgpack(dec)
	if err != nil {
		return nil, errors.Wrap(err, "decode msgpack")
	}
	if r.Len() > 0 {
		return nil, errors.Newf("decode msgpack: %d trailing bytes", r.Len())
	}
	return v, nil
}

func decodeMsgpack(dec *msgpack.Decoder) (any, error) {
	c, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}
	switch {
	case msgpcode.IsFixedMap(c), c == msgpcode.Map16, c == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return nil, err
		}
		m := &Map{}
		for i := 0; i < n; i++ {
			k, err := decodeMsgpack(dec)
			if err != nil {
				return nil, err
			}
			v, err := decodeMsgpack(dec)
			if err != nil {
				return nil, err
			}
			m.Set(k, v)
		}
		return m, nil
	case msgpcode.IsFixedArray(c), c == msgpcode.Array16, c == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, min(n, 1024))
		for i := 0; i < n; i++ {
			v, err := decodeMsgpack(dec)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
	return dec.DecodeInterfaceLoose()
}
