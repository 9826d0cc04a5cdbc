// Package dumps encodes Go values as JSON text and decodes JSON text into an
// ordered value model.
//
// The encoder handles values JSON has no native form for, each under its own
// policy:
//
//   - byte strings: reject, UTF-8, ASCII or base64 (Options.Bytes)
//   - date/times: reject, ISO 8601 or a strftime pattern (Options.Datetime)
//   - mapping keys that are not text: stringify or reject (Options.Keys)
//   - NaN and infinities: reject, null or literal (Options.Floats)
//
// Sets (map[T]struct{}, bitsets) are written as sequences in a deterministic
// order, tuples (arrays) as sequences, and objects with no JSON mapping as
// their text representation. Cyclic input and nesting beyond Options.MaxDepth
// are reported as errors. Output is compact by default; Options.Indent or
// Pretty produce indented text.
//
// Decoding yields value.Value trees: *value.Mapping keeps document order and
// value.Number keeps integer literals exact. Tokenization is pluggable through
// JSONDriver (encoding/json by default, goccy/go-json in source/gojson).
//
// Every failure is a *Error carrying a stable code, a JSON Pointer for encode
// errors and a byte offset for decode errors.
//
// Typical usage:
//
//	s, err := dumps.Serialize(data, dumps.Options{Indent: 2, Bytes: dumps.BytesBase64})
//	v, err := dumps.Deserialize(s)
//
//	enc := dumps.NewEncoder(dumps.Options{Datetime: dumps.DatetimePattern("%Y-%m-%d")})
//	b, err := enc.Marshal(rows)
package dumps
