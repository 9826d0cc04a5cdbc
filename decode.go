package dumps

import (
	"bytes"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/jsonc"

	eng "github.com/kootenpv/dumps/internal/engine"
	"github.com/kootenpv/dumps/value"
)

// Unmarshal decodes one JSON document into the value model. Objects become
// *value.Mapping in document order, arrays value.Sequence, and numbers keep
// their literal precision. The returned error is always a *Error.
func Unmarshal(data []byte, opts ...DecodeOptions) (value.Value, error) {
	opt := lastOpt(opts)
	if opt.Comments {
		data = jsonc.ToJSON(data)
	}
	return decodeFrom(driverFor(opt).NewBytes(data), opt)
}

// Deserialize is Unmarshal for text input.
func Deserialize(text string, opts ...DecodeOptions) (value.Value, error) {
	return Unmarshal([]byte(text), opts...)
}

// DecodeReader reads r to the end and decodes it. With Comments set the input
// is buffered so it can be stripped first.
func DecodeReader(r io.Reader, opts ...DecodeOptions) (value.Value, error) {
	opt := lastOpt(opts)
	if opt.Comments {
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(r); err != nil {
			return nil, wrapError(err, CodeMalformedInput, "", "read input")
		}
		return Unmarshal(buf.Bytes(), opt)
	}
	return decodeFrom(driverFor(opt).NewReader(r), opt)
}

// DecodeFrom decodes the document produced by an arbitrary Source.
func DecodeFrom(src Source, opts ...DecodeOptions) (value.Value, error) {
	return decodeFrom(src, lastOpt(opts))
}

func driverFor(opt DecodeOptions) JSONDriver {
	if opt.Driver != nil {
		return opt.Driver
	}
	return CurrentJSONDriver()
}

func decodeFrom(src Source, opt DecodeOptions) (value.Value, error) {
	dup := eng.DupIgnore
	if opt.DuplicateKeys == Fail {
		dup = eng.DupError
	}
	wrapped := eng.WrapWithEnforcement(src, eng.EnforceOptions{
		OnDuplicate: dup,
		MaxDepth:    effectiveDepth(opt.MaxDepth),
	})
	v, err := eng.DecodeValue(wrapped)
	if err != nil {
		return nil, decodeError(err, src)
	}
	return v, nil
}

// decodeError maps engine and driver failures onto *Error.
func decodeError(err error, src Source) *Error {
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return &Error{Code: ie.Code, Path: ie.Path, Offset: ie.Offset, Message: ie.Message}
	}
	var se *eng.SyntaxError
	if errors.As(err, &se) {
		return &Error{Code: CodeMalformedInput, Offset: se.Offset, Message: se.Msg}
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &Error{Code: CodeMalformedInput, Offset: src.Location(), Message: "unexpected end of input"}
	}
	e := wrapError(err, CodeMalformedInput, "", "")
	e.Offset = src.Location()
	return e
}
