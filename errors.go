package dumps

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/kootenpv/dumps/i18n"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeUnsupportedBytes    = "unsupported_bytes"
	CodeInvalidByteEncoding = "invalid_byte_encoding"
	CodeUnsupportedDatetime = "unsupported_datetime"
	CodeInvalidPattern      = "invalid_pattern"
	CodeNonTextKey          = "non_text_key"
	CodeInvalidNumber       = "invalid_number"
	CodeCyclicReference     = "cyclic_reference"
	CodeMarshalerFailed     = "marshaler_failed"
	// Decoder
	CodeMalformedInput = "malformed_input"
	CodeDuplicateKey   = "duplicate_key"
	// Both directions
	CodeDepthExceeded = "depth_exceeded"
)

// Error is the failure result of every encode and decode call.
type Error struct {
	Code    string // One of the codes listed above.
	Path    string // JSON Pointer of the offending node ("" when unknown).
	Offset  int64  // Byte offset in the decoder input (-1 when unknown).
	Message string // Optional detail; defaults to the translated code message.
	Cause   error  // Optional underlying error.
}

// Sentinels for errors.Is; they match any *Error carrying the same code.
var (
	ErrUnsupportedBytes    = &Error{Code: CodeUnsupportedBytes, Offset: -1}
	ErrInvalidByteEncoding = &Error{Code: CodeInvalidByteEncoding, Offset: -1}
	ErrUnsupportedDatetime = &Error{Code: CodeUnsupportedDatetime, Offset: -1}
	ErrInvalidPattern      = &Error{Code: CodeInvalidPattern, Offset: -1}
	ErrNonTextKey          = &Error{Code: CodeNonTextKey, Offset: -1}
	ErrInvalidNumber       = &Error{Code: CodeInvalidNumber, Offset: -1}
	ErrCyclicReference     = &Error{Code: CodeCyclicReference, Offset: -1}
	ErrMarshalerFailed     = &Error{Code: CodeMarshalerFailed, Offset: -1}
	ErrMalformedInput      = &Error{Code: CodeMalformedInput, Offset: -1}
	ErrDuplicateKey        = &Error{Code: CodeDuplicateKey, Offset: -1}
	ErrDepthExceeded       = &Error{Code: CodeDepthExceeded, Offset: -1}
)

// Error renders e.g. "unsupported_bytes at /payload: bytes are not serializable".
func (e *Error) Error() string {
	b := &strings.Builder{}
	b.WriteString(e.Code)
	if e.Path != "" {
		fmt.Fprintf(b, " at %s", e.Path)
	}
	if e.Offset >= 0 {
		fmt.Fprintf(b, " (offset %d)", e.Offset)
	}
	msg := e.Message
	if msg == "" {
		msg = i18n.T(e.Code, nil)
	}
	if msg != "" && msg != e.Code {
		b.WriteString(": ")
		b.WriteString(msg)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error by code, so the sentinels above work with
// errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// AsError extracts the *Error from err using errors.As internally.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func newError(code, path, format string, args ...any) *Error {
	return &Error{Code: code, Path: path, Offset: -1, Message: fmt.Sprintf(format, args...)}
}

func wrapError(cause error, code, path, msg string) *Error {
	return &Error{Code: code, Path: path, Offset: -1, Message: msg, Cause: errors.WithStack(cause)}
}
