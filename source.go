package dumps

import (
	"io"
	"sync"

	eng "github.com/kootenpv/dumps/internal/engine"
	jsonsrc "github.com/kootenpv/dumps/source/json"
)

// TokenKind enumerates JSON token kinds produced by a Source.
type TokenKind = eng.Kind

const (
	TokenBeginObject TokenKind = eng.KindBeginObject
	TokenEndObject   TokenKind = eng.KindEndObject
	TokenBeginArray  TokenKind = eng.KindBeginArray
	TokenEndArray    TokenKind = eng.KindEndArray
	TokenKey         TokenKind = eng.KindKey
	TokenString      TokenKind = eng.KindString
	TokenNumber      TokenKind = eng.KindNumber
	TokenBool        TokenKind = eng.KindBool
	TokenNull        TokenKind = eng.KindNull
)

// Token describes a token in the input stream. Number tokens keep their
// literal text. Offset records the byte position when known (-1 otherwise).
type Token = eng.Token

// Source yields the tokens of one JSON document. NextToken returns io.EOF
// after the last token; Location reports the current byte offset or -1.
type Source = eng.TokenSource

// JSONDriver converts JSON input into a Source via a pluggable SPI. The default
// implementation is based on encoding/json and may be swapped with SetJSONDriver
// or per call through DecodeOptions.Driver.
type JSONDriver interface {
	NewReader(r io.Reader) Source
	NewBytes(b []byte) Source
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = defaultJSONDriver{}
)

// SetJSONDriver replaces the process-wide default driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the default encoding/json-backed driver.
func UseDefaultJSONDriver() {
	jsonDriverMu.Lock()
	currentJSONDriver = defaultJSONDriver{}
	jsonDriverMu.Unlock()
}

// CurrentJSONDriver returns the process-wide default driver.
func CurrentJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

// defaultJSONDriver wraps the encoding/json implementation.
type defaultJSONDriver struct{}

func (defaultJSONDriver) NewReader(r io.Reader) Source { return jsonsrc.NewReader(r) }
func (defaultJSONDriver) NewBytes(b []byte) Source     { return jsonsrc.NewBytes(b) }
func (defaultJSONDriver) Name() string                 { return "encoding/json" }
