package engine

import (
	"errors"
	"io"

	"github.com/kootenpv/dumps/value"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// SyntaxError reports a structural problem found while assembling values
// from an otherwise well-formed token stream.
type SyntaxError struct {
	Msg    string
	Offset int64
}

func (e *SyntaxError) Error() string { return e.Msg }

// DecodeValue builds exactly one value from src and requires the stream to
// end right after it.
func DecodeValue(src TokenSource) (value.Value, error) {
	tok, err := src.NextToken()
	if err != nil {
		return nil, endOfInput(src, err, "unexpected end of input")
	}
	v, err := decodeValue(src, tok)
	if err != nil {
		return nil, err
	}
	switch _, err := src.NextToken(); {
	case err == nil:
		return nil, &SyntaxError{Msg: "trailing input after top-level value", Offset: src.Location()}
	case errors.Is(err, io.EOF):
		return v, nil
	default:
		return nil, err
	}
}

func decodeValue(src TokenSource, tok Token) (value.Value, error) {
	switch tok.Kind {
	case KindBeginObject:
		return decodeObject(src)
	case KindBeginArray:
		return decodeArray(src)
	case KindString:
		return value.Text(tok.String), nil
	case KindNumber:
		n, err := value.ParseNumber(tok.Number)
		if err != nil {
			return nil, &SyntaxError{Msg: "invalid number literal " + tok.Number, Offset: tok.Offset}
		}
		return n, nil
	case KindBool:
		return value.Bool(tok.Bool), nil
	case KindNull:
		return value.Null{}, nil
	default:
		return nil, &SyntaxError{Msg: "unexpected token", Offset: tok.Offset}
	}
}

func decodeObject(src TokenSource) (value.Value, error) {
	m := value.NewMapping()
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, endOfInput(src, err, "unterminated object")
		}
		if tok.Kind == KindEndObject {
			return m, nil
		}
		if tok.Kind != KindKey {
			return nil, &SyntaxError{Msg: "expected object key", Offset: tok.Offset}
		}
		vt, err := src.NextToken()
		if err != nil {
			return nil, endOfInput(src, err, "unterminated object")
		}
		v, err := decodeValue(src, vt)
		if err != nil {
			return nil, err
		}
		m.Set(tok.String, v)
	}
}

func decodeArray(src TokenSource) (value.Value, error) {
	arr := value.Sequence{}
	for {
		tok, err := src.NextToken()
		if err != nil {
			return nil, endOfInput(src, err, "unterminated array")
		}
		if tok.Kind == KindEndArray {
			return arr, nil
		}
		v, err := decodeValue(src, tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

// endOfInput turns a premature EOF into a SyntaxError and passes any other
// error through.
func endOfInput(src TokenSource, err error, msg string) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &SyntaxError{Msg: msg, Offset: src.Location()}
	}
	return err
}
