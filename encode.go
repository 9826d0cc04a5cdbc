package dumps

import (
	"strconv"
	"unicode/utf8"

	eng "github.com/kootenpv/dumps/internal/engine"
	"github.com/kootenpv/dumps/value"
)

// Marshal encodes v as JSON text under the last of opts (zero Options when
// none is given). On error no partial output is returned.
func Marshal(v any, opts ...Options) ([]byte, error) {
	return NewEncoder(lastOpt(opts)).Marshal(v)
}

// Serialize is Marshal returning a string.
func Serialize(v any, opts ...Options) (string, error) {
	b, err := Marshal(v, opts...)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Encoder holds one immutable configuration. It is safe for concurrent use.
type Encoder struct {
	opts Options
}

// NewEncoder returns an Encoder for opts.
func NewEncoder(opts Options) *Encoder {
	return &Encoder{opts: opts}
}

// Options returns the configuration the Encoder was built with.
func (enc *Encoder) Options() Options { return enc.opts }

// Marshal encodes v. The returned error is always a *Error.
func (enc *Encoder) Marshal(v any) ([]byte, error) {
	e := newEncodeState(enc.opts)
	if err := e.encode(v); err != nil {
		return nil, err
	}
	return e.buf, nil
}

// Serialize is Marshal returning a string.
func (enc *Encoder) Serialize(v any) (string, error) {
	b, err := enc.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type encodeState struct {
	buf      []byte
	opts     Options
	indent   int
	maxDepth int // 0 disables the check
	depth    int
	visiting map[visitKey]struct{}
	path     []string
}

func newEncodeState(opts Options) *encodeState {
	return &encodeState{
		buf:      make([]byte, 0, 64),
		opts:     opts,
		indent:   opts.indent(),
		maxDepth: effectiveDepth(opts.MaxDepth),
	}
}

func (e *encodeState) encode(v any) error {
	n, err := e.resolve(v)
	if err != nil {
		return e.fail(err)
	}
	switch n.kind {
	case kindIndirect:
		return e.visit(n.ident, func() error { return e.encode(n.elem(0)) })
	case value.KindSequence:
		return e.container(n, '[', ']', func(i int) error {
			e.path = append(e.path, strconv.Itoa(i))
			err := e.encode(n.elem(i))
			e.path = e.path[:len(e.path)-1]
			return err
		})
	case value.KindMapping:
		return e.container(n, '{', '}', func(i int) error {
			key := n.keys[i]
			e.buf = appendString(e.buf, key)
			e.buf = append(e.buf, ": "...)
			e.path = append(e.path, key)
			err := e.encode(n.elem(i))
			e.path = e.path[:len(e.path)-1]
			return err
		})
	}
	return e.encodeLeaf(n.leaf)
}

// container writes a sequence or mapping. item writes the i-th element
// (with its key for mappings) at the current buffer position.
func (e *encodeState) container(n node, open, end byte, item func(i int) error) error {
	e.depth++
	defer func() { e.depth-- }()
	if e.maxDepth > 0 && e.depth > e.maxDepth {
		return e.fail(newError(CodeDepthExceeded, "", "max depth %d exceeded", e.maxDepth))
	}
	return e.visit(n.ident, func() error {
		e.buf = append(e.buf, open)
		if n.n == 0 {
			e.buf = append(e.buf, end)
			return nil
		}
		for i := 0; i < n.n; i++ {
			if i > 0 {
				if e.indent > 0 {
					e.buf = append(e.buf, ',')
				} else {
					e.buf = append(e.buf, ", "...)
				}
			}
			if e.indent > 0 {
				e.buf = append(e.buf, '\n')
				e.buf = append(e.buf, indentation(e.depth, e.indent)...)
			}
			if err := item(i); err != nil {
				return err
			}
		}
		if e.indent > 0 {
			e.buf = append(e.buf, '\n')
			e.buf = append(e.buf, indentation(e.depth-1, e.indent)...)
		}
		e.buf = append(e.buf, end)
		return nil
	})
}

// visit runs fn with id marked as currently being visited. Inputs without
// identity (arrays, empty slices, scalars) are never tracked.
func (e *encodeState) visit(id visitKey, fn func() error) error {
	if id.ptr == 0 {
		return fn()
	}
	if _, ok := e.visiting[id]; ok {
		return e.fail(newError(CodeCyclicReference, "", "%s refers back to itself", id.typ))
	}
	if e.visiting == nil {
		e.visiting = make(map[visitKey]struct{})
	}
	e.visiting[id] = struct{}{}
	defer delete(e.visiting, id)
	return fn()
}

func (e *encodeState) encodeLeaf(v value.Value) error {
	switch x := v.(type) {
	case value.Null:
		e.buf = append(e.buf, "null"...)
	case value.Bool:
		e.buf = strconv.AppendBool(e.buf, bool(x))
	case value.Number:
		return e.writeNumber(x)
	case value.Text:
		e.buf = appendString(e.buf, string(x))
	case value.Bytes:
		b, err := appendBytes(e.buf, x, e.opts.Bytes)
		if err != nil {
			return e.fail(err)
		}
		e.buf = b
	case value.Instant:
		return e.writeInstant(x)
	default:
		s, err := repr(v)
		if err != nil {
			return e.fail(err)
		}
		e.buf = appendString(e.buf, s)
	}
	return nil
}

func (e *encodeState) writeNumber(n value.Number) error {
	if n.IsFinite() {
		e.buf = append(e.buf, n.String()...)
		return nil
	}
	switch e.opts.Floats {
	case FloatNull:
		e.buf = append(e.buf, "null"...)
	case FloatLiteral:
		e.buf = append(e.buf, n.String()...)
	default:
		return e.fail(newError(CodeInvalidNumber, "", "%s is not representable in JSON", n))
	}
	return nil
}

func (e *encodeState) writeInstant(in value.Instant) error {
	if p, ok := e.opts.Datetime.Pattern(); ok {
		s, err := formatPattern(p, in)
		if err != nil {
			return e.fail(err)
		}
		e.buf = appendString(e.buf, s)
		return nil
	}
	if e.opts.Datetime.kind == datetimeReject {
		return e.fail(newError(CodeUnsupportedDatetime, "", "date/time %s is not serializable; choose a datetime mode", in.Time.Format("2006-01-02T15:04:05")))
	}
	e.buf = append(e.buf, '"')
	e.buf = appendISO8601(e.buf, in)
	e.buf = append(e.buf, '"')
	return nil
}

// remainingDepth is the nesting budget left for embedded JSON.
func (e *encodeState) remainingDepth() int {
	if e.maxDepth == 0 {
		return -1
	}
	if r := e.maxDepth - e.depth; r > 0 {
		return r
	}
	return 1
}

// pointer renders the current path as a JSON Pointer.
func (e *encodeState) pointer() string {
	p := ""
	for _, seg := range e.path {
		p = eng.JoinPointer(p, seg)
	}
	return p
}

// fail returns err as a *Error located at the current path. Errors that
// already carry a path are returned unchanged.
func (e *encodeState) fail(err error) error {
	de, ok := AsError(err)
	if !ok {
		return wrapError(err, CodeMarshalerFailed, e.pointer(), "")
	}
	if de.Path != "" {
		return de
	}
	cp := *de
	cp.Path = e.pointer()
	return &cp
}

const hex = "0123456789abcdef"

// appendString writes s as a quoted JSON string. Control characters are
// escaped; other runes pass through and invalid UTF-8 becomes U+FFFD.
func appendString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			if c >= 0x20 && c != '"' && c != '\\' {
				i++
				continue
			}
			dst = append(dst, s[start:i]...)
			switch c {
			case '"', '\\':
				dst = append(dst, '\\', c)
			case '\b':
				dst = append(dst, '\\', 'b')
			case '\f':
				dst = append(dst, '\\', 'f')
			case '\n':
				dst = append(dst, '\\', 'n')
			case '\r':
				dst = append(dst, '\\', 'r')
			case '\t':
				dst = append(dst, '\\', 't')
			default:
				dst = append(dst, '\\', 'u', '0', '0', hex[c>>4], hex[c&0xf])
			}
			i++
			start = i
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			dst = append(dst, s[start:i]...)
			dst = append(dst, "\ufffd"...)
			i++
			start = i
			continue
		}
		i += size
	}
	dst = append(dst, s[start:]...)
	return append(dst, '"')
}
