package engine

import (
	"strconv"
	"strings"
)

// Enforcement wrapper for TokenSource to apply duplicate key handling and
// max depth checks in a streaming fashion.

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupError
)

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	// MaxDepth caps container nesting; 0 disables the check.
	MaxDepth int
}

// SimpleIssue is a minimal issue representation used by internal helpers.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
	Offset  int64
}

// IssueError is a lightweight error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	keys         map[string]struct{}
	expectingKey bool
	path         string
	nextIndex    int
	pendingKey   string
}

// WrapWithEnforcement returns a TokenSource that enforces the duplicate key
// policy and the maximum nesting depth.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	if opt.OnDuplicate == DupIgnore && opt.MaxDepth <= 0 {
		return inner
	}
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
}

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}

	path := e.currentPathForToken(tok)

	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		f := frame{kind: kindArray, path: path}
		if tok.Kind == KindBeginObject {
			f = frame{kind: kindObject, expectingKey: true, path: path}
			if e.opt.OnDuplicate == DupError {
				f.keys = make(map[string]struct{})
			}
		}
		e.stack = append(e.stack, f)
		if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
			return Token{}, IssueError{SimpleIssue{
				Code:    "depth_exceeded",
				Path:    normalizeIssuePath(path),
				Message: "max depth " + strconv.Itoa(e.opt.MaxDepth) + " exceeded",
				Offset:  tok.Offset,
			}}
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
		e.valueDone()
	case KindKey:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			if top.kind == kindObject && top.expectingKey {
				if top.keys != nil {
					if _, ok := top.keys[tok.String]; ok {
						return Token{}, IssueError{SimpleIssue{
							Code:    "duplicate_key",
							Path:    normalizeIssuePath(path),
							Message: "key '" + tok.String + "' duplicated",
							Offset:  tok.Offset,
						}}
					}
					top.keys[tok.String] = struct{}{}
				}
				top.expectingKey = false
				top.pendingKey = tok.String
			}
		}
	case KindString, KindNumber, KindBool, KindNull:
		e.valueDone()
	}
	return tok, nil
}

// valueDone flips the enclosing object back to expecting a key.
func (e *enforcingTokenSource) valueDone() {
	if n := len(e.stack); n > 0 {
		top := &e.stack[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
			top.pendingKey = ""
		}
	}
}

func (e *enforcingTokenSource) Location() int64 { return e.inner.Location() }

func (e *enforcingTokenSource) currentPathForToken(tok Token) string {
	if len(e.stack) == 0 {
		return ""
	}
	top := &e.stack[len(e.stack)-1]
	switch tok.Kind {
	case KindKey:
		return JoinPointer(top.path, tok.String)
	case KindBeginObject, KindBeginArray, KindString, KindNumber, KindBool, KindNull:
		if top.kind == kindArray {
			p := JoinPointer(top.path, strconv.Itoa(top.nextIndex))
			top.nextIndex++
			return p
		}
		if !top.expectingKey {
			return JoinPointer(top.path, top.pendingKey)
		}
	}
	return top.path
}

func normalizeIssuePath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

var jsonPointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// JoinPointer appends one reference token to a JSON Pointer (RFC 6901).
func JoinPointer(base, token string) string {
	return base + "/" + jsonPointerEscaper.Replace(token)
}
