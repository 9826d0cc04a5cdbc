package dumps

import (
	"reflect"
	"sort"
	"strings"

	"github.com/kootenpv/dumps/value"
)

// Set elements are ordered null < bools < numbers < text < everything else.
const (
	rankNull = iota
	rankBool
	rankNumber
	rankText
	rankOther
)

type setElem struct {
	v    any
	rank int
	leaf value.Value
	enc  string // compact encoding, for rankOther
	typ  string
}

// resolveSet turns map[T]struct{} into a Sequence with a deterministic
// element order.
func (e *encodeState) resolveSet(rv reflect.Value) (node, error) {
	elems := make([]setElem, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		elems = append(elems, e.setElem(iter.Key().Interface()))
	}
	sort.SliceStable(elems, func(i, j int) bool { return compareSetElems(elems[i], elems[j]) < 0 })
	return node{
		kind:  value.KindSequence,
		n:     len(elems),
		elem:  func(i int) any { return elems[i].v },
		ident: visitKey{ptr: rv.Pointer(), typ: rv.Type()},
	}, nil
}

func (e *encodeState) setElem(v any) setElem {
	el := setElem{v: v, rank: rankOther}
	if t := reflect.TypeOf(v); t != nil {
		el.typ = t.String()
	}
	scratch := &encodeState{opts: e.opts, maxDepth: e.maxDepth}
	if n, err := scratch.resolve(v); err == nil {
		switch n.kind {
		case value.KindNull:
			el.rank = rankNull
		case value.KindBool:
			el.rank = rankBool
		case value.KindNumber:
			el.rank = rankNumber
		case value.KindText:
			el.rank = rankText
		}
		el.leaf = n.leaf
	}
	if el.rank == rankOther {
		if b, err := NewEncoder(Options{Bytes: BytesBase64, Floats: FloatLiteral, MaxDepth: e.opts.MaxDepth}).Marshal(v); err == nil {
			el.enc = string(b)
		} else if s, err := repr(v); err == nil {
			el.enc = s
		}
	}
	return el
}

func compareSetElems(a, b setElem) int {
	if a.rank != b.rank {
		return a.rank - b.rank
	}
	c := 0
	switch a.rank {
	case rankBool:
		x, y := bool(a.leaf.(value.Bool)), bool(b.leaf.(value.Bool))
		switch {
		case x == y:
		case !x:
			c = -1
		default:
			c = 1
		}
	case rankNumber:
		c = a.leaf.(value.Number).Compare(b.leaf.(value.Number))
	case rankText:
		c = strings.Compare(string(a.leaf.(value.Text)), string(b.leaf.(value.Text)))
	case rankOther:
		c = strings.Compare(a.enc, b.enc)
	}
	if c != 0 {
		return c
	}
	return strings.Compare(a.typ, b.typ)
}
