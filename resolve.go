package dumps

import (
	"encoding"
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/bits-and-blooms/bitset"
	gojson "github.com/goccy/go-json"
	"github.com/golang-module/carbon/v2"

	"github.com/kootenpv/dumps/value"
)

// ValueMarshaler is implemented by types that describe themselves in the
// value model. The returned value is resolved like any other input.
type ValueMarshaler interface {
	MarshalValue() (value.Value, error)
}

// Reprer is implemented by types that have no JSON mapping but a readable
// text form. Its result is emitted as a JSON string.
type Reprer interface {
	Repr() string
}

// OrderedMapping is implemented by keyed collections that keep insertion
// order and may hold keys that are not text. Keys follow the KeyPolicy; when
// two keys share a text form the later value wins in the earlier position.
type OrderedMapping interface {
	Len() int
	KeyAt(i int) any
	ValueAt(i int) any
}

// numberLike matches json.Number style literal wrappers from any package.
type numberLike interface {
	String() string
	Int64() (int64, error)
	Float64() (float64, error)
}

// kindIndirect marks a pointer whose target is resolved after the pointer
// itself is registered as being visited.
const kindIndirect value.Kind = 255

// node is one resolved input. Containers resolve their elements lazily
// through elem so traversal stays depth-first.
type node struct {
	kind  value.Kind
	leaf  value.Value
	n     int
	elem  func(i int) any
	keys  []string
	ident visitKey
}

// visitKey identifies a reference-typed input for cycle detection.
type visitKey struct {
	ptr uintptr
	typ reflect.Type
	n   int
}

func leaf(v value.Value) node { return node{kind: v.Kind(), leaf: v} }

func textLeaf(s string) node { return leaf(value.Text(s)) }

var (
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
)

// resolve maps one arbitrary input onto a value model variant. It only
// fails for non-text keys under KeyReject, for embedded JSON that does not
// decode, and for errors reported by a ValueMarshaler.
func (e *encodeState) resolve(v any) (node, error) {
	if v == nil {
		return leaf(value.Null{}), nil
	}
	if vv, ok := v.(value.Value); ok {
		return e.resolveValue(vv)
	}
	if isNilRef(v) {
		return leaf(value.Null{}), nil
	}

	switch x := v.(type) {
	case ValueMarshaler:
		vv, err := x.MarshalValue()
		if err != nil {
			if de, ok := AsError(err); ok {
				return node{}, de
			}
			return node{}, wrapError(err, CodeMarshalerFailed, "", fmt.Sprintf("%T.MarshalValue", v))
		}
		if vv == nil {
			return leaf(value.Null{}), nil
		}
		return e.resolveValue(vv)
	case Reprer:
		return textLeaf(x.Repr()), nil

	case bool:
		return leaf(value.Bool(x)), nil
	case string:
		return textLeaf(x), nil
	case int:
		return leaf(value.Int(int64(x))), nil
	case int8:
		return leaf(value.Int(int64(x))), nil
	case int16:
		return leaf(value.Int(int64(x))), nil
	case int32:
		return leaf(value.Int(int64(x))), nil
	case int64:
		return leaf(value.Int(x)), nil
	case uint:
		return leaf(value.Uint(uint64(x))), nil
	case uint8:
		return leaf(value.Uint(uint64(x))), nil
	case uint16:
		return leaf(value.Uint(uint64(x))), nil
	case uint32:
		return leaf(value.Uint(uint64(x))), nil
	case uint64:
		return leaf(value.Uint(x)), nil
	case float32:
		return leaf(value.Float32(x)), nil
	case float64:
		return leaf(value.Float(x)), nil
	case *big.Int:
		return leaf(value.BigInt(x)), nil
	case big.Int:
		return leaf(value.BigInt(&x)), nil
	case numberLike:
		if n, err := value.ParseNumber(x.String()); err == nil {
			return leaf(n), nil
		}
		return textLeaf(x.String()), nil

	case []byte:
		return leaf(value.Bytes(x)), nil
	case json.RawMessage:
		return e.resolveJSON(x)

	case time.Time:
		return leaf(value.AwareTime(x)), nil
	case carbon.Carbon:
		return resolveCarbon(x)
	case *carbon.Carbon:
		return resolveCarbon(*x)

	case *bitset.BitSet:
		return resolveBitSet(x), nil
	case bitset.BitSet:
		return resolveBitSet(&x), nil
	case OrderedMapping:
		return e.resolveOrdered(x)
	}

	return e.resolveReflect(v)
}

// resolveValue passes value model inputs through; containers become lazy
// nodes so policies and depth checks apply to their children. Pointers to
// variants other than *value.Mapping are followed.
func (e *encodeState) resolveValue(v value.Value) (node, error) {
	if _, ok := v.(*value.Mapping); !ok {
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return leaf(value.Null{}), nil
			}
			if vv, ok := rv.Elem().Interface().(value.Value); ok {
				return e.resolveValue(vv)
			}
		}
	}
	switch x := v.(type) {
	case value.Sequence:
		n := node{kind: value.KindSequence, n: len(x), elem: func(i int) any { return x[i] }}
		if len(x) > 0 {
			n.ident = visitKey{ptr: reflect.ValueOf(x).Pointer(), typ: reflect.TypeOf(x), n: len(x)}
		}
		return n, nil
	case *value.Mapping:
		if x == nil {
			return leaf(value.Null{}), nil
		}
		return node{
			kind:  value.KindMapping,
			n:     x.Len(),
			keys:  x.Keys(),
			elem:  func(i int) any { return x.At(i).Value },
			ident: visitKey{ptr: reflect.ValueOf(x).Pointer(), typ: reflect.TypeOf(x)},
		}, nil
	}
	return leaf(v), nil
}

// resolveJSON embeds pre-encoded JSON by decoding it into the value model.
func (e *encodeState) resolveJSON(raw []byte) (node, error) {
	v, err := Unmarshal(raw, DecodeOptions{MaxDepth: e.remainingDepth()})
	if err != nil {
		return node{}, err
	}
	return e.resolveValue(v)
}

func resolveCarbon(c carbon.Carbon) (node, error) {
	if c.Error != nil {
		return textLeaf(c.Error.Error()), nil
	}
	return leaf(value.AwareTime(c.ToStdTime())), nil
}

// resolveBitSet lists the set bits in ascending order.
func resolveBitSet(b *bitset.BitSet) node {
	var idx []uint
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		idx = append(idx, i)
	}
	return node{kind: value.KindSequence, n: len(idx), elem: func(i int) any { return idx[i] }}
}

func (e *encodeState) resolveReflect(v any) (node, error) {
	rv := reflect.ValueOf(v)
	t := rv.Type()

	// A pointer is followed unless only the pointer carries the marshaler,
	// so *time.Time reaches the datetime policy.
	if rv.Kind() == reflect.Pointer && (!selfDescribing(t) || selfDescribing(t.Elem())) {
		return node{
			kind:  kindIndirect,
			n:     1,
			elem:  func(int) any { return rv.Elem().Interface() },
			ident: visitKey{ptr: rv.Pointer(), typ: t},
		}, nil
	}

	// Self-describing types come before their underlying kind, so net.IP
	// renders as text rather than bytes.
	if t.Implements(jsonMarshalerType) {
		if raw, err := gojson.Marshal(v); err == nil {
			return e.resolveJSON(raw)
		}
		return reprLeaf(v)
	}
	if t.Implements(textMarshalerType) {
		if b, err := v.(encoding.TextMarshaler).MarshalText(); err == nil {
			return textLeaf(string(b)), nil
		}
		return reprLeaf(v)
	}

	switch rv.Kind() {
	case reflect.Bool:
		return leaf(value.Bool(rv.Bool())), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return leaf(value.Int(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return leaf(value.Uint(rv.Uint())), nil
	case reflect.Float32:
		return leaf(value.Float32(float32(rv.Float()))), nil
	case reflect.Float64:
		return leaf(value.Float(rv.Float())), nil
	case reflect.String:
		return textLeaf(rv.String()), nil

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return leaf(value.Bytes(rv.Bytes())), nil
		}
		n := sequenceNode(rv)
		if rv.Len() > 0 {
			n.ident = visitKey{ptr: rv.Pointer(), typ: t, n: rv.Len()}
		}
		return n, nil
	case reflect.Array:
		return sequenceNode(rv), nil

	case reflect.Map:
		if isSetType(t) {
			return e.resolveSet(rv)
		}
		return e.resolveMap(rv)
	}

	if s, ok := v.(fmt.Stringer); ok {
		return textLeaf(s.String()), nil
	}
	return reprLeaf(v)
}

func selfDescribing(t reflect.Type) bool {
	return t.Implements(jsonMarshalerType) || t.Implements(textMarshalerType)
}

func reprLeaf(v any) (node, error) {
	s, err := repr(v)
	if err != nil {
		return node{}, err
	}
	return textLeaf(s), nil
}

func sequenceNode(rv reflect.Value) node {
	return node{kind: value.KindSequence, n: rv.Len(), elem: func(i int) any { return rv.Index(i).Interface() }}
}

// isSetType reports map[T]struct{}, the Go idiom for a set.
func isSetType(t reflect.Type) bool {
	et := t.Elem()
	return et.Kind() == reflect.Struct && et.NumField() == 0
}

func (e *encodeState) resolveMap(rv reflect.Value) (node, error) {
	type entry struct {
		key  string
		typ  string
		elem reflect.Value
	}
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key()
		s, err := e.keyText(k)
		if err != nil {
			return node{}, err
		}
		entries = append(entries, entry{key: s, typ: dynamicType(k), elem: iter.Value()})
	}
	// Go maps have no order: sort by key text, then by key type so keys that
	// stringify alike collapse deterministically (the last one wins).
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].key != entries[j].key {
			return entries[i].key < entries[j].key
		}
		return entries[i].typ < entries[j].typ
	})
	keys := make([]string, 0, len(entries))
	elems := make([]reflect.Value, 0, len(entries))
	for _, en := range entries {
		if n := len(keys); n > 0 && keys[n-1] == en.key {
			elems[n-1] = en.elem
			continue
		}
		keys = append(keys, en.key)
		elems = append(elems, en.elem)
	}
	return node{
		kind:  value.KindMapping,
		n:     len(keys),
		keys:  keys,
		elem:  func(i int) any { return elems[i].Interface() },
		ident: visitKey{ptr: rv.Pointer(), typ: rv.Type()},
	}, nil
}

func (e *encodeState) resolveOrdered(m OrderedMapping) (node, error) {
	n := m.Len()
	keys := make([]string, 0, n)
	src := make([]int, 0, n)
	pos := make(map[string]int, n)
	for i := 0; i < n; i++ {
		s, err := e.keyText(reflect.ValueOf(m.KeyAt(i)))
		if err != nil {
			return node{}, err
		}
		if p, ok := pos[s]; ok {
			src[p] = i
			continue
		}
		pos[s] = len(keys)
		keys = append(keys, s)
		src = append(src, i)
	}
	out := node{
		kind: value.KindMapping,
		n:    len(keys),
		keys: keys,
		elem: func(i int) any { return m.ValueAt(src[i]) },
	}
	if rv := reflect.ValueOf(m); rv.Kind() == reflect.Pointer {
		out.ident = visitKey{ptr: rv.Pointer(), typ: rv.Type()}
	}
	return out, nil
}

func dynamicType(k reflect.Value) string {
	if k.Kind() == reflect.Interface {
		k = k.Elem()
	}
	if !k.IsValid() {
		return ""
	}
	return k.Type().String()
}

// keyText converts a map key to text under the configured KeyPolicy.
func (e *encodeState) keyText(k reflect.Value) (string, error) {
	if k.Kind() == reflect.Interface {
		k = k.Elem()
	}
	if !k.IsValid() {
		if e.opts.Keys == KeyReject {
			return "", e.fail(newError(CodeNonTextKey, "", "mapping key null is not text"))
		}
		return "null", nil
	}
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if e.opts.Keys == KeyReject {
		return "", e.fail(newError(CodeNonTextKey, "", "mapping key of type %s is not text", k.Type()))
	}
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		if b, err := tm.MarshalText(); err == nil {
			return string(b), nil
		}
	}
	switch k.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(k.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	case reflect.Float32:
		return value.Float32(float32(k.Float())).String(), nil
	case reflect.Float64:
		return value.Float(k.Float()).String(), nil
	}
	return fmt.Sprint(k.Interface()), nil
}

// repr is the fallback text form of an arbitrary object. fmt does not track
// maps or slices it has already printed, so those are checked for cycles
// first.
func repr(v any) (string, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if t := reprCycle(rv, map[visitKey]bool{}); t != nil {
		return "", newError(CodeCyclicReference, "", "%s refers back to itself", t)
	}
	return fmt.Sprintf("%#v", v), nil
}

// reprCycle walks what %#v would print and returns the type of the first
// map or slice reached from inside itself. Nested pointers are printed as
// addresses, so they are not followed. The bool records whether an entry
// is fully explored.
func reprCycle(rv reflect.Value, seen map[visitKey]bool) reflect.Type {
	switch rv.Kind() {
	case reflect.Interface:
		if !rv.IsNil() {
			return reprCycle(rv.Elem(), seen)
		}
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			if t := reprCycle(rv.Field(i), seen); t != nil {
				return t
			}
		}
	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if t := reprCycle(rv.Index(i), seen); t != nil {
				return t
			}
		}
	case reflect.Map, reflect.Slice:
		if rv.Len() == 0 {
			return nil
		}
		id := visitKey{ptr: rv.Pointer(), typ: rv.Type(), n: rv.Len()}
		if done, ok := seen[id]; ok {
			if done {
				return nil
			}
			return rv.Type()
		}
		seen[id] = false
		if rv.Kind() == reflect.Map {
			for it := rv.MapRange(); it.Next(); {
				if t := reprCycle(it.Value(), seen); t != nil {
					return t
				}
			}
		} else {
			for i := 0; i < rv.Len(); i++ {
				if t := reprCycle(rv.Index(i), seen); t != nil {
					return t
				}
			}
		}
		seen[id] = true
	}
	return nil
}

// isNilRef reports nil pointers, maps, slices, funcs, chans and interfaces.
func isNilRef(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
