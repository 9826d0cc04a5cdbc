package dumps_test

import (
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/golang-module/carbon/v2"

	"github.com/kootenpv/dumps"
	"github.com/kootenpv/dumps/value"
)

func mustSerialize(t *testing.T, v any, opts ...dumps.Options) string {
	t.Helper()
	s, err := dumps.Serialize(v, opts...)
	if err != nil {
		t.Fatalf("serialize %#v: %v", v, err)
	}
	return s
}

func expectCode(t *testing.T, err error, sentinel *dumps.Error) *dumps.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", sentinel.Code)
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected %s, got %v", sentinel.Code, err)
	}
	de, ok := dumps.AsError(err)
	if !ok {
		t.Fatalf("expected *dumps.Error, got %T", err)
	}
	return de
}

func TestSerialize_Layout(t *testing.T) {
	cases := []struct {
		name string
		in   any
		opts dumps.Options
		want string
	}{
		{"empty mapping compact", map[string]any{}, dumps.Options{}, `{}`},
		{"empty sequence compact", []any{}, dumps.Options{}, `[]`},
		{"empty mapping pretty", map[string]any{}, dumps.Pretty(), `{}`},
		{"empty sequence pretty", []any{}, dumps.Pretty(), `[]`},
		{"compact mapping", map[string]any{"a": 1, "b": 2}, dumps.Options{}, `{"a": 1, "b": 2}`},
		{"pretty mapping", map[string]any{"a": 1}, dumps.Pretty(), "{\n  \"a\": 1\n}"},
		{"pretty flag", map[string]any{"a": 1}, dumps.Options{Pretty: true}, "{\n  \"a\": 1\n}"},
		{"pretty nested", map[string]any{"a": []any{1, 2}, "b": map[string]any{}}, dumps.Pretty(),
			"{\n  \"a\": [\n    1,\n    2\n  ],\n  \"b\": {}\n}"},
		{"indent four", []any{true}, dumps.Options{Indent: 4}, "[\n    true\n]"},
		{"scalars", []any{nil, true, false, "x", 1.5, -3}, dumps.Options{}, `[null, true, false, "x", 1.5, -3]`},
		{"nil slice", []int(nil), dumps.Options{}, `null`},
		{"tuple array", [3]int{1, 2, 3}, dumps.Options{}, `[1, 2, 3]`},
		{"top level text", "hi", dumps.Pretty(), `"hi"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mustSerialize(t, tc.in, tc.opts); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestSerialize_ValueModelKeepsOrder(t *testing.T) {
	m := value.NewMapping(
		value.Entry{Key: "z", Value: value.Int(1)},
		value.Entry{Key: "a", Value: value.Sequence{value.Text("x"), value.Null{}}},
	)
	if got := mustSerialize(t, m); got != `{"z": 1, "a": ["x", null]}` {
		t.Fatalf("got %s", got)
	}
}

func TestSerialize_Numbers(t *testing.T) {
	big1, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	cases := []struct {
		in   any
		want string
	}{
		{3.0, `3`},
		{0.1, `0.1`},
		{1e21, `1e+21`},
		{1e-7, `1e-7`},
		{math.Copysign(0, -1), `0`},
		{float32(0.1), `0.1`},
		{uint64(math.MaxUint64), `18446744073709551615`},
		{big1, `123456789012345678901234567890`},
		{json.Number("1.50"), `1.5`},
		{json.Number("42"), `42`},
	}
	for _, tc := range cases {
		if got := mustSerialize(t, tc.in); got != tc.want {
			t.Fatalf("%#v: got %s want %s", tc.in, got, tc.want)
		}
	}
}

func TestSerialize_FloatPolicy(t *testing.T) {
	_, err := dumps.Serialize([]any{1, math.NaN()})
	de := expectCode(t, err, dumps.ErrInvalidNumber)
	if de.Path != "/1" {
		t.Fatalf("path: %q", de.Path)
	}
	if got := mustSerialize(t, math.NaN(), dumps.Options{Floats: dumps.FloatNull}); got != "null" {
		t.Fatalf("null policy: %s", got)
	}
	lit := dumps.Options{Floats: dumps.FloatLiteral}
	if got := mustSerialize(t, []float64{math.Inf(1), math.Inf(-1), math.NaN()}, lit); got != `[Infinity, -Infinity, NaN]` {
		t.Fatalf("literal policy: %s", got)
	}
}

func TestSerialize_Strings(t *testing.T) {
	cases := []struct{ in, want string }{
		{"plain", `"plain"`},
		{"a\"b\\c", `"a\"b\\c"`},
		{"\b\f\n\r\t", `"\b\f\n\r\t"`},
		{"\x01\x1f", `"\u0001\u001f"`},
		{"héllo ✓", `"héllo ✓"`},
		{"bad\xffbyte", "\"bad\ufffdbyte\""},
		{"</script>", `"</script>"`},
	}
	for _, tc := range cases {
		if got := mustSerialize(t, tc.in); got != tc.want {
			t.Fatalf("%q: got %s want %s", tc.in, got, tc.want)
		}
	}
}

func TestSerialize_Bytes(t *testing.T) {
	data := []byte{0, 1, 2, 3}

	_, err := dumps.Serialize(map[string]any{"payload": data})
	de := expectCode(t, err, dumps.ErrUnsupportedBytes)
	if de.Path != "/payload" {
		t.Fatalf("path: %q", de.Path)
	}

	if got := mustSerialize(t, data, dumps.Options{Bytes: dumps.BytesBase64}); got != `"AAECAw=="` {
		t.Fatalf("base64: %s", got)
	}
	if got := mustSerialize(t, []byte("héllo"), dumps.Options{Bytes: dumps.BytesUTF8}); got != `"héllo"` {
		t.Fatalf("utf8: %s", got)
	}
	if got := mustSerialize(t, []byte("a\"b"), dumps.Options{Bytes: dumps.BytesASCII}); got != `"a\"b"` {
		t.Fatalf("ascii: %s", got)
	}

	_, err = dumps.Serialize([]byte{'a', 0xff}, dumps.Options{Bytes: dumps.BytesASCII})
	expectCode(t, err, dumps.ErrInvalidByteEncoding)

	_, err = dumps.Serialize([]any{[]byte{'o', 'k', 0xc3}}, dumps.Options{Bytes: dumps.BytesUTF8})
	de = expectCode(t, err, dumps.ErrInvalidByteEncoding)
	if de.Path != "/0" || !strings.Contains(de.Message, "byte 2") {
		t.Fatalf("unexpected error detail: %v", de)
	}

	if got := mustSerialize(t, value.Bytes("hi"), dumps.Options{Bytes: dumps.BytesUTF8}); got != `"hi"` {
		t.Fatalf("value.Bytes: %s", got)
	}
}

func TestSerialize_Datetime(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 123456000, time.UTC)

	if got := mustSerialize(t, ts); got != `"2024-01-02T03:04:05.123456+00:00"` {
		t.Fatalf("iso aware: %s", got)
	}
	if got := mustSerialize(t, value.NaiveTime(ts)); got != `"2024-01-02T03:04:05.123456"` {
		t.Fatalf("iso naive: %s", got)
	}
	ist := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("IST", 5*3600+30*60))
	if got := mustSerialize(t, ist); got != `"2024-01-02T03:04:05+05:30"` {
		t.Fatalf("iso offset: %s", got)
	}
	if got := mustSerialize(t, ts, dumps.Options{Datetime: dumps.DatetimePattern("%Y-%m-%d")}); got != `"2024-01-02"` {
		t.Fatalf("pattern: %s", got)
	}
	if got := mustSerialize(t, ts, dumps.Options{Datetime: dumps.DatetimePattern("%H:%M:%S.%f")}); got != `"03:04:05.123456"` {
		t.Fatalf("pattern micro: %s", got)
	}

	_, err := dumps.Serialize(map[string]any{"at": ts}, dumps.Options{Datetime: dumps.DatetimeReject()})
	de := expectCode(t, err, dumps.ErrUnsupportedDatetime)
	if de.Path != "/at" {
		t.Fatalf("path: %q", de.Path)
	}
	_, err = dumps.Serialize(ts, dumps.Options{Datetime: dumps.DatetimePattern("%Y-%q")})
	expectCode(t, err, dumps.ErrInvalidPattern)
	_, err = dumps.Serialize(ts, dumps.Options{Datetime: dumps.DatetimePattern("%Y-%")})
	expectCode(t, err, dumps.ErrInvalidPattern)

	// an unused bad pattern is never consulted
	if got := mustSerialize(t, 1, dumps.Options{Datetime: dumps.DatetimePattern("%q")}); got != "1" {
		t.Fatalf("got %s", got)
	}
}

func TestSerialize_TimePointer(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	in := map[string]any{"at": &ts}

	if got := mustSerialize(t, in); got != `{"at": "2024-01-02T03:04:05+00:00"}` {
		t.Fatalf("iso: %s", got)
	}
	if got := mustSerialize(t, in, dumps.Options{Datetime: dumps.DatetimePattern("%Y-%m-%d")}); got != `{"at": "2024-01-02"}` {
		t.Fatalf("pattern: %s", got)
	}
	_, err := dumps.Serialize(in, dumps.Options{Datetime: dumps.DatetimeReject()})
	de := expectCode(t, err, dumps.ErrUnsupportedDatetime)
	if de.Path != "/at" {
		t.Fatalf("path: %q", de.Path)
	}

	if got := mustSerialize(t, (*time.Time)(nil)); got != "null" {
		t.Fatalf("nil: %s", got)
	}
	ip := net.ParseIP("10.0.0.1")
	n := big.NewInt(42)
	if got := mustSerialize(t, []any{&ip, &n}); got != `["10.0.0.1", 42]` {
		t.Fatalf("pointers: %s", got)
	}
}

func TestSerialize_ValuePointers(t *testing.T) {
	if got := mustSerialize(t, map[string]any{"x": (*value.Instant)(nil)}); got != `{"x": null}` {
		t.Fatalf("nil instant: %s", got)
	}
	if got := mustSerialize(t, []any{(*value.Text)(nil), (*value.Sequence)(nil)}); got != `[null, null]` {
		t.Fatalf("nil variants: %s", got)
	}

	txt := value.Text("hi")
	inst := value.AwareTime(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	seq := value.Sequence{value.Int(1), &txt}
	got := mustSerialize(t, []any{&txt, &inst, &seq})
	if want := `["hi", "2024-01-02T03:04:05+00:00", [1, "hi"]]`; got != want {
		t.Fatalf("got %s want %s", got, want)
	}
	_, err := dumps.Serialize(&inst, dumps.Options{Datetime: dumps.DatetimeReject()})
	expectCode(t, err, dumps.ErrUnsupportedDatetime)
}

func TestSerialize_Carbon(t *testing.T) {
	c := carbon.Parse("2020-08-05 13:14:15", "UTC")
	if got := mustSerialize(t, c); got != `"2020-08-05T13:14:15+00:00"` {
		t.Fatalf("carbon: %s", got)
	}
	if got := mustSerialize(t, &c, dumps.Options{Datetime: dumps.DatetimePattern("%d/%m/%Y")}); got != `"05/08/2020"` {
		t.Fatalf("carbon pointer: %s", got)
	}
}

func TestSerialize_Sets(t *testing.T) {
	words := map[string]struct{}{"pear": {}, "apple": {}, "fig": {}}
	if got := mustSerialize(t, words); got != `["apple", "fig", "pear"]` {
		t.Fatalf("string set: %s", got)
	}
	mixed := map[any]struct{}{"b": {}, 2: {}, "a": {}, 1.5: {}, true: {}, nil: {}, false: {}}
	if got := mustSerialize(t, mixed); got != `[null, false, true, 1.5, 2, "a", "b"]` {
		t.Fatalf("mixed set: %s", got)
	}
	bs := bitset.New(16)
	bs.Set(9).Set(1).Set(4)
	if got := mustSerialize(t, bs); got != `[1, 4, 9]` {
		t.Fatalf("bitset: %s", got)
	}
}

func TestSerialize_MapKeys(t *testing.T) {
	if got := mustSerialize(t, map[int]string{2: "b", 10: "a"}); got != `{"10": "a", "2": "b"}` {
		t.Fatalf("int keys: %s", got)
	}
	if got := mustSerialize(t, map[bool]int{true: 1}); got != `{"true": 1}` {
		t.Fatalf("bool keys: %s", got)
	}
	if got := mustSerialize(t, map[any]int{1: 1, "1": 2}); got != `{"1": 2}` {
		t.Fatalf("colliding keys: %s", got)
	}

	reject := dumps.Options{Keys: dumps.KeyReject}
	if got := mustSerialize(t, map[any]int{"a": 1}, reject); got != `{"a": 1}` {
		t.Fatalf("text keys under reject: %s", got)
	}
	_, err := dumps.Serialize(map[string]any{"m": map[int]int{1: 1}}, reject)
	de := expectCode(t, err, dumps.ErrNonTextKey)
	if de.Path != "/m" {
		t.Fatalf("path: %q", de.Path)
	}
}

func TestSerialize_Cycles(t *testing.T) {
	m := map[string]any{}
	m["self"] = m
	_, err := dumps.Serialize(m)
	de := expectCode(t, err, dumps.ErrCyclicReference)
	if de.Path != "/self" {
		t.Fatalf("path: %q", de.Path)
	}

	s := []any{nil}
	s[0] = s
	_, err = dumps.Serialize(s)
	expectCode(t, err, dumps.ErrCyclicReference)

	var p any
	p = &p
	_, err = dumps.Serialize(p)
	expectCode(t, err, dumps.ErrCyclicReference)

	vm := value.NewMapping()
	vm.Set("x", vm)
	_, err = dumps.Serialize(vm)
	expectCode(t, err, dumps.ErrCyclicReference)

	// shared but acyclic references are fine
	inner := []any{1}
	if got := mustSerialize(t, []any{inner, inner}); got != `[[1], [1]]` {
		t.Fatalf("shared: %s", got)
	}
}

type holder struct {
	Name string
	M    map[string]any
}

type pair struct{ A, B map[string]int }

func TestSerialize_FallbackCycles(t *testing.T) {
	h := holder{Name: "h", M: map[string]any{}}
	h.M["h"] = h
	_, err := dumps.Serialize(map[string]any{"x": h})
	de := expectCode(t, err, dumps.ErrCyclicReference)
	if de.Path != "/x" {
		t.Fatalf("path: %q", de.Path)
	}

	loop := []any{nil}
	loop[0] = loop
	_, err = dumps.Serialize([]any{holder{M: map[string]any{"l": loop}}})
	expectCode(t, err, dumps.ErrCyclicReference)

	shared := map[string]int{"a": 1}
	want := `"dumps_test.pair{A:map[string]int{\"a\":1}, B:map[string]int{\"a\":1}}"`
	if got := mustSerialize(t, pair{A: shared, B: shared}); got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestSerialize_DepthLimit(t *testing.T) {
	var v any = []any{}
	for i := 0; i < 100000; i++ {
		v = []any{v}
	}
	b, err := dumps.Marshal(v)
	expectCode(t, err, dumps.ErrDepthExceeded)
	if b != nil {
		t.Fatalf("partial output returned: %q", b)
	}

	three := []any{[]any{[]any{}}}
	if _, err := dumps.Serialize(three, dumps.Options{MaxDepth: 3}); err != nil {
		t.Fatalf("depth 3 should pass: %v", err)
	}
	_, err = dumps.Serialize([]any{three}, dumps.Options{MaxDepth: 3})
	de := expectCode(t, err, dumps.ErrDepthExceeded)
	if de.Path != "/0/0/0" {
		t.Fatalf("path: %q", de.Path)
	}
}

type person struct {
	Name string
	Age  int
}

func (p person) Repr() string { return "Person(" + p.Name + ")" }

type point struct{ X, Y int }

type version struct{ major, minor int }

func (v version) String() string { return strconv.Itoa(v.major) + "." + strconv.Itoa(v.minor) }

type reading struct{ c float64 }

func (r reading) MarshalJSON() ([]byte, error) {
	return []byte(`{"unit":"C","value":` + strconv.FormatFloat(r.c, 'f', -1, 64) + `}`), nil
}

type money struct{ cents int64 }

func (m money) MarshalValue() (value.Value, error) {
	if m.cents < 0 {
		return nil, errNegative
	}
	return value.NewMapping(
		value.Entry{Key: "cents", Value: value.Int(m.cents)},
		value.Entry{Key: "currency", Value: value.Text("EUR")},
	), nil
}

var errNegative = errors.New("negative amount")

func TestSerialize_Resolver(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"repr", person{Name: "Alice", Age: 30}, `"Person(Alice)"`},
		{"fallback", point{1, 2}, `"dumps_test.point{X:1, Y:2}"`},
		{"stringer", version{1, 2}, `"1.2"`},
		{"text marshaler", net.ParseIP("127.0.0.1"), `"127.0.0.1"`},
		{"json marshaler", reading{21.5}, `{"unit": "C", "value": 21.5}`},
		{"raw message", json.RawMessage(`[1, {"x":true}]`), `[1, {"x": true}]`},
		{"value marshaler", money{1250}, `{"cents": 1250, "currency": "EUR"}`},
		{"pointer", &point{3, 4}, `"dumps_test.point{X:3, Y:4}"`},
		{"nil pointer", (*point)(nil), `null`},
		{"nil map", map[string]int(nil), `null`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mustSerialize(t, tc.in); got != tc.want {
				t.Fatalf("got %s want %s", got, tc.want)
			}
		})
	}

	_, err := dumps.Serialize([]any{money{-1}})
	de := expectCode(t, err, dumps.ErrMarshalerFailed)
	if !errors.Is(err, errNegative) || de.Path != "/0" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEncoder_Reuse(t *testing.T) {
	enc := dumps.NewEncoder(dumps.Options{Indent: 2, Bytes: dumps.BytesBase64})
	for i := 0; i < 3; i++ {
		got, err := enc.Serialize(map[string]any{"b": []byte{0xff}})
		if err != nil {
			t.Fatalf("serialize: %v", err)
		}
		if got != "{\n  \"b\": \"/w==\"\n}" {
			t.Fatalf("got %q", got)
		}
	}
	if enc.Options().Indent != 2 {
		t.Fatalf("options not retained")
	}
}
