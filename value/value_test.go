package value_test

import (
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kootenpv/dumps/value"
)

func TestMapping_SetKeepsFirstPosition(t *testing.T) {
	m := value.NewMapping()
	m.Set("a", value.Int(1))
	m.Set("b", value.Int(2))
	m.Set("a", value.Int(3))

	require.Equal(t, []string{"a", "b"}, m.Keys())
	got, ok := m.Get("a")
	require.True(t, ok)
	require.True(t, value.Equal(value.Int(3), got))
	require.Equal(t, 2, m.Len())
}

func TestMapping_ZeroValue(t *testing.T) {
	var m value.Mapping
	require.Equal(t, 0, m.Len())
	_, ok := m.Get("x")
	require.False(t, ok)
	m.Set("x", value.Text("y"))
	require.Equal(t, []string{"x"}, m.Keys())
}

func TestMapping_RangeStops(t *testing.T) {
	m := value.NewMapping(
		value.Entry{Key: "a", Value: value.Int(1)},
		value.Entry{Key: "b", Value: value.Int(2)},
		value.Entry{Key: "c", Value: value.Int(3)},
	)
	var seen []string
	m.Range(func(k string, _ value.Value) bool {
		seen = append(seen, k)
		return k != "b"
	})
	require.Equal(t, []string{"a", "b"}, seen)
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		integer bool
	}{
		{"0", "0", true},
		{"-0", "0", true},
		{"42", "42", true},
		{"-17", "-17", true},
		{"123456789012345678901234567890", "123456789012345678901234567890", true},
		{"1.5", "1.5", false},
		{"1234.56", "1234.56", false},
		{"1.0", "1", false},
		{"1e3", "1000", false},
		{"1E-7", "1e-7", false},
		{"2.5e21", "2.5e+21", false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			n, err := value.ParseNumber(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, n.String())
			require.Equal(t, tc.integer, n.IsInteger())
		})
	}
}

func TestParseNumber_Invalid(t *testing.T) {
	for _, in := range []string{"", "-", "01", "1.", ".5", "1e", "1e+", "+1", "0x10", "1e400", "NaN"} {
		_, err := value.ParseNumber(in)
		require.ErrorIs(t, err, value.ErrInvalidNumber, "input %q", in)
	}
}

func TestNumber_BigIntNoPrecisionLoss(t *testing.T) {
	n := value.MustParseNumber("98765432109876543210")
	_, fits := n.Int64()
	require.False(t, fits)
	b, ok := n.BigInt()
	require.True(t, ok)
	want, _ := new(big.Int).SetString("98765432109876543210", 10)
	require.Zero(t, want.Cmp(b))
}

func TestNumber_FloatFormatting(t *testing.T) {
	require.Equal(t, "0.1", value.Float(0.1).String())
	require.Equal(t, "1e+21", value.Float(1e21).String())
	require.Equal(t, "1e-7", value.Float(1e-7).String())
	require.Equal(t, "0.000001", value.Float(1e-6).String())
	require.Equal(t, "0", value.Float(math.Copysign(0, -1)).String())
	require.Equal(t, "3.14", value.Float32(3.14).String())
	require.False(t, value.Float(math.NaN()).IsFinite())
	require.Equal(t, "-Infinity", value.Float(math.Inf(-1)).String())
}

func TestNumber_EqualAcrossClasses(t *testing.T) {
	require.True(t, value.Int(1).Equal(value.Float(1)))
	require.True(t, value.Float(2.5).Equal(value.MustParseNumber("2.50")))
	require.False(t, value.Int(1).Equal(value.Int(2)))
	require.False(t, value.Float(math.Inf(1)).Equal(value.Float(1)))
}

func TestNumber_Compare(t *testing.T) {
	require.Equal(t, -1, value.Int(2).Compare(value.Int(10)))
	require.Equal(t, 1, value.Float(2.5).Compare(value.Int(2)))
	require.Equal(t, -1, value.Float(math.Inf(-1)).Compare(value.Int(-5)))
	require.Equal(t, -1, value.Float(math.NaN()).Compare(value.Int(0)))
}

func TestEqual_DeepTrees(t *testing.T) {
	a := value.Sequence{value.Text("x"), value.NewMapping(value.Entry{Key: "k", Value: value.Bool(true)})}
	b := value.Sequence{value.Text("x"), value.NewMapping(value.Entry{Key: "k", Value: value.Bool(true)})}
	require.True(t, value.Equal(a, b))

	c := value.Sequence{value.Text("x"), value.NewMapping(value.Entry{Key: "k", Value: value.Bool(false)})}
	require.False(t, value.Equal(a, c))
	require.True(t, value.Equal(nil, value.Null{}))

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.False(t, value.Equal(value.AwareTime(ts), value.NaiveTime(ts)))
}

func TestNative(t *testing.T) {
	m := value.NewMapping(
		value.Entry{Key: "n", Value: value.Int(30)},
		value.Entry{Key: "f", Value: value.Float(1.5)},
		value.Entry{Key: "s", Value: value.Sequence{value.Text("a"), value.Null{}}},
	)
	got := value.Native(m)
	require.Equal(t, map[string]any{
		"n": int64(30),
		"f": 1.5,
		"s": []any{"a", nil},
	}, got)
}

func TestKind_Native(t *testing.T) {
	require.True(t, value.KindMapping.Native())
	require.False(t, value.KindBytes.Native())
	require.False(t, value.KindInstant.Native())
	require.Equal(t, "sequence", value.KindSequence.String())
}
