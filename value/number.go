package value

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

type numberClass uint8

const (
	classInteger numberClass = iota
	classFloat
	classNaN
	classPosInf
	classNegInf
)

// Number is a numeric value stored as its canonical decimal literal.
// The zero Number is the integer 0.
type Number struct {
	lit   string
	class numberClass
}

// ErrInvalidNumber is returned by ParseNumber for text that is not a JSON
// number literal or does not fit a float64.
var ErrInvalidNumber = errors.New("invalid number literal")

// Int returns an integral Number.
func Int(i int64) Number { return Number{lit: strconv.FormatInt(i, 10)} }

// Uint returns an integral Number.
func Uint(u uint64) Number { return Number{lit: strconv.FormatUint(u, 10)} }

// BigInt returns an integral Number of arbitrary size. A nil i is zero.
func BigInt(i *big.Int) Number {
	if i == nil {
		return Number{lit: "0"}
	}
	return Number{lit: i.String()}
}

// Float returns a floating point Number. NaN and infinities are kept so the
// encoder can apply its policy to them.
func Float(f float64) Number { return float(f, 64) }

// Float32 is like Float but formats with float32 precision.
func Float32(f float32) Number { return float(float64(f), 32) }

func float(f float64, bits int) Number {
	switch {
	case math.IsNaN(f):
		return Number{lit: "NaN", class: classNaN}
	case math.IsInf(f, 1):
		return Number{lit: "Infinity", class: classPosInf}
	case math.IsInf(f, -1):
		return Number{lit: "-Infinity", class: classNegInf}
	case f == 0:
		// drop the sign of negative zero
		f = 0
	}
	return Number{lit: string(AppendFloat(nil, f, bits)), class: classFloat}
}

// AppendFloat appends the canonical text of a finite f: shortest round-trip
// digits, plain notation inside [1e-6, 1e21), exponent form outside it.
func AppendFloat(dst []byte, f float64, bits int) []byte {
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) ||
			bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}
	dst = strconv.AppendFloat(dst, f, format, -1, bits)
	if format == 'e' {
		// e-09 -> e-9
		n := len(dst)
		if n >= 4 && dst[n-4] == 'e' && dst[n-3] == '-' && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
	}
	return dst
}

// ParseNumber parses a JSON number literal. Integer literals keep full
// precision; other literals are parsed as float64 and canonicalized.
func ParseNumber(lit string) (Number, error) {
	if !validLiteral(lit) {
		return Number{}, errors.Wrapf(ErrInvalidNumber, "%q", lit)
	}
	if !strings.ContainsAny(lit, ".eE") {
		if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return Int(i), nil
		}
		b, ok := new(big.Int).SetString(lit, 10)
		if !ok {
			return Number{}, errors.Wrapf(ErrInvalidNumber, "%q", lit)
		}
		return BigInt(b), nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return Number{}, errors.Wrapf(ErrInvalidNumber, "%q", lit)
	}
	return Float(f), nil
}

// MustParseNumber is like ParseNumber but panics on error.
func MustParseNumber(lit string) Number {
	n, err := ParseNumber(lit)
	if err != nil {
		panic(err)
	}
	return n
}

// validLiteral checks the RFC 8259 number grammar.
func validLiteral(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	if i >= len(s) {
		return false
	}
	switch {
	case s[i] == '0':
		i++
	case s[i] >= '1' && s[i] <= '9':
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	default:
		return false
	}
	if i < len(s) && s[i] == '.' {
		i++
		start := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i == start {
			return false
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		start := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		if i == start {
			return false
		}
	}
	return i == len(s)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// String returns the canonical literal ("NaN", "Infinity" or "-Infinity" for
// non-finite values).
func (n Number) String() string {
	if n.lit == "" {
		return "0"
	}
	return n.lit
}

// IsInteger reports whether n was built from an integer.
func (n Number) IsInteger() bool { return n.class == classInteger }

// IsFinite reports whether n is neither NaN nor infinite.
func (n Number) IsFinite() bool { return n.class <= classFloat }

// Int64 returns n as an int64 when it is integral and in range.
func (n Number) Int64() (int64, bool) {
	if n.class != classInteger {
		return 0, false
	}
	i, err := strconv.ParseInt(n.String(), 10, 64)
	return i, err == nil
}

// Float64 returns the nearest float64 to n.
func (n Number) Float64() float64 {
	switch n.class {
	case classNaN:
		return math.NaN()
	case classPosInf:
		return math.Inf(1)
	case classNegInf:
		return math.Inf(-1)
	}
	f, _ := strconv.ParseFloat(n.String(), 64)
	return f
}

// BigInt returns n as a big integer when it is integral.
func (n Number) BigInt() (*big.Int, bool) {
	if n.class != classInteger {
		return nil, false
	}
	return new(big.Int).SetString(n.String(), 10)
}

// Equal reports whether n and o are numerically equal. An integral and a
// floating point Number with the same value are equal.
func (n Number) Equal(o Number) bool {
	if n.String() == o.String() {
		return n.IsFinite() == o.IsFinite()
	}
	if !n.IsFinite() || !o.IsFinite() {
		return false
	}
	return n.Compare(o) == 0
}

// Compare orders finite numbers numerically. NaN sorts before everything,
// infinities sort at the ends.
func (n Number) Compare(o Number) int {
	if n.class == classNaN || o.class == classNaN {
		switch {
		case n.class == o.class:
			return 0
		case n.class == classNaN:
			return -1
		default:
			return 1
		}
	}
	a, _ := new(big.Float).SetString(n.finiteLit())
	b, _ := new(big.Float).SetString(o.finiteLit())
	if a == nil || b == nil {
		return strings.Compare(n.String(), o.String())
	}
	return a.Cmp(b)
}

func (n Number) finiteLit() string {
	switch n.class {
	case classPosInf:
		return "+Inf"
	case classNegInf:
		return "-Inf"
	}
	return n.String()
}
