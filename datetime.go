package dumps

import (
	"strconv"
	"strings"

	"github.com/ncruces/go-strftime"

	"github.com/kootenpv/dumps/value"
)

// strftimeDirectives lists the conversion characters handed to go-strftime.
const strftimeDirectives = "aAbBcCdDefFgGhHIjklLmMnNpPQrRsStTuUVwWxXyYzZ%"

// appendISO8601 renders YYYY-MM-DDTHH:MM:SS[.ffffff|.fffffffff][±HH:MM[:SS]].
func appendISO8601(dst []byte, in value.Instant) []byte {
	t := in.Time
	dst = t.AppendFormat(dst, "2006-01-02T15:04:05")
	if ns := t.Nanosecond(); ns != 0 {
		dst = append(dst, '.')
		if ns%1000 == 0 {
			dst = appendPadded(dst, ns/1000, 6)
		} else {
			dst = appendPadded(dst, ns, 9)
		}
	}
	if in.Naive {
		return dst
	}
	_, off := t.Zone()
	sign := byte('+')
	if off < 0 {
		sign = '-'
		off = -off
	}
	dst = append(dst, sign)
	dst = appendPadded(dst, off/3600, 2)
	dst = append(dst, ':')
	dst = appendPadded(dst, off%3600/60, 2)
	if s := off % 60; s != 0 {
		dst = append(dst, ':')
		dst = appendPadded(dst, s, 2)
	}
	return dst
}

func appendPadded(dst []byte, n, width int) []byte {
	s := strconv.Itoa(n)
	for i := len(s); i < width; i++ {
		dst = append(dst, '0')
	}
	return append(dst, s...)
}

// formatPattern renders in with a strftime-style pattern. A directive may
// carry the '-' (no padding) flag, and %z the ':' flag. Unknown directives
// and a dangling '%' are errors; naive instants render %z and %Z as empty.
func formatPattern(pattern string, in value.Instant) (string, error) {
	b := &strings.Builder{}
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		var flag byte
		if i+1 < len(pattern) && (pattern[i+1] == '-' || pattern[i+1] == ':') {
			i++
			flag = pattern[i]
		}
		if i+1 >= len(pattern) {
			return "", newError(CodeInvalidPattern, "", "dangling %% at end of %q", pattern)
		}
		i++
		d := pattern[i]
		switch {
		case flag == ':' && d != 'z':
			return "", newError(CodeInvalidPattern, "", "flag ':' only applies to %%z in %q", pattern)
		case (d == 'z' || d == 'Z') && in.Naive:
		case strings.IndexByte(strftimeDirectives, d) >= 0:
			b.WriteByte('%')
			if flag != 0 {
				b.WriteByte(flag)
			}
			b.WriteByte(d)
		default:
			return "", newError(CodeInvalidPattern, "", "unknown directive %%%c in %q", d, pattern)
		}
	}
	return strftime.Format(b.String(), in.Time), nil
}
