package dumps

import "strings"

// DefaultMaxDepth is the nesting limit used when an option leaves MaxDepth at 0.
const DefaultMaxDepth = 1000

// BytesMode selects how byte strings are rendered.
type BytesMode int

const (
	BytesReject BytesMode = iota // Fail with unsupported_bytes.
	BytesUTF8                    // Interpret as UTF-8 text.
	BytesASCII                   // Interpret as 7-bit ASCII text.
	BytesBase64                  // Standard base64 with padding.
)

var bytesModeNames = [...]string{"reject", "utf8", "ascii", "base64"}

func (m BytesMode) String() string {
	if m >= 0 && int(m) < len(bytesModeNames) {
		return bytesModeNames[m]
	}
	return "unknown"
}

// ParseBytesMode parses the names printed by BytesMode.String.
func ParseBytesMode(s string) (BytesMode, bool) {
	for i, n := range bytesModeNames {
		if strings.EqualFold(s, n) {
			return BytesMode(i), true
		}
	}
	switch strings.ToLower(s) {
	case "utf-8":
		return BytesUTF8, true
	case "raise":
		return BytesReject, true
	case "b64":
		return BytesBase64, true
	}
	return BytesReject, false
}

type datetimeKind uint8

const (
	datetimeISO8601 datetimeKind = iota
	datetimeReject
	datetimePattern
)

// DatetimeMode selects how date/time values are rendered. The zero value is
// ISO 8601.
type DatetimeMode struct {
	kind    datetimeKind
	pattern string
}

// DatetimeISO8601 renders instants as ISO 8601 extended timestamps.
func DatetimeISO8601() DatetimeMode { return DatetimeMode{kind: datetimeISO8601} }

// DatetimeReject fails with unsupported_datetime.
func DatetimeReject() DatetimeMode { return DatetimeMode{kind: datetimeReject} }

// DatetimePattern renders instants with a strftime-style pattern.
func DatetimePattern(p string) DatetimeMode { return DatetimeMode{kind: datetimePattern, pattern: p} }

// Pattern returns the strftime pattern and whether the mode uses one.
func (m DatetimeMode) Pattern() (string, bool) { return m.pattern, m.kind == datetimePattern }

func (m DatetimeMode) String() string {
	switch m.kind {
	case datetimeReject:
		return "reject"
	case datetimePattern:
		return "pattern(" + m.pattern + ")"
	}
	return "iso8601"
}

// ParseDatetimeMode accepts "iso8601", "reject" (or "raise"), or anything
// containing a '%' directive, which becomes a pattern.
func ParseDatetimeMode(s string) (DatetimeMode, bool) {
	switch strings.ToLower(s) {
	case "", "iso8601", "iso", "isoformat":
		return DatetimeISO8601(), true
	case "reject", "raise":
		return DatetimeReject(), true
	}
	if strings.Contains(s, "%") {
		return DatetimePattern(s), true
	}
	return DatetimeMode{}, false
}

// KeyPolicy controls mapping keys that are not text.
type KeyPolicy int

const (
	KeyStringify KeyPolicy = iota // Convert keys to their text form.
	KeyReject                     // Fail with non_text_key.
)

// FloatPolicy controls NaN and infinities.
type FloatPolicy int

const (
	FloatReject  FloatPolicy = iota // Fail with invalid_number.
	FloatNull                       // Emit null.
	FloatLiteral                    // Emit NaN, Infinity, -Infinity (not valid JSON).
)

// Severity expresses how a decoder condition is treated.
type Severity int

const (
	Ignore Severity = iota
	Fail
)

// Options configures one encode call. The zero value encodes compactly,
// rejects bytes, renders date/times as ISO 8601, stringifies keys and
// rejects NaN/Inf.
type Options struct {
	// Indent is the number of spaces per nesting level; 0 is compact.
	Indent int
	// Pretty is shorthand for Indent 2 when Indent is 0.
	Pretty   bool
	Bytes    BytesMode
	Datetime DatetimeMode
	Keys     KeyPolicy
	Floats   FloatPolicy
	// MaxDepth caps container nesting: 0 means DefaultMaxDepth, <0 unlimited.
	MaxDepth int
}

// Pretty returns options for indented output with two spaces per level.
func Pretty() Options { return Options{Indent: 2} }

func (o Options) indent() int {
	if o.Indent > 0 {
		return o.Indent
	}
	if o.Pretty {
		return 2
	}
	return 0
}

// DecodeOptions configures one decode call.
type DecodeOptions struct {
	// MaxDepth caps container nesting: 0 means DefaultMaxDepth, <0 unlimited.
	MaxDepth int
	// DuplicateKeys is Ignore (last value wins, first position kept) or Fail.
	DuplicateKeys Severity
	// Comments accepts JSONC: comments and trailing commas are stripped first.
	Comments bool
	// Driver overrides the process-wide JSONDriver.
	Driver JSONDriver
}

func effectiveDepth(d int) int {
	switch {
	case d == 0:
		return DefaultMaxDepth
	case d < 0:
		return 0
	}
	return d
}

func lastOpt[T any](opts []T) T {
	var opt T
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	return opt
}
