// Package value is the in-memory model shared by the encoder and the decoder.
//
// A Value is one of a closed set of variants: Null, Bool, Number, Text,
// Sequence and *Mapping are the native JSON kinds; Bytes and Instant are
// encoder-input-only kinds that are always rendered as text under a
// configured policy and never produced by the decoder.
package value

import "time"

// Kind identifies a Value variant.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindText
	KindSequence
	KindMapping
	KindBytes
	KindInstant
)

var kindNames = [...]string{
	KindNull:     "null",
	KindBool:     "bool",
	KindNumber:   "number",
	KindText:     "text",
	KindSequence: "sequence",
	KindMapping:  "mapping",
	KindBytes:    "bytes",
	KindInstant:  "instant",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Native reports whether values of this kind can appear in decoder output.
func (k Kind) Native() bool { return k <= KindMapping }

// Value is implemented by every variant of the model.
type Value interface {
	Kind() Kind
}

// Null is the JSON null.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// Text is a JSON string.
type Text string

// Sequence is an ordered list of values (JSON array).
type Sequence []Value

// Bytes is a raw byte string awaiting a bytes policy.
type Bytes []byte

// Instant is a calendar date-time awaiting a date-time policy. A naive
// instant carries no offset information and renders without one.
type Instant struct {
	Time  time.Time
	Naive bool
}

// AwareTime wraps t as an instant that renders with its offset.
func AwareTime(t time.Time) Instant { return Instant{Time: t} }

// NaiveTime wraps t as an instant that renders without an offset. Only the
// wall clock fields of t are used.
func NaiveTime(t time.Time) Instant { return Instant{Time: t, Naive: true} }

func (Null) Kind() Kind     { return KindNull }
func (Bool) Kind() Kind     { return KindBool }
func (Number) Kind() Kind   { return KindNumber }
func (Text) Kind() Kind     { return KindText }
func (Sequence) Kind() Kind { return KindSequence }
func (*Mapping) Kind() Kind { return KindMapping }
func (Bytes) Kind() Kind    { return KindBytes }
func (Instant) Kind() Kind  { return KindInstant }
