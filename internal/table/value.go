package table

import "strconv"

// Kind identifies the scalar type held by a Value.
type Kind int

const (
	KindMissing Kind = iota
	KindNumber
	KindBool
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return "missing"
	}
}

// Value is a single cell: a number, a bool, a string, or missing.
// The zero Value is missing.
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
}

// None is the missing cell value.
var None = Value{}

// Num returns a numeric Value.
func Num(f float64) Value { return Value{kind: KindNumber, num: f} }

// Str returns a string Value.
func Str(s string) Value { return Value{kind: KindString, str: s} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind reports the scalar type of the value.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the cell holds no value.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Float returns the numeric payload. ok is false for non-numeric cells.
func (v Value) Float() (f float64, ok bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Text renders the value the way it is written to a delimited file:
// numbers in shortest round-trip form, bools as true/false, missing as "".
func (v Value) Text() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString:
		return v.str
	default:
		return ""
	}
}

// Equal reports whether two values have the same kind and payload.
// Two missing cells compare equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.str == o.str
	default:
		return true
	}
}
