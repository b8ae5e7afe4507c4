package metric

import "strconv"

// Value is the result of a metric: exactly one of Int, Float or String.
// The interface is sealed; use Match for exhaustive handling.
type Value interface {
	isValue()
	String() string
}

type (
	Int    int
	Float  float64
	String string
)

func (Int) isValue()    {}
func (Float) isValue()  {}
func (String) isValue() {}

func (v Int) String() string    { return strconv.Itoa(int(v)) }
func (v Float) String() string  { return strconv.FormatFloat(float64(v), 'f', -1, 64) }
func (v String) String() string { return string(v) }

// Kind names the variant held by a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// Match dispatches on the variant of v. Every variant must be handled, so
// adding a variant breaks every caller at compile time. A nil value yields
// the zero T.
func Match[T any](v Value, onInt func(int) T, onFloat func(float64) T, onString func(string) T) T {
	switch val := v.(type) {
	case Int:
		return onInt(int(val))
	case Float:
		return onFloat(float64(val))
	case String:
		return onString(string(val))
	}
	var zero T
	return zero
}

// KindOf returns the variant kind of v.
func KindOf(v Value) Kind {
	if v == nil {
		return KindInvalid
	}
	return Match(v,
		func(int) Kind { return KindInt },
		func(float64) Kind { return KindFloat },
		func(string) Kind { return KindString },
	)
}

// Numeric returns v as a float64 when v is Int or Float.
func Numeric(v Value) (float64, bool) {
	type num struct {
		value float64
		ok    bool
	}
	n := Match(v,
		func(i int) num { return num{float64(i), true} },
		func(f float64) num { return num{f, true} },
		func(string) num { return num{} },
	)
	return n.value, n.ok
}
