package machine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Kind is the broad category of a Value.
type Kind uint8

// List of value kinds.
const (
	ScalarKind   Kind = iota // immutable, copied on read
	MutableKind              // shared, borrow-checked *Object
	InternalKind             // native callables, classes, exceptions, bound methods
	FlagKind                 // control-flow flags of a Completion
)

var kindNames = [...]string{
	ScalarKind:   "scalar",
	MutableKind:  "mutable",
	InternalKind: "internal",
	FlagKind:     "flag",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("<invalid Kind %d>", k)
}

// Value is a value in the machine. The concrete types are a closed set:
// Int, Float, Bool, Str and NoneType are the scalars, *Object holds an
// instance or a user-defined function, *Native, *Class, *ExceptionKind,
// *Exception and *BoundMethod are internal values, and Flag tags a
// Completion.
type Value interface {
	// String returns the Go-side string representation of the value, for
	// debugging. The language-level representation is obtained with Str and
	// Repr.
	String() string

	// Type returns the name of the value's class, as used in error messages.
	Type() string

	// Kind returns the kind of value.
	Kind() Kind
}

type (
	// Int is the integer scalar.
	Int int64

	// Float is the floating-point scalar.
	Float float64

	// Bool is the boolean scalar, True or False.
	Bool bool

	// Str is the string scalar.
	Str string

	// NoneType is the type of the None value.
	NoneType struct{}
)

// None is the single value of NoneType.
var None = NoneType{}

// The boolean values.
const (
	True  = Bool(true)
	False = Bool(false)
)

var (
	_ Value = Int(0)
	_ Value = Float(0)
	_ Value = False
	_ Value = Str("")
	_ Value = None
	_ Value = Break
)

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }
func (i Int) Type() string   { return "int" }
func (i Int) Kind() Kind     { return ScalarKind }

func (f Float) String() string { return formatFloat(float64(f)) }
func (f Float) Type() string   { return "float" }
func (f Float) Kind() Kind     { return ScalarKind }

func (b Bool) String() string {
	if b {
		return "True"
	}
	return "False"
}
func (b Bool) Type() string { return "bool" }
func (b Bool) Kind() Kind   { return ScalarKind }

func (s Str) String() string { return string(s) }
func (s Str) Type() string   { return "str" }
func (s Str) Kind() Kind     { return ScalarKind }

func (n NoneType) String() string { return "None" }
func (n NoneType) Type() string   { return "NoneType" }
func (n NoneType) Kind() Kind     { return ScalarKind }

// Flag identifies how the execution of a statement completed.
type Flag uint8

// List of completion flags.
const (
	Normal Flag = iota
	Break
	Continue
	Return
)

var flagNames = [...]string{
	Normal:   "normal",
	Break:    "break",
	Continue: "continue",
	Return:   "return",
}

func (f Flag) String() string {
	if int(f) < len(flagNames) {
		return flagNames[f]
	}
	return fmt.Sprintf("<invalid Flag %d>", f)
}
func (f Flag) Type() string { return "flag" }
func (f Flag) Kind() Kind   { return FlagKind }

// Completion is the result of executing a statement or a block. Value is only
// set when Flag is Return.
type Completion struct {
	Flag  Flag
	Value Value
}

// Identical reports whether x and y are the same value, as tested by the
// "is" operator. Mutable and internal values are identical if they are the
// same pointer. Scalars have no storage identity, so they are identical if
// they have the same type and value.
func Identical(x, y Value) bool {
	if xf, ok := x.(Float); ok {
		yf, ok := y.(Float)
		return ok && math.Float64bits(float64(xf)) == math.Float64bits(float64(yf))
	}
	return x == y
}

// formatFloat formats f the way the language prints floats: the shortest
// representation that round-trips, always with a fractional part or an
// exponent.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(s[strings.LastIndexByte(s, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return s
	}
	s = strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// quoteStr returns the quoted representation of s. It uses single quotes
// unless s contains a single quote and no double quote.
func quoteStr(s string) string {
	q := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}

	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteRune(q)
	for _, r := range s {
		switch {
		case r == q || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		case !unicode.IsPrint(r):
			if r <= 0xffff {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				fmt.Fprintf(&b, `\U%08x`, r)
			}
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune(q)
	return b.String()
}
