package machine

import (
	"math"
	"strconv"
	"strings"
)

func newIntClass() *Class {
	c := NewInternalClass("int", ObjectClass).
		SetMagic(MagicNew, NewNative("int.__new__", NewFunc(intNew))).
		SetMagic(MagicRepr, NewNative("int.__repr__", UnaryFunc(intRepr))).
		SetMagic(MagicBool, NewNative("int.__bool__", UnaryFunc(intBool))).
		SetMagic(MagicInt, NewNative("int.__int__", UnaryFunc(intInt))).
		SetMagic(MagicFloat, NewNative("int.__float__", UnaryFunc(intFloat))).
		SetMagic(MagicNeg, NewNative("int.__neg__", UnaryFunc(intNeg))).
		SetMagic(MagicPos, NewNative("int.__pos__", UnaryFunc(intInt)))

	intArith(c, MagicAdd, MagicRAdd, intAdd)
	intArith(c, MagicSub, MagicRSub, intSub)
	intArith(c, MagicMul, MagicRMul, intMul)
	intArith(c, MagicTrueDiv, MagicRTrueDiv, intTrueDiv)
	intArith(c, MagicFloorDiv, MagicRFloorDiv, intFloorDiv)
	intArith(c, MagicMod, MagicRMod, intMod)
	intArith(c, MagicPow, MagicRPow, intPow)

	intCompare(c, MagicEq, func(x, y int64) bool { return x == y })
	intCompare(c, MagicNe, func(x, y int64) bool { return x != y })
	intCompare(c, MagicLt, func(x, y int64) bool { return x < y })
	intCompare(c, MagicLe, func(x, y int64) bool { return x <= y })
	intCompare(c, MagicGt, func(x, y int64) bool { return x > y })
	intCompare(c, MagicGe, func(x, y int64) bool { return x >= y })
	return createInternal(c)
}

// intOperand returns the integer value of an int or bool operand.
func intOperand(v Value) (int64, bool) {
	switch v := v.(type) {
	case Int:
		return int64(v), true
	case Bool:
		if v {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// intArith sets the forward and reflected magic methods of the arithmetic
// operation op. Operands that are not ints or bools raise
// NotImplementedError so that dispatch tries the other operand.
func intArith(c *Class, fwd, rev MagicMethod, op func(x, y int64) (Value, error)) {
	c.SetMagic(fwd, NewNative("int."+fwd.String(), BinaryFunc(func(th *Thread, x, y Value) (Value, error) {
		a, ok1 := intOperand(x)
		b, ok2 := intOperand(y)
		if !ok1 || !ok2 {
			return nil, NotImplementedError.Empty()
		}
		return op(a, b)
	})))
	c.SetMagic(rev, NewNative("int."+rev.String(), BinaryFunc(func(th *Thread, x, y Value) (Value, error) {
		a, ok1 := intOperand(x)
		b, ok2 := intOperand(y)
		if !ok1 || !ok2 {
			return nil, NotImplementedError.Empty()
		}
		return op(b, a)
	})))
}

func intCompare(c *Class, m MagicMethod, cmp func(x, y int64) bool) {
	c.SetMagic(m, NewNative("int."+m.String(), BinaryFunc(func(th *Thread, x, y Value) (Value, error) {
		a, ok1 := intOperand(x)
		b, ok2 := intOperand(y)
		if !ok1 || !ok2 {
			return nil, NotImplementedError.Empty()
		}
		return Bool(cmp(a, b)), nil
	})))
}

func errIntOverflow() error { return OverflowError.New("integer overflow") }

func intAdd(x, y int64) (Value, error) {
	z := x + y
	if (x^z)&(y^z) < 0 {
		return nil, errIntOverflow()
	}
	return Int(z), nil
}

func intSub(x, y int64) (Value, error) {
	z := x - y
	if (x^y)&(x^z) < 0 {
		return nil, errIntOverflow()
	}
	return Int(z), nil
}

func mulInt64(x, y int64) (int64, bool) {
	if x == 0 || y == 0 {
		return 0, true
	}
	z := x * y
	if (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) || z/y != x {
		return 0, false
	}
	return z, true
}

func intMul(x, y int64) (Value, error) {
	z, ok := mulInt64(x, y)
	if !ok {
		return nil, errIntOverflow()
	}
	return Int(z), nil
}

func intTrueDiv(x, y int64) (Value, error) {
	if y == 0 {
		return nil, ZeroDivisionError.New("division by zero")
	}
	return Float(float64(x) / float64(y)), nil
}

// intFloorDiv rounds the quotient towards negative infinity.
func intFloorDiv(x, y int64) (Value, error) {
	if y == 0 {
		return nil, ZeroDivisionError.New("integer division by zero")
	}
	if x == math.MinInt64 && y == -1 {
		return nil, errIntOverflow()
	}
	q := x / y
	if x%y != 0 && (x < 0) != (y < 0) {
		q--
	}
	return Int(q), nil
}

// intMod returns a remainder with the sign of the divisor.
func intMod(x, y int64) (Value, error) {
	if y == 0 {
		return nil, ZeroDivisionError.New("integer modulo by zero")
	}
	r := x % y
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	}
	return Int(r), nil
}

// intPow returns a float for negative exponents.
func intPow(x, y int64) (Value, error) {
	if y < 0 {
		if x == 0 {
			return nil, ZeroDivisionError.New("0.0 cannot be raised to a negative power")
		}
		return Float(math.Pow(float64(x), float64(y))), nil
	}

	res := int64(1)
	for y > 0 {
		var ok bool
		if y&1 == 1 {
			if res, ok = mulInt64(res, x); !ok {
				return nil, errIntOverflow()
			}
		}
		y >>= 1
		if y > 0 {
			if x, ok = mulInt64(x, x); !ok {
				return nil, errIntOverflow()
			}
		}
	}
	return Int(res), nil
}

func intSelf(x Value, method string) (int64, error) {
	v, ok := intOperand(x)
	if !ok {
		return 0, TypeError.New("descriptor '%s' requires a 'int' object but received a '%s'", method, x.Type())
	}
	return v, nil
}

func intRepr(th *Thread, x Value) (Value, error) {
	v, err := intSelf(x, "__repr__")
	if err != nil {
		return nil, err
	}
	return Str(strconv.FormatInt(v, 10)), nil
}

func intBool(th *Thread, x Value) (Value, error) {
	v, err := intSelf(x, "__bool__")
	if err != nil {
		return nil, err
	}
	return Bool(v != 0), nil
}

func intInt(th *Thread, x Value) (Value, error) {
	v, err := intSelf(x, "__int__")
	if err != nil {
		return nil, err
	}
	return Int(v), nil
}

func intFloat(th *Thread, x Value) (Value, error) {
	v, err := intSelf(x, "__float__")
	if err != nil {
		return nil, err
	}
	return Float(v), nil
}

func intNeg(th *Thread, x Value) (Value, error) {
	v, err := intSelf(x, "__neg__")
	if err != nil {
		return nil, err
	}
	if v == math.MinInt64 {
		return nil, errIntOverflow()
	}
	return Int(-v), nil
}

// intNew converts its argument to an int. The result is always a plain int,
// even when cls is a subclass of int.
func intNew(th *Thread, cls *Class, args []Value) (Value, error) {
	switch len(args) {
	case 0:
		return Int(0), nil
	case 1:
	default:
		return nil, TypeError.New("int() takes at most 1 argument (%d given)", len(args))
	}

	switch x := args[0].(type) {
	case Int:
		return x, nil
	case Bool:
		v, _ := intOperand(x)
		return Int(v), nil
	case Float:
		return floatToInt(float64(x))
	case Str:
		s := strings.TrimSpace(string(x))
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
				return nil, errIntOverflow()
			}
			return nil, ValueError.New("invalid literal for int() with base 10: %s", quoteStr(string(x)))
		}
		return Int(v), nil
	}

	xcls := ClassOf(args[0])
	fn, ok := xcls.SearchForMethod(MagicInt)
	if !ok {
		return nil, TypeError.New("int() argument must be a string or a real number, not '%s'", args[0].Type())
	}
	res, err := callMagic(th, xcls, fn, args[0])
	if err != nil {
		return nil, err
	}
	if _, ok := res.(Int); !ok {
		return nil, TypeError.New("__int__ returned non-int (type %s)", res.Type())
	}
	return res, nil
}

func floatToInt(f float64) (Value, error) {
	switch {
	case math.IsNaN(f):
		return nil, ValueError.New("cannot convert float NaN to integer")
	case math.IsInf(f, 0):
		return nil, OverflowError.New("cannot convert float infinity to integer")
	}
	t := math.Trunc(f)
	if t < math.MinInt64 || t >= math.MaxInt64 {
		return nil, errIntOverflow()
	}
	return Int(int64(t)), nil
}

func newBoolClass() *Class {
	c := NewInternalClass("bool", IntClass).
		SetMagic(MagicNew, NewNative("bool.__new__", NewFunc(boolNew))).
		SetMagic(MagicRepr, NewNative("bool.__repr__", UnaryFunc(boolRepr)))
	return createInternal(c)
}

func boolNew(th *Thread, cls *Class, args []Value) (Value, error) {
	switch len(args) {
	case 0:
		return False, nil
	case 1:
		ok, err := Truthy(th, args[0])
		if err != nil {
			return nil, err
		}
		return Bool(ok), nil
	}
	return nil, TypeError.New("bool() takes at most 1 argument (%d given)", len(args))
}

func boolRepr(th *Thread, x Value) (Value, error) {
	b, ok := x.(Bool)
	if !ok {
		return nil, TypeError.New("descriptor '__repr__' requires a 'bool' object but received a '%s'", x.Type())
	}
	return Str(b.String()), nil
}
