package machine

import (
	"math"
	"strconv"
	"strings"
)

func newFloatClass() *Class {
	c := NewInternalClass("float", ObjectClass).
		SetMagic(MagicNew, NewNative("float.__new__", NewFunc(floatNew))).
		SetMagic(MagicRepr, NewNative("float.__repr__", UnaryFunc(floatRepr))).
		SetMagic(MagicBool, NewNative("float.__bool__", UnaryFunc(floatBool))).
		SetMagic(MagicInt, NewNative("float.__int__", UnaryFunc(floatInt))).
		SetMagic(MagicFloat, NewNative("float.__float__", UnaryFunc(floatFloat))).
		SetMagic(MagicNeg, NewNative("float.__neg__", UnaryFunc(floatNeg))).
		SetMagic(MagicPos, NewNative("float.__pos__", UnaryFunc(floatFloat)))

	floatArith(c, MagicAdd, MagicRAdd, func(x, y float64) (Value, error) { return Float(x + y), nil })
	floatArith(c, MagicSub, MagicRSub, func(x, y float64) (Value, error) { return Float(x - y), nil })
	floatArith(c, MagicMul, MagicRMul, func(x, y float64) (Value, error) { return Float(x * y), nil })
	floatArith(c, MagicTrueDiv, MagicRTrueDiv, floatTrueDiv)
	floatArith(c, MagicFloorDiv, MagicRFloorDiv, floatFloorDiv)
	floatArith(c, MagicMod, MagicRMod, floatMod)
	floatArith(c, MagicPow, MagicRPow, floatPow)

	floatCompare(c, MagicEq, func(x, y float64) bool { return x == y })
	floatCompare(c, MagicNe, func(x, y float64) bool { return x != y })
	floatCompare(c, MagicLt, func(x, y float64) bool { return x < y })
	floatCompare(c, MagicLe, func(x, y float64) bool { return x <= y })
	floatCompare(c, MagicGt, func(x, y float64) bool { return x > y })
	floatCompare(c, MagicGe, func(x, y float64) bool { return x >= y })
	return createInternal(c)
}

// floatOperand returns the floating-point value of a float, int or bool
// operand.
func floatOperand(v Value) (float64, bool) {
	if f, ok := v.(Float); ok {
		return float64(f), true
	}
	if i, ok := intOperand(v); ok {
		return float64(i), true
	}
	return 0, false
}

func floatArith(c *Class, fwd, rev MagicMethod, op func(x, y float64) (Value, error)) {
	c.SetMagic(fwd, NewNative("float."+fwd.String(), BinaryFunc(func(th *Thread, x, y Value) (Value, error) {
		a, ok1 := floatOperand(x)
		b, ok2 := floatOperand(y)
		if !ok1 || !ok2 {
			return nil, NotImplementedError.Empty()
		}
		return op(a, b)
	})))
	c.SetMagic(rev, NewNative("float."+rev.String(), BinaryFunc(func(th *Thread, x, y Value) (Value, error) {
		a, ok1 := floatOperand(x)
		b, ok2 := floatOperand(y)
		if !ok1 || !ok2 {
			return nil, NotImplementedError.Empty()
		}
		return op(b, a)
	})))
}

func floatCompare(c *Class, m MagicMethod, cmp func(x, y float64) bool) {
	c.SetMagic(m, NewNative("float."+m.String(), BinaryFunc(func(th *Thread, x, y Value) (Value, error) {
		a, ok1 := floatOperand(x)
		b, ok2 := floatOperand(y)
		if !ok1 || !ok2 {
			return nil, NotImplementedError.Empty()
		}
		return Bool(cmp(a, b)), nil
	})))
}

func floatTrueDiv(x, y float64) (Value, error) {
	if y == 0 {
		return nil, ZeroDivisionError.New("float division by zero")
	}
	return Float(x / y), nil
}

func floatFloorDiv(x, y float64) (Value, error) {
	if y == 0 {
		return nil, ZeroDivisionError.New("float floor division by zero")
	}
	return Float(math.Floor(x / y)), nil
}

func floatMod(x, y float64) (Value, error) {
	if y == 0 {
		return nil, ZeroDivisionError.New("float modulo by zero")
	}
	r := math.Mod(x, y)
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	}
	return Float(r), nil
}

func floatPow(x, y float64) (Value, error) {
	if x == 0 && y < 0 {
		return nil, ZeroDivisionError.New("zero to a negative power")
	}
	if x < 0 && y != math.Trunc(y) {
		return nil, ValueError.New("negative number cannot be raised to a fractional power")
	}
	return Float(math.Pow(x, y)), nil
}

func floatSelf(x Value, method string) (float64, error) {
	f, ok := x.(Float)
	if !ok {
		return 0, TypeError.New("descriptor '%s' requires a 'float' object but received a '%s'", method, x.Type())
	}
	return float64(f), nil
}

func floatRepr(th *Thread, x Value) (Value, error) {
	f, err := floatSelf(x, "__repr__")
	if err != nil {
		return nil, err
	}
	return Str(formatFloat(f)), nil
}

func floatBool(th *Thread, x Value) (Value, error) {
	f, err := floatSelf(x, "__bool__")
	if err != nil {
		return nil, err
	}
	return Bool(f != 0), nil
}

func floatInt(th *Thread, x Value) (Value, error) {
	f, err := floatSelf(x, "__int__")
	if err != nil {
		return nil, err
	}
	return floatToInt(f)
}

func floatFloat(th *Thread, x Value) (Value, error) {
	f, err := floatSelf(x, "__float__")
	if err != nil {
		return nil, err
	}
	return Float(f), nil
}

func floatNeg(th *Thread, x Value) (Value, error) {
	f, err := floatSelf(x, "__neg__")
	if err != nil {
		return nil, err
	}
	return Float(-f), nil
}

func floatNew(th *Thread, cls *Class, args []Value) (Value, error) {
	switch len(args) {
	case 0:
		return Float(0), nil
	case 1:
	default:
		return nil, TypeError.New("float expected at most 1 argument, got %d", len(args))
	}

	if f, ok := floatOperand(args[0]); ok {
		return Float(f), nil
	}
	if s, ok := args[0].(Str); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
		if err != nil {
			if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
				return nil, ValueError.New("could not convert string to float: %s", quoteStr(string(s)))
			}
		}
		return Float(f), nil
	}

	xcls := ClassOf(args[0])
	fn, ok := xcls.SearchForMethod(MagicFloat)
	if !ok {
		return nil, TypeError.New("float() argument must be a string or a real number, not '%s'", args[0].Type())
	}
	res, err := callMagic(th, xcls, fn, args[0])
	if err != nil {
		return nil, err
	}
	if _, ok := res.(Float); !ok {
		return nil, TypeError.New("%s.__float__ returned non-float (type %s)", args[0].Type(), res.Type())
	}
	return res, nil
}
