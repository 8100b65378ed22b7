package machine

import (
	"fmt"
)

// ClassOf returns the class of v.
func ClassOf(v Value) *Class {
	switch v := v.(type) {
	case Int:
		return IntClass
	case Float:
		return FloatClass
	case Bool:
		return BoolClass
	case Str:
		return StrClass
	case NoneType:
		return NoneTypeClass
	case *Object:
		return v.Class()
	case *Native:
		return BuiltinClass
	case *Class, *ExceptionKind:
		return TypeClass
	case *Exception:
		return ExceptionClass
	case *BoundMethod:
		return MethodClass
	}
	fatalf("no class for value of type %T", v)
	return nil
}

// BinaryOp is an arithmetic binary operator.
type BinaryOp uint8

// List of binary operators.
const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpTrueDiv
	OpFloorDiv
	OpMod
	OpPow
)

var binaryOps = [...]struct {
	sym      string
	fwd, rev MagicMethod
}{
	OpAdd:      {"+", MagicAdd, MagicRAdd},
	OpSub:      {"-", MagicSub, MagicRSub},
	OpMul:      {"*", MagicMul, MagicRMul},
	OpTrueDiv:  {"/", MagicTrueDiv, MagicRTrueDiv},
	OpFloorDiv: {"//", MagicFloorDiv, MagicRFloorDiv},
	OpMod:      {"%", MagicMod, MagicRMod},
	OpPow:      {"**", MagicPow, MagicRPow},
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOps) {
		return binaryOps[op].sym
	}
	return fmt.Sprintf("<invalid BinaryOp %d>", op)
}

// CompareOp is a comparison operator.
type CompareOp uint8

// List of comparison operators.
const (
	CmpLt CompareOp = iota
	CmpLe
	CmpGt
	CmpGe
	CmpEq
	CmpNe
)

// The reflected method of a comparison is its mirror: x < y is y > x.
var compareOps = [...]struct {
	sym      string
	fwd, rev MagicMethod
}{
	CmpLt: {"<", MagicLt, MagicGt},
	CmpLe: {"<=", MagicLe, MagicGe},
	CmpGt: {">", MagicGt, MagicLt},
	CmpGe: {">=", MagicGe, MagicLe},
	CmpEq: {"==", MagicEq, MagicEq},
	CmpNe: {"!=", MagicNe, MagicNe},
}

func (op CompareOp) String() string {
	if int(op) < len(compareOps) {
		return compareOps[op].sym
	}
	return fmt.Sprintf("<invalid CompareOp %d>", op)
}

// dispatch calls the forward method fwd of x with y and, if x does not
// define it or if it raises NotImplementedError, the reflected method rev of
// y with x. It returns false if neither side handled the operation.
func dispatch(th *Thread, fwd, rev MagicMethod, x, y Value) (Value, bool, error) {
	xcls := ClassOf(x)
	if fn, ok := xcls.SearchForMethod(fwd); ok {
		res, err := callMagic(th, xcls, fn, x, y)
		if err == nil {
			return res, true, nil
		}
		if !IsKind(err, NotImplementedError) {
			return nil, false, err
		}
	}

	ycls := ClassOf(y)
	if fn, ok := ycls.SearchForMethod(rev); ok {
		res, err := callMagic(th, ycls, fn, y, x)
		if err == nil {
			return res, true, nil
		}
		if !IsKind(err, NotImplementedError) {
			return nil, false, err
		}
	}
	return nil, false, nil
}

// Binary returns the result of x op y.
func Binary(th *Thread, op BinaryOp, x, y Value) (Value, error) {
	info := binaryOps[op]
	res, ok, err := dispatch(th, info.fwd, info.rev, x, y)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, TypeError.New("unsupported operand type(s) for %s: '%s' and '%s'", info.sym, x.Type(), y.Type())
	}
	return res, nil
}

// Compare returns the result of x op y. The result is usually a Bool, but
// user-defined comparison methods may return any value. If neither operand
// implements == or !=, they compare by identity.
func Compare(th *Thread, op CompareOp, x, y Value) (Value, error) {
	info := compareOps[op]
	res, ok, err := dispatch(th, info.fwd, info.rev, x, y)
	if err != nil {
		return nil, err
	}
	if ok {
		return res, nil
	}

	switch op {
	case CmpEq:
		return Bool(Identical(x, y)), nil
	case CmpNe:
		return Bool(!Identical(x, y)), nil
	}
	return nil, TypeError.New("'%s' not supported between instances of '%s' and '%s'", info.sym, x.Type(), y.Type())
}

// Equal returns true if x == y is truthy.
func Equal(th *Thread, x, y Value) (bool, error) {
	res, err := Compare(th, CmpEq, x, y)
	if err != nil {
		return false, err
	}
	return Truthy(th, res)
}

// Contains returns true if x is in container, as tested by the __contains__
// method of the container.
func Contains(th *Thread, x, container Value) (bool, error) {
	cls := ClassOf(container)
	fn, ok := cls.SearchForMethod(MagicContains)
	if !ok {
		return false, TypeError.New("argument of type '%s' is not iterable", container.Type())
	}
	res, err := callMagic(th, cls, fn, container, x)
	if err != nil {
		return false, err
	}
	return Truthy(th, res)
}

func unary(th *Thread, m MagicMethod, sym string, x Value) (Value, error) {
	cls := ClassOf(x)
	fn, ok := cls.SearchForMethod(m)
	if !ok {
		return nil, TypeError.New("bad operand type for unary %s: '%s'", sym, x.Type())
	}
	return callMagic(th, cls, fn, x)
}

// Neg returns -x.
func Neg(th *Thread, x Value) (Value, error) { return unary(th, MagicNeg, "-", x) }

// Pos returns +x.
func Pos(th *Thread, x Value) (Value, error) { return unary(th, MagicPos, "+", x) }

// Truthy returns the truth value of x. Values that do not define __bool__
// are true.
func Truthy(th *Thread, x Value) (bool, error) {
	switch x := x.(type) {
	case Bool:
		return bool(x), nil
	case NoneType:
		return false, nil
	case Int:
		return x != 0, nil
	case Float:
		return x != 0, nil
	case Str:
		return x != "", nil
	}

	cls := ClassOf(x)
	fn, ok := cls.SearchForMethod(MagicBool)
	if !ok {
		return true, nil
	}
	res, err := callMagic(th, cls, fn, x)
	if err != nil {
		return false, err
	}
	b, ok := res.(Bool)
	if !ok {
		return false, TypeError.New("__bool__ should return bool, returned %s", res.Type())
	}
	return bool(b), nil
}

// ToStr returns the string conversion of x, as done by str(x).
func ToStr(th *Thread, x Value) (string, error) {
	if s, ok := x.(Str); ok {
		return string(s), nil
	}
	return toString(th, MagicStr, x)
}

// ToRepr returns the representation of x, as done by repr(x).
func ToRepr(th *Thread, x Value) (string, error) {
	return toString(th, MagicRepr, x)
}

func toString(th *Thread, m MagicMethod, x Value) (string, error) {
	cls := ClassOf(x)
	fn, ok := cls.SearchForMethod(m)
	if !ok {
		return x.String(), nil
	}
	res, err := callMagic(th, cls, fn, x)
	if err != nil {
		return "", err
	}
	s, ok := res.(Str)
	if !ok {
		return "", TypeError.New("%s returned non-string (type %s)", m, res.Type())
	}
	return string(s), nil
}

// Iterate returns the iterator of x and its __next__ method.
func Iterate(th *Thread, x Value) (iter, next Value, err error) {
	cls := ClassOf(x)
	fn, ok := cls.SearchForMethod(MagicIter)
	if !ok {
		return nil, nil, TypeError.New("'%s' object is not iterable", x.Type())
	}
	iter, err = callMagic(th, cls, fn, x)
	if err != nil {
		return nil, nil, err
	}
	next, ok = ClassOf(iter).SearchForMethod(MagicNext)
	if !ok {
		return nil, nil, TypeError.New("iter() returned non-iterator of type '%s'", iter.Type())
	}
	return iter, next, nil
}

// GetAttr returns the attribute name of x. On an instance, fields take
// precedence over class attributes. Functions found on the class of x are
// bound to x. On a class, the attribute is returned unbound.
func GetAttr(x Value, name string) (Value, error) {
	switch x := x.(type) {
	case *Class:
		if v, ok := x.SearchForAttr(name); ok {
			return v, nil
		}
		return nil, AttributeError.New("type object '%s' has no attribute '%s'", x.Name(), name)

	case *Object:
		if _, ok := x.Function(); !ok {
			v, err := x.GetField(name)
			if err == nil {
				return v, nil
			}
			if !IsKind(err, AttributeError) {
				return nil, err
			}
		}
	}

	if v, ok := ClassOf(x).SearchForAttr(name); ok {
		return bindMethod(x, v), nil
	}
	return nil, AttributeError.New("'%s' object has no attribute '%s'", x.Type(), name)
}

func bindMethod(self, v Value) Value {
	switch v := v.(type) {
	case *Native:
		return &BoundMethod{Self: self, Fn: v}
	case *Object:
		if _, ok := v.Function(); ok {
			return &BoundMethod{Self: self, Fn: v}
		}
	}
	return v
}

// SetAttr sets the attribute name of x to v. Only instances of user-defined
// classes and user-defined classes accept new attributes.
func SetAttr(x Value, name string, v Value) error {
	switch x := x.(type) {
	case *Object:
		if _, ok := x.Function(); !ok {
			return x.SetField(name, v)
		}
	case *Class:
		return x.SetAttr(name, v)
	}
	return AttributeError.New("'%s' object has no attribute '%s'", x.Type(), name)
}
