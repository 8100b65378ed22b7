package machine

import (
	"math"
	"testing"

	"github.com/dolthub/swiss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mroNames(c *Class) []string {
	names := make([]string, len(c.MRO()))
	for i, k := range c.MRO() {
		names[i] = k.Name()
	}
	return names
}

func TestClassMRO(t *testing.T) {
	a, err := NewUserClass("A", nil, nil)
	require.NoError(t, err)
	b, err := NewUserClass("B", []*Class{a}, nil)
	require.NoError(t, err)
	c, err := NewUserClass("C", []*Class{a}, nil)
	require.NoError(t, err)
	d, err := NewUserClass("D", []*Class{b, c}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "object"}, mroNames(a))
	assert.Equal(t, []string{"D", "B", "C", "A", "object"}, mroNames(d))
	assert.True(t, d.IsSubclass(a))
	assert.True(t, d.IsSubclass(ObjectClass))
	assert.False(t, a.IsSubclass(d))

	_, err = NewUserClass("E", []*Class{a, b}, nil)
	require.Error(t, err)
	assert.True(t, IsKind(err, TypeError))
	assert.Contains(t, err.Error(), "consistent method resolution order")

	assert.Equal(t, []string{"bool", "int", "object"}, mroNames(BoolClass))
}

func TestClassInternalFlattening(t *testing.T) {
	base := NewInternalClass("base", ObjectClass)
	fn := NewNative("base.__neg__", UnaryFunc(func(th *Thread, x Value) (Value, error) { return Int(1), nil }))
	base.SetMagic(MagicNeg, fn)
	require.NoError(t, base.Create())

	derived := NewInternalClass("derived", base)
	require.NoError(t, derived.Create())

	// copied down, no walk of the hierarchy
	assert.Same(t, fn, derived.magic[MagicNeg])
	v, ok := derived.SearchForMethod(MagicNeg)
	require.True(t, ok)
	assert.Same(t, fn, v)

	// inherited from object
	v, ok = derived.SearchForMethod(MagicRepr)
	require.True(t, ok)
	assert.Same(t, ObjectClass.magic[MagicRepr], v)
	assert.True(t, base.DefinesAttribute(MagicNeg))
	assert.False(t, derived.DefinesAttribute(MagicNeg))
	assert.False(t, derived.DefinesAttribute(MagicRepr))
	assert.True(t, derived.OverridesObject(MagicNeg))
	assert.False(t, derived.OverridesObject(MagicRepr))

	_, ok = derived.SearchForMethod(MagicAdd)
	assert.False(t, ok)

	v, ok = derived.SearchForAttr("__neg__")
	require.True(t, ok)
	assert.Same(t, fn, v)
}

func TestClassInternalFlatteningOrder(t *testing.T) {
	neg := func(name string, v int) *Native {
		return NewNative(name, UnaryFunc(func(th *Thread, x Value) (Value, error) { return Int(v), nil }))
	}
	fnA, fnC := neg("a.__neg__", 1), neg("c.__neg__", 3)

	a := NewInternalClass("a", ObjectClass).SetMagic(MagicNeg, fnA)
	require.NoError(t, a.Create())
	b := NewInternalClass("b", a)
	require.NoError(t, b.Create())
	c := NewInternalClass("c", a).SetMagic(MagicNeg, fnC)
	require.NoError(t, c.Create())
	d := NewInternalClass("d", b, c)
	require.NoError(t, d.Create())

	// b holds a copy of a's method, but c comes before a in the MRO of d
	assert.Equal(t, []string{"d", "b", "c", "a", "object"}, mroNames(d))
	assert.Same(t, fnA, b.magic[MagicNeg])
	v, ok := d.SearchForMethod(MagicNeg)
	require.True(t, ok)
	assert.Same(t, fnC, v)
	assert.False(t, d.DefinesAttribute(MagicNeg))
}

func TestClassUserLookup(t *testing.T) {
	attrs := swiss.NewMap[string, Value](0)
	attrs.Put("x", Int(1))
	a, err := NewUserClass("A", nil, attrs)
	require.NoError(t, err)
	b, err := NewUserClass("B", []*Class{a}, nil)
	require.NoError(t, err)

	v, ok := b.SearchForAttr("x")
	require.True(t, ok)
	assert.Equal(t, Int(1), v)

	// user classes see later changes to their bases
	fn := NewNative("A.__neg__", UnaryFunc(func(th *Thread, x Value) (Value, error) { return Int(2), nil }))
	require.NoError(t, a.SetAttr("__neg__", fn))
	v, ok = b.SearchForMethod(MagicNeg)
	require.True(t, ok)
	assert.Same(t, fn, v)

	_, ok = b.SearchForAttr("y")
	assert.False(t, ok)

	assert.True(t, a.DefinesAttribute(MagicNeg))
	assert.False(t, b.DefinesAttribute(MagicNeg))
	assert.True(t, b.OverridesObject(MagicNeg))
	assert.False(t, b.OverridesObject(MagicInit))
}

func TestClassCreatePanics(t *testing.T) {
	c := NewInternalClass("once", ObjectClass)
	require.NoError(t, c.Create())
	require.PanicsWithValue(t, Fatal{Msg: "class once already created"}, func() { _ = c.Create() })
	require.Panics(t, func() { c.SetMagic(MagicNeg, None) })
	require.Panics(t, func() { c.SetStatic("x", None) })

	notCreated := NewInternalClass("pending", ObjectClass)
	require.Panics(t, func() { notCreated.SearchForMethod(MagicRepr) })
	require.Panics(t, func() { _ = NewInternalClass("child", notCreated).Create() })
}

func TestObjectBorrow(t *testing.T) {
	cls, err := NewUserClass("A", nil, nil)
	require.NoError(t, err)
	o := NewInstanceObject(NewInstance(cls, nil))

	_, r1 := o.Borrow()
	_, r2 := o.Borrow()
	require.Panics(t, func() { o.BorrowMut() })
	r1()
	r2()

	_, rm := o.BorrowMut()
	require.Panics(t, func() { o.Borrow() })
	require.Panics(t, func() { o.BorrowMut() })
	require.Panics(t, func() { _ = o.SetField("x", Int(1)) })
	rm()

	require.NoError(t, o.SetField("x", Int(1)))
	v, err := o.GetField("x")
	require.NoError(t, err)
	assert.Equal(t, Int(1), v)

	fo := NewFunctionObject(&Function{Name: "f"})
	require.Panics(t, func() { fo.Borrow() })
	assert.Equal(t, "function", fo.Type())
	assert.Same(t, FunctionClass, fo.Class())
}

func TestNativeShapes(t *testing.T) {
	require.Panics(t, func() { NewNative("bad", func() {}) })

	var th Thread
	n := NewNative("one", UnaryFunc(func(th *Thread, x Value) (Value, error) { return x, nil }))
	assert.Equal(t, 1, n.Arity())
	require.PanicsWithValue(t, Fatal{Msg: "native one of shape unary called with 2 arguments"}, func() {
		_, _ = Call(&th, n, []Value{Int(1), Int(2)})
	})

	v, err := Call(&th, n, []Value{Int(1)})
	require.NoError(t, err)
	assert.Equal(t, Int(1), v)

	err = n.checkArgs(nil)
	require.Error(t, err)
	assert.Equal(t, "TypeError: one() takes exactly one argument (0 given)", err.Error())

	variadic := NewNative("many", VariadicFunc(func(th *Thread, args []Value) (Value, error) { return Int(len(args)), nil }))
	assert.Equal(t, -1, variadic.Arity())
	v, err = Call(&th, variadic, []Value{None, None, None})
	require.NoError(t, err)
	assert.Equal(t, Int(3), v)

	require.Panics(t, func() { _, _ = CallMethod(&th, IntClass, Int(1)) })
}

func TestIdentical(t *testing.T) {
	assert.True(t, Identical(Int(1), Int(1)))
	assert.False(t, Identical(Int(1), Float(1)))
	assert.False(t, Identical(Int(1), True))
	assert.True(t, Identical(Str("a"), Str("a")))
	assert.True(t, Identical(None, None))
	assert.True(t, Identical(Float(0), Float(0)))
	assert.False(t, Identical(Float(0), Float(math.Copysign(0, -1))))

	a := NewInstanceObject(NewInstance(ObjectClass, nil))
	b := NewInstanceObject(NewInstance(ObjectClass, nil))
	assert.True(t, Identical(a, a))
	assert.False(t, Identical(a, b))
}

func TestExceptionKinds(t *testing.T) {
	assert.True(t, ZeroDivisionError.IsSubkindOf(ArithmeticError))
	assert.True(t, ZeroDivisionError.IsSubkindOf(StdException))
	assert.True(t, ZeroDivisionError.IsSubkindOf(BaseException))
	assert.False(t, ZeroDivisionError.IsSubkindOf(ValueError))
	assert.False(t, KeyboardInterrupt.IsSubkindOf(StdException))
	assert.True(t, RecursionError.IsSubkindOf(RuntimeError))

	// kinds are identified by name
	assert.True(t, NewExceptionKind("ValueError").Is(ValueError))

	err := ValueError.New("bad %d", 1)
	assert.True(t, IsKind(err, ValueError))
	assert.False(t, IsKind(err, StdException))
	assert.Equal(t, "ValueError: bad 1", err.Error())
	assert.Equal(t, "KeyError", KeyError.Empty().Error())

	err.AddTrace("a.py", 3, "f")
	err.AddTrace("a.py", 9, "<module>")
	assert.Equal(t, "Traceback (most recent call last):\n\tFile \"a.py\", line 9, in <module>\n\tFile \"a.py\", line 3, in f\nValueError: bad 1", err.Format())

	for _, k := range exceptionKinds {
		assert.True(t, IsUniversal(k.Name()), k.Name())
	}
}
