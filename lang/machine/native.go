package machine

import "fmt"

// Shapes of native functions. The shape is a static contract: calling a
// native with a number of arguments that does not fit its shape is a fatal
// error.
type (
	NullaryFunc  func(th *Thread) (Value, error)
	UnaryFunc    func(th *Thread, x Value) (Value, error)
	BinaryFunc   func(th *Thread, x, y Value) (Value, error)
	NewFunc      func(th *Thread, cls *Class, args []Value) (Value, error)
	InitFunc     func(th *Thread, self Value, args []Value) error
	VariadicFunc func(th *Thread, args []Value) (Value, error)
)

// Native is a function implemented in Go. Fn is one of the native function
// shapes.
type Native struct {
	Name string
	Fn   any
}

var _ Value = (*Native)(nil)

// NewNative returns a native function with the provided name. It panics if fn
// is not one of the native function shapes.
func NewNative(name string, fn any) *Native {
	switch fn.(type) {
	case NullaryFunc, UnaryFunc, BinaryFunc, NewFunc, InitFunc, VariadicFunc:
	default:
		fatalf("invalid native function shape %T for %s", fn, name)
	}
	return &Native{Name: name, Fn: fn}
}

func (n *Native) String() string { return "<built-in function " + n.Name + ">" }
func (n *Native) Type() string   { return "builtin_function_or_method" }
func (n *Native) Kind() Kind     { return InternalKind }

// Arity returns the number of arguments expected by the native function, -1
// if it accepts any number of arguments.
func (n *Native) Arity() int {
	switch n.Fn.(type) {
	case NullaryFunc:
		return 0
	case UnaryFunc:
		return 1
	case BinaryFunc:
		return 2
	}
	return -1
}

// checkArgs returns a TypeError if args do not fit the shape of the native
// function. It is used on the user-code call path, where a mismatch is a user
// error rather than an invariant violation.
func (n *Native) checkArgs(args []Value) error {
	nargs := len(args)
	switch n.Fn.(type) {
	case NewFunc:
		if nargs == 0 {
			return TypeError.New("%s(): not enough arguments", n.Name)
		}
		if _, ok := args[0].(*Class); !ok {
			return TypeError.New("%s(X): X is not a type object (%s)", n.Name, args[0].Type())
		}
		return nil
	case InitFunc:
		if nargs == 0 {
			return TypeError.New("%s(): not enough arguments", n.Name)
		}
		return nil
	}

	want := n.Arity()
	if want < 0 || want == nargs {
		return nil
	}
	switch want {
	case 0:
		return TypeError.New("%s() takes no arguments (%d given)", n.Name, nargs)
	case 1:
		return TypeError.New("%s() takes exactly one argument (%d given)", n.Name, nargs)
	}
	return TypeError.New("%s expected %d arguments, got %d", n.Name, want, nargs)
}

func arityPanic(n *Native, nargs int) {
	fatalf("native %s of shape %s called with %d arguments", n.Name, shapeName(n.Fn), nargs)
}

func shapeName(fn any) string {
	switch fn.(type) {
	case NullaryFunc:
		return "nullary"
	case UnaryFunc:
		return "unary"
	case BinaryFunc:
		return "binary"
	case NewFunc:
		return "new"
	case InitFunc:
		return "init"
	case VariadicFunc:
		return "variadic"
	}
	return fmt.Sprintf("%T", fn)
}

// callNative calls the native function n with args. A NewFunc receives the
// class as first argument, an InitFunc receives the instance as first
// argument and returns None.
func callNative(th *Thread, n *Native, args []Value) (Value, error) {
	switch fn := n.Fn.(type) {
	case NullaryFunc:
		if len(args) != 0 {
			arityPanic(n, len(args))
		}
		return fn(th)

	case UnaryFunc:
		if len(args) != 1 {
			arityPanic(n, len(args))
		}
		return fn(th, args[0])

	case BinaryFunc:
		if len(args) != 2 {
			arityPanic(n, len(args))
		}
		return fn(th, args[0], args[1])

	case NewFunc:
		if len(args) == 0 {
			arityPanic(n, len(args))
		}
		cls, ok := args[0].(*Class)
		if !ok {
			fatalf("native %s: first argument of new must be a class, got %s", n.Name, args[0].Type())
		}
		return fn(th, cls, args[1:])

	case InitFunc:
		if len(args) == 0 {
			arityPanic(n, len(args))
		}
		if err := fn(th, args[0], args[1:]); err != nil {
			return nil, err
		}
		return None, nil

	case VariadicFunc:
		return fn(th, args)
	}
	fatalf("invalid native function shape %T for %s", n.Fn, n.Name)
	return nil, nil
}

// callNativeMethod is like callNative with self as first argument, without
// allocating a new arguments slice for the fixed shapes.
func callNativeMethod(th *Thread, n *Native, self Value, args []Value) (Value, error) {
	switch fn := n.Fn.(type) {
	case UnaryFunc:
		if len(args) != 0 {
			arityPanic(n, len(args)+1)
		}
		return fn(th, self)

	case BinaryFunc:
		if len(args) != 1 {
			arityPanic(n, len(args)+1)
		}
		return fn(th, self, args[0])

	case InitFunc:
		if err := fn(th, self, args); err != nil {
			return nil, err
		}
		return None, nil
	}

	all := make([]Value, 0, len(args)+1)
	all = append(all, self)
	all = append(all, args...)
	return callNative(th, n, all)
}
