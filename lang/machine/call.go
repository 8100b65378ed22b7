package machine

import (
	"fmt"
	"strings"
)

// BoundMethod is a function retrieved from a class attribute through an
// instance, bound to that instance as first argument.
type BoundMethod struct {
	Self Value
	Fn   Value
}

var _ Value = (*BoundMethod)(nil)

func (bm *BoundMethod) String() string {
	return fmt.Sprintf("<bound method %s of %s>", funcName(bm.Fn), bm.Self)
}
func (bm *BoundMethod) Type() string { return "method" }
func (bm *BoundMethod) Kind() Kind   { return InternalKind }

func funcName(fn Value) string {
	switch fn := fn.(type) {
	case *Native:
		return fn.Name
	case *Object:
		if f, ok := fn.Function(); ok {
			return f.Name
		}
	}
	return fn.Type()
}

// Call calls fn with args. If fn is a class, it constructs an instance by
// calling __new__ and then __init__, and returns the result of __new__.
// Calling a native function with a number of arguments that does not fit its
// shape panics.
func Call(th *Thread, fn Value, args []Value) (Value, error) {
	switch fn := fn.(type) {
	case *Native:
		return callNative(th, fn, args)
	case *Class:
		return construct(th, fn, args)
	case *Object:
		if f, ok := fn.Function(); ok {
			return th.callFunction(f, args)
		}
	case *BoundMethod:
		return CallMethod(th, fn.Fn, fn.Self, args...)
	case *ExceptionKind:
		return newException(th, fn, args)
	}
	return nil, TypeError.New("'%s' object is not callable", fn.Type())
}

// CallMethod calls fn with self as first argument followed by args, the
// calling convention of magic methods. It must not be used to construct an
// instance, it panics if fn is a class.
func CallMethod(th *Thread, fn, self Value, args ...Value) (Value, error) {
	switch fn := fn.(type) {
	case *Class:
		fatalf("CallMethod cannot construct class %s", fn.Name())
	case *Native:
		return callNativeMethod(th, fn, self, args)
	}

	all := make([]Value, 0, len(args)+1)
	all = append(all, self)
	all = append(all, args...)
	return Call(th, fn, all)
}

// callMagic calls the magic method fn found on cls with self as first
// argument. The methods of a UserDefined class are attributes set by user
// code and may be any value, so they go through the checked call path of
// callValue: a shape mismatch raises a TypeError and a class is constructed.
// Methods of Internal classes use the unchecked CallMethod.
func callMagic(th *Thread, cls *Class, fn, self Value, args ...Value) (Value, error) {
	if cls.kind == Internal {
		return CallMethod(th, fn, self, args...)
	}
	all := make([]Value, 0, len(args)+1)
	all = append(all, self)
	all = append(all, args...)
	return th.callValue(fn, all)
}

// callValue is the call path of user code: argument count mismatches on
// native functions raise a TypeError instead of panicking.
func (th *Thread) callValue(fn Value, args []Value) (Value, error) {
	switch f := fn.(type) {
	case *Native:
		if err := f.checkArgs(args); err != nil {
			return nil, err
		}
	case *BoundMethod:
		if n, ok := f.Fn.(*Native); ok {
			all := make([]Value, 0, len(args)+1)
			all = append(all, f.Self)
			all = append(all, args...)
			if err := n.checkArgs(all); err != nil {
				return nil, err
			}
		}
	}
	return Call(th, fn, args)
}

func construct(th *Thread, cls *Class, args []Value) (Value, error) {
	newFn, ok := cls.SearchForMethod(MagicNew)
	if !ok {
		return nil, TypeError.New("cannot create '%s' instances: missing __new__", cls.Name())
	}
	initFn, ok := cls.SearchForMethod(MagicInit)
	if !ok {
		return nil, TypeError.New("cannot create '%s' instances: missing __init__", cls.Name())
	}

	var self Value
	var err error
	var nf NewFunc
	if n, ok := newFn.(*Native); ok {
		nf, ok = n.Fn.(NewFunc)
		if !ok && cls.kind == Internal {
			fatalf("__new__ of class %s is a %s native", cls.Name(), shapeName(n.Fn))
		}
	}
	if nf != nil {
		self, err = nf(th, cls, args)
	} else {
		self, err = callMagic(th, cls, newFn, cls, args...)
	}
	if err != nil {
		return nil, err
	}

	res, err := callMagic(th, cls, initFn, self, args...)
	if err != nil {
		return nil, err
	}
	if res != None {
		return nil, TypeError.New("__init__() should return None, not '%s'", res.Type())
	}
	return self, nil
}

func newException(th *Thread, kind *ExceptionKind, args []Value) (Value, error) {
	switch len(args) {
	case 0:
		return kind.Empty(), nil
	case 1:
		s, err := ToStr(th, args[0])
		if err != nil {
			return nil, err
		}
		return kind.New(s), nil
	}
	return nil, TypeError.New("%s expected at most 1 argument, got %d", kind.Name(), len(args))
}

func (th *Thread) callFunction(fn *Function, args []Value) (Value, error) {
	if len(args) != fn.Scope.Params {
		return nil, paramsError(fn, len(args))
	}
	if th.MaxCallStackDepth > 0 && len(th.callStack) >= th.MaxCallStackDepth {
		return nil, RecursionError.New("maximum recursion depth exceeded")
	}

	fr := newFuncFrame(fn)
	for i, arg := range args {
		fr.slots[i].v = arg
	}

	th.push(fr)
	defer th.pop()
	th.log().Debug().Str("func", fn.Name).Int("depth", len(th.callStack)).Msg("call")

	comp, err := th.execBlock(fr, fn.Def.Body)
	if err != nil {
		addTrace(err, fr)
		return nil, err
	}
	if comp.Flag == Return && comp.Value != nil {
		return comp.Value, nil
	}
	return None, nil
}

func paramsError(fn *Function, nargs int) error {
	params := fn.Def.Params
	if nargs > len(params) {
		was := "were"
		if nargs == 1 {
			was = "was"
		}
		return TypeError.New("%s() takes %d positional argument%s but %d %s given",
			fn.Name, len(params), plural(len(params)), nargs, was)
	}

	missing := params[nargs:]
	names := make([]string, len(missing))
	for i, p := range missing {
		names[i] = "'" + p.Lit + "'"
	}
	var list string
	switch len(names) {
	case 1:
		list = names[0]
	case 2:
		list = names[0] + " and " + names[1]
	default:
		list = strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
	return TypeError.New("%s() missing %d required positional argument%s: %s",
		fn.Name, len(missing), plural(len(missing)), list)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
