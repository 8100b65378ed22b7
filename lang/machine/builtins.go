package machine

import (
	"fmt"
	"strings"
)

func builtinPrint(th *Thread, args []Value) (Value, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		s, err := ToStr(th, arg)
		if err != nil {
			return nil, err
		}
		parts[i] = s
	}
	if _, err := fmt.Fprintln(th.stdout(), strings.Join(parts, " ")); err != nil {
		return nil, OSError.New(err.Error())
	}
	return None, nil
}

func builtinRepr(th *Thread, x Value) (Value, error) {
	s, err := ToRepr(th, x)
	if err != nil {
		return nil, err
	}
	return Str(s), nil
}

func builtinIsinstance(th *Thread, x, typ Value) (Value, error) {
	switch typ := typ.(type) {
	case *Class:
		return Bool(ClassOf(x).IsSubclass(typ)), nil
	case *ExceptionKind:
		exc, ok := x.(*Exception)
		return Bool(ok && exc.kind.IsSubkindOf(typ)), nil
	}
	return nil, TypeError.New("isinstance() arg 2 must be a type")
}

// builtinType returns the class of x. The type of an exception is its kind.
func builtinType(th *Thread, x Value) (Value, error) {
	if exc, ok := x.(*Exception); ok {
		return exc.kind, nil
	}
	return ClassOf(x), nil
}

func newObjectClass() *Class {
	c := NewInternalClass("object").
		SetMagic(MagicNew, NewNative("object.__new__", NewFunc(objectNew))).
		SetMagic(MagicInit, NewNative("object.__init__", InitFunc(objectInit))).
		SetMagic(MagicStr, NewNative("object.__str__", UnaryFunc(objectStr))).
		SetMagic(MagicRepr, NewNative("object.__repr__", UnaryFunc(objectRepr)))
	return createInternal(c)
}

func objectNew(th *Thread, cls *Class, args []Value) (Value, error) {
	if cls.ClassKind() == Internal && cls != ObjectClass {
		return nil, TypeError.New("cannot create '%s' instances", cls.Name())
	}
	if len(args) > 0 && !cls.OverridesObject(MagicInit) {
		return nil, TypeError.New("%s() takes no arguments", cls.Name())
	}
	return NewInstanceObject(NewInstance(cls, nil)), nil
}

func objectInit(th *Thread, self Value, args []Value) error {
	if len(args) > 0 && !ClassOf(self).OverridesObject(MagicNew) {
		return TypeError.New("object.__init__() takes exactly one argument (the instance to initialize)")
	}
	return nil
}

func objectStr(th *Thread, self Value) (Value, error) {
	return builtinRepr(th, self)
}

func objectRepr(th *Thread, self Value) (Value, error) {
	return Str(self.String()), nil
}

func newExceptionClass() *Class {
	c := NewInternalClass("BaseException", ObjectClass).
		SetMagic(MagicStr, NewNative("BaseException.__str__", UnaryFunc(exceptionStr))).
		SetMagic(MagicRepr, NewNative("BaseException.__repr__", UnaryFunc(exceptionRepr)))
	return createInternal(c)
}

func asException(x Value, method string) (*Exception, error) {
	exc, ok := x.(*Exception)
	if !ok {
		return nil, TypeError.New("descriptor '%s' requires a 'BaseException' object but received a '%s'", method, x.Type())
	}
	return exc, nil
}

func exceptionStr(th *Thread, x Value) (Value, error) {
	exc, err := asException(x, "__str__")
	if err != nil {
		return nil, err
	}
	return Str(exc.Msg), nil
}

func exceptionRepr(th *Thread, x Value) (Value, error) {
	exc, err := asException(x, "__repr__")
	if err != nil {
		return nil, err
	}
	if !exc.HasMsg {
		return Str(exc.kind.name + "()"), nil
	}
	return Str(exc.kind.name + "(" + quoteStr(exc.Msg) + ")"), nil
}

func newNoneTypeClass() *Class {
	c := NewInternalClass("NoneType", ObjectClass).
		SetMagic(MagicRepr, NewNative("NoneType.__repr__", UnaryFunc(func(th *Thread, x Value) (Value, error) {
			return Str("None"), nil
		}))).
		SetMagic(MagicBool, NewNative("NoneType.__bool__", UnaryFunc(func(th *Thread, x Value) (Value, error) {
			return False, nil
		})))
	return createInternal(c)
}

// payloadOf returns the payload of x if it is an instance holding a payload
// of type P, along with the function that releases the borrow acquired on
// x. The borrow is exclusive if mut is true.
func payloadOf[P Payload](x Value, cls *Class, method string, mut bool) (P, func(), error) {
	if o, ok := x.(*Object); ok && o.inst != nil {
		if p, ok := o.inst.payload.(P); ok {
			var release func()
			if mut {
				_, release = o.BorrowMut()
			} else {
				_, release = o.Borrow()
			}
			return p, release, nil
		}
	}
	var zero P
	return zero, nil, TypeError.New("descriptor '%s' requires a '%s' object but received a '%s'", method, cls.Name(), x.Type())
}
