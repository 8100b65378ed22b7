package machine

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// The built-in classes. They are created once, in dependency order, when the
// package is initialized.
var (
	ObjectClass        *Class
	IntClass           *Class
	BoolClass          *Class
	FloatClass         *Class
	StrClass           *Class
	StrIteratorClass   *Class
	NoneTypeClass      *Class
	RangeClass         *Class
	RangeIteratorClass *Class
	FunctionClass      *Class
	BuiltinClass       *Class
	TypeClass          *Class
	MethodClass        *Class
	ExceptionClass     *Class
)

// Universe defines the set of universal built-ins core to the language, such
// as print and the exception kinds. It must not be modified.
var Universe map[string]Value

func init() {
	ObjectClass = newObjectClass()
	IntClass = newIntClass()
	BoolClass = newBoolClass()
	FloatClass = newFloatClass()
	StrClass = newStrClass()
	StrIteratorClass = newStrIteratorClass()
	NoneTypeClass = newNoneTypeClass()
	RangeClass = newRangeClass()
	RangeIteratorClass = newRangeIteratorClass()
	FunctionClass = createInternal(NewInternalClass("function", ObjectClass))
	BuiltinClass = createInternal(NewInternalClass("builtin_function_or_method", ObjectClass))
	TypeClass = createInternal(NewInternalClass("type", ObjectClass))
	MethodClass = createInternal(NewInternalClass("method", ObjectClass))
	ExceptionClass = newExceptionClass()

	Universe = map[string]Value{
		"bool":       BoolClass,
		"float":      FloatClass,
		"int":        IntClass,
		"isinstance": NewNative("isinstance", BinaryFunc(builtinIsinstance)),
		"object":     ObjectClass,
		"print":      NewNative("print", VariadicFunc(builtinPrint)),
		"range":      RangeClass,
		"repr":       NewNative("repr", UnaryFunc(builtinRepr)),
		"str":        StrClass,
		"type":       NewNative("type", UnaryFunc(builtinType)),
	}
	for _, k := range exceptionKinds {
		Universe[k.Name()] = k
	}
}

// IsUniversal returns true if name is defined in the Universe. It is the
// predicate used by the resolver.
func IsUniversal(name string) bool {
	_, ok := Universe[name]
	return ok
}

// UniverseNames returns the sorted names of the Universe.
func UniverseNames() []string {
	names := maps.Keys(Universe)
	slices.Sort(names)
	return names
}

func createInternal(c *Class) *Class {
	if err := c.Create(); err != nil {
		fatalf("internal class %s: %s", c.Name(), err)
	}
	return c
}
