package machine

import (
	"strings"
	"unicode/utf8"
)

const maxStrLen = 1 << 30

func newStrClass() *Class {
	c := NewInternalClass("str", ObjectClass).
		SetMagic(MagicNew, NewNative("str.__new__", NewFunc(strNew))).
		SetMagic(MagicStr, NewNative("str.__str__", UnaryFunc(strStr))).
		SetMagic(MagicRepr, NewNative("str.__repr__", UnaryFunc(strRepr))).
		SetMagic(MagicBool, NewNative("str.__bool__", UnaryFunc(strBool))).
		SetMagic(MagicAdd, NewNative("str.__add__", BinaryFunc(strAdd))).
		SetMagic(MagicMul, NewNative("str.__mul__", BinaryFunc(strMul))).
		SetMagic(MagicRMul, NewNative("str.__rmul__", BinaryFunc(strMul))).
		SetMagic(MagicContains, NewNative("str.__contains__", BinaryFunc(strContains))).
		SetMagic(MagicIter, NewNative("str.__iter__", UnaryFunc(strIter)))

	strCompare(c, MagicEq, func(x, y string) bool { return x == y })
	strCompare(c, MagicNe, func(x, y string) bool { return x != y })
	strCompare(c, MagicLt, func(x, y string) bool { return x < y })
	strCompare(c, MagicLe, func(x, y string) bool { return x <= y })
	strCompare(c, MagicGt, func(x, y string) bool { return x > y })
	strCompare(c, MagicGe, func(x, y string) bool { return x >= y })
	return createInternal(c)
}

func strCompare(c *Class, m MagicMethod, cmp func(x, y string) bool) {
	c.SetMagic(m, NewNative("str."+m.String(), BinaryFunc(func(th *Thread, x, y Value) (Value, error) {
		a, ok1 := x.(Str)
		b, ok2 := y.(Str)
		if !ok1 || !ok2 {
			return nil, NotImplementedError.Empty()
		}
		return Bool(cmp(string(a), string(b))), nil
	})))
}

func strSelf(x Value, method string) (string, error) {
	s, ok := x.(Str)
	if !ok {
		return "", TypeError.New("descriptor '%s' requires a 'str' object but received a '%s'", method, x.Type())
	}
	return string(s), nil
}

func strNew(th *Thread, cls *Class, args []Value) (Value, error) {
	switch len(args) {
	case 0:
		return Str(""), nil
	case 1:
		s, err := ToStr(th, args[0])
		if err != nil {
			return nil, err
		}
		return Str(s), nil
	}
	return nil, TypeError.New("str() takes at most 1 argument (%d given)", len(args))
}

func strStr(th *Thread, x Value) (Value, error) {
	s, err := strSelf(x, "__str__")
	if err != nil {
		return nil, err
	}
	return Str(s), nil
}

func strRepr(th *Thread, x Value) (Value, error) {
	s, err := strSelf(x, "__repr__")
	if err != nil {
		return nil, err
	}
	return Str(quoteStr(s)), nil
}

func strBool(th *Thread, x Value) (Value, error) {
	s, err := strSelf(x, "__bool__")
	if err != nil {
		return nil, err
	}
	return Bool(s != ""), nil
}

func strAdd(th *Thread, x, y Value) (Value, error) {
	a, ok1 := x.(Str)
	b, ok2 := y.(Str)
	if !ok1 || !ok2 {
		return nil, NotImplementedError.Empty()
	}
	return a + b, nil
}

// strMul repeats the string n times, for both s * n and n * s.
func strMul(th *Thread, x, y Value) (Value, error) {
	s, ok1 := x.(Str)
	n, ok2 := intOperand(y)
	if !ok1 || !ok2 {
		return nil, NotImplementedError.Empty()
	}
	if n <= 0 || s == "" {
		return Str(""), nil
	}
	if n > int64(maxStrLen/len(s)) {
		return nil, OverflowError.New("repeated string is too long")
	}
	return Str(strings.Repeat(string(s), int(n))), nil
}

func strContains(th *Thread, x, y Value) (Value, error) {
	s, err := strSelf(x, "__contains__")
	if err != nil {
		return nil, err
	}
	sub, ok := y.(Str)
	if !ok {
		return nil, TypeError.New("'in <string>' requires string as left operand, not %s", y.Type())
	}
	return Bool(strings.Contains(s, string(sub))), nil
}

func strIter(th *Thread, x Value) (Value, error) {
	s, err := strSelf(x, "__iter__")
	if err != nil {
		return nil, err
	}
	return NewInstanceObject(NewInstance(StrIteratorClass, &strIterator{s: s})), nil
}

// strIterator yields the characters of a string, one code point at a time.
type strIterator struct {
	s   string
	pos int
}

func (it *strIterator) Field(name string) (Value, bool) { return nil, false }

func (it *strIterator) SetField(name string, v Value) error {
	return AttributeError.New("'str_iterator' object has no attribute '%s'", name)
}

func newStrIteratorClass() *Class {
	c := NewInternalClass("str_iterator", ObjectClass).
		SetMagic(MagicIter, NewNative("str_iterator.__iter__", UnaryFunc(iterSelf))).
		SetMagic(MagicNext, NewNative("str_iterator.__next__", UnaryFunc(strIteratorNext)))
	return createInternal(c)
}

func strIteratorNext(th *Thread, x Value) (Value, error) {
	it, release, err := payloadOf[*strIterator](x, StrIteratorClass, "__next__", true)
	if err != nil {
		return nil, err
	}
	defer release()

	if it.pos >= len(it.s) {
		return nil, StopIteration.Empty()
	}
	_, n := utf8.DecodeRuneInString(it.s[it.pos:])
	ch := it.s[it.pos : it.pos+n]
	it.pos += n
	return Str(ch), nil
}

// iterSelf is the __iter__ method of iterators.
func iterSelf(th *Thread, x Value) (Value, error) { return x, nil }
