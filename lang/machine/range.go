package machine

import "fmt"

// rangePayload is the immutable payload of a range instance.
type rangePayload struct {
	start, stop, step int64
}

func (r *rangePayload) Field(name string) (Value, bool) {
	switch name {
	case "start":
		return Int(r.start), true
	case "stop":
		return Int(r.stop), true
	case "step":
		return Int(r.step), true
	}
	return nil, false
}

func (r *rangePayload) SetField(name string, v Value) error {
	switch name {
	case "start", "stop", "step":
		return AttributeError.New("readonly attribute")
	}
	return AttributeError.New("'range' object has no attribute '%s'", name)
}

// len returns the number of values in the range.
func (r *rangePayload) len() uint64 {
	if r.step > 0 {
		if r.start >= r.stop {
			return 0
		}
		return (uint64(r.stop)-uint64(r.start)-1)/uint64(r.step) + 1
	}
	if r.start <= r.stop {
		return 0
	}
	return (uint64(r.start)-uint64(r.stop)-1)/(-uint64(r.step)) + 1
}

func (r *rangePayload) contains(v int64) bool {
	if r.step > 0 {
		return r.start <= v && v < r.stop && (uint64(v)-uint64(r.start))%uint64(r.step) == 0
	}
	return r.stop < v && v <= r.start && (uint64(r.start)-uint64(v))%(-uint64(r.step)) == 0
}

func newRangeClass() *Class {
	c := NewInternalClass("range", ObjectClass).
		SetMagic(MagicNew, NewNative("range.__new__", NewFunc(rangeNew))).
		SetMagic(MagicRepr, NewNative("range.__repr__", UnaryFunc(rangeRepr))).
		SetMagic(MagicBool, NewNative("range.__bool__", UnaryFunc(rangeBool))).
		SetMagic(MagicContains, NewNative("range.__contains__", BinaryFunc(rangeContains))).
		SetMagic(MagicIter, NewNative("range.__iter__", UnaryFunc(rangeIter)))
	return createInternal(c)
}

func rangeArg(v Value) (int64, error) {
	i, ok := intOperand(v)
	if !ok {
		return 0, TypeError.New("'%s' object cannot be interpreted as an integer", v.Type())
	}
	return i, nil
}

func rangeNew(th *Thread, cls *Class, args []Value) (Value, error) {
	if len(args) == 0 {
		return nil, TypeError.New("range expected at least 1 argument, got 0")
	}
	if len(args) > 3 {
		return nil, TypeError.New("range expected at most 3 arguments, got %d", len(args))
	}

	var ints [3]int64
	for i, arg := range args {
		v, err := rangeArg(arg)
		if err != nil {
			return nil, err
		}
		ints[i] = v
	}

	r := &rangePayload{step: 1}
	switch len(args) {
	case 1:
		r.stop = ints[0]
	case 2:
		r.start, r.stop = ints[0], ints[1]
	case 3:
		r.start, r.stop, r.step = ints[0], ints[1], ints[2]
		if r.step == 0 {
			return nil, ValueError.New("range() arg 3 must not be zero")
		}
	}
	return NewInstanceObject(NewInstance(cls, r)), nil
}

func rangeRepr(th *Thread, x Value) (Value, error) {
	r, release, err := payloadOf[*rangePayload](x, RangeClass, "__repr__", false)
	if err != nil {
		return nil, err
	}
	defer release()

	if r.step == 1 {
		return Str(fmt.Sprintf("range(%d, %d)", r.start, r.stop)), nil
	}
	return Str(fmt.Sprintf("range(%d, %d, %d)", r.start, r.stop, r.step)), nil
}

func rangeBool(th *Thread, x Value) (Value, error) {
	r, release, err := payloadOf[*rangePayload](x, RangeClass, "__bool__", false)
	if err != nil {
		return nil, err
	}
	defer release()
	return Bool(r.len() > 0), nil
}

// rangeContains accepts ints, bools and integral floats, anything else is
// not in the range.
func rangeContains(th *Thread, x, y Value) (Value, error) {
	r, release, err := payloadOf[*rangePayload](x, RangeClass, "__contains__", false)
	if err != nil {
		return nil, err
	}
	defer release()

	if v, ok := intOperand(y); ok {
		return Bool(r.contains(v)), nil
	}
	if f, ok := y.(Float); ok {
		if v, err := floatToInt(float64(f)); err == nil && Float(v.(Int)) == f {
			return Bool(r.contains(int64(v.(Int)))), nil
		}
	}
	return False, nil
}

func rangeIter(th *Thread, x Value) (Value, error) {
	r, release, err := payloadOf[*rangePayload](x, RangeClass, "__iter__", false)
	if err != nil {
		return nil, err
	}
	defer release()

	it := &rangeIterator{next: r.start, stop: r.stop, step: r.step}
	return NewInstanceObject(NewInstance(RangeIteratorClass, it)), nil
}

// rangeIterator yields start, start+step, ... strictly before stop, in the
// direction of step.
type rangeIterator struct {
	next, stop, step int64
	done             bool
}

func (it *rangeIterator) Field(name string) (Value, bool) { return nil, false }

func (it *rangeIterator) SetField(name string, v Value) error {
	return AttributeError.New("'range_iterator' object has no attribute '%s'", name)
}

func newRangeIteratorClass() *Class {
	c := NewInternalClass("range_iterator", ObjectClass).
		SetMagic(MagicIter, NewNative("range_iterator.__iter__", UnaryFunc(iterSelf))).
		SetMagic(MagicNext, NewNative("range_iterator.__next__", UnaryFunc(rangeIteratorNext)))
	return createInternal(c)
}

func rangeIteratorNext(th *Thread, x Value) (Value, error) {
	it, release, err := payloadOf[*rangeIterator](x, RangeIteratorClass, "__next__", true)
	if err != nil {
		return nil, err
	}
	defer release()

	if it.done || (it.step > 0 && it.next >= it.stop) || (it.step < 0 && it.next <= it.stop) {
		it.done = true
		return nil, StopIteration.Empty()
	}

	v := it.next
	n := v + it.step
	if (it.step > 0 && n < v) || (it.step < 0 && n > v) {
		it.done = true
	}
	it.next = n
	return Int(v), nil
}
