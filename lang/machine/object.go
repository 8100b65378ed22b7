package machine

import "fmt"

// Fatal is the value of a panic raised when an invariant of the machine is
// violated, such as calling a native function with the wrong number of
// arguments or borrowing an object that is already mutably borrowed. It is
// never converted to a language-level exception.
type Fatal struct {
	Msg string
}

func (f Fatal) Error() string { return "fatal: " + f.Msg }

func fatalf(format string, args ...any) {
	panic(Fatal{Msg: fmt.Sprintf(format, args...)})
}

// Object is a shared mutable value. It holds either an *Instance or a
// *Function and tracks borrows at runtime: any number of shared borrows may
// be held at the same time, or a single mutable borrow. Violations panic
// with a Fatal.
type Object struct {
	// borrows is the number of active shared borrows, or -1 if mutably
	// borrowed.
	borrows int
	inst    *Instance
	fn      *Function
}

var _ Value = (*Object)(nil)

// NewInstanceObject returns a new object holding inst.
func NewInstanceObject(inst *Instance) *Object { return &Object{inst: inst} }

// NewFunctionObject returns a new object holding fn.
func NewFunctionObject(fn *Function) *Object { return &Object{fn: fn} }

func (o *Object) Kind() Kind { return MutableKind }

func (o *Object) Type() string {
	if o.fn != nil {
		return "function"
	}
	return o.inst.class.Name()
}

func (o *Object) String() string {
	if o.fn != nil {
		return fmt.Sprintf("<function %s at %p>", o.fn.Name, o)
	}
	return fmt.Sprintf("<%s object at %p>", o.inst.class.Name(), o)
}

// Class returns the class of the object. It does not require a borrow, the
// class of an object never changes.
func (o *Object) Class() *Class {
	if o.fn != nil {
		return FunctionClass
	}
	return o.inst.class
}

// Function returns the function held by the object, if any. A function is
// never mutated after creation, so it does not require a borrow.
func (o *Object) Function() (*Function, bool) {
	return o.fn, o.fn != nil
}

// Borrow acquires a shared borrow of the object's instance, which must be
// released by calling the returned function. It panics if the object is
// mutably borrowed or if it does not hold an instance.
func (o *Object) Borrow() (*Instance, func()) {
	if o.inst == nil {
		fatalf("borrow of %s: not an instance", o.Type())
	}
	if o.borrows < 0 {
		fatalf("%s object already mutably borrowed", o.Type())
	}
	o.borrows++
	return o.inst, func() { o.borrows-- }
}

// BorrowMut acquires an exclusive borrow of the object's instance, which must
// be released by calling the returned function. It panics if the object is
// already borrowed or if it does not hold an instance.
func (o *Object) BorrowMut() (*Instance, func()) {
	if o.inst == nil {
		fatalf("mutable borrow of %s: not an instance", o.Type())
	}
	if o.borrows != 0 {
		fatalf("%s object already borrowed", o.Type())
	}
	o.borrows = -1
	return o.inst, func() { o.borrows = 0 }
}

// GetField returns the value of the instance field name. See
// Instance.GetField.
func (o *Object) GetField(name string) (Value, error) {
	inst, release := o.Borrow()
	defer release()
	return inst.GetField(name)
}

// SetField sets the value of the instance field name. See Instance.SetField.
func (o *Object) SetField(name string, v Value) error {
	inst, release := o.BorrowMut()
	defer release()
	return inst.SetField(name, v)
}
