package machine

import (
	"strings"

	"github.com/dolthub/swiss"
	"golang.org/x/exp/slices"
)

// ClassKind indicates if a class is implemented natively or by user code.
type ClassKind uint8

// List of class kinds.
const (
	Internal ClassKind = iota
	UserDefined
)

// Class is a class value. An Internal class has a fixed table of magic
// methods and a static attributes map, it is finalized once by Create, which
// copies down every inherited magic method, in MRO order, so that lookups
// never walk the hierarchy. A UserDefined class has a mutable attributes map and looks up
// its method resolution order (MRO) on every lookup.
//
// The MRO of both kinds of classes is the C3 linearization of the class
// hierarchy, computed by Create.
type Class struct {
	name    string
	kind    ClassKind
	supers  []*Class
	mro     []*Class
	created bool

	// Internal classes
	magic  [NumMagic]Value
	own    [NumMagic]bool
	static *swiss.Map[string, Value]

	// UserDefined classes
	attrs *swiss.Map[string, Value]
}

var _ Value = (*Class)(nil)

// NewInternalClass returns a new Internal class. Its magic methods and static
// attributes must be set before it is finalized with Create.
func NewInternalClass(name string, supers ...*Class) *Class {
	return &Class{
		name:   name,
		kind:   Internal,
		supers: supers,
		static: swiss.NewMap[string, Value](0),
	}
}

// NewUserClass creates and returns a new UserDefined class with the provided
// attributes. If supers is empty, the class inherits from object. It returns
// a TypeError if the hierarchy is invalid.
func NewUserClass(name string, supers []*Class, attrs *swiss.Map[string, Value]) (*Class, error) {
	if len(supers) == 0 {
		supers = []*Class{ObjectClass}
	}
	if attrs == nil {
		attrs = swiss.NewMap[string, Value](0)
	}
	c := &Class{
		name:   name,
		kind:   UserDefined,
		supers: supers,
		attrs:  attrs,
	}
	if err := c.Create(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Class) String() string { return "<class '" + c.name + "'>" }
func (c *Class) Type() string   { return "type" }
func (c *Class) Kind() Kind     { return InternalKind }

// Name returns the name of the class.
func (c *Class) Name() string { return c.name }

// ClassKind returns the kind of class.
func (c *Class) ClassKind() ClassKind { return c.kind }

// Supers returns the direct superclasses of c.
func (c *Class) Supers() []*Class { return c.supers }

// MRO returns the method resolution order of c, starting with c itself. It
// is only valid after Create.
func (c *Class) MRO() []*Class { return c.mro }

// SetMagic sets the magic method m of an Internal class that is not created
// yet. It returns c to allow chaining calls.
func (c *Class) SetMagic(m MagicMethod, fn Value) *Class {
	if c.kind != Internal || c.created {
		fatalf("cannot set magic method %s on class %s", m, c.name)
	}
	c.magic[m] = fn
	return c
}

// SetStatic sets the static attribute name of an Internal class that is not
// created yet. It returns c to allow chaining calls.
func (c *Class) SetStatic(name string, v Value) *Class {
	if c.kind != Internal || c.created {
		fatalf("cannot set static attribute %s on class %s", name, c.name)
	}
	c.static.Put(name, v)
	return c
}

// Create finalizes the class. It computes the method resolution order and,
// for Internal classes, fills every empty magic method slot with the first
// match found by searching the superclasses depth-first. It must be called
// exactly once, a second call panics. For UserDefined classes, an
// inconsistent hierarchy returns a TypeError.
func (c *Class) Create() error {
	if c.created {
		fatalf("class %s already created", c.name)
	}

	mro, err := linearize(c)
	if err != nil {
		if c.kind == Internal {
			fatalf("internal class %s: %s", c.name, err)
		}
		return err
	}
	c.mro = mro

	if c.kind == Internal {
		for m, v := range c.magic {
			c.own[m] = v != nil
		}
		for m := range c.magic {
			if c.magic[m] == nil {
				c.magic[m] = inheritedMagic(c.mro[1:], MagicMethod(m))
			}
		}
	}
	c.created = true
	return nil
}

// inheritedMagic returns the first definition of m in mro, looking only at
// the methods each class defines itself.
func inheritedMagic(mro []*Class, m MagicMethod) Value {
	for _, k := range mro {
		if k.own[m] {
			return k.magic[m]
		}
	}
	return nil
}

// SearchForMethod returns the magic method m of the class. It returns false
// if no class in the hierarchy defines it.
func (c *Class) SearchForMethod(m MagicMethod) (Value, bool) {
	if !c.created {
		fatalf("class %s used before Create", c.name)
	}
	if c.kind == Internal {
		v := c.magic[m]
		return v, v != nil
	}

	name := m.String()
	for _, k := range c.mro {
		if k.kind == Internal {
			if v := k.magic[m]; v != nil {
				return v, true
			}
			continue
		}
		if v, ok := k.attrs.Get(name); ok {
			return v, true
		}
	}
	return nil, false
}

// SearchForAttr returns the attribute name of the class, which may be a magic
// method. It returns false if no class in the hierarchy defines it.
func (c *Class) SearchForAttr(name string) (Value, bool) {
	if !c.created {
		fatalf("class %s used before Create", c.name)
	}
	if c.kind == Internal {
		return c.internalAttr(name)
	}

	for _, k := range c.mro {
		if k.kind == Internal {
			if v, ok := k.internalAttr(name); ok {
				return v, true
			}
			continue
		}
		if v, ok := k.attrs.Get(name); ok {
			return v, true
		}
	}
	return nil, false
}

func (c *Class) internalAttr(name string) (Value, bool) {
	if v, ok := c.static.Get(name); ok {
		return v, true
	}
	if m, ok := LookupMagic(name); ok {
		if v := c.magic[m]; v != nil {
			return v, true
		}
	}
	return nil, false
}

// SetAttr sets the attribute name of a UserDefined class. Internal classes
// are immutable and return a TypeError.
func (c *Class) SetAttr(name string, v Value) error {
	if c.kind == Internal {
		return TypeError.New("cannot set '%s' attribute of immutable type '%s'", name, c.name)
	}
	c.attrs.Put(name, v)
	return nil
}

// DefinesAttribute returns true if the class itself defines the magic method
// m, inherited methods are not considered.
func (c *Class) DefinesAttribute(m MagicMethod) bool {
	if !c.created {
		fatalf("class %s used before Create", c.name)
	}
	if c.kind == Internal {
		return c.own[m]
	}
	return c.attrs.Has(m.String())
}

// OverridesObject returns true if the magic method m of the class resolves to
// an implementation other than the default one of the object class, whether
// the class defines it or inherits it.
func (c *Class) OverridesObject(m MagicMethod) bool {
	v, ok := c.SearchForMethod(m)
	if !ok {
		return false
	}
	return c == ObjectClass || v != ObjectClass.magic[m]
}

// IsSubclass returns true if c is other or inherits from it.
func (c *Class) IsSubclass(other *Class) bool {
	return slices.Contains(c.mro, other)
}

// linearize returns the C3 linearization of c, which requires its
// superclasses to be created.
func linearize(c *Class) ([]*Class, error) {
	seqs := make([][]*Class, 0, len(c.supers)+1)
	for i, s := range c.supers {
		if !s.created {
			fatalf("superclass %s of %s is not created", s.name, c.name)
		}
		if slices.Index(c.supers[:i], s) >= 0 {
			return nil, TypeError.New("duplicate base class %s", s.name)
		}
		seqs = append(seqs, slices.Clone(s.mro))
	}
	seqs = append(seqs, slices.Clone(c.supers))

	res := []*Class{c}
	for {
		done := true
		for _, s := range seqs {
			if len(s) > 0 {
				done = false
				break
			}
		}
		if done {
			return res, nil
		}

		var next *Class
	candidates:
		for _, s := range seqs {
			if len(s) == 0 {
				continue
			}
			cand := s[0]
			for _, other := range seqs {
				if len(other) > 1 && slices.Contains(other[1:], cand) {
					continue candidates
				}
			}
			next = cand
			break
		}

		if next == nil {
			names := make([]string, len(c.supers))
			for i, s := range c.supers {
				names[i] = s.name
			}
			return nil, TypeError.New("Cannot create a consistent method resolution order (MRO) for bases %s", strings.Join(names, ", "))
		}

		res = append(res, next)
		for i, s := range seqs {
			if len(s) > 0 && s[0] == next {
				seqs[i] = s[1:]
			}
		}
	}
}
