package machine

import (
	"github.com/dolthub/swiss"
	"github.com/mna/pywalk/lang/ast"
	"github.com/mna/pywalk/lang/resolver"
	"github.com/mna/pywalk/lang/token"
)

// A Cell is the shared storage of a variable. Assignment overwrites the value
// of the cell in place, so every holder of the cell (the frame that owns it,
// closures that captured it) observes the update. A nil value means the
// variable is unbound.
type Cell struct{ v Value }

// Get returns the value of the cell, nil if unbound.
func (c *Cell) Get() Value { return c.v }

// Set sets the value of the cell.
func (c *Cell) Set(v Value) { c.v = v }

type frameKind uint8

const (
	moduleFrame frameKind = iota
	funcFrame
	classFrame
)

// Frame records the execution of a module's top-level code, of a function
// call or of a class body. Each frame has a name-keyed map of cells and a
// fixed-size array of fast-local slots. In a function frame, the map holds
// the same cells as the slots, so a local is reachable through both. In
// module and class frames, the map is the namespace and there are no slots.
type Frame struct {
	kind     frameKind
	name     string
	filename string
	module   *Module
	names    *swiss.Map[string, *Cell]
	slots    []*Cell
	free     []*Cell
	pos      token.Pos // position of the statement being executed
}

func newFuncFrame(fn *Function) *Frame {
	locals := fn.Scope.Locals
	fr := &Frame{
		kind:     funcFrame,
		name:     fn.Name,
		filename: fn.Module.Name,
		module:   fn.Module,
		names:    swiss.NewMap[string, *Cell](uint32(len(locals))),
		slots:    make([]*Cell, len(locals)),
		free:     fn.FreeVars,
	}
	for i, b := range locals {
		c := new(Cell)
		fr.slots[i] = c
		fr.names.Put(b.Name, c)
	}
	return fr
}

func newClassFrame(name string, parent *Frame, free []*Cell) *Frame {
	return &Frame{
		kind:     classFrame,
		name:     name,
		filename: parent.filename,
		module:   parent.module,
		names:    swiss.NewMap[string, *Cell](0),
		free:     free,
	}
}

// Name returns the name of the function or class executed by the frame, or
// "<module>".
func (fr *Frame) Name() string { return fr.name }

// Position returns the source position of the statement being executed in
// this frame.
func (fr *Frame) Position() token.Position {
	return token.MakePosition(fr.filename, fr.pos)
}

// Lookup returns the value bound to name in the frame's map. It returns false
// if the name does not exist or is unbound.
func (fr *Frame) Lookup(name string) (Value, bool) {
	if c, ok := fr.names.Get(name); ok && c.v != nil {
		return c.v, true
	}
	return nil, false
}

// namedCell returns the cell of name in the frame's map, creating it if it
// does not exist.
func (fr *Frame) namedCell(name string) *Cell {
	c, ok := fr.names.Get(name)
	if !ok {
		c = new(Cell)
		fr.names.Put(name, c)
	}
	return c
}

func bindingOf(id *ast.IdentExpr) *resolver.Binding {
	b, ok := id.Binding.(*resolver.Binding)
	if !ok || b.Scope == resolver.Undefined {
		fatalf("unresolved identifier %s", id.Lit)
	}
	return b
}

// lookupVar returns the value of the variable id.
func (fr *Frame) lookupVar(id *ast.IdentExpr) (Value, error) {
	b := bindingOf(id)
	switch b.Scope {
	case resolver.Local, resolver.Cell:
		if v := fr.slots[b.Index].v; v != nil {
			return v, nil
		}
		return nil, NameError.New("cannot access local variable '%s' where it is not associated with a value", id.Lit)

	case resolver.Free:
		if v := fr.free[b.Index].v; v != nil {
			return v, nil
		}
		return nil, NameError.New("cannot access free variable '%s' where it is not associated with a value in enclosing scope", id.Lit)

	case resolver.Dynamic:
		if fr.kind != funcFrame {
			if v, ok := fr.Lookup(id.Lit); ok {
				return v, nil
			}
		}
		if fr.kind != moduleFrame {
			if v, ok := fr.module.frame.Lookup(id.Lit); ok {
				return v, nil
			}
		}
		if v, ok := Universe[id.Lit]; ok {
			return v, nil
		}

	case resolver.Universal:
		if v, ok := Universe[id.Lit]; ok {
			return v, nil
		}
	}
	return nil, NameError.New("name '%s' is not defined", id.Lit)
}

// varCell returns the cell that stores the variable id, for assignment. A
// dynamic variable that does not exist yet is created unbound.
func (fr *Frame) varCell(id *ast.IdentExpr) *Cell {
	b := bindingOf(id)
	switch b.Scope {
	case resolver.Local, resolver.Cell:
		return fr.slots[b.Index]
	case resolver.Dynamic:
		if fr.kind == funcFrame {
			fatalf("dynamic assignment to %s in function %s", id.Lit, fr.name)
		}
		return fr.namedCell(id.Lit)
	}
	fatalf("cannot assign to %s variable %s", b.Scope, id.Lit)
	return nil
}

// captureFreeVars returns the cells captured by a function or class defined
// in fr, in the order of the scope's free variables.
func (fr *Frame) captureFreeVars(scope *resolver.Function) []*Cell {
	if len(scope.FreeVars) == 0 {
		return nil
	}
	cells := make([]*Cell, len(scope.FreeVars))
	for i, b := range scope.FreeVars {
		switch b.Scope {
		case resolver.Local, resolver.Cell:
			cells[i] = fr.slots[b.Index]
		case resolver.Free:
			cells[i] = fr.free[b.Index]
		default:
			fatalf("invalid free variable %s of scope %s", b.Name, b.Scope)
		}
	}
	return cells
}
