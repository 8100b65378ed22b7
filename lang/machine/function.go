package machine

import (
	"github.com/dolthub/swiss"
	"github.com/mna/pywalk/lang/ast"
	"github.com/mna/pywalk/lang/resolver"
	"golang.org/x/exp/slices"
)

// A Function is a function defined by a def statement. It is held in an
// *Object so that it can be referenced like any other mutable value.
type Function struct {
	Name     string
	Def      *ast.FuncStmt
	Scope    *resolver.Function
	Module   *Module
	FreeVars []*Cell
}

// A Module is the dynamic counterpart to a chunk: it holds the global
// namespace shared by the module's top-level code and all functions and
// classes defined in it.
type Module struct {
	Name  string
	frame *Frame
}

// NewModule returns a new, empty module. The name is used as filename in
// tracebacks.
func NewModule(name string) *Module {
	m := &Module{Name: name}
	m.frame = &Frame{
		kind:     moduleFrame,
		name:     "<module>",
		filename: name,
		module:   m,
		names:    swiss.NewMap[string, *Cell](0),
	}
	return m
}

// Get returns the value of the global name.
func (m *Module) Get(name string) (Value, bool) {
	return m.frame.Lookup(name)
}

// Set sets the global name to v.
func (m *Module) Set(name string, v Value) {
	m.frame.namedCell(name).v = v
}

// Names returns the sorted list of bound global names.
func (m *Module) Names() []string {
	names := make([]string, 0, m.frame.names.Count())
	m.frame.names.Iter(func(k string, c *Cell) bool {
		if c.v != nil {
			names = append(names, k)
		}
		return false
	})
	slices.Sort(names)
	return names
}
