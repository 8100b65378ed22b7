package resolver

import (
	"fmt"

	"github.com/mna/pywalk/lang/ast"
)

// The Scope of Binding indicates what kind of scope it has.
type Scope uint8

const (
	Undefined Scope = iota // name is not defined
	Local                  // name is local to its function, stored in a fast slot
	Cell                   // name is function-local but shared with a nested function
	Free                   // name is a cell of some enclosing function
	Dynamic                // name is looked up by name at runtime (module or class namespace)
	Universal              // name is a language built-in, never assigned in the module
)

var scopeNames = [...]string{
	Undefined: "undefined",
	Local:     "local",
	Cell:      "cell",
	Free:      "free",
	Dynamic:   "dynamic",
	Universal: "universal",
}

func (s Scope) String() string {
	if int(s) >= len(scopeNames) {
		return fmt.Sprintf("<invalid Scope %d>", s)
	}
	return scopeNames[s]
}

// A Binding contains resolver information about an identifier. The resolver
// creates a binding for each local variable and it ties together all
// identifiers that denote the same variable.
type Binding struct {
	Scope Scope
	Name  string

	// Index records the index into the enclosing
	// - function's Locals, if Scope==Local or Scope==Cell
	// - function's FreeVars, if Scope==Free
	// It is zero if Scope is Dynamic, Universal, or Undefined.
	Index int
}

// IsSlot returns true if the binding is stored in the function's fast-local
// slot array.
func (b *Binding) IsSlot() bool {
	return b.Scope == Local || b.Scope == Cell
}

func (b *Binding) String() string {
	switch b.Scope {
	case Local, Cell, Free:
		return fmt.Sprintf("%s %d", b.Scope, b.Index)
	}
	return b.Scope.String()
}

// Function is the resolved scope of a module, a function or a class body.
type Function struct {
	Definition ast.Node   // *ast.Chunk, *ast.FuncStmt or *ast.ClassStmt
	Name       string     // name of the function or class, "<module>" for a chunk
	Params     int        // number of parameters, the first Params Locals
	Locals     []*Binding // this function's local/cell variables, parameters first
	FreeVars   []*Binding // enclosing bindings to capture in closure, in the parent's scope
}

// NumLocals returns the number of fast-local slots to allocate for a frame of
// this function.
func (fn *Function) NumLocals() int { return len(fn.Locals) }
