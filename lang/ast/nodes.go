package ast

import (
	"fmt"
	"os"
	"strings"

	"github.com/mna/pywalk/lang/token"
)

type (
	// Chunk represents a whole source file. It keeps track of its name and the
	// EOF, which is useful for empty files to get a valid position.
	Chunk struct {
		// Name is the filename, which may be empty if the chunk is not a file.
		Name string

		// Block is the block of statements contained in the chunk.
		Block *Block
		EOF   token.Pos // position of the EOF marker

		// Scope is set by the resolver to the *resolver.Function of the module.
		Scope any
	}

	// Block represents a block of statements, either the top-level of a chunk
	// or an indented suite.
	Block struct {
		Start token.Pos
		End   token.Pos
		Stmts []Stmt
	}

	// ExceptClause represents an except clause of a try statement.
	ExceptClause struct {
		Except token.Pos
		Type   Expr       // may be nil for a bare except
		As     token.Pos  // zero if no 'as'
		Name   *IdentExpr // may be nil
		Colon  token.Pos
		Body   *Block
	}
)

func (n *Chunk) Format(f fmt.State, verb rune) {
	lbl := "chunk"
	if n.Name != "" {
		lbl += " " + strings.ReplaceAll(n.Name, string(os.PathSeparator), "/")
	}
	format(f, verb, n, lbl, nil)
}
func (n *Chunk) Span() (start, end token.Pos) {
	if n.Block != nil && len(n.Block.Stmts) > 0 {
		return n.Block.Span()
	}
	return n.EOF, n.EOF
}
func (n *Chunk) Walk(v Visitor) {
	if n.Block != nil {
		Walk(v, n.Block)
	}
}

func (n *Block) Format(f fmt.State, verb rune) {
	format(f, verb, n, "block", map[string]int{"stmts": len(n.Stmts)})
}
func (n *Block) Span() (start, end token.Pos) { return n.Start, n.End }
func (n *Block) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}

func (n *ExceptClause) Format(f fmt.State, verb rune) {
	lbl := "except"
	if n.Name != nil {
		lbl += " as " + n.Name.Lit
	}
	var typeCount int
	if n.Type != nil {
		typeCount = 1
	}
	format(f, verb, n, lbl, map[string]int{"type": typeCount})
}
func (n *ExceptClause) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.Except, end
}
func (n *ExceptClause) Walk(v Visitor) {
	if n.Type != nil {
		Walk(v, n.Type)
	}
	if n.Name != nil {
		Walk(v, n.Name)
	}
	Walk(v, n.Body)
}
