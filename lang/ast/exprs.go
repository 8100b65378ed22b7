package ast

import (
	"fmt"

	"github.com/mna/pywalk/lang/token"
)

// Unwrap the expression inside the parens. It unwraps multiple ParenExpr
// recursively until it reaches a non-ParenExpr.
func Unwrap(e Expr) Expr {
	if pe, ok := e.(*ParenExpr); ok {
		return Unwrap(pe.Expr)
	}
	return e
}

// IsAssignable returns true if e can be assigned to. For an expression to be
// assignable, it must be an IdentExpr or a DotExpr (possibly wrapped in
// parentheses).
func IsAssignable(e Expr) bool {
	switch Unwrap(e).(type) {
	case *IdentExpr, *DotExpr:
		return true
	default:
		return false
	}
}

type (
	// BadExpr represents a bad expression that failed to parse.
	BadExpr struct {
		Start token.Pos
		End   token.Pos
	}

	// BinOpExpr represents a binary expression, e.g. x + y. It is also used
	// for the boolean operators and, or and for comparisons.
	BinOpExpr struct {
		Left  Expr
		Type  token.Token // binary operator token type
		Op    token.Pos
		Not   bool // true for "is not" and "not in"
		Right Expr
	}

	// CallExpr represents a function call, e.g. x(y, z).
	CallExpr struct {
		Fn     Expr
		Lparen token.Pos
		Args   []Expr
		Rparen token.Pos
	}

	// DotExpr represents a selector expression e.g. x.y.
	DotExpr struct {
		Left  Expr
		Dot   token.Pos
		Right *IdentExpr
	}

	// IdentExpr represents an identifier.
	IdentExpr struct {
		Start token.Pos
		Lit   string

		// Binding is set by the resolver to the *resolver.Binding of the
		// identifier. It is nil for attribute names (the Right of a DotExpr).
		Binding any
	}

	// LiteralExpr represents a literal string, number or constant.
	LiteralExpr struct {
		Type  token.Token // None, True, False, string, int or float
		Start token.Pos
		Raw   string // uninterpreted text
		Value any    // = string | int64 | float64 (nil for None/True/False)
	}

	// ParenExpr represents an expression wrapped in parentheses.
	ParenExpr struct {
		Lparen token.Pos
		Expr   Expr
		Rparen token.Pos
	}

	// UnaryOpExpr represents a unary operator expression (e.g. -4).
	UnaryOpExpr struct {
		Type  token.Token // unary operator token type
		Op    token.Pos
		Right Expr
	}
)

func (n *BadExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "!bad expr!", nil)
}
func (n *BadExpr) Span() (start, end token.Pos) {
	return n.Start, n.End
}
func (n *BadExpr) Walk(v Visitor) {}
func (n *BadExpr) expr()          {}

// OpString returns the source form of the operator, e.g. "is not".
func (n *BinOpExpr) OpString() string {
	switch {
	case n.Not && n.Type == token.IS:
		return "is not"
	case n.Not && n.Type == token.IN:
		return "not in"
	}
	return n.Type.String()
}

func (n *BinOpExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "binary "+n.OpString(), nil)
}
func (n *BinOpExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *BinOpExpr) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}
func (n *BinOpExpr) expr() {}

func (n *CallExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "call", map[string]int{"args": len(n.Args)})
}
func (n *CallExpr) Span() (start, end token.Pos) {
	start, _ = n.Fn.Span()
	return start, tokEnd(n.Rparen, token.RPAREN)
}
func (n *CallExpr) Walk(v Visitor) {
	Walk(v, n.Fn)
	for _, e := range n.Args {
		Walk(v, e)
	}
}
func (n *CallExpr) expr() {}

func (n *DotExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "expr."+n.Right.Lit, nil)
}
func (n *DotExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *DotExpr) Walk(v Visitor) {
	Walk(v, n.Left)
}
func (n *DotExpr) expr() {}

func (n *IdentExpr) Format(f fmt.State, verb rune) {
	lbl := n.Lit
	if s, ok := n.Binding.(fmt.Stringer); ok {
		lbl += " [" + s.String() + "]"
	}
	format(f, verb, n, lbl, nil)
}
func (n *IdentExpr) Span() (start, end token.Pos) {
	return n.Start, n.Start.Add(len(n.Lit))
}
func (n *IdentExpr) Walk(v Visitor) {}
func (n *IdentExpr) expr()          {}

func (n *LiteralExpr) Format(f fmt.State, verb rune) {
	if n.Value == nil {
		format(f, verb, n, n.Type.String(), nil)
	} else {
		format(f, verb, n, n.Type.String()+" "+n.Raw, nil)
	}
}
func (n *LiteralExpr) Span() (start, end token.Pos) {
	return n.Start, n.Start.Add(len(n.Raw))
}
func (n *LiteralExpr) Walk(v Visitor) {}
func (n *LiteralExpr) expr()          {}

func (n *ParenExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "(expr)", nil)
}
func (n *ParenExpr) Span() (start, end token.Pos) {
	return n.Lparen, tokEnd(n.Rparen, token.RPAREN)
}
func (n *ParenExpr) Walk(v Visitor) {
	Walk(v, n.Expr)
}
func (n *ParenExpr) expr() {}

func (n *UnaryOpExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "unary "+n.Type.String(), nil)
}
func (n *UnaryOpExpr) Span() (start, end token.Pos) {
	_, end = n.Right.Span()
	return n.Op, end
}
func (n *UnaryOpExpr) Walk(v Visitor) {
	Walk(v, n.Right)
}
func (n *UnaryOpExpr) expr() {}
