package ast

import (
	"fmt"

	"github.com/mna/pywalk/lang/token"
)

type (
	// AssignStmt represents an assignment statement, e.g. x = y + z, or an
	// augmented assignment, e.g. x += 2.
	AssignStmt struct {
		Left      Expr        // IdentExpr or DotExpr
		AssignTok token.Token // either EQ or between PLUSEQ and STARSTAREQ
		AssignPos token.Pos
		Right     Expr
	}

	// AssertStmt represents an assert statement with an optional second
	// expression.
	AssertStmt struct {
		Assert token.Pos
		Test   Expr
		Comma  token.Pos // zero if no Msg
		Msg    Expr      // may be nil
	}

	// BadStmt represents a bad statement that failed to parse.
	BadStmt struct {
		Start token.Pos
		End   token.Pos
	}

	// ClassStmt represents a class definition statement.
	ClassStmt struct {
		Class  token.Pos
		Name   *IdentExpr
		Lparen token.Pos // zero if no bases
		Bases  []Expr
		Rparen token.Pos // zero if no bases
		Body   *Block

		// Scope is set by the resolver to the *resolver.Function of the class
		// body.
		Scope any
	}

	// ExprStmt represents an expression used as statement.
	ExprStmt struct {
		Expr Expr
	}

	// ForInStmt represents a for-in loop statement.
	ForInStmt struct {
		For  token.Pos
		Var  *IdentExpr
		In   token.Pos
		Iter Expr
		Body *Block
	}

	// FuncStmt represents a function definition statement.
	FuncStmt struct {
		Def    token.Pos
		Name   *IdentExpr
		Lparen token.Pos
		Params []*IdentExpr
		Rparen token.Pos
		Body   *Block

		// Scope is set by the resolver to the *resolver.Function of the
		// function.
		Scope any
	}

	// IfStmt represents an if..elif..else statement.
	IfStmt struct {
		Type  token.Token // if or elif
		Start token.Pos   // Position of Type token
		Cond  Expr
		True  *Block
		False *Block // nil if no else, single stmt in block if elif (an IfStmt)
	}

	// ReturnLikeStmt represents a return, break, continue, pass or raise.
	ReturnLikeStmt struct {
		Type  token.Token // return, break, continue, pass, raise
		Start token.Pos   // position of Type
		Expr  Expr        // may be nil, only for return and raise
	}

	// TryStmt represents a try..except statement.
	TryStmt struct {
		Try      token.Pos
		Body     *Block
		Handlers []*ExceptClause
	}

	// WhileStmt represents a while loop statement.
	WhileStmt struct {
		While token.Pos
		Cond  Expr
		Body  *Block
	}
)

func (n *AssignStmt) Format(f fmt.State, verb rune) {
	lbl := "assignment"
	if n.AssignTok != token.EQ {
		lbl = "augmented assignment " + n.AssignTok.String()
	}
	format(f, verb, n, lbl, nil)
}
func (n *AssignStmt) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *AssignStmt) Walk(v Visitor) {
	Walk(v, n.Left)
	Walk(v, n.Right)
}
func (n *AssignStmt) BlockEnding() bool { return false }

func (n *AssertStmt) Format(f fmt.State, verb rune) {
	var msgCount int
	if n.Msg != nil {
		msgCount = 1
	}
	format(f, verb, n, "assert", map[string]int{"msg": msgCount})
}
func (n *AssertStmt) Span() (start, end token.Pos) {
	_, end = n.Test.Span()
	if n.Msg != nil {
		_, end = n.Msg.Span()
	}
	return n.Assert, end
}
func (n *AssertStmt) Walk(v Visitor) {
	Walk(v, n.Test)
	if n.Msg != nil {
		Walk(v, n.Msg)
	}
}
func (n *AssertStmt) BlockEnding() bool { return false }

func (n *BadStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "!bad stmt!", nil)
}
func (n *BadStmt) Span() (start, end token.Pos) {
	return n.Start, n.End
}
func (n *BadStmt) Walk(v Visitor)    {}
func (n *BadStmt) BlockEnding() bool { return false }

func (n *ClassStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "class "+n.Name.Lit, map[string]int{"bases": len(n.Bases)})
}
func (n *ClassStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.Class, end
}
func (n *ClassStmt) Walk(v Visitor) {
	Walk(v, n.Name)
	for _, e := range n.Bases {
		Walk(v, e)
	}
	Walk(v, n.Body)
}
func (n *ClassStmt) BlockEnding() bool { return false }

func (n *ExprStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "expr", nil) }
func (n *ExprStmt) Span() (start, end token.Pos)  { return n.Expr.Span() }
func (n *ExprStmt) Walk(v Visitor)                { Walk(v, n.Expr) }
func (n *ExprStmt) BlockEnding() bool             { return false }

func (n *ForInStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "for "+n.Var.Lit+" in", nil)
}
func (n *ForInStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.For, end
}
func (n *ForInStmt) Walk(v Visitor) {
	Walk(v, n.Var)
	Walk(v, n.Iter)
	Walk(v, n.Body)
}
func (n *ForInStmt) BlockEnding() bool { return false }

func (n *FuncStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "def "+n.Name.Lit, map[string]int{"params": len(n.Params)})
}
func (n *FuncStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.Def, end
}
func (n *FuncStmt) Walk(v Visitor) {
	Walk(v, n.Name)
	for _, e := range n.Params {
		Walk(v, e)
	}
	Walk(v, n.Body)
}
func (n *FuncStmt) BlockEnding() bool { return false }

func (n *IfStmt) Format(f fmt.State, verb rune) { format(f, verb, n, n.Type.String(), nil) }
func (n *IfStmt) Span() (start, end token.Pos) {
	_, end = n.True.Span()
	if n.False != nil {
		_, end = n.False.Span()
	}
	return n.Start, end
}
func (n *IfStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.True)
	if n.False != nil {
		Walk(v, n.False)
	}
}
func (n *IfStmt) BlockEnding() bool { return false }

func (n *ReturnLikeStmt) Format(f fmt.State, verb rune) {
	var exprCount int
	if n.Expr != nil {
		exprCount = 1
	}
	format(f, verb, n, n.Type.String(), map[string]int{"expr": exprCount})
}
func (n *ReturnLikeStmt) Span() (start, end token.Pos) {
	end = tokEnd(n.Start, n.Type)
	if n.Expr != nil {
		_, end = n.Expr.Span()
	}
	return n.Start, end
}
func (n *ReturnLikeStmt) Walk(v Visitor) {
	if n.Expr != nil {
		Walk(v, n.Expr)
	}
}
func (n *ReturnLikeStmt) BlockEnding() bool { return n.Type != token.PASS }

func (n *TryStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "try", map[string]int{"handlers": len(n.Handlers)})
}
func (n *TryStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	if len(n.Handlers) > 0 {
		_, end = n.Handlers[len(n.Handlers)-1].Span()
	}
	return n.Try, end
}
func (n *TryStmt) Walk(v Visitor) {
	Walk(v, n.Body)
	for _, h := range n.Handlers {
		Walk(v, h)
	}
}
func (n *TryStmt) BlockEnding() bool { return false }

func (n *WhileStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "while", nil) }
func (n *WhileStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.While, end
}
func (n *WhileStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Body)
}
func (n *WhileStmt) BlockEnding() bool { return false }
