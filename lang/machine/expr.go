package machine

import (
	"github.com/mna/pywalk/lang/ast"
	"github.com/mna/pywalk/lang/token"
)

func (th *Thread) eval(fr *Frame, e ast.Expr) (Value, error) {
	switch e := e.(type) {
	case *ast.LiteralExpr:
		return literal(e), nil

	case *ast.IdentExpr:
		return fr.lookupVar(e)

	case *ast.ParenExpr:
		return th.eval(fr, e.Expr)

	case *ast.UnaryOpExpr:
		x, err := th.eval(fr, e.Right)
		if err != nil {
			return nil, err
		}
		switch e.Type {
		case token.NOT:
			ok, err := Truthy(th, x)
			if err != nil {
				return nil, err
			}
			return Bool(!ok), nil
		case token.MINUS:
			return Neg(th, x)
		case token.PLUS:
			return Pos(th, x)
		}
		fatalf("unexpected unary operator %s", e.Type)

	case *ast.BinOpExpr:
		return th.evalBinOp(fr, e)

	case *ast.CallExpr:
		fn, err := th.eval(fr, e.Fn)
		if err != nil {
			return nil, err
		}
		args := make([]Value, len(e.Args))
		for i, arg := range e.Args {
			if args[i], err = th.eval(fr, arg); err != nil {
				return nil, err
			}
		}
		return th.callValue(fn, args)

	case *ast.DotExpr:
		x, err := th.eval(fr, e.Left)
		if err != nil {
			return nil, err
		}
		return GetAttr(x, e.Right.Lit)

	case *ast.BadExpr:
		fatalf("bad expression at %s", fr.Position())
	}
	fatalf("unexpected expression %T", e)
	return nil, nil
}

func literal(e *ast.LiteralExpr) Value {
	switch e.Type {
	case token.INT:
		return Int(e.Value.(int64))
	case token.FLOAT:
		return Float(e.Value.(float64))
	case token.STRING:
		return Str(e.Value.(string))
	case token.TRUE:
		return True
	case token.FALSE:
		return False
	case token.NONE:
		return None
	}
	fatalf("unexpected literal %s", e.Type)
	return nil
}

func (th *Thread) evalBinOp(fr *Frame, e *ast.BinOpExpr) (Value, error) {
	x, err := th.eval(fr, e.Left)
	if err != nil {
		return nil, err
	}

	// and, or short-circuit and return the deciding operand
	switch e.Type {
	case token.AND, token.OR:
		ok, err := Truthy(th, x)
		if err != nil {
			return nil, err
		}
		if ok == (e.Type == token.OR) {
			return x, nil
		}
		return th.eval(fr, e.Right)
	}

	y, err := th.eval(fr, e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Type {
	case token.IS:
		return Bool(Identical(x, y) != e.Not), nil
	case token.IN:
		ok, err := Contains(th, x, y)
		if err != nil {
			return nil, err
		}
		return Bool(ok != e.Not), nil
	case token.EQEQ:
		return Compare(th, CmpEq, x, y)
	case token.BANGEQ:
		return Compare(th, CmpNe, x, y)
	case token.LT:
		return Compare(th, CmpLt, x, y)
	case token.LE:
		return Compare(th, CmpLe, x, y)
	case token.GT:
		return Compare(th, CmpGt, x, y)
	case token.GE:
		return Compare(th, CmpGe, x, y)
	}
	return Binary(th, binaryOpOf(e.Type), x, y)
}

func binaryOpOf(tok token.Token) BinaryOp {
	switch tok {
	case token.PLUS:
		return OpAdd
	case token.MINUS:
		return OpSub
	case token.STAR:
		return OpMul
	case token.SLASH:
		return OpTrueDiv
	case token.SLASHSLASH:
		return OpFloorDiv
	case token.PERCENT:
		return OpMod
	case token.STARSTAR:
		return OpPow
	}
	fatalf("unexpected binary operator %s", tok)
	return 0
}
