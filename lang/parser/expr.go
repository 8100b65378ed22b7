package parser

import (
	"github.com/mna/pywalk/lang/ast"
	"github.com/mna/pywalk/lang/token"
)

func (p *parser) parseExpr() ast.Expr {
	return p.parseSubExpr(0)
}

var (
	binopPriority = map[token.Token]struct{ left, right int }{
		token.OR:  {1, 1},
		token.AND: {2, 2},
		// 'not' as unary is 3, comparisons are non-associative and do not chain
		token.LT: {4, 4}, token.LE: {4, 4}, token.GT: {4, 4},
		token.GE: {4, 4}, token.EQEQ: {4, 4}, token.BANGEQ: {4, 4},
		token.IN: {4, 4}, token.IS: {4, 4}, token.NOT: {4, 4}, // NOT for "not in"
		token.PLUS: {10, 10}, token.MINUS: {10, 10},
		token.STAR: {11, 11}, token.SLASH: {11, 11},
		token.PERCENT: {11, 11}, token.SLASHSLASH: {11, 11},
		token.STARSTAR: {14, 13}, // right associative, binds tighter than unary on its left
	}
	notPriority  = 3
	unopPriority = 12
)

// parses a SubExpr where the binary operator has a priority higher than the
// provided priority (for precedence climbing).
func (p *parser) parseSubExpr(priority int) ast.Expr {
	var left ast.Expr

	switch p.tok {
	case token.NOT:
		var unop ast.UnaryOpExpr
		unop.Type = p.tok
		unop.Op = p.expect(p.tok)
		unop.Right = p.parseSubExpr(notPriority)
		left = &unop
	case token.MINUS, token.PLUS:
		var unop ast.UnaryOpExpr
		unop.Type = p.tok
		unop.Op = p.expect(p.tok)
		unop.Right = p.parseSubExpr(unopPriority)
		left = &unop
	default:
		left = p.parsePrimaryExpr()
	}

	for {
		prio, ok := binopPriority[p.tok]
		if !ok || prio.left <= priority {
			break
		}

		var bin ast.BinOpExpr
		bin.Left = left
		bin.Type = p.tok
		bin.Op = p.expect(p.tok)
		switch bin.Type {
		case token.NOT:
			// "not in"
			p.expect(token.IN)
			bin.Type, bin.Not = token.IN, true
		case token.IS:
			if p.tok == token.NOT {
				p.advance()
				bin.Not = true
			}
		}
		bin.Right = p.parseSubExpr(prio.right)
		left = &bin
	}
	return left
}

// parsePrimaryExpr parses an atom followed by any number of call and
// attribute suffixes.
func (p *parser) parsePrimaryExpr() ast.Expr {
	expr := p.parseAtomExpr()
	for {
		switch p.tok {
		case token.LPAREN:
			var call ast.CallExpr
			call.Fn = expr
			call.Lparen = p.expect(token.LPAREN)
			call.Args = p.parseExprList(token.RPAREN)
			call.Rparen = p.expect(token.RPAREN)
			expr = &call

		case token.DOT:
			var dot ast.DotExpr
			dot.Left = expr
			dot.Dot = p.expect(token.DOT)
			dot.Right = p.parseIdentExpr()
			expr = &dot

		default:
			return expr
		}
	}
}

func (p *parser) parseAtomExpr() ast.Expr {
	switch p.tok {
	case token.IDENT:
		return p.parseIdentExpr()

	case token.INT, token.FLOAT, token.NONE, token.TRUE, token.FALSE:
		var val any
		switch p.tok {
		case token.INT:
			val = p.val.Int
		case token.FLOAT:
			val = p.val.Float
		}
		lit := &ast.LiteralExpr{
			Type:  p.tok,
			Raw:   p.val.Raw,
			Value: val,
		}
		if lit.Raw == "" {
			lit.Raw = p.tok.String()
		}
		lit.Start = p.expect(p.tok)
		return lit

	case token.STRING:
		// adjacent string literals are concatenated
		lit := &ast.LiteralExpr{
			Type: token.STRING,
			Raw:  p.val.Raw,
		}
		s := p.val.String
		lit.Start = p.expect(token.STRING)
		for p.tok == token.STRING {
			lit.Raw += " " + p.val.Raw
			s += p.val.String
			p.advance()
		}
		lit.Value = s
		return lit

	case token.LPAREN:
		var paren ast.ParenExpr
		paren.Lparen = p.expect(token.LPAREN)
		paren.Expr = p.parseExpr()
		paren.Rparen = p.expect(token.RPAREN)
		return &paren

	default:
		p.errorExpected(p.val.Pos, "expression")
		panic("unreachable")
	}
}

func (p *parser) parseIdentExpr() *ast.IdentExpr {
	var exp ast.IdentExpr
	exp.Lit = p.val.String
	exp.Start = p.expect(token.IDENT)
	return &exp
}

// parseExprList parses a possibly empty, comma-separated list of expressions
// up to the end token (not consumed). A trailing comma is allowed.
func (p *parser) parseExprList(end token.Token) []ast.Expr {
	var exprs []ast.Expr
	for p.tok != end && p.tok != token.EOF {
		exprs = append(exprs, p.parseExpr())
		if p.tok != token.COMMA {
			break
		}
		p.expect(token.COMMA)
	}
	return exprs
}
