package parser

import (
	"github.com/mna/pywalk/lang/ast"
	"github.com/mna/pywalk/lang/token"
)

// parseSimpleStmts parses one or more simple statements separated by
// semicolons, up to and including the terminating NEWLINE.
func (p *parser) parseSimpleStmts() []ast.Stmt {
	var list []ast.Stmt
	list = append(list, p.parseSimpleStmt())
	for p.tok == token.SEMICOLON {
		p.advance()
		if tokenIn(p.tok, token.NEWLINE, token.EOF) {
			// trailing semicolon
			break
		}
		list = append(list, p.parseSimpleStmt())
	}
	if p.tok != token.EOF {
		p.expect(token.NEWLINE)
	}
	return list
}

func (p *parser) parseSimpleStmt() ast.Stmt {
	switch p.tok {
	case token.PASS, token.BREAK, token.CONTINUE:
		return p.parseReturnLikeStmt(false)
	case token.RETURN, token.RAISE:
		return p.parseReturnLikeStmt(true)
	case token.ASSERT:
		return p.parseAssertStmt()
	default:
		return p.parseExprOrAssignStmt()
	}
}

func (p *parser) parseReturnLikeStmt(exprAllowed bool) *ast.ReturnLikeStmt {
	var stmt ast.ReturnLikeStmt
	stmt.Type = p.tok
	stmt.Start = p.expect(p.tok)
	if exprAllowed && !tokenIn(p.tok, token.NEWLINE, token.SEMICOLON, token.EOF) {
		stmt.Expr = p.parseExpr()
	}
	return &stmt
}

func (p *parser) parseAssertStmt() *ast.AssertStmt {
	var stmt ast.AssertStmt
	stmt.Assert = p.expect(token.ASSERT)
	stmt.Test = p.parseExpr()
	if p.tok == token.COMMA {
		stmt.Comma = p.expect(token.COMMA)
		stmt.Msg = p.parseExpr()
	}
	return &stmt
}

func (p *parser) parseExprOrAssignStmt() ast.Stmt {
	expr := p.parseExpr()
	if p.tok != token.EQ && !p.tok.IsAugBinop() {
		return &ast.ExprStmt{Expr: expr}
	}

	if !ast.IsAssignable(expr) {
		start, _ := expr.Span()
		p.error(start, "cannot assign to expression")
		panic(errPanicMode)
	}

	var stmt ast.AssignStmt
	stmt.Left = ast.Unwrap(expr)
	stmt.AssignTok = p.tok
	stmt.AssignPos = p.expect(p.tok)
	stmt.Right = p.parseExpr()
	return &stmt
}

func (p *parser) parseIfStmt() *ast.IfStmt {
	var stmt ast.IfStmt
	stmt.Type = p.tok
	stmt.Start = p.expect(token.IF, token.ELIF)
	stmt.Cond = p.parseExpr()
	p.expect(token.COLON)
	stmt.True = p.parseSuite()

	switch p.tok {
	case token.ELIF:
		var elifBlock ast.Block
		elifStmt := p.parseIfStmt()
		elifBlock.Start, elifBlock.End = elifStmt.Span()
		elifBlock.Stmts = []ast.Stmt{elifStmt}
		stmt.False = &elifBlock
	case token.ELSE:
		p.expect(token.ELSE)
		p.expect(token.COLON)
		stmt.False = p.parseSuite()
	}
	return &stmt
}

func (p *parser) parseWhileStmt() *ast.WhileStmt {
	var stmt ast.WhileStmt
	stmt.While = p.expect(token.WHILE)
	stmt.Cond = p.parseExpr()
	p.expect(token.COLON)
	stmt.Body = p.parseSuite()
	return &stmt
}

func (p *parser) parseForStmt() *ast.ForInStmt {
	var stmt ast.ForInStmt
	stmt.For = p.expect(token.FOR)
	stmt.Var = p.parseIdentExpr()
	stmt.In = p.expect(token.IN)
	stmt.Iter = p.parseExpr()
	p.expect(token.COLON)
	stmt.Body = p.parseSuite()
	return &stmt
}

func (p *parser) parseFuncStmt() *ast.FuncStmt {
	var stmt ast.FuncStmt
	stmt.Def = p.expect(token.DEF)
	stmt.Name = p.parseIdentExpr()
	stmt.Lparen = p.expect(token.LPAREN)

	var params []*ast.IdentExpr
	for p.tok == token.IDENT {
		params = append(params, p.parseIdentExpr())
		if p.tok != token.COMMA {
			break
		}
		p.expect(token.COMMA)
	}
	stmt.Params = params
	stmt.Rparen = p.expect(token.RPAREN)
	p.expect(token.COLON)
	stmt.Body = p.parseSuite()
	return &stmt
}

func (p *parser) parseClassStmt() *ast.ClassStmt {
	var stmt ast.ClassStmt
	stmt.Class = p.expect(token.CLASS)
	stmt.Name = p.parseIdentExpr()
	if p.tok == token.LPAREN {
		stmt.Lparen = p.expect(token.LPAREN)
		stmt.Bases = p.parseExprList(token.RPAREN)
		stmt.Rparen = p.expect(token.RPAREN)
	}
	p.expect(token.COLON)
	stmt.Body = p.parseSuite()
	return &stmt
}

func (p *parser) parseTryStmt() *ast.TryStmt {
	var stmt ast.TryStmt
	stmt.Try = p.expect(token.TRY)
	p.expect(token.COLON)
	stmt.Body = p.parseSuite()

	for p.tok == token.EXCEPT {
		var clause ast.ExceptClause
		clause.Except = p.expect(token.EXCEPT)
		if p.tok != token.COLON {
			clause.Type = p.parseExpr()
			if p.tok == token.AS {
				clause.As = p.expect(token.AS)
				clause.Name = p.parseIdentExpr()
			}
		}
		clause.Colon = p.expect(token.COLON)
		clause.Body = p.parseSuite()
		stmt.Handlers = append(stmt.Handlers, &clause)
	}
	if len(stmt.Handlers) == 0 {
		p.expect(token.EXCEPT)
	}
	return &stmt
}
