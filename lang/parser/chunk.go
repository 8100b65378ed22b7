package parser

import (
	"github.com/mna/pywalk/lang/ast"
	"github.com/mna/pywalk/lang/token"
)

func (p *parser) parseChunk() *ast.Chunk {
	var chunk ast.Chunk
	chunk.Name = p.filename
	chunk.Block = p.parseStmts(token.EOF)
	chunk.EOF = p.val.Pos
	return &chunk
}

// parseStmts parses statements until one of the end tokens (not consumed) or
// EOF is reached.
func (p *parser) parseStmts(endToks ...token.Token) *ast.Block {
	var block ast.Block
	block.Start = p.val.Pos

	// EOF is always an end token
	endToks = append(endToks, token.EOF)

	var list []ast.Stmt
	for !tokenIn(p.tok, endToks...) {
		if p.tok == token.DEDENT {
			// unbalanced after an error, sync would not make progress
			p.error(p.val.Pos, "unexpected dedent")
			p.advance()
			continue
		}
		list = append(list, p.parseStmt()...)
	}

	block.Stmts = list
	if len(list) > 0 {
		_, block.End = list[len(list)-1].Span()
	} else {
		block.End = p.val.Pos
	}
	return &block
}

// parseSuite parses the block following a ':', either an indented block of
// statements on the following lines or simple statements on the same line.
func (p *parser) parseSuite() *ast.Block {
	if p.tok != token.NEWLINE {
		var block ast.Block
		block.Start = p.val.Pos
		block.Stmts = p.parseSimpleStmts()
		_, block.End = block.Stmts[len(block.Stmts)-1].Span()
		return &block
	}

	p.expect(token.NEWLINE)
	p.expect(token.INDENT)
	block := p.parseStmts(token.DEDENT)
	if p.tok == token.DEDENT {
		p.advance()
	}
	return block
}

// parseStmt parses a single compound statement or a line of simple
// statements. On a syntax error, it synchronizes to the next line and
// returns a single BadStmt.
func (p *parser) parseStmt() (stmts []ast.Stmt) {
	start := p.val.Pos

	defer func() {
		if err := recover(); err != nil {
			if err == errPanicMode {
				// synchronize to the next safe point and generate a BadStmt
				// for the interval.
				stmts = []ast.Stmt{&ast.BadStmt{
					Start: start,
					End:   p.syncAfterError(),
				}}
				return
			}
			panic(err)
		}
	}()

	switch p.tok {
	case token.IF:
		return []ast.Stmt{p.parseIfStmt()}
	case token.WHILE:
		return []ast.Stmt{p.parseWhileStmt()}
	case token.FOR:
		return []ast.Stmt{p.parseForStmt()}
	case token.DEF:
		return []ast.Stmt{p.parseFuncStmt()}
	case token.CLASS:
		return []ast.Stmt{p.parseClassStmt()}
	case token.TRY:
		return []ast.Stmt{p.parseTryStmt()}
	case token.INDENT:
		p.error(p.val.Pos, "unexpected indent")
		panic(errPanicMode)
	default:
		return p.parseSimpleStmts()
	}
}

// syncAfterError skips tokens up to and including the end of the current
// line. If that line opened an indented block, the whole block is skipped.
// It returns the position of the last skipped token.
func (p *parser) syncAfterError() token.Pos {
	last := p.val.Pos
	for {
		switch p.tok {
		case token.EOF, token.DEDENT:
			return last
		case token.NEWLINE:
			last = p.val.Pos
			p.advance()
			if p.tok == token.INDENT {
				p.skipIndented()
			}
			return last
		case token.INDENT:
			p.skipIndented()
			return last
		}
		last = p.val.Pos
		p.advance()
	}
}

// skipIndented skips a balanced INDENT..DEDENT sequence, the current token
// must be the INDENT.
func (p *parser) skipIndented() {
	depth := 0
	for p.tok != token.EOF {
		switch p.tok {
		case token.INDENT:
			depth++
		case token.DEDENT:
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}

func tokenIn(t token.Token, toks ...token.Token) bool {
	for _, tok := range toks {
		if t == tok {
			return true
		}
	}
	return false
}
