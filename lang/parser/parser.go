// Package parser implements the parser that takes the tokens produced by the
// scanner and builds the abstract syntax tree. It is a hand-written
// recursive-descent parser, using precedence climbing for binary expressions.
package parser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mna/pywalk/lang/ast"
	"github.com/mna/pywalk/lang/scanner"
	"github.com/mna/pywalk/lang/token"
)

// ParseFiles is a helper function that parses the source files and returns
// the ASTs and any error encountered. The error, if non-nil, is guaranteed to
// be a scanner.ErrorList.
func ParseFiles(ctx context.Context, files ...string) ([]*ast.Chunk, error) {
	if len(files) == 0 {
		return nil, nil
	}

	var p parser
	res := make([]*ast.Chunk, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		b, err := os.ReadFile(file)
		if err != nil {
			p.errors.Add(token.Position{Filename: file}, err.Error())
			continue
		}

		p.init(file, b)
		res = append(res, p.parseChunk())
	}
	p.errors.Sort()
	return res, p.errors.Err()
}

// ParseChunk is a helper function that parses a single chunk from a slice of
// bytes and returns the AST and any error encountered. The filename is used
// for error reporting. The error, if non-nil, is guaranteed to be a
// scanner.ErrorList.
func ParseChunk(filename string, src []byte) (*ast.Chunk, error) {
	var p parser
	p.init(filename, src)
	ch := p.parseChunk()
	p.errors.Sort()
	return ch, p.errors.Err()
}

// parser parses source files and generates an AST.
type parser struct {
	// those fields are immutable after p.init
	scanner  scanner.Scanner
	errors   scanner.ErrorList
	filename string

	// current token
	tok token.Token
	val token.Value

	// one-token lookahead, valid if peeked is true
	peeked  bool
	peekTok token.Token
	peekVal token.Value
}

// errPanicMode is the value used to unwind the stack when a syntax error is
// encountered, recovered at the statement level.
var errPanicMode = errors.New("panic mode")

func (p *parser) init(filename string, src []byte) {
	p.filename = filename
	p.scanner.Init(filename, src, 0, p.errors.Add)
	p.peeked = false

	// advance to first token
	p.advance()
}

func (p *parser) advance() {
	if p.peeked {
		p.tok, p.val = p.peekTok, p.peekVal
		p.peeked = false
		return
	}
	p.tok = p.scanner.Scan(&p.val)
}

// peek returns the token following the current one, without consuming
// anything.
func (p *parser) peek() token.Token {
	if !p.peeked {
		p.peekTok = p.scanner.Scan(&p.peekVal)
		p.peeked = true
	}
	return p.peekTok
}

// expect checks that the current token is one of toks, consumes it and
// returns its position. Otherwise it records an error and unwinds to the
// enclosing statement.
func (p *parser) expect(toks ...token.Token) token.Pos {
	pos := p.val.Pos
	if !tokenIn(p.tok, toks...) {
		var sb strings.Builder
		for i, tok := range toks {
			if i > 0 {
				if i == len(toks)-1 {
					sb.WriteString(" or ")
				} else {
					sb.WriteString(", ")
				}
			}
			sb.WriteString(fmt.Sprintf("%#v", tok))
		}
		p.errorExpected(pos, sb.String())
	}
	p.advance()
	return pos
}

func (p *parser) error(pos token.Pos, msg string) {
	p.errors.Add(token.MakePosition(p.filename, pos), msg)
}

func (p *parser) errorExpected(pos token.Pos, what string) {
	msg := "expected " + what
	if pos == p.val.Pos {
		// the error happened at the current position, make it more specific
		msg += ", found " + p.foundDesc()
	}
	p.error(pos, msg)
	panic(errPanicMode)
}

func (p *parser) foundDesc() string {
	switch p.tok {
	case token.IDENT, token.INT, token.FLOAT, token.STRING:
		return fmt.Sprintf("%s %s", p.tok, p.val.Raw)
	}
	return fmt.Sprintf("%#v", p.tok)
}
