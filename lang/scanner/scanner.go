// Some of the scanner package is adapted from the Go source code:
// https://cs.opensource.google/go/go/+/refs/tags/go1.22.1:src/go/scanner/scanner.go
//
// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mna/pywalk/lang/token"
	"golang.org/x/text/unicode/norm"
)

// Mode controls optional scanner behaviour.
type Mode uint

// List of supported scanning modes.
const (
	// ScanComments emits COMMENT tokens instead of skipping comments.
	ScanComments Mode = 1 << iota
)

// tabSize is the number of columns a tab advances indentation to the next
// multiple of.
const tabSize = 8

// TokenAndValue combines the token type with the token value type in the same
// struct.
type TokenAndValue struct {
	Token token.Token
	Value token.Value
}

// ScanFiles is a helper function that tokenizes the source files and returns
// the list of tokens, grouped by the file at the same index, and produces any
// error encountered. The error, if non-nil, is guaranteed to implement
// Unwrap() []error.
func ScanFiles(ctx context.Context, mode Mode, files ...string) ([][]TokenAndValue, error) {
	if len(files) == 0 {
		return nil, nil
	}

	var (
		s      Scanner
		tokVal token.Value
		el     ErrorList
		errs   []error
	)

	tokensByFile := make([][]TokenAndValue, len(files))
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return tokensByFile, err
		}

		b, err := os.ReadFile(file)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", token.MakePosition(file, 0), err))
			continue
		}

		s.Init(file, b, mode, el.Add)
		for {
			tok := s.Scan(&tokVal)
			tokensByFile[i] = append(tokensByFile[i], TokenAndValue{
				Token: tok,
				Value: tokVal,
			})
			if tok == token.EOF {
				break
			}
		}
	}
	el.Sort()
	for _, e := range el {
		errs = append(errs, e)
	}
	return tokensByFile, errors.Join(errs...)
}

// Scanner tokenizes source files for the parser to consume. Besides the
// regular tokens, it synthesizes NEWLINE at the end of each logical line and
// INDENT/DEDENT tokens when the indentation level changes.
type Scanner struct {
	// immutable state after Init
	filename string
	src      []byte
	mode     Mode
	err      func(pos token.Position, msg string) // error handler for scanning errors

	// mutable scanning state
	sb          strings.Builder // writes to Builder never fail, so errors are ignored
	invalidByte byte            // when cur==RuneError due to failed utf8 decode, this is the invalid byte
	cur         rune            // current character
	line, col   int             // line/col position of cur
	off         int             // character offset in bytes of cur
	roff        int             // reading offset in bytes (position after current character)

	// layout state
	indents     []int       // stack of indentation columns, indents[0] == 0
	dedents     int         // number of pending DEDENT tokens
	parens      int         // nesting depth of parentheses, newlines are ignored if > 0
	lineStart   bool        // true if at the start of a logical line
	lastTok     token.Token // last token returned
	emittedAny  bool        // true if a non-layout token was returned
	eofNewline  bool        // true once the final NEWLINE at EOF was emitted
	pendingTail bool        // true if EOF dedents remain to be emitted
}

var (
	// byte order mark, only permitted as very first characters
	bom = [3]byte{0xEF, 0xBB, 0xBF}
	// hashbang line, only permitted as very first line (or immediately after
	// bom)
	hashBang = [2]byte{'#', '!'}
)

// Init initializes the scanner to tokenize a new file.
func (s *Scanner) Init(filename string, src []byte, mode Mode, errHandler func(token.Position, string)) {
	s.filename = filename
	s.src = src
	s.mode = mode
	s.err = errHandler

	s.sb.Reset()
	s.invalidByte = 0
	s.cur = ' '
	s.line, s.col = 1, 0
	s.off = 0
	s.roff = 0

	s.indents = append(s.indents[:0], 0)
	s.dedents = 0
	s.parens = 0
	s.lineStart = true
	s.lastTok = token.NEWLINE
	s.emittedAny = false
	s.eofNewline = false
	s.pendingTail = false

	// skip initial BOM if present
	if len(src) >= len(bom) && bytes.Equal(src[:len(bom)], bom[:]) {
		s.off += len(bom)
		s.roff += len(bom)
	}
	// skip initial hashbang line if present
	if len(src)-s.roff >= len(hashBang) && bytes.Equal(src[s.roff:s.roff+len(hashBang)], hashBang[:]) {
		for s.cur != '\n' && s.cur != -1 {
			s.advance()
		}
	}
	s.advance()
}

// peek returns the byte following the most recently read character without
// advancing the scanner. If the scanner is at EOF, peek returns 0.
func (s *Scanner) peek() byte {
	if s.roff < len(s.src) {
		return s.src[s.roff]
	}
	return 0
}

// read the next Unicode char into s.cur; s.cur < 0 means end-of-file.
func (s *Scanner) advance() {
	if s.roff >= len(s.src) {
		s.off = len(s.src)
		if s.cur == '\n' {
			s.line++
			s.col = 0
		}
		s.cur = -1
		return
	}

	s.off = s.roff
	if s.cur == '\n' {
		s.line++
		s.col = 0
	}

	// fast path if the rune is an ASCII char, no decoding necessary
	s.invalidByte = 0
	r, w := rune(s.src[s.roff]), 1
	if r >= utf8.RuneSelf {
		// not ASCII
		r, w = utf8.DecodeRune(s.src[s.roff:])
		if r == utf8.RuneError && w == 1 {
			s.error(s.line, s.col+1, "illegal UTF-8 encoding")
			// store the actual invalid byte
			s.invalidByte = s.src[s.roff]
		}
	}
	s.roff += w
	s.cur = r
	s.col++
}

func (s *Scanner) error(line, col int, msg string) {
	s.err(token.MakePosition(s.filename, makeSafePos(line, col)), msg)
}

func (s *Scanner) errorf(line, col int, msg string, args ...any) {
	s.error(line, col, fmt.Sprintf(msg, args...))
}

func checkSafePos(line, col int) {
	if line > token.MaxLines || col > token.MaxCols {
		if line > token.MaxLines {
			panic(fmt.Sprintf("number of lines exceeded: %d", line))
		}
		panic(fmt.Sprintf("number of columns exceeded at line %d: %d", line, col))
	}
}

func makeSafePos(line, col int) token.Pos {
	checkSafePos(line, col)
	return token.MakePos(line, col)
}

// advance only if the current char matches any of the specified ones.
func (s *Scanner) advanceIf(matches ...byte) bool {
	if s.cur >= 0 && s.cur < utf8.RuneSelf && bytes.IndexByte(matches, byte(s.cur)) >= 0 {
		s.advance()
		return true
	}
	return false
}

// Scan returns the next token in the source file.
func (s *Scanner) Scan(tokVal *token.Value) (tok token.Token) {
	defer func() {
		s.lastTok = tok
		if tok != token.NEWLINE && tok != token.INDENT && tok != token.DEDENT && tok != token.EOF {
			s.emittedAny = true
		}
	}()

	if s.dedents > 0 {
		s.dedents--
		*tokVal = token.Value{Pos: makeSafePos(s.line, max(s.col, 1))}
		return token.DEDENT
	}

	if s.lineStart && s.parens == 0 {
		if tok, ok := s.indentation(tokVal); ok {
			return tok
		}
	}

	s.skipWhitespace()

	// current token start
	startLine, startCol := s.line, s.col

	switch cur := s.cur; {
	case isLetter(cur):
		// keywords and identifiers
		lit := s.ident()
		name := lit
		if !isASCII(lit) {
			name = norm.NFKC.String(lit)
		}
		tok = token.LookupKw(name)
		*tokVal = token.Value{Raw: lit, String: name, Pos: makeSafePos(startLine, startCol)}

	case isDecimal(cur) || cur == '.' && isDecimal(rune(s.peek())):
		// integer and float
		var base int
		var lit string
		tok, base, lit = s.number()
		*tokVal = token.Value{Raw: lit, Pos: makeSafePos(startLine, startCol)}
		if tok == token.INT {
			n, err := numberToInt(lit, base)
			if err != nil {
				s.errorf(startLine, startCol, "invalid integer literal %s: %s", lit, errors.Unwrap(err))
			}
			tokVal.Int = n
		} else if tok == token.FLOAT {
			f, err := numberToFloat(lit)
			if err != nil {
				s.errorf(startLine, startCol, "invalid float literal %s: %s", lit, errors.Unwrap(err))
			}
			tokVal.Float = f
		}

	default:
		// keywords, identifiers and numbers are done

		s.advance() // always make progress
		pos := makeSafePos(startLine, startCol)
		switch cur {
		case -1:
			return s.eof(tokVal, pos)

		case '\n':
			s.lineStart = true
			tok = token.NEWLINE
			*tokVal = token.Value{Raw: "\n", Pos: pos}

		case '#':
			lit, val := s.comment()
			if s.mode&ScanComments != 0 {
				tok = token.COMMENT
				*tokVal = token.Value{Raw: lit, String: val, Pos: pos}
				break
			}
			return s.Scan(tokVal)

		case '"', '\'':
			tok = token.STRING
			lit, val := s.shortString(cur)
			*tokVal = token.Value{Raw: lit, Pos: pos, String: val}

		case '(':
			s.parens++
			tok = token.LPAREN
			*tokVal = token.Value{Raw: tok.String(), Pos: pos}

		case ')':
			if s.parens > 0 {
				s.parens--
			}
			tok = token.RPAREN
			*tokVal = token.Value{Raw: tok.String(), Pos: pos}

		case ';', ',', ':', '.':
			// unambiguous single-char punctuation
			tok = token.LookupPunct(string(cur))
			*tokVal = token.Value{Raw: tok.String(), Pos: pos}

		case '+', '-', '%', '=', '<', '>':
			// can be followed by '='
			punct := string(cur)
			if s.advanceIf('=') {
				punct += "="
			}
			tok = token.LookupPunct(punct)
			*tokVal = token.Value{Raw: punct, Pos: pos}

		case '*', '/':
			// can be doubled and/or followed by '='
			punct := string(cur)
			if s.advanceIf(byte(cur)) {
				punct += punct
			}
			if s.advanceIf('=') {
				punct += "="
			}
			tok = token.LookupPunct(punct)
			*tokVal = token.Value{Raw: punct, Pos: pos}

		case '!':
			if s.advanceIf('=') {
				tok = token.BANGEQ
				*tokVal = token.Value{Raw: tok.String(), Pos: pos}
				break
			}
			fallthrough

		default:
			if cur == utf8.RuneError && s.invalidByte > 0 {
				cur = rune(s.invalidByte)
				s.invalidByte = 0
			}
			s.errorf(startLine, startCol, "illegal character %#U", cur)
			tok = token.ILLEGAL
			*tokVal = token.Value{Raw: string(cur), Pos: pos}
		}
	}
	return tok
}

// indentation processes the leading whitespace of a logical line. It skips
// blank and comment-only lines and returns an INDENT or DEDENT token if the
// indentation level changed, in which case ok is true.
func (s *Scanner) indentation(tokVal *token.Value) (tok token.Token, ok bool) {
	for {
		var width int
		for s.cur == ' ' || s.cur == '\t' || s.cur == '\f' {
			switch s.cur {
			case ' ':
				width++
			case '\t':
				width = (width/tabSize + 1) * tabSize
			case '\f':
				width = 0
			}
			s.advance()
		}

		switch s.cur {
		case '\r':
			s.advance()
			if s.cur != '\n' {
				continue
			}
			fallthrough
		case '\n':
			// blank line
			s.advance()
			continue
		case '#':
			if s.mode&ScanComments != 0 {
				// comment-only lines are reported at the current indentation
				s.lineStart = false
				return 0, false
			}
			s.advance()
			s.comment()
			continue
		case -1:
			s.lineStart = false
			return 0, false
		}

		s.lineStart = false
		pos := makeSafePos(s.line, s.col)
		top := s.indents[len(s.indents)-1]
		switch {
		case width > top:
			s.indents = append(s.indents, width)
			*tokVal = token.Value{Pos: pos}
			return token.INDENT, true

		case width < top:
			var n int
			for len(s.indents) > 1 && s.indents[len(s.indents)-1] > width {
				s.indents = s.indents[:len(s.indents)-1]
				n++
			}
			if s.indents[len(s.indents)-1] != width {
				s.error(s.line, s.col, "unindent does not match any outer indentation level")
			}
			s.dedents = n - 1
			*tokVal = token.Value{Pos: pos}
			return token.DEDENT, true
		}
		return 0, false
	}
}

// eof returns the layout tokens needed to close the file before the final
// EOF: a NEWLINE if the last line was not terminated, then one DEDENT per
// open indentation level.
func (s *Scanner) eof(tokVal *token.Value, pos token.Pos) token.Token {
	*tokVal = token.Value{Pos: pos}
	if !s.eofNewline {
		s.eofNewline = true
		if s.emittedAny && s.lastTok != token.NEWLINE && s.lastTok != token.DEDENT {
			return token.NEWLINE
		}
	}
	if len(s.indents) > 1 {
		s.indents = s.indents[:len(s.indents)-1]
		return token.DEDENT
	}
	if s.parens > 0 && !s.pendingTail {
		s.pendingTail = true
		l, c := pos.LineCol()
		s.error(l, c, "unexpected end of file, unclosed '('")
	}
	return token.EOF
}

func (s *Scanner) ident() string {
	start := s.off
	for isLetter(s.cur) || isDigit(s.cur) {
		s.advance()
	}
	return string(s.src[start:s.off])
}

func (s *Scanner) skipWhitespace() {
	for {
		switch s.cur {
		case ' ', '\t', '\f', '\r':
			s.advance()
		case '\n':
			if s.parens == 0 {
				return
			}
			s.advance()
		case '\\':
			// explicit line joining
			if s.peek() != '\n' && s.peek() != '\r' {
				return
			}
			s.advance()
			s.advanceIf('\r')
			s.advanceIf('\n')
		default:
			return
		}
	}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func isLetter(rn rune) bool {
	return 'a' <= rn && rn <= 'z' ||
		'A' <= rn && rn <= 'Z' ||
		rn == '_' ||
		rn >= utf8.RuneSelf && unicode.IsLetter(rn)
}

func isDigit(rn rune) bool {
	return '0' <= rn && rn <= '9' ||
		rn >= utf8.RuneSelf && unicode.IsDigit(rn)
}
