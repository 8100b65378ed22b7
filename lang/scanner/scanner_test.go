package scanner_test

import (
	"strings"
	"testing"

	"github.com/mna/pywalk/lang/scanner"
	"github.com/mna/pywalk/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, src string, mode scanner.Mode) ([]token.Token, []token.Value, scanner.ErrorList) {
	t.Helper()

	var (
		s    scanner.Scanner
		el   scanner.ErrorList
		toks []token.Token
		vals []token.Value
		tv   token.Value
	)
	s.Init("test.py", []byte(src), mode, el.Add)
	for i := 0; ; i++ {
		require.Less(t, i, 1000, "scanner did not reach EOF")
		tok := s.Scan(&tv)
		toks = append(toks, tok)
		vals = append(vals, tv)
		if tok == token.EOF {
			break
		}
	}
	return toks, vals, el
}

func tokenString(toks []token.Token) string {
	parts := make([]string, len(toks))
	for i, tok := range toks {
		parts[i] = tok.String()
	}
	return strings.Join(parts, " ")
}

func TestScanLayout(t *testing.T) {
	cases := []struct {
		desc string
		src  string
		want string
	}{
		{"empty", "", "end of file"},
		{"blank lines", "\n\n  \n", "end of file"},
		{"single stmt", "a = 4\n", "identifier = int literal newline end of file"},
		{"no trailing newline", "a", "identifier newline end of file"},
		{"comment only", "# hello\n", "end of file"},
		{"trailing comment", "a # hello\n", "identifier newline end of file"},
		{
			"indent dedent",
			"if x:\n  y\nz\n",
			"if identifier : newline indent identifier newline dedent identifier newline end of file",
		},
		{
			"nested dedent at eof",
			"while a:\n  if b:\n    c\n",
			"while identifier : newline indent if identifier : newline indent identifier newline dedent dedent end of file",
		},
		{
			"double dedent",
			"def f():\n  if a:\n    b\nc",
			"def identifier ( ) : newline indent if identifier : newline indent identifier newline dedent dedent identifier newline end of file",
		},
		{
			"blank line in block",
			"if a:\n  b\n\n  # c\n  d\n",
			"if identifier : newline indent identifier newline identifier newline dedent end of file",
		},
		{
			"parens join lines",
			"print(1,\n   2)\n",
			"identifier ( int literal , int literal ) newline end of file",
		},
		{
			"backslash join",
			"a = 1 + \\\n  2\n",
			"identifier = int literal + int literal newline end of file",
		},
		{
			"semicolons",
			"a; b\n",
			"identifier ; identifier newline end of file",
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			toks, _, el := scanAll(t, c.src, 0)
			assert.Empty(t, el)
			assert.Equal(t, c.want, tokenString(toks))
		})
	}
}

func TestScanOperators(t *testing.T) {
	src := "+ - * / // % ** += -= *= /= //= %= **= == != < > <= >= = , : . ( )"
	toks, _, el := scanAll(t, src, 0)
	require.Empty(t, el)

	want := []token.Token{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.SLASHSLASH, token.PERCENT, token.STARSTAR,
		token.PLUSEQ, token.MINUSEQ, token.STAREQ, token.SLASHEQ, token.SLASHSLASHEQ, token.PERCENTEQ, token.STARSTAREQ,
		token.EQEQ, token.BANGEQ, token.LT, token.GT, token.LE, token.GE, token.EQ,
		token.COMMA, token.COLON, token.DOT, token.LPAREN, token.RPAREN,
		token.NEWLINE, token.EOF,
	}
	assert.Equal(t, want, toks)
}

func TestScanKeywords(t *testing.T) {
	toks, vals, el := scanAll(t, "def class None True False is not in and or pass x", 0)
	require.Empty(t, el)
	want := []token.Token{
		token.DEF, token.CLASS, token.NONE, token.TRUE, token.FALSE, token.IS, token.NOT,
		token.IN, token.AND, token.OR, token.PASS, token.IDENT, token.NEWLINE, token.EOF,
	}
	assert.Equal(t, want, toks)
	assert.Equal(t, "x", vals[11].String)
}

func TestScanIdentNormalization(t *testing.T) {
	// U+FB01 LATIN SMALL LIGATURE FI normalizes to "fi" under NFKC
	toks, vals, el := scanAll(t, "\ufb01x", 0)
	require.Empty(t, el)
	require.Equal(t, token.IDENT, toks[0])
	assert.Equal(t, "fix", vals[0].String)
	assert.Equal(t, "\ufb01x", vals[0].Raw)
}

func TestScanNumbers(t *testing.T) {
	cases := []struct {
		src   string
		tok   token.Token
		int   int64
		float float64
	}{
		{"0", token.INT, 0, 0},
		{"42", token.INT, 42, 0},
		{"1_000", token.INT, 1000, 0},
		{"0x1F", token.INT, 31, 0},
		{"0o17", token.INT, 15, 0},
		{"0b101", token.INT, 5, 0},
		{"0.5", token.FLOAT, 0, 0.5},
		{".25", token.FLOAT, 0, 0.25},
		{"1e3", token.FLOAT, 0, 1000},
		{"2.5E-1", token.FLOAT, 0, 0.25},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			toks, vals, el := scanAll(t, c.src, 0)
			require.Empty(t, el)
			require.Equal(t, c.tok, toks[0])
			assert.Equal(t, c.int, vals[0].Int)
			assert.Equal(t, c.float, vals[0].Float)
		})
	}
}

func TestScanStrings(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`"abc"`, "abc"},
		{`'abc'`, "abc"},
		{`"it's"`, "it's"},
		{`'a\nb'`, "a\nb"},
		{`'tab\there'`, "tab\there"},
		{`'\x41\u00e9'`, "Aé"},
		{`'\101'`, "A"},
		{`'\q'`, `\q`},
		{`"\""`, `"`},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			toks, vals, el := scanAll(t, c.src, 0)
			require.Empty(t, el)
			require.Equal(t, token.STRING, toks[0])
			assert.Equal(t, c.want, vals[0].String)
			assert.Equal(t, c.src, vals[0].Raw)
		})
	}
}

func TestScanComments(t *testing.T) {
	toks, vals, el := scanAll(t, "a # note\n", scanner.ScanComments)
	require.Empty(t, el)
	assert.Equal(t, []token.Token{token.IDENT, token.COMMENT, token.NEWLINE, token.EOF}, toks)
	assert.Equal(t, " note", vals[1].String)
}

func TestScanPositions(t *testing.T) {
	_, vals, _ := scanAll(t, "if a:\n  bc = 1\n", 0)
	// if a : NEWLINE INDENT bc
	l, c := vals[5].Pos.LineCol()
	assert.Equal(t, 2, l)
	assert.Equal(t, 3, c)
}

func TestScanErrors(t *testing.T) {
	cases := []struct {
		desc string
		src  string
		want string
	}{
		{"unterminated string", "'abc\n", "test.py:1:1: string literal not terminated"},
		{"illegal char", "a ? b", "test.py:1:3: illegal character U+003F '?'"},
		{"bad dedent", "if a:\n    b\n  c\n", "test.py:3:3: unindent does not match any outer indentation level"},
		{"unclosed paren", "f(1,", "unclosed '('"},
		{"bad separator", "1__0", "'_' must separate successive digits"},
		{"bad octal digit", "0o8", "invalid digit '8' in octal literal"},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			_, _, el := scanAll(t, c.src, 0)
			require.NotEmpty(t, el)
			assert.Contains(t, el.Error(), c.want)
		})
	}
}
