package parser_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mna/pywalk/lang/ast"
	"github.com/mna/pywalk/lang/parser"
	"github.com/mna/pywalk/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func printTree(t *testing.T, n ast.Node) string {
	t.Helper()
	var buf bytes.Buffer
	p := ast.Printer{Output: &buf}
	require.NoError(t, p.Print(n))
	return buf.String()
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

func TestParseTree(t *testing.T) {
	cases := []struct {
		desc string
		src  string
		want string
	}{
		{
			"assignment",
			"a = 4\n",
			lines(
				"chunk test.py",
				". block",
				". . assignment",
				". . . a",
				". . . int literal 4",
			),
		},
		{
			"augmented assignment",
			"a += 2",
			lines(
				"chunk test.py",
				". block",
				". . augmented assignment +=",
				". . . a",
				". . . int literal 2",
			),
		},
		{
			"precedence",
			"1 + 2 * 3 ** -1",
			lines(
				"chunk test.py",
				". block",
				". . expr",
				". . . binary +",
				". . . . int literal 1",
				". . . . binary *",
				". . . . . int literal 2",
				". . . . . binary **",
				". . . . . . int literal 3",
				". . . . . . unary -",
				". . . . . . . int literal 1",
			),
		},
		{
			"unary minus and power",
			"-2 ** 2",
			lines(
				"chunk test.py",
				". block",
				". . expr",
				". . . unary -",
				". . . . binary **",
				". . . . . int literal 2",
				". . . . . int literal 2",
			),
		},
		{
			"right assoc power",
			"2 ** 3 ** 2",
			lines(
				"chunk test.py",
				". block",
				". . expr",
				". . . binary **",
				". . . . int literal 2",
				". . . . binary **",
				". . . . . int literal 3",
				". . . . . int literal 2",
			),
		},
		{
			"boolean ops",
			"not a and b or c",
			lines(
				"chunk test.py",
				". block",
				". . expr",
				". . . binary or",
				". . . . binary and",
				". . . . . unary not",
				". . . . . . a",
				". . . . . b",
				". . . . c",
			),
		},
		{
			"is not and not in",
			"a is not b\nc not in d",
			lines(
				"chunk test.py",
				". block",
				". . expr",
				". . . binary is not",
				". . . . a",
				". . . . b",
				". . expr",
				". . . binary not in",
				". . . . c",
				". . . . d",
			),
		},
		{
			"call and attribute",
			"o.f(1, 'x')",
			lines(
				"chunk test.py",
				". block",
				". . expr",
				". . . call",
				". . . . expr.f",
				". . . . . o",
				". . . . int literal 1",
				". . . . string literal 'x'",
			),
		},
		{
			"for loop",
			"for i in range(0, 5, 2):\n    print(i)\n",
			lines(
				"chunk test.py",
				". block",
				". . for i in",
				". . . i",
				". . . call",
				". . . . range",
				". . . . int literal 0",
				". . . . int literal 5",
				". . . . int literal 2",
				". . . block",
				". . . . expr",
				". . . . . call",
				". . . . . . print",
				". . . . . . i",
			),
		},
		{
			"if elif else",
			"if a:\n  pass\nelif b: pass\nelse:\n  break\n",
			lines(
				"chunk test.py",
				". block",
				". . if",
				". . . a",
				". . . block",
				". . . . pass",
				". . . block",
				". . . . elif",
				". . . . . b",
				". . . . . block",
				". . . . . . pass",
				". . . . . block",
				". . . . . . break",
			),
		},
		{
			"def and return",
			"def f(a, b):\n  return a\n",
			lines(
				"chunk test.py",
				". block",
				". . def f",
				". . . f",
				". . . a",
				". . . b",
				". . . block",
				". . . . return",
				". . . . . a",
			),
		},
		{
			"class",
			"class C(B):\n  x = 1\n",
			lines(
				"chunk test.py",
				". block",
				". . class C",
				". . . C",
				". . . B",
				". . . block",
				". . . . assignment",
				". . . . . x",
				". . . . . int literal 1",
			),
		},
		{
			"try except",
			"try:\n  raise E('m')\nexcept E as e:\n  pass\n",
			lines(
				"chunk test.py",
				". block",
				". . try",
				". . . block",
				". . . . raise",
				". . . . . call",
				". . . . . . E",
				". . . . . . string literal 'm'",
				". . . except as e",
				". . . . E",
				". . . . e",
				". . . . block",
				". . . . . pass",
			),
		},
		{
			"assert and semicolons",
			"assert a, b; pass",
			lines(
				"chunk test.py",
				". block",
				". . assert",
				". . . a",
				". . . b",
				". . pass",
			),
		},
		{
			"attribute assignment",
			"self.x = None",
			lines(
				"chunk test.py",
				". block",
				". . assignment",
				". . . expr.x",
				". . . . self",
				". . . None",
			),
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			ch, err := parser.ParseChunk("test.py", []byte(c.src))
			require.NoError(t, err)
			assert.Equal(t, c.want, printTree(t, ch))
		})
	}
}

func TestParseLiterals(t *testing.T) {
	ch, err := parser.ParseChunk("test.py", []byte("'a' \"b\"\n1.5\nTrue\n"))
	require.NoError(t, err)
	require.Len(t, ch.Block.Stmts, 3)

	lit := ch.Block.Stmts[0].(*ast.ExprStmt).Expr.(*ast.LiteralExpr)
	assert.Equal(t, token.STRING, lit.Type)
	assert.Equal(t, "ab", lit.Value)

	lit = ch.Block.Stmts[1].(*ast.ExprStmt).Expr.(*ast.LiteralExpr)
	assert.Equal(t, token.FLOAT, lit.Type)
	assert.Equal(t, 1.5, lit.Value)

	lit = ch.Block.Stmts[2].(*ast.ExprStmt).Expr.(*ast.LiteralExpr)
	assert.Equal(t, token.TRUE, lit.Type)
	assert.Nil(t, lit.Value)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		desc string
		src  string
		want []string
	}{
		{"missing colon", "if a\n  b\n", []string{"test.py:1:5: expected ':', found newline"}},
		{"bad assign target", "1 = 2\n", []string{"test.py:1:1: cannot assign to expression"}},
		{"missing expr", "a = \n", []string{"test.py:1:5: expected expression, found newline"}},
		{"unexpected indent", "a\n  b\n", []string{"test.py:2:3: unexpected indent"}},
		{"try without except", "try:\n  a\nb\n", []string{"test.py:3:1: expected except, found identifier b"}},
		{
			"recovers after error",
			"a = = 1\nb = 2\nc = )\n",
			[]string{
				"test.py:1:5: expected expression, found '='",
				"test.py:3:5: expected expression, found ')'",
			},
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			_, err := parser.ParseChunk("test.py", []byte(c.src))
			require.Error(t, err)

			var el interface{ Unwrap() []error }
			require.ErrorAs(t, err, &el)
			var got []string
			for _, e := range el.Unwrap() {
				got = append(got, e.Error())
			}
			assert.Equal(t, c.want, got)
		})
	}
}

func TestParseRecoveryKeepsGoodStmts(t *testing.T) {
	ch, err := parser.ParseChunk("test.py", []byte("a = = 1\nb = 2\n"))
	require.Error(t, err)
	require.Len(t, ch.Block.Stmts, 2)
	assert.IsType(t, &ast.BadStmt{}, ch.Block.Stmts[0])
	assert.IsType(t, &ast.AssignStmt{}, ch.Block.Stmts[1])
}
