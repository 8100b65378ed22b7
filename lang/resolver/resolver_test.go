package resolver_test

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/mna/pywalk/lang/ast"
	"github.com/mna/pywalk/lang/parser"
	"github.com/mna/pywalk/lang/resolver"
	"github.com/mna/pywalk/lang/scanner"
	"github.com/stretchr/testify/require"
)

func resolveSource(t *testing.T, src string, universal ...string) (*ast.Chunk, error) {
	t.Helper()

	ch, err := parser.ParseChunk("test.py", []byte(src))
	require.NoError(t, err)

	isUniversal := func(name string) bool {
		for _, u := range universal {
			if u == name {
				return true
			}
		}
		return false
	}
	err = resolver.ResolveFiles(context.Background(), []*ast.Chunk{ch}, isUniversal)
	return ch, err
}

// identBindings returns "name=binding" for each identifier of the chunk,
// sorted by source position.
func identBindings(ch *ast.Chunk) []string {
	var idents []*ast.IdentExpr
	ast.Inspect(ch, func(n ast.Node) bool {
		if id, ok := n.(*ast.IdentExpr); ok {
			idents = append(idents, id)
		}
		return true
	})
	sort.SliceStable(idents, func(i, j int) bool {
		return idents[i].Start.Before(idents[j].Start)
	})

	res := make([]string, 0, len(idents))
	for _, id := range idents {
		var s string
		if b, ok := id.Binding.(*resolver.Binding); ok {
			s = b.String()
		}
		res = append(res, id.Lit+"="+s)
	}
	return res
}

func TestResolveBindings(t *testing.T) {
	cases := []struct {
		desc      string
		src       string
		universal []string
		want      []string
	}{
		{
			desc:      "module level",
			src:       "x = 1\nprint(x)\n",
			universal: []string{"print"},
			want:      []string{"x=dynamic", "print=universal", "x=dynamic"},
		},
		{
			desc:      "module assignment shadows universe",
			src:       "print = 1\nprint\nlen\n",
			universal: []string{"print", "len"},
			want:      []string{"print=dynamic", "print=dynamic", "len=universal"},
		},
		{
			desc: "function locals",
			src: `def f(a, b):
  c = a
  return c + b + g
`,
			want: []string{
				"f=dynamic", "a=local 0", "b=local 1",
				"c=local 2", "a=local 0",
				"c=local 2", "b=local 1", "g=dynamic",
			},
		},
		{
			desc: "closure",
			src: `def outer():
  x = 1
  def inner():
    return x
  return inner
`,
			want: []string{
				"outer=dynamic",
				"x=cell 0",
				"inner=local 1",
				"x=free 0",
				"inner=local 1",
			},
		},
		{
			desc: "class body",
			src: `def f():
  y = 2
  class C:
    z = y
    def m(self):
      return z
  return C
`,
			want: []string{
				"f=dynamic",
				"y=cell 0",
				"C=local 1",
				"z=dynamic", "y=free 0",
				"m=dynamic", "self=local 0",
				"z=dynamic",
				"C=local 1",
			},
		},
		{
			desc: "loop and except names",
			src: `def f():
  for i in r:
    pass
  try:
    pass
  except E as e:
    pass
`,
			want: []string{
				"f=dynamic",
				"i=local 0", "r=dynamic",
				"E=dynamic", "e=local 1",
			},
		},
	}

	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			ch, err := resolveSource(t, c.src, c.universal...)
			require.NoError(t, err)
			require.Equal(t, c.want, identBindings(ch))
		})
	}
}

func TestResolveFunctionScope(t *testing.T) {
	ch, err := resolveSource(t, `def outer(a):
  b = 1
  def inner(c):
    return a + c
  return inner
`)
	require.NoError(t, err)

	mod := ch.Scope.(*resolver.Function)
	require.Equal(t, "<module>", mod.Name)
	require.Equal(t, 0, mod.NumLocals())

	outer := ch.Block.Stmts[0].(*ast.FuncStmt)
	ofn := outer.Scope.(*resolver.Function)
	require.Equal(t, 1, ofn.Params)
	require.Equal(t, 3, ofn.NumLocals())
	require.Equal(t, resolver.Cell, ofn.Locals[0].Scope)
	require.Equal(t, resolver.Local, ofn.Locals[1].Scope)
	require.Empty(t, ofn.FreeVars)

	inner := outer.Body.Stmts[1].(*ast.FuncStmt)
	ifn := inner.Scope.(*resolver.Function)
	require.Equal(t, 1, ifn.NumLocals())
	require.Len(t, ifn.FreeVars, 1)
	require.Same(t, ofn.Locals[0], ifn.FreeVars[0])
}

func TestResolveErrors(t *testing.T) {
	cases := []struct {
		desc string
		src  string
		want []string
	}{
		{"return at module", "return 1\n", []string{"test.py:1:1: 'return' outside function"}},
		{"return in class", "class C:\n  return\n", []string{"test.py:2:3: 'return' outside function"}},
		{"break outside loop", "break\n", []string{"test.py:1:1: 'break' outside loop"}},
		{"continue in nested def", "while x:\n  def f():\n    continue\n", []string{"test.py:3:5: 'continue' not properly in loop"}},
		{"duplicate param", "def f(a, a):\n  pass\n", []string{"test.py:1:10: duplicate argument 'a' in function definition"}},
		{"multiple", "break\ndef f():\n  continue\n", []string{
			"test.py:1:1: 'break' outside loop",
			"test.py:3:3: 'continue' not properly in loop",
		}},
	}

	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			_, err := resolveSource(t, c.src)
			require.Error(t, err)

			var el scanner.ErrorList
			require.ErrorAs(t, err, &el)
			got := make([]string, 0, len(el))
			for _, e := range el {
				got = append(got, e.Error())
			}
			require.Equal(t, c.want, got, strings.Join(got, "\n"))
		})
	}
}

func TestResolveLoopInFunction(t *testing.T) {
	_, err := resolveSource(t, `def f():
  while True:
    if x:
      break
    for i in r:
      continue
`)
	require.NoError(t, err)
}
