package machine

import (
	"context"
	"testing"

	"github.com/mna/pywalk/lang/ast"
	"github.com/mna/pywalk/lang/parser"
	"github.com/mna/pywalk/lang/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunModuleFatalUnwinds(t *testing.T) {
	ctx := context.Background()
	ch, err := parser.ParseChunk("fatal.py", []byte("class A:\n    boom()\n"))
	require.NoError(t, err)
	require.NoError(t, resolver.ResolveFiles(ctx, []*ast.Chunk{ch}, IsUniversal))

	m := NewModule("fatal.py")
	m.Set("boom", NewNative("boom", NullaryFunc(func(th *Thread) (Value, error) {
		fatalf("boom")
		return nil, nil
	})))

	var th Thread
	err = th.RunModule(ctx, m, ch)
	var f Fatal
	require.ErrorAs(t, err, &f)
	assert.Equal(t, "boom", f.Msg)
	assert.Empty(t, th.CallStack())

	// the thread is still usable, with its full call depth
	ch, err = parser.ParseChunk("fatal.py", []byte("x = 1\n"))
	require.NoError(t, err)
	require.NoError(t, resolver.ResolveFiles(ctx, []*ast.Chunk{ch}, IsUniversal))
	require.NoError(t, th.RunModule(ctx, m, ch))
	assert.Empty(t, th.CallStack())
	v, ok := m.Get("x")
	require.True(t, ok)
	assert.Equal(t, Int(1), v)
}
