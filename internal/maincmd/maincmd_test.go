package maincmd

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/mna/pywalk/internal/config"
	"github.com/mna/pywalk/internal/filetest"
	"github.com/mna/pywalk/lang/machine"
	"github.com/mna/pywalk/lang/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUpdateRunTests = flag.Bool("test.update-run-tests", false, "If set, replace expected run test results with actual results.")

func TestRunFiles(t *testing.T) {
	ctx := context.Background()
	g := filetest.Golden{
		SrcDir:    filepath.Join("testdata", "in"),
		ResultDir: filepath.Join("testdata", "out"),
		Update:    testUpdateRunTests,
	}

	for _, fi := range g.SourceFiles(t, ".py") {
		t.Run(fi.Name(), func(t *testing.T) {
			var buf, ebuf bytes.Buffer
			stdio := mainer.Stdio{
				Stdout: &buf,
				Stderr: &ebuf,
			}

			// error is ignored, we just want it to be printed to ebuf
			_ = RunFiles(ctx, stdio, NewThread(stdio, config.Default(), nil), g.Path(fi))
			g.DiffOutput(t, fi, buf.String())
			g.DiffErrors(t, fi, ebuf.String())
		})
	}
}

func writeFile(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0600))
	return path
}

func TestRunFilesLimits(t *testing.T) {
	ctx := context.Background()

	t.Run("max steps", func(t *testing.T) {
		file := writeFile(t, "loop.py", "while True:\n    pass\n")
		var buf, ebuf bytes.Buffer
		stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}

		cfg := config.Default()
		cfg.MaxSteps = 1000
		err := RunFiles(ctx, stdio, NewThread(stdio, cfg, nil), file)
		require.Error(t, err)
		assert.True(t, machine.IsKind(err, machine.RuntimeError))
		assert.Contains(t, ebuf.String(), "RuntimeError: too many steps")
	})

	t.Run("max call depth", func(t *testing.T) {
		file := writeFile(t, "rec.py", "def f(n):\n    return f(n + 1)\nf(0)\n")
		var buf, ebuf bytes.Buffer
		stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}

		cfg := config.Default()
		cfg.MaxCallDepth = 20
		err := RunFiles(ctx, stdio, NewThread(stdio, cfg, nil), file)
		require.Error(t, err)
		assert.True(t, machine.IsKind(err, machine.RecursionError))
		assert.Contains(t, ebuf.String(), "RecursionError: maximum recursion depth exceeded")
	})
}

func TestRunFilesSharedThread(t *testing.T) {
	ctx := context.Background()
	f1 := writeFile(t, "a.py", "x = 1\nprint(\"a\", x)\n")
	f2 := writeFile(t, "b.py", "print(\"b\")\nx\n")
	f3 := writeFile(t, "c.py", "print(\"c\")\n")

	var buf, ebuf bytes.Buffer
	stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}
	err := RunFiles(ctx, stdio, NewThread(stdio, config.Default(), nil), f1, f2, f3)
	require.Error(t, err)

	// each file runs in its own module and the run stops at the first error
	assert.Equal(t, "a 1\nb\n", buf.String())
	assert.Contains(t, ebuf.String(), "NameError: name 'x' is not defined")
}

func TestRunFilesParseError(t *testing.T) {
	ctx := context.Background()
	good := writeFile(t, "good.py", "print(\"should not run\")\n")
	bad := writeFile(t, "bad.py", "x = (1\n")

	var buf, ebuf bytes.Buffer
	stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}
	err := RunFiles(ctx, stdio, NewThread(stdio, config.Default(), nil), good, bad)
	require.Error(t, err)
	assert.Empty(t, buf.String())
	assert.Contains(t, ebuf.String(), bad)
}

func TestTokenizeParseResolve(t *testing.T) {
	ctx := context.Background()
	file := writeFile(t, "x.py", "# comment\nx = 1\nprint(x)\n")

	t.Run("tokenize", func(t *testing.T) {
		var buf, ebuf bytes.Buffer
		stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}
		require.NoError(t, TokenizeFiles(ctx, stdio, 0, file))
		assert.Empty(t, ebuf.String())
		assert.Contains(t, buf.String(), file+":2:1: ")
		assert.NotContains(t, buf.String(), "comment")

		buf.Reset()
		require.NoError(t, TokenizeFiles(ctx, stdio, scanner.ScanComments, file))
		assert.Contains(t, buf.String(), "comment")
	})

	t.Run("parse", func(t *testing.T) {
		var buf, ebuf bytes.Buffer
		stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}
		require.NoError(t, ParseFiles(ctx, stdio, false, "", file))
		assert.Empty(t, ebuf.String())
		assert.Contains(t, buf.String(), "print")
	})

	t.Run("resolve", func(t *testing.T) {
		var buf, ebuf bytes.Buffer
		stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}
		require.NoError(t, ResolveFiles(ctx, stdio, false, "", file))
		assert.Empty(t, ebuf.String())
		assert.Contains(t, buf.String(), "universal")
	})

	t.Run("missing file", func(t *testing.T) {
		var buf, ebuf bytes.Buffer
		stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}
		missing := filepath.Join(t.TempDir(), "nope.py")
		require.Error(t, ParseFiles(ctx, stdio, false, "", missing))
		assert.NotEmpty(t, ebuf.String())
	})
}

type fakePrompter struct {
	lines   []string
	prompts []string
	history []string
}

func (p *fakePrompter) Prompt(prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if len(p.lines) == 0 {
		return "", io.EOF
	}
	l := p.lines[0]
	p.lines = p.lines[1:]
	return l, nil
}

func (p *fakePrompter) AppendHistory(item string) {
	p.history = append(p.history, item)
}

func TestRepl(t *testing.T) {
	var buf, ebuf bytes.Buffer
	stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}
	r := NewRepl(stdio, NewThread(stdio, config.Default(), nil))

	p := &fakePrompter{lines: []string{
		"x = 2",
		"x * 21",
		"def sq(n):",
		"    return n * n",
		"",
		"sq(x)",
		"print('hi')",
		"1 / 0",
		"len",
		"   ",
		"x",
		"int = 3",
		"int + 1",
		"if x > 1:  # block",
		"    print('big')",
		"",
		"x = (",
		"None",
		"x",
	}}
	require.NoError(t, r.Loop(context.Background(), p))

	assert.Equal(t, "42\n4\nhi\n2\n4\nbig\n2\n\n", buf.String())
	assert.Contains(t, ebuf.String(), "Traceback (most recent call last):\n\tFile \"<stdin>\", line 1, in <module>\nZeroDivisionError: division by zero\n")
	assert.Contains(t, ebuf.String(), "NameError: name 'len' is not defined\n")
	assert.Contains(t, ebuf.String(), "<stdin>:1")

	assert.Equal(t, []string{
		"x = 2",
		"x * 21",
		"def sq(n):\n    return n * n",
		"sq(x)",
		"print('hi')",
		"1 / 0",
		"len",
		"x",
		"int = 3",
		"int + 1",
		"if x > 1:  # block\n    print('big')",
		"x = (",
		"None",
		"x",
	}, p.history)
	assert.Equal(t, []string{">>> ", ">>> ", ">>> ", "... ", "... "}, p.prompts[:5])

	assert.Equal(t, []string{"int", "isinstance"}, r.Complete("i"))
	assert.Equal(t, []string{"print(sq"}, r.Complete("print(sq"))
	assert.Equal(t, []string{"x"}, r.Complete("x"))
	assert.Nil(t, r.Complete("print("))
	assert.Nil(t, r.Complete("zzz"))
}

func TestReplBlockAtEOF(t *testing.T) {
	var buf, ebuf bytes.Buffer
	stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}
	r := NewRepl(stdio, NewThread(stdio, config.Default(), nil))

	p := &fakePrompter{lines: []string{"for i in range(2):", "    print(i)"}}
	require.NoError(t, r.Loop(context.Background(), p))
	assert.Equal(t, "0\n1\n\n", buf.String())
	assert.Empty(t, ebuf.String())
}

func TestReplCancelled(t *testing.T) {
	var buf, ebuf bytes.Buffer
	stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}
	r := NewRepl(stdio, NewThread(stdio, config.Default(), nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := r.Loop(ctx, &fakePrompter{lines: []string{"print(1)"}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, buf.String())
}

func TestValidate(t *testing.T) {
	cases := []struct {
		desc  string
		help  bool
		args  []string
		flags map[string]bool
		err   string
	}{
		{"help", true, nil, nil, ""},
		{"no command", false, nil, nil, "no command specified"},
		{"unknown command", false, []string{"foo"}, nil, "unknown command: foo"},
		{"run without file", false, []string{"run"}, nil, "run: at least one file must be provided"},
		{"tokenize without file", false, []string{"tokenize"}, nil, "tokenize: at least one file must be provided"},
		{"repl with file", false, []string{"repl", "a.py"}, nil, "repl: no file can be provided"},
		{"run with comments", false, []string{"run", "a.py"}, map[string]bool{"with-comments": true}, "run: invalid flag 'with-comments'"},
		{"tokenize with pos", false, []string{"tokenize", "a.py"}, map[string]bool{"with-pos": true}, "tokenize: invalid flag 'with-pos'"},
		{"repl with pos", false, []string{"repl"}, map[string]bool{"with-pos": true}, "repl: invalid flag 'with-pos'"},
		{"tokenize with comments", false, []string{"tokenize", "a.py"}, map[string]bool{"with-comments": true}, ""},
		{"parse with pos", false, []string{"parse", "a.py"}, map[string]bool{"with-pos": true}, ""},
		{"resolve with pos", false, []string{"resolve", "a.py", "b.py"}, map[string]bool{"with-pos": true}, ""},
		{"run", false, []string{"run", "a.py"}, nil, ""},
		{"repl", false, []string{"repl"}, nil, ""},
	}

	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			cmd := Cmd{Help: c.help}
			cmd.SetArgs(c.args)
			cmd.SetFlags(c.flags)
			err := cmd.Validate()
			if c.err == "" {
				require.NoError(t, err)
				if !c.help {
					assert.NotNil(t, cmd.cmdFn)
				}
				return
			}
			require.EqualError(t, err, c.err)
		})
	}
}
