package maincmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mna/mainer"
	"github.com/mna/pywalk/lang/ast"
	"github.com/mna/pywalk/lang/machine"
	"github.com/mna/pywalk/lang/parser"
	"github.com/mna/pywalk/lang/resolver"
	"github.com/mna/pywalk/lang/scanner"
	"github.com/peterh/liner"
)

const (
	replFilename = "<stdin>"
	promptFirst  = ">>> "
	promptMore   = "... "
)

func (c *Cmd) Repl(ctx context.Context, stdio mainer.Stdio, args []string) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	r := NewRepl(stdio, c.newThread(stdio))
	line.SetCompleter(r.Complete)
	return r.Loop(ctx, line)
}

// Prompter reads a line of input after displaying a prompt. It is
// implemented by *liner.State. Prompt returns io.EOF at the end of the
// input.
type Prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// Repl is an interactive session: each chunk read from the prompter is
// executed in the same module, so that globals persist between chunks.
type Repl struct {
	stdio  mainer.Stdio
	th     *machine.Thread
	module *machine.Module
}

// NewRepl returns a session that runs the chunks on thread th and prints
// results and errors to stdio.
func NewRepl(stdio mainer.Stdio, th *machine.Thread) *Repl {
	return &Repl{
		stdio:  stdio,
		th:     th,
		module: machine.NewModule(replFilename),
	}
}

// Loop reads and executes chunks until the prompter returns io.EOF or the
// context is cancelled. Errors raised by a chunk are printed and do not end
// the session.
func (r *Repl) Loop(ctx context.Context, p Prompter) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		src, err := readChunk(p)
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.stdio.Stdout)
				return nil
			}
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			return err
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		p.AppendHistory(strings.TrimRight(src, "\n"))
		_ = r.Exec(ctx, src)
	}
}

// readChunk reads a line and, if it opens a block, the following lines up
// to the first empty one.
func readChunk(p Prompter) (string, error) {
	first, err := p.Prompt(promptFirst)
	if err != nil {
		return "", err
	}

	lines := []string{first}
	if opensBlock(first) {
		for {
			l, err := p.Prompt(promptMore)
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				return "", err
			}
			if strings.TrimSpace(l) == "" {
				break
			}
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n") + "\n", nil
}

func opensBlock(line string) bool {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.HasSuffix(strings.TrimSpace(line), ":")
}

// Exec parses, resolves and executes src in the session's module. If src is
// a single expression statement, the representation of its value is
// printed unless it is None.
func (r *Repl) Exec(ctx context.Context, src string) error {
	ch, err := parser.ParseChunk(replFilename, []byte(src))
	if err != nil {
		scanner.PrintError(r.stdio.Stderr, err)
		return err
	}

	// names bound by previous chunks shadow the universe
	isUniversal := func(name string) bool {
		if _, ok := r.module.Get(name); ok {
			return false
		}
		return machine.IsUniversal(name)
	}
	if err := resolver.ResolveFiles(ctx, []*ast.Chunk{ch}, isUniversal); err != nil {
		scanner.PrintError(r.stdio.Stderr, err)
		return err
	}

	if len(ch.Block.Stmts) == 1 {
		if es, ok := ch.Block.Stmts[0].(*ast.ExprStmt); ok {
			v, err := r.th.EvalExpr(ctx, r.module, es.Expr)
			if err != nil {
				printRunError(r.stdio.Stderr, err)
				return err
			}
			if v == machine.None {
				return nil
			}
			s, err := machine.ToRepr(r.th, v)
			if err != nil {
				printRunError(r.stdio.Stderr, err)
				return err
			}
			fmt.Fprintln(r.stdio.Stdout, s)
			return nil
		}
	}

	if err := r.th.RunModule(ctx, r.module, ch); err != nil {
		printRunError(r.stdio.Stderr, err)
		return err
	}
	return nil
}

// Complete returns the completions of the identifier at the end of line,
// among the module's globals and the universe.
func (r *Repl) Complete(line string) []string {
	start := len(line)
	for start > 0 && isIdentByte(line[start-1]) {
		start--
	}
	prefix := line[start:]
	if prefix == "" {
		return nil
	}

	var res []string
	seen := make(map[string]bool)
	for _, names := range [][]string{r.module.Names(), machine.UniverseNames()} {
		for _, name := range names {
			if strings.HasPrefix(name, prefix) && !seen[name] {
				seen[name] = true
				res = append(res, line[:start]+name)
			}
		}
	}
	return res
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
