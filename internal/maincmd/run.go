package maincmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/mna/mainer"
	"github.com/mna/pywalk/lang/machine"
	"github.com/mna/pywalk/lang/parser"
	"github.com/mna/pywalk/lang/resolver"
	"github.com/mna/pywalk/lang/scanner"
)

func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return RunFiles(ctx, stdio, c.newThread(stdio), args...)
}

// RunFiles parses and resolves all files, and if there are no errors, runs
// each one in its own module on thread th, in order. It stops at the first
// file that fails and prints the error, with its traceback if it is an
// uncaught exception, to stdio.Stderr.
func RunFiles(ctx context.Context, stdio mainer.Stdio, th *machine.Thread, files ...string) error {
	chunks, err := parser.ParseFiles(ctx, files...)
	if err != nil {
		scanner.PrintError(stdio.Stderr, err)
		return err
	}
	if err := resolver.ResolveFiles(ctx, chunks, machine.IsUniversal); err != nil {
		scanner.PrintError(stdio.Stderr, err)
		return err
	}

	for _, ch := range chunks {
		if _, err := th.RunChunk(ctx, ch); err != nil {
			printRunError(stdio.Stderr, err)
			return err
		}
	}
	return nil
}

func printRunError(w io.Writer, err error) {
	var exc *machine.Exception
	if errors.As(err, &exc) {
		fmt.Fprintln(w, exc.Format())
		return
	}
	fmt.Fprintln(w, err)
}
