package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/pywalk/lang/ast"
	"github.com/mna/pywalk/lang/machine"
	"github.com/mna/pywalk/lang/parser"
	"github.com/mna/pywalk/lang/resolver"
	"github.com/mna/pywalk/lang/scanner"
)

func (c *Cmd) Resolve(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ResolveFiles(ctx, stdio, c.WithPos, "", args...)
}

// ResolveFiles prints the AST of each file with the binding of each
// identifier to stdio.Stdout, and the errors to stdio.Stderr.
func ResolveFiles(ctx context.Context, stdio mainer.Stdio, withPos bool, nodeFmt string, files ...string) error {
	printer := ast.Printer{
		Output:  stdio.Stdout,
		Pos:     withPos,
		NodeFmt: nodeFmt,
	}
	chunks, perr := parser.ParseFiles(ctx, files...)
	if perr != nil {
		// cannot resolve AST if parsing has errors
		scanner.PrintError(stdio.Stderr, perr)
		return perr
	}

	rerr := resolver.ResolveFiles(ctx, chunks, machine.IsUniversal)
	for _, ch := range chunks {
		if err := printer.Print(ch); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
	}
	if rerr != nil {
		scanner.PrintError(stdio.Stderr, rerr)
	}
	return rerr
}
