package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/pywalk/lang/ast"
	"github.com/mna/pywalk/lang/parser"
	"github.com/mna/pywalk/lang/scanner"
)

func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFiles(ctx, stdio, c.WithPos, "", args...)
}

// ParseFiles prints the AST of each file to stdio.Stdout and the syntax
// errors to stdio.Stderr.
func ParseFiles(ctx context.Context, stdio mainer.Stdio, withPos bool, nodeFmt string, files ...string) error {
	printer := ast.Printer{
		Output:  stdio.Stdout,
		Pos:     withPos,
		NodeFmt: nodeFmt,
	}
	chunks, err := parser.ParseFiles(ctx, files...)
	for _, ch := range chunks {
		if err := printer.Print(ch); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
	}
	if err != nil {
		scanner.PrintError(stdio.Stderr, err)
	}
	return err
}
