package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/mna/pywalk/lang/scanner"
	"github.com/mna/pywalk/lang/token"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	var mode scanner.Mode
	if c.WithComments {
		mode |= scanner.ScanComments
	}
	return TokenizeFiles(ctx, stdio, mode, args...)
}

// TokenizeFiles prints the tokens of each file to stdio.Stdout, one per
// line, and the errors to stdio.Stderr.
func TokenizeFiles(ctx context.Context, stdio mainer.Stdio, mode scanner.Mode, files ...string) error {
	toksByFile, err := scanner.ScanFiles(ctx, mode, files...)
	for i, toks := range toksByFile {
		for _, tok := range toks {
			fmt.Fprintf(stdio.Stdout, "%s: %s", token.MakePosition(files[i], tok.Value.Pos), tok.Token)
			if lit := tok.Token.Literal(tok.Value); lit != "" {
				fmt.Fprintf(stdio.Stdout, " %s", lit)
			}
			fmt.Fprintln(stdio.Stdout)
		}
	}
	if err != nil {
		scanner.PrintError(stdio.Stderr, err)
	}
	return err
}
