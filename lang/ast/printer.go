package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/mna/pywalk/lang/token"
)

// Printer controls pretty-printing of the AST nodes.
type Printer struct {
	// Output is the io.Writer to print to.
	Output io.Writer

	// Pos indicates if the start and end positions of nodes are printed.
	Pos bool

	// NodeFmt is the format string to use to print the nodes. The verb must
	// be either `s` or `v`, a width can be set, and the `#` and `-` flags are
	// supported (`-` only when a width is set, to pad with spaces on the right
	// instead of the left). Defaults to `%v`.
	NodeFmt string
}

// Print pretty-prints the AST node n, one node per line, with children
// indented under their parent.
func (p *Printer) Print(n Node) error {
	pp := &printer{
		w:       p.Output,
		pos:     p.Pos,
		nodeFmt: p.NodeFmt,
	}
	if p.NodeFmt == "" {
		pp.nodeFmt = "%v"
	}
	Walk(pp, n)
	return pp.err
}

type printer struct {
	w       io.Writer
	pos     bool
	nodeFmt string
	depth   int
	err     error
}

func (p *printer) Visit(n Node, dir VisitDirection) Visitor {
	if dir == VisitExit {
		p.depth--
		return nil
	}
	if p.err != nil {
		return nil
	}

	p.printNode(n, p.depth)
	p.depth++
	return p
}

func (p *printer) printNode(n Node, indent int) {
	format := "%s"
	args := []interface{}{strings.Repeat(". ", indent)}
	if p.pos {
		format += "[%s-%s] "
		start, end := n.Span()
		args = append(args, formatPos(start), formatPos(end))
	}
	format += p.nodeFmt + "\n"
	args = append(args, n)

	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func formatPos(pos token.Pos) string {
	if pos.Unknown() {
		return "-"
	}
	l, c := pos.LineCol()
	return fmt.Sprintf("%d:%d", l, c)
}
