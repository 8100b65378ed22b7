// Package ast defines the types to represent the abstract syntax tree (AST)
// of the language. Layout tokens (NEWLINE, INDENT, DEDENT) and comments are
// not part of any node, and only the position of significant tokens is
// recorded.
//
// Identifiers and function definitions carry an untyped slot filled by the
// resolver (see the resolver package for the concrete types), so that the
// evaluator can find the binding of a name without a second lookup.
//
// Note that this package is tested via the parser package's tests.
package ast

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mna/pywalk/lang/token"
)

// Node represents any node in the AST.
type Node interface {
	// Every Node implements the fmt.Formatter interface so they can print a
	// description of themselves. The only supported verbs are 'v' and 's'.
	// The '#' flag can be used to print count information about children
	// nodes. A width can be set to define the number of runes to print for
	// the node description - by default, that width is padded with spaces
	// on the left if the description is shorter, otherwise it is truncated
	// to that width. The '-' flag can be used to pad with spaces on the
	// right instead, and the '+' flag can be used to prevent padding
	// altogether - it only truncates if longer.
	fmt.Formatter

	// Span reports the start and end position of the node.
	Span() (start, end token.Pos)

	// Walk enters each node inside itself to implement the Visitor pattern.
	Walk(v Visitor)
}

// Expr represents an expression in the AST.
type Expr interface {
	Node
	expr()
}

// Stmt represents a statement in the AST.
type Stmt interface {
	Node

	// BlockEnding returns true if the statement transfers control out of its
	// block (return, break, continue and raise).
	BlockEnding() bool
}

var formatReplacer = strings.NewReplacer(
	"\r\n", "⏎",
	"\n", "⏎",
	"\t", "⭾",
	"\v", "⭿",
)

func format(f fmt.State, verb rune, n Node, label string, counts map[string]int) {
	if verb != 'v' && verb != 's' {
		fmt.Fprintf(f, "%%!%c(%T)", verb, n)
		return
	}

	// replace tabs and newlines with the corresponding unicode key
	label = formatReplacer.Replace(label)

	if w, ok := f.Width(); ok {
		minus, plus := f.Flag('-'), f.Flag('+')
		runes := []rune(label)
		if len(runes) >= w {
			runes = runes[:w]
		} else if minus {
			runes = append(runes, []rune(strings.Repeat(" ", w-len(runes)))...)
		} else if !plus {
			runes = append([]rune(strings.Repeat(" ", w-len(runes))), runes...)
		}
		label = string(runes)
	}

	fmt.Fprint(f, label)
	if f.Flag('#') && len(counts) > 0 {
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprint(f, " {")
		for i, k := range keys {
			if i > 0 {
				fmt.Fprint(f, ", ")
			}
			fmt.Fprintf(f, "%s=%d", k, counts[k])
		}
		fmt.Fprint(f, "}")
	}
}

// tokEnd returns the position just past a token of type tok starting at pos.
func tokEnd(pos token.Pos, tok token.Token) token.Pos {
	return pos.Add(len(tok.String()))
}
