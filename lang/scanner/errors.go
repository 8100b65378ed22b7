package scanner

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/mna/pywalk/lang/token"
)

// Error is a positioned error produced by the scanner, parser or resolver.
type Error struct {
	Pos token.Position
	Msg string
}

func (e Error) Error() string {
	if e.Pos.Filename != "" || e.Pos.Line > 0 {
		return e.Pos.String() + ": " + e.Msg
	}
	return e.Msg
}

// ErrorList is a list of *Error. The zero value is an empty list ready to
// use.
type ErrorList []*Error

// Add adds an Error with the given position and message to the list.
func (p *ErrorList) Add(pos token.Position, msg string) {
	*p = append(*p, &Error{Pos: pos, Msg: msg})
}

// Reset resets the list to no errors.
func (p *ErrorList) Reset() { *p = (*p)[0:0] }

func (p ErrorList) Len() int      { return len(p) }
func (p ErrorList) Swap(i, j int) { p[i], p[j] = p[j], p[i] }
func (p ErrorList) Less(i, j int) bool {
	e, f := &p[i].Pos, &p[j].Pos
	if e.Filename != f.Filename {
		return e.Filename < f.Filename
	}
	if e.Line != f.Line {
		return e.Line < f.Line
	}
	if e.Col != f.Col {
		return e.Col < f.Col
	}
	return p[i].Msg < p[j].Msg
}

// Sort sorts the list by file, line, column and message. The sort is stable
// so that errors at the same position keep their relative order.
func (p ErrorList) Sort() {
	sort.Stable(p)
}

// Error implements the error interface.
func (p ErrorList) Error() string {
	switch len(p) {
	case 0:
		return "no errors"
	case 1:
		return p[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", p[0], len(p)-1)
}

// Unwrap returns the list of errors as a slice of error values.
func (p ErrorList) Unwrap() []error {
	errs := make([]error, len(p))
	for i, e := range p {
		errs[i] = e
	}
	return errs
}

// Err returns an error equivalent to this error list. If the list is empty,
// Err returns nil.
func (p ErrorList) Err() error {
	if len(p) == 0 {
		return nil
	}
	return p
}

// PrintError is a utility function that prints a list of errors to w, one
// error per line, if the err parameter is a multi-error (implements
// Unwrap() []error). Otherwise it prints the err string.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	var list interface{ Unwrap() []error }
	if errors.As(err, &list) {
		for _, e := range list.Unwrap() {
			PrintError(w, e)
		}
		return
	}
	fmt.Fprintln(w, err)
}
