package machine

import (
	"errors"
	"fmt"
	"strings"
)

// ExceptionKind is a named kind of exception. Kinds form a hierarchy rooted
// at BaseException, a kind may have multiple parents. Two kinds are the same
// if they have the same name.
type ExceptionKind struct {
	name    string
	parents []*ExceptionKind
}

var _ Value = (*ExceptionKind)(nil)

// NewExceptionKind returns a new exception kind with the provided parent
// kinds.
func NewExceptionKind(name string, parents ...*ExceptionKind) *ExceptionKind {
	return &ExceptionKind{name: name, parents: parents}
}

func (k *ExceptionKind) String() string { return "<class '" + k.name + "'>" }
func (k *ExceptionKind) Type() string   { return "type" }
func (k *ExceptionKind) Kind() Kind     { return InternalKind }

// Name returns the name of the exception kind.
func (k *ExceptionKind) Name() string { return k.name }

// Parents returns the parent kinds of k.
func (k *ExceptionKind) Parents() []*ExceptionKind { return k.parents }

// Is returns true if k and other are the same kind.
func (k *ExceptionKind) Is(other *ExceptionKind) bool {
	return k.name == other.name
}

// IsSubkindOf returns true if k is the same kind as other or if any of its
// ancestors is.
func (k *ExceptionKind) IsSubkindOf(other *ExceptionKind) bool {
	if k.Is(other) {
		return true
	}
	for _, p := range k.parents {
		if p.IsSubkindOf(other) {
			return true
		}
	}
	return false
}

// New returns a new exception of kind k with the formatted message.
func (k *ExceptionKind) New(format string, args ...any) *Exception {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Exception{kind: k, Msg: msg, HasMsg: true}
}

// Empty returns a new exception of kind k without a message.
func (k *ExceptionKind) Empty() *Exception {
	return &Exception{kind: k}
}

// TraceEntry is an entry in the traceback of an exception.
type TraceEntry struct {
	Filename string
	Line     int
	Func     string
}

func (e TraceEntry) String() string {
	return fmt.Sprintf("File %q, line %d, in %s", e.Filename, e.Line, e.Func)
}

// Exception is a raised exception. It implements the error interface and it
// is the only kind of error that can be caught by the language's try
// statement.
type Exception struct {
	kind   *ExceptionKind
	Msg    string
	HasMsg bool

	// Traceback is the list of frames the exception propagated through, the
	// innermost first.
	Traceback []TraceEntry

	// uncatchable exceptions terminate the thread, they are not matched by
	// except clauses.
	uncatchable bool
}

var (
	_ Value = (*Exception)(nil)
	_ error = (*Exception)(nil)
)

func (e *Exception) String() string { return e.Error() }
func (e *Exception) Type() string   { return e.kind.name }
func (e *Exception) Kind() Kind     { return InternalKind }

// ExceptionKind returns the kind of the exception.
func (e *Exception) ExceptionKind() *ExceptionKind { return e.kind }

// Error returns the last line of the traceback, the kind name and the
// message if there is one.
func (e *Exception) Error() string {
	if e.HasMsg {
		return e.kind.name + ": " + e.Msg
	}
	return e.kind.name
}

// AddTrace appends a traceback entry to the exception.
func (e *Exception) AddTrace(filename string, line int, fn string) {
	e.Traceback = append(e.Traceback, TraceEntry{Filename: filename, Line: line, Func: fn})
}

// Uncatchable returns true if the exception cannot be caught by an except
// clause.
func (e *Exception) Uncatchable() bool { return e.uncatchable }

// Format returns the full display of the exception, with the traceback
// entries printed with the most recent call last.
func (e *Exception) Format() string {
	var b strings.Builder
	b.WriteString("Traceback (most recent call last):\n")
	for i := len(e.Traceback) - 1; i >= 0; i-- {
		b.WriteString("\t")
		b.WriteString(e.Traceback[i].String())
		b.WriteString("\n")
	}
	b.WriteString(e.Error())
	return b.String()
}

// IsKind returns true if err is an *Exception of exactly the kind k (not a
// sub-kind).
func IsKind(err error, k *ExceptionKind) bool {
	var exc *Exception
	if errors.As(err, &exc) {
		return exc.kind.Is(k)
	}
	return false
}

// The exception hierarchy.
var (
	BaseException     = NewExceptionKind("BaseException")
	GeneratorExit     = NewExceptionKind("GeneratorExit", BaseException)
	KeyboardInterrupt = NewExceptionKind("KeyboardInterrupt", BaseException)
	SystemExit        = NewExceptionKind("SystemExit", BaseException)

	// StdException is the kind named Exception, the parent of all
	// non-system-exiting exceptions.
	StdException = NewExceptionKind("Exception", BaseException)

	ArithmeticError     = NewExceptionKind("ArithmeticError", StdException)
	OverflowError       = NewExceptionKind("OverflowError", ArithmeticError)
	ZeroDivisionError   = NewExceptionKind("ZeroDivisionError", ArithmeticError)
	AssertionError      = NewExceptionKind("AssertionError", StdException)
	AttributeError      = NewExceptionKind("AttributeError", StdException)
	BufferError         = NewExceptionKind("BufferError", StdException)
	EOFError            = NewExceptionKind("EOFError", StdException)
	ImportError         = NewExceptionKind("ImportError", StdException)
	LookupError         = NewExceptionKind("LookupError", StdException)
	IndexError          = NewExceptionKind("IndexError", LookupError)
	KeyError            = NewExceptionKind("KeyError", LookupError)
	MemoryError         = NewExceptionKind("MemoryError", StdException)
	NameError           = NewExceptionKind("NameError", StdException)
	OSError             = NewExceptionKind("OSError", StdException)
	ReferenceError      = NewExceptionKind("ReferenceError", StdException)
	RuntimeError        = NewExceptionKind("RuntimeError", StdException)
	NotImplementedError = NewExceptionKind("NotImplementedError", RuntimeError)
	RecursionError      = NewExceptionKind("RecursionError", RuntimeError)
	StopAsyncIteration  = NewExceptionKind("StopAsyncIteration", StdException)
	StopIteration       = NewExceptionKind("StopIteration", StdException)
	SyntaxError         = NewExceptionKind("SyntaxError", StdException)
	SystemError         = NewExceptionKind("SystemError", StdException)
	TypeError           = NewExceptionKind("TypeError", StdException)
	ValueError          = NewExceptionKind("ValueError", StdException)
)

// exceptionKinds lists the predeclared kinds, for the universe.
var exceptionKinds = []*ExceptionKind{
	BaseException, GeneratorExit, KeyboardInterrupt, SystemExit, StdException,
	ArithmeticError, OverflowError, ZeroDivisionError, AssertionError,
	AttributeError, BufferError, EOFError, ImportError, LookupError, IndexError,
	KeyError, MemoryError, NameError, OSError, ReferenceError, RuntimeError,
	NotImplementedError, RecursionError, StopAsyncIteration, StopIteration,
	SyntaxError, SystemError, TypeError, ValueError,
}
