package machine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/mna/pywalk/lang/ast"
	"github.com/mna/pywalk/lang/token"
	"github.com/rs/zerolog"
)

// Thread executes resolved chunks. A thread is not safe for concurrent use,
// but distinct threads may run concurrently as long as they do not share
// modules or mutable values.
type Thread struct {
	// Name is an optional name that describes the thread, mostly for debugging.
	Name string

	// Stdout is the writer used by the print built-in. If nil, os.Stdout is
	// used.
	Stdout io.Writer

	// MaxSteps is the maximum number of "steps", a deliberately unspecified
	// measure of execution time, before the thread is stopped with an
	// uncatchable RuntimeError. A value <= 0 means no limit.
	MaxSteps int

	// MaxCallStackDepth limits the number of nested frames. If the limit is
	// reached, a RecursionError is raised. A value <= 0 means no limit.
	MaxCallStackDepth int

	// Logger receives debug events for calls and raised exceptions and trace
	// events for each executed statement. If nil, nothing is logged.
	Logger *zerolog.Logger

	ctx       context.Context
	cancelled atomic.Bool
	callStack []*Frame
	handling  []*Exception // exceptions being handled, for bare raise

	steps, maxSteps uint64
	initOnce        bool
}

var nopLogger = zerolog.Nop()

func (th *Thread) init(ctx context.Context) (stop func() bool) {
	if !th.initOnce {
		th.initOnce = true
		if th.MaxSteps <= 0 {
			th.maxSteps-- // (MaxUint64)
		} else {
			th.maxSteps = uint64(th.MaxSteps)
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	th.ctx = ctx
	th.cancelled.Store(false)
	return context.AfterFunc(ctx, func() { th.cancelled.Store(true) })
}

func (th *Thread) log() *zerolog.Logger {
	if th.Logger != nil {
		return th.Logger
	}
	return &nopLogger
}

func (th *Thread) stdout() io.Writer {
	if th.Stdout != nil {
		return th.Stdout
	}
	return os.Stdout
}

func (th *Thread) push(fr *Frame) { th.callStack = append(th.callStack, fr) }

func (th *Thread) pop() {
	th.callStack[len(th.callStack)-1] = nil
	th.callStack = th.callStack[:len(th.callStack)-1]
}

// CallStack returns the frames currently executing, the innermost last.
func (th *Thread) CallStack() []*Frame {
	return append([]*Frame(nil), th.callStack...)
}

// Steps returns the number of statements executed by the thread.
func (th *Thread) Steps() uint64 { return th.steps }

// RunModule executes the resolved chunk ch in module m. Global variables
// assigned by the chunk are stored in m, so that successive chunks may run in
// the same module. The returned error is an *Exception if the code raised an
// exception that was not caught, a Fatal if an invariant of the machine was
// violated, or an error wrapping the context's error if the context was
// cancelled.
func (th *Thread) RunModule(ctx context.Context, m *Module, ch *ast.Chunk) (err error) {
	stop := th.init(ctx)
	defer stop()
	defer th.recoverFatal(&err)

	fr := m.frame
	th.push(fr)
	defer th.pop()

	th.log().Debug().Str("thread", th.Name).Str("module", m.Name).Msg("run module")
	if _, err := th.execBlock(fr, ch.Block); err != nil {
		addTrace(err, fr)
		return err
	}
	return nil
}

// RunChunk executes the resolved chunk ch in a new module named after the
// chunk and returns that module.
func (th *Thread) RunChunk(ctx context.Context, ch *ast.Chunk) (*Module, error) {
	m := NewModule(ch.Name)
	err := th.RunModule(ctx, m, ch)
	return m, err
}

// EvalExpr evaluates the resolved expression e in module m and returns its
// value.
func (th *Thread) EvalExpr(ctx context.Context, m *Module, e ast.Expr) (v Value, err error) {
	stop := th.init(ctx)
	defer stop()
	defer th.recoverFatal(&err)

	fr := m.frame
	th.push(fr)
	defer th.pop()

	start, _ := e.Span()
	fr.pos = start
	v, err = th.eval(fr, e)
	if err != nil {
		addTrace(err, fr)
		return nil, err
	}
	return v, nil
}

func (th *Thread) recoverFatal(err *error) {
	if r := recover(); r != nil {
		f, ok := r.(Fatal)
		if !ok {
			panic(r)
		}
		th.log().Error().Str("thread", th.Name).Msg(f.Msg)
		th.handling = nil
		*err = f
	}
}

// step accounts for the execution of stmt in frame fr.
func (th *Thread) step(fr *Frame, stmt ast.Stmt) error {
	th.steps++
	if th.steps > th.maxSteps {
		exc := RuntimeError.New("too many steps")
		exc.uncatchable = true
		return exc
	}
	if th.cancelled.Load() {
		return fmt.Errorf("thread cancelled: %w", context.Cause(th.ctx))
	}

	fr.pos, _ = stmt.Span()
	if e := th.log().Trace(); e.Enabled() {
		e.Str("frame", fr.name).Stringer("pos", fr.Position()).Msgf("%T", stmt)
	}
	return nil
}

// addTrace records the frame fr in the traceback of err if it is an
// exception.
func addTrace(err error, fr *Frame) {
	var exc *Exception
	if errors.As(err, &exc) {
		exc.AddTrace(fr.filename, token.MakePosition(fr.filename, fr.pos).Line, fr.name)
	}
}
