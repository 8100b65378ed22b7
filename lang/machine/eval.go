package machine

import (
	"errors"

	"github.com/dolthub/swiss"
	"github.com/mna/pywalk/lang/ast"
	"github.com/mna/pywalk/lang/resolver"
	"github.com/mna/pywalk/lang/token"
)

// execBlock executes the statements of b in order. It stops at the first
// statement that returns an error or a completion other than Normal.
func (th *Thread) execBlock(fr *Frame, b *ast.Block) (Completion, error) {
	for _, stmt := range b.Stmts {
		comp, err := th.execStmt(fr, stmt)
		if err != nil || comp.Flag != Normal {
			return comp, err
		}
	}
	return Completion{}, nil
}

func (th *Thread) execStmt(fr *Frame, stmt ast.Stmt) (Completion, error) {
	if err := th.step(fr, stmt); err != nil {
		return Completion{}, err
	}

	switch stmt := stmt.(type) {
	case *ast.ExprStmt:
		_, err := th.eval(fr, stmt.Expr)
		return Completion{}, err

	case *ast.AssignStmt:
		return Completion{}, th.assign(fr, stmt)

	case *ast.AssertStmt:
		return Completion{}, th.assert(fr, stmt)

	case *ast.IfStmt:
		ok, err := th.evalTruthy(fr, stmt.Cond)
		if err != nil {
			return Completion{}, err
		}
		if ok {
			return th.execBlock(fr, stmt.True)
		}
		if stmt.False != nil {
			return th.execBlock(fr, stmt.False)
		}
		return Completion{}, nil

	case *ast.WhileStmt:
		return th.execWhile(fr, stmt)

	case *ast.ForInStmt:
		return th.execFor(fr, stmt)

	case *ast.FuncStmt:
		scope := stmt.Scope.(*resolver.Function)
		fn := &Function{
			Name:     stmt.Name.Lit,
			Def:      stmt,
			Scope:    scope,
			Module:   fr.module,
			FreeVars: fr.captureFreeVars(scope),
		}
		fr.varCell(stmt.Name).v = NewFunctionObject(fn)
		return Completion{}, nil

	case *ast.ClassStmt:
		return Completion{}, th.execClass(fr, stmt)

	case *ast.ReturnLikeStmt:
		switch stmt.Type {
		case token.PASS:
			return Completion{}, nil
		case token.BREAK:
			return Completion{Flag: Break}, nil
		case token.CONTINUE:
			return Completion{Flag: Continue}, nil
		case token.RETURN:
			var v Value = None
			if stmt.Expr != nil {
				var err error
				if v, err = th.eval(fr, stmt.Expr); err != nil {
					return Completion{}, err
				}
			}
			return Completion{Flag: Return, Value: v}, nil
		case token.RAISE:
			return Completion{}, th.raise(fr, stmt.Expr)
		}
		fatalf("unexpected %s statement", stmt.Type)

	case *ast.TryStmt:
		return th.execTry(fr, stmt)

	case *ast.BadStmt:
		fatalf("bad statement at %s", fr.Position())
	}
	fatalf("unexpected statement %T", stmt)
	return Completion{}, nil
}

func (th *Thread) evalTruthy(fr *Frame, e ast.Expr) (bool, error) {
	v, err := th.eval(fr, e)
	if err != nil {
		return false, err
	}
	return Truthy(th, v)
}

func (th *Thread) execWhile(fr *Frame, stmt *ast.WhileStmt) (Completion, error) {
	for {
		fr.pos = stmt.While
		ok, err := th.evalTruthy(fr, stmt.Cond)
		if err != nil || !ok {
			return Completion{}, err
		}

		comp, err := th.execBlock(fr, stmt.Body)
		if err != nil {
			return comp, err
		}
		switch comp.Flag {
		case Break:
			return Completion{}, nil
		case Return:
			return comp, nil
		}
	}
}

// execFor runs the body once per value produced by the iterator of the
// iterable. The loop variable is a single cell overwritten on each
// iteration, it remains bound to the last value after the loop.
func (th *Thread) execFor(fr *Frame, stmt *ast.ForInStmt) (Completion, error) {
	iterable, err := th.eval(fr, stmt.Iter)
	if err != nil {
		return Completion{}, err
	}
	iter, next, err := Iterate(th, iterable)
	if err != nil {
		return Completion{}, err
	}

	cell := fr.varCell(stmt.Var)
	icls := ClassOf(iter)
	for {
		fr.pos = stmt.For
		v, err := callMagic(th, icls, next, iter)
		if err != nil {
			if IsKind(err, StopIteration) {
				return Completion{}, nil
			}
			return Completion{}, err
		}
		cell.v = v

		comp, err := th.execBlock(fr, stmt.Body)
		if err != nil {
			return comp, err
		}
		switch comp.Flag {
		case Break:
			return Completion{}, nil
		case Return:
			return comp, nil
		}
	}
}

func (th *Thread) execClass(fr *Frame, stmt *ast.ClassStmt) error {
	bases := make([]*Class, 0, len(stmt.Bases))
	for _, b := range stmt.Bases {
		v, err := th.eval(fr, b)
		if err != nil {
			return err
		}
		cls, ok := v.(*Class)
		if !ok {
			return TypeError.New("bases must be types, not '%s'", v.Type())
		}
		bases = append(bases, cls)
	}

	if th.MaxCallStackDepth > 0 && len(th.callStack) >= th.MaxCallStackDepth {
		return RecursionError.New("maximum recursion depth exceeded")
	}

	scope := stmt.Scope.(*resolver.Function)
	cfr := newClassFrame(stmt.Name.Lit, fr, fr.captureFreeVars(scope))
	if err := th.execClassBody(cfr, stmt.Body); err != nil {
		addTrace(err, cfr)
		return err
	}

	attrs := swiss.NewMap[string, Value](uint32(cfr.names.Count()))
	cfr.names.Iter(func(name string, c *Cell) bool {
		if c.v != nil {
			attrs.Put(name, c.v)
		}
		return false
	})
	cls, err := NewUserClass(stmt.Name.Lit, bases, attrs)
	if err != nil {
		return err
	}
	fr.varCell(stmt.Name).v = cls
	return nil
}

func (th *Thread) execClassBody(cfr *Frame, body *ast.Block) error {
	th.push(cfr)
	defer th.pop()
	_, err := th.execBlock(cfr, body)
	return err
}

func (th *Thread) raise(fr *Frame, e ast.Expr) error {
	if e == nil {
		if n := len(th.handling); n > 0 {
			return th.handling[n-1]
		}
		return RuntimeError.New("No active exception to reraise")
	}

	v, err := th.eval(fr, e)
	if err != nil {
		return err
	}

	var exc *Exception
	switch v := v.(type) {
	case *ExceptionKind:
		exc = v.Empty()
	case *Exception:
		exc = v
	default:
		return TypeError.New("exceptions must derive from BaseException")
	}
	th.log().Debug().Str("frame", fr.name).Stringer("pos", fr.Position()).Str("exception", exc.Error()).Msg("raise")
	return exc
}

func (th *Thread) execTry(fr *Frame, stmt *ast.TryStmt) (Completion, error) {
	comp, err := th.execBlock(fr, stmt.Body)
	if err == nil {
		return comp, nil
	}

	var exc *Exception
	if !errors.As(err, &exc) || exc.uncatchable {
		return comp, err
	}

	for _, h := range stmt.Handlers {
		if h.Type != nil {
			v, herr := th.eval(fr, h.Type)
			if herr != nil {
				return Completion{}, herr
			}
			kind, ok := v.(*ExceptionKind)
			if !ok {
				return Completion{}, TypeError.New("catching classes that do not inherit from BaseException is not allowed")
			}
			if !exc.kind.IsSubkindOf(kind) {
				continue
			}
		}

		if h.Name != nil {
			fr.varCell(h.Name).v = exc
		}
		th.handling = append(th.handling, exc)
		comp, herr := th.execBlock(fr, h.Body)
		th.handling = th.handling[:len(th.handling)-1]
		return comp, herr
	}
	return Completion{}, err
}

// assert without a message fails if the test is falsy. With a second
// operand, it fails if both operands are not equal and the message is the
// representation of the second operand.
func (th *Thread) assert(fr *Frame, stmt *ast.AssertStmt) error {
	x, err := th.eval(fr, stmt.Test)
	if err != nil {
		return err
	}

	if stmt.Msg == nil {
		ok, err := Truthy(th, x)
		if err != nil {
			return err
		}
		if !ok {
			return AssertionError.Empty()
		}
		return nil
	}

	y, err := th.eval(fr, stmt.Msg)
	if err != nil {
		return err
	}
	eq, err := Equal(th, x, y)
	if err != nil {
		return err
	}
	if !eq {
		msg, err := ToRepr(th, y)
		if err != nil {
			return err
		}
		return AssertionError.New(msg)
	}
	return nil
}

func (th *Thread) assign(fr *Frame, stmt *ast.AssignStmt) error {
	aug := stmt.AssignTok != token.EQ

	switch left := ast.Unwrap(stmt.Left).(type) {
	case *ast.IdentExpr:
		var cur Value
		if aug {
			var err error
			if cur, err = fr.lookupVar(left); err != nil {
				return err
			}
		}
		v, err := th.eval(fr, stmt.Right)
		if err != nil {
			return err
		}
		if aug {
			if v, err = Binary(th, binaryOpOf(stmt.AssignTok.AugBinop()), cur, v); err != nil {
				return err
			}
		}
		fr.varCell(left).v = v
		return nil

	case *ast.DotExpr:
		name := left.Right.Lit
		if !aug {
			v, err := th.eval(fr, stmt.Right)
			if err != nil {
				return err
			}
			obj, err := th.eval(fr, left.Left)
			if err != nil {
				return err
			}
			return SetAttr(obj, name, v)
		}

		obj, err := th.eval(fr, left.Left)
		if err != nil {
			return err
		}
		cur, err := GetAttr(obj, name)
		if err != nil {
			return err
		}
		v, err := th.eval(fr, stmt.Right)
		if err != nil {
			return err
		}
		if v, err = Binary(th, binaryOpOf(stmt.AssignTok.AugBinop()), cur, v); err != nil {
			return err
		}
		return SetAttr(obj, name, v)
	}
	fatalf("invalid assignment target %T", stmt.Left)
	return nil
}
