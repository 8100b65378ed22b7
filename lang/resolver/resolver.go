// The scope model of the resolver package is adapted from the Starlark source
// code:
// https://github.com/google/starlark-go/tree/ee8ed142361c69d52fe8e9fb5e311d2a0a7c02de
//
// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolver implements the resolver that takes a parsed abstract syntax
// tree and resolves the identifiers to bindings.
//
// # Scopes
//
// A name assigned anywhere in a function body (including parameters, for
// loop variables, nested def and class names and except-as names) is local
// to that function and gets a fixed slot index. A name used in a function
// but local to an enclosing function is free: the enclosing binding becomes
// a cell and the nested function captures it when it is defined. Class
// bodies do not create locals visible to nested functions, their names live
// in the class namespace.
//
// Names at the module level and in class bodies, and names of a function
// that are not local to any enclosing function, are dynamic: they are looked
// up by name at runtime in the class or module namespace, then in the
// universe. A dynamic name that is never assigned at the module level and
// that is part of the universe is resolved as universal.
//
// Undefined names are not an error at this stage, they raise a NameError
// when evaluated.
package resolver

import (
	"context"
	"fmt"

	"github.com/mna/pywalk/lang/ast"
	"github.com/mna/pywalk/lang/scanner"
	"github.com/mna/pywalk/lang/token"
)

// ResolveFiles takes the list of chunks from a successful parse result and
// resolves the bindings used in the source code. On success, the AST is
// enriched with binding resolution information and is ready to be executed.
// The isUniversal function reports whether a name is a built-in, it may be
// nil.
//
// An AST that resulted in errors in the parse phase should never be passed to
// the resolver, the behavior is undefined.
//
// The returned error, if non-nil, is guaranteed to be a scanner.ErrorList.
func ResolveFiles(ctx context.Context, chunks []*ast.Chunk, isUniversal func(name string) bool) error {
	if len(chunks) == 0 {
		return nil
	}

	var r resolver
	r.isUniversal = isUniversal
	if isUniversal == nil {
		r.isUniversal = func(name string) bool { return false }
	}

	for _, ch := range chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.chunk(ch)
	}
	r.errors.Sort()
	return r.errors.Err()
}

type scopeKind uint8

const (
	moduleScope scopeKind = iota
	funcScope
	classScope
)

type scope struct {
	kind   scopeKind
	parent *scope
	fn     *Function

	locals   map[string]*Binding // function scopes only
	assigned map[string]bool     // module and class scopes only
	free     map[string]*Binding // free bindings of this scope by name
}

type resolver struct {
	isUniversal func(name string) bool
	errors      scanner.ErrorList

	filename string
	module   *scope
	cur      *scope
	loops    int // nesting depth of loops in the current function
}

func (r *resolver) chunk(ch *ast.Chunk) {
	r.filename = ch.Name
	fn := &Function{Definition: ch, Name: "<module>"}
	ch.Scope = fn

	sc := &scope{kind: moduleScope, fn: fn, assigned: make(map[string]bool), free: make(map[string]*Binding)}
	collectAssigned(ch.Block, func(_ *ast.IdentExpr, name string) { sc.assigned[name] = true })

	r.module, r.cur, r.loops = sc, sc, 0
	r.block(ch.Block)
}

func (r *resolver) errorf(pos token.Pos, msg string) {
	r.errors.Add(token.MakePosition(r.filename, pos), msg)
}

func (r *resolver) block(b *ast.Block) {
	if b == nil {
		return
	}
	for _, stmt := range b.Stmts {
		r.stmt(stmt)
	}
}

func (r *resolver) stmt(stmt ast.Stmt) {
	switch stmt := stmt.(type) {
	case *ast.AssignStmt:
		r.expr(stmt.Right)
		r.expr(stmt.Left)

	case *ast.AssertStmt:
		r.expr(stmt.Test)
		if stmt.Msg != nil {
			r.expr(stmt.Msg)
		}

	case *ast.ExprStmt:
		r.expr(stmt.Expr)

	case *ast.IfStmt:
		r.expr(stmt.Cond)
		r.block(stmt.True)
		r.block(stmt.False)

	case *ast.WhileStmt:
		r.expr(stmt.Cond)
		r.loops++
		r.block(stmt.Body)
		r.loops--

	case *ast.ForInStmt:
		r.expr(stmt.Iter)
		r.expr(stmt.Var)
		r.loops++
		r.block(stmt.Body)
		r.loops--

	case *ast.FuncStmt:
		r.expr(stmt.Name)
		r.function(stmt)

	case *ast.ClassStmt:
		for _, base := range stmt.Bases {
			r.expr(base)
		}
		r.expr(stmt.Name)
		r.class(stmt)

	case *ast.ReturnLikeStmt:
		switch stmt.Type {
		case token.RETURN:
			if r.cur.kind != funcScope {
				r.errorf(stmt.Start, "'return' outside function")
			}
		case token.BREAK:
			if r.loops == 0 {
				r.errorf(stmt.Start, "'break' outside loop")
			}
		case token.CONTINUE:
			if r.loops == 0 {
				r.errorf(stmt.Start, "'continue' not properly in loop")
			}
		}
		if stmt.Expr != nil {
			r.expr(stmt.Expr)
		}

	case *ast.TryStmt:
		r.block(stmt.Body)
		for _, h := range stmt.Handlers {
			if h.Type != nil {
				r.expr(h.Type)
			}
			if h.Name != nil {
				r.expr(h.Name)
			}
			r.block(h.Body)
		}

	case *ast.BadStmt:
		// nothing to resolve

	default:
		panic(fmt.Sprintf("unexpected stmt %T", stmt))
	}
}

func (r *resolver) expr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.IdentExpr:
		e.Binding = r.lookup(r.cur, e.Lit)

	case *ast.BinOpExpr:
		r.expr(e.Left)
		r.expr(e.Right)

	case *ast.UnaryOpExpr:
		r.expr(e.Right)

	case *ast.CallExpr:
		r.expr(e.Fn)
		for _, arg := range e.Args {
			r.expr(arg)
		}

	case *ast.DotExpr:
		// the attribute name is not a variable
		r.expr(e.Left)

	case *ast.ParenExpr:
		r.expr(e.Expr)

	case *ast.LiteralExpr, *ast.BadExpr:
		// nothing to resolve

	default:
		panic(fmt.Sprintf("unexpected expr %T", e))
	}
}

func (r *resolver) function(stmt *ast.FuncStmt) {
	fn := &Function{Definition: stmt, Name: stmt.Name.Lit, Params: len(stmt.Params)}
	stmt.Scope = fn

	sc := &scope{kind: funcScope, parent: r.cur, fn: fn, locals: make(map[string]*Binding), free: make(map[string]*Binding)}
	for _, param := range stmt.Params {
		if _, ok := sc.locals[param.Lit]; ok {
			r.errorf(param.Start, "duplicate argument '"+param.Lit+"' in function definition")
			continue
		}
		sc.declare(param.Lit)
	}
	collectAssigned(stmt.Body, func(_ *ast.IdentExpr, name string) {
		if _, ok := sc.locals[name]; !ok {
			sc.declare(name)
		}
	})

	prevCur, prevLoops := r.cur, r.loops
	r.cur, r.loops = sc, 0
	for _, param := range stmt.Params {
		param.Binding = sc.locals[param.Lit]
	}
	r.block(stmt.Body)
	r.cur, r.loops = prevCur, prevLoops
}

func (r *resolver) class(stmt *ast.ClassStmt) {
	fn := &Function{Definition: stmt, Name: stmt.Name.Lit}
	stmt.Scope = fn

	sc := &scope{kind: classScope, parent: r.cur, fn: fn, assigned: make(map[string]bool), free: make(map[string]*Binding)}
	collectAssigned(stmt.Body, func(_ *ast.IdentExpr, name string) { sc.assigned[name] = true })

	prevCur, prevLoops := r.cur, r.loops
	r.cur, r.loops = sc, 0
	r.block(stmt.Body)
	r.cur, r.loops = prevCur, prevLoops
}

func (sc *scope) declare(name string) *Binding {
	b := &Binding{Scope: Local, Name: name, Index: len(sc.fn.Locals)}
	sc.fn.Locals = append(sc.fn.Locals, b)
	sc.locals[name] = b
	return b
}

// lookup returns the binding of name as seen from scope sc.
func (r *resolver) lookup(sc *scope, name string) *Binding {
	switch sc.kind {
	case moduleScope:
		return r.global(name)
	case classScope:
		if sc.assigned[name] {
			return &Binding{Scope: Dynamic, Name: name}
		}
	}
	if b := r.resolveFree(sc, name); b != nil {
		return b
	}
	return r.global(name)
}

// resolveFree returns the binding of name in sc if it is a local of sc or of
// an enclosing function, in which case it is captured as a free variable by
// every scope in between. It returns nil if name is not a function local.
func (r *resolver) resolveFree(sc *scope, name string) *Binding {
	if sc == nil || sc.kind == moduleScope {
		return nil
	}
	if b := sc.locals[name]; b != nil {
		return b
	}
	if b := sc.free[name]; b != nil {
		return b
	}

	outer := r.resolveFree(sc.parent, name)
	if outer == nil {
		return nil
	}
	if outer.Scope == Local {
		outer.Scope = Cell
	}
	b := &Binding{Scope: Free, Name: name, Index: len(sc.fn.FreeVars)}
	sc.fn.FreeVars = append(sc.fn.FreeVars, outer)
	sc.free[name] = b
	return b
}

func (r *resolver) global(name string) *Binding {
	if !r.module.assigned[name] && r.isUniversal(name) {
		return &Binding{Scope: Universal, Name: name}
	}
	return &Binding{Scope: Dynamic, Name: name}
}

// collectAssigned calls fn for each name bound in the block, without
// descending into nested function and class bodies.
func collectAssigned(b *ast.Block, fn func(ident *ast.IdentExpr, name string)) {
	if b == nil {
		return
	}
	for _, stmt := range b.Stmts {
		switch stmt := stmt.(type) {
		case *ast.AssignStmt:
			if id, ok := stmt.Left.(*ast.IdentExpr); ok {
				fn(id, id.Lit)
			}
		case *ast.IfStmt:
			collectAssigned(stmt.True, fn)
			collectAssigned(stmt.False, fn)
		case *ast.WhileStmt:
			collectAssigned(stmt.Body, fn)
		case *ast.ForInStmt:
			fn(stmt.Var, stmt.Var.Lit)
			collectAssigned(stmt.Body, fn)
		case *ast.FuncStmt:
			fn(stmt.Name, stmt.Name.Lit)
		case *ast.ClassStmt:
			fn(stmt.Name, stmt.Name.Lit)
		case *ast.TryStmt:
			collectAssigned(stmt.Body, fn)
			for _, h := range stmt.Handlers {
				if h.Name != nil {
					fn(h.Name, h.Name.Lit)
				}
				collectAssigned(h.Body, fn)
			}
		}
	}
}
