package sema

import (
	"context"
	"fmt"
	"strconv"

	"tally/internal/ast"
	"tally/internal/token"
	"tally/internal/trace"
	"tally/internal/types"
)

type typeChecker struct {
	env    *Env
	tracer trace.Tracer
	spanID uint64
}

// Check builds the type environment of prog. Statements are processed in
// source order; the first error stops the check.
func Check(ctx context.Context, prog *ast.Program) (*Env, error) {
	span, ctx := trace.StartSpan(ctx, trace.ScopePass, "sema")
	tc := &typeChecker{
		env:    NewEnv(),
		tracer: trace.FromContext(ctx),
		spanID: trace.CurrentSpan(ctx).SpanID,
	}
	if prog != nil {
		for _, stmt := range prog.Nodes {
			if err := tc.checkStmt(stmt); err != nil {
				span.EndErr(err)
				return nil, err
			}
		}
	}
	span.WithExtra("bindings", strconv.Itoa(tc.env.Len())).End("")
	return tc.env, nil
}

// TypeOf infers the type of a single expression against env.
// A nil env behaves like an empty one.
func TypeOf(env *Env, x ast.Expr) (types.Type, error) {
	if env == nil {
		env = NewEnv()
	}
	tc := &typeChecker{env: env, tracer: trace.Nop}
	return tc.exprType(x)
}

func (tc *typeChecker) checkStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.Let:
		typ, err := tc.exprType(s.Value)
		if err != nil {
			return err
		}
		if prev, dup := tc.env.Binding(s.Name); dup {
			return &Error{
				Kind: IdentRedeclared,
				Name: s.Name,
				Pos:  s.NamePos,
				Span: s.NameSpan,
				Prev: prev.Span,
			}
		}
		tc.env.insert(Binding{Name: s.Name, Type: typ, Span: s.NameSpan, Pos: s.NamePos})
		tc.point(s.Name+": "+typ.String(), s.NameSpan.String())
		return nil
	case *ast.ExprStmt:
		typ, err := tc.exprType(s.X)
		if err != nil {
			return err
		}
		tc.point("expr: "+typ.String(), s.Span.String())
		return nil
	}
	return fmt.Errorf("sema: unsupported statement %T", stmt)
}

func (tc *typeChecker) exprType(x ast.Expr) (types.Type, error) {
	switch x := x.(type) {
	case *ast.Literal:
		switch x.Kind {
		case token.LitInteger:
			return types.Integer, nil
		case token.LitString:
			return types.String, nil
		case token.LitBoolean:
			return types.Boolean, nil
		}
		return types.Invalid, fmt.Errorf("sema: unsupported literal kind %s", x.Kind)
	case *ast.Ident:
		typ, ok := tc.env.Lookup(x.Name)
		if !ok {
			return types.Invalid, &Error{Kind: UnknownIdent, Name: x.Name, Pos: x.Pos, Span: x.Span}
		}
		return typ, nil
	case *ast.Unary:
		// оператор не проверяется: -"x" допустимо
		return tc.exprType(x.Operand)
	case *ast.Binary:
		lhs, err := tc.exprType(x.LHS)
		if err != nil {
			return types.Invalid, err
		}
		rhs, err := tc.exprType(x.RHS)
		if err != nil {
			return types.Invalid, err
		}
		if lhs != rhs {
			return types.Invalid, &Error{
				Kind: MismatchedTypes,
				LHS:  lhs,
				RHS:  rhs,
				Pos:  x.OpPos,
				Span: x.Span,
			}
		}
		return lhs, nil
	case nil:
		return types.Invalid, fmt.Errorf("sema: missing expression")
	}
	return types.Invalid, fmt.Errorf("sema: unsupported expression %T", x)
}

func (tc *typeChecker) point(name, detail string) {
	if !tc.tracer.Enabled() {
		return
	}
	trace.Point(tc.tracer, trace.ScopeNode, name, tc.spanID, detail)
}
