// Package scopecheck implements scope analysis: the first pass in the
// pipeline, binding every Id to an environment entry and detecting
// duplicate declarations. Grounded on CWBudde-go-dws's symbol-table walk
// (internal/semantic/symbol_table.go's Resolve / Define) adapted to the
// mini language's single Pass contract.
package scopecheck

import (
	"github.com/cwbudde/go-minic/internal/ast"
	"github.com/cwbudde/go-minic/internal/diag"
	"github.com/cwbudde/go-minic/internal/pass"
	"github.com/cwbudde/go-minic/internal/types"
)

// Pass binds identifiers against nested scopes.
type Pass struct{}

// New returns a scope-analysis pass.
func New() *Pass { return &Pass{} }

func (*Pass) Name() string { return "scope" }

func (p *Pass) Run(program ast.Stmt, ctx *pass.Context) error {
	walkStmt(program, ctx)
	return nil
}

func walkStmt(s ast.Stmt, ctx *pass.Context) {
	switch n := s.(type) {
	case *ast.Seq:
		walkStmt(n.First, ctx)
		walkStmt(n.Rest, ctx)

	case *ast.If:
		walkExpr(n.Test, ctx)
		walkStmt(n.Then, ctx)
		if n.Else != nil {
			walkStmt(n.Else, ctx)
		}

	case *ast.While:
		walkExpr(n.Test, ctx)
		walkStmt(n.Body, ctx)

	case *ast.Print:
		walkExpr(n.Exp, ctx)

	case *ast.ExprStmt:
		walkExpr(n.Exp, ctx)

	case *ast.VarDecl:
		declareVar(n, ctx)

	case *ast.Block:
		ctx.Env.PushFrame()
		defer ctx.Env.PopFrame()
		for _, decl := range n.Decls {
			declareVar(decl, ctx)
		}
		if n.Body != nil {
			walkStmt(n.Body, ctx)
		}

	default:
		ctx.Reporter.Report(diag.InternalError, s.Pos(), "scopecheck: unhandled statement %T", s)
	}
}

func declareVar(n *ast.VarDecl, ctx *pass.Context) {
	if ctx.Env.DeclaredInCurrentFrame(n.Name) {
		ctx.Reporter.Report(diag.DuplicateDecl, n.Pos(), "%q already declared in this scope", n.Name)
	} else {
		declTy, _ := types.Lookup(n.TypeName)
		n.Entry = ctx.Env.Declare(n.Name, declTy)
	}
	if n.Init != nil {
		walkExpr(n.Init, ctx)
	}
}

func walkExpr(e ast.Expr, ctx *pass.Context) {
	switch n := e.(type) {
	case *ast.IntLit, *ast.BoolLit:
		// leaves: nothing to bind

	case *ast.Id:
		if entry, ok := ctx.Env.Resolve(n.Name); ok {
			n.Entry = entry
		} else {
			ctx.Reporter.Report(diag.UndeclaredId, n.Pos(), "undeclared identifier %q", n.Name)
			n.Entry = ctx.Env.DeclareError(n.Name)
		}

	case *ast.BinOp:
		walkExpr(n.Left, ctx)
		walkExpr(n.Right, ctx)

	case *ast.UnaryOp:
		walkExpr(n.Operand, ctx)

	case *ast.Assign:
		walkExpr(n.LHS, ctx)
		walkExpr(n.RHS, ctx)

	default:
		ctx.Reporter.Report(diag.InternalError, e.Pos(), "scopecheck: unhandled expression %T", e)
	}
}
