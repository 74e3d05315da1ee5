// Package initcheck implements initialization (definite-assignment)
// analysis: an abstract interpretation over VarSet that tracks which
// declared variables are guaranteed initialized at each program point,
// reporting UseBeforeInit on any read that is not. Grounded on
// CWBudde-go-dws's flow-sensitive semantic passes, reshaped around the
// bitset-backed varset.Set described alongside the environment arena.
package initcheck

import (
	"github.com/cwbudde/go-minic/internal/ast"
	"github.com/cwbudde/go-minic/internal/diag"
	"github.com/cwbudde/go-minic/internal/pass"
	"github.com/cwbudde/go-minic/internal/varset"
)

// Pass runs definite-assignment analysis.
type Pass struct{}

// New returns an initialization-analysis pass.
func New() *Pass { return &Pass{} }

func (*Pass) Name() string { return "init" }

func (p *Pass) Run(program ast.Stmt, ctx *pass.Context) error {
	a := analyzer{ctx: ctx}
	a.stmt(program, varset.Empty())
	return nil
}

type analyzer struct {
	ctx *pass.Context
}

// stmt analyzes s starting from the set in, and returns the set known
// to hold after s completes.
func (a analyzer) stmt(s ast.Stmt, in varset.Set) varset.Set {
	switch n := s.(type) {
	case *ast.Seq:
		mid := a.stmt(n.First, in)
		return a.stmt(n.Rest, mid)

	case *ast.If:
		i := a.expr(n.Test, in)
		var ti, fi varset.Set
		ti = a.stmt(n.Then, i)
		if n.Else != nil {
			fi = a.stmt(n.Else, i)
		} else {
			fi = i
		}
		merged := varset.Intersect(varset.Trim(ti, i), varset.Trim(fi, i))
		return varset.Union(merged, i)

	case *ast.While:
		i := a.expr(n.Test, in)
		// The body's initialization additions do not survive: it may not
		// execute at all, so only side-effecting diagnostics from walking
		// it are kept.
		a.stmt(n.Body, i)
		return i

	case *ast.Print:
		return a.expr(n.Exp, in)

	case *ast.ExprStmt:
		return a.expr(n.Exp, in)

	case *ast.VarDecl:
		if n.Init != nil {
			out := a.expr(n.Init, in)
			if n.Entry != nil {
				return out.Add(n.Entry)
			}
			return out
		}
		return in

	case *ast.Block:
		out := in
		for _, decl := range n.Decls {
			out = a.stmt(decl, out)
		}
		if n.Body != nil {
			out = a.stmt(n.Body, out)
		}
		return out

	default:
		a.ctx.Reporter.Report(diag.InternalError, s.Pos(), "initcheck: unhandled statement %T", s)
		return in
	}
}

// expr analyzes e starting from in, and returns the set known to hold
// after e is evaluated.
func (a analyzer) expr(e ast.Expr, in varset.Set) varset.Set {
	switch n := e.(type) {
	case *ast.IntLit, *ast.BoolLit:
		return in

	case *ast.Id:
		if n.Entry != nil && !in.Contains(n.Entry) {
			a.ctx.Reporter.Report(diag.UseBeforeInit, n.Pos(), "%q used before being initialized", n.Name)
		}
		return in

	case *ast.BinOp:
		switch n.Op {
		case ast.LAnd, ast.LOr:
			// Short-circuit: the right side may not execute, so its
			// additions are discarded, matching its evaluation-order
			// contract with codegen's branch compilation. It is still
			// walked so that reads inside it are checked.
			mid := a.expr(n.Left, in)
			a.expr(n.Right, mid)
			return mid
		default:
			mid := a.expr(n.Left, in)
			return a.expr(n.Right, mid)
		}

	case *ast.UnaryOp:
		return a.expr(n.Operand, in)

	case *ast.Assign:
		m := a.expr(n.RHS, in)
		if n.LHS.Entry != nil {
			return m.Add(n.LHS.Entry)
		}
		return m

	default:
		a.ctx.Reporter.Report(diag.InternalError, e.Pos(), "initcheck: unhandled expression %T", e)
		return in
	}
}
