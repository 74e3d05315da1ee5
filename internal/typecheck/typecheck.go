// Package typecheck implements type analysis: a bottom-up pass that
// infers and records the type of every expression, and verifies every
// statement's typing obligations. Grounded on CWBudde-go-dws's
// expression-type inference walk (internal/semantic), adapted to the
// mini language's closed {INT, BOOLEAN} type set and its require/
// require-with-alternative recovery discipline.
package typecheck

import (
	"github.com/cwbudde/go-minic/internal/ast"
	"github.com/cwbudde/go-minic/internal/diag"
	"github.com/cwbudde/go-minic/internal/pass"
	"github.com/cwbudde/go-minic/internal/types"
)

// Pass infers and checks types across the AST.
type Pass struct{}

// New returns a type-analysis pass.
func New() *Pass { return &Pass{} }

func (*Pass) Name() string { return "type" }

func (p *Pass) Run(program ast.Stmt, ctx *pass.Context) error {
	walkStmt(program, ctx)
	return nil
}

// checker threads the diagnostic reporter through the recursive walk;
// its methods implement the require/require-with-alternative recovery
// pattern.
type checker struct {
	ctx *pass.Context
}

func walkStmt(s ast.Stmt, ctx *pass.Context) {
	c := checker{ctx: ctx}
	c.stmt(s)
}

func (c checker) stmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Seq:
		c.stmt(n.First)
		c.stmt(n.Rest)

	case *ast.If:
		c.require(n.Test, types.BOOLEAN)
		c.stmt(n.Then)
		if n.Else != nil {
			c.stmt(n.Else)
		}

	case *ast.While:
		c.require(n.Test, types.BOOLEAN)
		c.stmt(n.Body)

	case *ast.Print:
		c.require(n.Exp, types.INT)

	case *ast.ExprStmt:
		c.expr(n.Exp)

	case *ast.VarDecl:
		if n.Init != nil {
			declTy, _ := types.Lookup(n.TypeName)
			if declTy == nil {
				declTy = types.INT
			}
			c.require(n.Init, declTy)
		}

	case *ast.Block:
		for _, decl := range n.Decls {
			c.stmt(decl)
		}
		if n.Body != nil {
			c.stmt(n.Body)
		}

	default:
		c.ctx.Reporter.Report(diag.InternalError, s.Pos(), "typecheck: unhandled statement %T", s)
	}
}

// expr infers n's type bottom-up, records it in n's type slot, and
// returns it.
func (c checker) expr(n ast.Expr) *types.Type {
	var result *types.Type
	switch e := n.(type) {
	case *ast.IntLit:
		result = types.INT

	case *ast.BoolLit:
		result = types.BOOLEAN

	case *ast.Id:
		if e.Entry != nil && e.Entry.Type != nil {
			result = e.Entry.Type
		} else {
			// Undeclared or error-entry: pretend INT so that the rest of
			// the expression tree can still be checked without cascading.
			result = types.INT
		}

	case *ast.BinOp:
		result = c.binOp(e)

	case *ast.UnaryOp:
		result = c.unaryOp(e)

	case *ast.Assign:
		result = c.assign(e)

	default:
		c.ctx.Reporter.Report(diag.InternalError, n.Pos(), "typecheck: unhandled expression %T", n)
		result = types.INT
	}
	n.SetType(result)
	return result
}

func (c checker) binOp(e *ast.BinOp) *types.Type {
	switch e.Op {
	case ast.Add, ast.Sub, ast.Mul, ast.BAnd, ast.BOr, ast.BXor:
		c.require(e.Left, types.INT)
		c.require(e.Right, types.INT)
		return types.INT

	case ast.Lt, ast.Le, ast.Gt, ast.Ge:
		c.require(e.Left, types.INT)
		c.require(e.Right, types.INT)
		return types.BOOLEAN

	case ast.Eq, ast.Neq:
		left := c.expr(e.Left)
		c.require(e.Right, left)
		return types.BOOLEAN

	case ast.LAnd, ast.LOr:
		c.require(e.Left, types.BOOLEAN)
		c.require(e.Right, types.BOOLEAN)
		return types.BOOLEAN

	default:
		c.ctx.Reporter.Report(diag.InternalError, e.Pos(), "typecheck: unhandled operator %s", e.Op)
		return types.INT
	}
}

func (c checker) unaryOp(e *ast.UnaryOp) *types.Type {
	switch e.Op {
	case ast.Neg, ast.BNot:
		c.require(e.Operand, types.INT)
		return types.INT
	case ast.LNot:
		c.require(e.Operand, types.BOOLEAN)
		return types.BOOLEAN
	default:
		c.ctx.Reporter.Report(diag.InternalError, e.Pos(), "typecheck: unhandled operator %s", e.Op)
		return types.INT
	}
}

func (c checker) assign(e *ast.Assign) *types.Type {
	lhsTy := c.expr(e.LHS)
	c.require(e.RHS, lhsTy)
	return lhsTy
}

// require analyzes child, and if its type does not equal expected,
// reports TypeMismatch and returns expected instead of the actual type
// — error recovery that suppresses cascading diagnostics at the cost of
// pretending the mismatch did not happen.
func (c checker) require(child ast.Expr, expected *types.Type) *types.Type {
	actual := c.expr(child)
	if !actual.Equals(expected) {
		c.ctx.Reporter.Report(diag.TypeMismatch, child.Pos(),
			"expected type %s, got %s", expected, actual)
		return expected
	}
	return actual
}

// requireEither analyzes child and accepts either expected or alt,
// reporting TypeMismatch (against expected) if neither matches.
func (c checker) requireEither(child ast.Expr, expected, alt *types.Type) *types.Type {
	actual := c.expr(child)
	if actual.Equals(expected) || actual.Equals(alt) {
		return actual
	}
	c.ctx.Reporter.Report(diag.TypeMismatch, child.Pos(),
		"expected type %s or %s, got %s", expected, alt, actual)
	return expected
}
