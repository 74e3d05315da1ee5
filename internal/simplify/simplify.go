// Package simplify implements the algebraic simplifier: a bottom-up
// rewrite that folds constants and applies identity/absorption laws
// before code generation runs. Grounded on CWBudde-go-dws's constant-
// folding optimizer (internal/bytecode/optimizer.go's foldIntegerOp
// family), re-expressed over int32 two's-complement arithmetic with a
// two-level type switch (operator, then simplified-left-subtree shape)
// standing in for the source's per-operator left-side virtual dispatch
// (simpAdd/simpMul/simpBAnd/simpBOr/simpBXor).
package simplify

import (
	"github.com/cwbudde/go-minic/internal/ast"
	"github.com/cwbudde/go-minic/internal/diag"
	"github.com/cwbudde/go-minic/internal/pass"
	"github.com/cwbudde/go-minic/internal/token"
	"github.com/cwbudde/go-minic/internal/types"
)

// Pass rewrites every expression reachable from the program to its
// simplified form, in place.
type Pass struct{}

// New returns the simplification pass.
func New() *Pass { return &Pass{} }

func (*Pass) Name() string { return "simplify" }

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
		n.Test = Expr(n.Test)
		walkStmt(n.Then, ctx)
		if n.Else != nil {
			walkStmt(n.Else, ctx)
		}

	case *ast.While:
		n.Test = Expr(n.Test)
		walkStmt(n.Body, ctx)

	case *ast.Print:
		n.Exp = Expr(n.Exp)

	case *ast.ExprStmt:
		n.Exp = Expr(n.Exp)

	case *ast.VarDecl:
		if n.Init != nil {
			n.Init = Expr(n.Init)
		}

	case *ast.Block:
		for _, decl := range n.Decls {
			walkStmt(decl, ctx)
		}
		if n.Body != nil {
			walkStmt(n.Body, ctx)
		}

	default:
		ctx.Reporter.Report(diag.InternalError, s.Pos(), "simplify: unhandled statement %T", s)
	}
}

// Expr simplifies e bottom-up and returns its replacement. The result
// always carries the same type as e (simplification never changes an
// expression's type).
func Expr(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case *ast.IntLit, *ast.BoolLit, *ast.Id:
		return n

	case *ast.UnaryOp:
		return simplifyUnary(n)

	case *ast.BinOp:
		return simplifyBinary(n)

	case *ast.Assign:
		n.RHS = Expr(n.RHS)
		return n

	default:
		return e
	}
}

func simplifyUnary(n *ast.UnaryOp) ast.Expr {
	operand := Expr(n.Operand)

	switch n.Op {
	case ast.Neg:
		if lit, ok := operand.(*ast.IntLit); ok {
			return withType(ast.NewIntLit(n.Pos(), -lit.Value), n.Type())
		}
		if inner, ok := operand.(*ast.UnaryOp); ok && inner.Op == ast.Neg {
			return inner.Operand // double negation: - - x -> x
		}

	case ast.BNot:
		if lit, ok := operand.(*ast.IntLit); ok {
			return withType(ast.NewIntLit(n.Pos(), ^lit.Value), n.Type())
		}
		if inner, ok := operand.(*ast.UnaryOp); ok && inner.Op == ast.BNot {
			return inner.Operand // double negation: ~ ~ x -> x
		}

	case ast.LNot:
		if lit, ok := operand.(*ast.BoolLit); ok {
			return withType(ast.NewBoolLit(n.Pos(), !lit.Value), n.Type())
		}
		if inner, ok := operand.(*ast.UnaryOp); ok && inner.Op == ast.LNot {
			return inner.Operand
		}
	}

	rebuilt := ast.NewUnaryOp(n.Pos(), n.Op, operand)
	return withType(rebuilt, n.Type())
}

// withType stamps result's type slot with typ and returns result,
// letting every fold/rebuild path share one line instead of repeating
// SetType after each return.
func withType(result ast.Expr, typ *types.Type) ast.Expr {
	result.SetType(typ)
	return result
}

func simplifyBinary(n *ast.BinOp) ast.Expr {
	left := Expr(n.Left)
	right := Expr(n.Right)
	pos := n.Pos()

	switch n.Op {
	case ast.Add, ast.Mul, ast.BAnd, ast.BOr, ast.BXor:
		return simplifyCommutative(n.Op, pos, left, right, n.Type())

	case ast.Sub:
		if li, lok := intValue(left); lok {
			if ri, rok := intValue(right); rok {
				return withType(ast.NewIntLit(pos, li-ri), n.Type())
			}
		}
		return withType(ast.NewBinOp(pos, ast.Sub, left, right), n.Type())

	case ast.Lt, ast.Le, ast.Gt, ast.Ge:
		if li, lok := intValue(left); lok {
			if ri, rok := intValue(right); rok {
				return withType(ast.NewBoolLit(pos, relCompare(n.Op, li, ri)), n.Type())
			}
		}
		return withType(ast.NewBinOp(pos, n.Op, left, right), n.Type())

	case ast.Eq, ast.Neq:
		if li, lok := intValue(left); lok {
			if ri, rok := intValue(right); rok {
				eq := li == ri
				return withType(ast.NewBoolLit(pos, eq == (n.Op == ast.Eq)), n.Type())
			}
		}
		if lb, lok := boolValue(left); lok {
			if rb, rok := boolValue(right); rok {
				eq := lb == rb
				return withType(ast.NewBoolLit(pos, eq == (n.Op == ast.Eq)), n.Type())
			}
		}
		return withType(ast.NewBinOp(pos, n.Op, left, right), n.Type())

	case ast.LAnd, ast.LOr:
		if lb, lok := boolValue(left); lok {
			if rb, rok := boolValue(right); rok {
				var result bool
				if n.Op == ast.LAnd {
					result = lb && rb
				} else {
					result = lb || rb
				}
				return withType(ast.NewBoolLit(pos, result), n.Type())
			}
		}
		return withType(ast.NewBinOp(pos, n.Op, left, right), n.Type())

	default:
		return withType(ast.NewBinOp(pos, n.Op, left, right), n.Type())
	}
}

// simplifyCommutative applies the identity/absorption/re-association
// rules shared by +, *, &, |, ^: constant operands migrate to the right
// by commuting, then the two-level dispatch (op, then simplified-left
// shape) applies the per-operator rule table.
func simplifyCommutative(op ast.Operator, pos token.Position, left, right ast.Expr, typ *types.Type) ast.Expr {
	if _, lok := intValue(left); lok {
		if _, rok := intValue(right); !rok {
			left, right = right, left
		}
	}

	if li, lok := intValue(left); lok {
		if ri, rok := intValue(right); rok {
			return withType(ast.NewIntLit(pos, foldConst(op, li, ri)), typ)
		}
	}

	if ri, rok := intValue(right); rok {
		var result ast.Expr
		switch op {
		case ast.Add:
			result = simpAdd(left, ri, pos)
		case ast.Mul:
			result = simpMul(left, ri, pos)
		case ast.BAnd:
			result = simpBAnd(left, ri, pos)
		case ast.BOr:
			result = simpBOr(left, ri, pos)
		case ast.BXor:
			result = simpBXor(left, ri, pos)
		}
		return withType(result, typ)
	}

	return withType(ast.NewBinOp(pos, op, left, right), typ)
}

// simpAdd implements x + n, including the (x + m) + n -> x + (m + n)
// re-association rule when left is itself an Add with a literal right
// operand.
func simpAdd(left ast.Expr, n int32, pos token.Position) ast.Expr {
	if n == 0 {
		return left
	}
	if inner, ok := left.(*ast.BinOp); ok && inner.Op == ast.Add {
		if m, ok := intValue(inner.Right); ok {
			return simpAdd(inner.Left, m+n, pos)
		}
	}
	return ast.NewBinOp(pos, ast.Add, left, ast.NewIntLit(pos, n))
}

func simpMul(left ast.Expr, n int32, pos token.Position) ast.Expr {
	if n == 1 {
		return left
	}
	if n == 0 {
		return ast.NewIntLit(pos, 0)
	}
	if inner, ok := left.(*ast.BinOp); ok && inner.Op == ast.Mul {
		if m, ok := intValue(inner.Right); ok {
			return simpMul(inner.Left, m*n, pos)
		}
	}
	return ast.NewBinOp(pos, ast.Mul, left, ast.NewIntLit(pos, n))
}

func simpBAnd(left ast.Expr, n int32, pos token.Position) ast.Expr {
	if n == -1 {
		return left
	}
	if n == 0 {
		return ast.NewIntLit(pos, 0)
	}
	return ast.NewBinOp(pos, ast.BAnd, left, ast.NewIntLit(pos, n))
}

func simpBOr(left ast.Expr, n int32, pos token.Position) ast.Expr {
	if n == -1 {
		return ast.NewIntLit(pos, -1)
	}
	if n == 0 {
		return left
	}
	return ast.NewBinOp(pos, ast.BOr, left, ast.NewIntLit(pos, n))
}

func simpBXor(left ast.Expr, n int32, pos token.Position) ast.Expr {
	if n == -1 {
		if inner, ok := left.(*ast.UnaryOp); ok && inner.Op == ast.BNot {
			return inner.Operand // ~x ^ -1 -> ~~x -> x
		}
		return ast.NewUnaryOp(pos, ast.BNot, left)
	}
	if n == 0 {
		return left
	}
	return ast.NewBinOp(pos, ast.BXor, left, ast.NewIntLit(pos, n))
}

func foldConst(op ast.Operator, l, r int32) int32 {
	switch op {
	case ast.Add:
		return l + r
	case ast.Mul:
		return l * r
	case ast.BAnd:
		return l & r
	case ast.BOr:
		return l | r
	case ast.BXor:
		return l ^ r
	default:
		return 0
	}
}

func relCompare(op ast.Operator, l, r int32) bool {
	switch op {
	case ast.Lt:
		return l < r
	case ast.Le:
		return l <= r
	case ast.Gt:
		return l > r
	case ast.Ge:
		return l >= r
	default:
		return false
	}
}

func intValue(e ast.Expr) (int32, bool) {
	if lit, ok := e.(*ast.IntLit); ok {
		return lit.Value, true
	}
	return 0, false
}

func boolValue(e ast.Expr) (bool, bool) {
	if lit, ok := e.(*ast.BoolLit); ok {
		return lit.Value, true
	}
	return false, false
}
