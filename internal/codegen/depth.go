package codegen

import "github.com/cwbudde/go-minic/internal/ast"

// Deep is the default sentinel register-need estimate for expressions
// whose depth is indeterminate or that have side effects, forcing
// strict left-to-right evaluation instead of the deeper-side-first
// strategy. A Generator may override this via config.Options.Deep; see
// Generator.getDepth.
const Deep = 1000

// getDepth estimates, Sethi-Ullman style, how many registers e needs to
// evaluate without spilling. Leaves need one register; a binary node
// needs max(depthLeft, depthRight), or one more than that shared value
// when both children tie; a unary node needs exactly its operand's
// depth, since the result overwrites the operand's register in place.
// Assign is side-effecting and always reports deep, the caller-supplied
// sentinel threshold.
func getDepth(e ast.Expr, deep int) int {
	switch n := e.(type) {
	case *ast.IntLit, *ast.BoolLit, *ast.Id:
		return 1

	case *ast.UnaryOp:
		return getDepth(n.Operand, deep)

	case *ast.BinOp:
		dl := getDepth(n.Left, deep)
		dr := getDepth(n.Right, deep)
		if dl >= deep || dr >= deep {
			return deep
		}
		if dl == dr {
			return dl + 1
		}
		if dl > dr {
			return dl
		}
		return dr

	case *ast.Assign:
		return deep

	default:
		return deep
	}
}
