package simplify_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/go-minic/internal/ast"
	"github.com/cwbudde/go-minic/internal/pass"
	"github.com/cwbudde/go-minic/internal/sexpr"
	"github.com/cwbudde/go-minic/internal/simplify"
	"github.com/cwbudde/go-minic/internal/typecheck"
)

// shape is a structural, exported-fields-only projection of an ast.Expr
// tree. simplify.Expr builds new nodes rather than mutating in place, so
// reflect.DeepEqual on the ast types themselves would compare unexported
// base fields (positions, type pointers) that carry no semantic weight;
// shape strips that down to what cmp.Diff should actually judge equality
// on.
type shape struct {
	Kind        string
	Op          string
	Value       string
	Left, Right *shape
}

func shapeOf(e ast.Expr) *shape {
	switch n := e.(type) {
	case *ast.IntLit:
		return &shape{Kind: "IntLit", Value: fmt.Sprintf("%d", n.Value)}
	case *ast.BoolLit:
		return &shape{Kind: "BoolLit", Value: fmt.Sprintf("%t", n.Value)}
	case *ast.Id:
		return &shape{Kind: "Id", Value: n.Name}
	case *ast.UnaryOp:
		return &shape{Kind: "UnaryOp", Op: n.Op.String(), Left: shapeOf(n.Operand)}
	case *ast.BinOp:
		return &shape{Kind: "BinOp", Op: n.Op.String(), Left: shapeOf(n.Left), Right: shapeOf(n.Right)}
	default:
		panic(fmt.Sprintf("shapeOf: unhandled %T", e))
	}
}

// simplified parses, type-checks (so every literal carries a type),
// then simplifies src's single top-level Print expression and returns
// the simplified expression.
func simplified(t *testing.T, src string) ast.Expr {
	t.Helper()
	p := analyzed(t, src).(*ast.Print)
	return simplify.Expr(p.Exp)
}

// simplifiedBool is like simplified but for a boolean-valued
// expression, which Print cannot carry: src wraps it in a VarDecl of
// type boolean instead.
func simplifiedBool(t *testing.T, src string) ast.Expr {
	t.Helper()
	block := analyzed(t, src).(*ast.Block)
	return simplify.Expr(block.Decls[0].Init)
}

func analyzed(t *testing.T, src string) ast.Stmt {
	t.Helper()
	program, err := sexpr.Parse(src)
	require.NoError(t, err)
	ctx := pass.NewContext(logrus.NewEntry(logrus.New()))
	manager := pass.NewManager(typecheck.New())
	require.NoError(t, manager.RunAll(program, ctx))
	require.False(t, ctx.Reporter.HasErrors())
	return program
}

func intLit(t *testing.T, e ast.Expr) int32 {
	t.Helper()
	lit, ok := e.(*ast.IntLit)
	require.True(t, ok, "expected *ast.IntLit, got %T", e)
	return lit.Value
}

func TestConstantFolding(t *testing.T) {
	assert.EqualValues(t, 7, intLit(t, simplified(t, `(print (+ 3 4))`)))
	assert.EqualValues(t, 12, intLit(t, simplified(t, `(print (* 3 4))`)))
	assert.EqualValues(t, -1, intLit(t, simplified(t, `(print (- 3 4))`)))
	assert.EqualValues(t, 0, intLit(t, simplified(t, `(print (& 3 4))`)))
	assert.EqualValues(t, 7, intLit(t, simplified(t, `(print (| 3 4))`)))
	assert.EqualValues(t, 7, intLit(t, simplified(t, `(print (^ 3 4))`)))
}

func TestAddIdentity(t *testing.T) {
	e := simplified(t, `(print (+ x 0))`)
	id, ok := e.(*ast.Id)
	require.True(t, ok)
	assert.Equal(t, "x", id.Name)
}

func TestMulIdentityAndAbsorption(t *testing.T) {
	assert.Equal(t, "x", nameOf(t, simplified(t, `(print (* x 1))`)))
	assert.EqualValues(t, 0, intLit(t, simplified(t, `(print (* x 0))`)))
}

func TestBAndAndBOrAbsorption(t *testing.T) {
	assert.Equal(t, "x", nameOf(t, simplified(t, `(print (& x -1))`)))
	assert.EqualValues(t, 0, intLit(t, simplified(t, `(print (& x 0))`)))
	assert.EqualValues(t, -1, intLit(t, simplified(t, `(print (| x -1))`)))
	assert.Equal(t, "x", nameOf(t, simplified(t, `(print (| x 0))`)))
}

func TestBXorNegativeOneBecomesBNot(t *testing.T) {
	e := simplified(t, `(print (^ x -1))`)
	u, ok := e.(*ast.UnaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.BNot, u.Op)
}

func TestReassociatesAddAndMulWithLiteralOnLeft(t *testing.T) {
	e := simplified(t, `(print (+ (+ x 2) 3))`)
	bin, ok := e.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, ast.Add, bin.Op)
	assert.Equal(t, "x", nameOf(t, bin.Left))
	assert.EqualValues(t, 5, intLit(t, bin.Right))

	e = simplified(t, `(print (* (* x 2) 3))`)
	bin, ok = e.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, ast.Mul, bin.Op)
	assert.Equal(t, "x", nameOf(t, bin.Left))
	assert.EqualValues(t, 6, intLit(t, bin.Right))
}

func TestDoubleNegationCancels(t *testing.T) {
	assert.Equal(t, "x", nameOf(t, simplified(t, `(print (neg (neg x)))`)))
	assert.Equal(t, "x", nameOf(t, simplified(t, `(print (~ (~ x)))`)))
}

func TestConstantMigratesToTheRightBeforeFolding(t *testing.T) {
	e := simplified(t, `(print (+ 5 x))`)
	bin, ok := e.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, "x", nameOf(t, bin.Left))
	assert.EqualValues(t, 5, intLit(t, bin.Right))
}

func TestRelationalFoldingOnLiterals(t *testing.T) {
	boolLit := func(e ast.Expr) bool {
		lit, ok := e.(*ast.BoolLit)
		require.True(t, ok)
		return lit.Value
	}
	assert.True(t, boolLit(simplifiedBool(t, `(block ((vardecl ok boolean (< 1 2)))(print 0))`)))
	assert.False(t, boolLit(simplifiedBool(t, `(block ((vardecl ok boolean (>= 1 2)))(print 0))`)))
}

func TestSimplifyIsAFixedPointOnItsOwnOutput(t *testing.T) {
	// (x + 2) + 3 re-associates and folds to x + 5; simplifying that
	// result again must not change its shape any further.
	once := simplified(t, `(print (+ (+ x 2) 3))`)
	twice := simplify.Expr(once)
	if diff := cmp.Diff(shapeOf(once), shapeOf(twice)); diff != "" {
		t.Errorf("simplify is not idempotent on its own output (-once +twice):\n%s", diff)
	}
}

func TestDifferentlyWrittenEquivalentExpressionsSimplifyToTheSameShape(t *testing.T) {
	a := simplified(t, `(print (+ (+ x 2) 3))`)
	b := simplified(t, `(print (+ 5 x))`)
	if diff := cmp.Diff(shapeOf(a), shapeOf(b)); diff != "" {
		t.Errorf("expected both forms to simplify to the same shape (-a +b):\n%s", diff)
	}
}

func nameOf(t *testing.T, e ast.Expr) string {
	t.Helper()
	id, ok := e.(*ast.Id)
	require.True(t, ok, "expected *ast.Id, got %T", e)
	return id.Name
}
