package sexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/go-minic/internal/ast"
)

func TestParseSimpleSeq(t *testing.T) {
	src := `(seq (vardecl x int 3) (assign x (+ x 1)) (print x))`
	program, err := Parse(src)
	require.NoError(t, err)

	seq, ok := program.(*ast.Seq)
	require.True(t, ok, "expected top-level Seq, got %T", program)

	decl, ok := seq.First.(*ast.VarDecl)
	require.True(t, ok)
	assert.Equal(t, "x", decl.Name)
	assert.Equal(t, "int", decl.TypeName)

	rest, ok := seq.Rest.(*ast.Seq)
	require.True(t, ok)

	assignStmt, ok := rest.First.(*ast.ExprStmt)
	require.True(t, ok)
	assign, ok := assignStmt.Exp.(*ast.Assign)
	require.True(t, ok)
	assert.Equal(t, "x", assign.LHS.Name)

	_, ok = rest.Rest.(*ast.Print)
	assert.True(t, ok)
}

func TestParseIfWhileAndLogicalOps(t *testing.T) {
	src := `(block ((vardecl n int 0))
	          (while (< n 10)
	            (seq
	              (if (&& (> n 0) (!= n 5)) (print n) (print 0))
	              (assign n (+ n 1)))))`
	program, err := Parse(src)
	require.NoError(t, err)

	block, ok := program.(*ast.Block)
	require.True(t, ok)
	require.Len(t, block.Decls, 1)

	while, ok := block.Body.(*ast.While)
	require.True(t, ok)
	cmp, ok := while.Test.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, ast.Lt, cmp.Op)
}

func TestParseUnaryOperators(t *testing.T) {
	for _, tc := range []struct {
		src string
		op  ast.Operator
	}{
		{`(print (neg 3))`, ast.Neg},
		{`(print (~ 3))`, ast.BNot},
		{`(print (! true))`, ast.LNot},
	} {
		program, err := Parse(tc.src)
		require.NoError(t, err)
		p, ok := program.(*ast.Print)
		require.True(t, ok)
		u, ok := p.Exp.(*ast.UnaryOp)
		require.True(t, ok)
		assert.Equal(t, tc.op, u.Op)
	}
}

func TestParseRejectsUnknownOperator(t *testing.T) {
	_, err := Parse(`(print (% 1 2))`)
	assert.Error(t, err)
}

func TestParseRejectsUnterminatedList(t *testing.T) {
	_, err := Parse(`(print (+ 1 2)`)
	assert.Error(t, err)
}

func TestParseRejectsInvalidAssignTarget(t *testing.T) {
	_, err := Parse(`(assign 3 4)`)
	assert.Error(t, err)
}

func TestParseBooleanAndIntLiterals(t *testing.T) {
	program, err := Parse(`(print 42)`)
	require.NoError(t, err)
	p := program.(*ast.Print)
	lit, ok := p.Exp.(*ast.IntLit)
	require.True(t, ok)
	assert.Equal(t, int32(42), lit.Value)

	program, err = Parse(`(print true)`)
	require.NoError(t, err)
	p = program.(*ast.Print)
	b, ok := p.Exp.(*ast.BoolLit)
	require.True(t, ok)
	assert.True(t, b.Value)
}
