package scopecheck_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/go-minic/internal/ast"
	"github.com/cwbudde/go-minic/internal/diag"
	"github.com/cwbudde/go-minic/internal/pass"
	"github.com/cwbudde/go-minic/internal/scopecheck"
	"github.com/cwbudde/go-minic/internal/sexpr"
)

func run(t *testing.T, src string) (ast.Stmt, *pass.Context) {
	t.Helper()
	program, err := sexpr.Parse(src)
	require.NoError(t, err)
	ctx := pass.NewContext(logrus.NewEntry(logrus.New()))
	require.NoError(t, scopecheck.New().Run(program, ctx))
	return program, ctx
}

func TestResolvesDeclaredIdentifier(t *testing.T) {
	program, ctx := run(t, `(seq (vardecl x int 1) (print x))`)
	assert.False(t, ctx.Reporter.HasErrors())

	seq := program.(*ast.Seq)
	p := seq.Rest.(*ast.Print)
	id := p.Exp.(*ast.Id)
	require.NotNil(t, id.Entry)
	assert.Equal(t, "x", id.Entry.Name)
}

func TestDuplicateDeclarationInSameScopeIsReported(t *testing.T) {
	_, ctx := run(t, `(block ((vardecl x int 1) (vardecl x int 2)))`)
	require.True(t, ctx.Reporter.HasErrors())
	assert.Equal(t, diag.DuplicateDecl, ctx.Reporter.Errors()[0].Code)
}

func TestUndeclaredIdentifierIsReported(t *testing.T) {
	_, ctx := run(t, `(print y)`)
	require.True(t, ctx.Reporter.HasErrors())
	assert.Equal(t, diag.UndeclaredId, ctx.Reporter.Errors()[0].Code)
}

func TestShadowingInNestedBlockIsAllowed(t *testing.T) {
	_, ctx := run(t, `(block ((vardecl x int 1))
	                    (block ((vardecl x int 2)) (print x)))`)
	assert.False(t, ctx.Reporter.HasErrors())
}

func TestOuterScopeVisibleFromNestedBlock(t *testing.T) {
	program, ctx := run(t, `(block ((vardecl x int 1)) (block () (print x)))`)
	assert.False(t, ctx.Reporter.HasErrors())

	block := program.(*ast.Block)
	inner := block.Body.(*ast.Block)
	p := inner.Body.(*ast.Print)
	id := p.Exp.(*ast.Id)
	require.NotNil(t, id.Entry)
	assert.Equal(t, "x", id.Entry.Name)
}

func TestDeclarationGoesOutOfScopeAfterBlockExit(t *testing.T) {
	_, ctx := run(t, `(seq (block ((vardecl x int 1)) (print x)) (print x))`)
	require.True(t, ctx.Reporter.HasErrors())
	assert.Equal(t, diag.UndeclaredId, ctx.Reporter.Errors()[0].Code)
}
