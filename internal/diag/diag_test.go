package diag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cwbudde/go-minic/internal/diag"
	"github.com/cwbudde/go-minic/internal/token"
)

func TestReporterAccumulatesInOrder(t *testing.T) {
	r := diag.NewReporter()
	assert.False(t, r.HasErrors())

	r.Report(diag.DuplicateDecl, token.Position{Line: 1, Column: 1}, "first")
	r.Report(diag.UndeclaredId, token.Position{Line: 2, Column: 1}, "second")

	assert.True(t, r.HasErrors())
	errs := r.Errors()
	assert.Len(t, errs, 2)
	assert.Equal(t, diag.DuplicateDecl, errs[0].Code)
	assert.Equal(t, diag.UndeclaredId, errs[1].Code)
}

func TestFormatAllJoinsWithNewlines(t *testing.T) {
	r := diag.NewReporter()
	r.Report(diag.TypeMismatch, token.Position{Line: 3, Column: 4}, "bad type")
	out := r.FormatAll(false)
	assert.Contains(t, out, "TypeMismatch")
	assert.Contains(t, out, "3:4")
	assert.Contains(t, out, "bad type")
}

func TestFormatAllEmptyReporterReturnsEmptyString(t *testing.T) {
	r := diag.NewReporter()
	assert.Equal(t, "", r.FormatAll(false))
}

func TestErrorSatisfiesErrorInterface(t *testing.T) {
	var err error = diag.New(diag.InternalError, token.NoPos, "boom %d", 42)
	assert.Contains(t, err.Error(), "boom 42")
}
