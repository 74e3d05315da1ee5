// Package pass coordinates the scope, type, and initialization analysis
// phases that run over the AST before code generation. Grounded on
// CWBudde-go-dws/internal/semantic/pass.go's Pass/PassManager pair: each
// pass reads and annotates the AST, reports diagnostics into a shared
// Context, and never aborts the run itself — the Manager halts the
// pipeline after any pass that left diagnostics behind.
package pass

import (
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/go-minic/internal/ast"
	"github.com/cwbudde/go-minic/internal/diag"
	"github.com/cwbudde/go-minic/internal/env"
)

// Context is the state shared across every pass: the environment being
// built up (or consulted), the diagnostic reporter every pass appends
// to, and a logger for phase-level tracing.
type Context struct {
	Env      *env.Env
	Reporter *diag.Reporter
	Log      *logrus.Entry
}

// NewContext creates a fresh Context with an empty environment and
// reporter.
func NewContext(log *logrus.Entry) *Context {
	return &Context{
		Env:      env.New(),
		Reporter: diag.NewReporter(),
		Log:      log,
	}
}

// Pass is one semantic analysis phase (scope, type, or initialization
// analysis). A Pass annotates the AST and/or the Context; it must not
// restructure the tree. It returns an error only for an internal fault
// unrelated to the program being compiled — ordinary semantic problems
// are recorded via ctx.Reporter.Report instead.
type Pass interface {
	Name() string
	Run(program ast.Stmt, ctx *Context) error
}

// Manager runs a fixed sequence of passes, halting after the first one
// that leaves diagnostics in the reporter.
type Manager struct {
	passes []Pass
}

// NewManager creates a Manager that will run passes in the given order.
func NewManager(passes ...Pass) *Manager {
	return &Manager{passes: passes}
}

// RunAll executes every registered pass in order. If a pass returns a
// non-nil error the run stops immediately (an internal fault). If a
// pass's Run leaves diagnostics in ctx.Reporter, later passes are
// skipped since they would otherwise operate on an incompletely
// resolved tree.
func (m *Manager) RunAll(program ast.Stmt, ctx *Context) error {
	for _, p := range m.passes {
		if ctx.Log != nil {
			ctx.Log.WithField("pass", p.Name()).Debug("running pass")
		}
		if err := p.Run(program, ctx); err != nil {
			return err
		}
		if ctx.Reporter.HasErrors() {
			break
		}
	}
	return nil
}
