package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/go-minic/internal/ast"
	"github.com/cwbudde/go-minic/internal/config"
	"github.com/cwbudde/go-minic/internal/initcheck"
	"github.com/cwbudde/go-minic/internal/pass"
	"github.com/cwbudde/go-minic/internal/scopecheck"
	"github.com/cwbudde/go-minic/internal/sexpr"
	"github.com/cwbudde/go-minic/internal/simplify"
	"github.com/cwbudde/go-minic/internal/typecheck"
)

// readInput reads a program from a file argument, or from stdin if no
// argument was given.
func readInput(args []string) (string, error) {
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}

// analyze parses src and runs it through scope, type, and
// initialization analysis, then simplification if enabled. It returns
// the (possibly rewritten) program and the Context diagnostics were
// collected into.
func analyze(src string, opts config.Options) (ast.Stmt, *pass.Context, error) {
	program, err := sexpr.Parse(src)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing: %w", err)
	}

	ctx := pass.NewContext(log.WithField("session", sessionID))

	passes := []pass.Pass{scopecheck.New(), typecheck.New(), initcheck.New()}
	if opts.SimplifyEnabled() {
		passes = append(passes, simplify.New())
	}

	manager := pass.NewManager(passes...)
	if err := manager.RunAll(program, ctx); err != nil {
		return nil, ctx, fmt.Errorf("internal compiler fault: %w", err)
	}
	return program, ctx, nil
}

func reportDiagnostics(ctx *pass.Context) {
	if ctx.Reporter.HasErrors() {
		fmt.Fprintln(os.Stderr, ctx.Reporter.FormatAll(wantColor()))
	}
}
