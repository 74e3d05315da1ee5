package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-minic/internal/ast"
)

var dumpASTCmd = &cobra.Command{
	Use:   "dump-ast [file]",
	Short: "Parse an s-expression program and print its AST",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDumpAST,
}

func init() {
	rootCmd.AddCommand(dumpASTCmd)
}

func runDumpAST(_ *cobra.Command, args []string) error {
	src, err := readInput(args)
	if err != nil {
		return err
	}

	opts, err := loadOptions()
	if err != nil {
		return err
	}

	program, ctx, err := analyze(src, opts)
	if err != nil {
		return err
	}
	reportDiagnostics(ctx)

	dumpStmt(program, 0)
	return nil
}

func indentOf(depth int) string {
	return strings.Repeat("  ", depth)
}

func dumpStmt(s ast.Stmt, depth int) {
	pad := indentOf(depth)
	switch n := s.(type) {
	case *ast.Seq:
		fmt.Printf("%sSeq\n", pad)
		dumpStmt(n.First, depth+1)
		dumpStmt(n.Rest, depth+1)

	case *ast.If:
		fmt.Printf("%sIf\n", pad)
		fmt.Printf("%s  Test:\n", pad)
		dumpExpr(n.Test, depth+2)
		fmt.Printf("%s  Then:\n", pad)
		dumpStmt(n.Then, depth+2)
		if n.Else != nil {
			fmt.Printf("%s  Else:\n", pad)
			dumpStmt(n.Else, depth+2)
		}

	case *ast.While:
		fmt.Printf("%sWhile\n", pad)
		fmt.Printf("%s  Test:\n", pad)
		dumpExpr(n.Test, depth+2)
		fmt.Printf("%s  Body:\n", pad)
		dumpStmt(n.Body, depth+2)

	case *ast.Print:
		fmt.Printf("%sPrint\n", pad)
		dumpExpr(n.Exp, depth+1)

	case *ast.ExprStmt:
		fmt.Printf("%sExprStmt\n", pad)
		dumpExpr(n.Exp, depth+1)

	case *ast.VarDecl:
		fmt.Printf("%sVarDecl %s: %s\n", pad, n.Name, n.TypeName)
		if n.Init != nil {
			dumpExpr(n.Init, depth+1)
		}

	case *ast.Block:
		fmt.Printf("%sBlock (%d decls)\n", pad, len(n.Decls))
		for _, decl := range n.Decls {
			dumpStmt(decl, depth+1)
		}
		if n.Body != nil {
			dumpStmt(n.Body, depth+1)
		}

	default:
		fmt.Printf("%s%T: %v\n", pad, s, s)
	}
}

func dumpExpr(e ast.Expr, depth int) {
	pad := indentOf(depth)
	switch n := e.(type) {
	case *ast.IntLit:
		fmt.Printf("%sIntLit %d : %s\n", pad, n.Value, n.Type())

	case *ast.BoolLit:
		fmt.Printf("%sBoolLit %v : %s\n", pad, n.Value, n.Type())

	case *ast.Id:
		fmt.Printf("%sId %s : %s\n", pad, n.Name, n.Type())

	case *ast.BinOp:
		fmt.Printf("%sBinOp %s : %s\n", pad, n.Op, n.Type())
		dumpExpr(n.Left, depth+1)
		dumpExpr(n.Right, depth+1)

	case *ast.UnaryOp:
		fmt.Printf("%sUnaryOp %s : %s\n", pad, n.Op, n.Type())
		dumpExpr(n.Operand, depth+1)

	case *ast.Assign:
		fmt.Printf("%sAssign %s : %s\n", pad, n.LHS.Name, n.Type())
		dumpExpr(n.RHS, depth+1)

	default:
		fmt.Printf("%s%T: %v\n", pad, e, e)
	}
}
