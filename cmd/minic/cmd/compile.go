package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-minic/internal/codegen"
)

var compileOutputFile string

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile an s-expression program to IA-32 assembly",
	Long: `Compile reads an s-expression program, runs it through scope,
type, and initialization analysis (and simplification, unless disabled
in the options file), and emits IA-32 AT&T-syntax assembly.

Examples:
  minic compile program.minisexp
  minic compile program.minisexp -o program.s
  minic compile --config options.yaml program.minisexp`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVarP(&compileOutputFile, "output", "o", "", "output file (default: <input>.s, or stdout when reading stdin)")
}

func runCompile(_ *cobra.Command, args []string) error {
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
	if ctx.Reporter.HasErrors() {
		return fmt.Errorf("compile failed with %d diagnostic(s)", len(ctx.Reporter.Errors()))
	}

	gen := codegen.New(opts)
	asm := gen.CompileProgram(program)

	out := compileOutputFile
	if out == "" && len(args) > 0 {
		ext := filepath.Ext(args[0])
		out = strings.TrimSuffix(args[0], ext) + ".s"
	}
	if out == "" {
		fmt.Fprint(os.Stdout, asm)
		return nil
	}
	if err := os.WriteFile(out, []byte(asm), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	if verbose {
		log.WithField("output", out).Info("wrote assembly")
	} else {
		fmt.Printf("wrote %s\n", out)
	}
	return nil
}
