package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Run scope, type, and initialization analysis without generating code",
	Long: `Check reads an s-expression program, runs scope analysis, type
analysis, and initialization analysis, and reports any diagnostics.
Nothing is generated; this is the same front half compile and dump-ast
run before doing their own work.

Examples:
  minic check program.minisexp
  minic check < program.minisexp`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, args []string) error {
	src, err := readInput(args)
	if err != nil {
		return err
	}

	opts, err := loadOptions()
	if err != nil {
		return err
	}

	_, ctx, err := analyze(src, opts)
	if err != nil {
		return err
	}

	reportDiagnostics(ctx)
	if ctx.Reporter.HasErrors() {
		return fmt.Errorf("check failed with %d diagnostic(s)", len(ctx.Reporter.Errors()))
	}
	fmt.Fprintln(os.Stdout, "ok")
	return nil
}
