// Command minic is the mini-language compiler driver: it reads a
// program written as an s-expression, runs it through scope, type,
// and initialization analysis, optionally simplifies it, and emits
// IA-32 assembly.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-minic/cmd/minic/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
