package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cwbudde/go-minic/internal/config"
)

var (
	// Version is set by build flags.
	Version = "0.1.0-dev"

	noColor    bool
	verbose    bool
	configPath string

	// sessionID identifies one invocation of the driver in its log
	// lines, independent of the process id.
	sessionID = uuid.NewString()

	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:     "minic",
	Short:   "Compiler for the mini imperative language",
	Version: Version,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		setupLogging()
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored diagnostic output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log each compiler pass as it runs")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML options file (default: built-in defaults)")
}

func setupLogging() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	log.WithField("session", sessionID)
}

// wantColor reports whether diagnostics should be colorized: explicit
// --no-color wins, otherwise color is used only when stderr is a
// terminal.
func wantColor() bool {
	if noColor {
		return false
	}
	if !color.NoColor && term.IsTerminal(int(os.Stderr.Fd())) {
		return true
	}
	return false
}

func loadOptions() (config.Options, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}
