// Package config loads driver-level compiler options from a YAML file:
// which optimization passes to run and overrides for the code
// generator's register-file size and spill-depth sentinel. Grounded on
// funvibe-funxy's internal/ext/config.go — LoadConfig/ParseConfig
// reading a YAML file into a struct, validating it, then filling
// defaults — adapted from its dependency-binding schema to the mini
// compiler's much smaller options surface.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/go-minic/internal/emitter"
)

// Options are the tunables a compilation run can override. Every field
// has a zero value meaning "use the built-in default"; setDefaults fills
// them in after parsing.
type Options struct {
	// Simplify toggles the algebraic simplification pass. Defaults to
	// true; set to false to inspect un-simplified codegen output.
	Simplify *bool `yaml:"simplify,omitempty"`

	// NREGS overrides the number of general-purpose registers the code
	// generator may address before spilling. Defaults to 4.
	NREGS int `yaml:"nregs,omitempty"`

	// Deep overrides the sentinel register-need depth used for
	// side-effecting or opaque expressions. Defaults to 1000.
	Deep int `yaml:"deep,omitempty"`
}

const (
	defaultNREGS = 4
	defaultDeep  = 1000
)

// Default returns the built-in option set used when no config file is
// given.
func Default() Options {
	simplify := true
	return Options{Simplify: &simplify, NREGS: defaultNREGS, Deep: defaultDeep}
}

// Load reads and parses a YAML options file at path.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses YAML option bytes, validates them, and fills in
// defaults for anything left unset.
func Parse(data []byte) (Options, error) {
	opts := Default()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := opts.validate(); err != nil {
		return Options{}, err
	}
	opts.setDefaults()
	return opts, nil
}

func (o *Options) validate() error {
	if o.NREGS < 0 {
		return fmt.Errorf("nregs must be non-negative, got %d", o.NREGS)
	}
	// 0 means "unset, use the default"; anything above the emitter's
	// physical register file cannot be honored, since codegen addresses
	// registers by index into that fixed-size array.
	if o.NREGS > emitter.NREGS {
		return fmt.Errorf("nregs must be at most %d (the number of physical registers), got %d", emitter.NREGS, o.NREGS)
	}
	if o.Deep < 0 {
		return fmt.Errorf("deep must be non-negative, got %d", o.Deep)
	}
	return nil
}

func (o *Options) setDefaults() {
	if o.Simplify == nil {
		simplify := true
		o.Simplify = &simplify
	}
	if o.NREGS == 0 {
		o.NREGS = defaultNREGS
	}
	if o.Deep == 0 {
		o.Deep = defaultDeep
	}
}

// SimplifyEnabled reports whether the simplification pass should run.
func (o Options) SimplifyEnabled() bool {
	return o.Simplify == nil || *o.Simplify
}
