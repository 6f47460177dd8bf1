package cli

import (
	"flag"
	"time"
)

// Flags is the subset of flag.FlagSet config structs register themselves
// with, so commands can share them or use their own set.
type Flags interface {
	StringVar(*string, string, string, string)
	IntVar(*int, string, int, string)
	BoolVar(*bool, string, bool, string)
	Float64Var(*float64, string, float64, string)
	DurationVar(*time.Duration, string, time.Duration, string)
}

// StdFlags registers with flag.CommandLine.
type StdFlags struct{}

var _ Flags = (*flag.FlagSet)(nil)

func (f *StdFlags) StringVar(p *string, name string, defaultValue string, help string) {
	flag.StringVar(p, name, defaultValue, help)
}

func (f *StdFlags) IntVar(p *int, name string, defaultValue int, help string) {
	flag.IntVar(p, name, defaultValue, help)
}

func (f *StdFlags) BoolVar(p *bool, name string, defaultValue bool, help string) {
	flag.BoolVar(p, name, defaultValue, help)
}

func (f *StdFlags) Float64Var(p *float64, name string, defaultValue float64, help string) {
	flag.Float64Var(p, name, defaultValue, help)
}

func (f *StdFlags) DurationVar(p *time.Duration, name string, defaultValue time.Duration, help string) {
	flag.DurationVar(p, name, defaultValue, help)
}
