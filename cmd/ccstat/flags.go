package main

import (
	"flag"
	"fmt"
	"strconv"
)

// cliOptions holds the parsed command-line flags for the ccstat demo.
type cliOptions struct {
	Nodes     int
	Cycles    int
	Threshold uint64
	Verbosity int
}

// flagSet wraps flag.FlagSet to add support for uint64 flags.
type flagSet struct {
	*flag.FlagSet
}

func newCustomFlagSet(name string) *flagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	return &flagSet{FlagSet: fs}
}

func (fs *flagSet) Uint64Var(p *uint64, name string, value uint64, usage string) {
	fs.FlagSet.Var(&uint64Value{p: p}, name, usage)
	*p = value
}

type uint64Value struct {
	p *uint64
}

func (v *uint64Value) String() string {
	if v.p == nil {
		return "0"
	}
	return strconv.FormatUint(*v.p, 10)
}

func (v *uint64Value) Set(s string) error {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid uint64 value %q", s)
	}
	*v.p = n
	return nil
}

// parseFlags parses args into a cliOptions. exit is true when the caller
// should stop immediately (either -h was given or parsing failed), in
// which case code is the process exit code to return.
func parseFlags(args []string) (opts cliOptions, exit bool, code int) {
	fs := newCustomFlagSet("ccstat")
	fs.IntVar(&opts.Nodes, "nodes", 200, "number of acyclic nodes to allocate")
	fs.IntVar(&opts.Cycles, "cycles", 50, "number of two-node reference cycles to allocate")
	fs.Uint64Var(&opts.Threshold, "threshold", 4096, "engine auto-collection byte threshold")
	fs.IntVar(&opts.Verbosity, "verbosity", 3, "log level 0 (crit) through 5 (trace)")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return opts, true, 0
		}
		return opts, true, 2
	}
	return opts, false, 0
}
