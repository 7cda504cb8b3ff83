// Package cliutil holds the option parsing and BC-file loading logic
// shared by the bc2cnf, bc2edimacs and bc2iscas89 drivers, so each main
// package is left with only the concerns specific to its output format.
package cliutil

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/rhuizer/bcsat/bc"
	"github.com/rhuizer/bcsat/circuit"
	"github.com/rhuizer/bcsat/diag"
)

// Options is the flag set every driver exposes, per spec.md §6.
type Options struct {
	Verbose     bool
	NoSimplify  bool
	NoCOI       bool
	NoTS        bool
	PolarityCNF bool
	PermuteSeed *uint64
	All         bool
	NoSolution  bool
	PrintInputs bool
}

// ParseFlags registers the shared flag set on fs and parses args (normally
// os.Args[1:]). It returns the parsed options and fs.Args(), the remaining
// positional arguments (input file, and for bc2cnf/bc2edimacs, an output
// file).
func ParseFlags(fs *flag.FlagSet, args []string) (*Options, []string, error) {
	var opts Options
	var permute string

	fs.BoolVar(&opts.Verbose, "v", false, "verbose diagnostics")
	fs.BoolVar(&opts.NoSimplify, "nosimplify", false, "skip the fixpoint simplifier")
	fs.BoolVar(&opts.NoCOI, "nocoi", false, "do not prune gates outside the cone of influence")
	fs.BoolVar(&opts.NoTS, "nots", false, "disable NOT-less encoding (give NOT its own variable)")
	fs.BoolVar(&opts.PolarityCNF, "polarity_cnf", false, "restrict clause emission to reached polarities")
	fs.StringVar(&permute, "permute_cnf", "", "seed: permute the final variable numbering")
	fs.BoolVar(&opts.All, "all", false, "preserve all solutions rather than just satisfiability")
	fs.BoolVar(&opts.NoSolution, "nosolution", false, "do not print a discovered solution")
	fs.BoolVar(&opts.PrintInputs, "print_inputs", false, "print the input-variable name table and exit")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	if permute != "" {
		seed, err := strconv.ParseUint(permute, 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid -permute_cnf seed %q: %v", permute, err)
		}
		opts.PermuteSeed = &seed
	}

	return &opts, fs.Args(), nil
}

// EmitOptions translates the shared flag set into circuit.EmitOptions.
func (o *Options) EmitOptions() circuit.EmitOptions {
	return circuit.EmitOptions{
		COI:         !o.NoCOI,
		NotLess:     !o.NoTS,
		Polarity:    o.PolarityCNF,
		PermuteSeed: o.PermuteSeed,
	}
}

// Load opens path, parses it as a BC file, applies its ASSIGN statements
// as forced constraints, and runs the fixpoint simplifier unless
// -nosimplify was given. It does not run the CNF normalizer — a caller
// that needs the fully CNF-normalized form (bc2cnf, bc2iscas89) must call
// c.PushAll() and c.Normalize() itself once Load returns, since bc2edimacs
// deliberately skips that step to keep THRESHOLD/ATLEAST intact.
func Load(path string, opts *Options) (*circuit.Circuit, *bc.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &circuit.IOError{Path: path, Err: err}
	}
	defer f.Close()

	d := diag.Silent()
	if opts.Verbose {
		d = diag.NewVerbose()
	}
	res, err := bc.ParseWithDiag(f, path, d)
	if err != nil {
		return nil, nil, err
	}

	c := res.Circuit
	if opts.All {
		c.MayTransformInputGates = false
		c.PreserveAllSolutions = true
	}

	for _, g := range res.AssignedTrue {
		if err := c.ForceTrue(g); err != nil {
			return c, res, err
		}
	}
	for _, g := range res.AssignedFalse {
		if err := c.ForceFalse(g); err != nil {
			return c, res, err
		}
	}

	c.PushAll()
	if !opts.NoSimplify {
		if err := c.Simplify(false); err != nil {
			return c, res, err
		}
	}
	return c, res, nil
}

// Fail prints a usage-style error and exits with the given code. Exit
// codes follow spec.md §6 as adapted in SPEC_FULL §6: 0 success, 1
// usage/IO error, 2 parse failure (Go's os.Exit cannot carry the
// original's negative "-1").
func Fail(code int, format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(code)
}

// ExitCodeFor maps an error returned by Load or a translation step to the
// process exit code spec.md §6 names for it.
func ExitCodeFor(err error) int {
	if _, ok := err.(*circuit.ParseError); ok {
		return 2
	}
	if _, ok := err.(*circuit.IOError); ok {
		return 1
	}
	if _, ok := err.(*circuit.Inconsistency); ok {
		return 0 // a proven-UNSAT instance is a successful run, not a failure
	}
	return 1
}
