// Command bc2cnf translates a BC1.0 Boolean circuit file into a DIMACS
// CNF file suitable for any DIMACS-consuming SAT solver.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rhuizer/bcsat/circuit"
	"github.com/rhuizer/bcsat/cmd/internal/cliutil"
	"github.com/rhuizer/bcsat/dimacs"
)

func main() {
	fs := flag.NewFlagSet("bc2cnf", flag.ExitOnError)
	opts, args, err := cliutil.ParseFlags(fs, os.Args[1:])
	if err != nil {
		cliutil.Fail(1, "%v", err)
	}
	if len(args) != 2 {
		cliutil.Fail(1, "usage: bc2cnf [options] input.bc output.cnf")
	}
	inPath, outPath := args[0], args[1]

	c, _, err := cliutil.Load(inPath, opts)
	if err != nil {
		writeUnsatOrFail(err, outPath)
		return
	}

	if opts.PrintInputs {
		printInputs(c)
		return
	}

	c.PushAll()
	if err := c.Normalize(); err != nil {
		writeUnsatOrFail(err, outPath)
		return
	}

	cnf := c.Emit(opts.EmitOptions())
	writeCNFFile(outPath, cnf)
}

// writeUnsatOrFail reacts to a parse/load/normalize failure. A proven
// Inconsistency is not a driver failure: the instance was decided UNSAT
// during simplification, so bc2cnf writes the trivial UNSAT body spec.md
// §6 names instead of a translated CNF. Anything else is a real failure,
// reported with the exit code spec.md §6 assigns it.
func writeUnsatOrFail(err error, outPath string) {
	var inc *circuit.Inconsistency
	if errors.As(err, &inc) {
		out, ferr := os.Create(outPath)
		if ferr != nil {
			cliutil.Fail(1, "could not create %q: %v", outPath, ferr)
		}
		defer out.Close()
		if werr := dimacs.WriteTrivialUNSAT(out); werr != nil {
			cliutil.Fail(1, "could not write %q: %v", outPath, werr)
		}
		fmt.Fprintln(os.Stderr, "c instance proven unsatisfiable during simplification")
		return
	}
	cliutil.Fail(cliutil.ExitCodeFor(err), "%v", err)
}

func writeCNFFile(outPath string, cnf *circuit.CNF) {
	out, err := os.Create(outPath)
	if err != nil {
		cliutil.Fail(1, "could not create %q: %v", outPath, err)
	}
	defer out.Close()
	if err := dimacs.WriteCNF(out, cnf); err != nil {
		cliutil.Fail(1, "could not write %q: %v", outPath, err)
	}
}

// printInputs prints the name of every live VAR gate, one per line, the
// translator's -print_inputs mode.
func printInputs(c *circuit.Circuit) {
	for _, g := range c.Gates() {
		if g.Kind() == circuit.Var {
			fmt.Println(g.Name())
		}
	}
}
