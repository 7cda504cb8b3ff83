// Command bc2edimacs translates a BC1.0 Boolean circuit file into the
// extended, non-clausal DIMACS form: one line per gate, op-coded, with
// THRESHOLD and ATLEAST kept intact rather than eliminated.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rhuizer/bcsat/circuit"
	"github.com/rhuizer/bcsat/cmd/internal/cliutil"
	"github.com/rhuizer/bcsat/dimacs"
)

func main() {
	fs := flag.NewFlagSet("bc2edimacs", flag.ExitOnError)
	opts, args, err := cliutil.ParseFlags(fs, os.Args[1:])
	if err != nil {
		cliutil.Fail(1, "%v", err)
	}
	if len(args) != 2 {
		cliutil.Fail(1, "usage: bc2edimacs [options] input.bc output.edimacs")
	}
	inPath, outPath := args[0], args[1]

	c, _, err := cliutil.Load(inPath, opts)
	if err != nil {
		cliutil.Fail(cliutil.ExitCodeFor(err), "%v", err)
		return
	}

	if opts.PrintInputs {
		for _, g := range c.Gates() {
			if g.Kind() == circuit.Var {
				fmt.Println(g.Name())
			}
		}
		return
	}

	out, cerr := os.Create(outPath)
	if cerr != nil {
		cliutil.Fail(1, "could not create %q: %v", outPath, cerr)
	}
	defer out.Close()

	if err := dimacs.WriteEDimacs(out, c, opts.EmitOptions()); err != nil {
		cliutil.Fail(1, "could not write %q: %v", outPath, err)
	}
}
