// Command bc2iscas89 translates a BC1.0 Boolean circuit file into an
// ISCAS89 netlist, fully CNF-normalizing first since the format has no
// THRESHOLD/ATLEAST/REF op of its own.
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
	fs := flag.NewFlagSet("bc2iscas89", flag.ExitOnError)
	opts, args, err := cliutil.ParseFlags(fs, os.Args[1:])
	if err != nil {
		cliutil.Fail(1, "%v", err)
	}
	if len(args) != 1 {
		cliutil.Fail(1, "usage: bc2iscas89 [options] input.bc > output.bench")
	}
	inPath := args[0]

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

	c.PushAll()
	if err := c.Normalize(); err != nil {
		cliutil.Fail(cliutil.ExitCodeFor(err), "%v", err)
		return
	}

	if err := dimacs.WriteISCAS89(os.Stdout, c, opts.EmitOptions()); err != nil {
		cliutil.Fail(1, "%v", err)
	}
}
