package cliutil

import (
	"flag"
	"testing"

	"github.com/rhuizer/bcsat/circuit"
	"github.com/stretchr/testify/require"
)

func TestParseFlagsDefaults(t *testing.T) {
	require := require.New(t)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	opts, rest, err := ParseFlags(fs, []string{"input.bc"})
	require.NoError(err)
	require.Equal([]string{"input.bc"}, rest)
	require.False(opts.Verbose)
	require.False(opts.NoSimplify)
	require.Nil(opts.PermuteSeed)
}

func TestParseFlagsPermuteSeed(t *testing.T) {
	require := require.New(t)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	opts, _, err := ParseFlags(fs, []string{"-permute_cnf", "42", "input.bc"})
	require.NoError(err)
	require.NotNil(opts.PermuteSeed)
	require.Equal(uint64(42), *opts.PermuteSeed)
}

func TestParseFlagsInvalidPermuteSeed(t *testing.T) {
	require := require.New(t)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	_, _, err := ParseFlags(fs, []string{"-permute_cnf", "not-a-number", "input.bc"})
	require.Error(err)
}

func TestOptionsEmitOptionsNegatesNoFlags(t *testing.T) {
	require := require.New(t)

	o := &Options{NoCOI: true, NoTS: false, PolarityCNF: true}
	eo := o.EmitOptions()

	require.False(eo.COI)
	require.True(eo.NotLess)
	require.True(eo.Polarity)
}

func TestExitCodeForMapsErrorKinds(t *testing.T) {
	require := require.New(t)

	require.Equal(2, ExitCodeFor(&circuit.ParseError{}))
	require.Equal(1, ExitCodeFor(&circuit.IOError{}))
	require.Equal(0, ExitCodeFor(&circuit.Inconsistency{}))
	require.Equal(1, ExitCodeFor(errUnrelated))
}

var errUnrelated = flag.ErrHelp
