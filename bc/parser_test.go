package bc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rhuizer/bcsat/circuit"
)

func mustParse(t *testing.T, src string) *Result {
	t.Helper()
	res, err := Parse(strings.NewReader(src), "test.bc")
	require.NoError(t, err)
	return res
}

func TestParseHeader(t *testing.T) {
	require := require.New(t)

	_, err := Parse(strings.NewReader("BC1.0\n"), "t")
	require.NoError(err)

	_, err = Parse(strings.NewReader("BC2.0\nx := T;\n"), "t")
	require.Error(err)

	_, err = Parse(strings.NewReader("not a header\n"), "t")
	require.Error(err)
}

func TestParseSimpleGates(t *testing.T) {
	require := require.New(t)

	res := mustParse(t, "BC1.0\na := T;\nb := F;\nc := AND(a, b);\nd := a & b;\ne := NOT(a);\nf := ~a;\n")
	require.Equal(circuit.True, res.Circuit.Gate(findHandle(res.Circuit, "a")).Kind())
	require.Equal(circuit.False, res.Circuit.Gate(findHandle(res.Circuit, "b")).Kind())
	require.Equal(circuit.And, res.Circuit.Gate(findHandle(res.Circuit, "c")).Kind())
	require.Equal(circuit.And, res.Circuit.Gate(findHandle(res.Circuit, "d")).Kind())
	require.Equal(circuit.Not, res.Circuit.Gate(findHandle(res.Circuit, "e")).Kind())
	require.Equal(circuit.Not, res.Circuit.Gate(findHandle(res.Circuit, "f")).Kind())
}

func TestParseOperatorSugar(t *testing.T) {
	require := require.New(t)

	res := mustParse(t, "BC1.0\nx := VA;\ny := VB;\nz := x == y;\nw := x => y;\nv := x ^ y;\n")
	require.Equal(circuit.Equiv, res.Circuit.Gate(findHandle(res.Circuit, "z")).Kind())
	wGate := res.Circuit.Gate(findHandle(res.Circuit, "w"))
	require.Equal(circuit.Or, wGate.Kind())
	require.Equal(circuit.Not, wGate.Children()[0].Kind())
	require.Equal(circuit.Odd, res.Circuit.Gate(findHandle(res.Circuit, "v")).Kind())
}

func TestParseForwardReference(t *testing.T) {
	require := require.New(t)

	// b is used before it is defined.
	res := mustParse(t, "BC1.0\na := AND(b, T);\nb := VX;\n")
	aGate := res.Circuit.Gate(findHandle(res.Circuit, "a"))
	require.Equal(circuit.And, aGate.Kind())
	bGate := res.Circuit.Gate(findHandle(res.Circuit, "b"))
	require.Same(bGate, aGate.Children()[0])
}

func TestParseUndefinedNameBecomesFreeVariable(t *testing.T) {
	require := require.New(t)

	res := mustParse(t, "BC1.0\na := AND(never_defined, T);\n")
	aGate := res.Circuit.Gate(findHandle(res.Circuit, "a"))
	require.Equal(circuit.Var, aGate.Children()[0].Kind())
	require.Equal("never_defined", aGate.Children()[0].Name())
}

func TestParseCardinality(t *testing.T) {
	require := require.New(t)

	res := mustParse(t, "BC1.0\nv1:=VA;\nv2:=VB;\nv3:=VC;\nt := [1,2](v1,v2,v3);\na := [2](v1,v2,v3);\n")
	tGate := res.Circuit.Gate(findHandle(res.Circuit, "t"))
	require.Equal(circuit.Threshold, tGate.Kind())
	require.Equal(1, tGate.Tmin())
	require.Equal(2, tGate.Tmax())

	aGate := res.Circuit.Gate(findHandle(res.Circuit, "a"))
	require.Equal(circuit.Atleast, aGate.Kind())
	require.Equal(2, aGate.Tmin())
}

func TestParseAssign(t *testing.T) {
	require := require.New(t)

	res := mustParse(t, "BC1.0\na := VA;\nASSIGN a;\n")
	require.Len(res.AssignedTrue, 1)
	require.Equal(circuit.Var, res.AssignedTrue[0].Kind())
}

func TestParseQuotedIdentifier(t *testing.T) {
	require := require.New(t)

	res := mustParse(t, "BC1.0\n\"my gate\" := VA;\nb := AND(\"my gate\", T);\n")
	g := res.Circuit.Gate(findHandle(res.Circuit, "my gate"))
	require.Equal(circuit.Var, g.Kind())
}

func TestParseIteAndComments(t *testing.T) {
	require := require.New(t)

	res := mustParse(t, "BC1.0\n// a comment\ni := VI;\nt := VT;\ne := VE;\nr := ITE(i, t, e); // trailing\n")
	rGate := res.Circuit.Gate(findHandle(res.Circuit, "r"))
	require.Equal(circuit.Ite, rGate.Kind())
	require.Equal(3, rGate.NumChildren())
}

// findHandle returns the index of the gate carrying the given handle, or
// -1 if none does. Tests use it instead of threading gate pointers
// around, to exercise the circuit's own Handles() accessor.
func findHandle(c *circuit.Circuit, name string) int {
	for i := 0; i < c.NumGates(); i++ {
		g := c.Gate(i)
		if g == nil {
			continue
		}
		for _, h := range g.Handles() {
			if h == name {
				return i
			}
		}
	}
	return -1
}
