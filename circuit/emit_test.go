package circuit

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmitDeterminedRootProducesUnitClauseAndDefiningClauses(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	g := c.NewAnd(a, b)
	require.NoError(c.ForceTrue(g))

	cnf := c.Emit(DefaultEmitOptions())

	require.Equal(3, cnf.NumVars)
	require.Len(cnf.Clauses, 4) // 2 (g->a, g->b) + 1 (-g->-a|-b) + 1 unit
	require.Contains(cnf.Clauses, []int{cnf.NumVars})
}

func TestEmitNotLessFoldsNotIntoNegatedLiteral(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	notB := c.NewNot(b)
	g := c.NewAnd(a, notB)
	require.NoError(c.ForceTrue(g))

	cnf := c.Emit(DefaultEmitOptions())

	// notB never receives its own variable under NOT-less encoding: only
	// a, b and g are numbered, so NumVars stays 3 rather than 4.
	require.Equal(3, cnf.NumVars)
	require.Len(cnf.Clauses, 4)
}

func TestEmitPolarityRestrictsToReachedDirection(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	g := c.NewOr(a, b)
	require.NoError(c.ForceTrue(g))

	unrestricted := c.Emit(EmitOptions{COI: true, NotLess: true})
	restricted := c.Emit(EmitOptions{COI: true, NotLess: true, Polarity: true})

	require.Less(len(restricted.Clauses), len(unrestricted.Clauses))
}

func TestEmitCOIPrunesGatesOutsideTheConeOfInfluence(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	g := c.NewAnd(a, b)
	require.NoError(c.ForceTrue(g))

	d := c.NewVar("d")
	e := c.NewVar("e")
	c.NewOr(d, e) // unreferenced, undetermined: outside the cone of influence

	cnf := c.Emit(DefaultEmitOptions())

	require.Equal(3, cnf.NumVars)
}

func TestEmitNoSeedsYieldsEmptyCNF(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	c.NewAnd(a, b) // no handle, no forced value: nothing roots the COI walk

	cnf := c.Emit(DefaultEmitOptions())

	require.Equal(0, cnf.NumVars)
	require.Empty(cnf.Clauses)
}

func TestExportNumberingRestoresScratchOnReset(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	g := c.NewAnd(a, b)
	require.NoError(c.ForceTrue(g))

	_, maxVar, reset := c.ExportNumbering(DefaultEmitOptions())
	require.Equal(3, maxVar)
	require.NotEqual(-1, g.temp)

	reset()
	for _, gate := range c.Gates() {
		require.Equal(-1, gate.temp)
	}
}

func TestExportNumberingPermuteSeedIsABijection(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	vars := make([]*Gate, 5)
	for i := range vars {
		vars[i] = c.NewVar(string(rune('a' + i)))
	}
	g := c.NewAnd(vars...)
	require.NoError(c.ForceTrue(g))

	seed := uint64(42)
	numbered, maxVar, reset := c.ExportNumbering(EmitOptions{COI: true, PermuteSeed: &seed})
	defer reset()

	require.Equal(6, maxVar)
	got := make([]int, 0, len(numbered))
	for _, gate := range numbered {
		got = append(got, gate.temp)
	}
	sort.Ints(got)
	want := make([]int, maxVar)
	for i := range want {
		want[i] = i + 1
	}
	require.Equal(want, got)
}
