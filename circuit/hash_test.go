package circuit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShareUnifiesStructurallyIdenticalGates(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	g1 := c.NewAnd(a, b)
	g1.addHandle("g1")
	g2 := c.NewAnd(a, b)
	g2.addHandle("g2")

	require.NoError(c.Share())

	require.Equal(Deleted, g2.Kind())
	require.Contains(g1.Handles(), "g1")
	require.Contains(g1.Handles(), "g2")
}

func TestShareCanonicalizesCommutativeChildOrder(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	g1 := c.NewAnd(a, b)
	g1.addHandle("g1")
	g2 := c.NewAnd(b, a)
	g2.addHandle("g2")

	require.NoError(c.Share())

	require.Equal(Deleted, g2.Kind())
	require.Contains(g1.Handles(), "g2")
}

func TestShareLeavesStructurallyDistinctGatesAlone(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	d := c.NewVar("d")
	g1 := c.NewAnd(a, b)
	g2 := c.NewAnd(a, d)

	require.NoError(c.Share())

	require.Equal(And, g1.Kind())
	require.Equal(And, g2.Kind())
}

func TestShareConflictingDeterminedValuesIsInconsistency(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	g1 := c.NewAnd(a, b)
	g2 := c.NewAnd(a, b)
	require.NoError(c.ForceTrue(g1))
	require.NoError(c.ForceFalse(g2))

	err := c.Share()
	require.Error(err)
	var inc *Inconsistency
	require.ErrorAs(err, &inc)
}

func TestShareMigratesDeterminedValueOntoSurvivor(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	g1 := c.NewAnd(a, b)
	g2 := c.NewAnd(a, b)
	require.NoError(c.ForceTrue(g2))

	require.NoError(c.Share())

	require.True(g1.determined)
	require.True(g1.value)
}

func TestHashValueStableAcrossEqualGates(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	g1 := c.NewAnd(a, b)
	g2 := c.NewAnd(a, b)

	require.Equal(hashValue(g1), hashValue(g2))
}

func TestHashValueDiffersForDifferentKinds(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	and := c.NewAnd(a, b)
	or := c.NewOr(a, b)

	require.NotEqual(hashValue(and), hashValue(or))
}

func TestGatesStructurallyEqualRespectsCardinalityBounds(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	t1 := c.NewThreshold(1, 2, a, b)
	t2 := c.NewThreshold(0, 2, a, b)

	require.False(gatesStructurallyEqual(t1, t2))
}
