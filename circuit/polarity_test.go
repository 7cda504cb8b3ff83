package circuit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsJustifiedUndeterminedGateIsFalse(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	g := c.NewAnd(a, b)

	require.False(isJustified(g))
}

func TestIsJustifiedOrTrueWithTrueChild(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	g := c.NewOr(a, b)
	require.NoError(c.ForceTrue(a))
	require.NoError(c.ForceTrue(g))

	require.True(isJustified(g))
}

func TestIsJustifiedAndTrueRequiresEveryChildTrue(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	g := c.NewAnd(a, b)
	require.NoError(c.ForceTrue(a))
	require.NoError(c.ForceTrue(g))

	// b is still undetermined, so the AND's truth does not yet follow
	// from its children alone.
	require.False(isJustified(g))

	require.NoError(c.ForceTrue(b))
	require.True(isJustified(g))
}

func TestIsJustifiedAndFalseWithOneFalseChild(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	g := c.NewAnd(a, b)
	require.NoError(c.ForceFalse(a))
	require.NoError(c.ForceFalse(g))

	require.True(isJustified(g))
}

func TestIsJustifiedOddParity(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	g := c.NewOdd(a, b)
	require.NoError(c.ForceTrue(a))
	require.NoError(c.ForceFalse(b))
	require.NoError(c.ForceTrue(g))

	require.True(isJustified(g))
}

func TestAnalyzePolarityAndPropagatesSamePolarityToChildren(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	g := c.NewAnd(a, b)

	c.AnalyzePolarity(g)

	require.True(g.mirPos)
	require.False(g.mirNeg)
	require.True(a.mirPos)
	require.True(b.mirPos)
	require.False(a.mirNeg)
	require.False(b.mirNeg)
}

func TestAnalyzePolarityNotFlipsPolarity(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	n := c.NewNot(a)

	c.AnalyzePolarity(n)

	require.True(n.mirPos)
	require.True(a.mirNeg)
	require.False(a.mirPos)
}

func TestAnalyzePolarityEquivPropagatesBothPolarities(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	g := c.NewEquiv(a, b)

	c.AnalyzePolarity(g)

	require.True(a.mirPos)
	require.True(a.mirNeg)
	require.True(b.mirPos)
	require.True(b.mirNeg)
}

func TestAnalyzeCircuitPolaritySeedsEveryDeterminedConstraint(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	d := c.NewVar("d")
	g1 := c.NewAnd(a, b)
	g2 := c.NewOr(b, d)
	require.NoError(c.ForceTrue(g1))
	require.NoError(c.ForceTrue(g2))

	c.AnalyzeCircuitPolarity()

	require.True(a.mirPos)
	require.True(b.mirPos)
}
