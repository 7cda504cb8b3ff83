package circuit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvaluateAndOr(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	require.NoError(c.ForceTrue(a))
	require.NoError(c.ForceFalse(b))

	and := c.NewAnd(a, b)
	or := c.NewOr(a, b)

	v, err := c.Evaluate(and)
	require.NoError(err)
	require.False(v)

	v, err = c.Evaluate(or)
	require.NoError(err)
	require.True(v)
}

func TestEvaluateEquivOddEven(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	d := c.NewVar("d")
	require.NoError(c.ForceTrue(a))
	require.NoError(c.ForceTrue(b))
	require.NoError(c.ForceFalse(d))

	equivAB := c.NewEquiv(a, b)
	equivAD := c.NewEquiv(a, d)
	odd := c.NewOdd(a, b, d)
	even := c.NewEven(a, b, d)

	v, err := c.Evaluate(equivAB)
	require.NoError(err)
	require.True(v) // both true

	v, err = c.Evaluate(equivAD)
	require.NoError(err)
	require.False(v) // one true, one false

	v, err = c.Evaluate(odd)
	require.NoError(err)
	require.False(v) // two trues among three ⇒ even parity

	v, err = c.Evaluate(even)
	require.NoError(err)
	require.True(v)
}

func TestEvaluateIte(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	cond := c.NewVar("cond")
	then := c.NewVar("then")
	els := c.NewVar("els")
	require.NoError(c.ForceTrue(cond))
	require.NoError(c.ForceFalse(then))
	require.NoError(c.ForceTrue(els))

	ite := c.NewIte(cond, then, els)
	v, err := c.Evaluate(ite)
	require.NoError(err)
	require.False(v) // cond true ⇒ selects `then`
}

func TestEvaluateThresholdAndAtleast(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	d := c.NewVar("d")
	require.NoError(c.ForceTrue(a))
	require.NoError(c.ForceTrue(b))
	require.NoError(c.ForceFalse(d))

	threshold := c.NewThreshold(1, 2, a, b, d)
	atleast := c.NewAtleast(2, a, b, d)

	v, err := c.Evaluate(threshold)
	require.NoError(err)
	require.True(v) // 2 trues, within [1,2]

	v, err = c.Evaluate(atleast)
	require.NoError(err)
	require.True(v) // 2 trues ≥ k=2
}

func TestEvaluateUndeterminedVarErrors(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	require.NoError(c.ForceTrue(a))
	and := c.NewAnd(a, b) // b never forced

	_, err := c.Evaluate(and)
	require.Error(err)
	var undet *UndeterminedError
	require.ErrorAs(err, &undet)
	require.Equal(b, undet.Gate)
}

// Once every child of a multi-child gate is already determined,
// Simplify's fast path folds it straight to a literal in one step rather
// than waiting on the per-kind rule's incremental child absorption.
func TestSimplifyFoldsFullyDeterminedGate(t *testing.T) {
	require := require.New(t)

	c := New(nil)
	a := c.NewVar("a")
	b := c.NewVar("b")
	d := c.NewVar("d")
	require.NoError(c.ForceTrue(a))
	require.NoError(c.ForceTrue(b))
	require.NoError(c.ForceFalse(d))

	g := c.NewThreshold(1, 2, a, b, d)
	g.addHandle("g")

	simplifyToFixpoint(t, c)

	require.Equal(True, g.Kind())
}
