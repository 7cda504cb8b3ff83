package circuit

import "fmt"

// UndeterminedError reports that Evaluate reached a VAR with no assigned
// value partway through walking a sub-DAG that was expected to be fully
// determined.
type UndeterminedError struct {
	Gate *Gate
}

func (e *UndeterminedError) Error() string {
	return fmt.Sprintf("cannot evaluate: gate #%d (%s) is an undetermined VAR", e.Gate.index, e.Gate.name)
}

// Evaluate recursively computes g's truth value from its children's
// already-determined values, the same case table as gate.cc's
// Gate::evaluate (REF/NOT copy or invert a single child, EQUIV/OR/AND/
// ODD/EVEN count true and false children, ITE selects a branch,
// THRESHOLD/ATLEAST compare the true count against tmin/tmax). Unlike
// gate.cc's version, which commits the computed value back into every
// gate it visits, Evaluate never mutates the circuit: it is a pure read
// used by tests driving known inputs through a sub-DAG and by the
// simplifier's fast path for a gate whose children are already all
// determined, where it replaces several rounds of per-child absorption
// with a single fold straight to the final value.
//
// A gate already carrying a determined value returns it without looking
// at its children at all, mirroring gate.cc's own short-circuit. Reaching
// an undetermined VAR is the one case Evaluate cannot resolve; it returns
// an *UndeterminedError naming that gate.
func (c *Circuit) Evaluate(g *Gate) (bool, error) {
	if g.determined {
		return g.value, nil
	}
	if g.kind == Var {
		return false, &UndeterminedError{Gate: g}
	}

	children := g.children()
	nofTrue, nofFalse := 0, 0
	values := make([]bool, len(children))
	for i, ch := range children {
		v, err := c.Evaluate(ch)
		if err != nil {
			return false, err
		}
		values[i] = v
		if v {
			nofTrue++
		} else {
			nofFalse++
		}
	}

	switch g.kind {
	case True:
		return true, nil
	case False:
		return false, nil
	case Ref:
		return nofTrue == 1, nil
	case Not:
		return nofTrue == 0, nil
	case Equiv:
		return !(nofTrue > 0 && nofFalse > 0), nil
	case Or:
		return nofTrue > 0, nil
	case And:
		return nofFalse == 0, nil
	case Odd:
		return nofTrue%2 == 1, nil
	case Even:
		return nofTrue%2 == 0, nil
	case Ite:
		if values[0] {
			return values[1], nil
		}
		return values[2], nil
	case Threshold:
		return g.tmin <= nofTrue && nofTrue <= g.tmax, nil
	case Atleast:
		return g.tmin <= nofTrue, nil
	}
	panicInternal("Evaluate: unhandled kind %s for gate #%d", g.kind, g.index)
	return false, nil
}

// allChildrenDetermined reports whether every child edge of g already
// carries a determined value.
func allChildrenDetermined(g *Gate) bool {
	ok := true
	g.eachChildEdge(func(e *childAssoc) {
		if !e.child.determined {
			ok = false
		}
	})
	return ok
}

// evaluableFastPath reports the multi-child arithmetic kinds whose determined-
// child absorption the per-kind simplify rules otherwise do one child at
// a time; REF and NOT already fold their single child unconditionally
// (simplifyRef always merges, simplifyNot propagates without waiting for
// every child) and are left to those rules instead of this fast path.
func evaluableFastPath(kind Kind) bool {
	switch kind {
	case And, Or, Equiv, Odd, Even, Ite, Threshold, Atleast:
		return true
	}
	return false
}

// foldIfFullyDetermined is the simplifier's constant-folding fast path:
// when every child of an otherwise-undetermined multi-child gate is
// already determined, Evaluate settles the final value in one pass and
// the gate collapses straight to a literal TRUE/FALSE, instead of
// waiting for the per-kind rule to absorb determined children one round
// at a time. Returns whether it fired.
func (c *Circuit) foldIfFullyDetermined(g *Gate) (bool, error) {
	if g.determined || g.nchildren == 0 || !evaluableFastPath(g.kind) {
		return false, nil
	}
	if !allChildrenDetermined(g) {
		return false, nil
	}
	v, err := c.Evaluate(g)
	if err != nil {
		return false, err
	}
	return true, c.becomeConstAndDelete(g, v)
}
