package circuit

// simplifyThreshold implements the THRESHOLD[lo,hi] rule family of
// spec.md's table, ported from gate.cc's NEW_CARDINALITY_SIMPLIFY branch
// of the tTHRESHOLD case (lines ~1994-2260): absorb determined children
// updating the bounds, then apply the five trivial-case rewrites (lo>hi
// ⇒ FALSE; hi==0 ⇒ ¬OR; lo==|C| ⇒ AND; lo==0∧hi==|C| ⇒ TRUE; lo==0∧
// hi+1==|C| ⇒ ¬AND), and finally the complementary-pair reduction. Cases
// that don't fall into one of these are left for the CNF normalizer
// (normalize.go) as spec.md directs.
//
// This implementation absorbs determined children before checking the
// hi==0 trivial case, where gate.cc checks hi==0 eagerly inside its
// absorption loop (so a threshold already at hi==0 converts before it
// even inspects whether a child is forced true). The two orders agree on
// every well-formed input: if hi==0 and some child is later forced true,
// absorbing first drives lo below 0 relative to hi, which the lo>hi
// trivially-false check below catches just as surely as gate.cc's lazy
// path (which instead folds the true child into an OR that gate.cc's own
// later OR-simplification collapses to TRUE, surfacing the same
// contradiction one step later).
func (c *Circuit) simplifyThreshold(g *Gate) error {
	lo, hi := g.tmin, g.tmax
	if lo > hi {
		return c.becomeConstAndDelete(g, false)
	}
	var kept []*Gate
	for _, ch := range g.children() {
		if !ch.determined {
			kept = append(kept, ch)
			continue
		}
		c.push(ch)
		if ch.value {
			if lo > 0 {
				lo--
			}
			hi--
		}
	}
	n := len(kept)
	if lo > hi || lo > n {
		return c.becomeConstAndDelete(g, false)
	}
	if hi > n {
		hi = n
	}
	if n == 0 {
		return c.becomeConstAndDelete(g, true) // lo==0 && hi==0 here
	}
	c.rebuildChildren(g, kept)
	switch {
	case hi == 0:
		return c.rewriteThresholdAs(g, Not, Or, kept)
	case lo == n:
		g.kind, g.tmin, g.tmax = And, 0, 0
		c.push(g)
		return nil
	case lo == 0 && hi == n:
		return c.becomeConstAndDelete(g, true)
	case lo == 0 && hi+1 == n:
		return c.rewriteThresholdAs(g, Not, And, kept)
	}
	g.tmin, g.tmax = lo, hi
	if c.removeCardinalityComplementPair(g) {
		c.push(g)
		return nil
	}
	return nil
}

// rewriteThresholdAs turns g into NOT(inner(children...)), e.g. ¬OR or
// ¬AND, reusing g's own node as the NOT so its index/parents/handles need
// no migration.
func (c *Circuit) rewriteThresholdAs(g *Gate, outer, inner Kind, kept []*Gate) error {
	g.removeAllChildren()
	var innerGate *Gate
	if inner == Or {
		innerGate = c.NewOr(kept...)
	} else {
		innerGate = c.NewAnd(kept...)
	}
	g.kind, g.tmin, g.tmax = outer, 0, 0
	g.addChild(innerGate)
	c.push(g)
	c.push(innerGate)
	return nil
}

// removeCardinalityComplementPair scans g's children for a complementary pair
// x,¬x and, if found, removes both and decrements tmin/tmax by one
// (clamped at 0 for tmin), since exactly one of the pair always
// contributes to the true count. Ported from gate.cc's
// remove_cardinality_g_not_g.
func (c *Circuit) removeCardinalityComplementPair(g *Gate) bool {
	children := g.children()
	i, j := findComplementaryPair(children)
	if i < 0 {
		return false
	}
	var kept []*Gate
	for idx, ch := range children {
		if idx != i && idx != j {
			kept = append(kept, ch)
		} else {
			c.push(ch)
		}
	}
	c.rebuildChildren(g, kept)
	if g.tmin > 0 {
		g.tmin--
	}
	g.tmax--
	return true
}

// simplifyAtleast implements the ATLEAST k rule family of spec.md's
// table, ported from gate.cc's tATLEAST case: absorb determined children
// (each TRUE child decrements k, each FALSE child is dropped), then
// k==0⇒TRUE, k>|undetermined|⇒FALSE, k==|undetermined|⇒AND. The
// complementary-pair reduction analogous to THRESHOLD's is intentionally
// left unimplemented: gate.cc itself comments out
// remove_atleast_g_not_g, and spec.md §9 directs a port to preserve that
// conservative behaviour rather than guess at why.
func (c *Circuit) simplifyAtleast(g *Gate) error {
	k := g.tmin
	var kept []*Gate
	for _, ch := range g.children() {
		if !ch.determined {
			kept = append(kept, ch)
			continue
		}
		c.push(ch)
		if ch.value && k > 0 {
			k--
		}
	}
	if k == 0 {
		return c.becomeConstAndDelete(g, true)
	}
	n := len(kept)
	if k > n {
		return c.becomeConstAndDelete(g, false)
	}
	c.rebuildChildren(g, kept)
	if k == n {
		g.kind, g.tmin, g.tmax = And, 0, 0
		c.push(g)
		return nil
	}
	if k == 1 {
		g.kind, g.tmin, g.tmax = Or, 0, 0
		c.push(g)
		return nil
	}
	g.tmin = k
	return nil
}
