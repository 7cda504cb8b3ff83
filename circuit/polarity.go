package circuit

// Polarity analysis implements the monotone input rule of spec.md §4.5:
// before emission, the root constraint is seeded with its required
// polarity and propagated downward so the emitter can skip clauses that
// cover a polarity no parent actually needs. Ported from gate.cc's
// Gate::is_justified (line 4785) and Gate::mir_propagate_polarity
// (line 4934).

// countChildInfo tallies how many of g's direct children are determined
// true, determined false, or still undetermined.
func countChildInfo(g *Gate) (nofTrue, nofFalse, nofUndet int) {
	for _, ch := range g.children() {
		switch {
		case !ch.determined:
			nofUndet++
		case ch.value:
			nofTrue++
		default:
			nofFalse++
		}
	}
	return
}

// isJustified reports whether g's determined value already follows
// necessarily from its children's determined values alone, making further
// polarity propagation into g's subtree pointless — the gate's truth is
// "explained" without needing any particular undetermined child to take a
// particular value.
func isJustified(g *Gate) bool {
	if !g.determined {
		return false
	}
	nofTrue, nofFalse, nofUndet := countChildInfo(g)
	nofChildren := nofTrue + nofFalse + nofUndet

	switch g.kind {
	case True, False, Var:
		return true
	case Not:
		return (g.value && nofFalse > 0) || (!g.value && nofTrue > 0)
	case Equiv:
		if g.value {
			return nofChildren == 1 || nofTrue == nofChildren || nofFalse == nofChildren
		}
		return nofTrue > 0 && nofFalse > 0
	case Or:
		if g.value {
			return nofTrue > 0
		}
		return nofFalse == nofChildren
	case And:
		if !g.value {
			return nofFalse > 0
		}
		return nofTrue == nofChildren
	case Odd:
		if g.value {
			return nofTrue+nofFalse == nofChildren && nofTrue%2 == 1
		}
		return nofTrue+nofFalse == nofChildren && nofTrue%2 == 0
	case Even:
		if g.value {
			return nofTrue+nofFalse == nofChildren && nofTrue%2 == 0
		}
		return nofTrue+nofFalse == nofChildren && nofTrue%2 == 1
	case Ite:
		cond, then, els := g.childAt(0), g.childAt(1), g.childAt(2)
		if g.value {
			if cond.determined && cond.value && then.determined && then.value {
				return true
			}
			if cond.determined && !cond.value && els.determined && els.value {
				return true
			}
			return then.determined && then.value && els.determined && els.value
		}
		if cond.determined && cond.value && then.determined && !then.value {
			return true
		}
		if cond.determined && !cond.value && els.determined && !els.value {
			return true
		}
		return then.determined && !then.value && els.determined && !els.value
	case Threshold:
		if g.value {
			return g.tmin <= nofTrue && nofChildren-nofFalse <= g.tmax
		}
		return nofTrue > g.tmax || nofChildren-nofFalse < g.tmin
	case Atleast:
		if g.value {
			return nofTrue >= g.tmin
		}
		return nofChildren-nofFalse < g.tmin
	}
	panicInternal("isJustified: unhandled kind %s for gate #%d", g.kind, g.index)
	return false
}

// AnalyzePolarity seeds root with the positive polarity and propagates
// downward. Useful when a single gate is known to be the sole asserted
// constraint (e.g. in a test fixture); Emit itself uses
// AnalyzeCircuitPolarity, which seeds every asserted constraint gate in
// the circuit rather than assuming there is exactly one.
func (c *Circuit) AnalyzePolarity(root *Gate) {
	c.propagatePolarity(root, true)
}

// AnalyzeCircuitPolarity seeds every determined, not-yet-justified gate
// with its own required truth value (the same set the emitter's
// cone-of-influence pass treats as constraint roots) and propagates
// downward from each. A circuit built from a BC file's ASSIGN statements
// has no single synthetic top gate; every one of those statements forces
// some gate determined, and each such gate independently must hold at
// its forced value for the whole circuit to be satisfiable.
func (c *Circuit) AnalyzeCircuitPolarity() {
	for _, g := range c.Gates() {
		if g.determined && !isJustified(g) {
			c.propagatePolarity(g, g.value)
		}
	}
}

func (c *Circuit) propagatePolarity(g *Gate, polarity bool) {
	if g.determined {
		if g.value != polarity {
			return
		}
		if isJustified(g) {
			return
		}
	}
	if polarity {
		if g.mirPos {
			return
		}
		g.mirPos = true
	} else {
		if g.mirNeg {
			return
		}
		g.mirNeg = true
	}

	switch g.kind {
	case True, False, Var:
		return
	case Not:
		c.propagatePolarity(g.childAt(0), !polarity)
	case Or, And, Atleast:
		for _, ch := range g.children() {
			c.propagatePolarity(ch, polarity)
		}
	case Equiv:
		for _, ch := range g.children() {
			c.propagatePolarity(ch, polarity)
			c.propagatePolarity(ch, !polarity)
		}
	case Odd:
		nofTrue, _, nofUndet := countChildInfo(g)
		if nofUndet == 1 {
			desired := polarity != (nofTrue%2 == 1)
			for _, ch := range g.children() {
				c.propagatePolarity(ch, desired)
			}
			return
		}
		for _, ch := range g.children() {
			c.propagatePolarity(ch, polarity)
			c.propagatePolarity(ch, !polarity)
		}
	case Even:
		nofTrue, _, nofUndet := countChildInfo(g)
		if nofUndet == 1 {
			desired := polarity != (nofTrue%2 == 0)
			for _, ch := range g.children() {
				c.propagatePolarity(ch, desired)
			}
			return
		}
		for _, ch := range g.children() {
			c.propagatePolarity(ch, polarity)
			c.propagatePolarity(ch, !polarity)
		}
	case Ite:
		cond, then, els := g.childAt(0), g.childAt(1), g.childAt(2)
		c.propagatePolarity(cond, polarity)
		c.propagatePolarity(cond, !polarity)
		c.propagatePolarity(then, polarity)
		c.propagatePolarity(els, polarity)
	case Threshold:
		nofTrue, nofFalse, nofUndet := countChildInfo(g)
		nofChildren := nofTrue + nofFalse + nofUndet
		if polarity {
			if nofTrue >= g.tmin {
				c.propagateAll(g, false)
				return
			}
			if nofTrue < g.tmin && nofChildren-nofFalse <= g.tmax {
				c.propagateAll(g, true)
				return
			}
		} else {
			if nofTrue >= g.tmin {
				c.propagateAll(g, true)
				return
			}
			if nofTrue < g.tmin && nofChildren-nofFalse <= g.tmax {
				c.propagateAll(g, false)
				return
			}
		}
		for _, ch := range g.children() {
			c.propagatePolarity(ch, polarity)
			c.propagatePolarity(ch, !polarity)
		}
	default:
		panicInternal("propagatePolarity: unhandled kind %s for gate #%d", g.kind, g.index)
	}
}

func (c *Circuit) propagateAll(g *Gate, polarity bool) {
	for _, ch := range g.children() {
		c.propagatePolarity(ch, polarity)
	}
}
