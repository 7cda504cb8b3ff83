package circuit

// simplifyOddEven implements the ODD/EVEN rule family of spec.md's table,
// ported from gate.cc's tODD/tEVEN case (lines ~1447-1740): absorb
// determined children by flipping kind on every TRUE one, collapse to a
// constant or REF/NOT at arity 0/1, absorb NOT children by flipping kind,
// remove parity-cancelling duplicate pairs, derive an
// equivalence/inequivalence between the two children when exactly two
// remain and the gate's own value is known, and the ODD(x,OR(x,...))
// rewrite. odd is true iff g's kind is currently Odd.
func (c *Circuit) simplifyOddEven(g *Gate, odd bool) error {
	// Absorb determined children: each TRUE child flips parity and is
	// dropped; each FALSE child is simply dropped.
	var kept []*Gate
	for _, ch := range g.children() {
		if !ch.determined {
			kept = append(kept, ch)
			continue
		}
		if ch.value {
			odd = !odd
		}
		c.push(ch)
	}
	if len(kept) != g.nchildren {
		c.rebuildChildren(g, kept)
		c.setOddEvenKind(g, odd)
		c.push(g)
		return nil
	}

	switch len(kept) {
	case 0:
		// ODD() = FALSE, EVEN() = TRUE.
		return c.becomeConstAndDelete(g, !odd)
	case 1:
		c.setOddEvenKind(g, odd)
		if odd {
			return c.mergeGateInto(g, kept[0]) // ODD(x) == x
		}
		repl := c.NewNot(kept[0])
		return c.mergeGateInto(g, repl) // EVEN(x) == ¬x
	}

	// Absorb NOT children: ODD(¬x,...) == EVEN(x,...) and vice versa.
	absorbedNot := false
	for _, e := range collectChildEdges(g) {
		if e.child.kind == Not {
			grandchild := e.child.childAt(0)
			notGate := e.child
			e.changeChild(grandchild)
			c.push(notGate)
			if grandchild.determined {
				absorbedNot = true // restart once determined children resurface
			}
			odd = !odd
		}
	}
	c.setOddEvenKind(g, odd)
	if absorbedNot {
		c.push(g)
		return nil
	}

	if c.dedupParityPairs(g) {
		c.push(g)
		return nil
	}

	children := g.children()
	if len(children) == 2 && g.determined {
		if (!odd && g.value) || (odd && !g.value) {
			return c.unifyEquivalentPair(g, children[0], children[1], g.value)
		}
		if (!odd && !g.value) || (odd && g.value) {
			return c.unifyInequivalentPair(g, children[0], children[1], g.value)
		}
	}

	if odd && len(children) == 2 {
		if done, err := c.rewriteOddOfOr(g, children[0], children[1]); done || err != nil {
			return err
		}
		if done, err := c.rewriteOddOfOr(g, children[1], children[0]); done || err != nil {
			return err
		}
	}
	return nil
}

func (c *Circuit) setOddEvenKind(g *Gate, odd bool) {
	if odd {
		g.kind = Odd
	} else {
		g.kind = Even
	}
}

// dedupParityPairs removes children that occur an even number of times
// (x⊕x = 0) and reduces an odd-multiplicity child to a single occurrence.
// Reports whether anything changed.
func (c *Circuit) dedupParityPairs(g *Gate) bool {
	counts := make(map[int]int, g.nchildren)
	g.eachChildEdge(func(e *childAssoc) { counts[e.child.index]++ })
	anyEven := false
	for _, n := range counts {
		if n > 1 {
			anyEven = true
			break
		}
	}
	if !anyEven {
		return false
	}
	var kept []*Gate
	emitted := make(map[int]bool, len(counts))
	for _, ch := range g.children() {
		if counts[ch.index]%2 == 0 {
			c.push(ch)
			continue
		}
		if emitted[ch.index] {
			c.push(ch)
			continue
		}
		emitted[ch.index] = true
		kept = append(kept, ch)
	}
	c.rebuildChildren(g, kept)
	return true
}

// unifyEquivalentPair handles EVEN(x,y)=TRUE / ODD(x,y)=FALSE: x and y
// must agree. If they're already the same gate, g collapses to a
// constant outright; otherwise, subject to MayTransformInputGates and an
// acyclicity check, one child is identified with the other via
// substituteEquivalentChild. g itself is left as-is — it reduces on a
// later round once the identification becomes visible (a REF child
// merges away, a resulting duplicate pair dedups, etc.).
func (c *Circuit) unifyEquivalentPair(g, x, y *Gate, value bool) error {
	if x == y {
		return c.becomeConstAndDelete(g, value)
	}
	if changed, err := c.substituteEquivalentChild(g, x, y, false); err != nil {
		return err
	} else if changed {
		return nil
	}
	_, err := c.substituteEquivalentChild(g, y, x, false)
	return err
}

// unifyInequivalentPair handles EVEN(x,y)=FALSE / ODD(x,y)=TRUE: x and y
// must disagree.
func (c *Circuit) unifyInequivalentPair(g, x, y *Gate, value bool) error {
	if x == y {
		return &Inconsistency{Gate: g, Reason: "ODD/EVEN pair forces a gate to disagree with itself"}
	}
	if changed, err := c.substituteEquivalentChild(g, x, y, true); err != nil {
		return err
	} else if changed {
		return nil
	}
	_, err := c.substituteEquivalentChild(g, y, x, true)
	return err
}

// rewriteOddOfOr implements ODD(x, OR(x,y,z)) ⇒ ¬x ∧ OR(y,z), applied only
// when the OR has no other parents (so inlining it here doesn't duplicate
// work for some other consumer).
func (c *Circuit) rewriteOddOfOr(g, x, orGate *Gate) (bool, error) {
	if orGate.kind != Or || orGate.nparents != 1 {
		return false, nil
	}
	found := false
	for _, ch := range orGate.children() {
		if ch == x {
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}
	var rest []*Gate
	for _, ch := range orGate.children() {
		if ch != x {
			rest = append(rest, ch)
		}
	}
	var newOr *Gate
	if len(rest) == 0 {
		newOr = c.NewFalse()
	} else if len(rest) == 1 {
		newOr = rest[0]
	} else {
		newOr = c.NewOr(rest...)
	}
	newNot := c.NewNot(x)
	repl := c.NewAnd(newNot, newOr)
	return true, c.mergeGateInto(g, repl)
}
