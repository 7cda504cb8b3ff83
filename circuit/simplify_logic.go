package circuit

// simplifyRef eliminates g := REF(child): migrate parents and handles onto
// the child, propagate a determined value onto the child, mark deleted.
func (c *Circuit) simplifyRef(g *Gate) error {
	return c.mergeGateInto(g, g.childAt(0))
}

// simplifyNot implements ¬¬x ⇒ x (via REF) and propagates a determined
// value to the child with flipped polarity.
func (c *Circuit) simplifyNot(g *Gate) error {
	child := g.childAt(0)
	if child.kind == Not {
		// ¬¬x ⇒ x: g becomes an alias for child's own child.
		return c.mergeGateInto(g, child.childAt(0))
	}
	if g.determined {
		if err := c.force(child, !g.value); err != nil {
			return err
		}
	} else if child.determined {
		if err := c.force(g, !child.value); err != nil {
			return err
		}
	}
	return nil
}

// simplifyOr implements the OR rule family of spec.md's table: absorb
// FALSE children, become TRUE on any TRUE child, collapse to REF when a
// single undetermined child remains, remove duplicates, detect x/¬x, and
// flatten nested non-shared ORs. AND is the dual with TRUE/FALSE swapped,
// implemented by the shared helper below with the polarity flipped.
func (c *Circuit) simplifyOr(g *Gate) error { return c.simplifyAndOr(g, Or) }

// simplifyAnd is the dual of simplifyOr.
func (c *Circuit) simplifyAnd(g *Gate) error { return c.simplifyAndOr(g, And) }

// simplifyAndOr implements both AND and OR, parameterized on which
// constant absorbs (dominates, e.g. FALSE for AND's "any false child ⇒
// false") and which constant is the identity (ignored in the child list).
func (c *Circuit) simplifyAndOr(g *Gate, kind Kind) error {
	// Flatten nested same-kind non-shared children first: a child c of the
	// same kind with exactly one parent (g) contributes no sharing benefit
	// and can be inlined directly.
	if c.flattenNested(g, kind) {
		return nil
	}
	changed := false
	var kept []*Gate
	for _, ch := range g.children() {
		if ch.determined {
			if kind == Or {
				if ch.value { // any TRUE child ⇒ OR is TRUE
					return c.becomeConstAndDelete(g, true)
				}
				changed = true // FALSE child is absorbed (dropped)
				continue
			}
			if !ch.value { // any FALSE child ⇒ AND is FALSE
				return c.becomeConstAndDelete(g, false)
			}
			changed = true // TRUE child is absorbed (dropped)
			continue
		}
		kept = append(kept, ch)
	}
	if changed {
		c.rebuildChildren(g, kept)
		c.push(g)
	}
	if c.dedupChildren(g) {
		c.push(g)
		return nil
	}
	children := g.children()
	if i, j := findComplementaryPair(children); i >= 0 {
		// x and ¬x both present: OR is trivially TRUE, AND trivially FALSE.
		_ = j
		return c.becomeConstAndDelete(g, kind == Or)
	}
	switch len(children) {
	case 0:
		// Every child was the identity element; the gate itself collapses
		// to the identity constant (empty OR ⇒ FALSE, empty AND ⇒ TRUE).
		return c.becomeConstAndDelete(g, kind == And)
	case 1:
		return c.mergeGateInto(g, children[0])
	}
	c.factorShared(g, kind)
	return nil
}

// factorShared looks for a live sibling gate of the same kind as g whose
// own children are a proper subset of g's current children, and factors
// that subset out into a single edge to the sibling:
// OR(x,y,z,v), t=OR(y,z) found elsewhere ⇒ OR(x,v,t). AND is the dual.
// Only fires once g has at least three children, matching the "no benefit
// below that" threshold below which there's nothing to factor out.
//
// The sibling must be live (determined, or with at least one parent of
// its own) — reusing an otherwise-dead gate would just resurrect garbage
// instead of sharing a node that's actually still in use elsewhere.
// Returns whether a rewrite happened; g is re-pushed either way it
// changed, to be picked up again once the new AND/OR-of-t settles.
func (c *Circuit) factorShared(g *Gate, kind Kind) bool {
	if g.nchildren < 3 {
		return false
	}
	children := g.children()
	for _, ch := range children {
		ch.temp = 1
	}

	var sibling *Gate
	for _, ch := range children {
		ch.eachParent(func(e *childAssoc) {
			if sibling != nil {
				return
			}
			parent := e.parent
			if parent == g || parent.kind != kind {
				return
			}
			if !parent.determined && parent.nparents == 0 {
				return
			}
			n := 0
			for _, pch := range parent.children() {
				if pch.temp != 1 {
					return
				}
				n++
			}
			if n > 1 && n < len(children) {
				sibling = parent
			}
		})
		if sibling != nil {
			break
		}
	}

	if sibling == nil {
		for _, ch := range children {
			ch.temp = 0
		}
		return false
	}

	for _, pch := range sibling.children() {
		pch.temp = 0
	}
	var kept []*Gate
	for _, ch := range children {
		if ch.temp != 0 {
			kept = append(kept, ch)
			ch.temp = 0
		}
	}
	kept = append(kept, sibling)
	c.rebuildChildren(g, kept)
	c.push(g)
	c.push(sibling)
	c.changed = true
	return true
}

// flattenNested inlines a same-kind child that has exactly one parent (g
// itself): OR(x, OR(y,z)) with the inner OR unshared becomes OR(x,y,z).
// Returns true if it performed a rewrite (caller should stop, the gate
// having been re-pushed for a fresh pass).
func (c *Circuit) flattenNested(g *Gate, kind Kind) bool {
	for _, e := range collectChildEdges(g) {
		ch := e.child
		if ch.kind == kind && ch.nparents == 1 && !ch.determined {
			for _, grandchild := range ch.children() {
				g.addChild(grandchild)
			}
			e.remove()
			c.delete(ch)
			c.changed = true
			c.push(g)
			return true
		}
	}
	return false
}

func collectChildEdges(g *Gate) []*childAssoc {
	out := make([]*childAssoc, 0, g.nchildren)
	g.eachChildEdge(func(e *childAssoc) { out = append(out, e) })
	return out
}

// rebuildChildren replaces g's child list wholesale with kept, in order.
func (c *Circuit) rebuildChildren(g *Gate, kept []*Gate) {
	g.removeAllChildren()
	for _, ch := range kept {
		g.addChild(ch)
	}
}

// becomeConstAndDelete forces g to v and turns g itself into a literal
// TRUE/FALSE gate, dropping its former children (garbage-collecting any
// that become orphaned). Rewriting the kind, not just the determined
// flag, means every later pass that switches on g.kind sees a leaf rather
// than e.g. a zero-arity AND. Ported from gate.cc's transform_into_
// constant, which is shared between simplify and cnf_normalize.
func (c *Circuit) becomeConstAndDelete(g *Gate, v bool) error {
	if err := c.force(g, v); err != nil {
		return err
	}
	kids := g.children()
	g.removeAllChildren()
	if v {
		g.kind = True
	} else {
		g.kind = False
	}
	g.tmin, g.tmax = 0, 0
	for _, ch := range kids {
		c.push(ch)
		c.collectGarbage(ch)
	}
	return nil
}

// simplifyIte implements the ITE(c,t,e) reductions named in spec.md's
// table: determined selector, determined branches, t==e, c==t, c==e, and
// the e=¬t / t=¬e rewrites into EQUIV/ODD.
func (c *Circuit) simplifyIte(g *Gate) error {
	cond, then, els := g.childAt(0), g.childAt(1), g.childAt(2)
	if cond.determined {
		if cond.value {
			return c.mergeGateInto(g, then)
		}
		return c.mergeGateInto(g, els)
	}
	if then == els {
		return c.mergeGateInto(g, then)
	}
	if then.determined && els.determined {
		if then.value == els.value {
			return c.becomeConstAndDelete(g, then.value)
		}
		// ITE(c,T,F) == c ; ITE(c,F,T) == ¬c
		if then.value {
			return c.mergeGateInto(g, cond)
		}
		return c.substituteIteWithNot(g, cond)
	}
	if cond == then {
		// ITE(c,c,e) == c ∨ e
		repl := c.NewOr(cond, els)
		return c.mergeGateInto(g, repl)
	}
	if cond == els {
		// ITE(c,t,c) == c ∧ t
		repl := c.NewAnd(cond, then)
		return c.mergeGateInto(g, repl)
	}
	if isNotOf(els, then) {
		// e == ¬t: ITE(c,t,¬t) == EQUIV(c,t)
		repl := c.NewEquiv(cond, then)
		return c.mergeGateInto(g, repl)
	}
	if isNotOf(then, els) {
		// t == ¬e: ITE(c,¬e,e) == ODD(c,e)
		repl := c.NewOdd(cond, els)
		return c.mergeGateInto(g, repl)
	}
	if then.determined {
		if then.value {
			// ITE(c,T,e) == c ∨ e
			repl := c.NewOr(cond, els)
			return c.mergeGateInto(g, repl)
		}
		// ITE(c,F,e) == ¬c ∧ e
		repl := c.NewAnd(c.NewNot(cond), els)
		return c.mergeGateInto(g, repl)
	}
	if els.determined {
		if els.value {
			// ITE(c,t,T) == ¬c ∨ t
			repl := c.NewOr(c.NewNot(cond), then)
			return c.mergeGateInto(g, repl)
		}
		// ITE(c,t,F) == c ∧ t
		repl := c.NewAnd(cond, then)
		return c.mergeGateInto(g, repl)
	}
	return nil
}

// substituteIteWithNot merges g into Not(cond), used for ITE(c,F,T).
func (c *Circuit) substituteIteWithNot(g, cond *Gate) error {
	repl := c.NewNot(cond)
	return c.mergeGateInto(g, repl)
}

// isNotOf reports whether a is syntactically Not(b).
func isNotOf(a, b *Gate) bool {
	return a.kind == Not && a.childAt(0) == b
}
