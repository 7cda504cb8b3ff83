package circuit

// simplifyEquiv implements the EQUIV rule family of spec.md's table,
// ported from gate.cc's tEQUIV case (lines ~1832-1969): arity 1 ⇒ TRUE; a
// determined TRUE child turns the gate into AND; a determined FALSE child
// turns it into NOT(OR(...)); duplicate/complementary children are
// reduced; when forced true, all children are unified into one survivor;
// when forced false and binary, the gate becomes EVEN, routing further
// work through the ODD/EVEN rule family since EQUIV and EVEN coincide for
// exactly two children.
func (c *Circuit) simplifyEquiv(g *Gate) error {
	if g.nchildren == 1 {
		return c.becomeConstAndDelete(g, true)
	}
	for _, ch := range g.children() {
		if !ch.determined {
			continue
		}
		if ch.value {
			g.kind = And
			c.push(g)
			return nil
		}
		// EQUIV(F,x,y,z) ⇒ NOT(OR(F,x,y,z)): move every current child
		// (including the determined-false one, which OR will absorb) onto
		// a fresh OR gate, and make g a NOT of it.
		children := g.children()
		g.removeAllChildren()
		newOr := c.NewOr(children...)
		g.kind = Not
		g.addChild(newOr)
		c.push(g)
		c.push(newOr)
		return nil
	}

	if c.dedupChildren(g) {
		c.push(g)
		return nil
	}
	if i, j := findComplementaryPair(g.children()); i >= 0 {
		_ = j
		return c.becomeConstAndDelete(g, false)
	}

	if g.determined && g.value {
		return c.unifyEquivChildren(g)
	}
	if g.determined && !g.value && g.nchildren == 2 {
		g.kind = Even
		c.push(g)
	}
	return nil
}

// unifyEquivChildren identifies every child of a forced-true EQUIV with a
// single survivor. An unshared VAR child (one whose only parent is g
// itself) is preferred as the eliminated side and aliased directly onto
// a sibling, since a VAR has no children of its own to lose; this drains
// one VAR per call, relying on g being re-pushed to pick up the next one
// on a later round. Failing that, the survivor is the child that does
// not depend on any other child, walked the same way gate.cc does (start
// from the first child, switch the candidate whenever it turns out to
// depend on the next one examined); every other child is passed to
// substituteEquivalentChild, which only ever redirects that child's
// *other* parents and never deletes it. Either way g itself is left
// untouched — a fully-reduced EQUIV (e.g. one whose children have all
// become REFs onto the survivor) collapses on its own via the ordinary
// REF/dedup/arity-1 rules on a later round.
func (c *Circuit) unifyEquivChildren(g *Gate) error {
	children := g.children()

	for _, ch := range children {
		if ch.kind != Var || ch.nparents != 1 {
			continue
		}
		var sibling *Gate
		for _, other := range children {
			if other != ch {
				sibling = other
				break
			}
		}
		_, err := c.substituteEquivalentChild(g, ch, sibling, false)
		return err
	}

	least := children[0]
	for _, ch := range children[1:] {
		if c.DependsOn(least, ch) {
			least = ch
		}
	}
	for _, ch := range children {
		if ch == least {
			continue
		}
		if _, err := c.substituteEquivalentChild(g, ch, least, false); err != nil {
			return err
		}
	}
	return nil
}
