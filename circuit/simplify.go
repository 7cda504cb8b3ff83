package circuit

// Simplify drains the pstack to a fixpoint, applying the per-kind rewrite
// table below. preserveCNFNormalizedForm suppresses the lossy flattenings
// (ODD/EVEN n-ary collapse, EQUIV expansion) that would undo a prior
// CNF-normalization pass's invariants.
//
// Callers that want a full pass over a freshly built circuit must call
// PushAll first; Simplify itself only drains whatever is already pending
// (which is everything touched by a ForceTrue/ForceFalse/factory call
// since the last drain).
func (c *Circuit) Simplify(preserveCNFNormalizedForm bool) error {
	c.PreserveCNFNormalizedForm = preserveCNFNormalizedForm
	c.newRound()
	for {
		g := c.pop()
		if g == nil {
			return nil
		}
		if g.kind == Deleted {
			continue
		}
		// Universal precondition: a gate with no parents, no handles, and
		// no determined value is garbage; delete it and move on rather
		// than wasting a rewrite step on it.
		if g.isOrphan() {
			c.collectGarbage(g)
			continue
		}
		if folded, err := c.foldIfFullyDetermined(g); err != nil {
			return err
		} else if folded {
			continue
		}
		if err := c.simplifyStep(g); err != nil {
			return err
		}
	}
}

func (c *Circuit) simplifyStep(g *Gate) error {
	switch g.kind {
	case True, False:
		return c.simplifyConst(g)
	case Var:
		return c.simplifyVar(g)
	case Ref:
		return c.simplifyRef(g)
	case Not:
		return c.simplifyNot(g)
	case And:
		return c.simplifyAnd(g)
	case Or:
		return c.simplifyOr(g)
	case Equiv:
		return c.simplifyEquiv(g)
	case Odd:
		return c.simplifyOddEven(g, true)
	case Even:
		return c.simplifyOddEven(g, false)
	case Ite:
		return c.simplifyIte(g)
	case Threshold:
		return c.simplifyThreshold(g)
	case Atleast:
		return c.simplifyAtleast(g)
	case Undef:
		panicInternal("gate #%d still UNDEF at simplification time", g.index)
	}
	panicInternal("unhandled kind %s for gate #%d", g.kind, g.index)
	return nil
}

func (c *Circuit) simplifyConst(g *Gate) error {
	// True/False gates are born determined (see NewTrue/NewFalse); the
	// only way this step fires is if collectGarbage didn't already clean
	// it up, which is fine and a no-op.
	return nil
}

// simplifyVar collapses a determined VAR into a literal TRUE/FALSE gate,
// same as any other determined-but-not-yet-constant node, provided
// MayTransformInputGates allows rewriting the gate the DIMACS encoder
// exposes as an input variable. With MayTransformInputGates false the VAR
// is left in place; parents still see the right value via g.determined,
// just not hash-unified with other constants the way a collapsed gate is
// (hash.go's Share skips all VAR-kind gates for exactly this reason).
func (c *Circuit) simplifyVar(g *Gate) error {
	if !g.determined || !c.MayTransformInputGates {
		return nil
	}
	return c.becomeConstAndDelete(g, g.value)
}

// mergeGateInto rewires every parent edge and handle of src onto dst,
// unifies src's determined value onto dst (failing on disagreement), and
// tombstones src. dst is semantically equal to src (not its negation);
// callers needing a negated identification create a Not(dst) gate first
// and merge src into that instead.
//
// src's own children, if any, are discarded along with src (via
// c.delete), so this is only safe when src is a pure alias for dst (REF
// elimination, double-NOT collapse, a unary AND/OR's own edge to its
// sole child) — never when src carries structure that dst doesn't already
// subsume. Identifying two otherwise-unrelated gates (e.g. an EQUIV/ODD/
// EVEN child with its survivor) goes through substituteEquivalentChild
// instead, which never deletes the eliminated side.
func (c *Circuit) mergeGateInto(src, dst *Gate) error {
	if src == dst {
		return nil
	}
	if src.determined {
		if err := c.force(dst, src.value); err != nil {
			return err
		}
	}
	src.eachParent(func(e *childAssoc) {
		parent := e.parent
		e.changeChild(dst)
		c.push(parent)
	})
	src.migrateHandlesTo(dst)
	c.push(dst)
	c.changed = true
	c.delete(src)
	return nil
}

// substituteEquivalentChild identifies elim with survivor (if negated is
// false) or with Not(survivor) (if negated is true), called from caller
// (the EQUIV/ODD/EVEN gate doing the identifying), provided elim is not a
// VAR under a MayTransformInputGates=false regime and the identification
// would not create a cycle. Returns false (no-op) if the substitution was
// skipped for either reason, or if elim had no parent besides caller to
// redirect.
//
// elim's own edge from caller is never touched here, and elim itself is
// never deleted: a VAR has no children to lose, so it is safe to erase in
// place (gate.cc's tEQUIV/tEVEN/tODD "unify children" cases do the same,
// converting the VAR node itself to a REF/NOT rather than replacing it).
// A structured elim (e.g. an AND with real children) keeps its own
// children and stays parented by caller; only elim's *other* parents are
// redirected onto survivor (or a fresh NOT(survivor) when negated), so a
// forced deletion never discards substructure that is still the only
// witness of the asserted equivalence. caller itself is left unreduced by
// this step — the ordinary REF-elimination, dedup and arity-1/0 rules
// pick it apart once elim's rewrite is visible on a later round.
func (c *Circuit) substituteEquivalentChild(caller, elim, survivor *Gate, negated bool) (bool, error) {
	if elim.kind == Var && !c.MayTransformInputGates {
		return false, nil
	}
	if c.DependsOn(survivor, elim) {
		return false, nil
	}

	if elim.kind == Var {
		if negated {
			elim.kind = Not
		} else {
			elim.kind = Ref
		}
		elim.addChild(survivor)
		c.push(caller)
		c.push(elim)
		c.changed = true
		return true, nil
	}

	var repl *Gate
	if negated {
		repl = c.NewNot(survivor)
	} else {
		repl = survivor
	}
	moved := false
	elim.eachParent(func(e *childAssoc) {
		if e.parent == caller {
			return
		}
		parent := e.parent
		e.changeChild(repl)
		c.push(parent)
		moved = true
	})
	if moved {
		c.pushParents(survivor)
		c.changed = true
	}
	return moved, nil
}

// dedupChildren removes duplicate children of a commutative gate,
// preserving the earliest occurrence, and reports whether anything
// changed. Each removed duplicate edge drops that child's parent count by
// one (and re-pushes the child so it can be garbage-collected if it is
// now an orphan).
func (c *Circuit) dedupChildren(g *Gate) bool {
	seen := make(map[int]bool, g.nchildren)
	changed := false
	var toRemove []*childAssoc
	g.eachChildEdge(func(e *childAssoc) {
		if seen[e.child.index] {
			toRemove = append(toRemove, e)
		} else {
			seen[e.child.index] = true
		}
	})
	for _, e := range toRemove {
		ch := e.child
		e.remove()
		c.push(ch)
		changed = true
	}
	return changed
}

// findComplementaryPair scans g's children for a child x and a child
// Not(x) both present, returning their indices into g.children() (in
// first-seen order) or (-1,-1) if none found. Grounded on
// gate.cc::remove_g_not_g_and_duplicate_children's two-pointer scan.
func findComplementaryPair(children []*Gate) (int, int) {
	byIndex := make(map[int]int, len(children)) // child gate index -> position
	for i, ch := range children {
		byIndex[ch.index] = i
	}
	for i, ch := range children {
		if ch.kind == Not {
			negated := ch.childAt(0)
			if j, ok := byIndex[negated.index]; ok {
				return j, i
			}
		}
	}
	return -1, -1
}
