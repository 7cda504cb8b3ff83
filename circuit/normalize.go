package circuit

// Normalize drains the pstack to a fixpoint applying the CNF normal-form
// rewrite table of spec.md §4.3: REF eliminated, NOT never doubled or
// determined, AND/OR kept at arity ≥2, EQUIV/EVEN/ODD collapsed to binary,
// ITE left ternary for the encoder, and THRESHOLD/ATLEAST fully eliminated
// down to AND/OR/NOT. Ported from gate.cc::cnf_normalize (line 2416).
//
// Like Simplify, callers that want a full pass over a freshly built or
// freshly simplified circuit must call PushAll first.
func (c *Circuit) Normalize() error {
	c.newRound()
	for {
		g := c.pop()
		if g == nil {
			return nil
		}
		if g.kind == Deleted {
			continue
		}
		if g.isOrphan() {
			c.collectGarbage(g)
			continue
		}
		if err := c.normalizeStep(g); err != nil {
			return err
		}
	}
}

func (c *Circuit) normalizeStep(g *Gate) error {
	switch g.kind {
	case True, False:
		return nil // born determined, nothing further to normalize
	case Var:
		return c.simplifyVar(g) // a determined VAR collapses to its constant
	case Ref:
		return c.normalizeRef(g)
	case Not:
		return c.normalizeNot(g)
	case And, Or:
		return c.normalizeAndOr(g)
	case Equiv:
		return c.normalizeEquiv(g)
	case Odd:
		return c.normalizeOdd(g)
	case Even:
		return c.normalizeEven(g)
	case Ite:
		return nil // ternary ITE is a legal normal-form leaf shape
	case Threshold:
		return c.normalizeThreshold(g)
	case Atleast:
		return c.normalizeAtleast(g)
	case Undef:
		panicInternal("gate #%d still UNDEF at normalization time", g.index)
	}
	panicInternal("unhandled kind %s for gate #%d in normalize", g.kind, g.index)
	return nil
}

// normalizeRef eliminates REF the same way the simplifier does.
func (c *Circuit) normalizeRef(g *Gate) error {
	return c.mergeGateInto(g, g.childAt(0))
}

// normalizeNot propagates a determined NOT's value onto its child before
// turning itself into a plain constant, and eliminates double negation —
// both required so the NOT-less encoder never has to special-case a
// determined or doubled NOT.
func (c *Circuit) normalizeNot(g *Gate) error {
	child := g.childAt(0)
	if g.determined {
		if err := c.force(child, !g.value); err != nil {
			return err
		}
		return c.becomeConstAndDelete(g, g.value)
	}
	if child.kind == Not {
		return c.mergeGateInto(g, child.childAt(0))
	}
	return nil
}

// normalizeAndOr collapses a unary AND/OR to its sole child; every other
// arity is already in normal form.
func (c *Circuit) normalizeAndOr(g *Gate) error {
	if g.nchildren == 1 {
		return c.mergeGateInto(g, g.childAt(0))
	}
	return nil
}

// normalizeEquiv enforces EQUIV's exactly-binary normal form: arity 1 is
// TRUE, arity 2 is already legal, and arity ≥3 is expanded via
// EQUIV(c1..cn) ⇒ OR(AND(c1..cn), AND(¬c1..¬cn)).
func (c *Circuit) normalizeEquiv(g *Gate) error {
	switch g.nchildren {
	case 1:
		return c.becomeConstAndDelete(g, true)
	case 2:
		return nil
	}
	children := g.children()
	pos := c.NewAnd(children...)
	negated := make([]*Gate, len(children))
	for i, ch := range children {
		negated[i] = c.NewNot(ch)
	}
	neg := c.NewAnd(negated...)
	g.removeAllChildren()
	g.kind = Or
	g.addChild(pos)
	g.addChild(neg)
	c.push(g)
	return nil
}

// normalizeEven enforces EVEN's exactly-binary normal form: arity 1 is
// NOT(x), arity 2 is already legal, and arity ≥3 is expanded via
// EVEN(c1..cn) ⇒ NOT(ODD(c1..cn)).
func (c *Circuit) normalizeEven(g *Gate) error {
	switch g.nchildren {
	case 1:
		g.kind = Not
		c.push(g)
		return nil
	case 2:
		return nil
	}
	children := g.children()
	g.removeAllChildren()
	odd := c.NewOdd(children...)
	g.kind = Not
	g.addChild(odd)
	c.push(g)
	return nil
}

// normalizeOdd enforces ODD's exactly-binary normal form: arity 1 is x,
// arity 2 is already legal, and arity ≥3 is expanded via ODD(c1..cn) ⇒
// ODD(c1, ODD(c2..cn)).
func (c *Circuit) normalizeOdd(g *Gate) error {
	switch g.nchildren {
	case 1:
		return c.mergeGateInto(g, g.childAt(0))
	case 2:
		return nil
	}
	children := g.children()
	first, rest := children[0], children[1:]
	g.removeAllChildren()
	inner := c.NewOdd(rest...)
	g.addChild(first)
	g.addChild(inner)
	c.push(g)
	return nil
}

// normalizeThreshold eliminates THRESHOLD[lo,hi] entirely, choosing
// between the adder-tree construction and the shared ATLEAST
// decomposition by the same heuristic as gate.cc's tTHRESHOLD case in
// cnf_normalize (line 2694): the ATLEAST route is taken whenever the
// bounds sit close enough to either extreme that two ATLEAST gates beat
// the cost of a full unary counter.
func (c *Circuit) normalizeThreshold(g *Gate) error {
	children := g.children()
	n := len(children)
	lo, hi := g.tmin, g.tmax
	if lo > n {
		return c.becomeConstAndDelete(g, false)
	}
	if hi > n {
		hi = n
	}
	if lo > hi {
		return c.becomeConstAndDelete(g, false)
	}
	if n == 1 {
		switch {
		case lo == 0 && hi == 1:
			return c.becomeConstAndDelete(g, true)
		case lo == 0 && hi == 0:
			g.kind, g.tmin, g.tmax = Not, 0, 0
			c.push(g)
			return nil
		case lo == 1 && hi == 1:
			return c.mergeGateInto(g, children[0])
		}
		panicInternal("THRESHOLD[%d,%d] over a single child is not [0,0], [0,1] or [1,1]", lo, hi)
	}
	if lo == 0 && hi == n {
		return c.becomeConstAndDelete(g, true)
	}
	if lo == 1 && hi == n {
		g.kind, g.tmin, g.tmax = Or, 0, 0
		c.push(g)
		return nil
	}
	if !(hi <= 2 || lo+2 >= n || (lo <= 2 && hi+2 >= n)) {
		return c.thresholdViaAdder(g, children, lo, hi)
	}
	return c.thresholdViaAtleast(g, children, lo, hi, n)
}

// thresholdViaAdder builds a unary popcount adder over children
// (trueGateCounter) and compares it against lo/hi by direct indexing
// (geFromCounter/leFromCounter), ANDing the two results into g. Grounded
// on spec.md §4.3's description of add_true_gate_counter/add_unsigned_ge/
// add_unsigned_le; the original C++ helpers themselves are not present in
// the retrieved sources, so the comparator here is realized as a direct
// index into the already-unary counter rather than a separate comparison
// network — mathematically equivalent, and simpler because the counter's
// i-th bit already *is* the "at least i+1" predicate.
func (c *Circuit) thresholdViaAdder(g *Gate, children []*Gate, lo, hi int) error {
	sum := c.trueGateCounter(children)
	ge := c.geFromCounter(sum, lo)
	le := c.leFromCounter(sum, hi)
	g.removeAllChildren()
	g.kind, g.tmin, g.tmax = And, 0, 0
	g.addChild(ge)
	g.addChild(le)
	c.push(g)
	return nil
}

// trueGateCounter builds the unary counter sum[0..n-1] where sum[i] is
// true iff at least i+1 of children are true, by folding each child into
// a running sorted unary vector (the standard sequential/merge counter
// construction).
func (c *Circuit) trueGateCounter(children []*Gate) []*Gate {
	var sum []*Gate
	for _, x := range children {
		m := len(sum)
		next := make([]*Gate, m+1)
		if m == 0 {
			next[0] = x
		} else {
			next[0] = c.NewOr(x, sum[0])
			for i := 1; i < m; i++ {
				next[i] = c.NewOr(c.NewAnd(x, sum[i-1]), sum[i])
			}
			next[m] = c.NewAnd(x, sum[m-1])
		}
		sum = next
	}
	return sum
}

// geFromCounter returns a gate equivalent to "at least k of the counted
// children are true", given the unary counter sum.
func (c *Circuit) geFromCounter(sum []*Gate, k int) *Gate {
	if k <= 0 {
		return c.NewTrue()
	}
	if k > len(sum) {
		return c.NewFalse()
	}
	return sum[k-1]
}

// leFromCounter returns a gate equivalent to "at most k of the counted
// children are true".
func (c *Circuit) leFromCounter(sum []*Gate, k int) *Gate {
	if k >= len(sum) {
		return c.NewTrue()
	}
	if k < 0 {
		return c.NewFalse()
	}
	return c.NewNot(sum[k])
}

// thresholdViaAtleast rewrites THRESHOLD[lo,hi] into ATLEAST gates:
// [0,hi] ⇒ ¬(≥hi+1); [lo,n] ⇒ (≥lo); the general [lo,hi] ⇒ (≥lo) ∧
// ¬(≥hi+1). The resulting ATLEAST gates are pushed and eliminated in turn
// by normalizeAtleast.
func (c *Circuit) thresholdViaAtleast(g *Gate, children []*Gate, lo, hi, n int) error {
	switch {
	case lo == 0:
		atleast := c.NewAtleast(hi+1, children...)
		g.removeAllChildren()
		g.kind, g.tmin, g.tmax = Not, 0, 0
		g.addChild(atleast)
	case hi == n:
		g.kind, g.tmin, g.tmax = Atleast, lo, 0
	default:
		atleastLo := c.NewAtleast(lo, children...)
		notHi := c.NewNot(c.NewAtleast(hi+1, children...))
		g.removeAllChildren()
		g.kind, g.tmin, g.tmax = And, 0, 0
		g.addChild(atleastLo)
		g.addChild(notHi)
	}
	c.push(g)
	return nil
}

// normalizeAtleast eliminates ATLEAST k entirely: the four trivial cases
// (k==0, k>n, k==1, k==n) plus the general shared recursive decomposition
// (≥k)(c1..cn) = (c1 ∧ (≥k-1)(c2..cn)) ∨ (≥k)(c2..cn)) of spec.md §4.3,
// ported from gate.cc's tATLEAST POLYNOMIAL_ATLEAST_REWRITING branch
// (line 2812). The (k+1)×(n+1) grid gate.cc materializes eagerly is built
// here on demand via a memoized recursive closure, keyed by (threshold,
// suffix start) — the same sharing structure, expressed without an
// explicit worklist since Go recursion plus the memo map gives it for
// free. g itself becomes the top-level OR so existing parents and handles
// need no migration.
func (c *Circuit) normalizeAtleast(g *Gate) error {
	children := g.children()
	n := len(children)
	k := g.tmin
	if k == 0 {
		return c.becomeConstAndDelete(g, true)
	}
	if k > n {
		return c.becomeConstAndDelete(g, false)
	}
	if k == 1 {
		g.kind, g.tmin, g.tmax = Or, 0, 0
		c.push(g)
		return nil
	}
	if k == n {
		g.kind, g.tmin, g.tmax = And, 0, 0
		c.push(g)
		return nil
	}

	memo := make(map[[2]int]*Gate)
	var rec func(i, start int) *Gate
	rec = func(i, start int) *Gate {
		m := n - start
		if i <= 0 {
			return c.NewTrue()
		}
		if i > m {
			return c.NewFalse()
		}
		if i == m {
			return c.NewAnd(children[start:]...)
		}
		if i == 1 {
			return c.NewOr(children[start:]...)
		}
		key := [2]int{i, start}
		if got, ok := memo[key]; ok {
			return got
		}
		withHead := c.NewAnd(children[start], rec(i-1, start+1))
		without := rec(i, start+1)
		result := c.NewOr(withHead, without)
		memo[key] = result
		return result
	}

	withFirst := c.NewAnd(children[0], rec(k-1, 1))
	withoutFirst := rec(k, 1)
	g.removeAllChildren()
	g.kind, g.tmin, g.tmax = Or, 0, 0
	g.addChild(withFirst)
	g.addChild(withoutFirst)
	c.push(g)
	return nil
}
