// Package circuit implements the core of a Boolean-circuit-to-CNF
// front end: a shared DAG of gates (kind.go, gate.go, edge.go), a
// fixpoint simplifier (simplify.go), a CNF normalizer (normalize.go), a
// structural sharer (hash.go), a monotone-polarity analyzer (polarity.go)
// and a Tseitin-style CNF emitter (emit.go).
//
// The package is strictly single-threaded: a Circuit is owned by exactly
// one goroutine for its whole lifetime, and no method suspends.
package circuit

import (
	"fmt"

	"github.com/rhuizer/bcsat/diag"
)

// Circuit owns every live gate, the global in-order gate list, the
// pending-rewrite work-list, and the two initial constraint queues
// populated by a parser before simplification begins.
type Circuit struct {
	diag *diag.Context

	head, tail *Gate
	byIndex    []*Gate // dense index -> gate; nil entries never occur, Deleted gates stay in place
	nextIndex  int

	pstackHead, pstackTail *Gate

	AssignedTrue  []*Gate // initial force-true queue, as populated by a parser
	AssignedFalse []*Gate // initial force-false queue

	changed bool

	// MayTransformInputGates, when false, forbids rewrites that would
	// equate a VAR with some other gate (erasing a user-visible input).
	// Set false during all-solutions / solution-reconstruction modes.
	MayTransformInputGates bool

	// PreserveAllSolutions governs whether the simplifier may introduce
	// substitutions that alter the solution space while preserving
	// satisfiability.
	PreserveAllSolutions bool

	// PreserveCNFNormalizedForm, when true, suppresses lossy flattenings
	// (ODD/EVEN n-ary collapse, EQUIV expansion) during simplification so
	// that a prior CNF-normalization pass's invariants keep holding.
	PreserveCNFNormalizedForm bool

	depCache      map[[2]int]bool // depends_on memo, cleared at the start of each simplify/normalize round
	depCacheRound int
	curRound      int
}

// New creates an empty Circuit. d may be nil, in which case diagnostics
// are discarded.
func New(d *diag.Context) *Circuit {
	if d == nil {
		d = diag.Silent()
	}
	return &Circuit{
		diag:                   d,
		MayTransformInputGates: true,
	}
}

// Diag exposes the circuit's diagnostics context.
func (c *Circuit) Diag() *diag.Context { return c.diag }

// NumGates returns the number of index slots ever allocated, including
// tombstoned (Deleted) ones.
func (c *Circuit) NumGates() int { return len(c.byIndex) }

// Gate returns the gate at the given stable index, or nil if out of
// range. The returned gate may have kind Deleted.
func (c *Circuit) Gate(index int) *Gate {
	if index < 0 || index >= len(c.byIndex) {
		return nil
	}
	return c.byIndex[index]
}

// Gates returns every live (non-Deleted) gate in global in-order order.
func (c *Circuit) Gates() []*Gate {
	out := make([]*Gate, 0, len(c.byIndex))
	for g := c.head; g != nil; g = g.next {
		if g.kind != Deleted {
			out = append(out, g)
		}
	}
	return out
}

// install assigns g a fresh index and appends it to the global list.
func (c *Circuit) install(g *Gate) *Gate {
	g.index = c.nextIndex
	c.nextIndex++
	c.byIndex = append(c.byIndex, g)
	if c.tail != nil {
		c.tail.next = g
	} else {
		c.head = g
	}
	c.tail = g
	c.diag.GatesCreated++
	return g
}

func (c *Circuit) newGate(k Kind) *Gate {
	return c.install(&Gate{kind: k})
}

// NewTrue installs a fresh TRUE gate.
func (c *Circuit) NewTrue() *Gate {
	g := c.newGate(True)
	g.determined, g.value = true, true
	return g
}

// NewFalse installs a fresh FALSE gate.
func (c *Circuit) NewFalse() *Gate {
	g := c.newGate(False)
	g.determined, g.value = true, false
	return g
}

// NewVar installs a fresh named input variable.
func (c *Circuit) NewVar(name string) *Gate {
	g := c.newGate(Var)
	g.name = name
	g.addHandle(name)
	return g
}

// NewNot installs NOT(child).
func (c *Circuit) NewNot(child *Gate) *Gate {
	g := c.newGate(Not)
	g.addChild(child)
	c.push(g)
	return g
}

// NewRef installs REF(child), a transparent alias eliminated by the
// simplifier and normalizer.
func (c *Circuit) NewRef(child *Gate) *Gate {
	g := c.newGate(Ref)
	g.addChild(child)
	c.push(g)
	return g
}

func (c *Circuit) newNary(k Kind, children []*Gate) *Gate {
	if len(children) < k.MinArity() {
		panicInternal("%s requires at least %d children, got %d", k, k.MinArity(), len(children))
	}
	g := c.newGate(k)
	for _, ch := range children {
		g.addChild(ch)
	}
	c.push(g)
	return g
}

// NewAnd installs AND(children...).
func (c *Circuit) NewAnd(children ...*Gate) *Gate { return c.newNary(And, children) }

// NewOr installs OR(children...).
func (c *Circuit) NewOr(children ...*Gate) *Gate { return c.newNary(Or, children) }

// NewEquiv installs EQUIV(children...).
func (c *Circuit) NewEquiv(children ...*Gate) *Gate { return c.newNary(Equiv, children) }

// NewOdd installs ODD(children...) (xor).
func (c *Circuit) NewOdd(children ...*Gate) *Gate { return c.newNary(Odd, children) }

// NewEven installs EVEN(children...) (xnor).
func (c *Circuit) NewEven(children ...*Gate) *Gate { return c.newNary(Even, children) }

// NewIte installs ITE(if, then, else).
func (c *Circuit) NewIte(cond, then, els *Gate) *Gate {
	g := c.newGate(Ite)
	g.addChild(cond)
	g.addChild(then)
	g.addChild(els)
	c.push(g)
	return g
}

// NewThreshold installs THRESHOLD[lo,hi](children...). Out-of-range bounds
// (lo>hi, or hi beyond len(children)) are normalized to FALSE per the
// cardinality invariant.
func (c *Circuit) NewThreshold(lo, hi int, children ...*Gate) *Gate {
	if lo > hi || lo < 0 || hi > len(children) {
		return c.NewFalse()
	}
	g := c.newNary(Threshold, children)
	g.tmin, g.tmax = lo, hi
	return g
}

// NewAtleast installs ATLEAST k(children...).
func (c *Circuit) NewAtleast(k int, children ...*Gate) *Gate {
	g := c.newNary(Atleast, children)
	g.tmin = k
	return g
}

// NewForwardRef installs a placeholder gate standing in for an
// identifier a parser has seen referenced before its definition. It must
// be resolved via ResolveForwardRef once the real gate is parsed, and
// before Simplify/Normalize ever runs over the circuit — Undef gates
// reaching either driver are an internal error.
func (c *Circuit) NewForwardRef() *Gate {
	return c.newGate(Undef)
}

// ResolveForwardRef redirects every parent edge and handle of placeholder
// (as created by NewForwardRef) onto def, then tombstones placeholder.
// Calling it twice on the same placeholder, or passing a gate that was
// not produced by NewForwardRef, is a programmer error.
func (c *Circuit) ResolveForwardRef(placeholder, def *Gate) error {
	return c.mergeGateInto(placeholder, def)
}

// AddHandle attaches an externally-visible name to g, deduplicating
// against any name g already carries.
func (g *Gate) AddHandle(name string) { g.addHandle(name) }

// PushAll enqueues every live gate for re-examination. Used to seed a
// top-level Simplify/Normalize call over a freshly built circuit.
func (c *Circuit) PushAll() {
	for g := c.head; g != nil; g = g.next {
		if g.kind != Deleted {
			c.push(g)
		}
	}
}

// ForceTrue asserts g is true: it returns *Inconsistency if g is already
// determined false, otherwise it is idempotent.
func (c *Circuit) ForceTrue(g *Gate) error { return c.force(g, true) }

// ForceFalse asserts g is false.
func (c *Circuit) ForceFalse(g *Gate) error { return c.force(g, false) }

func (c *Circuit) force(g *Gate, v bool) error {
	if g.determined {
		if g.value != v {
			return &Inconsistency{Gate: g, Reason: fmt.Sprintf("already determined %v, cannot force %v", g.value, v)}
		}
		return nil
	}
	g.determined = true
	g.value = v
	c.changed = true
	c.push(g)
	c.pushParents(g)
	return nil
}

// newRound invalidates the depends_on memo; called at the top of every
// fixpoint driver so stale memo entries from a previous pass (which may
// have rewired the graph) are never consulted.
func (c *Circuit) newRound() {
	c.curRound++
	c.depCache = nil
}

// DependsOn returns true iff b is reachable from a via children edges.
// It memoizes within a single simplification/normalization round (reset
// by newRound) and is O(|gates|) per distinct query in the worst case.
func (c *Circuit) DependsOn(a, b *Gate) bool {
	if c.depCache == nil {
		c.depCache = make(map[[2]int]bool)
	}
	key := [2]int{a.index, b.index}
	if v, ok := c.depCache[key]; ok {
		return v
	}
	seen := make(map[int]bool)
	var dfs func(g *Gate) bool
	dfs = func(g *Gate) bool {
		if g == b {
			return true
		}
		if seen[g.index] {
			return false
		}
		seen[g.index] = true
		for _, ch := range g.children() {
			if dfs(ch) {
				return true
			}
		}
		return false
	}
	res := dfs(a)
	c.depCache[key] = res
	return res
}

// delete tombstones g: kind becomes Deleted, every edge is unlinked in
// both directions, and handles are cleared. The index is retained so that
// a stale reference dereferenced in a debug build is at least detectable
// (kind == Deleted) rather than dangling.
func (c *Circuit) delete(g *Gate) {
	if g.kind == Deleted {
		return
	}
	if g.nparents != 0 {
		panicInternal("deleting gate #%d which still has %d parents", g.index, g.nparents)
	}
	g.removeAllChildren()
	g.handles = nil
	g.kind = Deleted
}

// collectGarbage deletes g if it is an orphan (no parents, no handles, no
// determined value) and recursively enqueues its former children for the
// same check, matching the "universal precondition" every simplifier step
// applies on entry.
func (c *Circuit) collectGarbage(g *Gate) {
	if g.kind == Deleted || !g.isOrphan() {
		return
	}
	kids := g.children()
	c.delete(g)
	c.changed = true
	for _, ch := range kids {
		c.push(ch)
		c.collectGarbage(ch)
	}
}

// CycleWitness returns the gate names forming a cycle if the live DAG is
// not acyclic, or nil if it is. Used for diagnostics only; the simplifier
// and normalizer never themselves introduce a cycle if invoked correctly,
// but a buggy collaborator installing gates directly can.
func (c *Circuit) CycleWitness() []string {
	const (
		unvisited = 0
		onStack   = 1
		done      = 2
	)
	state := make(map[int]int, len(c.byIndex))
	var stack []*Gate
	var witness []string
	var dfs func(g *Gate) bool
	dfs = func(g *Gate) bool {
		state[g.index] = onStack
		stack = append(stack, g)
		for _, ch := range g.children() {
			switch state[ch.index] {
			case onStack:
				// Found the cycle; unwind stack from ch to g.
				start := len(stack) - 1
				for start >= 0 && stack[start] != ch {
					start--
				}
				for _, s := range stack[start:] {
					witness = append(witness, gateLabel(s))
				}
				return true
			case unvisited:
				if dfs(ch) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[g.index] = done
		return false
	}
	for g := c.head; g != nil; g = g.next {
		if g.kind == Deleted {
			continue
		}
		if state[g.index] == unvisited {
			if dfs(g) {
				return witness
			}
		}
	}
	return nil
}

func gateLabel(g *Gate) string {
	if len(g.handles) > 0 {
		return g.handles[0]
	}
	return fmt.Sprintf("g_%d", g.index)
}
