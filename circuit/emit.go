package circuit

import (
	"github.com/bits-and-blooms/bitset"
	"golang.org/x/exp/rand"
)

// EmitOptions controls the CNF emitter's behaviour. The zero value is not
// a sensible default (it disables COI and NOT-less encoding); use
// DefaultEmitOptions.
type EmitOptions struct {
	COI         bool    // prune gates outside the cone of influence of an asserted constraint
	NotLess     bool    // fold NOT into literal negation instead of giving it its own variable
	Polarity    bool    // restrict clause emission to polarities actually reached
	PermuteSeed *uint64 // non-nil: seeded Knuth shuffle of the final variable numbering
}

// DefaultEmitOptions matches bc2cnf's defaults: COI pruning and NOT-less
// encoding on, polarity restriction and permutation off.
func DefaultEmitOptions() EmitOptions {
	return EmitOptions{COI: true, NotLess: true}
}

// NameLiteral records that the externally-visible name Name denotes the
// DIMACS literal Literal, for the translator's preamble.
type NameLiteral struct {
	Name    string
	Literal int
}

// CNF is the result of emitting a Circuit: a conjunctive normal form over
// dense variables 1..NumVars, plus the name-to-literal mapping a writer
// needs to reproduce the translation table comment block.
type CNF struct {
	NumVars int
	Clauses [][]int
	Names   []NameLiteral
}

// ExportNumbering runs the cone-of-influence marking and dense numbering
// shared by every translator (CNF, E-DIMACS, ISCAS89): it prunes gates per
// opts.COI, assigns the survivors 1..N in global list order (skipping NOT
// gates when opts.NotLess), and applies opts.PermuteSeed if set. It returns
// the surviving gates in numbering order, the top variable number, and a
// reset closure the caller must defer — every live gate's temp field
// reverts to -1, this package's documented rest value, once reset runs.
//
// Ported from bc2cnf's main translation driver and Gate::mark_coi in
// gate.cc.
func (c *Circuit) ExportNumbering(opts EmitOptions) (numbered []*Gate, maxVar int, reset func()) {
	gates := c.Gates()
	for _, g := range gates {
		g.temp = -1
	}
	reset = func() {
		for _, g := range gates {
			g.temp = -1
		}
	}

	var seeds []*Gate
	for _, g := range gates {
		if !opts.COI || (g.determined && !isJustified(g)) {
			seeds = append(seeds, g)
		}
	}
	c.markCOI(seeds)

	gateNum := 0
	for _, g := range gates {
		if g.temp == -1 {
			continue
		}
		if opts.NotLess && g.kind == Not {
			// NOT-less translation: a NOT gate never gets its own variable,
			// its literal is always the negation of its child's.
			g.temp = -1
			continue
		}
		gateNum++
		g.temp = gateNum
		numbered = append(numbered, g)
	}
	maxVar = gateNum

	if maxVar > 0 && opts.PermuteSeed != nil {
		perm := knuthPermutation(maxVar, *opts.PermuteSeed)
		for _, g := range numbered {
			g.temp = perm[g.temp]
		}
	}

	return numbered, maxVar, reset
}

// Emit numbers the circuit's relevant gates and produces their clausal
// translation. Gates pruned by cone-of-influence contribute nothing; the
// circuit is otherwise left exactly as it was before the call, modulo
// every live gate's temp scratch field, which is restored to -1 (this
// pass's documented rest value) before returning.
//
// Ported from bc2cnf's main translation driver and Gate::mark_coi,
// Gate::cnf_get_clauses and Gate::cnf_get_clauses_polarity in gate.cc.
func (c *Circuit) Emit(opts EmitOptions) *CNF {
	gates, maxVar, reset := c.ExportNumbering(opts)
	defer reset()

	if maxVar == 0 {
		return &CNF{}
	}

	var names []NameLiteral
	for _, g := range gates {
		if g.temp <= 0 {
			continue
		}
		if opts.Polarity && g.kind != Var {
			continue
		}
		for _, h := range g.handles {
			names = append(names, NameLiteral{Name: h, Literal: g.temp})
		}
	}

	if opts.Polarity {
		c.AnalyzeCircuitPolarity()
	}

	var clauses [][]int
	for _, g := range gates {
		if g.temp <= 0 {
			continue
		}
		pos, neg := true, true
		if opts.Polarity {
			pos, neg = g.mirPos, g.mirNeg
		}
		got := gateClauses(g, opts.NotLess, pos, neg)
		if want := expectedClauseCount(g, opts.NotLess, pos, neg); len(got) != want {
			panicInternal("Emit: gate #%d emitted %d clauses, expected %d", g.index, len(got), want)
		}
		clauses = append(clauses, got...)
		if g.determined {
			if g.value {
				clauses = append(clauses, []int{g.temp})
			} else {
				clauses = append(clauses, []int{-g.temp})
			}
		}
	}

	return &CNF{NumVars: maxVar, Clauses: clauses, Names: names}
}

// seenSet is a call-scoped, fixed-capacity membership set over gate
// indices, backed by a bitset rather than a map: COI marking is run once
// per Emit call over a known index range, exactly the allocate-once,
// throw-away use case bitset.BitSet is suited to.
type seenSet struct{ bits *bitset.BitSet }

func newSeenSet(capacity int) seenSet {
	return seenSet{bits: bitset.New(uint(capacity))}
}

func (s seenSet) test(index int) bool { return s.bits.Test(uint(index)) }
func (s seenSet) set(index int)       { s.bits.Set(uint(index)) }

// markCOI marks every gate reachable from seeds (inclusive) by setting
// its temp field to a non-negative value. It walks an explicit stack
// rather than recursing, using a call-scoped seen-set to avoid pushing
// the same gate onto the stack once per incoming edge on wide fan-in
// circuits.
func (c *Circuit) markCOI(seeds []*Gate) {
	pushed := newSeenSet(len(c.byIndex))
	var stack []*Gate
	counter := 0
	push := func(g *Gate) {
		if g.temp >= 0 || pushed.test(g.index) {
			return
		}
		pushed.set(g.index)
		stack = append(stack, g)
	}
	for _, s := range seeds {
		push(s)
	}
	for len(stack) > 0 {
		g := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if g.temp >= 0 {
			continue
		}
		g.temp = counter
		counter++
		for _, ch := range g.children() {
			push(ch)
		}
	}
}

// knuthPermutation builds a uniformly random bijection of {1,...,n} onto
// itself, seeded deterministically so that -permute_cnf=<seed> reproduces
// the same numbering across runs. perm[i] is the post-permutation number
// assigned to pre-permutation variable i; perm[0] is unused.
func knuthPermutation(n int, seed uint64) []int {
	perm := make([]int, n+1)
	for i := 1; i <= n; i++ {
		perm[i] = i
	}
	rng := rand.New(rand.NewSource(seed))
	for i := n; i > 1; i-- {
		j := rng.Intn(i) + 1
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}

// literalFor returns the DIMACS literal denoting child from the
// perspective of a clause being built for one of its parents. Under
// NOT-less encoding a NOT child contributes no variable of its own, so
// its literal is the negation of its own child's literal instead.
func literalFor(child *Gate, notless bool) int {
	if notless && child.kind == Not {
		return -child.childAt(0).temp
	}
	return child.temp
}

// gateClauses returns g's defining clauses given its already-assigned
// temp numbering, restricted to the requested polarities. pos=neg=true
// reproduces the unrestricted translation (gate.cc's cnf_get_clauses);
// any other combination is the polarity-restricted translation
// (cnf_get_clauses_polarity), collapsed into the same per-kind switch
// since the unrestricted form is exactly that function's both-true case.
func gateClauses(g *Gate, notless, pos, neg bool) [][]int {
	switch g.kind {
	case True, False, Var:
		return nil

	case Ref:
		if notless {
			panicInternal("gateClauses: REF gate #%d is forbidden under NOT-less encoding", g.index)
		}
		child := g.childAt(0)
		var out [][]int
		if pos {
			out = append(out, []int{-g.temp, child.temp}) // g -> c
		}
		if neg {
			out = append(out, []int{g.temp, -child.temp}) // -g -> -c
		}
		return out

	case Not:
		if notless {
			panicInternal("gateClauses: NOT gate #%d should have been skipped during numbering", g.index)
		}
		child := g.childAt(0)
		var out [][]int
		if pos {
			out = append(out, []int{-g.temp, -child.temp}) // g -> -c
		}
		if neg {
			out = append(out, []int{g.temp, child.temp}) // -g -> c
		}
		return out

	case Or:
		var out [][]int
		if pos {
			cl := make([]int, 1, g.nchildren+1)
			cl[0] = -g.temp
			for _, ch := range g.children() {
				cl = append(cl, literalFor(ch, notless))
			}
			out = append(out, cl) // g -> c1 | ... | cn
		}
		if neg {
			for _, ch := range g.children() {
				out = append(out, []int{g.temp, -literalFor(ch, notless)}) // -g -> -ci
			}
		}
		return out

	case And:
		var out [][]int
		if pos {
			for _, ch := range g.children() {
				out = append(out, []int{-g.temp, literalFor(ch, notless)}) // g -> ci
			}
		}
		if neg {
			cl := make([]int, 1, g.nchildren+1)
			cl[0] = g.temp
			for _, ch := range g.children() {
				cl = append(cl, -literalFor(ch, notless))
			}
			out = append(out, cl) // -g -> -c1 | ... | -cn
		}
		return out

	case Equiv, Even:
		l1, l2 := literalFor(g.childAt(0), notless), literalFor(g.childAt(1), notless)
		var out [][]int
		if pos {
			out = append(out, []int{-g.temp, -l1, l2})
			out = append(out, []int{-g.temp, l1, -l2})
		}
		if neg {
			out = append(out, []int{g.temp, -l1, -l2})
			out = append(out, []int{g.temp, l1, l2})
		}
		return out

	case Odd:
		l1, l2 := literalFor(g.childAt(0), notless), literalFor(g.childAt(1), notless)
		var out [][]int
		if pos {
			out = append(out, []int{-g.temp, -l1, -l2})
			out = append(out, []int{-g.temp, l1, l2})
		}
		if neg {
			out = append(out, []int{g.temp, -l1, l2})
			out = append(out, []int{g.temp, l1, -l2})
		}
		return out

	case Ite:
		ifLit := literalFor(g.childAt(0), notless)
		thenLit := literalFor(g.childAt(1), notless)
		elseLit := literalFor(g.childAt(2), notless)
		var out [][]int
		if pos {
			out = append(out, []int{-g.temp, -ifLit, thenLit})
			out = append(out, []int{-g.temp, ifLit, elseLit})
		}
		if neg {
			out = append(out, []int{g.temp, -ifLit, -thenLit})
			out = append(out, []int{g.temp, ifLit, -elseLit})
		}
		return out
	}
	panicInternal("gateClauses: unhandled kind %s for gate #%d", g.kind, g.index)
	return nil
}

// expectedClauseCount computes the same quantity as gateClauses's output
// length, independently, from the arithmetic formulas in gate.cc's
// cnf_count_clauses / cnf_count_clauses_polarity. Emit cross-checks the
// two on every gate, the Go equivalent of the assertion the original
// keeps between its separate counting and emission passes.
func expectedClauseCount(g *Gate, notless, pos, neg bool) int {
	b := func(v bool) int {
		if v {
			return 1
		}
		return 0
	}
	switch g.kind {
	case True, False, Var:
		return 0
	case Ref:
		if notless {
			panicInternal("expectedClauseCount: REF gate #%d is forbidden under NOT-less encoding", g.index)
		}
		return b(pos) + b(neg)
	case Not:
		if notless {
			panicInternal("expectedClauseCount: NOT gate #%d should have been skipped during numbering", g.index)
		}
		return b(pos) + b(neg)
	case Or:
		n := 0
		if pos {
			n++
		}
		if neg {
			n += g.nchildren
		}
		return n
	case And:
		n := 0
		if pos {
			n += g.nchildren
		}
		if neg {
			n++
		}
		return n
	case Equiv, Even, Odd, Ite:
		n := 0
		if pos {
			n += 2
		}
		if neg {
			n += 2
		}
		return n
	}
	panicInternal("expectedClauseCount: unhandled kind %s for gate #%d", g.kind, g.index)
	return 0
}
