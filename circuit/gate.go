package circuit

// Gate is one operator node in the shared circuit DAG. Fields are kept on
// the node itself rather than in index-keyed side tables: the DAG already
// pays for a struct allocation per gate, so the per-pass scratch fields
// (temp, mirPos, mirNeg, inPstack) cost nothing extra to carry here, and
// having them inline keeps the simplifier's hot dispatch loop free of map
// lookups. Transient, call-scoped seen-sets (cone-of-influence marking
// during emission) instead use a bitset.BitSet side table, since that one
// is allocated once per call rather than living for a whole pass; smaller
// local scans (duplicate-child/parity-pair detection, pstack membership)
// use a plain map or bool field instead, since they're sized per-gate
// rather than per-circuit.
type Gate struct {
	kind  Kind
	index int // stable, dense, assigned once, never reused

	childrenHead, childrenTail *childAssoc
	nchildren                  int
	parents                    *childAssoc // head of the parent chain
	nparents                   int

	determined bool
	value      bool

	tmin, tmax int // THRESHOLD: both; ATLEAST: tmin only

	name    string // VAR name, or empty
	handles []string

	// Scratch, valid only within the pass that set it; must be restored to
	// its rest value (0, or -1 for the COI convention) before the pass
	// returns control to the caller.
	temp int

	inPstack    bool
	pstackNext  *Gate

	mirPos, mirNeg bool

	next *Gate // successor in the circuit's global in-order list
}

// Kind returns the gate's operator tag.
func (g *Gate) Kind() Kind { return g.kind }

// Index returns the gate's stable, dense identity.
func (g *Gate) Index() int { return g.index }

// Determined reports whether g has been asserted to a fixed truth value,
// and if so, which.
func (g *Gate) Determined() (bool, bool) { return g.determined, g.value }

// NumChildren returns the current number of ordered child edges.
func (g *Gate) NumChildren() int { return g.nchildren }

// Children returns a fresh slice with g's children in edge order.
func (g *Gate) Children() []*Gate { return g.children() }

// NumParents returns the current number of incoming edges.
func (g *Gate) NumParents() int { return g.nparents }

// Handles returns the externally-visible names attached to g.
func (g *Gate) Handles() []string { return g.handles }

// Name returns the VAR name, or "" for any other kind.
func (g *Gate) Name() string { return g.name }

// Tmin, Tmax expose the cardinality bounds (THRESHOLD: both meaningful;
// ATLEAST: only Tmin).
func (g *Gate) Tmin() int { return g.tmin }
func (g *Gate) Tmax() int { return g.tmax }

// Number returns g's current scratch-field numbering, as assigned by the
// most recent Emit or ExportNumbering call. Outside such a call it holds
// a scratch rest value instead: -1 once an Emit or ExportNumbering reset
// has run over the gate, 0 on a gate created since then (factorShared
// also leaves the gates it inspects at 0).
func (g *Gate) Number() int { return g.temp }

// addHandle attaches a new externally-visible name to g, deduplicating.
func (g *Gate) addHandle(h string) {
	for _, have := range g.handles {
		if have == h {
			return
		}
	}
	g.handles = append(g.handles, h)
}

// migrateHandlesTo moves all of g's handles onto target and clears g's.
func (g *Gate) migrateHandlesTo(target *Gate) {
	for _, h := range g.handles {
		target.addHandle(h)
	}
	g.handles = nil
}

// isOrphan reports whether g has no parents, no handles, and no
// determined value: the "universal precondition" garbage-collection test
// applied at the top of every simplifier step.
func (g *Gate) isOrphan() bool {
	return g.nparents == 0 && len(g.handles) == 0 && !g.determined
}

// clearScratch sets the per-pass scratch fields to 0/false. Nothing in
// this package calls it: Emit and ExportNumbering restore temp to -1
// through their own reset instead, which is what circuit_test.go's
// scratch property test checks.
func (g *Gate) clearScratch() {
	g.temp = 0
	g.inPstack = false
	g.mirPos, g.mirNeg = false, false
}
