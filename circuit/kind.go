package circuit

// Kind tags the operator a Gate represents. The set is closed: every rule
// in the simplifier and normalizer dispatches on Kind, never on a Go type
// switch over Gate subtypes.
type Kind byte

const (
	// Undef is a placeholder used while a gate is still being constructed,
	// e.g. a forward reference in the BC parser before its definition is
	// seen.
	Undef Kind = iota
	// Deleted marks a tombstoned gate: no edges, no handles, index retained.
	Deleted
	// True is the constant tautology.
	True
	// False is the constant contradiction.
	False
	// Var is a free, externally-named input variable.
	Var
	// Ref is a transparent alias for its single child; eliminated by both
	// the simplifier and the CNF normalizer.
	Ref
	// Not negates its single child.
	Not
	// And is the conjunction of >=1 children (commutative).
	And
	// Or is the disjunction of >=1 children (commutative).
	Or
	// Equiv asserts all children have the same truth value (commutative,
	// n-ary before CNF normalization; exactly binary after).
	Equiv
	// Odd asserts an odd number of children are true (xor, commutative,
	// n-ary before CNF normalization; exactly binary after).
	Odd
	// Even asserts an even number of children are true (xnor, commutative,
	// n-ary before CNF normalization; exactly binary after).
	Even
	// Ite is if/then/else over exactly three ordered children.
	Ite
	// Threshold asserts the number of true children lies in [Tmin,Tmax].
	Threshold
	// Atleast asserts at least Tmin children are true.
	Atleast
)

var kindNames = [...]string{
	Undef:     "UNDEF",
	Deleted:   "DELETED",
	True:      "TRUE",
	False:     "FALSE",
	Var:       "VAR",
	Ref:       "REF",
	Not:       "NOT",
	And:       "AND",
	Or:        "OR",
	Equiv:     "EQUIV",
	Odd:       "ODD",
	Even:      "EVEN",
	Ite:       "ITE",
	Threshold: "THRESHOLD",
	Atleast:   "ATLEAST",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "INVALID_KIND"
}

// Commutative reports whether the operand order of a gate of this kind is
// semantically irrelevant (though it is still sorted, deterministically,
// before structural hashing).
func (k Kind) Commutative() bool {
	switch k {
	case And, Or, Equiv, Odd, Even, Threshold, Atleast:
		return true
	default:
		return false
	}
}

// MinArity returns the minimum number of children a gate of this kind must
// have, per the arity invariant in the data model.
func (k Kind) MinArity() int {
	switch k {
	case Not, Ref:
		return 1
	case Ite:
		return 3
	case And, Or, Equiv, Odd, Even, Threshold, Atleast:
		return 1
	default:
		return 0
	}
}

// FixedArity reports the exact arity for kinds that don't vary (0 for
// leaves, 1 for unary, 3 for ITE), or -1 for variable-arity kinds.
func (k Kind) FixedArity() int {
	switch k {
	case True, False, Var:
		return 0
	case Not, Ref:
		return 1
	case Ite:
		return 3
	default:
		return -1
	}
}
