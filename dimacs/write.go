// Package dimacs serializes a Circuit's translated form to the three
// external text formats: DIMACS CNF, extended non-clausal DIMACS
// (E-DIMACS), and ISCAS89. ReadEDimacs is the inverse of WriteEDimacs,
// reconstructing a Circuit from an E-DIMACS stream.
package dimacs

import (
	"bufio"
	"fmt"
	"io"

	"golang.org/x/exp/slices"

	"github.com/rhuizer/bcsat/circuit"
)

// WriteCNF serializes cnf as a standard DIMACS CNF file: the `p cnf V C`
// header, a translator banner comment, a `c name=literal` line per named
// gate, then one clause per line.
//
// Grounded on gophersat/solver/problem.go's Problem.CNF and bf.Dimacs, the
// teacher's own DIMACS-writing idiom.
func WriteCNF(w io.Writer, cnf *circuit.CNF) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "p cnf %d %d\n", cnf.NumVars, len(cnf.Clauses)); err != nil {
		return err
	}
	if _, err := io.WriteString(bw, "c translated from a Boolean circuit\n"); err != nil {
		return err
	}

	names := append([]circuit.NameLiteral(nil), cnf.Names...)
	slices.SortFunc(names, func(a, b circuit.NameLiteral) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		default:
			return 0
		}
	})
	for _, n := range names {
		if _, err := fmt.Fprintf(bw, "c %s=%d\n", n.Name, n.Literal); err != nil {
			return err
		}
	}

	for _, clause := range cnf.Clauses {
		for _, lit := range clause {
			if _, err := fmt.Fprintf(bw, "%d ", lit); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(bw, "0\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteTrivialUNSAT writes the fixed two-clause body a driver substitutes
// for WriteCNF's normal output once it has already proven the instance
// unsatisfiable during simplification, per spec.md §6.
func WriteTrivialUNSAT(w io.Writer) error {
	_, err := io.WriteString(w, "p cnf 1 2\n1 0\n-1 0\n")
	return err
}

// edimacs op-codes, per spec.md §6 and gate.cc::edimacs_print.
const (
	opFalse     = 1
	opTrue      = 2
	opNot       = 3
	opAnd       = 4
	opOr        = 6
	opOdd       = 8
	opEven      = 9
	opEquiv     = 11
	opIte       = 12
	opAtleast   = 13
	opThreshold = 15
)

// WriteEDimacs numbers c's relevant gates (via circuit.ExportNumbering,
// using opts as given, though NOT-less encoding is meaningless here: the
// format has its own NOT op-code and never folds a negation into a
// literal) and prints one line per surviving non-VAR gate:
// `<op-code> <param-count> [<params>] <output-var> <children…> 0`.
// EQUIV and ITE are required at their canonical arity (2 and 3
// respectively, matching gate.cc's own assertions); a THRESHOLD is written
// only when its bounds are equal (the record carries one parameter), and
// one with unequal bounds is reported as an error. Every gate's children
// are written before the gate itself.
//
// Grounded on gate.cc::edimacs_print/edimacs_print_children (lines
// 4480-4600).
func WriteEDimacs(w io.Writer, c *circuit.Circuit, opts circuit.EmitOptions) error {
	opts.NotLess = false
	numbered, _, reset := c.ExportNumbering(opts)
	defer reset()

	bw := bufio.NewWriter(w)
	if _, err := io.WriteString(bw, "c extended DIMACS translation of a Boolean circuit\n"); err != nil {
		return err
	}
	for _, g := range numbered {
		for _, h := range g.Handles() {
			if _, err := fmt.Fprintf(bw, "c %s=%d\n", h, g.Number()); err != nil {
				return err
			}
		}
	}

	written := make(map[*circuit.Gate]bool, len(numbered))
	var writeTree func(g *circuit.Gate) error
	writeTree = func(g *circuit.Gate) error {
		if written[g] {
			return nil
		}
		written[g] = true
		for _, ch := range g.Children() {
			if err := writeTree(ch); err != nil {
				return err
			}
		}
		return writeEDimacsLine(bw, g)
	}
	for _, g := range numbered {
		if err := writeTree(g); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeEDimacsLine(bw *bufio.Writer, g *circuit.Gate) error {
	children := g.Children()

	writeRecord := func(op, paramCount int, params ...int) error {
		if _, err := fmt.Fprintf(bw, "%d %d ", op, paramCount); err != nil {
			return err
		}
		for _, p := range params {
			if _, err := fmt.Fprintf(bw, "%d ", p); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(bw, "%d ", g.Number()); err != nil {
			return err
		}
		for _, ch := range children {
			if _, err := fmt.Fprintf(bw, "%d ", ch.Number()); err != nil {
				return err
			}
		}
		_, err := io.WriteString(bw, "0\n")
		return err
	}

	switch g.Kind() {
	case circuit.False:
		return writeRecord(opFalse, -1)
	case circuit.True:
		return writeRecord(opTrue, -1)
	case circuit.Var:
		return nil
	case circuit.Not:
		return writeRecord(opNot, -1)
	case circuit.And:
		return writeRecord(opAnd, -1)
	case circuit.Or:
		return writeRecord(opOr, -1)
	case circuit.Odd:
		return writeRecord(opOdd, -1)
	case circuit.Even:
		return writeRecord(opEven, -1)
	case circuit.Equiv:
		if len(children) != 2 {
			return fmt.Errorf("edimacs: EQUIV gate #%d has arity %d, want 2", g.Index(), len(children))
		}
		return writeRecord(opEquiv, -1)
	case circuit.Ite:
		if len(children) != 3 {
			return fmt.Errorf("edimacs: ITE gate #%d has arity %d, want 3", g.Index(), len(children))
		}
		return writeRecord(opIte, -1)
	case circuit.Atleast:
		return writeRecord(opAtleast, 1, g.Tmin())
	case circuit.Threshold:
		if g.Tmin() != g.Tmax() {
			return fmt.Errorf("edimacs: THRESHOLD gate #%d has unequal bounds [%d,%d], not yet normalized", g.Index(), g.Tmin(), g.Tmax())
		}
		return writeRecord(opThreshold, 1, g.Tmin())
	default:
		return fmt.Errorf("edimacs: gate #%d has kind %s, not representable", g.Index(), g.Kind())
	}
}

// WriteISCAS89 lowers EQUIV/EVEN to NOT(XOR(…)) at print time (some
// ISCAS89 consumers reject IFF) and writes one `g_<index> = OP(args)`
// assignment per non-input gate, followed by a `# g_<index> <- name`
// comment per externally-visible handle. The circuit must already be in
// full CNF normal form: REF, THRESHOLD and ATLEAST reaching this writer
// are a caller error, matching gate.cc::write_iscas89's own internal_error
// cases.
//
// Grounded on gate.cc::write_iscas89/write_iscas89_children/
// write_iscas89_name/write_iscas89_map (lines 4612-4750).
func WriteISCAS89(w io.Writer, c *circuit.Circuit, opts circuit.EmitOptions) error {
	opts.NotLess = false
	numbered, _, reset := c.ExportNumbering(opts)
	defer reset()

	bw := bufio.NewWriter(w)
	xorTemp := 0
	for _, g := range numbered {
		if err := writeISCAS89Line(bw, g, &xorTemp); err != nil {
			return err
		}
	}
	for _, g := range numbered {
		for _, h := range g.Handles() {
			if _, err := fmt.Fprintf(bw, "# g_%d <- %s\n", g.Index(), h); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

func gateName(g *circuit.Gate) string { return fmt.Sprintf("g_%d", g.Index()) }

func writeISCAS89Children(bw *bufio.Writer, children []*circuit.Gate) error {
	for i, ch := range children {
		if i > 0 {
			if _, err := io.WriteString(bw, ","); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(bw, gateName(ch)); err != nil {
			return err
		}
	}
	return nil
}

func writeISCAS89Line(bw *bufio.Writer, g *circuit.Gate, xorTemp *int) error {
	children := g.Children()

	switch g.Kind() {
	case circuit.False, circuit.True, circuit.Var:
		return nil

	case circuit.Equiv, circuit.Even:
		if len(children) != 2 {
			return fmt.Errorf("iscas89: %s gate #%d has arity %d, want 2", g.Kind(), g.Index(), len(children))
		}
		*xorTemp++
		xorName := fmt.Sprintf("%s_xor%d", gateName(g), *xorTemp)
		if _, err := fmt.Fprintf(bw, "%s = XOR(", xorName); err != nil {
			return err
		}
		if err := writeISCAS89Children(bw, children); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(bw, ")\n%s = NOT(%s)\n", gateName(g), xorName); err != nil {
			return err
		}
		return nil

	case circuit.Odd:
		if len(children) != 2 {
			return fmt.Errorf("iscas89: ODD gate #%d has arity %d, want 2", g.Index(), len(children))
		}
		return writeISCAS89Op(bw, g, "XOR", children)

	case circuit.Ite:
		if len(children) != 3 {
			return fmt.Errorf("iscas89: ITE gate #%d has arity %d, want 3", g.Index(), len(children))
		}
		return writeISCAS89Op(bw, g, "ITE", children)

	case circuit.Not:
		if len(children) != 1 {
			return fmt.Errorf("iscas89: NOT gate #%d has arity %d, want 1", g.Index(), len(children))
		}
		return writeISCAS89Op(bw, g, "NOT", children)

	case circuit.Or:
		return writeISCAS89Op(bw, g, "OR", children)

	case circuit.And:
		return writeISCAS89Op(bw, g, "AND", children)

	default:
		return fmt.Errorf("iscas89: gate #%d has kind %s, not representable (circuit not fully CNF-normalized)", g.Index(), g.Kind())
	}
}

func writeISCAS89Op(bw *bufio.Writer, g *circuit.Gate, op string, children []*circuit.Gate) error {
	if _, err := fmt.Fprintf(bw, "%s = %s(", gateName(g), op); err != nil {
		return err
	}
	if err := writeISCAS89Children(bw, children); err != nil {
		return err
	}
	_, err := io.WriteString(bw, ")\n")
	return err
}
