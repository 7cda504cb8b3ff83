package dimacs

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rhuizer/bcsat/circuit"
)

// ReadEDimacs parses an extended-DIMACS stream (as produced by
// WriteEDimacs) into a freshly built Circuit. Every gate is installed
// through the circuit's own New* factories, so the result is subject to
// exactly the same arity and cardinality invariants as a circuit built by
// the bc parser.
//
// WriteEDimacs writes every gate's children before the gate itself, so in
// its output a number referenced as a child before its own definition
// line can only be a VAR gate, which has no definition line at all; any
// number seen only as a child is therefore resolved, on first
// reference, to a fresh free input variable — the E-DIMACS analogue of how
// an undefined name in a BC file resolves to a VAR.
func ReadEDimacs(r io.Reader, filename string) (*circuit.Circuit, error) {
	c := circuit.New(nil)
	gates := make(map[int]*circuit.Gate)

	get := func(n int) *circuit.Gate {
		if g, ok := gates[n]; ok {
			return g
		}
		g := c.NewVar(fmt.Sprintf("v%d", n))
		gates[n] = g
		return g
	}

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "c") || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Fields(text)
		nums := make([]int, len(fields))
		for i, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, &circuit.ParseError{File: filename, Line: lineNo, Reason: fmt.Sprintf("malformed token %q", f)}
			}
			nums[i] = v
		}
		if len(nums) == 0 || nums[len(nums)-1] != 0 {
			return nil, &circuit.ParseError{File: filename, Line: lineNo, Reason: "record not terminated by 0"}
		}
		nums = nums[:len(nums)-1]
		if len(nums) < 2 {
			return nil, &circuit.ParseError{File: filename, Line: lineNo, Reason: "record too short"}
		}

		op, paramCount := nums[0], nums[1]
		rest := nums[2:]

		var params []int
		if paramCount > 0 {
			if len(rest) < paramCount {
				return nil, &circuit.ParseError{File: filename, Line: lineNo, Reason: "fewer params than declared"}
			}
			params, rest = rest[:paramCount], rest[paramCount:]
		}
		if len(rest) < 1 {
			return nil, &circuit.ParseError{File: filename, Line: lineNo, Reason: "record has no output variable"}
		}
		out, childNums := rest[0], rest[1:]

		children := make([]*circuit.Gate, len(childNums))
		for i, n := range childNums {
			children[i] = get(n)
		}

		var g *circuit.Gate
		switch op {
		case opFalse:
			g = c.NewFalse()
		case opTrue:
			g = c.NewTrue()
		case opNot:
			if len(children) != 1 {
				return nil, &circuit.ParseError{File: filename, Line: lineNo, Reason: "NOT record needs exactly one child"}
			}
			g = c.NewNot(children[0])
		case opAnd:
			if len(children) == 0 {
				return nil, &circuit.ParseError{File: filename, Line: lineNo, Reason: "AND record needs at least one child"}
			}
			g = c.NewAnd(children...)
		case opOr:
			if len(children) == 0 {
				return nil, &circuit.ParseError{File: filename, Line: lineNo, Reason: "OR record needs at least one child"}
			}
			g = c.NewOr(children...)
		case opOdd:
			g = c.NewOdd(children...)
		case opEven:
			g = c.NewEven(children...)
		case opEquiv:
			g = c.NewEquiv(children...)
		case opIte:
			if len(children) != 3 {
				return nil, &circuit.ParseError{File: filename, Line: lineNo, Reason: "ITE record needs exactly three children"}
			}
			g = c.NewIte(children[0], children[1], children[2])
		case opAtleast:
			if len(params) != 1 {
				return nil, &circuit.ParseError{File: filename, Line: lineNo, Reason: "ATLEAST record needs exactly one param"}
			}
			g = c.NewAtleast(params[0], children...)
		case opThreshold:
			if len(params) != 1 {
				return nil, &circuit.ParseError{File: filename, Line: lineNo, Reason: "THRESHOLD record needs exactly one param"}
			}
			g = c.NewThreshold(params[0], params[0], children...)
		default:
			return nil, &circuit.ParseError{File: filename, Line: lineNo, Reason: fmt.Sprintf("unknown op-code %d", op)}
		}

		if existing, ok := gates[out]; ok {
			return nil, &circuit.ParseError{File: filename, Line: lineNo, Reason: fmt.Sprintf("gate %d redefined (was %s)", out, existing.Kind())}
		}
		gates[out] = g
	}
	if err := sc.Err(); err != nil {
		return nil, &circuit.IOError{Path: filename, Err: err}
	}
	return c, nil
}
