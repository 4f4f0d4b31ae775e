// Package bench reads and writes combinational netlists in the flat
// bench format: INPUT(x), OUTPUT(x) and gate lines of the form
// "lhs = OP(arg, arg, ...)".
package bench

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/circuitsec/keylock/pkg/circuit"
)

// Regular expressions for parsing the bench format
var (
	inputRegex  = regexp.MustCompile(`^INPUT\((\w+)\)$`)
	outputRegex = regexp.MustCompile(`^OUTPUT\((\w+)\)$`)
	rhsRegex    = regexp.MustCompile(`^([A-Z]+)\((.*)\)$`)
)

// ParseError reports a malformed netlist line. It carries the 1-based
// line number and the offending text so the failure can be diagnosed
// without re-running the parse.
type ParseError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// Parse reads a complete bench description and returns the netlist.
// Blank lines and lines starting with '#' are skipped. Opcodes are any
// run of uppercase letters; whether an opcode is supported is decided by
// the evaluator at simulation time, not here.
func Parse(r io.Reader) (*circuit.Netlist, error) {
	n := &circuit.Netlist{}
	driven := make(map[string]int)
	inputSet := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "INPUT(") {
			m := inputRegex.FindStringSubmatch(line)
			if m == nil {
				return nil, &ParseError{Line: lineNo, Text: line, Reason: "malformed INPUT declaration"}
			}
			if driven[m[1]] > 0 {
				return nil, &ParseError{Line: lineNo, Text: line, Reason: "input name already driven by a gate"}
			}
			n.Inputs = append(n.Inputs, m[1])
			inputSet[m[1]] = true
			continue
		}

		if strings.HasPrefix(line, "OUTPUT(") {
			m := outputRegex.FindStringSubmatch(line)
			if m == nil {
				return nil, &ParseError{Line: lineNo, Text: line, Reason: "malformed OUTPUT declaration"}
			}
			n.Outputs = append(n.Outputs, m[1])
			continue
		}

		if strings.Contains(line, "=") {
			gate, err := parseGateLine(line, lineNo)
			if err != nil {
				return nil, err
			}
			if inputSet[gate.Output] {
				return nil, &ParseError{Line: lineNo, Text: line, Reason: "gate drives a primary input"}
			}
			if driven[gate.Output] > 0 {
				return nil, &ParseError{Line: lineNo, Text: line, Reason: "signal driven by more than one gate"}
			}
			driven[gate.Output]++
			n.Gates = append(n.Gates, gate)
		}
		// Other lines carry no structure and are ignored.
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading netlist: %w", err)
	}

	return n, nil
}

func parseGateLine(line string, lineNo int) (circuit.Gate, error) {
	lhs, rhs, _ := strings.Cut(line, "=")
	output := strings.TrimSpace(lhs)
	if output == "" {
		return circuit.Gate{}, &ParseError{Line: lineNo, Text: line, Reason: "empty gate output name"}
	}

	m := rhsRegex.FindStringSubmatch(strings.TrimSpace(rhs))
	if m == nil {
		return circuit.Gate{}, &ParseError{Line: lineNo, Text: line, Reason: "cannot parse gate expression"}
	}

	var operands []string
	for _, a := range strings.Split(m[2], ",") {
		if a = strings.TrimSpace(a); a != "" {
			operands = append(operands, a)
		}
	}
	if len(operands) == 0 {
		return circuit.Gate{}, &ParseError{Line: lineNo, Text: line, Reason: "gate has no operands"}
	}

	return circuit.Gate{Output: output, Op: m[1], Operands: operands}, nil
}

// ParseFile reads and parses a bench file.
func ParseFile(path string) (*circuit.Netlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open netlist: %w", err)
	}
	defer f.Close()

	n, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return n, nil
}
