package bench

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Nodes holds the name identity of a netlist without its structure:
// primary inputs, primary outputs and gate-output names, each in file
// order. It is the cheap extraction mode used to build the valid-name
// set for detection-log filtering.
type Nodes struct {
	Inputs      []string
	Outputs     []string
	GateOutputs []string
}

// Valid returns the set of all node names.
func (n *Nodes) Valid() map[string]bool {
	valid := make(map[string]bool, len(n.Inputs)+len(n.Outputs)+len(n.GateOutputs))
	for _, name := range n.Inputs {
		valid[name] = true
	}
	for _, name := range n.Outputs {
		valid[name] = true
	}
	for _, name := range n.GateOutputs {
		valid[name] = true
	}
	return valid
}

// ParseNodes extracts only the node names from a bench description. Gate
// lines are not structurally validated beyond having a non-empty name
// left of '='.
func ParseNodes(r io.Reader) (*Nodes, error) {
	nodes := &Nodes{}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "INPUT("):
			m := inputRegex.FindStringSubmatch(line)
			if m == nil {
				return nil, &ParseError{Line: lineNo, Text: line, Reason: "malformed INPUT declaration"}
			}
			nodes.Inputs = append(nodes.Inputs, m[1])
		case strings.HasPrefix(line, "OUTPUT("):
			m := outputRegex.FindStringSubmatch(line)
			if m == nil {
				return nil, &ParseError{Line: lineNo, Text: line, Reason: "malformed OUTPUT declaration"}
			}
			nodes.Outputs = append(nodes.Outputs, m[1])
		case strings.Contains(line, "="):
			lhs, _, _ := strings.Cut(line, "=")
			name := strings.TrimSpace(lhs)
			if name == "" {
				return nil, &ParseError{Line: lineNo, Text: line, Reason: "empty gate output name"}
			}
			nodes.GateOutputs = append(nodes.GateOutputs, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading netlist: %w", err)
	}

	return nodes, nil
}

// ParseNodesFile extracts node names from a bench file.
func ParseNodesFile(path string) (*Nodes, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open netlist: %w", err)
	}
	defer f.Close()

	nodes, err := ParseNodes(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nodes, nil
}
