package bench

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/circuitsec/keylock/pkg/circuit"
)

// Write serializes a netlist in bench format. The output re-parses to an
// equal netlist, and serializing a parsed netlist is stable byte for
// byte.
func Write(w io.Writer, n *circuit.Netlist) error {
	bw := bufio.NewWriter(w)

	for _, name := range n.Inputs {
		fmt.Fprintf(bw, "INPUT(%s)\n", name)
	}
	for _, name := range n.Outputs {
		fmt.Fprintf(bw, "OUTPUT(%s)\n", name)
	}
	for _, g := range n.Gates {
		fmt.Fprintf(bw, "%s\n", g.String())
	}

	return bw.Flush()
}

// WriteFile writes a netlist to a bench file. A non-empty title becomes
// a leading comment line.
func WriteFile(path string, n *circuit.Netlist, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create netlist file: %w", err)
	}
	defer f.Close()

	if title != "" {
		if _, err := fmt.Fprintf(f, "# %s\n", title); err != nil {
			return fmt.Errorf("failed to write netlist file: %w", err)
		}
	}
	if err := Write(f, n); err != nil {
		return fmt.Errorf("failed to write netlist file: %w", err)
	}
	return nil
}
