package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/circuitsec/keylock/internal/logger"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "keylock",
	Short: "XOR logic locking for bench-format netlists",
	Long: `keylock inserts key-controlled XOR gates into combinational netlists
in the flat bench format and evaluates the result:

  - lock:   choose internal nodes from a fault-detection log, insert one
            XOR key-gate per node, and write the locked netlist
  - verify: check functional equivalence under the correct (all-zero)
            key and measure output corruption under wrong keys

Examples:
  keylock lock c432.bench --log c432_log --keys 16
  keylock verify c432.bench c432_locked.bench --patterns 1000`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetLevel(zerolog.DebugLevel)
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
