package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/circuitsec/keylock/internal/logger"
	"github.com/circuitsec/keylock/pkg/bench"
	"github.com/circuitsec/keylock/pkg/lock"
)

var (
	lockLogPath string
	lockKeys    int
	lockOut     string
)

var lockCmd = &cobra.Command{
	Use:   "lock <netlist.bench>",
	Short: "Insert XOR key-gates into a netlist",
	Long: `Lock a bench netlist by inserting XOR key-gates at internal nodes.

Nodes are ranked by how often their faults appear in the given
fault-simulator detection log; the top nodes are locked, one key input
per node. The correct key for the locked design is all zeros.

Examples:
  keylock lock c432.bench --log c432_log --keys 8
  keylock lock c432.bench --log c432_log --keys 16 --out c432_locked.bench`,
	Args: cobra.ExactArgs(1),
	RunE: runLock,
}

func init() {
	rootCmd.AddCommand(lockCmd)

	lockCmd.Flags().StringVarP(&lockLogPath, "log", "l", "",
		"fault-simulator detection log used to rank nodes (required)")
	lockCmd.Flags().IntVarP(&lockKeys, "keys", "k", 8,
		"number of key-gates to insert")
	lockCmd.Flags().StringVarP(&lockOut, "out", "o", "",
		"output path (default: <netlist>_locked.bench)")
	lockCmd.MarkFlagRequired("log")
}

func runLock(cmd *cobra.Command, args []string) error {
	benchPath := args[0]
	log := logger.Logger()

	if lockKeys <= 0 {
		return fmt.Errorf("key width must be positive, got %d", lockKeys)
	}

	nodes, err := bench.ParseNodesFile(benchPath)
	if err != nil {
		return err
	}

	logFile, err := os.Open(lockLogPath)
	if err != nil {
		return fmt.Errorf("failed to open detection log: %w", err)
	}
	counts, err := lock.CountDetections(logFile, nodes.Valid())
	logFile.Close()
	if err != nil {
		return err
	}

	netlist, err := bench.ParseFile(benchPath)
	if err != nil {
		return err
	}

	ranked := lock.RankByDetections(lock.InternalNodes(netlist), counts)
	if lockKeys > len(ranked) {
		log.Warn().
			Int("requested", lockKeys).
			Int("available", len(ranked)).
			Msg("fewer internal nodes than requested key-gates, locking all of them")
	}

	locked, keyNames, err := lock.Insert(netlist, ranked, lockKeys)
	if err != nil {
		return err
	}
	for _, node := range ranked[:len(keyNames)] {
		log.Info().
			Str("node", node).
			Int("detections", counts[node]).
			Msg("selected lock node")
	}

	outPath := lockOut
	if outPath == "" {
		outPath = strings.TrimSuffix(benchPath, ".bench") + "_locked.bench"
	}
	title := fmt.Sprintf("Locked %s with %d key-gates", filepath.Base(benchPath), len(keyNames))
	if err := bench.WriteFile(outPath, locked, title); err != nil {
		return err
	}

	log.Info().Str("path", outPath).Msg("locked netlist written")
	log.Info().
		Str("keys", strings.Join(keyNames, ", ")).
		Msg("key inputs added; correct key is all zeros")
	return nil
}
