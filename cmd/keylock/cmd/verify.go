package cmd

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/circuitsec/keylock/internal/logger"
	"github.com/circuitsec/keylock/pkg/bench"
	"github.com/circuitsec/keylock/pkg/sim"
)

var (
	verifyPatterns int
	verifySeed     int64
	verifyKeys     []string
	verifyWorkers  int
)

var verifyCmd = &cobra.Command{
	Use:   "verify <original.bench> <locked.bench>",
	Short: "Verify a locked netlist and measure wrong-key corruption",
	Long: `Verify that a locked netlist is functionally equivalent to the
original under the correct (all-zero) key, then report the pattern
mismatch rate and bit-flip rate under wrong keys.

Key inputs are the locked netlist's primary inputs that the original
netlist does not declare. Wrong keys default to all-ones, alternating
and single-bit patterns; pass --keys to test specific ones.

Examples:
  keylock verify c432.bench c432_locked.bench
  keylock verify c432.bench c432_locked.bench --patterns 5000 --keys 10000001,11110000`,
	Args: cobra.ExactArgs(2),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().IntVarP(&verifyPatterns, "patterns", "n", 1000,
		"random input patterns per key")
	verifyCmd.Flags().Int64VarP(&verifySeed, "seed", "s", 1,
		"seed for the random pattern generator")
	verifyCmd.Flags().StringSliceVarP(&verifyKeys, "keys", "k", nil,
		"wrong keys to evaluate, as 0/1 strings")
	verifyCmd.Flags().IntVarP(&verifyWorkers, "workers", "w", runtime.NumCPU(),
		"parallel simulation workers")
}

func runVerify(cmd *cobra.Command, args []string) error {
	log := logger.Logger()

	orig, err := bench.ParseFile(args[0])
	if err != nil {
		return err
	}
	locked, err := bench.ParseFile(args[1])
	if err != nil {
		return err
	}

	logicInputs := orig.Inputs
	keyInputs := keyInputsOf(orig.Inputs, locked.Inputs)
	log.Debug().
		Int("logic_inputs", len(logicInputs)).
		Int("key_inputs", len(keyInputs)).
		Int("outputs", len(orig.Outputs)).
		Msg("netlists loaded")

	correctKey := make([]bool, len(keyInputs))
	rates, err := sim.CompareForKeyParallel(orig, locked, logicInputs, keyInputs, correctKey,
		verifyPatterns, verifyWorkers, verifySeed)
	if err != nil {
		return err
	}
	if rates.PatternMismatch != 0 {
		return fmt.Errorf("locked netlist is not equivalent under the all-zero key: pattern mismatch rate %.3f over %d patterns",
			rates.PatternMismatch, verifyPatterns)
	}
	fmt.Printf("correct key %s: equivalent over %d random patterns\n",
		keyString(correctKey), verifyPatterns)

	if len(keyInputs) == 0 {
		log.Warn().Msg("locked netlist declares no key inputs, skipping wrong-key evaluation")
		return nil
	}

	wrongKeys, err := wrongKeysToTest(len(keyInputs))
	if err != nil {
		return err
	}
	for _, key := range wrongKeys {
		if allZero(key) {
			continue
		}
		rates, err := sim.CompareForKeyParallel(orig, locked, logicInputs, keyInputs, key,
			verifyPatterns, verifyWorkers, verifySeed)
		if err != nil {
			return err
		}
		fmt.Printf("wrong key %s: pattern mismatch rate = %.3f, bit-flip rate = %.3f\n",
			keyString(key), rates.PatternMismatch, rates.BitFlip)
	}
	return nil
}

// keyInputsOf returns the locked netlist's inputs that the original does
// not declare, preserving order.
func keyInputsOf(origInputs, lockedInputs []string) []string {
	origSet := make(map[string]bool, len(origInputs))
	for _, name := range origInputs {
		origSet[name] = true
	}
	var keys []string
	for _, name := range lockedInputs {
		if !origSet[name] {
			keys = append(keys, name)
		}
	}
	return keys
}

// wrongKeysToTest returns the keys from --keys, or the default presets:
// all-ones, alternating, and a single flipped bit.
func wrongKeysToTest(width int) ([][]bool, error) {
	if len(verifyKeys) > 0 {
		keys := make([][]bool, 0, len(verifyKeys))
		for _, s := range verifyKeys {
			key, err := parseKeyBits(s, width)
			if err != nil {
				return nil, err
			}
			keys = append(keys, key)
		}
		return keys, nil
	}

	allOnes := make([]bool, width)
	alternating := make([]bool, width)
	singleBit := make([]bool, width)
	for i := range allOnes {
		allOnes[i] = true
		alternating[i] = i%2 == 0
	}
	singleBit[min(3, width-1)] = true
	return [][]bool{allOnes, alternating, singleBit}, nil
}

func parseKeyBits(s string, width int) ([]bool, error) {
	if len(s) != width {
		return nil, fmt.Errorf("key %q has %d bits, locked netlist has %d key inputs", s, len(s), width)
	}
	key := make([]bool, width)
	for i, r := range s {
		switch r {
		case '0':
		case '1':
			key[i] = true
		default:
			return nil, fmt.Errorf("key %q: invalid bit %q at position %d", s, r, i)
		}
	}
	return key, nil
}

func keyString(key []bool) string {
	if len(key) == 0 {
		return "<empty>"
	}
	var b strings.Builder
	for _, bit := range key {
		if bit {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func allZero(key []bool) bool {
	for _, bit := range key {
		if bit {
			return false
		}
	}
	return true
}
