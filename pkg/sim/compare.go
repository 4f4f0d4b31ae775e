package sim

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/circuitsec/keylock/pkg/circuit"
)

// Rates holds the corruption metrics for one key.
type Rates struct {
	// PatternMismatch is the fraction of trials where the locked
	// outputs differed from the original in at least one position.
	PatternMismatch float64
	// BitFlip is the fraction of individual output bits, across all
	// trials, that differed.
	BitFlip float64
}

// UnknownInputError reports a locked-netlist input that is neither a
// logic input nor a key input.
type UnknownInputError struct {
	Name string
}

func (e *UnknownInputError) Error() string {
	return fmt.Sprintf("locked input %q is neither a logic input nor a key input", e.Name)
}

// KeyWidthError reports a key whose bit count does not match the number
// of key inputs.
type KeyWidthError struct {
	Want int
	Got  int
}

func (e *KeyWidthError) Error() string {
	return fmt.Sprintf("key has %d bits, locked netlist has %d key inputs", e.Got, e.Want)
}

type tally struct {
	mismatches int
	flipped    int
	totalBits  int
	patterns   int
}

func (t *tally) add(o tally) {
	t.mismatches += o.mismatches
	t.flipped += o.flipped
	t.totalBits += o.totalBits
	t.patterns += o.patterns
}

func (t tally) rates() Rates {
	r := Rates{}
	if t.patterns > 0 {
		r.PatternMismatch = float64(t.mismatches) / float64(t.patterns)
	}
	if t.totalBits > 0 {
		r.BitFlip = float64(t.flipped) / float64(t.totalBits)
	}
	return r
}

// keyVector positionally aligns key bits with key-input names and
// verifies that every locked input is accounted for.
func keyVector(locked *circuit.Netlist, logicInputs, keyInputs []string, key []bool) (map[string]bool, error) {
	if len(key) != len(keyInputs) {
		return nil, &KeyWidthError{Want: len(keyInputs), Got: len(key)}
	}

	keyVec := make(map[string]bool, len(keyInputs))
	for i, name := range keyInputs {
		keyVec[name] = key[i]
	}

	logicSet := make(map[string]bool, len(logicInputs))
	for _, name := range logicInputs {
		logicSet[name] = true
	}
	for _, name := range locked.Inputs {
		if !logicSet[name] {
			if _, ok := keyVec[name]; !ok {
				return nil, &UnknownInputError{Name: name}
			}
		}
	}
	return keyVec, nil
}

// compareTrials runs the given number of independent random trials and
// accumulates mismatch counts.
func compareTrials(orig, locked *circuit.Netlist, logicInputs []string, keyVec map[string]bool, patterns int, src BitSource) (tally, error) {
	var t tally
	for trial := 0; trial < patterns; trial++ {
		logicVec := RandomVector(logicInputs, src)

		gold, err := Simulate(orig, logicVec)
		if err != nil {
			return tally{}, fmt.Errorf("original netlist: %w", err)
		}

		lockedVec := make(map[string]bool, len(logicVec)+len(keyVec))
		for name, v := range logicVec {
			lockedVec[name] = v
		}
		for name, v := range keyVec {
			lockedVec[name] = v
		}
		lockedOut, err := Simulate(locked, lockedVec)
		if err != nil {
			return tally{}, fmt.Errorf("locked netlist: %w", err)
		}
		if len(lockedOut) != len(gold) {
			return tally{}, fmt.Errorf("output width mismatch: original has %d, locked has %d", len(gold), len(lockedOut))
		}

		mismatch := false
		for i := range gold {
			t.totalBits++
			if gold[i] != lockedOut[i] {
				t.flipped++
				mismatch = true
			}
		}
		if mismatch {
			t.mismatches++
		}
		t.patterns++
	}
	return t, nil
}

// CompareForKey simulates original and locked netlists over patterns
// independent uniformly-random logic assignments with the key bits held
// fixed, and returns the pattern-mismatch and bit-flip rates.
func CompareForKey(orig, locked *circuit.Netlist, logicInputs, keyInputs []string, key []bool, patterns int, src BitSource) (Rates, error) {
	if patterns <= 0 {
		return Rates{}, fmt.Errorf("pattern count must be positive, got %d", patterns)
	}
	keyVec, err := keyVector(locked, logicInputs, keyInputs, key)
	if err != nil {
		return Rates{}, err
	}
	t, err := compareTrials(orig, locked, logicInputs, keyVec, patterns, src)
	if err != nil {
		return Rates{}, err
	}
	return t.rates(), nil
}

// CompareForKeyParallel is CompareForKey with the trials fanned out
// across workers. Trials are independent and the netlists are read-only,
// so each worker just needs its own bit stream: worker i draws from a
// source seeded with seed+i. Results are deterministic for a fixed seed
// and worker count.
func CompareForKeyParallel(orig, locked *circuit.Netlist, logicInputs, keyInputs []string, key []bool, patterns, workers int, seed int64) (Rates, error) {
	if patterns <= 0 {
		return Rates{}, fmt.Errorf("pattern count must be positive, got %d", patterns)
	}
	if workers <= 1 {
		return CompareForKey(orig, locked, logicInputs, keyInputs, key, patterns, NewRandSource(seed))
	}
	if workers > patterns {
		workers = patterns
	}
	keyVec, err := keyVector(locked, logicInputs, keyInputs, key)
	if err != nil {
		return Rates{}, err
	}

	tallies := make([]tally, workers)
	var g errgroup.Group
	share := patterns / workers
	extra := patterns % workers
	for i := 0; i < workers; i++ {
		i := i
		n := share
		if i < extra {
			n++
		}
		g.Go(func() error {
			t, err := compareTrials(orig, locked, logicInputs, keyVec, n, NewRandSource(seed+int64(i)))
			if err != nil {
				return err
			}
			tallies[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Rates{}, err
	}

	var total tally
	for _, t := range tallies {
		total.add(t)
	}
	return total.rates(), nil
}
