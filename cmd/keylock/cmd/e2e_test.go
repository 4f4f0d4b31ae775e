package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circuitsec/keylock/pkg/bench"
)

const testBench = `INPUT(a)
INPUT(b)
INPUT(c)
OUTPUT(y)
OUTPUT(z)
n1 = NAND(a, b)
n2 = NOR(b, c)
n3 = AND(n1, n2)
y = OR(n3, a)
z = NOT(n3)
`

const testLog = `test 1: 101
	n3	detected
	n1->y	detected
test 2: 010
	n3	detected
	n2	detected
test 3: 111
	n3	detected
`

// execute runs the root command with the given args, capturing stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		buf.ReadFrom(r)
		close(done)
	}()

	rootCmd.SetArgs(args)
	rootCmd.SilenceUsage = true
	execErr := rootCmd.Execute()

	w.Close()
	os.Stdout = old
	<-done

	return buf.String(), execErr
}

func TestLockVerifyE2E(t *testing.T) {
	dir := t.TempDir()
	benchPath := filepath.Join(dir, "test.bench")
	logPath := filepath.Join(dir, "test_log")
	lockedPath := filepath.Join(dir, "test_locked.bench")

	require.NoError(t, os.WriteFile(benchPath, []byte(testBench), 0o644))
	require.NoError(t, os.WriteFile(logPath, []byte(testLog), 0o644))

	// Reset flags between runs; cobra keeps package-level state.
	lockOut = ""
	lockKeys = 2
	_, err := execute(t, "lock", benchPath, "--log", logPath, "--keys", "2", "--out", lockedPath)
	require.NoError(t, err)

	locked, err := bench.ParseFile(lockedPath)
	require.NoError(t, err)
	// n3 has the most detections and n1/n2 tie behind it; declaration
	// order breaks the tie in favor of n1.
	assert.Equal(t, []string{"a", "b", "c", "k0", "k1"}, locked.Inputs)
	assert.Equal(t, []string{"y", "z"}, locked.Outputs)
	require.Len(t, locked.Gates, 7)

	verifyKeys = nil
	out, err := execute(t, "verify", benchPath, lockedPath, "--patterns", "300", "--seed", "7", "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "correct key 00: equivalent over 300 random patterns")
	assert.Contains(t, out, "wrong key 11:")
	assert.Contains(t, out, "wrong key 10:")
	assert.Contains(t, out, "pattern mismatch rate")
}

func TestVerifyExplicitKeys(t *testing.T) {
	dir := t.TempDir()
	benchPath := filepath.Join(dir, "test.bench")
	logPath := filepath.Join(dir, "test_log")
	lockedPath := filepath.Join(dir, "locked.bench")

	require.NoError(t, os.WriteFile(benchPath, []byte(testBench), 0o644))
	require.NoError(t, os.WriteFile(logPath, []byte(testLog), 0o644))

	lockOut = ""
	_, err := execute(t, "lock", benchPath, "--log", logPath, "--keys", "2", "--out", lockedPath)
	require.NoError(t, err)

	verifyKeys = nil
	out, err := execute(t, "verify", benchPath, lockedPath, "--patterns", "200", "--keys", "01")
	require.NoError(t, err)
	assert.Contains(t, out, "wrong key 01:")
	assert.False(t, strings.Contains(out, "wrong key 11:"), "only the requested key should be evaluated")
}

func TestVerifyRejectsMalformedKey(t *testing.T) {
	dir := t.TempDir()
	benchPath := filepath.Join(dir, "test.bench")
	logPath := filepath.Join(dir, "test_log")
	lockedPath := filepath.Join(dir, "locked.bench")

	require.NoError(t, os.WriteFile(benchPath, []byte(testBench), 0o644))
	require.NoError(t, os.WriteFile(logPath, []byte(testLog), 0o644))

	lockOut = ""
	_, err := execute(t, "lock", benchPath, "--log", logPath, "--keys", "2", "--out", lockedPath)
	require.NoError(t, err)

	verifyKeys = nil
	_, err = execute(t, "verify", benchPath, lockedPath, "--patterns", "50", "--keys", "1")
	require.Error(t, err, "key narrower than the key-input count")

	verifyKeys = nil
	_, err = execute(t, "verify", benchPath, lockedPath, "--patterns", "50", "--keys", "2x")
	require.Error(t, err, "key with a non-binary rune")
}

func TestLockMissingInputs(t *testing.T) {
	dir := t.TempDir()
	benchPath := filepath.Join(dir, "test.bench")
	require.NoError(t, os.WriteFile(benchPath, []byte(testBench), 0o644))

	_, err := execute(t, "lock", benchPath, "--log", filepath.Join(dir, "nope"), "--keys", "2")
	require.Error(t, err)

	_, err = execute(t, "verify", filepath.Join(dir, "nope.bench"), benchPath)
	require.Error(t, err)
}
