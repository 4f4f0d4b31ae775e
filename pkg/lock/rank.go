package lock

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"
)

// CountDetections folds a fault-simulator detection log into a count per
// node name. The log grammar: lines starting with a non-whitespace
// character are per-pattern headers and are skipped; indented lines list
// a detected fault as their first whitespace-delimited token, either a
// bare node name or a "src->dst" pair of which only the left side
// counts. Names outside the valid set are ignored.
func CountDetections(r io.Reader, valid map[string]bool) (map[string]int, error) {
	counts := make(map[string]int)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !unicode.IsSpace(rune(line[0])) {
			continue // pattern header
		}

		token := strings.Fields(line)[0]
		if left, _, found := strings.Cut(token, "->"); found {
			token = left
		}
		if valid[token] {
			counts[token]++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading detection log: %w", err)
	}

	return counts, nil
}

// Ranker orders lockable nodes most-valuable-first. The transform takes
// the head of the returned slice, so any policy can be plugged in.
type Ranker func(nodes []string, counts map[string]int) []string

// RankByDetections sorts nodes by descending detection count. Nodes
// absent from counts score zero. Ties keep the original declaration
// order so the ranking is reproducible.
func RankByDetections(nodes []string, counts map[string]int) []string {
	ranked := append([]string(nil), nodes...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})
	return ranked
}
