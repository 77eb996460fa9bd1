package testutil

import (
	"strconv"
	"strings"
	"testing"
)

// FoldedWeights checks that every line of text is a folded stack
// "frame;frame weight" and returns the weights in order.
func FoldedWeights(t *testing.T, text string) []int64 {
	t.Helper()

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	weights := make([]int64, 0, len(lines))
	for i, line := range lines {
		sep := strings.LastIndexByte(line, ' ')
		if sep <= 0 {
			t.Fatalf("line %d has no weight: %q", i+1, line)
		}
		w, err := strconv.ParseInt(line[sep+1:], 10, 64)
		if err != nil {
			t.Fatalf("line %d has a bad weight: %q", i+1, line)
		}
		weights = append(weights, w)
	}
	return weights
}

// SumWeights adds up the weights of folded text.
func SumWeights(t *testing.T, text string) int64 {
	t.Helper()

	var sum int64
	for _, w := range FoldedWeights(t, text) {
		sum += w
	}
	return sum
}
