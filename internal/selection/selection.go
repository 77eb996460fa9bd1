// Package selection picks the entries that a flamegraph run renders.
package selection

import (
	"sort"

	"github.com/field-access-analysis/internal/typetree"
)

// All is the Max value that keeps every entry.
const All = -1

// Range bounds a selection over entries sorted by root access,
// hottest first. Max of All disables the range; Min is only honored
// together with a Max.
type Range struct {
	Min int
	Max int
}

// Select returns the entries in r, hottest first. Out of range bounds
// are clamped and negative bounds count from the end, so Select never
// fails. The input slice is left untouched.
func Select(entries []*typetree.Entry, r Range) []*typetree.Entry {
	sorted := SortByAccess(entries)
	if r.Max == All {
		return sorted
	}

	sorted = sorted[:clamp(r.Max, len(sorted))]
	if r.Min != 0 {
		lo, hi := clamp(r.Min, len(sorted)), clamp(r.Max, len(sorted))
		if lo >= hi {
			return make([]*typetree.Entry, 0)
		}
		sorted = sorted[lo:hi]
	}
	return sorted
}

// SortByAccess returns a copy of entries ordered by descending root
// access. Ties keep their input order.
func SortByAccess(entries []*typetree.Entry) []*typetree.Entry {
	out := make([]*typetree.Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Tree.Access() > out[j].Tree.Access()
	})
	return out
}

// TotalAccess sums the root access of entries.
func TotalAccess(entries []*typetree.Entry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Tree.Access()
	}
	return total
}

// Trees returns the tree of every entry.
func Trees(entries []*typetree.Entry) []*typetree.TypeTree {
	trees := make([]*typetree.TypeTree, len(entries))
	for i, e := range entries {
		trees[i] = e.Tree
	}
	return trees
}

// clamp resolves a slice bound against a sequence of length n.
func clamp(i, n int) int {
	if i < 0 {
		i += n
		if i < 0 {
			return 0
		}
	}
	if i > n {
		return n
	}
	return i
}
