package typetree

import (
	"math"

	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-moremath/vec"

	apperrors "github.com/field-access-analysis/pkg/errors"
)

// ComputeBuckets returns log-spaced thresholds under the default policy.
func ComputeBuckets(trees []*TypeTree) ([]float64, error) {
	return DefaultPolicy().ComputeBuckets(trees)
}

// ComputeBuckets returns p.Buckets thresholds spaced evenly in log space
// from the smallest to the largest root access count in the batch, both
// inclusive. A batch of one tree yields identical thresholds.
func (p Policy) ComputeBuckets(trees []*TypeTree) ([]float64, error) {
	access := make([]float64, 0, len(trees))
	for _, t := range trees {
		if t != nil && t.Root != nil {
			access = append(access, float64(t.Root.Access))
		}
	}
	if len(access) == 0 {
		return nil, apperrors.ErrEmptyBatch
	}

	n := p.Buckets
	if n < 2 {
		n = DefaultBuckets
	}

	lo, hi := stats.Bounds(access)
	// log(0) is undefined.
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}

	buckets := vec.Logspace(math.Log10(lo), math.Log10(hi), n, 10)
	// Pin the endpoints so the round trip through log space cannot move
	// the batch maximum out of the top tier.
	buckets[0], buckets[n-1] = lo, hi
	return buckets, nil
}

// Tier returns the 1-based index of the first threshold above access,
// or len(buckets)+1 when access reaches the last one.
func Tier(access int64, buckets []float64) int {
	a := float64(access)
	for i, cut := range buckets {
		if a < cut {
			return i + 1
		}
	}
	return len(buckets) + 1
}

// AssignHotness sets tiers under the default policy.
func AssignHotness(root *Node, buckets []float64) {
	DefaultPolicy().AssignHotness(root, buckets)
}

// AssignHotness sets the tier of every node in the subtree, pre-order.
// Problem nodes always get p.ProblemTier.
func (p Policy) AssignHotness(root *Node, buckets []float64) {
	if root == nil {
		return
	}
	root.Hotness = Tier(root.Access, buckets)
	if root.Problem {
		root.Hotness = p.ProblemTier
	}
	for _, c := range root.Children {
		p.AssignHotness(c, buckets)
	}
}
