package typetree

const (
	// DefaultBuckets is the number of hotness thresholds per batch.
	DefaultBuckets = 8
	// DefaultProblemTier is the tier given to problem nodes. It sits
	// above every regular tier so the flamegraph colors them apart.
	DefaultProblemTier = 11
	// DefaultProblemSize replaces a negative size.
	DefaultProblemSize = 10
)

// Policy holds the numeric knobs of tree construction and hotness.
type Policy struct {
	Buckets     int
	ProblemTier int
	ProblemSize int64
}

// DefaultPolicy returns the policy the profiler's scripts use.
func DefaultPolicy() Policy {
	return Policy{
		Buckets:     DefaultBuckets,
		ProblemTier: DefaultProblemTier,
		ProblemSize: DefaultProblemSize,
	}
}
