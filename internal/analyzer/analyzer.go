// Package analyzer runs the hotness pipeline over a capture batch:
// load, dearray, bucket, select, and assign tiers.
package analyzer

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/field-access-analysis/internal/loader"
	"github.com/field-access-analysis/internal/selection"
	"github.com/field-access-analysis/internal/storage"
	"github.com/field-access-analysis/internal/typetree"
	"github.com/field-access-analysis/pkg/telemetry"
	"github.com/field-access-analysis/pkg/utils"
)

// Phase names reported by the timer and used as span names.
const (
	PhaseLoad    = "load"
	PhaseDearray = "dearray"
	PhaseBucket  = "bucket"
	PhaseSelect  = "select"
	PhaseAssign  = "assign"
)

// Options holds configuration for an Analyzer.
type Options struct {
	Policy typetree.Policy
	Range  selection.Range

	// Logger is used for progress and timing output. If nil, logs are
	// suppressed.
	Logger utils.Logger
}

// DefaultOptions returns options that select every entry.
func DefaultOptions() *Options {
	return &Options{
		Policy: typetree.DefaultPolicy(),
		Range:  selection.Range{Min: 0, Max: selection.All},
	}
}

// Result is the outcome of one pipeline run.
type Result struct {
	// Entries is the whole batch in input order, dearrayed.
	Entries []*typetree.Entry
	// Buckets are the thresholds computed over Entries.
	Buckets []float64
	// Selected holds the entries in range, hottest first, with tiers set.
	Selected []*typetree.Entry
	// TotalAccess is the summed root access of Selected.
	TotalAccess int64
}

// Analyzer runs the pipeline against one storage backend.
type Analyzer struct {
	loader *loader.Loader
	opts   *Options
	logger utils.Logger
}

// New creates an Analyzer reading captures from store.
func New(store storage.Storage, opts *Options) *Analyzer {
	if opts == nil {
		opts = DefaultOptions()
	}
	logger := utils.OrNull(opts.Logger)
	return &Analyzer{
		loader: loader.New(store, &loader.Options{Policy: opts.Policy, Logger: logger}),
		opts:   opts,
		logger: logger,
	}
}

// Loader returns the loader the analyzer reads captures with.
func (a *Analyzer) Loader() *loader.Loader {
	return a.loader
}

// Analyze loads the capture at key and processes it.
func (a *Analyzer) Analyze(ctx context.Context, key string) (result *Result, err error) {
	ctx, span := telemetry.StartSpan(ctx, "analyzer.Analyze", attribute.String("capture.key", key))
	defer func() { telemetry.EndSpan(span, err) }()

	timer := utils.NewTimer("analyze")
	defer timer.Report(a.logger)

	timer.Start(PhaseLoad)
	entries, err := a.load(ctx, key)
	if err != nil {
		return nil, err
	}
	return a.process(ctx, entries, timer)
}

// Process runs every stage after loading. Trees in entries are modified
// in place.
func (a *Analyzer) Process(ctx context.Context, entries []*typetree.Entry) (*Result, error) {
	timer := utils.NewTimer("process")
	defer timer.Report(a.logger)
	return a.process(ctx, entries, timer)
}

func (a *Analyzer) load(ctx context.Context, key string) (entries []*typetree.Entry, err error) {
	ctx, span := telemetry.StartSpan(ctx, PhaseLoad)
	defer func() { telemetry.EndSpan(span, err) }()

	entries, err = a.loader.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("entries", len(entries)))
	return entries, nil
}

func (a *Analyzer) process(ctx context.Context, entries []*typetree.Entry, timer *utils.Timer) (*Result, error) {
	timer.Start(PhaseDearray)
	_ = a.stage(ctx, PhaseDearray, func() error {
		for _, e := range entries {
			typetree.Dearray(e.Tree.Root)
		}
		return nil
	})

	timer.Start(PhaseBucket)
	var buckets []float64
	err := a.stage(ctx, PhaseBucket, func() (err error) {
		buckets, err = a.opts.Policy.ComputeBuckets(selection.Trees(entries))
		return err
	})
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Hotness buckets: %v", buckets)

	timer.Start(PhaseSelect)
	var selected []*typetree.Entry
	var total int64
	_ = a.stage(ctx, PhaseSelect, func() error {
		selected = selection.Select(entries, a.opts.Range)
		total = selection.TotalAccess(selected)
		return nil
	})
	a.logger.Info("Selected %d of %d entries, total access %s",
		len(selected), len(entries), typetree.FormatCount(total))

	timer.Start(PhaseAssign)
	_ = a.stage(ctx, PhaseAssign, func() error {
		for _, e := range selected {
			a.opts.Policy.AssignHotness(e.Tree.Root, buckets)
		}
		return nil
	})
	timer.Stop()

	return &Result{
		Entries:     entries,
		Buckets:     buckets,
		Selected:    selected,
		TotalAccess: total,
	}, nil
}

// stage runs fn inside a span named after the phase.
func (a *Analyzer) stage(ctx context.Context, name string, fn func() error) error {
	_, span := telemetry.StartSpan(ctx, name)
	err := fn()
	telemetry.EndSpan(span, err)
	return err
}
