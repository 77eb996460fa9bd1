// Package aggregate sums field access per type across the per-type
// profile dumps of a benchmark run.
package aggregate

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"

	"github.com/field-access-analysis/internal/loader"
	"github.com/field-access-analysis/internal/storage"
	apperrors "github.com/field-access-analysis/pkg/errors"
	"github.com/field-access-analysis/pkg/utils"
)

const (
	// ProfilePattern matches the per-type dumps of one run.
	ProfilePattern = "default.memprof.*.yaml"
	// DefaultOutput is the file the merged profiles are written to.
	DefaultOutput = "fieldaccesscount.yml"
)

// Profile is one per-type record of a dump.
type Profile struct {
	TypeName         string     `yaml:"TypeName"`
	FieldAccessCount int64      `yaml:"FieldAccessCount"`
	Children         []*Profile `yaml:"Children,omitempty"`
}

type profileRecord struct {
	TypeName         *string          `yaml:"TypeName"`
	FieldAccessCount *int64           `yaml:"FieldAccessCount"`
	Children         []*profileRecord `yaml:"Children"`
}

func newProfile(rec *profileRecord, at string) (*Profile, error) {
	switch {
	case rec == nil:
		return nil, apperrors.Newf(apperrors.CodeMalformedRecord, "%s: empty profile", at)
	case rec.TypeName == nil:
		return nil, apperrors.Newf(apperrors.CodeMalformedRecord, "%s: missing required key %q", at, "TypeName")
	case rec.FieldAccessCount == nil:
		return nil, apperrors.Newf(apperrors.CodeMalformedRecord, "%s: missing required key %q", at, "FieldAccessCount")
	}

	p := &Profile{TypeName: *rec.TypeName, FieldAccessCount: *rec.FieldAccessCount}
	if len(rec.Children) > 0 {
		p.Children = make([]*Profile, 0, len(rec.Children))
		for i, c := range rec.Children {
			child, err := newProfile(c, fmt.Sprintf("%s.Children[%d]", at, i))
			if err != nil {
				return nil, err
			}
			p.Children = append(p.Children, child)
		}
	}
	return p, nil
}

// Decode reads one dump. An empty document yields no profiles.
func Decode(r io.Reader) ([]*Profile, error) {
	var recs []*profileRecord
	if err := loader.DecodeYAML(r, &recs); err != nil {
		if apperrors.IsEmptyFile(err) {
			return make([]*Profile, 0), nil
		}
		return nil, err
	}

	profiles := make([]*Profile, 0, len(recs))
	for i, rec := range recs {
		p, err := newProfile(rec, fmt.Sprintf("profile[%d]", i))
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// TypeCount is the summed access of one type.
type TypeCount struct {
	TypeName string
	Count    int64
}

// Report is the outcome of an aggregation.
type Report struct {
	// Files lists the dumps that contributed, in read order.
	Files []string
	// Profiles holds every top-level profile of every dump.
	Profiles []*Profile
	// Total sums the top-level counts only.
	Total int64
	// HistogramTotal sums Counts, so nested types count again.
	HistogramTotal int64
	// Counts is sorted by ascending count; ties keep first-seen order.
	Counts []TypeCount
}

// Aggregate sums FieldAccessCount per type name through every level of
// nesting.
func Aggregate(profiles []*Profile) *Report {
	r := &Report{
		Files:    make([]string, 0),
		Profiles: profiles,
		Counts:   make([]TypeCount, 0),
	}

	index := make(map[string]int)
	var add func(p *Profile)
	add = func(p *Profile) {
		i, ok := index[p.TypeName]
		if !ok {
			i = len(r.Counts)
			index[p.TypeName] = i
			r.Counts = append(r.Counts, TypeCount{TypeName: p.TypeName})
		}
		r.Counts[i].Count += p.FieldAccessCount
		for _, c := range p.Children {
			add(c)
		}
	}

	for _, p := range profiles {
		add(p)
		r.Total += p.FieldAccessCount
	}
	for _, c := range r.Counts {
		r.HistogramTotal += c.Count
	}
	sort.SliceStable(r.Counts, func(i, j int) bool {
		return r.Counts[i].Count < r.Counts[j].Count
	})
	return r
}

// WriteText writes the run total, each type count in ascending order,
// and the histogram total.
func (r *Report) WriteText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Total access of bench run: %d\n", r.Total); err != nil {
		return err
	}
	for _, c := range r.Counts {
		if _, err := fmt.Fprintf(w, "%s: %d\n", c.TypeName, c.Count); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Total access of summing all individual type accesses: %d\n", r.HistogramTotal)
	return err
}

// Aggregator reads the dumps of a run from storage.
type Aggregator struct {
	store  storage.Storage
	loader *loader.Loader
	logger utils.Logger
}

// New creates an Aggregator over store.
func New(store storage.Storage, logger utils.Logger) *Aggregator {
	opts := loader.DefaultOptions()
	opts.Logger = utils.OrNull(logger)
	return &Aggregator{
		store:  store,
		loader: loader.New(store, opts),
		logger: opts.Logger,
	}
}

// Run aggregates every dump under dir matching ProfilePattern. A dump
// that fails to parse is skipped with a warning, so one truncated file
// does not lose the run.
func (a *Aggregator) Run(ctx context.Context, dir string) (*Report, error) {
	keys, err := a.store.List(ctx, dir, ProfilePattern)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, apperrors.Newf(apperrors.CodeNotFound, "no %s under %s", ProfilePattern, a.store.URL(dir))
	}

	files := make([]string, 0, len(keys))
	all := make([]*Profile, 0)
	for _, key := range keys {
		profiles, err := a.read(ctx, key)
		if err != nil {
			if apperrors.IsParseError(err) || apperrors.IsMalformedRecord(err) {
				a.logger.WithField("file", path.Base(key)).Warn("Skipping: %v", err)
				continue
			}
			return nil, err
		}
		a.logger.Debug("Read %d profiles from %s", len(profiles), key)
		files = append(files, key)
		all = append(all, profiles...)
	}

	report := Aggregate(all)
	report.Files = files
	a.logger.Info("Aggregated %d types from %d files", len(report.Counts), len(files))
	return report, nil
}

func (a *Aggregator) read(ctx context.Context, key string) ([]*Profile, error) {
	rc, err := a.loader.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return Decode(rc)
}
