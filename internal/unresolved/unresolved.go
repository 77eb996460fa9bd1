// Package unresolved deduplicates the callstacks the profiler could not
// attribute to a type.
package unresolved

import (
	"context"
	"fmt"
	"io"

	"github.com/field-access-analysis/internal/loader"
	"github.com/field-access-analysis/internal/typetree"
	apperrors "github.com/field-access-analysis/pkg/errors"
	"github.com/field-access-analysis/pkg/utils"
)

// DefaultOutput is the file name the deduplicated list is written to.
const DefaultOutput = "data.yml"

// Record is one element of an unresolved dump: "- entry: [...]".
type Record struct {
	Entry typetree.Callstack `yaml:"entry"`
}

type rawRecord struct {
	Entry []*typetree.CallsiteRecord `yaml:"entry"`
}

// Decode reads an unresolved dump. An empty document holds no records.
func Decode(r io.Reader) ([]Record, error) {
	var raw []*rawRecord
	if err := loader.DecodeYAML(r, &raw); err != nil {
		if apperrors.IsEmptyFile(err) {
			return make([]Record, 0), nil
		}
		return nil, err
	}

	records := make([]Record, 0, len(raw))
	for i, rec := range raw {
		if rec == nil || rec.Entry == nil {
			return nil, apperrors.Newf(apperrors.CodeMalformedRecord, "record %d: missing required key %q", i, "entry")
		}
		cs, err := typetree.NewCallstack(rec.Entry)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, Record{Entry: cs})
	}
	return records, nil
}

// Dedup returns records with repeated callstacks removed. The first
// occurrence of each stack is kept, in input order.
func Dedup(records []Record) []Record {
	seen := make(map[string][]typetree.Callstack)
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		key := rec.Entry.String()
		if containsStack(seen[key], rec.Entry) {
			continue
		}
		seen[key] = append(seen[key], rec.Entry)
		out = append(out, rec)
	}
	return out
}

func containsStack(stacks []typetree.Callstack, cs typetree.Callstack) bool {
	for _, s := range stacks {
		if s.Equal(cs) {
			return true
		}
	}
	return false
}

// Deduper reads unresolved dumps through a loader.
type Deduper struct {
	loader *loader.Loader
	logger utils.Logger
}

// NewDeduper creates a Deduper.
func NewDeduper(l *loader.Loader, logger utils.Logger) *Deduper {
	return &Deduper{loader: l, logger: utils.OrNull(logger)}
}

// Run reads the dump at key and returns its distinct callstacks.
func (d *Deduper) Run(ctx context.Context, key string) ([]Record, error) {
	rc, err := d.loader.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	records, err := Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}

	distinct := Dedup(records)
	d.logger.Info("Kept %d distinct of %d unresolved callstacks", len(distinct), len(records))
	for _, rec := range distinct {
		d.logger.Debug("  %s", rec.Entry)
	}
	return distinct, nil
}
