// Package loader reads capture batches from storage and builds their
// type trees.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/field-access-analysis/internal/storage"
	"github.com/field-access-analysis/internal/typetree"
	"github.com/field-access-analysis/pkg/compression"
	apperrors "github.com/field-access-analysis/pkg/errors"
	"github.com/field-access-analysis/pkg/utils"
)

// Options holds configuration for a Loader.
type Options struct {
	Policy typetree.Policy
	Logger utils.Logger
}

// DefaultOptions returns the default loader options.
func DefaultOptions() *Options {
	return &Options{
		Policy: typetree.DefaultPolicy(),
		Logger: &utils.NullLogger{},
	}
}

// Loader builds entries from capture files.
type Loader struct {
	store  storage.Storage
	policy typetree.Policy
	logger utils.Logger
}

// New creates a Loader reading from store.
func New(store storage.Storage, opts *Options) *Loader {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Loader{
		store:  store,
		policy: opts.Policy,
		logger: utils.OrNull(opts.Logger),
	}
}

// captureItem is one element of a capture batch: "- Entry: {...}".
type captureItem struct {
	Entry *typetree.EntryRecord `yaml:"Entry"`
}

// Open returns a reader over the decompressed contents of key.
func (l *Loader) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := l.store.Open(ctx, key)
	if err != nil {
		return nil, err
	}

	dec, err := compression.NewReader(rc)
	if err != nil {
		rc.Close()
		return nil, apperrors.Wrap(apperrors.CodeParseError, "failed to decompress "+key, err)
	}
	return &readCloser{Reader: dec, closers: []io.Closer{dec, rc}}, nil
}

// Load reads a capture batch and builds every entry. Any malformed entry
// fails the whole batch.
func (l *Loader) Load(ctx context.Context, key string) ([]*typetree.Entry, error) {
	rc, err := l.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	entries, err := l.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}

	l.logger.Info("Loaded %d entries from %s", len(entries), l.store.URL(key))
	return entries, nil
}

// Decode builds the entries of a capture batch read from r.
func (l *Loader) Decode(r io.Reader) ([]*typetree.Entry, error) {
	var items []*captureItem
	if err := DecodeYAML(r, &items); err != nil {
		return nil, err
	}

	entries := make([]*typetree.Entry, 0, len(items))
	for i, item := range items {
		if item == nil || item.Entry == nil {
			return nil, apperrors.Newf(apperrors.CodeMalformedRecord, "entry %d: missing required key %q", i, "Entry")
		}

		entry, err := l.policy.NewEntry(item.Entry)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}

		if n := entry.Tree.Root.CountProblems(); n > 0 {
			l.logger.WithField("entry", i).Warn("%d node(s) report a negative size, marked as problem", n)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// DecodeYAML decodes the single YAML document in r into out. An empty
// document yields an error matching errors.ErrEmptyFile.
func DecodeYAML(r io.Reader, out any) error {
	if err := yaml.NewDecoder(r).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.ErrEmptyFile
		}
		return apperrors.Wrap(apperrors.CodeParseError, "failed to decode YAML", err)
	}
	return nil
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
