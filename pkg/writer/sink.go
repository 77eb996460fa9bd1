package writer

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/field-access-analysis/pkg/compression"
)

// StdoutKey is the output key that selects standard output.
const StdoutKey = "-"

// Putter stores an object under a key.
type Putter interface {
	Put(ctx context.Context, key string, r io.Reader) error
}

// WriteResult contains statistics about published output.
type WriteResult struct {
	Key            string
	Size           int64
	CompressedSize int64
	Compression    compression.Type
}

// Sink buffers a command's output in memory. Nothing reaches the
// destination until Commit.
type Sink struct {
	store  Putter
	key    string
	stdout io.Writer
	buf    bytes.Buffer
}

// NewSink returns a sink for key. An empty key or StdoutKey publishes to
// stdout uncompressed; any other key is compressed by its extension and
// stored in store.
func NewSink(store Putter, key string, stdout io.Writer) *Sink {
	return &Sink{store: store, key: key, stdout: stdout}
}

// Write implements io.Writer.
func (s *Sink) Write(p []byte) (int, error) {
	return s.buf.Write(p)
}

// Len returns the number of buffered bytes.
func (s *Sink) Len() int {
	return s.buf.Len()
}

// ToStdout reports whether the sink publishes to stdout.
func (s *Sink) ToStdout() bool {
	return s.key == "" || s.key == StdoutKey
}

// Commit publishes the buffered output.
func (s *Sink) Commit(ctx context.Context) (*WriteResult, error) {
	size := int64(s.buf.Len())

	if s.ToStdout() {
		if _, err := s.buf.WriteTo(s.stdout); err != nil {
			return nil, fmt.Errorf("failed to write output: %w", err)
		}
		return &WriteResult{Key: StdoutKey, Size: size, CompressedSize: size}, nil
	}

	typ := compression.FromExtension(s.key)
	var encoded bytes.Buffer
	cw, err := compression.NewWriter(&encoded, typ)
	if err != nil {
		return nil, err
	}
	if _, err := s.buf.WriteTo(cw); err != nil {
		cw.Close()
		return nil, fmt.Errorf("failed to compress output: %w", err)
	}
	if err := cw.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress output: %w", err)
	}

	result := &WriteResult{
		Key:            s.key,
		Size:           size,
		CompressedSize: int64(encoded.Len()),
		Compression:    typ,
	}
	if err := s.store.Put(ctx, s.key, &encoded); err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", s.key, err)
	}
	return result, nil
}

// Encode writes data with enc into a new sink and commits it.
func Encode[T any](ctx context.Context, enc Encoder[T], data T, store Putter, key string, stdout io.Writer) (*WriteResult, error) {
	sink := NewSink(store, key, stdout)
	if err := enc.Write(data, sink); err != nil {
		return nil, fmt.Errorf("failed to encode output: %w", err)
	}
	return sink.Commit(ctx)
}
