// Package compression wraps capture and output streams in gzip or zstd,
// chosen by file extension or by the stream's magic bytes.
package compression

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Type represents the compression algorithm used.
type Type uint8

const (
	// TypeNone represents no compression.
	TypeNone Type = iota
	// TypeGzip uses gzip compression.
	TypeGzip
	// TypeZstd uses zstd compression.
	TypeZstd
)

// String returns the name of the compression type.
func (t Type) String() string {
	switch t {
	case TypeGzip:
		return "gzip"
	case TypeZstd:
		return "zstd"
	default:
		return "none"
	}
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// FromExtension returns the compression implied by a file name suffix.
func FromExtension(name string) Type {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".gz"), strings.HasSuffix(lower, ".gzip"):
		return TypeGzip
	case strings.HasSuffix(lower, ".zst"), strings.HasSuffix(lower, ".zstd"):
		return TypeZstd
	default:
		return TypeNone
	}
}

// DetectType detects the compression type from magic bytes.
func DetectType(header []byte) Type {
	if hasPrefix(header, zstdMagic) {
		return TypeZstd
	}
	if hasPrefix(header, gzipMagic) {
		return TypeGzip
	}
	return TypeNone
}

func hasPrefix(b, prefix []byte) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i := range prefix {
		if b[i] != prefix[i] {
			return false
		}
	}
	return true
}

// NewReader returns a reader that decompresses r. The stream type is
// sniffed from its first bytes, so a mislabelled file still decodes.
func NewReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	header, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("failed to read stream header: %w", err)
	}

	switch DetectType(header) {
	case TypeGzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gz, nil
	case TypeZstd:
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return dec.IOReadCloser(), nil
	default:
		return io.NopCloser(br), nil
	}
}

// NewWriter returns a writer that compresses into w with the given type.
// Closing it flushes the compressor but does not close w.
func NewWriter(w io.Writer, t Type) (io.WriteCloser, error) {
	switch t {
	case TypeGzip:
		return gzip.NewWriter(w), nil
	case TypeZstd:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		return enc, nil
	case TypeNone:
		return nopWriteCloser{w}, nil
	default:
		return nil, fmt.Errorf("unknown compression type: %d", t)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
