// Package storage abstracts where captures are read from and where
// rendered outputs are written: the local filesystem or a COS bucket.
package storage

import (
	"context"
	"io"

	"github.com/field-access-analysis/pkg/config"
	apperrors "github.com/field-access-analysis/pkg/errors"
)

// Storage is the I/O boundary of the analysis commands.
type Storage interface {
	// Open returns the object at key. A missing object yields an error
	// matching errors.ErrNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Put writes everything read from r to key, replacing any object there.
	Put(ctx context.Context, key string, r io.Reader) error

	// List returns the keys directly under dir whose base name matches
	// the path.Match pattern, sorted.
	List(ctx context.Context, dir, pattern string) ([]string, error)

	// Exists reports whether an object is stored at key.
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns a human-readable location for key.
	URL(key string) string
}

// Type names a storage backend.
type Type string

const (
	TypeLocal Type = "local"
	TypeCOS   Type = "cos"
)

// New creates the backend selected by cfg. An empty type means local.
func New(cfg *config.StorageConfig) (Storage, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	switch Type(cfg.Type) {
	case TypeCOS:
		return NewCOSStorage(&COSConfig{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
			Domain:    cfg.Domain,
			Scheme:    cfg.Scheme,
		})
	default:
		return NewLocalStorage(cfg.LocalPath), nil
	}
}

// ValidateConfig validates the storage configuration.
func ValidateConfig(cfg *config.StorageConfig) error {
	if cfg == nil {
		return apperrors.New(apperrors.CodeConfigError, "storage config is nil")
	}

	switch Type(cfg.Type) {
	case "", TypeLocal:
		return nil
	case TypeCOS:
		if cfg.Bucket == "" {
			return apperrors.New(apperrors.CodeConfigError, "COS bucket is required")
		}
		if cfg.Region == "" {
			return apperrors.New(apperrors.CodeConfigError, "COS region is required")
		}
		if cfg.SecretID == "" || cfg.SecretKey == "" {
			return apperrors.New(apperrors.CodeConfigError, "COS credentials are required")
		}
		return nil
	default:
		return apperrors.Newf(apperrors.CodeConfigError, "unsupported storage type: %s", cfg.Type)
	}
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
