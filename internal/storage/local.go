package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	apperrors "github.com/field-access-analysis/pkg/errors"
)

// LocalStorage reads and writes files under a base directory. Absolute
// keys bypass the base.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a LocalStorage rooted at basePath, or at the
// working directory when basePath is empty.
func NewLocalStorage(basePath string) *LocalStorage {
	if basePath == "" {
		basePath = "."
	}
	return &LocalStorage{basePath: basePath}
}

// Open opens the file at key.
func (s *LocalStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	file, err := os.Open(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.CodeNotFound, "file not found: "+key, err)
		}
		return nil, apperrors.Wrap(apperrors.CodeStorageError, "failed to open file", err)
	}
	return file, nil
}

// Put writes r to key, creating parent directories as needed. A partial
// file is removed on failure.
func (s *LocalStorage) Put(ctx context.Context, key string, r io.Reader) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	fullPath := s.path(key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageError, "failed to create directory", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeStorageError, "failed to create file", err)
	}
	if _, err := io.Copy(file, r); err != nil {
		file.Close()
		os.Remove(fullPath)
		return apperrors.Wrap(apperrors.CodeStorageError, "failed to write file", err)
	}
	return file.Close()
}

// List globs dir for pattern.
func (s *LocalStorage) List(ctx context.Context, dir, pattern string) ([]string, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	matches, err := filepath.Glob(filepath.Join(s.path(dir), pattern))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("bad pattern %q", pattern), err)
	}

	keys := make([]string, 0, len(matches))
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && info.IsDir() {
			continue
		}
		keys = append(keys, filepath.Join(dir, filepath.Base(m)))
	}
	sort.Strings(keys)
	return keys, nil
}

// Exists reports whether a file is present at key.
func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	if err := checkContext(ctx); err != nil {
		return false, err
	}

	_, err := os.Stat(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, apperrors.Wrap(apperrors.CodeStorageError, "failed to check file existence", err)
	}
	return true, nil
}

// URL returns the filesystem path of key.
func (s *LocalStorage) URL(key string) string {
	return s.path(key)
}

// BasePath returns the directory relative keys resolve against.
func (s *LocalStorage) BasePath() string {
	return s.basePath
}

func (s *LocalStorage) path(key string) string {
	if filepath.IsAbs(key) {
		return key
	}
	return filepath.Join(s.basePath, key)
}
