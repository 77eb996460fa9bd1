package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/tencentyun/cos-go-sdk-v5"

	apperrors "github.com/field-access-analysis/pkg/errors"
)

// COSConfig holds COS-specific configuration.
type COSConfig struct {
	Bucket    string
	Region    string
	SecretID  string
	SecretKey string
	Domain    string // e.g., "myqcloud.com"
	Scheme    string // e.g., "https" or "http"
}

// COSStorage stores captures and outputs in a Tencent Cloud COS bucket.
type COSStorage struct {
	client *cos.Client
	base   string
}

// NewCOSStorage creates a new COSStorage instance.
func NewCOSStorage(cfg *COSConfig) (*COSStorage, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, apperrors.New(apperrors.CodeConfigError, "bucket and region are required for COS storage")
	}
	if cfg.SecretID == "" || cfg.SecretKey == "" {
		return nil, apperrors.New(apperrors.CodeConfigError, "credentials are required for COS storage")
	}

	domain := cfg.Domain
	if domain == "" {
		domain = "myqcloud.com"
	}
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = "https"
	}

	bucketURL, err := url.Parse(fmt.Sprintf("%s://%s.cos.%s.%s", scheme, cfg.Bucket, cfg.Region, domain))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigError, "failed to parse bucket URL", err)
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: bucketURL}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
		},
	})
	return newCOSStorage(client, bucketURL), nil
}

func newCOSStorage(client *cos.Client, bucketURL *url.URL) *COSStorage {
	return &COSStorage{client: client, base: strings.TrimSuffix(bucketURL.String(), "/")}
}

// Open downloads the object at key.
func (s *COSStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := s.client.Object.Get(ctx, key, nil)
	if err != nil {
		if cos.IsNotFoundError(err) {
			return nil, apperrors.Wrap(apperrors.CodeNotFound, "object not found: "+key, err)
		}
		return nil, apperrors.Wrap(apperrors.CodeStorageError, "failed to download from COS", err)
	}
	return resp.Body, nil
}

// Put uploads r to key.
func (s *COSStorage) Put(ctx context.Context, key string, r io.Reader) error {
	if _, err := s.client.Object.Put(ctx, key, r, nil); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageError, "failed to upload to COS", err)
	}
	return nil
}

// List pages through the objects under dir and keeps those whose base
// name matches pattern.
func (s *COSStorage) List(ctx context.Context, dir, pattern string) ([]string, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, fmt.Sprintf("bad pattern %q", pattern), err)
	}

	prefix := strings.Trim(dir, "/")
	if prefix != "" && prefix != "." {
		prefix += "/"
	} else {
		prefix = ""
	}

	var keys []string
	opt := &cos.BucketGetOptions{Prefix: prefix, Delimiter: "/", MaxKeys: 1000}
	for {
		result, _, err := s.client.Bucket.Get(ctx, opt)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeStorageError, "failed to list COS objects", err)
		}
		for _, obj := range result.Contents {
			if ok, _ := path.Match(pattern, path.Base(obj.Key)); ok {
				keys = append(keys, obj.Key)
			}
		}
		if !result.IsTruncated || result.NextMarker == "" {
			break
		}
		opt.Marker = result.NextMarker
	}

	sort.Strings(keys)
	return keys, nil
}

// Exists checks if an object exists at the specified key.
func (s *COSStorage) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.Object.IsExist(ctx, key)
	if err != nil {
		return false, apperrors.Wrap(apperrors.CodeStorageError, "failed to check existence in COS", err)
	}
	return ok, nil
}

// URL returns the object URL for key.
func (s *COSStorage) URL(key string) string {
	return s.base + "/" + strings.TrimPrefix(key, "/")
}
