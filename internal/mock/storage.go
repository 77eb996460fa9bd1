// Package mock provides test doubles for the storage boundary.
package mock

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify mock of storage.Storage.
type MockStorage struct {
	mock.Mock
}

// Open mocks the Open method.
func (m *MockStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// Put mocks the Put method. The written bytes are drained so that
// expectations can match on them through Captured.
func (m *MockStorage) Put(ctx context.Context, key string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	args := m.Called(ctx, key, data)
	return args.Error(0)
}

// List mocks the List method.
func (m *MockStorage) List(ctx context.Context, dir, pattern string) ([]string, error) {
	args := m.Called(ctx, dir, pattern)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// Exists mocks the Exists method.
func (m *MockStorage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// URL mocks the URL method.
func (m *MockStorage) URL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

// ExpectOpen makes Open return content for key.
func (m *MockStorage) ExpectOpen(key, content string) *mock.Call {
	return m.On("Open", mock.Anything, key).Return(io.NopCloser(strings.NewReader(content)), nil)
}

// ExpectOpenError makes Open fail for key.
func (m *MockStorage) ExpectOpenError(key string, err error) *mock.Call {
	return m.On("Open", mock.Anything, key).Return(nil, err)
}

// ExpectPut accepts a Put to key with any content.
func (m *MockStorage) ExpectPut(key string, err error) *mock.Call {
	return m.On("Put", mock.Anything, key, mock.Anything).Return(err)
}

// ExpectList makes List return keys.
func (m *MockStorage) ExpectList(dir, pattern string, keys []string) *mock.Call {
	return m.On("List", mock.Anything, dir, pattern).Return(keys, nil)
}

// Captured returns the bytes of the last Put to key, or nil.
func (m *MockStorage) Captured(key string) []byte {
	var last []byte
	for _, call := range m.Calls {
		if call.Method == "Put" && call.Arguments.String(1) == key {
			last = call.Arguments.Get(2).([]byte)
		}
	}
	return bytes.Clone(last)
}
