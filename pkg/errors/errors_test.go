package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			err:      New(CodeMalformedRecord, "missing key size"),
			expected: "[MALFORMED_RECORD] missing key size",
		},
		{
			name:     "with underlying error",
			err:      Wrap(CodeParseError, "decode failed", errors.New("yaml: line 3")),
			expected: "[PARSE_ERROR] decode failed: yaml: line 3",
		},
		{
			name:     "formatted message",
			err:      Newf(CodeInvalidInput, "bad range %d:%d", 5, 2),
			expected: "[INVALID_INPUT] bad range 5:2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := Wrap(CodeStorageError, "open failed", underlying)

	assert.Equal(t, underlying, err.Unwrap())
	assert.True(t, errors.Is(err, underlying))
}

func TestAppError_Is(t *testing.T) {
	err1 := New(CodeMalformedRecord, "error 1")
	err2 := New(CodeMalformedRecord, "error 2")
	err3 := New(CodeEmptyBatch, "error 3")

	assert.True(t, errors.Is(err1, err2))
	assert.False(t, errors.Is(err1, err3))
}

func TestIsMalformedRecord(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"sentinel", ErrMalformedRecord, true},
		{"wrapped by AppError", Wrap(CodeMalformedRecord, "node 0.1", errors.New("missing type")), true},
		{"wrapped by fmt", fmt.Errorf("entry 3: %w", New(CodeMalformedRecord, "missing size")), true},
		{"other code", ErrEmptyBatch, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsMalformedRecord(tt.err))
		})
	}
}

func TestIsEmptyBatch(t *testing.T) {
	assert.True(t, IsEmptyBatch(ErrEmptyBatch))
	assert.True(t, IsEmptyBatch(fmt.Errorf("bucketing: %w", ErrEmptyBatch)))
	assert.False(t, IsEmptyBatch(ErrMalformedRecord))
}

func TestIsEmptyFile(t *testing.T) {
	assert.True(t, IsEmptyFile(Wrap(CodeEmptyFile, "capture.yaml", nil)))
	assert.False(t, IsEmptyFile(ErrParseError))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, CodeParseError, GetErrorCode(Wrap(CodeParseError, "x", nil)))
	assert.Equal(t, CodeUnknown, GetErrorCode(errors.New("plain")))
	assert.Equal(t, CodeUnknown, GetErrorCode(nil))
}

func TestCategoryHelpers(t *testing.T) {
	tests := []struct {
		name  string
		check func(error) bool
		match error
		other error
	}{
		{"invalid input", IsInvalidInput, Newf(CodeInvalidInput, "bad pattern %q", "["), ErrConfigError},
		{"storage", IsStorageError, Wrap(CodeStorageError, "failed to write file", errors.New("disk full")), ErrNotFound},
		{"config", IsConfigError, fmt.Errorf("config validation failed: %w", New(CodeConfigError, "chart dpi must be positive")), ErrStorageError},
		{"not found", IsNotFound, Wrap(CodeNotFound, "file not found: capture.yaml", nil), ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.match))
			assert.False(t, tt.check(tt.other))
			assert.False(t, tt.check(nil))
		})
	}
}
