package typetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCount(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0"},
		{-5, "-5"},
		{999, "999"},
		{1000, "1.0K"},
		{1500, "1.5K"},
		{12345, "12.3K"},
		{999999, "1000.0K"},
		{1000000, "1.0M"},
		{2500000000, "2.5B"},
		{1000000000000, "1.0T"},
		{1000000000000000, "1.00E+15"},
		{1234567890123456789, "1.23E+18"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCount(tt.input))
		})
	}
}

func TestFormatPercentage(t *testing.T) {
	tests := []struct {
		part, total int64
		expected    string
	}{
		{60, 100, "60%"},
		{40, 100, "40%"},
		{100, 100, "100%"},
		{1, 3, "33%"},
		{2, 3, "67%"},
		{1, 1000, "0%"},
		{0, 0, "0%"},
		{5, 0, "0%"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatPercentage(tt.part, tt.total), "%d/%d", tt.part, tt.total)
	}
}
