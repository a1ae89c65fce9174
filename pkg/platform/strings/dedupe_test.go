package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil stays nil",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty non-nil stays empty non-nil",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "trims whitespace",
			input:    []string{"  P-001  ", "P-002  ", "  P-003"},
			expected: []string{"P-001", "P-002", "P-003"},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"P-001", "P-002", "P-001", "P-003", "P-002"},
			expected: []string{"P-001", "P-002", "P-003"},
		},
		{
			name:     "drops blank entries",
			input:    []string{"P-001", "", "  ", "P-002"},
			expected: []string{"P-001", "P-002"},
		},
		{
			name:     "whitespace-only duplicates collapse",
			input:    []string{"  P-001 ", "P-002", "P-001", "", "P-002"},
			expected: []string{"P-001", "P-002"},
		},
		{
			name:     "case is preserved",
			input:    []string{"ORG-001", "org-001"},
			expected: []string{"ORG-001", "org-001"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}
