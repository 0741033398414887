package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDs(t *testing.T) {
	tests := []struct {
		name     string
		tracks   []Track
		expected []string
	}{
		{
			name:     "empty",
			tracks:   []Track{},
			expected: []string{},
		},
		{
			name:     "keeps order",
			tracks:   []Track{{ID: "b"}, {ID: "a"}, {ID: "c"}},
			expected: []string{"b", "a", "c"},
		},
		{
			name:     "keeps duplicates",
			tracks:   []Track{{ID: "a"}, {ID: "a"}},
			expected: []string{"a", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IDs(tt.tracks))
		})
	}
}
