package util

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	seen := make(map[string]struct{}, 100)

	for i := 0; i < 100; i++ {
		id, err := NewID()
		require.NoError(t, err)
		assert.Len(t, id, 16)

		_, dup := seen[id]
		assert.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestNewRequestID(t *testing.T) {
	id := NewRequestID()
	assert.Len(t, id, 10)

	for _, r := range id {
		assert.True(t, unicode.IsLetter(r))
	}
}
