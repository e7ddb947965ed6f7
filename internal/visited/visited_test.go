package visited

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisitedSet(t *testing.T) {
	v := New(10)

	assert.False(t, v.Visited(1))
	assert.False(t, v.Visited(5))

	v.Visit(1)
	assert.True(t, v.Visited(1))
	assert.False(t, v.Visited(5))

	v.Visit(5)
	assert.True(t, v.Visited(5))

	v.Reset()
	assert.False(t, v.Visited(1))
	assert.False(t, v.Visited(5))

	v.Visit(1)
	assert.True(t, v.Visited(1))
}

func TestVisitedSet_Grow(t *testing.T) {
	v := New(2)
	v.Visit(1)
	assert.True(t, v.Visited(1))

	v.Visit(500) // Should grow
	assert.True(t, v.Visited(500))
	assert.True(t, v.Visited(1))
	assert.False(t, v.Visited(499))
}
