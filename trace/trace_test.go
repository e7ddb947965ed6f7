package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/roadnet/pagestore"
)

func TestHits_StackDistanceScenario(t *testing.T) {
	// A,B,A,C,B,A: stack distances are A=1, B=2, A=2 for the re-references.
	history := []pagestore.PageID{0, 1, 0, 2, 1, 0}

	assert.Equal(t, 1, Hits(history, 1))
	assert.Equal(t, 3, Hits(history, 2))
	assert.Equal(t, 3, Hits(history, 3))
}

func TestHits_EmptyTrace(t *testing.T) {
	assert.Equal(t, 0, Hits(nil, 10))
}

func TestHits_ZeroOrNegativeSize(t *testing.T) {
	history := []pagestore.PageID{0, 0, 0}
	assert.Equal(t, 0, Hits(history, 0))
	assert.Equal(t, 0, Hits(history, -1))
}

func TestHits_FirstReferencesNeverHit(t *testing.T) {
	history := []pagestore.PageID{0, 1, 2, 3}
	assert.Equal(t, 0, Hits(history, 100))
}

func TestHits_MonotonicInCacheSize(t *testing.T) {
	history := []pagestore.PageID{5, 3, 5, 1, 3, 5, 2, 1, 5, 3, 3}

	prev := 0
	for c := 1; c <= 8; c++ {
		h := Hits(history, c)
		assert.GreaterOrEqual(t, h, prev, "cache size %d", c)
		prev = h
	}
}

func TestHits_CapsAtDistinctPages(t *testing.T) {
	history := []pagestore.PageID{0, 1, 0, 1, 0, 1}

	// Two distinct pages: any cache of 2+ frames behaves identically.
	assert.Equal(t, Hits(history, 2), Hits(history, 50))
}

func TestHitsForSizes(t *testing.T) {
	history := []pagestore.PageID{0, 1, 0, 2, 1, 0}

	got := HitsForSizes(history, []int{1, 2, 3})
	assert.Equal(t, []int{1, 3, 3}, got)
}

func TestAnalyzer_ObserveAndReset(t *testing.T) {
	a := &Analyzer{}
	for _, id := range []pagestore.PageID{7, 7, 7} {
		a.Observe(id)
	}
	assert.Equal(t, 3, a.References())
	assert.Equal(t, 2, a.Hits(1))

	a.Reset()
	assert.Equal(t, 0, a.References())
	assert.Equal(t, 0, a.Hits(1))

	a.Observe(7)
	a.Observe(7)
	assert.Equal(t, 1, a.Hits(1))
}
