// Package trace estimates LRU cache hit counts from a recorded page-access
// history, for frame counts that were never actually allocated.
//
// One pass over the trace computes each reference's stack distance (the
// number of distinct pages touched strictly between the previous reference to
// the same page and this one); a reference counts as a hit for cache size c
// when its stack distance does not exceed c. A histogram of stack distances
// then answers every requested cache size at once.
package trace

import "github.com/hupe1980/roadnet/pagestore"

// Analyzer accumulates a stack-distance histogram over an access trace.
// The zero value is ready to use; it can also be built incrementally with
// Observe and reused across traces via Reset.
type Analyzer struct {
	stack []pagestore.PageID // recency order, most recent first
	hist  []int              // hist[d] = references with stack distance d
	refs  int
}

// NewAnalyzer returns an Analyzer primed with an initial trace.
func NewAnalyzer(history []pagestore.PageID) *Analyzer {
	a := &Analyzer{}
	for _, id := range history {
		a.Observe(id)
	}
	return a
}

// Observe appends one page reference to the trace.
func (a *Analyzer) Observe(id pagestore.PageID) {
	a.refs++

	for i, prev := range a.stack {
		if prev != id {
			continue
		}
		// Re-reference: its depth is the stack distance, and the page moves
		// back to the top of the recency stack.
		if i >= len(a.hist) {
			a.hist = append(a.hist, make([]int, i+1-len(a.hist))...)
		}
		a.hist[i]++
		copy(a.stack[1:], a.stack[:i])
		a.stack[0] = id
		return
	}

	// First-ever reference: never a hit at any cache size.
	a.stack = append(a.stack, 0)
	copy(a.stack[1:], a.stack)
	a.stack[0] = id
}

// Hits returns the simulated hit count for an LRU cache of frames slots:
// every observed re-reference whose stack distance is at most frames.
// Sizes of zero or less always miss.
func (a *Analyzer) Hits(frames int) int {
	if frames <= 0 {
		return 0
	}
	limit := frames + 1
	if limit > len(a.hist) {
		limit = len(a.hist)
	}
	var hits int
	for _, n := range a.hist[:limit] {
		hits += n
	}
	return hits
}

// References returns the number of observed page references.
func (a *Analyzer) References() int {
	return a.refs
}

// Reset discards all observed references.
func (a *Analyzer) Reset() {
	a.stack = a.stack[:0]
	a.hist = a.hist[:0]
	a.refs = 0
}

// Hits simulates an LRU cache of frames slots over history and returns the
// hit count, without retaining analyzer state.
func Hits(history []pagestore.PageID, frames int) int {
	return NewAnalyzer(history).Hits(frames)
}

// HitsForSizes evaluates several cache sizes against one trace in a single
// pass over the history.
func HitsForSizes(history []pagestore.PageID, sizes []int) []int {
	a := NewAnalyzer(history)
	out := make([]int, len(sizes))
	for i, c := range sizes {
		out[i] = a.Hits(c)
	}
	return out
}
