// Package queue provides the priority frontier used by graph expansions.
package queue

import "container/heap"

// Compile time check to ensure Frontier satisfies the heap interface.
var _ heap.Interface = (*Frontier)(nil)

// FrontierItem is one pending expansion step: reach Node from source index
// Source at accumulated network cost Cost.
type FrontierItem struct {
	Node   uint32  // Node is the graph node to expand next.
	Source int     // Source indexes the query source this step belongs to.
	Cost   float32 // Cost is the priority of the item in the queue.
	Index  int     // Index is maintained by the heap.Interface methods.
}

// Frontier implements a min-heap of FrontierItems ordered by Cost, so the
// cheapest pending step across all sources is always expanded first.
type Frontier struct {
	Items []*FrontierItem
}

// Len returns the number of pending items.
func (f *Frontier) Len() int { return len(f.Items) }

// Less orders items by ascending cost.
func (f *Frontier) Less(i, j int) bool {
	return f.Items[i].Cost < f.Items[j].Cost
}

// Swap swaps the elements with indexes i and j.
func (f *Frontier) Swap(i, j int) {
	f.Items[i], f.Items[j] = f.Items[j], f.Items[i]
	f.Items[i].Index, f.Items[j].Index = i, j
}

// Push adds x to the frontier.
func (f *Frontier) Push(x any) {
	item, _ := x.(*FrontierItem)
	item.Index = len(f.Items)
	f.Items = append(f.Items, item)
}

// Pop removes and returns the cheapest pending item.
func (f *Frontier) Pop() any {
	if len(f.Items) == 0 {
		return nil
	}

	old := f.Items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // Avoid memory leak
	item.Index = -1 // For safety
	f.Items = old[:n-1]

	return item
}

// Top returns the cheapest pending item without removing it.
func (f *Frontier) Top() *FrontierItem {
	return f.Items[0]
}
