// Package search implements shortest-path expansions over a paged graph:
// single-source diameter estimation and the filter-and-refine group range
// query over spatially indexed objects.
package search
