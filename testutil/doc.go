// Package testutil provides shared test fixtures: deterministic random
// sources, synthetic road networks, and in-memory index files.
package testutil
