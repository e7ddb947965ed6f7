// Package graph defines the paged road-network index format and its reader
// and writer.
//
// An index file is a sequence of fixed-size pages: a raw header page, data
// pages of packed node records, and trailing directory pages mapping node ids
// to (page, offset, length). The View decodes nodes on demand through a
// pagestore.Store and returns owned snapshots, so callers never hold
// references into the frame pool.
package graph
