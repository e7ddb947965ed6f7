// Package mmap provides read-only memory-mapped file access.
//
// The local blob store maps graph index files instead of reading them through
// buffered I/O: page fetches are random access and the page cache above already
// bounds how much of the file is hot at a time.
package mmap
