// Package blobstore abstracts the byte source a page store reads from.
//
// Graph index files are immutable once written, so the read contract is a
// plain ranged-read interface (Blob). Backends: local filesystem (mmap),
// in-memory (tests), Amazon S3 and MinIO for indexes served from object
// storage. The writable path exists only to produce index files.
package blobstore
