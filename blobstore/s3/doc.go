// Package s3 provides an S3-backed blobstore.BlobStore.
//
// Intended for graph indexes too large for local disk: the page store above
// issues ranged reads, so a query only transfers the pages it touches.
package s3
