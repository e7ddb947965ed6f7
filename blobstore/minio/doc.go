// Package minio provides a MinIO-backed blobstore.BlobStore for self-hosted
// S3-compatible object storage.
package minio
