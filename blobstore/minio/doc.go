// Package minio provides a blobstore.BlobStore backed by MinIO or any
// S3-compatible object store, for keeping index snapshots off the host
// machine.
package minio
