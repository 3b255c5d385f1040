// Package blobstore abstracts where index snapshots are kept.
//
// The index itself never performs IO; hosts that want durable snapshots
// pick a backend — in-memory for tests, a local directory, or any
// S3-compatible object store via the minio subpackage — and hand it to the
// snapshot helpers on the root package.
package blobstore
