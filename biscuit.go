package biscuit

import (
	"bytes"
	"context"
	"iter"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/biscuit/blobstore"
	"github.com/hupe1980/biscuit/core"
	"github.com/hupe1980/biscuit/engine"
	"github.com/hupe1980/biscuit/snapshot"
)

// DeleteStats reports the outcome of a bulk delete.
type DeleteStats = engine.DeleteStats

// Stats is a point-in-time summary of the index state.
type Stats = engine.Stats

// Index is a wildcard-matching secondary index over short text records.
// All methods are safe for concurrent use: mutations are serialized,
// queries run in parallel with each other.
type Index struct {
	engine *engine.Engine
}

// Open creates an empty index.
func Open(opts ...Option) *Index {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	return &Index{
		engine: engine.New(o.engineOpts...),
	}
}

// Build populates the index from a record source, e.g. a host heap scan.
// Records with nil value bytes are skipped (null column values are not
// indexed). It returns the number of records indexed.
func (ix *Index) Build(records iter.Seq2[core.TID, []byte]) (int, error) {
	return ix.engine.Build(records)
}

// Insert adds one record. A nil value is a no-op that succeeds. Values
// longer than 256 bytes are truncated.
func (ix *Index) Insert(tid core.TID, value []byte) error {
	return ix.engine.Insert(tid, value)
}

// BulkDelete invokes shouldDelete for every live record's TID and removes
// the records it acknowledges. Removal is lazy; crossing the tombstone
// threshold triggers compaction before the call returns.
func (ix *Index) BulkDelete(shouldDelete func(core.TID) bool) DeleteStats {
	return ix.engine.BulkDelete(shouldDelete)
}

// Query returns the TIDs of all records matching the wildcard pattern,
// sorted ascending by (block, offset).
func (ix *Index) Query(pat []byte) []core.TID {
	return ix.engine.Query(pat)
}

// BeginScan runs the pattern query and returns a cursor over the sorted
// result TIDs.
func (ix *Index) BeginScan(pat []byte) (*Scan, error) {
	return &Scan{tids: ix.engine.Query(pat)}, nil
}

// QueryMany runs several pattern queries concurrently and returns the
// per-pattern results in input order.
func (ix *Index) QueryMany(ctx context.Context, patterns [][]byte) ([][]core.TID, error) {
	results := make([][]core.TID, len(patterns))

	g, ctx := errgroup.WithContext(ctx)
	for i, pat := range patterns {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = ix.engine.Query(pat)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// Compact forces a tombstone sweep regardless of the threshold.
func (ix *Index) Compact() {
	ix.engine.Compact()
}

// Stats returns a consistent snapshot of the index counters.
func (ix *Index) Stats() Stats {
	return ix.engine.Stats()
}

// WriteSnapshot serializes the index and stores it as a blob under name.
func (ix *Index) WriteSnapshot(ctx context.Context, store blobstore.BlobStore, name string, opts ...snapshot.Option) error {
	var buf bytes.Buffer
	if err := snapshot.Write(ctx, &buf, ix.engine.ExportState(), opts...); err != nil {
		return err
	}
	return store.Put(ctx, name, buf.Bytes())
}

// OpenFromSnapshot restores an index from a blob previously written by
// WriteSnapshot. Snapshot options control IO pacing; index options apply
// to the restored index.
func OpenFromSnapshot(ctx context.Context, store blobstore.BlobStore, name string, snapOpts []snapshot.Option, opts ...Option) (*Index, error) {
	data, err := store.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	st, err := snapshot.Read(ctx, bytes.NewReader(data), snapOpts...)
	if err != nil {
		return nil, err
	}

	var o options
	for _, fn := range opts {
		fn(&o)
	}
	e, err := engine.NewFromState(st, o.engineOpts...)
	if err != nil {
		return nil, err
	}

	return &Index{engine: e}, nil
}
