package snapshot

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"golang.org/x/time/rate"

	"github.com/hupe1980/biscuit/bitmap"
	"github.com/hupe1980/biscuit/core"
)

// State is the serializable view of an index: the slot table plus the
// deletion bookkeeping. The positional and length structures are not
// stored; the engine re-derives them from the cached record bytes on
// import, which re-establishes every index invariant by construction.
type State struct {
	// TIDs holds the host tuple identifier per slot.
	TIDs []core.TID
	// Records holds the cached record bytes per slot; nil marks a freed
	// slot whose data was released by compaction.
	Records [][]byte
	// Tombstones marks slots deleted but not yet compacted.
	Tombstones *bitmap.Bitmap
	// FreeList holds the reusable slot numbers, bottom of stack first.
	FreeList []core.SlotID

	// CRUD counters.
	Inserts uint64
	Updates uint64
	Deletes uint64
}

// Options controls snapshot encoding and IO pacing.
type Options struct {
	// Compression selects the payload compression. Default: zstd.
	Compression CompressionType
	// RateLimitBytesPerSec throttles snapshot IO when > 0.
	RateLimitBytesPerSec int
}

// Option configures snapshot Write/Read.
type Option func(*Options)

// WithCompression selects the payload compression type.
func WithCompression(t CompressionType) Option {
	return func(o *Options) {
		o.Compression = t
	}
}

// WithRateLimit throttles snapshot reads and writes to bytesPerSec.
func WithRateLimit(bytesPerSec int) Option {
	return func(o *Options) {
		o.RateLimitBytesPerSec = bytesPerSec
	}
}

func applyOptions(opts []Option) Options {
	o := Options{Compression: CompressionZSTD}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Write serializes st to w.
func Write(ctx context.Context, w io.Writer, st *State, opts ...Option) error {
	o := applyOptions(opts)

	raw, err := encodePayload(st)
	if err != nil {
		return err
	}

	payload, compression, err := compress(o.Compression, raw)
	if err != nil {
		return err
	}

	header := fileHeader{
		Magic:           MagicNumber,
		Version:         Version,
		Compression:     uint8(compression),
		NumSlots:        uint32(len(st.TIDs)),
		PayloadLen:      uint64(len(payload)),
		UncompressedLen: uint64(len(raw)),
		Checksum:        crc32.ChecksumIEEE(payload),
	}

	if o.RateLimitBytesPerSec > 0 {
		w = &rateLimitedWriter{
			ctx: ctx,
			w:   w,
			l:   rate.NewLimiter(rate.Limit(o.RateLimitBytesPerSec), o.RateLimitBytesPerSec),
		}
	}

	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, header); err != nil {
		return err
	}
	if _, err := bw.Write(payload); err != nil {
		return err
	}

	return bw.Flush()
}

// Read deserializes a State from r, verifying the checksum.
func Read(ctx context.Context, r io.Reader, opts ...Option) (*State, error) {
	o := applyOptions(opts)

	if o.RateLimitBytesPerSec > 0 {
		r = &rateLimitedReader{
			ctx: ctx,
			r:   r,
			l:   rate.NewLimiter(rate.Limit(o.RateLimitBytesPerSec), o.RateLimitBytesPerSec),
		}
	}

	br := bufio.NewReader(r)

	var header fileHeader
	if err := binary.Read(br, binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	if header.Magic != MagicNumber {
		return nil, ErrInvalidMagic
	}
	if header.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, header.Version)
	}

	payload := make([]byte, header.PayloadLen)
	if _, err := io.ReadFull(br, payload); err != nil {
		return nil, err
	}
	if crc32.ChecksumIEEE(payload) != header.Checksum {
		return nil, ErrChecksumMismatch
	}

	raw, err := decompress(CompressionType(header.Compression), payload, int(header.UncompressedLen))
	if err != nil {
		return nil, err
	}

	return decodePayload(raw, int(header.NumSlots))
}

// encodePayload writes the payload sections in order: TID table, record
// bytes, tombstone bitmap, free list, counters.
func encodePayload(st *State) ([]byte, error) {
	var buf bytes.Buffer

	for _, tid := range st.TIDs {
		if err := binary.Write(&buf, binary.LittleEndian, tid.Block); err != nil {
			return nil, err
		}
		if err := binary.Write(&buf, binary.LittleEndian, tid.Offset); err != nil {
			return nil, err
		}
	}

	if len(st.Records) != len(st.TIDs) {
		return nil, fmt.Errorf("%w: %d records for %d slots", ErrCorrupt, len(st.Records), len(st.TIDs))
	}
	for _, rec := range st.Records {
		if rec == nil {
			if err := binary.Write(&buf, binary.LittleEndian, uint16(nilRecord)); err != nil {
				return nil, err
			}
			continue
		}
		if err := binary.Write(&buf, binary.LittleEndian, uint16(len(rec))); err != nil {
			return nil, err
		}
		buf.Write(rec)
	}

	tombstones := st.Tombstones
	if tombstones == nil {
		tombstones = bitmap.New()
	}
	tombstones.RunOptimize()
	var tb bytes.Buffer
	if _, err := tombstones.WriteTo(&tb); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.LittleEndian, uint32(tb.Len())); err != nil {
		return nil, err
	}
	buf.Write(tb.Bytes())

	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(st.FreeList))); err != nil {
		return nil, err
	}
	for _, s := range st.FreeList {
		if err := binary.Write(&buf, binary.LittleEndian, uint32(s)); err != nil {
			return nil, err
		}
	}

	for _, counter := range []uint64{st.Inserts, st.Updates, st.Deletes} {
		if err := binary.Write(&buf, binary.LittleEndian, counter); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func decodePayload(raw []byte, numSlots int) (*State, error) {
	br := bytes.NewReader(raw)

	st := &State{
		TIDs:       make([]core.TID, numSlots),
		Records:    make([][]byte, numSlots),
		Tombstones: bitmap.New(),
	}

	for i := range st.TIDs {
		if err := binary.Read(br, binary.LittleEndian, &st.TIDs[i].Block); err != nil {
			return nil, fmt.Errorf("%w: tid table: %w", ErrCorrupt, err)
		}
		if err := binary.Read(br, binary.LittleEndian, &st.TIDs[i].Offset); err != nil {
			return nil, fmt.Errorf("%w: tid table: %w", ErrCorrupt, err)
		}
	}

	for i := range st.Records {
		var n uint16
		if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("%w: record section: %w", ErrCorrupt, err)
		}
		if n == nilRecord {
			continue
		}
		rec := make([]byte, n)
		if _, err := io.ReadFull(br, rec); err != nil {
			return nil, fmt.Errorf("%w: record section: %w", ErrCorrupt, err)
		}
		st.Records[i] = rec
	}

	var tombstoneLen uint32
	if err := binary.Read(br, binary.LittleEndian, &tombstoneLen); err != nil {
		return nil, fmt.Errorf("%w: tombstones: %w", ErrCorrupt, err)
	}
	tb := make([]byte, tombstoneLen)
	if _, err := io.ReadFull(br, tb); err != nil {
		return nil, fmt.Errorf("%w: tombstones: %w", ErrCorrupt, err)
	}
	if tombstoneLen > 0 {
		if _, err := st.Tombstones.ReadFrom(bytes.NewReader(tb)); err != nil {
			return nil, fmt.Errorf("%w: tombstones: %w", ErrCorrupt, err)
		}
	}

	var freeCount uint32
	if err := binary.Read(br, binary.LittleEndian, &freeCount); err != nil {
		return nil, fmt.Errorf("%w: free list: %w", ErrCorrupt, err)
	}
	if int(freeCount) > numSlots {
		return nil, fmt.Errorf("%w: free list larger than slot table", ErrCorrupt)
	}
	st.FreeList = make([]core.SlotID, freeCount)
	for i := range st.FreeList {
		var s uint32
		if err := binary.Read(br, binary.LittleEndian, &s); err != nil {
			return nil, fmt.Errorf("%w: free list: %w", ErrCorrupt, err)
		}
		st.FreeList[i] = core.SlotID(s)
	}

	for _, counter := range []*uint64{&st.Inserts, &st.Updates, &st.Deletes} {
		if err := binary.Read(br, binary.LittleEndian, counter); err != nil {
			return nil, fmt.Errorf("%w: counters: %w", ErrCorrupt, err)
		}
	}

	return st, nil
}
