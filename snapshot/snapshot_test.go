package snapshot

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/biscuit/bitmap"
	"github.com/hupe1980/biscuit/core"
)

func sampleState() *State {
	tombstones := bitmap.New()
	tombstones.Add(1)

	return &State{
		TIDs: []core.TID{
			{Block: 1, Offset: 1},
			{Block: 2, Offset: 7},
			{Block: 9, Offset: 3},
		},
		Records: [][]byte{
			[]byte("alpha"),
			[]byte("beta"), // tombstoned, data not yet compacted
			nil,            // freed by compaction
		},
		Tombstones: tombstones,
		FreeList:   []core.SlotID{2, 1},
		Inserts:    3,
		Deletes:    2,
	}
}

func assertStateEqual(t *testing.T, want, got *State) {
	t.Helper()
	assert.Equal(t, want.TIDs, got.TIDs)
	assert.Equal(t, want.Records, got.Records)
	assert.Equal(t, want.Tombstones.ToArray(), got.Tombstones.ToArray())
	assert.Equal(t, want.FreeList, got.FreeList)
	assert.Equal(t, want.Inserts, got.Inserts)
	assert.Equal(t, want.Updates, got.Updates)
	assert.Equal(t, want.Deletes, got.Deletes)
}

func TestWriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()

	for _, compression := range []CompressionType{CompressionNone, CompressionLZ4, CompressionZSTD} {
		st := sampleState()

		var buf bytes.Buffer
		err := Write(ctx, &buf, st, WithCompression(compression))
		require.NoError(t, err)

		got, err := Read(ctx, &buf)
		require.NoError(t, err)
		assertStateEqual(t, st, got)
	}
}

func TestWriteReadEmptyState(t *testing.T) {
	ctx := context.Background()
	st := &State{Tombstones: bitmap.New()}

	var buf bytes.Buffer
	require.NoError(t, Write(ctx, &buf, st))

	got, err := Read(ctx, &buf)
	require.NoError(t, err)
	assert.Empty(t, got.TIDs)
	assert.Empty(t, got.FreeList)
	assert.True(t, got.Tombstones.IsEmpty())
}

func TestReadRejectsBadMagic(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, Write(ctx, &buf, sampleState()))

	data := buf.Bytes()
	data[0] ^= 0xFF

	_, err := Read(ctx, bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrInvalidMagic)
}

func TestReadDetectsCorruption(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, Write(ctx, &buf, sampleState(), WithCompression(CompressionNone)))

	data := buf.Bytes()
	data[len(data)-1] ^= 0xFF

	_, err := Read(ctx, bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestWriteReadRateLimited(t *testing.T) {
	ctx := context.Background()
	st := sampleState()

	var buf bytes.Buffer
	require.NoError(t, Write(ctx, &buf, st, WithRateLimit(1<<20)))

	got, err := Read(ctx, &buf, WithRateLimit(1<<20))
	require.NoError(t, err)
	assertStateEqual(t, st, got)
}

func TestCompressIncompressibleLZ4Downgrades(t *testing.T) {
	// Two bytes cannot shrink; the writer falls back to storing raw.
	data, typ, err := compress(CompressionLZ4, []byte{0x01, 0x02})
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, typ)
	assert.Equal(t, []byte{0x01, 0x02}, data)
}
