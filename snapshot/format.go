package snapshot

import "errors"

const (
	// MagicNumber identifies biscuit snapshot files (ASCII: "BSC1").
	MagicNumber = 0x42534331
	// Version is the current snapshot format version.
	Version = 1

	// nilRecord marks a freed slot in the record section.
	nilRecord = 0xFFFF
)

var (
	// ErrInvalidMagic indicates the input is not a biscuit snapshot.
	ErrInvalidMagic = errors.New("invalid magic number")
	// ErrInvalidVersion indicates an unsupported snapshot version.
	ErrInvalidVersion = errors.New("unsupported snapshot version")
	// ErrChecksumMismatch indicates payload corruption.
	ErrChecksumMismatch = errors.New("snapshot checksum mismatch")
	// ErrInvalidCompression indicates an unknown compression type byte.
	ErrInvalidCompression = errors.New("invalid compression type")
	// ErrCorrupt indicates a structurally malformed payload.
	ErrCorrupt = errors.New("corrupt snapshot payload")
)

// fileHeader is the fixed-size header at the start of every snapshot.
//
// Integrity is verified with CRC32 (IEEE) over the compressed payload:
// fast, hardware-accelerated, and good at detecting storage corruption.
// It is not cryptographically secure and not meant for tamper detection.
type fileHeader struct {
	Magic           uint32
	Version         uint32
	Compression     uint8
	_               [3]byte
	NumSlots        uint32
	PayloadLen      uint64 // compressed payload length in bytes
	UncompressedLen uint64 // raw payload length (needed for LZ4 blocks)
	Checksum        uint32 // CRC32 (IEEE) of the compressed payload
	_               [4]byte
}
