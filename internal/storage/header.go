// Package storage provides the backing store for the disk-resident AVL tree.
package storage

import (
	"encoding/binary"
	"math"
)

// File layout constants.
//
// Layout:
//   - Bytes 0-3:  root pointer (uint32, big-endian, 0 = empty tree)
//   - Bytes 4-..: 16-byte node records in allocation order
const (
	// HeaderSize is the size of the root pointer slot at the start of the file.
	HeaderSize = 4

	// RecordSize is the size of a single node record.
	RecordSize = 16

	// RootPointerOffset is the byte offset of the root pointer.
	RootPointerOffset = 0

	// MaxFileSize bounds the file so that every record offset fits in an
	// unsigned 32-bit field.
	MaxFileSize int64 = math.MaxUint32 + 1
)

// ByteOrder is the byte order of every fixed-width field in the file.
var ByteOrder = binary.BigEndian

// ValidLength reports whether size is a plausible length for a tree file:
// the root pointer followed by a whole number of node records.
func ValidLength(size int64) bool {
	if size < HeaderSize || size > MaxFileSize {
		return false
	}
	return (size-HeaderSize)%RecordSize == 0
}

// RecordCount returns the number of record slots (live or freed) in a file
// of the given size.
func RecordCount(size int64) int64 {
	if size <= HeaderSize {
		return 0
	}
	return (size - HeaderSize) / RecordSize
}
