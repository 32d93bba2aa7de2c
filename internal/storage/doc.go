// Package storage provides the backing store for the disk-resident AVL tree.
//
// # Overview
//
// A tree lives in a single file. The file is a flat byte sequence addressed
// by byte offset:
//
//	+--------------+----------+----------+-----+
//	| root (4B)    | record 1 | record 2 | ... |
//	+--------------+----------+----------+-----+
//	0              4          20         36
//
// The first four bytes hold the offset of the root record, or 0 for an empty
// tree. Every record is RecordSize (16) bytes. Offsets are unsigned 32-bit, so
// a file is bounded by MaxFileSize (4 GiB).
//
// # Opening a File
//
//	f, err := storage.Open("tree.avl", storage.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
// # Positioned I/O
//
// File performs one positioned read or write per call and keeps no cache:
//
//	root, err := f.ReadUint32At(storage.RootPointerOffset)
//	off, err := f.Append(storage.RecordSize) // zero-filled record at EOF
//	err = f.Zero(off, storage.RecordSize)
//
// The file only grows. Zeroed records are never reclaimed.
package storage
