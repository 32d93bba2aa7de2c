// Package avl implements a self-balancing binary search tree over int32 keys
// whose nodes live in a single file rather than in memory.
//
// # Layout
//
// The tree is stored through a storage.File. Bytes 0-3 hold the offset of
// the root node; every node is a fixed 16-byte record appended to the file:
//
//	+--------+---------+----------+--------+
//	| left   | right   | height   | key    |
//	| uint32 | uint32  | int32    | int32  |
//	+--------+---------+----------+--------+
//
// All fields are big-endian. Offset 0 is the null child. A leaf has height 0
// and the height of an absent subtree is -1.
//
// Deleted nodes are zeroed in place and never reused, so the file only
// grows.
//
// # Usage
//
//	tree, err := avl.Open("keys.avl", avl.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
//
//	if err := tree.Insert(42); err != nil {
//	    return err
//	}
//	found, err := tree.Search(42)
//
// # Concurrency
//
// A Tree serializes every public call with a mutex. Sharing one file
// between several Tree values or processes is not supported.
package avl
