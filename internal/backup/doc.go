// Package backup provides dump and restore of tree contents.
//
// # Dump Format
//
// A dump is an 8-byte header followed by a body:
//
//	+--------+---------+-------+----------+
//	| "DAVK" | version | flags | reserved |
//	| 4      | 1       | 1     | 2        |
//	+--------+---------+-------+----------+
//	| count uint32 | key int32 ... | crc32 uint32 |
//	+--------------+---------------+--------------+
//
// Keys are written in ascending order and every integer is big-endian. The
// checksum is the IEEE CRC32 of the count and keys. When flags bit 0 is set
// the body is a framed snappy stream.
//
// A dump records keys only, not node layout, so it is independent of the
// offsets and freed slots of the source file.
//
// # Usage
//
//	stats, err := backup.Backup(tree, &backup.BackupOptions{
//	    OutputPath: "keys.dump",
//	    Compress:   true,
//	})
//
//	stats, err := backup.Restore(&backup.RestoreOptions{
//	    InputPath:  "keys.dump",
//	    TargetPath: "restored.avl",
//	})
//
// Restore inserts keys median-first, breadth by breadth, so the rebuilt
// tree has minimal height and no freed slots.
package backup
