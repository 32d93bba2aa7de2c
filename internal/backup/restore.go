package backup

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang/snappy"

	"github.com/luobolong/disk-avl/internal/storage"
	"github.com/luobolong/disk-avl/internal/storage/avl"
)

// RestoreStats contains statistics about a restore operation.
type RestoreStats struct {
	// Keys is the number of keys inserted.
	Keys int

	// TotalBytes is the size of the dump file.
	TotalBytes int64

	// Compressed reports whether the dump body was compressed.
	Compressed bool

	// Duration is the time taken to complete the restore.
	Duration time.Duration
}

// Restore rebuilds the tree at opts.TargetPath from the dump at
// opts.InputPath. The whole dump is read and checked before the target is
// touched.
func Restore(opts *RestoreOptions) (*RestoreStats, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	startTime := time.Now()

	d, err := readDump(opts.InputPath)
	if err != nil {
		return nil, err
	}

	tree, err := avl.Open(opts.TargetPath, avl.DefaultOptions().
		WithSyncOnWrite(opts.SyncOnWrite).
		WithLogger(opts.Logger))
	if err != nil {
		return nil, errors.Wrap(err, "restore: open target")
	}
	defer tree.Close()

	empty, err := tree.IsEmpty()
	if err != nil {
		return nil, err
	}
	if !empty {
		if !opts.Overwrite {
			return nil, errors.Wrapf(ErrTargetNotEmpty, "restore into %s", opts.TargetPath)
		}
		if err := tree.Reset(); err != nil {
			return nil, err
		}
	}

	for _, k := range balancedOrder(d.keys) {
		if err := tree.Insert(k); err != nil {
			return nil, errors.Wrapf(err, "restore: insert %d", k)
		}
	}
	if err := tree.Sync(); err != nil {
		return nil, err
	}

	stats := &RestoreStats{
		Keys:       len(d.keys),
		TotalBytes: d.size,
		Compressed: d.header.IsCompressed(),
		Duration:   time.Since(startTime),
	}
	opts.Logger.Info("backup restored",
		"input", opts.InputPath,
		"target", opts.TargetPath,
		"keys", stats.Keys,
	)
	return stats, nil
}

// VerifyDump reads the dump at path and checks its header, checksum and key
// order without restoring it.
func VerifyDump(path string) (*RestoreStats, error) {
	if path == "" {
		return nil, ErrInputPathEmpty
	}

	startTime := time.Now()
	d, err := readDump(path)
	if err != nil {
		return nil, err
	}
	return &RestoreStats{
		Keys:       len(d.keys),
		TotalBytes: d.size,
		Compressed: d.header.IsCompressed(),
		Duration:   time.Since(startTime),
	}, nil
}

type dump struct {
	header Header
	keys   []int32
	size   int64
}

func readDump(path string) (*dump, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "restore: open input")
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "restore: stat input")
	}

	d := &dump{size: info.Size()}

	headerBuf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(in, headerBuf); err != nil {
		return nil, errors.Wrap(ErrDumpCorrupted, "short header")
	}
	if err := d.header.Deserialize(headerBuf); err != nil {
		return nil, err
	}
	if err := d.header.Validate(); err != nil {
		return nil, err
	}

	var body io.Reader = bufio.NewReader(in)
	if d.header.IsCompressed() {
		body = snappy.NewReader(body)
	}

	d.keys, err = readBody(body)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// readBody reads the key count, the keys and the trailing checksum.
func readBody(r io.Reader) ([]int32, error) {
	cr := newChecksumReader(r)
	var buf [4]byte

	if _, err := io.ReadFull(cr, buf[:]); err != nil {
		return nil, errors.Wrapf(ErrDumpCorrupted, "read key count: %v", err)
	}
	count := int64(storage.ByteOrder.Uint32(buf[:]))
	if count > MaxKeys {
		return nil, errors.Wrapf(ErrDumpCorrupted, "key count %d exceeds %d", count, int64(MaxKeys))
	}

	keys := make([]int32, 0, min(count, 1<<16))
	for i := int64(0); i < count; i++ {
		if _, err := io.ReadFull(cr, buf[:]); err != nil {
			return nil, errors.Wrapf(ErrDumpCorrupted, "read key %d of %d: %v", i, count, err)
		}
		k := int32(storage.ByteOrder.Uint32(buf[:]))
		if len(keys) > 0 && k <= keys[len(keys)-1] {
			return nil, errors.Wrapf(ErrDumpCorrupted, "key %d follows %d", k, keys[len(keys)-1])
		}
		keys = append(keys, k)
	}

	var checksum uint32
	if err := binary.Read(r, storage.ByteOrder, &checksum); err != nil {
		return nil, errors.Wrapf(ErrDumpCorrupted, "read checksum: %v", err)
	}
	if checksum != cr.checksum {
		return nil, errors.Wrapf(ErrChecksumMismatch, "stored %08x, computed %08x", checksum, cr.checksum)
	}
	return keys, nil
}

// balancedOrder returns sorted keys in breadth-first median order. Inserting
// in this order builds a height-minimal tree without a single rotation.
func balancedOrder(sorted []int32) []int32 {
	type span struct{ lo, hi int }

	out := make([]int32, 0, len(sorted))
	queue := []span{{0, len(sorted)}}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		if s.lo >= s.hi {
			continue
		}
		mid := s.lo + (s.hi-s.lo)/2
		out = append(out, sorted[mid])
		queue = append(queue, span{s.lo, mid}, span{mid + 1, s.hi})
	}
	return out
}
