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

// Backup writes every key of tree to opts.OutputPath in ascending order.
//
// The body is the key count followed by the keys, all big-endian, and is
// terminated by the CRC32 of the body. With compression the body and the
// checksum go through a framed snappy stream.
func Backup(tree *avl.Tree, opts *BackupOptions) (*BackupStats, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	startTime := time.Now()

	keys, err := tree.Keys()
	if err != nil {
		return nil, errors.Wrap(err, "backup: read keys")
	}

	out, err := os.Create(opts.OutputPath)
	if err != nil {
		return nil, errors.Wrap(err, "backup: create output")
	}
	defer out.Close()

	header := NewHeader()
	header.SetCompressed(opts.Compress)
	if _, err := out.Write(header.Serialize()); err != nil {
		return nil, errors.Wrap(err, "backup: write header")
	}

	body, err := writeBody(out, keys, opts.Compress)
	if err != nil {
		os.Remove(opts.OutputPath)
		return nil, err
	}

	if err := out.Sync(); err != nil {
		return nil, errors.Wrap(err, "backup: sync output")
	}
	info, err := out.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "backup: stat output")
	}

	stats := &BackupStats{
		Keys:       len(keys),
		BodyBytes:  body,
		TotalBytes: info.Size(),
		Compressed: opts.Compress,
		Duration:   time.Since(startTime),
	}
	opts.Logger.Info("backup written",
		"path", opts.OutputPath,
		"keys", stats.Keys,
		"bytes", stats.TotalBytes,
		"compressed", stats.Compressed,
	)
	return stats, nil
}

// flushCloser is the body sink: a snappy stream or a buffered file writer.
type flushCloser interface {
	io.Writer
	Close() error
}

type bufferedWriter struct {
	*bufio.Writer
}

func (b bufferedWriter) Close() error {
	return b.Flush()
}

// writeBody writes count, keys and checksum to out and returns the
// uncompressed size.
func writeBody(out io.Writer, keys []int32, compress bool) (int64, error) {
	var w flushCloser
	if compress {
		w = snappy.NewBufferedWriter(out)
	} else {
		w = bufferedWriter{bufio.NewWriter(out)}
	}

	cw := newChecksumWriter(w)
	var buf [4]byte

	storage.ByteOrder.PutUint32(buf[:], uint32(len(keys)))
	if _, err := cw.Write(buf[:]); err != nil {
		return 0, errors.Wrap(err, "backup: write key count")
	}
	for _, k := range keys {
		storage.ByteOrder.PutUint32(buf[:], uint32(k))
		if _, err := cw.Write(buf[:]); err != nil {
			return 0, errors.Wrapf(err, "backup: write key %d", k)
		}
	}

	if err := binary.Write(w, storage.ByteOrder, cw.Checksum()); err != nil {
		return 0, errors.Wrap(err, "backup: write checksum")
	}
	if err := w.Close(); err != nil {
		return 0, errors.Wrap(err, "backup: flush body")
	}
	return cw.Written() + 4, nil
}
