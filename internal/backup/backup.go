// Package backup writes the keys of a tree to a portable dump file and
// rebuilds trees from such dumps.
package backup

import (
	"hash/crc32"
	"io"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/luobolong/disk-avl/internal/logging"
	"github.com/luobolong/disk-avl/internal/storage"
)

// Dump format constants.
const (
	// DumpVersion is the current dump format version.
	DumpVersion uint8 = 1

	// HeaderSize is the size of the dump header in bytes.
	HeaderSize = 8

	// MaxKeys bounds the key count a dump may declare: one per record slot
	// of a full tree file.
	MaxKeys = (storage.MaxFileSize - storage.HeaderSize) / storage.RecordSize
)

// DumpMagic identifies dump files.
var DumpMagic = [4]byte{'D', 'A', 'V', 'K'}

// Backup errors.
var (
	ErrOutputPathEmpty    = errors.New("backup: output path is empty")
	ErrInputPathEmpty     = errors.New("backup: input path is empty")
	ErrTargetPathEmpty    = errors.New("backup: target path is empty")
	ErrInvalidMagic       = errors.New("backup: invalid dump magic number")
	ErrUnsupportedVersion = errors.New("backup: unsupported dump version")
	ErrChecksumMismatch   = errors.New("backup: dump checksum mismatch")
	ErrDumpCorrupted      = errors.New("backup: dump file is corrupted")
	ErrTargetNotEmpty     = errors.New("backup: target tree is not empty")
)

// BackupOptions configures a dump.
type BackupOptions struct {
	// OutputPath is the path of the dump file to create.
	OutputPath string

	// Compress writes the body through snappy.
	Compress bool

	// Logger receives a summary line. Defaults to a no-op logger.
	Logger logging.Logger
}

// Validate validates the backup options.
func (o *BackupOptions) Validate() error {
	if o.OutputPath == "" {
		return ErrOutputPathEmpty
	}
	if o.Logger == nil {
		o.Logger = logging.NewNop()
	}
	return nil
}

// RestoreOptions configures a restore.
type RestoreOptions struct {
	// InputPath is the path of the dump file.
	InputPath string

	// TargetPath is the tree file to rebuild. It is created when missing.
	TargetPath string

	// Overwrite allows restoring into a tree that already holds keys. The
	// existing tree is discarded.
	Overwrite bool

	// SyncOnWrite is passed through to the target tree.
	SyncOnWrite bool

	// Logger receives a summary line. Defaults to a no-op logger.
	Logger logging.Logger
}

// Validate validates the restore options.
func (o *RestoreOptions) Validate() error {
	if o.InputPath == "" {
		return ErrInputPathEmpty
	}
	if o.TargetPath == "" {
		return ErrTargetPathEmpty
	}
	if o.Logger == nil {
		o.Logger = logging.NewNop()
	}
	return nil
}

// Header is the fixed prefix of a dump file.
// Layout (8 bytes):
//   - Bytes 0-3: Magic number ("DAVK")
//   - Byte 4:    Version
//   - Byte 5:    Flags
//   - Bytes 6-7: Reserved
type Header struct {
	Magic   [4]byte
	Version uint8
	Flags   uint8
}

// Dump flags.
const (
	// FlagCompressed marks a snappy-compressed body.
	FlagCompressed uint8 = 1 << iota
)

// NewHeader creates a header for the current format version.
func NewHeader() *Header {
	return &Header{
		Magic:   DumpMagic,
		Version: DumpVersion,
	}
}

// IsCompressed returns true if the body is compressed.
func (h *Header) IsCompressed() bool {
	return h.Flags&FlagCompressed != 0
}

// SetCompressed sets the compressed flag.
func (h *Header) SetCompressed(compressed bool) {
	if compressed {
		h.Flags |= FlagCompressed
	} else {
		h.Flags &^= FlagCompressed
	}
}

// Serialize encodes the header.
func (h *Header) Serialize() []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], h.Magic[:])
	buf[4] = h.Version
	buf[5] = h.Flags
	return buf
}

// Deserialize decodes the header from buf.
func (h *Header) Deserialize(buf []byte) error {
	if len(buf) < HeaderSize {
		return errors.Wrapf(ErrDumpCorrupted, "header of %d bytes", len(buf))
	}
	copy(h.Magic[:], buf[0:4])
	h.Version = buf[4]
	h.Flags = buf[5]
	return nil
}

// Validate checks the magic number and version.
func (h *Header) Validate() error {
	if h.Magic != DumpMagic {
		return ErrInvalidMagic
	}
	if h.Version == 0 || h.Version > DumpVersion {
		return errors.Wrapf(ErrUnsupportedVersion, "version %d", h.Version)
	}
	return nil
}

// BackupStats contains statistics about a backup operation.
type BackupStats struct {
	// Keys is the number of keys written.
	Keys int

	// BodyBytes is the uncompressed size of the body and checksum.
	BodyBytes int64

	// TotalBytes is the size of the dump file.
	TotalBytes int64

	// Compressed reports whether the body was compressed.
	Compressed bool

	// Duration is the time taken to complete the backup.
	Duration time.Duration
}

// CompressionRatio returns the space saved by compression (0-1).
// Returns 0 if compression is not enabled or no data was written.
func (s *BackupStats) CompressionRatio() float64 {
	if !s.Compressed || s.BodyBytes == 0 {
		return 0
	}
	ratio := 1.0 - float64(s.TotalBytes-HeaderSize)/float64(s.BodyBytes)
	if ratio < 0 {
		return 0
	}
	return ratio
}

// checksumWriter wraps an io.Writer and calculates the CRC32 of written data.
type checksumWriter struct {
	w        io.Writer
	checksum uint32
	written  int64
}

func newChecksumWriter(w io.Writer) *checksumWriter {
	return &checksumWriter{w: w}
}

// Write writes data and updates the checksum.
func (cw *checksumWriter) Write(p []byte) (n int, err error) {
	n, err = cw.w.Write(p)
	if n > 0 {
		cw.checksum = crc32.Update(cw.checksum, crc32.IEEETable, p[:n])
		cw.written += int64(n)
	}
	return n, err
}

// Checksum returns the current checksum.
func (cw *checksumWriter) Checksum() uint32 {
	return cw.checksum
}

// Written returns the total bytes written.
func (cw *checksumWriter) Written() int64 {
	return cw.written
}

// checksumReader is the read-side counterpart of checksumWriter.
type checksumReader struct {
	r        io.Reader
	checksum uint32
	read     int64
}

func newChecksumReader(r io.Reader) *checksumReader {
	return &checksumReader{r: r}
}

// Read reads data and updates the checksum.
func (cr *checksumReader) Read(p []byte) (n int, err error) {
	n, err = cr.r.Read(p)
	if n > 0 {
		cr.checksum = crc32.Update(cr.checksum, crc32.IEEETable, p[:n])
		cr.read += int64(n)
	}
	return n, err
}
