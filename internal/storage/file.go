// Package storage provides the backing store for the disk-resident AVL tree.
package storage

import (
	"os"
	"sync"

	"github.com/cockroachdb/errors"
)

// Errors for File operations.
var (
	ErrFileClosed    = errors.New("storage: file is closed")
	ErrReadOnly      = errors.New("storage: file is read-only")
	ErrFileCorrupted = errors.New("storage: file is corrupted")
	ErrStoreFull     = errors.New("storage: file would exceed the 32-bit offset range")
	ErrInvalidOffset = errors.New("storage: invalid offset")
)

// File is a seekable byte store holding the root pointer and node records.
// Every read and write is a single positioned I/O call; nothing is cached.
type File struct {
	file        *os.File
	path        string
	size        int64
	readOnly    bool
	syncOnWrite bool
	closed      bool
	mu          sync.RWMutex
}

// Open opens or creates the backing file at path.
// An empty file is initialized with a zero root pointer.
func Open(path string, opts Options) (*File, error) {
	_, err := os.Stat(path)
	fileExists := err == nil

	if !fileExists && !opts.CreateIfNew {
		return nil, errors.Wrapf(os.ErrNotExist, "open %s", path)
	}

	var flags int
	if opts.ReadOnly {
		flags = os.O_RDONLY
	} else {
		flags = os.O_RDWR
		if !fileExists {
			flags |= os.O_CREATE
		}
	}

	osFile, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}

	f := &File{
		file:        osFile,
		path:        path,
		readOnly:    opts.ReadOnly,
		syncOnWrite: opts.SyncOnWrite,
	}

	if err := f.load(); err != nil {
		osFile.Close()
		return nil, err
	}

	return f, nil
}

// load reads the file length and initializes an empty file.
func (f *File) load() error {
	info, err := f.file.Stat()
	if err != nil {
		return errors.Wrap(err, "failed to stat file")
	}
	f.size = info.Size()

	if f.size == 0 {
		if f.readOnly {
			return errors.Wrapf(ErrFileCorrupted, "%s is empty and cannot be initialized read-only", f.path)
		}
		if err := f.initializeNew(); err != nil {
			return err
		}
	}

	if !ValidLength(f.size) {
		return errors.Wrapf(ErrFileCorrupted, "%s has length %d", f.path, f.size)
	}

	return nil
}

// initializeNew writes a zero root pointer to an empty file.
func (f *File) initializeNew() error {
	var buf [HeaderSize]byte
	if _, err := f.file.WriteAt(buf[:], RootPointerOffset); err != nil {
		return errors.Wrap(err, "failed to write root pointer")
	}
	if err := f.file.Sync(); err != nil {
		return errors.Wrap(err, "failed to sync file")
	}
	f.size = HeaderSize
	return nil
}

// ReadUint32At reads one big-endian uint32 at off.
func (f *File) ReadUint32At(off int64) (uint32, error) {
	var buf [4]byte
	if err := f.ReadAt(buf[:], off); err != nil {
		return 0, err
	}
	return ByteOrder.Uint32(buf[:]), nil
}

// WriteUint32At writes one big-endian uint32 at off.
func (f *File) WriteUint32At(off int64, v uint32) error {
	var buf [4]byte
	ByteOrder.PutUint32(buf[:], v)
	return f.WriteAt(buf[:], off)
}

// ReadAt fills p from the file starting at off.
func (f *File) ReadAt(p []byte, off int64) error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return ErrFileClosed
	}
	if off < 0 || off+int64(len(p)) > f.size {
		return errors.Wrapf(ErrInvalidOffset, "read of %d bytes at %d beyond length %d", len(p), off, f.size)
	}

	if _, err := f.file.ReadAt(p, off); err != nil {
		return errors.Wrapf(err, "failed to read %d bytes at %d", len(p), off)
	}
	return nil
}

// WriteAt writes p to the file starting at off. Writes never extend the file;
// use Append to grow it.
func (f *File) WriteAt(p []byte, off int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkWritableLocked(); err != nil {
		return err
	}
	if off < 0 || off+int64(len(p)) > f.size {
		return errors.Wrapf(ErrInvalidOffset, "write of %d bytes at %d beyond length %d", len(p), off, f.size)
	}

	if _, err := f.file.WriteAt(p, off); err != nil {
		return errors.Wrapf(err, "failed to write %d bytes at %d", len(p), off)
	}

	return f.syncIfNeededLocked()
}

// Append grows the file by n zero bytes and returns the offset of the first
// new byte, which is the file length before the append.
func (f *File) Append(n int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkWritableLocked(); err != nil {
		return 0, err
	}

	off := f.size
	newSize := off + int64(n)
	if newSize > MaxFileSize {
		return 0, ErrStoreFull
	}

	if err := f.file.Truncate(newSize); err != nil {
		return 0, errors.Wrap(err, "failed to grow file")
	}
	f.size = newSize

	if err := f.syncIfNeededLocked(); err != nil {
		return 0, err
	}
	return off, nil
}

// Zero overwrites n bytes at off with zeros.
func (f *File) Zero(off int64, n int) error {
	return f.WriteAt(make([]byte, n), off)
}

func (f *File) checkWritableLocked() error {
	if f.closed {
		return ErrFileClosed
	}
	if f.readOnly {
		return ErrReadOnly
	}
	return nil
}

func (f *File) syncIfNeededLocked() error {
	if !f.syncOnWrite {
		return nil
	}
	if err := f.file.Sync(); err != nil {
		return errors.Wrap(err, "failed to sync after write")
	}
	return nil
}

// Sync flushes all pending writes to disk.
func (f *File) Sync() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrFileClosed
	}
	if f.readOnly {
		return nil
	}
	return f.file.Sync()
}

// Close flushes and closes the file.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrFileClosed
	}
	f.closed = true

	if !f.readOnly {
		if err := f.file.Sync(); err != nil {
			f.file.Close()
			return errors.Wrap(err, "failed to sync file")
		}
	}

	return f.file.Close()
}

// Truncate discards every record and resets the root pointer, leaving an
// empty tree file.
func (f *File) Truncate() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkWritableLocked(); err != nil {
		return err
	}
	if err := f.file.Truncate(0); err != nil {
		return errors.Wrap(err, "failed to truncate file")
	}
	return f.initializeNew()
}

// Size returns the current file length in bytes.
func (f *File) Size() int64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.size
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// IsReadOnly returns true if the file was opened read-only.
func (f *File) IsReadOnly() bool {
	return f.readOnly
}

// IsClosed returns true once Close has been called.
func (f *File) IsClosed() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.closed
}
