package avl

import (
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/luobolong/disk-avl/internal/logging"
	"github.com/luobolong/disk-avl/internal/storage"
)

// MaxHeight bounds the depth of any valid tree. A file addressed by 32-bit
// offsets holds at most 2^28 records, and an AVL tree of that size is never
// taller than 40 levels.
const MaxHeight = 48

// Tree errors.
var (
	// ErrDuplicateKey is returned when inserting a key that is already present.
	ErrDuplicateKey = errors.New("avl: duplicate key")
	// ErrNullDereference marks a field access at the null offset. It is an
	// assertion failure and indicates a bug or a corrupted file.
	ErrNullDereference = errors.New("avl: null offset dereferenced")
	// ErrTreeTooDeep is returned when a walk descends past MaxHeight.
	ErrTreeTooDeep = errors.New("avl: tree exceeds maximum height")
	// ErrTreeClosed is returned by operations on a closed tree.
	ErrTreeClosed = errors.New("avl: tree is closed")
)

// Options configures how a tree file is opened.
type Options struct {
	// Storage controls creation, read-only mode and syncing of the file.
	Storage storage.Options
	// Logger receives open/close events and per-operation debug output.
	Logger logging.Logger
}

// DefaultOptions returns options that create the file when missing and log
// nothing.
func DefaultOptions() Options {
	return Options{
		Storage: storage.DefaultOptions(),
		Logger:  logging.NewNop(),
	}
}

// WithLogger sets the logger.
func (o Options) WithLogger(l logging.Logger) Options {
	o.Logger = l
	return o
}

// WithReadOnly opens the file read-only. Mutations return storage.ErrReadOnly.
func (o Options) WithReadOnly(readOnly bool) Options {
	o.Storage = o.Storage.WithReadOnly(readOnly)
	return o
}

// WithSyncOnWrite fsyncs the file after each write.
func (o Options) WithSyncOnWrite(sync bool) Options {
	o.Storage = o.Storage.WithSyncOnWrite(sync)
	return o
}

// WithCreateIfNew controls whether a missing file is created.
func (o Options) WithCreateIfNew(create bool) Options {
	o.Storage = o.Storage.WithCreateIfNew(create)
	return o
}

// Tree is an AVL tree of distinct int32 keys backed by a storage.File.
type Tree struct {
	file     *storage.File
	logger   logging.Logger
	ownsFile bool
	closed   bool
	mu       sync.Mutex
}

// Open opens or creates the tree file at path.
func Open(path string, opts Options) (*Tree, error) {
	f, err := storage.Open(path, opts.Storage)
	if err != nil {
		return nil, errors.Wrapf(err, "open tree %s", path)
	}

	t := New(f, opts.Logger)
	t.ownsFile = true

	root, err := t.root()
	if err != nil {
		f.Close()
		return nil, err
	}
	if root != Null {
		if err := t.checkOffset(root); err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "open tree %s", path)
		}
	}

	t.logger.Info("tree opened",
		"path", path,
		"size", f.Size(),
		"root", root.String(),
		"readOnly", f.IsReadOnly(),
	)
	return t, nil
}

// New wraps an already opened file. The caller keeps ownership of f and
// Close does not close it.
func New(f *storage.File, logger logging.Logger) *Tree {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Tree{
		file:   f,
		logger: logger,
	}
}

// Close syncs and releases the tree. Closing twice returns ErrTreeClosed.
func (t *Tree) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTreeClosed
	}
	t.closed = true

	if !t.ownsFile {
		return nil
	}
	if err := t.file.Close(); err != nil {
		return errors.Wrap(err, "close tree")
	}
	t.logger.Info("tree closed", "path", t.file.Path())
	return nil
}

// Path returns the path of the backing file.
func (t *Tree) Path() string {
	return t.file.Path()
}

// IsReadOnly reports whether mutations are rejected.
func (t *Tree) IsReadOnly() bool {
	return t.file.IsReadOnly()
}

// Sync flushes the backing file to stable storage.
func (t *Tree) Sync() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTreeClosed
	}
	return t.file.Sync()
}

// Root returns the offset of the root node, or Null for an empty tree.
func (t *Tree) Root() (Offset, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return Null, ErrTreeClosed
	}
	return t.root()
}

// Height returns the height of the tree: -1 when empty, 0 for one node.
func (t *Tree) Height() (int32, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0, ErrTreeClosed
	}
	root, err := t.root()
	if err != nil {
		return 0, err
	}
	return t.height(root)
}

// IsEmpty reports whether the tree holds no keys.
func (t *Tree) IsEmpty() (bool, error) {
	root, err := t.Root()
	if err != nil {
		return false, err
	}
	return root.IsNull(), nil
}

func (t *Tree) checkReadable() error {
	if t.closed {
		return ErrTreeClosed
	}
	return nil
}

func (t *Tree) checkWritable() error {
	if t.closed {
		return ErrTreeClosed
	}
	if t.file.IsReadOnly() {
		return storage.ErrReadOnly
	}
	return nil
}

// Reset discards every node and leaves an empty tree in a file holding only
// the root pointer.
func (t *Tree) Reset() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkWritable(); err != nil {
		return err
	}
	if err := t.file.Truncate(); err != nil {
		return errors.Wrap(err, "reset tree")
	}
	t.logger.Info("tree reset", "path", t.file.Path())
	return nil
}
