// Package storage provides the backing store for the disk-resident AVL tree.
package storage

// Options configures a backing File.
type Options struct {
	// CreateIfNew creates the file if it doesn't exist.
	// Default: true.
	CreateIfNew bool

	// ReadOnly opens the file in read-only mode. Every mutation fails
	// with ErrReadOnly.
	// Default: false.
	ReadOnly bool

	// SyncOnWrite forces fsync after each write operation.
	// Default: false (better performance, less durability).
	SyncOnWrite bool
}

// DefaultOptions returns the default File options.
func DefaultOptions() Options {
	return Options{
		CreateIfNew: true,
		ReadOnly:    false,
		SyncOnWrite: false,
	}
}

// WithCreateIfNew enables or disables auto-creation.
func (o Options) WithCreateIfNew(create bool) Options {
	o.CreateIfNew = create
	return o
}

// WithReadOnly enables or disables read-only mode.
func (o Options) WithReadOnly(readOnly bool) Options {
	o.ReadOnly = readOnly
	return o
}

// WithSyncOnWrite enables or disables sync on write.
func (o Options) WithSyncOnWrite(sync bool) Options {
	o.SyncOnWrite = sync
	return o
}
