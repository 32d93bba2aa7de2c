package avl

import (
	"github.com/cockroachdb/errors"

	"github.com/luobolong/disk-avl/internal/storage"
)

// NodeInfo is a decoded node record.
type NodeInfo struct {
	Offset Offset
	Left   Offset
	Right  Offset
	Height int32
	Key    int32
}

// IsLeaf reports whether the node has no children.
func (n NodeInfo) IsLeaf() bool {
	return n.Left.IsNull() && n.Right.IsNull()
}

// readNode decodes the whole record at off in one read.
func (t *Tree) readNode(off Offset) (NodeInfo, error) {
	if off.IsNull() {
		return NodeInfo{}, errors.Mark(errors.AssertionFailedf("node read at null offset"), ErrNullDereference)
	}
	if err := t.checkOffset(off); err != nil {
		return NodeInfo{}, err
	}

	var buf [storage.RecordSize]byte
	if err := t.file.ReadAt(buf[:], int64(off)); err != nil {
		return NodeInfo{}, errors.Wrapf(err, "read node %s", off)
	}
	return NodeInfo{
		Offset: off,
		Left:   Offset(storage.ByteOrder.Uint32(buf[leftField:])),
		Right:  Offset(storage.ByteOrder.Uint32(buf[rightField:])),
		Height: int32(storage.ByteOrder.Uint32(buf[heightField:])),
		Key:    int32(storage.ByteOrder.Uint32(buf[keyField:])),
	}, nil
}

// Node returns the decoded record at off.
func (t *Tree) Node(off Offset) (NodeInfo, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkReadable(); err != nil {
		return NodeInfo{}, err
	}
	return t.readNode(off)
}

// Walk visits every node in pre-order with its depth (the root is at 0)
// until fn returns false.
func (t *Tree) Walk(fn func(n NodeInfo, depth int) bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkReadable(); err != nil {
		return err
	}

	root, err := t.root()
	if err != nil {
		return err
	}
	_, err = t.walk(root, 0, fn)
	return err
}

func (t *Tree) walk(off Offset, depth int, fn func(NodeInfo, int) bool) (bool, error) {
	if off.IsNull() {
		return true, nil
	}
	if depth > MaxHeight {
		return false, errors.Wrap(ErrTreeTooDeep, "walk")
	}

	n, err := t.readNode(off)
	if err != nil {
		return false, err
	}
	if !fn(n, depth) {
		return false, nil
	}

	if cont, err := t.walk(n.Left, depth+1, fn); err != nil || !cont {
		return cont, err
	}
	return t.walk(n.Right, depth+1, fn)
}

// Stats describes the state of a tree file.
type Stats struct {
	Path       string
	FileSize   int64
	Root       Offset
	Height     int32
	Slots      int64
	LiveNodes  int64
	FreedSlots int64
	ReadOnly   bool
}

// Stats counts allocated, live and freed record slots.
func (t *Tree) Stats() (Stats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkReadable(); err != nil {
		return Stats{}, err
	}

	root, err := t.root()
	if err != nil {
		return Stats{}, err
	}
	height, err := t.height(root)
	if err != nil {
		return Stats{}, err
	}

	var live int64
	if err := t.ascend(func(Offset, int32) bool {
		live++
		return true
	}); err != nil {
		return Stats{}, err
	}

	size := t.file.Size()
	slots := storage.RecordCount(size)
	return Stats{
		Path:       t.file.Path(),
		FileSize:   size,
		Root:       root,
		Height:     height,
		Slots:      slots,
		LiveNodes:  live,
		FreedSlots: slots - live,
		ReadOnly:   t.file.IsReadOnly(),
	}, nil
}
