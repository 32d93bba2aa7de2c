package avl

import (
	"github.com/cockroachdb/errors"

	"github.com/luobolong/disk-avl/internal/storage"
)

// Byte positions of the fields inside a node record.
const (
	leftField   = 0
	rightField  = 4
	heightField = 8
	keyField    = 12
)

var fieldNames = map[int64]string{
	leftField:   "left",
	rightField:  "right",
	heightField: "height",
	keyField:    "key",
}

// nullDereference builds the assertion failure for reading a field at Null.
func nullDereference(field int64) error {
	return errors.Mark(
		errors.AssertionFailedf("%s field read at null offset", errors.Safe(fieldNames[field])),
		ErrNullDereference,
	)
}

// checkOffset verifies that off points at the start of a record inside the
// file.
func (t *Tree) checkOffset(off Offset) error {
	pos := int64(off)
	if pos < storage.HeaderSize || (pos-storage.HeaderSize)%storage.RecordSize != 0 ||
		pos+storage.RecordSize > t.file.Size() {
		return errors.Wrapf(storage.ErrInvalidOffset, "node %s", off)
	}
	return nil
}

// fieldPos returns the absolute file position of a field of node off.
func (t *Tree) fieldPos(off Offset, field int64) (int64, error) {
	if off.IsNull() {
		return 0, nullDereference(field)
	}
	if err := t.checkOffset(off); err != nil {
		return 0, err
	}
	return int64(off) + field, nil
}

func (t *Tree) readField(off Offset, field int64) (uint32, error) {
	pos, err := t.fieldPos(off, field)
	if err != nil {
		return 0, err
	}
	v, err := t.file.ReadUint32At(pos)
	if err != nil {
		return 0, errors.Wrapf(err, "read %s of node %s", fieldNames[field], off)
	}
	return v, nil
}

func (t *Tree) writeField(off Offset, field int64, v uint32) error {
	pos, err := t.fieldPos(off, field)
	if err != nil {
		return err
	}
	if err := t.file.WriteUint32At(pos, v); err != nil {
		return errors.Wrapf(err, "write %s of node %s", fieldNames[field], off)
	}
	return nil
}

func (t *Tree) left(off Offset) (Offset, error) {
	v, err := t.readField(off, leftField)
	return Offset(v), err
}

func (t *Tree) right(off Offset) (Offset, error) {
	v, err := t.readField(off, rightField)
	return Offset(v), err
}

func (t *Tree) key(off Offset) (int32, error) {
	v, err := t.readField(off, keyField)
	return int32(v), err
}

// height returns the stored height of off, or -1 for Null.
func (t *Tree) height(off Offset) (int32, error) {
	if off.IsNull() {
		return -1, nil
	}
	v, err := t.readField(off, heightField)
	return int32(v), err
}

func (t *Tree) setLeft(off, child Offset) error {
	return t.writeField(off, leftField, uint32(child))
}

func (t *Tree) setRight(off, child Offset) error {
	return t.writeField(off, rightField, uint32(child))
}

func (t *Tree) setKey(off Offset, key int32) error {
	return t.writeField(off, keyField, uint32(key))
}

func (t *Tree) setHeight(off Offset, h int32) error {
	return t.writeField(off, heightField, uint32(h))
}

// updateHeight recomputes the height of off from its children.
func (t *Tree) updateHeight(off Offset) error {
	l, err := t.left(off)
	if err != nil {
		return err
	}
	r, err := t.right(off)
	if err != nil {
		return err
	}
	lh, err := t.height(l)
	if err != nil {
		return err
	}
	rh, err := t.height(r)
	if err != nil {
		return err
	}
	if lh < rh {
		lh = rh
	}
	return t.setHeight(off, lh+1)
}

// balance returns height(right) - height(left). A positive value means the
// node is right-heavy.
func (t *Tree) balance(off Offset) (int32, error) {
	l, err := t.left(off)
	if err != nil {
		return 0, err
	}
	r, err := t.right(off)
	if err != nil {
		return 0, err
	}
	lh, err := t.height(l)
	if err != nil {
		return 0, err
	}
	rh, err := t.height(r)
	if err != nil {
		return 0, err
	}
	return rh - lh, nil
}

func (t *Tree) root() (Offset, error) {
	v, err := t.file.ReadUint32At(storage.RootPointerOffset)
	if err != nil {
		return Null, errors.Wrap(err, "read root pointer")
	}
	return Offset(v), nil
}

func (t *Tree) setRoot(off Offset) error {
	if err := t.file.WriteUint32At(storage.RootPointerOffset, uint32(off)); err != nil {
		return errors.Wrap(err, "write root pointer")
	}
	return nil
}

// allocate appends a zeroed record, stores key in it and returns its offset.
// The zero fill leaves both children null and the height at 0.
func (t *Tree) allocate(key int32) (Offset, error) {
	pos, err := t.file.Append(storage.RecordSize)
	if err != nil {
		return Null, errors.Wrapf(err, "allocate node for key %d", key)
	}
	off := Offset(pos)
	if err := t.setKey(off, key); err != nil {
		return Null, err
	}
	return off, nil
}

// free zeroes the record at off. The slot is not reused.
func (t *Tree) free(off Offset) error {
	if off.IsNull() {
		return errors.Mark(errors.AssertionFailedf("free at null offset"), ErrNullDereference)
	}
	if err := t.file.Zero(int64(off), storage.RecordSize); err != nil {
		return errors.Wrapf(err, "free node %s", off)
	}
	return nil
}
