package avl

import "github.com/cockroachdb/errors"

// Search reports whether key is present.
func (t *Tree) Search(key int32) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkReadable(); err != nil {
		return false, err
	}

	off, err := t.find(key)
	if err != nil {
		return false, err
	}
	return !off.IsNull(), nil
}

// find walks from the root towards key and returns the offset of the node
// holding it, or Null.
func (t *Tree) find(key int32) (Offset, error) {
	off, err := t.root()
	if err != nil {
		return Null, err
	}

	for depth := 0; !off.IsNull(); depth++ {
		if depth > MaxHeight {
			return Null, errors.Wrapf(ErrTreeTooDeep, "search %d", key)
		}

		nodeKey, err := t.key(off)
		if err != nil {
			return Null, err
		}

		switch {
		case key == nodeKey:
			return off, nil
		case key < nodeKey:
			off, err = t.left(off)
		default:
			off, err = t.right(off)
		}
		if err != nil {
			return Null, err
		}
	}
	return Null, nil
}
