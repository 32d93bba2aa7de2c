package avl

import "github.com/cockroachdb/errors"

// Insert adds key to the tree. Inserting a key that is already present
// returns ErrDuplicateKey and leaves the file untouched.
func (t *Tree) Insert(key int32) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkWritable(); err != nil {
		return err
	}

	root, err := t.root()
	if err != nil {
		return err
	}

	newRoot, err := t.insert(root, key, 0)
	if err != nil {
		return err
	}
	if newRoot != root {
		if err := t.setRoot(newRoot); err != nil {
			return err
		}
	}

	t.logger.Debug("key inserted", "key", key, "root", newRoot.String())
	return nil
}

// insert places key in the subtree rooted at off and returns the subtree's
// new root. Nothing is written until the insertion point is found, so a
// duplicate leaves every record as it was.
func (t *Tree) insert(off Offset, key int32, depth int) (Offset, error) {
	if off.IsNull() {
		return t.allocate(key)
	}
	if depth > MaxHeight {
		return Null, errors.Wrapf(ErrTreeTooDeep, "insert %d", key)
	}

	nodeKey, err := t.key(off)
	if err != nil {
		return Null, err
	}

	switch {
	case key < nodeKey:
		l, err := t.left(off)
		if err != nil {
			return Null, err
		}
		nl, err := t.insert(l, key, depth+1)
		if err != nil {
			return Null, err
		}
		if nl != l {
			if err := t.setLeft(off, nl); err != nil {
				return Null, err
			}
		}

	case key > nodeKey:
		r, err := t.right(off)
		if err != nil {
			return Null, err
		}
		nr, err := t.insert(r, key, depth+1)
		if err != nil {
			return Null, err
		}
		if nr != r {
			if err := t.setRight(off, nr); err != nil {
				return Null, err
			}
		}

	default:
		return Null, errors.Wrapf(ErrDuplicateKey, "insert %d", key)
	}

	return t.rebalance(off)
}
