package avl

import "github.com/cockroachdb/errors"

// Delete removes key from the tree and reports whether it was present.
// Deleting an absent key is not an error.
//
// A node with two children takes the key of its in-order successor, and the
// successor is then removed from the right subtree. Every node on the path
// back to the root is rebalanced.
func (t *Tree) Delete(key int32) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkWritable(); err != nil {
		return false, err
	}

	root, err := t.root()
	if err != nil {
		return false, err
	}

	var deleted bool
	newRoot, err := t.delete(root, key, 0, &deleted)
	if err != nil {
		return false, err
	}
	if newRoot != root {
		if err := t.setRoot(newRoot); err != nil {
			return false, err
		}
	}

	if deleted {
		t.logger.Debug("key deleted", "key", key, "root", newRoot.String())
	}
	return deleted, nil
}

func (t *Tree) delete(off Offset, key int32, depth int, deleted *bool) (Offset, error) {
	if off.IsNull() {
		return Null, nil
	}
	if depth > MaxHeight {
		return Null, errors.Wrapf(ErrTreeTooDeep, "delete %d", key)
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
		nl, err := t.delete(l, key, depth+1, deleted)
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
		nr, err := t.delete(r, key, depth+1, deleted)
		if err != nil {
			return Null, err
		}
		if nr != r {
			if err := t.setRight(off, nr); err != nil {
				return Null, err
			}
		}

	default:
		*deleted = true

		l, err := t.left(off)
		if err != nil {
			return Null, err
		}
		r, err := t.right(off)
		if err != nil {
			return Null, err
		}

		if l.IsNull() || r.IsNull() {
			child := l
			if child.IsNull() {
				child = r
			}
			if err := t.free(off); err != nil {
				return Null, err
			}
			return child, nil
		}

		succ, err := t.successor(r)
		if err != nil {
			return Null, err
		}
		succKey, err := t.key(succ)
		if err != nil {
			return Null, err
		}
		if err := t.setKey(off, succKey); err != nil {
			return Null, err
		}
		nr, err := t.delete(r, succKey, depth+1, deleted)
		if err != nil {
			return Null, err
		}
		if nr != r {
			if err := t.setRight(off, nr); err != nil {
				return Null, err
			}
		}
	}

	if !*deleted {
		return off, nil
	}
	return t.rebalance(off)
}

// successor returns the leftmost node of the subtree rooted at off.
func (t *Tree) successor(off Offset) (Offset, error) {
	for depth := 0; ; depth++ {
		if depth > MaxHeight {
			return Null, ErrTreeTooDeep
		}
		l, err := t.left(off)
		if err != nil {
			return Null, err
		}
		if l.IsNull() {
			return off, nil
		}
		off = l
	}
}
