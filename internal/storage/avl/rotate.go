package avl

// rotateRight lifts the left child of off into its place and returns the
// new subtree root.
//
//	    off            l
//	   /   \          / \
//	  l     c   =>   a  off
//	 / \                /  \
//	a   lr             lr   c
func (t *Tree) rotateRight(off Offset) (Offset, error) {
	l, err := t.left(off)
	if err != nil {
		return Null, err
	}
	lr, err := t.right(l)
	if err != nil {
		return Null, err
	}
	if err := t.setRight(l, off); err != nil {
		return Null, err
	}
	if err := t.setLeft(off, lr); err != nil {
		return Null, err
	}
	if err := t.updateHeight(off); err != nil {
		return Null, err
	}
	if err := t.updateHeight(l); err != nil {
		return Null, err
	}
	t.logger.Debug("rotate right", "at", off.String(), "newRoot", l.String())
	return l, nil
}

// rotateLeft is the mirror of rotateRight. The old root adopts the left
// subtree of its right child.
func (t *Tree) rotateLeft(off Offset) (Offset, error) {
	r, err := t.right(off)
	if err != nil {
		return Null, err
	}
	rl, err := t.left(r)
	if err != nil {
		return Null, err
	}
	if err := t.setLeft(r, off); err != nil {
		return Null, err
	}
	if err := t.setRight(off, rl); err != nil {
		return Null, err
	}
	if err := t.updateHeight(off); err != nil {
		return Null, err
	}
	if err := t.updateHeight(r); err != nil {
		return Null, err
	}
	t.logger.Debug("rotate left", "at", off.String(), "newRoot", r.String())
	return r, nil
}

// rebalance refreshes the height of off and applies at most one single or
// double rotation. It returns the root of the resulting subtree.
func (t *Tree) rebalance(off Offset) (Offset, error) {
	if err := t.updateHeight(off); err != nil {
		return Null, err
	}
	b, err := t.balance(off)
	if err != nil {
		return Null, err
	}

	switch {
	case b > 1:
		r, err := t.right(off)
		if err != nil {
			return Null, err
		}
		rb, err := t.balance(r)
		if err != nil {
			return Null, err
		}
		// Right-left case.
		if rb < 0 {
			nr, err := t.rotateRight(r)
			if err != nil {
				return Null, err
			}
			if err := t.setRight(off, nr); err != nil {
				return Null, err
			}
		}
		return t.rotateLeft(off)

	case b < -1:
		l, err := t.left(off)
		if err != nil {
			return Null, err
		}
		lb, err := t.balance(l)
		if err != nil {
			return Null, err
		}
		// Left-right case.
		if lb > 0 {
			nl, err := t.rotateLeft(l)
			if err != nil {
				return Null, err
			}
			if err := t.setLeft(off, nl); err != nil {
				return Null, err
			}
		}
		return t.rotateRight(off)
	}

	return off, nil
}
