package avl

import "github.com/cockroachdb/errors"

// Ascend calls fn for every key in ascending order until fn returns false.
func (t *Tree) Ascend(fn func(key int32) bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkReadable(); err != nil {
		return err
	}
	return t.ascend(func(_ Offset, key int32) bool { return fn(key) })
}

// ascend performs an in-order walk with an explicit stack.
func (t *Tree) ascend(fn func(off Offset, key int32) bool) error {
	off, err := t.root()
	if err != nil {
		return err
	}

	stack := make([]Offset, 0, MaxHeight)
	for !off.IsNull() || len(stack) > 0 {
		for !off.IsNull() {
			if len(stack) >= MaxHeight {
				return errors.Wrap(ErrTreeTooDeep, "ascend")
			}
			stack = append(stack, off)
			if off, err = t.left(off); err != nil {
				return err
			}
		}

		off = stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		key, err := t.key(off)
		if err != nil {
			return err
		}
		if !fn(off, key) {
			return nil
		}

		if off, err = t.right(off); err != nil {
			return err
		}
	}
	return nil
}

// Keys returns every key in ascending order.
func (t *Tree) Keys() ([]int32, error) {
	var keys []int32
	err := t.Ascend(func(key int32) bool {
		keys = append(keys, key)
		return true
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// Len returns the number of keys in the tree.
func (t *Tree) Len() (int, error) {
	n := 0
	err := t.Ascend(func(int32) bool {
		n++
		return true
	})
	return n, err
}

// Min returns the smallest key. ok is false when the tree is empty.
func (t *Tree) Min() (key int32, ok bool, err error) {
	return t.edge(t.left)
}

// Max returns the largest key. ok is false when the tree is empty.
func (t *Tree) Max() (key int32, ok bool, err error) {
	return t.edge(t.right)
}

// edge follows next from the root until it reaches Null and returns the key
// of the last node visited.
func (t *Tree) edge(next func(Offset) (Offset, error)) (int32, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkReadable(); err != nil {
		return 0, false, err
	}

	off, err := t.root()
	if err != nil || off.IsNull() {
		return 0, false, err
	}

	for depth := 0; ; depth++ {
		if depth > MaxHeight {
			return 0, false, ErrTreeTooDeep
		}
		n, err := next(off)
		if err != nil {
			return 0, false, err
		}
		if n.IsNull() {
			break
		}
		off = n
	}

	key, err := t.key(off)
	if err != nil {
		return 0, false, err
	}
	return key, true, nil
}
