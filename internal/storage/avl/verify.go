package avl

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Violation names the invariant a VerifyError reports.
type Violation string

// Invariants checked by Verify.
const (
	ViolationOffset  Violation = "offset out of range"
	ViolationCycle   Violation = "node reachable twice"
	ViolationOrder   Violation = "keys out of order"
	ViolationHeight  Violation = "stored height mismatch"
	ViolationBalance Violation = "subtree heights differ by more than one"
)

// VerifyError describes the first invariant violation found by Verify.
type VerifyError struct {
	Offset    Offset
	Violation Violation
	Detail    string
}

// Error implements the error interface.
func (e *VerifyError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("avl: node %s: %s", e.Offset, e.Violation)
	}
	return fmt.Sprintf("avl: node %s: %s: %s", e.Offset, e.Violation, e.Detail)
}

// Verify walks the whole tree and checks that every child pointer lands on
// a record, no node is reachable twice, keys are strictly ordered, stored
// heights match the children and every node is balanced. It returns a
// *VerifyError for the first violation found.
func (t *Tree) Verify() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.checkReadable(); err != nil {
		return err
	}

	root, err := t.root()
	if err != nil {
		return err
	}

	v := &verifier{tree: t, seen: make(map[Offset]bool)}
	_, err = v.check(root, nil, nil, 0)
	return err
}

type verifier struct {
	tree *Tree
	seen map[Offset]bool
}

// check validates the subtree at off whose keys must lie strictly between
// lo and hi (nil means unbounded) and returns its computed height.
func (v *verifier) check(off Offset, lo, hi *int32, depth int) (int32, error) {
	if off.IsNull() {
		return -1, nil
	}
	if depth > MaxHeight {
		return 0, &VerifyError{Offset: off, Violation: ViolationBalance, Detail: "depth exceeds maximum height"}
	}
	if err := v.tree.checkOffset(off); err != nil {
		return 0, &VerifyError{Offset: off, Violation: ViolationOffset}
	}
	if v.seen[off] {
		return 0, &VerifyError{Offset: off, Violation: ViolationCycle}
	}
	v.seen[off] = true

	n, err := v.tree.readNode(off)
	if err != nil {
		return 0, err
	}

	if (lo != nil && n.Key <= *lo) || (hi != nil && n.Key >= *hi) {
		return 0, &VerifyError{
			Offset:    off,
			Violation: ViolationOrder,
			Detail:    fmt.Sprintf("key %d outside %s", n.Key, bounds(lo, hi)),
		}
	}

	lh, err := v.check(n.Left, lo, &n.Key, depth+1)
	if err != nil {
		return 0, err
	}
	rh, err := v.check(n.Right, &n.Key, hi, depth+1)
	if err != nil {
		return 0, err
	}

	h := lh
	if rh > h {
		h = rh
	}
	h++

	if n.Height != h {
		return 0, &VerifyError{
			Offset:    off,
			Violation: ViolationHeight,
			Detail:    fmt.Sprintf("stored %d, computed %d", n.Height, h),
		}
	}
	if d := rh - lh; d > 1 || d < -1 {
		return 0, &VerifyError{
			Offset:    off,
			Violation: ViolationBalance,
			Detail:    fmt.Sprintf("balance %d", d),
		}
	}
	return h, nil
}

func bounds(lo, hi *int32) string {
	l, h := "-inf", "+inf"
	if lo != nil {
		l = fmt.Sprint(*lo)
	}
	if hi != nil {
		h = fmt.Sprint(*hi)
	}
	return "(" + l + ", " + h + ")"
}

// IsVerifyError reports whether err carries a *VerifyError.
func IsVerifyError(err error) bool {
	var ve *VerifyError
	return errors.As(err, &ve)
}
