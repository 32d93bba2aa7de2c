package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"

	"github.com/luobolong/disk-avl/internal/storage/avl"
)

var (
	okColor     = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
	errColor    = color.New(color.FgRed)
	keyColor    = color.New(color.FgCyan, color.Bold)
	dimColor    = color.New(color.Faint)
	promptColor = color.New(color.FgBlue, color.Bold)
)

func printError(err error) {
	errColor.Fprintf(stderr, "Error: %v\n", err)
}

// insertKey inserts k and reports the outcome on w.
func insertKey(w io.Writer, tree *avl.Tree, k int32) error {
	err := tree.Insert(k)
	switch {
	case err == nil:
		okColor.Fprintf(w, "inserted %d\n", k)
	case errors.Is(err, avl.ErrDuplicateKey):
		warnColor.Fprintf(w, "duplicate %d\n", k)
	}
	return err
}

func searchKey(w io.Writer, tree *avl.Tree, k int32) error {
	found, err := tree.Search(k)
	if err != nil {
		return err
	}
	if found {
		okColor.Fprintf(w, "found %d\n", k)
	} else {
		warnColor.Fprintf(w, "missing %d\n", k)
	}
	return nil
}

func deleteKey(w io.Writer, tree *avl.Tree, k int32) error {
	deleted, err := tree.Delete(k)
	if err != nil {
		return err
	}
	if deleted {
		okColor.Fprintf(w, "deleted %d\n", k)
	} else {
		warnColor.Fprintf(w, "absent %d\n", k)
	}
	return nil
}

// dumpTree prints the tree in pre-order, one node per line, indented by
// depth. Each line shows which side of its parent the node hangs on, its
// offset, stored height and balance.
func dumpTree(w io.Writer, tree *avl.Tree) error {
	type entry struct {
		node  avl.NodeInfo
		depth int
	}

	var entries []entry
	if err := tree.Walk(func(n avl.NodeInfo, depth int) bool {
		entries = append(entries, entry{n, depth})
		return true
	}); err != nil {
		return err
	}

	if len(entries) == 0 {
		dimColor.Fprintln(w, "(empty)")
		return nil
	}

	heights := make(map[avl.Offset]int32, len(entries))
	side := make(map[avl.Offset]string, len(entries))
	for _, e := range entries {
		heights[e.node.Offset] = e.node.Height
		side[e.node.Left] = "L"
		side[e.node.Right] = "R"
	}
	heightOf := func(off avl.Offset) int32 {
		if off.IsNull() {
			return -1
		}
		return heights[off]
	}

	for i, e := range entries {
		label := side[e.node.Offset]
		if i == 0 {
			label = "*"
		}
		balance := heightOf(e.node.Right) - heightOf(e.node.Left)

		fmt.Fprintf(w, "%s%s ", strings.Repeat("  ", e.depth), label)
		keyColor.Fprintf(w, "%d", e.node.Key)
		dimColor.Fprintf(w, " [off=%s h=%d bal=%+d]\n", e.node.Offset, e.node.Height, balance)
	}
	return nil
}

// checkTree verifies the tree and prints a one-line summary.
func checkTree(w io.Writer, tree *avl.Tree) error {
	if err := tree.Verify(); err != nil {
		return err
	}
	n, err := tree.Len()
	if err != nil {
		return err
	}
	h, err := tree.Height()
	if err != nil {
		return err
	}
	okColor.Fprintf(w, "ok: %d keys, height %d\n", n, h)
	return nil
}

func printStats(w io.Writer, tree *avl.Tree) error {
	st, err := tree.Stats()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "File:        %s\n", st.Path)
	fmt.Fprintf(w, "Size:        %d bytes\n", st.FileSize)
	fmt.Fprintf(w, "Root:        %s\n", st.Root)
	fmt.Fprintf(w, "Height:      %d\n", st.Height)
	fmt.Fprintf(w, "Slots:       %d\n", st.Slots)
	fmt.Fprintf(w, "Live nodes:  %d\n", st.LiveNodes)
	fmt.Fprintf(w, "Freed slots: %d\n", st.FreedSlots)
	fmt.Fprintf(w, "Read-only:   %v\n", st.ReadOnly)
	return nil
}
