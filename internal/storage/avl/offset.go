package avl

import "fmt"

// Offset is the byte position of a node record within the tree file.
type Offset uint32

// Null is the offset used for an absent child or an empty tree.
const Null Offset = 0

// IsNull reports whether the offset refers to no node.
func (o Offset) IsNull() bool {
	return o == Null
}

// String formats the offset in hex, or "null".
func (o Offset) String() string {
	if o == Null {
		return "null"
	}
	return fmt.Sprintf("0x%x", uint32(o))
}
