package id

import (
	"fmt"
	"strings"

	"github.com/astro-stan/itc/alloc"
)

// Id is a node of an identity tree. A node with no children is a leaf
// and its owned flag is meaningful; an internal node has exactly two
// children and owns nothing itself.
//
// The zero value is the null leaf, but nodes should be obtained through
// Null, Seed, Clone, Split and Sum so that storage accounting stays
// balanced.
type Id struct {
	left, right *Id
	owned       bool
}

// Null creates the identity that owns nothing.
func Null() (*Id, error) {
	return newLeaf(false)
}

// Seed creates the identity that owns all of [0,1).
func Seed() (*Id, error) {
	return newLeaf(true)
}

func newLeaf(owned bool) (*Id, error) {
	if err := alloc.Alloc(1); err != nil {
		return nil, err
	}
	return &Id{owned: owned}, nil
}

func newParent(left, right *Id) (*Id, error) {
	if err := alloc.Alloc(1); err != nil {
		return nil, err
	}
	return &Id{left: left, right: right}, nil
}

// Parent creates an internal node over left and right, taking ownership
// of both. On failure the children are released.
func Parent(left, right *Id) (*Id, error) {
	if left == nil || right == nil {
		Destroy(left)
		Destroy(right)
		return nil, fmt.Errorf("%w: parent needs two children", ErrCorruptId)
	}
	p, err := newParent(left, right)
	if err != nil {
		Destroy(left)
		Destroy(right)
		return nil, err
	}
	return p, nil
}

// IsLeaf reports whether i is a leaf node.
func (i *Id) IsLeaf() bool {
	return i.left == nil && i.right == nil
}

// IsNull reports whether i is the null leaf.
func (i *Id) IsNull() bool {
	return i.IsLeaf() && !i.owned
}

// IsSeed reports whether i is the seed leaf.
func (i *Id) IsSeed() bool {
	return i.IsLeaf() && i.owned
}

// Left returns the left child, or nil for a leaf.
func (i *Id) Left() *Id { return i.left }

// Right returns the right child, or nil for a leaf.
func (i *Id) Right() *Id { return i.right }

// Owned reports the owner flag of a leaf.
func (i *Id) Owned() bool { return i.owned }

// Clone returns a structurally independent deep copy of i.
func (i *Id) Clone() (*Id, error) {
	if i == nil {
		return nil, fmt.Errorf("%w: nil identity", ErrCorruptId)
	}
	if i.IsLeaf() {
		return newLeaf(i.owned)
	}
	c, err := newParent(nil, nil)
	if err != nil {
		return nil, err
	}
	if c.left, err = i.left.Clone(); err != nil {
		Destroy(c)
		return nil, err
	}
	if c.right, err = i.right.Clone(); err != nil {
		Destroy(c)
		return nil, err
	}
	return c, nil
}

// Validate checks the shape invariants of an identity tree: internal
// nodes have two distinct children and no owner flag.
func (i *Id) Validate() error {
	if i == nil {
		return fmt.Errorf("%w: nil node", ErrCorruptId)
	}
	if i.IsLeaf() {
		return nil
	}
	if i.left == nil || i.right == nil {
		return fmt.Errorf("%w: internal node with a single child", ErrCorruptId)
	}
	if i.left == i.right {
		return fmt.Errorf("%w: internal node with aliased children", ErrCorruptId)
	}
	if i.owned {
		return fmt.Errorf("%w: internal node carries an owner flag", ErrCorruptId)
	}
	if err := i.left.Validate(); err != nil {
		return err
	}
	return i.right.Validate()
}

// Count returns the number of nodes in the tree.
func Count(i *Id) int {
	if i == nil {
		return 0
	}
	return 1 + Count(i.left) + Count(i.right)
}

// Destroy returns the tree's node storage to the allocator port.
// Destroy never fails; callers drop their reference afterwards.
func Destroy(i *Id) {
	if i == nil {
		return
	}
	alloc.Free(Count(i))
}

// Equal reports structural equality of two identity trees.
func Equal(a, b *Id) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.IsLeaf() != b.IsLeaf() {
		return false
	}
	if a.IsLeaf() {
		return a.owned == b.owned
	}
	return Equal(a.left, b.left) && Equal(a.right, b.right)
}

// String renders the tree in the usual interval-tree-clock notation,
// e.g. "1", "0", "(1, (0, 1))".
func (i *Id) String() string {
	if i == nil {
		return "<nil>"
	}
	var sb strings.Builder
	i.render(&sb)
	return sb.String()
}

func (i *Id) render(sb *strings.Builder) {
	if i.IsLeaf() {
		if i.owned {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
		return
	}
	sb.WriteByte('(')
	i.left.render(sb)
	sb.WriteString(", ")
	i.right.render(sb)
	sb.WriteByte(')')
}
