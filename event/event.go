package event

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/astro-stan/itc/alloc"
)

// Event is a node of an event tree. A node with no children is a leaf;
// an internal node has exactly two children. Either way the node
// carries a counter that contributes to every leaf below it.
//
// Nodes are obtained through New, NewLeaf, NewParent, Clone and the
// algebraic operations so that storage accounting stays balanced.
type Event struct {
	left, right *Event
	n           Counter
}

// zero is a read-only stand-in for the implicit zero-leaf children of a
// leaf during fused traversals. It is never owned by a tree and never
// appears in an output.
var zero = &Event{}

// New creates the empty event history, the leaf with counter 0.
func New() (*Event, error) {
	return NewLeaf(0)
}

// NewLeaf creates a leaf with counter n.
func NewLeaf(n Counter) (*Event, error) {
	if err := alloc.Alloc(1); err != nil {
		return nil, err
	}
	return &Event{n: n}, nil
}

// NewParent creates an internal node over left and right, taking
// ownership of both. On failure the children are released.
func NewParent(n Counter, left, right *Event) (*Event, error) {
	if left == nil || right == nil {
		Destroy(left)
		Destroy(right)
		return nil, fmt.Errorf("%w: parent needs two children", ErrIllegalArguments)
	}
	if err := alloc.Alloc(1); err != nil {
		Destroy(left)
		Destroy(right)
		return nil, err
	}
	return &Event{n: n, left: left, right: right}, nil
}

// Lift adds m to the root counter of e in place, shape unchanged.
// On overflow the counter is left untouched.
func Lift(e *Event, m Counter) error {
	if e == nil {
		return fmt.Errorf("%w: nil event", ErrIllegalArguments)
	}
	n, err := checkedAdd(e.n, m)
	if err != nil {
		return err
	}
	e.n = n
	return nil
}

// Sink subtracts m from the root counter of e in place, shape
// unchanged. On underflow the counter is left untouched.
func Sink(e *Event, m Counter) error {
	if e == nil {
		return fmt.Errorf("%w: nil event", ErrIllegalArguments)
	}
	n, err := checkedSub(e.n, m)
	if err != nil {
		return err
	}
	e.n = n
	return nil
}

// IsLeaf reports whether e is a leaf node.
func (e *Event) IsLeaf() bool {
	return e.left == nil && e.right == nil
}

// Value returns the counter carried by the node itself (not the
// accumulated path value).
func (e *Event) Value() Counter { return e.n }

// Left returns the left child, or nil for a leaf.
func (e *Event) Left() *Event { return e.left }

// Right returns the right child, or nil for a leaf.
func (e *Event) Right() *Event { return e.right }

// Clone returns a structurally independent deep copy of e.
func (e *Event) Clone() (*Event, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: nil event", ErrCorruptEvent)
	}
	if e.IsLeaf() {
		return NewLeaf(e.n)
	}
	if err := alloc.Alloc(1); err != nil {
		return nil, err
	}
	c := &Event{n: e.n}
	var err error
	if c.left, err = e.left.Clone(); err != nil {
		Destroy(c)
		return nil, err
	}
	if c.right, err = e.right.Clone(); err != nil {
		Destroy(c)
		return nil, err
	}
	return c, nil
}

// Validate checks the shape invariants of an event tree: internal
// nodes have two distinct children.
func (e *Event) Validate() error {
	if e == nil {
		return fmt.Errorf("%w: nil node", ErrCorruptEvent)
	}
	if e.IsLeaf() {
		return nil
	}
	if e.left == nil || e.right == nil {
		return fmt.Errorf("%w: internal node with a single child", ErrCorruptEvent)
	}
	if e.left == e.right {
		return fmt.Errorf("%w: internal node with aliased children", ErrCorruptEvent)
	}
	if err := e.left.Validate(); err != nil {
		return err
	}
	return e.right.Validate()
}

// Count returns the number of nodes in the tree.
func Count(e *Event) int {
	if e == nil {
		return 0
	}
	return 1 + Count(e.left) + Count(e.right)
}

// Destroy returns the tree's node storage to the allocator port.
// Destroy never fails; callers drop their reference afterwards.
func Destroy(e *Event) {
	if e == nil {
		return
	}
	alloc.Free(Count(e))
}

// Equal reports structural equality of two event trees.
func Equal(a, b *Event) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.n != b.n || a.IsLeaf() != b.IsLeaf() {
		return false
	}
	if a.IsLeaf() {
		return true
	}
	return Equal(a.left, b.left) && Equal(a.right, b.right)
}

// String renders the tree in the usual interval-tree-clock notation,
// e.g. "0", "(0, 1, (2, 0, 1))".
func (e *Event) String() string {
	if e == nil {
		return "<nil>"
	}
	var sb strings.Builder
	e.render(&sb)
	return sb.String()
}

func (e *Event) render(sb *strings.Builder) {
	if e.IsLeaf() {
		sb.WriteString(strconv.FormatUint(uint64(e.n), 10))
		return
	}
	sb.WriteByte('(')
	sb.WriteString(strconv.FormatUint(uint64(e.n), 10))
	sb.WriteString(", ")
	e.left.render(sb)
	sb.WriteString(", ")
	e.right.render(sb)
	sb.WriteByte(')')
}
