package event

import (
	"fmt"

	"github.com/astro-stan/itc/id"
)

// Fill attempts to simplify e on the portions of the interval owned by
// i: wholly-owned subtrees collapse to their maximum, and a wholly-owned
// subtree may also be raised to the minimum of its filled sibling. The
// second result
// reports whether any simplification happened, i.e. whether the fresh
// output differs structurally from e. The inputs are left untouched.
func Fill(i *id.Id, e *Event) (*Event, bool, error) {
	if err := i.Validate(); err != nil {
		return nil, false, err
	}
	if err := e.Validate(); err != nil {
		return nil, false, err
	}
	out, err := fill(i, e)
	if err != nil {
		return nil, false, err
	}
	return out, !Equal(out, e), nil
}

func fill(i *id.Id, e *Event) (*Event, error) {
	switch {
	case i.IsNull():
		return e.Clone()
	case i.IsSeed():
		return Maximise(e)
	case e.IsLeaf():
		return e.Clone()
	case i.Left().IsSeed():
		// The left subinterval is wholly owned: raise the left subtree
		// to a leaf at least as high as everything it covered and at
		// least as high as the minimum of the filled right sibling.
		right, err := fill(i.Right(), e.right)
		if err != nil {
			return nil, err
		}
		n, err := materialise(maxu(maxTotal(e.left), uint64(right.n)))
		if err != nil {
			Destroy(right)
			return nil, err
		}
		left, err := NewLeaf(n)
		if err != nil {
			Destroy(right)
			return nil, err
		}
		return foldNode(uint64(e.n), left, right)
	case i.Right().IsSeed():
		left, err := fill(i.Left(), e.left)
		if err != nil {
			return nil, err
		}
		n, err := materialise(maxu(maxTotal(e.right), uint64(left.n)))
		if err != nil {
			Destroy(left)
			return nil, err
		}
		right, err := NewLeaf(n)
		if err != nil {
			Destroy(left)
			return nil, err
		}
		return foldNode(uint64(e.n), left, right)
	default:
		left, err := fill(i.Left(), e.left)
		if err != nil {
			return nil, err
		}
		right, err := fill(i.Right(), e.right)
		if err != nil {
			Destroy(left)
			return nil, err
		}
		return foldNode(uint64(e.n), left, right)
	}
}

// expandCost is the cost of turning a leaf into an internal node during
// Grow. It dominates any sum of per-level increments: tree depth never
// comes near 2³², so one expansion always outweighs a deeper all-
// increment path.
const expandCost = uint64(1) << 32

// Grow records one additional event in the subinterval owned by i by
// inflating e at minimum cost: prefer incrementing an existing leaf
// under an owned position over adding tree structure, and prefer the
// shallower of two owned positions. Ties descend to the right.
//
// The identity must own something; growing a null identity is the
// caller's guarded no-op, not a tree operation. The inputs are left
// untouched; the result is freshly built and normalised.
func Grow(i *id.Id, e *Event) (*Event, error) {
	if err := i.Validate(); err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if i.IsNull() {
		return nil, fmt.Errorf("%w: cannot grow a null identity", ErrIllegalArguments)
	}
	return grow(i, e)
}

// seedish treats a nil identity as "owns everything below here"; grow
// descends past a seed leaf into event structure with i == nil.
func seedish(i *id.Id) bool {
	return i == nil || i.IsSeed()
}

// growCost is the pure costing pass. Incrementing a leaf under a fully
// owned position is free; every level of descent adds 1; expanding a
// leaf into a node adds expandCost.
func growCost(i *id.Id, e *Event) (uint64, error) {
	if e.IsLeaf() {
		if seedish(i) {
			return 0, nil
		}
		c, err := growCostChildren(i, zero, zero)
		if err != nil {
			return 0, err
		}
		return c + expandCost, nil
	}
	return growCostChildren(i, e.left, e.right)
}

func growCostChildren(i *id.Id, l, r *Event) (uint64, error) {
	switch {
	case seedish(i):
		cl, err := growCost(nil, l)
		if err != nil {
			return 0, err
		}
		cr, err := growCost(nil, r)
		if err != nil {
			return 0, err
		}
		return minu(cl, cr) + 1, nil
	case i.IsNull():
		return 0, fmt.Errorf("%w: null identity inside grow", ErrIllegalArguments)
	case i.Left().IsNull():
		c, err := growCost(i.Right(), r)
		if err != nil {
			return 0, err
		}
		return c + 1, nil
	case i.Right().IsNull():
		c, err := growCost(i.Left(), l)
		if err != nil {
			return 0, err
		}
		return c + 1, nil
	default:
		cl, err := growCost(i.Left(), l)
		if err != nil {
			return 0, err
		}
		cr, err := growCost(i.Right(), r)
		if err != nil {
			return 0, err
		}
		return minu(cl, cr) + 1, nil
	}
}

// grow is the build pass along the minimum-cost path found by growCost.
func grow(i *id.Id, e *Event) (*Event, error) {
	if e.IsLeaf() {
		if seedish(i) {
			n, err := materialise(uint64(e.n) + 1)
			if err != nil {
				return nil, err
			}
			return NewLeaf(n)
		}
		return growChildren(i, e.n, zero, zero)
	}
	return growChildren(i, e.n, e.left, e.right)
}

func growChildren(i *id.Id, base Counter, l, r *Event) (*Event, error) {
	var il, ir *id.Id // nil means wholly owned
	if !seedish(i) {
		if i.IsLeaf() {
			// A null leaf cannot appear on the descent path of a
			// normalised identity; fail rather than misgrow.
			return nil, fmt.Errorf("%w: null identity inside grow", ErrIllegalArguments)
		}
		il, ir = i.Left(), i.Right()
	}
	var downLeft bool
	switch {
	case il != nil && il.IsNull():
		downLeft = false
	case ir != nil && ir.IsNull():
		downLeft = true
	default:
		cl, err := growCost(il, l)
		if err != nil {
			return nil, err
		}
		cr, err := growCost(ir, r)
		if err != nil {
			return nil, err
		}
		downLeft = cl < cr
	}
	var left, right *Event
	var err error
	if downLeft {
		if left, err = grow(il, l); err != nil {
			return nil, err
		}
		if right, err = r.Clone(); err != nil {
			Destroy(left)
			return nil, err
		}
	} else {
		if right, err = grow(ir, r); err != nil {
			return nil, err
		}
		if left, err = l.Clone(); err != nil {
			Destroy(right)
			return nil, err
		}
	}
	return foldNode(uint64(base), left, right)
}
