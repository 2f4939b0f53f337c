package id

import "fmt"

// Split partitions the owned set of i into two disjoint identities
// whose sum re-forms i. The input is left untouched; both results are
// freshly built.
//
// A null identity splits into two nulls, the seed splits into the two
// halves ((1,0), (0,1)), and a part-owned tree splits along its first
// internal fork.
func Split(i *Id) (*Id, *Id, error) {
	if err := i.Validate(); err != nil {
		return nil, nil, err
	}
	return split(i)
}

func split(i *Id) (*Id, *Id, error) {
	if i.IsLeaf() {
		if !i.owned {
			return splitNull()
		}
		return splitSeed()
	}
	switch {
	case i.left.IsNull():
		// (0, i) -> ((0, i1), (0, i2))
		r1, r2, err := split(i.right)
		if err != nil {
			return nil, nil, err
		}
		return wrap(r1, r2, false)
	case i.right.IsNull():
		// (i, 0) -> ((i1, 0), (i2, 0))
		l1, l2, err := split(i.left)
		if err != nil {
			return nil, nil, err
		}
		return wrap(l1, l2, true)
	default:
		// (i1, i2) -> ((i1, 0), (0, i2))
		l, err := i.left.Clone()
		if err != nil {
			return nil, nil, err
		}
		r, err := i.right.Clone()
		if err != nil {
			Destroy(l)
			return nil, nil, err
		}
		a, err := grafted(l, true)
		if err != nil {
			Destroy(l)
			Destroy(r)
			return nil, nil, err
		}
		b, err := grafted(r, false)
		if err != nil {
			Destroy(a)
			Destroy(r)
			return nil, nil, err
		}
		return a, b, nil
	}
}

func splitNull() (*Id, *Id, error) {
	a, err := Null()
	if err != nil {
		return nil, nil, err
	}
	b, err := Null()
	if err != nil {
		Destroy(a)
		return nil, nil, err
	}
	return a, b, nil
}

func splitSeed() (*Id, *Id, error) {
	s1, err := half(true)
	if err != nil {
		return nil, nil, err
	}
	s2, err := half(false)
	if err != nil {
		Destroy(s1)
		return nil, nil, err
	}
	return s1, s2, nil
}

// half builds (1,0) or (0,1).
func half(left bool) (*Id, error) {
	seed, err := Seed()
	if err != nil {
		return nil, err
	}
	p, err := grafted(seed, left)
	if err != nil {
		Destroy(seed)
		return nil, err
	}
	return p, nil
}

// grafted puts sub under a fresh parent, on the given side, with a null
// leaf on the other. On failure sub is NOT destroyed; the caller keeps
// ownership.
func grafted(sub *Id, left bool) (*Id, error) {
	null, err := Null()
	if err != nil {
		return nil, err
	}
	var p *Id
	if left {
		p, err = newParent(sub, null)
	} else {
		p, err = newParent(null, sub)
	}
	if err != nil {
		Destroy(null)
		return nil, err
	}
	return p, nil
}

// wrap grafts both split halves on the given side of fresh parents.
// On failure the halves are released.
func wrap(a, b *Id, left bool) (*Id, *Id, error) {
	pa, err := grafted(a, left)
	if err != nil {
		Destroy(a)
		Destroy(b)
		return nil, nil, err
	}
	pb, err := grafted(b, left)
	if err != nil {
		Destroy(pa)
		Destroy(b)
		return nil, nil, err
	}
	return pa, pb, nil
}

// Sum combines two disjoint identities into one. Overlapping owned
// subsets fail with ErrOverlappingInterval. The inputs are left
// untouched; the result is freshly built and normalised.
func Sum(a, b *Id) (*Id, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return sum(a, b)
}

func sum(a, b *Id) (*Id, error) {
	switch {
	case a.IsNull():
		return b.Clone()
	case b.IsNull():
		return a.Clone()
	case a.IsLeaf() || b.IsLeaf():
		// A seed facing anything non-null overlaps it.
		tracer().Debugf("id sum of %v and %v overlaps", a, b)
		return nil, fmt.Errorf("%w: %v + %v", ErrOverlappingInterval, a, b)
	}
	left, err := sum(a.left, b.left)
	if err != nil {
		return nil, err
	}
	right, err := sum(a.right, b.right)
	if err != nil {
		Destroy(left)
		return nil, err
	}
	return foldParent(left, right)
}

// foldParent builds the normalised parent of two already-normalised
// subtrees: (0,0) and (1,1) collapse to the corresponding leaf.
func foldParent(left, right *Id) (*Id, error) {
	if left.IsLeaf() && right.IsLeaf() && left.owned == right.owned {
		owned := left.owned
		Destroy(left)
		Destroy(right)
		return newLeaf(owned)
	}
	p, err := newParent(left, right)
	if err != nil {
		Destroy(left)
		Destroy(right)
		return nil, err
	}
	return p, nil
}

// Normalise canonicalises i in place: subtrees of shape (0,0) or (1,1)
// collapse to the corresponding leaf. The returned pointer is i itself;
// collapsed node storage is returned to the allocator port. Normalise
// never fails.
func Normalise(i *Id) *Id {
	if i == nil || i.IsLeaf() {
		return i
	}
	i.left = Normalise(i.left)
	i.right = Normalise(i.right)
	if i.left.IsLeaf() && i.right.IsLeaf() && i.left.owned == i.right.owned {
		owned := i.left.owned
		Destroy(i.left)
		Destroy(i.right)
		i.left, i.right = nil, nil
		i.owned = owned
	}
	return i
}
