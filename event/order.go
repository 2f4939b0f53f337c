package event

// Leq reports whether every leaf of a has witnessed at most the logical
// time the corresponding position of b has witnessed. It is the partial
// order the stamp-level comparison is built from.
//
// The traversal is fused: instead of lifting subtrees while descending,
// the accumulated parent counters of both sides travel along as 64-bit
// values, and the walk stops at the first position where the pointwise
// inequality fails. Accumulators cannot wrap: the number of 32-bit
// addends is bounded by the tree depth.
func Leq(a, b *Event) bool {
	if a == nil || b == nil {
		return false
	}
	return leq(a, 0, b, 0)
}

func leq(a *Event, va uint64, b *Event, vb uint64) bool {
	va += uint64(a.n)
	vb += uint64(b.n)
	if va > vb {
		return false
	}
	if a.IsLeaf() {
		return true
	}
	// Descending b past a leaf compares against the leaf itself.
	bl, br := b, b
	db := vb - uint64(b.n)
	if !b.IsLeaf() {
		bl, br = b.left, b.right
		db = vb
	}
	return leq(a.left, va, bl, db) && leq(a.right, va, br, db)
}

// Join builds the least upper bound of two event histories: the
// pointwise maximum of the logical times witnessed by a and b. The
// inputs are left untouched; the result is freshly built and
// normalised.
func Join(a, b *Event) (*Event, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return join(a, 0, b, 0)
}

// join builds the pointwise maximum of a lifted by va and b lifted by
// vb, with counters relative to the caller's position.
func join(a *Event, va uint64, b *Event, vb uint64) (*Event, error) {
	va += uint64(a.n)
	vb += uint64(b.n)
	if a.IsLeaf() && b.IsLeaf() {
		n, err := materialise(maxu(va, vb))
		if err != nil {
			return nil, err
		}
		return NewLeaf(n)
	}
	// A leaf joins like the node (n, 0, 0).
	al, ar := zero, zero
	if !a.IsLeaf() {
		al, ar = a.left, a.right
	}
	bl, br := zero, zero
	if !b.IsLeaf() {
		bl, br = b.left, b.right
	}
	left, err := join(al, va, bl, vb)
	if err != nil {
		return nil, err
	}
	right, err := join(ar, va, br, vb)
	if err != nil {
		Destroy(left)
		return nil, err
	}
	return foldNode(0, left, right)
}
