package event

// Normalise canonicalises e in place: two equal leaf children collapse
// into their parent, and the common minimum of two children is lifted
// into the parent's counter. The returned pointer is e itself.
//
// A counter overflow aborts the rewrite with ErrCounterOverflow. The
// tree is then possibly only partially canonicalised, but every rewrite
// step preserves the per-leaf path sums, so it still denotes the same
// event history.
func Normalise(e *Event) (*Event, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return norm(e)
}

func norm(e *Event) (*Event, error) {
	if e.IsLeaf() {
		return e, nil
	}
	left, err := norm(e.left)
	if err != nil {
		return nil, err
	}
	right, err := norm(e.right)
	if err != nil {
		return nil, err
	}
	e.left, e.right = left, right
	if e.left.IsLeaf() && e.right.IsLeaf() && e.left.n == e.right.n {
		n, err := checkedAdd(e.n, e.left.n)
		if err != nil {
			return nil, err
		}
		Destroy(e.left)
		Destroy(e.right)
		e.left, e.right = nil, nil
		e.n = n
		return e, nil
	}
	// Children are normalised, so each child's counter is the minimum
	// of its subtree.
	m := minc(e.left.n, e.right.n)
	n, err := checkedAdd(e.n, m)
	if err != nil {
		return nil, err
	}
	e.n = n
	e.left.n -= m
	e.right.n -= m
	return e, nil
}

// foldNode builds the normalised parent of two already-normalised,
// freshly built subtrees. The base is the parent's accumulated counter
// value; ownership of the children passes to foldNode, which releases
// them on every failure path.
func foldNode(base uint64, left, right *Event) (*Event, error) {
	if left.IsLeaf() && right.IsLeaf() && left.n == right.n {
		n, err := materialise(base + uint64(left.n))
		if err != nil {
			Destroy(left)
			Destroy(right)
			return nil, err
		}
		Destroy(left)
		Destroy(right)
		return NewLeaf(n)
	}
	m := minc(left.n, right.n)
	n, err := materialise(base + uint64(m))
	if err != nil {
		Destroy(left)
		Destroy(right)
		return nil, err
	}
	left.n -= m
	right.n -= m
	return NewParent(n, left, right)
}

// maxTotal returns the maximum root-to-leaf path sum of e, i.e. the
// largest logical time the tree has witnessed anywhere.
func maxTotal(e *Event) uint64 {
	if e.IsLeaf() {
		return uint64(e.n)
	}
	return uint64(e.n) + maxu(maxTotal(e.left), maxTotal(e.right))
}

// Maximise collapses an event tree to the single leaf carrying its
// maximum path sum. The input is left untouched; the leaf is fresh.
func Maximise(e *Event) (*Event, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	n, err := materialise(maxTotal(e))
	if err != nil {
		return nil, err
	}
	return NewLeaf(n)
}
