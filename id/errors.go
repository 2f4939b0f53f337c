package id

import "errors"

var (
	// ErrCorruptId signals a broken shape invariant on an identity tree.
	ErrCorruptId = errors.New("id: corrupt identity tree")
	// ErrOverlappingInterval signals that Sum was called on identities
	// whose owned subsets intersect.
	ErrOverlappingInterval = errors.New("id: overlapping intervals")
)
