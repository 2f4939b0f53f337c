/*
Package event implements the event trees of an interval tree clock.

An event tree is a binary tree of monotone counters. A node's counter
contributes additively to every leaf below it, so the logical time seen
at a leaf is the sum of the counters along the root-to-leaf path. The
package provides the causality algebra over such trees: canonicalisation
(Normalise), the partial order (Leq), the least upper bound (Join), and
the two strategies a clock uses to record a new happening on the
interval its identity owns (Fill, which simplifies, and Grow, which
inflates the tree at minimum cost).

Counter arithmetic is checked: any step that would wrap fails with
ErrCounterOverflow or ErrCounterUnderflow and leaves its operands
untouched.

Except for Normalise, which canonicalises a tree in place, and Lift and
Sink, which adjust a root counter in place, all operations build fresh
trees and leave their inputs alone.
*/
package event

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'itc'.
func tracer() tracing.Trace {
	return tracing.Select("itc")
}
