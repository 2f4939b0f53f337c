/*
Package id implements the identity trees of an interval tree clock.

An identity tree encodes the subset of the unit interval [0,1) a process
owns. A leaf either owns its whole subinterval (seed) or disclaims it
(null); an internal node halves its interval between its two children.
Identities are split when a stamp forks and summed back when stamps
join; both operations preserve the partition-of-[0,1) reading.

Operations are non-destructive: Split and Sum build fresh trees and
leave their inputs alone. Normalise is the exception and canonicalises
a tree in place.
*/
package id

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'itc'.
func tracer() tracing.Trace {
	return tracing.Select("itc")
}
