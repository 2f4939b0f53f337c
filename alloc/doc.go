/*
Package alloc defines the storage port the tree packages draw node
storage from.

The clock algebra in itc/id and itc/event acquires every tree node it
creates through the active Port and returns every node it destroys.
The default Heap port is backed by the Go runtime and never fails; a
Quota port fails once a node budget is exhausted, which is how tests
exercise partial-failure paths of the algebra.

The active port is the one process-wide touchpoint of the module.
Callers that need a different port install it with Use:

	restore := alloc.Use(alloc.NewQuota(16))
	defer restore()

Ports meter nodes rather than bytes: the Go runtime owns byte-level
storage, so the port's job is accounting and failure injection, not
placement.
*/
package alloc

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'itc'.
func tracer() tracing.Trace {
	return tracing.Select("itc")
}
