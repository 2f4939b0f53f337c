/*
Package codec serialises interval-tree-clock stamps to the stable
binary wire format and back.

A serialised stamp starts with the implementation's major version and a
header describing the byte width of the two component length fields,
followed by the identity and event component blobs. Component blobs are
pre-order tree walks: identity nodes are one tag byte each, event nodes
are a header byte plus a big-endian counter of the stated width.

The format carries no integrity checksum. Callers transmitting stamps
over unreliable channels wrap them with their own check; the decoder
detects structural damage, but a flipped counter byte yields a valid,
wrong stamp.
*/
package codec

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'itc'.
func tracer() tracing.Trace {
	return tracing.Select("itc")
}
