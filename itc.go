/*
Package itc implements interval tree clocks, a causality tracking
mechanism for systems in which participants come and go dynamically.

A Stamp pairs an identity tree (which part of the logical interval
[0,1) this participant owns) with an event tree (the history it has
witnessed). Stamps fork when a participant splits off, record local
happenings with Event, and join back together; Compare orders any two
stamps causally.

Typical usage:

	seed, _ := itc.NewSeed()
	a, b, _ := seed.Fork()
	_ = a.Event()
	ord, _ := itc.Compare(a, b) // itc.GreaterThan
	c, _ := itc.Join(a, b)
	_ = c

The subpackages id and event expose the component algebras directly for
callers that need them; package codec serialises stamps to the stable
wire format.

A stamp is owned by one caller at a time: operations assume exclusive
access and the package does no locking of its own.
*/
package itc

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'itc'.
func tracer() tracing.Trace {
	return tracing.Select("itc")
}

var (
	// ErrIllegalArguments is flagged whenever function parameters are invalid.
	ErrIllegalArguments = errors.New("itc: illegal arguments")
	// ErrCorruptStamp signals a stamp whose component trees break their
	// shape invariants.
	ErrCorruptStamp = errors.New("itc: corrupt stamp")
)
