package itc

import (
	"fmt"

	"github.com/astro-stan/itc/event"
	"github.com/astro-stan/itc/id"
)

// Stamp is the full causality token: an identity tree and the event
// history witnessed under it. Stamps are created through NewSeed, Peek,
// Clone, Fork, Join and Rebuild; the zero value is not usable.
//
// A stamp exclusively owns its component trees. Operations that hand a
// stamp's trees onward (Fork, Join, Explode) build fresh trees, so
// outputs are always independent of inputs.
type Stamp struct {
	id *id.Id
	ev *event.Event
}

// NewSeed creates the initial stamp: full ownership of [0,1) and an
// empty event history. All other stamps of a clock descend from it.
func NewSeed() (*Stamp, error) {
	i, err := id.Seed()
	if err != nil {
		return nil, err
	}
	e, err := event.New()
	if err != nil {
		id.Destroy(i)
		return nil, err
	}
	return &Stamp{id: i, ev: e}, nil
}

func (s *Stamp) validate() error {
	if s == nil || s.id == nil || s.ev == nil {
		return fmt.Errorf("%w: nil stamp", ErrIllegalArguments)
	}
	if err := s.id.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptStamp, err)
	}
	if err := s.ev.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptStamp, err)
	}
	return nil
}

// IsPeek reports whether s carries observation authority only, i.e.
// owns no part of the interval.
func (s *Stamp) IsPeek() bool {
	return s != nil && s.id != nil && s.id.IsNull()
}

// IdTree returns the stamp's identity tree as a read-only view.
// Callers must not mutate it; use Explode for an owned copy.
func (s *Stamp) IdTree() *id.Id { return s.id }

// EventTree returns the stamp's event tree as a read-only view.
// Callers must not mutate it; use Explode for an owned copy.
func (s *Stamp) EventTree() *event.Event { return s.ev }

// Clone returns a structurally independent deep copy of s.
func (s *Stamp) Clone() (*Stamp, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	i, err := s.id.Clone()
	if err != nil {
		return nil, err
	}
	e, err := s.ev.Clone()
	if err != nil {
		id.Destroy(i)
		return nil, err
	}
	return &Stamp{id: i, ev: e}, nil
}

// Peek derives a stamp that shares s's event history but owns nothing.
// Event calls on the result are no-ops; it exists to carry observations
// to places that must not claim causality of their own.
func (s *Stamp) Peek() (*Stamp, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	i, err := id.Null()
	if err != nil {
		return nil, err
	}
	e, err := s.ev.Clone()
	if err != nil {
		id.Destroy(i)
		return nil, err
	}
	return &Stamp{id: i, ev: e}, nil
}

// Fork splits s into two stamps with disjoint identities and the same
// event history. Forking a peek stamp yields two peeks. The input stays
// valid; callers that treat Fork as consuming should Destroy it.
func (s *Stamp) Fork() (*Stamp, *Stamp, error) {
	if err := s.validate(); err != nil {
		return nil, nil, err
	}
	i1, i2, err := id.Split(s.id)
	if err != nil {
		return nil, nil, err
	}
	e1, err := s.ev.Clone()
	if err != nil {
		id.Destroy(i1)
		id.Destroy(i2)
		return nil, nil, err
	}
	e2, err := s.ev.Clone()
	if err != nil {
		id.Destroy(i1)
		id.Destroy(i2)
		event.Destroy(e1)
		return nil, nil, err
	}
	tracer().Debugf("fork %v into %v / %v", s.id, i1, i2)
	return &Stamp{id: i1, ev: e1}, &Stamp{id: i2, ev: e2}, nil
}

// Event records a new happening on the interval s owns. Simplifying the
// event tree is preferred; only when nothing can be simplified is the
// tree inflated at minimum cost. On a peek stamp Event is a no-op.
//
// Event mutates s. On failure s is left in its pre-call state.
func (s *Stamp) Event() error {
	if err := s.validate(); err != nil {
		return err
	}
	if s.id.IsNull() {
		// A peek has nothing to record against.
		return nil
	}
	filled, simplified, err := event.Fill(s.id, s.ev)
	if err != nil {
		return err
	}
	if simplified {
		event.Destroy(s.ev)
		s.ev = filled
		return nil
	}
	event.Destroy(filled)
	grown, err := event.Grow(s.id, s.ev)
	if err != nil {
		return err
	}
	event.Destroy(s.ev)
	s.ev = grown
	return nil
}

// Join merges two stamps: their identities sum to one (which fails with
// an overlapping-interval error if they are not disjoint) and their
// histories join pointwise. The inputs stay valid; callers that treat
// Join as consuming should Destroy them.
func Join(a, b *Stamp) (*Stamp, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	i, err := id.Sum(a.id, b.id)
	if err != nil {
		return nil, err
	}
	e, err := event.Join(a.ev, b.ev)
	if err != nil {
		id.Destroy(i)
		return nil, err
	}
	return &Stamp{id: i, ev: e}, nil
}

// Compare orders two stamps causally by their event histories.
func Compare(a, b *Stamp) (Ordering, error) {
	if err := a.validate(); err != nil {
		return Concurrent, err
	}
	if err := b.validate(); err != nil {
		return Concurrent, err
	}
	ab := event.Leq(a.ev, b.ev)
	ba := event.Leq(b.ev, a.ev)
	switch {
	case ab && ba:
		return Equal, nil
	case ab:
		return LessThan, nil
	case ba:
		return GreaterThan, nil
	}
	return Concurrent, nil
}

// Destroy returns the stamp's tree storage to the allocator port.
// Destroy never fails; callers drop their reference afterwards.
func (s *Stamp) Destroy() {
	if s == nil {
		return
	}
	id.Destroy(s.id)
	event.Destroy(s.ev)
	s.id, s.ev = nil, nil
}

// Explode takes s apart into owned copies of its component trees.
func Explode(s *Stamp) (*id.Id, *event.Event, error) {
	if err := s.validate(); err != nil {
		return nil, nil, err
	}
	i, err := s.id.Clone()
	if err != nil {
		return nil, nil, err
	}
	e, err := s.ev.Clone()
	if err != nil {
		id.Destroy(i)
		return nil, nil, err
	}
	return i, e, nil
}

// Rebuild assembles a stamp from component trees, validating both and
// taking ownership. On failure ownership stays with the caller.
func Rebuild(i *id.Id, e *event.Event) (*Stamp, error) {
	if err := i.Validate(); err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &Stamp{id: i, ev: e}, nil
}

// String renders the stamp in the usual interval-tree-clock notation,
// e.g. "(1, 0); (0, 1, 0)".
func (s *Stamp) String() string {
	if s == nil || s.id == nil || s.ev == nil {
		return "<void stamp>"
	}
	return s.id.String() + "; " + s.ev.String()
}
