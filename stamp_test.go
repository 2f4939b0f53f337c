package itc

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/astro-stan/itc/alloc"
	"github.com/astro-stan/itc/event"
	"github.com/astro-stan/itc/id"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func seed(t *testing.T) *Stamp {
	t.Helper()
	s, err := NewSeed()
	if err != nil {
		t.Fatalf("NewSeed failed: %v", err)
	}
	return s
}

func mustFork(t *testing.T, s *Stamp) (*Stamp, *Stamp) {
	t.Helper()
	a, b, err := s.Fork()
	if err != nil {
		t.Fatalf("Fork failed: %v", err)
	}
	return a, b
}

func mustEvent(t *testing.T, s *Stamp) {
	t.Helper()
	if err := s.Event(); err != nil {
		t.Fatalf("Event failed: %v", err)
	}
}

func mustCompare(t *testing.T, a, b *Stamp) Ordering {
	t.Helper()
	ord, err := Compare(a, b)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	return ord
}

func TestSeedStamp(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "itc")
	defer teardown()
	//
	s := seed(t)
	if s.String() != "1; 0" {
		t.Errorf("expected seed stamp '1; 0', got %v", s)
	}
	if s.IsPeek() {
		t.Error("seed stamp claims to be a peek")
	}
	if ord := mustCompare(t, s, s); ord != Equal {
		t.Errorf("expected Equal comparing a stamp to itself, got %v", ord)
	}
}

func TestForkAndIndependentEvents(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "itc")
	defer teardown()
	//
	s := seed(t)
	a, b := mustFork(t, s)
	if ord := mustCompare(t, a, b); ord != Equal {
		t.Errorf("freshly forked stamps compare %v, expected Equal", ord)
	}
	mustEvent(t, a)
	if ord := mustCompare(t, a, b); ord != GreaterThan {
		t.Errorf("after event(a): compare(a, b) = %v, expected GreaterThan", ord)
	}
	if ord := mustCompare(t, b, a); ord != LessThan {
		t.Errorf("after event(a): compare(b, a) = %v, expected LessThan", ord)
	}
	mustEvent(t, b)
	if ord := mustCompare(t, a, b); ord != Concurrent {
		t.Errorf("after event(b): compare(a, b) = %v, expected Concurrent", ord)
	}
}

func TestRejoinAfterConcurrentEvents(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "itc")
	defer teardown()
	//
	s := seed(t)
	a, b := mustFork(t, s)
	mustEvent(t, a)
	mustEvent(t, b)
	c, err := Join(a, b)
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if ord := mustCompare(t, c, a); ord != GreaterThan {
		t.Errorf("compare(join, a) = %v, expected GreaterThan", ord)
	}
	if ord := mustCompare(t, c, b); ord != GreaterThan {
		t.Errorf("compare(join, b) = %v, expected GreaterThan", ord)
	}
	// The rejoined identity covers the whole interval again.
	if !c.IdTree().IsSeed() {
		t.Errorf("rejoined id is %v, expected 1", c.IdTree())
	}
}

func TestForkPartitionsIdentity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "itc")
	defer teardown()
	//
	s := seed(t)
	a, b := mustFork(t, s)
	sum, err := id.Sum(a.IdTree(), b.IdTree())
	if err != nil {
		t.Fatalf("Sum of forked ids failed: %v", err)
	}
	if !id.Equal(id.Normalise(sum), s.IdTree()) {
		t.Errorf("forked ids do not sum to the source id: %v", sum)
	}
}

func TestEventIsMonotone(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "itc")
	defer teardown()
	//
	s := seed(t)
	for step := 0; step < 5; step++ {
		pre, err := s.Clone()
		if err != nil {
			t.Fatalf("Clone failed: %v", err)
		}
		mustEvent(t, s)
		if ord := mustCompare(t, pre, s); ord != LessThan {
			t.Fatalf("step %d: compare(pre, post) = %v, expected LessThan", step, ord)
		}
		if !event.Leq(pre.EventTree(), s.EventTree()) {
			t.Fatalf("step %d: pre event history not below post", step)
		}
		if event.Leq(s.EventTree(), pre.EventTree()) {
			t.Fatalf("step %d: post event history below pre", step)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "itc")
	defer teardown()
	//
	s := seed(t)
	mustEvent(t, s)
	c, err := s.Clone()
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	if ord := mustCompare(t, s, c); ord != Equal {
		t.Errorf("clone compares %v, expected Equal", ord)
	}
	mustEvent(t, c)
	if ord := mustCompare(t, s, c); ord != LessThan {
		t.Errorf("after event on clone: compare = %v, expected LessThan", ord)
	}
}

func TestPeekCannotGrow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "itc")
	defer teardown()
	//
	s := seed(t)
	p, err := s.Peek()
	if err != nil {
		t.Fatalf("Peek failed: %v", err)
	}
	if !p.IsPeek() {
		t.Error("peek stamp does not report IsPeek")
	}
	for i := 0; i < 3; i++ {
		if err := p.Event(); err != nil {
			t.Fatalf("Event on peek must be a permitted no-op, got %v", err)
		}
		if ord := mustCompare(t, p, s); ord != Equal {
			t.Errorf("event on peek changed causality: compare = %v", ord)
		}
	}
}

func TestForkedPeekStaysPeek(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "itc")
	defer teardown()
	//
	s := seed(t)
	p, err := s.Peek()
	if err != nil {
		t.Fatalf("Peek failed: %v", err)
	}
	a, b := mustFork(t, p)
	if !a.IsPeek() || !b.IsPeek() {
		t.Errorf("forking a peek must yield peeks, got %v and %v", a.IdTree(), b.IdTree())
	}
}

func TestJoinCommutesOnStamps(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "itc")
	defer teardown()
	//
	s := seed(t)
	a, b := mustFork(t, s)
	mustEvent(t, a)
	mustEvent(t, b)
	mustEvent(t, b)
	ab, err := Join(a, b)
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	ba, err := Join(b, a)
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if ord := mustCompare(t, ab, ba); ord != Equal {
		t.Errorf("join not commutative under compare: %v", ord)
	}
	if !id.Equal(id.Normalise(ab.IdTree()), id.Normalise(ba.IdTree())) {
		t.Errorf("joined ids differ: %v vs %v", ab.IdTree(), ba.IdTree())
	}
}

func TestJoinOverlappingIdsFails(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "itc")
	defer teardown()
	//
	s := seed(t)
	c, err := s.Clone()
	if err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	if _, err := Join(s, c); !errors.Is(err, id.ErrOverlappingInterval) {
		t.Errorf("joining overlapping identities: expected overlap error, got %v", err)
	}
}

func TestExplodeRebuildRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "itc")
	defer teardown()
	//
	s := seed(t)
	a, _ := mustFork(t, s)
	mustEvent(t, a)
	i, e, err := Explode(a)
	if err != nil {
		t.Fatalf("Explode failed: %v", err)
	}
	r, err := Rebuild(i, e)
	if err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if ord := mustCompare(t, a, r); ord != Equal {
		t.Errorf("rebuilt stamp compares %v, expected Equal", ord)
	}
	if !id.Equal(a.IdTree(), r.IdTree()) || !event.Equal(a.EventTree(), r.EventTree()) {
		t.Error("rebuilt stamp is not structurally equal to the original")
	}
}

func TestEventFailureLeavesStampIntact(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "itc")
	defer teardown()
	//
	e, err := event.NewLeaf(event.MaxCounter)
	if err != nil {
		t.Fatalf("NewLeaf failed: %v", err)
	}
	i, err := id.Seed()
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	s, err := Rebuild(i, e)
	if err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if err := s.Event(); !errors.Is(err, event.ErrCounterOverflow) {
		t.Fatalf("expected counter overflow, got %v", err)
	}
	if !s.EventTree().IsLeaf() || s.EventTree().Value() != event.MaxCounter {
		t.Errorf("failed event corrupted the stamp: %v", s)
	}
}

func TestDestroyBalancesAllocation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "itc")
	defer teardown()
	//
	q := alloc.NewQuota(1024)
	restore := alloc.Use(q)
	defer restore()
	//
	s := seed(t)
	a, b := mustFork(t, s)
	mustEvent(t, a)
	mustEvent(t, b)
	c, err := Join(a, b)
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	for _, st := range []*Stamp{s, a, b, c} {
		st.Destroy()
	}
	if q.Live() != 0 {
		t.Errorf("leak: %d nodes still drawn from quota", q.Live())
	}
}

func TestStampDump(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "itc")
	defer teardown()
	//
	s := seed(t)
	a, _ := mustFork(t, s)
	mustEvent(t, a)
	var dot bytes.Buffer
	Stamp2Dot(a, &dot)
	if !strings.HasPrefix(dot.String(), "strict digraph {") {
		t.Errorf("unexpected DOT output: %.40q", dot.String())
	}
	var dump bytes.Buffer
	Dump(a, &dump)
	if !strings.Contains(dump.String(), "event:") {
		t.Errorf("unexpected dump output: %q", dump.String())
	}
}
