package event

import (
	"errors"
	"testing"

	"github.com/astro-stan/itc/id"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func seedId(t *testing.T) *id.Id {
	t.Helper()
	i, err := id.Seed()
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	return i
}

func nullId(t *testing.T) *id.Id {
	t.Helper()
	i, err := id.Null()
	if err != nil {
		t.Fatalf("Null failed: %v", err)
	}
	return i
}

func idp(t *testing.T, left, right *id.Id) *id.Id {
	t.Helper()
	p, err := id.Parent(left, right)
	if err != nil {
		t.Fatalf("Parent failed: %v", err)
	}
	return p
}

// leftHalf builds (1, 0), rightHalf builds (0, 1).
func leftHalf(t *testing.T) *id.Id  { return idp(t, seedId(t), nullId(t)) }
func rightHalf(t *testing.T) *id.Id { return idp(t, nullId(t), seedId(t)) }

func TestFillNullIdIsIdentity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "itc")
	defer teardown()
	//
	e := evp(t, 0, ev(t, 1), ev(t, 0))
	out, simplified, err := Fill(nullId(t), e)
	if err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if simplified {
		t.Error("fill on a null identity reported simplification")
	}
	if !Equal(out, e) {
		t.Errorf("fill on a null identity changed the tree: %v", out)
	}
}

func TestFillSeedIdMaximises(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "itc")
	defer teardown()
	//
	e := evp(t, 1, ev(t, 0), ev(t, 2))
	out, simplified, err := Fill(seedId(t), e)
	if err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if !simplified {
		t.Error("expected fill to simplify an internal tree under a seed")
	}
	if !out.IsLeaf() || out.Value() != 3 {
		t.Errorf("expected leaf 3, got %v", out)
	}
}

func TestFillRaisesOwnedSibling(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "itc")
	defer teardown()
	//
	// Owning the left half lets the left subtree rise to the maximum it
	// covers; the whole tree then collapses.
	e := evp(t, 0, evp(t, 0, ev(t, 1), ev(t, 0)), ev(t, 1))
	out, simplified, err := Fill(leftHalf(t), e)
	if err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if !simplified {
		t.Error("expected simplification")
	}
	if !out.IsLeaf() || out.Value() != 1 {
		t.Errorf("expected leaf 1, got %v", out)
	}
}

func TestFillLeavesForeignPartsAlone(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "itc")
	defer teardown()
	//
	// The unowned right subtree keeps its internal structure.
	e := evp(t, 0, ev(t, 2), evp(t, 0, ev(t, 1), ev(t, 0)))
	out, simplified, err := Fill(leftHalf(t), e)
	if err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if simplified {
		t.Errorf("nothing to simplify, but fill changed the tree to %v", out)
	}
	if !Equal(out, e) {
		t.Errorf("expected %v unchanged, got %v", e, out)
	}
}

func TestGrowIncrementsOwnedLeaf(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "itc")
	defer teardown()
	//
	out, err := Grow(seedId(t), ev(t, 4))
	if err != nil {
		t.Fatalf("Grow failed: %v", err)
	}
	if !out.IsLeaf() || out.Value() != 5 {
		t.Errorf("expected leaf 5, got %v", out)
	}
}

func TestGrowExpandsLeafUnderPartialOwnership(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "itc")
	defer teardown()
	//
	out, err := Grow(leftHalf(t), ev(t, 0))
	if err != nil {
		t.Fatalf("Grow failed: %v", err)
	}
	if out.String() != "(0, 1, 0)" {
		t.Errorf("expected (0, 1, 0), got %v", out)
	}
	out2, err := Grow(rightHalf(t), ev(t, 0))
	if err != nil {
		t.Fatalf("Grow failed: %v", err)
	}
	if out2.String() != "(0, 0, 1)" {
		t.Errorf("expected (0, 0, 1), got %v", out2)
	}
}

func TestGrowPrefersIncrementOverExpansion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "itc")
	defer teardown()
	//
	// Owning both halves, the side where a plain increment suffices
	// must win over the side that would need a new node.
	i := idp(t, leftHalf(t), rightHalf(t))
	// Left subtree is a deep structure under a part-owned id, right is
	// a leaf under a part-owned id: growing right costs a node, growing
	// left costs only descent.
	e := evp(t, 0, evp(t, 0, ev(t, 1), ev(t, 0)), ev(t, 2))
	out, err := Grow(i, e)
	if err != nil {
		t.Fatalf("Grow failed: %v", err)
	}
	if out.String() != "(0, (0, 2, 0), 2)" {
		t.Errorf("expected growth inside the left subtree, got %v", out)
	}
}

func TestGrowBreaksTiesToTheRight(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "itc")
	defer teardown()
	//
	i := idp(t, leftHalf(t), rightHalf(t))
	out, err := Grow(i, ev(t, 0))
	if err != nil {
		t.Fatalf("Grow failed: %v", err)
	}
	if out.String() != "(0, 0, (0, 0, 1))" {
		t.Errorf("expected the tie to descend right, got %v", out)
	}
}

func TestGrowNullIdFails(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "itc")
	defer teardown()
	//
	if _, err := Grow(nullId(t), ev(t, 0)); !errors.Is(err, ErrIllegalArguments) {
		t.Errorf("expected illegal-arguments error, got %v", err)
	}
}

func TestGrowCounterOverflow(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "itc")
	defer teardown()
	//
	e := ev(t, MaxCounter)
	_, err := Grow(seedId(t), e)
	if !errors.Is(err, ErrCounterOverflow) {
		t.Fatalf("expected counter overflow, got %v", err)
	}
	// The input is untouched.
	if !e.IsLeaf() || e.Value() != MaxCounter {
		t.Errorf("overflowing grow corrupted its input: %v", e)
	}
}
