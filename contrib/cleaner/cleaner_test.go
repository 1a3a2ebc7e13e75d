package cleaner

import (
	"testing"

	"github.com/cycgc/cycgc"
)

func TestCleanRunsCallbackOnce(t *testing.T) {
	eng := cycgc.NewEngine()
	c := NewIn(eng)
	defer c.Release()

	calls := 0
	cl := c.Register(func() { calls++ })

	cl.Clean()
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 after Clean", calls)
	}
	cl.Clean()
	if calls != 1 {
		t.Fatalf("calls = %d, want 1: Clean must be idempotent", calls)
	}
}

func TestReleaseRunsPendingCallbacks(t *testing.T) {
	eng := cycgc.NewEngine()
	calls := 0

	c := NewIn(eng)
	c.Register(func() { calls++ })
	c.Register(func() { calls++ })
	c.Release()

	if calls != 2 {
		t.Fatalf("calls = %d, want 2 once the Cleaner's backing map is released", calls)
	}
}

func TestCleanAfterReleaseIsNoOp(t *testing.T) {
	eng := cycgc.NewEngine()
	calls := 0

	c := NewIn(eng)
	cl := c.Register(func() { calls++ })
	c.Release()
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 once the Cleaner was released", calls)
	}

	cl.Clean()
	if calls != 1 {
		t.Fatal("Clean on an already-run (or released) Cleaner should be a no-op, not a second call")
	}
}
