package cycgc

import "testing"

func TestMarkWordCounters(t *testing.T) {
	w := newMarkWord()
	if w.counter() != 1 {
		t.Fatalf("counter = %d, want 1", w.counter())
	}
	if w.tracingCounter() != 1 {
		t.Fatalf("tracingCounter = %d, want 1", w.tracingCounter())
	}

	if !w.incrementCounter() {
		t.Fatal("incrementCounter failed unexpectedly")
	}
	if w.counter() != 2 {
		t.Fatalf("counter = %d, want 2", w.counter())
	}

	w.resetTracingCounter()
	if w.tracingCounter() != 0 {
		t.Fatalf("tracingCounter = %d, want 0 after reset", w.tracingCounter())
	}

	if !w.decrementCounter() || !w.decrementCounter() {
		t.Fatal("decrementCounter failed unexpectedly")
	}
	if w.decrementCounter() {
		t.Fatal("decrementCounter should fail once counter reaches 0")
	}
}

func TestMarkWordSaturation(t *testing.T) {
	w := markWord{}
	for i := uint32(0); i < maxCounter; i++ {
		if !w.incrementCounter() {
			t.Fatalf("incrementCounter failed early at i=%d", i)
		}
	}
	if w.counter() != maxCounter {
		t.Fatalf("counter = %d, want %d", w.counter(), maxCounter)
	}
	if w.incrementCounter() {
		t.Fatal("incrementCounter should saturate and fail at maxCounter")
	}
}

func TestMarkWordMarkPreservesCounters(t *testing.T) {
	w := newMarkWord()
	w.incrementCounter()
	w.incrementTracingCounter()
	w.setFinalized(true)

	w.setMark(markTraceCounting)
	if w.markState() != markTraceCounting {
		t.Fatalf("markState = %v, want TraceCounting", w.markState())
	}
	if w.counter() != 2 {
		t.Fatalf("counter = %d, want 2 (preserved across setMark)", w.counter())
	}
	if w.tracingCounter() != 2 {
		t.Fatalf("tracingCounter = %d, want 2 (preserved across setMark)", w.tracingCounter())
	}
	if w.needsFinalization() {
		t.Fatal("finalized bit should survive setMark")
	}
}

func TestMarkWordPredicates(t *testing.T) {
	w := newMarkWord()
	if !w.isNotMarked() {
		t.Fatal("fresh markWord should be NonMarked")
	}
	w.setMark(markPossibleCycles)
	if !w.isInPossibleCycles() {
		t.Fatal("expected isInPossibleCycles after setMark(markPossibleCycles)")
	}
	if w.isNotMarked() {
		t.Fatal("isNotMarked should be false once marked")
	}
	w.setMark(markTraceCounting)
	if !w.isMarkedTraceCounting() || !w.isTracedOrInvalid() {
		t.Fatal("expected TraceCounting + traced predicates")
	}
	w.setMark(markDropped)
	if !w.isDropped() {
		t.Fatal("expected isDropped after setMark(markDropped)")
	}
	w.setMark(markInvalid)
	if w.isValid() {
		t.Fatal("isValid should be false for markInvalid")
	}
}

func TestMarkString(t *testing.T) {
	cases := map[mark]string{
		markNone:              "NonMarked",
		markPossibleCycles:    "InPossibleCycles",
		markTraceCounting:     "TraceCounting",
		markTraceRoots:        "TraceRoots",
		markTraceDropping:     "TraceDropping",
		markTraceResurrecting: "TraceResurrecting",
		markDropped:           "Dropped",
		markInvalid:           "Invalid",
	}
	for m, want := range cases {
		if got := m.String(); got != want {
			t.Errorf("mark(%d).String() = %q, want %q", m, got, want)
		}
	}
}
