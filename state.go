package cycgc

import "os"

// state tracks what phase of collection, if any, an Engine is currently
// in. An Engine is never shared across goroutines (see engine.go), so
// plain struct fields are enough here; no lock or borrow tracking is
// needed.
type state struct {
	collecting bool
	finalizing bool
	dropping   bool

	allocatedBytes uint64
	executions     uint64
}

func (s *state) isCollecting() bool { return s.collecting }
func (s *state) isFinalizing() bool { return s.finalizing }
func (s *state) isDropping() bool   { return s.dropping }

// isTracing reports whether the engine is inside a collection's tracing
// phases, where New, Value, Clone, Downgrade and Upgrade panic. While a
// collection is finalizing or dropping it reports false, so finalizers and
// Destroy hooks may use handles and allocate.
func (s *state) isTracing() bool {
	return s.collecting && !s.finalizing && !s.dropping
}

func (s *state) recordAllocation(size uintptr) { s.allocatedBytes += uint64(size) }
func (s *state) recordDeallocation(size uintptr) {
	if uint64(size) > s.allocatedBytes {
		s.allocatedBytes = 0
		return
	}
	s.allocatedBytes -= uint64(size)
}

func (s *state) incrementExecutions() { s.executions++ }

// boolGuard is a scope-lifetime flip of one of state's booleans. Every
// caller must `defer guard.release()` immediately after acquiring it so a
// panicking user callback cannot leave a flag stuck. release aborts the
// process if the field it owns was mutated to something other than what it
// last set, which should be impossible given Engine's single-goroutine
// confinement; it exists only as a last-resort safety net.
type boolGuard struct {
	field    *bool
	oldValue bool
	setTo    bool
}

func newBoolGuard(field *bool, newValue bool) boolGuard {
	g := boolGuard{field: field, oldValue: *field, setTo: newValue}
	*field = newValue
	return g
}

func (g boolGuard) release() {
	if *g.field != g.setTo {
		abortf("cycgc: state guard observed an unexpected value, state is corrupt")
	}
	*g.field = g.oldValue
}

// abortf is the hard stop for a path that should be unreachable given
// Engine's confinement: better than limping on with corrupted bookkeeping.
func abortf(msg string) {
	println(msg)
	os.Exit(2)
}

func (s *state) collectingGuard() boolGuard { return newBoolGuard(&s.collecting, true) }
func (s *state) finalizingGuard() boolGuard { return newBoolGuard(&s.finalizing, true) }
func (s *state) droppingGuard() boolGuard   { return newBoolGuard(&s.dropping, true) }
