package cycgc

// markWord packs the strong counter, tracing counter, finalized bit, and
// mark state of a single heap object header into one 32-bit word, mirroring
// the counter/mark word described in the engine's design: counters stay
// cheap to update and the mark transitions never disturb them.
//
// Layout (bit 31 first):
//
//	+-----------+----------+-------------+-------------+
//	| A: 3 bits | B: 1 bit | C: 14 bits   | D: 14 bits   |
//	+-----------+----------+-------------+-------------+
//
//   - A is the mark state (markNone..markInvalid).
//   - B is 1 once the object has been finalized.
//   - C is the tracing counter, reset and reused on every collection.
//   - D is the strong counter.
type markWord struct {
	bits uint32
}

const (
	counterBits        = 14
	counterMask  uint32 = 1<<counterBits - 1
	tracingShift        = counterBits
	tracingMask  uint32 = counterMask << tracingShift
	finalizedBit uint32 = 1 << 28
	markShift           = 29
	markMask     uint32 = 0b111 << markShift
	firstTwoMask uint32 = 0b11 << 30

	// maxCounter is the saturation point of both counters (14 bits).
	maxCounter uint32 = counterMask
)

// mark is the bookkeeping role a heap object currently plays in the engine.
// At most one is active at a time, and it is bijective with list membership
// (see list.go).
type mark uint32

const (
	markNone              mark = 0
	markPossibleCycles    mark = 1 << markShift
	markTraceCounting     mark = 2 << markShift
	markTraceRoots        mark = 3 << markShift
	markTraceDropping     mark = 4 << markShift
	markTraceResurrecting mark = 5 << markShift
	markDropped           mark = 6 << markShift
	markInvalid           mark = 7 << markShift
)

func (m mark) String() string {
	switch m {
	case markNone:
		return "NonMarked"
	case markPossibleCycles:
		return "InPossibleCycles"
	case markTraceCounting:
		return "TraceCounting"
	case markTraceRoots:
		return "TraceRoots"
	case markTraceDropping:
		return "TraceDropping"
	case markTraceResurrecting:
		return "TraceResurrecting"
	case markDropped:
		return "Dropped"
	case markInvalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

// newMarkWord returns a markWord with both counters set to 1, matching a
// freshly allocated object with exactly one strong owner.
func newMarkWord() markWord {
	return markWord{bits: 1 | (1 << tracingShift)}
}

// newInvalidMarkWord returns a markWord for a reserved-but-uninitialized
// header, used by NewCyclic before the constructor closure has run.
func newInvalidMarkWord() markWord {
	w := markWord{bits: 1 | (1 << tracingShift)}
	w.setMark(markInvalid)
	return w
}

func (w *markWord) counter() uint32 { return w.bits & counterMask }

func (w *markWord) tracingCounter() uint32 { return (w.bits & tracingMask) >> tracingShift }

func (w *markWord) resetTracingCounter() { w.bits &^= tracingMask }

// incrementCounter saturates at maxCounter and reports overflow rather
// than wrapping; callers treat a false return as fatal.
func (w *markWord) incrementCounter() bool {
	if w.counter() == maxCounter {
		return false
	}
	w.bits++
	return true
}

func (w *markWord) decrementCounter() bool {
	if w.counter() == 0 {
		return false
	}
	w.bits--
	return true
}

func (w *markWord) incrementTracingCounter() bool {
	if w.tracingCounter() == maxCounter {
		return false
	}
	w.bits += 1 << tracingShift
	return true
}

func (w *markWord) decrementTracingCounter() bool {
	if w.tracingCounter() == 0 {
		return false
	}
	w.bits -= 1 << tracingShift
	return true
}

func (w *markWord) markState() mark { return mark(w.bits & markMask) }

// setMark overwrites only the mark bits, preserving both counters and the
// finalized bit.
func (w *markWord) setMark(m mark) {
	w.bits = (w.bits &^ markMask) | uint32(m)
}

func (w *markWord) isInPossibleCycles() bool { return w.markState() == markPossibleCycles }

func (w *markWord) isNotMarked() bool { return w.markState() == markNone }

// isTracedOrInvalid reports whether the collector currently owns this
// object (any Trace* mark) or the header is still being constructed.
func (w *markWord) isTracedOrInvalid() bool { return (w.bits & firstTwoMask) != 0 }

func (w *markWord) isMarkedTraceCounting() bool { return w.markState() == markTraceCounting }

func (w *markWord) isMarkedTraceRoots() bool { return w.markState() == markTraceRoots }

// isDropped reports whether the collector has already marked this object as
// dying cyclic garbage in the current reclamation pass. Siblings within the
// same dying cycle observe this mark on each other (see reclaim in
// collector.go) before any of their Destroy hooks run.
func (w *markWord) isDropped() bool { return w.markState() == markDropped }

func (w *markWord) isValid() bool { return w.markState() != markInvalid }

func (w *markWord) needsFinalization() bool { return w.bits&finalizedBit == 0 }

func (w *markWord) setFinalized(finalized bool) {
	if finalized {
		w.bits |= finalizedBit
	} else {
		w.bits &^= finalizedBit
	}
}
