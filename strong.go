package cycgc

// Strong is a reference-counted, cycle-collected handle to a value of type
// T. The zero Strong[T] is not a valid handle; use New or NewCyclic to
// create one.
type Strong[T Traceable] struct {
	h *header[T]
}

// New allocates a new object on Default and returns a Strong handle to it,
// first running an auto-collection pass if the configured heuristic says
// one is due. It panics if called while the engine is tracing; the check
// is cheap relative to the allocation it guards.
func New[T Traceable](value T) Strong[T] {
	return NewIn[T](Default, value)
}

// NewIn is New, but allocates on an explicit Engine instead of Default.
func NewIn[T Traceable](eng *Engine, value T) Strong[T] {
	if eng.st.isTracing() {
		panic("cycgc: cannot create a new Strong while the engine is tracing")
	}
	eng.maybeAutoCollect()

	alreadyFinalized := eng.st.isFinalizing()
	h := newHeader[T](eng, value, alreadyFinalized)
	eng.st.recordAllocation(h.size)
	return Strong[T]{h: h}
}

// NewCyclic allocates a placeholder object, invokes build with a Strong
// handle to that not-yet-initialized placeholder, and stores build's
// result as the object's real value. This lets a value's own constructor
// stash a Strong back-reference to itself (or build a cycle among several
// values) up front, something New's signature cannot express since the
// value must exist before a handle to it can be constructed.
// Self-referential structures are exactly the case this engine exists to
// collect.
//
// build must not read through the handle it's given (the placeholder's
// value is not valid yet); it may only clone or store it.
func NewCyclic[T Traceable](build func(Strong[T]) T) Strong[T] {
	return NewCyclicIn[T](Default, build)
}

func NewCyclicIn[T Traceable](eng *Engine, build func(Strong[T]) T) Strong[T] {
	if eng.st.isTracing() {
		panic("cycgc: cannot create a new Strong while the engine is tracing")
	}
	eng.maybeAutoCollect()

	h := newInvalidHeader[T](eng)
	placeholder := Strong[T]{h: h}
	h.value = build(placeholder)
	h.size = approxSize(h.value)
	placeholder.MarkAlive()
	h.mark.setMark(markNone)
	eng.st.recordAllocation(h.size)
	return placeholder
}

// Value returns the handle's payload. It panics if called while the
// engine is tracing: Trace implementations must reach payload state only
// through Trace's own recursion, never by dereferencing a Strong field
// directly.
func (s Strong[T]) Value() T {
	if s.h.eng.st.isTracing() {
		panic("cycgc: cannot access a Strong's value while the engine is tracing")
	}
	return s.h.value
}

// Clone returns a new Strong pointing at the same object, incrementing its
// strong count and, if the object was buffered as a possibly-cyclic
// candidate, unbuffering it (mark_alive): a second live owner is proof
// enough that it isn't garbage right now.
func (s Strong[T]) Clone() Strong[T] {
	if s.h.eng.st.isTracing() {
		panic("cycgc: cannot clone a Strong while the engine is tracing")
	}
	if !s.h.mark.incrementCounter() {
		panic("cycgc: too many strong references to a single object")
	}
	s.MarkAlive()
	return Strong[T]{h: s.h}
}

// MarkAlive removes the handle's object from the possibly-cyclic candidate
// list, if it is currently buffered there. New doesn't need to call this
// (a freshly allocated object is never buffered); Clone, Upgrade and
// NewCyclic's placeholder do.
func (s Strong[T]) MarkAlive() {
	s.h.eng.removeFromPossibleCyclesIfPresent(s.h)
}

// Downgrade returns a new Weak handle to s's object, lazily allocating the
// object's weak metadata block on first use. It panics if called while the
// engine is tracing, just like Clone.
func (s Strong[T]) Downgrade() Weak[T] {
	if s.h.eng.st.isTracing() {
		panic("cycgc: cannot downgrade a Strong while the engine is tracing")
	}
	h := s.h
	if h.weak == nil {
		h.weak = newWeakMeta(true)
	}
	if !h.weak.incrementCounter() {
		panic("cycgc: too many weak references to a single object")
	}
	return Weak[T]{meta: h.weak, h: h}
}

// PtrEq reports whether a and b are handles to the same underlying object.
func (a Strong[T]) PtrEq(b Strong[T]) bool { return a.h == b.h }

// StrongCount returns the object's current strong reference count.
func (s Strong[T]) StrongCount() uint32 { return s.h.mark.counter() }

// WeakCount returns the number of live Weak handles to s's object.
func (s Strong[T]) WeakCount() uint32 {
	if s.h.weak == nil {
		return 0
	}
	return uint32(s.h.weak.counter())
}

// IsUnique reports whether s is the only Strong handle to its object.
func (s Strong[T]) IsUnique() bool { return s.StrongCount() == 1 }

// FinalizeAgain schedules the object's Finalizer to run again next time
// its strong count reaches zero or it is found to be garbage by the
// collector. It returns ErrNotUnique if other Strong handles to the same
// object are outstanding (a shared object's finalization state must not be
// reset out from under the other owners), and panics if called while the
// engine is collecting, finalizing or dropping.
func (s Strong[T]) FinalizeAgain() error {
	if !s.IsUnique() {
		return ErrNotUnique
	}
	if s.h.eng.st.isCollecting() || s.h.eng.st.isFinalizing() || s.h.eng.st.isDropping() {
		panic("cycgc: cannot schedule finalization again while collecting")
	}
	s.h.mark.setFinalized(false)
	return nil
}

// AlreadyFinalized reports whether the object's Finalizer, if any, has
// already run.
func (s Strong[T]) AlreadyFinalized() bool { return !s.h.mark.needsFinalization() }

// TryUnwrap takes ownership of the value inside s, returning ErrNotUnique
// if other Strong handles to the same object remain. It panics if called
// while the object is in use by the collector. Nothing stops further use
// of the handle after a successful TryUnwrap, so s zeroes its own counter
// here, turning a stray Release call on the same handle afterward into the
// same panic a genuine double-release would produce, rather than silent
// corruption.
func (s Strong[T]) TryUnwrap() (value T, err error) {
	if !s.IsUnique() {
		return value, ErrNotUnique
	}
	if s.h.mark.isTracedOrInvalid() {
		panic("cycgc: cannot take a Strong's value while it is in use by the collector")
	}
	s.h.eng.removeFromPossibleCyclesIfPresent(s.h)
	s.h.eng.st.recordDeallocation(s.h.size)
	s.h.mark.decrementCounter()
	if s.h.weak != nil {
		s.h.weak.setAccessible(false)
	}
	return s.h.value, nil
}

// Release drops this Strong handle. Once the last handle to an object is
// released, its Finalizer (if any and not already run) runs, and if the
// finalizer didn't resurrect the object (store a new Strong reference to
// it somewhere still reachable) it is destroyed immediately; otherwise it
// is left alone as an ordinary live object. If other handles remain, the
// object is buffered as a possibly-cyclic candidate, since nothing proves
// it isn't part of a cycle only the collector can find.
//
// Release must never be called from within a Trace or Finalize
// implementation except to release the implementing value's own fields
// from within Destroy.
func (s Strong[T]) Release() {
	h := s.h
	if h == nil {
		return
	}
	if !h.mark.decrementCounter() {
		panic("cycgc: released a Strong handle whose object already has a zero reference count")
	}

	switch h.mark.markState() {
	case markTraceCounting, markTraceRoots, markDropped:
		// Owned by an in-progress collection; the collector's reclamation
		// phase will finish processing this object itself. markDropped
		// means a sibling's Destroy hook released this very handle: the
		// object is already queued for destruction, so there is nothing
		// left for this Release to do.
		return
	}

	if h.mark.counter() > 0 {
		h.eng.addToPossibleCycles(h)
		return
	}

	h.eng.removeFromPossibleCyclesIfPresent(h)

	toDrop := true
	if h.mark.needsFinalization() {
		func() {
			guard := h.eng.st.finalizingGuard()
			defer guard.release()
			h.mark.setFinalized(true)
			h.finalize()
		}()
		// The finalizer may have resurrected the object by storing a new
		// Strong reference to it somewhere; if so, leave it alone.
		toDrop = h.mark.counter() == 0
	}

	if toDrop {
		if h.weak != nil {
			h.weak.setAccessible(false)
		}
		func() {
			guard := h.eng.st.droppingGuard()
			defer guard.release()
			h.destroy()
		}()
		h.eng.st.recordDeallocation(h.size)
	}
}

// Trace dispatches to the engine's per-object bookkeeping and, only if
// instructed to, recurses into the payload's own Trace method. Strong[T]
// implements Traceable so that a struct embedding Strong fields can trace
// them exactly like any other Traceable field.
func (s Strong[T]) Trace(ctx *Context) {
	if ctx.visit(s.h) {
		s.h.value.Trace(ctx)
	}
}

func (s Strong[T]) Finalize() {}
