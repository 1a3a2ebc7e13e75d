package cycgc

// Traceable must be implemented by any type T used as Strong[T] or
// Weak[T]'s payload. Trace should call the Trace method of every Strong or
// Weak value owned only by the implementing type: a Strong embedded inside
// a slice or map field still needs visiting, which is why contrib/ccstd
// provides Trace helpers for the common container shapes.
//
// Trace must not allocate, must not read or write through any *other*
// Strong/Weak handle's value, and must not create, clone, drop or upgrade
// any Strong/Weak. The engine panics on New, Value, Clone, Downgrade and
// Upgrade during tracing (see the re-entrancy guards in state.go);
// Release is not checked.
//
// If a Cc-like value is reachable through more than one owner (for example
// wrapped in another shared-ownership type), it must not be traced: tracing
// it would let the engine believe the owning struct is its only reference
// holder, and the object could be collected while still reachable from
// elsewhere.
type Traceable interface {
	Trace(ctx *Context)
}

// Finalizer is an optional hook run at most once per object, right before
// it would otherwise be destroyed. A finalizer may resurrect its receiver
// by storing a new Strong reference to it somewhere still reachable from a
// root. One CollectCycles call runs at most finalizationPasses passes;
// whatever is still buffered after the last one stays buffered for the
// next collection rather than being destroyed.
type Finalizer interface {
	Finalize()
}

// Destroyer is an optional hook that releases any Strong or Weak fields a
// payload owns. Go never releases a struct's fields implicitly, so a
// payload that embeds Strong[U] or Weak[U] fields must implement Destroyer
// and call Release on each of them itself.
type Destroyer interface {
	Destroy()
}

// ctxMode selects which phase of collection a Context was built for. Only
// the counting and root-tracing phases ever trace through payloads; the
// reclamation phase walks its list directly without a Context.
type ctxMode int

const (
	ctxCounting ctxMode = iota
	ctxRootTracing
)

// Context is passed to Trace during cycle collection. It carries no public
// fields; payload Trace methods interact with it only by calling Trace on
// their own Strong/Weak fields, which in turn call back into the engine
// through visit. Mark state and list membership are kept bijective (see
// list.go): markTraceRoots means "currently in rootList", markTraceCounting
// means "currently in nonRootList", so visit never needs to recompute which
// list an object is in, only which mark it currently carries.
type Context struct {
	mode           ctxMode
	rootList       *list
	nonRootList    *list
	possibleCycles *possibleCycles // only set in ctxCounting mode
}

// visit is the per-object bookkeeping step run each time a Strong's Trace
// method is invoked during collection. The bool result tells the caller
// whether to recurse into the object's own payload.
func (ctx *Context) visit(o object) bool {
	switch ctx.mode {
	case ctxCounting:
		return ctx.visitCounting(o)
	case ctxRootTracing:
		return ctx.visitRootTracing(o)
	default:
		panic("cycgc: invalid context mode")
	}
}

func (ctx *Context) visitCounting(o object) bool {
	b := o.base()
	switch b.mark.markState() {
	case markTraceRoots, markTraceCounting:
		// Already visited this pass: this edge proves another strong
		// reference reaches o, so bump its tracing counter and, if every
		// strong reference to it is now accounted for, promote it out of
		// rootList into nonRootList.
		if !b.mark.incrementTracingCounter() {
			panic("cycgc: tracing counter overflow")
		}
		if b.mark.markState() == markTraceRoots && b.mark.tracingCounter() == b.mark.counter() {
			ctx.rootList.remove(o)
			b.mark.setMark(markTraceCounting)
			ctx.nonRootList.add(o)
		}
		return false
	default:
		// First time this collection reaches o. It may still be sitting in
		// the possibly-cyclic list if it hasn't been popped as a seed yet.
		if b.mark.isInPossibleCycles() {
			ctx.possibleCycles.remove(o)
		}
		b.mark.resetTracingCounter()
		if !b.mark.incrementTracingCounter() {
			panic("cycgc: tracing counter overflow")
		}
		if b.mark.tracingCounter() == b.mark.counter() {
			b.mark.setMark(markTraceCounting)
			ctx.nonRootList.add(o)
		} else {
			b.mark.setMark(markTraceRoots)
			ctx.rootList.add(o)
		}
		return true
	}
}

func (ctx *Context) visitRootTracing(o object) bool {
	b := o.base()
	switch b.mark.markState() {
	case markTraceRoots:
		b.mark.setMark(markNone)
		ctx.rootList.remove(o)
		return true
	case markTraceCounting:
		b.mark.setMark(markNone)
		ctx.nonRootList.remove(o)
		return true
	default:
		return false
	}
}
