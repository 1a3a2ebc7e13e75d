package cycgc

import (
	"github.com/cycgc/cycgc/internal/ccmetrics"
	"github.com/cycgc/cycgc/internal/cclog"
)

var collectorLog = cclog.Default().Module("collector")

// finalizationPasses bounds how many times CollectCycles will re-run the
// trace/reclaim algorithm in a single call when finalizers keep
// resurrecting objects. A collection that needs more than a couple of
// passes to settle almost always means a finalizer is doing something
// adversarial, and the program has already been paused for long enough;
// whatever survives the bound stays buffered for the next call.
const finalizationPasses = 10

// CollectCycles runs the engine's synchronous trial-deletion cycle
// collector. It is a no-op if the engine is already collecting (re-entrant
// calls, e.g. from within a Trace or Finalize implementation, are
// programmer error elsewhere, but collect_cycles itself stays harmless).
func (e *Engine) CollectCycles() {
	if e.st.isCollecting() {
		return
	}

	guard := e.st.collectingGuard()
	defer guard.release()
	e.st.incrementExecutions()
	e.metrics.Counter("cycgc_collections_total").Inc()
	timer := ccmetrics.NewTimer()

	for i := 0; i < finalizationPasses; i++ {
		if e.possibleCycles.isEmpty() {
			break
		}
		if i == finalizationPasses-1 {
			collectorLog.Warn("reached the finalization pass bound, remaining candidates deferred", "passes", finalizationPasses)
		}
		e.collectOnce()
	}

	e.metrics.Gauge("cycgc_last_collection_micros").Set(timer.Stop().Microseconds())
	e.metrics.Gauge("cycgc_possible_cycles_size").Set(int64(e.possibleCycles.len()))
}

// collectOnce runs the three phases of one collection pass: trace
// counting every buffered candidate's reachable subgraph, tracing from the
// survivors that are provably still roots, and reclaiming whatever
// remains.
func (e *Engine) collectOnce() {
	var nonRootList list
	// If a user Trace/Finalize/Destroy callback panics anywhere below, this
	// unlinks and resets the mark of every header still held by
	// nonRootList before the panic continues unwinding, so the engine's
	// mark/list-membership invariant (see list.go) holds even though the
	// panic skips the rest of this function. On the
	// normal return path nonRootList has already been fully drained by
	// reclaim or the resurrection branch below, making this a no-op.
	defer nonRootList.clear()

	func() {
		var rootList list
		defer rootList.clear()

		for {
			o := e.possibleCycles.removeFirst()
			if o == nil {
				break
			}
			e.seedTraceCounting(o, &rootList, &nonRootList)
		}

		e.traceRoots(&rootList, &nonRootList)
	}()

	if nonRootList.isEmpty() {
		return
	}

	hasFinalized := e.finalizeCandidates(&nonRootList)
	if !hasFinalized {
		e.reclaim(&nonRootList)
		return
	}

	// At least one member was finalized this pass, and its finalizer may
	// have resurrected its object. Buffer everyone back into possibleCycles; the next pass of
	// this same CollectCycles call (or, if the bound is reached, the next
	// explicit call) re-runs the full algorithm, which naturally detects
	// any object a finalizer rescued since it will now be reachable from a
	// genuine root.
	collectorLog.Debug("finalizer ran, deferring resurrection check to next pass")
	e.metrics.Counter("cycgc_resurrection_passes_total").Inc()
	nonRootList.forEachClearing(func(o object) {
		e.addToPossibleCycles(o)
	})
}

// seedTraceCounting starts trace-counting from a candidate popped directly
// out of possibleCycles. Unlike an edge discovered by tracing into an
// object (see Context.visitCounting), a seed's tracing counter is left at
// zero and it is placed unconditionally into rootList: nothing has traced
// an internal edge to it yet, so until proven otherwise every seed is
// presumed to be its own root.
func (e *Engine) seedTraceCounting(o object, rootList, nonRootList *list) {
	b := o.base()
	b.mark.resetTracingCounter()
	b.mark.setMark(markTraceRoots)
	rootList.add(o)

	ctx := &Context{mode: ctxCounting, rootList: rootList, nonRootList: nonRootList, possibleCycles: &e.possibleCycles}
	o.trace(ctx)
}

// traceRoots drains rootList, re-tracing from each survivor to discover
// everything reachable from a true root. Anything still marked
// markTraceRoots/markTraceCounting after this finishes was never reached
// from outside the candidate subgraph and is genuine cyclic garbage.
func (e *Engine) traceRoots(rootList, nonRootList *list) {
	for {
		o := rootList.removeFirst()
		if o == nil {
			break
		}
		ctx := &Context{mode: ctxRootTracing, rootList: rootList, nonRootList: nonRootList}
		o.trace(ctx)
	}
}

// finalizeCandidates runs Finalize on every member of nonRootList that
// hasn't already been finalized, reporting whether any member was newly
// marked finalized. A payload that does not implement Finalizer still
// counts, so its cycle goes through one more pass before it is reclaimed.
func (e *Engine) finalizeCandidates(nonRootList *list) bool {
	guard := e.st.finalizingGuard()
	defer guard.release()

	hasFinalized := false
	nonRootList.forEach(func(o object) {
		b := o.base()
		if b.mark.needsFinalization() {
			b.mark.setFinalized(true)
			o.finalize()
			hasFinalized = true
		}
	})
	return hasFinalized
}

// reclaim destroys every object left in nonRootList. Destruction happens in
// three passes: first every
// member is marked Dropped and its weak metadata (if any) made
// inaccessible, while the whole list is still intact; only once every
// member carries that mark does any Destroy hook run, so a Destroy
// implementation releasing a Strong field pointing at a sibling in the same
// list observes it as already-dying (Strong.Release's markDropped early
// return) and any Weak.Upgrade on a sibling fails immediately rather than
// racing the destruction order. Only once every Destroy hook has run does
// the final pass unlink each member and account for its bytes.
func (e *Engine) reclaim(nonRootList *list) {
	guard := e.st.droppingGuard()
	defer guard.release()

	nonRootList.forEach(func(o object) {
		b := o.base()
		b.mark.setMark(markDropped)
		if b.weak != nil {
			b.weak.setAccessible(false)
		}
	})

	reclaimed := 0
	nonRootList.forEach(func(o object) {
		o.destroy()
		reclaimed++
	})

	var bytesReclaimed uint64
	nonRootList.forEachClearing(func(o object) {
		bytesReclaimed += uint64(o.base().size)
		e.st.recordDeallocation(o.base().size)
	})

	e.recordPassReclaimCount(reclaimed)
	e.metrics.Counter("cycgc_objects_reclaimed_total").Add(int64(reclaimed))
	e.metrics.Counter("cycgc_bytes_reclaimed_total").Add(int64(bytesReclaimed))
	collectorLog.Debug("reclaimed a cyclic garbage batch", "objects", reclaimed, "bytes", bytesReclaimed)
}
