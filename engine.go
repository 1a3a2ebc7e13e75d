package cycgc

import (
	"github.com/cycgc/cycgc/internal/ccmetrics"
	"github.com/cycgc/cycgc/internal/ccstat"
)

// Engine owns one collector's worth of bookkeeping: the possibly-cyclic
// candidate list, the collecting/finalizing/dropping state flags, the
// allocation counters the auto-trigger heuristic watches, and its own
// metrics registry. An Engine is an ordinary struct that callers must
// confine to a single goroutine themselves; nothing in cycgc synchronizes
// access to one.
type Engine struct {
	st             state
	cfg            Config
	possibleCycles possibleCycles
	metrics        *ccmetrics.Registry

	// passReclaimCounts keeps the reclaimed-object count of the last few
	// collection passes that reached reclamation (passes that found no
	// garbage or deferred to a finalizer are not recorded), bounded to
	// maxPassHistory entries, so Stats can
	// report an average/peak without keeping an unbounded history.
	passReclaimCounts []int
}

// maxPassHistory bounds passReclaimCounts.
const maxPassHistory = 32

// NewEngine returns a freshly configured, empty Engine.
func NewEngine() *Engine {
	return &Engine{
		cfg:     DefaultConfig(),
		metrics: ccmetrics.NewRegistry(),
	}
}

// recordPassReclaimCount appends n to the pass history, dropping the
// oldest entry once the bound is reached.
func (e *Engine) recordPassReclaimCount(n int) {
	if len(e.passReclaimCounts) >= maxPassHistory {
		e.passReclaimCounts = e.passReclaimCounts[1:]
	}
	e.passReclaimCounts = append(e.passReclaimCounts, n)
}

// Default is the package-level Engine every New/Strong constructor uses
// unless a caller threads its own Engine through explicitly; NewEngine
// leaves room for isolated collectors in tests or embedders that run more
// than one arena.
var Default = NewEngine()

// Config returns a pointer to the Engine's tuning knobs.
func (e *Engine) Config() *Config { return &e.cfg }

// Metrics returns the Engine's private metrics registry.
func (e *Engine) Metrics() *ccmetrics.Registry { return e.metrics }

// Stats is a point-in-time snapshot of an Engine's bookkeeping counters.
type Stats struct {
	AllocatedBytes uint64
	Executions     uint64
	Buffered       int

	// AverageReclaimedPerPass and PeakReclaimedPerPass summarize the
	// object counts reclaimed by the last maxPassHistory collection
	// passes that reached reclamation; both are 0 if no such pass has run
	// yet.
	AverageReclaimedPerPass float64
	PeakReclaimedPerPass    int
}

// Stats reports the Engine's current allocation total, how many collection
// executions it has run, how many objects are presently buffered as
// possibly-cyclic candidates, and a short summary of recent pass sizes.
func (e *Engine) Stats() Stats {
	peak := 0
	for _, n := range e.passReclaimCounts {
		peak = ccstat.Max(peak, n)
	}
	return Stats{
		AllocatedBytes:          e.st.allocatedBytes,
		Executions:              e.st.executions,
		Buffered:                e.possibleCycles.len(),
		AverageReclaimedPerPass: ccstat.Average(e.passReclaimCounts),
		PeakReclaimedPerPass:    peak,
	}
}

// removeFromPossibleCyclesIfPresent unlinks o from the possibly-cyclic
// list if it is currently buffered there, resetting its mark.
func (e *Engine) removeFromPossibleCyclesIfPresent(o object) {
	if o.base().mark.isInPossibleCycles() {
		o.base().mark.setMark(markNone)
		e.possibleCycles.remove(o)
	}
}

// addToPossibleCycles buffers o as a possibly-cyclic candidate, or moves
// it to the front of the list if it is already buffered.
func (e *Engine) addToPossibleCycles(o object) {
	if o.base().mark.isInPossibleCycles() {
		e.possibleCycles.remove(o)
		e.possibleCycles.add(o)
		return
	}
	o.base().mark.setMark(markPossibleCycles)
	e.possibleCycles.add(o)
}

// maybeAutoCollect runs CollectCycles if auto-collection is enabled and
// the configured heuristic says the Engine has accumulated enough garbage
// to be worth a pass. Strong's New/NewIn call this on every allocation.
func (e *Engine) maybeAutoCollect() {
	if e.st.isCollecting() || !e.cfg.AutoCollectEnabled() {
		return
	}
	if e.cfg.shouldCollect(&e.st, uint64(e.possibleCycles.len())) {
		e.CollectCycles()
		e.cfg.adjust(&e.st)
	}
}
