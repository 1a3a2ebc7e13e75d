// Package cleaner provides a keyed registry of one-shot cleanup callbacks:
// a value can schedule a closure to run either explicitly or when the
// value holding the registration is itself collected.
//
// A callback scheduled through Register must never reach back into the
// object it cleans up: cleanup callbacks run from inside the engine's
// destroy phase, where a payload's fields have already been cleared.
package cleaner

import "github.com/cycgc/cycgc"

type cleanerMap struct {
	next uint64
	fns  map[uint64]func()
}

func newCleanerMap() *cleanerMap { return &cleanerMap{fns: make(map[uint64]func())} }

// Trace is a no-op: cleanerMap holds no Strong/Weak fields of its own.
func (m *cleanerMap) Trace(*cycgc.Context) {}

// Destroy runs every callback still registered when the map itself is
// collected: a callback fires exactly once, whether through an explicit
// Cleanable.Clean or the whole map going away.
func (m *cleanerMap) Destroy() {
	for key, fn := range m.fns {
		delete(m.fns, key)
		fn()
	}
}

// Cleaner owns a registry of pending cleanup callbacks. It embeds a Strong
// reference to its own backing map but must never trace it: tracing it
// would let a callback captured in that map observe a live reference back
// to the very object whose destruction triggered the callback.
type Cleaner struct {
	m cycgc.Strong[*cleanerMap]
}

// New returns an empty Cleaner backed by a fresh Strong[*cleanerMap] on
// the default engine.
func New() Cleaner { return Cleaner{m: cycgc.New[*cleanerMap](newCleanerMap())} }

// NewIn is New, but allocates the backing map on an explicit Engine.
func NewIn(eng *cycgc.Engine) Cleaner {
	return Cleaner{m: cycgc.NewIn[*cleanerMap](eng, newCleanerMap())}
}

// Trace never traces the backing map; see the Cleaner doc comment.
func (c Cleaner) Trace(*cycgc.Context) {}

func (c Cleaner) Finalize() {}

// Release drops the Cleaner's backing map, running any callback still
// registered. A type embedding a Cleaner field must call Release from its
// own Destroy method, the same way it releases any other Strong/Weak field
// it owns (see header.destroy in the engine package).
func (c Cleaner) Release() { c.m.Release() }

// Register schedules fn to run once, returning a handle that can trigger
// it early via Cleanable.Clean. If Clean is never called, fn still runs
// once the Cleaner's backing map is collected.
func (c Cleaner) Register(fn func()) Cleanable {
	m := c.m.Value()
	key := m.next
	m.next++
	m.fns[key] = fn
	return Cleanable{weak: c.m.Downgrade(), key: key}
}

// Cleanable is a handle to one callback registered with a Cleaner.
type Cleanable struct {
	weak cycgc.Weak[*cleanerMap]
	key  uint64
}

// Clean runs the associated callback immediately, if it hasn't already run.
// It is safe to call more than once or after the backing Cleaner is gone;
// both are no-ops.
func (cl Cleanable) Clean() {
	s, ok := cl.weak.Upgrade()
	if !ok {
		return
	}
	defer s.Release()
	m := s.Value()
	fn, ok := m.fns[cl.key]
	if !ok {
		return
	}
	delete(m.fns, cl.key)
	fn()
}

func (cl Cleanable) Trace(*cycgc.Context) {}

func (cl Cleanable) Finalize() {}
