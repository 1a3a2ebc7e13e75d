package cycgc

import "fmt"

// Config holds the tunable knobs that decide when an Engine should run an
// automatic collection pass. The percent setters keep adjustmentPercent <
// triggerPercent; adjust, run after an automatic collection, moves
// bytesThreshold so that adjustmentPercent <= allocated/bytesThreshold <=
// triggerPercent, subject to platformFloor.
type Config struct {
	bytesThreshold     uint64
	triggerPercent     float64
	adjustmentPercent  float64
	bufferedThreshold  *uint64 // optional; nil disables the buffered-count trigger
	autoCollectEnabled bool
}

// platformFloor is the minimum value SetBytesThreshold and adjust will ever
// leave bytesThreshold at, so a program with a near-empty live set doesn't
// end up auto-collecting on every single allocation.
const platformFloor uint64 = 100

// DefaultConfig returns the engine's out-of-the-box tuning: collect once
// allocated bytes cross 70% of a 100-byte threshold, and relax the
// threshold back down once usage falls under 25% of it.
func DefaultConfig() Config {
	return Config{
		bytesThreshold:     100,
		triggerPercent:     0.7,
		adjustmentPercent:  0.25,
		autoCollectEnabled: true,
	}
}

func (c *Config) CollectionTriggerPercent() float64 { return c.triggerPercent }

// SetCollectionTriggerPercent panics if percent is not in (0, 1) or is not
// greater than the current adjustment percent.
func (c *Config) SetCollectionTriggerPercent(percent float64) {
	if !(percent > 0 && percent < 1) {
		panic("cycgc: trigger percent must be between 0 and 1 (excluded)")
	}
	if !(percent > c.adjustmentPercent) {
		panic("cycgc: trigger percent must be greater than adjustment percent")
	}
	c.triggerPercent = percent
}

func (c *Config) AdjustmentPercent() float64 { return c.adjustmentPercent }

func (c *Config) SetAdjustmentPercent(percent float64) {
	if !(percent > 0 && percent < 1) {
		panic("cycgc: adjustment percent must be between 0 and 1 (excluded)")
	}
	if !(percent < c.triggerPercent) {
		panic("cycgc: adjustment percent must be less than collection trigger percent")
	}
	c.adjustmentPercent = percent
}

func (c *Config) BytesThreshold() uint64 { return c.bytesThreshold }

// SetBytesThreshold overrides the byte count that triggers an automatic
// collection once crossed, scaled by the trigger percent. The value is
// clamped up to platformFloor.
func (c *Config) SetBytesThreshold(threshold uint64) {
	if threshold < platformFloor {
		threshold = platformFloor
	}
	c.bytesThreshold = threshold
}

// BufferedThreshold returns the configured cap on the number of buffered
// possibly-cyclic objects, and whether one is set at all.
func (c *Config) BufferedThreshold() (threshold uint64, ok bool) {
	if c.bufferedThreshold == nil {
		return 0, false
	}
	return *c.bufferedThreshold, true
}

// SetBufferedThreshold enables triggering a collection once the
// possibly-cyclic list holds at least threshold objects, independent of
// the byte-based trigger. The byte heuristic alone can miss an engine
// whose payloads are mostly tiny fixed headers (see contrib/ccstd), which
// can accumulate thousands of possibly-cyclic candidates while staying
// well under any reasonable byte threshold.
func (c *Config) SetBufferedThreshold(threshold uint64) {
	c.bufferedThreshold = &threshold
}

func (c *Config) ClearBufferedThreshold() {
	c.bufferedThreshold = nil
}

// AutoCollectEnabled reports whether New/NewIn may opportunistically trigger
// a collection pass. It defaults to true.
func (c *Config) AutoCollectEnabled() bool { return c.autoCollectEnabled }

// SetAutoCollectEnabled turns the per-allocation trigger probe on or off.
// With it disabled, garbage still buffers into the possibly-cyclic list as
// usual; only the opportunistic CollectCycles call on allocation is
// suppressed, leaving an explicit CollectCycles call as the only way to
// reclaim cycles.
func (c *Config) SetAutoCollectEnabled(enabled bool) { c.autoCollectEnabled = enabled }

func (c *Config) String() string {
	buffered := "none"
	if t, ok := c.BufferedThreshold(); ok {
		buffered = fmt.Sprintf("%d", t)
	}
	return fmt.Sprintf("Config{bytesThreshold: %d, triggerPercent: %.2f, adjustmentPercent: %.2f, bufferedThreshold: %s, autoCollectEnabled: %v}",
		c.bytesThreshold, c.triggerPercent, c.adjustmentPercent, buffered, c.autoCollectEnabled)
}

// shouldCollect reports whether allocated bytes (or, if configured, the
// buffered possibly-cyclic count) have crossed the trigger threshold.
func (c *Config) shouldCollect(s *state, buffered uint64) bool {
	if float64(s.allocatedBytes) > c.triggerPercent*float64(c.bytesThreshold) {
		return true
	}
	if t, ok := c.BufferedThreshold(); ok && buffered >= t {
		return true
	}
	return false
}

// adjust restores the invariant adjustmentPercent <= allocated/threshold <=
// triggerPercent after a collection pass: if usage fell well under the
// threshold, the threshold relaxes downward so a shrinking live set doesn't
// keep triggering collections against an oversized threshold; if usage is
// still above the trigger fraction (the pass reclaimed nothing, e.g. every
// buffered candidate turned out to be a live root), the threshold grows to
// match so the next allocation doesn't immediately re-trigger. Either way
// the result never drops below platformFloor.
func (c *Config) adjust(s *state) {
	allocated := float64(s.allocatedBytes)
	switch {
	case allocated < c.adjustmentPercent*float64(c.bytesThreshold):
		c.bytesThreshold = uint64(allocated / c.triggerPercent)
	case allocated > c.triggerPercent*float64(c.bytesThreshold):
		c.bytesThreshold = uint64(allocated / c.triggerPercent)
	}
	if c.bytesThreshold < platformFloor {
		c.bytesThreshold = platformFloor
	}
}
