// Package ccstd provides Trace/Finalize support for the shapes payloads
// most commonly need: slices and maps of traceable elements, an optional
// value, and scalar leaves that own no Strong/Weak references at all. It
// depends only on cycgc's public API, exactly like a user-supplied Trace
// implementation would; the engine itself never imports it.
//
// cycgc has no code generation, so these are ordinary generic wrapper
// types a payload struct embeds in place of bare container fields.
package ccstd

import "github.com/cycgc/cycgc"

// Leaf wraps any value that owns no Strong or Weak references, giving it
// a no-op Trace: bools, integers, strings and the like.
type Leaf[T any] struct {
	Value T
}

func (Leaf[T]) Trace(*cycgc.Context) {}

// Slice traces every element of a slice of Traceable values. A payload
// struct with a `Children cycgc.Strong[Node]` slice field should embed
// this as `Children ccstd.Slice[cycgc.Strong[Node]]` rather than a bare
// Go slice, so one call to the field's Trace covers every element.
type Slice[T cycgc.Traceable] []T

func (s Slice[T]) Trace(ctx *cycgc.Context) {
	for _, v := range s {
		v.Trace(ctx)
	}
}

// Map traces every value of a map whose values are Traceable. Keys are
// never traced: a Strong used as a map key would be invisible to the
// engine's traversal and could be collected while still reachable, so Map
// intentionally only supports Traceable values.
type Map[K comparable, V cycgc.Traceable] map[K]V

func (m Map[K, V]) Trace(ctx *cycgc.Context) {
	for _, v := range m {
		v.Trace(ctx)
	}
}

// Option is a value that is traced only if Present is true, covering the
// nullable-reference case.
type Option[T cycgc.Traceable] struct {
	Present bool
	Value   T
}

func (o Option[T]) Trace(ctx *cycgc.Context) {
	if o.Present {
		o.Value.Trace(ctx)
	}
}

// Some returns a present Option wrapping v.
func Some[T cycgc.Traceable](v T) Option[T] { return Option[T]{Present: true, Value: v} }

// None returns an empty Option for T.
func None[T cycgc.Traceable]() Option[T] { return Option[T]{} }
