package cycgc

import "unsafe"

// sizeOf reports the in-memory footprint of v's static type. It deliberately
// ignores indirect storage (slice backing arrays, map buckets, pointees): it
// exists to feed Config's byte-threshold heuristic a stable, cheap number,
// not to produce an accurate profiler-grade size.
func sizeOf[T any](v T) uintptr {
	return unsafe.Sizeof(v)
}
