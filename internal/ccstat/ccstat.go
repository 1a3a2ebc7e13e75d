// Package ccstat provides small generic numeric helpers for summarizing
// engine statistics (collection pass durations, reclaimed-object counts)
// without committing to a single integer width.
package ccstat

import "golang.org/x/exp/constraints"

// Max returns the larger of a and b.
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// Min returns the smaller of a and b.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Average returns the arithmetic mean of vals, or 0 for an empty slice.
func Average[T constraints.Integer](vals []T) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum T
	for _, v := range vals {
		sum += v
	}
	return float64(sum) / float64(len(vals))
}
