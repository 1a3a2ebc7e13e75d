package cycgc

import "errors"

// ErrNotUnique is returned by Strong.TryUnwrap when more than one Strong
// handle to the same object is still outstanding.
var ErrNotUnique = errors.New("cycgc: strong handle is not unique")

// Programmer-error conditions (overflow of a saturating counter, touching
// the engine from inside a Trace implementation) are left as panics rather
// than returned errors: they indicate a bug in the calling code, not a
// recoverable runtime condition.
