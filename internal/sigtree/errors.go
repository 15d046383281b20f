package sigtree

import "errors"

// These mirror the taxonomy in the parent package's error table; the parent
// package re-wraps them behind its own exported sentinels so callers never
// see an internal/sigtree error directly.
var (
	ErrInvalidMaxTimePeriod = errors.New("sigtree: invalid max time period")
	ErrNonPowerOfTwo        = errors.New("sigtree: T+1 is not a power of two")
	ErrInvalidPath          = errors.New("sigtree: invalid node path")
	ErrInvalidNodeNum       = errors.New("sigtree: invalid node number")
)
