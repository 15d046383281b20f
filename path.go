package gpixel

import (
	"errors"
	"fmt"

	"github.com/gordian-engine/gpixel/internal/sigtree"
)

// Path, Left and Right re-export internal/sigtree's node addressing so
// callers of this package never need to import the internal package
// directly. TreeDepth, PathOf, NodeOf, IntervalOf, IsAncestor and LCA mirror
// spec.md's TreeAddress operations one for one.
type Path = sigtree.Path

const (
	Left  = sigtree.Left
	Right = sigtree.Right
)

func wrapSigtreeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sigtree.ErrInvalidMaxTimePeriod):
		return fmt.Errorf("%w", ErrInvalidMaxTimePeriod)
	case errors.Is(err, sigtree.ErrNonPowerOfTwo):
		return fmt.Errorf("%w", ErrNonPowerOfTwo)
	case errors.Is(err, sigtree.ErrInvalidPath):
		return fmt.Errorf("%w", ErrInvalidPath)
	case errors.Is(err, sigtree.ErrInvalidNodeNum):
		return fmt.Errorf("%w", ErrInvalidNodeNum)
	default:
		return err
	}
}

// TreeDepth computes l = ceil(log2(T+1)) for a max time period T.
func TreeDepth(T uint64) (uint64, error) {
	l, err := sigtree.Depth(T)
	return l, wrapSigtreeErr(err)
}

// PathOf maps time period t to its leaf Path in a tree of depth l.
func PathOf(t, l uint64) (Path, error) {
	p, err := sigtree.PathOf(t, l)
	return p, wrapSigtreeErr(err)
}

// NodeOf recovers the time period addressed by leaf Path p.
func NodeOf(p Path, l uint64) (uint64, error) {
	t, err := sigtree.NodeOf(p, l)
	return t, wrapSigtreeErr(err)
}

// IntervalOf returns the inclusive range of time periods covered by the
// subtree rooted at p.
func IntervalOf(p Path, l uint64) (lo, hi uint64, err error) {
	lo, hi, err = sigtree.IntervalOf(p, l)
	return lo, hi, wrapSigtreeErr(err)
}

// IsAncestor reports whether p is a prefix of q.
func IsAncestor(p, q Path) bool { return sigtree.IsAncestor(p, q) }

// LCA returns the path to the lowest common ancestor of p and q.
func LCA(p, q Path) Path { return sigtree.LCA(p, q) }
