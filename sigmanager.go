package gpixel

import (
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"
	"github.com/gordian-engine/gpixel/internal/pixelgroup"
	"github.com/hashicorp/go-multierror"
)

// SigManager drives the time-period key schedule: it owns CurrentT and a
// KeyStore holding the frontier, the minimal set of subtree-root
// NodeSecrets whose intervals tile [CurrentT, T+1], T+1 being the all-Right
// sentinel leaf that is never signable. SigManager is not safe
// for concurrent use from multiple goroutines; spec.md's concurrency model
// treats the whole update/sign/erase sequence as single-threaded per
// keypair, the same way a KeyStore backend is expected to serialize
// concurrent callers itself if it needs to.
type SigManager struct {
	gs    *GeneratorSet
	store KeyStore
	l     uint64
	t     uint64
}

// NewSigManager seeds store with root as the sole initial frontier entry
// and starts the schedule at CurrentT == 1.
func NewSigManager(gs *GeneratorSet, store KeyStore, root *NodeSecret) *SigManager {
	store.Put(root.Path, root)
	return &SigManager{gs: gs, store: store, l: gs.L(), t: 1}
}

// CurrentT returns the earliest time period this manager can still sign
// for.
func (m *SigManager) CurrentT() uint64 { return m.t }

// MaxT returns T, the last valid time period.
func (m *SigManager) MaxT() uint64 { return (uint64(1) << m.l) - 1 }

// findCovering returns the frontier entry whose interval contains t, along
// with that interval, or ok == false if t is not currently reachable.
func (m *SigManager) findCovering(t uint64) (ns *NodeSecret, lo, hi uint64, ok bool) {
	for _, p := range m.store.Paths() {
		plo, phi, err := IntervalOf(p, m.l)
		if err != nil {
			continue
		}
		if t >= plo && t <= phi {
			entry, found := m.store.Get(p)
			if !found {
				continue
			}
			return entry, plo, phi, true
		}
	}
	return nil, 0, 0, false
}

// GetKey derives and returns the leaf NodeSecret usable to sign at time
// period t, without mutating the stored frontier. It fails with
// ErrSigkeyNotFound if t has already been punctured, is in the future of
// CurrentT relative to a not-yet-derived frontier gap, or exceeds T.
func (m *SigManager) GetKey(t uint64, rng io.Reader) (*NodeSecret, error) {
	if t < m.t || t > m.MaxT() {
		return nil, fmt.Errorf("%w: t=%d", ErrSigkeyNotFound, t)
	}
	entry, _, _, ok := m.findCovering(t)
	if !ok {
		return nil, fmt.Errorf("%w: t=%d", ErrSigkeyNotFound, t)
	}

	target, err := PathOf(t, m.l)
	if err != nil {
		return nil, err
	}

	cur := entry
	for cur.Depth() < m.l {
		bit := target[cur.Depth()]
		r, err := pixelgroup.RandomScalar(rng)
		if err != nil {
			return nil, err
		}
		cur, err = cur.Derive(m.gs, bit, r)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// SimpleUpdate advances CurrentT by exactly one period, erasing every
// secret needed to sign at the old CurrentT along the way. It descends the
// frontier entry covering CurrentT, splitting nodes into their two children
// (inserting both before erasing the parent, per the commit-ordering
// discipline), peeling off each right sibling into the frontier as a
// future-only subtree, until the exact leaf for the old CurrentT is
// reached and erased.
func (m *SigManager) SimpleUpdate(rng io.Reader) error {
	if m.t > m.MaxT() {
		return ErrSigkeyAlreadyUpdated
	}
	old := m.t

	cur, lo, hi, ok := m.findCovering(old)
	if !ok {
		return fmt.Errorf("%w: t=%d", ErrSigkeyNotFound, old)
	}
	curPath := cur.Path

	var errs *multierror.Error
	for lo != hi {
		mid := lo + (hi-lo+1)/2 - 1

		r1, err := pixelgroup.RandomScalar(rng)
		if err != nil {
			return err
		}
		r2, err := pixelgroup.RandomScalar(rng)
		if err != nil {
			return err
		}

		left, err := cur.Derive(m.gs, Left, r1)
		if err != nil {
			errs = multierror.Append(errs, err)
			break
		}
		right, err := cur.Derive(m.gs, Right, r2)
		if err != nil {
			errs = multierror.Append(errs, err)
			break
		}

		m.store.Put(left.Path, left)
		m.store.Put(right.Path, right)
		m.store.Erase(curPath)

		// old == lo is a frontier invariant: the entry covering CurrentT
		// always starts exactly at CurrentT, so the continuation is always
		// into the left child and the right child is always future-only.
		cur, curPath = left, left.Path
		lo, hi = lo, mid
	}
	if errs.ErrorOrNil() != nil {
		return errs
	}
	m.store.Erase(curPath)

	m.t = old + 1
	return nil
}

// FastForwardUpdate jumps CurrentT directly to newT, erasing every subtree
// covering periods from the old CurrentT up to, but not including, newT
// without deriving the subtrees
// it discards along the way, and leaving newT itself as a signable leaf.
func (m *SigManager) FastForwardUpdate(newT uint64, rng io.Reader) error {
	if newT == m.t {
		return ErrSigkeyAlreadyUpdated
	}
	if newT < m.t {
		return ErrSigkeyUpdateBackward
	}
	if newT > m.MaxT()+1 {
		return fmt.Errorf("%w: t=%d", ErrInvalidNodeNum, newT)
	}

	cur, lo, hi, ok := m.findCovering(newT)
	if !ok {
		return fmt.Errorf("%w: t=%d", ErrSigkeyNotFound, newT)
	}
	curPath := cur.Path

	for lo != hi {
		mid := lo + (hi-lo+1)/2 - 1

		if newT <= mid {
			r1, err := pixelgroup.RandomScalar(rng)
			if err != nil {
				return err
			}
			r2, err := pixelgroup.RandomScalar(rng)
			if err != nil {
				return err
			}
			left, err := cur.Derive(m.gs, Left, r1)
			if err != nil {
				return err
			}
			right, err := cur.Derive(m.gs, Right, r2)
			if err != nil {
				return err
			}
			m.store.Put(left.Path, left)
			m.store.Put(right.Path, right)
			m.store.Erase(curPath)
			cur, curPath = left, left.Path
			hi = mid
		} else {
			r, err := pixelgroup.RandomScalar(rng)
			if err != nil {
				return err
			}
			right, err := cur.Derive(m.gs, Right, r)
			if err != nil {
				return err
			}
			m.store.Put(right.Path, right)
			m.store.Erase(curPath)
			cur, curPath = right, right.Path
			lo = mid + 1
		}
	}

	// The descent above only ever touches the frontier entry that covers
	// newT. Any other frontier entry whose interval ends before newT is a
	// leftover from an earlier update (a SimpleUpdate right-sibling that
	// was peeled off and never consumed, or a frontier entry from a prior
	// FastForwardUpdate) and now addresses time periods strictly before the
	// new CurrentT. Erase all of them so no NodeSecret capable of deriving
	// a signing key for t < newT survives in the store.
	var errs *multierror.Error
	for _, p := range m.store.Paths() {
		if p.Equal(curPath) {
			continue
		}
		_, phi, err := IntervalOf(p, m.l)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		if phi < newT {
			m.store.Erase(p)
		}
	}
	if errs.ErrorOrNil() != nil {
		return errs
	}

	m.t = newT
	return nil
}

// Punctured reports the set of punctured time periods, if the underlying
// KeyStore exposes one (InMemoryKeyStore does).
func (m *SigManager) Punctured() (*bitset.BitSet, bool) {
	ims, ok := m.store.(*InMemoryKeyStore)
	if !ok {
		return nil, false
	}
	return ims.PuncturedSet(), true
}
