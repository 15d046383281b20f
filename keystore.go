package gpixel

import (
	"fmt"
	"sync"

	"github.com/bits-and-blooms/bitset"
)

// KeyStore is the synchronous storage contract a SigManager uses to hold
// its frontier of NodeSecrets. Implementations are free to back this with
// disk, an HSM, or (as shipped here) memory; spec.md treats persistence
// format as a non-goal, so only the in-memory reference backend ships with
// this module.
type KeyStore interface {
	// Get returns the NodeSecret stored at path, or ok == false if none is
	// present.
	Get(path Path) (ns *NodeSecret, ok bool)

	// Put stores ns at path, overwriting any existing entry.
	Put(path Path, ns *NodeSecret)

	// Erase removes and zeroizes the NodeSecret at path. It is a no-op if
	// path is not present.
	Erase(path Path)

	// Paths returns every path currently stored, in no particular order.
	Paths() []Path
}

// InMemoryKeyStore is the reference KeyStore backend: a map protected by a
// mutex. Punctured/PuncturedSet below derive which leaf indices of [1, T]
// are no longer reachable directly from the current entries rather than
// maintaining a separately-updated bitset, since a NodeSecret's interval
// can be re-covered by its own freshly inserted children within the same
// commit-ordering step that erases it (insert-children-before-erase-parent,
// spec.md §5) — tracking puncture eagerly on every Erase call would mark
// that still-reachable range as lost. The resulting BitSet still plays the
// same bookkeeping role this codebase's validator-aggregation tree gives
// its SigBits bitset, just computed on demand instead of kept resident.
type InMemoryKeyStore struct {
	mu sync.Mutex

	l       uint64
	entries map[string]*NodeSecret
}

// NewInMemoryKeyStore creates an empty store for a tree of depth l.
func NewInMemoryKeyStore(l uint64) *InMemoryKeyStore {
	return &InMemoryKeyStore{
		l:       l,
		entries: make(map[string]*NodeSecret),
	}
}

func pathKey(p Path) string { return string(p) }

// Get implements KeyStore.
func (s *InMemoryKeyStore) Get(path Path) (*NodeSecret, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ns, ok := s.entries[pathKey(path)]
	return ns, ok
}

// Put implements KeyStore.
func (s *InMemoryKeyStore) Put(path Path, ns *NodeSecret) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[pathKey(path)] = ns
}

// Erase implements KeyStore.
func (s *InMemoryKeyStore) Erase(path Path) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pathKey(path)
	if ns, ok := s.entries[key]; ok {
		ns.Zeroize()
		delete(s.entries, key)
	}
}

// Paths implements KeyStore.
func (s *InMemoryKeyStore) Paths() []Path {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Path, 0, len(s.entries))
	for k := range s.entries {
		out = append(out, Path(k))
	}
	return out
}

// Punctured reports whether time period t is not covered by any NodeSecret
// currently in the store, i.e. no remaining secret can derive a signing key
// for t.
func (s *InMemoryKeyStore) Punctured(t uint64) (bool, error) {
	maxT := uint64(1) << s.l
	if t < 1 || t > maxT {
		return false, fmt.Errorf("%w: %d", ErrInvalidNodeNum, t)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ns := range s.entries {
		lo, hi, err := IntervalOf(ns.Path, s.l)
		if err != nil {
			continue
		}
		if t >= lo && t <= hi {
			return false, nil
		}
	}
	return true, nil
}

// PuncturedSet builds the full set of punctured indices by the same
// coverage check Punctured uses, for observability and tests.
func (s *InMemoryKeyStore) PuncturedSet() *bitset.BitSet {
	s.mu.Lock()
	defer s.mu.Unlock()

	maxT := uint64(1) << s.l
	bs := bitset.New(uint(maxT))
	for i := uint(0); i < uint(maxT); i++ {
		bs.Set(i)
	}
	for _, ns := range s.entries {
		lo, hi, err := IntervalOf(ns.Path, s.l)
		if err != nil {
			continue
		}
		for t := lo; t <= hi; t++ {
			bs.Clear(uint(t - 1))
		}
	}
	return bs
}
