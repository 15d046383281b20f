// Package pixeltest provides shared scenario builders for gpixel's own
// tests and for downstream consumers exercising the package against a
// known-good setup, the same role gcryptotest's compliance suite plays for
// this codebase's other signature packages.
package pixeltest

import (
	"crypto/rand"
	"testing"

	"github.com/gordian-engine/gpixel"
	"github.com/stretchr/testify/require"
)

// DomainTag is the fixed domain-separation tag used by every scenario
// built in this package, matching spec.md §8's test fixtures.
const DomainTag = "test_pixel"

// Scenario bundles a freshly-built setup: the generator set, a signer
// keypair, and a SigManager seeded at CurrentT == 1.
type Scenario struct {
	T    uint64
	L    uint64
	GS   *gpixel.GeneratorSet
	KP   *gpixel.Keypair
	SM   *gpixel.SigManager
	Store *gpixel.InMemoryKeyStore
}

// NewScenario builds a Scenario for max time period T under DomainTag,
// failing the test immediately on any setup error.
func NewScenario(t *testing.T, T uint64) *Scenario {
	t.Helper()

	l, err := gpixel.TreeDepth(T)
	require.NoError(t, err)

	gs, err := gpixel.Setup([]byte(DomainTag), l)
	require.NoError(t, err)

	kp, err := gpixel.GenerateKeypair(gs, rand.Reader)
	require.NoError(t, err)

	store := gpixel.NewInMemoryKeyStore(l)
	sm := gpixel.NewSigManager(gs, store, kp.Root)

	return &Scenario{T: T, L: l, GS: gs, KP: kp, SM: sm, Store: store}
}

// SignAt signs msg at time period tp using whatever key SigManager can
// currently derive for it, failing the test on any error.
func (s *Scenario) SignAt(t *testing.T, tp uint64, msg []byte) *gpixel.Signature {
	t.Helper()

	leaf, err := s.SM.GetKey(tp, rand.Reader)
	require.NoError(t, err)

	sig, err := gpixel.Sign(s.GS, leaf, tp, msg, rand.Reader)
	require.NoError(t, err)
	return sig
}

// VerifyAt verifies sig against msg at time period tp under this
// scenario's Verkey, failing the test on any error (not on a false
// verification result, which callers assert on directly).
func (s *Scenario) VerifyAt(t *testing.T, sig *gpixel.Signature, tp uint64, msg []byte) bool {
	t.Helper()

	ok, err := gpixel.Verify(s.GS, s.KP.Verkey, sig, tp, msg)
	require.NoError(t, err)
	return ok
}

// RequireNoStaleFrontier fails the test if the Store holds any NodeSecret
// whose covered interval ends before CurrentT. This inspects the store
// directly rather than going through GetKey's t < CurrentT guard, so it
// catches a frontier entry that is merely hidden from that guard but still
// live in the backing store.
func (s *Scenario) RequireNoStaleFrontier(t *testing.T) {
	t.Helper()

	current := s.SM.CurrentT()
	for _, p := range s.Store.Paths() {
		_, hi, err := gpixel.IntervalOf(p, s.L)
		require.NoError(t, err)
		require.GreaterOrEqualf(t, hi, current,
			"stale frontier entry %v covers up to t=%d, before CurrentT=%d", p, hi, current)
	}
}
