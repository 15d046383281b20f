package gpixel_test

import (
	"crypto/rand"
	"testing"

	"github.com/gordian-engine/gpixel"
	"github.com/gordian-engine/gpixel/pixeltest"
	"github.com/stretchr/testify/require"
)

// These mirror the reference implementation's own end-to-end test
// fixtures: verify a signature produced at the initial time period, verify
// determinism, and verify signatures produced after driving the schedule
// forward by several simple updates, across two tree depths.

func TestScenarioVerifyInitial(t *testing.T) {
	t.Parallel()

	s := pixeltest.NewScenario(t, 7)
	msg := []byte("scenario: initial")

	sig := s.SignAt(t, 1, msg)
	require.True(t, s.VerifyAt(t, sig, 1, msg))
}

func TestScenarioDeterministic(t *testing.T) {
	t.Parallel()

	s := pixeltest.NewScenario(t, 7)
	msg := []byte("scenario: deterministic")

	leaf, err := s.SM.GetKey(1, rand.Reader)
	require.NoError(t, err)

	a, err := gpixel.SignDeterministic(s.GS, leaf, 1, msg)
	require.NoError(t, err)
	b, err := gpixel.SignDeterministic(s.GS, leaf, 1, msg)
	require.NoError(t, err)

	require.Equal(t, a.Sigma1.Compress(), b.Sigma1.Compress())
	require.True(t, s.VerifyAt(t, a, 1, msg))
}

func TestScenarioVerifyPostSimpleUpdateBySeven(t *testing.T) {
	t.Parallel()

	s := pixeltest.NewScenario(t, 15)
	msg := []byte("scenario: post update by 7")

	for i := 0; i < 7; i++ {
		require.NoError(t, s.SM.SimpleUpdate(rand.Reader))
	}
	require.Equal(t, uint64(8), s.SM.CurrentT())

	sig := s.SignAt(t, 8, msg)
	require.True(t, s.VerifyAt(t, sig, 8, msg))

	_, err := s.SM.GetKey(7, rand.Reader)
	require.ErrorIs(t, err, gpixel.ErrSigkeyNotFound)
}

func TestScenarioVerifyPostSimpleUpdateByFifteen(t *testing.T) {
	t.Parallel()

	s := pixeltest.NewScenario(t, 15)
	msg := []byte("scenario: post update by 15")

	for i := 0; i < 14; i++ {
		require.NoError(t, s.SM.SimpleUpdate(rand.Reader))
	}
	require.Equal(t, uint64(15), s.SM.CurrentT())

	sig := s.SignAt(t, 15, msg)

	// The fifteenth update moves CurrentT to the T+1 sentinel: the schedule
	// is exhausted, no period can be signed any more, and the signature
	// made at t=15 still verifies.
	require.NoError(t, s.SM.SimpleUpdate(rand.Reader))
	require.Equal(t, uint64(16), s.SM.CurrentT())
	require.True(t, s.VerifyAt(t, sig, 15, msg))

	_, err := s.SM.GetKey(16, rand.Reader)
	require.ErrorIs(t, err, gpixel.ErrSigkeyNotFound)

	require.ErrorIs(t, s.SM.SimpleUpdate(rand.Reader), gpixel.ErrSigkeyAlreadyUpdated)
}

func TestScenarioFastForwardThenSign(t *testing.T) {
	t.Parallel()

	s := pixeltest.NewScenario(t, 31)
	msg := []byte("scenario: fast forward")

	require.NoError(t, s.SM.FastForwardUpdate(20, rand.Reader))

	sig := s.SignAt(t, 25, msg)
	require.True(t, s.VerifyAt(t, sig, 25, msg))

	_, err := s.SM.GetKey(19, rand.Reader)
	require.ErrorIs(t, err, gpixel.ErrSigkeyNotFound)
}

func TestScenarioFastForwardRepeatDoesNotLeaveStaleFrontier(t *testing.T) {
	t.Parallel()

	// Mirrors the reference implementation's repeat fast-forward fixtures
	// and spec.md §8 scenario 6: two consecutive fast-forwards, the second
	// one landing in the right half of the frontier entry produced by the
	// first. Every frontier entry left over from the first jump that
	// addresses a period before the second jump's target must be gone, not
	// merely unreachable through GetKey.
	s := pixeltest.NewScenario(t, 15)
	msg := []byte("scenario: fast forward repeat")

	require.NoError(t, s.SM.FastForwardUpdate(3, rand.Reader))
	require.NoError(t, s.SM.FastForwardUpdate(10, rand.Reader))
	require.Equal(t, uint64(10), s.SM.CurrentT())

	s.RequireNoStaleFrontier(t)

	for tp := uint64(1); tp < 10; tp++ {
		_, err := s.SM.GetKey(tp, rand.Reader)
		require.ErrorIs(t, err, gpixel.ErrSigkeyNotFound)
	}

	sig := s.SignAt(t, 10, msg)
	require.True(t, s.VerifyAt(t, sig, 10, msg))
}

func TestScenarioSimpleUpdateThenFastForwardDoesNotLeaveStaleFrontier(t *testing.T) {
	t.Parallel()

	// SimpleUpdate peels off right siblings into the frontier one level at
	// a time; a later FastForwardUpdate must sweep up every one of those
	// siblings that now falls before its target, not just the entry it
	// descends from.
	s := pixeltest.NewScenario(t, 15)
	msg := []byte("scenario: simple then fast forward")

	for i := 0; i < 3; i++ {
		require.NoError(t, s.SM.SimpleUpdate(rand.Reader))
	}
	require.Equal(t, uint64(4), s.SM.CurrentT())

	require.NoError(t, s.SM.FastForwardUpdate(12, rand.Reader))
	require.Equal(t, uint64(12), s.SM.CurrentT())

	s.RequireNoStaleFrontier(t)

	for tp := uint64(1); tp < 12; tp++ {
		_, err := s.SM.GetKey(tp, rand.Reader)
		require.ErrorIs(t, err, gpixel.ErrSigkeyNotFound)
	}

	sig := s.SignAt(t, 12, msg)
	require.True(t, s.VerifyAt(t, sig, 12, msg))
}

func TestScenarioEarlySignatureStaysVerifiableAfterUpdate(t *testing.T) {
	t.Parallel()

	s := pixeltest.NewScenario(t, 15)
	msg := []byte("scenario: sign then advance")

	sig := s.SignAt(t, 1, msg)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.SM.SimpleUpdate(rand.Reader))
	}

	// The signature produced at t=1 remains valid against the original
	// Verkey forever, even though the key material for t=1 is gone.
	require.True(t, s.VerifyAt(t, sig, 1, msg))

	_, err := s.SM.GetKey(1, rand.Reader)
	require.ErrorIs(t, err, gpixel.ErrSigkeyNotFound)
}
