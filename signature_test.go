package gpixel_test

import (
	"crypto/rand"
	"testing"

	"github.com/gordian-engine/gpixel"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	gs, kp, sm := newTestManager(t, 7)
	msg := []byte("hello pixel")

	leaf, err := sm.GetKey(1, rand.Reader)
	require.NoError(t, err)

	sig, err := gpixel.Sign(gs, leaf, 1, msg, rand.Reader)
	require.NoError(t, err)

	ok, err := gpixel.Verify(gs, kp.Verkey, sig, 1, msg)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyRejectsWrongMessage(t *testing.T) {
	t.Parallel()

	gs, kp, sm := newTestManager(t, 7)

	leaf, err := sm.GetKey(1, rand.Reader)
	require.NoError(t, err)
	sig, err := gpixel.Sign(gs, leaf, 1, []byte("real"), rand.Reader)
	require.NoError(t, err)

	ok, err := gpixel.Verify(gs, kp.Verkey, sig, 1, []byte("forged"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyRejectsWrongTimePeriod(t *testing.T) {
	t.Parallel()

	gs, kp, sm := newTestManager(t, 7)
	msg := []byte("hello pixel")

	leaf, err := sm.GetKey(1, rand.Reader)
	require.NoError(t, err)
	sig, err := gpixel.Sign(gs, leaf, 1, msg, rand.Reader)
	require.NoError(t, err)

	ok, err := gpixel.Verify(gs, kp.Verkey, sig, 2, msg)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSignDeterministicIsStable(t *testing.T) {
	t.Parallel()

	gs, kp, sm := newTestManager(t, 7)
	msg := []byte("deterministic")

	leaf, err := sm.GetKey(3, rand.Reader)
	require.NoError(t, err)

	a, err := gpixel.SignDeterministic(gs, leaf, 3, msg)
	require.NoError(t, err)
	b, err := gpixel.SignDeterministic(gs, leaf, 3, msg)
	require.NoError(t, err)

	require.Equal(t, a.Sigma1.Compress(), b.Sigma1.Compress())
	require.Equal(t, a.Sigma2.Compress(), b.Sigma2.Compress())

	ok, err := gpixel.Verify(gs, kp.Verkey, a, 3, msg)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestAggregateAndVerifyAggregated(t *testing.T) {
	t.Parallel()

	const T = uint64(7)
	l, err := gpixel.TreeDepth(T)
	require.NoError(t, err)
	gs, err := gpixel.Setup([]byte("test_pixel"), l)
	require.NoError(t, err)

	msg := []byte("multisig message")
	const tp = uint64(1)

	var verkeys []gpixel.Verkey
	var sigs []*gpixel.Signature
	for i := 0; i < 3; i++ {
		kp, err := gpixel.GenerateKeypair(gs, rand.Reader)
		require.NoError(t, err)

		store := gpixel.NewInMemoryKeyStore(l)
		sm := gpixel.NewSigManager(gs, store, kp.Root)

		leaf, err := sm.GetKey(tp, rand.Reader)
		require.NoError(t, err)

		sig, err := gpixel.Sign(gs, leaf, tp, msg, rand.Reader)
		require.NoError(t, err)

		verkeys = append(verkeys, kp.Verkey)
		sigs = append(sigs, sig)
	}

	agg, err := gpixel.Aggregate(sigs...)
	require.NoError(t, err)

	ok, err := gpixel.VerifyAggregated(gs, verkeys, agg, tp, msg)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestAggregateRejectsMissingSigner(t *testing.T) {
	t.Parallel()

	const T = uint64(7)
	l, err := gpixel.TreeDepth(T)
	require.NoError(t, err)
	gs, err := gpixel.Setup([]byte("test_pixel"), l)
	require.NoError(t, err)

	msg := []byte("multisig message")
	const tp = uint64(1)

	var verkeys []gpixel.Verkey
	var sigs []*gpixel.Signature
	for i := 0; i < 2; i++ {
		kp, err := gpixel.GenerateKeypair(gs, rand.Reader)
		require.NoError(t, err)
		store := gpixel.NewInMemoryKeyStore(l)
		sm := gpixel.NewSigManager(gs, store, kp.Root)
		leaf, err := sm.GetKey(tp, rand.Reader)
		require.NoError(t, err)
		sig, err := gpixel.Sign(gs, leaf, tp, msg, rand.Reader)
		require.NoError(t, err)
		verkeys = append(verkeys, kp.Verkey)
		sigs = append(sigs, sig)
	}

	agg, err := gpixel.Aggregate(sigs...)
	require.NoError(t, err)

	ok, err := gpixel.VerifyAggregated(gs, verkeys[:1], agg, tp, msg)
	require.NoError(t, err)
	require.False(t, ok)
}
