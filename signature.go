package gpixel

import (
	"fmt"
	"io"

	"github.com/gordian-engine/gpixel/internal/pixelgroup"
)

// Signature is a Pixel signature: (sigma1, sigma2) in BG x VG.
type Signature struct {
	Sigma1 pixelgroup.G1
	Sigma2 pixelgroup.G2
}

// Sign produces a non-deterministic signature over msg for time period t,
// using leaf (the NodeSecret for t, as returned by SigManager.GetKey) and
// a fresh random scalar drawn from rng.
func Sign(gs *GeneratorSet, leaf *NodeSecret, t uint64, msg []byte, rng io.Reader) (*Signature, error) {
	r, err := pixelgroup.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	return signWith(gs, leaf, t, msg, r)
}

// SignDeterministic produces a signature using a nonce derived from msg,
// leaf's own secret bytes, and t, so repeated calls with the same key and
// message produce the same signature. This mirrors the original
// implementation's gen_sig_rand nonce construction.
func SignDeterministic(gs *GeneratorSet, leaf *NodeSecret, t uint64, msg []byte) (*Signature, error) {
	nonceInput := append(append([]byte{}, msg...), leaf.D.Compress()...)
	nonceInput = append(nonceInput, leaf.MsgHelper.Compress()...)
	nonceInput = append(nonceInput, leaf.C.Compress()...)
	nonceInput = append(nonceInput, uint64ToLEBytes(t)...)
	r := pixelgroup.HashToScalar(nonceInput)
	return signWith(gs, leaf, t, msg, r)
}

func signWith(gs *GeneratorSet, leaf *NodeSecret, t uint64, msg []byte, r pixelgroup.Scalar) (*Signature, error) {
	if leaf.Depth() != gs.L() {
		return nil, fmt.Errorf("%w: signing key is not a leaf (depth %d, want %d)", ErrInvalidPath, leaf.Depth(), gs.L())
	}
	path, err := PathOf(t, gs.L())
	if err != nil {
		return nil, err
	}
	if !leaf.Path.Equal(path) {
		return nil, fmt.Errorf("%w: signing key path does not match t=%d", ErrInvalidPath, t)
	}

	pf, err := gs.PathFactor(path)
	if err != nil {
		return nil, err
	}
	mu := pixelgroup.HashToScalar(msg)
	a := pf.Add(gs.H0().ScalarMul(mu))

	sigma2 := leaf.C.Add(gs.G2().ScalarMul(r))
	sigma1 := leaf.D.Add(leaf.MsgHelper.ScalarMul(mu)).Add(a.ScalarMul(r))

	return &Signature{Sigma1: sigma1, Sigma2: sigma2}, nil
}

// Verify checks sig against msg, t, gs and the signer's Verkey. It returns
// a plain bool per spec.md §7; badPointDiagnostic names the reason a
// malformed signature is rejected, but Verify does not report it.
func Verify(gs *GeneratorSet, vk Verkey, sig *Signature, t uint64, msg []byte) (bool, error) {
	path, err := PathOf(t, gs.L())
	if err != nil {
		return false, err
	}
	if bad, _ := badPointDiagnostic(sig); bad {
		return false, nil
	}

	pf, err := gs.PathFactor(path)
	if err != nil {
		return false, err
	}
	mu := pixelgroup.HashToScalar(msg)
	a := pf.Add(gs.H0().ScalarMul(mu))

	return pixelgroup.VerifyEquation(sig.Sigma1, gs.G2(), gs.H(), vk.Y, a, sig.Sigma2), nil
}

// badPointDiagnostic reports whether sig contains an identity element or a
// point outside the prime-order subgroup, and names which component failed.
// It mirrors the original implementation's is_identity/has_correct_order
// checks; Verify is its only caller and folds it into its plain bool result,
// discarding the reason.
func badPointDiagnostic(sig *Signature) (bad bool, reason string) {
	switch {
	case sig.Sigma1.IsIdentity():
		return true, "sigma1 is identity"
	case sig.Sigma2.IsIdentity():
		return true, "sigma2 is identity"
	case !sig.Sigma1.InSubgroup():
		return true, "sigma1 outside prime-order subgroup"
	case !sig.Sigma2.InSubgroup():
		return true, "sigma2 outside prime-order subgroup"
	default:
		return false, ""
	}
}

// Aggregate sums any number of signatures component-wise. The caller is
// responsible for tracking which (t, msg, Verkey) triple each input
// signature belongs to; VerifyAggregated below handles the common case of
// many signers over the same (t, msg).
func Aggregate(sigs ...*Signature) (*Signature, error) {
	if len(sigs) == 0 {
		return nil, fmt.Errorf("%w: no signatures to aggregate", ErrInvalidPath)
	}
	agg := &Signature{
		Sigma1: sigs[0].Sigma1,
		Sigma2: sigs[0].Sigma2,
	}
	for _, s := range sigs[1:] {
		agg.Sigma1 = agg.Sigma1.Add(s.Sigma1)
		agg.Sigma2 = agg.Sigma2.Add(s.Sigma2)
	}
	return agg, nil
}

// VerifyAggregated verifies an aggregate signature produced by Aggregate
// over signers who all signed the same (t, msg), checking it against the
// sum of their Verkeys. This mirrors the original implementation's
// Signature::verify_aggregated convenience wrapper.
func VerifyAggregated(gs *GeneratorSet, verkeys []Verkey, sig *Signature, t uint64, msg []byte) (bool, error) {
	if len(verkeys) == 0 {
		return false, fmt.Errorf("%w: no verkeys given", ErrInvalidPath)
	}
	agg := verkeys[0]
	if len(verkeys) > 1 {
		agg = agg.Aggregate(verkeys[1:]...)
	}
	return Verify(gs, agg, sig, t, msg)
}

func uint64ToLEBytes(x uint64) []byte {
	out := make([]byte, 8)
	for i := 0; i < 8; i++ {
		out[i] = byte(x)
		x >>= 8
	}
	return out
}
