package pixelgroup

import (
	blst "github.com/supranational/blst/bindings/go"
)

// G1 is an element of BG, the signature group.
type G1 struct {
	p blst.P1Affine
}

// G2 is an element of VG, the verification group.
type G2 struct {
	p blst.P2Affine
}

// IdentityG1 is the additive identity of BG.
func IdentityG1() G1 { return G1{} }

// IdentityG2 is the additive identity of VG.
func IdentityG2() G2 { return G2{} }

// Add returns a + b in BG, using the same Jacobian accumulate-then-affine
// pattern as this codebase's existing blst-backed aggregation code.
func (a G1) Add(b G1) G1 {
	j := new(blst.P1).FromAffine(&a.p)
	j = j.Add(&b.p)
	return G1{p: *j.ToAffine()}
}

// Add returns a + b in VG.
func (a G2) Add(b G2) G2 {
	j := new(blst.P2).FromAffine(&a.p)
	j = j.Add(&b.p)
	return G2{p: *j.ToAffine()}
}

// ScalarMul returns s*a in BG.
func (a G1) ScalarMul(s Scalar) G1 {
	j := new(blst.P1).FromAffine(&a.p)
	j = j.Mult(s.toBlst())
	return G1{p: *j.ToAffine()}
}

// ScalarMul returns s*a in VG.
func (a G2) ScalarMul(s Scalar) G2 {
	j := new(blst.P2).FromAffine(&a.p)
	j = j.Mult(s.toBlst())
	return G2{p: *j.ToAffine()}
}

// IsIdentity reports whether a is the identity element of BG.
func (a G1) IsIdentity() bool { return a.p.Is_inf() }

// IsIdentity reports whether a is the identity element of VG.
func (a G2) IsIdentity() bool { return a.p.Is_inf() }

// InSubgroup reports whether a lies in the prime-order subgroup, rejecting
// small-subgroup / malformed points before they reach a pairing check.
func (a G1) InSubgroup() bool { return a.p.SigValidate(false) }

// InSubgroup reports whether a lies in the prime-order subgroup.
func (a G2) InSubgroup() bool { return a.p.SigValidate(false) }

// Equal reports whether a and b encode the same point.
func (a G1) Equal(b G1) bool { return a.p.Equals(&b.p) }

// Equal reports whether a and b encode the same point.
func (a G2) Equal(b G2) bool { return a.p.Equals(&b.p) }

// Compress serializes a in BG's compressed encoding.
func (a G1) Compress() []byte { return a.p.Compress() }

// Compress serializes a in VG's compressed encoding.
func (a G2) Compress() []byte { return a.p.Compress() }

// UncompressG1 parses a compressed BG point.
func UncompressG1(b []byte) (G1, bool) {
	p := new(blst.P1Affine).Uncompress(b)
	if p == nil {
		return G1{}, false
	}
	return G1{p: *p}, true
}

// UncompressG2 parses a compressed VG point.
func UncompressG2(b []byte) (G2, bool) {
	p := new(blst.P2Affine).Uncompress(b)
	if p == nil {
		return G2{}, false
	}
	return G2{p: *p}, true
}

// HashToG1 derives a domain-separated BG generator from tag and an index,
// following the draft-irtf-cfrg-bls-signature hash-to-curve convention used
// elsewhere in this codebase for deterministic parameter generation.
func HashToG1(dst []byte, msg []byte) G1 {
	p := blst.HashToG1(msg, dst)
	return G1{p: *p.ToAffine()}
}

// HashToG2 derives a domain-separated VG generator.
func HashToG2(dst []byte, msg []byte) G2 {
	p := blst.HashToG2(msg, dst)
	return G2{p: *p.ToAffine()}
}

// VerifyEquation checks the scheme's three-term pairing identity:
//
//	e(sigma1, g2) == e(h, y) * e(A, sigma2)
//
// blst's high-level Verify/AggregateVerify helpers only implement the
// standard single- or aggregate-message BLS equations, not this scheme's
// custom right-hand side, so the check is built directly from Miller loops
// and a single final exponentiation comparison, combining the two
// right-hand pairings before the finalVerify step the way a multi-pairing
// check normally batches its terms.
func VerifyEquation(sigma1 G1, g2 G2, h G1, y G2, a G1, sigma2 G2) bool {
	left := blst.Fp12MillerLoop(&g2.p, &sigma1.p)
	r1 := blst.Fp12MillerLoop(&y.p, &h.p)
	r2 := blst.Fp12MillerLoop(&sigma2.p, &a.p)
	right := r1.Mul(r2)
	return left.FinalVerify(right)
}
