// Package pixelgroup wraps the supranational/blst BLS12-381 bindings behind
// the narrow surface this scheme actually needs: a scalar field, two
// additive groups (BG over G1, VG over G2), hash-to-curve generator
// derivation, and the custom three-term multi-pairing check the scheme's
// verification equation requires. Higher-level packages never touch blst
// types directly.
package pixelgroup

import (
	"crypto/sha256"
	"math/big"

	blst "github.com/supranational/blst/bindings/go"
)

// scalarOrder is the BLS12-381 scalar field modulus r.
var scalarOrder, _ = new(big.Int).SetString(
	"73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001", 16)

// Scalar is an element of F, the scalar field shared by BG and VG.
type Scalar struct {
	v *big.Int
}

// NewScalarFromBigInt reduces x modulo the field order.
func NewScalarFromBigInt(x *big.Int) Scalar {
	v := new(big.Int).Mod(x, scalarOrder)
	return Scalar{v: v}
}

// ZeroScalar is the additive identity of F.
func ZeroScalar() Scalar { return Scalar{v: big.NewInt(0)} }

// RandomScalar draws a uniform element of F using the given CSPRNG.
func RandomScalar(rng interface{ Read([]byte) (int, error) }) (Scalar, error) {
	buf := make([]byte, 48) // extra bytes over the 32-byte field size for near-uniform reduction
	if _, err := rng.Read(buf); err != nil {
		return Scalar{}, err
	}
	v := new(big.Int).SetBytes(buf)
	v.Mod(v, scalarOrder)
	return Scalar{v: v}, nil
}

// HashToScalar implements this module's documented-weak, non-RFC9380
// message hash: SHA-256 over msg, expanded to 48 bytes via a counter and
// reduced mod the field order. This mirrors the original implementation's
// FieldElement::from_msg_hash, which is not a proper hash-to-field
// construction; it is kept only to preserve the shape of the original
// scheme's message binding, not for its own security margin.
func HashToScalar(msg []byte) Scalar {
	var buf []byte
	for ctr := byte(0); len(buf) < 48; ctr++ {
		h := sha256.Sum256(append([]byte{ctr}, msg...))
		buf = append(buf, h[:]...)
	}
	v := new(big.Int).SetBytes(buf[:48])
	v.Mod(v, scalarOrder)
	return Scalar{v: v}
}

// Add returns a + b mod r.
func (a Scalar) Add(b Scalar) Scalar {
	v := new(big.Int).Add(a.v, b.v)
	v.Mod(v, scalarOrder)
	return Scalar{v: v}
}

// Mul returns a * b mod r.
func (a Scalar) Mul(b Scalar) Scalar {
	v := new(big.Int).Mul(a.v, b.v)
	v.Mod(v, scalarOrder)
	return Scalar{v: v}
}

// IsZero reports whether a is the additive identity.
func (a Scalar) IsZero() bool { return a.v.Sign() == 0 }

// BEBytes serializes a as 32 big-endian bytes, the form blst.Scalar.FromBEndian expects.
func (a Scalar) BEBytes() []byte {
	out := make([]byte, 32)
	b := a.v.Bytes()
	copy(out[32-len(b):], b)
	return out
}

// toBlst converts a to blst's native scalar representation for use in
// point multiplication.
func (a Scalar) toBlst() *blst.Scalar {
	s := new(blst.Scalar)
	s.FromBEndian(a.BEBytes())
	return s
}
