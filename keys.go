package gpixel

import (
	"io"

	"github.com/gordian-engine/gpixel/internal/pixelgroup"
)

// Verkey is the public key y = x*g2, where x is the master secret sampled
// once at setup and discarded.
type Verkey struct {
	Y pixelgroup.G2
}

// Equal reports whether two verification keys encode the same point.
func (v Verkey) Equal(other Verkey) bool { return v.Y.Equal(other.Y) }

// Aggregate sums a slice of verification keys into one, mirroring the
// additive aggregation the scheme performs on signatures themselves. An
// aggregate of signatures by distinct keypairs on the same (t, msg)
// verifies against the matching aggregate of their Verkeys.
func (v Verkey) Aggregate(others ...Verkey) Verkey {
	acc := v.Y
	for _, o := range others {
		acc = acc.Add(o.Y)
	}
	return Verkey{Y: acc}
}

// Keypair is the result of GenerateKeypair: a public Verkey and the root NodeSecret
// of the time-period tree. The master secret x used to build the root
// NodeSecret is never retained past this call.
type Keypair struct {
	Verkey Verkey
	Root   *NodeSecret
}

// GenerateKeypair samples a master secret x and a root-level randomizer,
// then builds the root NodeSecret and its matching Verkey. The reference to
// x is dropped before this function returns; the memory backing x is not
// overwritten.
func GenerateKeypair(gs *GeneratorSet, rng io.Reader) (*Keypair, error) {
	x, err := pixelgroup.RandomScalar(rng)
	if err != nil {
		return nil, err
	}
	r0, err := pixelgroup.RandomScalar(rng)
	if err != nil {
		return nil, err
	}

	y := gs.G2().ScalarMul(x)
	root := rootNodeSecret(gs, x, r0)

	// x lived only in this stack frame as a pixelgroup.Scalar; drop the
	// only reference to it now that D has been derived from it.
	x = pixelgroup.Scalar{}

	return &Keypair{
		Verkey: Verkey{Y: y},
		Root:   root,
	}, nil
}
