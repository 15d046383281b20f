package gpixel

import (
	"fmt"

	"github.com/gordian-engine/gpixel/internal/pixelgroup"
)

// domainSeparationSuffix is appended to the caller-supplied tag to form the
// hash-to-curve domain separation tag, following the ciphersuite-naming convention this
// codebase's BLS signer uses for its own domain separation string.
const domainSeparationSuffix = "_GPIXEL_BG_XMD:SHA-256_SSWU_RO_"

// GeneratorSet holds the public parameters shared by every signer and
// verifier for a given (tag, l) pair: one VG generator g2, and l+2 BG
// generators h, h0, h1, ..., hl.
//
// GeneratorSet is derived purely by hash-to-curve from tag and l, so two
// calls to Setup with the same arguments produce byte-identical output and
// calls with different tags are independent of one another.
type GeneratorSet struct {
	tag []byte
	l   uint64

	g2 pixelgroup.G2
	h  pixelgroup.G1
	hs []pixelgroup.G1 // hs[i] == h_i, for i in [0, l]
}

// Setup derives the public parameters for a tree of depth l under the given
// domain tag.
func Setup(tag []byte, l uint64) (*GeneratorSet, error) {
	dst := append(append([]byte{}, tag...), []byte(domainSeparationSuffix)...)

	gs := &GeneratorSet{
		tag: append([]byte{}, tag...),
		l:   l,
		g2:  pixelgroup.HashToG2(dst, []byte("g2")),
		h:   pixelgroup.HashToG1(dst, []byte("h")),
		hs:  make([]pixelgroup.G1, l+1),
	}
	for i := uint64(0); i <= l; i++ {
		gs.hs[i] = pixelgroup.HashToG1(dst, []byte(fmt.Sprintf("h%d", i)))
	}
	return gs, nil
}

// L returns the tree depth these generators were derived for.
func (gs *GeneratorSet) L() uint64 { return gs.l }

// H0 returns the dedicated message-blinding generator, h_0.
func (gs *GeneratorSet) H0() pixelgroup.G1 { return gs.hs[0] }

// Hi returns h_i for i in [1, l]. It returns ErrNotEnoughGenerators if i is
// out of range for this generator set's depth.
func (gs *GeneratorSet) Hi(i uint64) (pixelgroup.G1, error) {
	if i < 1 || i > gs.l {
		return pixelgroup.G1{}, fmt.Errorf("%w: index %d exceeds depth %d", ErrNotEnoughGenerators, i, gs.l)
	}
	return gs.hs[i], nil
}

// H returns the constant generator h.
func (gs *GeneratorSet) H() pixelgroup.G1 { return gs.h }

// G2 returns the VG generator g2.
func (gs *GeneratorSet) G2() pixelgroup.G2 { return gs.g2 }

// PathFactor computes pf(path) = sum_i b_i * h_i over the bits of path,
// where a Left symbol contributes 0 and a Right symbol contributes h_i.
// Signer and verifier call this identically; it never touches secret
// material.
func (gs *GeneratorSet) PathFactor(path Path) (pixelgroup.G1, error) {
	if uint64(len(path)) > gs.l {
		return pixelgroup.G1{}, fmt.Errorf("%w: path longer than depth %d", ErrInvalidPath, gs.l)
	}
	acc := pixelgroup.IdentityG1()
	for idx, sym := range path {
		i := uint64(idx) + 1
		hi, err := gs.Hi(i)
		if err != nil {
			return pixelgroup.G1{}, err
		}
		switch sym {
		case Left:
			// contributes the identity; nothing to add
		case Right:
			acc = acc.Add(hi)
		default:
			return pixelgroup.G1{}, fmt.Errorf("%w: symbol %d at index %d", ErrInvalidPath, sym, idx)
		}
	}
	return acc, nil
}
