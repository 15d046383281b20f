package gpixel

import (
	"fmt"

	"github.com/gordian-engine/gpixel/internal/pixelgroup"
)

// NodeSecret is the secret material attached to one node of the time-period
// tree. A NodeSecret at depth d commits the d bits of its Path into D, and
// carries one helper BG element per not-yet-committed tree level plus a
// persistent message-blinding helper (MsgHelper) that survives all the way
// to the leaf; see DESIGN.md for the derivation this module implements and
// why it carries one more helper than spec.md's literal d_list length
// formula names.
type NodeSecret struct {
	Path Path

	C         pixelgroup.G2
	D         pixelgroup.G1
	MsgHelper pixelgroup.G1
	Future    []pixelgroup.G1 // Future[j] pairs with generator index Path.len()+1+j
}

// Depth returns the length of the committed path, i.e. how far from the
// root this NodeSecret sits.
func (ns *NodeSecret) Depth() uint64 { return uint64(len(ns.Path)) }

// IsLeaf reports whether ns addresses a leaf of a tree of depth l.
func (ns *NodeSecret) IsLeaf(l uint64) bool { return ns.Depth() == l }

// Clone returns a deep copy of ns.
func (ns *NodeSecret) Clone() *NodeSecret {
	out := &NodeSecret{
		Path:      ns.Path.Clone(),
		C:         ns.C,
		D:         ns.D,
		MsgHelper: ns.MsgHelper,
		Future:    make([]pixelgroup.G1, len(ns.Future)),
	}
	copy(out.Future, ns.Future)
	return out
}

// Zeroize overwrites ns's secret-bearing fields so that the backing memory
// no longer holds recoverable key material. It does not free ns itself;
// callers that pulled ns out of a KeyStore should drop their own reference
// after calling Zeroize.
func (ns *NodeSecret) Zeroize() {
	ns.D = pixelgroup.IdentityG1()
	ns.MsgHelper = pixelgroup.IdentityG1()
	ns.C = pixelgroup.IdentityG2()
	for i := range ns.Future {
		ns.Future[i] = pixelgroup.IdentityG1()
	}
	ns.Future = nil
	ns.Path = nil
}

// rootNodeSecret builds the depth-0 NodeSecret from the master secret x and
// a fresh setup randomizer r0. x is consumed by the caller (Keypair setup)
// and is not retained here.
func rootNodeSecret(gs *GeneratorSet, x, r0 pixelgroup.Scalar) *NodeSecret {
	ns := &NodeSecret{
		Path:      Path{},
		C:         gs.G2().ScalarMul(r0),
		D:         gs.H().ScalarMul(x),
		MsgHelper: gs.H0().ScalarMul(r0),
		Future:    make([]pixelgroup.G1, gs.L()),
	}
	for j := uint64(0); j < gs.L(); j++ {
		i := j + 1
		hi, _ := gs.Hi(i) // i ranges 1..l, always valid here
		ns.Future[j] = hi.ScalarMul(r0)
	}
	return ns
}

// Derive produces the child NodeSecret reached by appending bit to ns's
// path, consuming fresh randomizer r. bit must be Left or Right. It returns
// ErrInvalidPath if ns is already a leaf of gs's tree.
func (ns *NodeSecret) Derive(gs *GeneratorSet, bit byte, r pixelgroup.Scalar) (*NodeSecret, error) {
	if ns.Depth() >= gs.L() {
		return nil, fmt.Errorf("%w: cannot derive past leaf depth %d", ErrInvalidPath, gs.L())
	}
	if bit != Left && bit != Right {
		return nil, fmt.Errorf("%w: symbol %d", ErrInvalidPath, bit)
	}
	if len(ns.Future) == 0 {
		return nil, fmt.Errorf("%w: node secret has no remaining helpers", ErrInvalidPath)
	}

	i := ns.Depth() + 1
	hi, err := gs.Hi(i)
	if err != nil {
		return nil, err
	}
	ei := ns.Future[0]

	prefixFactor, err := gs.PathFactor(ns.Path)
	if err != nil {
		return nil, err
	}
	term := prefixFactor
	if bit == Right {
		term = term.Add(hi)
	}

	newD := ns.D
	if bit == Right {
		newD = newD.Add(ei)
	}
	newD = newD.Add(term.ScalarMul(r))

	child := &NodeSecret{
		Path:      append(ns.Path.Clone(), bit),
		C:         ns.C.Add(gs.G2().ScalarMul(r)),
		D:         newD,
		MsgHelper: ns.MsgHelper.Add(gs.H0().ScalarMul(r)),
		Future:    make([]pixelgroup.G1, len(ns.Future)-1),
	}
	for j := 1; j < len(ns.Future); j++ {
		genIdx := i + uint64(j)
		hj, err := gs.Hi(genIdx)
		if err != nil {
			return nil, err
		}
		child.Future[j-1] = ns.Future[j].Add(hj.ScalarMul(r))
	}
	return child, nil
}
