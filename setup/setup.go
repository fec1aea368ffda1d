// Package setup builds the per-field Encoder Setup bundle (spec section
// 4.5): given a field's (cmp_par, spill) pair and the Configuration's
// mode, it picks the codeword generator and escape policy and returns a
// ready-to-use escape.Policy.
package setup

import (
	"github.com/mycophonic/platocmp/escape"
	"github.com/mycophonic/platocmp/golomb"
	"github.com/mycophonic/platocmp/opmode"
	"github.com/mycophonic/platocmp/perr"
)

// Configure builds the Setup (here, an escape.Policy) for one field.
// cmpPar is the Golomb/Rice parameter, spill the per-field spillover
// threshold, and maxBits the field's declared width. The lossy shift
// round is not part of the Setup: the dispatcher applies it before
// folding the residual. mode picks the escape policy:
//
//	ModelZero | DiffZero   -> Zero-Escape
//	ModelMulti | DiffMulti -> Multi-Escape
//	Stuff                  -> None, with maxBits replaced by cmpPar
//	Raw                    -> rejected; the dispatcher bypasses Configure
func Configure(cmpPar, spill uint32, maxBits uint, mode opmode.Mode) (escape.Policy, error) {
	if mode == opmode.Raw {
		return escape.Policy{}, perr.New(perr.InvalidArg, "setup: Raw mode bypasses Configure")
	}

	if maxBits > 32 {
		return escape.Policy{}, perr.Newf(perr.InvalidArg, "setup: max_bits %d exceeds 32", maxBits)
	}

	if mode == opmode.Stuff {
		if cmpPar == 0 || cmpPar > 32 {
			return escape.Policy{}, perr.Newf(perr.InvalidArg, "setup: stuff cmp_par %d out of range", cmpPar)
		}

		return escape.Policy{Kind: escape.None, Width: uint(cmpPar)}, nil
	}

	if cmpPar == 0 {
		return escape.Policy{}, perr.New(perr.InvalidArg, "setup: cmp_par must be nonzero in non-Stuff modes")
	}

	var coder golomb.Coder
	if k, ok := golomb.Log2M(cmpPar); ok {
		coder = golomb.Rice{Log2M: k}
	} else {
		coder = golomb.Golomb{M: cmpPar}
	}

	var kind escape.Kind

	switch mode {
	case opmode.ModelZero, opmode.DiffZero:
		kind = escape.Zero
	case opmode.ModelMulti, opmode.DiffMulti:
		kind = escape.Multi
	default:
		return escape.Policy{}, perr.Newf(perr.InvalidArg, "setup: mode %s has no escape policy", mode)
	}

	return escape.Policy{Kind: kind, Coder: coder, Spill: spill, Width: maxBits}, nil
}

// MaxSpill returns the largest spill value valid for cmpPar, bounding the
// longest possible in-range codeword to 32 bits under the golomb
// package's truncated-binary construction: with b = ceil(log2 cmpPar),
// a value v's codeword never exceeds 32 bits so long as its quotient
// v/cmpPar <= 31-b, i.e. v <= (32-b)*cmpPar - 1 (see DESIGN.md for why
// this replaces spec.md's literal cutoff/g/r formula, which was derived
// from a Golomb branch-2 construction that does not satisfy the Rice
// equivalence invariant).
func MaxSpill(cmpPar uint32) uint32 {
	b := ceilLog2(cmpPar)

	return (32-b)*cmpPar - 1
}

func ceilLog2(m uint32) uint32 {
	if m <= 1 {
		return 0
	}

	n := uint32(0)
	for (uint32(1) << n) < m {
		n++
	}

	return n
}
