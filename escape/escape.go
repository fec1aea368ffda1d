// Package escape implements the three per-field escape policies that sit
// between a folded residual and the bitstream: Zero-Escape, Multi-Escape,
// and None (Stuff mode, which bypasses the entropy coder entirely).
//
// Modeled as the tagged variant the design notes ask for (Escape in
// {Zero, Multi, None}) rather than the function-pointer table the source
// wires into each field's setup record.
package escape

import (
	"math/bits"

	"github.com/mycophonic/platocmp/bitpack"
	"github.com/mycophonic/platocmp/golomb"
	"github.com/mycophonic/platocmp/perr"
)

// Kind names the three escape policies.
type Kind int

const (
	// Zero reserves codeword 0 as the escape symbol.
	Zero Kind = iota
	// Multi uses a family of escape symbols spill, spill+1, ... that also
	// signal the raw payload's bit width.
	Multi
	// None is Stuff mode: the field bypasses the entropy coder and is
	// written as cmp_par raw bits of the original sample value.
	None
)

// Policy is a fully configured per-field encoder: an escape Kind paired
// with the Golomb/Rice coder and spill threshold it escapes around, plus
// the field's declared width (used both for the Zero-Escape raw payload
// and for Stuff mode's verbatim write).
type Policy struct {
	Kind  Kind
	Coder golomb.Coder
	Spill uint32
	Width uint
}

// Encode writes one field's codeword at bitOffset and returns the
// advanced offset.
//
// residual is the folded value used by Zero and Multi (Zero applies its
// +1 shift itself); raw is the unmodified sample value used by None. Callers
// pass whichever the configured Kind needs; the other is ignored.
func (p Policy) Encode(buf []byte, bufBits, bitOffset int, residual, raw uint32) (int, error) {
	switch p.Kind {
	case Zero:
		return p.encodeZero(buf, bufBits, bitOffset, residual)
	case Multi:
		return p.encodeMulti(buf, bufBits, bitOffset, residual)
	case None:
		return bitpack.PutBits(buf, bufBits, bitOffset, raw, p.Width)
	default:
		return 0, perr.Newf(perr.InvalidArg, "escape: unknown kind %d", p.Kind)
	}
}

// encodeZero implements the Zero-Escape policy from spec section 4.4.
// v is the folded residual; the +1 shift is applied on both the in-range
// and escape paths.
func (p Policy) encodeZero(buf []byte, bufBits, bitOffset int, v uint32) (int, error) {
	if p.Spill == 0 {
		return 0, perr.New(perr.InvalidArg, "escape: zero-escape requires spill >= 1")
	}

	if v < p.Spill-1 {
		code := p.Coder.Encode(v + 1)

		return bitpack.PutBits(buf, bufBits, bitOffset, code.Value, code.Length)
	}

	zero := p.Coder.Encode(0)

	next, err := bitpack.PutBits(buf, bufBits, bitOffset, zero.Value, zero.Length)
	if err != nil {
		return 0, err
	}

	return bitpack.PutBits(buf, bufBits, next, v+1, p.Width)
}

// encodeMulti implements the Multi-Escape policy from spec section 4.4.
func (p Policy) encodeMulti(buf []byte, bufBits, bitOffset int, v uint32) (int, error) {
	if v < p.Spill {
		code := p.Coder.Encode(v)

		return bitpack.PutBits(buf, bufBits, bitOffset, code.Value, code.Length)
	}

	u := v - p.Spill
	wPrime := multiEscapeWidth(u)
	escapeSym := p.Spill + uint32(wPrime)/2 - 1

	code := p.Coder.Encode(escapeSym)

	next, err := bitpack.PutBits(buf, bufBits, bitOffset, code.Value, code.Length)
	if err != nil {
		return 0, err
	}

	return bitpack.PutBits(buf, bufBits, next, u, wPrime)
}

// multiEscapeWidth returns the unique w' in {2,4,6,...,32} such that
// u < 2^w' and w' is minimal, per spec section 4.4: w' = 2*(floor(log2
// u)/2 + 1), with w' = 2 when u == 0.
func multiEscapeWidth(u uint32) uint {
	if u == 0 {
		return 2
	}

	floorLog2 := uint(bits.Len32(u) - 1)

	return 2 * (floorLog2/2 + 1)
}
