// Package finalize implements the end-of-stream pass described in spec
// section 4.8: pad the bitstream to a 32-bit boundary, then convert the
// whole payload from the packer's internal word storage to big-endian
// wire format in one sweep (the design note in spec section 9 is
// explicit that this must not be done per-write).
package finalize

import (
	"github.com/mycophonic/platocmp/bitpack"
	"github.com/mycophonic/platocmp/perr"
)

// Finalize pads bitsWritten up to the next 32-bit boundary and then
// byte-swaps every 32-bit word of buf from bitpack's internal storage
// order to big-endian, skipping the first headerBytes bytes (the
// collection header, already in its serialized form). Callers in Raw
// mode do not call Finalize at all: Raw bypasses the entropy coder and
// the bit packer entirely, and is finalized instead by SwapFieldWidth
// (spec section 4.8: "For Raw the content is interpreted in
// field-natural widths").
//
// It returns bitsWritten unchanged: per spec section 6, the Result is
// the pre-pad bit length, padding is written but not counted.
func Finalize(buf []byte, bufBits int, bitsWritten int, headerBytes int) (int, error) {
	if bitsWritten%32 != 0 {
		pad := 32 - bitsWritten%32

		if _, err := bitpack.PutBits(buf, bufBits, bitsWritten, 0, uint(pad)); err != nil { //nolint:gosec // pad in [1,31]
			return 0, perr.New(perr.SmallBuf, "finalize: cannot pad to 32-bit boundary")
		}
	}

	swapWords(buf, headerBytes, 4)

	return bitsWritten, nil
}

// SwapFieldWidth converts a Raw-mode buffer to big-endian in units of
// fieldBytes (e.g. 2 for 16-bit imagette samples) rather than fixed
// 32-bit words, per spec section 4.8's Raw-mode exception. No padding is
// added: Raw mode has none.
func SwapFieldWidth(buf []byte, fieldBytes int) {
	swapWords(buf, 0, fieldBytes)
}

// swapWords reverses each fieldBytes-sized group in buf[from:] in place.
// Any trailing partial group is left untouched.
func swapWords(buf []byte, from, fieldBytes int) {
	n := len(buf)
	for i := from; i+fieldBytes <= n; i += fieldBytes {
		lo, hi := i, i+fieldBytes-1
		for lo < hi {
			buf[lo], buf[hi] = buf[hi], buf[lo]
			lo++
			hi--
		}
	}
}
