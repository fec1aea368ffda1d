// Package residual implements the signed-to-unsigned zig-zag fold that
// turns a predictor residual into the non-negative value fed to the
// Golomb/Rice coder.
package residual

// Fold interprets the low width bits of diff as a two's complement signed
// integer and maps it to a non-negative "folded" residual: 2v for v >= 0,
// 2(-v)-1 for v < 0. Overflow modulo 2^32 is intentional.
//
// width must be in [1, 32]; callers validate this range ahead of time
// (see validate in the root platocmp package), Fold itself trusts it.
func Fold(diff int64, width uint) uint32 {
	mask := uint64(1)<<width - 1
	bits := uint64(diff) & mask

	signBit := uint64(1) << (width - 1)
	if bits&signBit == 0 {
		return uint32(2 * bits) //nolint:gosec // intentional mod-2^32 wraparound, see doc comment
	}

	signedVal := int64(bits) - int64(1<<width)
	folded := 2*uint64(-signedVal) - 1

	return uint32(folded) //nolint:gosec // intentional mod-2^32 wraparound
}
