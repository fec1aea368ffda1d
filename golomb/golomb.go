// Package golomb implements the two codeword generators: Rice (the
// power-of-two specialization, shift-only) and Golomb (the general
// case, truncated binary remainder coding).
//
// Ported in spirit from the adaptive Golomb-Rice decoder in
// github.com/mycophonic/saprobe-alac (alac/golomb.go, itself a Go port of
// Apple's ag_dec.c / aglib.h) — that code walks codewords apart; this
// package builds them, using the same vocabulary (cmp_par as m, the
// unary-ones-then-terminator-zero prefix, a binary remainder payload).
package golomb

import "math/bits"

// Code is a built codeword: its low Length bits (MSB first within that
// window) are what bitpack.PutBits should write.
type Code struct {
	Value  uint32
	Length uint
}

// Coder produces a Code for a non-negative integer under a fixed Golomb
// or Rice parameter.
type Coder interface {
	Encode(v uint32) Code
}

// Log2M returns k such that m == 1<<k, and ok == true, when m is a
// positive power of two. The caller uses this to pick Rice over Golomb
// per spec section 4.5 ("Rice iff cmp_par is a positive power of two").
func Log2M(m uint32) (k uint, ok bool) {
	if m == 0 || m&(m-1) != 0 {
		return 0, false
	}

	return uint(bits.TrailingZeros32(m)), true
}

// Rice implements the m = 2^log2m codeword: q = v>>log2m ones, a
// terminating zero, then log2m bits of remainder r = v & (m-1).
// Length is q + 1 + log2m.
type Rice struct {
	Log2M uint
}

func (r Rice) Encode(v uint32) Code {
	m := uint32(1) << r.Log2M
	q := v >> r.Log2M
	rem := v & (m - 1)

	length := uint(q) + 1 + r.Log2M
	value := ones(q)<<(r.Log2M+1) | rem

	return Code{Value: value, Length: length}
}

// Golomb implements the general-m codeword using truncated binary
// remainder coding (Golomb 1966 / Rice 1979): q = v/m, r = v%m, b =
// ceil(log2 m), t = 2^b - m. If r < t, the remainder is written in b-1
// bits; otherwise r+t is written in b bits. A unary run of q ones
// followed by a terminating zero always precedes the remainder.
//
// This construction is bit-for-bit identical to Rice whenever m is a
// power of two (t degenerates to 0, so the "short" branch never fires
// and every codeword reduces to the Rice form) — see DESIGN.md for why
// this exact construction was chosen over spec.md section 4.3's prose,
// which does not resolve to a code meeting that equivalence at the
// branch boundary.
type Golomb struct {
	M uint32
}

func (g Golomb) Encode(v uint32) Code {
	m := g.M
	b := ceilLog2(m)
	t := (uint32(1) << b) - m

	q := v / m
	r := v % m

	if r < t {
		length := uint(q) + 1 + (b - 1)
		value := ones(q)<<b | r

		return Code{Value: value, Length: length}
	}

	length := uint(q) + 1 + b
	payload := r + t
	value := ones(q)<<(b+1) | payload

	return Code{Value: value, Length: length}
}

// ones returns the n-bit value of all ones (0 for n == 0).
func ones(n uint32) uint32 {
	if n == 0 {
		return 0
	}

	return (uint32(1) << n) - 1
}

// ceilLog2 returns ceil(log2(m)) for m >= 1.
func ceilLog2(m uint32) uint {
	if m <= 1 {
		return 0
	}

	return uint(bits.Len32(m - 1))
}
