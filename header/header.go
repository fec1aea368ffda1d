// Package header implements the fixed-size collection header codec that
// prefixes every multi-field sample layout's bitstream (spec section
// 4.7). The header's content is an opaque byte block (spec section 9,
// open question 2: no length fields or CRC are documented as required),
// so this package only knows how to size and copy it, the same shallow
// contract github.com/abema/go-mp4 gives its box headers: identify and
// move a tagged region without interpreting its payload.
package header

import "github.com/mycophonic/platocmp/perr"

// Size is the fixed collection-header length in bytes. The spec leaves
// this an open question beyond "a small opaque byte block"; see
// DESIGN.md for why 16 was chosen.
const Size = 16

// Bits is Size in bits: the initial value of the bit counter for every
// multi-field layout (spec section 4.7).
const Bits = Size * 8

// Copy copies the header verbatim from src into dst. Both must be at
// least Size bytes.
func Copy(dst, src []byte) error {
	if len(src) < Size {
		return perr.New(perr.SmallBuf, "header: source shorter than collection header")
	}

	if len(dst) < Size {
		return perr.New(perr.SmallBuf, "header: destination shorter than collection header")
	}

	copy(dst[:Size], src[:Size])

	return nil
}
