// Package opmode defines the six encoding modes a Configuration selects
// between (spec section 3): Raw bypasses entropy coding entirely; the
// Diff* modes predict from the previous sample; the Model* modes predict
// from an aligned model buffer; Stuff writes fixed-width raw bits.
package opmode

// Mode is one of the six supported encoding modes.
type Mode int

const (
	// Raw bypasses entropy coding: the input is copied verbatim (with
	// big-endian conversion of each field's natural width).
	Raw Mode = iota
	// DiffZero predicts from the previous sample (zero-initialized) and
	// uses Zero-Escape.
	DiffZero
	// DiffMulti predicts from the previous sample and uses Multi-Escape.
	DiffMulti
	// ModelZero predicts from the aligned model buffer and uses
	// Zero-Escape.
	ModelZero
	// ModelMulti predicts from the aligned model buffer and uses
	// Multi-Escape.
	ModelMulti
	// Stuff bypasses the entropy coder: cmp_par low bits of data are
	// written verbatim.
	Stuff
)

// String names a Mode for diagnostics.
func (m Mode) String() string {
	switch m {
	case Raw:
		return "Raw"
	case DiffZero:
		return "DiffZero"
	case DiffMulti:
		return "DiffMulti"
	case ModelZero:
		return "ModelZero"
	case ModelMulti:
		return "ModelMulti"
	case Stuff:
		return "Stuff"
	default:
		return "Unknown"
	}
}

// UsesModel reports whether the mode predicts from the model buffer
// rather than the previous data sample.
func (m Mode) UsesModel() bool {
	return m == ModelZero || m == ModelMulti
}

// IsDiff reports whether the mode predicts from the previous sample.
func (m Mode) IsDiff() bool {
	return m == DiffZero || m == DiffMulti
}
