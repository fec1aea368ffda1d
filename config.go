// Package platocmp implements the PLATO-class ICU telemetry compressor:
// Golomb/Rice entropy coding with Zero-Escape and Multi-Escape outlier
// handling, a model updater, and a dispatcher across the closed set of
// instrument sample layouts.
package platocmp

import (
	"github.com/mycophonic/platocmp/layout"
	"github.com/mycophonic/platocmp/opmode"
)

// FieldSpec is one field or shared-setup group's per-call parameters
// (spec section 3): the Golomb/Rice parameter, the spillover threshold,
// and the declared bit width bounding both data and model values.
type FieldSpec struct {
	CmpPar uint32
	Spill  uint32
	Width  uint
}

// Config is the input contract described in spec section 3. All fields
// are POD; Compress consumes a Config read-only.
type Config struct {
	DataType layout.Tag
	Mode     opmode.Mode

	// ModelValue is the weight (0-16) given to the prior model sample in
	// the Model Updater; unused outside Model* modes.
	ModelValue uint

	// Round is the number of low-order bits discarded before encoding,
	// in [0,3] for this (ICU) target.
	Round uint

	// Fields maps each field or shared-setup group name (see
	// layout.Field) to its (cmp_par, spill, width) triple. Unused in Raw
	// mode.
	Fields map[string]FieldSpec

	Input        []byte
	Model        []byte // required when Mode.UsesModel()
	UpdatedModel []byte // optional; may alias Model for in-place update

	// Output is the destination bitstream buffer.
	Output []byte

	Samples int

	// BufferLength is the output buffer's capacity in samples. Compress
	// takes BufferLength times the layout's sample size, plus the
	// collection header for multi-field layouts, as the output capacity
	// in bytes.
	BufferLength int
}
