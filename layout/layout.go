// Package layout implements the per-sample-layout field dispatcher (spec
// section 4.7): for each of the closed set of sample layouts, it encodes
// every sample's fields in the layout's fixed order, sourcing each
// field's predictor from the previous sample (Diff* modes) or the
// aligned model buffer (Model* modes), and advances explicit byte/bit
// offsets instead of the source's void** buffer-advancing scheme (see
// DESIGN.md, itself grounded on the element-dispatch switch in
// alac/decoder.go and the numActive-specialized functions in
// alac/predictor.go, inverted from decode to encode).
package layout

import (
	"encoding/binary"

	"github.com/mycophonic/platocmp/escape"
	"github.com/mycophonic/platocmp/header"
	"github.com/mycophonic/platocmp/model"
	"github.com/mycophonic/platocmp/opmode"
	"github.com/mycophonic/platocmp/perr"
	"github.com/mycophonic/platocmp/residual"
)

// Tag names one of the closed set of sample layouts.
type Tag int

const (
	Imagette Tag = iota
	SFX
	SFXEFX
	SFXNCOB
	SFXEFXNCOBECOB
	FFX
	FFXEFX
	FFXNCOB
	FFXEFXNCOBECOB
	LFX
	LFXEFX
	LFXNCOB
	LFXEFXNCOBECOB
	OffsetLayout
	Background
	Smearing
)

// Field describes one field in a layout's fixed encoding order. Group
// names the shared-setup key: fields that share one Encoder Setup (e.g.
// ncob_x/ncob_y) carry the same Group, and callers need only supply one
// escape.Policy and one width per Group rather than per Field.
type Field struct {
	Name  string
	Group string
	Is32  bool
}

// Def is a layout's field list, in encoding order.
type Def struct {
	Tag    Tag
	Fields []Field
}

// HasHeader reports whether d's layout is preceded by a collection
// header. Per spec section 4.7 this applies to every multi-field layout;
// single-field layouts (Imagette) have none.
func (d Def) HasHeader() bool {
	return len(d.Fields) > 1
}

// Defs is the closed table of sample layouts from spec section 4.7.
var Defs = map[Tag]Def{
	Imagette: {Imagette, []Field{{Name: "imagette"}}},
	SFX:      {SFX, []Field{{Name: "exp_flags"}, {Name: "fx"}}},
	SFXEFX:   {SFXEFX, []Field{{Name: "exp_flags"}, {Name: "fx"}, {Name: "efx"}}},
	SFXNCOB: {SFXNCOB, []Field{
		{Name: "exp_flags"}, {Name: "fx"},
		{Name: "ncob_x", Group: "ncob"}, {Name: "ncob_y", Group: "ncob"},
	}},
	SFXEFXNCOBECOB: {SFXEFXNCOBECOB, []Field{
		{Name: "exp_flags"}, {Name: "fx"},
		{Name: "ncob_x", Group: "ncob"}, {Name: "ncob_y", Group: "ncob"},
		{Name: "efx"},
		{Name: "ecob_x", Group: "ecob"}, {Name: "ecob_y", Group: "ecob"},
	}},
	FFX:    {FFX, []Field{{Name: "fx"}}},
	FFXEFX: {FFXEFX, []Field{{Name: "fx"}, {Name: "efx"}}},
	FFXNCOB: {FFXNCOB, []Field{
		{Name: "fx"},
		{Name: "ncob_x", Group: "ncob"}, {Name: "ncob_y", Group: "ncob"},
	}},
	FFXEFXNCOBECOB: {FFXEFXNCOBECOB, []Field{
		{Name: "fx"},
		{Name: "ncob_x", Group: "ncob"}, {Name: "ncob_y", Group: "ncob"},
		{Name: "efx"},
		{Name: "ecob_x", Group: "ecob"}, {Name: "ecob_y", Group: "ecob"},
	}},
	LFX: {LFX, []Field{
		{Name: "exp_flags", Is32: true}, {Name: "fx"}, {Name: "fx_variance"},
	}},
	LFXEFX: {LFXEFX, []Field{
		{Name: "exp_flags", Is32: true}, {Name: "fx"}, {Name: "efx"}, {Name: "fx_variance"},
	}},
	LFXNCOB: {LFXNCOB, []Field{
		{Name: "exp_flags", Is32: true}, {Name: "fx"},
		{Name: "ncob_x", Group: "ncob"}, {Name: "ncob_y", Group: "ncob"},
		{Name: "fx_variance"},
		{Name: "cob_x_variance", Group: "cob_variance"}, {Name: "cob_y_variance", Group: "cob_variance"},
	}},
	LFXEFXNCOBECOB: {LFXEFXNCOBECOB, []Field{
		{Name: "exp_flags", Is32: true}, {Name: "fx"},
		{Name: "ncob_x", Group: "ncob"}, {Name: "ncob_y", Group: "ncob"},
		{Name: "efx"},
		{Name: "ecob_x", Group: "ecob"}, {Name: "ecob_y", Group: "ecob"},
		{Name: "fx_variance"},
		{Name: "cob_x_variance", Group: "cob_variance"}, {Name: "cob_y_variance", Group: "cob_variance"},
	}},
	OffsetLayout: {OffsetLayout, []Field{{Name: "mean"}, {Name: "variance"}}},
	Background:   {Background, []Field{{Name: "mean"}, {Name: "variance"}, {Name: "outlier_pixels"}}},
	Smearing:     {Smearing, []Field{{Name: "mean"}, {Name: "variance_mean"}, {Name: "outlier_pixels"}}},
}

// setupKey returns the map key callers index Input.Params by: a field's
// Group if it shares one, else its own Name.
func (f Field) setupKey() string {
	if f.Group != "" {
		return f.Group
	}

	return f.Name
}

// FieldParams bundles everything Encode needs for one setup group: the
// escape policy (unused fields for Raw/Stuff-only setups may be zero),
// and the declared bit width used for the HighValue check and for
// Zero-Escape's raw payload width.
type FieldParams struct {
	Policy escape.Policy
	Width  uint
}

// Input bundles the per-call parameters Encode needs beyond the layout
// Def itself.
type Input struct {
	Mode       opmode.Mode
	ModelValue uint
	Round      uint
	Samples    int

	// Params maps each field's setup key (Field.setupKey()) to its
	// policy and width.
	Params map[string]FieldParams

	Data       []byte // input buffer, little-endian uint32 slots per field per sample
	ModelIn    []byte // optional; required for Model* modes
	ModelOut   []byte // optional; written for Model* modes
	Output     []byte
	OutputBits int
}

// Encode dispatches def's fields across in.Samples samples and returns
// the pre-pad bit length of the compressed stream (which includes the
// collection header's bits, per spec section 4.7: "the header's length
// in bits is the initial value of the bit counter").
func Encode(def Def, in Input) (int, error) {
	if in.Samples == 0 {
		return 0, nil
	}

	headerBits := 0
	if def.HasHeader() {
		headerBits = header.Bits

		if err := copyHeader(in.Data, in.Output, in.ModelOut); err != nil {
			return 0, err
		}
	}

	bitOffset := headerBits
	fieldCount := len(def.Fields)
	dataBase := headerBits / 8

	prev := make(map[string]uint32, fieldCount)

	for s := 0; s < in.Samples; s++ {
		for fi, f := range def.Fields {
			key := f.setupKey()

			params, ok := in.Params[key]
			if !ok {
				return 0, perr.Newf(perr.InvalidArg, "layout: no params for field %q", key)
			}

			idx := s*fieldCount + fi

			data, err := readField(in.Data, dataBase, idx, f.Is32)
			if err != nil {
				return 0, err
			}

			if err := checkWidth(data, params.Width); err != nil {
				return 0, err
			}

			var predictor uint32

			var modelValue uint32

			var haveModelValue bool

			switch {
			case in.Mode.UsesModel():
				mv, err := readField(in.ModelIn, dataBase, idx, f.Is32)
				if err != nil {
					return 0, err
				}

				if err := checkWidth(mv, params.Width); err != nil {
					return 0, err
				}

				predictor = mv
				modelValue = mv
				haveModelValue = true
			case in.Mode.IsDiff():
				predictor = prev[key]
			}

			diff := int64(data>>in.Round) - int64(predictor>>in.Round)
			foldedResidual := residual.Fold(diff, params.Width)

			next, err := params.Policy.Encode(in.Output, in.OutputBits, bitOffset, foldedResidual, data)
			if err != nil {
				return 0, err
			}

			bitOffset = next
			prev[key] = data

			if haveModelValue && in.ModelOut != nil {
				var updated uint32
				if f.Is32 {
					updated = model.Update32(data, modelValue, in.ModelValue, in.Round)
				} else {
					updated = uint32(model.Update16(uint16(data), uint16(modelValue), in.ModelValue, in.Round))
				}

				if err := writeField(in.ModelOut, dataBase, idx, f.Is32, updated); err != nil {
					return 0, err
				}
			}
		}
	}

	return bitOffset, nil
}

// copyHeader copies the fixed-size collection header verbatim from the
// input buffer into the output buffer and, when present, the
// updated-model buffer (spec section 4.7).
func copyHeader(data, output, modelOut []byte) error {
	if output != nil {
		if err := header.Copy(output, data); err != nil {
			return err
		}
	}

	if modelOut != nil {
		if err := header.Copy(modelOut, data); err != nil {
			return err
		}
	}

	return nil
}

// readField reads the idx-th uniform 4-byte field slot after base bytes
// of header, as a 32-bit or 16-bit little-endian value (see DESIGN.md
// for the uniform-4-byte-per-field storage decision).
func readField(buf []byte, base, idx int, is32 bool) (uint32, error) {
	off := base + idx*4
	if off+4 > len(buf) {
		return 0, perr.New(perr.SmallBuf, "layout: input exhausted")
	}

	v := binary.LittleEndian.Uint32(buf[off : off+4])
	if !is32 {
		v &= 0xFFFF
	}

	return v, nil
}

func writeField(buf []byte, base, idx int, is32 bool, v uint32) error {
	off := base + idx*4
	if off+4 > len(buf) {
		return perr.New(perr.SmallBuf, "layout: updated-model buffer exhausted")
	}

	if !is32 {
		v &= 0xFFFF
	}

	binary.LittleEndian.PutUint32(buf[off:off+4], v)

	return nil
}

func checkWidth(v uint32, width uint) error {
	if width >= 32 {
		return nil
	}

	if v >= uint32(1)<<width {
		return perr.Newf(perr.HighValue, "layout: value %d exceeds declared width %d", v, width)
	}

	return nil
}
