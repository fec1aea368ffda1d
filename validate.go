package platocmp

import (
	"unsafe"

	"github.com/samber/lo"

	"github.com/mycophonic/platocmp/layout"
	"github.com/mycophonic/platocmp/opmode"
	"github.com/mycophonic/platocmp/perr"
	"github.com/mycophonic/platocmp/setup"
)

const maxRound = 3

// validate implements the Validator (spec section 4.9): it rejects a
// Config before any output is written. samples == 0 is not rejected
// here (Compress short-circuits it separately, returning 0 bits per
// spec section 4.9's "nothing to compress" clause).
func validate(cfg Config) (layout.Def, error) {
	def, ok := layout.Defs[cfg.DataType]
	if !ok {
		return layout.Def{}, perr.Newf(perr.InvalidArg, "platocmp: unknown data_type %v", cfg.DataType)
	}

	if cfg.ModelValue > 16 {
		return layout.Def{}, perr.Newf(perr.InvalidArg, "platocmp: model_value %d exceeds 16", cfg.ModelValue)
	}

	if cfg.Round > maxRound {
		return layout.Def{}, perr.Newf(perr.InvalidArg, "platocmp: round %d exceeds %d", cfg.Round, maxRound)
	}

	if cfg.Mode == opmode.Raw {
		if cfg.BufferLength < cfg.Samples {
			return layout.Def{}, perr.New(perr.InvalidArg, "platocmp: Raw mode buffer_length < samples")
		}
	} else if cfg.Samples > 0 {
		keys := lo.Uniq(lo.Map(def.Fields, func(f layout.Field, _ int) string {
			return fieldKey(f)
		}))

		for _, key := range keys {
			spec, ok := cfg.Fields[key]
			if !ok {
				return layout.Def{}, perr.Newf(perr.InvalidArg, "platocmp: missing field spec for %q", key)
			}

			if spec.Width == 0 || spec.Width > 32 {
				return layout.Def{}, perr.Newf(perr.InvalidArg, "platocmp: field %q width %d out of range", key, spec.Width)
			}

			if cfg.Mode == opmode.Stuff {
				if spec.CmpPar == 0 || spec.CmpPar > 32 {
					return layout.Def{}, perr.Newf(perr.InvalidArg, "platocmp: field %q stuff cmp_par %d out of range", key, spec.CmpPar)
				}

				continue
			}

			if spec.CmpPar == 0 || spec.CmpPar > 63 {
				return layout.Def{}, perr.Newf(perr.InvalidArg, "platocmp: field %q cmp_par %d out of range", key, spec.CmpPar)
			}

			if spec.Spill < 2 || spec.Spill > setup.MaxSpill(spec.CmpPar) {
				return layout.Def{}, perr.Newf(perr.InvalidArg, "platocmp: field %q spill %d out of range", key, spec.Spill)
			}
		}
	}

	if err := checkOverlap(cfg); err != nil {
		return layout.Def{}, err
	}

	return def, nil
}

func fieldKey(f layout.Field) string {
	if f.Group != "" {
		return f.Group
	}

	return f.Name
}

// checkOverlap rejects Configs whose buffers are not the non-overlapping
// regions spec section 3 invariant 4/5 require. updated_model may alias
// model (in-place update); it must not alias input or output.
func checkOverlap(cfg Config) error {
	if overlaps(cfg.Input, cfg.Output) {
		return perr.New(perr.InvalidArg, "platocmp: input and output buffers overlap")
	}

	if overlaps(cfg.Input, cfg.Model) {
		return perr.New(perr.InvalidArg, "platocmp: input and model buffers overlap")
	}

	if overlaps(cfg.Model, cfg.Output) {
		return perr.New(perr.InvalidArg, "platocmp: model and output buffers overlap")
	}

	if overlaps(cfg.UpdatedModel, cfg.Input) {
		return perr.New(perr.InvalidArg, "platocmp: updated-model and input buffers overlap")
	}

	if overlaps(cfg.UpdatedModel, cfg.Output) {
		return perr.New(perr.InvalidArg, "platocmp: updated-model and output buffers overlap")
	}

	return nil
}

// overlaps reports whether a and b, interpreted as byte ranges of the
// same backing memory, share any address. Buffers backed by different
// allocations never overlap even if one is a zero-length slice.
func overlaps(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}

	aStart := uintptr(unsafe.Pointer(unsafe.SliceData(a))) //nolint:gosec // deliberate buffer-aliasing check, see DESIGN.md
	bStart := uintptr(unsafe.Pointer(unsafe.SliceData(b))) //nolint:gosec
	aEnd := aStart + uintptr(len(a))
	bEnd := bStart + uintptr(len(b))

	return aStart < bEnd && bStart < aEnd
}
