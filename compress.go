package platocmp

import (
	"github.com/samber/lo"

	"github.com/mycophonic/platocmp/finalize"
	"github.com/mycophonic/platocmp/layout"
	"github.com/mycophonic/platocmp/opmode"
	"github.com/mycophonic/platocmp/perr"
	"github.com/mycophonic/platocmp/setup"
)

// rawFieldBytes is the per-field storage width Raw mode swaps to
// big-endian, under this module's uniform 4-byte-per-field convention
// (see DESIGN.md); spec section 4.8 calls for field-natural widths,
// which the source's packed 16-/32-bit records express directly but our
// uniform field slots do not distinguish.
const rawFieldBytes = 4

// Compress implements the single public entry point (spec section 6):
// on success it returns the pre-pad bit length of the compressed
// stream; on failure it returns a wrapped *perr.Error, whose code is
// recoverable with perr.ResultCode for callers needing the legacy
// numeric contract.
func Compress(cfg Config) (int, error) {
	def, err := validate(cfg)
	if err != nil {
		return 0, err
	}

	if cfg.Samples == 0 {
		return 0, nil
	}

	if cfg.Mode == opmode.Raw {
		return compressRaw(def, cfg)
	}

	return compressEncoded(def, cfg)
}

func compressRaw(def layout.Def, cfg Config) (int, error) {
	need := cfg.Samples * sampleBytes(def)

	if len(cfg.Input) < need {
		return 0, perr.New(perr.SmallBuf, "platocmp: input shorter than samples*sample_size")
	}

	if len(cfg.Output) < need {
		return 0, perr.New(perr.SmallBuf, "platocmp: output shorter than samples*sample_size")
	}

	copy(cfg.Output[:need], cfg.Input[:need])
	finalize.SwapFieldWidth(cfg.Output[:need], rawFieldBytes)

	return need * 8, nil
}

func compressEncoded(def layout.Def, cfg Config) (int, error) {
	params := make(map[string]layout.FieldParams, len(def.Fields))

	keys := lo.Uniq(lo.Map(def.Fields, func(f layout.Field, _ int) string {
		return fieldKey(f)
	}))

	for _, key := range keys {
		spec := cfg.Fields[key]

		policy, err := setup.Configure(spec.CmpPar, spec.Spill, spec.Width, cfg.Mode)
		if err != nil {
			return 0, err
		}

		params[key] = layout.FieldParams{Policy: policy, Width: spec.Width}
	}

	hdrBytes := headerBytes(def)
	sampleSz := sampleBytes(def)
	outputBytes := cfg.BufferLength*sampleSz + hdrBytes

	if len(cfg.Output) < outputBytes {
		return 0, perr.New(perr.SmallBuf, "platocmp: output buffer shorter than buffer_length implies")
	}

	outputBits := outputBytes * 8

	bits, err := layout.Encode(def, layout.Input{
		Mode:       cfg.Mode,
		ModelValue: cfg.ModelValue,
		Round:      cfg.Round,
		Samples:    cfg.Samples,
		Params:     params,
		Data:       cfg.Input,
		ModelIn:    cfg.Model,
		ModelOut:   cfg.UpdatedModel,
		Output:     cfg.Output,
		OutputBits: outputBits,
	})
	if err != nil {
		return 0, err
	}

	return finalize.Finalize(cfg.Output, outputBits, bits, hdrBytes)
}

// SafeMaxUsedBits returns a "safe" field-width preset (spec section 6):
// every field mapped to its type's natural width, 16 bits for all
// fields except the 32-bit exp_flags used by L_* layouts.
func SafeMaxUsedBits(tag layout.Tag) map[string]uint {
	def, ok := layout.Defs[tag]
	if !ok {
		return nil
	}

	widths := make(map[string]uint, len(def.Fields))

	for _, f := range def.Fields {
		key := fieldKey(f)
		if f.Is32 {
			widths[key] = 32
		} else {
			widths[key] = 16
		}
	}

	return widths
}
