package main

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mycophonic/platocmp"
	"github.com/mycophonic/platocmp/layout"
	"github.com/mycophonic/platocmp/opmode"
)

var errUnknownDataType = errors.New("unknown data_type")

var errUnknownMode = errors.New("unknown mode")

// fieldSpecJSON mirrors platocmp.FieldSpec for JSON job files.
type fieldSpecJSON struct {
	CmpPar uint32 `json:"cmp_par"`
	Spill  uint32 `json:"spill"`
	Width  uint   `json:"width"`
}

// jobJSON is the on-disk shape of one compress job: everything
// platocmp.Config needs, with byte buffers as base64 strings so a job
// file round-trips cleanly through JSON.
type jobJSON struct {
	DataType     string                   `json:"data_type"`
	Mode         string                   `json:"mode"`
	ModelValue   uint                     `json:"model_value"`
	Round        uint                     `json:"round"`
	Fields       map[string]fieldSpecJSON `json:"fields"`
	Input        string                   `json:"input"`
	Model        string                   `json:"model,omitempty"`
	Samples      int                      `json:"samples"`
	BufferLength int                      `json:"buffer_length"`
}

var dataTypes = map[string]layout.Tag{
	"imagette":           layout.Imagette,
	"sfx":                layout.SFX,
	"sfx_efx":            layout.SFXEFX,
	"sfx_ncob":           layout.SFXNCOB,
	"sfx_efx_ncob_ecob":  layout.SFXEFXNCOBECOB,
	"ffx":                layout.FFX,
	"ffx_efx":            layout.FFXEFX,
	"ffx_ncob":           layout.FFXNCOB,
	"ffx_efx_ncob_ecob":  layout.FFXEFXNCOBECOB,
	"lfx":                layout.LFX,
	"lfx_efx":            layout.LFXEFX,
	"lfx_ncob":           layout.LFXNCOB,
	"lfx_efx_ncob_ecob":  layout.LFXEFXNCOBECOB,
	"offset":             layout.OffsetLayout,
	"background":         layout.Background,
	"smearing":           layout.Smearing,
}

var modes = map[string]opmode.Mode{
	"raw":        opmode.Raw,
	"diff_zero":  opmode.DiffZero,
	"diff_multi": opmode.DiffMulti,
	"model_zero": opmode.ModelZero,
	"model_multi": opmode.ModelMulti,
	"stuff":      opmode.Stuff,
}

// loadJob reads and parses a job file from path.
func loadJob(path string) (jobJSON, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified job files
	if err != nil {
		return jobJSON{}, fmt.Errorf("reading job file: %w", err)
	}

	var job jobJSON
	if err := json.Unmarshal(raw, &job); err != nil {
		return jobJSON{}, fmt.Errorf("parsing job file: %w", err)
	}

	return job, nil
}

// buildConfig translates a parsed job plus a caller-owned output buffer
// into a platocmp.Config ready for Compress.
func buildConfig(job jobJSON, output []byte) (platocmp.Config, error) {
	tag, ok := dataTypes[job.DataType]
	if !ok {
		return platocmp.Config{}, fmt.Errorf("%w: %q", errUnknownDataType, job.DataType)
	}

	mode, ok := modes[job.Mode]
	if !ok {
		return platocmp.Config{}, fmt.Errorf("%w: %q", errUnknownMode, job.Mode)
	}

	input, err := base64.StdEncoding.DecodeString(job.Input)
	if err != nil {
		return platocmp.Config{}, fmt.Errorf("decoding input: %w", err)
	}

	var model []byte
	if job.Model != "" {
		model, err = base64.StdEncoding.DecodeString(job.Model)
		if err != nil {
			return platocmp.Config{}, fmt.Errorf("decoding model: %w", err)
		}
	}

	fields := make(map[string]platocmp.FieldSpec, len(job.Fields))
	for name, spec := range job.Fields {
		fields[name] = platocmp.FieldSpec{CmpPar: spec.CmpPar, Spill: spec.Spill, Width: spec.Width}
	}

	cfg := platocmp.Config{
		DataType:     tag,
		Mode:         mode,
		ModelValue:   job.ModelValue,
		Round:        job.Round,
		Fields:       fields,
		Input:        input,
		Model:        model,
		Output:       output,
		Samples:      job.Samples,
		BufferLength: job.BufferLength,
	}

	if mode.UsesModel() {
		cfg.UpdatedModel = model
	}

	return cfg, nil
}

// outputByteCount sizes the slice of output actually written, given the
// pre-pad bit length Compress returns. Raw mode writes no padding (spec
// section 4.8: the Raw-mode exception), so its byte count is the exact
// bit length rounded up to a byte. Every other mode pads to a whole
// 32-bit word before the Finalizer's byte-swap pass (spec sections 4.8
// and 6: "a big-endian sequence of 32-bit words"), so the padding is
// part of the wire format, not filler to discard on write.
func outputByteCount(mode opmode.Mode, bits int) int {
	if mode == opmode.Raw {
		return (bits + 7) / 8
	}

	return ((bits + 31) / 32) * 4
}
