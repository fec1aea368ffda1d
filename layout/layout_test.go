package layout

import (
	"encoding/binary"
	"testing"

	"github.com/mycophonic/platocmp/escape"
	"github.com/mycophonic/platocmp/golomb"
	hdr "github.com/mycophonic/platocmp/header"
	"github.com/mycophonic/platocmp/opmode"
)

func putU32(buf []byte, idx int, v uint32) {
	binary.LittleEndian.PutUint32(buf[idx*4:idx*4+4], v)
}

// TestEncodeS1ImagetteDiffZero reproduces scenario S1 from spec section
// 8: Rice m=4, DiffZero, samples [0x0000, 0x0001, 0x0002, 0x0001],
// expected output word 0x13320000 after padding and (conceptually)
// big-endian conversion; this test checks the pre-swap bit pattern.
func TestEncodeS1ImagetteDiffZero(t *testing.T) {
	t.Parallel()

	def := Defs[Imagette]

	data := make([]byte, 4*4)
	for i, v := range []uint32{0x0000, 0x0001, 0x0002, 0x0001} {
		putU32(data, i, v)
	}

	out := make([]byte, 8)

	params := map[string]FieldParams{
		"imagette": {
			Policy: escape.Policy{Kind: escape.Zero, Coder: golomb.Rice{Log2M: 2}, Spill: 8, Width: 16},
			Width:  16,
		},
	}

	bits, err := Encode(def, Input{
		Mode:       opmode.DiffZero,
		Samples:    4,
		Params:     params,
		Data:       data,
		Output:     out,
		OutputBits: len(out) * 8,
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if bits != 16 {
		t.Fatalf("bits = %d, want 16", bits)
	}

	// bitpack stores each logical 32-bit word little-endian in buf (see
	// bitpack.setWord); the logical word value here is 0x13320000 per
	// spec.md's worked example, so its LE byte layout is 00 00 32 13.
	want := []byte{0x00, 0x00, 0x32, 0x13}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("byte %d = %#02x, want %#02x", i, out[i], want[i])
		}
	}
}

// TestEncodeS2ZeroEscapeOutlier reproduces the same shape as spec.md
// section 8's S2 scenario (DiffZero, input=[0, 0xFFFF]) with spill
// lowered to 2 so the second sample's residual unambiguously escapes
// under the section 4.4 Zero-Escape formula: fold(-1,16)=1, and
// 1 < spill-1(=1) is false. (spec.md's own S2 prose uses spill=3, for
// which the same formula keeps the second sample in-range — see
// DESIGN.md for the discrepancy.)
func TestEncodeS2ZeroEscapeOutlier(t *testing.T) {
	t.Parallel()

	def := Defs[Imagette]

	data := make([]byte, 2*4)
	putU32(data, 0, 0x0000)
	putU32(data, 1, 0xFFFF)

	out := make([]byte, 8)

	coder := golomb.Rice{Log2M: 2}
	params := map[string]FieldParams{
		"imagette": {
			Policy: escape.Policy{Kind: escape.Zero, Coder: coder, Spill: 2, Width: 16},
			Width:  16,
		},
	}

	bits, err := Encode(def, Input{
		Mode:       opmode.DiffZero,
		Samples:    2,
		Params:     params,
		Data:       data,
		Output:     out,
		OutputBits: len(out) * 8,
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	first := coder.Encode(0 + 1) // residual 0, +1 = 1, in-range under spill=2 (spill-1=1)
	zero := coder.Encode(0)
	wantBits := int(first.Length) + int(zero.Length) + 16

	if bits != wantBits {
		t.Fatalf("bits = %d, want %d", bits, wantBits)
	}
}

// TestEncodeHeaderCopiedForMultiFieldLayout checks that a multi-field
// layout's collection header is copied verbatim ahead of the payload.
func TestEncodeHeaderCopiedForMultiFieldLayout(t *testing.T) {
	t.Parallel()

	def := Defs[SFX]

	hdrBytes := make([]byte, hdr.Size)
	for i := range hdrBytes {
		hdrBytes[i] = byte(i + 1)
	}

	data := append(append([]byte{}, hdrBytes...), make([]byte, 2*4)...)
	putU32(data, hdr.Size/4, 10) // exp_flags sample 0 (placed right after header)
	putU32(data, hdr.Size/4+1, 20)

	out := make([]byte, hdr.Size+16)
	modelOut := make([]byte, hdr.Size+16)

	coder := golomb.Rice{Log2M: 2}
	params := map[string]FieldParams{
		"exp_flags": {Policy: escape.Policy{Kind: escape.Zero, Coder: coder, Spill: 8, Width: 16}, Width: 16},
		"fx":        {Policy: escape.Policy{Kind: escape.Zero, Coder: coder, Spill: 8, Width: 16}, Width: 16},
	}

	_, err := Encode(def, Input{
		Mode:       opmode.DiffZero,
		Samples:    1,
		Params:     params,
		Data:       data,
		Output:     out,
		ModelOut:   modelOut,
		OutputBits: len(out) * 8,
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	for i := 0; i < hdr.Size; i++ {
		if out[i] != hdrBytes[i] {
			t.Errorf("output header byte %d = %d, want %d", i, out[i], hdrBytes[i])
		}

		if modelOut[i] != hdrBytes[i] {
			t.Errorf("updated-model header byte %d = %d, want %d", i, modelOut[i], hdrBytes[i])
		}
	}
}

// TestEncodeModelZeroUpdatesModelInPlace reproduces scenario S4's shape
// within the dispatcher: one Imagette sample, ModelZero mode, checking
// the updated-model buffer receives the blended value.
func TestEncodeModelZeroWritesUpdatedModel(t *testing.T) {
	t.Parallel()

	def := Defs[Imagette]

	data := make([]byte, 4)
	putU32(data, 0, 100)

	modelIn := make([]byte, 4)
	putU32(modelIn, 0, 200)

	modelOut := make([]byte, 4)
	out := make([]byte, 8)

	params := map[string]FieldParams{
		"imagette": {
			Policy: escape.Policy{Kind: escape.Zero, Coder: golomb.Rice{Log2M: 2}, Spill: 64, Width: 16},
			Width:  16,
		},
	}

	_, err := Encode(def, Input{
		Mode:       opmode.ModelZero,
		ModelValue: 8,
		Round:      0,
		Samples:    1,
		Params:     params,
		Data:       data,
		ModelIn:    modelIn,
		ModelOut:   modelOut,
		Output:     out,
		OutputBits: len(out) * 8,
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got := binary.LittleEndian.Uint32(modelOut)
	if got != 150 {
		t.Fatalf("updated model = %d, want 150", got)
	}
}

func TestEncodeZeroSamplesReturnsZeroBits(t *testing.T) {
	t.Parallel()

	bits, err := Encode(Defs[Imagette], Input{Mode: opmode.DiffZero, Samples: 0})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if bits != 0 {
		t.Fatalf("bits = %d, want 0", bits)
	}
}

func TestEncodeHighValueAborts(t *testing.T) {
	t.Parallel()

	def := Defs[Imagette]

	data := make([]byte, 4)
	putU32(data, 0, 0x0800)

	out := make([]byte, 8)

	params := map[string]FieldParams{
		"imagette": {
			Policy: escape.Policy{Kind: escape.Zero, Coder: golomb.Rice{Log2M: 2}, Spill: 8, Width: 10},
			Width:  10,
		},
	}

	_, err := Encode(def, Input{
		Mode:       opmode.DiffZero,
		Samples:    1,
		Params:     params,
		Data:       data,
		Output:     out,
		OutputBits: len(out) * 8,
	})
	if err == nil {
		t.Fatal("expected HighValue error, got nil")
	}
}
