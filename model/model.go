// Package model implements the weighted model-blend update applied after
// a sample has been compressed in a Model* mode: the prior model value and
// the newly observed data value are combined into the model value fed to
// the next call.
package model

// Update16 blends a 16-bit data/model pair: both operands are first
// shifted right by round (truncating, no rounding-to-nearest), then
// combined with weight modelValue/16 on the prior model and
// (16-modelValue)/16 on the data, truncating the final division.
//
// update(data, model, model_value, round) =
//
//	(model_value*roundBeta(model) + (16-model_value)*roundBeta(data)) / 16
func Update16(data, priorModel uint16, modelValue uint, round uint) uint16 {
	return uint16(blend(uint32(data), uint32(priorModel), modelValue, round))
}

// Update32 is Update16 at 32-bit field width, for the exp_flags field of
// L_* layouts (see the open question in DESIGN.md: the source's update32
// is documented here only as "same formula, wider field").
func Update32(data, priorModel uint32, modelValue uint, round uint) uint32 {
	return blend(data, priorModel, modelValue, round)
}

func blend(data, priorModel uint32, modelValue uint, round uint) uint32 {
	d := roundBeta(data, round)
	m := roundBeta(priorModel, round)

	mv := uint64(modelValue)

	return uint32((mv*uint64(m) + (16-mv)*uint64(d)) / 16)
}

// roundBeta applies the lossy rounding shift used before encoding: a
// truncating right shift, not round-to-nearest.
func roundBeta(x uint32, round uint) uint32 {
	return x >> round
}
