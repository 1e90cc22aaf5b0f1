// Package voice maps waveform amplitudes onto the seven discrete voice cues.
package voice

import "strconv"

// Voice is a quantized amplitude bucket in 1..7.
type Voice int

const (
	Min Voice = 1
	Max Voice = 7
)

// FullScale rescales a normalized sample back into the 16-bit domain.
// It is applied to every source regardless of its original width.
const FullScale = 32767

// Band edges over the 16-bit range. Comparisons are strict, so a value
// equal to an edge belongs to the upper band.
var edges = [...]float64{-20480, -12288, -4096, 4096, 12288, 20480}

// Map returns the bucket for a 16-bit-domain value. It is total: values
// outside the 16-bit range fall into the extreme buckets.
func Map(x int) Voice {
	return band(float64(x))
}

// Quantize returns the bucket for a normalized sample. The rescaled value
// is compared without rounding, so -4096.5 lands below the -4096 edge.
func Quantize(sample float64) Voice {
	return band(sample * FullScale)
}

func band(x float64) Voice {
	for i, edge := range edges {
		if x < edge {
			return Voice(i + 1)
		}
	}
	return Max
}

// Cue returns the cue asset name for the voice, e.g. "voice4".
func (v Voice) Cue() string {
	return "voice" + strconv.Itoa(int(v))
}

// String returns the bucket number as text.
func (v Voice) String() string {
	return strconv.Itoa(int(v))
}

// Cues lists every voice cue name in bucket order.
func Cues() []string {
	out := make([]string, 0, Max)
	for v := Min; v <= Max; v++ {
		out = append(out, v.Cue())
	}
	return out
}
