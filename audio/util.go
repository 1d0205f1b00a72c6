package audio

import (
	"encoding/binary"
	"math"
)

// decodeF32LE converts little-endian float32 PCM to samples. A trailing
// partial sample is ignored.
func decodeF32LE(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}

// fillSilence zeroes out.
func fillSilence(out []float32) {
	for i := range out {
		out[i] = 0
	}
}
