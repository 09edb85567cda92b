// Package wavenc implements PCM16 conversion and WAV container encoding: the
// raw feed for the subprocess/device playback backends, and the WAV+base64
// container for the browser audio payload.
package wavenc

import "math"

// ToPCM16 clips samples to [-1, 1], scales by 32767, and casts to signed
// 16-bit little-endian mono PCM — the conversion used for the subprocess/
// device playback feed. The browser WAV encoder (EncodeLibrary) does not use
// it: it hands the float32 samples to the WAV library unclipped.
func ToPCM16(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		clipped := float64(s)
		if clipped > 1 {
			clipped = 1
		} else if clipped < -1 {
			clipped = -1
		}
		out[i] = int16(math.Round(clipped * 32767))
	}
	return out
}
