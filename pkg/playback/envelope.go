// Package playback implements the audio playback driver: backend selection,
// the fade envelope, the mouth-open estimator, and the tick loop that drives
// both.
package playback

const (
	fadeInMillis  = 3
	fadeOutMillis = 18
)

// ApplyFade returns a copy of samples with a linear fade-in of fadeInMillis
// and fade-out of fadeOutMillis applied. Buffers shorter than the combined
// fade window are faded as far as sample count allows.
func ApplyFade(samples []float32, sampleRate int) []float32 {
	out := make([]float32, len(samples))
	copy(out, samples)
	if len(out) == 0 {
		return out
	}

	fadeInN := fadeSamples(sampleRate, fadeInMillis, len(out))
	fadeOutN := fadeSamples(sampleRate, fadeOutMillis, len(out))

	for i := 0; i < fadeInN; i++ {
		env := float32(i) / float32(fadeInN)
		out[i] *= env
	}
	for i := 0; i < fadeOutN; i++ {
		idx := len(out) - 1 - i
		env := float32(i) / float32(fadeOutN)
		out[idx] *= env
	}

	return out
}

func fadeSamples(sampleRate, ms, bufLen int) int {
	n := sampleRate * ms / 1000
	if n < 1 {
		n = 1
	}
	if n > bufLen {
		n = bufLen
	}
	return n
}
