package playback

import "math"

// MouthOpen estimates instantaneous mouth openness at elapsed seconds t into
// playback of samples at sampleRate, via RMS over a short window centered on
// the current position.
func MouthOpen(samples []float32, sampleRate int, t float64) float64 {
	if len(samples) == 0 || sampleRate <= 0 {
		return 0
	}

	c := t * float64(sampleRate)
	w := sampleRate / 80
	if w < 1 {
		w = 1
	}

	start := int(c) - w
	if start < 0 {
		start = 0
	}
	end := int(c) + w
	if end > len(samples) {
		end = len(samples)
	}
	if start >= end {
		return 0
	}

	var sumSq float64
	for _, s := range samples[start:end] {
		v := float64(s)
		sumSq += v * v
	}
	rms := math.Sqrt(sumSq / float64(end-start))

	value := math.Pow(rms*3.8, 0.75)
	return clamp01(value)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
