package playback

import "testing"

func TestApplyFade_EndpointsAreZero(t *testing.T) {
	samples := make([]float32, 2000)
	for i := range samples {
		samples[i] = 1.0
	}

	out := ApplyFade(samples, 44100)

	if out[0] != 0 {
		t.Errorf("expected out[0] == 0, got %v", out[0])
	}
	if out[len(out)-1] != 0 {
		t.Errorf("expected out[-1] == 0, got %v", out[len(out)-1])
	}
	for _, v := range out {
		if v < -1 || v > 1 {
			t.Fatalf("sample outside [-1,1]: %v", v)
		}
	}
}

func TestApplyFade_EmptyBuffer(t *testing.T) {
	out := ApplyFade(nil, 44100)
	if len(out) != 0 {
		t.Errorf("expected empty output, got %v", out)
	}
}

func TestApplyFade_VeryShortBuffer(t *testing.T) {
	out := ApplyFade([]float32{1, 1}, 44100)
	if len(out) != 2 {
		t.Fatalf("expected same length, got %d", len(out))
	}
	if out[0] != 0 {
		t.Errorf("expected first sample faded to 0, got %v", out[0])
	}
}
