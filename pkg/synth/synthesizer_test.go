package synth

import (
	"context"
	"errors"
	"testing"
)

type fakeEngine struct {
	rate       int
	perCallLen int
	err        error
	gotLangs   []string
}

func (f *fakeEngine) Synthesize(_ context.Context, text string, lang string, _ float64, _ bool) ([]float32, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	f.gotLangs = append(f.gotLangs, lang)
	n := f.perCallLen
	if n == 0 {
		n = len(text)
		if n == 0 {
			n = 1
		}
	}
	return make([]float32, n), f.rate, nil
}

func (f *fakeEngine) Close() {}

func TestSynthesizer_ConcatenatesChunks(t *testing.T) {
	eng := &fakeEngine{rate: 24000, perCallLen: 10}
	s := NewSynthesizer(eng, NewKanaG2P(), nil)

	result, err := s.Synthesize(context.Background(), "hi こんにちは")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if result.SampleRate != 24000 {
		t.Errorf("expected sample rate 24000, got %d", result.SampleRate)
	}
	if len(result.Samples) != 20 {
		t.Errorf("expected 20 samples from two 10-sample chunks, got %d", len(result.Samples))
	}
}

func TestSynthesizer_EmptyTextYieldsSilence(t *testing.T) {
	eng := &fakeEngine{rate: 24000}
	s := NewSynthesizer(eng, NewKanaG2P(), nil)

	result, err := s.Synthesize(context.Background(), "")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(result.Samples) != 1 || result.SampleRate != KokoroSampleRate {
		t.Errorf("expected single-sample silence at %d Hz, got %+v", KokoroSampleRate, result)
	}
}

func TestSynthesizer_SampleRateMismatchIsHardError(t *testing.T) {
	eng := &mismatchEngine{}
	s := NewSynthesizer(eng, NewKanaG2P(), nil)

	_, err := s.Synthesize(context.Background(), "hello こんにちは")
	if !errors.Is(err, ErrSampleRateMismatch) {
		t.Fatalf("expected ErrSampleRateMismatch, got %v", err)
	}
}

type mismatchEngine struct {
	calls int
}

func (m *mismatchEngine) Synthesize(_ context.Context, text string, _ string, _ float64, _ bool) ([]float32, int, error) {
	m.calls++
	rate := 24000
	if m.calls == 2 {
		rate = 16000
	}
	return []float32{0, 0}, rate, nil
}

func (m *mismatchEngine) Close() {}

func TestSynthesizer_RoutesNonASCIIThroughG2P(t *testing.T) {
	eng := &fakeEngine{rate: 24000, perCallLen: 1}
	s := NewSynthesizer(eng, NewKanaG2P(), nil)

	if _, err := s.Synthesize(context.Background(), "こんにちは"); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(eng.gotLangs) != 1 || eng.gotLangs[0] != langJapanese {
		t.Errorf("expected one japanese-routed call, got %+v", eng.gotLangs)
	}
}
