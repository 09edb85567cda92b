package synth

import (
	"context"
	"errors"
	"fmt"

	"github.com/amariichi/minimum-headroom-tts-worker/pkg/logging"
)

// ErrSampleRateMismatch is returned when chunks report different sample
// rates and therefore cannot be concatenated.
var ErrSampleRateMismatch = errors.New("chunk sample rate mismatch")

// Result is the output of a synthesis call: a concatenated waveform and its
// sample rate.
type Result struct {
	Samples    []float32
	SampleRate int
}

// Synthesizer is the public synthesize(text) collaborator: chunk, route
// non-ASCII runs through G2P, synthesize each chunk, and concatenate.
type Synthesizer struct {
	engine Engine
	g2p    G2P
	log    logging.Logger
}

// NewSynthesizer builds the adapter around an engine and G2P collaborator.
func NewSynthesizer(engine Engine, g2p G2P, log logging.Logger) *Synthesizer {
	if log == nil {
		log = logging.NoOpLogger{}
	}
	return &Synthesizer{engine: engine, g2p: g2p, log: log}
}

// Synthesize is blocking and may take seconds; callers must invoke it on a
// worker goroutine so the command loop stays responsive.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (Result, error) {
	chunks := SplitChunks(text)

	var (
		combined   []float32
		sampleRate int
		haveRate   bool
	)

	for _, chunk := range chunks {
		input := chunk.Text
		if chunk.IsPhonemes {
			phonemes, err := s.g2p.ToPhonemes(chunk.Text)
			if err != nil {
				return Result{}, fmt.Errorf("g2p: %w", err)
			}
			input = phonemes
		}

		samples, rate, err := s.engine.Synthesize(ctx, input, chunk.Lang, chunk.Speed, chunk.IsPhonemes)
		if err != nil {
			return Result{}, fmt.Errorf("engine synthesize: %w", err)
		}

		if !haveRate {
			sampleRate = rate
			haveRate = true
		} else if rate != sampleRate {
			return Result{}, fmt.Errorf("%w: chunk reported %d, expected %d", ErrSampleRateMismatch, rate, sampleRate)
		}

		combined = append(combined, samples...)
	}

	if len(combined) == 0 {
		return Result{Samples: []float32{0}, SampleRate: KokoroSampleRate}, nil
	}

	return Result{Samples: combined, SampleRate: sampleRate}, nil
}
