package playback

import (
	"time"

	"github.com/amariichi/minimum-headroom-tts-worker/pkg/wavenc"
)

// Reason is the terminal outcome of a Play call.
type Reason string

const (
	ReasonCompleted   Reason = "completed"
	ReasonInterrupted Reason = "interrupted"
)

const tickInterval = 40 * time.Millisecond

// Player drives one backend through the fade, start, tick, and drain
// sequence for a single utterance's buffer.
type Player struct {
	backend Backend
}

// NewPlayer wraps a Backend.
func NewPlayer(backend Backend) *Player {
	return &Player{backend: backend}
}

// Backend returns the wrapped backend, exposing its Kind for the `ready`
// frame and has_audio_output checks.
func (p *Player) Backend() Backend {
	return p.backend
}

// Play applies the fade envelope, starts playback, ticks at ~25 Hz calling
// onMouth with the current mouth-open estimate, and returns once playback
// completes naturally or shouldStop reports true.
func (p *Player) Play(samples []float32, sampleRate int, onMouth func(float64), shouldStop func() bool) Reason {
	if len(samples) == 0 {
		onMouth(0)
		return ReasonCompleted
	}

	faded := ApplyFade(samples, sampleRate)
	pcm := wavenc.ToPCM16(faded)

	if err := p.backend.Start(pcm, sampleRate); err != nil {
		onMouth(0)
		return ReasonCompleted
	}

	duration := time.Duration(float64(len(faded)) / float64(sampleRate) * float64(time.Second))
	start := time.Now()

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		if shouldStop() {
			p.backend.Stop()
			onMouth(0)
			return ReasonInterrupted
		}

		elapsed := time.Since(start)
		if elapsed >= duration {
			break
		}

		onMouth(MouthOpen(faded, sampleRate, elapsed.Seconds()))

		<-ticker.C
	}

	p.backend.Wait()
	onMouth(0)
	return ReasonCompleted
}
