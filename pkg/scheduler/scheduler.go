// Package scheduler implements the command/generation scheduler and
// playback lifecycle: the state machine that ingests speak/interrupt/
// shutdown commands, enforces generation-monotonic preemption, manages a
// single in-flight utterance task with cooperative cancellation, and emits
// the precisely-ordered event stream.
package scheduler

import (
	"context"
	"sync"

	"github.com/amariichi/minimum-headroom-tts-worker/pkg/config"
	"github.com/amariichi/minimum-headroom-tts-worker/pkg/logging"
	"github.com/amariichi/minimum-headroom-tts-worker/pkg/playback"
	"github.com/amariichi/minimum-headroom-tts-worker/pkg/protocol"
	"github.com/amariichi/minimum-headroom-tts-worker/pkg/synth"
)

// sentinelGeneration is the initial value of latest_generation, below any
// valid caller-supplied generation.
const sentinelGeneration = -1

// current is the in-flight utterance handle: at most one exists at a time.
type current struct {
	generation  int64
	sessionID   string
	utteranceID string
	cancel      context.CancelFunc
	done        chan struct{}
}

// Scheduler owns the generation counter and the single in-flight utterance
// task, routes commands, and drives the event stream. Mirrors the cancel-
// and-replace discipline of a conversational turn manager generalized to a
// single speak/utterance lifecycle: latest_generation is mutated only from
// the scheduler goroutine that runs Run; cur is set from that goroutine and
// cleared by the utterance goroutine at its finalization, always under mu.
type Scheduler struct {
	writer      *protocol.Writer
	synthesizer *synth.Synthesizer
	player      *playback.Player
	audioTarget config.AudioTarget
	log         logging.Logger

	mu                sync.Mutex
	latestGeneration  int64
	cur               *current
	shutdownRequested bool
}

// New builds a Scheduler around its already-constructed collaborators.
func New(writer *protocol.Writer, synthesizer *synth.Synthesizer, player *playback.Player, audioTarget config.AudioTarget, log logging.Logger) *Scheduler {
	if log == nil {
		log = logging.NoOpLogger{}
	}
	return &Scheduler{
		writer:           writer,
		synthesizer:      synthesizer,
		player:           player,
		audioTarget:      audioTarget,
		log:              log,
		latestGeneration: sentinelGeneration,
	}
}

// LatestGeneration returns the highest generation ever accepted.
func (s *Scheduler) LatestGeneration() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latestGeneration
}

// cancelCurrentAndAwait cancels the in-flight utterance task, if any, and
// blocks until its finalization has run. Safe to call when idle.
func (s *Scheduler) cancelCurrentAndAwait() {
	s.mu.Lock()
	cur := s.cur
	s.cur = nil
	s.mu.Unlock()

	if cur == nil {
		return
	}
	cur.cancel()
	<-cur.done
}
