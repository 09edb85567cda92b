package scheduler

import (
	"context"

	"github.com/amariichi/minimum-headroom-tts-worker/pkg/config"
	"github.com/amariichi/minimum-headroom-tts-worker/pkg/protocol"
	"github.com/amariichi/minimum-headroom-tts-worker/pkg/synth"
	"github.com/amariichi/minimum-headroom-tts-worker/pkg/wavenc"
)

type synthOutcome struct {
	result synth.Result
	err    error
}

// runUtterance is the phase machine described in SPEC_FULL.md §4.5. It
// always runs to its finalization (clearing cur, and emitting a terminal
// mouth(0.0) on every path except the first expiry gate's ttl_expired drop,
// which emits only the dropped event) before closing cur.done. The
// acceptance-time staleness drop never reaches here.
func (s *Scheduler) runUtterance(ctx context.Context, req protocol.SpeakRequest, cur *current) {
	defer close(cur.done)

	ids := protocol.EventIDs{Generation: req.Generation, SessionID: req.SessionID, UtteranceID: req.UtteranceID, HasIDs: true}

	clear := func() {
		s.mu.Lock()
		if s.cur == cur {
			s.cur = nil
		}
		s.mu.Unlock()
	}

	isStale := func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return req.Generation != s.latestGeneration
	}
	isExpired := func() bool {
		return protocol.NowMillis() > req.ExpiresAtMs
	}

	if isExpired() {
		_ = s.writer.WriteEvent("dropped", ids, "ttl_expired", nil)
		clear()
		return
	}

	_ = s.writer.WriteEvent("synth_start", ids, "", nil)

	synthCh := make(chan synthOutcome, 1)
	go func() {
		result, err := s.synthesizer.Synthesize(ctx, req.Text)
		synthCh <- synthOutcome{result, err}
	}()

	var outcome synthOutcome
	select {
	case <-ctx.Done():
		s.player.Backend().Stop()
		_ = s.writer.WriteEvent("play_stop", ids, "interrupted", nil)
		_ = s.writer.WriteMouth(ids, 0)
		clear()
		return
	case outcome = <-synthCh:
	}

	if outcome.err != nil {
		_ = s.writer.WriteEvent("error", ids, outcome.err.Error(), nil)
		_ = s.writer.WriteMouth(ids, 0)
		clear()
		return
	}

	if remaining := req.ExpiresAtMs - protocol.NowMillis(); remaining < 0 {
		s.log.Warn("synthesis for %s/%s outlived its TTL by %dms", req.SessionID, req.UtteranceID, -remaining)
	}

	if isStale() {
		_ = s.writer.WriteEvent("dropped", ids, "stale_generation", nil)
		_ = s.writer.WriteMouth(ids, 0)
		clear()
		return
	}
	if isExpired() {
		_ = s.writer.WriteEvent("dropped", ids, "ttl_expired", nil)
		_ = s.writer.WriteMouth(ids, 0)
		clear()
		return
	}

	_ = s.writer.WriteEvent("synth_done", ids, "", map[string]any{
		"sample_rate":  outcome.result.SampleRate,
		"sample_count": len(outcome.result.Samples),
	})

	if s.audioTarget == config.AudioTargetBrowser || s.audioTarget == config.AudioTargetBoth {
		b64, err := wavenc.EncodeBase64WAV(outcome.result.Samples, outcome.result.SampleRate)
		if err != nil {
			_ = s.writer.WriteEvent("error", ids, "browser_audio_encode_failed:"+err.Error(), nil)
			_ = s.writer.WriteMouth(ids, 0)
			clear()
			return
		}
		if isStale() {
			_ = s.writer.WriteEvent("dropped", ids, "stale_generation", nil)
			_ = s.writer.WriteMouth(ids, 0)
			clear()
			return
		}
		if isExpired() {
			_ = s.writer.WriteEvent("dropped", ids, "ttl_expired", nil)
			_ = s.writer.WriteMouth(ids, 0)
			clear()
			return
		}
		_ = s.writer.WriteAudio(ids, "audio/wav", b64, outcome.result.SampleRate, req.MessageID, req.HasMessageID, req.Revision, req.HasRevision)
	}

	_ = s.writer.WriteEvent("play_start", ids, "", nil)

	shouldStop := func() bool { return ctx.Err() != nil || isStale() || isExpired() }
	onMouth := func(v float64) { _ = s.writer.WriteMouth(ids, v) }

	reason := s.player.Play(outcome.result.Samples, outcome.result.SampleRate, onMouth, shouldStop)

	_ = s.writer.WriteEvent("play_stop", ids, string(reason), nil)
	_ = s.writer.WriteMouth(ids, 0)
	clear()
}
