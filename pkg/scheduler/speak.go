package scheduler

import (
	"context"

	"github.com/amariichi/minimum-headroom-tts-worker/pkg/protocol"
)

func (s *Scheduler) handleSpeak(cmd protocol.Command) {
	req, err := protocol.ParseSpeakRequest(cmd, protocol.NowMillis())
	if err != nil {
		_ = s.writer.WriteResponse(cmd.ID, false, nil, err.Error())
		_ = s.writer.WriteEvent("error", protocol.EventIDs{}, err.Error(), nil)
		return
	}

	ids := protocol.EventIDs{Generation: req.Generation, SessionID: req.SessionID, UtteranceID: req.UtteranceID, HasIDs: true}

	s.mu.Lock()
	if req.Generation < s.latestGeneration {
		s.mu.Unlock()
		_ = s.writer.WriteEvent("dropped", ids, "stale_generation", nil)
		_ = s.writer.WriteResponse(cmd.ID, true, map[string]any{"accepted": true, "generation": req.Generation}, "")
		return
	}
	s.latestGeneration = req.Generation
	previous := s.cur
	s.cur = nil
	s.mu.Unlock()

	if previous != nil {
		previous.cancel()
		<-previous.done
	}

	ctx, cancel := context.WithCancel(context.Background())
	cur := &current{
		generation:  req.Generation,
		sessionID:   req.SessionID,
		utteranceID: req.UtteranceID,
		cancel:      cancel,
		done:        make(chan struct{}),
	}

	s.mu.Lock()
	s.cur = cur
	s.mu.Unlock()

	_ = s.writer.WriteResponse(cmd.ID, true, map[string]any{"accepted": true, "generation": req.Generation}, "")

	go s.runUtterance(ctx, req, cur)
}
