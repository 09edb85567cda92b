package scheduler

import (
	"bufio"
	"bytes"
	"io"

	"github.com/amariichi/minimum-headroom-tts-worker/pkg/protocol"
)

const maxLineSize = 8 * 1024 * 1024

// Run reads newline-delimited JSON commands from r and processes them
// strictly one at a time until a shutdown command (explicit or synthesized
// from EOF) is handled.
func (s *Scheduler) Run(r io.Reader) {
	cmds := make(chan protocol.Command, 16)

	go func() {
		defer close(cmds)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			cmd, err := protocol.ParseCommand(line)
			if err != nil {
				_ = s.writer.WriteError(err.Error(), "", "")
				continue
			}
			cmds <- cmd
		}
	}()

	for cmd := range cmds {
		if s.handleCommand(cmd) {
			return
		}
	}

	// Channel closed: input reached EOF without an explicit shutdown.
	s.handleCommand(protocol.EOFCommand())
}

// handleCommand processes one command and returns true if the scheduler
// should stop consuming further commands.
func (s *Scheduler) handleCommand(cmd protocol.Command) (exit bool) {
	if err := cmd.Validate(); err != nil {
		_ = s.writer.WriteResponse(cmd.ID, false, nil, err.Error())
		return false
	}

	switch cmd.Op {
	case protocol.OpPing:
		s.handlePing(cmd)
		return false
	case protocol.OpShutdown:
		s.handleShutdown(cmd)
		return true
	case protocol.OpInterrupt:
		s.handleInterrupt(cmd)
		return false
	case protocol.OpSpeak:
		s.handleSpeak(cmd)
		return false
	default:
		return false
	}
}

func (s *Scheduler) handlePing(cmd protocol.Command) {
	_ = s.writer.WriteResponse(cmd.ID, true, map[string]any{
		"ready":             true,
		"latest_generation": s.LatestGeneration(),
	}, "")
}

func (s *Scheduler) handleShutdown(cmd protocol.Command) {
	s.mu.Lock()
	s.shutdownRequested = true
	s.mu.Unlock()

	_ = s.writer.WriteResponse(cmd.ID, true, map[string]any{"shutdown": true}, "")

	s.cancelCurrentAndAwait()
	if s.player != nil {
		s.player.Backend().Stop()
	}
}

func (s *Scheduler) handleInterrupt(cmd protocol.Command) {
	s.cancelCurrentAndAwait()
	if s.player != nil {
		s.player.Backend().Stop()
	}
	_ = s.writer.WriteResponse(cmd.ID, true, map[string]any{"interrupted": true}, "")
}
