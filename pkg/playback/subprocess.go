package playback

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"github.com/amariichi/minimum-headroom-tts-worker/pkg/logging"
)

// subprocessTool is the PCM-consuming external tool name searched for on
// PATH, aplay-shaped: raw signed 16-bit little-endian mono PCM on stdin.
var subprocessTool = "aplay"

const subprocessKillGrace = 500 * time.Millisecond

// SubprocessBackend feeds raw PCM16 to an external player process's stdin,
// grounded in CWBudde-go-pocket-tts's exec.CommandContext + stdin-pipe
// pattern for driving an external binary as a blocking collaborator.
type SubprocessBackend struct {
	toolPath string
	log      logging.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	cmd    *exec.Cmd
	fed    chan struct{}
}

// NewSubprocessBackend locates the PCM-consuming tool on PATH. Returns
// ErrPlaybackBackendUnavailable if none is found.
func NewSubprocessBackend(log logging.Logger) (*SubprocessBackend, error) {
	path, err := exec.LookPath(subprocessTool)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlaybackBackendUnavailable, err)
	}
	return &SubprocessBackend{toolPath: path, log: log}, nil
}

func (*SubprocessBackend) Kind() BackendKind { return BackendSubprocess }

// Start launches the subprocess at sampleRate and feeds pcm from a helper
// goroutine. Non-blocking: Wait joins the subprocess and the feeder.
func (s *SubprocessBackend) Start(pcm []int16, sampleRate int) error {
	ctx, cancel := context.WithCancel(context.Background())

	cmd := exec.CommandContext(ctx, s.toolPath,
		"-f", "S16_LE",
		"-c", "1",
		"-r", fmt.Sprintf("%d", sampleRate),
		"-t", "raw",
	)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("stdin pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("start %s: %w", s.toolPath, err)
	}

	s.mu.Lock()
	s.cancel = cancel
	s.cmd = cmd
	s.fed = make(chan struct{})
	fed := s.fed
	s.mu.Unlock()

	go func() {
		defer close(fed)
		defer stdin.Close()
		buf := int16sToBytes(pcm)
		if _, err := io.Copy(stdin, bytes.NewReader(buf)); err != nil {
			s.log.Debug("subprocess feed ended early: %v", err)
		}
	}()

	return nil
}

// Stop terminates the subprocess, killing it if still alive after 500 ms.
// Any partially-written PCM is discarded silently. Idempotent.
func (s *SubprocessBackend) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	cmd := s.cmd
	s.cancel = nil
	s.cmd = nil
	s.mu.Unlock()

	if cancel == nil || cmd == nil || cmd.Process == nil {
		return
	}

	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()

	_ = cmd.Process.Signal(processTerminateSignal())

	select {
	case <-done:
	case <-time.After(subprocessKillGrace):
		cancel()
		<-done
	}
}

// Wait blocks until the subprocess exits and the feeder goroutine has
// finished.
func (s *SubprocessBackend) Wait() {
	s.mu.Lock()
	cmd := s.cmd
	fed := s.fed
	s.mu.Unlock()

	if fed != nil {
		<-fed
	}
	if cmd != nil {
		_ = cmd.Wait()
	}

	s.mu.Lock()
	s.cmd = nil
	s.cancel = nil
	s.mu.Unlock()
}
