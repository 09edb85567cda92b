package playback

import (
	"errors"

	"github.com/amariichi/minimum-headroom-tts-worker/pkg/config"
	"github.com/amariichi/minimum-headroom-tts-worker/pkg/logging"
)

// BackendKind names the concrete audio sink in use.
type BackendKind string

const (
	BackendDevice     BackendKind = "device"
	BackendSubprocess BackendKind = "subprocess"
	BackendSilent     BackendKind = "silent"
)

// ErrPlaybackBackendUnavailable is returned when a requested backend cannot
// be constructed (e.g. no device, no subprocess tool on PATH).
var ErrPlaybackBackendUnavailable = errors.New("playback backend unavailable")

// Backend is the audio sink surface: start once with PCM16 mono samples at a
// fixed rate, stop on demand (idempotent), wait for natural drain.
type Backend interface {
	Kind() BackendKind
	Start(pcm []int16, sampleRate int) error
	Stop()
	Wait()
}

// SelectBackend implements the one-shot backend-selection rule: browser-only
// targets get silent; otherwise prefer a native device, then a subprocess
// tool, then fall back to silent.
func SelectBackend(target config.AudioTarget, log logging.Logger) Backend {
	if log == nil {
		log = logging.NoOpLogger{}
	}

	if target == config.AudioTargetBrowser {
		return NewSilentBackend()
	}

	if dev, err := NewDeviceBackend(log); err == nil {
		return dev
	} else {
		log.Debug("device backend unavailable: %v", err)
	}

	if sub, err := NewSubprocessBackend(log); err == nil {
		return sub
	} else {
		log.Debug("subprocess backend unavailable: %v", err)
	}

	log.Warn("no audio output backend available, falling back to silent")
	return NewSilentBackend()
}

// HasAudioOutput is true iff the backend actually produces sound.
func HasAudioOutput(b Backend) bool {
	return b.Kind() == BackendDevice || b.Kind() == BackendSubprocess
}
