package playback

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/amariichi/minimum-headroom-tts-worker/pkg/logging"
)

// DeviceBackend plays PCM16 mono samples through the native audio device via
// malgo, playback-only (this worker never captures audio, unlike the
// duplex capture+playback device the teacher opens for its own mic input).
type DeviceBackend struct {
	ctx *malgo.AllocatedContext
	log logging.Logger

	mu       sync.Mutex
	device   *malgo.Device
	pcm      []byte
	pos      int
	done     chan struct{}
	doneOnce sync.Once
}

// NewDeviceBackend opens the malgo audio context. Returns
// ErrPlaybackBackendUnavailable if no device context can be created.
func NewDeviceBackend(log logging.Logger) (*DeviceBackend, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPlaybackBackendUnavailable, err)
	}
	return &DeviceBackend{ctx: ctx, log: log}, nil
}

func (*DeviceBackend) Kind() BackendKind { return BackendDevice }

// Start begins asynchronous playback of pcm at sampleRate. Non-blocking: the
// caller drives its own tick loop and calls Wait for natural drain.
func (d *DeviceBackend) Start(pcm []int16, sampleRate int) error {
	pcmBytes := int16sToBytes(pcm)

	d.mu.Lock()
	d.pcm = pcmBytes
	d.pos = 0
	d.done = make(chan struct{})
	d.doneOnce = sync.Once{}
	d.mu.Unlock()

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = 1
	deviceConfig.SampleRate = uint32(sampleRate)
	deviceConfig.Alsa.NoMMap = 1

	device, err := malgo.InitDevice(d.ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: d.onSamples,
	})
	if err != nil {
		return fmt.Errorf("init playback device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("start playback device: %w", err)
	}

	d.mu.Lock()
	d.device = device
	d.mu.Unlock()

	return nil
}

func (d *DeviceBackend) onSamples(pOutput, _ []byte, _ uint32) {
	d.mu.Lock()
	remaining := len(d.pcm) - d.pos
	n := len(pOutput)
	if remaining < n {
		n = remaining
	}
	if n > 0 {
		copy(pOutput, d.pcm[d.pos:d.pos+n])
		d.pos += n
	}
	for i := n; i < len(pOutput); i++ {
		pOutput[i] = 0
	}
	finished := d.pos >= len(d.pcm)
	done := d.done
	d.mu.Unlock()

	if finished && done != nil {
		d.doneOnce.Do(func() { close(done) })
	}
}

// Stop is idempotent and safe with no playback active.
func (d *DeviceBackend) Stop() {
	d.mu.Lock()
	device := d.device
	done := d.done
	d.device = nil
	d.mu.Unlock()

	if device != nil {
		_ = device.Stop()
		device.Uninit()
	}
	if done != nil {
		d.doneOnce.Do(func() { close(done) })
	}
}

// Wait blocks until the device has drained all fed samples (or Stop was
// called).
func (d *DeviceBackend) Wait() {
	d.mu.Lock()
	done := d.done
	d.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Close releases the malgo context. Called once at worker shutdown.
func (d *DeviceBackend) Close() {
	if d.ctx != nil {
		_ = d.ctx.Uninit()
		d.ctx = nil
	}
}

func int16sToBytes(pcm []int16) []byte {
	out := make([]byte, len(pcm)*2)
	for i, s := range pcm {
		out[i*2] = byte(uint16(s))
		out[i*2+1] = byte(uint16(s) >> 8)
	}
	return out
}
