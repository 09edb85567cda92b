// Package config resolves the worker's startup configuration from environment
// variables, with an optional .env overlay.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/amariichi/minimum-headroom-tts-worker/pkg/logging"
)

// AudioTarget is the scope of audio delivery.
type AudioTarget string

const (
	AudioTargetLocal   AudioTarget = "local"
	AudioTargetBrowser AudioTarget = "browser"
	AudioTargetBoth    AudioTarget = "both"
)

const (
	defaultKokoroModel  = "./assets/kokoro/kokoro-v1.0.onnx"
	defaultKokoroVoices = "./assets/kokoro/voices-v1.0.bin"
	defaultAudioTarget  = AudioTargetLocal
)

// Config is the immutable, startup-resolved configuration for the worker.
type Config struct {
	KokoroModelPath  string
	KokoroVoicesPath string
	AudioTarget      AudioTarget
}

// Load reads .env (best-effort) then the environment into a Config. An
// invalid MH_AUDIO_TARGET value is a startup failure.
func Load(log logging.Logger) (Config, error) {
	if log == nil {
		log = logging.NoOpLogger{}
	}

	if err := godotenv.Load(); err != nil {
		log.Debug(".env not loaded: %v", err)
	}

	cfg := Config{
		KokoroModelPath:  envOr("MH_KOKORO_MODEL", defaultKokoroModel),
		KokoroVoicesPath: envOr("MH_KOKORO_VOICES", defaultKokoroVoices),
		AudioTarget:      defaultAudioTarget,
	}

	if raw, ok := os.LookupEnv("MH_AUDIO_TARGET"); ok {
		target, err := parseAudioTarget(raw)
		if err != nil {
			return Config{}, err
		}
		cfg.AudioTarget = target
	}

	return cfg, nil
}

func parseAudioTarget(raw string) (AudioTarget, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(AudioTargetLocal):
		return AudioTargetLocal, nil
	case string(AudioTargetBrowser):
		return AudioTargetBrowser, nil
	case string(AudioTargetBoth):
		return AudioTargetBoth, nil
	default:
		return "", fmt.Errorf("invalid MH_AUDIO_TARGET %q: must be local, browser, or both", raw)
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
