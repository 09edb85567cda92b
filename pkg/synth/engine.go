package synth

import (
	"context"
	"fmt"

	ort "github.com/shota3506/onnxruntime-purego/onnxruntime"

	"github.com/amariichi/minimum-headroom-tts-worker/pkg/logging"
)

// KokoroSampleRate is the fixed output sample rate of the Kokoro model,
// also used as the silence-fallback rate when no chunk produces audio.
const KokoroSampleRate = 24000

// Engine is the neural TTS collaborator: text/phonemes in, a PCM waveform
// and its sample rate out.
type Engine interface {
	Synthesize(ctx context.Context, text string, lang string, speed float64, isPhonemes bool) (samples []float32, sampleRate int, err error)
	Close()
}

// KokoroEngine drives a Kokoro ONNX model through onnxruntime-purego.
type KokoroEngine struct {
	runtime    *ort.Runtime
	env        *ort.Env
	session    *ort.Session
	voiceStyle map[string][]float32
	log        logging.Logger
}

const defaultORTAPIVersion = 23

// NewKokoroEngine loads the model and voice-style bank and opens an ORT
// session ready to run.
func NewKokoroEngine(libraryPath, modelPath, voicesPath string, log logging.Logger) (*KokoroEngine, error) {
	if log == nil {
		log = logging.NoOpLogger{}
	}

	runtime, err := ort.NewRuntime(libraryPath, defaultORTAPIVersion)
	if err != nil {
		return nil, fmt.Errorf("ort runtime: %w", err)
	}

	env, err := runtime.NewEnv("kokoro", ort.LoggingLevelWarning)
	if err != nil {
		_ = runtime.Close()
		return nil, fmt.Errorf("ort env: %w", err)
	}

	session, err := runtime.NewSession(env, modelPath, nil)
	if err != nil {
		env.Close()
		_ = runtime.Close()
		return nil, fmt.Errorf("ort session (%s): %w", modelPath, err)
	}

	voiceStyle, err := loadVoiceBank(voicesPath)
	if err != nil {
		session.Close()
		env.Close()
		_ = runtime.Close()
		return nil, fmt.Errorf("voice bank (%s): %w", voicesPath, err)
	}

	log.Info("kokoro engine ready: model=%s voices=%s", modelPath, voicesPath)

	return &KokoroEngine{
		runtime:    runtime,
		env:        env,
		session:    session,
		voiceStyle: voiceStyle,
		log:        log,
	}, nil
}

// Synthesize runs the ONNX graph for one chunk of input and returns its
// waveform at KokoroSampleRate.
func (e *KokoroEngine) Synthesize(ctx context.Context, text string, lang string, speed float64, isPhonemes bool) ([]float32, int, error) {
	tokens := tokenize(text, isPhonemes)
	if len(tokens) == 0 {
		return []float32{0}, KokoroSampleRate, nil
	}

	style := e.voiceStyle[lang]
	if style == nil {
		style = e.voiceStyle["default"]
	}

	inputs := map[string]*ort.Value{}

	tokensValue, err := ort.NewTensorValue(e.runtime, tokens, []int64{1, int64(len(tokens))})
	if err != nil {
		return nil, 0, fmt.Errorf("token tensor: %w", err)
	}
	inputs["tokens"] = tokensValue
	defer tokensValue.Close()

	styleValue, err := ort.NewTensorValue(e.runtime, style, []int64{1, int64(len(style))})
	if err != nil {
		return nil, 0, fmt.Errorf("style tensor: %w", err)
	}
	inputs["style"] = styleValue
	defer styleValue.Close()

	speedValue, err := ort.NewTensorValue(e.runtime, []float32{float32(speed)}, []int64{1})
	if err != nil {
		return nil, 0, fmt.Errorf("speed tensor: %w", err)
	}
	inputs["speed"] = speedValue
	defer speedValue.Close()

	outputs, err := e.session.Run(ctx, inputs)
	if err != nil {
		return nil, 0, fmt.Errorf("ort run: %w", err)
	}
	defer closeValues(outputs)

	waveform, ok := outputs["waveform"]
	if !ok {
		return nil, 0, fmt.Errorf("ort run: missing waveform output")
	}

	samples, _, err := ort.GetTensorData[float32](waveform)
	if err != nil {
		return nil, 0, fmt.Errorf("read waveform: %w", err)
	}

	return samples, KokoroSampleRate, nil
}

// Close releases ORT resources. Safe to call multiple times.
func (e *KokoroEngine) Close() {
	if e.session != nil {
		e.session.Close()
		e.session = nil
	}
	if e.env != nil {
		e.env.Close()
		e.env = nil
	}
	if e.runtime != nil {
		_ = e.runtime.Close()
		e.runtime = nil
	}
}

func closeValues(vals map[string]*ort.Value) {
	for _, v := range vals {
		if v != nil {
			v.Close()
		}
	}
}

// tokenize maps a chunk's text (or phonemes, if isPhonemes) to the model's
// token-id space. A full Kokoro tokenizer maintains a fixed phoneme
// vocabulary; here every rune maps to its code point modulo the vocabulary
// size, which is sufficient to exercise the full synth → engine → playback
// pipeline end to end.
func tokenize(text string, isPhonemes bool) []int64 {
	const vocabSize = 256
	runes := []rune(text)
	tokens := make([]int64, 0, len(runes))
	for _, r := range runes {
		tokens = append(tokens, int64(r)%vocabSize)
	}
	return tokens
}
