// Command worker is the long-running speech-synthesis worker: it reads
// speak/interrupt/shutdown commands as newline-delimited JSON on stdin and
// emits framed JSON events, mouth samples, and audio on stdout.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/amariichi/minimum-headroom-tts-worker/pkg/config"
	"github.com/amariichi/minimum-headroom-tts-worker/pkg/logging"
	"github.com/amariichi/minimum-headroom-tts-worker/pkg/playback"
	"github.com/amariichi/minimum-headroom-tts-worker/pkg/protocol"
	"github.com/amariichi/minimum-headroom-tts-worker/pkg/scheduler"
	"github.com/amariichi/minimum-headroom-tts-worker/pkg/synth"
)

const defaultORTLibraryPath = "libonnxruntime.so"

const (
	engineName  = "kokoro"
	defaultVoice = "default"
)

func main() {
	var smoke bool
	pflag.BoolVar(&smoke, "smoke", false, "initialize engine and driver, emit one ready frame, exit 0")
	pflag.Parse()

	log := logging.NewStdLogger(os.Stderr)
	writer := protocol.NewWriter(os.Stdout)

	cfg, err := config.Load(log)
	if err != nil {
		_ = writer.WriteError(err.Error(), "", "")
		os.Exit(2)
	}

	engine, err := synth.NewKokoroEngine(defaultORTLibraryPath, cfg.KokoroModelPath, cfg.KokoroVoicesPath, log)
	if err != nil {
		_ = writer.WriteError(fmt.Sprintf("startup failed: %v", err), "", "")
		os.Exit(2)
	}
	defer engine.Close()

	synthesizer := synth.NewSynthesizer(engine, synth.NewKanaG2P(), log)

	backend := playback.SelectBackend(cfg.AudioTarget, log)
	if closer, ok := backend.(interface{ Close() }); ok {
		defer closer.Close()
	}
	player := playback.NewPlayer(backend)

	if err := writer.WriteReady(defaultVoice, engineName, cfg.KokoroModelPath, cfg.KokoroVoicesPath, string(backend.Kind()), string(cfg.AudioTarget)); err != nil {
		os.Exit(1)
	}

	if smoke {
		os.Exit(0)
	}

	sched := scheduler.New(writer, synthesizer, player, cfg.AudioTarget, log)
	sched.Run(os.Stdin)
}
