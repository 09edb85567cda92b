package protocol

import (
	"bytes"
	"encoding/json"
	"io"
	"sync"
)

// Writer serializes framed output messages under a mutex so that lines from
// concurrent emitters (scheduler, playback timer, error paths) never
// interleave. Every frame is written as a single JSON object terminated by a
// newline; non-ASCII code points are preserved (HTML escaping disabled).
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriter wraps out (typically os.Stdout) in a Writer.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

func (w *Writer) writeFrame(frame map[string]any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(frame); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := w.out.Write(buf.Bytes())
	return err
}

// WriteReady emits the startup `ready` frame.
func (w *Writer) WriteReady(voice, engine, modelPath, voicesPath, playbackBackend, audioTarget string) error {
	return w.writeFrame(map[string]any{
		"type":             "ready",
		"voice":            voice,
		"engine":           engine,
		"model_path":       modelPath,
		"voices_path":      voicesPath,
		"playback_backend": playbackBackend,
		"audio_target":     audioTarget,
	})
}

// WriteResponse emits a `response` frame correlating to a command id.
func (w *Writer) WriteResponse(id string, ok bool, result map[string]any, errMsg string) error {
	frame := map[string]any{
		"type": "response",
		"id":   id,
		"ok":   ok,
	}
	if result != nil {
		frame["result"] = result
	}
	if errMsg != "" {
		frame["error"] = errMsg
	}
	return w.writeFrame(frame)
}

// EventIDs carries the utterance correlation ids attached to event/mouth/audio
// frames. Generation/session/utterance may be zero-valued for events with no
// associated utterance (e.g. speak-validation failures), matching the
// spec's "null ids" phrasing.
type EventIDs struct {
	Generation  int64
	SessionID   string
	UtteranceID string
	HasIDs      bool
}

// WriteEvent emits an `event` frame for the given phase, with optional reason
// and any additional flattened fields.
func (w *Writer) WriteEvent(phase string, ids EventIDs, reason string, extra map[string]any) error {
	frame := map[string]any{
		"type":  "event",
		"phase": phase,
	}
	if ids.HasIDs {
		frame["generation"] = ids.Generation
		frame["session_id"] = ids.SessionID
		frame["utterance_id"] = ids.UtteranceID
	} else {
		frame["generation"] = nil
		frame["session_id"] = nil
		frame["utterance_id"] = nil
	}
	if reason != "" {
		frame["reason"] = reason
	}
	for k, v := range extra {
		frame[k] = v
	}
	return w.writeFrame(frame)
}

// WriteMouth emits a `mouth` frame. open is clamped to [0, 1].
func (w *Writer) WriteMouth(ids EventIDs, open float64) error {
	if open < 0 {
		open = 0
	} else if open > 1 {
		open = 1
	}
	return w.writeFrame(map[string]any{
		"type":         "mouth",
		"generation":   ids.Generation,
		"session_id":   ids.SessionID,
		"utterance_id": ids.UtteranceID,
		"open":         open,
	})
}

// WriteAudio emits an `audio` frame carrying base64 WAV for browser delivery.
func (w *Writer) WriteAudio(ids EventIDs, mimeType, audioBase64 string, sampleRate int, messageID string, hasMessageID bool, revision int64, hasRevision bool) error {
	frame := map[string]any{
		"type":         "audio",
		"generation":   ids.Generation,
		"session_id":   ids.SessionID,
		"utterance_id": ids.UtteranceID,
		"mime_type":    mimeType,
		"audio_base64": audioBase64,
		"sample_rate":  sampleRate,
	}
	if hasMessageID {
		frame["message_id"] = messageID
	}
	if hasRevision {
		frame["revision"] = revision
	}
	return w.writeFrame(frame)
}

// WriteError emits a top-level `error` frame, distinct from an `event{phase:
// error}` frame — used for command-parse and startup failures.
func (w *Writer) WriteError(message, op, id string) error {
	frame := map[string]any{
		"type":    "error",
		"message": message,
	}
	if op != "" {
		frame["op"] = op
	}
	if id != "" {
		frame["id"] = id
	}
	return w.writeFrame(frame)
}
