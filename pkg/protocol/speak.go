package protocol

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrInvalidSpeak is wrapped with a reason describing which field failed
// validation.
var ErrInvalidSpeak = errors.New("invalid speak command")

const defaultTTLMillis = 4000

// SpeakRequest is the immutable record derived from a validated `speak`
// command.
type SpeakRequest struct {
	Generation   int64
	SessionID    string
	UtteranceID  string
	Text         string
	ExpiresAtMs  int64
	MessageID    string
	HasMessageID bool
	Revision     int64
	HasRevision  bool
	RequestID    string
}

// ParseSpeakRequest validates and parses a `speak` command's raw fields.
// nowMs is the caller-supplied current wall-clock time in milliseconds, used
// to derive expires_at when absent.
func ParseSpeakRequest(cmd Command, nowMs int64) (SpeakRequest, error) {
	req := SpeakRequest{RequestID: cmd.ID}

	gen, err := requireStrictInt(cmd.Raw, "generation")
	if err != nil {
		return SpeakRequest{}, err
	}
	req.Generation = gen

	sessionID, err := requireNonEmptyString(cmd.Raw, "session_id")
	if err != nil {
		return SpeakRequest{}, err
	}
	req.SessionID = sessionID

	utteranceID, err := requireNonEmptyString(cmd.Raw, "utterance_id")
	if err != nil {
		return SpeakRequest{}, err
	}
	req.UtteranceID = utteranceID

	text, err := requireNonEmptyString(cmd.Raw, "text")
	if err != nil {
		return SpeakRequest{}, err
	}
	req.Text = strings.TrimSpace(text)
	if req.Text == "" {
		return SpeakRequest{}, wrapInvalid("text", "must be non-empty after trimming")
	}

	req.ExpiresAtMs = resolveExpiresAt(cmd.Raw, nowMs)

	if v, ok := cmd.Raw["message_id"]; ok {
		if s, ok := v.(string); ok {
			req.MessageID = strings.TrimSpace(s)
			req.HasMessageID = true
		}
	}

	if v, ok := cmd.Raw["revision"]; ok {
		if n, ok := asInt(v); ok {
			req.Revision = n
			req.HasRevision = true
		}
	}

	return req, nil
}

// resolveExpiresAt mirrors __main__.py's expires_at derivation: expires_at
// must be a true integer (a float like 2.0 does not count, matching
// Python's isinstance(x, int)); a non-integer or absent expires_at falls
// through to ts+ttl_ms (both themselves required to be true integers), then
// to now+4000ms.
func resolveExpiresAt(raw map[string]any, nowMs int64) int64 {
	if n, ok := strictInt(raw["expires_at"]); ok {
		return n
	}
	if ts, tsOK := strictInt(raw["ts"]); tsOK {
		if ttl, ttlOK := strictInt(raw["ttl_ms"]); ttlOK {
			return ts + ttl
		}
	}
	return nowMs + defaultTTLMillis
}

// requireStrictInt rejects non-integer numerics (a JSON 2.5 or 2.0) rather
// than truncating them, matching fields the original validates with
// isinstance(x, int) rather than coercing floats.
func requireStrictInt(raw map[string]any, key string) (int64, error) {
	v, ok := raw[key]
	if !ok {
		return 0, wrapInvalid(key, "missing")
	}
	n, ok := strictInt(v)
	if !ok {
		return 0, wrapInvalid(key, "must be an integer")
	}
	return n, nil
}

func requireNonEmptyString(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok {
		return "", wrapInvalid(key, "missing")
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", wrapInvalid(key, "must be a non-empty string")
	}
	return s, nil
}

// asInt accepts json.Number (the decoder is configured with UseNumber),
// float64, or int64/int, coercing floats to integers. Used only for
// revision, the one field the spec has coerce float-to-int rather than
// reject it outright.
func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return int64(f), true
		}
		return 0, false
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}

// strictInt accepts only a true integer: a json.Number with no fractional
// part or exponent, or a native int64/int. It rejects float64 and any
// json.Number that only parses as a float (e.g. "2.5" or "2.0"), matching
// Python's isinstance(x, int) being false for floats even when integral.
func strictInt(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}

func wrapInvalid(field, reason string) error {
	return &invalidFieldError{field: field, reason: reason}
}

type invalidFieldError struct {
	field  string
	reason string
}

func (e *invalidFieldError) Error() string {
	return e.field + ": " + e.reason
}

func (e *invalidFieldError) Unwrap() error {
	return ErrInvalidSpeak
}

// NowMillis returns the current wall-clock time in Unix milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
