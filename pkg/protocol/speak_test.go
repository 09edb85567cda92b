package protocol

import "testing"

func TestParseSpeakRequest_Minimal(t *testing.T) {
	cmd, err := ParseCommand([]byte(`{"op":"speak","id":"r1","generation":1,"session_id":"s","utterance_id":"u1","text":"hi","expires_at":99999999999}`))
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}

	req, err := ParseSpeakRequest(cmd, NowMillis())
	if err != nil {
		t.Fatalf("ParseSpeakRequest: %v", err)
	}

	if req.Generation != 1 || req.SessionID != "s" || req.UtteranceID != "u1" || req.Text != "hi" {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.ExpiresAtMs != 99999999999 {
		t.Fatalf("expected literal expires_at, got %d", req.ExpiresAtMs)
	}
	if req.RequestID != "r1" {
		t.Fatalf("expected request id r1, got %q", req.RequestID)
	}
}

func TestParseSpeakRequest_DefaultExpiry(t *testing.T) {
	cmd, _ := ParseCommand([]byte(`{"op":"speak","generation":1,"session_id":"s","utterance_id":"u1","text":"hi"}`))
	now := int64(1000)
	req, err := ParseSpeakRequest(cmd, now)
	if err != nil {
		t.Fatalf("ParseSpeakRequest: %v", err)
	}
	if req.ExpiresAtMs != now+defaultTTLMillis {
		t.Fatalf("expected default ttl expiry %d, got %d", now+defaultTTLMillis, req.ExpiresAtMs)
	}
}

func TestParseSpeakRequest_TsPlusTTL(t *testing.T) {
	cmd, _ := ParseCommand([]byte(`{"op":"speak","generation":1,"session_id":"s","utterance_id":"u1","text":"hi","ts":1000,"ttl_ms":500}`))
	req, err := ParseSpeakRequest(cmd, 0)
	if err != nil {
		t.Fatalf("ParseSpeakRequest: %v", err)
	}
	if req.ExpiresAtMs != 1500 {
		t.Fatalf("expected ts+ttl_ms = 1500, got %d", req.ExpiresAtMs)
	}
}

func TestParseSpeakRequest_RevisionFloatCoercion(t *testing.T) {
	cmd, _ := ParseCommand([]byte(`{"op":"speak","generation":1,"session_id":"s","utterance_id":"u1","text":"hi","expires_at":1,"revision":3.0}`))
	req, err := ParseSpeakRequest(cmd, 0)
	if err != nil {
		t.Fatalf("ParseSpeakRequest: %v", err)
	}
	if !req.HasRevision || req.Revision != 3 {
		t.Fatalf("expected revision 3, got %+v", req)
	}
}

func TestParseSpeakRequest_MissingFieldsRejected(t *testing.T) {
	cases := []string{
		`{"op":"speak","session_id":"s","utterance_id":"u1","text":"hi"}`,
		`{"op":"speak","generation":1,"utterance_id":"u1","text":"hi"}`,
		`{"op":"speak","generation":1,"session_id":"s","text":"hi"}`,
		`{"op":"speak","generation":1,"session_id":"s","utterance_id":"u1"}`,
		`{"op":"speak","generation":1,"session_id":"s","utterance_id":"u1","text":"   "}`,
		`{"op":"speak","generation":"x","session_id":"s","utterance_id":"u1","text":"hi"}`,
		`{"op":"speak","generation":2.5,"session_id":"s","utterance_id":"u1","text":"hi"}`,
		`{"op":"speak","generation":2.0,"session_id":"s","utterance_id":"u1","text":"hi"}`,
	}
	for _, raw := range cases {
		cmd, err := ParseCommand([]byte(raw))
		if err != nil {
			t.Fatalf("ParseCommand(%s): %v", raw, err)
		}
		if _, err := ParseSpeakRequest(cmd, 0); err == nil {
			t.Errorf("expected validation error for %s", raw)
		}
	}
}

func TestParseSpeakRequest_NonIntegerExpiresAtFallsThroughToTsPlusTTL(t *testing.T) {
	cmd, _ := ParseCommand([]byte(`{"op":"speak","generation":1,"session_id":"s","utterance_id":"u1","text":"hi","expires_at":2.5,"ts":1000,"ttl_ms":500}`))
	req, err := ParseSpeakRequest(cmd, 0)
	if err != nil {
		t.Fatalf("ParseSpeakRequest: %v", err)
	}
	if req.ExpiresAtMs != 1500 {
		t.Fatalf("expected non-integer expires_at to fall through to ts+ttl_ms = 1500, got %d", req.ExpiresAtMs)
	}
}

func TestParseSpeakRequest_NonIntegerExpiresAtAndTsFallsThroughToDefault(t *testing.T) {
	cmd, _ := ParseCommand([]byte(`{"op":"speak","generation":1,"session_id":"s","utterance_id":"u1","text":"hi","expires_at":2.0,"ts":1.5,"ttl_ms":500}`))
	now := int64(1000)
	req, err := ParseSpeakRequest(cmd, now)
	if err != nil {
		t.Fatalf("ParseSpeakRequest: %v", err)
	}
	if req.ExpiresAtMs != now+defaultTTLMillis {
		t.Fatalf("expected non-integer ts to fall through to default ttl expiry %d, got %d", now+defaultTTLMillis, req.ExpiresAtMs)
	}
}

func TestCommandValidate(t *testing.T) {
	cmd, _ := ParseCommand([]byte(`{"op":"frobnicate"}`))
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected error for unknown op")
	}

	cmd, _ = ParseCommand([]byte(`{"op":"ping"}`))
	if err := cmd.Validate(); err != nil {
		t.Fatalf("unexpected error for known op: %v", err)
	}
}
