package wavenc

import (
	"encoding/base64"
	"encoding/binary"
	"testing"
)

func TestEncodeLibrary_RIFFHeader(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 1, -1}
	out, err := EncodeLibrary(samples, 24000)
	if err != nil {
		t.Fatalf("EncodeLibrary: %v", err)
	}

	if len(out) < 44 {
		t.Fatalf("WAV too short: %d bytes", len(out))
	}
	if string(out[0:4]) != "RIFF" {
		t.Errorf("missing RIFF header")
	}
	if string(out[8:12]) != "WAVE" {
		t.Errorf("missing WAVE identifier")
	}

	channels := binary.LittleEndian.Uint16(out[22:24])
	if channels != numChannels {
		t.Errorf("expected %d channel(s), got %d", numChannels, channels)
	}
	sampleRate := binary.LittleEndian.Uint32(out[24:28])
	if sampleRate != 24000 {
		t.Errorf("expected sample rate 24000, got %d", sampleRate)
	}
	bits := binary.LittleEndian.Uint16(out[34:36])
	if bits != bitDepth {
		t.Errorf("expected %d-bit, got %d", bitDepth, bits)
	}
}

func TestEncodeBase64WAV_RoundTripsToValidBase64(t *testing.T) {
	samples := []float32{0, 0.25, -0.25}
	b64, err := EncodeBase64WAV(samples, 24000)
	if err != nil {
		t.Fatalf("EncodeBase64WAV: %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatalf("base64 output did not decode: %v", err)
	}
	if string(raw[0:4]) != "RIFF" || string(raw[8:12]) != "WAVE" {
		t.Fatalf("decoded payload is not a RIFF/WAVE container: %q", raw[:12])
	}
}
