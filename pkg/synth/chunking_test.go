package synth

import (
	"strings"
	"testing"
)

func TestSplitChunks_MixedScript(t *testing.T) {
	chunks := SplitChunks("hello こんにちは world")
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %+v", len(chunks), chunks)
	}
	if chunks[0].Text != "hello" || chunks[0].Lang != langEnglish || chunks[0].IsPhonemes {
		t.Errorf("unexpected first chunk: %+v", chunks[0])
	}
	if chunks[1].Text != "こんにちは" || chunks[1].Lang != langJapanese || !chunks[1].IsPhonemes {
		t.Errorf("unexpected middle chunk: %+v", chunks[1])
	}
	if chunks[2].Text != "world" || chunks[2].Lang != langEnglish {
		t.Errorf("unexpected last chunk: %+v", chunks[2])
	}
}

func TestSplitChunks_RoundTrip(t *testing.T) {
	input := "hello こんにちは world"
	chunks := SplitChunks(input)
	var joined []string
	for _, c := range chunks {
		joined = append(joined, c.Text)
	}
	got := strings.Join(joined, " ")
	if got != input {
		t.Errorf("round trip mismatch: got %q want %q", got, input)
	}
}

func TestSplitChunks_Empty(t *testing.T) {
	if chunks := SplitChunks(""); chunks != nil {
		t.Errorf("expected nil for empty text, got %+v", chunks)
	}
}

func TestSplitChunks_WhitespaceOnlyFallsBackToEmpty(t *testing.T) {
	chunks := SplitChunks("   ")
	if len(chunks) != 0 {
		t.Errorf("expected no chunks for whitespace-only text, got %+v", chunks)
	}
}

func TestSplitChunks_PureASCIIIsOneChunk(t *testing.T) {
	chunks := SplitChunks("just ascii text")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Lang != langEnglish || chunks[0].Speed != speedEnglish {
		t.Errorf("unexpected chunk params: %+v", chunks[0])
	}
}

func TestSplitChunks_PureJapaneseIsOneChunk(t *testing.T) {
	chunks := SplitChunks("こんにちは")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Lang != langJapanese || !chunks[0].IsPhonemes || chunks[0].Speed != speedJapanese {
		t.Errorf("unexpected chunk params: %+v", chunks[0])
	}
}
