// Package synth implements the synthesizer adapter: text chunking, the
// Japanese G2P collaborator, the ONNX-backed Kokoro engine, and the
// orchestration that turns a block of text into a single concatenated PCM
// buffer.
package synth

import "strings"

// Chunk is one maximal run of same-script text with its synthesis
// parameters, matching the original chunking.TextChunk shape.
type Chunk struct {
	Text       string
	Lang       string
	Speed      float64
	IsPhonemes bool
}

const (
	langEnglish = "en-us"
	langJapanese = "j"
	speedEnglish = 1.0
	speedJapanese = 1.2
)

func isASCIIPrintable(r rune) bool {
	return r >= 0x20 && r <= 0x7E
}

// SplitChunks splits text into maximal runs of ASCII-printable vs
// non-ASCII-printable characters, trimming each and dropping empties. If no
// runs are produced but the trimmed whole text is non-empty, it falls back
// to treating the whole text as a single chunk.
func SplitChunks(text string) []Chunk {
	if text == "" {
		return nil
	}

	var chunks []Chunk
	var current []rune
	currentASCII := false
	haveCurrent := false

	flush := func(asciiFlag bool) {
		trimmed := strings.TrimSpace(string(current))
		if trimmed != "" {
			chunks = append(chunks, buildChunk(trimmed, asciiFlag))
		}
		current = nil
	}

	for _, r := range text {
		asciiFlag := isASCIIPrintable(r)
		if !haveCurrent {
			currentASCII = asciiFlag
			haveCurrent = true
		}

		if asciiFlag != currentASCII {
			flush(currentASCII)
			currentASCII = asciiFlag
		}
		current = append(current, r)
	}

	if len(current) > 0 {
		flush(currentASCII)
	}

	if len(chunks) == 0 {
		normalized := strings.TrimSpace(text)
		if normalized != "" {
			chunks = append(chunks, buildChunk(normalized, allASCII(normalized)))
		}
	}

	return chunks
}

func allASCII(text string) bool {
	for _, r := range text {
		if !isASCIIPrintable(r) {
			return false
		}
	}
	return true
}

func buildChunk(text string, asciiFlag bool) Chunk {
	if asciiFlag {
		return Chunk{Text: text, Lang: langEnglish, Speed: speedEnglish, IsPhonemes: false}
	}
	return Chunk{Text: text, Lang: langJapanese, Speed: speedJapanese, IsPhonemes: true}
}
