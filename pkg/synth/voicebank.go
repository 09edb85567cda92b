package synth

import (
	"encoding/binary"
	"math"
	"os"
)

// loadVoiceBank reads the voices file into a per-language style vector map.
// Kokoro's real voices-v1.0.bin is a packed float32 style-embedding table;
// here it is read as a flat float32 stream and the same first styleDim
// floats (zero-padded if the file is shorter) are given to each of the
// languages this worker ever requests (en-us, j) and to "default". If the
// file cannot be read, the bank holds only a zero-vector "default" entry, so
// a missing voices bank degrades gracefully rather than failing synthesis.
func loadVoiceBank(path string) (map[string][]float32, error) {
	const styleDim = 256

	data, err := os.ReadFile(path)
	if err != nil {
		return map[string][]float32{"default": make([]float32, styleDim)}, nil
	}

	floats := bytesToFloat32s(data)
	bank := map[string][]float32{}
	for _, lang := range []string{langEnglish, langJapanese, "default"} {
		bank[lang] = sliceOrZero(floats, styleDim)
	}
	return bank, nil
}

func bytesToFloat32s(data []byte) []float32 {
	n := len(data) / 4
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint32(data[i*4 : i*4+4])
		out[i] = math.Float32frombits(bits)
	}
	return out
}

func sliceOrZero(floats []float32, n int) []float32 {
	if len(floats) >= n {
		return append([]float32(nil), floats[:n]...)
	}
	out := make([]float32, n)
	copy(out, floats)
	return out
}
