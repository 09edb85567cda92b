package wavenc

import (
	"bytes"
	"fmt"

	"github.com/cwbudde/wav"
	goaudio "github.com/go-audio/audio"
)

const (
	bitDepth    = 16
	numChannels = 1
	pcmFormat   = 1
)

// EncodeLibrary encodes float32 PCM samples into a WAV container using the
// cwbudde/wav encoder atop go-audio/audio's buffer type, used for the
// browser audio frame's container. Samples are passed to the library as
// float32 without going through ToPCM16; the conversion to 16-bit is the
// library's own.
func EncodeLibrary(samples []float32, sampleRate int) ([]byte, error) {
	var buf bytes.Buffer
	sw := &seekBuffer{buf: &buf}

	enc := wav.NewEncoder(sw, sampleRate, bitDepth, numChannels, pcmFormat)

	pcmBuf := &goaudio.Float32Buffer{
		Data:           samples,
		Format:         &goaudio.Format{SampleRate: sampleRate, NumChannels: numChannels},
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(pcmBuf); err != nil {
		return nil, fmt.Errorf("writing PCM: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("closing encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// seekBuffer wraps a bytes.Buffer to satisfy io.WriteSeeker, required by
// wav.NewEncoder.
type seekBuffer struct {
	buf *bytes.Buffer
	pos int
}

func (s *seekBuffer) Write(p []byte) (int, error) {
	if s.pos == s.buf.Len() {
		n, err := s.buf.Write(p)
		s.pos += n
		return n, err
	}
	data := s.buf.Bytes()
	n := copy(data[s.pos:], p)
	if n < len(p) {
		data = append(data, p[n:]...)
		s.buf.Reset()
		s.buf.Write(data)
		n = len(p)
	}
	s.pos += n
	return n, nil
}

func (s *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var newPos int
	switch whence {
	case 0:
		newPos = int(offset)
	case 1:
		newPos = s.pos + int(offset)
	case 2:
		newPos = s.buf.Len() + int(offset)
	}
	if newPos < 0 {
		return 0, fmt.Errorf("seek before start")
	}
	s.pos = newPos
	return int64(newPos), nil
}
