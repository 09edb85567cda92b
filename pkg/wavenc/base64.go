package wavenc

import "encoding/base64"

// EncodeBase64WAV builds a library-encoded WAV container and returns it
// base64-encoded, ready for the browser `audio` frame's audio_base64 field.
func EncodeBase64WAV(samples []float32, sampleRate int) (string, error) {
	raw, err := EncodeLibrary(samples, sampleRate)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
