package audio

import "context"

// Normalizer converts an uploaded dictation of any container format into
// leveled 16kHz mono PCM-16 WAV ready for segmentation and recognition.
type Normalizer interface {
	// Normalize returns the converted WAV bytes and their duration in
	// milliseconds. Inputs the converter cannot decode yield a *DecodeError.
	Normalize(ctx context.Context, raw []byte) ([]byte, int64, error)
}
