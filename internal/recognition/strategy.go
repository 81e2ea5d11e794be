package recognition

import (
	"context"
	"fmt"

	"github.com/medvoz/medscribe/internal/audio"
)

// preparedAudio is segment audio resolved through the read fallback chain,
// ready to send to the service.
type preparedAudio struct {
	payload     []byte
	contentType string
	noiseFloor  int // -1 when calibration was skipped
}

// prepare resolves segment audio through three descending levels of
// robustness: decode and calibrate, decode only, then the raw bytes as-is.
// The first level that works wins; degradations are logged so a recording
// that only transcribed via the raw path can be traced afterwards.
func (r *implRecognizer) prepare(ctx context.Context, seg audio.Segment) (preparedAudio, error) {
	strategies := []struct {
		name string
		fn   func(audio.Segment) (preparedAudio, error)
	}{
		{"calibrated", r.prepareCalibrated},
		{"decoded", r.prepareDecoded},
		{"raw", r.prepareRaw},
	}

	var lastErr error
	for _, s := range strategies {
		prep, err := s.fn(seg)
		if err != nil {
			lastErr = err
			r.logger.Warn(ctx, "Segment %d: %s read failed: %v", seg.Index, s.name, err)
			continue
		}
		if lastErr != nil {
			r.logger.Warn(ctx, "Segment %d: degraded to %s read", seg.Index, s.name)
		}
		return prep, nil
	}
	return preparedAudio{}, lastErr
}

func (r *implRecognizer) prepareCalibrated(seg audio.Segment) (preparedAudio, error) {
	samples, rate, err := audio.DecodeWAV(seg.Audio)
	if err != nil {
		return preparedAudio{}, fmt.Errorf("decode segment: %w", err)
	}
	return preparedAudio{
		payload:     seg.Audio,
		contentType: wavContentType(rate),
		noiseFloor:  noiseFloor(samples, rate, r.cfg.CalibrationWindow),
	}, nil
}

func (r *implRecognizer) prepareDecoded(seg audio.Segment) (preparedAudio, error) {
	_, rate, err := audio.DecodeWAV(seg.Audio)
	if err != nil {
		return preparedAudio{}, fmt.Errorf("decode segment: %w", err)
	}
	return preparedAudio{
		payload:     seg.Audio,
		contentType: wavContentType(rate),
		noiseFloor:  -1,
	}, nil
}

// prepareRaw sends the bytes untouched. The service sees whatever the
// upload contained; an unusable payload comes back as a request error.
func (r *implRecognizer) prepareRaw(seg audio.Segment) (preparedAudio, error) {
	return preparedAudio{
		payload:     seg.Audio,
		contentType: "application/octet-stream",
		noiseFloor:  -1,
	}, nil
}

func wavContentType(sampleRate int) string {
	return fmt.Sprintf("audio/x-wav; rate=%d", sampleRate)
}
