package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrInputTooSmall reports an upload too short to contain audio. Unlike
// other decode failures there is no point sending such input to
// recognition as-is.
var ErrInputTooSmall = errors.New("audio input too small")

// DecodeError reports input that could not be turned into usable audio.
// Callers distinguish it from infrastructure failures to decide whether
// the original bytes are still worth sending to recognition raw.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode audio: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode audio: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Normalize converts the upload to 16kHz mono PCM-16 WAV via ffmpeg and
// levels it to the standard loudness.
func (n *implNormalizer) Normalize(ctx context.Context, raw []byte) ([]byte, int64, error) {
	if len(raw) < n.minInputBytes {
		return nil, 0, &DecodeError{
			Reason: fmt.Sprintf("%d bytes is below the %d byte minimum", len(raw), n.minInputBytes),
			Err:    ErrInputTooSmall,
		}
	}

	in, err := os.CreateTemp(n.tempDir, "dictation-*.upload")
	if err != nil {
		return nil, 0, fmt.Errorf("create temp input: %w", err)
	}
	inPath := in.Name()
	defer n.cleanupTempFile(ctx, inPath)

	if _, err := in.Write(raw); err != nil {
		in.Close()
		return nil, 0, fmt.Errorf("write temp input: %w", err)
	}
	if err := in.Close(); err != nil {
		return nil, 0, fmt.Errorf("close temp input: %w", err)
	}

	outPath := strings.TrimSuffix(inPath, ".upload") + ".wav"
	defer n.cleanupTempFile(ctx, outPath)

	n.logger.Debug(ctx, "Converting %d byte upload to PCM WAV", len(raw))

	// -vn drops any video stream so camera recordings work too
	args := []string{
		"-i", inPath,
		"-vn",
		"-ar", fmt.Sprintf("%d", TargetSampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		outPath,
	}
	if _, err := n.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return nil, 0, &DecodeError{Reason: "ffmpeg conversion failed", Err: err}
	}

	converted, err := os.ReadFile(outPath)
	if err != nil {
		return nil, 0, fmt.Errorf("read converted audio: %w", err)
	}

	samples, rate, err := DecodeWAV(converted)
	if err != nil {
		return nil, 0, &DecodeError{Reason: "converted output is not valid PCM WAV", Err: err}
	}

	leveled := NormalizePeak(samples, DefaultHeadroomDB)
	wav, err := EncodeWAV(leveled, rate)
	if err != nil {
		return nil, 0, fmt.Errorf("encode leveled audio: %w", err)
	}

	return wav, DurationMs(len(leveled), rate), nil
}

// cleanupTempFile removes a scratch file, logs warning if fails
func (n *implNormalizer) cleanupTempFile(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil {
		n.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", path, err)
	} else {
		n.logger.Debug(ctx, "Cleaned up temp file: %s", path)
	}
}
