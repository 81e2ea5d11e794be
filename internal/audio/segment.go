package audio

import "fmt"

const (
	// SegmentThresholdMs is the duration above which a recording is split
	// for recognition instead of being sent whole.
	SegmentThresholdMs = 60_000

	// SegmentWindowMs is the length of each split window. The last window
	// keeps whatever remains and may be shorter.
	SegmentWindowMs = 45_000
)

// Split cuts a normalized recording into recognition-sized segments.
// Recordings of SegmentThresholdMs or less come back as one segment that
// reuses the recording's bytes. Longer recordings are cut into consecutive
// SegmentWindowMs windows, each releveled on its own so a quiet stretch
// is not drowned out by a loud one elsewhere in the recording.
func Split(rec Recording) ([]Segment, error) {
	samples, rate, err := DecodeWAV(rec.Audio)
	if err != nil {
		return nil, fmt.Errorf("decode recording: %w", err)
	}

	total := DurationMs(len(samples), rate)
	if total <= SegmentThresholdMs {
		return []Segment{{RecordingID: rec.ID, Index: 0, StartMs: 0, EndMs: total, Audio: rec.Audio}}, nil
	}

	window := SegmentWindowMs * rate / 1000
	segments := make([]Segment, 0, (len(samples)+window-1)/window)
	for start := 0; start < len(samples); start += window {
		end := start + window
		if end > len(samples) {
			end = len(samples)
		}

		leveled := NormalizePeak(samples[start:end], DefaultHeadroomDB)
		data, err := EncodeWAV(leveled, rate)
		if err != nil {
			return nil, fmt.Errorf("encode segment %d: %w", len(segments), err)
		}

		segments = append(segments, Segment{
			RecordingID: rec.ID,
			Index:       len(segments),
			StartMs:     DurationMs(start, rate),
			EndMs:       DurationMs(end, rate),
			Audio:       data,
		})
	}

	return segments, nil
}
