package audio

import "time"

// Recording is a normalized dictation ready for recognition and storage.
// Audio is always 16kHz mono PCM-16 WAV except when conversion failed and
// the original upload bytes were kept as-is, in which case DurationMs is 0.
type Recording struct {
	ID         string
	OwnerID    string
	Subject    string
	Audio      []byte
	DurationMs int64
	CreatedAt  time.Time
}

// Segment is a recognition-sized window of a recording. A recording short
// enough to recognize in one request yields a single segment holding the
// whole recording. StartMs and EndMs locate the window within the source;
// windows are consecutive and non-overlapping.
type Segment struct {
	RecordingID string
	Index       int // 0-based position within the recording
	StartMs     int64
	EndMs       int64
	Audio       []byte
}
