package audio

import (
	"bytes"
	"testing"
)

// encodeTestWAV builds a WAV of the given duration at a low sample rate so
// segmentation tests stay small. Sample values cycle so audio is non-silent.
func encodeTestWAV(t *testing.T, durationMs int64, sampleRate int, amplitude int16) []byte {
	t.Helper()
	numSamples := int(durationMs) * sampleRate / 1000
	samples := make([]int16, numSamples)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = amplitude
		} else {
			samples[i] = -amplitude
		}
	}
	wav, err := EncodeWAV(samples, sampleRate)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}
	return wav
}

func TestSplitShortRecordingStaysWhole(t *testing.T) {
	wav := encodeTestWAV(t, 50_000, 100, 4000)

	segments, err := Split(Recording{ID: "rec-1", Audio: wav})
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(segments))
	}
	if segments[0].Index != 0 {
		t.Errorf("Index = %d, want 0", segments[0].Index)
	}
	if segments[0].RecordingID != "rec-1" {
		t.Errorf("RecordingID = %q, want rec-1", segments[0].RecordingID)
	}
	if segments[0].StartMs != 0 || segments[0].EndMs != 50_000 {
		t.Errorf("window = [%d, %d), want [0, 50000)", segments[0].StartMs, segments[0].EndMs)
	}
	if !bytes.Equal(segments[0].Audio, wav) {
		t.Error("short recording should be passed through unmodified")
	}
}

func TestSplitAtThresholdStaysWhole(t *testing.T) {
	wav := encodeTestWAV(t, SegmentThresholdMs, 100, 4000)

	segments, err := Split(Recording{ID: "rec-1", Audio: wav})
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(segments))
	}
}

func TestSplitLongRecording(t *testing.T) {
	wav := encodeTestWAV(t, 100_000, 100, 4000)

	segments, err := Split(Recording{ID: "rec-long", Audio: wav})
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	wantWindows := [][2]int64{{0, 45_000}, {45_000, 90_000}, {90_000, 100_000}}
	if len(segments) != len(wantWindows) {
		t.Fatalf("got %d segments, want %d", len(segments), len(wantWindows))
	}

	for i, seg := range segments {
		if seg.Index != i {
			t.Errorf("segment %d has Index %d", i, seg.Index)
		}
		if seg.RecordingID != "rec-long" {
			t.Errorf("segment %d RecordingID = %q, want rec-long", i, seg.RecordingID)
		}
		if seg.StartMs != wantWindows[i][0] || seg.EndMs != wantWindows[i][1] {
			t.Errorf("segment %d window = [%d, %d), want [%d, %d)",
				i, seg.StartMs, seg.EndMs, wantWindows[i][0], wantWindows[i][1])
		}
		if i > 0 && seg.StartMs != segments[i-1].EndMs {
			t.Errorf("gap between segment %d and %d", i-1, i)
		}
		if _, _, err := DecodeWAV(seg.Audio); err != nil {
			t.Errorf("segment %d is not valid WAV: %v", i, err)
		}
	}
}

func TestSplitExactWindowMultiple(t *testing.T) {
	wav := encodeTestWAV(t, 90_000, 100, 4000)

	segments, err := Split(Recording{ID: "rec-1", Audio: wav})
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}

	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	for i, seg := range segments {
		if seg.EndMs-seg.StartMs != SegmentWindowMs {
			t.Errorf("segment %d spans %dms, want %d", i, seg.EndMs-seg.StartMs, int64(SegmentWindowMs))
		}
	}
}

func TestSplitRelevelsEachWindow(t *testing.T) {
	// First window quiet, second loud. Each window should come out at the
	// same peak so the quiet stretch is not lost.
	rate := 100
	windowSamples := SegmentWindowMs * rate / 1000
	samples := make([]int16, 2*windowSamples)
	for i := 0; i < windowSamples; i++ {
		samples[i] = 500
	}
	for i := windowSamples; i < 2*windowSamples; i++ {
		samples[i] = 20000
	}
	wav, err := EncodeWAV(samples, rate)
	if err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}

	segments, err := Split(Recording{ID: "rec-1", Audio: wav})
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}

	peaks := make([]int, 2)
	for i, seg := range segments {
		decoded, _, err := DecodeWAV(seg.Audio)
		if err != nil {
			t.Fatalf("segment %d decode failed: %v", i, err)
		}
		peaks[i] = peakOf(decoded)
	}

	if diff := peaks[0] - peaks[1]; diff < -1 || diff > 1 {
		t.Errorf("window peaks differ after releveling: %d vs %d", peaks[0], peaks[1])
	}
}

func TestSplitRejectsNonWAV(t *testing.T) {
	if _, err := Split(Recording{ID: "rec-1", Audio: []byte("definitely not audio")}); err == nil {
		t.Error("expected error for non-WAV input")
	}
}
