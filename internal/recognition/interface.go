package recognition

import (
	"context"

	"github.com/medvoz/medscribe/internal/audio"
	"github.com/medvoz/medscribe/internal/transcript"
)

// Recognizer turns one audio segment into a transcript fragment. Failures
// are contained in the fragment's status rather than returned as errors so
// one bad segment never takes down the rest of a recording.
type Recognizer interface {
	Recognize(ctx context.Context, seg audio.Segment) transcript.Fragment
}
