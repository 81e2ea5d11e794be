package transcript

import "strings"

// Failure markers stand in for text when a segment could not be
// recognized. They stay visible in the stitched transcript so the owner
// knows which parts of the dictation were lost.
const (
	MarkerNoSpeech     = "[No speech detected]"
	MarkerInaudible    = "[Inaudible]"
	MarkerServiceError = "[Recognition service error]"
	MarkerTimeout      = "[Recognition timed out]"
)

// markerStems match markers that carry a variable diagnostic suffix.
var markerStems = []string{
	"[No speech detected",
	"[Inaudible",
	"[Recognition service error",
	"[Recognition timed out",
}

// IsFailureMarker reports whether text is a recognition failure marker
// rather than dictation content. Segment headers like "[Segment 2]" are
// not markers; a transcript that merely begins with one still holds
// recognized speech worth refining.
func IsFailureMarker(text string) bool {
	trimmed := strings.TrimSpace(text)
	for _, stem := range markerStems {
		if strings.HasPrefix(trimmed, stem) {
			return true
		}
	}
	return false
}
