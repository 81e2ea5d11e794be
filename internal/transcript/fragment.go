package transcript

import "fmt"

// Status classifies the outcome of recognizing one segment.
type Status int

const (
	// StatusOK means the service returned usable text.
	StatusOK Status = iota
	// StatusEmpty means the service answered but with blank text.
	StatusEmpty
	// StatusUnrecognized means the service could not understand the audio.
	// A content problem, never retried.
	StatusUnrecognized
	// StatusServiceError covers request and service-side failures.
	StatusServiceError
	// StatusTimeout means every recognition attempt ran out of time.
	StatusTimeout
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusUnrecognized:
		return "unrecognized"
	case StatusServiceError:
		return "service_error"
	case StatusTimeout:
		return "timeout"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Fragment is the recognition result for one segment of a recording.
type Fragment struct {
	Index  int // 0-based segment index
	Status Status
	Text   string // recognized text, set only for StatusOK
	Detail string // diagnostic, set for StatusServiceError
}

// Render returns the fragment's contribution to the stitched transcript:
// the recognized text for StatusOK, a visible failure marker otherwise.
func (f Fragment) Render() string {
	switch f.Status {
	case StatusOK:
		return f.Text
	case StatusEmpty:
		return MarkerNoSpeech
	case StatusUnrecognized:
		return MarkerInaudible
	case StatusTimeout:
		return MarkerTimeout
	default:
		if f.Detail != "" {
			return fmt.Sprintf("[Recognition service error: %s]", f.Detail)
		}
		return MarkerServiceError
	}
}
