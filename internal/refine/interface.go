package refine

import "context"

// Refiner runs transcripts through a generative text service. Both
// operations pass failure-marker input straight through: there is nothing
// to refine when recognition produced no speech.
type Refiner interface {
	// Available reports whether the generative service is configured.
	Available() bool

	// Improve corrects grammar, punctuation and structure while keeping
	// clinical terminology intact. Best effort: on any failure the input
	// comes back unchanged.
	Improve(ctx context.Context, text string) string

	// Summarize produces a structured consultation summary, following the
	// caller's instruction when given. Unlike Improve this is an explicit
	// user action, so generation failures are returned, not swallowed.
	Summarize(ctx context.Context, text, instruction string) (string, error)
}
