package pipeline

import "context"

// Pipeline runs the whole chain for one inbox file: normalize, segment,
// recognize, stitch, refine, persist and export.
type Pipeline interface {
	Process(ctx context.Context, path string) error
}
