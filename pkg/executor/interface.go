package executor

import (
	"context"
	"os/exec"
)

// Executor runs one external command to completion and returns its
// standard output. Audio decoding shells out to ffmpeg through this
// interface.
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
}

// Available reports whether name resolves to a binary on PATH.
func Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
