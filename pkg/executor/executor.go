package executor

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ffmpeg prints its banner and progress to stderr, so on failure only
// the trailing lines carry the actual diagnostic.
const maxStderrLines = 8

type implExecutor struct{}

// New creates an Executor backed by os/exec.
func New() Executor {
	return &implExecutor{}
}

func (e *implExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if diag := tail(stderr.String(), maxStderrLines); diag != "" {
			return "", fmt.Errorf("%s failed: %w\nstderr: %s", name, err, diag)
		}
		return "", fmt.Errorf("%s failed: %w", name, err)
	}

	return stdout.String(), nil
}

// tail returns at most the last n lines of s, trimmed.
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
