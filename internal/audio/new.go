package audio

import (
	"github.com/medvoz/medscribe/internal/logger"
	"github.com/medvoz/medscribe/pkg/executor"
)

type implNormalizer struct {
	executor      executor.Executor
	logger        logger.Logger
	tempDir       string
	minInputBytes int
}

// NewNormalizer creates a Normalizer that shells out to ffmpeg for the
// container conversion and scratches in tempDir.
func NewNormalizer(exec executor.Executor, log logger.Logger, tempDir string, minInputBytes int) Normalizer {
	return &implNormalizer{
		executor:      exec,
		logger:        log,
		tempDir:       tempDir,
		minInputBytes: minInputBytes,
	}
}
