package refine

import (
	"sync"

	"github.com/medvoz/medscribe/internal/logger"
	"github.com/medvoz/medscribe/internal/metrics"
)

type implRefiner struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	model      string
	logger     logger.Logger
	metrics    *metrics.Metrics
}

// New creates a Refiner that rotates through the supplied Gemini API keys.
// With no keys the Refiner reports unavailable and passes text through.
func New(apiKeys []string, model string, log logger.Logger, m *metrics.Metrics) Refiner {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &implRefiner{
		apiKeys: apiKeys,
		model:   model,
		logger:  log,
		metrics: m,
	}
}
