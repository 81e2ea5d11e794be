package pipeline

import (
	"github.com/medvoz/medscribe/internal/audio"
	"github.com/medvoz/medscribe/internal/config"
	"github.com/medvoz/medscribe/internal/logger"
	"github.com/medvoz/medscribe/internal/metrics"
	"github.com/medvoz/medscribe/internal/recognition"
	"github.com/medvoz/medscribe/internal/refine"
)

type implPipeline struct {
	cfg        *config.Config
	normalizer audio.Normalizer
	recognizer recognition.Recognizer
	refiner    refine.Refiner
	store      *store
	locks      *nameLock
	logger     logger.Logger
	metrics    *metrics.Metrics
}

// New wires the pipeline from its stages.
func New(cfg *config.Config, n audio.Normalizer, r recognition.Recognizer, ref refine.Refiner, log logger.Logger, m *metrics.Metrics) Pipeline {
	return &implPipeline{
		cfg:        cfg,
		normalizer: n,
		recognizer: r,
		refiner:    ref,
		store:      newStore(cfg.Paths),
		locks:      newNameLock(),
		logger:     log,
		metrics:    m,
	}
}
