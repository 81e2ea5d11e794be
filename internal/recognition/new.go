package recognition

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/medvoz/medscribe/internal/logger"
	"github.com/medvoz/medscribe/internal/metrics"
)

// Config contains recognition client configuration.
type Config struct {
	Endpoint string
	APIKey   string
	Language string

	// AttemptTimeout is the deadline for the first recognition attempt.
	// Each retry after a timeout widens the deadline by TimeoutWidening.
	AttemptTimeout  time.Duration
	TimeoutWidening time.Duration
	RetryBackoff    time.Duration
	MaxAttempts     int

	// CalibrationWindow is how much leading audio the noise floor
	// estimate reads.
	CalibrationWindow time.Duration
}

type implRecognizer struct {
	cfg        Config
	requestURL string
	httpClient *http.Client
	logger     logger.Logger
	metrics    *metrics.Metrics
}

// New creates a Recognizer backed by the external speech service.
func New(cfg Config, log logger.Logger, m *metrics.Metrics) (Recognizer, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("recognition endpoint cannot be empty")
	}
	if cfg.Language == "" {
		cfg.Language = "pt-BR"
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = 45 * time.Second
	}
	if cfg.TimeoutWidening < 0 {
		cfg.TimeoutWidening = 0
	}
	if cfg.RetryBackoff < 0 {
		cfg.RetryBackoff = 0
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.CalibrationWindow <= 0 {
		cfg.CalibrationWindow = 500 * time.Millisecond
	}

	endpoint, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse recognition endpoint: %w", err)
	}
	query := endpoint.Query()
	query.Set("client", "medscribe")
	query.Set("lang", cfg.Language)
	if cfg.APIKey != "" {
		query.Set("key", cfg.APIKey)
	}
	endpoint.RawQuery = query.Encode()

	// No Timeout on the client itself: each attempt carries its own
	// context deadline, widened per retry.
	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &implRecognizer{
		cfg:        cfg,
		requestURL: endpoint.String(),
		httpClient: httpClient,
		logger:     log,
		metrics:    m,
	}, nil
}
