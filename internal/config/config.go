package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	Paths       PathsConfig       `yaml:"paths"`
	Audio       AudioConfig       `yaml:"audio"`
	Recognition RecognitionConfig `yaml:"recognition"`
	Refine      RefineConfig      `yaml:"refine"`
	Export      ExportConfig      `yaml:"export"`
	Logging     LoggingConfig     `yaml:"logging"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Performance PerformanceConfig `yaml:"performance"`
}

type PathsConfig struct {
	Inbox       string `yaml:"inbox"`
	Recordings  string `yaml:"recordings"`
	Transcripts string `yaml:"transcripts"`
	Exports     string `yaml:"exports"`
	Archived    string `yaml:"archived"`
	Temp        string `yaml:"temp"`
}

type AudioConfig struct {
	MinInputBytes int `yaml:"min_input_bytes"`
}

type RecognitionConfig struct {
	Endpoint          string `yaml:"endpoint"`
	APIKey            string `yaml:"-"`
	Language          string `yaml:"language"`
	AttemptTimeout    int    `yaml:"attempt_timeout"`    // seconds
	TimeoutWidening   int    `yaml:"timeout_widening"`   // seconds, added per retry
	MaxAttempts       int    `yaml:"max_attempts"`
	RetryBackoff      int    `yaml:"retry_backoff"`      // seconds
	CalibrationWindow int    `yaml:"calibration_window"` // milliseconds
}

type RefineConfig struct {
	Model       string   `yaml:"model"`
	APIKeys     []string `yaml:"-"`
	AutoImprove bool     `yaml:"auto_improve"`
	AutoSummary bool     `yaml:"auto_summary"`
	Instruction string   `yaml:"instruction"`
}

type ExportConfig struct {
	Formats []string `yaml:"formats"`
	Title   string   `yaml:"title"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

type PerformanceConfig struct {
	MaxConcurrent int    `yaml:"max_concurrent"`
	DefaultOwner  string `yaml:"default_owner"`
}

func (c *Config) Validate() error {
	if c.Paths.Inbox == "" {
		return fmt.Errorf("paths.inbox is required")
	}
	if c.Paths.Recordings == "" {
		return fmt.Errorf("paths.recordings is required")
	}
	if c.Paths.Transcripts == "" {
		return fmt.Errorf("paths.transcripts is required")
	}
	if c.Recognition.Endpoint == "" {
		return fmt.Errorf("recognition.endpoint is required")
	}
	if c.Recognition.MaxAttempts < 0 {
		return fmt.Errorf("recognition.max_attempts must not be negative, got %d", c.Recognition.MaxAttempts)
	}

	if c.Paths.Exports == "" {
		c.Paths.Exports = "data/exports"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = os.TempDir()
	}
	if c.Audio.MinInputBytes == 0 {
		c.Audio.MinInputBytes = 1000
	}
	if c.Recognition.Language == "" {
		c.Recognition.Language = "pt-BR"
	}
	if c.Recognition.AttemptTimeout == 0 {
		c.Recognition.AttemptTimeout = 45
	}
	if c.Recognition.TimeoutWidening == 0 {
		c.Recognition.TimeoutWidening = 15
	}
	if c.Recognition.MaxAttempts == 0 {
		c.Recognition.MaxAttempts = 3
	}
	if c.Recognition.RetryBackoff == 0 {
		c.Recognition.RetryBackoff = 2
	}
	if c.Recognition.CalibrationWindow == 0 {
		c.Recognition.CalibrationWindow = 500
	}
	if c.Refine.Model == "" {
		c.Refine.Model = "gemini-2.5-flash"
	}
	if len(c.Export.Formats) == 0 {
		c.Export.Formats = []string{"pdf", "docx"}
	}
	for _, f := range c.Export.Formats {
		if f != "pdf" && f != "docx" {
			return fmt.Errorf("export.formats: unsupported format %q", f)
		}
	}
	if c.Export.Title == "" {
		c.Export.Title = "Resumo da Consulta"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Metrics.Address == "" {
		c.Metrics.Address = ":9109"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Performance.DefaultOwner == "" {
		c.Performance.DefaultOwner = "default"
	}

	return nil
}

// GetAttemptTimeout returns the base per-attempt recognition deadline.
func (r *RecognitionConfig) GetAttemptTimeout() time.Duration {
	return time.Duration(r.AttemptTimeout) * time.Second
}

// GetTimeoutWidening returns the deadline extension applied on each retry.
func (r *RecognitionConfig) GetTimeoutWidening() time.Duration {
	return time.Duration(r.TimeoutWidening) * time.Second
}

// GetRetryBackoff returns the pause between recognition attempts.
func (r *RecognitionConfig) GetRetryBackoff() time.Duration {
	return time.Duration(r.RetryBackoff) * time.Second
}

// GetCalibrationWindow returns the ambient-noise calibration window.
func (r *RecognitionConfig) GetCalibrationWindow() time.Duration {
	return time.Duration(r.CalibrationWindow) * time.Millisecond
}

// applyEnv overlays secrets that never belong in the config file.
func (c *Config) applyEnv() {
	if v := os.Getenv("SPEECH_API_KEY"); v != "" {
		c.Recognition.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEYS"); v != "" {
		for _, key := range strings.Split(v, ",") {
			if key = strings.TrimSpace(key); key != "" {
				c.Refine.APIKeys = append(c.Refine.APIKeys, key)
			}
		}
	} else if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Refine.APIKeys = []string{v}
	}
}
