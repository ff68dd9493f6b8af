package main

import (
	"errors"
	"time"

	"github.com/23skdu/tagmatch/internal/covariance"
	"github.com/23skdu/tagmatch/internal/distance"
)

// Config is read from TAGMATCH_* environment variables.
type Config struct {
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// Metrics is a comma separated list of metric names to evaluate.
	Metrics  string `envconfig:"METRICS" default:"euclidean,manhattan,chebyshev,mahalanobis"`
	Parallel bool   `envconfig:"PARALLEL" default:"true"`

	// ExtendVocabulary adds the query's labels to the vocabulary instead of
	// dropping the ones the corpus has never seen.
	ExtendVocabulary bool `envconfig:"EXTEND_VOCABULARY" default:"false"`

	CovarianceCacheSize int           `envconfig:"COVARIANCE_CACHE_SIZE" default:"16"`
	CovarianceCacheTTL  time.Duration `envconfig:"COVARIANCE_CACHE_TTL" default:"0s"`
	ConditionLimit      float64       `envconfig:"CONDITION_LIMIT" default:"1e12"`

	ExtractWorkers int `envconfig:"EXTRACT_WORKERS" default:"4"`

	// MetricsAddr serves Prometheus metrics when set.
	MetricsAddr string `envconfig:"METRICS_ADDR" default:""`
}

// Config validation errors
var (
	ErrInvalidLogFormat      = errors.New("log_format must be 'json' or 'console'")
	ErrInvalidLogLevel       = errors.New("log_level must be debug, info, warn, or error")
	ErrNoMetrics             = errors.New("metrics must name at least one metric")
	ErrInvalidCacheSize      = errors.New("covariance_cache_size must be positive")
	ErrInvalidCacheTTL       = errors.New("covariance_cache_ttl must not be negative")
	ErrInvalidConditionLimit = errors.New("condition_limit must be greater than 1")
	ErrInvalidExtractWorkers = errors.New("extract_workers must be positive")
)

// ValidateConfig validates the configuration and returns an error if invalid
func ValidateConfig(cfg *Config) error {
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return ErrInvalidLogFormat
	}
	if cfg.LogLevel != "debug" && cfg.LogLevel != "info" && cfg.LogLevel != "warn" && cfg.LogLevel != "error" {
		return ErrInvalidLogLevel
	}
	kinds, err := distance.ParseKinds(cfg.Metrics)
	if err != nil {
		return err
	}
	if len(kinds) == 0 {
		return ErrNoMetrics
	}
	if cfg.CovarianceCacheSize <= 0 {
		return ErrInvalidCacheSize
	}
	if cfg.CovarianceCacheTTL < 0 {
		return ErrInvalidCacheTTL
	}
	if cfg.ConditionLimit <= 1 {
		return ErrInvalidConditionLimit
	}
	if cfg.ExtractWorkers <= 0 {
		return ErrInvalidExtractWorkers
	}
	return nil
}

// DefaultConfig returns a Config with default values
func DefaultConfig() Config {
	return Config{
		LogLevel:            "info",
		LogFormat:           "json",
		Metrics:             "euclidean,manhattan,chebyshev,mahalanobis",
		Parallel:            true,
		ExtendVocabulary:    false,
		CovarianceCacheSize: 16,
		CovarianceCacheTTL:  0,
		ConditionLimit:      covariance.DefaultConditionLimit,
		ExtractWorkers:      4,
		MetricsAddr:         "",
	}
}

// Kinds returns the parsed metric list. Call ValidateConfig first.
func (c *Config) Kinds() []distance.Kind {
	kinds, _ := distance.ParseKinds(c.Metrics)
	return kinds
}

// EstimatorOptions maps the covariance settings onto the estimator.
func (c *Config) EstimatorOptions() covariance.Options {
	return covariance.Options{
		CacheCapacity:  c.CovarianceCacheSize,
		CacheTTL:       c.CovarianceCacheTTL,
		ConditionLimit: c.ConditionLimit,
	}
}
