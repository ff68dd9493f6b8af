package main

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/23skdu/tagmatch/internal/distance"
	"github.com/kelseyhightower/envconfig"
)

func TestValidateConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := ValidateConfig(&cfg); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestValidateConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"log format", func(c *Config) { c.LogFormat = "xml" }, ErrInvalidLogFormat},
		{"log level", func(c *Config) { c.LogLevel = "trace" }, ErrInvalidLogLevel},
		{"empty metrics", func(c *Config) { c.Metrics = " , " }, ErrNoMetrics},
		{"cache size", func(c *Config) { c.CovarianceCacheSize = 0 }, ErrInvalidCacheSize},
		{"cache ttl", func(c *Config) { c.CovarianceCacheTTL = -time.Second }, ErrInvalidCacheTTL},
		{"condition limit", func(c *Config) { c.ConditionLimit = 1 }, ErrInvalidConditionLimit},
		{"extract workers", func(c *Config) { c.ExtractWorkers = 0 }, ErrInvalidExtractWorkers},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := ValidateConfig(&cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateConfig_UnknownMetric(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Metrics = "euclidean,cosine"
	if err := ValidateConfig(&cfg); err == nil {
		t.Error("expected error for unknown metric name")
	}
}

func TestConfig_Kinds(t *testing.T) {
	cfg := DefaultConfig()
	kinds := cfg.Kinds()
	if len(kinds) != 4 {
		t.Fatalf("expected 4 kinds, got %d", len(kinds))
	}
	if kinds[3] != distance.KindMahalanobis {
		t.Errorf("expected mahalanobis last, got %s", kinds[3])
	}
}

func TestConfig_EnvDefaults(t *testing.T) {
	var cfg Config
	if err := envconfig.Process("TAGMATCH", &cfg); err != nil {
		t.Fatalf("Failed to process config: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("expected env defaults to match DefaultConfig, got %+v", cfg)
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	_ = os.Setenv("TAGMATCH_METRICS", "chebyshev")
	_ = os.Setenv("TAGMATCH_PARALLEL", "false")
	_ = os.Setenv("TAGMATCH_EXTEND_VOCABULARY", "true")
	_ = os.Setenv("TAGMATCH_COVARIANCE_CACHE_TTL", "5m")
	_ = os.Setenv("TAGMATCH_CONDITION_LIMIT", "1e9")
	defer func() {
		_ = os.Unsetenv("TAGMATCH_METRICS")
		_ = os.Unsetenv("TAGMATCH_PARALLEL")
		_ = os.Unsetenv("TAGMATCH_EXTEND_VOCABULARY")
		_ = os.Unsetenv("TAGMATCH_COVARIANCE_CACHE_TTL")
		_ = os.Unsetenv("TAGMATCH_CONDITION_LIMIT")
	}()

	var cfg Config
	if err := envconfig.Process("TAGMATCH", &cfg); err != nil {
		t.Fatalf("Failed to process config: %v", err)
	}

	if cfg.Metrics != "chebyshev" {
		t.Errorf("Expected Metrics chebyshev, got %s", cfg.Metrics)
	}
	if cfg.Parallel {
		t.Error("Expected Parallel false")
	}
	if !cfg.ExtendVocabulary {
		t.Error("Expected ExtendVocabulary true")
	}
	if cfg.CovarianceCacheTTL != 5*time.Minute {
		t.Errorf("Expected CovarianceCacheTTL 5m, got %v", cfg.CovarianceCacheTTL)
	}
	if cfg.ConditionLimit != 1e9 {
		t.Errorf("Expected ConditionLimit 1e9, got %v", cfg.ConditionLimit)
	}
	opts := cfg.EstimatorOptions()
	if opts.CacheTTL != 5*time.Minute || opts.ConditionLimit != 1e9 {
		t.Errorf("estimator options not mapped: %+v", opts)
	}
}
