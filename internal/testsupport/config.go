package testsupport

import (
	"path/filepath"
	"testing"

	"ocrprep/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithEvalEveryN enables the eval split on the test config.
func WithEvalEveryN(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Dataset.EvalEveryN = n
	}
}

// WithMissingImagePolicy overrides the missing-image policy on the test config.
func WithMissingImagePolicy(policy string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Dataset.MissingImagePolicy = policy
	}
}
