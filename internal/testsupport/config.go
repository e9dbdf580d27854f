package testsupport

import (
	"path/filepath"
	"testing"

	"folio/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Database.Path = filepath.Join(base, "catalog.db")
	cfgVal.Logging.Dir = filepath.Join(base, "logs")
	cfgVal.Dedupe.Workers = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithWorkers overrides the dedupe pool size.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Dedupe.Workers = n
	}
}

// WithLimit caps the number of groups selected per run.
func WithLimit(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Dedupe.Limit = n
	}
}

// WithoutConversion disables the identifier codec pre-pass.
func WithoutConversion() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Dedupe.ConvertISBNs = false
	}
}

// WithMetricsTextfile enables the metrics export under the temp directory.
func WithMetricsTextfile(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Metrics.Textfile = filepath.Join(b.baseDir, "metrics", name)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Database.Path)
}
