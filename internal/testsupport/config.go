package testsupport

import (
	"path/filepath"
	"testing"

	"innkeeper/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a default config whose log directory lives in a unique
// temp directory per test. Options are applied in order.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Logging.Dir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithKeywords overrides the text chunk keyword priority list.
func WithKeywords(keywords ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Parser.Keywords = keywords
	}
}

// WithWorkers sets the library scan concurrency.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Library.Workers = n
	}
}

// WithMaxContainerMiB sets the card file size limit.
func WithMaxContainerMiB(mib int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Parser.MaxContainerMiB = mib
	}
}

// WithoutLogDir disables file logging.
func WithoutLogDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.Dir = ""
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Logging.Dir)
}
