package testsupport

import (
	"path/filepath"
	"testing"

	"captive/internal/config"
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
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.ExportDir = filepath.Join(base, "exports")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Notifications.NtfyTopic = ""

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

// WithPlatform overrides the capture platform on the test config.
func WithPlatform(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Capture.Platform = name
	}
}

// WithDiarization opts the test config into heuristic speaker attribution.
func WithDiarization() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Capture.Diarization = true
	}
}

// WithAPIToken sets the bearer token required by the HTTP API.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.APIToken = token
	}
}
