package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	LogDir    string `toml:"log_dir"`
	ExportDir string `toml:"export_dir"`
	APIBind   string `toml:"api_bind"`
	APIToken  string `toml:"api_token"`
}

// Capture contains timing and attribution settings for the caption pipeline.
type Capture struct {
	// Platform selects the target site: meet, youtube, teams, or zoom.
	Platform string `toml:"platform"`
	// DebounceMs is the trailing-edge quiet period applied to DOM mutation
	// bursts before a snapshot is processed.
	DebounceMs int `toml:"debounce_ms"`
	// PollIntervalMs is the fallback re-extraction interval for platforms
	// whose caption region does not reliably fire mutation events.
	PollIntervalMs int `toml:"poll_interval_ms"`
	// Diarization opts the platform into heuristic speaker attribution when
	// captions carry no explicit speaker labels.
	Diarization bool `toml:"diarization"`
}

// Browser contains settings for the page the captions are read from.
type Browser struct {
	// ControlURL attaches to an already running Chrome DevTools endpoint.
	// When empty a browser is launched locally.
	ControlURL string `toml:"control_url"`
	Headless   bool   `toml:"headless"`
	// PageTimeout bounds individual page operations, in seconds.
	PageTimeout int `toml:"page_timeout"`
}

// Scriber contains configuration for the companion audio-transcription
// service, an optional higher-fidelity caption source.
type Scriber struct {
	Enabled bool   `toml:"enabled"`
	BaseURL string `toml:"base_url"`
	// PollInterval is how often the daemon fetches the companion transcript,
	// in seconds.
	PollInterval   int `toml:"poll_interval"`
	RequestTimeout int `toml:"request_timeout"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Sessions       bool   `toml:"sessions"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for captive.
//
// Configuration sections by subsystem:
//   - Paths: data/log/export directories and API bind address
//   - Capture: debounce/poll cadence and diarization opt-in
//   - Browser: how the caption page is reached (CDP attach or launch)
//   - Scriber: companion audio transcription service
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Capture       Capture       `toml:"capture"`
	Browser       Browser       `toml:"browser"`
	Scriber       Scriber       `toml:"scriber"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/captive/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The bool result
// reports whether a config file was actually found.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// EnsureDirectories creates required directories for daemon operation.
// ExportDir is created on a best-effort basis so the daemon can run when the
// export target is temporarily unavailable.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.ExportDir) != "" {
		_ = os.MkdirAll(c.Paths.ExportDir, 0o755)
	}
	return nil
}

// DatabasePath returns the path to the session database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "sessions.db")
}

// SocketPath returns the daemon control socket path.
func (c *Config) SocketPath() string {
	return filepath.Join(c.Paths.DataDir, "captived.sock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
