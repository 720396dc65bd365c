package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// knownPlatforms mirrors the platform identifiers understood by the selector
// resolver. Kept here as plain strings so config stays a leaf package.
var knownPlatforms = []string{"meet", "youtube", "teams", "zoom"}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCapture(); err != nil {
		return err
	}
	if err := c.validateAPIBind(); err != nil {
		return err
	}
	if err := c.validateScriber(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCapture() error {
	for _, name := range knownPlatforms {
		if c.Capture.Platform == name {
			return nil
		}
	}
	return fmt.Errorf("capture.platform must be one of %s", strings.Join(knownPlatforms, ", "))
}

func (c *Config) validateAPIBind() error {
	if _, _, err := net.SplitHostPort(c.Paths.APIBind); err != nil {
		return fmt.Errorf("paths.api_bind: %w", err)
	}
	return nil
}

func (c *Config) validateScriber() error {
	if !c.Scriber.Enabled {
		return nil
	}
	parsed, err := url.Parse(c.Scriber.BaseURL)
	if err != nil {
		return fmt.Errorf("scriber.base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.New("scriber.base_url must be an http or https URL")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
