package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCapture()
	c.normalizeBrowser()
	c.normalizeScriber()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ExportDir) == "" {
		c.Paths.ExportDir = defaultExportDir
	}
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	if c.Paths.APIToken == "" {
		if value, ok := os.LookupEnv("CAPTIVE_API_TOKEN"); ok {
			c.Paths.APIToken = strings.TrimSpace(value)
		}
	}
	return nil
}

func (c *Config) normalizeCapture() {
	c.Capture.Platform = strings.ToLower(strings.TrimSpace(c.Capture.Platform))
	if c.Capture.Platform == "" {
		c.Capture.Platform = defaultPlatform
	}
	if c.Capture.DebounceMs <= 0 {
		c.Capture.DebounceMs = defaultDebounceMs
	}
	if c.Capture.PollIntervalMs <= 0 {
		c.Capture.PollIntervalMs = defaultPollIntervalMs
	}
}

func (c *Config) normalizeBrowser() {
	c.Browser.ControlURL = strings.TrimSpace(c.Browser.ControlURL)
	if c.Browser.PageTimeout <= 0 {
		c.Browser.PageTimeout = defaultPageTimeout
	}
}

func (c *Config) normalizeScriber() {
	c.Scriber.BaseURL = strings.TrimRight(strings.TrimSpace(c.Scriber.BaseURL), "/")
	if c.Scriber.BaseURL == "" {
		c.Scriber.BaseURL = defaultScriberBaseURL
	}
	if c.Scriber.PollInterval <= 0 {
		c.Scriber.PollInterval = defaultScriberPollInterval
	}
	if c.Scriber.RequestTimeout <= 0 {
		c.Scriber.RequestTimeout = defaultScriberTimeout
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
