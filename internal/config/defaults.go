package config

const (
	defaultDataDir              = "~/.local/share/captive"
	defaultLogDir               = "~/.local/share/captive/logs"
	defaultExportDir            = "~/transcripts"
	defaultAPIBind              = "127.0.0.1:7519"
	defaultPlatform             = "meet"
	defaultDebounceMs           = 500
	defaultPollIntervalMs       = 500
	defaultPageTimeout          = 30
	defaultScriberBaseURL       = "http://127.0.0.1:5000"
	defaultScriberPollInterval  = 5
	defaultScriberTimeout       = 10
	defaultNotifyRequestTimeout = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			ExportDir: defaultExportDir,
			APIBind:   defaultAPIBind,
		},
		Capture: Capture{
			Platform:       defaultPlatform,
			DebounceMs:     defaultDebounceMs,
			PollIntervalMs: defaultPollIntervalMs,
			Diarization:    true,
		},
		Browser: Browser{
			Headless:    false,
			PageTimeout: defaultPageTimeout,
		},
		Scriber: Scriber{
			Enabled:        false,
			BaseURL:        defaultScriberBaseURL,
			PollInterval:   defaultScriberPollInterval,
			RequestTimeout: defaultScriberTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Sessions:       true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
