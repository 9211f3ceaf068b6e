// Package config provides configuration types and defaults for regdash.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zjrosen/regdash/internal/log"
)

// Config holds all configuration options for regdash.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Form    FormConfig    `mapstructure:"form"`
	UI      UIConfig      `mapstructure:"ui"`
	Theme   ThemeConfig   `mapstructure:"theme"`
	Log     LogConfig     `mapstructure:"log"`
	Tracing TracingConfig `mapstructure:"tracing"`
	Server  ServerConfig  `mapstructure:"server"`
}

// APIConfig configures the HTTP client talking to the auth API.
type APIConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	UserCacheTTL time.Duration `mapstructure:"user_cache_ttl"` // 0 disables the user cache
}

// FormConfig holds registration form behavior.
type FormConfig struct {
	Debounce time.Duration `mapstructure:"debounce"` // Revalidation delay after edits
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	MarkdownStyle string `mapstructure:"markdown_style"` // "dark" (default) or "light"
	Mouse         bool   `mapstructure:"mouse"`          // Clickable buttons
}

// ThemeConfig holds color overrides. Empty values keep the built-in colors.
type ThemeConfig struct {
	Accent  string `mapstructure:"accent"`
	Muted   string `mapstructure:"muted"`
	Error   string `mapstructure:"error"`
	Success string `mapstructure:"success"`
}

// LogConfig holds debug logging options.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// TracingConfig holds distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	Enabled bool `mapstructure:"enabled"`

	// Exporter selects the trace export backend.
	// Options: "none", "file", "stdout", "otlp"
	Exporter string `mapstructure:"exporter"`

	// FilePath is the output file for "file" exporter.
	// Default: ~/.config/regdash/traces/traces.jsonl
	FilePath string `mapstructure:"file_path"`

	// OTLPEndpoint is the collector endpoint for "otlp" exporter.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// SampleRate controls trace sampling (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate"`
}

// ServerConfig configures `regdash serve`, the stand-in auth API.
type ServerConfig struct {
	Addr          string        `mapstructure:"addr"`
	DBPath        string        `mapstructure:"db_path"`
	SessionSecret string        `mapstructure:"session_secret"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/regdash/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "regdash", "traces", "traces.jsonl")
}

// DefaultDBPath returns the default sqlite path for the stand-in server.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "regdash.db"
	}
	return filepath.Join(home, ".regdash", "regdash.db")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL:      "http://localhost:8000",
			Timeout:      10 * time.Second,
			UserCacheTTL: 30 * time.Second,
		},
		Form: FormConfig{
			Debounce: 500 * time.Millisecond,
		},
		UI: UIConfig{
			MarkdownStyle: "dark",
			Mouse:         true,
		},
		Log: LogConfig{
			Path:  "debug.log",
			Level: "debug",
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
		Server: ServerConfig{
			Addr:       "127.0.0.1:8000",
			DBPath:     DefaultDBPath(),
			SessionTTL: 2 * time.Hour,
		},
	}
}

// Validate checks the configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func Validate(c Config) error {
	if err := ValidateAPI(c.API); err != nil {
		return err
	}
	if c.Form.Debounce < 0 {
		return fmt.Errorf("form.debounce must not be negative")
	}
	switch c.UI.MarkdownStyle {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", c.UI.MarkdownStyle)
	}
	return ValidateTracing(c.Tracing)
}

// ValidateAPI checks the API client configuration.
func ValidateAPI(api APIConfig) error {
	if api.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(api.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("api.base_url must include a host")
	}
	if api.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if !tracing.Enabled {
		return nil
	}
	switch tracing.Exporter {
	case "", "none", "file", "stdout", "otlp":
	default:
		return fmt.Errorf("tracing.exporter must be one of none, file, stdout, otlp; got %q", tracing.Exporter)
	}
	if tracing.SampleRate < 0 || tracing.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}
	return nil
}

// ValidateServer checks the stand-in server configuration.
func ValidateServer(s ServerConfig) error {
	if s.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if s.DBPath == "" {
		return fmt.Errorf("server.db_path is required")
	}
	if s.SessionSecret != "" && len(s.SessionSecret) < 32 {
		return fmt.Errorf("server.session_secret must be at least 32 bytes")
	}
	if s.SessionTTL <= 0 {
		return fmt.Errorf("server.session_ttl must be positive")
	}
	return nil
}

// NormalizeBaseURL trims trailing slashes so paths can be appended.
func NormalizeBaseURL(base string) string {
	return strings.TrimRight(base, "/")
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# regdash configuration

# Auth API the TUI registers against.
# Run 'regdash serve' to start a local stand-in on the default address.
api:
  base_url: http://localhost:8000
  timeout: 10s          # Per-request timeout
  user_cache_ttl: 30s   # How long the signed-in user is cached (0 disables)

# Registration form
form:
  debounce: 500ms       # Revalidation delay after an edit while errors are shown

# UI settings
ui:
  markdown_style: dark  # Help overlay rendering style: "dark" (default) or "light"
  mouse: true           # Click buttons with the mouse

# Theme overrides (hex colors). Edits are applied live.
theme:
  # accent: "#54A0FF"
  # muted: "#696969"
  # error: "#FF8787"
  # success: "#73F59F"

# Debug logging (enable with --debug or REGDASH_DEBUG=1)
log:
  path: debug.log
  level: debug          # debug, info, warn, error

# Distributed tracing for API calls
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/regdash/traces/traces.jsonl
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)

# Stand-in auth API ('regdash serve')
server:
  addr: 127.0.0.1:8000
  # db_path: ~/.regdash/regdash.db
  # session_secret: change-me-to-at-least-32-random-bytes
  session_ttl: 2h
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
