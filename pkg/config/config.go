package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/unklstewy/adsb-viewer/pkg/coordinates"
	"github.com/unklstewy/adsb-viewer/pkg/display"
	"github.com/unklstewy/adsb-viewer/pkg/feed"
	"github.com/unklstewy/adsb-viewer/pkg/track"
)

// Config represents the complete viewer configuration.
type Config struct {
	Feed      FeedConfig      `json:"feed"`
	Display   DisplayConfig   `json:"display"`
	Reference ReferenceConfig `json:"reference"`
	Log       LogConfig       `json:"log"`
}

// FeedConfig contains the SBS-1 feed connection settings.
type FeedConfig struct {
	// Host is the feed hostname (default: "localhost")
	Host string `json:"host"`

	// Port is the BaseStation output port (default: 30003)
	Port int `json:"port"`

	// DialTimeoutSeconds bounds a single connection attempt
	DialTimeoutSeconds int `json:"dial_timeout_seconds"`

	// MaxRetries is the number of reconnect attempts after the first failure
	MaxRetries int `json:"max_retries"`

	// InitialBackoffMs is the delay before the first retry in milliseconds
	InitialBackoffMs int `json:"initial_backoff_ms"`

	// MaxBackoffMs caps the exponential backoff in milliseconds
	MaxBackoffMs int `json:"max_backoff_ms"`
}

// DisplayConfig contains table rendering settings.
type DisplayConfig struct {
	// Backend is "screen" (tcell, default) or "ansi" (plain escape sequences)
	Backend string `json:"backend"`

	// EmphasisSeconds is how long after its last contact a row stays bold
	EmphasisSeconds int `json:"emphasis_seconds"`

	// TrendThreshold is the mean altitude change per position report above
	// which an aircraft counts as climbing or descending.
	// Same unit as the altitude reported by the feed.
	TrendThreshold float64 `json:"trend_threshold"`
}

// ReferenceConfig is the observer location that distance and bearing are
// measured from. The Dist/Brg columns are shown only when enabled.
type ReferenceConfig struct {
	Enabled bool `json:"enabled"`

	// Latitude in decimal degrees (-90 to +90)
	Latitude float64 `json:"latitude"`

	// Longitude in decimal degrees (-180 to +180)
	Longitude float64 `json:"longitude"`
}

// LogConfig controls the structured log file. The terminal is never logged to.
type LogConfig struct {
	Enabled bool `json:"enabled"`

	// Level is one of debug, info, warn, error (default: info)
	Level string `json:"level"`

	// Dir is the directory the rotating log file is written to
	Dir string `json:"dir"`
}

// Load reads configuration from a JSON file. Fields missing from the file
// keep their defaults; if the file doesn't exist, the defaults are returned.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := cfg.applyEnvironmentOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a JSON file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns a configuration for a local dump1090 feed.
func DefaultConfig() *Config {
	retry := feed.DefaultRetryConfig()
	return &Config{
		Feed: FeedConfig{
			Host:               feed.DefaultHost,
			Port:               feed.DefaultPort,
			DialTimeoutSeconds: int(feed.DefaultDialTimeout / time.Second),
			MaxRetries:         retry.MaxRetries,
			InitialBackoffMs:   int(retry.InitialDelay / time.Millisecond),
			MaxBackoffMs:       int(retry.MaxDelay / time.Millisecond),
		},
		Display: DisplayConfig{
			Backend:         display.BackendScreen,
			EmphasisSeconds: int(display.DefaultEmphasisWindow / time.Second),
			TrendThreshold:  track.DefaultTrendThreshold,
		},
		Log: LogConfig{
			Enabled: false,
			Level:   "info",
			Dir:     filepath.Join(os.TempDir(), "adsb-viewer"),
		},
	}
}

// Validate checks the configuration for values the viewer cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Feed.Host) == "" {
		return fmt.Errorf("feed host must not be empty")
	}
	if c.Feed.Port <= 0 || c.Feed.Port > 65535 {
		return fmt.Errorf("feed port %d out of range", c.Feed.Port)
	}
	if c.Feed.MaxRetries < 0 {
		return fmt.Errorf("feed max_retries must not be negative")
	}
	if c.Feed.InitialBackoffMs < 0 || c.Feed.MaxBackoffMs < 0 {
		return fmt.Errorf("feed backoff must not be negative")
	}

	switch c.Display.Backend {
	case display.BackendScreen, display.BackendANSI:
	default:
		return fmt.Errorf("unknown display backend %q", c.Display.Backend)
	}
	if c.Display.EmphasisSeconds <= 0 {
		return fmt.Errorf("display emphasis_seconds must be positive")
	}
	if c.Display.TrendThreshold <= 0 {
		return fmt.Errorf("display trend_threshold must be positive")
	}

	if c.Reference.Enabled {
		if _, err := coordinates.NewReference(c.Reference.Latitude, c.Reference.Longitude); err != nil {
			return fmt.Errorf("invalid reference location: %w", err)
		}
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// FeedSettings converts the feed section for feed.Dial.
func (c *Config) FeedSettings() feed.Config {
	retry := feed.DefaultRetryConfig()
	retry.MaxRetries = c.Feed.MaxRetries
	retry.InitialDelay = time.Duration(c.Feed.InitialBackoffMs) * time.Millisecond
	retry.MaxDelay = time.Duration(c.Feed.MaxBackoffMs) * time.Millisecond

	return feed.Config{
		Host:        c.Feed.Host,
		Port:        c.Feed.Port,
		DialTimeout: time.Duration(c.Feed.DialTimeoutSeconds) * time.Second,
		Retry:       retry,
	}
}

// EmphasisWindow returns the emphasis duration.
func (c *Config) EmphasisWindow() time.Duration {
	return time.Duration(c.Display.EmphasisSeconds) * time.Second
}

// ReferenceLocation returns the configured reference, or nil when disabled.
func (c *Config) ReferenceLocation() (*coordinates.Reference, error) {
	if !c.Reference.Enabled {
		return nil, nil
	}
	ref, err := coordinates.NewReference(c.Reference.Latitude, c.Reference.Longitude)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

// ParseLevel converts a level name to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() error {
	if host := os.Getenv("ADSB_VIEWER_HOST"); host != "" {
		c.Feed.Host = host
	}
	if port := os.Getenv("ADSB_VIEWER_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid ADSB_VIEWER_PORT %q: %w", port, err)
		}
		c.Feed.Port = p
	}
	if level := os.Getenv("ADSB_VIEWER_LOG_LEVEL"); level != "" {
		c.Log.Level = level
		c.Log.Enabled = true
	}
	return nil
}
