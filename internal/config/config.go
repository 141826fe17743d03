package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ButtonOffset displaces the window-control buttons from their default
// frames. Y moves them toward the top edge, X toward the right.
type ButtonOffset struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// LoggingConfig controls daemon logging.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `yaml:"level"`
}

// Config is the effective winchrome configuration.
type Config struct {
	// WidthRatio is the initial window width as a fraction of the screen
	// width. Values outside [0.1, 1.0] are clamped, never rejected.
	WidthRatio float64 `yaml:"width_ratio"`

	ButtonOffset ButtonOffset `yaml:"button_offset"`

	// CornerRadius rounds the content view; 0 disables it.
	CornerRadius float64 `yaml:"corner_radius"`

	// QuietPeriodMS is the debounce quiet period for platforms that only
	// deliver resize ticks.
	QuietPeriodMS int `yaml:"quiet_period_ms"`

	// MaxWidth/MaxHeight cap the planned window size regardless of the
	// screen; 0 means unlimited.
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`

	Logging LoggingConfig `yaml:"logging"`
}

const (
	DefaultWidthRatio    = 0.8
	DefaultOffsetX       = 12
	DefaultOffsetY       = 10
	DefaultCornerRadius  = 12.0
	DefaultQuietPeriodMS = 80
	DefaultMaxWidth      = 2800
	DefaultMaxHeight     = 1750
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		WidthRatio:    DefaultWidthRatio,
		ButtonOffset:  ButtonOffset{X: DefaultOffsetX, Y: DefaultOffsetY},
		CornerRadius:  DefaultCornerRadius,
		QuietPeriodMS: DefaultQuietPeriodMS,
		MaxWidth:      DefaultMaxWidth,
		MaxHeight:     DefaultMaxHeight,
		Logging:       LoggingConfig{Level: "info"},
	}
}

// DefaultConfigPath returns the standard config file location.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "winchrome", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing file
// yields the defaults; a malformed file is an error.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads configuration from an explicit path, merging it over
// the defaults and normalizing the result.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.Normalize()
	return cfg, nil
}

// LoadRaw reads configuration without normalizing, so Validate can report
// what Normalize would fix.
func LoadRaw(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// Normalize clamps out-of-range values in place. Styling configuration is
// advisory: bad values are corrected, not rejected.
func (c *Config) Normalize() {
	if c.WidthRatio < 0.1 {
		c.WidthRatio = 0.1
	}
	if c.WidthRatio > 1.0 {
		c.WidthRatio = 1.0
	}
	if c.CornerRadius < 0 {
		c.CornerRadius = 0
	}
	if c.QuietPeriodMS <= 0 {
		c.QuietPeriodMS = DefaultQuietPeriodMS
	}
	if c.MaxWidth < 0 {
		c.MaxWidth = 0
	}
	if c.MaxHeight < 0 {
		c.MaxHeight = 0
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		c.Logging.Level = "info"
	}
}

// QuietPeriod returns the debounce quiet period as a duration.
func (c *Config) QuietPeriod() time.Duration {
	return time.Duration(c.QuietPeriodMS) * time.Millisecond
}

// Validate reports problems that Normalize would fix, for `config validate`.
func (c *Config) Validate() []string {
	var problems []string
	if c.WidthRatio < 0.1 || c.WidthRatio > 1.0 {
		problems = append(problems, fmt.Sprintf("width_ratio %.2f outside [0.1, 1.0] (will be clamped)", c.WidthRatio))
	}
	if c.CornerRadius < 0 {
		problems = append(problems, "corner_radius is negative (will be treated as 0)")
	}
	if c.QuietPeriodMS <= 0 {
		problems = append(problems, fmt.Sprintf("quiet_period_ms must be positive (default %d applies)", DefaultQuietPeriodMS))
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("unknown logging level %q (info applies)", c.Logging.Level))
	}
	return problems
}
