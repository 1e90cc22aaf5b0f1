// Package config holds the wavtouch configuration. Values come from command
// line flags and WAVTOUCH_* environment variables; there is no config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/wavtouch/internal/catalog"
	"github.com/zjrosen/wavtouch/internal/tracing"
	"github.com/zjrosen/wavtouch/internal/ui/kiosk"
	"github.com/zjrosen/wavtouch/internal/ui/styles"
	"github.com/zjrosen/wavtouch/internal/watcher"
)

// EnvPrefix is the environment variable prefix, e.g. WAVTOUCH_FULLSCREEN.
const EnvPrefix = "WAVTOUCH"

// DefaultDiscoveryTTL is how long a discovered LAN server address is reused.
const DefaultDiscoveryTTL = 5 * time.Minute

// Config holds all application configuration.
type Config struct {
	Fullscreen    bool               `mapstructure:"fullscreen" yaml:"fullscreen"`
	Width         int                `mapstructure:"width" yaml:"width"`
	Height        int                `mapstructure:"height" yaml:"height"`
	SoundDir      string             `mapstructure:"sound_dir" yaml:"sound_dir"` // empty uses the built-in cues
	Sources       []string           `mapstructure:"sources" yaml:"sources"`
	Catalog       CatalogConfig      `mapstructure:"catalog" yaml:"catalog"`
	Watch         bool               `mapstructure:"watch" yaml:"watch"`
	WatchDebounce time.Duration      `mapstructure:"watch_debounce" yaml:"watch_debounce"`
	Colors        styles.ColorConfig `mapstructure:"colors" yaml:"colors"`
	Log           LogConfig          `mapstructure:"log" yaml:"log"`
	Trace         tracing.Config     `mapstructure:"trace" yaml:"trace"`
}

// CatalogConfig bounds catalog loading.
type CatalogConfig struct {
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	DiscoveryTTL time.Duration `mapstructure:"discovery_ttl" yaml:"discovery_ttl"`
}

// LogConfig controls the debug log file.
type LogConfig struct {
	Path  string `mapstructure:"path" yaml:"path"` // empty disables logging
	Level string `mapstructure:"level" yaml:"level"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Width:   kiosk.DefaultWidth,
		Height:  kiosk.DefaultHeight,
		Sources: append([]string(nil), catalog.DefaultSources...),
		Catalog: CatalogConfig{
			Timeout:      catalog.DefaultTimeout,
			DiscoveryTTL: DefaultDiscoveryTTL,
		},
		WatchDebounce: watcher.DefaultDebounce,
		Colors: styles.ColorConfig{
			Foreground: styles.DefaultForeground,
			Background: styles.DefaultBackground,
		},
		Log: LogConfig{Level: "info"},
		Trace: tracing.Config{
			Exporter: tracing.ExporterNone,
			Endpoint: tracing.DefaultEndpoint,
		},
	}
}

// SetDefaults registers every key with v so that environment variables
// are picked up for all of them.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("fullscreen", d.Fullscreen)
	v.SetDefault("width", d.Width)
	v.SetDefault("height", d.Height)
	v.SetDefault("sound_dir", d.SoundDir)
	v.SetDefault("sources", d.Sources)
	v.SetDefault("catalog.timeout", d.Catalog.Timeout)
	v.SetDefault("catalog.discovery_ttl", d.Catalog.DiscoveryTTL)
	v.SetDefault("watch", d.Watch)
	v.SetDefault("watch_debounce", d.WatchDebounce)
	v.SetDefault("colors.foreground", d.Colors.Foreground)
	v.SetDefault("colors.background", d.Colors.Background)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("trace.exporter", d.Trace.Exporter)
	v.SetDefault("trace.endpoint", d.Trace.Endpoint)
	v.SetDefault("trace.path", d.Trace.Path)
}

// NewViper returns a viper instance wired to the WAVTOUCH_* environment.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if len(cfg.Sources) == 0 {
		cfg.Sources = append([]string(nil), catalog.DefaultSources...)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if !c.Fullscreen && (c.Width <= 0 || c.Height <= 0) {
		return fmt.Errorf("windowed size must be positive (got %dx%d)", c.Width, c.Height)
	}
	for i, s := range c.Sources {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("source %d is empty", i)
		}
	}
	if c.Catalog.Timeout < 0 {
		return fmt.Errorf("catalog.timeout must not be negative")
	}
	if c.Catalog.DiscoveryTTL < 0 {
		return fmt.Errorf("catalog.discovery_ttl must not be negative")
	}
	if c.WatchDebounce < 0 {
		return fmt.Errorf("watch_debounce must not be negative")
	}
	if err := styles.ValidateColor(c.Colors.Foreground); err != nil {
		return fmt.Errorf("colors.foreground: %w", err)
	}
	if err := styles.ValidateColor(c.Colors.Background); err != nil {
		return fmt.Errorf("colors.background: %w", err)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not one of trace, debug, info, warn, error", c.Log.Level)
	}
	return c.Trace.Validate()
}

// LocalSources returns the sources that name local directories.
func (c Config) LocalSources() []string {
	var out []string
	for _, s := range c.Sources {
		if !catalog.IsRemote(s) {
			out = append(out, s)
		}
	}
	return out
}

// YAML renders the configuration for display.
func (c Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	return string(out), nil
}
