// Package config handles configuration management using Viper
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	// Capture configuration
	Capture CaptureConfig `mapstructure:"capture"`

	// Layout configuration
	Layout LayoutConfig `mapstructure:"layout"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// CaptureConfig contains keyboard capture settings
type CaptureConfig struct {
	AllKeyboards  bool     `mapstructure:"all_keyboards"`  // Capture every keyboard instead of the primary one
	IgnoredKeys   []string `mapstructure:"ignored_keys"`   // Key names to drop at the source, e.g. ["KEY_CAPSLOCK"]
	ChannelSize   int      `mapstructure:"channel_size"`   // Event channel capacity before drops
	ShowModifiers bool     `mapstructure:"show_modifiers"` // Include bare modifier presses in the output
}

// LayoutConfig contains keyboard layout settings
type LayoutConfig struct {
	Default string `mapstructure:"default"` // Layout name used when the compositor cannot be queried
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	LogLevel string `mapstructure:"log_level"` // Override LOG_LEVEL env var
}

var (
	// DefaultConfig provides sensible defaults
	DefaultConfig = Config{
		Capture: CaptureConfig{
			AllKeyboards:  true,
			IgnoredKeys:   []string{},
			ChannelSize:   256,
			ShowModifiers: true,
		},
		Layout: LayoutConfig{
			Default: "",
		},
		Logging: LoggingConfig{
			LogLevel: "", // Empty means use LOG_LEVEL env var
		},
	}

	// Global config instance
	cfg *Config

	// Override config path if set
	configPathOverride string
)

// SetConfigPath allows overriding the config path
func SetConfigPath(path string) {
	configPathOverride = path
}

// Init initializes the configuration system
func Init() error {
	viper.SetConfigName("keymon")
	viper.SetConfigType("toml")

	if configPathOverride != "" {
		viper.SetConfigFile(configPathOverride)
	} else {
		viper.AddConfigPath(filepath.Join(xdg.ConfigHome, "keymon"))
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("KEYMON")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("capture.all_keyboards", DefaultConfig.Capture.AllKeyboards)
	viper.SetDefault("capture.ignored_keys", DefaultConfig.Capture.IgnoredKeys)
	viper.SetDefault("capture.channel_size", DefaultConfig.Capture.ChannelSize)
	viper.SetDefault("capture.show_modifiers", DefaultConfig.Capture.ShowModifiers)

	viper.SetDefault("layout.default", DefaultConfig.Layout.Default)

	viper.SetDefault("logging.log_level", DefaultConfig.Logging.LogLevel)

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults
	}

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return cfg.Validate()
}

// Get returns the current configuration
func Get() *Config {
	if cfg == nil {
		// Return defaults if not initialized
		return &DefaultConfig
	}
	return cfg
}

// Set sets the current configuration (for testing)
func Set(c *Config) {
	cfg = c
}

// Validate rejects values that cannot work at runtime.
func (c *Config) Validate() error {
	if c.Capture.ChannelSize <= 0 {
		return fmt.Errorf("capture.channel_size must be greater than 0, got %d", c.Capture.ChannelSize)
	}
	return nil
}

// Save saves the current configuration to file
func Save() error {
	configPath := GetConfigPath()

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// CreateDefaultIfMissing writes the default config file on first run.
func CreateDefaultIfMissing() error {
	configPath := GetConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}
	return Save()
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}

	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}

	return filepath.Join(xdg.ConfigHome, "keymon", "keymon.toml")
}
