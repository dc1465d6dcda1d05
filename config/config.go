package config

import (
	"fmt"
	"os"
	"path/filepath"

	"figBrowser/figure"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	configName = ".figBrowser"
	envPrefix  = "FIGBROWSER"
)

type Config struct {
	SaveDirectory string `mapstructure:"save_directory"`

	ThumbnailWidth     int `mapstructure:"thumbnail_width"`
	ThumbnailHeight    int `mapstructure:"thumbnail_height"`
	ThumbnailCacheSize int `mapstructure:"thumbnail_cache_size"`

	MaxFigureSize   int64 `mapstructure:"max_figure_size"`
	WatchDebounceMS int   `mapstructure:"watch_debounce_ms"`
	FetchTimeout    int   `mapstructure:"fetch_timeout"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

func DefaultConfig() *Config {
	return &Config{
		SaveDirectory:      ".",
		ThumbnailWidth:     figure.DefaultThumbnailWidth,
		ThumbnailHeight:    figure.DefaultThumbnailHeight,
		ThumbnailCacheSize: 64,
		MaxFigureSize:      50 * 1024 * 1024, // 50MB
		WatchDebounceMS:    250,
		FetchTimeout:       15,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// LoadConfig reads the configuration from v, which the caller has already
// pointed at a file (or not) and read. Unset keys keep their defaults.
func LoadConfig(v *viper.Viper) (*Config, error) {
	config := DefaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return config, nil
}

// NewViper returns a viper instance that looks for .figBrowser.yaml in the
// home and working directories, or reads cfgFile when it is set.
// FIGBROWSER_* environment variables override file values.
func NewViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	bindDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", cfgFile, err)
		}
		return v, nil
	}

	home, err := homedir.Dir()
	if err != nil {
		return nil, fmt.Errorf("failed to find home directory: %w", err)
	}
	v.AddConfigPath(home)
	v.AddConfigPath(filepath.Join(home, configName))
	v.AddConfigPath(".")
	v.SetConfigName(configName)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return v, nil
}

// bindDefaults registers every key so AutomaticEnv can override keys that
// are absent from the config file.
func bindDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("save_directory", d.SaveDirectory)
	v.SetDefault("thumbnail_width", d.ThumbnailWidth)
	v.SetDefault("thumbnail_height", d.ThumbnailHeight)
	v.SetDefault("thumbnail_cache_size", d.ThumbnailCacheSize)
	v.SetDefault("max_figure_size", d.MaxFigureSize)
	v.SetDefault("watch_debounce_ms", d.WatchDebounceMS)
	v.SetDefault("fetch_timeout", d.FetchTimeout)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
}

func SaveConfig(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("save_directory", config.SaveDirectory)
	v.Set("thumbnail_width", config.ThumbnailWidth)
	v.Set("thumbnail_height", config.ThumbnailHeight)
	v.Set("thumbnail_cache_size", config.ThumbnailCacheSize)
	v.Set("max_figure_size", config.MaxFigureSize)
	v.Set("watch_debounce_ms", config.WatchDebounceMS)
	v.Set("fetch_timeout", config.FetchTimeout)
	v.Set("log_level", config.LogLevel)
	v.Set("log_format", config.LogFormat)

	return v.WriteConfig()
}

func GetConfigPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configName, "config.yaml"), nil
}

func ValidateConfig(config *Config) error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	found := false
	for _, level := range validLogLevels {
		if config.LogLevel == level {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("invalid log level: %s", config.LogLevel)
	}

	if config.LogFormat != "text" && config.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s", config.LogFormat)
	}

	if config.ThumbnailWidth <= 0 || config.ThumbnailHeight <= 0 {
		return fmt.Errorf("thumbnail size must be positive: %dx%d", config.ThumbnailWidth, config.ThumbnailHeight)
	}
	if config.ThumbnailCacheSize <= 0 {
		return fmt.Errorf("thumbnail cache size must be positive: %d", config.ThumbnailCacheSize)
	}
	if config.MaxFigureSize < 0 {
		return fmt.Errorf("max figure size must not be negative: %d", config.MaxFigureSize)
	}
	if config.WatchDebounceMS <= 0 {
		return fmt.Errorf("watch debounce must be positive: %d", config.WatchDebounceMS)
	}
	if config.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive: %d", config.FetchTimeout)
	}

	return nil
}
