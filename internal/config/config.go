// Package config loads textsplitter settings using Viper from flags,
// TEXTSPLITTER_ environment variables and a .textsplitter.yml file.
//
// Precedence from highest to lowest: command-line flags bound to the
// Viper instance, environment variables (TEXTSPLITTER_SPLIT_CHUNK_SIZE for
// split.chunk_size), the configuration file, defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/crisiscore-systems/textsplitter/collector"
	"github.com/crisiscore-systems/textsplitter/internal/utils"
	"github.com/crisiscore-systems/textsplitter/splitter"
)

const (
	EnvPrefix      = "TEXTSPLITTER"
	ConfigFileName = ".textsplitter"
)

type Config struct {
	LogLevel string         `mapstructure:"log-level"`
	Split    SplitConfig    `mapstructure:"split"`
	Sections SectionsConfig `mapstructure:"sections"`
	Batch    BatchConfig    `mapstructure:"batch"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Server   ServerConfig   `mapstructure:"server"`
}

type SplitConfig struct {
	// ChunkSize accepts bytes or units, e.g. "512KB" or "1MiB".
	ChunkSize string `mapstructure:"chunk_size"`
	OutputDir string `mapstructure:"output_dir"`
}

type SectionsConfig struct {
	MaxSize         int      `mapstructure:"max_size"`
	MinSize         int      `mapstructure:"min_size"`
	OutputDir       string   `mapstructure:"output_dir"`
	HeadingPatterns []string `mapstructure:"heading_patterns"`
}

type BatchConfig struct {
	Pattern     string `mapstructure:"pattern"`
	Concurrency int    `mapstructure:"concurrency"`
	Mode        string `mapstructure:"mode"`
}

type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	PathPrefix   string `mapstructure:"path_prefix"`
	PreviewLimit string `mapstructure:"preview_limit"`
}

// SetDefaults registers all keys with their default values. Keys must be known to
// Viper for environment variables to be picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log-level", "info")

	v.SetDefault("split.chunk_size", "1MiB")
	v.SetDefault("split.output_dir", "")

	v.SetDefault("sections.max_size", splitter.DefaultMaxSectionSize)
	v.SetDefault("sections.min_size", splitter.DefaultMinSectionSize)
	v.SetDefault("sections.output_dir", splitter.DefaultSectionOutputDir)
	v.SetDefault("sections.heading_patterns", splitter.DefaultHeadingPatterns)

	v.SetDefault("batch.pattern", splitter.DefaultBatchPattern)
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("batch.mode", string(collector.JobKindLines))

	v.SetDefault("watch.debounce", 500*time.Millisecond)

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.path_prefix", "")
	v.SetDefault("server.preview_limit", "64KiB")
}

// New creates a Viper instance with defaults and environment binding and reads the
// configuration file. An explicit cfgFile must exist; without it a missing
// .textsplitter.yml in the working directory is not an error.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(ConfigFileName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return v, nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate reports all invalid values at once.
func (c *Config) Validate() error {
	var errs []error

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}

	if _, err := c.Split.ChunkSizeBytes(); err != nil {
		errs = append(errs, fmt.Errorf("split.chunk_size: %w", err))
	}

	if c.Sections.MaxSize <= 0 {
		errs = append(errs, fmt.Errorf("sections.max_size must be positive, got %d", c.Sections.MaxSize))
	}
	if c.Sections.MinSize <= 0 {
		errs = append(errs, fmt.Errorf("sections.min_size must be positive, got %d", c.Sections.MinSize))
	}
	if c.Sections.MinSize > c.Sections.MaxSize {
		errs = append(errs, fmt.Errorf("sections.min_size %d is above sections.max_size %d", c.Sections.MinSize, c.Sections.MaxSize))
	}

	if c.Batch.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("batch.concurrency must be positive, got %d", c.Batch.Concurrency))
	}
	if _, ok := collector.ParseJobKind(c.Batch.Mode); !ok {
		errs = append(errs, fmt.Errorf("batch.mode must be lines or sections, got %q", c.Batch.Mode))
	}

	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce))
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.Host == "" {
		errs = append(errs, errors.New("server.host must not be empty"))
	}
	if c.Server.PathPrefix != "" && !strings.HasPrefix(c.Server.PathPrefix, "/") {
		errs = append(errs, fmt.Errorf("server.path_prefix must start with /, got %q", c.Server.PathPrefix))
	}
	if _, err := c.Server.PreviewLimitBytes(); err != nil {
		errs = append(errs, fmt.Errorf("server.preview_limit: %w", err))
	}

	return errors.Join(errs...)
}

func (c SplitConfig) ChunkSizeBytes() (int64, error) {
	return utils.ParseSize(c.ChunkSize)
}

func (c ServerConfig) PreviewLimitBytes() (int, error) {
	n, err := utils.ParseSize(c.PreviewLimit)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ParseLogLevel parses debug, info, warn or error (case-insensitive).
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
