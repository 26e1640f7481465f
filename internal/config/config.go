// Package config loads the board server's process configuration: a YAML
// file, BOARD_<SECTION>_<KEY> environment overrides, and CLI flags,
// unmarshaled with mapstructure and checked with validator struct tags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/oe149499/whiteboard/internal/logger"
)

// Config is the board server's complete process configuration.
//
// Configuration sources, in order of precedence (highest first):
//  1. The serve command's --workers-per-board flag, applied by
//     cmd/boardserverd after Load (the only CLI flag that sets a field)
//  2. Environment variables (BOARD_BOARDS_ROOT, BOARD_METRICS_ENABLED, ...)
//  3. Configuration file (YAML)
//  4. Default values
type Config struct {
	Boards  BoardsConfig  `mapstructure:"boards" yaml:"boards"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// BoardsConfig controls board storage and lifecycle.
type BoardsConfig struct {
	// Root is the directory fsstore reads/writes board snapshots under.
	Root string `mapstructure:"root" validate:"required" yaml:"root"`

	// WorkersPerBoard is the dispatcher worker-pool size for each loaded
	// board. Default: 4.
	WorkersPerBoard int `mapstructure:"workers_per_board" validate:"omitempty,gt=0" yaml:"workers_per_board"`

	// PathFlushInterval is loaded and validated but not passed to the board
	// engine: ContinuePath pushes buffered points to GetActivePath
	// listeners on a fixed 750ms cadence. Default: 750ms.
	PathFlushInterval time.Duration `mapstructure:"path_flush_interval" validate:"omitempty,gt=0" yaml:"path_flush_interval"`

	// AutosaveInterval is how often BoardManager saves every loaded
	// board's canvas to the store. Default: 30s.
	AutosaveInterval time.Duration `mapstructure:"autosave_interval" validate:"omitempty,gt=0" yaml:"autosave_interval"`

	// CreateOnMiss controls whether LoadBoard creates a fresh empty board
	// for a name the store has never seen, rather than failing.
	CreateOnMiss bool `mapstructure:"create_on_miss" yaml:"create_on_miss"`
}

// LoggingConfig controls logging behavior, mirroring internal/logger.Config.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// ToLoggerConfig adapts LoggingConfig to internal/logger.Config.
func (c LoggingConfig) ToLoggerConfig() logger.Config {
	return logger.Config{Level: c.Level, Format: c.Format, Output: c.Output}
}

// MetricsConfig configures the Prometheus metrics HTTP endpoint. When
// Enabled is false, no metrics are collected (zero overhead).
type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
	ListenAddr string `mapstructure:"listen_addr" validate:"omitempty,hostname_port" yaml:"listen_addr"`
}

const envPrefix = "BOARD"

// Load reads configuration from defaults, the file at configPath (if
// non-empty), and environment variables prefixed BOARD_, in that ascending
// precedence, then fills still-unset fields from defaults and validates
// the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	found, err := readConfigFile(v)
	if err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if found {
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	} else {
		// No file: still honor environment overrides against the
		// defaults we just built.
		bindDefaults(v, cfg)
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}

	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("board-server")
		v.SetConfigType("yaml")
	}
}

func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return false, nil
		}
		return false, fmt.Errorf("read config file: %w", err)
	}
	return true, nil
}

// bindDefaults seeds viper with cfg's zero-file defaults so AutomaticEnv
// still has a key to override even when no config file was found.
func bindDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("boards.root", cfg.Boards.Root)
	v.SetDefault("boards.workers_per_board", cfg.Boards.WorkersPerBoard)
	v.SetDefault("boards.path_flush_interval", cfg.Boards.PathFlushInterval)
	v.SetDefault("boards.autosave_interval", cfg.Boards.AutosaveInterval)
	v.SetDefault("boards.create_on_miss", cfg.Boards.CreateOnMiss)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.output", cfg.Logging.Output)
	v.SetDefault("metrics.enabled", cfg.Metrics.Enabled)
	v.SetDefault("metrics.listen_addr", cfg.Metrics.ListenAddr)
}

func defaultConfig() *Config {
	return &Config{
		Boards: BoardsConfig{
			Root:              "./boards",
			WorkersPerBoard:   4,
			PathFlushInterval: 750 * time.Millisecond,
			AutosaveInterval:  30 * time.Second,
			CreateOnMiss:      true,
		},
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "text",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled:    false,
			ListenAddr: "127.0.0.1:9090",
		},
	}
}

// applyDefaults fills any zero-valued field left unset by the file or
// environment: zero values are replaced, explicit values are preserved.
func applyDefaults(cfg *Config) {
	d := defaultConfig()

	if cfg.Boards.Root == "" {
		cfg.Boards.Root = d.Boards.Root
	}
	if cfg.Boards.WorkersPerBoard == 0 {
		cfg.Boards.WorkersPerBoard = d.Boards.WorkersPerBoard
	}
	if cfg.Boards.PathFlushInterval == 0 {
		cfg.Boards.PathFlushInterval = d.Boards.PathFlushInterval
	}
	if cfg.Boards.AutosaveInterval == 0 {
		cfg.Boards.AutosaveInterval = d.Boards.AutosaveInterval
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = d.Logging.Level
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = d.Logging.Format
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = d.Logging.Output
	}

	if cfg.Metrics.ListenAddr == "" {
		cfg.Metrics.ListenAddr = d.Metrics.ListenAddr
	}
}

var validate = validator.New()

// Validate checks cfg's struct tags.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return err
	}
	return nil
}
