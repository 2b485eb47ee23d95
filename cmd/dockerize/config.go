package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/artpar/dockerize/internal/shell/scaffold"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// =============================================================================
// Config Types
// =============================================================================

// Config holds all application configuration.
type Config struct {
	Project   ProjectConfig   `mapstructure:"project"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Output    OutputConfig    `mapstructure:"output"`
	Log       LogConfig       `mapstructure:"log"`
}

// ProjectConfig locates the Laravel project.
type ProjectConfig struct {
	Root string `mapstructure:"root"`
}

// TemplatesConfig locates user-supplied templates, relative to the project root.
type TemplatesConfig struct {
	Dir string `mapstructure:"dir"`
}

// OutputConfig holds artifact destinations, relative to the project root.
type OutputConfig struct {
	Dockerfile string `mapstructure:"dockerfile"`
	Compose    string `mapstructure:"compose"`
	Nginx      string `mapstructure:"nginx"`
	PHPIni     string `mapstructure:"php_ini"`
	Supervisor string `mapstructure:"supervisor"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Paths returns the artifact layout for the scaffolder.
func (c *Config) Paths() scaffold.Paths {
	return scaffold.Paths{
		Dockerfile: c.Output.Dockerfile,
		Compose:    c.Output.Compose,
		Nginx:      c.Output.Nginx,
		PHPIni:     c.Output.PHPIni,
		Supervisor: c.Output.Supervisor,
		Templates:  c.Templates.Dir,
	}
}

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"dir":        "project.root",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// =============================================================================
// Config Loading
// =============================================================================

// LoadConfig loads configuration from defaults, file, environment and flags.
// flags may be nil.
func LoadConfig(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	defaults := scaffold.DefaultPaths()

	// Set defaults
	v.SetDefault("project.root", ".")
	v.SetDefault("templates.dir", defaults.Templates)
	v.SetDefault("output.dockerfile", defaults.Dockerfile)
	v.SetDefault("output.compose", defaults.Compose)
	v.SetDefault("output.nginx", defaults.Nginx)
	v.SetDefault("output.php_ini", defaults.PHPIni)
	v.SetDefault("output.supervisor", defaults.Supervisor)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Load from file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			// Only return error if file was explicitly specified and is invalid
			if _, ok := err.(viper.ConfigParseError); ok {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			// File not found is OK, we'll use defaults
		}
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("DOCKERIZE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Flags win over everything when set
	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// =============================================================================
// Logger Setup
// =============================================================================

// SetupLogger creates a logger with the configured level and format, writing
// to w. Logs go to stderr so stdout carries only user-facing output.
func SetupLogger(cfg *Config, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Log.Format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
