// Package config assembles the service configuration from defaults,
// environment variables, and command line flags, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lvillar/cdaibatch"
	"github.com/lvillar/cdaibatch/logger"
)

const (
	// Default values
	DefaultPort      = 8080
	DefaultHost      = "127.0.0.1"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"

	// DefaultMaxUploadBytes caps uploaded data files at 16MB.
	DefaultMaxUploadBytes = 16 * 1024 * 1024

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the CDAI batch service
type Config struct {
	// Server configuration
	Host string
	Port int

	// Pipeline configuration
	TemplatePath  string
	PlacementFile string
	OutputDir     string

	// Session folders
	UploadsDir   string
	CompletedDir string
	StaticDir    string

	// Upload limits
	MaxUploadBytes int64

	// Application configuration
	Version   string
	LogLevel  string
	LogFormat string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Host:           DefaultHost,
		Port:           DefaultPort,
		TemplatePath:   filepath.Join("static", cdaibatch.DefaultTemplateFile),
		OutputDir:      "output",
		UploadsDir:     "uploads",
		CompletedDir:   "completed",
		StaticDir:      "static",
		MaxUploadBytes: DefaultMaxUploadBytes,
		Version:        "1.0.0",
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("CDAI")
	viper.AutomaticEnv()

	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("template", cfg.TemplatePath)
	viper.SetDefault("placements", cfg.PlacementFile)
	viper.SetDefault("output", cfg.OutputDir)
	viper.SetDefault("uploads", cfg.UploadsDir)
	viper.SetDefault("completed", cfg.CompletedDir)
	viper.SetDefault("static", cfg.StaticDir)
	viper.SetDefault("maxupload", cfg.MaxUploadBytes)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("logformat", cfg.LogFormat)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("host", cfg.Host, "Server host address")
	pflag.Int("port", cfg.Port, "Server port")
	pflag.String("template", cfg.TemplatePath, "Path to the blank CDAI application template")
	pflag.String("placements", cfg.PlacementFile, "Optional JSON file overriding the field placements")
	pflag.String("output", cfg.OutputDir, "Directory for generated documents (batch command)")
	pflag.String("uploads", cfg.UploadsDir, "Directory for uploaded data files")
	pflag.String("completed", cfg.CompletedDir, "Directory for finished batch artifacts")
	pflag.String("static", cfg.StaticDir, "Directory holding static assets and example files")
	pflag.Int64("maxupload", cfg.MaxUploadBytes, "Maximum upload size in bytes")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.String("logformat", cfg.LogFormat, "Log format (text, json)")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("template", pflag.Lookup("template"))
	_ = viper.BindPFlag("placements", pflag.Lookup("placements"))
	_ = viper.BindPFlag("output", pflag.Lookup("output"))
	_ = viper.BindPFlag("uploads", pflag.Lookup("uploads"))
	_ = viper.BindPFlag("completed", pflag.Lookup("completed"))
	_ = viper.BindPFlag("static", pflag.Lookup("static"))
	_ = viper.BindPFlag("maxupload", pflag.Lookup("maxupload"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("logformat", pflag.Lookup("logformat"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nCDAI batch - fills CDAI application forms from a patient roster\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  CDAI_HOST        Server host\n")
		fmt.Fprintf(os.Stderr, "  CDAI_PORT        Server port\n")
		fmt.Fprintf(os.Stderr, "  CDAI_TEMPLATE    Template path\n")
		fmt.Fprintf(os.Stderr, "  CDAI_PLACEMENTS  Placement file\n")
		fmt.Fprintf(os.Stderr, "  CDAI_OUTPUT      Output directory\n")
		fmt.Fprintf(os.Stderr, "  CDAI_UPLOADS     Uploads directory\n")
		fmt.Fprintf(os.Stderr, "  CDAI_COMPLETED   Completed directory\n")
		fmt.Fprintf(os.Stderr, "  CDAI_STATIC      Static assets directory\n")
		fmt.Fprintf(os.Stderr, "  CDAI_MAXUPLOAD   Maximum upload size\n")
		fmt.Fprintf(os.Stderr, "  CDAI_LOGLEVEL    Log level\n")
		fmt.Fprintf(os.Stderr, "  CDAI_LOGFORMAT   Log format\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.TemplatePath = viper.GetString("template")
	cfg.PlacementFile = viper.GetString("placements")
	cfg.OutputDir = viper.GetString("output")
	cfg.UploadsDir = viper.GetString("uploads")
	cfg.CompletedDir = viper.GetString("completed")
	cfg.StaticDir = viper.GetString("static")
	cfg.MaxUploadBytes = viper.GetInt64("maxupload")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.LogFormat = viper.GetString("logformat")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	if c.TemplatePath == "" {
		return errors.New("template path cannot be empty")
	}

	if c.MaxUploadBytes <= 0 {
		return errors.New("maximum upload size must be positive")
	}

	// The working directories are created on demand
	for _, dir := range []string{c.UploadsDir, c.CompletedDir, c.OutputDir} {
		if dir == "" {
			return errors.New("working directories cannot be empty")
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, DefaultDirPerm); err != nil {
				return fmt.Errorf("cannot create directory %s: %w", dir, err)
			}
		} else if err != nil {
			return fmt.Errorf("cannot access directory %s: %w", dir, err)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.LogFormat)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// LoggerConfig bridges the service configuration to the logger package.
func (c *Config) LoggerConfig() *logger.Config {
	return &logger.Config{Level: c.LogLevel, Format: c.LogFormat}
}

// BatchConfig builds the batch pipeline configuration: the configured
// template plus either the production placements or the ones loaded from the
// placement file.
func (c *Config) BatchConfig() (cdaibatch.Config, error) {
	cfg := cdaibatch.DefaultConfig()
	cfg.TemplatePath = c.TemplatePath
	if c.PlacementFile != "" {
		placements, err := LoadPlacements(c.PlacementFile)
		if err != nil {
			return cdaibatch.Config{}, err
		}
		cfg.Placements = placements
	}
	return cfg, nil
}
