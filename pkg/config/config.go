// Package config loads and validates configuration for the marker index's
// host binaries (the LSP server, the MCP server, the CLI's metrics-exposing
// subcommands). The index library itself (pkg/markerindex) takes no
// configuration at all; everything here configures the servers built on
// top of it.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/markerindex/pkg/snapshot"
)

// Sentinel validation errors.
var (
	ErrInvalidPort       = errors.New("invalid server port")
	ErrInvalidMaxMarkers = errors.New("index max markers must be non-negative")
	ErrInvalidSnapshot   = errors.New("invalid snapshot configuration")
	ErrInvalidCodec      = errors.New("unknown snapshot codec")
)

// Default configuration values.
const (
	defaultPort = 7878
	defaultHost = "0.0.0.0"
	maxPort     = 65535
)

// validCodecs lists the persist.Codec names SnapshotConfig.Codec accepts.
var validCodecs = map[string]bool{"json": true, "gob": true, "lz4": true}

// Config holds all configuration for the marker index's host binaries.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"        json:"server"`
	Snapshot      SnapshotConfig      `mapstructure:"snapshot"      json:"snapshot"`
	Observability ObservabilityConfig `mapstructure:"observability" json:"observability"`
	Index         IndexConfig         `mapstructure:"index"         json:"index"`
}

// ServerConfig holds the HTTP server configuration used to expose
// /metrics alongside the LSP or MCP server.
type ServerConfig struct {
	Host         string        `mapstructure:"host"          json:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"  json:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" json:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"  json:"idle_timeout"`
	Port         int           `mapstructure:"port"          json:"port"`
	Enabled      bool          `mapstructure:"enabled"       json:"enabled"`
}

// SnapshotConfig controls pkg/snapshot's external Dump()/Load() persistence.
type SnapshotConfig struct {
	Directory string        `mapstructure:"directory" json:"directory"`
	Codec     string        `mapstructure:"codec"     json:"codec"`
	MaxAge    time.Duration `mapstructure:"max_age"   json:"max_age"`
	MaxSize   int64         `mapstructure:"max_size"  json:"max_size"`
}

// ObservabilityConfig holds logging, tracing, and metrics configuration.
type ObservabilityConfig struct {
	LogLevel      string `mapstructure:"log_level"      json:"log_level"`
	LogFormat     string `mapstructure:"log_format"     json:"log_format"`
	LogOutput     string `mapstructure:"log_output"     json:"log_output"`
	ServiceName   string `mapstructure:"service_name"   json:"service_name"`
	OTLPEndpoint  string `mapstructure:"otlp_endpoint"  json:"otlp_endpoint"`
	MetricsEnabled bool  `mapstructure:"metrics_enabled" json:"metrics_enabled"`
}

// IndexConfig tunes operational guardrails around a markerindex.Index. The
// index itself has no limits; these are host-side warnings/caps layered on
// top by the servers that embed it.
type IndexConfig struct {
	MaxMarkers               int `mapstructure:"max_markers"                 json:"max_markers"`
	WarnRotationsPerSplice    int `mapstructure:"warn_rotations_per_splice"   json:"warn_rotations_per_splice"`
}

// LoadConfig loads configuration from file and environment variables,
// validating the result both structurally (validateConfig) and against the
// embedded JSON Schema (ValidateSchema).
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("config")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/markerindex")
	}

	viperCfg.SetEnvPrefix("MARKERIDX")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("read config file: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := ValidateSchema(&cfg); err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("server.enabled", false)
	viperCfg.SetDefault("server.port", defaultPort)
	viperCfg.SetDefault("server.host", defaultHost)
	viperCfg.SetDefault("server.read_timeout", "30s")
	viperCfg.SetDefault("server.write_timeout", "30s")
	viperCfg.SetDefault("server.idle_timeout", "60s")

	viperCfg.SetDefault("snapshot.directory", snapshot.DefaultDir())
	viperCfg.SetDefault("snapshot.codec", "json")
	viperCfg.SetDefault("snapshot.max_age", snapshot.DefaultMaxAge.String())
	viperCfg.SetDefault("snapshot.max_size", snapshot.DefaultMaxSize)

	viperCfg.SetDefault("observability.log_level", "info")
	viperCfg.SetDefault("observability.log_format", "json")
	viperCfg.SetDefault("observability.log_output", "stdout")
	viperCfg.SetDefault("observability.service_name", "markerindex")
	viperCfg.SetDefault("observability.otlp_endpoint", "")
	viperCfg.SetDefault("observability.metrics_enabled", true)

	viperCfg.SetDefault("index.max_markers", 0)
	viperCfg.SetDefault("index.warn_rotations_per_splice", 64) //nolint:mnd // documented guardrail default
}

// validateConfig validates the configuration.
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > maxPort {
		return fmt.Errorf("%w: %d", ErrInvalidPort, cfg.Server.Port)
	}

	if cfg.Index.MaxMarkers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxMarkers, cfg.Index.MaxMarkers)
	}

	if cfg.Snapshot.MaxSize <= 0 {
		return fmt.Errorf("%w: max_size must be positive, got %d", ErrInvalidSnapshot, cfg.Snapshot.MaxSize)
	}

	if !validCodecs[cfg.Snapshot.Codec] {
		return fmt.Errorf("%w: %q", ErrInvalidCodec, cfg.Snapshot.Codec)
	}

	return nil
}
