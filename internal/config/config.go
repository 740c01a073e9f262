package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"buildlight/internal/light"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultFileName is the config file searched for in the default locations.
	DefaultFileName = "buildlight.yaml"

	DefaultHost     = "127.0.0.1"
	DefaultPort     = 3030
	DefaultLogLevel = "info"
)

// Environment variables that override file values.
const (
	EnvConfigFile    = "BUILDLIGHT_CONFIG_FILE"
	EnvHost          = "BUILDLIGHT_HOST"
	EnvPort          = "BUILDLIGHT_PORT"
	EnvDeviceURL     = "BUILDLIGHT_DEVICE_URL"
	EnvDeviceTimeout = "BUILDLIGHT_DEVICE_TIMEOUT"
	EnvLogFile       = "BUILDLIGHT_LOG_FILE"
	EnvLogLevel      = "BUILDLIGHT_LOG_LEVEL"
)

// Config is the process-wide configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Device DeviceConfig `yaml:"device"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig is the address the webhook server listens on.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DeviceConfig locates the light's state endpoint.
type DeviceConfig struct {
	URL string `yaml:"url"`
	// Timeout bounds each call to the device. Zero disables the bound.
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Device: DeviceConfig{
			URL:     light.DefaultDeviceURL,
			Timeout: light.DefaultTimeout,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path.
// An empty path yields the defaults. The result is not validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from BUILDLIGHT_* environment variables.
// lookup is normally os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvHost); ok && v != "" {
		c.Server.Host = v
	}
	if v, ok := lookup(EnvPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		c.Server.Port = port
	}
	if v, ok := lookup(EnvDeviceURL); ok && v != "" {
		c.Device.URL = v
	}
	if v, ok := lookup(EnvDeviceTimeout); ok && v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvDeviceTimeout, v, err)
		}
		c.Device.Timeout = timeout
	}
	if v, ok := lookup(EnvLogFile); ok && v != "" {
		c.Log.File = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errors []string

	if c.Server.Host == "" {
		errors = append(errors, "  - server.host must not be empty")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, fmt.Sprintf("  - server.port must be between 1 and 65535, got %d", c.Server.Port))
	}

	if c.Device.URL == "" {
		errors = append(errors, "  - device.url must not be empty")
	} else if u, err := url.Parse(c.Device.URL); err != nil {
		errors = append(errors, fmt.Sprintf("  - device.url is not a valid URL: %v", err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("  - device.url must use http or https, got '%s'", c.Device.URL))
	} else if u.Host == "" {
		errors = append(errors, fmt.Sprintf("  - device.url must include a host, got '%s'", c.Device.URL))
	}

	if c.Device.Timeout < 0 {
		errors = append(errors, fmt.Sprintf("  - device.timeout must not be negative, got %s", c.Device.Timeout))
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		errors = append(errors, fmt.Sprintf("  - log.level: %v", err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("invalid configuration:\n%s", strings.Join(errors, "\n"))
	}
	return nil
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ParseLevel converts a level name to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown level '%s' (want debug, info, warn or error)", level)
	}
}
