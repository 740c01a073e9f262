package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"buildlight/internal/config"
	"buildlight/internal/light"
	"buildlight/internal/server"
	"buildlight/pkg/fileutil"

	"github.com/spf13/cobra"
)

var (
	configFile    string
	logFile       string
	logLevel      string
	host          string
	port          int
	deviceURL     string
	deviceTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server",
	Long: `Start the HTTP server to receive build-status webhooks.

Each POST to /webhook with {"build_id": "...", "status": "Success"|"Failure"}
turns the light green or red. Other statuses are logged and ignored.

Settings are read from buildlight.yaml (if present), then BUILDLIGHT_*
environment variables, then flags.`,
	RunE: runServe,
}

func init() {
	addServeFlags(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to buildlight.yaml configuration file")
	cmd.Flags().StringVar(&logFile, "log", "", "Path to log file (logs always go to stdout)")
	cmd.Flags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&host, "host", config.DefaultHost, "Host to bind to")
	cmd.Flags().IntVarP(&port, "port", "p", config.DefaultPort, "Port to listen on")
	cmd.Flags().StringVar(&deviceURL, "device-url", light.DefaultDeviceURL, "WLED state endpoint")
	cmd.Flags().DurationVar(&deviceTimeout, "device-timeout", light.DefaultTimeout, "Timeout for each device call (0 disables)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	level, _ := config.ParseLevel(cfg.Log.Level)
	logger, closeLog, err := setupLogging(cfg.Log.File, level)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer closeLog()

	logger.Info("Starting buildlight", "version", version)
	logger.Info("Light device configured", "url", cfg.Device.URL, "timeout", cfg.Device.Timeout.String())
	if cfg.Device.Timeout == 0 {
		logger.Warn("Device timeout disabled, a hung device will hold its request indefinitely")
	}

	controller := light.NewController(cfg.Device.URL, cfg.Device.Timeout, logger)
	srv := server.NewServer(controller, cfg.Device.Timeout, logger)

	logger.Info("Starting HTTP server", "host", cfg.Server.Host, "port", cfg.Server.Port)
	if err := srv.Start(cfg.Server.Host, cfg.Server.Port); err != nil {
		logger.Error("Server failed", "error", err)
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// loadConfig layers defaults, the config file, the environment and any flags
// set explicitly on the command line, then validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configFile
	if path == "" {
		path = os.Getenv(config.EnvConfigFile)
	}
	if path == "" {
		path = fileutil.FindConfigOptional(config.DefaultFileName)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from %s: %w", path, err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Server.Host = host
	}
	if flags.Changed("port") {
		cfg.Server.Port = port
	}
	if flags.Changed("device-url") {
		cfg.Device.URL = deviceURL
	}
	if flags.Changed("device-timeout") {
		cfg.Device.Timeout = deviceTimeout
	}
	if flags.Changed("log") {
		cfg.Log.File = logFile
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging configures slog for console and optional file logging.
// The returned func closes the log file, if one was opened.
func setupLogging(logPath string, level slog.Level) (*slog.Logger, func(), error) {
	var out io.Writer = os.Stdout
	closeFn := func() {}

	if logPath != "" {
		logDir := filepath.Dir(logPath)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}

		out = io.MultiWriter(os.Stdout, file)
		closeFn = func() { file.Close() }
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(handler), closeFn, nil
}
