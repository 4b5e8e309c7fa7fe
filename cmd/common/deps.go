// Package common provides shared dependency wiring for uniwatch
// commands.
package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/uniwatch/uniwatch/internal/auth"
	"github.com/uniwatch/uniwatch/internal/cache"
	"github.com/uniwatch/uniwatch/internal/config"
	"github.com/uniwatch/uniwatch/internal/logger"
	"github.com/uniwatch/uniwatch/internal/notify"
	"github.com/uniwatch/uniwatch/internal/runner"
	"github.com/uniwatch/uniwatch/internal/scraper"
)

var (
	// errLoggerRequired is returned when CommandDeps.Logger is nil
	errLoggerRequired = errors.New("logger is required")
	// errConfigRequired is returned when CommandDeps.Config is nil
	errConfigRequired = errors.New("config is required")
)

// CommandDeps holds common dependencies for uniwatch commands.
type CommandDeps struct {
	Logger logger.Interface
	Config config.Interface
}

// NewCommandDeps creates CommandDeps by loading config and creating the logger.
func NewCommandDeps() (*CommandDeps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := createLogger()
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	deps := &CommandDeps{
		Logger: log,
		Config: cfg,
	}
	if validateErr := deps.validate(); validateErr != nil {
		return nil, fmt.Errorf("validate deps: %w", validateErr)
	}
	return deps, nil
}

// BuildRunner wires the scraper collaborators and constructs the runner.
func BuildRunner(deps *CommandDeps) (*runner.Runner, error) {
	watch := deps.Config.GetWatchConfig()

	var notifier notify.Notifier = notify.NewNoOp()
	if watch.SendPosts {
		notifier = notify.NewDiscord(deps.Logger)
	} else {
		deps.Logger.Warn("send_posts disabled, deliveries are suppressed")
	}

	var provider auth.Provider
	if creds := deps.Config.GetCredentialsConfig(); creds.Configured() {
		provider = auth.NewCAS(auth.Credentials{
			Username: creds.Username,
			Password: creds.Password,
			LoginURL: creds.LoginURL,
		}, deps.Logger)
	}

	return runner.New(deps.Config, scraper.Deps{
		Config:   deps.Config,
		Store:    cache.NewStore(watch.CacheDir),
		Notifier: notifier,
		Auth:     provider,
		Logger:   deps.Logger,
	})
}

// createLogger creates a logger instance from Viper configuration.
func createLogger() (logger.Interface, error) {
	return logger.New(&logger.Config{
		Level:       logger.Level(normalizeLogLevel(viper.GetString("logger.level"))),
		Development: viper.GetBool("logger.development"),
		Encoding:    viper.GetString("logger.encoding"),
		OutputPaths: viper.GetStringSlice("logger.output_paths"),
		EnableColor: viper.GetBool("logger.enable_color"),
	})
}

// normalizeLogLevel normalizes log level string.
func normalizeLogLevel(level string) string {
	if level == "" {
		return "info"
	}
	return strings.ToLower(level)
}

// validate ensures all required dependencies are present.
func (d *CommandDeps) validate() error {
	if d.Logger == nil {
		return errLoggerRequired
	}
	if d.Config == nil {
		return errConfigRequired
	}
	return nil
}
