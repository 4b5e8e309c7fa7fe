// Package cmd implements the command-line interface for uniwatch.
// It provides the root command and subcommands for running the watch
// service and inspecting its configuration.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/uniwatch/uniwatch/cmd/httpd"
	"github.com/uniwatch/uniwatch/cmd/scrapers"
	"github.com/uniwatch/uniwatch/cmd/watch"
)

// version is overridden at build time via -ldflags.
var version = "dev"

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// Debug enables debug mode for all commands
	Debug bool

	// rootCmd represents the root command for the uniwatch CLI.
	rootCmd = &cobra.Command{
		Use:   "uniwatch",
		Short: "A university page watcher and notifier",
		Long: `uniwatch polls a configured set of university web pages, detects
newly published posts and forwards them to webhook endpoints.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command
func Execute() error {
	// Load .env file early so environment variables are available
	_ = godotenv.Load()

	// Parse flags early to get debug flag before creating logger
	_ = rootCmd.ParseFlags(os.Args[1:])

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug mode")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("uniwatch version %s\n", version)
		},
	})

	rootCmd.AddCommand(httpd.Command())
	rootCmd.AddCommand(watch.Command())
	rootCmd.AddCommand(scrapers.Command())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	// Environment variables take precedence over file values and defaults.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	// Config file is optional; defaults and environment variables can
	// carry a minimal setup on their own.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config file not found: %v (using defaults and environment variables)\n", err)
	}

	if err := bindFlags(); err != nil {
		return err
	}
	if err := bindEnvVars(); err != nil {
		return err
	}

	setupDevelopmentLogging()
	return nil
}

// bindFlags binds command-line flags to Viper.
func bindFlags() error {
	if err := viper.BindPFlag("app.debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("failed to bind debug flag: %w", err)
	}
	return nil
}

// bindEnvVars maps well-known environment variables to config keys.
func bindEnvVars() error {
	bindings := map[string][]string{
		"app.environment":       {"APP_ENV"},
		"app.debug":             {"APP_DEBUG"},
		"logger.level":          {"LOG_LEVEL"},
		"logger.encoding":       {"LOG_FORMAT"},
		"watch.webhook":         {"WEBHOOK_URL"},
		"watch.error_webhook":   {"ERROR_WEBHOOK_URL"},
		"credentials.username":  {"LOGIN_USERNAME"},
		"credentials.password":  {"LOGIN_PASSWORD"},
		"credentials.login_url": {"LOGIN_URL"},
	}
	for key, envs := range bindings {
		if err := viper.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

// setupDevelopmentLogging configures development logging based on the
// environment and the debug flag.
func setupDevelopmentLogging() {
	debugFlag := Debug || viper.GetBool("app.debug")
	isDev := viper.GetString("app.environment") == "development"

	if debugFlag {
		viper.Set("logger.level", "debug")
	}
	if isDev {
		viper.Set("logger.development", true)
		viper.Set("logger.enable_color", true)
		viper.Set("logger.encoding", "console")
	}

	Debug = debugFlag
}

// setDefaults sets default configuration values
func setDefaults() {
	// App defaults - production safe
	viper.SetDefault("app", map[string]any{
		"name":        "uniwatch",
		"environment": "production",
		"debug":       false,
	})

	// Logger defaults - production safe
	viper.SetDefault("logger", map[string]any{
		"level":        "info",
		"development":  false,
		"encoding":     "json",
		"output_paths": []string{"stdout"},
		"enable_color": false,
	})

	// Server defaults
	viper.SetDefault("server", map[string]any{
		"address":       ":3000",
		"read_timeout":  "15s",
		"write_timeout": "15s",
		"idle_timeout":  "60s",
	})

	// Watch-cycle defaults
	viper.SetDefault("watch", map[string]any{
		"cache_dir":       "cache",
		"success_delay":   "3m",
		"error_delay":     "1m",
		"request_timeout": "30s",
		"max_posts":       20,
		"send_posts":      true,
		"seed_all":        true,
		"skip_fraction":   0.3,
		"accept_status":   []int{200},
		"user_agent":      "uniwatch/1.0",
	})
}
