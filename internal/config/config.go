// Package config provides configuration management for the uniwatch
// application. It handles loading, validation, and access to configuration
// values from YAML files and environment variables via viper.
package config

import (
	"fmt"
	"time"
)

// Interface defines the interface for configuration management.
type Interface interface {
	// GetAppConfig returns the application configuration.
	GetAppConfig() *AppConfig
	// GetServerConfig returns the HTTP server configuration.
	GetServerConfig() *ServerConfig
	// GetWatchConfig returns the watch-cycle configuration.
	GetWatchConfig() *WatchConfig
	// GetCredentialsConfig returns the session credentials, if configured.
	GetCredentialsConfig() *CredentialsConfig
	// GetScrapers returns all configured scrapers keyed by name.
	GetScrapers() map[string]ScraperConfig
	// GetScraper returns one scraper configuration by name.
	GetScraper(name string) (ScraperConfig, bool)
	// Validate validates the configuration.
	Validate() error
}

// Ensure Config implements Interface
var _ Interface = (*Config)(nil)

// Config represents the application configuration.
type Config struct {
	// App holds application-level configuration
	App AppConfig `mapstructure:"app"`
	// Server holds HTTP server configuration
	Server ServerConfig `mapstructure:"server"`
	// Watch holds the shared watch-cycle configuration
	Watch WatchConfig `mapstructure:"watch"`
	// Credentials hold the session login for gated sources
	Credentials CredentialsConfig `mapstructure:"credentials"`
	// Scrapers holds the per-source configurations keyed by name
	Scrapers map[string]ScraperConfig `mapstructure:"scrapers"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	// Name is the application name
	Name string `mapstructure:"name"`
	// Environment is the runtime environment (development/production)
	Environment string `mapstructure:"environment"`
	// Debug enables debug mode
	Debug bool `mapstructure:"debug"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Address is the listen address, e.g. ":3000"
	Address string `mapstructure:"address"`
	// ReadTimeout is the maximum duration for reading a request
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the maximum duration for writing a response
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// IdleTimeout is the maximum keep-alive idle duration
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
}

// WatchConfig holds the settings shared by every watch cycle.
type WatchConfig struct {
	// CacheDir is the directory holding per-scraper identifier caches
	CacheDir string `mapstructure:"cache_dir"`
	// SuccessDelay is the sleep after a completed cycle
	SuccessDelay time.Duration `mapstructure:"success_delay"`
	// ErrorDelay is the sleep after a failed cycle
	ErrorDelay time.Duration `mapstructure:"error_delay"`
	// RequestTimeout bounds a single page fetch
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// MaxPosts is the default number of post elements inspected per cycle
	MaxPosts int `mapstructure:"max_posts"`
	// SendPosts toggles delivery; when false, posts are rendered and
	// cached but never sent
	SendPosts bool `mapstructure:"send_posts"`
	// SeedAll delivers the entire first batch when a cache is empty
	SeedAll bool `mapstructure:"seed_all"`
	// SkipFraction is the fraction of the oldest batch dropped when the
	// cache is non-empty, guarding against re-notification floods
	SkipFraction float64 `mapstructure:"skip_fraction"`
	// AcceptStatus lists the HTTP status codes treated as success
	AcceptStatus []int `mapstructure:"accept_status"`
	// UserAgent is sent on every page fetch
	UserAgent string `mapstructure:"user_agent"`
	// Webhook is the default delivery endpoint
	Webhook string `mapstructure:"webhook"`
	// ErrorWebhook is the endpoint for operational failure reports
	ErrorWebhook string `mapstructure:"error_webhook"`
}

// Accepts reports whether the given HTTP status code counts as a
// successful fetch. An empty AcceptStatus list accepts only 200.
func (w *WatchConfig) Accepts(code int) bool {
	if len(w.AcceptStatus) == 0 {
		return code == defaultAcceptStatus
	}
	for _, accepted := range w.AcceptStatus {
		if code == accepted {
			return true
		}
	}
	return false
}

// CredentialsConfig holds the login used to obtain session cookies for
// gated sources.
type CredentialsConfig struct {
	// Username for the session login
	Username string `mapstructure:"username"`
	// Password for the session login
	Password string `mapstructure:"password"`
	// LoginURL is the SSO form endpoint
	LoginURL string `mapstructure:"login_url"`
}

// Configured reports whether a usable login is present.
func (c *CredentialsConfig) Configured() bool {
	return c.Username != "" && c.Password != "" && c.LoginURL != ""
}

// ScraperConfig represents one watched source.
type ScraperConfig struct {
	// URL is the page to fetch
	URL string `mapstructure:"url"`
	// Strategy names the extraction strategy for this page layout
	Strategy string `mapstructure:"strategy"`
	// Enabled controls whether the runner starts this scraper
	Enabled bool `mapstructure:"enabled"`
	// Name is an optional display name used as the notification sender
	Name string `mapstructure:"name"`
	// Role is an optional role ID mentioned on delivery
	Role string `mapstructure:"role"`
	// Webhook overrides the default delivery endpoint
	Webhook string `mapstructure:"webhook"`
	// MaxPosts overrides the default per-cycle element limit (0 = default)
	MaxPosts int `mapstructure:"max_posts"`
	// Cookie is a raw Cookie header value sent with every fetch, e.g.
	// "MoodleSession=abc". A plain string because cookie names are
	// case-sensitive and viper lowercases map keys on unmarshal.
	Cookie string `mapstructure:"cookie"`
}

// GetAppConfig returns the application configuration.
func (c *Config) GetAppConfig() *AppConfig {
	return &c.App
}

// GetServerConfig returns the HTTP server configuration.
func (c *Config) GetServerConfig() *ServerConfig {
	return &c.Server
}

// GetWatchConfig returns the watch-cycle configuration.
func (c *Config) GetWatchConfig() *WatchConfig {
	return &c.Watch
}

// GetCredentialsConfig returns the session credentials.
func (c *Config) GetCredentialsConfig() *CredentialsConfig {
	return &c.Credentials
}

// GetScrapers returns all configured scrapers keyed by name.
func (c *Config) GetScrapers() map[string]ScraperConfig {
	return c.Scrapers
}

// GetScraper returns one scraper configuration by name.
func (c *Config) GetScraper(name string) (ScraperConfig, bool) {
	sc, ok := c.Scrapers[name]
	return sc, ok
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Server.validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Watch.validate(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	for name := range c.Scrapers {
		sc := c.Scrapers[name]
		if err := sc.validate(); err != nil {
			return fmt.Errorf("scraper %q: %w", name, err)
		}
	}
	return nil
}

func (s *ServerConfig) validate() error {
	if s.Address == "" {
		return ErrMissingAddress
	}
	return nil
}

func (w *WatchConfig) validate() error {
	if w.CacheDir == "" {
		return ErrMissingCacheDir
	}
	if w.SuccessDelay <= 0 || w.ErrorDelay <= 0 {
		return ErrInvalidDelay
	}
	if w.MaxPosts <= 0 {
		return ErrInvalidMaxPosts
	}
	if w.SkipFraction < 0 || w.SkipFraction >= 1 {
		return ErrInvalidSkipFraction
	}
	return nil
}

func (s *ScraperConfig) validate() error {
	if s.URL == "" {
		return ErrMissingURL
	}
	if s.Strategy == "" {
		return ErrMissingStrategy
	}
	if s.MaxPosts < 0 {
		return ErrInvalidMaxPosts
	}
	return nil
}
