package config_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniwatch/uniwatch/internal/config"
)

const testYAML = `
app:
  name: uniwatch
  environment: development
server:
  address: ":3000"
  read_timeout: 15s
watch:
  cache_dir: cache
  success_delay: 3m
  error_delay: 1m
  request_timeout: 30s
  max_posts: 20
  send_posts: true
  seed_all: true
  skip_fraction: 0.3
  accept_status: [200, 401]
  webhook: https://hooks.example.com/general
  error_webhook: https://hooks.example.com/errors
credentials:
  username: student
  password: hunter2
  login_url: https://login.example-faculty.edu/cas/login
scrapers:
  announcements:
    url: https://www.example-faculty.edu/announcements
    strategy: announcements
    enabled: true
    role: "12345"
  course:
    url: https://courses.example-faculty.edu/forum
    strategy: course
    enabled: true
    name: Course forum
    webhook: https://hooks.example.com/course
    max_posts: 10
    cookie: "MoodleSession=abc"
`

// loadFromYAML resets viper and loads the given document.
func loadFromYAML(t *testing.T, doc string) (*config.Config, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.SetConfigType("yaml")
	require.NoError(t, viper.ReadConfig(strings.NewReader(doc)))
	return config.Load()
}

func TestLoad_FullDocument(t *testing.T) {
	cfg, err := loadFromYAML(t, testYAML)
	require.NoError(t, err)

	assert.Equal(t, "uniwatch", cfg.App.Name)
	assert.Equal(t, ":3000", cfg.Server.Address)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)

	watch := cfg.GetWatchConfig()
	assert.Equal(t, 3*time.Minute, watch.SuccessDelay)
	assert.Equal(t, time.Minute, watch.ErrorDelay)
	assert.Equal(t, 20, watch.MaxPosts)
	assert.InEpsilon(t, 0.3, watch.SkipFraction, 1e-9)
	assert.Equal(t, []int{200, 401}, watch.AcceptStatus)

	creds := cfg.GetCredentialsConfig()
	assert.True(t, creds.Configured())

	require.Len(t, cfg.GetScrapers(), 2)
	course, ok := cfg.GetScraper("course")
	require.True(t, ok)
	assert.Equal(t, "course", course.Strategy)
	assert.Equal(t, 10, course.MaxPosts)
	assert.Equal(t, "https://hooks.example.com/course", course.Webhook)
	// Cookie names must survive the unmarshal with their case intact.
	assert.Equal(t, "MoodleSession=abc", course.Cookie)

	_, ok = cfg.GetScraper("missing")
	assert.False(t, ok)
}

func TestLoad_InvalidDocumentFails(t *testing.T) {
	broken := strings.Replace(testYAML, "strategy: course", "strategy: \"\"", 1)
	_, err := loadFromYAML(t, broken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrConfigLoad))
}

func validConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Address: ":3000"},
		Watch: config.WatchConfig{
			CacheDir:     "cache",
			SuccessDelay: 3 * time.Minute,
			ErrorDelay:   time.Minute,
			MaxPosts:     20,
			SkipFraction: 0.3,
		},
		Scrapers: map[string]config.ScraperConfig{
			"jobs": {URL: "https://example.com/jobs", Strategy: "jobs"},
		},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
	}{
		{
			name:   "valid",
			mutate: func(*config.Config) {},
		},
		{
			name:    "missing address",
			mutate:  func(c *config.Config) { c.Server.Address = "" },
			wantErr: config.ErrMissingAddress,
		},
		{
			name:    "missing cache dir",
			mutate:  func(c *config.Config) { c.Watch.CacheDir = "" },
			wantErr: config.ErrMissingCacheDir,
		},
		{
			name:    "zero success delay",
			mutate:  func(c *config.Config) { c.Watch.SuccessDelay = 0 },
			wantErr: config.ErrInvalidDelay,
		},
		{
			name:    "negative max posts",
			mutate:  func(c *config.Config) { c.Watch.MaxPosts = -1 },
			wantErr: config.ErrInvalidMaxPosts,
		},
		{
			name:    "skip fraction out of range",
			mutate:  func(c *config.Config) { c.Watch.SkipFraction = 1 },
			wantErr: config.ErrInvalidSkipFraction,
		},
		{
			name: "scraper missing url",
			mutate: func(c *config.Config) {
				c.Scrapers["jobs"] = config.ScraperConfig{Strategy: "jobs"}
			},
			wantErr: config.ErrMissingURL,
		},
		{
			name: "scraper missing strategy",
			mutate: func(c *config.Config) {
				c.Scrapers["jobs"] = config.ScraperConfig{URL: "https://example.com/jobs"}
			},
			wantErr: config.ErrMissingStrategy,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestWatchConfig_Accepts(t *testing.T) {
	t.Parallel()

	empty := config.WatchConfig{}
	assert.True(t, empty.Accepts(http.StatusOK))
	assert.False(t, empty.Accepts(http.StatusUnauthorized))
	assert.False(t, empty.Accepts(http.StatusFound))

	listed := config.WatchConfig{AcceptStatus: []int{200, 401}}
	assert.True(t, listed.Accepts(http.StatusOK))
	assert.True(t, listed.Accepts(http.StatusUnauthorized))
	assert.False(t, listed.Accepts(http.StatusServiceUnavailable))
}

func TestCredentialsConfig_Configured(t *testing.T) {
	t.Parallel()

	creds := config.CredentialsConfig{
		Username: "student",
		Password: "hunter2",
		LoginURL: "https://login.example.com/cas/login",
	}
	assert.True(t, creds.Configured())

	creds.Password = ""
	assert.False(t, creds.Configured())
}
