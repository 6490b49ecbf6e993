package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultCountriesURL is the public REST Countries v3.1 endpoint.
	DefaultCountriesURL = "https://restcountries.com/v3.1"

	// DefaultHTTPTimeout bounds a single call to the country service.
	DefaultHTTPTimeout = 10 * time.Second

	// DefaultCacheTTL is how long a successful country fetch is served from cache.
	DefaultCacheTTL = 10 * time.Minute

	// DefaultRateLimit is the default requests per minute per IP address.
	DefaultRateLimit = 100

	// DefaultCountriesPolicy is the carousel navigation policy of the countries page.
	DefaultCountriesPolicy = "wrap"

	// DefaultRegionPolicy is the carousel navigation policy of region pages.
	DefaultRegionPolicy = "clamp"

	// DefaultUsername and DefaultPassword are the only credentials the mock authenticator accepts.
	DefaultUsername = "user"
	DefaultPassword = "pass"
	DefaultEmail    = "user@example.com"

	// DefaultSigningKey signs session tokens; override outside development.
	DefaultSigningKey = "dev-secret-key-change-in-production"

	// DefaultTokenTTL is the lifetime of a session token.
	DefaultTokenTTL = 24 * time.Hour

	// DefaultFeedbackDelay is the simulated latency of the mock feedback endpoint.
	DefaultFeedbackDelay = time.Second

	// SessionCookie holds the visitor session ID.
	SessionCookie = "earth_session"

	// ViewportCookie holds the last reported viewport width in pixels.
	ViewportCookie = "vw"
)

// Config is the complete runtime configuration. Zero values are never used directly;
// start from Default.
type Config struct {
	LogLevel  string    `toml:"log_level"`
	Server    Server    `toml:"server"`
	Countries Countries `toml:"countries"`
	Carousel  Carousel  `toml:"carousel"`
	Auth      Auth      `toml:"auth"`
	Feedback  Feedback  `toml:"feedback"`
	Database  Database  `toml:"database"`
}

// Server configures the HTTP listener.
type Server struct {
	Port      string `toml:"port"`
	RateLimit int    `toml:"rate_limit"`
}

// Countries configures the remote country service and its cache.
type Countries struct {
	BaseURL  string        `toml:"base_url"`
	Timeout  time.Duration `toml:"timeout"`
	CacheTTL time.Duration `toml:"cache_ttl"`
	Prefetch bool          `toml:"prefetch"`

	// RefreshInterval reloads every cached listing periodically; zero disables it.
	RefreshInterval time.Duration `toml:"refresh_interval"`
}

// Carousel configures paged views.
type Carousel struct {
	CountriesPolicy string       `toml:"countries_policy"`
	RegionPolicy    string       `toml:"region_policy"`
	Breakpoints     []Breakpoint `toml:"breakpoints"`
}

// Breakpoint maps a minimum viewport width to a page size.
type Breakpoint struct {
	MinWidth int `toml:"min_width"`
	Items    int `toml:"items"`
}

// Auth configures the mock authenticator and session tokens.
type Auth struct {
	Username   string        `toml:"username"`
	Password   string        `toml:"password"`
	Email      string        `toml:"email"`
	SigningKey string        `toml:"signing_key"`
	TokenTTL   time.Duration `toml:"token_ttl"`
}

// Feedback configures the feedback endpoint.
type Feedback struct {
	Delay time.Duration `toml:"delay"`
}

// Database configures optional PostgreSQL persistence. An empty URL disables it.
type Database struct {
	URL string `toml:"url"`
}

// DefaultBreakpoints mirror the responsive grid: phones, small tablets, tablets, desktop.
func DefaultBreakpoints() []Breakpoint {
	return []Breakpoint{
		{MinWidth: 0, Items: 1},
		{MinWidth: 640, Items: 2},
		{MinWidth: 768, Items: 3},
		{MinWidth: 1024, Items: 4},
	}
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Server: Server{
			Port:      DefaultPort,
			RateLimit: DefaultRateLimit,
		},
		Countries: Countries{
			BaseURL:  DefaultCountriesURL,
			Timeout:  DefaultHTTPTimeout,
			CacheTTL: DefaultCacheTTL,
		},
		Carousel: Carousel{
			CountriesPolicy: DefaultCountriesPolicy,
			RegionPolicy:    DefaultRegionPolicy,
			Breakpoints:     DefaultBreakpoints(),
		},
		Auth: Auth{
			Username:   DefaultUsername,
			Password:   DefaultPassword,
			Email:      DefaultEmail,
			SigningKey: DefaultSigningKey,
			TokenTTL:   DefaultTokenTTL,
		},
		Feedback: Feedback{
			Delay: DefaultFeedbackDelay,
		},
	}
}

// Load decodes the TOML file at path over Default. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks invariants the rest of the program relies on.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if c.Server.RateLimit <= 0 {
		errs = append(errs, fmt.Errorf("server.rate_limit must be positive, got %d", c.Server.RateLimit))
	}
	if c.Countries.BaseURL == "" {
		errs = append(errs, errors.New("countries.base_url is required"))
	}
	if c.Countries.CacheTTL < 0 {
		errs = append(errs, errors.New("countries.cache_ttl must not be negative"))
	}
	if c.Countries.RefreshInterval < 0 {
		errs = append(errs, errors.New("countries.refresh_interval must not be negative"))
	}
	if len(c.Carousel.Breakpoints) == 0 {
		errs = append(errs, errors.New("carousel.breakpoints must not be empty"))
	}
	for i, bp := range c.Carousel.Breakpoints {
		if bp.Items <= 0 {
			errs = append(errs, fmt.Errorf("carousel.breakpoints[%d].items must be positive", i))
		}
		if bp.MinWidth < 0 {
			errs = append(errs, fmt.Errorf("carousel.breakpoints[%d].min_width must not be negative", i))
		}
	}
	if c.Auth.SigningKey == "" {
		errs = append(errs, errors.New("auth.signing_key is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	if c.Feedback.Delay < 0 {
		errs = append(errs, errors.New("feedback.delay must not be negative"))
	}
	return errors.Join(errs...)
}
