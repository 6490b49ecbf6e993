package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mtlprog/earth/internal/config"
	"github.com/mtlprog/earth/internal/logger"
	"github.com/urfave/cli/v2"
)

//	@title						Earth Explorer API
//	@version					1.0
//	@description				Countries, regions and feedback behind the Earth Explorer site
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token from POST /api/v1/login, sent as "Bearer <token>"
func main() {
	if err := newCLI().Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func newCLI() *cli.App {
	return &cli.App{
		Name:  "earth",
		Usage: "Earth Explorer: browse countries, regions and facts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML config file",
				EnvVars: []string{"EARTH_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Value:   config.DefaultPort,
				Usage:   "HTTP server port",
				EnvVars: []string{"PORT"},
			},
			&cli.StringFlag{
				Name:    "countries-url",
				Aliases: []string{"u"},
				Value:   config.DefaultCountriesURL,
				Usage:   "Country service base URL",
				EnvVars: []string{"COUNTRIES_URL"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.IntFlag{
				Name:    "rate-limit",
				Value:   config.DefaultRateLimit,
				Usage:   "Requests per minute per IP address",
				EnvVars: []string{"RATE_LIMIT"},
			},
			&cli.DurationFlag{
				Name:    "cache-ttl",
				Value:   config.DefaultCacheTTL,
				Usage:   "How long successful country fetches are served from cache",
				EnvVars: []string{"CACHE_TTL"},
			},
			&cli.DurationFlag{
				Name:    "refresh-interval",
				Usage:   "Reload cached listings on this interval (0 disables)",
				EnvVars: []string{"REFRESH_INTERVAL"},
			},
			&cli.BoolFlag{
				Name:    "prefetch",
				Usage:   "Warm the country cache for every region at startup",
				EnvVars: []string{"PREFETCH"},
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "PostgreSQL URL for storing feedback; empty keeps feedback in memory",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.StringFlag{
				Name:    "signing-key",
				Usage:   "Session token signing key",
				EnvVars: []string{"SIGNING_KEY"},
			},
			&cli.BoolFlag{
				Name:    "secure-cookies",
				Usage:   "Mark session cookies Secure (serve behind HTTPS)",
				EnvVars: []string{"SECURE_COOKIES"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			return nil
		},
		Action: run,
	}
}

// loadConfig reads the config file, then applies flags that were set explicitly.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, err
	}

	if c.IsSet("port") {
		cfg.Server.Port = c.String("port")
	}
	if c.IsSet("rate-limit") {
		cfg.Server.RateLimit = c.Int("rate-limit")
	}
	if c.IsSet("countries-url") {
		cfg.Countries.BaseURL = c.String("countries-url")
	}
	if c.IsSet("cache-ttl") {
		cfg.Countries.CacheTTL = c.Duration("cache-ttl")
	}
	if c.IsSet("refresh-interval") {
		cfg.Countries.RefreshInterval = c.Duration("refresh-interval")
	}
	if c.IsSet("prefetch") {
		cfg.Countries.Prefetch = c.Bool("prefetch")
	}
	if c.IsSet("database-url") {
		cfg.Database.URL = c.String("database-url")
	}
	if c.IsSet("signing-key") {
		cfg.Auth.SigningKey = c.String("signing-key")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger.Setup(logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, c.Bool("secure-cookies"))
	if err != nil {
		return err
	}
	defer a.Close()

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      a.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
