package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/mtlprog/earth/docs"
	"github.com/mtlprog/earth/internal/api"
	"github.com/mtlprog/earth/internal/carousel"
	"github.com/mtlprog/earth/internal/catalog"
	"github.com/mtlprog/earth/internal/config"
	"github.com/mtlprog/earth/internal/countries"
	"github.com/mtlprog/earth/internal/database"
	"github.com/mtlprog/earth/internal/feedback"
	"github.com/mtlprog/earth/internal/handler"
	"github.com/mtlprog/earth/internal/metrics"
	"github.com/mtlprog/earth/internal/middleware"
	"github.com/mtlprog/earth/internal/query"
	"github.com/mtlprog/earth/internal/refresh"
	"github.com/mtlprog/earth/internal/service"
	"github.com/mtlprog/earth/internal/session"
	"github.com/mtlprog/earth/internal/template"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/lo"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// app owns everything that needs closing on shutdown.
type app struct {
	handler  http.Handler
	limiter  *middleware.RateLimiter
	visitors *session.Store[*handler.Visitor]
	pool     *pgxpool.Pool
}

func (a *app) Close() {
	if a.limiter != nil {
		a.limiter.Close()
	}
	if a.visitors != nil {
		a.visitors.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

func newApp(ctx context.Context, cfg config.Config, secureCookies bool) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	client, err := countries.NewClient(cfg.Countries.BaseURL,
		countries.WithTimeout(cfg.Countries.Timeout),
		countries.WithMetrics(m),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create country client: %w", err)
	}

	cache := query.New[[]countries.Country](
		query.WithTTL(cfg.Countries.CacheTTL),
		query.WithLoadTimeout(cfg.Countries.Timeout),
		query.WithMetrics(m),
	)
	svc, err := service.NewCountryService(client, cache)
	if err != nil {
		return nil, fmt.Errorf("failed to create country service: %w", err)
	}

	cat, err := catalog.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	if cfg.Countries.Prefetch {
		go func() {
			_ = svc.Prefetch(ctx, cat.RegionSlugs())
		}()
	}
	if cfg.Countries.RefreshInterval > 0 {
		refresher, err := refresh.New(svc, cat.RegionSlugs(), cfg.Countries.RefreshInterval)
		if err != nil {
			return nil, fmt.Errorf("failed to create cache refresher: %w", err)
		}
		go refresher.Start(ctx)
	}

	tmpl, err := template.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	tokens, err := session.NewTokenIssuer(cfg.Auth.SigningKey, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create token issuer: %w", err)
	}
	auth, err := session.NewMockAuthenticator(tokens,
		session.WithCredentials(cfg.Auth.Username, cfg.Auth.Password, cfg.Auth.Email),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticator: %w", err)
	}

	sender, repo, err := a.feedbackSender(ctx, cfg)
	if err != nil {
		return nil, err
	}

	breakpoints, err := carousel.NewBreakpoints(lo.Map(cfg.Carousel.Breakpoints, func(bp config.Breakpoint, _ int) carousel.Breakpoint {
		return carousel.Breakpoint{MinWidth: bp.MinWidth, Items: bp.Items}
	}))
	if err != nil {
		return nil, fmt.Errorf("invalid breakpoints: %w", err)
	}
	countriesPolicy, err := carousel.ParsePolicy(cfg.Carousel.CountriesPolicy)
	if err != nil {
		return nil, err
	}
	regionPolicy, err := carousel.ParsePolicy(cfg.Carousel.RegionPolicy)
	if err != nil {
		return nil, err
	}

	// A session outliving its token can only be logged out, so it expires with the token.
	a.visitors = session.NewStore(func() *handler.Visitor {
		return handler.NewVisitor(
			session.NewGate(auth),
			feedback.NewController(sender, feedback.WithMetrics(m)),
		)
	}, session.WithIdleTimeout(cfg.Auth.TokenTTL))

	pages, err := handler.New(svc, tmpl, cat, a.visitors,
		handler.WithTokenVerifier(tokens),
		handler.WithBreakpoints(breakpoints),
		handler.WithPolicies(countriesPolicy, regionPolicy),
		handler.WithSecureCookies(secureCookies),
		handler.WithMetrics(m),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create handler: %w", err)
	}

	apiOpts := []api.Option{
		api.WithBreakpoints(breakpoints),
		api.WithPolicies(countriesPolicy, regionPolicy),
		api.WithMetrics(m),
	}
	if repo != nil {
		apiOpts = append(apiOpts, api.WithFeedbackLog(repo))
	}
	apiHandler, err := api.New(svc, cat, auth, tokens, sender, apiOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create API handler: %w", err)
	}

	mux := http.NewServeMux()
	pages.RegisterRoutes(mux)
	apiHandler.RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	a.limiter, err = middleware.New(cfg.Server.RateLimit,
		middleware.WithBypass("/static/", "/metrics", "/swagger/"),
		middleware.WithMetrics(m),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limiter: %w", err)
	}

	a.handler = middleware.Chain(mux,
		middleware.Logging(slog.Default()),
		a.limiter.Middleware,
		middleware.CacheControl,
	)
	return a, nil
}

// feedbackSender persists feedback when a database is configured and simulates the endpoint otherwise.
func (a *app) feedbackSender(ctx context.Context, cfg config.Config) (feedback.Sender, *feedback.Repository, error) {
	if cfg.Database.URL == "" {
		slog.Info("database not configured, using simulated feedback endpoint", "delay", cfg.Feedback.Delay.String())
		return feedback.NewMockSender(cfg.Feedback.Delay), nil, nil
	}

	pool, err := database.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.pool = pool

	if err := database.Migrate(ctx, pool); err != nil {
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	repo, err := feedback.NewRepository(pool)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("feedback stored in database")
	return repo, repo, nil
}
