package handler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mtlprog/earth/internal/carousel"
	"github.com/mtlprog/earth/internal/catalog"
	"github.com/mtlprog/earth/internal/metrics"
	"github.com/mtlprog/earth/internal/session"
	"github.com/mtlprog/earth/internal/static"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	countries CountryQuerier
	tmpl      TemplateRenderer
	catalog   *catalog.Catalog
	visitors  *session.Store[*Visitor]

	tokens          TokenVerifier
	breakpoints     carousel.Breakpoints
	countriesPolicy carousel.Policy
	regionPolicy    carousel.Policy
	secureCookies   bool
	metrics         *metrics.Metrics
	logger          *slog.Logger
}

// Option is a functional option for configuring a Handler.
type Option func(*Handler)

// WithTokenVerifier makes protected pages log out visitors whose token no longer verifies.
func WithTokenVerifier(v TokenVerifier) Option {
	return func(h *Handler) {
		h.tokens = v
	}
}

// WithBreakpoints replaces the viewport-to-page-size table.
func WithBreakpoints(b carousel.Breakpoints) Option {
	return func(h *Handler) {
		h.breakpoints = b
	}
}

// WithPolicies sets the navigation policies of the countries page and region pages.
func WithPolicies(countries, regions carousel.Policy) Option {
	return func(h *Handler) {
		h.countriesPolicy = countries
		h.regionPolicy = regions
	}
}

// WithSecureCookies marks session cookies Secure.
func WithSecureCookies(secure bool) Option {
	return func(h *Handler) {
		h.secureCookies = secure
	}
}

// WithMetrics records login attempts.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithLogger sets a custom logger for the handler.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// New creates a new Handler with the given dependencies.
// Returns error if any required dependency is nil.
func New(countries CountryQuerier, tmpl TemplateRenderer, cat *catalog.Catalog, visitors *session.Store[*Visitor], opts ...Option) (*Handler, error) {
	if countries == nil {
		return nil, errors.New("country service is required")
	}
	if tmpl == nil {
		return nil, errors.New("templates are required")
	}
	if cat == nil {
		return nil, errors.New("catalog is required")
	}
	if visitors == nil {
		return nil, errors.New("visitor store is required")
	}

	h := &Handler{
		countries:       countries,
		tmpl:            tmpl,
		catalog:         cat,
		visitors:        visitors,
		breakpoints:     carousel.DefaultBreakpoints,
		countriesPolicy: carousel.Wrap,
		regionPolicy:    carousel.Clamp,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// RegisterRoutes registers all HTTP routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET /static/", http.StripPrefix("/static/", static.Handler()))

	mux.HandleFunc("GET /login", h.LoginPage)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("POST /logout", h.Logout)

	mux.HandleFunc("GET /{$}", h.requireAuth(h.Home))
	mux.HandleFunc("GET /countries", h.requireAuth(h.Countries))
	mux.HandleFunc("GET /countries/{name}", h.requireAuth(h.Country))
	mux.HandleFunc("GET /regions", h.requireAuth(h.Regions))
	mux.HandleFunc("GET /regions/{region}", h.requireAuth(h.Region))
	mux.HandleFunc("GET /facts", h.requireAuth(h.Facts))
	mux.HandleFunc("GET /about", h.requireAuth(h.About))
	mux.HandleFunc("GET /contact", h.requireAuth(h.ContactPage))
	mux.HandleFunc("POST /contact", h.requireAuth(h.Contact))
	mux.HandleFunc("GET /", h.requireAuth(h.NotFound))
}

// Layout is the data shared by every page.
type Layout struct {
	Title  string
	Active string
	User   *session.User
}

// ErrorData holds data for the error page template.
type ErrorData struct {
	Layout
	Status  int
	Message string
}

func (h *Handler) layout(r *http.Request, title, active string) Layout {
	l := Layout{Title: title, Active: active}
	if v := visitorFrom(r.Context()); v != nil {
		l.User = v.Gate.State().User
	}
	return l
}

// render executes a page into a buffer first so template errors never produce half a page.
func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.tmpl.Render(&buf, name, data); err != nil {
		h.logger.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("failed to write response", "template", name, "error", err)
	}
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.render(w, status, "error.html", ErrorData{
		Layout:  h.layout(r, http.StatusText(status), ""),
		Status:  status,
		Message: message,
	})
}

// NotFound renders the 404 page for unknown paths.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "Page not found")
}
