package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/mtlprog/earth/internal/apperr"
	"github.com/mtlprog/earth/internal/carousel"
	"github.com/mtlprog/earth/internal/catalog"
	"github.com/mtlprog/earth/internal/feedback"
	"github.com/mtlprog/earth/internal/metrics"
	"github.com/mtlprog/earth/internal/session"
)

// maxBodySize caps JSON request bodies.
const maxBodySize = 64 << 10

// Handler holds dependencies for API handlers.
type Handler struct {
	countries countryQuerier
	catalog   *catalog.Catalog
	auth      session.Authenticator
	tokens    tokenVerifier
	sender    feedback.Sender

	feedbackLog     feedbackLister
	breakpoints     carousel.Breakpoints
	countriesPolicy carousel.Policy
	regionPolicy    carousel.Policy
	metrics         *metrics.Metrics
	bufferPool      *sync.Pool // Pool of bytes.Buffer for JSON encoding
}

// Option is a functional option for configuring a Handler.
type Option func(*Handler)

// WithFeedbackLog enables GET /api/v1/feedback.
func WithFeedbackLog(l feedbackLister) Option {
	return func(h *Handler) {
		h.feedbackLog = l
	}
}

// WithBreakpoints replaces the viewport-to-page-size table.
func WithBreakpoints(b carousel.Breakpoints) Option {
	return func(h *Handler) {
		h.breakpoints = b
	}
}

// WithPolicies sets the default navigation policies of the country and region listings.
func WithPolicies(countries, regions carousel.Policy) Option {
	return func(h *Handler) {
		h.countriesPolicy = countries
		h.regionPolicy = regions
	}
}

// WithMetrics records login and feedback outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// New creates a new API Handler. Every route except login requires a bearer token that
// tokens verifies.
// Returns error if any required dependency is nil.
func New(countries countryQuerier, cat *catalog.Catalog, auth session.Authenticator, tokens tokenVerifier, sender feedback.Sender, opts ...Option) (*Handler, error) {
	if countries == nil {
		return nil, errors.New("country service is required")
	}
	if cat == nil {
		return nil, errors.New("catalog is required")
	}
	if auth == nil {
		return nil, errors.New("authenticator is required")
	}
	if tokens == nil {
		return nil, errors.New("token verifier is required")
	}
	if sender == nil {
		return nil, errors.New("feedback sender is required")
	}

	h := &Handler{
		countries:       countries,
		catalog:         cat,
		auth:            auth,
		tokens:          tokens,
		sender:          sender,
		breakpoints:     carousel.DefaultBreakpoints,
		countriesPolicy: carousel.Wrap,
		regionPolicy:    carousel.Clamp,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// RegisterRoutes registers all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/login", h.Login)

	mux.HandleFunc("GET /api/v1/countries", h.requireToken(h.ListCountries))
	mux.HandleFunc("GET /api/v1/countries/{name}", h.requireToken(h.GetCountry))
	mux.HandleFunc("GET /api/v1/regions", h.requireToken(h.ListRegions))
	mux.HandleFunc("GET /api/v1/regions/{region}", h.requireToken(h.GetRegion))
	mux.HandleFunc("GET /api/v1/cache", h.requireToken(h.CacheSnapshot))
	mux.HandleFunc("DELETE /api/v1/cache/{key}", h.requireToken(h.InvalidateCache))
	mux.HandleFunc("POST /api/v1/feedback", h.requireToken(h.SubmitFeedback))
	mux.HandleFunc("GET /api/v1/feedback", h.requireToken(h.ListFeedback))
}

// requireToken rejects requests without a valid "Authorization: Bearer" token.
func (h *Handler) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="earth"`)
			h.writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if _, err := h.tokens.Parse(strings.TrimSpace(token)); err != nil {
			slog.Debug("API token rejected", "path", r.URL.Path, "error", err)
			w.Header().Set("WWW-Authenticate", `Bearer realm="earth", error="invalid_token"`)
			h.writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next(w, r)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	buf := h.bufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		h.bufferPool.Put(buf)
	}()

	if err := json.NewEncoder(buf).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
		http.Error(w, `{"error":"internal server error","code":500}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, ErrorResponse{
		Error: msg,
		Code:  status,
	})
}

// writeAppError maps err through the error taxonomy.
func (h *Handler) writeAppError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	resp := ErrorResponse{Error: apperr.Message(err), Code: status}
	var valErr *apperr.ValidationError
	if errors.As(err, &valErr) {
		resp.Fields = valErr.Fields
	}
	h.writeJSON(w, status, resp)
}

// decodeJSON reads a JSON body into dst, writing a 400 on failure.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func parseIntParam(r *http.Request, name string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}
