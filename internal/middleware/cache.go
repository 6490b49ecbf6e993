package middleware

import (
	"net/http"
	"strings"
)

// CacheControl sets Cache-Control headers based on request path:
// - Static assets: 1 day
// - Swagger docs: 1 hour
// - Public API reads: 1 minute with revalidation
// - Cache inspection, feedback and metrics: never stored
// - Session pages: private, never stored
// - POST/PUT/DELETE: no caching
func CacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", cachePolicy(r.Method, r.URL.Path))
		next.ServeHTTP(w, r)
	})
}

func cachePolicy(method, path string) string {
	if method != http.MethodGet && method != http.MethodHead {
		return "no-store"
	}

	switch {
	case strings.HasPrefix(path, "/static/"):
		return "public, max-age=86400"
	case strings.HasPrefix(path, "/swagger/"):
		return "public, max-age=3600"
	case path == "/metrics",
		strings.HasPrefix(path, "/api/v1/cache"),
		strings.HasPrefix(path, "/api/v1/feedback"):
		return "no-store"
	case strings.HasPrefix(path, "/api/"):
		return "public, max-age=60, must-revalidate"
	default:
		// Pages depend on the visitor's session and viewport.
		return "private, no-store"
	}
}
