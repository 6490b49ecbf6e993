package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ExtractIP returns the client IP without port. The first X-Forwarded-For entry wins, then
// X-Real-IP, then RemoteAddr. Header values that are not IP addresses are ignored.
//
// The forwarding headers are trusted as-is: run behind a reverse proxy that sets them,
// otherwise clients can pick their own rate-limit bucket.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := parseIP(first); ip != "" {
			return ip
		}
	}

	if ip := parseIP(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func parseIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}
