// Package static provides embedded static files for the web server.
package static

import (
	"embed"
	"io/fs"
	"net/http"
)

// viewport.js keeps the vw cookie in sync with the window width so server-rendered
// carousels can pick their items per page.
//
//go:embed favicon.svg viewport.js
var files embed.FS

// Handler returns an http.Handler that serves static files.
func Handler() http.Handler {
	return http.FileServer(http.FS(files))
}

// FS returns the embedded filesystem.
func FS() fs.FS {
	return files
}
