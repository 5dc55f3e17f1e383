package middleware

import (
	"net/http"
	"strings"
)

// CacheControl is a middleware that sets Cache-Control headers based on request path.
// Pricing pages reflect the visitor's checkout session and are never shared:
// - Favicon: 1 week
// - Stylesheets and other /static/ assets: 1 day
// - Swagger docs: 1 hour
// - API reads: 5 minutes
// - HTML pages: private, revalidated on every request
// - POST/PUT/DELETE: no caching
func CacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Form posts and API submissions carry buyer data
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Cache-Control", "no-store")
			next.ServeHTTP(w, r)
			return
		}

		path := r.URL.Path

		switch {
		case path == "/favicon.svg":
			w.Header().Set("Cache-Control", "public, max-age=604800")
		case strings.HasPrefix(path, "/static/"):
			w.Header().Set("Cache-Control", "public, max-age=86400")
		case strings.HasPrefix(path, "/swagger/"):
			w.Header().Set("Cache-Control", "public, max-age=3600")
		case strings.HasPrefix(path, "/api/"):
			w.Header().Set("Cache-Control", "public, max-age=300, must-revalidate")
		default:
			w.Header().Set("Cache-Control", "private, no-cache")
		}
		next.ServeHTTP(w, r)
	})
}
