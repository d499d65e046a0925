// Package cors allows the browser SPA, served from a different origin
// during development, to call the API.
package cors

import "net/http"

// Config holds the allowed origin. "*" admits any origin, the default for a
// single-user local tool.
type Config struct {
	AllowedOrigin string
}

// DefaultConfig returns the permissive default.
func DefaultConfig() Config {
	return Config{AllowedOrigin: "*"}
}

// Handler returns middleware that sets CORS headers and answers preflight
// requests.
func Handler(cfg Config, next http.Handler) http.Handler {
	origin := cfg.AllowedOrigin
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
