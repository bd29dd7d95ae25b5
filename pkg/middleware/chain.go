// Package middleware holds the ordered middleware chain along with the
// cross-cutting handlers the server mounts by default: request logging,
// client header extraction, bearer auth, and prometheus metrics.
package middleware

import (
	"net/http"
	"strings"

	"github.com/justinas/alice"
)

// Middleware wraps an http.Handler. A middleware short-circuits the chain by
// writing a response and not calling the wrapped handler.
type Middleware func(http.Handler) http.Handler

// Entry is a single registered middleware. Path is optional; when empty the
// middleware applies to every request, otherwise only to requests whose path
// matches the pattern. Patterns are exact paths or a '/*' suffix wildcard,
// e.g. "/api/*".
type Entry struct {
	Handler Middleware
	Path    string
}

// Chain composes entries in registration order into a single middleware.
func Chain(entries ...Entry) Middleware {
	return func(next http.Handler) http.Handler {
		c := alice.New()
		for _, entry := range entries {
			c = c.Append(alice.Constructor(scoped(entry)))
		}
		return c.Then(next)
	}
}

func scoped(entry Entry) Middleware {
	if entry.Path == "" {
		return entry.Handler
	}
	return func(next http.Handler) http.Handler {
		wrapped := entry.Handler(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if MatchPath(entry.Path, r.URL.Path) {
				wrapped.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// MatchPath reports whether path matches pattern. A pattern ending in '/*'
// matches the prefix itself and anything below it.
func MatchPath(pattern, path string) bool {
	if pattern == path {
		return true
	}
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return false
}
