package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/justinas/alice"
	"github.com/mastra-ai/go-mastra/pkg/middleware"
	"github.com/urfave/negroni"
)

// APIRoute is a user declared custom route mounted next to the generated
// ones. Middleware applies to this route only, in registration order.
type APIRoute struct {
	Method     string
	Path       string
	Handler    http.HandlerFunc
	Middleware []middleware.Middleware
}

var allowedMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

var (
	ErrRouteNoHandler = func(method, path string) error {
		return fmt.Errorf("route '%s %s' has no handler", method, path)
	}

	ErrRouteBadMethod = func(method, path string) error {
		return fmt.Errorf("route '%s %s' has an unsupported method", method, path)
	}

	ErrRouteBadPath = func(method, path string) error {
		return fmt.Errorf("route '%s %s' must have a path starting with '/'", method, path)
	}

	ErrRouteDuplicate = func(method, path string) error {
		return fmt.Errorf("route '%s %s' is registered more than once", method, path)
	}
)

// AddAPIRoutes validates and mounts the custom routes. Routes must be well
// formed at construction; any violation fails server creation.
func AddAPIRoutes(r *chi.Mux, routes []APIRoute) error {
	seen := make(map[string]bool)
	for _, route := range routes {
		method := strings.ToUpper(route.Method)
		if route.Handler == nil {
			return ErrRouteNoHandler(method, route.Path)
		}
		if !allowedMethods[method] {
			return ErrRouteBadMethod(method, route.Path)
		}
		if !strings.HasPrefix(route.Path, "/") {
			return ErrRouteBadPath(method, route.Path)
		}
		key := method + " " + route.Path
		if seen[key] {
			return ErrRouteDuplicate(method, route.Path)
		}
		seen[key] = true

		c := alice.New()
		for _, m := range route.Middleware {
			c = c.Append(alice.Constructor(m))
		}
		handler := c.Then(route.Handler)
		r.MethodFunc(method, route.Path, negroni.New(negroni.Wrap(handler)).ServeHTTP)
	}
	return nil
}
