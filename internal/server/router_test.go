package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	pkghttp "github.com/mastra-ai/go-mastra/pkg/http"
	"github.com/mastra-ai/go-mastra/pkg/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouterConfig() pkghttp.RouterConfig {
	return pkghttp.RouterConfig{
		TimeoutMS:          5000,
		RequestPerSecLimit: 100,
		AllowedOrigins:     []string{"https://app.example.com"},
		AllowedMethods:     []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials:   true,
	}
}

func TestRouterCors(t *testing.T) {
	r := NewRouter(testRouterConfig(), nil, zerolog.Nop())
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRouterCorsDisallowedOrigin(t *testing.T) {
	r := NewRouter(testRouterConfig(), nil, zerolog.Nop())
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterGlobalAndScopedChain(t *testing.T) {
	var calls []string
	tag := func(name string) middleware.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls = append(calls, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := NewRouter(testRouterConfig(), []middleware.Entry{
		{Handler: tag("global")},
		{Handler: tag("api"), Path: "/api/*"},
	}, zerolog.Nop())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/api/agents", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"global"}, calls)

	calls = calls[:0]
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/agents", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"global", "api"}, calls)
}
