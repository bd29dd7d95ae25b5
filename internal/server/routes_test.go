package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi"
	"github.com/mastra-ai/go-mastra/pkg/logger"
	"github.com/mastra-ai/go-mastra/pkg/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Log = zerolog.Nop()
	os.Exit(m.Run())
}

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("custom"))
}

func TestAddAPIRoutes(t *testing.T) {
	r := chi.NewRouter()
	err := AddAPIRoutes(r, []APIRoute{
		{Method: "get", Path: "/custom", Handler: ok},
		{Method: http.MethodPost, Path: "/custom", Handler: ok},
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/custom", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "custom", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/custom", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAddAPIRoutesValidation(t *testing.T) {
	tests := []struct {
		name  string
		route APIRoute
		err   error
	}{
		{"no handler", APIRoute{Method: http.MethodGet, Path: "/a"}, ErrRouteNoHandler(http.MethodGet, "/a")},
		{"bad method", APIRoute{Method: "FETCH", Path: "/a", Handler: ok}, ErrRouteBadMethod("FETCH", "/a")},
		{"bad path", APIRoute{Method: http.MethodGet, Path: "a", Handler: ok}, ErrRouteBadPath(http.MethodGet, "a")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AddAPIRoutes(chi.NewRouter(), []APIRoute{tt.route})
			assert.EqualError(t, err, tt.err.Error())
		})
	}
}

func TestAddAPIRoutesDuplicate(t *testing.T) {
	err := AddAPIRoutes(chi.NewRouter(), []APIRoute{
		{Method: http.MethodGet, Path: "/dup", Handler: ok},
		{Method: "GET", Path: "/dup", Handler: ok},
	})
	assert.EqualError(t, err, ErrRouteDuplicate("GET", "/dup").Error())
}

func TestAPIRouteMiddlewareShortCircuit(t *testing.T) {
	deny := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	r := chi.NewRouter()
	err := AddAPIRoutes(r, []APIRoute{
		{Method: http.MethodGet, Path: "/guarded", Handler: ok, Middleware: []middleware.Middleware{deny}},
		{Method: http.MethodGet, Path: "/open", Handler: ok},
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// route scoped middleware must not leak onto other routes
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
