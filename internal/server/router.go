package server

import (
	"time"

	"github.com/go-chi/chi"
	chimiddleware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/mastra-ai/go-mastra/pkg/http"
	"github.com/mastra-ai/go-mastra/pkg/middleware"
	"github.com/rs/zerolog"
	"github.com/urfave/negroni"
)

func NewRouter(cfg http.RouterConfig, chain []middleware.Entry, log zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(time.Duration(cfg.TimeoutMS) * time.Millisecond))
	r.Use(httprate.LimitAll(cfg.RequestPerSecLimit, time.Second))
	if !cfg.DisableCors {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   cfg.AllowedMethods,
			AllowedHeaders:   cfg.AllowedHeaders,
			AllowCredentials: cfg.AllowCredentials,
		}))
	}
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.ClientHeaders())
	r.Use(middleware.Metrics())
	if len(chain) > 0 {
		r.Use(middleware.Chain(chain...))
	}
	return r
}

func AddRoutes(r *chi.Mux, handler *Handler) *chi.Mux {
	r.Route("/api", func(r chi.Router) {
		r.Get("/", negroni.New(negroni.WrapFunc(handler.Root)).ServeHTTP)
		r.Route("/agents", func(r chi.Router) {
			r.Get("/", negroni.New(negroni.WrapFunc(handler.ListAgents)).ServeHTTP)
			r.Get("/{agentId}", negroni.New(negroni.WrapFunc(handler.GetAgent)).ServeHTTP)
			r.Post("/{agentId}/generate", negroni.New(negroni.WrapFunc(handler.GenerateAgent)).ServeHTTP)
			r.Get("/{agentId}/stream", negroni.New(negroni.WrapFunc(handler.StreamAgent)).ServeHTTP)
		})
		r.Route("/workflows", func(r chi.Router) {
			r.Get("/", negroni.New(negroni.WrapFunc(handler.ListWorkflows)).ServeHTTP)
			r.Get("/{workflowId}", negroni.New(negroni.WrapFunc(handler.GetWorkflow)).ServeHTTP)
			r.Post("/{workflowId}/start", negroni.New(negroni.WrapFunc(handler.StartWorkflowRun)).ServeHTTP)
			r.Get("/{workflowId}/runs/{runId}", negroni.New(negroni.WrapFunc(handler.GetRun)).ServeHTTP)
		})
	})
	r.Get("/health", negroni.New(negroni.WrapFunc(handler.Health)).ServeHTTP)
	r.Get("/stats", negroni.New(negroni.WrapFunc(handler.GetStats)).ServeHTTP)
	r.Get("/metrics", middleware.MetricsHandler().ServeHTTP)
	return r
}
