package server

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/mastra-ai/go-mastra/internal/datastore"
	"github.com/mastra-ai/go-mastra/internal/registry"
	runhooks "github.com/mastra-ai/go-mastra/internal/registry/hooks"
	"github.com/mastra-ai/go-mastra/pkg/http"
	"github.com/mastra-ai/go-mastra/pkg/middleware"
	"github.com/rs/zerolog"
	"github.com/unrolled/render"
)

// Options carry everything that cannot live in file config: the registered
// agents and workflows plus user declared middleware and custom routes.
type Options struct {
	// Agents and Workflows are the collaborators the server generates routes for
	Agents    []registry.Agent
	Workflows []registry.Workflow

	// Middleware is the ordered chain applied before route handlers.
	// An empty Path applies the middleware to every request.
	Middleware []middleware.Entry

	// APIRoutes are user declared custom routes mounted next to generated ones
	APIRoutes []APIRoute

	// Hooks fire on run start and end in addition to the configured datastore hooks
	Hooks []registry.RunHook
}

type Server struct {
	cfg      Config
	log      zerolog.Logger
	server   *http.Server
	store    datastore.RunStore
	errCh    chan error
	shutdown sync.Once
}

func NewServer(cfg Config, options Options, log zerolog.Logger) (*Server, error) {
	cfg.setDefaults()

	redis := datastore.NewRedisClient(&cfg.Datastore.Redis)
	store, err := datastore.NewPostgresClient(&cfg.Datastore.Postgres)
	if err != nil {
		return nil, err
	}

	hooks := append([]registry.RunHook{}, options.Hooks...)
	if cfg.Datastore.Redis.Enabled {
		hooks = append(hooks, runhooks.NewRedisHook(redis, log))
	}
	if cfg.Datastore.Postgres.Enabled {
		hooks = append(hooks, runhooks.NewStoreHook(store, log))
	}

	agents := append([]registry.Agent{}, options.Agents...)
	for _, name := range cfg.Runtime.Agents {
		builtin, ok := builtinAgents[name]
		if !ok {
			return nil, ErrNoBuiltinAgent(name)
		}
		agents = append(agents, builtin)
	}
	workflows := append([]registry.Workflow{}, options.Workflows...)
	for _, name := range cfg.Runtime.Workflows {
		builtin, ok := builtinWorkflows[name]
		if !ok {
			return nil, ErrNoBuiltinWorkflow(name)
		}
		workflows = append(workflows, builtin)
	}

	orchestrator, err := registry.NewOrchestrator(registry.Options{
		Agents:     agents,
		Workflows:  workflows,
		Hooks:      hooks,
		RunExpiry:  cfg.Runtime.RunExpiry,
		RunTimeout: cfg.Runtime.RunTimeout,
	})
	if err != nil {
		return nil, err
	}

	chain := options.Middleware
	if cfg.Auth.Enabled {
		chain = append([]middleware.Entry{{Handler: middleware.BearerAuth(cfg.Auth), Path: "/api/*"}}, chain...)
	}

	handler := NewHandler(log, render.New(), orchestrator, redis)
	r := NewRouter(cfg.Router, chain, log)
	r = AddRoutes(r, handler)
	if err := AddAPIRoutes(r, options.APIRoutes); err != nil {
		return nil, err
	}
	return &Server{
		cfg:    cfg,
		log:    log,
		server: http.NewServer(cfg.Server, r, log),
		store:  store,
		errCh:  make(chan error),
	}, nil
}

func (s *Server) Start() {
	go s.server.Start(s.errCh)
	for err := range s.errCh {
		if err != nil {
			s.log.Error().Caller().Err(err).Msg("fatal error")
			s.Shutdown(true)
		}
	}
}

func (s *Server) Shutdown(errored bool) {
	s.shutdown.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info().Msg("attempting graceful shutdown")
		graceful := make(chan bool)
		go func(graceful <-chan bool) {
			for {
				select {
				case <-ctx.Done():
					s.log.Panic().Msg("timeout so shutdown ungracefully")
				case <-graceful:
					return
				}
			}
		}(graceful)
		if err := s.server.Shutdown(ctx); err != nil {
			s.log.Error().Caller().Err(err).Msg("failed to shutdown server gracefully")
		}
		if err := s.store.Close(ctx); err != nil {
			s.log.Error().Caller().Err(err).Msg("failed to close run store")
		}
		close(s.errCh)
		close(graceful)
		if errored {
			s.log.Info().Msg("shutdown gracefully but error detected")
			os.Exit(1)
		}
	})
}
