package server

import (
	"fmt"
	"time"

	"github.com/mastra-ai/go-mastra/internal/datastore"
	"github.com/mastra-ai/go-mastra/pkg/http"
	"github.com/mastra-ai/go-mastra/pkg/logger"
	"github.com/mastra-ai/go-mastra/pkg/middleware"
)

const (
	defaultPort               = 4111
	defaultTimeoutMS          = 30000
	defaultRequestPerSecLimit = 100
	defaultRunExpiry          = time.Hour
	defaultRunTimeout         = 5 * time.Minute
)

type Config struct {
	Environment string
	Log         logger.Config
	Router      http.RouterConfig
	Server      http.ServerConfig
	Datastore   datastore.DatastoreConfig
	Auth        middleware.AuthConfig
	Runtime     RuntimeConfig
}

type RuntimeConfig struct {
	// Agents and Workflows name builtins to register alongside Options
	Agents    []string
	Workflows []string

	// RunExpiry refers to how long a finished run stays queryable before being swept
	RunExpiry time.Duration

	// RunTimeout is the max duration a workflow run may take before being cancelled
	RunTimeout time.Duration
}

func (c *Config) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Router.TimeoutMS == 0 {
		c.Router.TimeoutMS = defaultTimeoutMS
	}
	if c.Router.RequestPerSecLimit == 0 {
		c.Router.RequestPerSecLimit = defaultRequestPerSecLimit
	}
	if c.Runtime.RunExpiry == 0 {
		c.Runtime.RunExpiry = defaultRunExpiry
	}
	if c.Runtime.RunTimeout == 0 {
		c.Runtime.RunTimeout = defaultRunTimeout
	}
}

// Str renders the config for startup logging with secrets blanked.
func (c Config) Str() string {
	redacted := c
	redacted.Auth.Secret = "<redacted>"
	redacted.Datastore.Postgres.Password = "<redacted>"
	redacted.Datastore.Redis.Password = "<redacted>"
	return fmt.Sprintf("%+v", redacted)
}
