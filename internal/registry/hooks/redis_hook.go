package hooks

import (
	"context"
	"fmt"
	"strings"

	"github.com/mastra-ai/go-mastra/internal/datastore"
	"github.com/mastra-ai/go-mastra/internal/registry"
	"github.com/rs/zerolog"
)

const ignoreKey = "test"

// RedisHook keeps all-time run counters in redis.
type RedisHook struct {
	client *datastore.RedisClient
	log    zerolog.Logger
}

func NewRedisHook(redis *datastore.RedisClient, log zerolog.Logger) *RedisHook {
	return &RedisHook{
		client: redis,
		log:    log,
	}
}

func (r *RedisHook) OnRunStart(run *registry.Run) {
	if strings.EqualFold(run.Key, ignoreKey) {
		return
	}
	key := fmt.Sprintf(datastore.StatsKeyRunsStarted, strings.ToLower(run.Key))
	if err := r.client.IncrStat(context.Background(), key); err != nil {
		r.log.Debug().Caller().Err(err).Msgf("failed to incr runs started for key %s", key)
	}
}

func (r *RedisHook) OnRunEnd(run *registry.Run) {
	if strings.EqualFold(run.Key, ignoreKey) {
		return
	}
	statsKey := datastore.StatsKeyRunsCompleted
	if run.Status != registry.RunStatusCompleted {
		statsKey = datastore.StatsKeyRunsFailed
	}
	key := fmt.Sprintf(statsKey, strings.ToLower(run.Key))
	if err := r.client.IncrStat(context.Background(), key); err != nil {
		r.log.Debug().Caller().Err(err).Msgf("failed to incr run count for key %s", key)
	}
}
