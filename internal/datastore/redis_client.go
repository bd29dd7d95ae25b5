package datastore

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"
)

const (
	StatsKeyRunsStarted   = "stats:%s:runs_started"   // EX: "stats:weather-agent:runs_started"
	StatsKeyRunsCompleted = "stats:%s:runs_completed" // EX: "stats:daily-report:runs_completed"
	StatsKeyRunsFailed    = "stats:%s:runs_failed"
)

var errRedisNotEnabled = fmt.Errorf("redis is not enabled")

type RedisClient struct {
	client *redis.Client
	config *RedisConfig
}

func NewRedisClient(config *RedisConfig) *RedisClient {
	return &RedisClient{
		client: redis.NewClient(&redis.Options{
			Addr:     config.Host,
			Password: config.Password,
			DB:       0,
		}),
		config: config,
	}
}

type RunStatsAllTime struct {
	RunsStarted   map[string]int
	RunsCompleted map[string]int
	RunsFailed    map[string]int
}

func (r *RedisClient) IncrStat(ctx context.Context, key string) error {
	if !r.config.Enabled {
		return errRedisNotEnabled
	}
	_, err := r.client.Incr(ctx, key).Result()
	return err
}

func (r *RedisClient) GetRunStats(ctx context.Context, keys []string) (*RunStatsAllTime, error) {
	if !r.config.Enabled {
		return nil, errRedisNotEnabled
	}
	stats := &RunStatsAllTime{
		RunsStarted:   make(map[string]int),
		RunsCompleted: make(map[string]int),
		RunsFailed:    make(map[string]int),
	}
	for _, key := range keys {
		started, err := r.getCount(ctx, fmt.Sprintf(StatsKeyRunsStarted, strings.ToLower(key)))
		if err != nil {
			continue
		}
		completed, err := r.getCount(ctx, fmt.Sprintf(StatsKeyRunsCompleted, strings.ToLower(key)))
		if err != nil {
			continue
		}
		failed, _ := r.getCount(ctx, fmt.Sprintf(StatsKeyRunsFailed, strings.ToLower(key)))
		stats.RunsStarted[key] = started
		stats.RunsCompleted[key] = completed
		stats.RunsFailed[key] = failed
	}
	return stats, nil
}

func (r *RedisClient) getCount(ctx context.Context, key string) (int, error) {
	raw, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(raw)
}
