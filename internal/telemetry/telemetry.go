// Package telemetry forwards time-series graph samples out of the process.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/joeshaw/envdecode"
	"github.com/redis/go-redis/v9"
)

// Sample is one point of a named graph. Values are keyed by series name.
type Sample struct {
	Graph  string
	Time   float64
	Values map[string]float64
}

// Sink receives graph samples. Implementations must be safe for concurrent use.
type Sink interface {
	Publish(ctx context.Context, s Sample) error
	Close() error
}

// Discard drops every sample.
var Discard Sink = discard{}

type discard struct{}

func (discard) Publish(context.Context, Sample) error { return nil }
func (discard) Close() error                           { return nil }

// Memory keeps samples in a slice. Tests and the status endpoint use it.
type Memory struct {
	mu      sync.Mutex
	samples []Sample
}

func (m *Memory) Publish(_ context.Context, s Sample) error {
	m.mu.Lock()
	m.samples = append(m.samples, s)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }

// Samples returns a copy of everything published so far.
func (m *Memory) Samples() []Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Sample(nil), m.samples...)
}

// Defaults applied by NewRedisSink to zero RedisConfig fields.
const (
	DefaultRedisAddr    = "localhost:6379"
	DefaultStreamPrefix = "sim:graph:"
	DefaultMaxLen       = 10000
)

// RedisConfig selects the server and stream naming. Defaults can be loaded via envdecode.
type RedisConfig struct {
	// Addr like "localhost:6379". ENV: SIM_REDIS_ADDR
	Addr string `env:"SIM_REDIS_ADDR,default=localhost:6379"`
	// StreamPrefix is prepended to the graph title. ENV: SIM_REDIS_STREAM_PREFIX
	StreamPrefix string `env:"SIM_REDIS_STREAM_PREFIX,default=sim:graph:"`
	// MaxLen caps each stream (approximate trimming); negative disables trimming.
	// ENV: SIM_REDIS_MAXLEN
	MaxLen int64 `env:"SIM_REDIS_MAXLEN,default=10000"`
}

// RedisSink appends one stream entry per sample.
type RedisSink struct {
	client *redis.Client
	cfg    RedisConfig
}

// RedisConfigFromEnv decodes RedisConfig from SIM_REDIS_* variables, falling back to the
// tag defaults.
func RedisConfigFromEnv() (RedisConfig, error) {
	var cfg RedisConfig
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return cfg, fmt.Errorf("telemetry: environment: %w", err)
	}
	return cfg, nil
}

// NewRedisSink connects and pings the server.
func NewRedisSink(ctx context.Context, cfg RedisConfig) (*RedisSink, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultRedisAddr
	}
	if cfg.StreamPrefix == "" {
		cfg.StreamPrefix = DefaultStreamPrefix
	}
	if cfg.MaxLen == 0 {
		cfg.MaxLen = DefaultMaxLen
	}
	cl := redis.NewClient(&redis.Options{Addr: cfg.Addr})
	if err := cl.Ping(ctx).Err(); err != nil {
		_ = cl.Close()
		return nil, fmt.Errorf("telemetry: redis ping %s: %w", cfg.Addr, err)
	}
	return &RedisSink{client: cl, cfg: cfg}, nil
}

// NewRedisSinkFromEnv builds a RedisSink from RedisConfigFromEnv.
func NewRedisSinkFromEnv(ctx context.Context) (*RedisSink, error) {
	cfg, err := RedisConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return NewRedisSink(ctx, cfg)
}

// Config returns the effective configuration.
func (r *RedisSink) Config() RedisConfig { return r.cfg }

// Stream returns the stream key used for graph.
func (r *RedisSink) Stream(graph string) string { return r.cfg.StreamPrefix + graph }

func (r *RedisSink) Publish(ctx context.Context, s Sample) error {
	values := make(map[string]interface{}, len(s.Values)+1)
	values["t"] = strconv.FormatFloat(s.Time, 'g', -1, 64)
	for k, v := range s.Values {
		values[k] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	args := &redis.XAddArgs{Stream: r.Stream(s.Graph), Values: values}
	if r.cfg.MaxLen > 0 {
		args.MaxLen = r.cfg.MaxLen
		args.Approx = true
	}
	if err := r.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("telemetry: xadd %s: %w", args.Stream, err)
	}
	return nil
}

// Close closes the Redis client.
func (r *RedisSink) Close() error { return r.client.Close() }
