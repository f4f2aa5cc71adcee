package vredis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Option configures Connect and NewManager for advanced use cases.
type Option func(*connectOptions)

type connectOptions struct {
	redisOptionsModifier func(*redis.Options)
}

// WithRedisOptions allows low-level go-redis configuration of every
// logical connection.
//
// The modifier runs after standard vango-redis configuration is applied.
// Pool sizing, retries and the dialer are always overridden: each logical
// connection owns exactly one socket and never redials it.
func WithRedisOptions(fn func(*redis.Options)) Option {
	return func(o *connectOptions) {
		o.redisOptionsModifier = fn
	}
}

// Connect creates a pool of health-tracked Redis connections.
//
// Connect opens max(MinConns, 1) connections before returning so that an
// unreachable server or rejected credentials fail fast.
func Connect(ctx context.Context, cfg Config, opts ...Option) (*Pool, error) {
	mgr, err := NewManager(cfg, opts...)
	if err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	pool, err := newPool(mgr, cfg)
	if err != nil {
		return nil, &SafeError{
			msg:   fmt.Sprintf("vredis: failed to create pool (host=%s)", mgr.host),
			cause: err,
		}
	}

	warm := max(cfg.MinConns, 1)
	for range warm {
		if err := pool.pool.CreateResource(ctx); err != nil {
			pool.Close()
			return nil, &SafeError{
				msg:   fmt.Sprintf("vredis: initial connect failed (host=%s, is the server reachable?)", mgr.host),
				cause: err,
			}
		}
	}

	return pool, nil
}
