package vredis

import (
	"log/slog"
	"time"
)

// Config controls the behavior of the Redis connection pool.
type Config struct {
	// ConnectionString is a redis:// or rediss:// URL.
	ConnectionString string

	// MaxConns defaults to 10.
	MaxConns int32

	// MinConns connections are created by Connect. Defaults to 0; Connect
	// always creates at least one to verify reachability.
	MinConns int32

	// TestOnCheckout probes idle connections with PING before lending them.
	TestOnCheckout bool

	// ConnectTimeout bounds dial plus handshake. Defaults to 10s.
	ConnectTimeout time.Duration

	// ReadTimeout defaults to 3s.
	ReadTimeout time.Duration

	// WriteTimeout defaults to 3s.
	WriteTimeout time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

const (
	defaultMaxConns       = 10
	defaultConnectTimeout = 10 * time.Second
	defaultReadTimeout    = 3 * time.Second
	defaultWriteTimeout   = 3 * time.Second
)

func (cfg Config) withDefaults() Config {
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = defaultMaxConns
	}
	if cfg.MinConns < 0 {
		cfg.MinConns = 0
	}
	if cfg.MinConns > cfg.MaxConns {
		cfg.MinConns = cfg.MaxConns
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg
}
