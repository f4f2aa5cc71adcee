package vredis

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/redis/go-redis/v9"
)

// LogicalConn is one open Redis session. It may carry server-side state
// such as the selected database or an authenticated user, so it must never
// be shared between borrowers.
type LogicalConn interface {
	// Do sends one command and waits for its reply. A nil reply is returned
	// as (nil, nil).
	Do(ctx context.Context, args ...any) (any, error)

	// DoBatch pipelines cmds and returns their replies in order. The batch
	// fails as a whole: the first failing command's error is returned.
	DoBatch(ctx context.Context, cmds [][]any) ([]any, error)

	// Close releases the session and its socket.
	Close() error
}

// redisConn is a go-redis client pinned to a single socket.
type redisConn struct {
	client *redis.Client
	socket *socketDialer
}

var _ LogicalConn = (*redisConn)(nil)

func newRedisConn(opts redis.Options, socket net.Conn) *redisConn {
	d := &socketDialer{conn: socket}
	opts.Dialer = d.Dial
	opts.OnConnect = nil
	opts.PoolSize = 1
	opts.MinIdleConns = 0
	opts.MaxIdleConns = 1
	opts.MaxRetries = -1
	opts.ConnMaxIdleTime = -1
	opts.ConnMaxLifetime = 0
	return &redisConn{client: redis.NewClient(&opts), socket: d}
}

func (c *redisConn) Do(ctx context.Context, args ...any) (any, error) {
	reply, err := c.client.Do(ctx, args...).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return reply, err
}

func (c *redisConn) DoBatch(ctx context.Context, cmds [][]any) ([]any, error) {
	if len(cmds) == 0 {
		return nil, nil
	}

	pipe := c.client.Pipeline()
	queued := make([]*redis.Cmd, len(cmds))
	for i, args := range cmds {
		queued[i] = pipe.Do(ctx, args...)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	replies := make([]any, len(queued))
	for i, cmd := range queued {
		reply, err := cmd.Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return nil, err
		}
		replies[i] = reply
	}
	return replies, nil
}

func (c *redisConn) Close() error {
	err := c.client.Close()
	if serr := c.socket.discard(); err == nil {
		err = serr
	}
	return err
}

// socketDialer hands go-redis an already dialed socket exactly once. Any
// later dial means the socket was dropped, and the session with it.
type socketDialer struct {
	mu   sync.Mutex
	conn net.Conn
	used bool
}

func (d *socketDialer) Dial(_ context.Context, _, _ string) (net.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.used {
		return nil, errConnConsumed
	}
	d.used = true
	return d.conn, nil
}

// discard closes the socket if go-redis never took ownership of it.
func (d *socketDialer) discard() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.used {
		return nil
	}
	d.used = true
	return d.conn.Close()
}
