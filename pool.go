package vredis

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jackc/puddle/v2"
)

// connFactory is the lifecycle contract the pool needs. *Manager is the
// production implementation.
type connFactory interface {
	Create(ctx context.Context) (*Conn, error)
	Probe(ctx context.Context, conn *Conn) error
	IsBroken(conn *Conn) bool
}

var _ connFactory = (*Manager)(nil)

// newPuddle is a package-private seam used by tests to force pool
// construction failures.
var newPuddle = puddle.NewPool[*Conn]

// Pool is the concrete implementation of DB backed by puddle.
// Connections that are condemned while borrowed are destroyed on release.
type Pool struct {
	pool           *puddle.Pool[*Conn]
	factory        connFactory
	testOnCheckout bool
	logger         *slog.Logger

	condemned     atomic.Int64
	probeFailures atomic.Int64
}

var _ DB = (*Pool)(nil)

func newPool(factory connFactory, cfg Config) (*Pool, error) {
	cfg = cfg.withDefaults()
	p := &Pool{
		factory:        factory,
		testOnCheckout: cfg.TestOnCheckout,
		logger:         cfg.Logger.With(Component("pool")),
	}

	pp, err := newPuddle(&puddle.Config[*Conn]{
		Constructor: factory.Create,
		Destructor:  p.destroy,
		MaxSize:     cfg.MaxConns,
	})
	if err != nil {
		return nil, err
	}
	p.pool = pp
	return p, nil
}

// Acquire borrows a connection. With TestOnCheckout, idle connections are
// probed first; one that fails the probe is destroyed and another is tried.
func (p *Pool) Acquire(ctx context.Context) (*PooledConn, error) {
	for {
		start := time.Now()
		res, err := p.pool.Acquire(ctx)
		if err != nil {
			if errors.Is(err, puddle.ErrClosedPool) {
				return nil, ErrPoolClosed
			}
			return nil, err
		}

		if p.testOnCheckout && res.CreationTime().Before(start) {
			if err := p.factory.Probe(ctx, res.Value()); err != nil {
				p.probeFailures.Add(1)
				p.logger.Warn("redis probe failed, discarding connection", ConnID(res.Value().ID()), ErrorField(err))
				p.discard(res)
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				continue
			}
		}

		return &PooledConn{res: res, pool: p}, nil
	}
}

func (p *Pool) release(res *puddle.Resource[*Conn]) {
	conn := res.Value()
	if p.factory.IsBroken(conn) {
		p.condemned.Add(1)
		p.logger.Debug("destroying condemned redis connection", ConnID(conn.ID()))
		p.discard(res)
		return
	}
	res.Release()
}

// discard takes res out of the pool and closes it before returning, so the
// pool never counts a connection that is already unusable.
func (p *Pool) discard(res *puddle.Resource[*Conn]) {
	conn := res.Value()
	res.Hijack()
	p.destroy(conn)
}

func (p *Pool) destroy(conn *Conn) {
	if err := conn.Close(); err != nil {
		p.logger.Debug("redis connection close failed", ConnID(conn.ID()), ErrorField(err))
	}
}

// Do runs one command on a borrowed connection and returns it to the pool.
func (p *Pool) Do(ctx context.Context, args ...any) (any, error) {
	pc, err := p.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer pc.Release()
	return pc.Do(ctx, args...)
}

// DoBatch pipelines cmds on one borrowed connection.
func (p *Pool) DoBatch(ctx context.Context, cmds [][]any) ([]any, error) {
	pc, err := p.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer pc.Release()
	return pc.DoBatch(ctx, cmds)
}

// Ping borrows a connection and probes it. A connection that fails the
// probe is destroyed.
func (p *Pool) Ping(ctx context.Context) error {
	pc, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	if err := p.factory.Probe(ctx, pc.Conn()); err != nil {
		p.probeFailures.Add(1)
		pc.destroy()
		return err
	}
	pc.Release()
	return nil
}

// Close destroys all connections. It blocks until borrowed connections
// have been released.
func (p *Pool) Close() {
	p.pool.Close()
}

// Stat is a snapshot of pool statistics.
type Stat struct {
	TotalConns        int32
	IdleConns         int32
	AcquiredConns     int32
	ConstructingConns int32
	MaxConns          int32
	AcquireCount      int64

	// CondemnedConns counts connections destroyed on release because they
	// were condemned.
	CondemnedConns int64

	// ProbeFailures counts connections destroyed after a failed probe.
	ProbeFailures int64
}

// Stat returns a snapshot of pool statistics.
func (p *Pool) Stat() Stat {
	s := p.pool.Stat()
	return Stat{
		TotalConns:        s.TotalResources(),
		IdleConns:         s.IdleResources(),
		AcquiredConns:     s.AcquiredResources(),
		ConstructingConns: s.ConstructingResources(),
		MaxConns:          s.MaxResources(),
		AcquireCount:      s.AcquireCount(),
		CondemnedConns:    p.condemned.Load(),
		ProbeFailures:     p.probeFailures.Load(),
	}
}

// PooledConn is a connection borrowed from a Pool. Release must be called
// exactly once; later calls are no-ops.
type PooledConn struct {
	res  *puddle.Resource[*Conn]
	pool *Pool
	done bool
}

// Conn returns the borrowed connection.
func (c *PooledConn) Conn() *Conn { return c.res.Value() }

func (c *PooledConn) Do(ctx context.Context, args ...any) (any, error) {
	return c.Conn().Do(ctx, args...)
}

func (c *PooledConn) DoBatch(ctx context.Context, cmds [][]any) ([]any, error) {
	return c.Conn().DoBatch(ctx, cmds)
}

// Release returns the connection to the pool, or destroys it if it has been
// condemned.
func (c *PooledConn) Release() {
	if c.done {
		return
	}
	c.done = true
	c.pool.release(c.res)
}

func (c *PooledConn) destroy() {
	if c.done {
		return
	}
	c.done = true
	c.pool.discard(c.res)
}
