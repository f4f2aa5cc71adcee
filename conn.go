package vredis

import (
	"context"
	"log/slog"
)

// Conn is a LogicalConn that watches its own failures. Once a failure shows
// the session can no longer be trusted the connection is condemned, and the
// pool destroys it instead of reusing it.
//
// A Conn is used by one borrower at a time and does no locking of its own.
type Conn struct {
	id            string
	raw           LogicalConn
	closeRequired bool
	logger        *slog.Logger
}

func newConn(id string, raw LogicalConn, logger *slog.Logger) *Conn {
	if logger == nil {
		logger = slog.Default()
	}
	return &Conn{
		id:     id,
		raw:    raw,
		logger: logger.With(Component("conn"), ConnID(id)),
	}
}

// ID returns the connection's identifier as used in log records.
func (c *Conn) ID() string { return c.id }

// Inner returns the wrapped connection. Commands sent through it directly
// are not observed.
func (c *Conn) Inner() LogicalConn { return c.raw }

// Do runs one command. A failure is classified before it is returned; the
// error value itself is never changed.
func (c *Conn) Do(ctx context.Context, args ...any) (any, error) {
	reply, err := c.raw.Do(ctx, args...)
	if err != nil {
		c.observe(err)
		return nil, err
	}
	return reply, nil
}

// DoBatch runs cmds as one pipeline. A failed batch is classified once.
func (c *Conn) DoBatch(ctx context.Context, cmds [][]any) ([]any, error) {
	replies, err := c.raw.DoBatch(ctx, cmds)
	if err != nil {
		c.observe(err)
		return nil, err
	}
	return replies, nil
}

// Text runs one command and expects a string reply.
func (c *Conn) Text(ctx context.Context, args ...any) (string, error) {
	reply, err := c.Do(ctx, args...)
	if err != nil {
		return "", err
	}
	s, ok := reply.(string)
	if !ok {
		err := &TypeError{Want: "string", Reply: reply}
		c.observe(err)
		return "", err
	}
	return s, nil
}

// Int64 runs one command and expects an integer reply.
func (c *Conn) Int64(ctx context.Context, args ...any) (int64, error) {
	reply, err := c.Do(ctx, args...)
	if err != nil {
		return 0, err
	}
	n, ok := reply.(int64)
	if !ok {
		err := &TypeError{Want: "int64", Reply: reply}
		c.observe(err)
		return 0, err
	}
	return n, nil
}

// MarkCondemned condemns the connection regardless of any error. Use it
// when the caller knows the session is unsound, for example after
// abandoning a reply it was waiting for.
func (c *Conn) MarkCondemned() {
	c.condemn(KindUnknown, "")
}

// IsCondemned reports whether the connection must be destroyed.
func (c *Conn) IsCondemned() bool { return c.closeRequired }

// Close closes the wrapped connection.
func (c *Conn) Close() error { return c.raw.Close() }

func (c *Conn) observe(err error) {
	kind, code := KindOf(err)
	if MustClose(kind, code) {
		c.condemn(kind, code)
	}
}

func (c *Conn) condemn(kind Kind, code string) {
	if c.closeRequired {
		return
	}
	c.closeRequired = true
	c.logger.Debug("redis connection condemned", slog.String("kind", kind.String()), slog.String("code", code))
}
