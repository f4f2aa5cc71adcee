package vredis

import (
	"context"
	"errors"
	"log/slog"
)

// ErrNotMocked is returned when a TestDB or FakeConn method is called
// without a corresponding Func field set.
var ErrNotMocked = errors.New("vredis: method not mocked, set the corresponding Func field")

// TestDB is a mock DB implementation for unit tests.
type TestDB struct {
	DoFunc      func(ctx context.Context, args ...any) (any, error)
	DoBatchFunc func(ctx context.Context, cmds [][]any) ([]any, error)
	PingFunc    func(ctx context.Context) error
	CloseFunc   func()
}

var _ DB = (*TestDB)(nil)

func (t *TestDB) Do(ctx context.Context, args ...any) (any, error) {
	if t.DoFunc != nil {
		return t.DoFunc(ctx, args...)
	}
	return nil, ErrNotMocked
}

func (t *TestDB) DoBatch(ctx context.Context, cmds [][]any) ([]any, error) {
	if t.DoBatchFunc != nil {
		return t.DoBatchFunc(ctx, cmds)
	}
	return nil, ErrNotMocked
}

func (t *TestDB) Ping(ctx context.Context) error {
	if t.PingFunc != nil {
		return t.PingFunc(ctx)
	}
	return nil
}

func (t *TestDB) Close() {
	if t.CloseFunc != nil {
		t.CloseFunc()
	}
}

// FakeConn is a scriptable LogicalConn for unit tests.
type FakeConn struct {
	DoFunc      func(ctx context.Context, args ...any) (any, error)
	DoBatchFunc func(ctx context.Context, cmds [][]any) ([]any, error)
	CloseFunc   func() error

	// Calls records the arguments of every Do call.
	Calls  [][]any
	Closed bool
}

var _ LogicalConn = (*FakeConn)(nil)

func (f *FakeConn) Do(ctx context.Context, args ...any) (any, error) {
	f.Calls = append(f.Calls, args)
	if f.DoFunc != nil {
		return f.DoFunc(ctx, args...)
	}
	return nil, ErrNotMocked
}

func (f *FakeConn) DoBatch(ctx context.Context, cmds [][]any) ([]any, error) {
	if f.DoBatchFunc != nil {
		return f.DoBatchFunc(ctx, cmds)
	}
	return nil, ErrNotMocked
}

func (f *FakeConn) Close() error {
	f.Closed = true
	if f.CloseFunc != nil {
		return f.CloseFunc()
	}
	return nil
}

// NewTestConn wraps raw in a healthy Conn, as Manager.Create would.
func NewTestConn(id string, raw LogicalConn) *Conn {
	return newConn(id, raw, slog.New(slog.DiscardHandler))
}
