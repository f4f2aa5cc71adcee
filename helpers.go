package vredis

import "context"

// HealthStatus is the response type for health check endpoints.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// HealthCheck verifies Redis connectivity and returns a status suitable for
// health check API endpoints.
func HealthCheck(ctx context.Context, db DB) (*HealthStatus, error) {
	if err := db.Ping(ctx); err != nil {
		return nil, &SafeError{msg: "vredis: health check failed", cause: err}
	}

	return &HealthStatus{Status: "ok", Database: "redis"}, nil
}

// WithConn runs fn on one borrowed connection, for command sequences that
// depend on session state (SELECT, MULTI/EXEC, CLIENT settings). The
// connection is released afterwards. If fn panics the connection is
// condemned before the panic continues.
func WithConn(ctx context.Context, pool *Pool, fn func(*Conn) error) (err error) {
	pc, err := pool.Acquire(ctx)
	if err != nil {
		return &SafeError{msg: "vredis: acquire failed", cause: err}
	}

	defer func() {
		if p := recover(); p != nil {
			pc.Conn().MarkCondemned()
			pc.Release()
			panic(p)
		}
		pc.Release()
	}()

	return fn(pc.Conn())
}
