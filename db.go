package vredis

import "context"

// DB defines the contract for Redis access in application code.
//
// All methods require context.Context. A round-trip abandoned because its
// context was canceled condemns the connection it ran on; the pool then
// replaces that connection instead of reusing it.
//
// Prefer depending on DB rather than *Pool so application code remains
// testable (via TestDB). Pool management (Acquire, Stat) lives on the
// concrete Pool type.
type DB interface {
	// Do runs one command on a pooled connection.
	Do(ctx context.Context, args ...any) (any, error)

	// DoBatch pipelines commands on a single pooled connection.
	DoBatch(ctx context.Context, cmds [][]any) ([]any, error)

	// Ping verifies connectivity.
	Ping(ctx context.Context) error

	// Close releases all pool resources. Call once during graceful shutdown.
	Close()
}
