// Package vredis provides a pooled Redis connection that tracks its own
// health and tells the pool when it must be thrown away.
//
// Invariants:
//
//   - every failed round-trip is classified; the error is returned unchanged.
//   - a condemned connection never becomes healthy again.
//   - condemned connections are destroyed on release, never reused.
//   - probing is separate from classification and never touches the flag.
//   - connect-path errors are safe to log by default.
//
// The pool is github.com/jackc/puddle/v2 and the protocol client is
// github.com/redis/go-redis/v9. Each logical connection is a go-redis client
// pinned to exactly one socket that it is not allowed to redial.
package vredis
