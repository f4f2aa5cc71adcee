package vredis

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolClosed is returned by Acquire after Close.
	ErrPoolClosed = errors.New("vredis: pool is closed")

	// errConnConsumed is returned when go-redis tries to redial a logical
	// connection whose socket is already gone.
	errConnConsumed = errors.New("vredis: connection socket already consumed")
)

// SafeError wraps a cause with an error string safe for default production
// logging. The wrapped cause may still contain sensitive detail.
type SafeError struct {
	msg   string
	cause error
}

func (e *SafeError) Error() string { return e.msg }
func (e *SafeError) Unwrap() error { return e.cause }

// ConfigError reports unusable client configuration. Its message never
// includes the connection string.
type ConfigError struct {
	msg   string
	cause error
}

func (e *ConfigError) Error() string { return e.msg }
func (e *ConfigError) Unwrap() error { return e.cause }

// Connect stages reported by ConnectError.
const (
	StageDial      = "dial"
	StageHandshake = "handshake"
)

// ConnectError is returned by Manager.Create when a connection could not be
// opened. It is never retried here.
type ConnectError struct {
	Stage string
	Host  string
	Err   error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("vredis: %s failed (host=%s)", e.Stage, e.Host)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// Auth reports whether the server rejected the configured credentials.
func (e *ConnectError) Auth() bool {
	switch Code(e.Err) {
	case "NOAUTH", "WRONGPASS":
		return true
	}
	return false
}

// ProbeError is returned by Manager.Probe. The pool discards the connection
// without consulting its health flag.
type ProbeError struct {
	Reply any
	Err   error
}

func (e *ProbeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("vredis: probe failed: %v", e.Err)
	}
	return fmt.Sprintf("vredis: probe failed: unexpected reply %v", e.Reply)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// TypeError is returned by the typed reply helpers when the server replied
// with a different type than requested.
type TypeError struct {
	Want  string
	Reply any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("vredis: reply type mismatch: want %s, got %T", e.Want, e.Reply)
}
