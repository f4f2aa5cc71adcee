package vredis

import (
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

const testPassword = "mypass"

var urlAuthorityPattern = regexp.MustCompile(`(?i)rediss?://[^\s]*@`)

func assertNoURLLeak(t *testing.T, msg string) {
	t.Helper()

	lower := strings.ToLower(msg)
	for _, marker := range []string{"redis://", "rediss://", "supersecret"} {
		if strings.Contains(lower, marker) {
			t.Fatalf("error leaked sensitive marker %q: %q", marker, msg)
		}
	}
	if urlAuthorityPattern.MatchString(msg) {
		t.Fatalf("error leaked URL authority info: %q", msg)
	}
}

func assertSafeErrorWraps(t *testing.T, err error, want error) {
	t.Helper()

	if !errors.Is(err, want) {
		t.Fatalf("expected errors.Is to match %v, got %v", want, err)
	}
	var se *SafeError
	if !errors.As(err, &se) {
		t.Fatalf("expected SafeError wrapper, got %T", err)
	}
}

// newTestServer starts an in-process Redis. A non-empty password is
// required from every client.
func newTestServer(t *testing.T, password string) *miniredis.Miniredis {
	t.Helper()

	s := miniredis.RunT(t)
	if password != "" {
		s.RequireAuth(password)
	}
	return s
}

func serverURL(s *miniredis.Miniredis, password string) string {
	if password == "" {
		return "redis://" + s.Addr()
	}
	return "redis://:" + password + "@" + s.Addr()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// serverError is a Redis error reply as go-redis reports it.
type serverError string

func (e serverError) Error() string { return string(e) }
func (serverError) RedisError()     {}
