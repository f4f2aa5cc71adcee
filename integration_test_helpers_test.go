//go:build integration

package vredis

import (
	"net"
	"os"
	"regexp"
	"strconv"
	"strings"
	"testing"
)

// integrationPassword is the requirepass of the server under test.
const integrationPassword = "mypass"

var integrationURLPattern = regexp.MustCompile(`(?i)rediss?://[^\s]+`)

func requireIntegrationAddr(t *testing.T) string {
	t.Helper()

	port := strings.TrimSpace(os.Getenv("REDIS_TCP_PORT"))
	if port == "" {
		t.Fatal("integration requires environment variable REDIS_TCP_PORT")
	}
	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		t.Fatalf("invalid REDIS_TCP_PORT %q", port)
	}
	return net.JoinHostPort("127.0.0.1", port)
}

func integrationURL(addr string, withPassword bool) string {
	if withPassword {
		return "redis://:" + integrationPassword + "@" + addr
	}
	return "redis://" + addr
}

func sanitizeErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return integrationURLPattern.ReplaceAllString(err.Error(), "[REDACTED_URL]")
}

func mustNoErr(t *testing.T, err error, operation string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %s", operation, sanitizeErrorMessage(err))
	}
}
