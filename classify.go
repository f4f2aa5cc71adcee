package vredis

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"
)

// Kind is the failure category of an error observed on a connection.
type Kind int

const (
	KindUnknown Kind = iota
	KindParse
	KindResponse
	KindAuthentication
	KindType
	KindExecAbort
	KindBusyLoading
	KindNoScript
	KindInvalidClientConfig
	KindMoved
	KindAsk
	KindTryAgain
	KindClusterDown
	KindCrossSlot
	KindMasterDown
	KindIO
	KindClient
	KindExtension
	KindReadOnly
)

var kindNames = map[Kind]string{
	KindUnknown:             "unknown",
	KindParse:               "parse",
	KindResponse:            "response",
	KindAuthentication:      "authentication",
	KindType:                "type",
	KindExecAbort:           "exec_abort",
	KindBusyLoading:         "busy_loading",
	KindNoScript:            "no_script",
	KindInvalidClientConfig: "invalid_client_config",
	KindMoved:               "moved",
	KindAsk:                 "ask",
	KindTryAgain:            "try_again",
	KindClusterDown:         "cluster_down",
	KindCrossSlot:           "cross_slot",
	KindMasterDown:          "master_down",
	KindIO:                  "io",
	KindClient:              "client",
	KindExtension:           "extension",
	KindReadOnly:            "read_only",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// serverKinds maps the leading word of a server error reply to its kind.
// Codes not listed here are extension errors.
var serverKinds = map[string]Kind{
	"ERR":         KindResponse,
	"EXECABORT":   KindExecAbort,
	"LOADING":     KindBusyLoading,
	"NOSCRIPT":    KindNoScript,
	"MOVED":       KindMoved,
	"ASK":         KindAsk,
	"TRYAGAIN":    KindTryAgain,
	"CLUSTERDOWN": KindClusterDown,
	"CROSSSLOT":   KindCrossSlot,
	"MASTERDOWN":  KindMasterDown,
	"READONLY":    KindReadOnly,
}

// MustClose reports whether a failure of the given kind leaves the
// connection's session, authentication or framing untrustworthy.
//
// code is the server error code, if any. Kinds not listed are treated as
// connection-compromising.
func MustClose(kind Kind, code string) bool {
	switch kind {
	case KindResponse,
		KindType,
		KindExecAbort,
		KindBusyLoading,
		KindNoScript,
		KindMoved,
		KindAsk,
		KindTryAgain,
		KindClusterDown,
		KindCrossSlot,
		KindMasterDown,
		KindReadOnly:
		return false
	case KindParse,
		KindAuthentication,
		KindInvalidClientConfig,
		KindIO,
		KindClient:
		return true
	case KindExtension:
		// Includes NOAUTH and WRONGPASS; codes added by modules close too.
		return true
	default:
		return true
	}
}

// Classify reports whether err requires the connection it was observed on
// to be closed. A nil error never does.
func Classify(err error) bool {
	if err == nil {
		return false
	}
	kind, code := KindOf(err)
	return MustClose(kind, code)
}

// KindOf maps an error returned by a round-trip to its failure category and,
// for server error replies, the reply's error code.
func KindOf(err error) (Kind, string) {
	if err == nil {
		return KindUnknown, ""
	}

	var typeErr *TypeError
	if errors.As(err, &typeErr) {
		return KindType, ""
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return KindInvalidClientConfig, ""
	}
	var connErr *ConnectError
	if errors.As(err, &connErr) {
		if connErr.Auth() {
			return KindAuthentication, Code(connErr.Err)
		}
		return KindIO, ""
	}

	// A round-trip abandoned mid-flight may still have its reply in the
	// socket, so the stream position is unknown.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindIO, ""
	}

	if errors.Is(err, redis.Nil) {
		return KindResponse, ""
	}
	if code := Code(err); code != "" {
		if kind, ok := serverKinds[code]; ok {
			return kind, code
		}
		return KindExtension, code
	}

	if isIOError(err) {
		return KindIO, ""
	}

	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "redis: unexpected type"):
		return KindType, ""
	case strings.HasPrefix(msg, "redis: invalid reply"),
		strings.HasPrefix(msg, "redis: can't parse"),
		strings.HasPrefix(msg, "redis: got"):
		return KindParse, ""
	}

	return KindClient, ""
}

// Code returns the error code of a Redis server error reply, such as
// "WRONGPASS" or "MOVED". It returns "" for any other error.
func Code(err error) string {
	var rerr redis.Error
	if err == nil || !errors.As(err, &rerr) || errors.Is(err, redis.Nil) {
		return ""
	}
	code, _, _ := strings.Cut(rerr.Error(), " ")
	if code == "" || strings.ToUpper(code) != code {
		return ""
	}
	return code
}

// IsAuthError reports whether err is an authentication rejection, either at
// connect time or as a NOAUTH/WRONGPASS reply to a command.
func IsAuthError(err error) bool {
	kind, code := KindOf(err)
	if kind == KindAuthentication {
		return true
	}
	return kind == KindExtension && (code == "NOAUTH" || code == "WRONGPASS")
}

func isIOError(err error) bool {
	if errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, errConnConsumed) ||
		errors.Is(err, redis.ErrClosed) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
