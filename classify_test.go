package vredis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustClose_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		code string
		want bool
	}{
		{KindParse, "", true},
		{KindResponse, "ERR", false},
		{KindAuthentication, "", true},
		{KindType, "", false},
		{KindExecAbort, "EXECABORT", false},
		{KindBusyLoading, "LOADING", false},
		{KindNoScript, "NOSCRIPT", false},
		{KindInvalidClientConfig, "", true},
		{KindMoved, "MOVED", false},
		{KindAsk, "ASK", false},
		{KindTryAgain, "TRYAGAIN", false},
		{KindClusterDown, "CLUSTERDOWN", false},
		{KindCrossSlot, "CROSSSLOT", false},
		{KindMasterDown, "MASTERDOWN", false},
		{KindIO, "", true},
		{KindClient, "", true},
		{KindExtension, "NOAUTH", true},
		{KindExtension, "WRONGPASS", true},
		{KindExtension, "SOMEMODULEERR", true},
		{KindExtension, "", true},
		{KindReadOnly, "READONLY", false},
		{KindUnknown, "", true},
		{Kind(999), "", true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.kind, tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, MustClose(tt.kind, tt.code))
		})
	}
}

func TestKindOf_ServerReplies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		msg      string
		wantKind Kind
		wantCode string
	}{
		{"ERR unknown command 'PING PingMsg1'", KindResponse, "ERR"},
		{"EXECABORT Transaction discarded because of previous errors.", KindExecAbort, "EXECABORT"},
		{"LOADING Redis is loading the dataset in memory", KindBusyLoading, "LOADING"},
		{"NOSCRIPT No matching script. Please use EVAL.", KindNoScript, "NOSCRIPT"},
		{"MOVED 3999 127.0.0.1:6381", KindMoved, "MOVED"},
		{"ASK 3999 127.0.0.1:6381", KindAsk, "ASK"},
		{"TRYAGAIN Multiple keys request during rehashing of slot", KindTryAgain, "TRYAGAIN"},
		{"CLUSTERDOWN The cluster is down", KindClusterDown, "CLUSTERDOWN"},
		{"CROSSSLOT Keys in request don't hash to the same slot", KindCrossSlot, "CROSSSLOT"},
		{"MASTERDOWN Link with MASTER is down", KindMasterDown, "MASTERDOWN"},
		{"READONLY You can't write against a read only replica.", KindReadOnly, "READONLY"},
		{"NOAUTH Authentication required.", KindExtension, "NOAUTH"},
		{"WRONGPASS invalid username-password pair", KindExtension, "WRONGPASS"},
		{"WRONGTYPE Operation against a key holding the wrong kind of value", KindExtension, "WRONGTYPE"},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			kind, code := KindOf(serverError(tt.msg))
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestKindOf_ClientAndTransportErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"eof", io.EOF, KindIO},
		{"unexpected eof", fmt.Errorf("read: %w", io.ErrUnexpectedEOF), KindIO},
		{"net closed", net.ErrClosed, KindIO},
		{"reset", &net.OpError{Op: "read", Net: "tcp", Err: syscall.ECONNRESET}, KindIO},
		{"broken pipe", fmt.Errorf("write: %w", syscall.EPIPE), KindIO},
		{"client closed", redis.ErrClosed, KindIO},
		{"redial refused", errConnConsumed, KindIO},
		{"canceled", context.Canceled, KindIO},
		{"deadline", context.DeadlineExceeded, KindIO},
		{"type helper", &TypeError{Want: "string", Reply: int64(1)}, KindType},
		{"go-redis type", errors.New("redis: unexpected type=int64 for String"), KindType},
		{"invalid reply", errors.New(`redis: invalid reply: "?"`), KindParse},
		{"cant parse", errors.New(`redis: can't parse "x"`), KindParse},
		{"config", &ConfigError{msg: "bad"}, KindInvalidClientConfig},
		{"connect dial", &ConnectError{Stage: StageDial, Err: io.EOF}, KindIO},
		{"connect auth", &ConnectError{Stage: StageHandshake, Err: serverError("WRONGPASS nope")}, KindAuthentication},
		{"nil reply", redis.Nil, KindResponse},
		{"other", errors.New("something odd"), KindClient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, _ := KindOf(tt.err)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	assert.False(t, Classify(nil))
	assert.False(t, Classify(serverError("ERR syntax error")))
	assert.False(t, Classify(serverError("MOVED 1 10.0.0.1:6379")))
	assert.True(t, Classify(serverError("WRONGPASS invalid username-password pair")))
	assert.True(t, Classify(io.EOF))
	assert.True(t, Classify(errors.New("mystery")))
}

func TestCodeAndIsAuthError(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("auth: %w", serverError("WRONGPASS invalid username-password pair"))
	require.Equal(t, "WRONGPASS", Code(wrapped))
	assert.True(t, IsAuthError(wrapped))
	assert.True(t, IsAuthError(serverError("NOAUTH Authentication required.")))
	assert.True(t, IsAuthError(&ConnectError{Stage: StageHandshake, Err: serverError("NOAUTH Authentication required.")}))

	assert.Equal(t, "", Code(errors.New("ERR not a server reply")))
	assert.Equal(t, "", Code(redis.Nil))
	assert.Equal(t, "", Code(nil))
	assert.False(t, IsAuthError(serverError("ERR syntax error")))
	assert.False(t, IsAuthError(io.EOF))
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "cross_slot", KindCrossSlot.String())
	assert.Equal(t, "extension", KindExtension.String())
	assert.Equal(t, "unknown", Kind(-3).String())
}
