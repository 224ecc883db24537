package echo

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startServer runs a Server on an ephemeral loopback port and returns
// its address and a cancel func that triggers graceful shutdown.
func startServer(t *testing.T) (string, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(t.Context())

	s := &Server{}
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	var addr string
	require.Eventually(t, func() bool {
		addr = s.Addr()
		return addr != ""
	}, 2*time.Second, 10*time.Millisecond)

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("server did not shut down")
		}
	})
	return addr, cancel
}

func TestEchoRoundTrip(t *testing.T) {
	addr, _ := startServer(t)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	msg := []byte("hello, echo\n")
	_, err = conn.Write(msg)
	require.NoError(t, err)

	buf := make([]byte, len(msg))
	_, err = readFull(conn, buf)
	require.NoError(t, err)
	assert.Equal(t, msg, buf)
}

func TestEchoLargePayloadSpansChunks(t *testing.T) {
	addr, _ := startServer(t)

	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	payload := []byte(strings.Repeat("0123456789abcdef", 1024)) // 16 KiB
	go func() {
		_, _ = conn.Write(payload)
	}()

	buf := make([]byte, len(payload))
	_, err = readFull(conn, buf)
	require.NoError(t, err)
	assert.Equal(t, payload, buf)
}

func TestEchoMultipleClients(t *testing.T) {
	addr, _ := startServer(t)

	for i := 0; i < 3; i++ {
		conn, err := net.Dial("tcp", addr)
		require.NoError(t, err)

		msg := []byte{byte('a' + i)}
		_, err = conn.Write(msg)
		require.NoError(t, err)

		buf := make([]byte, 1)
		_, err = readFull(conn, buf)
		require.NoError(t, err)
		assert.Equal(t, msg, buf)
		conn.Close()
	}
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
