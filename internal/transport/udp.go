// Package transport sends single DNS queries over UDP.
//
// The contract is deliberately minimal: one datagram out, one datagram
// in, no retry, no reordering, no deduplication. Concurrency correctness
// lives in the caller; each Query call owns its own socket.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/hazadus/network-learn/internal/dns"
	"github.com/hazadus/network-learn/internal/pool"
)

// DefaultPort is the standard DNS server port.
const DefaultPort = 53

// DefaultTimeout bounds how long a single query waits for its reply.
const DefaultTimeout = 3 * time.Second

var (
	// ErrTimeout reports that no reply arrived within the deadline.
	ErrTimeout = errors.New("transport: query timed out")

	// ErrNetworkUnreachable reports a send- or connect-level failure.
	ErrNetworkUnreachable = errors.New("transport: network unreachable")
)

// bufferPool reuses receive buffers across queries.
var bufferPool = pool.New(func() *[]byte {
	b := make([]byte, dns.MaxMessageSize)
	return &b
})

// Client performs one-shot DNS queries over UDP.
//
// The zero value is usable: port 53 and DefaultTimeout apply.
type Client struct {
	Port    int           // Server port; 0 means DefaultPort
	Timeout time.Duration // Per-query deadline; 0 means DefaultTimeout
}

// Query sends message to the server at addr (an IP address without
// port), waits for exactly one reply datagram, and returns a copy of
// its bytes. The socket is closed on every exit path.
//
// The effective deadline is the earlier of the client timeout and the
// context deadline; context cancellation aborts the wait.
func (c *Client) Query(ctx context.Context, message []byte, addr string) ([]byte, error) {
	port := c.Port
	if port <= 0 {
		port = DefaultPort
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	udpAddr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(addr, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkUnreachable, err)
	}
	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkUnreachable, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkUnreachable, err)
	}

	// Abort the blocking read if the context is cancelled mid-wait.
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	if _, err := conn.Write(message); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkUnreachable, err)
	}

	buf := bufferPool.Get()
	defer bufferPool.Put(buf)

	n, err := conn.Read(*buf)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, fmt.Errorf("%w: no reply from %s within %s", ErrTimeout, addr, timeout)
		}
		return nil, fmt.Errorf("%w: %v", ErrNetworkUnreachable, err)
	}

	reply := make([]byte, n)
	copy(reply, (*buf)[:n])
	return reply, nil
}
