// Package echo implements a TCP echo server: every byte a client sends
// is written straight back until the client closes its side.
package echo

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// chunkSize is how much is read from a client per syscall.
const chunkSize = 1024

// Server accepts TCP connections and echoes everything back.
type Server struct {
	Logger *slog.Logger // Optional logger

	mu sync.Mutex
	ln net.Listener
	wg sync.WaitGroup
}

// Run listens on addr and serves connections until ctx is cancelled.
// It returns nil on graceful shutdown.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := listenReusable(ctx, addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	// Cancellation unblocks Accept by closing the listener.
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	s.logf("echo server listening", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			s.wg.Wait()
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}
		s.logf("client connected", "remote", conn.RemoteAddr().String())

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(conn)
		}()
	}
}

// Addr returns the bound listener address, or empty before Run.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// serveConn echoes chunks back to one client until EOF or error.
func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()

	buf := make([]byte, chunkSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			if _, werr := conn.Write(buf[:n]); werr != nil {
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func (s *Server) logf(msg string, args ...any) {
	if s.Logger != nil {
		s.Logger.Info(msg, args...)
	}
}

// listenReusable creates the listener with SO_REUSEPORT so a restarted
// server can bind while old sockets drain.
func listenReusable(ctx context.Context, addr string) (net.Listener, error) {
	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			return c.Control(func(fd uintptr) {
				_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
			})
		},
	}
	return lc.Listen(ctx, "tcp", addr)
}
