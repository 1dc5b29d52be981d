// Package sink implements the receiving side of the relay: a TCP server
// that handles one connection at a time, reads a single bounded chunk from
// it, logs the text and answers with a fixed acknowledgment.
package sink

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/netutil"
	"golang.org/x/time/rate"
)

// ErrNotListening is returned by Serve when Listen has not bound a socket.
var ErrNotListening = errors.New("sink: not listening")

// Forwarder receives every decoded payload after it has been logged.
type Forwarder interface {
	Forward(ctx context.Context, payload string) error
}

// Option configures a Server.
type Option func(*Server)

// WithForwarder mirrors received payloads to f.
func WithForwarder(f Forwarder) Option {
	return func(s *Server) { s.forwarder = f }
}

// WithAcceptBackoff sets the minimum spacing between accept retries after
// an accept failure.
func WithAcceptBackoff(d time.Duration) Option {
	return func(s *Server) { s.acceptLimiter = rate.NewLimiter(rate.Every(d), 1) }
}

// Server is the Sink.
type Server struct {
	config        *Config
	logger        *zap.Logger
	forwarder     Forwarder
	acceptLimiter *rate.Limiter

	mu       sync.Mutex
	listener net.Listener
	active   net.Conn
}

// New creates a Sink. Call Listen and then Serve, or ListenAndServe.
func New(config *Config, logger *zap.Logger, opts ...Option) *Server {
	s := &Server{
		config:        config,
		logger:        logger,
		acceptLimiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Listen binds the configured address. The returned error is meant to be
// fatal to the process; there is no retry.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.config.Addr, err)
	}
	s.serveListener(ln)
	return nil
}

// serveListener installs ln as the Sink's listener, capped to one open
// connection at a time.
func (s *Server) serveListener(ln net.Listener) {
	s.mu.Lock()
	s.listener = netutil.LimitListener(ln, 1)
	s.mu.Unlock()
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// ListenAndServe binds and then serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Serve runs the accept loop until ctx is cancelled or the listener is
// closed. Connections are handled strictly one after another. Accept
// failures are logged and the loop continues. Cancelling ctx also closes
// the connection being handled, so a silent client cannot hold Serve.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return ErrNotListening
	}

	stop := context.AfterFunc(ctx, func() {
		_ = ln.Close()
		s.mu.Lock()
		if s.active != nil {
			_ = s.active.Close()
		}
		s.mu.Unlock()
	})
	defer stop()

	s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.logger.Info("server stopped accepting connections")
				return nil
			}
			acceptErrorsTotal.Inc()
			s.logger.Error("failed to establish a connection", zap.Error(err))
			if err := s.acceptLimiter.Wait(ctx); err != nil {
				s.logger.Info("server stopped accepting connections")
				return nil
			}
			continue
		}
		s.handleConn(ctx, conn)
	}
}

// track records conn as the connection in flight. A ctx cancelled before
// the record is made closes conn immediately.
func (s *Server) track(ctx context.Context, conn net.Conn) {
	s.mu.Lock()
	s.active = conn
	s.mu.Unlock()
	if ctx.Err() != nil {
		_ = conn.Close()
	}
}

func (s *Server) untrack() {
	s.mu.Lock()
	s.active = nil
	s.mu.Unlock()
}

// Close stops the accept loop. A connection already being handled runs
// to completion.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}
