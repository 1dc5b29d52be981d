package collector

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"
)

// Sender delivers one payload to the Sink.
type Sender interface {
	Send(ctx context.Context, payload string) error
}

// TCPSender opens a new connection for every Send, writes the payload and
// closes. The Sink's acknowledgment is never read.
type TCPSender struct {
	addr string
	dial func(ctx context.Context, network, address string) (net.Conn, error)
}

// Compile-time guard.
var _ Sender = (*TCPSender)(nil)

// NewTCPSender returns a Sender that dials addr with the given connect
// timeout. A zero timeout leaves it to the operating system.
func NewTCPSender(addr string, dialTimeout time.Duration) *TCPSender {
	dialer := &net.Dialer{Timeout: dialTimeout}
	return &TCPSender{
		addr: addr,
		dial: dialer.DialContext,
	}
}

// Send makes a single delivery attempt. There is no retry.
func (s *TCPSender) Send(ctx context.Context, payload string) error {
	conn, err := s.dial(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("could not connect to server %s: %w", s.addr, err)
	}
	defer conn.Close()

	if _, err := io.WriteString(conn, payload); err != nil {
		return fmt.Errorf("failed to send data: %w", err)
	}
	return nil
}
