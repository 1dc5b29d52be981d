package collector

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/HerbHall/metricrelay/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTCPSender_DeliversPayload(t *testing.T) {
	ln := testutil.Listen(t)

	got := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			got <- ""
			return
		}
		defer conn.Close()
		b, _ := io.ReadAll(conn)
		got <- string(b)
	}()

	payload := (&Sample{TotalMemoryKB: 10, AvailableMemoryKB: 5, CPUUsagePercent: 1.5}).Format()
	s := NewTCPSender(ln.Addr().String(), time.Second)
	require.NoError(t, s.Send(context.Background(), payload))

	select {
	case b := <-got:
		assert.Equal(t, payload, b)
	case <-time.After(2 * time.Second):
		t.Fatal("listener never received the payload")
	}
}

func TestTCPSender_NewConnectionPerSend(t *testing.T) {
	ln := testutil.Listen(t)

	accepted := make(chan string, 2)
	go func() {
		for i := 0; i < 2; i++ {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			b, _ := io.ReadAll(conn)
			conn.Close()
			accepted <- string(b)
		}
	}()

	s := NewTCPSender(ln.Addr().String(), time.Second)
	require.NoError(t, s.Send(context.Background(), "one"))
	require.NoError(t, s.Send(context.Background(), "two"))

	for _, want := range []string{"one", "two"} {
		select {
		case b := <-accepted:
			assert.Equal(t, want, b)
		case <-time.After(2 * time.Second):
			t.Fatalf("connection for %q never arrived", want)
		}
	}
}

func TestTCPSender_ConnectFailure(t *testing.T) {
	addr := testutil.ClosedAddr(t)
	s := NewTCPSender(addr, time.Second)

	err := s.Send(context.Background(), "payload")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "could not connect to server"), err.Error())
}

func TestTCPSender_CancelledContext(t *testing.T) {
	ln := testutil.Listen(t)
	s := NewTCPSender(ln.Addr().String(), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, s.Send(ctx, "payload"))
}

// failingWriteConn accepts the dial but fails every write.
type failingWriteConn struct {
	net.Conn
	closed bool
}

func (c *failingWriteConn) Write([]byte) (int, error) {
	return 0, errors.New("write: connection reset by peer")
}

func (c *failingWriteConn) Close() error {
	c.closed = true
	return c.Conn.Close()
}

func TestTCPSender_WriteFailure(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()
	conn := &failingWriteConn{Conn: local}

	dials := 0
	s := NewTCPSender("127.0.0.1:8080", time.Second)
	s.dial = func(context.Context, string, string) (net.Conn, error) {
		dials++
		return conn, nil
	}

	err := s.Send(context.Background(), "payload")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to send data"), err.Error())
	assert.Equal(t, 1, dials, "a failed write is not retried")
	assert.True(t, conn.closed, "connection must be closed after a failed write")
}
