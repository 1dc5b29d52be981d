package sink

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/HerbHall/metricrelay/internal/relay"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// handleConn performs exactly one read of at most BufferSize bytes, logs
// the decoded text and writes the acknowledgment. Read and write failures
// are logged; neither stops the accept loop.
//
// A client that closes without sending anything produces a zero-byte read.
// That is treated as an empty payload and still acknowledged.
func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	s.track(ctx, conn)
	defer s.untrack()
	defer conn.Close()

	log := s.logger.With(
		zap.String("conn_id", uuid.NewString()),
		zap.String("remote_addr", conn.RemoteAddr().String()),
	)
	connectionsTotal.Inc()

	if s.config.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	}

	buf := make([]byte, s.config.BufferSize)
	n, err := conn.Read(buf)
	if err != nil && n == 0 && !errors.Is(err, io.EOF) {
		if ctx.Err() != nil {
			log.Info("connection closed by shutdown before any data arrived")
			return
		}
		readErrorsTotal.Inc()
		log.Error("failed to read from connection", zap.Error(err))
		return
	}

	full := n == len(buf)
	bytesReceivedTotal.Add(float64(n))
	if full {
		fullBufferReadsTotal.Inc()
	}

	text := DecodeLossy(buf[:n])
	log.Info("received data",
		zap.String("data", text),
		zap.Int("bytes", n),
		zap.Bool("buffer_full", full),
	)

	if s.forwarder != nil {
		if err := s.forwarder.Forward(ctx, text); err != nil {
			log.Warn("failed to forward payload", zap.Error(err))
		}
	}

	if s.config.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	}
	if _, err := io.WriteString(conn, relay.Ack); err != nil {
		ackErrorsTotal.Inc()
		log.Error("failed to write acknowledgment", zap.Error(err))
		return
	}
	log.Debug("acknowledged")
}
