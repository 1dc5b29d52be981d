package sink

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "metricrelay_sink_connections_total",
			Help: "Total number of accepted connections",
		},
	)

	bytesReceivedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "metricrelay_sink_bytes_received_total",
			Help: "Total payload bytes read from connections",
		},
	)

	fullBufferReadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "metricrelay_sink_full_buffer_reads_total",
			Help: "Reads that filled the whole buffer. The payload may have been exactly buffer-sized or truncated",
		},
	)

	acceptErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "metricrelay_sink_accept_errors_total",
			Help: "Failed accept calls",
		},
	)

	readErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "metricrelay_sink_read_errors_total",
			Help: "Connections dropped because the read failed",
		},
	)

	ackErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "metricrelay_sink_ack_errors_total",
			Help: "Acknowledgment writes that failed",
		},
	)
)
