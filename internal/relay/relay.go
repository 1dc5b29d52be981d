// Package relay holds the wire-level constants shared by the Sink and the
// Collector. Both sides must agree on these values; neither process
// negotiates them at runtime.
package relay

import "time"

const (
	// DefaultAddr is the loopback endpoint the Sink binds and the
	// Collector dials when no configuration overrides it.
	DefaultAddr = "127.0.0.1:8080"

	// BufferSize is the capacity of the single read the Sink performs on
	// each accepted connection. Bytes beyond it are never read.
	BufferSize = 1024

	// Ack is written back by the Sink after every successful read.
	Ack = "Data received\n"

	// DefaultInterval is the pause between two Collector sample cycles.
	DefaultInterval = 5 * time.Second
)
