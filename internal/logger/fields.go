package logger

import (
	"encoding/hex"
	"log/slog"
)

// Standard field keys for structured logging. Use these consistently
// across log statements for log aggregation and querying.
const (
	// Distributed tracing (per connection / per command)
	KeyTraceID = "trace_id" // correlation ID for one connection's lifetime
	KeySpanID  = "span_id"  // correlation ID for one command within that connection

	// Command & key identification
	KeyCommand = "command" // cache command name: get, set, df:update, stats, ...
	KeyKeyPath = "key"     // cache key the command addresses, joined for logging

	// Client / connection
	KeyClientIP     = "client_ip"     // client IP address
	KeyConnectionID = "connection_id" // server-assigned connection identifier

	// Errors
	KeyError = "error" // error message

	// Misc
	KeyHandle = "handle" // opaque identifier, hex-encoded for logging
)

// Err returns a slog.Attr for an error, or a zero Attr if err is nil.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Handle returns a slog.Attr for an opaque identifier, formatted as hex.
func Handle(h []byte) slog.Attr {
	return slog.String(KeyHandle, hex.EncodeToString(h))
}
