package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey struct{}

// logContextKey is the key for LogContext in context.Context
var logContextKey = contextKey{}

// LogContext holds connection/request-scoped logging context for one
// cache command.
type LogContext struct {
	TraceID      string    // correlation ID for one connection's lifetime
	SpanID       string    // correlation ID for one command within that connection
	Command      string    // command name: get, set, df:update, stats, ...
	KeyPath      string    // cache key the command addresses, joined for logging
	ClientIP     string    // client IP address (without port)
	ConnectionID string    // server-assigned connection identifier
	StartTime    time.Time // for duration calculation
}

// WithContext returns a new context with the given LogContext
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext with the given client IP
func NewLogContext(clientIP string) *LogContext {
	return &LogContext{
		ClientIP:  clientIP,
		StartTime: time.Now(),
	}
}

// Clone creates a copy of the LogContext
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	return &LogContext{
		TraceID:      lc.TraceID,
		SpanID:       lc.SpanID,
		Command:      lc.Command,
		KeyPath:      lc.KeyPath,
		ClientIP:     lc.ClientIP,
		ConnectionID: lc.ConnectionID,
		StartTime:    lc.StartTime,
	}
}

// WithCommand returns a copy with the command name set
func (lc *LogContext) WithCommand(command string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Command = command
	}
	return clone
}

// WithKeyPath returns a copy with the cache key path set
func (lc *LogContext) WithKeyPath(keyPath string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.KeyPath = keyPath
	}
	return clone
}

// WithConnectionID returns a copy with the connection identifier set
func (lc *LogContext) WithConnectionID(id string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.ConnectionID = id
	}
	return clone
}

// WithTrace returns a copy with trace info set
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TraceID = traceID
		clone.SpanID = spanID
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
