package logger

import (
	"context"
	"time"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey struct{}

var logContextKey = contextKey{}

// LogContext holds request-scoped logging context threaded through a single
// Method/Iterate dispatch so every log line it produces carries the same
// board/client/request identity without re-stating it at every call site.
type LogContext struct {
	TraceID   string // OpenTelemetry trace ID
	SpanID    string // OpenTelemetry span ID
	Board     string // Board name
	ClientID  uint64 // Originating ClientID
	RequestID uint32 // Client-supplied request id, 0 if not applicable
	Method    string // Method/Iterate name
	StartTime time.Time
}

// WithContext returns a new context carrying lc.
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

// FromContext retrieves the LogContext from context, or nil if not present.
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(logContextKey).(*LogContext)
	return lc
}

// NewLogContext creates a new LogContext scoped to a board.
func NewLogContext(board string) *LogContext {
	return &LogContext{
		Board:     board,
		StartTime: time.Now(),
	}
}

// Clone creates a copy of the LogContext.
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	clone := *lc
	return &clone
}

// WithMethod returns a copy with the method name set.
func (lc *LogContext) WithMethod(method string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.Method = method
	}
	return clone
}

// WithClient returns a copy with the originating client set.
func (lc *LogContext) WithClient(clientID uint64) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.ClientID = clientID
	}
	return clone
}

// WithRequest returns a copy with the request id set.
func (lc *LogContext) WithRequest(requestID uint32) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.RequestID = requestID
	}
	return clone
}

// WithTrace returns a copy with trace info set.
func (lc *LogContext) WithTrace(traceID, spanID string) *LogContext {
	clone := lc.Clone()
	if clone != nil {
		clone.TraceID = traceID
		clone.SpanID = spanID
	}
	return clone
}

// DurationMs returns the duration since StartTime in milliseconds.
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return float64(time.Since(lc.StartTime).Microseconds()) / 1000.0
}
