package secfetch

import (
	"context"
	"io"
	"log/slog"
)

// Event describes a single Report or Deny decision. One event is emitted per
// violating request; allowed requests are never reported.
type Event struct {
	Decision     Action
	Reason       Reason
	Relationship Relationship
	Mode         Mode
	Dest         Dest
	Method       string
	Path         string
}

// Sink receives violation events. Implementations must be safe for
// concurrent use; the middleware calls Emit inline on the request's
// goroutine.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// NoopSink discards all events.
type NoopSink struct{}

func (NoopSink) Emit(context.Context, Event) {}

type logSink struct {
	logger *slog.Logger
}

// NewLogSink writes violation events to the provided writer as structured
// log lines. Useful for rolling out the middleware in report-only mode and
// watching what would have been blocked.
func NewLogSink(w io.Writer) Sink {
	if w == nil {
		return NoopSink{}
	}
	return &logSink{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn})),
	}
}

func (s *logSink) Emit(ctx context.Context, event Event) {
	s.logger.WarnContext(ctx, "fetch_metadata_violation",
		"decision", event.Decision.String(),
		"reason", string(event.Reason),
		"relationship", string(event.Relationship),
		"mode", string(event.Mode),
		"dest", string(event.Dest),
		"method", event.Method,
		"path", event.Path,
	)
}
