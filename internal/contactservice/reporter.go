package contactservice

import (
	"context"
	"log/slog"
)

// Severity of a user-facing notice.
type Severity string

const (
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

// Notice is a transient user-facing message, shown by the UI as a toast.
type Notice struct {
	Severity Severity `json:"severity"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
}

// Reporter delivers notices to whatever surfaces them to the user.
type Reporter interface {
	Report(ctx context.Context, n Notice)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, n Notice)

// Report implements Reporter.
func (f ReporterFunc) Report(ctx context.Context, n Notice) { f(ctx, n) }

type logReporter struct {
	logger *slog.Logger
}

func (r logReporter) Report(ctx context.Context, n Notice) {
	level := slog.LevelInfo
	if n.Severity == SeverityError {
		level = slog.LevelError
	}
	r.logger.Log(ctx, level, n.Message, slog.String("field", n.Field))
}
