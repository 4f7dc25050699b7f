package notify

import (
	"context"
	"log/slog"
)

// Category tags a notification so clients can route it
type Category string

const (
	// CategoryConfirmCapture asks the recipient to confirm a capture
	CategoryConfirmCapture Category = "confirm_capture"
	// CategoryMatchFound announces a confirmed match
	CategoryMatchFound Category = "match_found"
)

// Notification is the intent handed to the push transport
type Notification struct {
	Token    string   `json:"token"`
	Alert    string   `json:"alert"`
	Category Category `json:"category"`
	Badge    int      `json:"badge"`
	Payload  any      `json:"payload"`
}

// Sink consumes notification intents. The push transport behind it owns
// delivery and any retry policy; the dispatcher never retries.
type Sink interface {
	Push(ctx context.Context, n *Notification) error
}

// LogSink writes notification intents to the log. It stands in for a
// real push transport in development and tests.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

var _ Sink = (*LogSink)(nil)

// Push logs the notification
func (s *LogSink) Push(ctx context.Context, n *Notification) error {
	s.logger.Info("push notification",
		slog.String("token", n.Token),
		slog.String("category", string(n.Category)),
		slog.String("alert", n.Alert),
		slog.Int("badge", n.Badge),
	)
	return nil
}
