package services

import (
	"log/slog"

	"urc/models"
)

// Notifier receives user-facing alerts and loading indicator changes
type Notifier interface {
	Notify(message string, kind models.NotificationType)
	Loading(show bool, message string)
}

// LogNotifier renders notifications as structured log records
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier backed by logger
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the message at a level matching its kind
func (n *LogNotifier) Notify(message string, kind models.NotificationType) {
	attrs := []any{"kind", string(kind), "class", kind.AlertClass()}

	switch models.ParseNotificationType(string(kind)) {
	case models.NotifyError:
		n.logger.Error(message, attrs...)
	case models.NotifyWarning:
		n.logger.Warn(message, attrs...)
	default:
		n.logger.Info(message, attrs...)
	}
}

// Loading logs when the loading indicator is shown or hidden
func (n *LogNotifier) Loading(show bool, message string) {
	if !show {
		n.logger.Debug("loading finished")
		return
	}
	if message == "" {
		message = models.DefaultLoadingMessage
	}
	n.logger.Info(message, "loading", true)
}

// MultiNotifier fans notifications out to several sinks
type MultiNotifier []Notifier

// Notify forwards to every sink
func (m MultiNotifier) Notify(message string, kind models.NotificationType) {
	for _, n := range m {
		n.Notify(message, kind)
	}
}

// Loading forwards to every sink
func (m MultiNotifier) Loading(show bool, message string) {
	for _, n := range m {
		n.Loading(show, message)
	}
}
