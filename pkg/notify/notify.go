// Package notify fans mutation outcomes out to their consumers: the log, the
// terminal and live subscribers such as the HTTP event stream.
package notify

import (
	"context"
	"log/slog"

	"github.com/aretw0/cardforge/pkg/core"
)

// Log returns a notifier writing each notification to l. Errors are logged
// at Error level, everything else at Info.
func Log(l *slog.Logger) core.Notifier {
	return core.NotifierFunc(func(n core.Notification) {
		if l == nil {
			return
		}
		level := slog.LevelInfo
		if n.Level == core.LevelError {
			level = slog.LevelError
		}
		l.Log(context.Background(), level, n.Message, "level", string(n.Level), "degraded", n.Degraded)
	})
}

// Multi delivers every notification to each notifier in order.
func Multi(notifiers ...core.Notifier) core.Notifier {
	list := make([]core.Notifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			list = append(list, n)
		}
	}
	return core.NotifierFunc(func(n core.Notification) {
		for _, target := range list {
			target.Notify(n)
		}
	})
}
