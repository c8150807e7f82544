package vinemotion

import (
	"io"
	"log/slog"
	"time"
)

// Stats holds per-tick counters. Timing fields are only populated in debug
// mode.
type Stats struct {
	Frame          uint64
	Triggers       int
	ActiveTriggers int
	Springs        int
	Subscribers    int
	Phase          Phase
	ScrollTime     time.Duration
	TriggerTime    time.Duration
	SpringTime     time.Duration
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// warnOnce logs a message the first time a key is seen. Used for recoverable
// conditions that would otherwise log every frame.
type warnOnce struct {
	logger *slog.Logger
	seen   map[string]struct{}
}

func newWarnOnce(logger *slog.Logger) *warnOnce {
	return &warnOnce{logger: logger, seen: make(map[string]struct{})}
}

// Warn logs msg at warn level unless key was already logged. It reports
// whether the message was emitted.
func (w *warnOnce) Warn(key, msg string, args ...any) bool {
	if _, ok := w.seen[key]; ok {
		return false
	}
	w.seen[key] = struct{}{}
	w.logger.Warn(msg, args...)
	return true
}

// Forget allows key to be logged again.
func (w *warnOnce) Forget(key string) {
	delete(w.seen, key)
}

// debugLog writes per-tick stats at debug level.
func (e *Engine) debugLog(stats Stats) {
	if !e.debug {
		return
	}
	e.logger.Debug("tick",
		"frame", stats.Frame,
		"phase", stats.Phase.String(),
		"triggers", stats.Triggers,
		"active", stats.ActiveTriggers,
		"springs", stats.Springs,
		"scroll", stats.ScrollTime,
		"trigger", stats.TriggerTime,
		"spring", stats.SpringTime,
	)
}
