// Package notify delivers the stores' user-facing notifications: to the log,
// to a terminal, or to memory for tests.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/quillpress/blog-client/internal/core/ports"
	"github.com/quillpress/blog-client/internal/metrics"
)

// Log writes notifications as structured log events.
type Log struct {
	log zerolog.Logger
}

func NewLog(log zerolog.Logger) *Log {
	return &Log{log: log}
}

func (l *Log) Notify(n ports.Notification) {
	ev := l.log.Info()
	if n.Level == ports.LevelError {
		ev = l.log.Warn()
	}
	ev.Str("level_ui", string(n.Level)).Msg(n.Message)
}

// Styler picks the color used for a notification level.
type Styler interface {
	Style(level ports.NotificationLevel) *color.Color
}

// Console prints one line per notification, colored by a Styler.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	styler Styler
}

func NewConsole(out io.Writer, styler Styler) *Console {
	return &Console{out: out, styler: styler}
}

func (c *Console) Notify(n ports.Notification) {
	prefix := "✓"
	if n.Level == ports.LevelError {
		prefix = "✗"
	}
	line := fmt.Sprintf("%s %s", prefix, n.Message)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.styler != nil {
		if style := c.styler.Style(n.Level); style != nil {
			_, _ = style.Fprintln(c.out, line)
			return
		}
	}
	_, _ = fmt.Fprintln(c.out, line)
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu  sync.Mutex
	got []ports.Notification
}

func (r *Recorder) Notify(n ports.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
}

// All returns a copy of the notifications received so far.
func (r *Recorder) All() []ports.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ports.Notification(nil), r.got...)
}

// Reset forgets every recorded notification.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = nil
}

// Fanout delivers each notification to every target and counts it once.
type Fanout []ports.Notifier

func (f Fanout) Notify(n ports.Notification) {
	metrics.NotificationsTotal.WithLabelValues(string(n.Level)).Inc()
	for _, target := range f {
		if target != nil {
			target.Notify(n)
		}
	}
}
