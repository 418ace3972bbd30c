package session

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
)

// Level distinguishes success and failure notifications.
type Level int

const (
	LevelSuccess Level = iota
	LevelFailure
)

// String returns a human-readable level.
func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// NotificationTimeout is how long a notification stays visible.
const NotificationTimeout = 3 * time.Second

// Notification is a one-shot, auto-expiring message for the user.
type Notification struct {
	Level       Level
	Title       string
	Description string
	Timeout     time.Duration
}

// Notifier delivers notifications to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Compile-time interface checks.
var (
	_ Notifier = (*LogNotifier)(nil)
	_ Notifier = (*ConsoleNotifier)(nil)
	_ Notifier = NopNotifier{}
)

// NopNotifier discards notifications.
type NopNotifier struct{}

// Notify does nothing.
func (NopNotifier) Notify(context.Context, Notification) error { return nil }

// LogNotifier writes notifications to the global logger.
type LogNotifier struct{}

// Notify logs at info level for success and warn level for failure.
func (LogNotifier) Notify(ctx context.Context, n Notification) error {
	evt := log.Info()
	if n.Level == LevelFailure {
		evt = log.Warn()
	}
	evt.Str("level", n.Level.String()).
		Str("title", n.Title).
		Dur("timeout", n.Timeout).
		Msg(n.Description)
	return nil
}

// ANSI escape codes for terminal formatting.
const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiRed   = "\033[31m"
	ansiGreen = "\033[32m"
)

// ConsoleNotifier prints notifications as colored lines.
type ConsoleNotifier struct {
	out   io.Writer
	color bool
}

// NewConsoleNotifier creates a notifier writing to out. Color adds ANSI
// formatting; disable it when out is not a terminal.
func NewConsoleNotifier(out io.Writer, color bool) *ConsoleNotifier {
	return &ConsoleNotifier{out: out, color: color}
}

// Notify prints "<title> <description>", green for success and red for failure.
func (n *ConsoleNotifier) Notify(ctx context.Context, note Notification) error {
	if !n.color {
		_, err := fmt.Fprintf(n.out, "%s %s\n", note.Title, note.Description)
		return err
	}
	c := ansiGreen
	if note.Level == LevelFailure {
		c = ansiRed
	}
	_, err := fmt.Fprintf(n.out, "%s%s%s%s %s\n", c, ansiBold, note.Title, ansiReset, note.Description)
	return err
}
