package device

import (
	"github.com/nerrad567/webdevice-core/internal/event"
	"github.com/nerrad567/webdevice-core/internal/web"
)

// Dispatcher routes request paths to handlers. *web.Server implements it.
type Dispatcher interface {
	// On registers h for the exact path.
	On(path string, h web.HandlerFunc)

	// LocalPort returns the port requests arrive on.
	LocalPort() int
}

// Notifier receives device events. *event.Bus implements it.
type Notifier interface {
	Notify(e event.Event)
}

// Logger is the logging interface used by the tree.
// *logging.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
