package event

import (
	"context"
	"sync"
)

// DefaultBufferSize is the number of events a Bus queues before dropping.
const DefaultBufferSize = 64

// Sink receives events from a Bus.
type Sink interface {
	Name() string
	Publish(ctx context.Context, e Event) error
}

// Logger is the logging interface used by the bus.
// *logging.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Bus queues events and fans them out to sinks from a single goroutine.
type Bus struct {
	queue  chan Event
	logger Logger

	mu    sync.RWMutex
	sinks []Sink
}

// NewBus returns a bus queueing up to size events. A size below 1 selects
// DefaultBufferSize.
func NewBus(size int) *Bus {
	if size < 1 {
		size = DefaultBufferSize
	}
	return &Bus{
		queue:  make(chan Event, size),
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for dropped events and sink failures.
func (b *Bus) SetLogger(l Logger) {
	if l == nil {
		l = noopLogger{}
	}
	b.logger = l
}

// AddSink adds a sink. Sinks receive events in the order they were added.
func (b *Bus) AddSink(s Sink) {
	b.mu.Lock()
	b.sinks = append(b.sinks, s)
	b.mu.Unlock()
}

// Notify queues e. When the queue is full e is dropped with a warning.
func (b *Bus) Notify(e Event) {
	select {
	case b.queue <- e:
	default:
		b.logger.Warn("event queue full, dropping event",
			"type", e.Type, "path", e.Path, "capacity", cap(b.queue))
	}
}

// Run delivers queued events until ctx is cancelled. Events still queued at
// that point are delivered before Run returns.
func (b *Bus) Run(ctx context.Context) {
	for {
		select {
		case e := <-b.queue:
			b.deliver(ctx, e)
		case <-ctx.Done():
			b.drain()
			return
		}
	}
}

func (b *Bus) drain() {
	// Sinks get a live context for the final events.
	ctx := context.Background()
	for {
		select {
		case e := <-b.queue:
			b.deliver(ctx, e)
		default:
			return
		}
	}
}

func (b *Bus) deliver(ctx context.Context, e Event) {
	b.mu.RLock()
	sinks := b.sinks
	b.mu.RUnlock()

	for _, s := range sinks {
		if err := s.Publish(ctx, e); err != nil {
			b.logger.Warn("event sink failed",
				"sink", s.Name(), "type", e.Type, "path", e.Path, "error", err)
			continue
		}
		b.logger.Debug("event delivered", "sink", s.Name(), "type", e.Type, "path", e.Path)
	}
}
