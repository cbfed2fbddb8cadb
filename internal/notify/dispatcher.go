package notify

import (
	"context"
	"time"

	"github.com/pratik-mahalle/processimo/internal/pkg/logger"
	"github.com/pratik-mahalle/processimo/internal/pkg/metrics"
)

// Options tunes a Dispatcher
type Options struct {
	QueueSize  int
	MaxRetries int
	Backoff    time.Duration
}

// Dispatcher queues events and fans them out to its sinks from a single
// background goroutine
type Dispatcher struct {
	sinks      []Sink
	queue      chan Event
	maxRetries int
	backoff    time.Duration
	logger     *logger.Logger
}

// NewDispatcher creates a dispatcher over sinks. Call Run to start delivery.
func NewDispatcher(sinks []Sink, opts Options, log *logger.Logger) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 100
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}
	return &Dispatcher{
		sinks:      sinks,
		queue:      make(chan Event, opts.QueueSize),
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
		logger:     log.With("component", "notify"),
	}
}

// Notify enqueues e. When the queue is full the event is dropped.
func (d *Dispatcher) Notify(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	select {
	case d.queue <- e:
	default:
		d.logger.With("event", string(e.Type)).Warn("Notification queue full, dropping event")
	}
}

// Run delivers queued events until ctx is canceled
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-d.queue:
			for _, sink := range d.sinks {
				d.deliver(ctx, sink, e)
			}
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, sink Sink, e Event) {
	var err error
	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(d.backoff << (attempt - 1)):
			}
		}
		if err = sink.Send(ctx, e); err == nil {
			break
		}
	}
	metrics.RecordNotification(sink.Name(), err)

	fields := map[string]interface{}{
		"sink":  sink.Name(),
		"event": string(e.Type),
	}
	if err != nil {
		d.logger.WithError(err).WithFields(fields).Error("Failed to deliver notification")
		return
	}
	d.logger.WithFields(fields).Debug("Notification delivered")
}
