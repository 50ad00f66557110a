package audit

import (
	"context"
	"sync"
	"time"

	"github.com/BruksfildServices01/reservas-api/internal/logger"
)

const queueSize = 100

// Dispatcher delivers events to its recorders on a background worker so
// auditing never blocks or fails a request.
type Dispatcher struct {
	log       *logger.Logger
	recorders []Recorder
	queue     chan Event
	done      chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(log *logger.Logger, recorders ...Recorder) *Dispatcher {
	if log == nil {
		log = logger.Discard()
	}

	d := &Dispatcher{
		log:       log,
		recorders: recorders,
		queue:     make(chan Event, queueSize),
		done:      make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		for _, r := range d.recorders {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := r.Record(ctx, ev); err != nil {
				d.log.Error("audit record failed",
					"action", ev.Action,
					"entity", ev.Entity,
					"error", err,
				)
			}
			cancel()
		}
	}
}

// Dispatch is safe on a nil or closed dispatcher.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		// fila cheia: descarta, nunca quebra a API
		d.log.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done
}
