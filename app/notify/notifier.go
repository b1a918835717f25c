// Package notify delivers market announcements (reminders, locks, settlements)
// to the chat adapter. The engine only depends on the Notifier contract.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/joefazee/wagerbook/internal/logger"
)

type Kind string

const (
	KindCreated   Kind = "created"
	KindReminder  Kind = "reminder"
	KindLocked    Kind = "locked"
	KindResolved  Kind = "resolved"
	KindCancelled Kind = "cancelled"
)

// Notifier is what the engine calls. Delivery errors never undo engine state.
type Notifier interface {
	Notify(ctx context.Context, marketID string, kind Kind, payload map[string]interface{}) error
}

// Event is the message handed to every Sender.
type Event struct {
	MarketID string                 `json:"market_id"`
	Kind     Kind                   `json:"kind"`
	Payload  map[string]interface{} `json:"payload,omitempty"`
	At       time.Time              `json:"at"`
}

// Sender is one delivery channel.
type Sender interface {
	Send(ctx context.Context, event Event) error
	Name() string
}

var (
	ErrQueueFull = errors.New("notify: queue full, event dropped")
	ErrClosed    = errors.New("notify: dispatcher closed")
)

// Dispatcher queues events and fans them out to every sender from a single
// worker goroutine, optionally filtered by kind. Notify never waits on a
// sender; one failing sender does not stop delivery to the others.
type Dispatcher struct {
	senders []Sender
	kinds   map[Kind]bool
	logger  logger.Logger
	now     func() time.Time

	mu     sync.RWMutex
	closed bool
	queue  chan Event
	done   chan struct{}
}

var _ Notifier = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher and starts its worker. An empty kinds
// list allows every kind. Close stops the worker.
func NewDispatcher(senders []Sender, kinds []string, queueSize int, log logger.Logger) *Dispatcher {
	allowed := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		if k = strings.TrimSpace(k); k != "" {
			allowed[Kind(k)] = true
		}
	}
	if queueSize < 1 {
		queueSize = 1
	}
	d := &Dispatcher{
		senders: senders,
		kinds:   allowed,
		logger:  log,
		now:     time.Now,
		queue:   make(chan Event, queueSize),
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

// Notify enqueues the event and returns immediately. A full queue drops the
// event and reports ErrQueueFull.
func (d *Dispatcher) Notify(_ context.Context, marketID string, kind Kind, payload map[string]interface{}) error {
	if len(d.kinds) > 0 && !d.kinds[kind] {
		d.logger.Debug("notification filtered", map[string]interface{}{"market_id": marketID, "kind": kind})
		return nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}

	select {
	case d.queue <- Event{MarketID: marketID, Kind: kind, Payload: payload, At: d.now()}:
		return nil
	default:
		d.logger.Error(ErrQueueFull, map[string]interface{}{"market_id": marketID, "kind": kind})
		return ErrQueueFull
	}
}

// Close stops accepting events and waits until the queued ones are delivered.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.done
	return nil
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for event := range d.queue {
		d.deliver(event)
	}
}

// deliver runs detached from the caller's request, so it uses its own context.
// Each sender bounds its own latency.
func (d *Dispatcher) deliver(event Event) {
	ctx := context.Background()
	for _, s := range d.senders {
		if err := s.Send(ctx, event); err != nil {
			d.logger.Error(fmt.Errorf("%s: %w", s.Name(), err), map[string]interface{}{
				"sender":    s.Name(),
				"market_id": event.MarketID,
				"kind":      event.Kind,
			})
		}
	}
}

// LogSender writes every event to the structured log.
type LogSender struct {
	logger logger.Logger
}

func NewLogSender(log logger.Logger) *LogSender {
	return &LogSender{logger: log}
}

func (s *LogSender) Send(_ context.Context, event Event) error {
	s.logger.Info("market notification", logger.Merge(logger.Fields{
		"market_id": event.MarketID,
		"kind":      string(event.Kind),
	}, event.Payload))
	return nil
}

func (s *LogSender) Name() string {
	return "log"
}

// Nop discards every notification.
type Nop struct{}

func (Nop) Notify(context.Context, string, Kind, map[string]interface{}) error { return nil }
