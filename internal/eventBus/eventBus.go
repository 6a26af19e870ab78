package eventBus

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventType string

const (
	EventFloorStarted  EventType = "FLOOR_STARTED"
	EventFloorSkipped  EventType = "FLOOR_SKIPPED"
	EventQRGenerated   EventType = "QR_GENERATED"
	EventQRFailed      EventType = "QR_FAILED"
	EventFloorFinished EventType = "FLOOR_FINISHED"
)

// Event holds what a progress view needs to know about one generation step.
type Event struct {
	Type      EventType `json:"type"`
	RunID     uuid.UUID `json:"run_id"`
	Floor     int       `json:"piso"`
	NodeID    string    `json:"node_id,omitempty"`
	File      string    `json:"file,omitempty"`
	Payload   string    `json:"payload,omitempty"`
	Error     string    `json:"error,omitempty"`
	Count     int       `json:"count,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// EventBus manages a set of subscribers and publishes events to them.
type EventBus struct {
	subscribers []chan Event
	mu          sync.RWMutex
	log         *zap.Logger
}

// NewEventBus creates a new EventBus instance.
func NewEventBus(log *zap.Logger) *EventBus {
	if log == nil {
		log = zap.NewNop()
	}
	return &EventBus{
		subscribers: make([]chan Event, 0),
		log:         log,
	}
}

// Publish sends an event to all subscribers.
func (eb *EventBus) Publish(e Event) {
	if eb == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, sub := range eb.subscribers {
		// Use a non-blocking send in case a subscriber is busy.
		select {
		case sub <- e:
		default:
			eb.log.Warn("dropping event: subscriber channel is full", zap.String("type", string(e.Type)))
		}
	}
}

// Subscribe returns a new channel that will receive published events.
func (eb *EventBus) Subscribe() chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	ch := make(chan Event, 256)
	eb.subscribers = append(eb.subscribers, ch)
	return ch
}

// Unsubscribe removes ch and closes it.
func (eb *EventBus) Unsubscribe(ch chan Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	for i, sub := range eb.subscribers {
		if sub == ch {
			eb.subscribers = append(eb.subscribers[:i], eb.subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}

// Close closes every subscriber channel.
func (eb *EventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	for _, sub := range eb.subscribers {
		close(sub)
	}
	eb.subscribers = nil
}
