package events

import (
	"sync"
	"sync/atomic"

	"github.com/OldStager01/scaling-advisor/internal/logger"
	"github.com/OldStager01/scaling-advisor/pkg/models"
)

const defaultBufferSize = 100

// subscription is one buffered consumer. A nil filter accepts every type.
type subscription struct {
	ch     chan *models.Event
	filter map[models.EventType]struct{}
}

func (s *subscription) wants(t models.EventType) bool {
	if s.filter == nil {
		return true
	}
	_, ok := s.filter[t]
	return ok
}

// EventBus fans cycle events out to subscribers without ever blocking the
// publisher. A subscriber that falls behind misses events.
type EventBus struct {
	mu      sync.RWMutex
	subs    []*subscription
	buffer  int
	closed  bool
	dropped atomic.Int64
}

func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &EventBus{buffer: bufferSize}
}

// Subscribe returns a channel receiving the given event types, or every type
// when none are named. The channel is closed by Close.
func (b *EventBus) Subscribe(eventTypes ...models.EventType) <-chan *models.Event {
	sub := &subscription{ch: make(chan *models.Event, b.buffer)}
	if len(eventTypes) > 0 {
		sub.filter = make(map[models.EventType]struct{}, len(eventTypes))
		for _, t := range eventTypes {
			sub.filter[t] = struct{}{}
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(sub.ch)
		return sub.ch
	}
	b.subs = append(b.subs, sub)
	return sub.ch
}

func (b *EventBus) SubscribeAll() <-chan *models.Event {
	return b.Subscribe()
}

func (b *EventBus) Publish(event *models.Event) {
	if event == nil {
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	for _, sub := range b.subs {
		if !sub.wants(event.Type) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			total := b.dropped.Add(1)
			logger.WithFields(map[string]interface{}{
				"event_type":    event.Type,
				"deployment":    event.Deployment,
				"dropped_total": total,
			}).Warn("Subscriber buffer full, event dropped")
		}
	}
}

// Dropped reports how many deliveries were skipped because a buffer was full.
func (b *EventBus) Dropped() int64 {
	return b.dropped.Load()
}

// Close closes every subscriber channel. It is safe to call more than once.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, sub := range b.subs {
		close(sub.ch)
	}
	b.subs = nil
}

func AllEventTypes() []models.EventType {
	return []models.EventType{
		models.EventTypeCycleStarted,
		models.EventTypeDecisionMade,
		models.EventTypeScalingExecuted,
		models.EventTypeAuditRecorded,
		models.EventTypeCycleFailed,
	}
}
