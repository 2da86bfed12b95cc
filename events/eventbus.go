package events

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vaultnet/vaultd/logx"
	"github.com/vaultnet/vaultd/types"
)

type SubscriberID string

type Subscriber struct {
	ID      SubscriberID
	Channel chan AccountEvent
}

type EventBus struct {
	subscribers map[SubscriberID]*Subscriber
	mu          sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[SubscriberID]*Subscriber),
	}
}

func (eb *EventBus) generateUUIDID() SubscriberID {
	id := uuid.Must(uuid.NewV7())
	return SubscriberID(id.String())
}

func (eb *EventBus) Subscribe() (SubscriberID, chan AccountEvent) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	id := eb.generateUUIDID()

	ch := make(chan AccountEvent, 50) // Buffer for events
	eb.subscribers[id] = &Subscriber{
		ID:      id,
		Channel: ch,
	}

	logx.Debug("EVENTBUS", fmt.Sprintf("Client subscribed to account events | subscriber_id=%s | total_subscribers=%d", id, len(eb.subscribers)))

	return id, ch
}

// Unsubscribe removes a subscription by ID
func (eb *EventBus) Unsubscribe(id SubscriberID) bool {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	subscriber, exists := eb.subscribers[id]
	if !exists {
		logx.Warn("EVENTBUS", fmt.Sprintf("Attempted to unsubscribe non-existent subscriber | subscriber_id=%s", id))
		return false
	}

	close(subscriber.Channel)
	delete(eb.subscribers, id)
	return true
}

// Publish fans the event out to every subscriber without blocking: a
// subscriber whose buffer is full misses the event and is warned about.
func (eb *EventBus) Publish(event AccountEvent) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	for id, subscriber := range eb.subscribers {
		select {
		case subscriber.Channel <- event:
		default:
			logx.Warn("EVENTBUS", fmt.Sprintf("Dropping event for slow subscriber | subscriber_id=%s | seq=%d", id, event.Seq))
		}
	}
}

func (eb *EventBus) TotalSubscribers() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subscribers)
}

// WaitFor blocks until the next event for addr arrives or the timeout
// elapses. Used by the long-poll watch RPC.
func (eb *EventBus) WaitFor(addr types.Identity, timeout time.Duration) (*AccountEvent, bool) {
	id, ch := eb.Subscribe()
	defer eb.Unsubscribe(id)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return nil, false
			}
			if event.Address.Equal(addr) {
				return &event, true
			}
		case <-timer.C:
			return nil, false
		}
	}
}
