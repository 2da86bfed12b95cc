package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultnet/vaultd/types"
)

func identity(fill byte) types.Identity {
	var id types.Identity
	for i := range id {
		id[i] = fill
	}
	return id
}

func TestEventBusPublishSubscribe(t *testing.T) {
	bus := NewEventBus()

	id, ch := bus.Subscribe()
	assert.Equal(t, 1, bus.TotalSubscribers())

	event := AccountEvent{Address: identity(2), Balance: 100, Seq: 1}
	go bus.Publish(event)

	select {
	case received := <-ch:
		assert.Equal(t, event, received)
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for event")
	}

	assert.True(t, bus.Unsubscribe(id))
	assert.Equal(t, 0, bus.TotalSubscribers())
}

func TestEventBusUnsubscribeUnknown(t *testing.T) {
	bus := NewEventBus()
	assert.False(t, bus.Unsubscribe("nope"))
}

func TestWaitForFiltersByAddress(t *testing.T) {
	bus := NewEventBus()
	target := identity(2)

	go func() {
		time.Sleep(10 * time.Millisecond)
		bus.Publish(AccountEvent{Address: identity(9), Balance: 1, Seq: 1})
		bus.Publish(AccountEvent{Address: target, Balance: 2, Seq: 2})
	}()

	event, ok := bus.WaitFor(target, time.Second)
	require.True(t, ok)
	assert.Equal(t, target, event.Address)
	assert.Equal(t, uint64(2), event.Seq)
}

func TestWaitForTimesOut(t *testing.T) {
	bus := NewEventBus()

	event, ok := bus.WaitFor(identity(2), 20*time.Millisecond)
	assert.False(t, ok)
	assert.Nil(t, event)
}

func TestPublishDoesNotBlockOnSlowSubscriber(t *testing.T) {
	bus := NewEventBus()

	_, ch := bus.Subscribe()
	for i := 0; i < cap(ch)+10; i++ {
		bus.Publish(AccountEvent{Address: identity(2), Seq: uint64(i)})
	}
	// The buffer holds cap(ch) events; the rest were dropped without blocking.
	assert.Len(t, ch, cap(ch))
}
