package broadcast

import (
	"context"
	"sync"
	"time"
)

// memoryChannel fans one channel's events out to its subscribers. Publishing
// happens under the channel mutex, which preserves per-channel ordering;
// a subscriber whose buffer is full simply misses the event.
type memoryChannel struct {
	mu          sync.Mutex
	subscribers map[int]chan Event
	nextID      int
}

// Memory is the in-process broadcast vendor used in development and tests.
type Memory struct {
	mu       sync.RWMutex
	channels map[string]*memoryChannel
	buffer   int
}

var _ Service = (*Memory)(nil)

// NewMemory creates an in-process broadcaster. buffer is the per-subscriber
// queue depth; zero picks a default of 64.
func NewMemory(buffer int) *Memory {
	if buffer <= 0 {
		buffer = 64
	}
	return &Memory{channels: make(map[string]*memoryChannel), buffer: buffer}
}

func (m *Memory) channel(name string) *memoryChannel {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.channels[name]
	if !ok {
		ch = &memoryChannel{subscribers: map[int]chan Event{}}
		m.channels[name] = ch
	}
	return ch
}

// Publish delivers the event to current subscribers of the channel.
func (m *Memory) Publish(_ context.Context, channel, topic string, payload interface{}) error {
	event := Event{Channel: channel, Topic: topic, Payload: payload, CreatedAt: time.Now()}
	ch := m.channel(channel)
	ch.mu.Lock()
	defer ch.mu.Unlock()
	for _, subscriber := range ch.subscribers {
		select {
		case subscriber <- event:
		default: // slow subscriber - drop, at-most-once
		}
	}
	return nil
}

// Subscribe attaches a listener to the named channel.
func (m *Memory) Subscribe(channel string) (<-chan Event, func()) {
	ch := m.channel(channel)
	ch.mu.Lock()
	defer ch.mu.Unlock()
	id := ch.nextID
	ch.nextID++
	events := make(chan Event, m.buffer)
	ch.subscribers[id] = events
	cancel := func() {
		ch.mu.Lock()
		defer ch.mu.Unlock()
		if _, ok := ch.subscribers[id]; ok {
			delete(ch.subscribers, id)
			close(events)
		}
	}
	return events, cancel
}
