package broadcast

import (
	"context"
	"sync"
	"time"
)

// Recorder captures every published event in order across all channels. It
// exists for tests and debugging, where the interesting property is the
// global publish sequence rather than per-channel delivery.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

var _ Publisher = (*Recorder)(nil)

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Publish appends the event to the record.
func (r *Recorder) Publish(_ context.Context, channel, topic string, payload interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Channel: channel, Topic: topic, Payload: payload, CreatedAt: time.Now()})
	return nil
}

// Events returns a snapshot of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Statuses returns the published node status transitions in order, formatted
// as "nodeID:status".
func (r *Recorder) Statuses() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ret []string
	for _, event := range r.events {
		if event.Topic != TopicStatus {
			continue
		}
		if status, ok := event.Payload.(*StatusEvent); ok {
			ret = append(ret, status.NodeID+":"+status.Status)
		}
	}
	return ret
}
