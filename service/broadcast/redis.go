package broadcast

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// Redis publishes events over redis Pub/Sub so that status updates reach
// subscribers in other processes. Redis preserves publish order per channel,
// matching the per-channel ordering contract; delivery to absent subscribers
// is dropped, matching at-most-once.
type Redis struct {
	client *redis.Client
}

var _ Service = (*Redis)(nil)

// NewRedis creates a redis-backed broadcaster.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Publish marshals the event and publishes it on the channel name; the topic
// travels inside the envelope.
func (r *Redis) Publish(ctx context.Context, channel, topic string, payload interface{}) error {
	event := Event{Channel: channel, Topic: topic, Payload: payload, CreatedAt: time.Now()}
	data, err := sonic.Marshal(&event)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, channel, data).Err()
}

// Subscribe attaches a redis subscriber to the named channel.
func (r *Redis) Subscribe(channel string) (<-chan Event, func()) {
	sub := r.client.Subscribe(context.Background(), channel)
	events := make(chan Event, 64)
	go func() {
		defer close(events)
		for message := range sub.Channel() {
			var event Event
			if err := sonic.Unmarshal([]byte(message.Payload), &event); err != nil {
				continue
			}
			select {
			case events <- event:
			default:
			}
		}
	}()
	cancel := func() { _ = sub.Close() }
	return events, cancel
}
