package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tracklist/logger"
	"tracklist/model"

	"github.com/go-redis/redis/v8"
)

// Publisher receives relayed events.
type Publisher interface {
	Publish(ev model.Event)
}

// EventRelay forwards messages from a Redis pub/sub channel into a Publisher,
// letting other processes feed the live event stream.
type EventRelay struct {
	client  *redis.Client
	channel string
	pub     Publisher
}

func NewEventRelay(client *redis.Client, channel string, pub Publisher) *EventRelay {
	return &EventRelay{client: client, channel: channel, pub: pub}
}

// Run subscribes and relays until ctx is cancelled or the subscription fails.
func (r *EventRelay) Run(ctx context.Context) error {
	ps := r.client.Subscribe(ctx, r.channel)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}
	logger.Info("redis event relay subscribed", logger.String("channel", r.channel))

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return fmt.Errorf("subscription to %s closed", r.channel)
			}
			r.pub.Publish(RelayEvent(msg.Payload))
		}
	}
}

// RelayEvent wraps a channel payload. Valid JSON is carried as is, anything
// else as a JSON string.
func RelayEvent(payload string) model.Event {
	ev := model.Event{Type: model.EventRelay, Timestamp: time.Now().UnixMilli()}
	if json.Valid([]byte(payload)) {
		ev.Data = json.RawMessage(payload)
		return ev
	}
	raw, _ := json.Marshal(payload)
	ev.Data = raw
	return ev
}

// PublishEvent sends payload on channel for every running relay to pick up.
func PublishEvent(ctx context.Context, client *redis.Client, channel, payload string) (int64, error) {
	receivers, err := client.Publish(ctx, channel, payload).Result()
	if err != nil {
		return 0, fmt.Errorf("publish to %s: %w", channel, err)
	}
	return receivers, nil
}
