// Package notifications provides real-time notification delivery over
// websockets, with Redis pub/sub fan-out between instances.
package notifications

import (
	"context"
	"encoding/json"
	"log"
	"runtime/debug"
	"strconv"

	"bazaar/internal/middleware"
	"bazaar/internal/models"

	"github.com/redis/go-redis/v9"
)

// Notifier publishes notification payloads into per-user Redis channels.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Enabled reports whether Redis pub/sub fan-out is available.
func (n *Notifier) Enabled() bool {
	return n.rdb != nil
}

// PublishUser sends a notification payload to a user's channel.
func (n *Notifier) PublishUser(ctx context.Context, userID uint, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// StartPatternSubscriber subscribes to pattern `notifications:user:*` and calls
// onMessage for each incoming message. onMessage receives channel and payload.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "notifications:user:*")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in PatternSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return "notifications:user:" + strconv.FormatUint(uint64(userID), 10)
}

// Dispatch serializes a stored notification and delivers it to the
// recipient's open websockets. With Redis available it goes through pub/sub
// so every instance fans out; otherwise it is broadcast locally. Delivery is
// best effort, the notification is already persisted.
func Dispatch(hub *Hub, notifier *Notifier) func(ctx context.Context, n *models.Notification) {
	return func(ctx context.Context, n *models.Notification) {
		payload, err := json.Marshal(n)
		if err != nil {
			log.Printf("failed to marshal notification %d: %v", n.ID, err)
			return
		}
		middleware.NotificationsPublished.WithLabelValues(n.Type).Inc()

		if notifier != nil && notifier.Enabled() {
			if err := notifier.PublishUser(ctx, n.UserID, string(payload)); err == nil {
				return
			}
		}
		if hub != nil {
			hub.Broadcast(n.UserID, string(payload))
		}
	}
}
