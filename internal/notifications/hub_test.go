package notifications

import (
	"context"
	"testing"

	"bazaar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := NewHub()

	client, err := hub.Register(1, nil)
	require.NoError(t, err)
	assert.True(t, hub.IsOnline(1))
	assert.False(t, hub.IsOnline(2))

	hub.Broadcast(1, `{"type":"comment"}`)
	select {
	case msg := <-client.Send:
		assert.JSONEq(t, `{"type":"comment"}`, string(msg))
	default:
		t.Fatal("expected a buffered message")
	}

	// Messages for other users do not reach this client
	hub.Broadcast(2, `{"type":"noise"}`)
	select {
	case <-client.Send:
		t.Fatal("unexpected message for another user")
	default:
	}

	hub.UnregisterClient(client)
	assert.False(t, hub.IsOnline(1))
	// Double unregister is safe
	hub.UnregisterClient(client)
}

func TestHub_PerUserConnectionLimit(t *testing.T) {
	hub := NewHub()

	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register(7, nil)
		require.NoError(t, err)
	}
	_, err := hub.Register(7, nil)
	assert.Error(t, err)

	// Other users are unaffected
	_, err = hub.Register(8, nil)
	assert.NoError(t, err)
}

func TestHub_BroadcastFanOut(t *testing.T) {
	hub := NewHub()

	first, err := hub.Register(3, nil)
	require.NoError(t, err)
	second, err := hub.Register(3, nil)
	require.NoError(t, err)

	hub.Broadcast(3, "ping")
	for _, c := range []*Client{first, second} {
		select {
		case msg := <-c.Send:
			assert.Equal(t, "ping", string(msg))
		default:
			t.Fatal("expected fan-out to every connection")
		}
	}
}

func TestDispatch_LocalFallbackWithoutRedis(t *testing.T) {
	hub := NewHub()
	client, err := hub.Register(5, nil)
	require.NoError(t, err)

	notify := Dispatch(hub, NewNotifier(nil))
	notify(context.Background(), &models.Notification{
		ID:     1,
		UserID: 5,
		Type:   models.NotificationPurchaseRequest,
	})

	select {
	case msg := <-client.Send:
		assert.Contains(t, string(msg), models.NotificationPurchaseRequest)
	default:
		t.Fatal("expected local delivery when redis is disabled")
	}
}

func TestNotifier_UserChannel(t *testing.T) {
	assert.Equal(t, "notifications:user:42", UserChannel(42))
}
