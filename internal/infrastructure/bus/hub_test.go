package bus

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slotswap/slotswap/internal/domain/notification"
)

func TestPublishReachesEveryUserConnection(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	defer hub.Stop()

	userID := uuid.New()
	c1 := notification.NewClient("c1", userID)
	c2 := notification.NewClient("c2", userID)
	other := notification.NewClient("c3", uuid.New())
	hub.Subscribe(c1)
	hub.Subscribe(c2)
	hub.Subscribe(other)

	msg := notification.NewMessage(notification.EventNewSwapRequest, json.RawMessage(`{}`))
	hub.Publish(userID, msg)

	for _, c := range []*notification.Client{c1, c2} {
		select {
		case got := <-c.MessageChan:
			assert.Equal(t, msg.ID, got.ID)
		default:
			t.Fatalf("client %s did not receive the message", c.ClientID)
		}
	}
	select {
	case <-other.MessageChan:
		t.Fatal("message leaked to another user's connection")
	default:
	}
}

func TestPublishToAbsentUserIsNoop(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	defer hub.Stop()
	hub.Publish(uuid.New(), notification.NewMessage(notification.EventSwapRequestUpdate, json.RawMessage(`{}`)))
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	defer hub.Stop()

	userID := uuid.New()
	c := notification.NewClient("slow", userID)
	hub.Subscribe(c)

	payload := json.RawMessage(`{}`)
	for i := 0; i < cap(c.MessageChan)+10; i++ {
		hub.Publish(userID, notification.NewMessage(notification.EventNewSwapRequest, payload))
	}
	// The publisher never blocked and the buffer holds exactly its capacity.
	assert.Equal(t, cap(c.MessageChan), len(c.MessageChan))
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	defer hub.Stop()

	userID := uuid.New()
	c := notification.NewClient("c1", userID)
	hub.Subscribe(c)
	require.Equal(t, 1, hub.ClientCount())
	require.Equal(t, 1, hub.UserConnectionCount(userID))

	hub.Unsubscribe("c1")
	assert.Equal(t, 0, hub.ClientCount())
	assert.Equal(t, 0, hub.UserConnectionCount(userID))

	// Second call and unknown ids are no-ops.
	hub.Unsubscribe("c1")
	hub.Unsubscribe("ghost")

	_, open := <-c.MessageChan
	assert.False(t, open, "channel should be closed after unsubscribe")
}

func TestStopClosesAllClients(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	c1 := notification.NewClient("c1", uuid.New())
	c2 := notification.NewClient("c2", uuid.New())
	hub.Subscribe(c1)
	hub.Subscribe(c2)

	hub.Stop()
	assert.Equal(t, 0, hub.ClientCount())
	for _, c := range []*notification.Client{c1, c2} {
		_, open := <-c.MessageChan
		assert.False(t, open)
	}
}
