package notification

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Event names carried on the wire to connected clients.
const (
	EventNewSwapRequest    = "newSwapRequest"
	EventSwapRequestUpdate = "swapRequestUpdate"
)

var (
	ErrChannelFull = errors.New("client message channel full")
)

// Message is one event delivered to a client connection.
type Message struct {
	ID        string          `json:"id"`
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a message tagged with the given event name.
func NewMessage(event string, data json.RawMessage) *Message {
	return &Message{
		ID:        uuid.New().String(),
		Event:     event,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// Client represents one live connection bound to a user's channel. A
// user may have any number of simultaneously bound clients.
type Client struct {
	ClientID    string
	UserID      uuid.UUID
	ConnectedAt time.Time
	MessageChan chan *Message
}

// NewClient creates a client with a buffered message channel. Delivery
// is best-effort: a full buffer drops the message rather than blocking
// the publisher.
func NewClient(clientID string, userID uuid.UUID) *Client {
	return &Client{
		ClientID:    clientID,
		UserID:      userID,
		ConnectedAt: time.Now().UTC(),
		MessageChan: make(chan *Message, 100),
	}
}

// Close closes the client's message channel.
func (c *Client) Close() {
	close(c.MessageChan)
}
