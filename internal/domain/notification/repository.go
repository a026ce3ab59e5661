package notification

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_publisher.go -package=mocks . Publisher

import "github.com/google/uuid"

// Publisher is the engine-facing side of the bus: fire-and-forget
// delivery to every connection currently bound to the user. It returns
// nothing; delivery failure never propagates to the caller.
type Publisher interface {
	Publish(userID uuid.UUID, message *Message)
}

// Bus manages live client connections and per-user delivery. Not
// durable: events published to a user with no bound connection are
// dropped, and clients re-derive missed state from the list endpoints.
type Bus interface {
	Publisher

	Subscribe(client *Client)
	Unsubscribe(clientID string)
	ClientCount() int
	UserConnectionCount(userID uuid.UUID) int
	Stop()
}
