package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/slotswap/slotswap/internal/domain/notification"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 50 * time.Second
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Token auth is the access control; browser clients connect from
	// any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsClientMessage is an inbound frame from a connected client. markAsRead
// is the only recognized type.
type wsClientMessage struct {
	Type       string      `json:"type"`
	RequestIDs []uuid.UUID `json:"requestIds,omitempty"`
}

// wsEndpoint binds a WebSocket connection to the caller's notification
// channel. Authentication happens before the upgrade so an invalid token
// gets a plain 401 instead of a broken socket.
func (s *Server) wsEndpoint(w http.ResponseWriter, r *http.Request) {
	u, err := s.authSvc.Authenticate(r.Context(), extractToken(r))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := notification.NewClient(uuid.New().String(), u.UserID)
	s.hub.Subscribe(client)

	s.logger.Info().
		Str("client_id", client.ClientID).
		Str("user_id", u.UserID.String()).
		Msg("websocket connected")

	go s.wsWriteLoop(conn, client)
	s.wsReadLoop(conn, client)
}

// wsReadLoop consumes inbound frames until the connection drops. It owns
// the connection teardown: Unsubscribe closes the message channel, which
// in turn stops the write loop.
func (s *Server) wsReadLoop(conn *websocket.Conn, client *notification.Client) {
	defer func() {
		s.hub.Unsubscribe(client.ClientID)
		_ = conn.Close()
	}()

	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug().Err(err).Str("client_id", client.ClientID).Msg("websocket closed")
			}
			return
		}
		var msg wsClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Debug().Err(err).Str("client_id", client.ClientID).Msg("ignoring malformed frame")
			continue
		}
		switch msg.Type {
		case "markAsRead":
			if err := s.negotiationSvc.AcknowledgeRead(context.Background(), client.UserID, msg.RequestIDs); err != nil {
				s.logger.Warn().Err(err).Str("client_id", client.ClientID).Msg("mark-as-read failed")
			}
		default:
			s.logger.Debug().Str("type", msg.Type).Str("client_id", client.ClientID).Msg("ignoring unknown frame type")
		}
	}
}

// wsWriteLoop pumps the client's message channel onto the socket and
// keeps the connection alive with pings. It exits when the channel is
// closed by Unsubscribe or a write fails.
func (s *Server) wsWriteLoop(conn *websocket.Conn, client *notification.Client) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.MessageChan:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
