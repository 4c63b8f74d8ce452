package listener

import (
	"context"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pixil98/go-arena/internal/messaging"
	"github.com/pixil98/go-arena/internal/room"
	"github.com/pixil98/go-log"
)

// ConnectionManager runs one websocket session against the room: it wires
// the session's NATS subjects to the socket, feeds decoded client messages
// into the room, and reports the leave when the socket goes away.
type ConnectionManager struct {
	room *room.Room
	msgs *messaging.NatsServer
}

func NewConnectionManager(r *room.Room, msgs *messaging.NatsServer) *ConnectionManager {
	return &ConnectionManager{
		room: r,
		msgs: msgs,
	}
}

func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn *websocket.Conn, name, tabId string) {
	logger := log.GetLogger(ctx)

	sessionId := uuid.New().String()
	ws := newConn(conn)

	forward := func(data []byte) {
		if err := ws.Send(data); err != nil {
			logger.Warnf("writing to session %s: %s", sessionId, err)
		}
	}

	unsubSession, err := m.msgs.Subscribe(messaging.SessionSubject(sessionId), forward)
	if err != nil {
		logger.Errorf("subscribing session subject: %s", err)
		return
	}
	defer unsubSession()

	unsubState, err := m.msgs.Subscribe(messaging.BroadcastSubject(), forward)
	if err != nil {
		logger.Errorf("subscribing broadcast subject: %s", err)
		return
	}
	defer unsubState()

	m.room.Join(sessionId, name, tabId)

	// A leave is consented only when the client says goodbye; a read error
	// is a network drop and gets the room's grace period.
	consented := false

read:
	for {
		select {
		case <-ctx.Done():
			break read
		default:
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			break read
		}

		msg, err := room.DecodeMessage(data)
		if err != nil {
			logger.Warnf("dropping message from session %s: %s", sessionId, err)
			continue
		}

		switch msg := msg.(type) {
		case room.InputMessage:
			m.room.HandleInput(sessionId, msg)
		case room.AddAIMessage:
			m.room.AddAI(msg.Team)
		case room.LeaveMessage:
			consented = true
			break read
		}
	}

	m.room.Leave(sessionId, consented)
}
