package messaging

import "fmt"

const broadcastSubject = "arena.state"

// ArenaPublisher routes room output over NATS: point-to-point messages go
// to per-session subjects, broadcasts to the shared arena subject.
type ArenaPublisher struct {
	server *NatsServer
}

func NewArenaPublisher(server *NatsServer) *ArenaPublisher {
	return &ArenaPublisher{server: server}
}

func (p *ArenaPublisher) SendTo(sessionId string, data []byte) error {
	return p.server.Publish(SessionSubject(sessionId), data)
}

func (p *ArenaPublisher) Broadcast(data []byte) error {
	return p.server.Publish(broadcastSubject, data)
}

// SessionSubject is the point-to-point subject for one session. Listeners
// subscribe to it to receive targeted room messages.
func SessionSubject(sessionId string) string {
	return fmt.Sprintf("session-%s", sessionId)
}

// BroadcastSubject is the room-wide subject every listener subscribes to.
func BroadcastSubject() string {
	return broadcastSubject
}
