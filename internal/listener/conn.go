package listener

import (
	"sync"

	"github.com/gorilla/websocket"
)

// conn serializes writes to a websocket connection. NATS subscription
// callbacks and the session goroutine both write to the socket, and
// gorilla/websocket allows only one concurrent writer.
type conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func newConn(ws *websocket.Conn) *conn {
	return &conn{ws: ws}
}

func (c *conn) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, data)
}
