package listener

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pixil98/go-log"
	"github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebsocketListener struct {
	port uint16
	cm   *ConnectionManager
}

func NewWebsocketListener(port uint16, cm *ConnectionManager) *WebsocketListener {
	return &WebsocketListener{
		port: port,
		cm:   cm,
	}
}

func (l *WebsocketListener) Start(ctx context.Context) error {
	// Connections share a context that outlives individual requests but is
	// canceled together on shutdown.
	connCtx, cancelConns := context.WithCancel(context.Background())

	handler := &wsHandler{
		cm:      l.cm,
		logger:  log.GetLogger(ctx),
		connCtx: log.SetLogger(connCtx, log.GetLogger(ctx)),
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/ws", handler.handle)

	svr := &http.Server{
		Addr:    fmt.Sprintf(":%d", l.port),
		Handler: router,
	}

	// done signals that Start is returning (either success or failure)
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			_ = svr.Shutdown(context.Background())
			cancelConns()
			handler.wg.Wait()
		case <-done:
			// Start returned (likely with error) - nothing to stop
		}
	}()

	err := svr.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("port %d is already in use (another server running?)", l.port)
		}
		return fmt.Errorf("serving websocket on port %d: %w", l.port, err)
	}

	return nil
}

type wsHandler struct {
	wg      sync.WaitGroup
	cm      *ConnectionManager
	logger  logrus.FieldLogger
	connCtx context.Context
}

func (h *wsHandler) handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warnf("upgrading connection: %s", err)
		return
	}

	h.wg.Add(1)
	defer h.wg.Done()
	defer func() {
		if err := conn.Close(); err != nil {
			h.logger.Debugf("closing websocket connection: %s", err)
		}
	}()

	name := c.Query("name")
	tabId := c.Query("persistentPlayerId")

	h.cm.AcceptConnection(h.connCtx, conn, name, tabId)
}
