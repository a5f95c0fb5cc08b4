package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/suites-dev/docroute/internal/logging"
)

// writeWait bounds how long a broadcast may block on one slow client.
const writeWait = 10 * time.Second

// ReloadHub tracks connected preview clients and pushes a reload event when
// the redirect table is rebuilt in watch mode.
type ReloadHub struct {
	logger  logging.Logger
	clients map[*websocket.Conn]struct{}
	mutex   sync.Mutex
}

// NewReloadHub creates an empty reload hub.
func NewReloadHub(logger logging.Logger) *ReloadHub {
	return &ReloadHub{
		logger:  logger.WithComponent("reload_hub"),
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Handle upgrades a preview client connection and keeps it registered until
// the client goes away.
func (h *ReloadHub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Warn(r.Context(), err, "WebSocket upgrade failed")
		return
	}

	h.mutex.Lock()
	h.clients[conn] = struct{}{}
	h.mutex.Unlock()

	// Reads are discarded; the connection exists only for server pushes.
	// Read returning an error is how we learn the client disconnected.
	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			break
		}
	}

	h.mutex.Lock()
	delete(h.clients, conn)
	h.mutex.Unlock()
	conn.Close(websocket.StatusNormalClosure, "")
}

// Broadcast sends msg to every connected client, dropping clients whose
// writes fail.
func (h *ReloadHub) Broadcast(ctx context.Context, msg string) {
	h.mutex.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mutex.Unlock()

	for _, conn := range conns {
		writeCtx, cancel := context.WithTimeout(ctx, writeWait)
		err := conn.Write(writeCtx, websocket.MessageText, []byte(msg))
		cancel()

		if err != nil {
			h.mutex.Lock()
			delete(h.clients, conn)
			h.mutex.Unlock()
			conn.Close(websocket.StatusGoingAway, "write failed")
		}
	}
}
