package devicesim

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"sensor_dashboard/internal/logger"
)

const writeWait = 5 * time.Second

// hub tracks push subscribers. Writes to every connection happen under mu,
// so a connection never has two concurrent writers.
type hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
	log   *logger.Logger
}

func newHub(log *logger.Logger) *hub {
	return &hub{conns: make(map[*websocket.Conn]struct{}), log: log}
}

func (h *hub) add(c *websocket.Conn) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
}

func (h *hub) remove(c *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
}

func (h *hub) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// broadcast sends v as one text frame to every subscriber, dropping the
// ones that fail.
func (h *hub) broadcast(v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		h.log.Errorw("push_marshal_failed", "err", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		_ = c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.Warnw("push_client_removed", "remote", c.RemoteAddr().String(), "err", err)
			_ = c.Close()
			delete(h.conns, c)
		}
	}
}

// sendRaw writes an arbitrary frame to every subscriber. Tests use it to
// inject malformed payloads.
func (h *hub) sendRaw(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		_ = c.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.WriteMessage(websocket.TextMessage, msg)
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	deadline := time.Now().Add(writeWait)
	for c := range h.conns {
		_ = c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown"), deadline)
		_ = c.Close()
		delete(h.conns, c)
	}
}
