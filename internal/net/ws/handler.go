package ws

import (
	"encoding/json"
	"log"
	nethttp "net/http"
	"time"

	"github.com/gorilla/websocket"

	server "cannonade/server"
)

const (
	writeWait     = 10 * time.Second
	pushInterval  = 50 * time.Millisecond
	readSizeLimit = 512
)

type HandlerConfig struct {
	Logger *log.Logger
}

// Handler streams room snapshots to read-only spectators. It carries no
// inputs back into the simulation; game clients keep polling /state.
type Handler struct {
	registry *server.Registry
	logger   *log.Logger
	upgrader websocket.Upgrader
}

func NewHandler(registry *server.Registry, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}
	return &Handler{registry: registry, logger: logger, upgrader: upgrader}
}

func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	roomID := r.URL.Query().Get("roomId")
	if roomID == "" {
		nethttp.Error(w, "missing roomId", nethttp.StatusBadRequest)
		return
	}
	if _, err := h.registry.SpectatorSnapshot(roomID, time.Now()); err != nil {
		nethttp.Error(w, "unknown room", nethttp.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed for room %s: %v", roomID, err)
		return
	}

	done := make(chan struct{})
	go func() {
		// Spectators send nothing meaningful; the read loop only notices
		// the close handshake.
		defer close(done)
		conn.SetReadLimit(readSizeLimit)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pushInterval)
	defer ticker.Stop()
	defer conn.Close()

	for {
		select {
		case <-done:
			return
		case now := <-ticker.C:
			snapshot, err := h.registry.SpectatorSnapshot(roomID, now)
			if err != nil {
				message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "room closed")
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage, message)
				return
			}
			data, err := json.Marshal(snapshot)
			if err != nil {
				h.logger.Printf("failed to marshal snapshot for room %s: %v", roomID, err)
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}
}
