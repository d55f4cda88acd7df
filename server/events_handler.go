package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"tracklist/logger"
	"tracklist/model"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EventsHandler upgrades to a WebSocket and streams broadcast events until
// the client goes away or a write fails. Incoming messages are ignored.
func (h *APIHandler) EventsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", logger.ErrorField(err))
		return
	}
	defer conn.Close()

	listener := h.events.Subscribe()
	defer h.events.Unsubscribe(listener)

	// the request context is cancelled on server shutdown via BaseContext
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	logger.Info("live connection opened",
		logger.String("listener", listener.ID),
		logger.String("remote", r.RemoteAddr))

	// 如果是调试模式，通知前端以便后端退出时关闭窗口
	if h.cfg.DebugMode {
		if err := writeJSON(conn, model.DebugMarker{DebugMode: true}); err != nil {
			logger.Warn("failed to send debug marker", logger.ErrorField(err))
			return
		}
	}

	go readPump(conn, cancel)
	go pingPump(ctx, conn)

	for {
		ev, err := listener.Next(ctx)
		if err != nil {
			break
		}
		if err := writeJSON(conn, ev); err != nil {
			logger.Warn("failed to send websocket message",
				logger.ErrorField(err),
				logger.String("listener", listener.ID))
			break
		}
	}

	logger.Info("live connection closed",
		logger.String("listener", listener.ID),
		logger.Uint64("dropped", listener.Dropped()))
}

func writeJSON(conn *websocket.Conn, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// readPump drains the client side so close frames and pongs are processed,
// and cancels the connection once reading fails.
func readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(4096)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket read error", logger.ErrorField(err))
			}
			return
		}
	}
}

// pingPump uses WriteControl, which may run concurrently with WriteMessage.
func pingPump(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
