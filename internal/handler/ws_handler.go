package handler

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/dishalabs/disha-gateway/internal/store"
	"github.com/dishalabs/disha-gateway/internal/stream"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler handles WebSocket result streaming.
type WSHandler struct {
	registry *store.ResultRegistry
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(registry *store.ResultRegistry, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		registry: registry,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// ResultStream godoc
// WS /ws/v1/results/:session_id/stream
// Upgrades to WebSocket and pushes one state message per result session
// transition. After a terminal state the final message is delivered and
// the connection closes.
func (h *WSHandler) ResultStream(c *gin.Context) {
	engine, ok := h.registry.Get(c.Param("session_id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown result session"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("session_id", engine.SessionID()).Logger()
	wsLog.Info().Msg("Result stream connected")

	updates, unsubscribe := engine.Watch()
	defer unsubscribe()

	// One writer at a time: the reader goroutine answers pings while the
	// main loop pushes state messages.
	var writeMu sync.Mutex
	write := func(v interface{}) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return stream.WriteTyped(conn, v)
	}

	// Reader goroutine: handles ping/cancel and detects the client going
	// away. Closing readerDone ends the write loop.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			var msg stream.RequestEnvelope
			if err := stream.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				} else {
					wsLog.Debug().Msg("Connection closed")
				}
				return
			}

			switch msg.Action {
			case stream.ActionPing:
				write(stream.PongMessage{Event: stream.EventPong})
			case stream.ActionCancel:
				engine.Stop()
			default:
				wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
				write(stream.ErrorMessage{Event: stream.EventError, Error: "unknown action: " + string(msg.Action)})
			}
		}
	}()

	for {
		select {
		case snap, open := <-updates:
			if !open {
				wsLog.Info().Msg("Result stream finished")
				return
			}
			if err := write(stream.StateOf(snap)); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed")
				return
			}
		case <-readerDone:
			return
		}
	}
}
