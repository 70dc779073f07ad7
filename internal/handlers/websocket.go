package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/magstudio/internal/common"
	"github.com/ternarybob/magstudio/internal/interfaces"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// WSMessage is the envelope of every message pushed to studio clients
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// HelloPayload is sent once per connection
type HelloPayload struct {
	ServerInstanceID string `json:"serverInstanceId"`
	Version          string `json:"version"`
}

const (
	defaultClientQueue = 64
	defaultWriteWait   = 10 * time.Second
)

// wsClient owns one connection. Messages are queued and written by a single
// writer goroutine so a slow client never blocks the publisher.
type wsClient struct {
	conn      *websocket.Conn
	queue     chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func (c *wsClient) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// WebSocketHandler streams generation state, slide changes and relayed interactions to clients
type WebSocketHandler struct {
	logger           arbor.ILogger
	clients          map[*websocket.Conn]*wsClient
	mu               sync.RWMutex
	eventService     interfaces.EventService
	relayThrottler   *rate.Limiter // nil = no throttling
	serverInstanceID string        // clients use it to detect a server restart
	queueSize        int
	writeWait        time.Duration
}

func NewWebSocketHandler(eventService interfaces.EventService, logger arbor.ILogger, config *common.WebSocketConfig) *WebSocketHandler {
	h := &WebSocketHandler{
		logger:           logger,
		clients:          make(map[*websocket.Conn]*wsClient),
		eventService:     eventService,
		serverInstanceID: uuid.New().String(),
		queueSize:        defaultClientQueue,
		writeWait:        defaultWriteWait,
	}

	if config != nil && config.ThrottleInterval != "" {
		if duration, err := time.ParseDuration(config.ThrottleInterval); err == nil && duration > 0 {
			h.relayThrottler = rate.NewLimiter(rate.Every(duration), 1)
			logger.Debug().
				Str("interval", config.ThrottleInterval).
				Msg("Throttler initialized for interaction_relayed events")
		} else {
			logger.Warn().
				Err(err).
				Str("interval", config.ThrottleInterval).
				Msg("Failed to parse throttle interval - throttler disabled")
		}
	}

	logger.Info().Str("server_instance_id", h.serverInstanceID).Msg("WebSocket handler initialized")

	if eventService != nil {
		h.SubscribeToStudioEvents()
	}

	return h
}

// HandleWebSocket handles WebSocket connections
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	client := &wsClient{
		conn:  conn,
		queue: make(chan []byte, h.queueSize),
		done:  make(chan struct{}),
	}

	// Hello is queued before registration so it always precedes broadcasts
	if data, err := json.Marshal(WSMessage{
		Type: "hello",
		Payload: HelloPayload{
			ServerInstanceID: h.serverInstanceID,
			Version:          common.GetVersion(),
		},
	}); err == nil {
		client.queue <- data
	}

	h.mu.Lock()
	h.clients[conn] = client
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug().Msgf("WebSocket client connected (total: %d)", clientCount)

	common.SafeGo(h.logger, "websocket-writer", func() { h.writeLoop(client) })

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		clientCount := len(h.clients)
		h.mu.Unlock()

		client.close()
		h.logger.Debug().Msgf("WebSocket client disconnected (remaining: %d)", clientCount)
	}()

	// Read messages from client (keep connection alive)
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn().Err(err).Msg("WebSocket error")
			}
			break
		}
	}
}

// SubscribeToStudioEvents forwards studio events to connected clients.
// State transitions are never throttled so clients always observe the terminal state.
func (h *WebSocketHandler) SubscribeToStudioEvents() {
	forward := func(eventType interfaces.EventType, throttler *rate.Limiter) {
		err := h.eventService.Subscribe(eventType, func(ctx context.Context, event interfaces.Event) error {
			if throttler != nil && !throttler.Allow() {
				return nil
			}
			h.Broadcast(WSMessage{Type: string(event.Type), Payload: event.Payload})
			return nil
		})
		if err != nil {
			h.logger.Warn().Err(err).Str("event_type", string(eventType)).Msg("Failed to subscribe WebSocket handler")
		}
	}

	forward(interfaces.EventGenerationState, nil)
	forward(interfaces.EventSlidesChanged, nil)
	forward(interfaces.EventInteractionRelayed, h.relayThrottler)
}

// Broadcast queues a message for every connected client without blocking.
// A client whose queue is full is disconnected.
func (h *WebSocketHandler) Broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Str("type", msg.Type).Msg("Failed to marshal WebSocket message")
		return
	}

	h.mu.RLock()
	clients := make([]*wsClient, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.queue <- data:
		case <-client.done:
		default:
			h.logger.Warn().Str("type", msg.Type).Msg("WebSocket client queue full - dropping client")
			client.close()
		}
	}
}

// ClientCount returns the number of connected clients
func (h *WebSocketHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// writeLoop drains the client queue. Every write carries a deadline; a failed
// write closes the connection, which ends the read loop and unregisters the client.
func (h *WebSocketHandler) writeLoop(client *wsClient) {
	for {
		select {
		case <-client.done:
			return
		case data := <-client.queue:
			client.conn.SetWriteDeadline(time.Now().Add(h.writeWait))
			if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Warn().Err(err).Msg("Failed to send message to client - closing connection")
				client.close()
				return
			}
		}
	}
}
