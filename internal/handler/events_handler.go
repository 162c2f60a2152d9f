package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"synthdata-wizard-api/internal/service"
	"synthdata-wizard-api/internal/wizard"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type eventClient struct {
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// EventHub fans session events out to websocket subscribers. It implements
// wizard.Publisher; a slow subscriber drops events instead of blocking the
// session.
type EventHub struct {
	clients   map[string]map[*eventClient]bool
	clientsMu sync.RWMutex
	logger    *zap.Logger
}

func NewEventHub(logger *zap.Logger) *EventHub {
	return &EventHub{
		clients: make(map[string]map[*eventClient]bool),
		logger:  logger,
	}
}

// Publish delivers the event to every subscriber of its session. A
// session.closed event also disconnects them.
func (h *EventHub) Publish(event wizard.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Warn("Failed to encode event", zap.String("type", event.Type), zap.Error(err))
		return
	}

	h.clientsMu.RLock()
	for client := range h.clients[event.SessionID] {
		select {
		case client.send <- payload:
		default:
			h.logger.Debug("Subscriber buffer full, event dropped",
				zap.String("sessionId", event.SessionID),
				zap.String("type", event.Type))
		}
	}
	h.clientsMu.RUnlock()

	if event.Type == wizard.EventSessionClosed {
		h.closeSession(event.SessionID)
	}
}

// Subscribers returns the number of connected subscribers of a session
func (h *EventHub) Subscribers(sessionID string) int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients[sessionID])
}

func (h *EventHub) register(client *eventClient) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	if h.clients[client.sessionID] == nil {
		h.clients[client.sessionID] = make(map[*eventClient]bool)
	}
	h.clients[client.sessionID][client] = true
}

func (h *EventHub) unregister(client *eventClient) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	if clients, ok := h.clients[client.sessionID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			close(client.send)
			if len(clients) == 0 {
				delete(h.clients, client.sessionID)
			}
		}
	}
}

func (h *EventHub) closeSession(sessionID string) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for client := range h.clients[sessionID] {
		close(client.send)
	}
	delete(h.clients, sessionID)
}

type EventsHandler struct {
	wizardService service.WizardService
	hub           *EventHub
	logger        *zap.Logger
}

func NewEventsHandler(wizardService service.WizardService, hub *EventHub, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{
		wizardService: wizardService,
		hub:           hub,
		logger:        logger,
	}
}

// Subscribe godoc
// @Summary      세션 이벤트 구독 (WebSocket)
// @Tags         sessions
// @Param        sessionId path string true "Session ID"
// @Success      101
// @Failure      404 {object} response.ErrorResponse
// @Router       /sessions/{sessionId}/events [get]
func (h *EventsHandler) Subscribe(c *gin.Context) {
	session, err := h.wizardService.GetSession(c.Param("sessionId"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection", zap.Error(err))
		return
	}

	client := &eventClient{
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
		sessionID: session.ID(),
	}
	h.hub.register(client)

	go h.writePump(client)
	go h.readPump(client)
}

// readPump only services control frames; subscribers do not send commands
func (h *EventsHandler) readPump(client *eventClient) {
	defer func() {
		h.hub.unregister(client)
		client.conn.Close()
	}()

	client.conn.SetReadLimit(maxMessageSize)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("WebSocket error", zap.String("sessionId", client.sessionID), zap.Error(err))
			}
			return
		}
	}
}

func (h *EventsHandler) writePump(client *eventClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
