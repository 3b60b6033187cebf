package ws

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	gorillawebsocket "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Handler upgrades HTTP requests to alarm-subscription WebSocket connections.
type Handler struct {
	hub           *Hub
	authenticator *Authenticator
	upgrader      gorillawebsocket.Upgrader
	logger        zerolog.Logger
}

// NewHandler creates a Handler bound to the given hub and authenticator.
// Cross-origin upgrades are only allowed in development mode; otherwise the
// upgrader enforces gorilla's same-origin default.
func NewHandler(hub *Hub, authenticator *Authenticator, logger zerolog.Logger) *Handler {
	h := &Handler{
		hub:           hub,
		authenticator: authenticator,
		logger:        logger,
		upgrader: gorillawebsocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	if authenticator.devMode {
		h.upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}
	return h
}

// RegisterRoutes registers the alarm subscription endpoint on the group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/ws/alarms", h.HandleConnect)
}

// HandleConnect authenticates and accepts a streaming subscriber. The token
// travels as a ?token= query parameter. A rejected handshake closes the
// socket with one of the stable close codes before any application data
// flows; an accepted one registers the client with the hub and serves the
// keepalive loop until the peer disconnects.
func (h *Handler) HandleConnect(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	identity, rejection := h.authenticator.Authenticate(c.QueryParam("token"))
	if rejection != nil {
		deadline := time.Now().Add(5 * time.Second)
		conn.WriteControl(gorillawebsocket.CloseMessage,
			gorillawebsocket.FormatCloseMessage(rejection.Code, rejection.Reason), deadline)
		conn.Close()
		return nil
	}

	client := NewClient(uuid.New().String(), identity, conn)
	h.hub.Register(client)
	h.logger.Info().
		Str("client_id", client.ID).
		Str("subject", identity.Subject).
		Msg("ws: alarm subscriber connected")

	go h.readLoop(client, conn)
	return nil
}

// readLoop serves keepalives and unregisters the client on disconnect. A
// text frame "ping" is answered with "pong"; every other frame is ignored,
// reserved for future filtering (for example by patient id).
func (h *Handler) readLoop(client *Client, conn *gorillawebsocket.Conn) {
	defer func() {
		h.hub.Unregister(client)
		h.logger.Info().
			Str("client_id", client.ID).
			Msg("ws: alarm subscriber disconnected")
	}()

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType == gorillawebsocket.TextMessage && string(message) == "ping" {
			if err := client.Send([]byte("pong")); err != nil {
				return
			}
		}
	}
}
